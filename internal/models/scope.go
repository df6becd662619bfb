package models

import "fmt"

// Scope partitions projects, bots and report storage into two parallel
// namespaces. A bot may additionally declare ScopeBoth to run against either.
type Scope string

const (
	ScopeTeam     Scope = "team"
	ScopePersonal Scope = "personal"
	ScopeBoth     Scope = "both"
)

// ParseScope parses a user-supplied scope string
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeTeam, ScopePersonal, ScopeBoth:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid scope %q (expected team, personal or both)", s)
}

// Matches reports whether a bot scope accepts a project scope
func (s Scope) Matches(project Scope) bool {
	return s == ScopeBoth || s == project
}
