// Package bots is the single source of truth for bot metadata. Adding a bot
// means appending one BotMeta entry here and registering its analyzer with
// the invoker; the router, CLI and dashboard pick it up from this catalog.
package bots

import (
	"fmt"

	"github.com/danieluxury88/BotsTeam/internal/models"
)

// BotMeta is the static descriptor of a bot's identity and eligibility rules
type BotMeta struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon"`
	Description string        `json:"description"`
	Scope       models.Scope  `json:"scope"`
	// RequiresField names the Project attribute that must be configured for
	// this bot to run (e.g. "notes_dir"); empty means no data-source
	// precondition beyond scope.
	RequiresField string `json:"requires_field,omitempty"`
}

// UnknownBotError is returned when a bot id is not in the catalog
type UnknownBotError struct {
	ID string
}

func (e *UnknownBotError) Error() string {
	return fmt.Sprintf("unknown bot %q (run 'devbot bots' to list available bots)", e.ID)
}

// catalog order determines display order on the dashboard
var catalog = []BotMeta{
	{ID: "gitbot", Name: "GitBot", Icon: "🔍", Description: "Git history analyzer", Scope: models.ScopeTeam},
	{ID: "qabot", Name: "QABot", Icon: "🧪", Description: "Test suggestion and execution", Scope: models.ScopeTeam},
	{ID: "pmbot", Name: "PMBot", Icon: "📊", Description: "Issue analyzer and sprint planner", Scope: models.ScopeTeam, RequiresField: "issue_tracker"},
	{ID: "orchestrator", Name: "Orchestrator", Icon: "🎭", Description: "Conversational bot interface", Scope: models.ScopeTeam},
	{ID: "journalbot", Name: "JournalBot", Icon: "📓", Description: "Personal journal and notes analyzer", Scope: models.ScopePersonal, RequiresField: "notes_dir"},
	{ID: "taskbot", Name: "TaskBot", Icon: "✅", Description: "Personal task list analyzer", Scope: models.ScopePersonal, RequiresField: "task_file"},
	{ID: "habitbot", Name: "HabitBot", Icon: "🔄", Description: "Habit and goal tracking analyzer", Scope: models.ScopePersonal, RequiresField: "habit_file"},
}

var byID = func() map[string]BotMeta {
	m := make(map[string]BotMeta, len(catalog))
	for _, meta := range catalog {
		if _, dup := m[meta.ID]; dup {
			panic(fmt.Sprintf("duplicate bot id %q in catalog", meta.ID))
		}
		m[meta.ID] = meta
	}
	return m
}()

// All returns every registered bot in display order
func All() []BotMeta {
	out := make([]BotMeta, len(catalog))
	copy(out, catalog)
	return out
}

// ByScope returns the bots eligible for the given project scope
// (a bot scoped "both" matches either)
func ByScope(scope models.Scope) []BotMeta {
	var out []BotMeta
	for _, meta := range catalog {
		if meta.Scope.Matches(scope) {
			out = append(out, meta)
		}
	}
	return out
}

// Get looks up a bot by id
func Get(id string) (BotMeta, error) {
	meta, ok := byID[id]
	if !ok {
		return BotMeta{}, &UnknownBotError{ID: id}
	}
	return meta, nil
}
