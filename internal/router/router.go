// Package router maps user input, either an explicit CLI/API invocation or a
// free-text utterance, onto a bot id and a registered project. Resolution is
// stateless: every call depends only on the current registry snapshot and the
// single input.
package router

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

// Resolution is a fully resolved invocation target
type Resolution struct {
	BotID   string
	Project projects.Project
	Scope   models.Scope
	Params  models.RunParams
}

// AmbiguityError carries the candidate list when resolution cannot pick a
// single bot or project. The router never guesses.
type AmbiguityError struct {
	Query             string
	BotCandidates     []string
	ProjectCandidates []projects.Project
}

func (e *AmbiguityError) Error() string {
	if len(e.BotCandidates) > 0 {
		return fmt.Sprintf("request %q matches several bots (%s); please name one",
			e.Query, strings.Join(e.BotCandidates, ", "))
	}
	names := make([]string, 0, len(e.ProjectCandidates))
	for _, p := range e.ProjectCandidates {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Scope))
	}
	return fmt.Sprintf("project %q is ambiguous between %s; please be more specific",
		e.Query, strings.Join(names, ", "))
}

// Router resolves invocations against the registries
type Router struct {
	registry *projects.Registry
	logger   *zap.Logger
}

// New creates a router over the given project registry
func New(registry *projects.Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{registry: registry, logger: logger}
}

// ResolveExplicit validates a directly named bot and project. scopeHint may
// be empty; the bot's own scope and the registry contents disambiguate.
func (r *Router) ResolveExplicit(botID, projectName string, scopeHint models.Scope, params models.RunParams) (Resolution, error) {
	meta, err := bots.Get(botID)
	if err != nil {
		return Resolution{}, err
	}

	project, err := r.lookupProject(projectName, scopeHint, meta.Scope)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		BotID:   meta.ID,
		Project: project,
		Scope:   project.Scope,
		Params:  params,
	}, nil
}

// lookupProject finds a project by exact name, using the scope hint and then
// the bot scope to disambiguate between the two namespaces
func (r *Router) lookupProject(name string, scopeHint, botScope models.Scope) (projects.Project, error) {
	if scopeHint == models.ScopeTeam || scopeHint == models.ScopePersonal {
		return r.registry.Get(name, scopeHint)
	}

	teamProj, teamErr := r.registry.Get(name, models.ScopeTeam)
	persProj, persErr := r.registry.Get(name, models.ScopePersonal)

	switch {
	case teamErr == nil && persErr != nil:
		return teamProj, nil
	case teamErr != nil && persErr == nil:
		return persProj, nil
	case teamErr != nil && persErr != nil:
		return projects.Project{}, &projects.NotFoundError{Name: name, Scope: models.ScopeTeam}
	}

	// Registered in both scopes; a scoped bot settles it.
	switch botScope {
	case models.ScopeTeam:
		return teamProj, nil
	case models.ScopePersonal:
		return persProj, nil
	}
	return projects.Project{}, &AmbiguityError{
		Query:             name,
		ProjectCandidates: []projects.Project{teamProj, persProj},
	}
}

// botKeywords drives the natural-language bot hint. Scoring is deliberately
// simple keyword association; anything without a clear winner is surfaced as
// an ambiguity instead of guessed.
var botKeywords = map[string][]string{
	"gitbot":     {"commit", "commits", "history", "git", "changes", "changelog", "activity"},
	"qabot":      {"test", "tests", "testing", "qa", "suggest", "coverage"},
	"pmbot":      {"issue", "issues", "sprint", "backlog", "plan", "planning", "milestone"},
	"journalbot": {"journal", "diary", "notes", "note", "entries"},
	"taskbot":    {"task", "tasks", "todo", "todos", "checklist"},
	"habitbot":   {"habit", "habits", "goal", "goals", "streak", "tracking"},
}

// personalPhrases bias the scope hint towards personal projects
var personalPhrases = []string{"my journal", "my notes", "my tasks", "my habits", "my goals", "my diary"}

// fillerWords are stripped before the remaining span is treated as the
// project query
var fillerWords = map[string]bool{
	"get": true, "show": true, "me": true, "a": true, "an": true, "the": true,
	"for": true, "of": true, "on": true, "about": true, "analyze": true,
	"analyse": true, "analysis": true, "summarize": true, "summarise": true,
	"summary": true, "report": true, "run": true,
	"generate": true, "create": true, "please": true, "my": true,
	"what": true, "should": true, "i": true, "in": true, "project": true,
	"recent": true, "latest": true, "and": true, "with": true,
}

// ResolveUtterance classifies free text into {bot, project, params}
func (r *Router) ResolveUtterance(utterance string) (Resolution, error) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return Resolution{}, fmt.Errorf("empty request")
	}

	botID, consumed, err := classifyBot(text)
	if err != nil {
		return Resolution{}, err
	}
	meta, _ := bots.Get(botID)

	scopeHint := scopeHintFor(text, meta.Scope)

	query := extractProjectQuery(text, consumed)
	if query == "" {
		return Resolution{}, fmt.Errorf("could not tell which project you mean; try \"%s report for <project>\"", botID)
	}

	project, err := r.matchProject(query, scopeHint)
	if err != nil {
		return Resolution{}, err
	}

	params := models.RunParams{}
	if botID == "pmbot" {
		params.Mode = "analyze"
		if strings.Contains(text, "plan") || strings.Contains(text, "sprint") {
			params.Mode = "plan"
		}
	}

	r.logger.Debug("utterance resolved",
		zap.String("utterance", utterance),
		zap.String("bot", botID),
		zap.String("project", project.Name),
		zap.String("scope", string(project.Scope)))

	return Resolution{
		BotID:   botID,
		Project: project,
		Scope:   project.Scope,
		Params:  params,
	}, nil
}

// classifyBot scores each bot's keyword list against the text. A tie for the
// top score, or no match at all, is an ambiguity.
func classifyBot(text string) (string, []string, error) {
	words := tokenize(text)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	scores := make(map[string]int)
	matched := make(map[string][]string)
	for botID, keywords := range botKeywords {
		for _, kw := range keywords {
			if wordSet[kw] {
				scores[botID]++
				matched[botID] = append(matched[botID], kw)
			}
		}
	}

	best, bestScore := "", 0
	var tied []string
	for botID, score := range scores {
		switch {
		case score > bestScore:
			best, bestScore = botID, score
			tied = []string{botID}
		case score == bestScore:
			tied = append(tied, botID)
		}
	}

	if bestScore == 0 {
		return "", nil, &AmbiguityError{Query: text, BotCandidates: sortedBotIDs()}
	}
	if len(tied) > 1 {
		sort.Strings(tied)
		return "", nil, &AmbiguityError{Query: text, BotCandidates: tied}
	}
	return best, matched[best], nil
}

// scopeHintFor derives a scope hint from personal phrasing and the bot's own
// scope. The hint is soft: matchProject falls back to the other scope when
// only it has a project of that name.
func scopeHintFor(text string, botScope models.Scope) models.Scope {
	for _, phrase := range personalPhrases {
		if strings.Contains(text, phrase) {
			return models.ScopePersonal
		}
	}
	if botScope == models.ScopeTeam || botScope == models.ScopePersonal {
		return botScope
	}
	return ""
}

// extractProjectQuery removes the matched bot keywords and filler words; the
// remaining span is the project query
func extractProjectQuery(text string, consumed []string) string {
	consumedSet := make(map[string]bool, len(consumed))
	for _, kw := range consumed {
		consumedSet[kw] = true
	}
	for botID := range botKeywords {
		consumedSet[botID] = true
	}

	var rest []string
	for _, w := range tokenize(text) {
		if consumedSet[w] || fillerWords[w] {
			continue
		}
		rest = append(rest, w)
	}
	return strings.Join(rest, " ")
}

// matchProject applies the scope hint first, then the whole registry; the
// hint never hides the only project of that name in the other scope.
func (r *Router) matchProject(query string, scopeHint models.Scope) (projects.Project, error) {
	if scopeHint == models.ScopeTeam || scopeHint == models.ScopePersonal {
		m := r.registry.FindInScope(query, scopeHint)
		switch m.Kind {
		case projects.MatchUnique:
			return m.Project, nil
		case projects.MatchAmbiguous:
			return projects.Project{}, &AmbiguityError{Query: query, ProjectCandidates: m.Candidates}
		}
	}

	m := r.registry.Find(query)
	switch m.Kind {
	case projects.MatchUnique:
		return m.Project, nil
	case projects.MatchAmbiguous:
		return projects.Project{}, &AmbiguityError{Query: query, ProjectCandidates: m.Candidates}
	default:
		return projects.Project{}, &projects.NotFoundError{Name: query, Scope: models.ScopeTeam}
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '?', '!', ';', ':', '"', '\'':
			return true
		}
		return false
	})
}

func sortedBotIDs() []string {
	ids := make([]string, 0, len(botKeywords))
	for id := range botKeywords {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
