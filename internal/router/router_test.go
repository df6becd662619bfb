package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

func testRegistry(t *testing.T) *projects.Registry {
	t.Helper()
	reg, err := projects.Load(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, reg.Add(projects.Project{
		Name:  "acme",
		Path:  "/repos/acme",
		Scope: models.ScopeTeam,
		Team:  &projects.TeamDetails{},
	}))
	require.NoError(t, reg.Add(projects.Project{
		Name:     "acme",
		Scope:    models.ScopePersonal,
		Personal: &projects.PersonalDetails{NotesDir: "/notes/acme"},
	}))
	require.NoError(t, reg.Add(projects.Project{
		Name:  "widget-api",
		Path:  "/repos/widget-api",
		Scope: models.ScopeTeam,
		Team:  &projects.TeamDetails{GitLabProjectID: "7"},
	}))
	return reg
}

func TestResolveExplicit(t *testing.T) {
	r := New(testRegistry(t), nil)

	t.Run("simple", func(t *testing.T) {
		res, err := r.ResolveExplicit("gitbot", "widget-api", "", models.RunParams{})
		require.NoError(t, err)
		assert.Equal(t, "gitbot", res.BotID)
		assert.Equal(t, "widget-api", res.Project.Name)
		assert.Equal(t, models.ScopeTeam, res.Scope)
	})

	t.Run("unknown bot", func(t *testing.T) {
		_, err := r.ResolveExplicit("nosuchbot", "widget-api", "", models.RunParams{})
		require.Error(t, err)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := r.ResolveExplicit("gitbot", "ghost", "", models.RunParams{})
		var nf *projects.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("bot scope settles a name registered in both scopes", func(t *testing.T) {
		res, err := r.ResolveExplicit("gitbot", "acme", "", models.RunParams{})
		require.NoError(t, err)
		assert.Equal(t, models.ScopeTeam, res.Scope)

		res, err = r.ResolveExplicit("journalbot", "acme", "", models.RunParams{})
		require.NoError(t, err)
		assert.Equal(t, models.ScopePersonal, res.Scope)
	})

	t.Run("explicit scope hint overrides the bot scope", func(t *testing.T) {
		res, err := r.ResolveExplicit("gitbot", "acme", models.ScopePersonal, models.RunParams{})
		require.NoError(t, err)
		assert.Equal(t, models.ScopePersonal, res.Scope, "the invoker owns the scope check, not the router")
	})
}

func TestResolveUtterance(t *testing.T) {
	r := New(testRegistry(t), nil)

	t.Run("personal phrasing picks the personal project", func(t *testing.T) {
		res, err := r.ResolveUtterance("analyze my notes for acme")
		require.NoError(t, err)
		assert.Equal(t, "journalbot", res.BotID)
		assert.Equal(t, models.ScopePersonal, res.Scope)
	})

	t.Run("git phrasing picks the team project", func(t *testing.T) {
		res, err := r.ResolveUtterance("get git report for acme")
		require.NoError(t, err)
		assert.Equal(t, "gitbot", res.BotID)
		assert.Equal(t, models.ScopeTeam, res.Scope)
	})

	t.Run("matches the explicit call for the same values", func(t *testing.T) {
		fromText, err := r.ResolveUtterance("summarize commits for widget-api")
		require.NoError(t, err)
		explicit, err := r.ResolveExplicit("gitbot", "widget-api", "", models.RunParams{})
		require.NoError(t, err)
		assert.Equal(t, explicit.BotID, fromText.BotID)
		assert.Equal(t, explicit.Project.Name, fromText.Project.Name)
	})

	t.Run("sprint phrasing selects pmbot plan mode", func(t *testing.T) {
		res, err := r.ResolveUtterance("plan the sprint for widget-api issues")
		require.NoError(t, err)
		assert.Equal(t, "pmbot", res.BotID)
		assert.Equal(t, "plan", res.Params.Mode)
	})

	t.Run("issue phrasing defaults to analyze mode", func(t *testing.T) {
		res, err := r.ResolveUtterance("analyze issues for widget-api")
		require.NoError(t, err)
		assert.Equal(t, "pmbot", res.BotID)
		assert.Equal(t, "analyze", res.Params.Mode)
	})

	t.Run("no bot keyword is ambiguous with candidates", func(t *testing.T) {
		_, err := r.ResolveUtterance("do something with widget-api")
		var ambig *AmbiguityError
		require.ErrorAs(t, err, &ambig)
		assert.NotEmpty(t, ambig.BotCandidates)
	})

	t.Run("substring project match", func(t *testing.T) {
		res, err := r.ResolveUtterance("summarize commits for widget")
		require.NoError(t, err)
		assert.Equal(t, "widget-api", res.Project.Name)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := r.ResolveUtterance("summarize commits for ghost-project")
		require.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := r.ResolveUtterance("   ")
		require.Error(t, err)
	})
}

func TestClassifyBot(t *testing.T) {
	t.Run("single keyword", func(t *testing.T) {
		botID, consumed, err := classifyBot("show me the test coverage")
		require.NoError(t, err)
		assert.Equal(t, "qabot", botID)
		assert.Contains(t, consumed, "test")
	})

	t.Run("tie surfaces both candidates", func(t *testing.T) {
		_, _, err := classifyBot("commits and tasks")
		var ambig *AmbiguityError
		require.ErrorAs(t, err, &ambig)
		assert.Equal(t, []string{"gitbot", "taskbot"}, ambig.BotCandidates)
	})

	t.Run("more keywords win the tie", func(t *testing.T) {
		botID, _, err := classifyBot("git commit history and tasks")
		require.NoError(t, err)
		assert.Equal(t, "gitbot", botID)
	})
}
