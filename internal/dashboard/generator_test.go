package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
	"github.com/danieluxury88/BotsTeam/internal/reports"
)

func newFixture(t *testing.T) (*Generator, *projects.Registry, *reports.Store) {
	t.Helper()
	dataRoot := t.TempDir()

	registry, err := projects.Load(dataRoot, nil)
	require.NoError(t, err)
	store := reports.NewStore(dataRoot, nil)

	return New(registry, store, nil), registry, store
}

func TestGenerate(t *testing.T) {
	gen, registry, store := newFixture(t)

	require.NoError(t, registry.Add(projects.Project{
		Name:  "acme",
		Path:  "/tmp/acme",
		Scope: models.ScopeTeam,
		Team:  &projects.TeamDetails{GitLabProjectID: "123"},
	}))
	require.NoError(t, registry.Add(projects.Project{
		Name:     "journal",
		Scope:    models.ScopePersonal,
		Personal: &projects.PersonalDetails{NotesDir: "/tmp/notes"},
	}))

	_, err := store.Save("acme", "gitbot", models.ScopeTeam, "# Git Report\n\nAll quiet this week.\n")
	require.NoError(t, err)
	_, err = store.Save("acme", "qabot", models.ScopeTeam, "# QA Report\n\n⚠️ warning: low test coverage.\n")
	require.NoError(t, err)

	snap := gen.Generate()

	t.Run("bot catalog", func(t *testing.T) {
		assert.Len(t, snap.Bots, 7)
		assert.NotEmpty(t, snap.SnapshotID)
		assert.False(t, snap.UpdatedAt.IsZero())
	})

	t.Run("project enrichment", func(t *testing.T) {
		require.Len(t, snap.Projects, 2)

		byName := make(map[string]ProjectEntry)
		for _, p := range snap.Projects {
			byName[p.Name] = p
		}

		acme := byName["acme"]
		assert.Equal(t, 2, acme.ReportsCount)
		assert.Equal(t, []string{"gitbot", "qabot"}, acme.BotsRun)
		assert.Equal(t, "123", acme.GitLabID)
		require.NotNil(t, acme.LastActivity)

		journal := byName["journal"]
		assert.Equal(t, 0, journal.ReportsCount)
		assert.Nil(t, journal.LastActivity)
	})

	t.Run("report entries", func(t *testing.T) {
		require.Len(t, snap.Reports, 2)
		for _, r := range snap.Reports {
			assert.Equal(t, "acme", r.ProjectID)
			assert.Greater(t, r.SizeBytes, int64(0))
		}
	})

	t.Run("summary and status", func(t *testing.T) {
		statuses := make(map[string]string)
		summaries := make(map[string]string)
		for _, r := range snap.Reports {
			statuses[r.Bot] = r.Status
			summaries[r.Bot] = r.Summary
		}
		assert.Equal(t, "success", statuses["gitbot"])
		assert.Equal(t, "All quiet this week.", summaries["gitbot"], "heading lines are skipped")
		assert.Equal(t, "partial", statuses["qabot"])
	})

	t.Run("stats", func(t *testing.T) {
		assert.Equal(t, Stats{
			TotalProjects:  2,
			ActiveProjects: 1,
			TotalReports:   2,
			TotalBots:      7,
		}, snap.Stats)
	})
}

func TestGenerateSkipsLatestPointer(t *testing.T) {
	gen, registry, store := newFixture(t)

	require.NoError(t, registry.Add(projects.Project{Name: "acme", Path: "/tmp/acme", Scope: models.ScopeTeam}))
	_, err := store.Save("acme", "gitbot", models.ScopeTeam, "# R\n\nbody\n")
	require.NoError(t, err)

	snap := gen.Generate()
	require.Len(t, snap.Reports, 1, "latest.md must not count as a second report")
	assert.NotContains(t, snap.Reports[0].Path, "latest.md")
}

func TestGenerateEmpty(t *testing.T) {
	gen, _, _ := newFixture(t)

	snap := gen.Generate()
	assert.Len(t, snap.Bots, 7)
	assert.Empty(t, snap.Projects)
	assert.Empty(t, snap.Reports)
	assert.Equal(t, 0, snap.Stats.ActiveProjects)
}

func TestWrite(t *testing.T) {
	gen, registry, store := newFixture(t)

	require.NoError(t, registry.Add(projects.Project{Name: "acme", Path: "/tmp/acme", Scope: models.ScopeTeam}))
	_, err := store.Save("acme", "gitbot", models.ScopeTeam, "# R\n\nfailed to fetch remotes.\n")
	require.NoError(t, err)

	snap := gen.Generate()
	outDir := filepath.Join(t.TempDir(), "dashboard")
	require.NoError(t, gen.Write(snap, outDir))

	for _, name := range []string{"bots.json", "projects.json", "reports.json", "stats.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &payload), name)
		assert.Equal(t, snap.SnapshotID, payload["snapshot_id"], name)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "reports.json"))
	require.NoError(t, err)
	var rp struct {
		TotalReports int           `json:"total_reports"`
		Reports      []ReportEntry `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(data, &rp))
	assert.Equal(t, 1, rp.TotalReports)
	require.Len(t, rp.Reports, 1)
	assert.Equal(t, "failed", rp.Reports[0].Status)
}
