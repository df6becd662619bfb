package reports

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieluxury88/BotsTeam/internal/models"
)

func TestStoreSave(t *testing.T) {
	dataRoot := t.TempDir()
	store := NewStore(dataRoot, nil)
	store.now = func() time.Time { return time.Date(2026, 8, 30, 14, 5, 0, 0, time.Local) }

	paths, err := store.Save("acme-api", "gitbot", models.ScopeTeam, "# Report\n\nall good\n")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataRoot, "acme-api", "reports", "gitbot", "2026-08-30-140500.md"), paths.Timestamped)
	assert.Equal(t, filepath.Join(dataRoot, "acme-api", "reports", "gitbot", "latest.md"), paths.Latest)

	latest, err := os.ReadFile(paths.Latest)
	require.NoError(t, err)
	assert.Contains(t, string(latest), "all good")

	t.Run("second save appends history and refreshes latest", func(t *testing.T) {
		store.now = func() time.Time { return time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local) }
		_, err := store.Save("acme-api", "gitbot", models.ScopeTeam, "# Report\n\nnewer\n")
		require.NoError(t, err)

		list, err := store.List("acme-api", "gitbot", models.ScopeTeam)
		require.NoError(t, err)
		require.Len(t, list, 2)

		latest, err := store.Read(paths.Latest)
		require.NoError(t, err)
		assert.Contains(t, latest, "newer")

		first, err := store.Read(paths.Timestamped)
		require.NoError(t, err)
		assert.Contains(t, first, "all good", "history entries are never rewritten")
	})
}

func TestStoreScopeSeparation(t *testing.T) {
	dataRoot := t.TempDir()
	store := NewStore(dataRoot, nil)

	_, err := store.Save("acme", "gitbot", models.ScopeTeam, "team report")
	require.NoError(t, err)
	_, err = store.Save("acme", "journalbot", models.ScopePersonal, "personal report")
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(dataRoot, "acme", "reports", "gitbot"))
	assert.DirExists(t, filepath.Join(dataRoot, "personal", "acme", "reports", "journalbot"))

	teamList, err := store.List("acme", "journalbot", models.ScopeTeam)
	require.NoError(t, err)
	assert.Empty(t, teamList, "personal reports are invisible to the team scope")
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	t.Run("missing directory yields empty list", func(t *testing.T) {
		list, err := store.List("ghost", "gitbot", models.ScopeTeam)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	stamps := []time.Time{
		time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local),
		time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local),
		time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local),
	}
	for _, ts := range stamps {
		ts := ts
		store.now = func() time.Time { return ts }
		_, err := store.Save("acme", "gitbot", models.ScopeTeam, "r")
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		list, err := store.List("acme", "gitbot", models.ScopeTeam)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, 30, list[0].Timestamp.Day())
		assert.Equal(t, 29, list[1].Timestamp.Day())
		assert.Equal(t, 28, list[2].Timestamp.Day())
	})

	t.Run("latest.md and strays are excluded", func(t *testing.T) {
		dir := store.Dir("acme", "gitbot", models.ScopeTeam)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))

		list, err := store.List("acme", "gitbot", models.ScopeTeam)
		require.NoError(t, err)
		assert.Len(t, list, 3, "unparseable names are skipped")
		for _, r := range list {
			assert.NotEqual(t, LatestFileName, filepath.Base(r.Path))
		}
	})
}

func TestStoreSameSecondOverwrites(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	store.now = func() time.Time { return fixed }

	_, err := store.Save("acme", "gitbot", models.ScopeTeam, "first")
	require.NoError(t, err)
	paths, err := store.Save("acme", "gitbot", models.ScopeTeam, "second")
	require.NoError(t, err)

	content, err := store.Read(paths.Timestamped)
	require.NoError(t, err)
	assert.Equal(t, "second", content, "last writer wins within one second")

	list, err := store.List("acme", "gitbot", models.ScopeTeam)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoreLatestWriteFailure(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	store.now = func() time.Time { return time.Date(2026, 8, 30, 11, 0, 0, 0, time.Local) }

	// Occupy the latest.md path with a directory so refreshing it fails
	// after the history file is written.
	latest := store.LatestPath("acme", "gitbot", models.ScopeTeam)
	require.NoError(t, os.MkdirAll(latest, 0755))

	paths, err := store.Save("acme", "gitbot", models.ScopeTeam, "# Report\n\ndurable body\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLatestWrite)

	content, readErr := os.ReadFile(paths.Timestamped)
	require.NoError(t, readErr, "the history file survives a latest.md failure")
	assert.Contains(t, string(content), "durable body")

	list, listErr := store.List("acme", "gitbot", models.ScopeTeam)
	require.NoError(t, listErr)
	assert.Len(t, list, 1)
}
