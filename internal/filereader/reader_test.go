package filereader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieluxury88/BotsTeam/internal/models"
)

func writeFile(t *testing.T, dir, name, content string, modified time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, modified, modified))
	return path
}

func TestReadMarkdownDir(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "old.md", "old entry", now.Add(-72*time.Hour))
	writeFile(t, dir, "new.md", "new entry with more words", now.Add(-time.Hour))
	writeFile(t, dir, "nested/deep.md", "deep entry", now.Add(-48*time.Hour))
	writeFile(t, dir, "ignored.txt", "not markdown", now)

	result := ReadMarkdownDir(dir, ReadOptions{})
	require.Len(t, result.Entries, 3)
	assert.Equal(t, 3, result.TotalFiles)
	assert.Equal(t, "new.md", result.Entries[0].Filename, "newest first")
	assert.Equal(t, "old.md", result.Entries[2].Filename)
	assert.Equal(t, 5, result.Entries[0].WordCount)
	assert.False(t, result.IsEmpty())

	t.Run("max files keeps the newest", func(t *testing.T) {
		result := ReadMarkdownDir(dir, ReadOptions{MaxFiles: 1})
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "new.md", result.Entries[0].Filename)
	})

	t.Run("since filter drops older files", func(t *testing.T) {
		since := now.Add(-24 * time.Hour)
		result := ReadMarkdownDir(dir, ReadOptions{Since: &since})
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "new.md", result.Entries[0].Filename)
	})

	t.Run("missing directory reports an error not a panic", func(t *testing.T) {
		result := ReadMarkdownDir(filepath.Join(dir, "nope"), ReadOptions{})
		assert.True(t, result.IsEmpty())
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "does not exist")
	})

	t.Run("file path instead of directory", func(t *testing.T) {
		result := ReadMarkdownDir(filepath.Join(dir, "new.md"), ReadOptions{})
		assert.True(t, result.IsEmpty())
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "not a directory")
	})
}

func TestReadTaskFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	t.Run("single file", func(t *testing.T) {
		path := writeFile(t, dir, "todo.md", "- [x] done thing\n- [ ] open thing\n", now)
		result := ReadTaskFile(path)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, 1, result.TotalFiles)
		assert.Contains(t, result.Entries[0].Content, "open thing")
	})

	t.Run("directory falls back to markdown scan", func(t *testing.T) {
		taskDir := filepath.Join(dir, "tasks")
		writeFile(t, taskDir, "a.md", "- [ ] a", now)
		writeFile(t, taskDir, "b.md", "- [ ] b", now.Add(-time.Hour))
		result := ReadTaskFile(taskDir)
		assert.Len(t, result.Entries, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		result := ReadTaskFile(filepath.Join(dir, "nope.md"))
		assert.True(t, result.IsEmpty())
		require.NotEmpty(t, result.Errors)
	})
}

func TestReadHabitFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	t.Run("csv is reformatted", func(t *testing.T) {
		csv := "date,exercise,reading\n2026-08-28,x,\n2026-08-29,x,x\n"
		path := writeFile(t, dir, "habits.csv", csv, now)

		result := ReadHabitFile(path)
		require.Len(t, result.Entries, 1)
		content := result.Entries[0].Content
		assert.Contains(t, content, "Habits tracked: exercise, reading")
		assert.Contains(t, content, "Total days logged: 2")
		assert.Contains(t, content, "date: 2026-08-29 | exercise: x | reading: x")
		assert.NotContains(t, content, "2026-08-28,x", "raw CSV rows are not passed through")
	})

	t.Run("markdown is read verbatim", func(t *testing.T) {
		path := writeFile(t, dir, "habits.md", "| day | run |\n|---|---|\n", now)
		result := ReadHabitFile(path)
		require.Len(t, result.Entries, 1)
		assert.Contains(t, result.Entries[0].Content, "| day | run |")
	})

	t.Run("empty csv", func(t *testing.T) {
		path := writeFile(t, dir, "empty.csv", "date,exercise\n", now)
		result := ReadHabitFile(path)
		require.Len(t, result.Entries, 1)
		assert.Contains(t, result.Entries[0].Content, "No habit data found")
	})

	t.Run("missing file", func(t *testing.T) {
		result := ReadHabitFile(filepath.Join(dir, "nope.csv"))
		assert.True(t, result.IsEmpty())
		require.NotEmpty(t, result.Errors)
	})
}

func TestFormatForLLM(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "(no content)", FormatForLLM(nil, 0))
	})

	t.Run("headers carry filename and date", func(t *testing.T) {
		entries := []models.FileEntry{
			models.NewFileEntry("/n/a.md", "a.md", now, "first entry"),
			models.NewFileEntry("/n/b.md", "b.md", now.Add(-24*time.Hour), "second entry"),
		}
		text := FormatForLLM(entries, 0)
		assert.Contains(t, text, "--- a.md (2026-08-29) ---")
		assert.Contains(t, text, "--- b.md (2026-08-28) ---")
		assert.Contains(t, text, "first entry")
		assert.Contains(t, text, "second entry")
	})

	t.Run("budget truncates older entries first", func(t *testing.T) {
		big := strings.Repeat("lorem ipsum ", 200)
		entries := []models.FileEntry{
			models.NewFileEntry("/n/new.md", "new.md", now, big),
			models.NewFileEntry("/n/old.md", "old.md", now.Add(-24*time.Hour), big),
		}
		text := FormatForLLM(entries, 1500)
		assert.Contains(t, text, "new.md")
		assert.NotContains(t, text, "old.md", "older entries are dropped when over budget")
		assert.LessOrEqual(t, len(text), 1500)
	})
}

func TestCountCheckboxes(t *testing.T) {
	entries := []models.FileEntry{
		models.NewFileEntry("/n/t.md", "t.md", time.Now(), strings.Join([]string{
			"# Tasks",
			"- [x] ship release",
			"- [X] write changelog",
			"- [ ] fix flaky test",
			"* [ ] review backlog",
			"- regular bullet",
			"not a list line",
		}, "\n")),
		models.NewFileEntry("/n/u.md", "u.md", time.Now(), "- [x] done elsewhere"),
	}

	done, open := CountCheckboxes(entries)
	assert.Equal(t, 3, done)
	assert.Equal(t, 2, open)

	done, open = CountCheckboxes(nil)
	assert.Zero(t, done)
	assert.Zero(t, open)
}

func TestFormatForLLMRuneSafeTruncation(t *testing.T) {
	now := time.Now()
	entries := []models.FileEntry{
		models.NewFileEntry("/n/a.md", "a.md", now, strings.Repeat("héllo wörld ", 200)),
	}

	for _, max := range []int{500, 501, 502, 503} {
		text := FormatForLLM(entries, max)
		assert.True(t, utf8.ValidString(text), "maxChars=%d", max)
		assert.Contains(t, text, "...(truncated)")
	}
}
