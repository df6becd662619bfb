package filereader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

// ReadOptions narrows which files ReadMarkdownDir picks up
type ReadOptions struct {
	Since    *time.Time
	Until    *time.Time
	MaxFiles int
}

const defaultMaxFiles = 50

// ReadMarkdownDir reads .md files from a directory tree, newest-first by
// modification time. Unreadable files are recorded as errors rather than
// aborting the read.
func ReadMarkdownDir(dir string, opts ReadOptions) models.FileReadResult {
	result := models.FileReadResult{}

	info, err := os.Stat(dir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("directory does not exist: %s", dir))
		return result
	}
	if !info.IsDir() {
		result.Errors = append(result.Errors, fmt.Sprintf("path is not a directory: %s", dir))
		return result
	}

	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}

	type candidate struct {
		path     string
		modified time.Time
	}
	var candidates []candidate

	walkErr := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("could not access %s: %v", path, err))
			return nil
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		fi, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("could not stat %s: %v", entry.Name(), err))
			return nil
		}
		candidates = append(candidates, candidate{path: path, modified: fi.ModTime()})
		return nil
	})
	if walkErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("could not walk %s: %v", dir, walkErr))
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modified.After(candidates[j].modified)
	})
	result.TotalFiles = len(candidates)

	for _, c := range candidates {
		if len(result.Entries) >= maxFiles {
			break
		}
		if opts.Since != nil && dayOf(c.modified).Before(dayOf(*opts.Since)) {
			continue
		}
		if opts.Until != nil && dayOf(c.modified).After(dayOf(*opts.Until)) {
			continue
		}
		content, err := os.ReadFile(c.path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("could not read %s: %v", filepath.Base(c.path), err))
			continue
		}
		result.Entries = append(result.Entries, models.NewFileEntry(c.path, filepath.Base(c.path), c.modified, string(content)))
	}

	return result
}

// ReadTaskFile reads a task list. A directory is treated as a collection of
// markdown files; a single file is read whole, whatever its format (markdown
// checkboxes, todo.txt, plain text).
func ReadTaskFile(path string) models.FileReadResult {
	info, err := os.Stat(path)
	if err != nil {
		result := models.FileReadResult{}
		result.Errors = append(result.Errors, fmt.Sprintf("task file does not exist: %s", path))
		return result
	}
	if info.IsDir() {
		return ReadMarkdownDir(path, ReadOptions{})
	}
	return readSingleFile(path, info, "")
}

// ReadHabitFile reads a habit tracking file. CSV files are reformatted into a
// readable summary; anything else is read verbatim.
func ReadHabitFile(path string) models.FileReadResult {
	info, err := os.Stat(path)
	if err != nil {
		result := models.FileReadResult{}
		result.Errors = append(result.Errors, fmt.Sprintf("habit file does not exist: %s", path))
		return result
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readSingleFile(path, info, formatCSV(path))
	}
	return readSingleFile(path, info, "")
}

// readSingleFile reads path as one entry. A non-empty content override is
// used in place of the raw file bytes.
func readSingleFile(path string, info os.FileInfo, content string) models.FileReadResult {
	result := models.FileReadResult{}
	if content == "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("could not read %s: %v", path, err))
			return result
		}
		content = string(raw)
	}
	result.Entries = append(result.Entries, models.NewFileEntry(path, filepath.Base(path), info.ModTime(), content))
	result.TotalFiles = 1
	return result
}

const recentHabitRows = 30

// formatCSV converts a CSV habit log into a readable text block. The first
// column is assumed to be the date and the remaining columns habit names.
func formatCSV(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("Could not parse CSV: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Sprintf("Could not parse CSV: %v", err)
	}
	if len(records) < 2 {
		return "No habit data found."
	}

	headers := records[0]
	rows := records[1:]

	var b strings.Builder
	b.WriteString("Habit tracking data:\n\n")
	if len(headers) > 1 {
		fmt.Fprintf(&b, "Habits tracked: %s\n", strings.Join(headers[1:], ", "))
	}
	fmt.Fprintf(&b, "Total days logged: %d\n\n", len(rows))

	recent := rows
	if len(recent) > recentHabitRows {
		recent = recent[len(recent)-recentHabitRows:]
	}
	b.WriteString("Recent entries:\n")
	for _, row := range recent {
		var parts []string
		for i, v := range row {
			if i >= len(headers) || strings.TrimSpace(v) == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", headers[i], v))
		}
		b.WriteString("  " + strings.Join(parts, " | ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// CountCheckboxes tallies markdown checklist items across entries. Lines
// starting with "- [x]" count as done, "- [ ]" as open; "*" bullets too.
func CountCheckboxes(entries []models.FileEntry) (done, open int) {
	for _, entry := range entries {
		for _, line := range strings.Split(entry.Content, "\n") {
			trimmed := strings.TrimSpace(line)
			if len(trimmed) < 5 || (trimmed[0] != '-' && trimmed[0] != '*') {
				continue
			}
			switch strings.ToLower(trimmed[1:5]) {
			case " [x]":
				done++
			case " [ ]":
				open++
			}
		}
	}
	return done, open
}

const defaultMaxChars = 12000

// FormatForLLM joins file entries into a single text block for analyzer
// prompts. The character budget is spent newest-first; the first entry that
// does not fit is truncated if a useful amount remains, and everything older
// is dropped.
func FormatForLLM(entries []models.FileEntry, maxChars int) string {
	if len(entries) == 0 {
		return "(no content)"
	}
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	var sections []string
	total := 0
	for _, entry := range entries {
		header := fmt.Sprintf("\n--- %s (%s) ---\n", entry.Filename, entry.Modified.Format("2006-01-02"))
		section := header + strings.TrimSpace(entry.Content) + "\n"

		if total+len(section) > maxChars {
			remaining := maxChars - total - len(header) - 50
			if remaining > 200 {
				truncated := entry.Content
				if len(truncated) > remaining {
					truncated = helpers.TruncateString(truncated, remaining)
				}
				sections = append(sections, header+strings.TrimSpace(truncated)+"\n...(truncated)")
			}
			break
		}

		sections = append(sections, section)
		total += len(section)
	}

	return strings.TrimSpace(strings.Join(sections, "\n"))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
