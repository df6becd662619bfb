package models

import (
	"strings"
	"time"
)

// FileEntry is a single personal-data file read from disk
type FileEntry struct {
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	Modified  time.Time `json:"modified"`
	Content   string    `json:"content"`
	WordCount int       `json:"word_count"`
}

// NewFileEntry builds a FileEntry and computes its word count
func NewFileEntry(path, filename string, modified time.Time, content string) FileEntry {
	return FileEntry{
		Path:      path,
		Filename:  filename,
		Modified:  modified,
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}
}

// FileReadResult is the outcome of reading one or more personal-data files
type FileReadResult struct {
	Entries    []FileEntry `json:"entries"`
	TotalFiles int         `json:"total_files"`
	Errors     []string    `json:"errors,omitempty"`
}

// TotalWords sums the word counts of all entries
func (r *FileReadResult) TotalWords() int {
	total := 0
	for _, e := range r.Entries {
		total += e.WordCount
	}
	return total
}

// IsEmpty reports whether nothing was read
func (r *FileReadResult) IsEmpty() bool {
	return len(r.Entries) == 0
}
