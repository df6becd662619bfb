package models

import "time"

// CommitInfo is a single commit, shared representation used by all bots
type CommitInfo struct {
	SHA          string    `json:"sha"`
	Message      string    `json:"message"`
	Author       string    `json:"author"`
	Date         time.Time `json:"date"`
	FilesChanged []string  `json:"files_changed,omitempty"`
}

// CommitGroup is a logical group of commits (by day, author, topic)
type CommitGroup struct {
	Label   string       `json:"label"`
	Commits []CommitInfo `json:"commits"`
}

// Authors returns the unique commit authors in the group, first-seen order
func (g *CommitGroup) Authors() []string {
	seen := make(map[string]bool)
	var authors []string
	for _, c := range g.Commits {
		if !seen[c.Author] {
			seen[c.Author] = true
			authors = append(authors, c.Author)
		}
	}
	return authors
}

// DateRange returns the earliest and latest commit dates in the group
func (g *CommitGroup) DateRange() (time.Time, time.Time) {
	if len(g.Commits) == 0 {
		return time.Time{}, time.Time{}
	}
	min, max := g.Commits[0].Date, g.Commits[0].Date
	for _, c := range g.Commits[1:] {
		if c.Date.Before(min) {
			min = c.Date
		}
		if c.Date.After(max) {
			max = c.Date
		}
	}
	return min, max
}

// AllFiles returns the unique files touched across the group, first-seen order
func (g *CommitGroup) AllFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, c := range g.Commits {
		for _, f := range c.FilesChanged {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}
