// Package gitlog reads commit history by shelling out to git and shapes it
// for LLM consumption: filter noise, group, and render a compact text block.
package gitlog

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/models"
)

// record and field separators used in the git pretty format
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

// ReadResult carries the commits plus a truncation flag
type ReadResult struct {
	Commits   []models.CommitInfo
	Truncated bool
}

// FilterResult carries the filtered commits plus how many were removed
type FilterResult struct {
	Commits      []models.CommitInfo
	RemovedCount int
}

// ReadOptions controls ReadCommits
type ReadOptions struct {
	Branch     string
	MaxCommits int
	Since      string // ISO date or git-style ("1 week ago")
	Until      string
}

var mergeRe = regexp.MustCompile(`(?i)^Merge (branch|pull request|remote)`)

// botAuthors whose commits are dropped by Filter
var botAuthors = map[string]bool{
	"dependabot":          true,
	"dependabot[bot]":     true,
	"renovate":            true,
	"renovate[bot]":       true,
	"greenkeeper[bot]":    true,
	"snyk-bot":            true,
	"github-actions[bot]": true,
	"codecov[bot]":        true,
}

// ReadCommits reads commits from a repository via `git log`. One extra
// commit is requested to detect truncation.
func ReadCommits(ctx context.Context, repoPath string, opts ReadOptions) (ReadResult, error) {
	branch := opts.Branch
	if branch == "" {
		branch = "HEAD"
	}
	maxCommits := opts.MaxCommits
	if maxCommits <= 0 {
		maxCommits = 300
	}

	args := []string{
		"-C", repoPath, "log", branch,
		fmt.Sprintf("--max-count=%d", maxCommits+1),
		"--name-only",
		"--pretty=format:" + recordSep + "%h" + fieldSep + "%an" + fieldSep + "%aI" + fieldSep + "%B" + fieldSep,
	}
	if opts.Since != "" {
		args = append(args, "--since="+opts.Since)
	}
	if opts.Until != "" {
		args = append(args, "--until="+opts.Until)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ReadResult{}, fmt.Errorf("git log failed for %s: %w: %s", repoPath, err, strings.TrimSpace(string(output)))
	}

	commits := parseLog(string(output))
	truncated := len(commits) > maxCommits
	if truncated {
		commits = commits[:maxCommits]
	}
	return ReadResult{Commits: commits, Truncated: truncated}, nil
}

func parseLog(output string) []models.CommitInfo {
	var commits []models.CommitInfo

	for _, record := range strings.Split(output, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		parts := strings.SplitN(record, fieldSep, 5)
		if len(parts) < 5 {
			continue
		}

		date, err := time.Parse(time.RFC3339, parts[2])
		if err != nil {
			continue
		}

		var files []string
		for _, line := range strings.Split(strings.TrimSpace(parts[4]), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				files = append(files, line)
			}
		}

		commits = append(commits, models.CommitInfo{
			SHA:          parts[0],
			Author:       parts[1],
			Date:         date.UTC(),
			Message:      strings.TrimSpace(parts[3]),
			FilesChanged: files,
		})
	}
	return commits
}

// Filter drops generic merge commits, bot commits and duplicate first-line
// messages (first occurrence wins)
func Filter(commits []models.CommitInfo) FilterResult {
	seen := make(map[string]bool)
	var filtered []models.CommitInfo

	for _, commit := range commits {
		firstLine := ""
		if lines := strings.SplitN(commit.Message, "\n", 2); len(lines) > 0 {
			firstLine = lines[0]
		}

		if mergeRe.MatchString(firstLine) {
			continue
		}
		if botAuthors[strings.ToLower(commit.Author)] {
			continue
		}
		if seen[firstLine] {
			continue
		}
		seen[firstLine] = true

		filtered = append(filtered, commit)
	}

	return FilterResult{
		Commits:      filtered,
		RemovedCount: len(commits) - len(filtered),
	}
}
