package gitlog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
)

// GroupByDay groups commits by calendar day, most recent day first
func GroupByDay(commits []models.CommitInfo) []models.CommitGroup {
	groups := make(map[string]*models.CommitGroup)
	for _, commit := range commits {
		key := commit.Date.Format("2006-01-02")
		if groups[key] == nil {
			groups[key] = &models.CommitGroup{Label: commit.Date.Format("Monday, January 02 2006")}
		}
		groups[key].Commits = append(groups[key].Commits, commit)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]models.CommitGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

// GroupByAuthor groups commits by author, busiest author first
func GroupByAuthor(commits []models.CommitInfo) []models.CommitGroup {
	groups := make(map[string]*models.CommitGroup)
	var order []string
	for _, commit := range commits {
		if groups[commit.Author] == nil {
			groups[commit.Author] = &models.CommitGroup{Label: "Author: " + commit.Author}
			order = append(order, commit.Author)
		}
		groups[commit.Author].Commits = append(groups[commit.Author].Commits, commit)
	}

	out := make([]models.CommitGroup, 0, len(order))
	for _, author := range order {
		out = append(out, *groups[author])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Commits) > len(out[j].Commits)
	})
	return out
}

// GroupAuto picks a grouping strategy: by day when history spans more than a
// week, by author otherwise. Overflow beyond maxGroups is merged into an
// "Older activity" bucket to keep the LLM context manageable.
func GroupAuto(commits []models.CommitInfo, maxGroups int) []models.CommitGroup {
	if len(commits) == 0 {
		return nil
	}
	if maxGroups <= 0 {
		maxGroups = 10
	}

	min, max := commits[0].Date, commits[0].Date
	for _, c := range commits[1:] {
		if c.Date.Before(min) {
			min = c.Date
		}
		if c.Date.After(max) {
			max = c.Date
		}
	}

	var groups []models.CommitGroup
	if max.Sub(min).Hours() > 7*24 {
		groups = GroupByDay(commits)
	} else {
		groups = GroupByAuthor(commits)
	}

	if len(groups) > maxGroups {
		bucket := models.CommitGroup{Label: "Older activity"}
		for _, g := range groups[maxGroups:] {
			bucket.Commits = append(bucket.Commits, g.Commits...)
		}
		groups = append(groups[:maxGroups], bucket)
	}
	return groups
}

// FormatForLLM serialises grouped commits into a compact text block for the
// analyzer prompts
func FormatForLLM(groups []models.CommitGroup) string {
	var b strings.Builder

	for _, group := range groups {
		start, end := group.DateRange()
		dateStr := start.Format("2006-01-02")
		if !start.Truncate(24 * time.Hour).Equal(end.Truncate(24 * time.Hour)) {
			dateStr = fmt.Sprintf("%s → %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
		}

		fmt.Fprintf(&b, "\n## %s (%s) - %d commit(s)\n", group.Label, dateStr, len(group.Commits))
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(group.Authors(), ", "))

		if topPaths := summarizePaths(group.AllFiles(), 6); len(topPaths) > 0 {
			fmt.Fprintf(&b, "Areas touched: %s\n", strings.Join(topPaths, ", "))
		}

		b.WriteString("Commits:\n")
		for _, c := range group.Commits {
			firstLine := c.Message
			if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
				firstLine = firstLine[:idx]
			}
			if len(firstLine) > 120 {
				firstLine = helpers.TruncateString(firstLine, 120)
			}
			fmt.Fprintf(&b, "  [%s] %s\n", c.SHA, firstLine)
		}
	}
	return b.String()
}

// summarizePaths collapses file paths to their top-level directories
func summarizePaths(files []string, maxPaths int) []string {
	counts := make(map[string]int)
	var order []string
	for _, f := range files {
		top := f
		if idx := strings.IndexByte(f, '/'); idx >= 0 {
			top = f[:idx]
		}
		if counts[top] == 0 {
			order = append(order, top)
		}
		counts[top]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxPaths {
		order = order[:maxPaths]
	}

	out := make([]string, 0, len(order))
	for _, d := range order {
		out = append(out, fmt.Sprintf("%s (%d)", d, counts[d]))
	}
	return out
}
