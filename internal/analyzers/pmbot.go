package analyzers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/helpers"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
	"github.com/danieluxury88/BotsTeam/internal/services"
	"github.com/danieluxury88/BotsTeam/internal/tracker"
)

const pmbotSystemPrompt = `You are PMBot, an expert software project manager and engineering lead.
You analyze issue trackers to help teams understand their backlog, identify patterns,
and plan work effectively.
Be concise, direct, and actionable. Format responses in clean Markdown.`

const pmbotPlanPrompt = `You are PMBot acting as a sprint planner.
Your job is to take a list of open issues and return a structured JSON workload plan.

Return ONLY valid JSON - no markdown fences, no preamble, no explanation.

JSON schema:
{
  "summary": "one paragraph overview of the plan",
  "warnings": ["list of concerns or risks"],
  "issues": [
    {
      "iid": 42,
      "priority": "critical|high|normal|low",
      "effort": "XS|S|M|L|XL",
      "rationale": "brief reason for priority and effort",
      "week": 1
    }
  ]
}

Priority guide:
- critical: blockers, security issues, data loss risks
- high: significant user impact, major bugs, overdue items
- normal: standard features and improvements
- low: nice-to-haves, minor tweaks, cosmetic issues

Effort guide (working hours):
- XS: < 2 hours
- S: half day (~4h)
- M: 1 day (~8h)
- L: 2-3 days
- XL: 1 week or more

Assign weeks (1 = this week, 2 = next week, etc.) based on priority and effort.
Assume one developer working on this, ~5 effective hours per day.`

const staleThresholdDays = 30

// plannedIssue is one entry of the LLM's JSON plan joined back to its issue
type plannedIssue struct {
	Issue     models.Issue
	Priority  string
	Effort    string
	Rationale string
	Week      int
}

// PMBot analyzes or plans the project's issue backlog. The mode parameter
// selects between the two; GitLab is preferred when both trackers are
// configured.
func (s *Set) PMBot(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult {
	set, err := s.fetchIssues(ctx, project)
	if err != nil {
		return models.Failure("pmbot", err)
	}

	switch params.Mode {
	case "", "analyze":
		return s.pmAnalyze(ctx, set, params)
	case "plan":
		return s.pmPlan(ctx, set, params)
	default:
		return models.Failure("pmbot", fmt.Errorf("unknown mode %q: use 'analyze' or 'plan'", params.Mode))
	}
}

// fetchIssues pulls the issue set from whichever tracker the project has
func (s *Set) fetchIssues(ctx context.Context, project projects.Project) (*models.IssueSet, error) {
	if project.Team.HasGitLab() {
		client := tracker.NewGitLabClient(&s.cfg.GitLab, project.Team.GitLabURL, project.Team.GitLabToken)
		set, err := client.FetchIssues(ctx, project.Team.GitLabProjectID, models.IssueAll)
		if err != nil {
			return nil, fmt.Errorf("could not fetch GitLab issues: %w", err)
		}
		return set, nil
	}
	if project.Team.HasGitHub() {
		client := tracker.NewGitHubClient(&s.cfg.GitHub, project.Team.GitHubToken)
		set, err := client.FetchIssues(ctx, project.Team.GitHubRepo, models.IssueAll)
		if err != nil {
			return nil, fmt.Errorf("could not fetch GitHub issues: %w", err)
		}
		return set, nil
	}
	return nil, fmt.Errorf("project %q has no issue tracker configured", project.Name)
}

func (s *Set) pmAnalyze(ctx context.Context, set *models.IssueSet, params models.RunParams) models.BotResult {
	open := set.Open()
	closed := set.Closed()
	stale := set.Stale(staleThresholdDays)

	labelDist := make(map[string]int)
	for _, i := range set.Issues {
		for _, lbl := range i.Labels {
			labelDist[lbl]++
		}
	}

	userPrompt := fmt.Sprintf(`Please analyze the issues for **%s**.

## Stats
- Open issues: %d
- Closed issues: %d
- Stale open issues (no update >%d days): %d
- All labels (by frequency): %s
- Assignees: %s

## Open Issues
%s

## Recently Closed Issues (sample)
%s

Please produce a structured report:
1. **Project Health** - overall assessment of the backlog
2. **Patterns & Recurring Problems** - themes you notice across issues
3. **Hotspots** - labels, areas, or components with the most issues
4. **Team Workload** - distribution across assignees, any imbalances
5. **Stale Issues** - highlight any open issues that need attention
6. **Recommendations** - 3-5 concrete actions to improve the backlog`,
		set.ProjectName,
		len(open), len(closed), staleThresholdDays, len(stale),
		orNone(labelSummary(labelDist, 15)),
		orNone(strings.Join(allAssignees(set.Issues), ", ")),
		orDefault(formatIssueList(open, 60), "No open issues."),
		orDefault(formatIssueList(closed, 30), "No closed issues."))

	report, err := s.ai.ChatWithRetry(ctx, pmbotSystemPrompt, userPrompt, 1500, params.Model)
	if err != nil {
		return models.Failure("pmbot", fmt.Errorf("LLM call failed: %w", err))
	}

	return models.BotResult{
		BotName:        "pmbot",
		Status:         models.StatusSuccess,
		Summary:        fmt.Sprintf("%d open / %d closed issues analyzed for %s", len(open), len(closed), set.ProjectName),
		MarkdownReport: report,
		Data: map[string]interface{}{
			"project": set.ProjectName,
			"open":    len(open),
			"closed":  len(closed),
			"stale":   len(stale),
			"labels":  labelDist,
		},
		Timestamp: time.Now().UTC(),
	}
}

func (s *Set) pmPlan(ctx context.Context, set *models.IssueSet, params models.RunParams) models.BotResult {
	open := set.Open()
	if len(open) == 0 {
		return models.Skipped("pmbot", "no open issues found, nothing to plan")
	}

	userPrompt := fmt.Sprintf(`Project: %s
Open issues to plan (%d total):

%s

Return the JSON plan for all %d issues.`,
		set.ProjectName, len(open), formatIssueList(open, 60), len(open))

	raw, err := s.ai.ChatWithRetry(ctx, pmbotPlanPrompt, userPrompt, 2000, params.Model)
	if err != nil {
		return models.Failure("pmbot", fmt.Errorf("LLM call failed: %w", err))
	}

	var parsed struct {
		Summary  string   `json:"summary"`
		Warnings []string `json:"warnings"`
		Issues   []struct {
			IID       int    `json:"iid"`
			Priority  string `json:"priority"`
			Effort    string `json:"effort"`
			Rationale string `json:"rationale"`
			Week      int    `json:"week"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(services.StripCodeFences(raw)), &parsed); err != nil {
		return models.Failure("pmbot", fmt.Errorf("could not parse planner JSON: %w", err))
	}

	index := make(map[int]models.Issue, len(open))
	for _, i := range open {
		index[i.IID] = i
	}

	var planned []plannedIssue
	for _, item := range parsed.Issues {
		issue, ok := index[item.IID]
		if !ok {
			continue // hallucinated iid
		}
		planned = append(planned, plannedIssue{
			Issue:     issue,
			Priority:  normalisePriority(item.Priority),
			Effort:    normaliseEffort(item.Effort),
			Rationale: item.Rationale,
			Week:      item.Week,
		})
	}

	weeks := make(map[int]bool)
	for _, pi := range planned {
		weeks[pi.Week] = true
	}

	return models.BotResult{
		BotName: "pmbot",
		Status:  models.StatusSuccess,
		Summary: fmt.Sprintf("Sprint plan for %s: %d issues across %d week(s)",
			set.ProjectName, len(planned), len(weeks)),
		MarkdownReport: renderPlanMarkdown(set.ProjectName, parsed.Summary, parsed.Warnings, planned),
		Data: map[string]interface{}{
			"project":       set.ProjectName,
			"total_planned": len(planned),
			"weeks":         len(weeks),
			"warnings":      parsed.Warnings,
		},
		Timestamp: time.Now().UTC(),
	}
}

var priorityRank = map[string]int{"critical": 0, "high": 1, "normal": 2, "low": 3}

var priorityIcons = map[string]string{
	"critical": "🔴",
	"high":     "🟠",
	"normal":   "🟡",
	"low":      "🟢",
}

var effortHours = map[string]float64{"XS": 1.5, "S": 4, "M": 8, "L": 20, "XL": 40}

func normalisePriority(p string) string {
	if _, ok := priorityRank[p]; ok {
		return p
	}
	return "normal"
}

func normaliseEffort(e string) string {
	if _, ok := effortHours[e]; ok {
		return e
	}
	return "M"
}

// renderPlanMarkdown turns the parsed plan into the report persisted by the
// store
func renderPlanMarkdown(projectName, summary string, warnings []string, planned []plannedIssue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🗓 Sprint Plan - %s\n\n%s\n\n", projectName, summary)

	if len(warnings) > 0 {
		b.WriteString("## ⚠️ Warnings\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Priority Overview\n\n")
	b.WriteString("| # | Issue | Priority | Effort | Rationale |\n")
	b.WriteString("|---|-------|----------|--------|-----------|\n")

	sorted := make([]plannedIssue, len(planned))
	copy(sorted, planned)
	sort.SliceStable(sorted, func(i, j int) bool {
		if priorityRank[sorted[i].Priority] != priorityRank[sorted[j].Priority] {
			return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
		}
		return sorted[i].Week < sorted[j].Week
	})

	for _, pi := range sorted {
		fmt.Fprintf(&b, "| %s | %s | %s %s | `%s` | %s |\n",
			issueLink(pi.Issue), truncate(pi.Issue.Title, 55),
			priorityIcons[pi.Priority], pi.Priority, pi.Effort, truncate(pi.Rationale, 70))
	}
	b.WriteString("\n")

	byWeek := make(map[int][]plannedIssue)
	var weekNums []int
	for _, pi := range sorted {
		if _, seen := byWeek[pi.Week]; !seen {
			weekNums = append(weekNums, pi.Week)
		}
		byWeek[pi.Week] = append(byWeek[pi.Week], pi)
	}
	sort.Ints(weekNums)

	b.WriteString("## 📅 Weekly Schedule\n")
	for _, week := range weekNums {
		items := byWeek[week]
		label := fmt.Sprintf("Week %d", week)
		if week >= 99 {
			label = "Backlog (unscheduled)"
		}
		fmt.Fprintf(&b, "\n### %s\n", label)

		total := 0.0
		for _, pi := range items {
			total += effortHours[pi.Effort]
		}
		fmt.Fprintf(&b, "*Estimated load: ~%.0fh*\n\n", total)

		for _, pi := range items {
			assignee := ""
			if len(pi.Issue.Assignees) > 0 {
				assignee = " - @" + strings.Join(pi.Issue.Assignees, ", @")
			}
			fmt.Fprintf(&b, "- %s %s **%s** `%s`%s\n",
				priorityIcons[pi.Priority], issueLink(pi.Issue), pi.Issue.Title, pi.Effort, assignee)
		}
	}

	return b.String()
}

// formatIssueList is the compact text representation sent in prompts
func formatIssueList(issues []models.Issue, maxIssues int) string {
	var lines []string
	for i, issue := range issues {
		if i >= maxIssues {
			lines = append(lines, fmt.Sprintf("... and %d more issues not shown.", len(issues)-maxIssues))
			break
		}
		line := fmt.Sprintf("#%d %s", issue.IID, issue.Title)
		if len(issue.Labels) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(issue.Labels, ", "))
		}
		if len(issue.Assignees) > 0 {
			line += " @" + strings.Join(issue.Assignees, ", @")
		} else {
			line += " (unassigned)"
		}
		if issue.Milestone != "" {
			line += " | milestone: " + issue.Milestone
		}
		line += fmt.Sprintf(" | %dd old", issue.AgeDays())
		if desc := truncate(strings.TrimSpace(issue.Description), 140); desc != "" {
			line += "\n     " + strings.ReplaceAll(desc, "\n", " ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func labelSummary(dist map[string]int, max int) string {
	type pair struct {
		label string
		count int
	}
	pairs := make([]pair, 0, len(dist))
	for lbl, n := range dist {
		pairs = append(pairs, pair{lbl, n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].label < pairs[j].label
	})
	if len(pairs) > max {
		pairs = pairs[:max]
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s (%d)", p.label, p.count))
	}
	return strings.Join(parts, ", ")
}

func allAssignees(issues []models.Issue) []string {
	seen := make(map[string]bool)
	var out []string
	for _, i := range issues {
		for _, a := range i.Assignees {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	sort.Strings(out)
	return out
}

func issueLink(i models.Issue) string {
	if i.WebURL != "" {
		return fmt.Sprintf("[#%d](%s)", i.IID, i.WebURL)
	}
	return fmt.Sprintf("#%d", i.IID)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return helpers.TruncateString(s, max) + "…"
}

func orNone(s string) string {
	return orDefault(s, "none")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
