package analyzers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/gitlog"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

const gitbotSystemPrompt = `You are GitBot, an expert software engineer assistant specializing in code review and project analysis.

Your job is to analyze a grouped git commit history and produce a clear, high-level summary that helps
developers and project managers quickly understand:
- What has been worked on recently
- Which areas of the codebase are most active
- Any patterns worth highlighting (e.g. bug-fix bursts, feature development phases, refactoring periods)
- A brief assessment of development velocity and team activity

Guidelines:
- Be concise and direct. Avoid filler phrases.
- Group your observations naturally, do not just restate the commit list.
- Use developer-friendly language.
- If you spot anything noteworthy (e.g. many fixes in one area, or a quiet period followed by heavy activity), call it out.
- Format your response in clean Markdown with sections.`

// GitBot summarises recent commit history for a repository
func (s *Set) GitBot(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult {
	maxCommits := params.MaxCommits
	if maxCommits <= 0 {
		maxCommits = s.cfg.Git.MaxCommits
	}

	read, err := gitlog.ReadCommits(ctx, project.Path, gitlog.ReadOptions{
		MaxCommits: maxCommits,
		Since:      params.Since,
		Until:      params.Until,
	})
	if err != nil {
		return models.Failure("gitbot", fmt.Errorf("could not read git history: %w", err))
	}
	if len(read.Commits) == 0 {
		return models.Skipped("gitbot", fmt.Sprintf("no commits found in %s", project.Path))
	}

	filtered := gitlog.Filter(read.Commits)
	s.logger.Debug("commits read",
		zap.String("project", project.Name),
		zap.Int("total", len(read.Commits)),
		zap.Int("filtered_out", filtered.RemovedCount))

	if len(filtered.Commits) == 0 {
		return models.Skipped("gitbot", "all commits were merge or bot commits")
	}

	groups := gitlog.GroupAuto(filtered.Commits, 10)
	history := gitlog.FormatForLLM(groups)

	userPrompt := fmt.Sprintf(`Please analyze the following git history for the **%s** repository and provide a high-level summary.

%s

Produce a structured report with:
1. **Overview** - one paragraph summarizing the overall activity
2. **Key Changes** - the most significant work done, grouped logically
3. **Active Areas** - which parts of the codebase saw the most activity
4. **Observations** - any patterns, concerns, or highlights worth noting`, project.Name, history)

	report, err := s.ai.ChatWithRetry(ctx, gitbotSystemPrompt, userPrompt, 1024, params.Model)
	if err != nil {
		return models.Failure("gitbot", fmt.Errorf("LLM call failed: %w", err))
	}

	summary := fmt.Sprintf("Analyzed %d commits in %d group(s)", len(filtered.Commits), len(groups))
	if read.Truncated {
		summary += fmt.Sprintf(" (history truncated at %d)", maxCommits)
	}

	return models.BotResult{
		BotName:        "gitbot",
		Status:         models.StatusSuccess,
		Summary:        summary,
		MarkdownReport: report,
		Data: map[string]interface{}{
			"commits_analyzed": len(filtered.Commits),
			"commits_filtered": filtered.RemovedCount,
			"groups":           len(groups),
			"truncated":        read.Truncated,
		},
		Timestamp: time.Now().UTC(),
	}
}
