package analyzers

import (
	"context"
	"fmt"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/filereader"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

const taskbotSystemPrompt = `You are TaskBot, an AI assistant that analyzes personal task lists and to-do files.

Your role is to help the user understand their productivity patterns and prioritize their work.

When analyzing task lists, focus on:
- **Completion rate**: Ratio of done vs pending tasks
- **Stale items**: Tasks that appear overdue or have been sitting too long
- **Priority and urgency**: Which open tasks seem most important
- **Patterns**: Any recurring task types or areas that consistently pile up
- **Recommended next 3 actions**: The most impactful things to do next
- **Items to drop or defer**: Tasks that may no longer be relevant

Format your response as a clear markdown report. Be direct and actionable.
Markdown checkbox syntax: - [x] done, - [ ] pending.`

// TaskBot analyzes the task list of a personal project
func (s *Set) TaskBot(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult {
	taskFile := project.Personal.TaskFile

	read := filereader.ReadTaskFile(taskFile)
	if read.IsEmpty() {
		msg := fmt.Sprintf("no task content found at %s", taskFile)
		if len(read.Errors) > 0 {
			msg += ": " + read.Errors[0]
		}
		return models.Failure("taskbot", fmt.Errorf("%s", msg))
	}

	done, open := filereader.CountCheckboxes(read.Entries)

	userPrompt := fmt.Sprintf(`Analyze these task lists and provide productivity insights.
Files read: %d
Checklist items: %d done, %d open

%s

Generate a task analysis and productivity report.`,
		len(read.Entries), done, open, filereader.FormatForLLM(read.Entries, 0))

	report, err := s.ai.ChatWithRetry(ctx, taskbotSystemPrompt, userPrompt, 1500, params.Model)
	if err != nil {
		return models.Failure("taskbot", fmt.Errorf("LLM call failed: %w", err))
	}

	return models.BotResult{
		BotName:        "taskbot",
		Status:         models.StatusSuccess,
		Summary:        fmt.Sprintf("Analyzed %d task file(s), %d done, %d open", len(read.Entries), done, open),
		MarkdownReport: report,
		Data: map[string]interface{}{
			"files_read":  len(read.Entries),
			"total_words": read.TotalWords(),
			"tasks_done":  done,
			"tasks_open":  open,
		},
		Timestamp: time.Now().UTC(),
	}
}
