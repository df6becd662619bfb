package analyzers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/filereader"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

const habitbotSystemPrompt = `You are HabitBot, an AI assistant that analyzes personal habit tracking data.

Your role is to surface patterns, celebrate wins, and identify where attention is needed.

When analyzing habit data, focus on:
- **Overall consistency**: What percentage of days is each habit completed?
- **Streaks**: Current and longest streaks for each habit
- **Trends**: Which habits are improving, declining, or steady?
- **Struggling habits**: Habits with low consistency that need attention
- **Strong habits**: Habits that are well-established (celebrate these!)
- **Correlation patterns**: Any habits that tend to co-occur (do well together or fail together)
- **Recommended focus**: 1-2 habits to prioritize for the next week

Format your response as a clear markdown report. Be encouraging and specific.
Use data from the entries when referencing streaks or percentages.`

// HabitBot analyzes the habit log of a personal project
func (s *Set) HabitBot(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult {
	habitFile := project.Personal.HabitFile

	read := filereader.ReadHabitFile(habitFile)
	if read.IsEmpty() {
		msg := fmt.Sprintf("no habit data found at %s", habitFile)
		if len(read.Errors) > 0 {
			msg += ": " + read.Errors[0]
		}
		return models.Failure("habitbot", fmt.Errorf("%s", msg))
	}

	dateInfo := ""
	if params.Since != "" || params.Until != "" {
		dateInfo = fmt.Sprintf(" (from %s to %s)", orDefault(params.Since, "beginning"), orDefault(params.Until, "now"))
	}

	userPrompt := fmt.Sprintf(`Analyze this habit tracking data%s and provide insights on consistency and progress.

%s

Generate a habit analysis report.`,
		dateInfo, filereader.FormatForLLM(read.Entries, 0))

	report, err := s.ai.ChatWithRetry(ctx, habitbotSystemPrompt, userPrompt, 1500, params.Model)
	if err != nil {
		return models.Failure("habitbot", fmt.Errorf("LLM call failed: %w", err))
	}

	return models.BotResult{
		BotName:        "habitbot",
		Status:         models.StatusSuccess,
		Summary:        fmt.Sprintf("Analyzed habit data from %s", filepath.Base(habitFile)),
		MarkdownReport: report,
		Data: map[string]interface{}{
			"source_file": habitFile,
			"total_words": read.TotalWords(),
		},
		Timestamp: time.Now().UTC(),
	}
}
