package analyzers

import (
	"context"
	"fmt"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/filereader"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
)

const journalbotSystemPrompt = `You are JournalBot, an AI assistant that analyzes personal journal entries and notes.

Your role is to surface patterns, insights, and actionable takeaways from personal writing.

When analyzing journal entries, focus on:
- **Recurring themes**: Topics, concerns, or ideas that appear across multiple entries
- **Mood and energy patterns**: Emotional tone, stress levels, enthusiasm
- **Key decisions or realizations**: Important moments worth revisiting
- **Progress on goals or projects**: Evidence of growth or stagnation
- **What needs attention**: Unresolved concerns or items to follow up on

Format your response as a clear markdown report with sections. Be empathetic, constructive,
and specific. Reference actual content from the entries when relevant. Keep it concise.`

const journalMaxFiles = 30

// JournalBot analyzes the markdown notes of a personal project
func (s *Set) JournalBot(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult {
	notesDir := project.Personal.NotesDir

	opts := filereader.ReadOptions{MaxFiles: journalMaxFiles}
	if t, ok := parseDay(params.Since); ok {
		opts.Since = &t
	}
	if t, ok := parseDay(params.Until); ok {
		opts.Until = &t
	}

	read := filereader.ReadMarkdownDir(notesDir, opts)
	if read.IsEmpty() {
		msg := fmt.Sprintf("no markdown files found in %s", notesDir)
		if len(read.Errors) > 0 {
			msg += ": " + read.Errors[0]
		}
		return models.Failure("journalbot", fmt.Errorf("%s", msg))
	}

	dateInfo := ""
	if params.Since != "" || params.Until != "" {
		dateInfo = fmt.Sprintf(" (from %s to %s)", orDefault(params.Since, "beginning"), orDefault(params.Until, "now"))
	}

	userPrompt := fmt.Sprintf(`Analyze these journal/notes entries%s.
Files read: %d of %d available.

%s

Generate a personal insights report.`,
		dateInfo, len(read.Entries), read.TotalFiles, filereader.FormatForLLM(read.Entries, 0))

	report, err := s.ai.ChatWithRetry(ctx, journalbotSystemPrompt, userPrompt, 2000, params.Model)
	if err != nil {
		return models.Failure("journalbot", fmt.Errorf("LLM call failed: %w", err))
	}

	summary := fmt.Sprintf("Analyzed %d journal entries", len(read.Entries))
	if len(read.Entries) > 0 {
		newest := read.Entries[0].Modified
		oldest := read.Entries[len(read.Entries)-1].Modified
		summary += fmt.Sprintf(" (%s – %s)", oldest.Format("2006-01-02"), newest.Format("2006-01-02"))
	}

	return models.BotResult{
		BotName:        "journalbot",
		Status:         models.StatusSuccess,
		Summary:        summary,
		MarkdownReport: report,
		Data: map[string]interface{}{
			"files_read":  len(read.Entries),
			"total_files": read.TotalFiles,
			"total_words": read.TotalWords(),
		},
		Timestamp: time.Now().UTC(),
	}
}

// parseDay parses an ISO date parameter; malformed values are ignored
func parseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
