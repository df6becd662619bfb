package models

import (
	"fmt"
	"time"
)

// BotStatus is the execution status carried by every BotResult
type BotStatus string

const (
	StatusSuccess BotStatus = "success"
	StatusPartial BotStatus = "partial" // completed with warnings
	StatusFailed  BotStatus = "failed"
	StatusSkipped BotStatus = "skipped" // nothing to do (no commits, no files)
	StatusError   BotStatus = "error"
	StatusWarning BotStatus = "warning"
)

// OK reports whether the status counts as a completed run
func (s BotStatus) OK() bool {
	return s == StatusSuccess || s == StatusPartial || s == StatusSkipped
}

// BotResult is the universal return type for all bot analyzers.
// MarkdownReport is always present, even on failure, so the report store
// has something to persist.
type BotResult struct {
	BotName        string                 `json:"bot_name"`
	Status         BotStatus              `json:"status"`
	Summary        string                 `json:"summary"`
	MarkdownReport string                 `json:"markdown_report"`
	Data           map[string]interface{} `json:"data,omitempty"`
	Errors         []string               `json:"errors,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// Failure builds a failed BotResult with an explanatory report
func Failure(botName string, err error) BotResult {
	msg := err.Error()
	return BotResult{
		BotName:        botName,
		Status:         StatusFailed,
		Summary:        fmt.Sprintf("Failed: %s", msg),
		MarkdownReport: fmt.Sprintf("## %s failed\n\n%s\n", botName, msg),
		Errors:         []string{msg},
		Timestamp:      time.Now().UTC(),
	}
}

// Skipped builds a BotResult for a run with nothing to analyze
func Skipped(botName, reason string) BotResult {
	return BotResult{
		BotName:        botName,
		Status:         StatusSkipped,
		Summary:        reason,
		MarkdownReport: fmt.Sprintf("## %s\n\nNothing to analyze: %s\n", botName, reason),
		Timestamp:      time.Now().UTC(),
	}
}
