// Package invoker dispatches resolved invocations to bot analyzers. The
// dispatch table keeps the invoker bot-agnostic: adding a bot is one catalog
// entry plus one Register call at startup.
package invoker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
	"github.com/danieluxury88/BotsTeam/internal/reports"
)

// AnalyzerFunc is the external collaborator contract: gather data for one
// project, call the LLM, return a BotResult. Implementations fold their own
// failures into the result; a returned error or panic is treated as a bug
// and converted to a failed result here.
type AnalyzerFunc func(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult

// ScopeMismatchError is returned when a scoped bot is pointed at a project
// of the other scope
type ScopeMismatchError struct {
	Bot  string
	Want models.Scope
	Got  models.Scope
}

func (e *ScopeMismatchError) Error() string {
	return fmt.Sprintf("bot %q only runs against %s projects, but the project is %s", e.Bot, e.Want, e.Got)
}

// MissingDataSourceError is returned when a bot's required project field is
// not configured
type MissingDataSourceError struct {
	Bot   string
	Field string
}

func (e *MissingDataSourceError) Error() string {
	if e.Field == "issue_tracker" {
		return fmt.Sprintf("bot %q needs an issue tracker: set gitlab_project_id or github_repo on the project", e.Bot)
	}
	return fmt.Sprintf("bot %q needs the project field %q to be configured (use 'devbot update')", e.Bot, e.Field)
}

// Outcome is the aggregate of a batch invocation
type Outcome struct {
	RunID     string
	Results   map[string]models.BotResult
	Failures  map[string]error // precondition errors, keyed by bot id
	Completed int
	Failed    int
}

// Invoker runs analyzers and forwards their reports to the store
type Invoker struct {
	store     *reports.Store
	logger    *zap.Logger
	analyzers map[string]AnalyzerFunc
}

// New creates an invoker persisting to the given report store
func New(store *reports.Store, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		store:     store,
		logger:    logger,
		analyzers: make(map[string]AnalyzerFunc),
	}
}

// Register wires an analyzer into the dispatch table
func (inv *Invoker) Register(botID string, fn AnalyzerFunc) {
	inv.analyzers[botID] = fn
}

// Invoke runs one bot against one project. Precondition failures (unknown
// bot, scope mismatch, missing data source) come back as errors before the
// analyzer runs; analyzer failures come back inside the BotResult. The
// result is returned even when saving the report fails.
func (inv *Invoker) Invoke(ctx context.Context, botID string, project projects.Project, params models.RunParams) (models.BotResult, error) {
	meta, err := bots.Get(botID)
	if err != nil {
		return models.BotResult{}, err
	}

	if !meta.Scope.Matches(project.Scope) {
		return models.BotResult{}, &ScopeMismatchError{Bot: botID, Want: meta.Scope, Got: project.Scope}
	}

	if meta.RequiresField != "" && project.FieldValue(meta.RequiresField) == "" {
		return models.BotResult{}, &MissingDataSourceError{Bot: botID, Field: meta.RequiresField}
	}

	fn, ok := inv.analyzers[botID]
	if !ok {
		return models.BotResult{}, fmt.Errorf("bot %q has no analyzer registered", botID)
	}

	result := inv.runAnalyzer(ctx, botID, fn, project, params)

	if project.Name != "" && result.MarkdownReport != "" {
		if _, saveErr := inv.store.Save(project.Name, botID, project.Scope, result.MarkdownReport); saveErr != nil {
			if errors.Is(saveErr, reports.ErrLatestWrite) {
				result.Errors = append(result.Errors, saveErr.Error())
				inv.logger.Warn("latest report not refreshed", zap.String("bot", botID), zap.Error(saveErr))
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("report not saved: %v", saveErr))
				inv.logger.Error("report save failed", zap.String("bot", botID), zap.Error(saveErr))
			}
		}
	}

	return result, nil
}

// runAnalyzer shields the caller from analyzer panics so one bot can never
// abort a batch
func (inv *Invoker) runAnalyzer(ctx context.Context, botID string, fn AnalyzerFunc, project projects.Project, params models.RunParams) (result models.BotResult) {
	defer func() {
		if r := recover(); r != nil {
			inv.logger.Error("analyzer panicked", zap.String("bot", botID), zap.Any("panic", r))
			result = models.Failure(botID, fmt.Errorf("analyzer panicked: %v", r))
		}
	}()

	result = fn(ctx, project, params)
	if result.BotName == "" {
		result.BotName = botID
	}
	return result
}

// InvokeBatch runs several bots against one project, independently. One
// bot's failure never prevents the others from running; cancellation is
// honoured between bots, not mid-analyzer.
func (inv *Invoker) InvokeBatch(ctx context.Context, botIDs []string, project projects.Project, params models.RunParams) Outcome {
	out := Outcome{
		RunID:    uuid.NewString(),
		Results:  make(map[string]models.BotResult, len(botIDs)),
		Failures: make(map[string]error),
	}

	for _, botID := range botIDs {
		if err := ctx.Err(); err != nil {
			out.Failures[botID] = fmt.Errorf("cancelled before %s ran: %w", botID, err)
			out.Failed++
			continue
		}

		result, err := inv.Invoke(ctx, botID, project, params)
		if err != nil {
			out.Failures[botID] = err
			out.Failed++
			continue
		}

		out.Results[botID] = result
		if result.Status.OK() {
			out.Completed++
		} else {
			out.Failed++
		}
	}

	inv.logger.Info("batch finished",
		zap.String("run_id", out.RunID),
		zap.String("project", project.Name),
		zap.Int("completed", out.Completed),
		zap.Int("failed", out.Failed))
	return out
}
