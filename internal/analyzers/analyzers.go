// Package analyzers implements the per-bot analysis behind the invoker's
// dispatch table. Every analyzer gathers data for one project, sends it to
// the LLM, and folds its own failures into the returned BotResult.
package analyzers

import (
	"go.uber.org/zap"

	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/invoker"
	"github.com/danieluxury88/BotsTeam/internal/services"
)

// Set bundles the analyzers with their shared collaborators
type Set struct {
	cfg    *config.Config
	ai     *services.AIService
	logger *zap.Logger
}

// NewSet creates the analyzer set
func NewSet(cfg *config.Config, ai *services.AIService, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{cfg: cfg, ai: ai, logger: logger}
}

// RegisterAll wires every analyzer into the invoker. The orchestrator bot is
// deliberately absent: it is the chat surface, not an analyzer.
func (s *Set) RegisterAll(inv *invoker.Invoker) {
	inv.Register("gitbot", s.GitBot)
	inv.Register("qabot", s.QABot)
	inv.Register("pmbot", s.PMBot)
	inv.Register("journalbot", s.JournalBot)
	inv.Register("taskbot", s.TaskBot)
	inv.Register("habitbot", s.HabitBot)
}
