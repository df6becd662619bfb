// Package logging builds the shared zap logger for the devbot core.
// CLI-facing output stays on the color helpers; zap carries the structured
// operational log (store writes, invocations, dashboard scans).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at info level, or debug level when verbose
func New(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Nop returns a logger that discards everything; used in tests and as the
// default when a component is constructed without one
func Nop() *zap.Logger {
	return zap.NewNop()
}
