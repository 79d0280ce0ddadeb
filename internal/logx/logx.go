package logx

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the process logger. Verbose lowers the level to debug.
// The returned flush function should run before exit.
func New(verbose bool) (*zap.SugaredLogger, func(), error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	flush := func() { _ = logger.Sync() }
	return logger.Sugar(), flush, nil
}

// Nop returns a logger that discards everything. Tests use it to
// satisfy constructors without producing output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
