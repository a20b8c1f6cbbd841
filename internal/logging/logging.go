// Package logging builds the zap logger used across mailscrub.
//
// There is no package-level logger: New constructs one and the commands
// hand it to collaborators, so tests can substitute their own.
package logging

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fernwehlabs/mailscrub/internal/config"
)

// New creates a logger from config. Output goes to stdout, JSON or
// console encoded, with ISO8601 timestamps.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := LevelFromString(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stdout), level)
	logger := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
	return logger.With(zap.String("service", "mailscrub")), nil
}

// newEncoder creates a JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// Sync flushes buffered entries. Syncing stdout returns EINVAL or ENOTTY
// on Linux; both are harmless and swallowed.
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
