// internal/logger/styled.go
package logger

import (
	"log/slog"

	"github.com/thavarshan/fetch-go/theme"
)

// LogContext splits a log call into the short record's arguments
// (UserArgs) and the extra arguments of a second, fuller record
// (DetailedArgs) whose context carries the DefaultDetailedCookie key. No
// handler filters on that key, so both records reach every handler.
type LogContext struct {
	UserArgs     []any
	DetailedArgs []any
}

// StyledLogger wraps slog.Logger with theme-aware formatting for the
// client's request lifecycle: correlation IDs, status codes, retries and
// durations. PrettyStyledLogger and PlainStyledLogger are its two
// implementations, selected by Config.PrettyLogs.
type StyledLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	InfoWithCorrelationID(msg string, correlationID string, args ...any)
	InfoWithStatus(msg string, statusCode int, args ...any)
	WarnWithRetry(msg string, attempt, maxAttempts int, delayMs int64, args ...any)
	ErrorWithRequest(msg string, method, uri string, args ...any)
	InfoWithDuration(msg string, durationMs int64, args ...any)

	GetUnderlying() *slog.Logger
	WithRequestID(correlationID string) StyledLogger
	WithAttrs(attrs ...slog.Attr) StyledLogger
	With(args ...any) StyledLogger

	InfoWithContext(msg string, correlationID string, ctx LogContext)
	WarnWithContext(msg string, correlationID string, ctx LogContext)
	ErrorWithContext(msg string, correlationID string, ctx LogContext)
}

// NewWithTheme builds both the plain slog.Logger and a theme-aware
// StyledLogger, picking the Pretty or Plain implementation by
// cfg.PrettyLogs.
func NewWithTheme(cfg *Config) (*slog.Logger, StyledLogger, func(), error) {
	base, cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if !cfg.PrettyLogs {
		return base, NewPlainStyledLogger(base), cleanup, nil
	}

	appTheme := theme.GetTheme(cfg.Theme)
	return base, NewPrettyStyledLogger(base, appTheme), cleanup, nil
}
