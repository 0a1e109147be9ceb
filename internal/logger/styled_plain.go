package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// PlainStyledLogger implements StyledLogger without any terminal styling,
// used when cfg.PrettyLogs is false.
type PlainStyledLogger struct {
	logger *slog.Logger
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{logger: logger}
}

func (sl *PlainStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PlainStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PlainStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PlainStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PlainStyledLogger) InfoWithCorrelationID(msg string, correlationID string, args ...any) {
	styledMsg := fmt.Sprintf("%s [%s]", msg, correlationID)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PlainStyledLogger) InfoWithStatus(msg string, statusCode int, args ...any) {
	styledMsg := fmt.Sprintf("%s (%d)", msg, statusCode)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PlainStyledLogger) WarnWithRetry(msg string, attempt, maxAttempts int, delayMs int64, args ...any) {
	styledMsg := fmt.Sprintf("%s (attempt %d/%d, retrying in %dms)", msg, attempt, maxAttempts, delayMs)
	sl.logger.Warn(styledMsg, args...)
}

func (sl *PlainStyledLogger) ErrorWithRequest(msg string, method, uri string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s %s", msg, method, uri)
	sl.logger.Error(styledMsg, args...)
}

func (sl *PlainStyledLogger) InfoWithDuration(msg string, durationMs int64, args ...any) {
	styledMsg := fmt.Sprintf("%s (%dms)", msg, durationMs)
	sl.logger.Info(styledMsg, args...)
}

func (sl *PlainStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PlainStyledLogger) WithRequestID(correlationID string) StyledLogger {
	return sl.With("correlation_id", correlationID)
}

func (sl *PlainStyledLogger) WithAttrs(attrs ...slog.Attr) StyledLogger {
	args := make([]any, 0, len(attrs)*2)
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value)
	}

	return &PlainStyledLogger{logger: sl.logger.With(args...)}
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{logger: sl.logger.With(args...)}
}

func (sl *PlainStyledLogger) InfoWithContext(msg string, correlationID string, ctx LogContext) {
	sl.logWithContext(LogLevelInfo, msg, correlationID, ctx)
}

func (sl *PlainStyledLogger) WarnWithContext(msg string, correlationID string, ctx LogContext) {
	sl.logWithContext(LogLevelWarn, msg, correlationID, ctx)
}

func (sl *PlainStyledLogger) ErrorWithContext(msg string, correlationID string, ctx LogContext) {
	sl.logWithContext(LogLevelError, msg, correlationID, ctx)
}

// logWithContext emits a terse message to the terminal handler and, when
// DetailedArgs is non-empty, a fuller record tagged for the file handler
// via DefaultDetailedCookie.
func (sl *PlainStyledLogger) logWithContext(level string, msg string, correlationID string, ctx LogContext) {
	styledMsg := fmt.Sprintf("%s [%s]", msg, correlationID)

	switch level {
	case LogLevelInfo:
		sl.logger.Info(styledMsg, ctx.UserArgs...)
	case LogLevelWarn:
		sl.logger.Warn(styledMsg, ctx.UserArgs...)
	case LogLevelError:
		sl.logger.Error(styledMsg, ctx.UserArgs...)
	}

	if len(ctx.DetailedArgs) > 0 {
		allArgs := make([]interface{}, 0, len(ctx.UserArgs)+len(ctx.DetailedArgs)+2)
		allArgs = append(allArgs, "correlation_id", correlationID)
		allArgs = append(allArgs, ctx.UserArgs...)
		allArgs = append(allArgs, ctx.DetailedArgs...)

		detailedCtx := context.WithValue(context.Background(), DefaultDetailedCookie, true)

		switch level {
		case LogLevelInfo:
			sl.logger.InfoContext(detailedCtx, msg, allArgs...)
		case LogLevelWarn:
			sl.logger.WarnContext(detailedCtx, msg, allArgs...)
		case LogLevelError:
			sl.logger.ErrorContext(detailedCtx, msg, allArgs...)
		}
	}
}
