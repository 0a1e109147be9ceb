package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thavarshan/fetch-go/theme"
)

// PrettyStyledLogger implements StyledLogger with pterm-styled terminal
// output, used when cfg.PrettyLogs is true.
type PrettyStyledLogger struct {
	logger *slog.Logger
	Theme  *theme.Theme
}

func NewPrettyStyledLogger(logger *slog.Logger, appTheme *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{logger: logger, Theme: appTheme}
}

func (sl *PrettyStyledLogger) Debug(msg string, args ...any) {
	sl.logger.Debug(msg, args...)
}

func (sl *PrettyStyledLogger) Info(msg string, args ...any) {
	sl.logger.Info(msg, args...)
}

func (sl *PrettyStyledLogger) Warn(msg string, args ...any) {
	sl.logger.Warn(msg, args...)
}

func (sl *PrettyStyledLogger) Error(msg string, args ...any) {
	sl.logger.Error(msg, args...)
}

func (sl *PrettyStyledLogger) InfoWithCorrelationID(msg string, correlationID string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Muted.Sprintf("[%s]", correlationID))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithStatus(msg string, statusCode int, args ...any) {
	colour := sl.Theme.Good
	if statusCode >= 400 {
		colour = sl.Theme.Danger
	} else if statusCode >= 300 {
		colour = sl.Theme.Warning
	}
	styledMsg := fmt.Sprintf("%s %s", msg, colour.Sprintf("(%d)", statusCode))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) WarnWithRetry(msg string, attempt, maxAttempts int, delayMs int64, args ...any) {
	detail := sl.Theme.Accent.Sprintf("attempt %d/%d, retrying in %dms", attempt, maxAttempts, delayMs)
	styledMsg := fmt.Sprintf("%s (%s)", msg, detail)
	sl.logger.Warn(styledMsg, args...)
}

func (sl *PrettyStyledLogger) ErrorWithRequest(msg string, method, uri string, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Highlight.Sprintf("%s %s", method, uri))
	sl.logger.Error(styledMsg, args...)
}

func (sl *PrettyStyledLogger) InfoWithDuration(msg string, durationMs int64, args ...any) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Muted.Sprintf("(%dms)", durationMs))
	sl.logger.Info(styledMsg, args...)
}

func (sl *PrettyStyledLogger) GetUnderlying() *slog.Logger {
	return sl.logger
}

func (sl *PrettyStyledLogger) WithRequestID(correlationID string) StyledLogger {
	return sl.With("correlation_id", correlationID)
}

func (sl *PrettyStyledLogger) WithAttrs(attrs ...slog.Attr) StyledLogger {
	args := make([]any, 0, len(attrs)*2)
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value)
	}

	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{
		logger: sl.logger.With(args...),
		Theme:  sl.Theme,
	}
}

func (sl *PrettyStyledLogger) InfoWithContext(msg string, correlationID string, ctx LogContext) {
	sl.logWithContext(LogLevelInfo, msg, correlationID, ctx)
}

func (sl *PrettyStyledLogger) WarnWithContext(msg string, correlationID string, ctx LogContext) {
	sl.logWithContext(LogLevelWarn, msg, correlationID, ctx)
}

func (sl *PrettyStyledLogger) ErrorWithContext(msg string, correlationID string, ctx LogContext) {
	sl.logWithContext(LogLevelError, msg, correlationID, ctx)
}

// logWithContext emits a styled message to the terminal handler and, when
// DetailedArgs is non-empty, a fuller record tagged for the file handler
// via DefaultDetailedCookie.
func (sl *PrettyStyledLogger) logWithContext(level string, msg string, correlationID string, ctx LogContext) {
	styledMsg := fmt.Sprintf("%s %s", msg, sl.Theme.Muted.Sprintf("[%s]", correlationID))

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
