package runner

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with annealing-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to w at or above level.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithRun tags every record with the run identifier.
func (l *Logger) WithRun(id uuid.UUID) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", id.String())}
}

// WithJob tags every record with the job index inside RunAll.
func (l *Logger) WithJob(idx int) *Logger {
	return &Logger{Logger: l.Logger.With("job", idx)}
}

// LogRound logs the end of one cooling round.
func (l *Logger) LogRound(ctx context.Context, round, steps int, temperature float64, converged bool) {
	if converged {
		l.DebugContext(ctx, "round settled",
			"round", round,
			"steps", steps,
			"temperature", temperature,
		)
		return
	}
	l.WarnContext(ctx, "round hit step limit",
		"round", round,
		"steps", steps,
		"temperature", temperature,
	)
}

// LogReheat logs a retry after numerical degeneracy.
func (l *Logger) LogReheat(ctx context.Context, round, retry int, ratio float64, cause error) {
	l.InfoContext(ctx, "reheating after degeneracy",
		"round", round,
		"retry", retry,
		"ratio", ratio,
		"cause", cause,
	)
}

// LogDone logs the outcome of a run.
func (l *Logger) LogDone(ctx context.Context, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"rounds", res.Rounds,
			"steps", res.Steps,
			"retries", res.Retries,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"rounds", res.Rounds,
		"steps", res.Steps,
		"retries", res.Retries,
		"converged", res.Converged,
		"temperature", res.State.Temperature(),
	)
}
