package events

import "log/slog"

// Logger writes one structured log line per dispatched Report,
// grounded on the teacher's outputs.Logger — but unlike the teacher,
// it never special-cases a raw-JSON-to-stdout mode: internal/applog
// already picked json-vs-text once for the whole process, and this
// output reuses that same *slog.Logger rather than bypassing it.
type Logger struct {
	logger *slog.Logger
}

// NewLogger wraps an existing *slog.Logger as an events.Output.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Write(report *Report) error {
	errCount := 0
	for _, r := range report.Results {
		if r.Err != nil {
			errCount++
		}
	}
	l.logger.Info("journal_closed",
		"journal_id", report.Journal.ID,
		"task_id", report.TaskID,
		"cron_id", report.CronID,
		"results", len(report.Results),
		"errors", errCount,
		"succeeded", report.Succeeded,
	)
	return nil
}

func (l *Logger) Name() string { return "logger" }
