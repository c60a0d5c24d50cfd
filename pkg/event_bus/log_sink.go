package event_bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reelay/reelay/pkg/events"
	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// LogSink subscribes to run lifecycle events and persists each one as
// a log entry, so the dashboard can show activity without tailing
// process output.
type LogSink struct {
	logs   persistence.LogRepository
	logger *slog.Logger
}

func NewLogSink(logs persistence.LogRepository, logger *slog.Logger) *LogSink {
	return &LogSink{
		logs:   logs,
		logger: logger.With("module", "log_sink"),
	}
}

// Start attaches the sink to the bus. Entries that fail to persist are
// logged and dropped, never retried.
func (s *LogSink) Start(ctx context.Context, bus EventSubscriber) error {
	return bus.Subscribe(ctx, func(ctx context.Context, event events.Event) error {
		entry := s.entryFor(event)
		if entry == nil {
			return nil
		}

		if err := s.logs.Append(ctx, entry); err != nil {
			s.logger.Error("Failed to persist event log entry", "event_type", event.GetType(), "error", err)
		}

		return nil
	})
}

func (s *LogSink) entryFor(event events.Event) *models.LogEntry {
	switch e := event.(type) {
	case *events.RunStarted:
		return newEntry(e.Timestamp, "info",
			fmt.Sprintf("Run %s started for workflow %q", e.RunID, e.WorkflowName),
			map[string]any{"run_id": e.RunID, "workflow_id": e.WorkflowID})
	case *events.RunCompleted:
		return newEntry(e.Timestamp, "info",
			fmt.Sprintf("Run %s completed", e.RunID),
			map[string]any{"run_id": e.RunID, "video_id": e.VideoID, "duration_ms": e.DurationMs})
	case *events.RunFailed:
		return newEntry(e.Timestamp, "error",
			fmt.Sprintf("Run %s failed at stage %s: %s", e.RunID, e.Stage, e.Error),
			map[string]any{"run_id": e.RunID, "stage": e.Stage, "duration_ms": e.DurationMs})
	case *events.VideoStageChanged:
		return newEntry(e.Timestamp, "info",
			fmt.Sprintf("Video %s moved from %s to %s", e.VideoID, e.From, e.To),
			map[string]any{"run_id": e.RunID, "video_id": e.VideoID})
	case *events.PlatformPosted:
		return newEntry(e.Timestamp, "info",
			fmt.Sprintf("Video %s posted to %s", e.VideoID, e.Platform),
			map[string]any{"run_id": e.RunID, "video_id": e.VideoID, "platform": string(e.Platform)})
	default:
		return nil
	}
}

func newEntry(at time.Time, level, message string, details map[string]any) *models.LogEntry {
	return &models.LogEntry{
		ID:        uuid.New().String(),
		Timestamp: at,
		Level:     level,
		Message:   message,
		Details:   details,
	}
}
