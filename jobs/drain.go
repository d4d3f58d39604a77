package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/openestate/searchcache"
	"github.com/openestate/searchcache/tasks"
)

const (
	// TaskDrainNotifications names the periodic queue-drain task.
	TaskDrainNotifications = "notify.drain_queue"

	// DefaultDrainBatch bounds one drain pass.
	DefaultDrainBatch = 50

	// DefaultDrainInterval is the scheduler cadence when none is configured.
	DefaultDrainInterval = 30 * time.Second
)

// Notifier drains a pending-notification backlog in bounded batches. The
// notification content and transport are the host application's concern.
type Notifier interface {
	DrainPending(ctx context.Context, batch int) (sent int, err error)
}

// DrainNotifications returns the handler for TaskDrainNotifications.
func DrainNotifications(n Notifier, log searchcache.Logger) tasks.Handler {
	if log == nil {
		log = searchcache.NopLogger{}
	}
	return func(ctx context.Context, kwargs map[string]any) (map[string]any, error) {
		batch := DefaultDrainBatch
		switch v := kwargs["batch_size"].(type) {
		case int:
			batch = v
		case float64: // JSON round-trip
			batch = int(v)
		case nil:
		default:
			return nil, fmt.Errorf("batch_size: expected integer, got %T", v)
		}
		if batch < 1 {
			batch = DefaultDrainBatch
		}

		sent, err := n.DrainPending(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("drain notifications: %w", err)
		}
		log.Debug("notification queue drained", searchcache.Fields{"sent": sent, "batch": batch})
		return map[string]any{"sent": sent, "batch_size": batch}, nil
	}
}

// ScheduleDrain registers the periodic drain on the scheduler. every is
// floored to tasks.MinInterval; batch <= 0 uses DefaultDrainBatch.
func ScheduleDrain(s *tasks.Scheduler, every time.Duration, batch int) {
	if every <= 0 {
		every = DefaultDrainInterval
	}
	if batch <= 0 {
		batch = DefaultDrainBatch
	}
	s.Every(TaskDrainNotifications, every, map[string]any{"batch_size": batch})
}
