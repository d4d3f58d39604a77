package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openestate/searchcache"
)

// Client is the producer side: it stamps tasks with an id and submission
// time and hands them to the broker. It satisfies searchcache.Enqueuer, so
// the Controller can submit warm-up tasks without knowing about brokers.
type Client struct {
	broker Broker
	log    searchcache.Logger
}

var _ searchcache.Enqueuer = (*Client)(nil)

func NewClient(b Broker, log searchcache.Logger) (*Client, error) {
	if b == nil {
		return nil, fmt.Errorf("tasks: broker is required")
	}
	if log == nil {
		log = searchcache.NopLogger{}
	}
	return &Client{broker: b, log: log}, nil
}

func (c *Client) Enqueue(ctx context.Context, name string, kwargs map[string]any) error {
	t := Task{
		ID:         uuid.NewString(),
		Name:       name,
		Kwargs:     kwargs,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := c.broker.Enqueue(ctx, t); err != nil {
		return fmt.Errorf("tasks: enqueue %s: %w", name, err)
	}
	c.log.Debug("task enqueued", searchcache.Fields{"task": name, "id": t.ID})
	return nil
}
