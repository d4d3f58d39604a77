package tasks

import (
	"context"
	"errors"
	"time"
)

// MemBroker is a channel-backed broker for single-process deployments and
// tests. Same contract as RedisBroker minus cross-process delivery.
type MemBroker struct {
	ch chan Task
}

var _ Broker = (*MemBroker)(nil)

var ErrQueueFull = errors.New("tasks: in-memory queue full")

func NewMemBroker(capacity int) *MemBroker {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemBroker{ch: make(chan Task, capacity)}
}

func (b *MemBroker) Enqueue(_ context.Context, t Task) error {
	select {
	case b.ch <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

func (b *MemBroker) Dequeue(ctx context.Context, wait time.Duration) (Task, bool, error) {
	if wait <= 0 {
		wait = time.Second
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case t := <-b.ch:
		return t, true, nil
	case <-timer.C:
		return Task{}, false, nil
	case <-ctx.Done():
		return Task{}, false, ctx.Err()
	}
}

func (b *MemBroker) Close(context.Context) error { return nil }

// Len reports the number of queued tasks. Test helper.
func (b *MemBroker) Len() int { return len(b.ch) }
