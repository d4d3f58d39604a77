// Package tasks is the asynchronous work-distribution substrate: producers
// enqueue named tasks with keyword arguments through a broker; worker
// processes dequeue and execute them. Tasks may run out of submission order,
// concurrently, on different workers. Every execution ends in a structured
// Result; a failing handler never takes the worker down with it.
package tasks

import (
	"context"
	"time"
)

// Task is one unit of asynchronous work. Kwargs must be JSON-serializable.
type Task struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kwargs     map[string]any `json:"kwargs,omitempty"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// Result is the structured outcome of one task execution. Callers and
// observability tooling inspect this record instead of relying on error
// propagation through the broker.
type Result struct {
	TaskID     string         `json:"task_id"`
	Name       string         `json:"name"`
	Success    bool           `json:"success"`
	Result     map[string]any `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Handler executes one task. A returned error becomes a failure Result; a
// handler that wants to report a domain-level failure without triggering
// broker retries returns a payload with success=false and a nil error.
type Handler func(ctx context.Context, kwargs map[string]any) (map[string]any, error)
