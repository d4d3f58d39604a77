package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openestate/searchcache"
)

const (
	defaultConcurrency = 4
	defaultDequeueWait = 2 * time.Second
	dequeueErrBackoff  = time.Second
)

// WorkerOptions tune one worker process. Broker is required.
type WorkerOptions struct {
	Broker      Broker
	Results     *Results           // nil => outcomes are logged only
	Logger      searchcache.Logger // nil => NopLogger
	Concurrency int                // parallel executors; 0 => 4
	DequeueWait time.Duration      // broker poll timeout; 0 => 2s
}

// Worker pulls tasks from the broker and dispatches them to handlers
// registered by name. Handler panics and errors are captured as failure
// Results; the worker itself keeps running until its context is cancelled.
type Worker struct {
	broker      Broker
	results     *Results
	log         searchcache.Logger
	concurrency int
	wait        time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewWorker(opts WorkerOptions) (*Worker, error) {
	if opts.Broker == nil {
		return nil, fmt.Errorf("tasks: broker is required")
	}
	w := &Worker{
		broker:      opts.Broker,
		results:     opts.Results,
		log:         opts.Logger,
		concurrency: opts.Concurrency,
		wait:        opts.DequeueWait,
		handlers:    make(map[string]Handler),
	}
	if w.log == nil {
		w.log = searchcache.NopLogger{}
	}
	if w.concurrency <= 0 {
		w.concurrency = defaultConcurrency
	}
	if w.wait <= 0 {
		w.wait = defaultDequeueWait
	}
	return w, nil
}

// Register binds a handler to a task name. Call before Run; tasks with no
// handler are reported as failures, not requeued.
func (w *Worker) Register(name string, h Handler) {
	w.mu.Lock()
	w.handlers[name] = h
	w.mu.Unlock()
}

// Run blocks, executing tasks on w.concurrency goroutines until ctx is
// cancelled. An in-flight handler finishes before its goroutine exits.
func (w *Worker) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		t, ok, err := w.broker.Dequeue(ctx, w.wait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("dequeue failed", searchcache.Fields{"err": err})
			select {
			case <-time.After(dequeueErrBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}
		if !ok {
			continue
		}
		res := w.execute(ctx, t)
		if w.results != nil {
			if rerr := w.results.Record(ctx, res); rerr != nil {
				w.log.Warn("result record failed", searchcache.Fields{"task": t.Name, "id": t.ID, "err": rerr})
			}
		}
		if res.Success {
			w.log.Debug("task finished", searchcache.Fields{"task": t.Name, "id": t.ID})
		} else {
			w.log.Error("task failed", searchcache.Fields{"task": t.Name, "id": t.ID, "err": res.Error})
		}
	}
}

// execute runs one task in isolation: whatever the handler does, the
// outcome is a well-formed Result.
func (w *Worker) execute(ctx context.Context, t Task) (res Result) {
	res = Result{TaskID: t.ID, Name: t.Name}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Result = nil
			res.Error = fmt.Sprintf("panic: %v", r)
		}
		res.FinishedAt = time.Now().UTC()
	}()

	w.mu.RLock()
	h, ok := w.handlers[t.Name]
	w.mu.RUnlock()
	if !ok {
		res.Error = fmt.Sprintf("no handler registered for %q", t.Name)
		return res
	}

	out, err := h(ctx, t.Kwargs)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.Result = out
	return res
}
