package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openestate/searchcache"
)

// MinInterval is the floor on schedule cadence; finer-grained periodic work
// does not belong on the task queue.
const MinInterval = 5 * time.Second

// Schedule is one fixed-interval entry: the named task is submitted with the
// same kwargs on every tick, independent of application events.
type Schedule struct {
	Name   string
	Every  time.Duration
	Kwargs map[string]any
}

// Scheduler re-fires registered schedules indefinitely. Entries are
// registered once at process start; Run evaluates them until its context is
// cancelled. Enqueue failures are logged and the cadence keeps going.
type Scheduler struct {
	client  *Client
	log     searchcache.Logger
	entries []Schedule
}

func NewScheduler(client *Client, log searchcache.Logger) (*Scheduler, error) {
	if client == nil {
		return nil, fmt.Errorf("tasks: client is required")
	}
	if log == nil {
		log = searchcache.NopLogger{}
	}
	return &Scheduler{client: client, log: log}, nil
}

// Every registers a fixed-interval schedule. Intervals under MinInterval are
// raised to it. Not safe to call after Run.
func (s *Scheduler) Every(name string, every time.Duration, kwargs map[string]any) {
	if every < MinInterval {
		every = MinInterval
	}
	s.entries = append(s.entries, Schedule{Name: name, Every: every, Kwargs: kwargs})
}

// Run blocks until ctx is cancelled, ticking every registered schedule on
// its own cadence.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(len(s.entries))
	for _, e := range s.entries {
		go func(e Schedule) {
			defer wg.Done()
			s.tickLoop(ctx, e)
		}(e)
	}
	wg.Wait()
	return ctx.Err()
}

func (s *Scheduler) tickLoop(ctx context.Context, e Schedule) {
	ticker := time.NewTicker(e.Every)
	defer ticker.Stop()
	s.log.Info("schedule registered", searchcache.Fields{"task": e.Name, "every": e.Every.String()})
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.client.Enqueue(ctx, e.Name, e.Kwargs); err != nil {
				s.log.Warn("scheduled enqueue failed", searchcache.Fields{"task": e.Name, "err": err})
			}
		}
	}
}
