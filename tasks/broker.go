package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultQueue is the shared pending-task list.
const DefaultQueue = "tasks:pending"

// Broker moves tasks between producers and workers. It provides no ordering
// guarantee between tasks.
type Broker interface {
	// Enqueue submits a task. O(1); never blocks on consumers.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue blocks up to wait for a task; ok=false on timeout.
	Dequeue(ctx context.Context, wait time.Duration) (t Task, ok bool, err error)

	// Close releases resources.
	Close(ctx context.Context) error
}

var ErrNilClient = errors.New("tasks: nil redis client")

// RedisBroker queues tasks on a Redis list: LPUSH to submit, BRPOP to
// consume. Multiple worker processes can consume the same list; Redis hands
// each popped task to exactly one of them.
type RedisBroker struct {
	rdb         goredis.UniversalClient
	queue       string
	closeClient bool
}

var _ Broker = (*RedisBroker)(nil)

type RedisConfig struct {
	Client      goredis.UniversalClient
	Queue       string // "" => DefaultQueue
	CloseClient bool   // set true only if this broker exclusively owns the client
}

func NewRedisBroker(cfg RedisConfig) (*RedisBroker, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	q := cfg.Queue
	if q == "" {
		q = DefaultQueue
	}
	return &RedisBroker{rdb: cfg.Client, queue: q, closeClient: cfg.CloseClient}, nil
}

// DialRedisBroker builds a RedisBroker from a redis:// URL.
func DialRedisBroker(url, queue string) (*RedisBroker, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: goredis.NewClient(opts), queue: coalesceStr(queue, DefaultQueue), closeClient: true}, nil
}

func (b *RedisBroker) Enqueue(ctx context.Context, t Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("tasks: marshal %s: %w", t.Name, err)
	}
	return b.rdb.LPush(ctx, b.queue, raw).Err()
}

func (b *RedisBroker) Dequeue(ctx context.Context, wait time.Duration) (Task, bool, error) {
	if wait <= 0 {
		wait = time.Second
	}
	res, err := b.rdb.BRPop(ctx, wait, b.queue).Result()
	if err == goredis.Nil {
		return Task{}, false, nil // timeout, queue empty
	}
	if err != nil {
		return Task{}, false, err
	}
	// BRPOP returns [queue, payload]
	if len(res) != 2 {
		return Task{}, false, fmt.Errorf("tasks: unexpected BRPOP reply of %d elements", len(res))
	}
	var t Task
	if err := json.Unmarshal([]byte(res[1]), &t); err != nil {
		return Task{}, false, fmt.Errorf("tasks: undecodable task payload: %w", err)
	}
	return t, true, nil
}

func (b *RedisBroker) Close(context.Context) error {
	if b.closeClient {
		if err := b.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func coalesceStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
