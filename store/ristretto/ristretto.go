package ristretto

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/openestate/searchcache/store"
)

// Ristretto backs the store protocol with an in-process admission-based
// cache. Like the BigCache store, Incr and SetNX are serialized with a
// process-local mutex; single-node deployments only.
//
// Ristretto admits writes asymmetrically under pressure, so Set may report
// ok=false; callers already treat cache writes as best-effort.
type Ristretto struct {
	c *rc.Cache

	mu sync.Mutex // guards read-modify-write in Incr/SetNX
}

var _ store.Store = (*Ristretto)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Ristretto, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto store: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{c: c}, nil
}

func (s *Ristretto) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Ristretto) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return s.c.SetWithTTL(key, value, int64(len(value))+1, ttl), nil
}

func (s *Ristretto) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.c.Get(key); ok {
		return false, nil
	}
	ok := s.c.SetWithTTL(key, value, int64(len(value))+1, ttl)
	if ok {
		s.c.Wait() // make the write visible to the next SetNX/Incr
	}
	return ok, nil
}

func (s *Ristretto) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur int64
	if v, ok := s.c.Get(key); ok {
		b, _ := v.([]byte)
		n, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return 0, err
		}
		cur = n
	}
	cur++
	raw := []byte(strconv.FormatInt(cur, 10))
	if !s.c.Set(key, raw, int64(len(raw))+1) {
		return 0, errors.New("ristretto store: counter write rejected")
	}
	s.c.Wait()
	return cur, nil
}

func (s *Ristretto) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Ristretto) Ping(context.Context) error { return nil }

func (s *Ristretto) Close(context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto metrics to the host application (not part of the
// store protocol).
func (s *Ristretto) Metrics() *rc.Metrics { return s.c.Metrics }
