package bigcache

import (
	"context"
	"strconv"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/openestate/searchcache/store"
)

// BigCache backs the store protocol with an in-process cache. Incr and SetNX
// are serialized with a process-local mutex, so this store is only suitable
// for single-node deployments where all producers share the process.
type BigCache struct {
	c *bc.BigCache

	mu sync.Mutex // guards read-modify-write in Incr/SetNX
}

var _ store.Store = (*BigCache)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*BigCache, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &BigCache{c: c}, nil
}

func (s *BigCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *BigCache) Set(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	// BigCache does not support per-entry TTL; uses global LifeWindow.
	return true, s.c.Set(key, value)
}

func (s *BigCache) SetNX(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.c.Get(key); err == nil {
		return false, nil
	}
	return true, s.c.Set(key, value)
}

func (s *BigCache) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur int64
	if b, err := s.c.Get(key); err == nil {
		n, perr := strconv.ParseInt(string(b), 10, 64)
		if perr != nil {
			return 0, perr
		}
		cur = n
	}
	cur++
	if err := s.c.Set(key, []byte(strconv.FormatInt(cur, 10))); err != nil {
		return 0, err
	}
	return cur, nil
}

func (s *BigCache) Del(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if err == bc.ErrEntryNotFound {
		return nil
	}
	return err
}

func (s *BigCache) Ping(context.Context) error { return nil }

func (s *BigCache) Close(context.Context) error { return s.c.Close() }
