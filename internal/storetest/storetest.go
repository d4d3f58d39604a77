// Package storetest provides in-memory store.Store implementations for
// package tests: a working fake with TTLs and failure injection, and an
// always-failing store for degraded-mode scenarios.
package storetest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

var ErrDown = errors.New("storetest: store down")

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Mem is a store.Store backed by a map. Safe for concurrent use.
type Mem struct {
	mu sync.Mutex
	m  map[string]entry

	// FailAll makes every operation return ErrDown.
	FailAll bool
	// FailIncr makes only Incr fail, for partial-invalidation scenarios.
	FailIncr bool
	// RejectSet makes Set report ok=false without storing.
	RejectSet bool
}

func NewMem() *Mem { return &Mem{m: make(map[string]entry)} }

func (p *Mem) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAll {
		return nil, false, ErrDown
	}
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *Mem) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAll {
		return false, ErrDown
	}
	if p.RejectSet {
		return false, nil
	}
	p.set(key, value, ttl)
	return true, nil
}

func (p *Mem) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAll {
		return false, ErrDown
	}
	if e, ok := p.m[key]; ok && (e.exp.IsZero() || time.Now().Before(e.exp)) {
		return false, nil
	}
	p.set(key, value, ttl)
	return true, nil
}

func (p *Mem) Incr(_ context.Context, key string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAll || p.FailIncr {
		return 0, ErrDown
	}
	var cur int64
	if e, ok := p.m[key]; ok {
		n, err := strconv.ParseInt(string(e.v), 10, 64)
		if err != nil {
			return 0, err
		}
		cur = n
	}
	cur++
	p.set(key, []byte(strconv.FormatInt(cur, 10)), 0)
	return cur, nil
}

func (p *Mem) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAll {
		return ErrDown
	}
	delete(p.m, key)
	return nil
}

func (p *Mem) Ping(context.Context) error {
	if p.FailAll {
		return ErrDown
	}
	return nil
}

func (p *Mem) Close(context.Context) error { return nil }

// Put injects raw bytes directly, bypassing failure flags. For corruption
// scenarios.
func (p *Mem) Put(key string, value []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(key, value, 0)
}

// Raw returns the stored bytes without TTL bookkeeping.
func (p *Mem) Raw(key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[key]
	return e.v, ok
}

// Keys lists the stored keys in no particular order.
func (p *Mem) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	return keys
}

// Len reports the number of live entries.
func (p *Mem) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

func (p *Mem) set(key string, value []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = entry{v: value, exp: exp}
}
