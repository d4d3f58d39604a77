package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openestate/searchcache"
	"github.com/openestate/searchcache/internal/util"
)

// DefaultResultTTL bounds how long task results stay queryable.
const DefaultResultTTL = time.Hour

// Results stores the structured outcome of each executed task in the shared
// store, TTL-bounded. With the store degraded, recording is a silent drop;
// the task itself already ran.
type Results struct {
	client *searchcache.Client
	ttl    time.Duration
}

func NewResults(client *searchcache.Client, ttl time.Duration) *Results {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &Results{client: client, ttl: ttl}
}

func (r *Results) Record(ctx context.Context, res Result) error {
	s, ok := r.client.Store(ctx)
	if !ok {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = s.Set(ctx, util.TaskResultKey(res.TaskID), raw, r.ttl)
	return err
}

func (r *Results) Load(ctx context.Context, taskID string) (Result, bool, error) {
	s, ok := r.client.Store(ctx)
	if !ok {
		return Result{}, false, nil
	}
	raw, found, err := s.Get(ctx, util.TaskResultKey(taskID))
	if err != nil || !found {
		return Result{}, false, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, false, err
	}
	return res, true, nil
}
