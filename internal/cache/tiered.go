package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// TieredCache reads memory first and falls back to a remote cache behind a circuit
// breaker. Remote failures are logged and reported as misses, never as errors.
type TieredCache struct {
	local   *MemoryCache
	remote  Cache
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewTieredCache combines a local and a remote cache.
func NewTieredCache(local *MemoryCache, remote Cache, logger *logrus.Logger) *TieredCache {
	t := &TieredCache{local: local, remote: remote, logger: logger}
	t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Cache circuit breaker changed state")
		},
	})
	return t
}

// State exposes the breaker state for health reporting.
func (t *TieredCache) State() gobreaker.State {
	return t.breaker.State()
}

func (t *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, _ := t.local.Get(ctx, key); ok {
		return v, true, nil
	}

	type hit struct {
		value []byte
		ok    bool
	}
	res, err := t.breaker.Execute(func() (interface{}, error) {
		v, ok, err := t.remote.Get(ctx, key)
		return hit{value: v, ok: ok}, err
	})
	if err != nil {
		t.logger.WithError(err).WithField("key", key).Debug("Remote cache read failed")
		return nil, false, nil
	}

	h := res.(hit)
	if h.ok {
		_ = t.local.Set(ctx, key, h.value, 0)
	}
	return h.value, h.ok, nil
}

func (t *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = t.local.Set(ctx, key, value, ttl)
	_, err := t.breaker.Execute(func() (interface{}, error) {
		return nil, t.remote.Set(ctx, key, value, ttl)
	})
	if err != nil {
		t.logger.WithError(err).WithField("key", key).Debug("Remote cache write failed")
	}
	return nil
}

func (t *TieredCache) Delete(ctx context.Context, key string) error {
	_ = t.local.Delete(ctx, key)
	_, err := t.breaker.Execute(func() (interface{}, error) {
		return nil, t.remote.Delete(ctx, key)
	})
	if err != nil {
		t.logger.WithError(err).WithField("key", key).Debug("Remote cache delete failed")
	}
	return nil
}

func (t *TieredCache) Close() error {
	_ = t.local.Close()
	return t.remote.Close()
}
