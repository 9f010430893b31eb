package magiclink

import (
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/OhACD/magiclink/internal/rate"
	"github.com/OhACD/magiclink/record"
	"github.com/OhACD/magiclink/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeClock drives both the engine and the codec in tests so record expiry
// and envelope staleness move together.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newTestEngine(t *testing.T, store record.Store, rdb redis.UniversalClient) (*Engine, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.Secret = cloneBytes(testSecret)

	codec, err := token.NewCodec(token.Config{
		Secret:   cloneBytes(testSecret),
		Leeway:   cfg.Leeway,
		TimeFunc: clock.Now,
	})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	engine := &Engine{
		config:  cfg,
		codec:   codec,
		store:   store,
		metrics: NewMetrics(MetricsConfig{Enabled: true}),
		now:     clock.Now,
	}
	if rdb != nil {
		engine.limiter = rate.New(rdb)
	}

	return engine, clock
}
