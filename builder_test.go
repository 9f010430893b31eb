package magiclink

import (
	"context"
	"errors"
	"testing"

	"github.com/OhACD/magiclink/record"
)

func TestBuilderBuildSuccess(t *testing.T) {
	_, rdb := newTestRedis(t)

	engine, err := New().
		WithSecret(testSecret).
		WithRedis(rdb).
		WithRecordStore(record.NewMemoryStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	sealed, err := engine.Issue(context.Background(), "user@example.com", TokenLogin)
	if err != nil {
		t.Fatalf("built engine cannot issue: %v", err)
	}
	if _, err := engine.Redeem(context.Background(), sealed, TokenLogin); err != nil {
		t.Fatalf("built engine cannot redeem: %v", err)
	}
}

func TestBuilderRequiresRedis(t *testing.T) {
	_, err := New().
		WithSecret(testSecret).
		WithRecordStore(record.NewMemoryStore()).
		Build()
	if err == nil {
		t.Fatal("Build succeeded without redis")
	}
}

func TestBuilderRequiresRecordStore(t *testing.T) {
	_, rdb := newTestRedis(t)

	_, err := New().
		WithSecret(testSecret).
		WithRedis(rdb).
		Build()
	if err == nil {
		t.Fatal("Build succeeded without a record store or database")
	}
}

func TestBuilderRejectsBadConfig(t *testing.T) {
	_, rdb := newTestRedis(t)

	_, err := New().
		WithSecret([]byte("short")).
		WithRedis(rdb).
		WithRecordStore(record.NewMemoryStore()).
		Build()
	if err == nil {
		t.Fatal("Build accepted an undersized secret")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	_, rdb := newTestRedis(t)

	b := New().
		WithSecret(testSecret).
		WithRedis(rdb).
		WithRecordStore(record.NewMemoryStore())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("builder reused")
	}
}

func TestBuilderConfigCloned(t *testing.T) {
	_, rdb := newTestRedis(t)

	cfg := DefaultConfig()
	cfg.Secret = cloneBytes(testSecret)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithRecordStore(record.NewMemoryStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	// Mutating the caller's map after Build must not change engine behavior.
	delete(cfg.RateLimit.Actions, "login")

	if err := engine.CheckRateLimit(context.Background(), "login", "a@x.com"); err != nil {
		t.Fatalf("engine lost its cloned config: %v", err)
	}
}

func TestBuilderWithoutMailer(t *testing.T) {
	_, rdb := newTestRedis(t)

	engine, err := New().
		WithSecret(testSecret).
		WithRedis(rdb).
		WithRecordStore(record.NewMemoryStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	_, err = engine.SendLoginLink(context.Background(), "user@example.com", "https://example.com")
	if !errors.Is(err, ErrMailerNotConfigured) {
		t.Fatalf("expected ErrMailerNotConfigured, got %v", err)
	}
}
