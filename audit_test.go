package magiclink

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/OhACD/magiclink/record"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func newAuditedEngine(t *testing.T, sink AuditSink) (*Engine, *fakeClock) {
	t.Helper()

	engine, clock := newTestEngine(t, record.NewMemoryStore(), nil)
	engine.audit = newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 64,
	}, sink)
	t.Cleanup(engine.Close)
	return engine, clock
}

func waitEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()

	select {
	case event := <-sink.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func TestAuditIssueAndRedeemEvents(t *testing.T) {
	sink := NewChannelSink(16)
	engine, _ := newAuditedEngine(t, sink)
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	sealed, err := engine.Issue(ctx, "user@example.com", TokenLogin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	event := waitEvent(t, sink)
	if event.EventType != auditEventIssue || !event.Success {
		t.Fatalf("unexpected issue event %+v", event)
	}
	if event.Email != "user@example.com" || event.IP != "203.0.113.9" {
		t.Fatalf("issue event missing identity fields: %+v", event)
	}
	if event.TokenID == "" {
		t.Fatal("issue event missing token id")
	}

	if _, err := engine.Redeem(ctx, sealed, TokenLogin); err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}

	event = waitEvent(t, sink)
	if event.EventType != auditEventRedeem || !event.Success {
		t.Fatalf("unexpected redeem event %+v", event)
	}
}

func TestAuditCarriesRejectionReason(t *testing.T) {
	sink := NewChannelSink(16)
	engine, _ := newAuditedEngine(t, sink)
	ctx := context.Background()

	sealed, err := engine.Issue(ctx, "user@example.com", TokenLogin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	waitEvent(t, sink) // issue event

	if _, err := engine.Redeem(ctx, sealed, TokenLogin); err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	waitEvent(t, sink) // success event

	if _, err := engine.Redeem(ctx, sealed, TokenLogin); err == nil {
		t.Fatal("second redeem succeeded")
	}

	event := waitEvent(t, sink)
	if event.Success {
		t.Fatalf("rejection logged as success: %+v", event)
	}
	// The caller only ever sees ErrTokenInvalid; the audit trail keeps the
	// why.
	if event.Metadata["reason"] != "already_used" {
		t.Fatalf("expected reason already_used, got %+v", event.Metadata)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	sink := &countingSink{}
	engine, _ := newTestEngine(t, record.NewMemoryStore(), nil)
	engine.audit = newAuditDispatcher(AuditConfig{Enabled: false}, sink)

	if _, err := engine.Issue(context.Background(), "user@example.com", TokenLogin); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	engine.Close()

	if sink.count.Load() != 0 {
		t.Fatalf("disabled audit emitted %d events", sink.count.Load())
	}
}

func TestAuditDropIfFull(t *testing.T) {
	block := make(chan struct{})

	d := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, blockingSink{gate: block})

	// First event occupies the worker, second fills the buffer, the rest
	// must drop without blocking the caller.
	for i := 0; i < 8; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventIssue})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events")
	}

	close(block)
	d.Close()
}

type blockingSink struct {
	gate chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now(),
		EventType: auditEventRateLimit,
		Email:     "a@x.com",
	})

	out := buf.String()
	if out == "" || out[len(out)-1] != '\n' {
		t.Fatalf("expected newline-terminated JSON, got %q", out)
	}
}
