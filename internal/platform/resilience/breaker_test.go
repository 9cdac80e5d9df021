package resilience

import (
	"testing"
	"time"
)

func TestBreakerTripsAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 3, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if err := b.Allow(); err != nil {
			t.Fatalf("breaker opened after %d failures", i+1)
		}
	}

	b.RecordFailure()
	if err := b.Allow(); err == nil {
		t.Fatal("expected open breaker after threshold failures")
	}
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("state = %s, want open", got)
	}
}

func TestBreakerHalfOpenProbeClosesOnSuccess(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond, HalfOpenMaxReq: 1})
	b.RecordFailure()

	current := time.Now()
	b.now = func() time.Time { return current }
	b.openedAt = current.Add(-time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	// A second probe above the half-open budget must be rejected.
	if err := b.Allow(); err == nil {
		t.Fatal("expected probe budget to be exhausted")
	}

	b.RecordSuccess()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %s, want closed", got)
	}
}

func TestBreakerDisabledIsTransparent(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{Enabled: false})
	for i := 0; i < 100; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker rejected request: %v", err)
	}
}
