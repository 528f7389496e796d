package breaker

import (
	"errors"
	"testing"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/sony/gobreaker"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test")
	boom := errors.New("boom")

	for i := 0; i < config.BreakerConsecutiveFailures; i++ {
		if _, err := Do(b, func() (string, error) { return "", boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected the call error, got %v", i, err)
		}
	}

	calls := 0
	_, err := Do(b, func() (string, error) {
		calls++
		return "ok", nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open state error, got %v", err)
	}
	if calls != 0 {
		t.Error("an open breaker must not run the call")
	}
	if b.State() != gobreaker.StateOpen.String() {
		t.Errorf("unexpected state %s", b.State())
	}
}

func TestNilBreakerPassesThrough(t *testing.T) {
	got, err := Do(nil, func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Errorf("expected 7, got %d (%v)", got, err)
	}
}
