package health

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/match-center/internal/platform/logging"
)

func TestChecker_HealthyUntilFirstFailure(t *testing.T) {
	t.Parallel()

	c := NewChecker("scoreboard", nil, logging.NewNop())

	if !c.Healthy() {
		t.Fatalf("checker should assume healthy before the first probe")
	}
	if !c.LastChecked().IsZero() {
		t.Fatalf("expected zero last-checked before the first probe")
	}
}

func TestChecker_ProbeFailure(t *testing.T) {
	t.Parallel()

	probeErr := errors.New("connection refused")
	c := NewChecker("scoreboard", func(context.Context) error {
		return probeErr
	}, logging.NewNop())

	err := c.Check(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if !errors.Is(err, probeErr) {
		t.Fatalf("expected probe cause to be joined, got %v", err)
	}
	if c.Healthy() {
		t.Fatalf("expected unhealthy after failed probe")
	}
	if c.LastChecked().IsZero() {
		t.Fatalf("expected last-checked to be recorded")
	}
}

func TestChecker_Recovers(t *testing.T) {
	t.Parallel()

	healthy := false
	c := NewChecker("scoreboard", func(context.Context) error {
		if !healthy {
			return errors.New("still down")
		}
		return nil
	}, logging.NewNop())

	_ = c.Check(context.Background())
	if c.Healthy() {
		t.Fatalf("expected unhealthy while probe fails")
	}

	healthy = true
	if err := c.Gate(context.Background()); err != nil {
		t.Fatalf("expected gate to pass once probe recovers, got %v", err)
	}
	if !c.Healthy() {
		t.Fatalf("expected healthy after recovery")
	}
}
