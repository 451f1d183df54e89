package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/live"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/prediction"
)

// ScoreboardProvider is the normalized per-league surface over one upstream
// scoreboard source. Implementations own their transport, retries, and
// breaker state so one league's outage stays contained.
type ScoreboardProvider interface {
	League() match.League
	Ping(ctx context.Context) error
	ListUpcoming(ctx context.Context, windowDays int) ([]match.Game, error)
	ListToday(ctx context.Context) ([]match.Game, error)
	LiveBoard(ctx context.Context) ([]live.Snapshot, error)
	ListHistorical(ctx context.Context, teamName string, from, to time.Time) ([]match.RawEvent, error)
}

// PredictionScorer is the opaque remote scoring function.
type PredictionScorer interface {
	Score(ctx context.Context, league match.League, gameID string) (prediction.Prediction, error)
}

// SourceGate fronts a provider call with a liveness probe.
type SourceGate interface {
	Gate(ctx context.Context) error
	Healthy() bool
}
