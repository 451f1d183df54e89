package live

import (
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
)

// Status is the canonical three-valued game state. Transitions are monotonic
// per tracked game: a snapshot may never move a game from LIVE back to
// UPCOMING or from FINAL back to anything.
type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusLive     Status = "LIVE"
	StatusFinal    Status = "FINAL"
)

func (s Status) Rank() int {
	switch s {
	case StatusLive:
		return 1
	case StatusFinal:
		return 2
	default:
		return 0
	}
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Leader is a per-team, per-category top performer attached to a live game.
type Leader struct {
	TeamName   string `json:"teamName"`
	Category   string `json:"category"`
	PlayerName string `json:"playerName"`
	Headshot   string `json:"headshot,omitempty"`
	StatLine   string `json:"statLine,omitempty"`
}

// Snapshot is the full live view of one game at one poll tick. Every tick
// rebuilds it wholesale from a single upstream response; partial merges of
// two responses never happen.
type Snapshot struct {
	GameID      string       `json:"gameId"`
	League      match.League `json:"league"`
	Status      Status       `json:"status"`
	PeriodLabel string       `json:"periodLabel,omitempty"`
	Clock       string       `json:"clock,omitempty"`
	Score       *Score       `json:"score,omitempty"`
	Leaders     []Leader     `json:"leaders,omitempty"`
	Tick        uint64       `json:"-"`
	FetchedAt   time.Time    `json:"fetchedAt"`
}

// Supersedes reports whether s may replace prev as the stored snapshot.
// A nil prev is always superseded. Otherwise s must carry a newer tick
// counter (a late-resolving older poll is discarded) and must not regress
// the status.
func (s Snapshot) Supersedes(prev *Snapshot) bool {
	if prev == nil {
		return true
	}
	if s.Tick <= prev.Tick {
		return false
	}
	return s.Status.Rank() >= prev.Status.Rank()
}
