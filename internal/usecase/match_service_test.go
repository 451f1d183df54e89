package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/live"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/platform/cache"
	"github.com/riskibarqy/match-center/internal/platform/logging"
)

type stubProvider struct {
	league     match.League
	upcoming   []match.Game
	today      []match.Game
	board      []live.Snapshot
	historical []match.RawEvent
	err        error

	historicalCalls atomic.Int32
}

func (p *stubProvider) League() match.League       { return p.league }
func (p *stubProvider) Ping(context.Context) error { return p.err }
func (p *stubProvider) ListUpcoming(context.Context, int) ([]match.Game, error) {
	return p.upcoming, p.err
}
func (p *stubProvider) ListToday(context.Context) ([]match.Game, error) { return p.today, p.err }
func (p *stubProvider) LiveBoard(context.Context) ([]live.Snapshot, error) {
	return p.board, p.err
}
func (p *stubProvider) ListHistorical(context.Context, string, time.Time, time.Time) ([]match.RawEvent, error) {
	p.historicalCalls.Add(1)
	return p.historical, p.err
}

type stubGate struct {
	err error
}

func (g *stubGate) Gate(context.Context) error { return g.err }
func (g *stubGate) Healthy() bool              { return g.err == nil }

func gameNamed(home, away string) match.Game {
	return match.Game{
		HomeTeam: match.Team{DisplayName: home},
		AwayTeam: match.Team{DisplayName: away},
	}
}

func TestMatchService_ListUpcoming_GateBlocksCall(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{league: match.LeagueNBA, upcoming: []match.Game{gameNamed("A", "B")}}
	service := NewMatchService(
		map[match.League]ScoreboardProvider{match.LeagueNBA: provider},
		map[match.League]SourceGate{match.LeagueNBA: &stubGate{err: errors.New("probe refused")}},
		nil,
		logging.NewNop(),
	)

	_, err := service.ListUpcoming(context.Background(), match.LeagueNBA, 7)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable from failed gate, got %v", err)
	}
}

func TestMatchService_ListUpcoming_UnknownLeague(t *testing.T) {
	t.Parallel()

	service := NewMatchService(nil, nil, nil, logging.NewNop())

	_, err := service.ListUpcoming(context.Background(), match.LeagueNBA, 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_ListAllUpcoming_DegradesFailedSourceToEmpty(t *testing.T) {
	t.Parallel()

	healthy := &stubProvider{league: match.LeagueNBA, upcoming: []match.Game{gameNamed("A", "B")}}
	broken := &stubProvider{league: match.LeaguePremierLeague, err: errors.New("upstream down")}

	service := NewMatchService(
		map[match.League]ScoreboardProvider{
			match.LeagueNBA:           healthy,
			match.LeaguePremierLeague: broken,
		},
		nil,
		nil,
		logging.NewNop(),
	)

	out, err := service.ListAllUpcoming(context.Background(), 7)
	if err != nil {
		t.Fatalf("one healthy source must keep the aggregate alive, got %v", err)
	}

	if len(out[match.LeagueNBA]) != 1 {
		t.Fatalf("expected the healthy league's games, got %+v", out[match.LeagueNBA])
	}
	epl, ok := out[match.LeaguePremierLeague]
	if !ok || epl == nil || len(epl) != 0 {
		t.Fatalf("expected the failed league to degrade to an empty slice, got %+v (present=%v)", epl, ok)
	}
}

func TestMatchService_ListAllUpcoming_AllSourcesFailing(t *testing.T) {
	t.Parallel()

	service := NewMatchService(
		map[match.League]ScoreboardProvider{
			match.LeagueNBA:           &stubProvider{league: match.LeagueNBA, err: errors.New("down")},
			match.LeaguePremierLeague: &stubProvider{league: match.LeaguePremierLeague, err: errors.New("down")},
		},
		nil,
		nil,
		logging.NewNop(),
	)

	_, err := service.ListAllUpcoming(context.Background(), 7)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable when every source fails, got %v", err)
	}
}

func TestMatchService_ListHistorical_Validation(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{league: match.LeagueNBA}
	service := NewMatchService(
		map[match.League]ScoreboardProvider{match.LeagueNBA: provider},
		nil,
		nil,
		logging.NewNop(),
	)

	now := time.Now()
	if _, err := service.ListHistorical(context.Background(), match.LeagueNBA, "", now.Add(-time.Hour), now); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty team, got %v", err)
	}
	if _, err := service.ListHistorical(context.Background(), match.LeagueNBA, "Lakers", now, now.Add(-time.Hour)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}
}

func TestMatchService_ListHistorical_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		league:     match.LeagueNBA,
		historical: []match.RawEvent{{EventID: "e1", HomeTeam: "Lakers", AwayTeam: "Celtics"}},
	}
	service := NewMatchService(
		map[match.League]ScoreboardProvider{match.LeagueNBA: provider},
		nil,
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		events, err := service.ListHistorical(context.Background(), match.LeagueNBA, "Lakers", from, to)
		if err != nil {
			t.Fatalf("ListHistorical: %v", err)
		}
		if len(events) != 1 || events[0].EventID != "e1" {
			t.Fatalf("unexpected events: %+v", events)
		}
	}

	if got := provider.historicalCalls.Load(); got != 1 {
		t.Fatalf("expected one provider fetch within the TTL, got %d", got)
	}
}
