package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/platform/cache"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const DefaultWindowDays = 7

// MatchService aggregates normalized match data across leagues. Every
// provider call is gated by that source's liveness probe, and the aggregate
// views degrade a failed source to an empty list instead of failing the
// whole response.
type MatchService struct {
	providers map[match.League]ScoreboardProvider
	gates     map[match.League]SourceGate
	history   *cache.Store
	logger    *logging.Logger
}

func NewMatchService(
	providers map[match.League]ScoreboardProvider,
	gates map[match.League]SourceGate,
	history *cache.Store,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		providers: providers,
		gates:     gates,
		history:   history,
		logger:    logger,
	}
}

func (s *MatchService) provider(league match.League) (ScoreboardProvider, error) {
	provider, ok := s.providers[league]
	if !ok {
		return nil, fmt.Errorf("%w: league %q is not configured", ErrNotFound, league)
	}
	return provider, nil
}

// gatedCall probes the source before the substantive request. A failed probe
// raises immediately and saves the round trip.
func (s *MatchService) gatedCall(ctx context.Context, league match.League) error {
	gate, ok := s.gates[league]
	if !ok {
		return nil
	}
	if err := gate.Gate(ctx); err != nil {
		return fmt.Errorf("%w: league %s: %v", ErrSourceUnavailable, league, err)
	}
	return nil
}

// ListUpcoming returns the league's games inside the forward window,
// default seven days, inclusive at the boundary.
func (s *MatchService) ListUpcoming(ctx context.Context, league match.League, windowDays int) ([]match.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListUpcoming")
	defer span.End()

	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	provider, err := s.provider(league)
	if err != nil {
		return nil, err
	}
	if err := s.gatedCall(ctx, league); err != nil {
		return nil, err
	}

	games, err := provider.ListUpcoming(ctx, windowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: league %s: %v", ErrSourceUnavailable, league, err)
	}
	return games, nil
}

// ListAllUpcoming fans out across every configured league concurrently.
// A failed source contributes an empty slice; only all sources failing
// surfaces as an error.
func (s *MatchService) ListAllUpcoming(ctx context.Context, windowDays int) (map[match.League][]match.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListAllUpcoming")
	defer span.End()

	type leagueResult struct {
		league match.League
		games  []match.Game
		err    error
	}

	p := pool.NewWithResults[leagueResult]().WithMaxGoroutines(len(s.providers) + 1)
	for league := range s.providers {
		league := league
		p.Go(func() leagueResult {
			games, err := s.ListUpcoming(ctx, league, windowDays)
			return leagueResult{league: league, games: games, err: err}
		})
	}

	out := make(map[match.League][]match.Game, len(s.providers))
	failures := 0
	for _, result := range p.Wait() {
		if result.err != nil {
			s.logger.WarnContext(ctx, "upcoming fetch degraded to empty",
				"league", string(result.league),
				"error", result.err,
			)
			out[result.league] = []match.Game{}
			failures++
			continue
		}
		out[result.league] = result.games
	}

	if len(s.providers) > 0 && failures == len(s.providers) {
		return nil, fmt.Errorf("%w: all scoreboard sources failed", ErrSourceUnavailable)
	}
	return out, nil
}

// ListToday returns the league's current scoreboard day.
func (s *MatchService) ListToday(ctx context.Context, league match.League) ([]match.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListToday")
	defer span.End()

	provider, err := s.provider(league)
	if err != nil {
		return nil, err
	}
	if err := s.gatedCall(ctx, league); err != nil {
		return nil, err
	}

	games, err := provider.ListToday(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: league %s: %v", ErrSourceUnavailable, league, err)
	}
	return games, nil
}

// ListHistorical returns a team's raw events for the date range, cached for
// one TTL window to keep repeated record and chart queries off the provider.
func (s *MatchService) ListHistorical(ctx context.Context, league match.League, teamName string, from, to time.Time) ([]match.RawEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListHistorical")
	defer span.End()

	if teamName == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", ErrInvalidInput)
	}
	provider, err := s.provider(league)
	if err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (any, error) {
		if err := s.gatedCall(ctx, league); err != nil {
			return nil, err
		}
		events, err := provider.ListHistorical(ctx, teamName, from, to)
		if err != nil {
			return nil, fmt.Errorf("%w: league %s: %v", ErrSourceUnavailable, league, err)
		}
		return events, nil
	}

	if s.history == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]match.RawEvent), nil
	}

	key := fmt.Sprintf("history:%s:%s:%s:%s", league, teamName, from.Format("20060102"), to.Format("20060102"))
	value, err := s.history.GetOrLoad(ctx, key, load)
	if err != nil {
		return nil, err
	}
	events, ok := value.([]match.RawEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T", value)
	}
	return events, nil
}
