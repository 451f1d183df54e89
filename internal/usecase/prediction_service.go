package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-center/internal/domain/analytics"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/prediction"
	"github.com/riskibarqy/match-center/internal/platform/logging"
)

const defaultPredictionWorkers = 4

// PredictionService fronts the remote scoring function and builds batch
// prediction views for a league's current slate.
type PredictionService struct {
	scorer     PredictionScorer
	matches    *MatchService
	maxWorkers int
	logger     *logging.Logger
}

func NewPredictionService(scorer PredictionScorer, matches *MatchService, maxWorkers int, logger *logging.Logger) *PredictionService {
	if maxWorkers <= 0 {
		maxWorkers = defaultPredictionWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		scorer:     scorer,
		matches:    matches,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// GetLivePrediction scores one game. Failures come back as the typed
// ErrPredictionUnavailable, never as a panic or an untyped transport error.
func (s *PredictionService) GetLivePrediction(ctx context.Context, league match.League, gameID string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetLivePrediction")
	defer span.End()

	if !league.Valid() {
		return prediction.Prediction{}, fmt.Errorf("%w: unknown league %q", ErrInvalidInput, league)
	}
	return s.scorer.Score(ctx, league, gameID)
}

// TopFactors scores one game and returns its k highest-contribution
// decision factors.
func (s *PredictionService) TopFactors(ctx context.Context, league match.League, gameID string, k int) ([]prediction.DecisionFactor, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.TopFactors")
	defer span.End()

	scored, err := s.GetLivePrediction(ctx, league, gameID)
	if err != nil {
		return nil, err
	}
	return analytics.TopFactors(scored, k), nil
}

// BuildTodayPredictions scores every game on today's board through a bounded
// worker pool. Games whose scoring fails are dropped from the batch; a
// single bad game never sinks the slate.
func (s *PredictionService) BuildTodayPredictions(ctx context.Context, league match.League) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.BuildTodayPredictions")
	defer span.End()

	games, err := s.matches.ListToday(ctx, league)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return []prediction.Prediction{}, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(games) {
		workerCount = len(games)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	type scoredGame struct {
		index  int
		result prediction.Prediction
	}
	results := make(chan scoredGame, len(games))

	var workers sync.WaitGroup
	for i, game := range games {
		i, game := i, game
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			scored, scoreErr := s.scorer.Score(ctx, league, game.EventID)
			if scoreErr != nil {
				s.logger.WarnContext(ctx, "prediction skipped for game",
					"league", string(league),
					"game_id", game.EventID,
					"error", scoreErr,
				)
				return
			}
			results <- scoredGame{index: i, result: scored}
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit scoring task: %w", err)
		}
	}

	workers.Wait()
	close(results)

	collected := make([]scoredGame, 0, len(games))
	for item := range results {
		collected = append(collected, item)
	}
	sort.SliceStable(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	out := make([]prediction.Prediction, 0, len(collected))
	for _, item := range collected {
		out = append(out, item.result)
	}
	return out, nil
}
