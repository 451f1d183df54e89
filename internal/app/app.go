package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-center/internal/config"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/external/espn"
	"github.com/riskibarqy/match-center/internal/external/scoring"
	"github.com/riskibarqy/match-center/internal/health"
	"github.com/riskibarqy/match-center/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-center/internal/platform/cache"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/resilience"
	"github.com/riskibarqy/match-center/internal/scheduler"
	"github.com/riskibarqy/match-center/internal/usecase"
)

// App owns the wired service graph. Construction is side-effect free;
// nothing polls or listens until Start.
type App struct {
	Server    *http.Server
	Refresher *scheduler.Refresher

	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	scoreboardCircuit := resilience.CircuitBreakerConfig{
		Enabled:          cfg.ScoreboardCircuitEnabled,
		FailureThreshold: cfg.ScoreboardCircuitFailureCount,
		OpenTimeout:      cfg.ScoreboardCircuitOpenTimeout,
		HalfOpenLimit:    cfg.ScoreboardCircuitHalfOpenMax,
	}

	providers := make(map[match.League]usecase.ScoreboardProvider, len(match.AllLeagues))
	gates := make(map[match.League]usecase.SourceGate, len(match.AllLeagues))
	checkers := make([]*health.Checker, 0, len(match.AllLeagues))
	for _, league := range match.AllLeagues {
		client, err := espn.NewClient(espn.ClientConfig{
			BaseURL:        cfg.ScoreboardBaseURL,
			League:         league,
			Timeout:        cfg.ScoreboardTimeout,
			MaxRetries:     cfg.ScoreboardMaxRetries,
			Logger:         logger,
			CircuitBreaker: scoreboardCircuit,
		})
		if err != nil {
			return nil, fmt.Errorf("build %s scoreboard client: %w", league, err)
		}

		checker := health.NewChecker(string(league)+"-scoreboard", client.Ping, logger)
		providers[league] = client
		gates[league] = checker
		checkers = append(checkers, checker)
	}

	scoringClient := scoring.NewClient(scoring.ClientConfig{
		BaseURL:    cfg.ScoringBaseURL,
		Timeout:    cfg.ScoringTimeout,
		MaxRetries: cfg.ScoringMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScoringCircuitEnabled,
			FailureThreshold: cfg.ScoringCircuitFailureCount,
			OpenTimeout:      cfg.ScoringCircuitOpenTimeout,
			HalfOpenLimit:    cfg.ScoringCircuitHalfOpenMax,
		},
	})

	historyCache := cache.NewStore(cfg.CacheTTL)
	matchSvc := usecase.NewMatchService(providers, gates, historyCache, logger)
	predictionSvc := usecase.NewPredictionService(scoringClient, matchSvc, cfg.ScoringMaxWorkers, logger)

	refresher := scheduler.New(scheduler.Config{
		HeartbeatInterval: cfg.HeartbeatInterval,
		LivePollInterval:  cfg.LivePollInterval,
		WindowDays:        cfg.WindowDays,
		Location:          cfg.Timezone,
	}, matchSvc, providers, checkers, logger)

	handler := httpapi.NewHandler(matchSvc, predictionSvc, refresher, checkers, ctx, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:    server,
		Refresher: refresher,
		logger:    logger,
	}, nil
}

// Start warms the upcoming window and launches the refresh cadences.
func (a *App) Start(ctx context.Context) {
	a.Refresher.Start(ctx)
}

// Stop tears down the refresher first so no poll writes land after the
// HTTP surface has gone away.
func (a *App) Stop(ctx context.Context) error {
	a.Refresher.Stop()
	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}
