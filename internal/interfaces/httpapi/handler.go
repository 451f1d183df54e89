package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/health"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/scheduler"
	"github.com/riskibarqy/match-center/internal/usecase"
)

type Handler struct {
	matchService      *usecase.MatchService
	predictionService *usecase.PredictionService
	refresher         *scheduler.Refresher
	checkers          []*health.Checker
	watchCtx          context.Context
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	predictionService *usecase.PredictionService,
	refresher *scheduler.Refresher,
	checkers []*health.Checker,
	watchCtx context.Context,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if watchCtx == nil {
		watchCtx = context.Background()
	}

	return &Handler{
		matchService:      matchService,
		predictionService: predictionService,
		refresher:         refresher,
		checkers:          checkers,
		watchCtx:          watchCtx,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	status := h.refresher.Status()

	sources := make([]sourceHealthDTO, 0, len(h.checkers))
	for _, checker := range h.checkers {
		sources = append(sources, sourceHealthDTO{
			Name:        checker.Name(),
			Healthy:     checker.Healthy(),
			LastChecked: formatTime(checker.LastChecked()),
		})
	}

	body := healthzDTO{
		Status:              "ok",
		Ready:               status.IsReady(),
		ConsecutiveFailures: status.ConsecutiveFailures,
		LastAttempt:         formatTime(status.LastAttempt),
		LastSuccess:         formatTime(status.LastSuccess),
		Sources:             sources,
	}
	if !body.Ready {
		body.Status = "degraded"
		writeJSON(ctx, w, http.StatusServiceUnavailable, googleResponseEnvelope{
			APIVersion: googleAPIVersion,
			Data:       body,
		})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, body)
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items := make([]string, 0, len(match.AllLeagues))
	for _, league := range match.AllLeagues {
		items = append(items, string(league))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListUpcomingByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingByLeague")
	defer span.End()

	league, err := parseLeaguePath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	windowDays, err := parseIntQuery(r, "windowDays", usecase.DefaultWindowDays)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.matchService.ListUpcoming(ctx, league, windowDays)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming failed", "league", string(league), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, games)
}

func (h *Handler) ListAllUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllUpcoming")
	defer span.End()

	windowDays, err := parseIntQuery(r, "windowDays", usecase.DefaultWindowDays)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	byLeague, err := h.matchService.ListAllUpcoming(ctx, windowDays)
	if err != nil {
		h.logger.ErrorContext(ctx, "aggregate upcoming failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, byLeague)
}

func (h *Handler) ListTodayByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayByLeague")
	defer span.End()

	league, err := parseLeaguePath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.matchService.ListToday(ctx, league)
	if err != nil {
		h.logger.WarnContext(ctx, "list today failed", "league", string(league), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, games)
}

func parseLeaguePath(r *http.Request) (match.League, error) {
	raw := strings.TrimSpace(r.PathValue("league"))
	league, err := match.ParseLeague(raw)
	if err != nil {
		return "", fmt.Errorf("%w: unknown league %q", usecase.ErrInvalidInput, raw)
	}
	return league, nil
}

func parseIntQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func parseTimeQuery(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be formatted as YYYY-MM-DD", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type healthzDTO struct {
	Status              string            `json:"status"`
	Ready               bool              `json:"ready"`
	ConsecutiveFailures int               `json:"consecutiveFailures"`
	LastAttempt         string            `json:"lastAttempt,omitempty"`
	LastSuccess         string            `json:"lastSuccess,omitempty"`
	Sources             []sourceHealthDTO `json:"sources"`
}

type sourceHealthDTO struct {
	Name        string `json:"name"`
	Healthy     bool   `json:"healthy"`
	LastChecked string `json:"lastChecked,omitempty"`
}
