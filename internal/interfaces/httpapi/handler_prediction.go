package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-center/internal/domain/analytics"
)

func (h *Handler) GetLivePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLivePrediction")
	defer span.End()

	league, err := parseLeaguePath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	pred, err := h.predictionService.GetLivePrediction(ctx, league, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "live prediction failed", "league", string(league), "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pred)
}

func (h *Handler) GetTopFactors(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopFactors")
	defer span.End()

	league, err := parseLeaguePath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	k, err := parseIntQuery(r, "k", analytics.DefaultTopFactors)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := r.PathValue("gameID")
	factors, err := h.predictionService.TopFactors(ctx, league, gameID, k)
	if err != nil {
		h.logger.WarnContext(ctx, "top factors failed", "league", string(league), "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, factors)
}

func (h *Handler) ListTodayPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayPredictions")
	defer span.End()

	league, err := parseLeaguePath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	predictions, err := h.predictionService.BuildTodayPredictions(ctx, league)
	if err != nil {
		h.logger.WarnContext(ctx, "today predictions failed", "league", string(league), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictions)
}
