package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/match-center/internal/usecase"
)

type watchGameRequest struct {
	GameID string `json:"gameId" validate:"required"`
}

// WatchLiveGame points the live-poll cadence at one game. A new watch
// replaces any previous one.
func (h *Handler) WatchLiveGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WatchLiveGame")
	defer span.End()

	league, err := parseLeaguePath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req watchGameRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	// The poll loop must outlive this request, so it runs on the app
	// context rather than the request context.
	h.refresher.Watch(h.watchCtx, league, strings.TrimSpace(req.GameID))

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{
		"league": string(league),
		"gameId": req.GameID,
	})
}

func (h *Handler) UnwatchLiveGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnwatchLiveGame")
	defer span.End()

	h.refresher.Unwatch()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (h *Handler) GetLiveSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveSnapshot")
	defer span.End()

	snapshot := h.refresher.Live()
	if snapshot == nil {
		writeError(ctx, w, fmt.Errorf("%w: no live snapshot available", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}
