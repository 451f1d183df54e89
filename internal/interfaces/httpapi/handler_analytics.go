package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/analytics"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/prediction"
	"github.com/riskibarqy/match-center/internal/usecase"
)

const defaultHistoryLookback = 365 * 24 * time.Hour

func (h *Handler) GetTeamRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamRecord")
	defer span.End()

	league, teamName, from, to, err := parseHistoryRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.matchService.ListHistorical(ctx, league, teamName, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "team record failed", "league", string(league), "team", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	record := analytics.SeasonRecord(events, teamName, time.Now())

	writeSuccess(ctx, w, http.StatusOK, teamRecordDTO{
		League:     string(league),
		TeamName:   teamName,
		TeamRecord: record,
	})
}

func (h *Handler) GetTeamScoreHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamScoreHistory")
	defer span.End()

	league, teamName, from, to, err := parseHistoryRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.matchService.ListHistorical(ctx, league, teamName, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "score history failed", "league", string(league), "team", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	scores := analytics.ScoreHistory(events, teamName, time.Now())

	writeSuccess(ctx, w, http.StatusOK, scoreHistoryDTO{
		League:   string(league),
		TeamName: teamName,
		Scores:   scores,
	})
}

type topPerformersRequest struct {
	Lines    []prediction.PlayerProjection `json:"lines" validate:"required,min=1,dive"`
	Category string                        `json:"category" validate:"required,oneof=points assists rebounds"`
	K        int                           `json:"k" validate:"omitempty,gt=0"`
}

func (h *Handler) RankTopPerformers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RankTopPerformers")
	defer span.End()

	var req topPerformersRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	k := req.K
	if k == 0 {
		k = analytics.DefaultTopFactors
	}
	ranked := analytics.TopPerformers(req.Lines, prediction.StatCategory(req.Category), k)

	writeSuccess(ctx, w, http.StatusOK, ranked)
}

type multiCategoryStarsRequest struct {
	Lines    []prediction.PlayerProjection `json:"lines" validate:"required,min=1,dive"`
	Points   float64                       `json:"points" validate:"gte=0"`
	Assists  float64                       `json:"assists" validate:"gte=0"`
	Rebounds float64                       `json:"rebounds" validate:"gte=0"`
}

func (h *Handler) FilterMultiCategoryStars(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FilterMultiCategoryStars")
	defer span.End()

	var req multiCategoryStarsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	stars := analytics.MultiCategoryStars(req.Lines, analytics.StatThresholds{
		Points:   req.Points,
		Assists:  req.Assists,
		Rebounds: req.Rebounds,
	})

	writeSuccess(ctx, w, http.StatusOK, stars)
}

type fantasyScoreRequest struct {
	Lines []prediction.PlayerProjection `json:"lines" validate:"required,min=1,dive"`
}

type fantasyScoreDTO struct {
	PlayerName string  `json:"playerName"`
	TeamName   string  `json:"teamName"`
	Score      float64 `json:"score"`
}

func (h *Handler) ComputeFantasyScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComputeFantasyScores")
	defer span.End()

	var req fantasyScoreRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]fantasyScoreDTO, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, fantasyScoreDTO{
			PlayerName: line.PlayerName,
			TeamName:   line.TeamName,
			Score:      analytics.FantasyScore(line),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseHistoryRequest(r *http.Request) (match.League, string, time.Time, time.Time, error) {
	league, err := parseLeaguePath(r)
	if err != nil {
		return "", "", time.Time{}, time.Time{}, err
	}

	escaped := r.PathValue("teamName")
	teamName, err := url.PathUnescape(escaped)
	if err != nil {
		teamName = escaped
	}
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return "", "", time.Time{}, time.Time{}, fmt.Errorf("%w: team name is required", usecase.ErrInvalidInput)
	}

	now := time.Now()
	to, err := parseTimeQuery(r, "to", now)
	if err != nil {
		return "", "", time.Time{}, time.Time{}, err
	}
	from, err := parseTimeQuery(r, "from", to.Add(-defaultHistoryLookback))
	if err != nil {
		return "", "", time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return "", "", time.Time{}, time.Time{}, fmt.Errorf("%w: from must not be after to", usecase.ErrInvalidInput)
	}

	return league, teamName, from, to, nil
}

type teamRecordDTO struct {
	League   string `json:"league"`
	TeamName string `json:"teamName"`
	match.TeamRecord
}

type scoreHistoryDTO struct {
	League   string `json:"league"`
	TeamName string `json:"teamName"`
	Scores   []int  `json:"scores"`
}
