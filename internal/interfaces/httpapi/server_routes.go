package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/matches/upcoming", handler.ListAllUpcoming)
	mux.HandleFunc("GET /v1/leagues/{league}/matches/upcoming", handler.ListUpcomingByLeague)
	mux.HandleFunc("GET /v1/leagues/{league}/matches/today", handler.ListTodayByLeague)
}

func registerLiveRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/live", handler.GetLiveSnapshot)
	mux.HandleFunc("POST /v1/leagues/{league}/live/watch", handler.WatchLiveGame)
	mux.HandleFunc("DELETE /v1/live/watch", handler.UnwatchLiveGame)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{league}/games/{gameID}/prediction", handler.GetLivePrediction)
	mux.HandleFunc("GET /v1/leagues/{league}/games/{gameID}/prediction/top-factors", handler.GetTopFactors)
	mux.HandleFunc("GET /v1/leagues/{league}/predictions/today", handler.ListTodayPredictions)
}

func registerAnalyticsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{league}/teams/{teamName}/record", handler.GetTeamRecord)
	mux.HandleFunc("GET /v1/leagues/{league}/teams/{teamName}/scores", handler.GetTeamScoreHistory)
	mux.HandleFunc("POST /v1/analytics/top-performers", handler.RankTopPerformers)
	mux.HandleFunc("POST /v1/analytics/stars", handler.FilterMultiCategoryStars)
	mux.HandleFunc("POST /v1/analytics/fantasy-scores", handler.ComputeFantasyScores)
}
