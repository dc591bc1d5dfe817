package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
}

// registerReadThroughRoutes exposes the public cached lookups used by the
// frontend.
func registerReadThroughRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/match-details", handler.PostMatchDetails)
	mux.HandleFunc("GET /v1/matches/{matchID}/details", handler.GetMatchDetails)
	mux.HandleFunc("POST /v1/team-details", handler.PostTeamDetails)
	mux.HandleFunc("GET /v1/teams/{teamID}/details", handler.GetTeamDetails)
	mux.HandleFunc("GET /v1/matches", handler.ListMatchesByDate)
	mux.HandleFunc("POST /v1/matches", handler.PostMatchesByDate)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("POST /v1/player-details", handler.PostPlayer)
	mux.HandleFunc("GET /v1/usage", handler.GetUsage)
}

func registerWorkerRoutes(mux *http.ServeMux, handler *Handler, token string) {
	mux.Handle("POST /v1/workers/live", RequireServiceToken(token, http.HandlerFunc(handler.RunLiveWorker)))
	mux.Handle("POST /v1/workers/lineups", RequireServiceToken(token, http.HandlerFunc(handler.RunLineupWorker)))
	mux.Handle("POST /v1/workers/stats", RequireServiceToken(token, http.HandlerFunc(handler.RunStatsWorker)))
}

func registerJobRoutes(mux *http.ServeMux, handler *Handler, token string) {
	jobs := map[string]http.HandlerFunc{
		"POST /v1/jobs/live-manager":   handler.RunLiveManagerJob,
		"POST /v1/jobs/lineup-manager": handler.RunLineupManagerJob,
		"POST /v1/jobs/predict-usage":  handler.RunPredictUsageJob,
		"POST /v1/jobs/master-sync":    handler.RunMasterSyncJob,
		"POST /v1/jobs/teams":          handler.RunTeamSyncJob,
		"POST /v1/jobs/squads":         handler.RunSquadSyncJob,
		"POST /v1/jobs/squads/all":     handler.RunAllSquadsSyncJob,
		"POST /v1/jobs/players":        handler.RunPlayerSyncJob,
		"POST /v1/jobs/leagues":        handler.RunLeagueSyncJob,
		"POST /v1/jobs/team-mappings":  handler.RunTeamMappingJob,
		"POST /v1/jobs/standings":      handler.RunStandingsSyncJob,
	}
	for pattern, fn := range jobs {
		mux.Handle(pattern, RequireServiceToken(token, fn))
	}
}
