package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
)

// jobManager tags dispatch rows of jobs triggered over HTTP.
const jobManager = "http_job"

// runJob executes one job, audits it in job_dispatches and writes the result.
func (h *Handler) runJob(ctx context.Context, w http.ResponseWriter, name string, payload map[string]any, run func(ctx context.Context) (any, error)) {
	dispatchID := uuid.NewString()
	h.recordJob(ctx, jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		Worker:     name,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
	})

	result, err := run(ctx)
	if err != nil {
		h.recordJob(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dispatchID,
			Worker:       name,
			Status:       jobscheduler.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
		})
		h.logger.WarnContext(ctx, "job failed", "job", name, "dispatch_id", dispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.recordJob(ctx, jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		Worker:     name,
		Status:     jobscheduler.StatusCompleted,
		Payload:    payload,
	})
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) recordJob(ctx context.Context, event jobscheduler.DispatchEvent) {
	if h.svc.Dispatches == nil {
		return
	}
	event.Manager = jobManager
	event.OccurredAt = time.Now().UTC()
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		event.TraceID = spanCtx.TraceID().String()
		event.SpanID = spanCtx.SpanID().String()
	}
	if err := h.svc.Dispatches.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job", event.Worker,
			"status", event.Status,
			"error", err,
		)
	}
}

func (h *Handler) RunLiveManagerJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveManagerJob")
	defer span.End()

	if h.svc.LiveManager == nil {
		writeError(ctx, w, notConfigured("live manager"))
		return
	}
	h.runJob(ctx, w, "live-manager", nil, func(ctx context.Context) (any, error) {
		return h.svc.LiveManager.Run(ctx)
	})
}

func (h *Handler) RunLineupManagerJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLineupManagerJob")
	defer span.End()

	if h.svc.LineupManager == nil {
		writeError(ctx, w, notConfigured("lineup manager"))
		return
	}
	h.runJob(ctx, w, "lineup-manager", nil, func(ctx context.Context) (any, error) {
		return h.svc.LineupManager.Run(ctx)
	})
}

func (h *Handler) RunPredictUsageJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPredictUsageJob")
	defer span.End()

	if h.svc.UsagePredictor == nil {
		writeError(ctx, w, notConfigured("usage predictor"))
		return
	}
	h.runJob(ctx, w, "predict-usage", nil, func(ctx context.Context) (any, error) {
		prediction, err := h.svc.UsagePredictor.Predict(ctx)
		if err != nil {
			return nil, err
		}
		return predictionToDTO(prediction), nil
	})
}

func (h *Handler) RunMasterSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMasterSyncJob")
	defer span.End()

	if h.svc.MasterSync == nil {
		writeError(ctx, w, notConfigured("master sync"))
		return
	}
	h.runJob(ctx, w, "master-sync", nil, func(ctx context.Context) (any, error) {
		return h.svc.MasterSync.Run(ctx)
	})
}

func (h *Handler) RunTeamSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTeamSyncJob")
	defer span.End()

	if h.svc.Catalog == nil {
		writeError(ctx, w, notConfigured("catalog sync"))
		return
	}
	var req teamIDRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.runJob(ctx, w, "teams", map[string]any{"teamId": req.TeamID}, func(ctx context.Context) (any, error) {
		t, err := h.svc.Catalog.SyncTeam(ctx, req.TeamID)
		if err != nil {
			return nil, err
		}
		return teamToDTO(t), nil
	})
}

func (h *Handler) RunSquadSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSquadSyncJob")
	defer span.End()

	if h.svc.Catalog == nil {
		writeError(ctx, w, notConfigured("catalog sync"))
		return
	}
	var req teamIDRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.runJob(ctx, w, "squads", map[string]any{"teamId": req.TeamID}, func(ctx context.Context) (any, error) {
		return h.svc.Catalog.SyncSquad(ctx, req.TeamID)
	})
}

func (h *Handler) RunAllSquadsSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAllSquadsSyncJob")
	defer span.End()

	if h.svc.Catalog == nil {
		writeError(ctx, w, notConfigured("catalog sync"))
		return
	}
	var req teamIDsRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.runJob(ctx, w, "squads-all", map[string]any{"teamIds": req.TeamIDs}, func(ctx context.Context) (any, error) {
		return h.svc.Catalog.SyncAllSquads(ctx, req.TeamIDs)
	})
}

func (h *Handler) RunPlayerSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPlayerSyncJob")
	defer span.End()

	if h.svc.Catalog == nil {
		writeError(ctx, w, notConfigured("catalog sync"))
		return
	}
	var req playerRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.runJob(ctx, w, "players", map[string]any{"playerId": req.PlayerID, "season": req.Season}, func(ctx context.Context) (any, error) {
		p, err := h.svc.Catalog.SyncPlayer(ctx, req.PlayerID, req.Season)
		if err != nil {
			return nil, err
		}
		return playerToDTO(p), nil
	})
}

func (h *Handler) RunLeagueSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeagueSyncJob")
	defer span.End()

	if h.svc.Catalog == nil {
		writeError(ctx, w, notConfigured("catalog sync"))
		return
	}
	var req leagueIDRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.runJob(ctx, w, "leagues", map[string]any{"leagueId": req.LeagueID}, func(ctx context.Context) (any, error) {
		l, err := h.svc.Catalog.SyncLeague(ctx, req.LeagueID)
		if err != nil {
			return nil, err
		}
		return leagueToDTO(l), nil
	})
}

func (h *Handler) RunTeamMappingJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTeamMappingJob")
	defer span.End()

	if h.svc.TeamMapping == nil {
		writeError(ctx, w, notConfigured("team mapping"))
		return
	}
	var req teamMappingRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	payload := map[string]any{"af_league_id": req.AFLeagueID, "fd_league_code": req.FDLeagueCode}
	h.runJob(ctx, w, "team-mappings", payload, func(ctx context.Context) (any, error) {
		return h.svc.TeamMapping.AutoMap(ctx, req.AFLeagueID, req.FDLeagueCode)
	})
}

func (h *Handler) RunStandingsSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStandingsSyncJob")
	defer span.End()

	if h.svc.Standings == nil {
		writeError(ctx, w, notConfigured("standings sync"))
		return
	}
	var req standingsRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	payload := map[string]any{"af_league_id": req.AFLeagueID, "fd_league_code": req.FDLeagueCode, "season": req.Season}
	h.runJob(ctx, w, "standings", payload, func(ctx context.Context) (any, error) {
		return h.svc.Standings.Sync(ctx, req.AFLeagueID, req.FDLeagueCode, req.Season)
	})
}
