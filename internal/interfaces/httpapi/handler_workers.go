package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

// ids accepts either the batch form or the single fixtureId form. An empty
// body yields no ids; each route decides whether that is an error.
func (req fixtureIDsRequest) ids() []int64 {
	if len(req.FixtureIDs) > 0 {
		return req.FixtureIDs
	}
	if req.FixtureID > 0 {
		return []int64{req.FixtureID}
	}
	return nil
}

func (h *Handler) decodeFixtureIDs(w http.ResponseWriter, r *http.Request) ([]int64, error) {
	var req fixtureIDsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	return req.ids(), nil
}

func (h *Handler) RunLiveWorker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveWorker")
	defer span.End()

	if h.svc.Workers == nil {
		writeError(ctx, w, notConfigured("live worker"))
		return
	}
	ids, err := h.decodeFixtureIDs(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(ids) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: fixtureIds or fixtureId is required", usecase.ErrInvalidInput))
		return
	}

	result, err := h.svc.Workers.SyncLive(ctx, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "live worker failed", "fixtures", len(ids), "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.SyncedIDs == nil {
		result.SyncedIDs = []int64{}
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunLineupWorker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLineupWorker")
	defer span.End()

	if h.svc.Workers == nil {
		writeError(ctx, w, notConfigured("lineup worker"))
		return
	}
	ids, err := h.decodeFixtureIDs(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(ids) == 0 {
		writeJSON(ctx, w, http.StatusOK, lineupWorkerResponse{
			SyncedIDs: []int64{},
			FailedIDs: []int64{},
			Message:   "No IDs provided",
		})
		return
	}

	result, err := h.svc.Workers.SyncLineups(ctx, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "lineup worker failed", "fixtures", len(ids), "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.SyncedIDs == nil {
		result.SyncedIDs = []int64{}
	}
	if result.FailedIDs == nil {
		result.FailedIDs = []int64{}
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunStatsWorker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStatsWorker")
	defer span.End()

	if h.svc.Workers == nil {
		writeError(ctx, w, notConfigured("stats worker"))
		return
	}
	var req usecase.StatsSyncInput
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.svc.Workers.SyncStats(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "stats worker failed", "fixture_id", req.FixtureID, "error", err)
		if result.FixtureID == 0 {
			writeError(ctx, w, err)
			return
		}
		status, message := errorStatus(err)
		partial := statsResponseFromResult(result)
		writeJSON(ctx, w, status, statsWorkerErrorResponse{
			Error:         message,
			FixtureID:     partial.FixtureID,
			UpdatedFields: partial.UpdatedFields,
			SyncedIDs:     partial.SyncedIDs,
		})
		return
	}
	writeJSON(ctx, w, http.StatusOK, statsResponseFromResult(result))
}
