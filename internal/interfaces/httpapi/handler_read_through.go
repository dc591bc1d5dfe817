package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

func (h *Handler) PostMatchDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostMatchDetails")
	defer span.End()

	var req matchDetailsRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveMatchDetails(w, r.WithContext(ctx), req.MatchID)
}

func (h *Handler) GetMatchDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchDetails")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveMatchDetails(w, r.WithContext(ctx), matchID)
}

func (h *Handler) serveMatchDetails(w http.ResponseWriter, r *http.Request, matchID int64) {
	ctx := r.Context()
	if h.svc.DetailCache == nil {
		writeError(ctx, w, notConfigured("detail cache"))
		return
	}
	result, err := h.svc.DetailCache.GetMatchDetails(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match details failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) PostTeamDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostTeamDetails")
	defer span.End()

	var req teamIDRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveTeamDetails(w, r.WithContext(ctx), req.TeamID)
}

func (h *Handler) GetTeamDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDetails")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveTeamDetails(w, r.WithContext(ctx), teamID)
}

func (h *Handler) serveTeamDetails(w http.ResponseWriter, r *http.Request, teamID int64) {
	ctx := r.Context()
	if h.svc.DetailCache == nil {
		writeError(ctx, w, notConfigured("detail cache"))
		return
	}
	result, err := h.svc.DetailCache.GetTeamDetails(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team details failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListMatchesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByDate")
	defer span.End()

	req := dateRequest{Date: strings.TrimSpace(r.URL.Query().Get("date"))}
	if err := h.validateRequest(ctx, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveMatchesByDate(w, r.WithContext(ctx), req.Date)
}

func (h *Handler) PostMatchesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostMatchesByDate")
	defer span.End()

	var req dateRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveMatchesByDate(w, r.WithContext(ctx), req.Date)
}

func (h *Handler) serveMatchesByDate(w http.ResponseWriter, r *http.Request, date string) {
	ctx := r.Context()
	if h.svc.DayMatches == nil {
		writeError(ctx, w, notConfigured("day matches"))
		return
	}
	result, err := h.svc.DayMatches.GetByDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get matches by date failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := queryInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.servePlayer(w, r.WithContext(ctx), playerID, season)
}

func (h *Handler) PostPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostPlayer")
	defer span.End()

	var req playerRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.servePlayer(w, r.WithContext(ctx), req.PlayerID, req.Season)
}

func (h *Handler) servePlayer(w http.ResponseWriter, r *http.Request, playerID int64, season int) {
	ctx := r.Context()
	if h.svc.PlayerLookup == nil {
		writeError(ctx, w, notConfigured("player lookup"))
		return
	}
	if season <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: season is required", usecase.ErrInvalidInput))
		return
	}
	envelope, err := h.svc.PlayerLookup.Get(ctx, playerID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(envelope)
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUsage")
	defer span.End()

	if h.svc.Ledger == nil {
		writeError(ctx, w, notConfigured("quota ledger"))
		return
	}
	snapshot, err := h.svc.Ledger.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "read usage failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, usageToDTO(snapshot))
}
