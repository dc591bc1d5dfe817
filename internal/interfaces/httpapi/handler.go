package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

var requestJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Services are the use cases reachable over HTTP. A nil entry answers 503.
type Services struct {
	Workers        usecase.WorkerInvoker
	DetailCache    *usecase.DetailCacheService
	DayMatches     *usecase.DayMatchesService
	PlayerLookup   *usecase.PlayerLookup
	Ledger         *usecase.QuotaLedger
	LiveManager    *usecase.LiveManager
	LineupManager  *usecase.LineupManager
	UsagePredictor *usecase.UsagePredictionService
	MasterSync     *usecase.MasterSync
	Catalog        *usecase.CatalogSync
	TeamMapping    *usecase.TeamMappingService
	Standings      *usecase.StandingsSync
	Dispatches     jobscheduler.Repository
}

type Handler struct {
	svc       Services
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(svc Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:       svc,
		logger:    logger.With("component", "httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads an optional JSON body; an empty body leaves dst untouched
// and is left to validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := requestJSON.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return h.validateRequest(r.Context(), dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

func notConfigured(name string) error {
	return fmt.Errorf("%w: %s is not configured", usecase.ErrDependencyUnavailable, name)
}
