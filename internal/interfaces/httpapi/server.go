package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

type RouterOptions struct {
	ServiceToken       string
	CORSAllowedOrigins []string
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(handler *Handler, opts RouterOptions, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "httpapi")

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.MetricsHandler)
	registerReadThroughRoutes(mux, handler)
	registerWorkerRoutes(mux, handler, opts.ServiceToken)
	registerJobRoutes(mux, handler, opts.ServiceToken)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
