package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchday_sync"

// Recorder owns the service collectors on a private registry so tests can
// build as many as they need without colliding on the global one.
type Recorder struct {
	registry *prometheus.Registry

	quotaConsumed    prometheus.Counter
	quotaRejected    *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	workerOutcomes   *prometheus.CounterVec
	managerRuns      *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec
	cacheLookups     *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		quotaConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_consumed_total",
			Help:      "Upstream calls charged against the daily quota.",
		}),
		quotaRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejected_total",
			Help:      "Operations refused because the daily quota was exhausted.",
		}, []string{"stage"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound provider requests by endpoint and status code.",
		}, []string{"provider", "endpoint", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound provider request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "endpoint"}),
		workerOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_fixtures_total",
			Help:      "Fixtures processed by sync workers.",
		}, []string{"worker", "outcome"}),
		managerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manager_runs_total",
			Help:      "Manager ticks by result.",
		}, []string{"manager", "result"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_open",
			Help:      "1 while the named circuit breaker is not closed.",
		}, []string{"name"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_cache_lookups_total",
			Help:      "Read-through cache lookups by kind and result.",
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.quotaConsumed,
		r.quotaRejected,
		r.upstreamRequests,
		r.upstreamLatency,
		r.workerOutcomes,
		r.managerRuns,
		r.breakerState,
		r.cacheLookups,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) QuotaConsumed() {
	if r == nil {
		return
	}
	r.quotaConsumed.Inc()
}

func (r *Recorder) QuotaRejected(stage string) {
	if r == nil {
		return
	}
	r.quotaRejected.WithLabelValues(stage).Inc()
}

func (r *Recorder) UpstreamRequest(provider, endpoint string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.upstreamRequests.WithLabelValues(provider, endpoint, code).Inc()
	r.upstreamLatency.WithLabelValues(provider, endpoint).Observe(elapsed.Seconds())
}

func (r *Recorder) WorkerOutcome(worker, outcome string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.workerOutcomes.WithLabelValues(worker, outcome).Add(float64(n))
}

func (r *Recorder) ManagerRun(manager, result string) {
	if r == nil {
		return
	}
	r.managerRuns.WithLabelValues(manager, result).Inc()
}

func (r *Recorder) BreakerState(name string, open bool) {
	if r == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	r.breakerState.WithLabelValues(name).Set(v)
}

func (r *Recorder) CacheLookup(kind string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(kind, result).Inc()
}
