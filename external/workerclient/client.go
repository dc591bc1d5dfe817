package workerclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/resilience"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

var errWorkerTransient = crerr.New("worker transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client invokes the sync workers of a remote matchday-sync API over the
// bearer-protected worker routes.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

var _ usecase.WorkerInvoker = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                "matchday-sync-manager",
			MaxIdleConnDuration: 30 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger.With("component", "worker_client"),
		breaker: resilience.NewOptionalCircuitBreaker("workers", cfg.CircuitBreaker),
	}
}

type fixtureIDsBody struct {
	FixtureIDs []int64 `json:"fixtureIds"`
}

func (c *Client) SyncLive(ctx context.Context, fixtureIDs []int64) (usecase.LiveSyncResult, error) {
	var out usecase.LiveSyncResult
	err := c.post(ctx, "/v1/workers/live", fixtureIDsBody{FixtureIDs: fixtureIDs}, &out)
	return out, err
}

func (c *Client) SyncLineups(ctx context.Context, fixtureIDs []int64) (usecase.LineupSyncResult, error) {
	var out usecase.LineupSyncResult
	err := c.post(ctx, "/v1/workers/lineups", fixtureIDsBody{FixtureIDs: fixtureIDs}, &out)
	return out, err
}

func (c *Client) SyncStats(ctx context.Context, input usecase.StatsSyncInput) (usecase.StatsSyncResult, error) {
	var out usecase.StatsSyncResult
	err := c.post(ctx, "/v1/workers/stats", input, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, payload, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.baseURL == "" {
		return crerr.New("worker base url is not configured")
	}
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "worker circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: workers are temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	err := c.do(ctx, path, payload, target)
	if c.breaker != nil {
		c.breaker.Record(crerr.Is(err, errWorkerTransient))
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, payload, target any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return crerr.Wrap(err, "encode worker payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{header: &req.Header})
	req.SetBody(buf.B)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	start := time.Now()
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) && ctx.Err() != nil {
			return ctx.Err()
		}
		return crerr.Mark(crerr.Wrapf(err, "call worker path=%s", path), errWorkerTransient)
	}

	status := resp.StatusCode()
	body := resp.Body()
	c.logger.DebugContext(ctx, "worker responded", "path", path, "status", status, "elapsed_ms", time.Since(start).Milliseconds())

	if status < 200 || status >= 300 {
		return statusError(path, status, body)
	}
	if target == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return crerr.Wrapf(err, "decode worker response path=%s", path)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

func statusError(path string, status int, body []byte) error {
	var parsed errorBody
	_ = sonic.Unmarshal(body, &parsed)
	message := strings.TrimSpace(parsed.Error)
	if message == "" {
		message = strings.TrimSpace(string(body))
		if len(message) > 240 {
			message = message[:240] + "..."
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: worker path=%s: %s", usecase.ErrUnauthorized, path, message)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: worker path=%s: %s", usecase.ErrQuotaExhausted, path, message)
	case status >= http.StatusInternalServerError:
		return crerr.Mark(crerr.Newf("worker path=%s status=%d: %s", path, status, message), errWorkerTransient)
	default:
		return crerr.Newf("worker path=%s status=%d: %s", path, status, message)
	}
}

// headerCarrier adapts fasthttp request headers for trace propagation.
type headerCarrier struct {
	header *fasthttp.RequestHeader
}

func (h headerCarrier) Get(key string) string {
	return string(h.header.Peek(key))
}

func (h headerCarrier) Set(key, value string) {
	h.header.Set(key, value)
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, h.header.Len())
	h.header.VisitAll(func(key, _ []byte) {
		keys = append(keys, string(key))
	})
	return keys
}
