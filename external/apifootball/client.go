package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
	"github.com/riskibarqy/matchday-sync/internal/platform/resilience"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

const (
	defaultBaseURL       = "https://v3.football.api-sports.io"
	defaultRatePerMinute = 10
	providerName         = "api_football"
	maxResponseBytes     = 6 << 20
)

var (
	errTransient  = crerr.New("api-football transient failure")
	keyParamRegex = regexp.MustCompile(`(?i)x-apisports-key[=:]\s*[^&\s"']+`)
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Timeout        time.Duration
	MaxRetries     int
	RatePerMinute  int
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to API-Football v3. Every exported Fetch method issues exactly
// one upstream request so callers can meter it against the daily quota.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	key        string
	maxRetries int
	limiter    *rate.Limiter
	logger     *logging.Logger
	metrics    *metrics.Recorder
	breaker    *resilience.CircuitBreaker
	flight     singleflight.Group
}

var _ usecase.FootballProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := baseURL
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}

	perMinute := cfg.RatePerMinute
	if perMinute == 0 {
		perMinute = defaultRatePerMinute
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}

	breaker := resilience.NewOptionalCircuitBreaker("api_football", cfg.CircuitBreaker)
	if breaker != nil {
		breaker.OnStateChange(func(name string, _, to resilience.CircuitState) {
			cfg.Metrics.BreakerState(name, to == resilience.CircuitStateOpen)
		})
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		key:        strings.TrimSpace(cfg.Key),
		maxRetries: max(cfg.MaxRetries, 0),
		limiter:    limiter,
		logger:     logger.With("component", "api_football"),
		metrics:    cfg.Metrics,
		breaker:    breaker,
	}
}

// envelope is the common response wrapper. errors is an empty array on
// success and an object keyed by problem otherwise.
type envelope struct {
	Errors   json.RawMessage   `json:"errors"`
	Results  int               `json:"results"`
	Response []json.RawMessage `json:"response"`
}

func (e envelope) problem() string {
	trimmed := strings.TrimSpace(string(e.Errors))
	switch trimmed {
	case "", "null", "[]", "{}":
		return ""
	}
	return trimmed
}

type fetchResult struct {
	body     []byte
	envelope envelope
}

// get issues one GET and decodes the envelope. Identical concurrent requests
// share one upstream round-trip.
func (c *Client) get(ctx context.Context, path string, query url.Values) (fetchResult, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// Callers sharing a flight share one breaker slot: only the leader asks
	// for it and records the outcome.
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if c.breaker != nil {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "path", path, "state", c.breaker.State())
				return nil, fmt.Errorf("%w: football provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}
		raw, reqErr := c.executeRequest(ctx, path, fullURL)
		if c.breaker != nil {
			c.breaker.Record(crerr.Is(reqErr, errTransient))
		}
		return raw, reqErr
	})
	if err != nil {
		return fetchResult{}, err
	}

	body, ok := out.([]byte)
	if !ok {
		return fetchResult{}, crerr.Newf("unexpected response payload type %T", out)
	}

	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return fetchResult{}, crerr.Wrapf(err, "decode api-football envelope path=%s", path)
	}
	if problem := env.problem(); problem != "" {
		return fetchResult{}, crerr.Newf("api-football rejected request path=%s errors=%s", path, abbreviateBody([]byte(problem)))
	}
	return fetchResult{body: body, envelope: env}, nil
}

func (c *Client) executeRequest(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrap(err, "wait for api-football rate limiter")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.key)
		req.Header.Set("x-apisports-host", c.host)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.metrics.UpstreamRequest(providerName, endpoint, 0, time.Since(start))
			lastErr = crerr.Mark(crerr.Newf("send request: %s", redact(err.Error(), c.key)), errTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			c.metrics.UpstreamRequest(providerName, endpoint, resp.StatusCode, time.Since(start))

			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				if remaining := resp.Header.Get("x-ratelimit-requests-remaining"); remaining != "" {
					c.logger.DebugContext(ctx, "api-football daily requests remaining", "remaining", remaining)
				}
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errTransient)
			default:
				return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "endpoint", endpoint, "error", lastErr)
	return nil, lastErr
}

// IsTransient reports whether err came from a failure worth retrying later.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redact(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return keyParamRegex.ReplaceAllString(value, "x-apisports-key=REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
