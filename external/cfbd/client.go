package cfbd

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/recruitboard/recruitboard/internal/platform/logging"
	"github.com/recruitboard/recruitboard/internal/platform/resilience"
	"github.com/recruitboard/recruitboard/internal/usecase"
)

const (
	defaultBaseURL = "https://api.collegefootballdata.com"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20
)

var errCFBDTransient = crerr.New("cfbd transient failure")

// transport is the subset of fasthttp.Client the provider client needs,
// kept small so tests can substitute it.
type transport interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

type ClientConfig struct {
	Transport      transport
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls recruiting classes from the College Football Data API.
type Client struct {
	transport      transport
	baseURL        string
	apiKey         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	doer := cfg.Transport
	if doer == nil {
		doer = &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		transport:      doer,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type recruitPayload struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Stars    *float64 `json:"stars"`
	Ranking  *float64 `json:"ranking"`
}

// FetchTeamClass returns one team's recruiting class for the year. Rows
// with no usable name are dropped; star and rank values arrive as floats
// upstream and are coerced to integers.
func (c *Client) FetchTeamClass(ctx context.Context, year int, team string) ([]usecase.ImportedRecruit, error) {
	if year <= 0 {
		return nil, fmt.Errorf("year must be greater than zero")
	}
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, fmt.Errorf("team is required")
	}

	values := url.Values{}
	values.Set("year", strconv.Itoa(year))
	values.Set("team", team)
	path := "/recruiting/players?" + values.Encode()

	raw, err := c.doJSON(ctx, path)
	if err != nil {
		return nil, err
	}

	var payload []recruitPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode recruiting payload: %w", err)
	}

	out := make([]usecase.ImportedRecruit, 0, len(payload))
	for _, item := range payload {
		name := strings.Join(strings.Fields(item.Name), " ")
		if name == "" {
			continue
		}
		out = append(out, usecase.ImportedRecruit{
			Name:     name,
			Position: strings.TrimSpace(item.Position),
			Stars:    coerceInt(item.Stars),
			Rank:     coerceInt(item.Ranking),
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cfbd circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: recruiting data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errCFBDTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, retryable, err := c.attempt(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return nil, lastErr
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "cfbd request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) attempt(fullURL string) ([]byte, bool, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	if err := c.transport.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, true, fmt.Errorf("%w: send request: %v", errCFBDTransient, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}
	raw := make([]byte, len(body))
	copy(raw, body)

	if status >= 200 && status < 300 {
		return raw, false, nil
	}
	if isRetryableStatus(status) {
		return nil, true, fmt.Errorf("%w: provider status=%d body=%s", errCFBDTransient, status, abbreviateBody(raw))
	}
	return nil, false, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func coerceInt(value *float64) int {
	if value == nil || math.IsNaN(*value) {
		return 0
	}
	return int(math.Round(*value))
}
