package rest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/resilience"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 6 << 20

var errTransient = crerr.New("provider transient failure")

// Config parameterizes one upstream REST client.
type Config struct {
	Name           string
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig

	// Headers and QueryParams are attached to every request. Token
	// values placed here are redacted from logs and error text.
	Headers     map[string]string
	QueryParams map[string]string
	Secrets     []string
}

// Client is the shared transport for provider adapters. It applies a
// circuit breaker, singleflight dedup, bounded retries with linear
// backoff, and secret redaction.
type Client struct {
	name           string
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	headers        map[string]string
	queryParams    map[string]string
	secrets        []string
}

func NewClient(cfg Config) *Client {
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
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, secret := range cfg.Secrets {
		if strings.TrimSpace(secret) != "" {
			secrets = append(secrets, secret)
		}
	}

	return &Client{
		name:           cfg.Name,
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		headers:        cfg.Headers,
		queryParams:    cfg.QueryParams,
		secrets:        secrets,
	}
}

// GetJSON fetches path and decodes the response into target.
func (c *Client) GetJSON(ctx context.Context, path string, query map[string]string, target any) error {
	raw, err := c.GetBytes(ctx, path, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return provider.NewError(c.name, provider.ErrorKindMalformed, fmt.Errorf("decode payload: %w", err))
	}
	return nil
}

// GetBytes fetches path and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "provider", c.name, "state", c.breaker.State())
			return nil, provider.NewError(c.name, provider.ErrorKindNetwork, err)
		}
	}

	values := url.Values{}
	for key, value := range c.queryParams {
		values.Set(key, value)
	}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, c.classify(err)
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, provider.NewError(c.name, provider.ErrorKindMalformed, fmt.Errorf("unexpected payload type %T", out))
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, statusError{code: resp.StatusCode, body: abbreviateBody(raw)}
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "provider request failed", "provider", c.name, "url", c.redact(fullURL), "error", lastErr)
	return nil, lastErr
}

type statusError struct {
	code int
	body string
}

func (e statusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.code, e.body)
}

func (c *Client) classify(err error) error {
	var perr *provider.Error
	if stderrors.As(err, &perr) {
		return err
	}

	var serr statusError
	if stderrors.As(err, &serr) {
		switch {
		case serr.code == http.StatusUnauthorized || serr.code == http.StatusForbidden:
			return provider.NewError(c.name, provider.ErrorKindAuth, err)
		case serr.code == http.StatusTooManyRequests:
			return provider.NewError(c.name, provider.ErrorKindRateLimit, err)
		default:
			return provider.NewError(c.name, provider.ErrorKindNetwork, err)
		}
	}

	// retry-exhausted 429s arrive wrapped in the transient sentinel
	if stderrors.Is(err, errTransient) && strings.Contains(err.Error(), "status=429") {
		return provider.NewError(c.name, provider.ErrorKindRateLimit, err)
	}

	return provider.NewError(c.name, provider.ErrorKindNetwork, err)
}

func (c *Client) redact(value string) string {
	value = strings.TrimSpace(value)
	for _, secret := range c.secrets {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
