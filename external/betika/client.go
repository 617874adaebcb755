package betika

import (
	"context"
	"net/http"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/resilience"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/matchpulse/fixture-sync/internal/provider/rest"
)

const (
	providerName   = "betika"
	defaultBaseURL = "https://www.betika.com"

	footballSportID = "14"
	apiMatchLimit   = "50"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

// Client adapts betika into the provider contract. The JSON API is
// preferred; when it fails the homepage markup is scraped instead.
type Client struct {
	rest   *rest.Client
	logger *logging.Logger
	now    func() time.Time
}

var _ provider.Source = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		rest: rest.NewClient(rest.Config{
			Name:           providerName,
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		logger: logger,
		now:    now,
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Partitions() []provider.Partition {
	return []provider.Partition{{Key: "upcoming", Name: "upcoming matches"}}
}

func (c *Client) FetchFixtures(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error) {
	records, apiErr := c.fetchFromAPI(ctx)
	if apiErr == nil {
		return records, nil
	}
	c.logger.WarnContext(ctx, "betika api failed, falling back to scraper", "error", apiErr)

	html, err := c.rest.GetBytes(ctx, "/", nil)
	if err != nil {
		return nil, err
	}

	records, err = scrapeFixtures(html, c.now())
	if err != nil {
		return nil, provider.NewError(providerName, provider.ErrorKindMalformed, err)
	}
	if len(records) == 0 {
		c.logger.InfoContext(ctx, "betika scraper found no matches", "partition", part.Key)
	}
	return records, nil
}

func (c *Client) fetchFromAPI(ctx context.Context) ([]fixture.Fixture, error) {
	var envelope matchesEnvelope
	err := c.rest.GetJSON(ctx, "/v1/uo/matches", map[string]string{
		"sport_id": footballSportID,
		"limit":    apiMatchLimit,
	}, &envelope)
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]fixture.Fixture, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		record, err := normalizeMatch(item, now)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed match", "provider", providerName, "error", err)
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
