package footballdata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/resilience"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/matchpulse/fixture-sync/internal/provider/rest"
)

const (
	providerName   = "footballdata"
	defaultBaseURL = "https://api.football-data.org/v4"

	// the free tier tolerates only small bursts
	matchesPerCompetition = 10
)

var defaultCompetitions = []provider.Partition{
	{Key: "PL", Name: "Premier League"},
	{Key: "CL", Name: "Champions League"},
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Competitions   []provider.Partition
}

// Client adapts football-data.org into the provider contract.
type Client struct {
	rest         *rest.Client
	logger       *logging.Logger
	competitions []provider.Partition
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

	competitions := cfg.Competitions
	if len(competitions) == 0 {
		competitions = defaultCompetitions
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
			Headers:        map[string]string{"X-Auth-Token": cfg.Token},
			Secrets:        []string{cfg.Token},
		}),
		logger:       logger,
		competitions: competitions,
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Partitions() []provider.Partition {
	return append([]provider.Partition(nil), c.competitions...)
}

func (c *Client) FetchFixtures(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error) {
	var envelope matchesEnvelope
	path := fmt.Sprintf("/competitions/%s/matches", part.Key)
	// Upcoming only; without the filter the per-competition cap fills
	// up with season-start finished matches.
	params := map[string]string{"status": "SCHEDULED,TIMED"}
	if err := c.rest.GetJSON(ctx, path, params, &envelope); err != nil {
		return nil, err
	}

	matches := envelope.Matches
	if len(matches) > matchesPerCompetition {
		matches = matches[:matchesPerCompetition]
	}

	out := make([]fixture.Fixture, 0, len(matches))
	for _, item := range matches {
		record, err := normalizeMatch(item)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed match", "provider", providerName, "partition", part.Key, "error", err)
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
