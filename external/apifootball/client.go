package apifootball

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/resilience"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/matchpulse/fixture-sync/internal/provider/rest"
)

const (
	providerName   = "apifootball"
	defaultBaseURL = "https://v3.football.api-sports.io"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	LeagueIDs      []int64
	Season         int
}

// Client adapts api-football into the provider contract. It also
// serves match-winner odds for enrichment.
type Client struct {
	rest      *rest.Client
	logger    *logging.Logger
	leagueIDs []int64
	season    int
}

var (
	_ provider.Source     = (*Client)(nil)
	_ provider.OddsSource = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
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
			Headers:        map[string]string{"x-apisports-key": cfg.Token},
			Secrets:        []string{cfg.Token},
		}),
		logger:    logger,
		leagueIDs: cfg.LeagueIDs,
		season:    cfg.Season,
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Partitions() []provider.Partition {
	out := make([]provider.Partition, 0, len(c.leagueIDs))
	for _, id := range c.leagueIDs {
		out = append(out, provider.Partition{
			Key:  strconv.FormatInt(id, 10),
			Name: "league " + strconv.FormatInt(id, 10),
		})
	}
	return out
}

func (c *Client) FetchFixtures(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error) {
	var envelope fixturesEnvelope
	err := c.rest.GetJSON(ctx, "/fixtures", map[string]string{
		"league": part.Key,
		"season": strconv.Itoa(c.season),
	}, &envelope)
	if err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		record, err := normalizeFixture(item)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed fixture", "provider", providerName, "partition", part.Key, "error", err)
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// FetchOdds returns match-winner prices from bookmaker 1, or nil when
// the market is not offered for the fixture.
func (c *Client) FetchOdds(ctx context.Context, nativeID string) (*provider.Odds, error) {
	var envelope oddsEnvelope
	err := c.rest.GetJSON(ctx, "/odds", map[string]string{
		"fixture":   nativeID,
		"bookmaker": "1",
	}, &envelope)
	if err != nil {
		return nil, err
	}

	odds, err := normalizeOdds(envelope)
	if err != nil {
		return nil, provider.NewError(providerName, provider.ErrorKindMalformed, fmt.Errorf("fixture %s: %w", nativeID, err))
	}
	return odds, nil
}
