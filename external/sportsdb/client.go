package sportsdb

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
	providerName   = "sportsdb"
	defaultBaseURL = "https://www.thesportsdb.com/api/v1/json/3"
	defaultSeason  = "2024-2025"

	// finished season events outside this window around now are dropped
	pastWindow   = 30 * 24 * time.Hour
	futureWindow = 90 * 24 * time.Hour
)

var defaultLeagues = []provider.Partition{
	{Key: "4328", Name: "English Premier League"},
	{Key: "4335", Name: "Spanish La Liga"},
	{Key: "4331", Name: "German Bundesliga"},
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Leagues        []provider.Partition
	Season         string
	Now            func() time.Time
}

// Client adapts thesportsdb into the provider contract.
type Client struct {
	rest    *rest.Client
	logger  *logging.Logger
	leagues []provider.Partition
	season  string
	now     func() time.Time
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

	leagues := cfg.Leagues
	if len(leagues) == 0 {
		leagues = defaultLeagues
	}

	season := cfg.Season
	if season == "" {
		season = defaultSeason
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
		logger:  logger,
		leagues: leagues,
		season:  season,
		now:     now,
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Partitions() []provider.Partition {
	return append([]provider.Partition(nil), c.leagues...)
}

// FetchFixtures combines the recent-results feed with the season
// calendar. Either endpoint may fail on its own; the fetch only errors
// when both do.
func (c *Client) FetchFixtures(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error) {
	var (
		out  []fixture.Fixture
		seen = make(map[string]bool)
	)

	var lastEnvelope eventsEnvelope
	lastErr := c.rest.GetJSON(ctx, "/eventslast.php", map[string]string{"id": part.Key}, &lastEnvelope)
	if lastErr != nil {
		c.logger.WarnContext(ctx, "last-events fetch failed", "provider", providerName, "partition", part.Key, "error", lastErr)
	} else {
		out = c.appendEvents(ctx, out, seen, part, lastEnvelope.Events, nil)
	}

	var seasonEnvelope eventsEnvelope
	seasonErr := c.rest.GetJSON(ctx, "/eventsseason.php", map[string]string{
		"id": part.Key,
		"s":  c.season,
	}, &seasonEnvelope)
	if seasonErr != nil {
		if lastErr != nil {
			return nil, seasonErr
		}
		c.logger.WarnContext(ctx, "season fetch failed", "provider", providerName, "partition", part.Key, "error", seasonErr)
		return out, nil
	}

	now := c.now()
	windowStart := now.Add(-pastWindow)
	windowEnd := now.Add(futureWindow)
	inScope := func(record fixture.Fixture) bool {
		if record.Status != fixture.StatusCompleted {
			// non-finished events stay regardless of age
			return true
		}
		return !record.StartTime.Before(windowStart) && !record.StartTime.After(windowEnd)
	}
	return c.appendEvents(ctx, out, seen, part, seasonEnvelope.Events, inScope), nil
}

func (c *Client) appendEvents(ctx context.Context, out []fixture.Fixture, seen map[string]bool, part provider.Partition, events []eventItem, keep func(fixture.Fixture) bool) []fixture.Fixture {
	for _, item := range events {
		record, err := normalizeEvent(item)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed event", "provider", providerName, "partition", part.Key, "error", err)
			continue
		}
		if seen[record.ExternalID] {
			continue
		}
		if keep != nil && !keep(record) {
			continue
		}
		seen[record.ExternalID] = true
		out = append(out, record)
	}
	return out
}
