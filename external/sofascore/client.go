package sofascore

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
	providerName   = "sofascore"
	defaultBaseURL = "https://api.sofascore.com/api/v1"
)

// defaultTournaments covers the European and African competitions the
// pipeline tracks by default.
var defaultTournaments = []provider.Partition{
	{Key: "17", Name: "Premier League"},
	{Key: "8", Name: "LaLiga"},
	{Key: "35", Name: "Bundesliga"},
	{Key: "23", Name: "Serie A"},
	{Key: "34", Name: "Ligue 1"},
	{Key: "7", Name: "UEFA Champions League"},
	{Key: "679", Name: "Kenyan Premier League"},
	{Key: "288", Name: "South African Premier Division"},
	{Key: "628", Name: "Egyptian Premier League"},
	{Key: "921", Name: "Nigerian Professional League"},
	{Key: "16", Name: "CAF Champions League"},
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Tournaments    []provider.Partition
	Now            func() time.Time
}

// Client adapts the sofascore API into the provider contract. It is
// also the head-to-head source for enrichment.
type Client struct {
	rest        *rest.Client
	logger      *logging.Logger
	tournaments []provider.Partition
	now         func() time.Time
}

var (
	_ provider.Source           = (*Client)(nil)
	_ provider.HeadToHeadSource = (*Client)(nil)
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

	tournaments := cfg.Tournaments
	if len(tournaments) == 0 {
		tournaments = defaultTournaments
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
		logger:      logger,
		tournaments: tournaments,
		now:         now,
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Partitions() []provider.Partition {
	return append([]provider.Partition(nil), c.tournaments...)
}

// FetchFixtures pulls today's scheduled events and keeps the ones
// belonging to the partition's tournament. The date feed carries live
// and finished events too, so scores and statuses refresh on every
// pass.
func (c *Client) FetchFixtures(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error) {
	var envelope eventsEnvelope
	path := fmt.Sprintf("/sport/football/scheduled-events/%s", c.now().UTC().Format("2006-01-02"))
	if err := c.rest.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		if strconv.FormatInt(item.Tournament.ID, 10) != part.Key {
			continue
		}
		record, err := normalizeEvent(item)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed event", "provider", providerName, "partition", part.Key, "error", err)
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// FetchHeadToHead returns completed past meetings for the event's team
// pair, newest first.
func (c *Client) FetchHeadToHead(ctx context.Context, nativeID string) ([]provider.Meeting, error) {
	var envelope eventsEnvelope
	path := fmt.Sprintf("/event/%s/h2h/events", nativeID)
	if err := c.rest.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	return normalizeMeetings(envelope), nil
}
