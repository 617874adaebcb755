package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

// ErrorKind classifies provider failures for retry and logging decisions.
type ErrorKind string

const (
	ErrorKindNetwork   ErrorKind = "network"
	ErrorKindAuth      ErrorKind = "auth"
	ErrorKindRateLimit ErrorKind = "rate_limit"
	ErrorKindMalformed ErrorKind = "malformed"
)

// Error wraps an upstream failure with its provider and classification.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(provider string, kind ErrorKind, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// Partition is one independently fetchable slice of a provider's data,
// typically a league or tournament.
type Partition struct {
	Key  string
	Name string
}

// Source is a provider adapter that yields normalized fixtures.
// FetchFixtures is called once per partition; partitions within one
// source are fetched sequentially to respect upstream rate limits.
type Source interface {
	Name() string
	Partitions() []Partition
	FetchFixtures(ctx context.Context, part Partition) ([]fixture.Fixture, error)
}

// Meeting is one past encounter between two teams as reported upstream.
type Meeting struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	PlayedAt  time.Time
}

// HeadToHeadSource is implemented by providers that can serve
// historical meetings for a fixture's team pair.
type HeadToHeadSource interface {
	FetchHeadToHead(ctx context.Context, nativeID string) ([]Meeting, error)
}

// Odds carries match-winner prices for one fixture.
type Odds struct {
	Home float64
	Draw float64
	Away float64
}

// OddsSource is implemented by providers that expose bookmaker prices.
type OddsSource interface {
	FetchOdds(ctx context.Context, nativeID string) (*Odds, error)
}
