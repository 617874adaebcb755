package fixture

import "context"

// Repository is the fixture store contract. Implementations must treat
// ExternalID as unique.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Fixture, error)
	FindByExternalID(ctx context.Context, externalID string) (*Fixture, error)
	Insert(ctx context.Context, record *Fixture) error
	UpdateByID(ctx context.Context, record *Fixture) error
	ListByStatus(ctx context.Context, status string, limit int) ([]Fixture, error)
	ListBySport(ctx context.Context, sport, status string, limit int) ([]Fixture, error)
	ListMissingOdds(ctx context.Context, providerPrefix string, limit int) ([]Fixture, error)
}
