package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository defines the storage operations the matching engine needs.
// Implementations must make CreateProduct and RecordObservation safe under
// concurrent ingests: catalog uniqueness is enforced by the store, and
// closing the previous observation plus opening the new one is atomic.
type CatalogRepository interface {
	// ListProducts returns all catalog entries, candidates for matching
	ListProducts(ctx context.Context) ([]CanonicalProduct, error)

	// GetProduct returns a catalog entry by id, or ErrProductNotFound
	GetProduct(ctx context.Context, id string) (*CanonicalProduct, error)

	// FindProduct looks up the catalog entry for a (name, unit) pair,
	// or ErrProductNotFound
	FindProduct(ctx context.Context, standardizedName, standardizedUnit string) (*CanonicalProduct, error)

	// CreateProduct inserts a new catalog entry. Returns ErrDuplicateProduct
	// when another entry already holds the (name, unit) pair.
	CreateProduct(ctx context.Context, standardizedName, standardizedUnit, category string) (*CanonicalProduct, error)

	// ActiveObservations returns the observations with an open validity
	// window for the given product
	ActiveObservations(ctx context.Context, productID string) ([]PriceObservation, error)

	// RecordObservation supersedes the supplier's active observation for the
	// product (if any) with a new one, in a single transaction. When the
	// amount changed, an append-only PriceChange record is written alongside.
	RecordObservation(ctx context.Context, obs PriceObservation) error

	// PriceChanges returns the recorded price-change history for a product,
	// newest first
	PriceChanges(ctx context.Context, productID string) ([]PriceChange, error)
}
