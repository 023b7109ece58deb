package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// stubCatalogRepo is an in-memory CatalogRepository mirroring the storage
// semantics the services depend on: catalog uniqueness, one active
// observation per supplier, append-only price history.
type stubCatalogRepo struct {
	products     []domain.CanonicalProduct
	observations []domain.PriceObservation
	changes      []domain.PriceChange
	nextID       int

	failListProducts error // injectable fault
}

func newStubRepo() *stubCatalogRepo {
	return &stubCatalogRepo{}
}

func (r *stubCatalogRepo) ListProducts(ctx context.Context) ([]domain.CanonicalProduct, error) {
	if r.failListProducts != nil {
		return nil, r.failListProducts
	}
	return append([]domain.CanonicalProduct(nil), r.products...), nil
}

func (r *stubCatalogRepo) GetProduct(ctx context.Context, id string) (*domain.CanonicalProduct, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubCatalogRepo) FindProduct(ctx context.Context, name, unit string) (*domain.CanonicalProduct, error) {
	for i := range r.products {
		if r.products[i].StandardizedName == name && r.products[i].StandardizedUnit == unit {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubCatalogRepo) CreateProduct(ctx context.Context, name, unit, category string) (*domain.CanonicalProduct, error) {
	if _, err := r.FindProduct(ctx, name, unit); err == nil {
		return nil, domain.ErrDuplicateProduct
	}
	r.nextID++
	p := domain.CanonicalProduct{
		ID:               fmt.Sprintf("prod-%d", r.nextID),
		StandardizedName: name,
		StandardizedUnit: unit,
		Category:         category,
		CreatedAt:        time.Now(),
	}
	r.products = append(r.products, p)
	return &p, nil
}

func (r *stubCatalogRepo) ActiveObservations(ctx context.Context, productID string) ([]domain.PriceObservation, error) {
	var active []domain.PriceObservation
	for _, obs := range r.observations {
		if obs.ProductID == productID && obs.ValidTo == nil {
			active = append(active, obs)
		}
	}
	return active, nil
}

func (r *stubCatalogRepo) RecordObservation(ctx context.Context, obs domain.PriceObservation) error {
	now := obs.ValidFrom
	if now.IsZero() {
		now = time.Now()
	}
	for i := range r.observations {
		prev := &r.observations[i]
		if prev.ProductID == obs.ProductID && prev.SupplierID == obs.SupplierID && prev.ValidTo == nil {
			closed := now
			prev.ValidTo = &closed
			if prev.Amount != obs.Amount && prev.Amount != 0 {
				r.changes = append(r.changes, domain.PriceChange{
					ProductID:  obs.ProductID,
					SupplierID: obs.SupplierID,
					OldAmount:  prev.Amount,
					NewAmount:  obs.Amount,
					ChangePct:  (obs.Amount - prev.Amount) / prev.Amount * 100,
					RecordedAt: now,
				})
			}
		}
	}
	r.nextID++
	obs.ID = fmt.Sprintf("obs-%d", r.nextID)
	obs.ValidFrom = now
	r.observations = append(r.observations, obs)
	return nil
}

func (r *stubCatalogRepo) PriceChanges(ctx context.Context, productID string) ([]domain.PriceChange, error) {
	var changes []domain.PriceChange
	for _, c := range r.changes {
		if c.ProductID == productID {
			changes = append(changes, c)
		}
	}
	return changes, nil
}

// stubCache is a TTL-less CacheRepository for service tests
type stubCache struct {
	data map[string]interface{}
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (c *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	value, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}
