package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/pricelens/backend/internal/domain"
)

// Store is the sqlite-backed catalog repository. Catalog uniqueness and the
// single-active-observation rule are enforced by the schema, so concurrent
// ingests cannot create duplicate entries or leave two open observations
// for one supplier/product pair.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the catalog database at the given path
func NewStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			standardized_name TEXT NOT NULL,
			standardized_unit TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			UNIQUE(standardized_name, standardized_unit)
		)`,
		`CREATE TABLE IF NOT EXISTS price_observations (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id),
			supplier_id TEXT NOT NULL,
			amount REAL NOT NULL,
			raw_unit TEXT NOT NULL DEFAULT '',
			unit_price REAL NOT NULL,
			source_upload_id TEXT NOT NULL DEFAULT '',
			valid_from TIMESTAMP NOT NULL,
			valid_to TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_observations_active
			ON price_observations(product_id, supplier_id) WHERE valid_to IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_observations_product
			ON price_observations(product_id)`,
		`CREATE TABLE IF NOT EXISTS price_changes (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id),
			supplier_id TEXT NOT NULL,
			old_amount REAL NOT NULL,
			new_amount REAL NOT NULL,
			change_pct REAL NOT NULL,
			recorded_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrating catalog schema: %w", err)
		}
	}
	return nil
}

// ListProducts returns all catalog entries
func (s *Store) ListProducts(ctx context.Context) ([]domain.CanonicalProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, standardized_name, standardized_unit, category, created_at
		 FROM products ORDER BY standardized_name, standardized_unit`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []domain.CanonicalProduct
	for rows.Next() {
		var p domain.CanonicalProduct
		if err := rows.Scan(&p.ID, &p.StandardizedName, &p.StandardizedUnit, &p.Category, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns a catalog entry by id
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.CanonicalProduct, error) {
	var p domain.CanonicalProduct
	err := s.db.QueryRowContext(ctx,
		`SELECT id, standardized_name, standardized_unit, category, created_at
		 FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.StandardizedName, &p.StandardizedUnit, &p.Category, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading product %s: %w", id, err)
	}
	return &p, nil
}

// FindProduct looks up the catalog entry holding a (name, unit) pair
func (s *Store) FindProduct(ctx context.Context, standardizedName, standardizedUnit string) (*domain.CanonicalProduct, error) {
	var p domain.CanonicalProduct
	err := s.db.QueryRowContext(ctx,
		`SELECT id, standardized_name, standardized_unit, category, created_at
		 FROM products WHERE standardized_name = ? AND standardized_unit = ?`,
		standardizedName, standardizedUnit).
		Scan(&p.ID, &p.StandardizedName, &p.StandardizedUnit, &p.Category, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding product %q (%s): %w", standardizedName, standardizedUnit, err)
	}
	return &p, nil
}

// CreateProduct inserts a new catalog entry. The schema-level UNIQUE
// constraint turns a concurrent duplicate into ErrDuplicateProduct.
func (s *Store) CreateProduct(ctx context.Context, standardizedName, standardizedUnit, category string) (*domain.CanonicalProduct, error) {
	product := &domain.CanonicalProduct{
		ID:               uuid.NewString(),
		StandardizedName: standardizedName,
		StandardizedUnit: standardizedUnit,
		Category:         category,
		CreatedAt:        time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, standardized_name, standardized_unit, category, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		product.ID, product.StandardizedName, product.StandardizedUnit, product.Category, product.CreatedAt)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateProduct
	}
	if err != nil {
		return nil, fmt.Errorf("inserting product %q (%s): %w", standardizedName, standardizedUnit, err)
	}
	return product, nil
}

// ActiveObservations returns the observations with an open validity window
func (s *Store) ActiveObservations(ctx context.Context, productID string) ([]domain.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, supplier_id, amount, raw_unit, unit_price, source_upload_id, valid_from
		 FROM price_observations
		 WHERE product_id = ? AND valid_to IS NULL
		 ORDER BY unit_price`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing active observations for %s: %w", productID, err)
	}
	defer rows.Close()

	var observations []domain.PriceObservation
	for rows.Next() {
		var obs domain.PriceObservation
		if err := rows.Scan(&obs.ID, &obs.ProductID, &obs.SupplierID, &obs.Amount,
			&obs.RawUnit, &obs.UnitPrice, &obs.SourceUploadID, &obs.ValidFrom); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// RecordObservation atomically closes the supplier's active observation for
// the product (if any), inserts the new one, and appends a price-change
// record when the amount differs. History is append-only; nothing is
// physically deleted.
func (s *Store) RecordObservation(ctx context.Context, obs domain.PriceObservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting observation transaction: %w", err)
	}
	defer tx.Rollback()

	now := obs.ValidFrom
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var previousID string
	var previousAmount float64
	err = tx.QueryRowContext(ctx,
		`SELECT id, amount FROM price_observations
		 WHERE product_id = ? AND supplier_id = ? AND valid_to IS NULL`,
		obs.ProductID, obs.SupplierID).Scan(&previousID, &previousAmount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("loading previous observation: %w", err)
	}

	if previousID != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE price_observations SET valid_to = ? WHERE id = ?`, now, previousID); err != nil {
			return fmt.Errorf("closing observation %s: %w", previousID, err)
		}

		if previousAmount != obs.Amount && previousAmount != 0 {
			changePct := (obs.Amount - previousAmount) / previousAmount * 100
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO price_changes (id, product_id, supplier_id, old_amount, new_amount, change_pct, recorded_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), obs.ProductID, obs.SupplierID, previousAmount, obs.Amount, changePct, now); err != nil {
				return fmt.Errorf("recording price change: %w", err)
			}
		}
	}

	id := obs.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO price_observations
		 (id, product_id, supplier_id, amount, raw_unit, unit_price, source_upload_id, valid_from, valid_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		id, obs.ProductID, obs.SupplierID, obs.Amount, obs.RawUnit, obs.UnitPrice, obs.SourceUploadID, now); err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}

	return tx.Commit()
}

// PriceChanges returns the recorded price-change history, newest first
func (s *Store) PriceChanges(ctx context.Context, productID string) ([]domain.PriceChange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, supplier_id, old_amount, new_amount, change_pct, recorded_at
		 FROM price_changes WHERE product_id = ? ORDER BY recorded_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing price changes for %s: %w", productID, err)
	}
	defer rows.Close()

	var changes []domain.PriceChange
	for rows.Next() {
		var c domain.PriceChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.SupplierID, &c.OldAmount, &c.NewAmount, &c.ChangePct, &c.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning price change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// isUniqueViolation reports whether the error is a sqlite UNIQUE constraint
// failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
