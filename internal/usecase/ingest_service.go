package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/metrics"
)

const catalogCacheKey = "catalog:products"

// IngestConfig holds configuration for the ingest service
type IngestConfig struct {
	CatalogCacheTTL    time.Duration
	EnableDebugLogging bool
}

// IngestService runs the full pipeline for extracted price lines: validate,
// match against the catalog (or create a new entry), record the price
// observation, and build the cross-supplier comparison report
type IngestService struct {
	repo               domain.CatalogRepository
	cache              domain.CacheRepository
	matcher            *MatcherService
	comparison         *ComparisonService
	units              *UnitNormalizer
	cacheTTL           time.Duration
	enableDebugLogging bool
	now                func() time.Time // injectable for tests
}

// NewIngestService creates an ingest service with dependencies
func NewIngestService(
	repo domain.CatalogRepository,
	cache domain.CacheRepository,
	matcher *MatcherService,
	comparison *ComparisonService,
	units *UnitNormalizer,
	config IngestConfig,
) *IngestService {
	cacheTTL := config.CatalogCacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &IngestService{
		repo:               repo,
		cache:              cache,
		matcher:            matcher,
		comparison:         comparison,
		units:              units,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
	}
}

// ProcessDocument runs every extracted line of one document through the
// matching pipeline. A document with zero lines is a terminal, reported
// outcome - placeholder rows are never synthesized. Per-line validation
// failures skip the line and are counted; they never abort the document.
func (s *IngestService) ProcessDocument(ctx context.Context, uploadID string, queries []domain.MatchQuery) (*domain.DocumentReport, error) {
	if len(queries) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	report := &domain.DocumentReport{
		UploadID: uploadID,
		Lines:    make([]domain.LineResult, 0, len(queries)),
	}

	for _, query := range queries {
		result, err := s.ProcessLine(ctx, uploadID, query)
		if err != nil {
			// Infrastructure failure or cancellation: the document cannot
			// continue. Validation problems never land here.
			return nil, err
		}

		switch result.Outcome {
		case domain.LineMatched:
			report.Matched++
		case domain.LineCreated:
			report.Created++
		case domain.LineSkipped:
			report.Skipped++
		}
		report.Lines = append(report.Lines, result)
	}

	log.Printf("[INGEST] document %s: %d matched, %d created, %d skipped",
		uploadID, report.Matched, report.Created, report.Skipped)
	return report, nil
}

// ProcessLine runs one extracted line through the pipeline. The returned
// error is reserved for storage and cancellation failures; rejected lines
// come back as a skipped LineResult with the reason attached.
func (s *IngestService) ProcessLine(ctx context.Context, uploadID string, query domain.MatchQuery) (domain.LineResult, error) {
	started := s.now()
	result, err := s.processLine(ctx, uploadID, query)
	metrics.ObserveLineProcessing(s.now().Sub(started).Seconds())
	if err == nil {
		metrics.RecordLineOutcome(string(result.Outcome))
	}
	return result, err
}

func (s *IngestService) processLine(ctx context.Context, uploadID string, query domain.MatchQuery) (domain.LineResult, error) {
	result := domain.LineResult{Query: query}

	if query.RawName == "" {
		return s.skip(result, domain.ErrInvalidQuery.Error()), nil
	}

	// Documents frequently omit the quantity column; a missing quantity
	// means "one unit as quoted"
	quantity := query.Quantity
	if quantity == 0 {
		quantity = 1
	}

	unitPrice := 0.0
	if query.RawPrice != 0 {
		price, err := s.units.UnitPrice(query.RawPrice, quantity, query.RawUnit)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidQuantity) {
				return s.skip(result, err.Error()), nil
			}
			return result, err
		}
		unitPrice = price
	}

	candidates, err := s.catalogProducts(ctx)
	if err != nil {
		return result, fmt.Errorf("loading catalog candidates: %w", err)
	}

	match, err := s.matcher.FindBestMatch(ctx, &query, candidates)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			return s.skip(result, err.Error()), nil
		}
		return result, err
	}

	var product *domain.CanonicalProduct
	if match != nil {
		product = match.Product
		result.Outcome = domain.LineMatched
		result.Score = match.Score
	} else {
		created, err := s.createProduct(ctx, &query)
		if err != nil {
			return result, err
		}
		if created == nil {
			return s.skip(result, "product name normalizes to empty"), nil
		}
		product = created
		result.Outcome = domain.LineCreated
	}
	result.Product = product

	if query.SupplierID != "" && query.RawPrice > 0 {
		obs := domain.PriceObservation{
			ProductID:      product.ID,
			SupplierID:     query.SupplierID,
			Amount:         query.RawPrice,
			RawUnit:        query.RawUnit,
			UnitPrice:      unitPrice,
			SourceUploadID: uploadID,
			ValidFrom:      s.now(),
		}
		if err := s.repo.RecordObservation(ctx, obs); err != nil {
			return result, fmt.Errorf("recording observation for %s: %w", product.ID, err)
		}
	}

	if query.RawPrice > 0 {
		comparison, err := s.comparison.CompareAcrossSuppliers(ctx, product.ID, unitPrice, query.SupplierID)
		if err != nil {
			// The match itself succeeded; a comparison failure degrades the
			// line result instead of discarding it
			log.Printf("[INGEST] comparison failed for product %s: %v", product.ID, err)
		} else {
			result.Comparison = comparison
			metrics.RecordBetterDeals(len(comparison.BetterDeals))
		}
	}

	return result, nil
}

// createProduct inserts a new catalog entry for an unmatched query. A
// uniqueness conflict means a concurrent ingest created the same entry
// first; the winning row is re-read and used.
func (s *IngestService) createProduct(ctx context.Context, query *domain.MatchQuery) (*domain.CanonicalProduct, error) {
	name := s.matcher.StandardizedName(query.RawName)
	if name == "" {
		return nil, nil
	}
	unit := s.matcher.StandardizedUnit(query.RawUnit)

	product, err := s.repo.CreateProduct(ctx, name, unit, "")
	if errors.Is(err, domain.ErrDuplicateProduct) {
		return s.repo.FindProduct(ctx, name, unit)
	}
	if err != nil {
		return nil, fmt.Errorf("creating product %q (%s): %w", name, unit, err)
	}

	metrics.RecordProductCreated()
	s.invalidateCatalogCache(ctx)
	if s.enableDebugLogging {
		log.Printf("[INGEST] created catalog entry %q (%s)", name, unit)
	}
	return product, nil
}

// catalogProducts returns the candidate catalog, served from cache when a
// fresh snapshot exists
func (s *IngestService) catalogProducts(ctx context.Context) ([]domain.CanonicalProduct, error) {
	if cached, err := s.cache.Get(ctx, catalogCacheKey); err == nil {
		if products, ok := cached.([]domain.CanonicalProduct); ok {
			return products, nil
		}
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, catalogCacheKey, products, s.cacheTTL); err != nil {
		log.Printf("[INGEST] failed to cache catalog snapshot: %v", err)
	}
	return products, nil
}

func (s *IngestService) invalidateCatalogCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		log.Printf("[INGEST] failed to invalidate catalog cache: %v", err)
	}
}

func (s *IngestService) skip(result domain.LineResult, reason string) domain.LineResult {
	result.Outcome = domain.LineSkipped
	result.Reason = reason
	if s.enableDebugLogging {
		log.Printf("[INGEST] skipped line %q: %s", result.Query.RawName, reason)
	}
	return result
}
