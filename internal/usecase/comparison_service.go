package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// ComparisonConfig holds the numeric knobs of the cross-supplier comparison
type ComparisonConfig struct {
	MinSavingsPct    float64 // minimum savings to flag a better deal
	MaxAgeDays       int     // freshness window for observations
	MaxBetterDeals   int     // cap on returned better deals
	SuspiciousLowPct float64 // scanned price below this fraction of min is suspicious
	OverpricedPct    float64 // scanned price above this fraction of max is overpriced
	AverageBandPct   float64 // band around the mean treated as normal
}

// DefaultComparisonConfig returns the shipped comparison tuning
func DefaultComparisonConfig() ComparisonConfig {
	return ComparisonConfig{
		MinSavingsPct:    5.0,
		MaxAgeDays:       30,
		MaxBetterDeals:   3,
		SuspiciousLowPct: 0.70,
		OverpricedPct:    1.15,
		AverageBandPct:   0.05,
	}
}

// ComparisonService produces cross-supplier price reports for a matched
// catalog product
type ComparisonService struct {
	repo   domain.CatalogRepository
	units  *UnitNormalizer
	config ComparisonConfig
	now    func() time.Time // injectable for tests
}

// NewComparisonService creates a comparison service. Zero-valued config
// fields fall back to the defaults.
func NewComparisonService(repo domain.CatalogRepository, units *UnitNormalizer, config ComparisonConfig) *ComparisonService {
	defaults := DefaultComparisonConfig()
	if config.MinSavingsPct <= 0 {
		config.MinSavingsPct = defaults.MinSavingsPct
	}
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = defaults.MaxAgeDays
	}
	if config.MaxBetterDeals <= 0 {
		config.MaxBetterDeals = defaults.MaxBetterDeals
	}
	if config.SuspiciousLowPct <= 0 {
		config.SuspiciousLowPct = defaults.SuspiciousLowPct
	}
	if config.OverpricedPct <= 0 {
		config.OverpricedPct = defaults.OverpricedPct
	}
	if config.AverageBandPct <= 0 {
		config.AverageBandPct = defaults.AverageBandPct
	}

	return &ComparisonService{
		repo:   repo,
		units:  units,
		config: config,
		now:    time.Now,
	}
}

// CompareAcrossSuppliers gathers the currently-active observations for a
// product, excludes the originating supplier and anything older than the
// freshness window, and reports min/max/avg prices plus the cheapest
// alternative suppliers beating the scanned price by the configured margin.
// No alternatives is a normal result, never an error.
//
// The freshness boundary is inclusive: an observation exactly MaxAgeDays
// old still counts. The savings threshold is greater-or-equal.
func (s *ComparisonService) CompareAcrossSuppliers(
	ctx context.Context,
	productID string,
	scannedPrice float64,
	excludeSupplierID string,
) (*domain.PriceComparisonReport, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("loading product %s: %w", productID, err)
	}

	observations, err := s.repo.ActiveObservations(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("loading observations for %s: %w", productID, err)
	}

	cutoff := s.now().AddDate(0, 0, -s.config.MaxAgeDays)
	var considered []domain.PriceObservation
	for _, obs := range observations {
		if obs.SupplierID == excludeSupplierID && excludeSupplierID != "" {
			continue
		}
		if obs.ValidFrom.Before(cutoff) {
			continue
		}
		// Observations quoted in a different canonical unit are not
		// comparable; skip them rather than corrupting the statistics.
		// An omitted unit folds to the same count-unit default the product
		// was created with.
		if s.units.StandardizedUnit(obs.RawUnit) != product.StandardizedUnit {
			log.Printf("[COMPARE] skipping observation %s: unit %q does not fold into %q",
				obs.ID, obs.RawUnit, product.StandardizedUnit)
			continue
		}
		considered = append(considered, obs)
	}

	report := &domain.PriceComparisonReport{
		MatchedProduct: domain.MatchedProductRef{
			ID:   product.ID,
			Name: product.StandardizedName,
			Unit: product.StandardizedUnit,
		},
		ScannedPrice: scannedPrice,
		BetterDeals:  []domain.BetterDeal{},
		Status:       domain.PriceStatusNormal,
	}

	if len(considered) == 0 {
		return report, nil
	}

	report.PriceStats = computeStats(considered)
	report.BetterDeals = s.betterDeals(considered, scannedPrice)
	report.Status = s.classify(scannedPrice, report.PriceStats)
	return report, nil
}

// computeStats aggregates unit prices and distinct supplier count
func computeStats(observations []domain.PriceObservation) domain.PriceStats {
	stats := domain.PriceStats{Min: observations[0].UnitPrice, Max: observations[0].UnitPrice}
	suppliers := make(map[string]bool, len(observations))

	sum := 0.0
	for _, obs := range observations {
		if obs.UnitPrice < stats.Min {
			stats.Min = obs.UnitPrice
		}
		if obs.UnitPrice > stats.Max {
			stats.Max = obs.UnitPrice
		}
		sum += obs.UnitPrice
		suppliers[obs.SupplierID] = true
	}

	stats.Avg = sum / float64(len(observations))
	stats.SupplierCount = len(suppliers)
	return stats
}

// betterDeals flags observations undercutting the scanned price by at least
// the savings margin, de-duplicated to the cheapest per supplier, sorted
// ascending and capped
func (s *ComparisonService) betterDeals(observations []domain.PriceObservation, scannedPrice float64) []domain.BetterDeal {
	deals := []domain.BetterDeal{}
	if scannedPrice <= 0 {
		return deals
	}

	cheapest := make(map[string]float64)
	for _, obs := range observations {
		if current, ok := cheapest[obs.SupplierID]; !ok || obs.UnitPrice < current {
			cheapest[obs.SupplierID] = obs.UnitPrice
		}
	}

	for supplierID, price := range cheapest {
		savings := (scannedPrice - price) / scannedPrice * 100
		if savings >= s.config.MinSavingsPct {
			deals = append(deals, domain.BetterDeal{
				SupplierID:     supplierID,
				Price:          price,
				SavingsPercent: savings,
			})
		}
	}

	sort.Slice(deals, func(i, j int) bool { return deals[i].Price < deals[j].Price })
	if len(deals) > s.config.MaxBetterDeals {
		deals = deals[:s.config.MaxBetterDeals]
	}
	return deals
}

// classify buckets the scanned price against the market statistics
func (s *ComparisonService) classify(scannedPrice float64, stats domain.PriceStats) domain.PriceStatus {
	if scannedPrice <= 0 || stats.SupplierCount == 0 {
		return domain.PriceStatusNormal
	}

	switch {
	case scannedPrice < stats.Min*s.config.SuspiciousLowPct:
		return domain.PriceStatusSuspicious
	case scannedPrice > stats.Max*s.config.OverpricedPct:
		return domain.PriceStatusOverpriced
	case scannedPrice > stats.Avg*(1+s.config.AverageBandPct):
		return domain.PriceStatusAboveAverage
	case scannedPrice < stats.Avg*(1-s.config.AverageBandPct):
		return domain.PriceStatusBelowAverage
	default:
		return domain.PriceStatusNormal
	}
}
