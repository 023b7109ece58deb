package usecase

import (
	"context"
	"log"

	"github.com/pricelens/backend/internal/domain"
)

// MatcherService reconciles extracted price lines against the canonical
// catalog: it scores a query against every candidate and picks the best
type MatcherService struct {
	scorer             *SimilarityScorer
	normalizer         *Normalizer
	units              *UnitNormalizer
	enableDebugLogging bool
}

// NewMatcherService creates a matcher over the given scorer
func NewMatcherService(scorer *SimilarityScorer, units *UnitNormalizer, enableDebugLogging bool) *MatcherService {
	return &MatcherService{
		scorer:             scorer,
		normalizer:         scorer.normalizer,
		units:              units,
		enableDebugLogging: enableDebugLogging,
	}
}

// FindBestMatch scores the query against every candidate, discards zero
// scores, and returns the highest scorer; ties prefer the candidate whose
// canonical unit matches the query's. A nil result with nil error means no
// candidate is compatible - the normal trigger for creating a new catalog
// entry, not a failure.
func (m *MatcherService) FindBestMatch(
	ctx context.Context,
	query *domain.MatchQuery,
	candidates []domain.CanonicalProduct,
) (*domain.MatchResult, error) {
	if query == nil || query.RawName == "" {
		return nil, domain.ErrInvalidQuery
	}

	queryProfile := m.scorer.Profile(query.RawName)
	queryUnit := m.units.StandardizedUnit(query.RawUnit)

	var best *domain.MatchResult
	bestUnitMatches := false

	for i := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidate := &candidates[i]
		score := m.scorer.ScoreProfiles(queryProfile, m.scorer.Profile(candidate.StandardizedName))
		if score == 0 {
			continue
		}

		unitMatches := candidate.StandardizedUnit == queryUnit
		if m.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q (%s): score=%d unitMatch=%v",
				query.RawName, candidate.StandardizedName, candidate.StandardizedUnit, score, unitMatches)
		}

		if best == nil || score > best.Score || (score == best.Score && unitMatches && !bestUnitMatches) {
			best = &domain.MatchResult{Product: candidate, Score: score}
			bestUnitMatches = unitMatches
		}
	}

	if m.enableDebugLogging {
		if best != nil {
			log.Printf("[MATCH] best for %q: %q (score %d)", query.RawName, best.Product.StandardizedName, best.Score)
		} else {
			log.Printf("[MATCH] no match for %q among %d candidates", query.RawName, len(candidates))
		}
	}

	return best, nil
}

// StandardizedName returns the catalog form of a raw product name
func (m *MatcherService) StandardizedName(rawName string) string {
	return m.normalizer.Normalize(rawName)
}

// StandardizedUnit returns the catalog form of a raw unit, defaulting to
// the count unit when the source document omitted it
func (m *MatcherService) StandardizedUnit(rawUnit string) string {
	return m.units.StandardizedUnit(rawUnit)
}
