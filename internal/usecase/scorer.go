package usecase

import (
	"log"
	"math"
	"sort"
	"strings"
)

// ScoringWeights holds every tunable constant of the similarity scorer in
// one place. The relative ordering of effects (veto > exact > reordered >
// overlap with adjustments) is fixed by the algorithm; the magnitudes are
// empirical and overridable from configuration.
type ScoringWeights struct {
	ExactScore       int     // score for identical normalized names
	ReorderedScore   int     // score for same tokens in different order
	OverlapBase      float64 // max points from the word-overlap ratio
	AllTokensBonus   float64 // multiplicative bonus when every query token matches
	DescriptiveBonus float64 // multiplicative bonus when extras are all descriptive
	ExtraWordPenalty float64 // fraction deducted per unexplained candidate token
}

// DefaultScoringWeights returns the shipped tuning
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		ExactScore:       100,
		ReorderedScore:   95,
		OverlapBase:      80.0,
		AllTokensBonus:   0.30,
		DescriptiveBonus: 0.10,
		ExtraWordPenalty: 0.05,
	}
}

// NameProfile is the precomputed normalized view of one product name.
// Building it once per query avoids re-normalizing against every candidate.
type NameProfile struct {
	Normalized string
	Tokens     []string
	TokenSet   map[string]bool
	Exclusive  map[string]bool
	sortedKey  string
}

// SimilarityScorer computes a 0-100 compatibility score between a query
// product name and a catalog candidate name
type SimilarityScorer struct {
	normalizer         *Normalizer
	vocab              *Vocabulary
	weights            ScoringWeights
	enableDebugLogging bool
}

// NewSimilarityScorer creates a scorer with the given weights. Zero-valued
// weights fall back to the defaults.
func NewSimilarityScorer(vocab *Vocabulary, weights ScoringWeights, enableDebugLogging bool) *SimilarityScorer {
	defaults := DefaultScoringWeights()
	if weights.ExactScore <= 0 {
		weights.ExactScore = defaults.ExactScore
	}
	if weights.ReorderedScore <= 0 {
		weights.ReorderedScore = defaults.ReorderedScore
	}
	if weights.OverlapBase <= 0 {
		weights.OverlapBase = defaults.OverlapBase
	}
	if weights.AllTokensBonus <= 0 {
		weights.AllTokensBonus = defaults.AllTokensBonus
	}
	if weights.DescriptiveBonus <= 0 {
		weights.DescriptiveBonus = defaults.DescriptiveBonus
	}
	if weights.ExtraWordPenalty <= 0 {
		weights.ExtraWordPenalty = defaults.ExtraWordPenalty
	}

	return &SimilarityScorer{
		normalizer:         NewNormalizer(vocab),
		vocab:              vocab,
		weights:            weights,
		enableDebugLogging: enableDebugLogging,
	}
}

// Profile precomputes the normalized view of a name for repeated scoring
func (s *SimilarityScorer) Profile(name string) *NameProfile {
	normalized := s.normalizer.Normalize(name)
	tokens := strings.Fields(normalized)

	tokenSet := make(map[string]bool, len(tokens))
	exclusive := make(map[string]bool)
	for _, t := range tokens {
		tokenSet[t] = true
		if s.vocab.Exclusive[t] {
			exclusive[t] = true
		}
	}

	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)

	return &NameProfile{
		Normalized: normalized,
		Tokens:     tokens,
		TokenSet:   tokenSet,
		Exclusive:  exclusive,
		sortedKey:  strings.Join(sorted, " "),
	}
}

// Score computes the similarity between two raw names
func (s *SimilarityScorer) Score(query, candidateName string) int {
	return s.ScoreProfiles(s.Profile(query), s.Profile(candidateName))
}

// ScoreProfiles computes the similarity between two precomputed profiles.
// Steps, short-circuiting on the first that applies: exclusive-modifier
// veto, exact match, reordered match, then a word-overlap base adjusted by
// the all-tokens bonus, the descriptive-extras bonus and the per-extra-word
// penalty. The overlap path is capped just below the reordered score so the
// shortcut scores remain distinguishable.
func (s *SimilarityScorer) ScoreProfiles(query, candidate *NameProfile) int {
	if len(query.Tokens) == 0 || len(candidate.Tokens) == 0 {
		return 0
	}

	// A query naming a variety must not match a different variety. A bare
	// query carries no exclusive modifiers and may match any candidate:
	// querying "tomato" surfaces "tomato cherry" for the caller to rank,
	// querying "cherry tomato" never matches plain "tomato".
	if len(query.Exclusive) > 0 && !sameStringSet(query.Exclusive, candidate.Exclusive) {
		s.debugf("veto: query %v vs candidate %v", query.Exclusive, candidate.Exclusive)
		return 0
	}

	if query.Normalized == candidate.Normalized {
		return s.weights.ExactScore
	}

	if query.sortedKey == candidate.sortedKey {
		return s.weights.ReorderedScore
	}

	// Word-overlap base: fraction of query tokens found in the candidate.
	// Missing core tokens lower this fraction rather than short-circuiting,
	// because partial queries are allowed.
	matched := 0
	for _, t := range query.Tokens {
		if candidate.TokenSet[t] {
			matched++
		}
	}
	score := float64(matched) / float64(len(query.Tokens)) * s.weights.OverlapBase

	if matched == len(query.Tokens) {
		score *= 1 + s.weights.AllTokensBonus
	}

	// Candidate tokens beyond the query: descriptive extras slightly favor
	// the candidate, unexplained extras cost a fraction each
	extras := 0
	descriptiveExtras := 0
	unexplained := 0
	for _, t := range candidate.Tokens {
		if query.TokenSet[t] {
			continue
		}
		extras++
		switch {
		case s.vocab.Descriptive[t]:
			descriptiveExtras++
		case s.vocab.Exclusive[t]:
			// recognized modifier, neither bonus nor penalty
		default:
			unexplained++
		}
	}
	if extras > 0 && extras == descriptiveExtras {
		score *= 1 + s.weights.DescriptiveBonus
	}
	if unexplained > 0 {
		score *= 1 - s.weights.ExtraWordPenalty*float64(unexplained)
	}

	// Keep the overlap path below the reordered shortcut
	ceiling := float64(s.weights.ReorderedScore - 1)
	if score > ceiling {
		score = ceiling
	}
	if score < 0 {
		score = 0
	}

	result := int(math.Round(score))
	s.debugf("%q vs %q: matched=%d/%d extras=%d unexplained=%d -> %d",
		query.Normalized, candidate.Normalized, matched, len(query.Tokens), extras, unexplained, result)
	return result
}

func (s *SimilarityScorer) debugf(format string, args ...interface{}) {
	if s.enableDebugLogging {
		log.Printf("[SCORE] "+format, args...)
	}
}

// sameStringSet reports set equality in both directions
func sameStringSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
