package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
var (
	// Matches anything that is not a Unicode letter, digit or whitespace.
	// Non-Latin scripts survive; punctuation and OCR symbol noise do not.
	symbolRegex        = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	multipleSpaceRegex = regexp.MustCompile(`\s+`)
)

// diacriticFolder strips combining marks so OCR output like "café" and
// "cafe" normalize identically
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer canonicalizes raw product-name text. It is a total function:
// any input yields a (possibly empty) normalized string, and normalization
// is idempotent. Callers comparing one query against many candidates should
// normalize the query once and reuse the result.
type Normalizer struct {
	vocab *Vocabulary
}

// NewNormalizer creates a normalizer over the given vocabulary
func NewNormalizer(vocab *Vocabulary) *Normalizer {
	return &Normalizer{vocab: vocab}
}

// Normalize lower-cases, folds diacritics, strips symbols, collapses
// whitespace, translates multilingual terms to canonical English, and drops
// immediately-repeated tokens left behind by bad extraction joins.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(raw)

	if folded, _, err := transform.String(diacriticFolder, s); err == nil {
		s = folded
	}

	s = symbolRegex.ReplaceAllString(s, " ")
	s = multipleSpaceRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	words := strings.Fields(s)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if canonical, ok := n.vocab.Translations[word]; ok {
			word = canonical
		}
		// Drop accidental immediate repeats ("carrot carrot")
		if len(tokens) > 0 && tokens[len(tokens)-1] == word {
			continue
		}
		tokens = append(tokens, word)
	}

	return strings.Join(tokens, " ")
}

// Tokens returns the normalized token stream for a raw name
func (n *Normalizer) Tokens(raw string) []string {
	normalized := n.Normalize(raw)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
