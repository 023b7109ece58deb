package usecase

// Modifiers holds the classified modifier tokens of a product name,
// order and duplicates preserved
type Modifiers struct {
	Exclusive   []string
	Descriptive []string
}

// ModifierClassifier partitions normalized name tokens into core tokens and
// the two modifier classes. Exclusive modifiers denote a materially
// different product and block otherwise-similar matches; descriptive
// modifiers qualify the same product and never block.
type ModifierClassifier struct {
	vocab      *Vocabulary
	normalizer *Normalizer
}

// NewModifierClassifier creates a classifier over the given vocabulary
func NewModifierClassifier(vocab *Vocabulary, normalizer *Normalizer) *ModifierClassifier {
	return &ModifierClassifier{vocab: vocab, normalizer: normalizer}
}

// CoreNoun returns the first token of the normalized name that is in
// neither modifier set. It returns "" for a pure modifier phrase with no
// base noun; callers must treat that as "cannot determine core, allow match".
func (c *ModifierClassifier) CoreNoun(name string) string {
	for _, token := range c.normalizer.Tokens(name) {
		if !c.vocab.IsModifier(token) {
			return token
		}
	}
	return ""
}

// GetModifiers returns the modifier tokens of the name, per class
func (c *ModifierClassifier) GetModifiers(name string) Modifiers {
	return c.classify(c.normalizer.Tokens(name))
}

// classify partitions already-normalized tokens
func (c *ModifierClassifier) classify(tokens []string) Modifiers {
	var m Modifiers
	for _, token := range tokens {
		switch {
		case c.vocab.Exclusive[token]:
			m.Exclusive = append(m.Exclusive, token)
		case c.vocab.Descriptive[token]:
			m.Descriptive = append(m.Descriptive, token)
		}
	}
	return m
}
