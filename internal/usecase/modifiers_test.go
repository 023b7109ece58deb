package usecase

import (
	"reflect"
	"testing"
)

func TestCoreNoun(t *testing.T) {
	vocab := DefaultVocabulary()
	classifier := NewModifierClassifier(vocab, NewNormalizer(vocab))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain noun", input: "tomato", want: "tomato"},
		{name: "leading exclusive modifier", input: "sweet potato", want: "potato"},
		{name: "leading descriptive modifier", input: "fresh carrot", want: "carrot"},
		{name: "stacked modifiers", input: "fresh red large chili", want: "chili"},
		{name: "multilingual input", input: "Ayam Goreng", want: "chicken"},
		{name: "pure modifier phrase", input: "fresh large", want: ""},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.CoreNoun(tt.input)
			if got != tt.want {
				t.Errorf("CoreNoun(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetModifiers(t *testing.T) {
	vocab := DefaultVocabulary()
	classifier := NewModifierClassifier(vocab, NewNormalizer(vocab))

	t.Run("partitions both classes", func(t *testing.T) {
		got := classifier.GetModifiers("sweet potato large")
		if !reflect.DeepEqual(got.Exclusive, []string{"sweet"}) {
			t.Errorf("Exclusive = %v, want [sweet]", got.Exclusive)
		}
		if !reflect.DeepEqual(got.Descriptive, []string{"large"}) {
			t.Errorf("Descriptive = %v, want [large]", got.Descriptive)
		}
	})

	t.Run("preserves order and duplicates", func(t *testing.T) {
		got := classifier.GetModifiers("red chili red")
		if !reflect.DeepEqual(got.Exclusive, []string{"red", "red"}) {
			t.Errorf("Exclusive = %v, want [red red]", got.Exclusive)
		}
	})

	t.Run("classifies after translation", func(t *testing.T) {
		// manis translates to sweet, which is exclusive
		got := classifier.GetModifiers("jagung manis")
		if !reflect.DeepEqual(got.Exclusive, []string{"sweet"}) {
			t.Errorf("Exclusive = %v, want [sweet]", got.Exclusive)
		}
	})

	t.Run("no modifiers", func(t *testing.T) {
		got := classifier.GetModifiers("tomato")
		if len(got.Exclusive) != 0 || len(got.Descriptive) != 0 {
			t.Errorf("GetModifiers(tomato) = %+v, want empty", got)
		}
	})
}
