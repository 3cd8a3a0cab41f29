package services

import (
	"math"
	"testing"
)

func TestDiceSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "charizard", "charizard", 1},
		{"identical after whitespace strip", "char izard", "charizard", 1},
		{"both empty", "", "", 1},
		{"single rune differs", "a", "b", 0},
		{"one short", "a", "abc", 0},
		{"disjoint", "abcd", "wxyz", 0},
		{"night/nacht", "night", "nacht", 0.25},
		{"repeated bigrams counted once each", "aaaa", "aa", 0.5},
		{"half overlap", "abcd", "abxy", 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiceSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DiceSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDiceSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"charizard 4 bs", "charizard 004 bs"},
		{"pikachu", "pikachu 58 bs"},
		{"mew", "mewtwo"},
	}
	for _, p := range pairs {
		ab := DiceSimilarity(p[0], p[1])
		ba := DiceSimilarity(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("out of range: %v", ab)
		}
	}
}
