package normalization

import (
	"math"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{name: "классический пример", s1: "kitten", s2: "sitting", want: 3},
		{name: "одинаковые строки", s1: "датчик", s2: "датчик", want: 0},
		{name: "пустая и непустая", s1: "", s2: "abc", want: 3},
		{name: "обе пустые", s1: "", s2: "", want: 0},
		{name: "кириллица считается по рунам", s1: "привет", s2: "привед", want: 1},
		{name: "вставка в конец", s1: "частота", s2: "частотах", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
			// Расстояние симметрично
			if got := levenshteinDistance(tt.s2, tt.s1); got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s2, tt.s1, got, tt.want)
			}
		})
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{name: "одинаковые строки", s1: "abc", s2: "abc", want: 1.0},
		{name: "обе пустые", s1: "", s2: "", want: 1.0},
		{name: "совсем разные", s1: "ab", s2: "xy", want: 0.0},
		{name: "одна замена из десяти", s1: "абвгдежзик", s2: "абвгдежзиж", want: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levenshteinSimilarity(tt.s1, tt.s2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("levenshteinSimilarity(%q, %q) = %f, want %f", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}
