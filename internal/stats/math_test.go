package stats

import (
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected float64
	}{
		{"Empty", []int{}, 0},
		{"SingleItem", []int{5}, 5},
		{"OddCount", []int{1, 3, 2, 4, 5}, 3},
		{"EvenCount", []int{1, 2, 3, 4}, 2.5},
		{"Unsorted", []int{10, 2, 8, 4, 6}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.expected {
				t.Errorf("Median() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMedianDoesNotMutate(t *testing.T) {
	values := []int{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Expected input untouched, got %v", values)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		part, whole int
		expected    float64
	}{
		{"ZeroWhole", 3, 0, 0},
		{"FourteenOfFifteen", 14, 15, 93.33},
		{"TwoThirds", 2, 3, 66.67},
		{"Full", 10, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.part, tt.whole); got != tt.expected {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.expected)
			}
		})
	}
}

func TestMeanAndRound(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Expected 0 for empty mean, got %v", got)
	}
	if got := Round2(Mean([]int{1, 2, 2})); got != 1.67 {
		t.Errorf("Expected 1.67, got %v", got)
	}
}
