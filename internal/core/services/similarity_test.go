package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "opposite", a: []float32{1, 2, 3}, b: []float32{-1, -2, -3}, want: -1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "scaled", a: []float32{1, 1}, b: []float32{5, 5}, want: 1},
		{name: "mismatched length", a: []float32{1, 2, 3}, b: []float32{1, 2}, want: 0},
		{name: "empty", a: []float32{}, b: []float32{}, want: 0},
		{name: "nil", a: nil, b: []float32{1}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "NaN component", a: []float32{1, 0, 0}, b: []float32{float32(math.NaN()), 1, 0}, want: 0},
		{name: "Inf component", a: []float32{1, 0, 0}, b: []float32{float32(math.Inf(1)), 1, 0}, want: 0},
		{name: "negative Inf component", a: []float32{float32(math.Inf(-1)), 0}, b: []float32{1, 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineSimilarity_Bounded(t *testing.T) {
	vectors := [][]float32{
		{0.3, -0.7, 0.1, 0.9},
		{-0.2, 0.4, 0.8, -0.1},
		{1000, 0.001, -500, 3},
		{0, 0, 0, 1},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			assert.False(t, math.IsNaN(sim))
			assert.LessOrEqual(t, sim, 1.0+1e-9)
			assert.GreaterOrEqual(t, sim, -1.0-1e-9)
		}
	}
}
