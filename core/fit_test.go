package core

import (
	"math"
	"testing"

	"github.com/gamelens/foresight/schema"
	"github.com/stretchr/testify/assert"
)

// TestLogLinearFit verifies recovery of known geometric curves and the
// degenerate-input fallbacks.
func TestLogLinearFit(t *testing.T) {
	t.Run("recovers exact geometric curve", func(t *testing.T) {
		points := []schema.CurvePoint{
			{Day: 0, Value: 1.0},
			{Day: 1, Value: 0.8},
			{Day: 2, Value: 0.64},
			{Day: 3, Value: 0.512},
		}
		base, decay := logLinearFit(points, nil)
		assert.InDelta(t, 1.0, base, 0.001)
		assert.InDelta(t, 0.8, decay, 0.001)
	})

	t.Run("clamps increasing curve", func(t *testing.T) {
		points := []schema.CurvePoint{
			{Day: 1, Value: 0.2},
			{Day: 7, Value: 0.5},
		}
		_, decay := logLinearFit(points, nil)
		assert.Equal(t, 1.0, decay)
	})

	t.Run("single distinct day anchors with default decay", func(t *testing.T) {
		points := []schema.CurvePoint{{Day: 1, Value: 0.4}}
		base, decay := logLinearFit(points, nil)
		assert.Equal(t, defaultDecay, decay)
		assert.InDelta(t, 0.4, evalDecayCurve(base, decay, 1), 0.001)
	})

	t.Run("no points falls back entirely", func(t *testing.T) {
		base, decay := logLinearFit(nil, nil)
		assert.Equal(t, 1.0, base)
		assert.Equal(t, defaultDecay, decay)
	})

	t.Run("zero weights drop points", func(t *testing.T) {
		points := []schema.CurvePoint{
			{Day: 1, Value: 0.8},
			{Day: 2, Value: 0.64},
			{Day: 30, Value: 0.99},
		}
		base, decay := logLinearFit(points, []float64{1, 1, 0})
		assert.InDelta(t, 1.0, base, 0.001)
		assert.InDelta(t, 0.8, decay, 0.001)
	})

	t.Run("heavier weights dominate", func(t *testing.T) {
		points := []schema.CurvePoint{
			{Day: 1, Value: 0.8},
			{Day: 2, Value: 0.64},
			{Day: 1, Value: 0.5},
			{Day: 2, Value: 0.25},
		}
		_, light := logLinearFit(points, []float64{100, 100, 1, 1})
		_, heavy := logLinearFit(points, []float64{1, 1, 100, 100})
		assert.InDelta(t, 0.8, light, 0.01)
		assert.InDelta(t, 0.5, heavy, 0.01)
	})

	t.Run("zero values are floored not fatal", func(t *testing.T) {
		points := []schema.CurvePoint{
			{Day: 1, Value: 0.4},
			{Day: 7, Value: 0},
		}
		base, decay := logLinearFit(points, nil)
		assert.Greater(t, base, 0.0)
		assert.Greater(t, decay, 0.0)
		assert.LessOrEqual(t, decay, 1.0)
	})
}

func TestEvalDecayCurve(t *testing.T) {
	assert.Equal(t, 1.0, evalDecayCurve(1.0, 0.8, 0))
	assert.InDelta(t, 0.8, evalDecayCurve(1.0, 0.8, 1), 1e-9)
	assert.InDelta(t, math.Pow(0.8, 30), evalDecayCurve(1.0, 0.8, 30), 1e-9)

	// Values outside [0,1] clamp.
	assert.Equal(t, 1.0, evalDecayCurve(2.0, 1.0, 0))
}

func TestTailDecayRate(t *testing.T) {
	tests := []struct {
		name   string
		points []schema.CurvePoint
		want   float64
	}{
		{
			name: "derived from last pair",
			points: []schema.CurvePoint{
				{Day: 1, Value: 0.4},
				{Day: 7, Value: 0.2},
			},
			want: math.Pow(0.5, 1.0/6),
		},
		{
			name:   "single point uses default",
			points: []schema.CurvePoint{{Day: 7, Value: 0.2}},
			want:   defaultDecay,
		},
		{
			name: "flat tail caps at one",
			points: []schema.CurvePoint{
				{Day: 7, Value: 0.2},
				{Day: 14, Value: 0.2},
			},
			want: 1.0,
		},
		{
			name: "zero previous value uses default",
			points: []schema.CurvePoint{
				{Day: 7, Value: 0},
				{Day: 14, Value: 0.1},
			},
			want: defaultDecay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tailDecayRate(tt.points), 1e-9)
		})
	}
}

func TestInterpolateCurve(t *testing.T) {
	curve := []schema.CurvePoint{
		{Day: 0, Value: 1.0},
		{Day: 1, Value: 0.4},
		{Day: 7, Value: 0.2},
	}

	t.Run("exact days", func(t *testing.T) {
		assert.Equal(t, 1.0, interpolateCurve(curve, 0))
		assert.Equal(t, 0.4, interpolateCurve(curve, 1))
		assert.Equal(t, 0.2, interpolateCurve(curve, 7))
	})

	t.Run("linear between points", func(t *testing.T) {
		// Midway between day 1 (0.4) and day 7 (0.2).
		assert.InDelta(t, 0.3, interpolateCurve(curve, 4), 1e-9)
	})

	t.Run("tail extends geometrically", func(t *testing.T) {
		rate := tailDecayRate(curve)
		want := 0.2 * math.Pow(rate, 7)
		assert.InDelta(t, want, interpolateCurve(curve, 14), 1e-9)
		assert.Less(t, interpolateCurve(curve, 30), interpolateCurve(curve, 14))
	})

	t.Run("before first point clamps to it", func(t *testing.T) {
		noZero := []schema.CurvePoint{{Day: 3, Value: 0.25}, {Day: 7, Value: 0.2}}
		assert.Equal(t, 0.25, interpolateCurve(noZero, 1))
	})

	t.Run("empty curve is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, interpolateCurve(nil, 10))
	})
}

func TestLinearFit(t *testing.T) {
	t.Run("recovers exact line", func(t *testing.T) {
		intercept, slope := linearFit([]float64{10, 12, 14, 16, 18})
		assert.InDelta(t, 10.0, intercept, 1e-9)
		assert.InDelta(t, 2.0, slope, 1e-9)
	})

	t.Run("flat series has zero slope", func(t *testing.T) {
		intercept, slope := linearFit([]float64{5, 5, 5, 5})
		assert.InDelta(t, 5.0, intercept, 1e-9)
		assert.InDelta(t, 0.0, slope, 1e-9)
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		intercept, slope := linearFit(nil)
		assert.Equal(t, 0.0, intercept)
		assert.Equal(t, 0.0, slope)

		intercept, slope = linearFit([]float64{42})
		assert.Equal(t, 42.0, intercept)
		assert.Equal(t, 0.0, slope)
	})
}
