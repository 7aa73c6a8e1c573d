package core

import (
	"math"

	"github.com/gamelens/foresight/schema"
)

// Fitting guards. Retention values hit zero in real exports, and log-space
// regression cannot take ln(0), so observations are floored before fitting.
const (
	minFitValue = 1e-6

	// defaultDecay is the per-day decay assumed when a curve has too few
	// distinct days to regress over.
	defaultDecay = 0.85
)

// logLinearFit fits value(d) = base * decay^d to weighted (day, value)
// points by least squares in log space. Retention decays geometrically, so
// the fit is linear over ln(value). Weights must parallel points; a weight
// of zero drops the point.
//
// The returned decay is clamped to (0, 1] so fitted curves never increase,
// and base is clamped to (0, 1].
func logLinearFit(points []schema.CurvePoint, weights []float64) (base, decay float64) {
	var sw, swx, swy, swxx, swxy float64
	for i, p := range points {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		if w <= 0 {
			continue
		}
		x := float64(p.Day)
		y := math.Log(math.Max(p.Value, minFitValue))
		sw += w
		swx += w * x
		swy += w * y
		swxx += w * x * x
		swxy += w * x * y
	}

	if sw == 0 {
		return 1.0, defaultDecay
	}

	denom := sw*swxx - swx*swx
	if math.Abs(denom) < 1e-12 {
		// Single distinct day: anchor the curve at that point and assume
		// the default decay.
		anchor := math.Exp(swy / sw)
		x := swx / sw
		base = anchor / math.Pow(defaultDecay, x)
		return clampBase(base), defaultDecay
	}

	slope := (sw*swxy - swx*swy) / denom
	intercept := (swy - slope*swx) / sw

	decay = math.Exp(slope)
	if decay > 1.0 {
		// Noisy observations can fit an increasing curve; retention only
		// goes down.
		decay = 1.0
	}
	if decay < minFitValue {
		decay = minFitValue
	}
	return clampBase(math.Exp(intercept)), decay
}

// clampBase keeps the fitted day-zero retention inside (0, 1].
func clampBase(base float64) float64 {
	if base > 1.0 {
		return 1.0
	}
	if base < minFitValue {
		return minFitValue
	}
	return base
}

// evalDecayCurve evaluates a fitted geometric curve at day d, clamped to [0,1].
func evalDecayCurve(base, decay float64, day int) float64 {
	return schema.Clamp01(base * math.Pow(decay, float64(day)))
}

// tailDecayRate derives the per-day decay from the last two points of a
// curve, used to extend the curve beyond its coverage. Falls back to the
// default decay for curves with fewer than two points.
func tailDecayRate(points []schema.CurvePoint) float64 {
	if len(points) < 2 {
		return defaultDecay
	}
	prev, last := points[len(points)-2], points[len(points)-1]
	if prev.Value <= 0 || last.Day <= prev.Day {
		return defaultDecay
	}
	ratio := math.Max(last.Value, minFitValue) / prev.Value
	rate := math.Pow(ratio, 1.0/float64(last.Day-prev.Day))
	if rate > 1.0 {
		return 1.0
	}
	if rate < minFitValue {
		return minFitValue
	}
	return rate
}

// interpolateCurve returns the retention at day for a sorted curve,
// interpolating linearly between known points and extending the tail decay
// rate beyond the last point.
func interpolateCurve(points []schema.CurvePoint, day int) float64 {
	if len(points) == 0 {
		return 0
	}
	first := points[0]
	if day <= first.Day {
		return schema.Clamp01(first.Value)
	}
	for i := 1; i < len(points); i++ {
		p := points[i]
		if day == p.Day {
			return schema.Clamp01(p.Value)
		}
		if day < p.Day {
			prev := points[i-1]
			span := float64(p.Day - prev.Day)
			frac := float64(day-prev.Day) / span
			return schema.Clamp01(prev.Value + frac*(p.Value-prev.Value))
		}
	}
	last := points[len(points)-1]
	rate := tailDecayRate(points)
	return schema.Clamp01(last.Value * math.Pow(rate, float64(day-last.Day)))
}

// linearFit fits y = intercept + slope*x to points indexed 0..n-1 by
// ordinary least squares.
func linearFit(values []float64) (intercept, slope float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return values[0], 0
	}

	var sx, sy, sxx, sxy float64
	for i, y := range values {
		x := float64(i)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	denom := n*sxx - sx*sx
	if math.Abs(denom) < 1e-12 {
		return sy / n, 0
	}
	slope = (n*sxy - sx*sy) / denom
	intercept = (sy - slope*sx) / n
	return intercept, slope
}
