package schema

import "sort"

// Clamp01 clamps v to the closed interval [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampRange clamps v to the closed interval [low, high].
func ClampRange(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// SortedDays returns the day keys of an observed retention map in
// ascending order.
func (o ObservedRetention) SortedDays() []int {
	days := make([]int, 0, len(o))
	for d := range o {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// At returns the retention value observed at day together with whether the
// day is covered. Day 0 is implicitly 1.0 when absent.
func (o ObservedRetention) At(day int) (float64, bool) {
	if v, ok := o[day]; ok {
		return v, true
	}
	if day == 0 {
		return 1.0, true
	}
	return 0, false
}

// NearestDay returns the observed day closest to target, preferring the
// earlier day on ties. Day 0 always counts as observed, so an empty map
// resolves to day 0.
func (o ObservedRetention) NearestDay(target int) int {
	best := 0 // implicit day 0
	bestDist := target
	if bestDist < 0 {
		bestDist = -bestDist
	}
	for _, d := range o.SortedDays() {
		dist := d - target
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best
}

// Points expands the map into sorted curve points, including the implicit
// day-zero anchor when absent.
func (o ObservedRetention) Points() []CurvePoint {
	days := o.SortedDays()
	points := make([]CurvePoint, 0, len(days)+1)
	if _, ok := o[0]; !ok {
		points = append(points, CurvePoint{Day: 0, Value: 1.0})
	}
	for _, d := range days {
		points = append(points, CurvePoint{Day: d, Value: Clamp01(o[d])})
	}
	return points
}
