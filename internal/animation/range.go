package animation

import "math"

// Range maps progress in [0,1] onto [Low,High].
type Range struct {
	Low, High float64
	Unfold    bool

	last    float64
	lastPos float64
	lastLo  float64
	lastHi  float64
	cached  bool
}

// NewRange returns a range from low to high.
func NewRange(low, high float64, unfold bool) *Range {
	return &Range{Low: low, High: high, Unfold: unfold, last: low}
}

// Value is the range value at position p.
func (r *Range) Value(p float64) float64 {
	if r.cached && p == r.lastPos && r.Low == r.lastLo && r.High == r.lastHi {
		return r.last
	}
	v := r.Low + p*(r.High-r.Low)
	switch {
	case p <= 0 || r.High == r.Low:
		v = r.Low
	case p >= 1:
		v = r.High
	}
	r.lastPos, r.last, r.cached = p, v, true
	r.lastLo, r.lastHi = r.Low, r.High
	return v
}

// Last is the value most recently computed. Paused and complete animations
// hold on it.
func (r *Range) Last() float64 { return r.last }

// Distance counts the values in the range, inclusive of both ends.
func (r *Range) Distance() float64 { return math.Abs(r.High-r.Low) + 1 }

// Stretch spreads count pattern elements across the whole range and returns
// the pattern percent at p.
func (r *Range) Stretch(p float64, count int) float64 {
	if count < 2 {
		return 0
	}
	r.Low, r.High = 0, float64(count-1)
	return r.Value(p) / float64(count-1)
}

// Repeat maps p onto a one element per position walk through a pattern of
// count elements. With alternate the walk runs forward then backward.
func (r *Range) Repeat(p float64, count int, alternate bool) float64 {
	if count < 2 {
		return 0
	}
	v := int(math.Round(r.Value(p)))
	index := v % count
	if alternate {
		span := (count - 1) * 2
		index = v % span
		if index >= count-1 {
			index = span - index
		}
	}
	return float64(index) / float64(count)
}
