package animation

// Segment is a stretch of pattern progress between two elements. End is -1
// when the segment holds a single element.
type Segment struct {
	Start, End int
	From, To   float64
}

// Fraction is how far pct lies through the segment.
func (s Segment) Fraction(pct float64) float64 {
	if s.To == s.From {
		return 0
	}
	return (pct - s.From) / (s.To - s.From)
}

func total(counts []int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// SmoothSegments splits progress between neighbouring elements. Each boundary
// sits halfway into the next element's pixels.
func SmoothSegments(counts []int) []Segment {
	n := len(counts)
	switch {
	case n == 0:
		return nil
	case n == 1:
		return []Segment{{Start: 0, End: -1, From: 0, To: 1}}
	case n == 2:
		return []Segment{{Start: 0, End: 1, From: 0, To: 1}}
	}
	sum := float64(total(counts))
	segs := make([]Segment, n-1)
	offset := 0.0
	from := 0.0
	for i := 0; i < n-1; i++ {
		s := Segment{Start: i, End: i + 1, From: from, To: 1}
		if i+2 < n && sum > 0 {
			s.To = (offset + float64(counts[i]) + float64(counts[i+1])/2) / sum
		}
		offset += float64(counts[i])
		from = s.To
		segs[i] = s
	}
	return segs
}

// FindSmooth picks the segment containing pct.
func FindSmooth(segs []Segment, pct float64) (Segment, bool) {
	if len(segs) == 0 {
		return Segment{}, false
	}
	if pct <= 0 || len(segs) == 1 {
		return segs[0], true
	}
	if pct >= 1 {
		return segs[len(segs)-1], true
	}
	return find(segs, pct)
}

// StepSegments gives each element its own share of progress in proportion to
// its pixel count.
func StepSegments(counts []int) []Segment {
	sum := float64(total(counts))
	segs := make([]Segment, len(counts))
	offset := 0.0
	for i, c := range counts {
		s := Segment{Start: i, End: i}
		if sum > 0 {
			s.From = offset / sum
			s.To = (offset + float64(c)) / sum
		}
		offset += float64(c)
		segs[i] = s
	}
	return segs
}

// FindStep picks the element owning pct.
func FindStep(segs []Segment, pct float64) (Segment, bool) {
	if len(segs) == 0 {
		return Segment{}, false
	}
	if pct <= 0 {
		return segs[0], true
	}
	if pct >= 1 {
		return segs[len(segs)-1], true
	}
	return find(segs, pct)
}

func find(segs []Segment, pct float64) (Segment, bool) {
	for _, s := range segs {
		if s.From <= pct && s.To > pct {
			return s, true
		}
	}
	return Segment{}, false
}

// Lerp blends from a to b by f.
func Lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
