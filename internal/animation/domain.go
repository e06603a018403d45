package animation

import "math"

// State is the run state of a domain.
type State int

const (
	Running State = iota
	Paused
	Complete
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	}
	return "running"
}

// Domain is the progress source of an animation.
type Domain interface {
	Min() float64
	Max() float64
	Value() float64
	State() State
}

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Percent is how far the domain value lies between min and max.
func Percent(d Domain) float64 {
	min, max, v := d.Min(), d.Max(), d.Value()
	if min == max || min == v {
		return 0
	}
	return clamp01((v - min) / (max - min))
}

// Distance counts the positions in the domain, inclusive of both ends.
func Distance(d Domain) float64 {
	return math.Abs(d.Max()-d.Min()) + 1
}

// Span is a position domain set directly by its owner.
type Span struct {
	Lo, Hi, Pos float64
}

// Set moves the span.
func (s *Span) Set(pos, min, max float64) {
	s.Pos, s.Lo, s.Hi = pos, min, max
}

func (s *Span) Min() float64   { return s.Lo }
func (s *Span) Max() float64   { return s.Hi }
func (s *Span) Value() float64 { return s.Pos }
func (s *Span) State() State   { return Running }

// TimeDomain runs from min to max in wall-clock msecs, repeating after an
// optional delay until its repeat limit is reached.
type TimeDomain struct {
	start    float64
	min, max float64
	pos      float64
	duration float64
	placed   bool
	state    State
	repeats  int
	lastStep int
}

// NewTimeDomain starts a domain at now.
func NewTimeDomain(now float64) *TimeDomain {
	return &TimeDomain{start: now, min: now, max: now, pos: now, lastStep: -1}
}

func (d *TimeDomain) Min() float64   { return d.min }
func (d *TimeDomain) Max() float64   { return d.max }
func (d *TimeDomain) Value() float64 { return d.pos }
func (d *TimeDomain) State() State   { return d.state }

// Repeats is the number of completed runs.
func (d *TimeDomain) Repeats() int { return d.repeats }

// Duration is the length of one run in msecs.
func (d *TimeDomain) Duration() float64 { return d.duration }

// SetDuration changes the run length. The first call places the window at the
// start time and advances it by whole durations until it covers the current
// position.
func (d *TimeDomain) SetDuration(msecs float64) {
	d.duration = msecs
	if d.placed {
		return
	}
	d.placed = true
	d.min = d.start
	d.max = d.start + msecs
	if msecs <= 0 {
		return
	}
	for d.max < d.pos {
		d.min += msecs
		d.max += msecs
	}
}

// Update advances the domain to now. It runs at most once per step number.
// A repeatLimit <= 0 repeats forever; delay pauses between runs.
func (d *TimeDomain) Update(now float64, step, repeatLimit int, delay float64) {
	d.pos = now
	if d.state == Complete || step == d.lastStep {
		return
	}
	d.lastStep = step
	if d.state == Paused {
		if d.pos < d.min {
			return
		}
		d.state = Running
	}
	if d.pos <= d.max {
		return
	}
	d.repeats++
	if repeatLimit > 0 && d.repeats >= repeatLimit {
		d.state = Complete
		return
	}
	d.min = d.pos + delay
	d.max = d.min + d.duration
	if d.pos < d.min {
		d.state = Paused
	}
}

// SpeedDuration is the msecs needed to cover distance at speed steps per second.
func SpeedDuration(distance, speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return 1000 * distance / speed
}
