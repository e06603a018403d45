package script

import (
	"math"
	"strconv"
	"strings"

	"github.com/coreman2200/stripscript/internal/animation"
)

// patternOptions are the element keys a pattern array takes its settings
// from.
var patternOptions = []string{
	"unfold", "repeat", "smooth", "duration", "speed", "delay",
	"ease", "ease-in", "ease-out", "unit",
}

// patternElement is one entry of a pattern with the number of pixels it
// spans.
type patternElement struct {
	value Value
	count Value
	unit  Unit
}

func parsePatternElement(v any) *patternElement {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t["value"]; ok {
			e := &patternElement{value: ParseValue(raw), count: Number(1), unit: UnitPixel}
			if c, ok := t["count"]; ok {
				e.count = ParseValue(c)
			}
			if s, ok := t["unit"].(string); ok {
				if u, ok := ParseUnit(s); ok {
					e.unit = u
				}
			}
			return e
		}
		return &patternElement{value: ParseValue(t), count: Number(1), unit: UnitUnset}
	case string:
		text := strings.TrimSpace(t)
		if i := strings.LastIndex(text, "x"); i > 0 && !isVariableText(text) {
			suffix := text[i+1:]
			if _, _, ok := leadingNumber(suffix); ok {
				val := text[:i]
				return &patternElement{
					value: ParseValue(val),
					count: String(suffix),
					unit:  ParseUnitValue(val, 0, UnitUnset).Unit,
				}
			}
		}
		return &patternElement{value: ParseValue(text), unit: ParseUnitValue(text, 0, UnitUnset).Unit}
	}
	return &patternElement{value: ParseValue(v), unit: UnitUnset}
}

// pixels is the element's share of the pattern. Percent counts are taken of
// the position domain.
func (e *patternElement) pixels(ctx Context) int {
	if e.count == nil {
		return 1
	}
	uv := e.count.Unit(ctx, 1, UnitInherit)
	if uv.Unit == UnitInherit {
		if el := ctx.Element(); el != nil && el.Position() != nil {
			uv.Unit = el.Position().Unit()
		}
	}
	n := int(uv.Value)
	if uv.Unit == UnitPercent {
		n = int(math.Round(animation.Distance(ctx.PositionDomain()) * uv.Value / 100))
	}
	if n < 0 {
		return 0
	}
	return n
}

// Pattern animates through its elements, either across the LEDs of the
// element drawing it or over time when a duration or speed is given.
type Pattern struct {
	src  any
	opts map[string]any

	elements []*patternElement
	smooth   bool
	unfold   bool
	repeat   Value
	repeats  bool

	duration, speed, delay Value
	ease, easeIn, easeOut  Value
	named                  animation.Ease

	rng      *animation.Range
	animator *animation.Animator
	td       *animation.TimeDomain
	lastPct  float64

	counts  []int
	segs    []animation.Segment
	segStep int
}

// newPattern builds a pattern over list. Options are read from opt; src is
// kept for the document form.
func newPattern(src any, list []any, opt map[string]any, repeatDef, smoothDef bool) *Pattern {
	p := &Pattern{
		src:      src,
		rng:      animation.NewRange(0, 1, false),
		animator: animation.NewAnimator(),
		segStep:  -1,
		smooth:   smoothDef,
		repeats:  repeatDef,
	}
	for _, item := range list {
		p.elements = append(p.elements, parsePatternElement(item))
	}
	option := func(name string) Value {
		if v, ok := opt[name]; ok && v != nil {
			return ParseValue(v)
		}
		return nil
	}
	if v, ok := opt["smooth"]; ok {
		p.smooth = jsonBool(v)
	}
	if v, ok := opt["unfold"]; ok {
		p.unfold = jsonBool(v)
	}
	if p.repeat = option("repeat"); p.repeat != nil {
		p.repeats = true
		if b, ok := p.repeat.(Bool); ok {
			p.repeats = bool(b)
		}
	}
	p.duration = option("duration")
	p.speed = option("speed")
	p.delay = option("delay")
	p.ease = option("ease")
	p.easeIn = option("ease-in")
	p.easeOut = option("ease-out")
	if s, ok := p.ease.(String); ok {
		p.named, _ = animation.Named(string(s))
	}
	return p
}

func (p *Pattern) timed() bool { return p.duration != nil || p.speed != nil }

func (p *Pattern) easing(ctx Context) animation.Ease {
	if p.named != nil {
		return p.named
	}
	in, out := p.easeIn, p.easeOut
	if in == nil {
		in = p.ease
	}
	if out == nil {
		out = p.ease
	}
	if in == nil && out == nil {
		return nil
	}
	c := animation.Cubic{In: 1, Out: 0}
	if in != nil {
		c.In = in.Float(ctx, 1)
	}
	if out != nil {
		c.Out = out.Float(ctx, 0)
	}
	return c
}

// segments refreshes the pixel counts once per step and rebuilds the
// segments when they change.
func (p *Pattern) segments(ctx Context) ([]animation.Segment, int) {
	step := ctx.Step().Number
	if step == p.segStep && p.segs != nil {
		return p.segs, sum(p.counts)
	}
	p.segStep = step
	counts := make([]int, len(p.elements))
	for i, e := range p.elements {
		counts[i] = e.pixels(ctx)
	}
	if p.segs == nil || !sameInts(counts, p.counts) {
		p.counts = counts
		if p.smooth {
			p.segs = animation.SmoothSegments(counts)
		} else {
			p.segs = animation.StepSegments(counts)
		}
	}
	return p.segs, sum(p.counts)
}

func (p *Pattern) timeDomain(ctx Context, total int) animation.Domain {
	now := float64(ctx.Env().now())
	if p.td == nil {
		p.td = animation.NewTimeDomain(now)
	}
	duration := 0.0
	if p.duration != nil {
		duration = float64(p.duration.Msecs(ctx, 0))
	}
	if p.speed != nil {
		if speed := p.speed.Float(ctx, 0); speed > 0 {
			duration = animation.SpeedDuration(float64(total), speed)
		}
	}
	p.td.SetDuration(duration)
	limit := 0
	if p.repeat != nil {
		if _, ok := p.repeat.(Bool); !ok {
			limit = p.repeat.Int(ctx, -1)
		}
	}
	delay := 0.0
	if p.delay != nil {
		delay = float64(p.delay.Msecs(ctx, 0))
	}
	p.td.Update(now, ctx.Step().Number, limit, delay)
	return p.td
}

// percent is the progress through the pattern for the LED or time being
// drawn.
func (p *Pattern) percent(ctx Context, total int) float64 {
	var d animation.Domain = ctx.PositionDomain()
	timed := p.timed()
	if timed {
		d = p.timeDomain(ctx, total)
	}
	if animation.Held(d) {
		return p.lastPct
	}
	stretch := !p.repeats || timed
	prog := p.animator.Progress(d, p.easing(ctx), p.unfold && stretch)
	var pct float64
	if stretch {
		pct = p.rng.Stretch(prog, total)
	} else {
		p.rng.Low = 0
		p.rng.High = animation.Distance(ctx.PositionDomain())
		pct = p.rng.Repeat(prog, total, p.unfold)
	}
	p.lastPct = pct
	return pct
}

func (p *Pattern) Unit(ctx Context, def float64, defUnit Unit) UnitValue {
	if len(p.elements) == 0 {
		return UnitValue{def, defUnit}
	}
	unit := p.elements[0].unit
	if unit == UnitUnset {
		unit = defUnit
	}
	segs, total := p.segments(ctx)
	pct := p.percent(ctx, total)
	if p.smooth {
		seg, ok := animation.FindSmooth(segs, pct)
		if !ok {
			return UnitValue{def, defUnit}
		}
		start := p.elements[seg.Start].value.Unit(ctx, def, unit)
		if seg.End < 0 {
			return UnitValue{start.Value, unit}
		}
		end := p.elements[seg.End].value.Unit(ctx, def, unit)
		return UnitValue{animation.Lerp(start.Value, end.Value, seg.Fraction(pct)), unit}
	}
	seg, ok := animation.FindStep(segs, pct)
	if !ok {
		return UnitValue{def, defUnit}
	}
	return UnitValue{p.elements[seg.Start].value.Unit(ctx, def, unit).Value, unit}
}

func (p *Pattern) Float(ctx Context, def float64) float64 { return p.Unit(ctx, def, UnitUnset).Value }
func (p *Pattern) Int(ctx Context, def int) int           { return int(p.Float(ctx, float64(def))) }
func (p *Pattern) Msecs(ctx Context, def int) int         { return p.Int(ctx, def) }
func (p *Pattern) Bool(Context, bool) bool                { return len(p.elements) > 0 }
func (p *Pattern) Equals(Context, string) bool            { return false }
func (p *Pattern) Clone() Value                           { return ParseValueIn(p.src, p.opts) }
func (p *Pattern) Eval(Context) Value                     { return p.Clone() }
func (p *Pattern) JSON() any                              { return p.src }
func (p *Pattern) Kind() Kind                             { return KindPattern }

func (p *Pattern) String() string {
	return "pattern(" + strconv.Itoa(len(p.elements)) + ")"
}

func sum(ints []int) int {
	n := 0
	for _, i := range ints {
		n += i
	}
	return n
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
