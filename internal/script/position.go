package script

import (
	"github.com/coreman2200/stripscript/internal/color"
)

// Overflow decides what happens to indices past the end of a strip.
type Overflow int

const (
	Allow Overflow = iota
	Clip
	Wrap
)

func (o Overflow) String() string {
	switch o {
	case Clip:
		return "clip"
	case Wrap:
		return "wrap"
	}
	return "allow"
}

// flag is a boolean that remembers whether it was given.
type flag struct {
	set, on bool
}

func (f flag) or(def bool) bool {
	if f.set {
		return f.on
	}
	return def
}

type positionProps struct {
	offset, length, gap, strip, reverse Value

	clip, wrap, center, cover, flow, absolute flag

	unit Unit
	op   color.Op
}

// defaultProps is shared by every position without fields of its own. It is
// never written.
var defaultProps = &positionProps{unit: UnitInherit, op: color.Inherit}

var positionFlags = []string{"clip", "wrap", "center", "cover", "flow", "absolute"}

func (p *positionProps) flag(name string) *flag {
	switch name {
	case "clip":
		return &p.clip
	case "wrap":
		return &p.wrap
	case "center":
		return &p.center
	case "cover":
		return &p.cover
	case "flow":
		return &p.flow
	}
	return &p.absolute
}

// Position is the layout of an element. Its value backed fields are resolved
// once per step by Evaluate.
type Position struct {
	parent *Position
	props  *positionProps

	offset, length, gap UnitValue
	strip               int
	reverse             bool
}

func NewPosition() *Position {
	return &Position{props: defaultProps}
}

// newRootPosition lays out the physical strip: percent units, wrapped, with
// writes replacing what is there.
func newRootPosition() *Position {
	return &Position{props: &positionProps{
		unit: UnitPercent,
		wrap: flag{true, true},
		op:   color.Replace,
	}}
}

var positionValueFields = []string{"offset", "length", "gap", "strip", "reverse"}

func positionField(obj map[string]any) bool {
	for _, k := range positionValueFields {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	for _, k := range positionFlags {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	_, unit := obj["unit"]
	_, op := obj["op"]
	return unit || op
}

// FromJSON reads the position fields of an element document.
func (p *Position) FromJSON(obj map[string]any) {
	if !positionField(obj) {
		p.props = defaultProps
		return
	}
	props := &positionProps{unit: UnitInherit, op: color.Inherit}
	value := func(name string) Value {
		if v, ok := obj[name]; ok {
			return ParseValueIn(v, obj)
		}
		return nil
	}
	props.offset = value("offset")
	props.length = value("length")
	props.gap = value("gap")
	props.strip = value("strip")
	props.reverse = value("reverse")
	for _, name := range positionFlags {
		if v, ok := obj[name]; ok {
			*props.flag(name) = flag{true, jsonBool(v)}
		}
	}
	if s, ok := obj["unit"].(string); ok {
		if u, ok := ParseUnit(s); ok {
			props.unit = u
		}
	}
	if s, ok := obj["op"].(string); ok {
		props.op = color.ParseOp(s)
	}
	p.props = props
}

// JSON writes the fields that were given.
func (p *Position) JSON(obj map[string]any) {
	props := p.props
	if props == defaultProps {
		return
	}
	set := func(name string, v Value) {
		if v != nil {
			obj[name] = v.JSON()
		}
	}
	set("offset", props.offset)
	set("length", props.length)
	set("gap", props.gap)
	set("strip", props.strip)
	set("reverse", props.reverse)
	for _, name := range positionFlags {
		if f := props.flag(name); f.set {
			obj[name] = f.on
		}
	}
	if props.unit != UnitInherit {
		obj["unit"] = props.unit.String()
	}
	if props.op != color.Inherit {
		obj["op"] = props.op.String()
	}
}

func (p *Position) SetParent(parent *Position) {
	if parent != p {
		p.parent = parent
	}
}

func (p *Position) Parent() *Position { return p.parent }

// Evaluate resolves the value backed fields.
func (p *Position) Evaluate(ctx Context) {
	props := p.props
	p.offset = unitOf(props.offset, ctx, 0)
	p.length = unitOf(props.length, ctx, 100)
	p.gap = unitOf(props.gap, ctx, 0)
	p.strip = 0
	if props.strip != nil {
		p.strip = props.strip.Int(ctx, 0)
	}
	p.reverse = false
	if props.reverse != nil {
		p.reverse = props.reverse.Bool(ctx, false)
	}
}

func unitOf(v Value, ctx Context, def float64) UnitValue {
	if v == nil {
		return UnitValue{def, UnitInherit}
	}
	return v.Unit(ctx, def, UnitInherit)
}

func (p *Position) HasOffset() bool   { return p.props.offset != nil }
func (p *Position) HasLength() bool   { return p.props.length != nil }
func (p *Position) HasStrip() bool    { return p.props.strip != nil }
func (p *Position) Offset() UnitValue { return p.offset }
func (p *Position) Length() UnitValue { return p.length }
func (p *Position) Gap() UnitValue    { return p.gap }
func (p *Position) Strip() int        { return p.strip }
func (p *Position) Reverse() bool     { return p.reverse }
func (p *Position) Center() bool      { return p.props.center.on }
func (p *Position) Cover() bool       { return p.props.cover.on }
func (p *Position) Absolute() bool    { return p.props.absolute.on }

// Flow defaults to on unless the element is centred or covers its parent.
func (p *Position) Flow() bool {
	return p.props.flow.or(!p.Center() && !p.Cover())
}

// IsFlow reports whether the element takes its place after the previous
// flowing sibling.
func (p *Position) IsFlow() bool {
	return p.Flow() && !p.HasStrip() && !p.Absolute() && !p.Cover() &&
		(p.HasOffset() || p.HasLength())
}

// Overflow is wrap when asked for, otherwise clip unless clipping is turned
// off or the element covers its parent.
func (p *Position) Overflow() Overflow {
	props := p.props
	switch {
	case props.wrap.on:
		return Wrap
	case props.clip.set:
		if props.clip.on {
			return Clip
		}
		return Allow
	case props.cover.on:
		return Allow
	}
	return Clip
}

// Unit is the first unit given walking up the parents.
func (p *Position) Unit() Unit {
	for q := p; q != nil; q = q.parent {
		if q.props.unit != UnitInherit {
			return q.props.unit
		}
	}
	return UnitInherit
}

// Op is the first op given walking up the parents.
func (p *Position) Op() color.Op {
	for q := p; q != nil; q = q.parent {
		if q.props.op.Resolved() {
			return q.props.op
		}
	}
	return color.Inherit
}

func jsonBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}
