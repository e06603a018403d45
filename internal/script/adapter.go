package script

import (
	"github.com/coreman2200/stripscript/internal/color"
	"github.com/coreman2200/stripscript/internal/strip"
)

type adapterKind int

const (
	plainAdapter adapterKind = iota
	mirrorAdapter
	copyAdapter
	repeatAdapter
	rootAdapter
)

// Adapter maps an element's local LED indices into its parent's space. The
// chain ends at a root adapter that writes the physical HSL strip.
type Adapter struct {
	kind     adapterKind
	parent   *Adapter
	base     *strip.HSLStrip
	env      *Env
	position *Position

	parentLength int
	length       int
	offset       int // relative to relOffset
	relOffset    int // relative to the parent
	flowIndex    int
	reverse      bool
	unit         Unit
	overflow     Overflow

	count        int // copy
	repeatOffset int
	repeatLength int // repeat
}

func newAdapter(kind adapterKind) *Adapter {
	return &Adapter{kind: kind, overflow: Clip, unit: UnitInherit}
}

// NewRootAdapter wraps the physical strip.
func NewRootAdapter(base *strip.HSLStrip, env *Env) *Adapter {
	a := &Adapter{kind: rootAdapter, overflow: Wrap, unit: UnitInherit, env: env}
	a.SetBase(base)
	return a
}

// SetBase rebinds a root adapter to a physical strip.
func (a *Adapter) SetBase(base *strip.HSLStrip) {
	a.base = base
	a.offset = 0
	a.length = 0
	if base != nil {
		a.length = base.Count()
	}
	a.parentLength = a.length
}

func (a *Adapter) Length() int         { return a.length }
func (a *Adapter) Offset() int         { return a.offset }
func (a *Adapter) RelativeOffset() int { return a.relOffset }
func (a *Adapter) Parent() *Adapter    { return a.parent }
func (a *Adapter) FlowIndex() int      { return a.flowIndex }
func (a *Adapter) Overflow() Overflow  { return a.overflow }

func (a *Adapter) SetParent(p *Adapter) {
	if p != a {
		a.parent = p
	}
}

// SetFlowIndex moves the cursor where the next flowing child starts, adding
// this adapter's gap.
func (a *Adapter) SetFlowIndex(index int) {
	gap := 0
	if a.position != nil {
		gap = a.UnitToPixel(a.position.Gap(), -1)
	}
	a.flowIndex = index + gap
	if a.position != nil && !a.position.HasLength() && a.position.IsFlow() && a.parent != nil {
		a.parent.SetFlowIndex(a.flowIndex + a.offset)
	}
}

// PixelsPerMeter walks to the root, which answers for the pin at index
// stripIndex or for the whole strip when it is negative.
func (a *Adapter) PixelsPerMeter(stripIndex int) int {
	if a.kind != rootAdapter {
		if a.parent != nil {
			return a.parent.PixelsPerMeter(stripIndex)
		}
		return strip.DefaultPixelsPerMeter
	}
	if a.env != nil && stripIndex >= 0 && stripIndex < len(a.env.Pins) {
		if ppm := a.env.Pins[stripIndex].PixelsPerMeter; ppm > 0 {
			return ppm
		}
	}
	if a.base != nil {
		if ppm := a.base.PixelsPerMeter(); ppm > 0 {
			return ppm
		}
	}
	return strip.DefaultPixelsPerMeter
}

// UnitToPixel converts a measure to pixels of this adapter's parent.
func (a *Adapter) UnitToPixel(uv UnitValue, stripIndex int) int {
	val := uv.Value
	unit := uv.Unit
	if unit == UnitInherit {
		unit = a.unit
		if unit == UnitInherit && a.position != nil {
			unit = a.position.Unit()
		}
	}
	mult := 0.0
	switch unit {
	case UnitPixel:
	case UnitInch:
		mult = 1 / 39.31
	case UnitCentimeter:
		mult = 1 / 100.0
	case UnitMeter:
		mult = 1
	default:
		val = val / 100 * float64(a.parentLength)
	}
	if mult != 0 {
		val = val * mult * float64(a.PixelsPerMeter(stripIndex))
	}
	return int(val)
}

func (a *Adapter) parentLen() int {
	if a.parent == nil {
		return 0
	}
	if a.kind == mirrorAdapter {
		return a.parent.length / 2
	}
	return a.parent.length
}

// UpdatePosition lays the adapter out within its parent for this step.
func (a *Adapter) UpdatePosition(pos *Position, ctx Context) {
	if a.kind == rootAdapter {
		a.updateRoot(pos)
		return
	}
	a.reverse = pos.Reverse()
	a.position = pos
	a.relOffset = 0
	a.flowIndex = 0
	a.unit = pos.Unit()
	if a.env == nil {
		a.env = ctx.Env()
	}
	if pos.Absolute() {
		a.SetParent(ctx.RootStrip())
	}
	if a.parent == nil {
		a.length = 0
		return
	}
	a.parentLength = a.parentLen()
	rel := 0
	stripIndex := -1
	if pos.HasStrip() {
		stripIndex = pos.Strip()
		pins := a.env.Pins
		if stripIndex < 0 || stripIndex >= len(pins) {
			a.length = 0
			return
		}
		a.parentLength = pins[stripIndex].LEDCount
		for i := 0; i < stripIndex; i++ {
			rel += pins[i].LEDCount
		}
	}
	if pos.Cover() {
		a.offset = 0
		a.length = a.parentLength
	} else {
		if pos.HasLength() {
			a.length = a.UnitToPixel(pos.Length(), stripIndex)
		} else {
			a.length = a.parentLength - a.parent.flowIndex
		}
		a.offset = 0
		if pos.HasOffset() {
			a.offset = a.UnitToPixel(pos.Offset(), stripIndex)
		}
		if pos.Center() {
			rel += (a.parentLength - a.length) / 2
		} else if pos.IsFlow() {
			rel += a.parent.flowIndex
		}
	}
	a.relOffset = rel
	a.overflow = pos.Overflow()
	if pos.IsFlow() {
		a.parent.SetFlowIndex(a.offset + a.relOffset + a.length)
	}
}

func (a *Adapter) updateRoot(pos *Position) {
	a.position = pos
	a.flowIndex = 0
	a.parentLength = 0
	if a.base != nil {
		a.parentLength = a.base.Count()
	}
	a.unit = pos.Unit()
	a.length = a.parentLength
	if pos.HasLength() {
		a.length = a.UnitToPixel(pos.Length(), -1)
	}
	a.offset = 0
	if pos.HasOffset() {
		a.offset = a.UnitToPixel(pos.Offset(), -1)
	}
	a.reverse = pos.Reverse()
	a.overflow = pos.Overflow()
}

// setCount splits a copy adapter's parent into count sections.
func (a *Adapter) setCount(count int) {
	a.count = count
	if count <= 0 {
		a.count = 0
		a.length = 0
		a.repeatOffset = 0
		return
	}
	a.length = a.parentLength / count
	a.repeatOffset = a.length
	a.overflow = Allow
}

func (a *Adapter) setRepeatLength(length int) { a.repeatLength = length }

func (a *Adapter) valid(index int) bool {
	if a.kind == rootAdapter {
		return a.base != nil && a.length > 0
	}
	if a.parent == nil {
		return false
	}
	if a.overflow != Clip {
		return true
	}
	return index >= 0 && index < a.length
}

func (a *Adapter) translate(index int) int {
	if a.reverse {
		index = a.length - index - 1
	}
	index += a.offset
	switch a.overflow {
	case Wrap:
		if a.length > 0 {
			index %= a.length
			if index < 0 {
				index += a.length
			}
		}
	case Clip:
		if index < a.offset {
			index = a.offset
		}
		if index >= a.offset+a.length {
			index = a.offset + a.length - 1
		}
	}
	return index + a.relOffset
}

// translateOp resolves an unresolved op at the root only. Every other adapter
// passes it through.
func (a *Adapter) translateOp(op color.Op) color.Op {
	if a.kind != rootAdapter || op.Resolved() {
		return op
	}
	if a.position != nil {
		if o := a.position.Op(); o.Resolved() {
			return o
		}
		return color.Replace
	}
	return color.Add
}

type channel int

const (
	hueChannel channel = iota
	saturationChannel
	lightnessChannel
	rgbChannel
)

type write struct {
	ch  channel
	val int
	rgb color.RGB
}

func (a *Adapter) SetHue(hue, index int, op color.Op) {
	a.put(write{ch: hueChannel, val: hue}, index, op)
}

func (a *Adapter) SetSaturation(saturation, index int, op color.Op) {
	a.put(write{ch: saturationChannel, val: saturation}, index, op)
}

func (a *Adapter) SetLightness(lightness, index int, op color.Op) {
	a.put(write{ch: lightnessChannel, val: lightness}, index, op)
}

func (a *Adapter) SetRGB(c color.RGB, index int, op color.Op) {
	a.put(write{ch: rgbChannel, rgb: c}, index, op)
}

func (a *Adapter) put(w write, index int, op color.Op) {
	if !a.valid(index) {
		return
	}
	t := a.translate(index)
	top := a.translateOp(op)
	switch a.kind {
	case rootAdapter:
		a.store(w, t, top)
	case mirrorAdapter:
		a.parent.put(w, t, op)
		a.parent.put(w, a.parent.length-(t-a.offset-a.relOffset), top)
	case copyAdapter:
		for k := 0; k < a.count; k++ {
			a.parent.put(w, t+k*a.repeatOffset, top)
		}
	case repeatAdapter:
		if a.repeatLength <= 0 {
			if t < a.length {
				a.parent.put(w, t, top)
			}
			return
		}
		n := a.parentLength / a.repeatLength
		for k := 0; k <= n; k++ {
			i := t + k*a.repeatLength
			if i >= a.length {
				break
			}
			a.parent.put(w, i, top)
		}
	default:
		a.parent.put(w, t, top)
	}
}

func (a *Adapter) store(w write, index int, op color.Op) {
	switch w.ch {
	case hueChannel:
		a.base.SetHue(index, w.val, op)
	case saturationChannel:
		a.base.SetSaturation(index, w.val, op)
	case lightnessChannel:
		a.base.SetLightness(index, w.val, op)
	case rgbChannel:
		a.base.SetRGB(index, w.rgb, op)
	}
}
