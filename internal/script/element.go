package script

import (
	"math"

	"github.com/coreman2200/stripscript/internal/animation"
	"github.com/coreman2200/stripscript/internal/color"
	"github.com/coreman2200/stripscript/internal/timer"
)

// Element is a node of the script tree.
type Element interface {
	Type() string
	// Position is nil for elements that do not draw.
	Position() *Position
	UpdatePosition(parent *Position, ctx Context)
	// UpdateStatus advances the element's timer.
	UpdateStatus(ctx Context) timer.Status
	Draw(ctx Context)
	JSON() map[string]any
}

type element struct {
	typ    string
	timer  *Timer
	status timer.Status
}

func newElement(typ string) element {
	return element{typ: typ, status: timer.Running}
}

func (e *element) Type() string { return e.typ }

func (e *element) UpdateStatus(ctx Context) timer.Status {
	if e.timer != nil {
		e.status = e.timer.Update(ctx)
	}
	return e.status
}

func (e *element) timerFromJSON(obj map[string]any) {
	if v, ok := obj["timer"]; ok {
		e.timer = ParseTimer(v)
	}
}

func (e *element) baseJSON() map[string]any {
	out := map[string]any{"type": e.typ}
	if e.timer != nil {
		out["timer"] = e.timer.JSON()
	}
	return out
}

// prop parses a property of obj, returning nil when it is absent.
func prop(obj map[string]any, name string) Value {
	v, ok := obj[name]
	if !ok {
		return nil
	}
	return ParseValueIn(v, obj)
}

// setProp writes v and any pattern options it took from its element.
func setProp(obj map[string]any, name string, v Value) {
	if v == nil {
		return
	}
	obj[name] = v.JSON()
	if p, ok := v.(*Pattern); ok {
		for k, o := range p.opts {
			obj[k] = o
		}
	}
}

func positionUpdate(pos *Position, parent *Position, ctx Context) {
	pos.SetParent(parent)
	pos.Evaluate(ctx)
}

// Values binds each of its properties into the drawing context.
type Values struct {
	element
	values valueList
}

func (v *Values) Position() *Position               { return nil }
func (v *Values) UpdatePosition(*Position, Context) {}

func (v *Values) Draw(ctx Context) {
	v.values.Each(func(name string, val Value) {
		ctx.SetValue(name, Reference{val})
	})
}

func (v *Values) fromJSON(obj map[string]any) {
	v.timerFromJSON(obj)
	for _, name := range sortedKeys(obj) {
		if name == "type" || name == "timer" {
			continue
		}
		v.values.Set(name, ParseValueIn(obj[name], obj))
	}
}

func (v *Values) JSON() map[string]any {
	out := v.baseJSON()
	v.values.Each(func(name string, val Value) {
		out[name] = val.JSON()
	})
	return out
}

// LED is the view of one LED handed to a leaf drawer.
type LED struct {
	strip *Adapter
	ctx   Context
	op    color.Op
	Index int
}

func (l *LED) Context() Context       { return l.ctx }
func (l *LED) SetHue(hue int)         { l.strip.SetHue(hue, l.Index, l.op) }
func (l *LED) SetSaturation(sat int)  { l.strip.SetSaturation(sat, l.Index, l.op) }
func (l *LED) SetLightness(light int) { l.strip.SetLightness(light, l.Index, l.op) }
func (l *LED) SetRGB(c color.RGB)     { l.strip.SetRGB(c, l.Index, l.op) }

// leaf is an element that draws LEDs through its own adapter.
type leaf struct {
	element
	pos   *Position
	strip *Adapter
}

func newLeaf(typ string) leaf {
	return leaf{element: newElement(typ), pos: NewPosition(), strip: newAdapter(plainAdapter)}
}

func (l *leaf) Position() *Position { return l.pos }

func (l *leaf) UpdatePosition(parent *Position, ctx Context) {
	positionUpdate(l.pos, parent, ctx)
}

// eachLED lays the leaf out in the context strip and calls draw for every LED
// with the position domain set to that LED.
func (l *leaf) eachLED(ctx Context, draw func(led *LED)) {
	l.pos.Evaluate(ctx)
	l.strip.SetParent(ctx.Strip())
	l.strip.UpdatePosition(l.pos, ctx)
	n := l.strip.Length()
	if n == 0 {
		return
	}
	sign := 1
	if n < 0 {
		n, sign = -n, -1
	}
	domain := ctx.PositionDomain()
	led := &LED{strip: l.strip, ctx: ctx, op: l.pos.Op()}
	for i := 0; i < n; i++ {
		domain.Set(float64(i), 0, float64(n-1))
		led.Index = i * sign
		draw(led)
	}
}

func (l *leaf) jsonWithPosition() map[string]any {
	out := l.baseJSON()
	l.pos.JSON(out)
	return out
}

// HSL draws hue, lightness and saturation values. A value evaluating to -1
// is skipped.
type HSL struct {
	leaf
	hue, saturation, lightness Value
	rainbow                    bool
	hueKey                     string
}

func (h *HSL) Draw(ctx Context) {
	h.eachLED(ctx, func(led *LED) {
		c := led.Context()
		if h.hue != nil {
			if hue := h.hue.Int(c, -1); hue != -1 {
				led.SetHue(h.adjustHue(hue))
			}
		}
		if h.lightness != nil {
			if l := h.lightness.Int(c, -1); l != -1 {
				led.SetLightness(l)
			}
		}
		if h.saturation != nil {
			if s := h.saturation.Int(c, -1); s != -1 {
				led.SetSaturation(s)
			}
		}
	})
}

// adjustHue spreads rainbow hues along the default cubic curve.
func (h *HSL) adjustHue(hue int) int {
	if !h.rainbow || hue < 0 {
		return hue
	}
	return int(math.Round(animation.DefaultCubic.Calc(float64(hue)/360) * 360))
}

func (h *HSL) fromJSON(obj map[string]any) {
	h.timerFromJSON(obj)
	h.pos.FromJSON(obj)
	h.hueKey = "hue"
	h.hue = prop(obj, "hue")
	h.saturation = prop(obj, "saturation")
	h.lightness = prop(obj, "lightness")
	if h.rainbow {
		if v := prop(obj, "rhue"); v != nil {
			h.hue, h.hueKey = v, "rhue"
		}
	}
}

func (h *HSL) JSON() map[string]any {
	out := h.jsonWithPosition()
	setProp(out, h.hueKey, h.hue)
	setProp(out, "saturation", h.saturation)
	setProp(out, "lightness", h.lightness)
	return out
}

// RGB draws a colour given by its channels. Black is skipped.
type RGB struct {
	leaf
	red, green, blue Value
}

func channelValue(v Value, ctx Context) int {
	if v == nil {
		return 0
	}
	return v.Int(ctx, 0)
}

func (r *RGB) Draw(ctx Context) {
	r.eachLED(ctx, func(led *LED) {
		c := led.Context()
		red, green, blue := channelValue(r.red, c), channelValue(r.green, c), channelValue(r.blue, c)
		if red == 0 && green == 0 && blue == 0 {
			return
		}
		led.SetRGB(color.RGB{
			R: uint8(color.Clamp(0, 255, red)),
			G: uint8(color.Clamp(0, 255, green)),
			B: uint8(color.Clamp(0, 255, blue)),
		})
	})
}

func (r *RGB) fromJSON(obj map[string]any) {
	r.timerFromJSON(obj)
	r.pos.FromJSON(obj)
	r.red = prop(obj, "red")
	r.green = prop(obj, "green")
	r.blue = prop(obj, "blue")
}

func (r *RGB) JSON() map[string]any {
	out := r.jsonWithPosition()
	setProp(out, "red", r.red)
	setProp(out, "green", r.green)
	setProp(out, "blue", r.blue)
	return out
}
