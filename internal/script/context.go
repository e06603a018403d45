package script

import (
	"github.com/coreman2200/stripscript/internal/animation"
	"github.com/coreman2200/stripscript/internal/color"
)

// Step numbers one draw pass.
type Step struct {
	Number    int
	Start     int64
	SincePrev int64
}

func (s *Step) begin(last *Step, now int64) {
	*last = *s
	s.SincePrev = now - s.Start
	s.Start = now
	s.Number++
}

func (s *Step) end(last *Step) { *last = *s }

// Context is a scope of named values plus the drawing state of the element
// being drawn.
type Context interface {
	Env() *Env
	Parent() Context

	// Value looks name up here, then in the parents.
	Value(name string) Value
	// SysValue looks up "sys:"+name.
	SysValue(name string) Value
	SetValue(name string, v Value)

	Strip() *Adapter
	SetStrip(a *Adapter)
	RootStrip() *Adapter
	Position() *Position
	SetPosition(p *Position)
	Element() Element
	SetElement(e Element)

	// PositionDomain is the LED being drawn within the current strip.
	PositionDomain() *animation.Span
	Step() *Step
	LastStep() *Step
}

type scope struct {
	env      *Env
	parent   Context
	values   valueList
	strip    *Adapter
	position *Position
	element  Element
	domain   animation.Span
	start    int64
}

func newScope(env *Env, parent Context) scope {
	return scope{env: env, parent: parent, start: env.now()}
}

func (c *scope) Env() *Env       { return c.env }
func (c *scope) Parent() Context { return c.parent }

func (c *scope) Value(name string) Value {
	if v, ok := c.values.Get(name); ok {
		return v
	}
	if c.parent != nil {
		return c.parent.Value(name)
	}
	return nil
}

func (c *scope) SysValue(name string) Value { return c.Value("sys:" + name) }

func (c *scope) SetValue(name string, v Value) { c.values.Set(name, v) }

func (c *scope) Strip() *Adapter { return c.strip }

func (c *scope) SetStrip(a *Adapter) {
	c.strip = a
	n := 0
	if a != nil {
		n = a.Length()
	}
	c.domain.Set(0, 0, float64(n))
}

func (c *scope) RootStrip() *Adapter {
	a := c.strip
	for a != nil && a.parent != nil {
		a = a.parent
	}
	return a
}

func (c *scope) Position() *Position             { return c.position }
func (c *scope) SetPosition(p *Position)         { c.position = p }
func (c *scope) Element() Element                { return c.element }
func (c *scope) SetElement(e Element)            { c.element = e }
func (c *scope) PositionDomain() *animation.Span { return &c.domain }

// RootContext is the top scope of a script. It owns the step counter.
type RootContext struct {
	scope
	current, last Step
}

func NewRootContext(env *Env) *RootContext {
	c := &RootContext{scope: newScope(env, nil)}
	c.current.Start = c.start
	return c
}

// SetParams replaces the bound values with params and the system colours.
func (c *RootContext) SetParams(params map[string]any) {
	c.values.Clear()
	for name, v := range params {
		c.values.Set(name, ParseValue(v))
	}
	for _, h := range color.SystemColors {
		c.values.Set("sys:"+h.Name, Number(h.Hue))
	}
}

func (c *RootContext) Step() *Step     { return &c.current }
func (c *RootContext) LastStep() *Step { return &c.last }

func (c *RootContext) BeginStep() { c.current.begin(&c.last, c.env.now()) }
func (c *RootContext) EndStep()   { c.current.end(&c.last) }

// ChildContext scopes a container's values under its parent's.
type ChildContext struct {
	scope
}

func NewChildContext(parent Context) *ChildContext {
	return &ChildContext{scope: newScope(parent.Env(), parent)}
}

func (c *ChildContext) Step() *Step     { return c.parent.Step() }
func (c *ChildContext) LastStep() *Step { return c.parent.LastStep() }

// MakerContext is one instance spawned by a maker. It keeps its own steps
// and lifetime.
type MakerContext struct {
	scope
	current, last Step
}

func newMakerContext(owner Context) *MakerContext {
	c := &MakerContext{scope: newScope(owner.Env(), owner)}
	c.current.Start = c.start
	c.SetStrip(owner.Strip())
	return c
}

func (c *MakerContext) Step() *Step     { return &c.current }
func (c *MakerContext) LastStep() *Step { return &c.last }

func (c *MakerContext) BeginStep() { c.current.begin(&c.last, c.env.now()) }
func (c *MakerContext) EndStep()   { c.current.end(&c.last) }

// initialize snapshots each template value into the context.
func (c *MakerContext) initialize(template *valueList) {
	template.Each(func(name string, v Value) {
		c.values.Set(name, v.Eval(c))
	})
}

// complete reports whether maxDuration, or the context's own "duration"
// value, has elapsed.
func (c *MakerContext) complete(maxDuration int, now int64) bool {
	if maxDuration > 0 && c.start+int64(maxDuration) < now {
		return true
	}
	if d, ok := c.values.Get("duration"); ok {
		if ms := d.Msecs(c, 0); ms > 0 && c.start+int64(ms) < now {
			return true
		}
	}
	return false
}

// size estimates the memory held by the context.
func (c *MakerContext) size() int {
	return contextBytes + c.values.Len()*valueBytes
}
