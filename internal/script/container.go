package script

import (
	"github.com/coreman2200/stripscript/internal/timer"
)

// Container owns child elements and redraws them every step through its own
// adapter and context.
type Container struct {
	element
	pos      *Position
	ctx      Context
	strip    *Adapter
	children []Element

	count Value // copy
}

func newContainer(typ string, kind adapterKind, ctx Context) *Container {
	return &Container{
		element: newElement(typ),
		pos:     NewPosition(),
		ctx:     ctx,
		strip:   newAdapter(kind),
	}
}

// NewSegment groups children under a new scope of parent.
func NewSegment(parent Context) *Container {
	return newContainer("segment", plainAdapter, NewChildContext(parent))
}

// NewMirror draws its children on the first half of its parent and mirrors
// them onto the second.
func NewMirror(parent Context) *Container {
	return newContainer("mirror", mirrorAdapter, NewChildContext(parent))
}

// NewCopy repeats its children over count equal sections of its parent.
func NewCopy(parent Context) *Container {
	return newContainer("copy", copyAdapter, NewChildContext(parent))
}

// NewRepeat repeats its flowing children until its length is filled.
func NewRepeat(parent Context) *Container {
	return newContainer("repeat", repeatAdapter, NewChildContext(parent))
}

func (c *Container) Position() *Position     { return c.pos }
func (c *Container) Context() Context        { return c.ctx }
func (c *Container) Strip() *Adapter         { return c.strip }
func (c *Container) Children() []Element     { return c.children }
func (c *Container) Add(children ...Element) { c.children = append(c.children, children...) }

func (c *Container) UpdatePosition(parent *Position, ctx Context) {
	positionUpdate(c.pos, parent, ctx)
}

func (c *Container) Draw(parent Context) {
	c.prepare(parent)
	c.drawChildren()
}

// prepare binds the adapter under the parent's strip and lays out the
// container and its children for this step.
func (c *Container) prepare(parent Context) {
	c.ctx.SetStrip(c.strip)
	c.ctx.SetPosition(c.pos)
	c.strip.SetParent(parent.Strip())
	c.strip.UpdatePosition(c.pos, c.ctx)
	for _, child := range c.children {
		child.UpdatePosition(c.pos, c.ctx)
	}
}

// drawChildren drops completed children and draws the running ones. Paused
// children keep their place but are not drawn.
func (c *Container) drawChildren() {
	live := c.children[:0]
	var running []Element
	for _, child := range c.children {
		switch child.UpdateStatus(c.ctx) {
		case timer.Complete:
			continue
		case timer.Paused:
		default:
			running = append(running, child)
		}
		live = append(live, child)
	}
	for i := len(live); i < len(c.children); i++ {
		c.children[i] = nil
	}
	c.children = live

	for _, child := range running {
		child.UpdatePosition(c.pos, c.ctx)
	}
	if !c.beforeDrawChildren() {
		return
	}
	for _, child := range running {
		c.ctx.SetElement(child)
		child.Draw(c.ctx)
	}
}

// beforeDrawChildren finishes the adapter of the copy and repeat kinds once
// the children are laid out.
func (c *Container) beforeDrawChildren() bool {
	switch c.strip.kind {
	case copyAdapter:
		n := 1
		if c.count != nil {
			n = c.count.Int(c.ctx, 1)
		}
		c.strip.setCount(n)
	case repeatAdapter:
		length := 0
		for _, child := range c.children {
			p := child.Position()
			if p != nil && p.HasLength() && p.IsFlow() {
				length += c.strip.UnitToPixel(p.Length(), -1)
			}
		}
		c.strip.setRepeatLength(length)
	}
	return true
}

func (c *Container) fromJSON(obj map[string]any) {
	c.timerFromJSON(obj)
	c.pos.FromJSON(obj)
	if c.strip.kind == copyAdapter {
		c.count = prop(obj, "count")
	}
	if list, ok := obj["elements"].([]any); ok {
		c.children = parseElements(list, c.ctx)
	}
}

func (c *Container) JSON() map[string]any {
	out := c.baseJSON()
	c.pos.JSON(out)
	setProp(out, "count", c.count)
	out["elements"] = elementsJSON(c.children)
	return out
}

func elementsJSON(list []Element) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		out = append(out, e.JSON())
	}
	return out
}
