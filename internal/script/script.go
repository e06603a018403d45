package script

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coreman2200/stripscript/internal/strip"
)

// ErrNotObject is returned for script documents that are not objects.
var ErrNotObject = errors.New("script: document is not an object")

const (
	defaultFrequency  = 50
	defaultBrightness = 40
)

// Script is a parsed element tree bound to a root context.
type Script struct {
	env  *Env
	name string

	duration, frequency, brightness Value

	ctx  *RootContext
	root *Container
	hsl  *strip.HSLStrip

	start int64
}

// Parse builds a script from a decoded document.
func Parse(doc any, env *Env) (*Script, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	s := &Script{env: env, name: "unnamed", ctx: NewRootContext(env)}
	if name, ok := obj["name"].(string); ok && name != "" {
		s.name = name
	}
	s.duration = prop(obj, "duration")
	s.frequency = prop(obj, "frequency")
	s.brightness = prop(obj, "brightness")

	root := newContainer("root", rootAdapter, s.ctx)
	root.pos = newRootPosition()
	root.strip = NewRootAdapter(nil, env)
	s.root = root
	s.ctx.SetStrip(root.strip)
	s.ctx.SetPosition(root.pos)
	if list, ok := obj["elements"].([]any); ok {
		root.children = parseElements(list, s.ctx)
	}
	return s, nil
}

// ParseJSON decodes and parses a JSON script.
func ParseJSON(data []byte, env *Env) (*Script, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	return Parse(doc, env)
}

func (s *Script) Name() string          { return s.name }
func (s *Script) Env() *Env             { return s.env }
func (s *Script) Context() *RootContext { return s.ctx }
func (s *Script) Elements() []Element   { return s.root.children }

// Brightness is the percentage the physical strip is driven at.
func (s *Script) Brightness() int {
	if s.brightness == nil {
		return defaultBrightness
	}
	return s.brightness.Int(s.ctx, defaultBrightness)
}

// Begin binds the script to a physical strip and its parameters.
func (s *Script) Begin(hsl *strip.HSLStrip, params map[string]any) {
	s.start = s.env.now()
	s.hsl = hsl
	s.root.strip.SetBase(hsl)
	s.ctx.SetParams(params)
	if hsl != nil {
		hsl.SetBrightness(s.Brightness())
	}
}

// Step draws one frame unless the script has run its duration or the frame
// interval has not passed.
func (s *Script) Step() error {
	if s.hsl == nil {
		return nil
	}
	now := s.env.now()
	if s.duration != nil {
		if d := s.duration.Msecs(s.ctx, 0); d > 0 && s.start+int64(d) < now {
			return nil
		}
	}
	last := s.ctx.LastStep()
	freq := defaultFrequency
	if s.frequency != nil {
		freq = s.frequency.Msecs(s.ctx, defaultFrequency)
	}
	if last.Number > 0 && freq > 0 && last.Start+int64(freq) > now {
		return nil
	}
	s.hsl.Clear()
	s.draw()
	return s.hsl.Show()
}

func (s *Script) draw() {
	root := s.root
	s.ctx.SetStrip(root.strip)
	s.ctx.SetPosition(root.pos)
	root.pos.Evaluate(s.ctx)
	root.strip.UpdatePosition(root.pos, s.ctx)
	s.ctx.BeginStep()
	root.drawChildren()
	s.ctx.EndStep()
}

// Complete reports whether the script has run its duration.
func (s *Script) Complete() bool {
	if s.duration == nil {
		return false
	}
	d := s.duration.Msecs(s.ctx, 0)
	return d > 0 && s.start+int64(d) < s.env.now()
}

// JSON is the document form of the script.
func (s *Script) JSON() map[string]any {
	out := map[string]any{"name": s.name}
	setProp(out, "duration", s.duration)
	setProp(out, "frequency", s.frequency)
	setProp(out, "brightness", s.brightness)
	out["elements"] = elementsJSON(s.root.children)
	return out
}
