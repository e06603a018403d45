package script

// Variable looks a name up in the context at evaluation time. System
// variables (sys) answer offset, length, led and step from the drawing state
// and resolve other names as "sys:<name>".
type Variable struct {
	name    string
	sys     bool
	def     Value
	recurse bool
}

func NewVariable(name string, sys bool, def Value) *Variable {
	return &Variable{name: name, sys: sys, def: def}
}

func (v *Variable) Name() string { return v.name }

// system computes the drawing state variables.
func (v *Variable) system(ctx Context) (float64, bool) {
	if !v.sys {
		return 0, false
	}
	switch v.name {
	case "offset":
		if p := ctx.Position(); p != nil && p.HasLength() {
			return p.Offset().Value, true
		}
		return 0, true
	case "length":
		if p := ctx.Position(); p != nil && p.HasLength() {
			return p.Length().Value, true
		}
		if s := ctx.Strip(); s != nil {
			return float64(s.Length()), true
		}
		return 0, true
	case "led":
		return ctx.PositionDomain().Value(), true
	case "step":
		return float64(ctx.Step().Number), true
	}
	return 0, false
}

func (v *Variable) fallback() Value {
	if v.def != nil {
		return v.def
	}
	return Null{}
}

// enter resolves the bound value and guards against self reference and
// runaway chains. A nil result means the default applies. done must be
// called when evaluation finishes.
func (v *Variable) enter(ctx Context) (Value, func()) {
	env := ctx.Env()
	if v.recurse || env.depth >= MaxDepth {
		return nil, func() {}
	}
	v.recurse = true
	env.depth++
	var val Value
	if v.sys {
		val = ctx.SysValue(v.name)
	} else {
		val = ctx.Value(v.name)
	}
	if val == nil {
		val = v.fallback()
	}
	return val, func() {
		v.recurse = false
		env.depth--
	}
}

func (v *Variable) Int(ctx Context, def int) int { return int(v.Float(ctx, float64(def))) }

func (v *Variable) Float(ctx Context, def float64) float64 {
	if f, ok := v.system(ctx); ok {
		return f
	}
	val, done := v.enter(ctx)
	defer done()
	if val == nil {
		return v.fallback().Float(ctx, def)
	}
	return val.Float(ctx, def)
}

func (v *Variable) Bool(ctx Context, def bool) bool {
	if f, ok := v.system(ctx); ok {
		return f != 0
	}
	val, done := v.enter(ctx)
	defer done()
	if val == nil {
		return v.fallback().Bool(ctx, def)
	}
	return val.Bool(ctx, def)
}

func (v *Variable) Msecs(ctx Context, def int) int {
	if f, ok := v.system(ctx); ok {
		return int(f)
	}
	val, done := v.enter(ctx)
	defer done()
	if val == nil {
		return v.fallback().Msecs(ctx, def)
	}
	return val.Msecs(ctx, def)
}

func (v *Variable) Unit(ctx Context, def float64, defUnit Unit) UnitValue {
	if f, ok := v.system(ctx); ok {
		return UnitValue{f, defUnit}
	}
	val, done := v.enter(ctx)
	defer done()
	if val == nil {
		return v.fallback().Unit(ctx, def, defUnit)
	}
	return val.Unit(ctx, def, defUnit)
}

func (v *Variable) Equals(ctx Context, text string) bool {
	if f, ok := v.system(ctx); ok {
		return Number(f).Equals(ctx, text)
	}
	val, done := v.enter(ctx)
	defer done()
	if val == nil {
		return false
	}
	return val.Equals(ctx, text)
}

func (v *Variable) Clone() Value {
	c := &Variable{name: v.name, sys: v.sys}
	if v.def != nil {
		c.def = v.def.Clone()
	}
	return c
}

func (v *Variable) Eval(ctx Context) Value { return Number(v.Float(ctx, 0)) }

func (v *Variable) JSON() any { return v.String() }

func (v *Variable) String() string {
	kind := "var"
	if v.sys {
		kind = "sys"
	}
	text := kind + "(" + v.name + ")"
	if v.def != nil {
		if d := v.def.String(); d != "" && d != "null" {
			text += "|" + d
		}
	}
	return text
}

func (v *Variable) Kind() Kind { return KindVariable }
