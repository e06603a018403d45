package script

import (
	"strings"
)

var functionNames = map[string]bool{
	"rand": true, "add": true, "+": true, "subtract": true, "sub": true, "-": true,
	"multiply": true, "mult": true, "*": true, "divide": true, "div": true, "/": true,
	"mod": true, "%": true, "min": true, "max": true, "randof": true, "seq": true,
	"sequence": true, "millis": true,
}

// IsFunctionName reports whether an array starting with name is a function
// call.
func IsFunctionName(name string) bool {
	return functionNames[strings.ToLower(name)]
}

// Function is a call of a built-in over argument values.
type Function struct {
	name  string
	args  []Value
	state float64
}

func NewFunction(name string, args ...Value) *Function {
	return &Function{name: name, args: args, state: -1}
}

func (f *Function) arg(ctx Context, i int, def float64) float64 {
	if i >= len(f.args) || f.args[i] == nil {
		return def
	}
	return f.args[i].Float(ctx, def)
}

func (f *Function) invoke(ctx Context, def float64) float64 {
	switch strings.ToLower(f.name) {
	case "rand":
		low := int(f.arg(ctx, 0, 0))
		high := int(f.arg(ctx, 1, float64(low)))
		if high == low {
			low = 0
		}
		if high < low {
			low, high = high, low
		}
		return float64(low + ctx.Env().intn(high-low+1))
	case "add", "+":
		return f.arg(ctx, 0, def) + f.arg(ctx, 1, def)
	case "subtract", "sub", "-":
		if len(f.args) == 1 {
			return -f.arg(ctx, 0, def)
		}
		return f.arg(ctx, 0, def) - f.arg(ctx, 1, def)
	case "multiply", "mult", "*":
		return f.arg(ctx, 0, def) * f.arg(ctx, 1, def)
	case "divide", "div", "/":
		d := f.arg(ctx, 1, def)
		if d == 0 {
			return 0
		}
		return f.arg(ctx, 0, def) / d
	case "mod", "%":
		d := int(f.arg(ctx, 1, def))
		if d == 0 {
			return 0
		}
		return float64(int(f.arg(ctx, 0, def)) % d)
	case "min":
		a, b := f.arg(ctx, 0, def), f.arg(ctx, 1, def)
		if a < b {
			return a
		}
		return b
	case "max":
		a, b := f.arg(ctx, 0, def), f.arg(ctx, 1, def)
		if a > b {
			return a
		}
		return b
	case "randof":
		if len(f.args) == 0 {
			return def
		}
		return f.arg(ctx, ctx.Env().intn(len(f.args)), def)
	case "seq", "sequence":
		start := float64(int(f.arg(ctx, 0, 0)))
		end := float64(int(f.arg(ctx, 1, 100)))
		step := float64(int(f.arg(ctx, 2, 1)))
		if f.state < start {
			f.state = start
		} else {
			f.state += step
		}
		if f.state > end {
			f.state = start
		}
		return f.state
	case "millis":
		return float64(ctx.Env().now())
	}
	return def
}

func (f *Function) Int(ctx Context, def int) int           { return int(f.invoke(ctx, float64(def))) }
func (f *Function) Float(ctx Context, def float64) float64 { return f.invoke(ctx, def) }
func (f *Function) Bool(ctx Context, _ bool) bool          { return f.invoke(ctx, 0) != 0 }
func (f *Function) Msecs(ctx Context, def int) int         { return int(f.invoke(ctx, float64(def))) }
func (f *Function) Unit(ctx Context, def float64, defUnit Unit) UnitValue {
	return UnitValue{f.invoke(ctx, def), defUnit}
}
func (f *Function) Equals(Context, string) bool { return false }

func (f *Function) Clone() Value {
	args := make([]Value, len(f.args))
	for i, a := range f.args {
		args[i] = a.Clone()
	}
	return NewFunction(f.name, args...)
}

func (f *Function) Eval(ctx Context) Value { return Number(f.invoke(ctx, 0)) }

func (f *Function) JSON() any {
	out := []any{f.name}
	for _, a := range f.args {
		out = append(out, a.JSON())
	}
	return out
}

func (f *Function) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ",") + ")"
}

func (f *Function) Kind() Kind { return KindFunction }
