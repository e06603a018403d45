package script

import (
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
	KindVariable
	KindFunction
	KindPattern
	KindTimer
	KindReference
)

// Value is an expression node evaluated against a Context. Every accessor
// takes the default returned when the value cannot produce the type.
type Value interface {
	Int(ctx Context, def int) int
	Float(ctx Context, def float64) float64
	Bool(ctx Context, def bool) bool
	Msecs(ctx Context, def int) int
	Unit(ctx Context, def float64, defUnit Unit) UnitValue
	Equals(ctx Context, text string) bool
	// Clone returns a structurally independent copy.
	Clone() Value
	// Eval snapshots the value with transient effects such as a random draw
	// fixed.
	Eval(ctx Context) Value
	// JSON is the document form of the value.
	JSON() any
	String() string
	Kind() Kind
}

type Number float64

func (n Number) Int(Context, int) int           { return int(n) }
func (n Number) Float(Context, float64) float64 { return float64(n) }
func (n Number) Bool(Context, bool) bool        { return n != 0 }
func (n Number) Msecs(Context, int) int         { return int(n) }
func (n Number) Unit(_ Context, _ float64, defUnit Unit) UnitValue {
	return UnitValue{float64(n), defUnit}
}
func (n Number) Equals(_ Context, text string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return err == nil && f == float64(n)
}
func (n Number) Clone() Value       { return n }
func (n Number) Eval(Context) Value { return n }
func (n Number) JSON() any          { return float64(n) }
func (n Number) String() string     { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (n Number) Kind() Kind         { return KindNumber }

type Bool bool

func (b Bool) Int(Context, int) int {
	if b {
		return 1
	}
	return 0
}
func (b Bool) Float(ctx Context, _ float64) float64 { return float64(b.Int(ctx, 0)) }
func (b Bool) Bool(Context, bool) bool              { return bool(b) }
func (b Bool) Msecs(_ Context, def int) int         { return def }
func (b Bool) Unit(_ Context, def float64, defUnit Unit) UnitValue {
	return UnitValue{def, defUnit}
}
func (b Bool) Equals(_ Context, text string) bool { return strconv.FormatBool(bool(b)) == text }
func (b Bool) Clone() Value                       { return b }
func (b Bool) Eval(Context) Value                 { return b }
func (b Bool) JSON() any                          { return bool(b) }
func (b Bool) String() string                     { return strconv.FormatBool(bool(b)) }
func (b Bool) Kind() Kind                         { return KindBool }

type String string

func (s String) Int(ctx Context, def int) int { return int(s.Float(ctx, float64(def))) }

// Float parses the leading number of the text.
func (s String) Float(_ Context, def float64) float64 {
	f, _, ok := leadingNumber(string(s))
	if !ok {
		return def
	}
	return f
}
func (s String) Bool(Context, bool) bool { return string(s) == "true" }

// Msecs accepts durations like "250ms", "2s" or "1m"; a bare number is msecs.
func (s String) Msecs(_ Context, def int) int {
	text := strings.TrimSpace(string(s))
	if d, err := time.ParseDuration(text); err == nil {
		return int(d.Milliseconds())
	}
	if f, _, ok := leadingNumber(text); ok {
		return int(f)
	}
	return def
}
func (s String) Unit(_ Context, def float64, defUnit Unit) UnitValue {
	return ParseUnitValue(string(s), def, defUnit)
}
func (s String) Equals(_ Context, text string) bool { return string(s) == text }
func (s String) Clone() Value                       { return s }
func (s String) Eval(Context) Value                 { return s }
func (s String) JSON() any                          { return string(s) }
func (s String) String() string                     { return string(s) }
func (s String) Kind() Kind                         { return KindString }

// Null answers the default for everything.
type Null struct{}

func (Null) Int(_ Context, def int) int           { return def }
func (Null) Float(_ Context, def float64) float64 { return def }
func (Null) Bool(_ Context, def bool) bool        { return def }
func (Null) Msecs(_ Context, def int) int         { return def }
func (Null) Unit(_ Context, def float64, defUnit Unit) UnitValue {
	return UnitValue{def, defUnit}
}
func (Null) Equals(Context, string) bool { return false }
func (n Null) Clone() Value              { return n }
func (n Null) Eval(Context) Value        { return n }
func (Null) JSON() any                   { return nil }
func (Null) String() string              { return "null" }
func (Null) Kind() Kind                  { return KindNull }

// Reference aliases a value owned elsewhere.
type Reference struct {
	Target Value
}

func (r Reference) Int(ctx Context, def int) int           { return r.Target.Int(ctx, def) }
func (r Reference) Float(ctx Context, def float64) float64 { return r.Target.Float(ctx, def) }
func (r Reference) Bool(ctx Context, def bool) bool        { return r.Target.Bool(ctx, def) }
func (r Reference) Msecs(ctx Context, def int) int         { return r.Target.Msecs(ctx, def) }
func (r Reference) Unit(ctx Context, def float64, defUnit Unit) UnitValue {
	return r.Target.Unit(ctx, def, defUnit)
}
func (r Reference) Equals(ctx Context, text string) bool { return r.Target.Equals(ctx, text) }
func (r Reference) Clone() Value                         { return r.Target.Clone() }
func (r Reference) Eval(ctx Context) Value               { return r.Target.Eval(ctx) }
func (r Reference) JSON() any                            { return r.Target.JSON() }
func (r Reference) String() string                       { return r.Target.String() }
func (r Reference) Kind() Kind                           { return KindReference }

// valueList is an ordered name to Value map.
type valueList struct {
	names  []string
	values map[string]Value
}

func (l *valueList) Get(name string) (Value, bool) {
	v, ok := l.values[name]
	return v, ok
}

func (l *valueList) Set(name string, v Value) {
	if l.values == nil {
		l.values = map[string]Value{}
	}
	if _, ok := l.values[name]; !ok {
		l.names = append(l.names, name)
	}
	l.values[name] = v
}

func (l *valueList) Len() int { return len(l.names) }

func (l *valueList) Clear() {
	l.names = l.names[:0]
	l.values = nil
}

func (l *valueList) Each(fn func(name string, v Value)) {
	for _, n := range l.names {
		fn(n, l.values[n])
	}
}
