package script

import (
	"github.com/coreman2200/stripscript/internal/timer"
)

type timerState struct {
	duration           Value
	enter, leave, step valueList
}

func parseTimerState(v any) *timerState {
	s := &timerState{}
	obj, ok := v.(map[string]any)
	if !ok {
		s.duration = ParseValue(v)
		return s
	}
	if d, ok := obj["duration"]; ok {
		s.duration = ParseValue(d)
	}
	vars := func(list *valueList, key string) {
		m, ok := obj[key].(map[string]any)
		if !ok {
			return
		}
		for _, name := range sortedKeys(m) {
			list.Set(name, ParseValueIn(m[name], m))
		}
	}
	vars(&s.enter, "enter")
	vars(&s.leave, "leave")
	vars(&s.step, "step")
	return s
}

// Timer runs an element through run and pause phases, setting variables as
// each phase is entered, stepped and left.
type Timer struct {
	t      *timer.Timer
	states [3]*timerState
	repeat Value
	src    any
}

// ParseTimer reads a timer document. It accepts a run duration, an array of
// run duration, pause duration and repeat count, or an object with run, pause
// and complete phases.
func ParseTimer(v any) *Timer {
	t := &Timer{src: v}
	switch doc := v.(type) {
	case nil:
	case []any:
		if len(doc) > 0 {
			t.states[timer.Run] = parseTimerState(doc[0])
		}
		if len(doc) > 1 {
			t.states[timer.Pause] = parseTimerState(doc[1])
		}
		if len(doc) > 2 {
			t.repeat = ParseValue(doc[2])
		}
	case map[string]any:
		for p, key := range []string{"run", "pause", "complete"} {
			if s, ok := doc[key]; ok {
				t.states[p] = parseTimerState(s)
			}
		}
		if r, ok := doc["repeat"]; ok {
			t.repeat = ParseValue(r)
		}
	default:
		t.states[timer.Run] = parseTimerState(doc)
	}
	t.t = timer.New(t.states[timer.Run] != nil, t.states[timer.Pause] != nil, t.states[timer.Done] != nil)
	return t
}

// Update advances the timer one step in ctx.
func (t *Timer) Update(ctx Context) timer.Status {
	apply := func(list func(*timerState) *valueList) func(timer.Phase) {
		return func(p timer.Phase) {
			s := t.states[p]
			if s == nil {
				return
			}
			list(s).Each(func(name string, v Value) {
				ctx.SetValue(name, Number(v.Float(ctx, 0)))
			})
		}
	}
	return t.t.Update(timer.Hooks{
		Now: ctx.Env().now,
		Duration: func(p timer.Phase) (int64, bool) {
			s := t.states[p]
			if s == nil || s.duration == nil {
				return 0, false
			}
			return int64(s.duration.Msecs(ctx, 0)), true
		},
		Enter: apply(func(s *timerState) *valueList { return &s.enter }),
		Leave: apply(func(s *timerState) *valueList { return &s.leave }),
		Step:  apply(func(s *timerState) *valueList { return &s.step }),
		Repeat: func() int {
			if t.repeat == nil {
				return 1
			}
			return t.repeat.Int(ctx, 1)
		},
	})
}

// Status is the state after the last update.
func (t *Timer) Status() timer.Status { return t.t.Status }

// Float is the run duration last evaluated.
func (t *Timer) Float(_ Context, def float64) float64 {
	if !t.t.Has(timer.Run) {
		return def
	}
	return float64(t.t.Duration(timer.Run))
}

func (t *Timer) Int(ctx Context, def int) int   { return int(t.Float(ctx, float64(def))) }
func (t *Timer) Msecs(ctx Context, def int) int { return t.Int(ctx, def) }
func (t *Timer) Bool(_ Context, def bool) bool  { return t.t.Has(timer.Run) || def }
func (t *Timer) Unit(ctx Context, def float64, defUnit Unit) UnitValue {
	return UnitValue{t.Float(ctx, def), defUnit}
}
func (t *Timer) Equals(_ Context, text string) bool { return t.t.Status.String() == text }
func (t *Timer) Clone() Value                       { return ParseTimer(t.src) }
func (t *Timer) Eval(Context) Value                 { return t.Clone() }
func (t *Timer) String() string                     { return "timer(" + t.t.Status.String() + ")" }
func (t *Timer) Kind() Kind                         { return KindTimer }

// JSON is the document the timer was parsed from.
func (t *Timer) JSON() any { return t.src }
