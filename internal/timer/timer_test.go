package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVars struct {
	now  int64
	vars map[string]int
	log  []string
}

func (f *fakeVars) hooks(repeat int) Hooks {
	return Hooks{
		Now: func() int64 { return f.now },
		Duration: func(p Phase) (int64, bool) {
			if p == Done {
				return 0, false
			}
			return 100, true
		},
		Enter: func(p Phase) {
			f.log = append(f.log, "enter:"+p.String())
			if p == Run {
				f.vars["xhue"] += 50
				f.vars["len"] = 1
			}
		},
		Leave: func(p Phase) {
			f.log = append(f.log, "leave:"+p.String())
		},
		Step: func(p Phase) {
			if p == Run {
				f.vars["len"]++
			}
		},
		Repeat: func() int { return repeat },
	}
}

func TestTimerRunPauseRepeat(t *testing.T) {
	f := &fakeVars{now: 1000, vars: map[string]int{}}
	h := f.hooks(2)
	tm := New(true, true, true)
	require.Equal(t, Created, tm.Status)

	assert.Equal(t, Running, tm.Update(h))
	assert.Equal(t, 50, f.vars["xhue"])
	assert.Equal(t, 1, f.vars["len"])

	assert.Equal(t, Running, tm.Update(h))
	assert.Equal(t, 2, f.vars["len"])

	f.now += 110
	assert.Equal(t, Paused, tm.Update(h))
	assert.Equal(t, 1, tm.Runs())

	f.now += 110
	assert.Equal(t, Running, tm.Update(h))
	assert.Equal(t, 100, f.vars["xhue"])
	assert.Equal(t, 1, f.vars["len"])

	assert.Equal(t, Running, tm.Update(h))
	f.now += 110
	assert.Equal(t, Complete, tm.Update(h))
	assert.Equal(t, Complete, tm.Update(h))

	assert.Equal(t, []string{
		"enter:run", "leave:run", "enter:pause", "enter:run", "leave:run", "enter:complete",
	}, f.log)
}

func TestTimerWithoutRunCompletes(t *testing.T) {
	tm := New(false, false, false)
	assert.Equal(t, Complete, tm.Update(Hooks{}))
}

func TestTimerDefaultsToOneRun(t *testing.T) {
	f := &fakeVars{vars: map[string]int{}}
	h := f.hooks(0)
	h.Repeat = nil
	tm := New(true, true, false)
	assert.Equal(t, Running, tm.Update(h))
	f.now = 200
	assert.Equal(t, Complete, tm.Update(h))
	assert.Equal(t, int64(100), tm.Duration(Run))
}

func TestTimerRepeatsForever(t *testing.T) {
	f := &fakeVars{vars: map[string]int{}}
	h := f.hooks(0)
	tm := New(true, false, false)
	tm.Update(h)
	f.now = 200
	// no pause phase ends the cycle even without a limit
	assert.Equal(t, Complete, tm.Update(h))

	tm = New(true, true, false)
	f.now = 0
	tm.Update(h)
	for i := 0; i < 5; i++ {
		f.now += 110
		assert.Equal(t, Paused, tm.Update(h))
		f.now += 110
		assert.Equal(t, Running, tm.Update(h))
	}
	assert.Equal(t, 5, tm.Runs())
}
