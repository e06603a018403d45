package timer

// phase tracks one configured state of a timer.
type phase struct {
	present  bool
	entered  int64
	duration int64
}

// Timer cycles run and pause phases until its repeat limit, then completes.
// It holds no configuration itself: durations, variables and the repeat limit
// come through Hooks on every update.
type Timer struct {
	Status Status

	phases [3]phase
	runs   int
	done   bool
}

// New returns a timer in the Created state with the given phases configured.
func New(run, pause, complete bool) *Timer {
	t := &Timer{Status: Created}
	t.phases[Run].present = run
	t.phases[Pause].present = pause
	t.phases[Done].present = complete
	return t
}

// Has reports whether phase p is configured.
func (t *Timer) Has(p Phase) bool { return t.phases[p].present }

// Runs is the number of completed runs.
func (t *Timer) Runs() int { return t.runs }

// Duration is the duration evaluated when p was last entered, or -1 when the
// phase has no duration.
func (t *Timer) Duration(p Phase) int64 { return t.phases[p].duration }

// Reset returns the timer to Created.
func (t *Timer) Reset() {
	t.Status = Created
	t.runs = 0
	t.done = false
	for i := range t.phases {
		t.phases[i].entered = 0
		t.phases[i].duration = 0
	}
}

// Update advances the timer by one step.
func (t *Timer) Update(h Hooks) Status {
	if !t.phases[Run].present {
		t.Status = Complete
		return t.Status
	}
	switch t.Status {
	case Created:
		t.Status = t.enterRun(h)
	case Running:
		if t.update(Run, h) == Complete {
			t.Status = t.leaveRun(h)
		}
	case Paused:
		if !t.phases[Pause].present {
			t.Status = t.complete(h)
		} else if t.update(Pause, h) == Complete {
			t.Status = t.enterRun(h)
		}
	default:
		t.Status = t.complete(h)
	}
	return t.Status
}

func (t *Timer) enter(p Phase, h Hooks) {
	ph := &t.phases[p]
	ph.duration = -1
	if h.Duration != nil {
		if d, ok := h.Duration(p); ok {
			ph.duration = d
		}
	}
	ph.entered = now(h)
	if h.Enter != nil {
		h.Enter(p)
	}
}

// update reports Complete once the phase duration has elapsed, otherwise it
// applies the step variables and reports the phase's own status.
func (t *Timer) update(p Phase, h Hooks) Status {
	ph := &t.phases[p]
	if ph.duration > 0 && now(h) > ph.entered+ph.duration {
		return Complete
	}
	if h.Step != nil {
		h.Step(p)
	}
	if p == Pause {
		return Paused
	}
	return Running
}

// enterRun does not apply step variables until the next update.
func (t *Timer) enterRun(h Hooks) Status {
	t.enter(Run, h)
	return Running
}

func (t *Timer) leaveRun(h Hooks) Status {
	if h.Leave != nil {
		h.Leave(Run)
	}
	t.runs++
	limit := 1
	if h.Repeat != nil {
		limit = h.Repeat()
	}
	if limit > 0 && t.runs >= limit {
		return t.complete(h)
	}
	if !t.phases[Pause].present {
		return t.complete(h)
	}
	t.enter(Pause, h)
	return t.update(Pause, h)
}

func (t *Timer) complete(h Hooks) Status {
	if !t.done {
		t.done = true
		if t.phases[Done].present {
			t.enter(Done, h)
		}
	}
	return Complete
}

func now(h Hooks) int64 {
	if h.Now == nil {
		return 0
	}
	return h.Now()
}
