package timer

// Status is the lifecycle state of a timed element.
type Status int

const (
	Created Status = iota
	Running
	Complete
	Error
	Paused
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Paused:
		return "paused"
	}
	return "error"
}

// Phase names one of a timer's states.
type Phase int

const (
	Run Phase = iota
	Pause
	Done
)

func (p Phase) String() string {
	switch p {
	case Pause:
		return "pause"
	case Done:
		return "complete"
	}
	return "run"
}

// Hooks are the callbacks a timer uses to read its configuration and apply
// its variables. Any of them may be nil.
type Hooks struct {
	// Now is the current time in msecs.
	Now func() int64
	// Duration evaluates the phase duration in msecs. Absent durations are
	// reported as ok=false.
	Duration func(p Phase) (msecs int64, ok bool)
	// Enter, Leave and Step apply the variables of a phase.
	Enter func(p Phase)
	Leave func(p Phase)
	Step  func(p Phase)
	// Repeat evaluates the run limit. Zero or less repeats forever.
	Repeat func() int
}
