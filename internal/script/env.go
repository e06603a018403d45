package script

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/stripscript/internal/config"
)

// MaxDepth bounds nested variable evaluation.
const MaxDepth = 32

// Env carries the clock, randomness and hardware layout a script evaluates
// against.
type Env struct {
	// Now is the current time in msecs.
	Now  func() int64
	Rand *rand.Rand
	// Pins lays out the physical strips for the "strip" position field.
	Pins []config.Pin
	Log  zerolog.Logger
	// MemoryBudget caps the estimated bytes of live maker contexts. Zero is
	// unlimited.
	MemoryBudget int

	depth int
}

// NewEnv returns an environment on the wall clock.
func NewEnv(pins []config.Pin) *Env {
	epoch := time.Now()
	return &Env{
		Now:  func() int64 { return time.Since(epoch).Milliseconds() + 1 },
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		Pins: pins,
		Log:  log.With().Str("component", "script").Logger(),
	}
}

func (e *Env) now() int64 {
	if e.Now == nil {
		return 0
	}
	return e.Now()
}

// intn returns a random int in [0,n).
func (e *Env) intn(n int) int {
	if n <= 0 {
		return 0
	}
	if e.Rand == nil {
		return rand.Intn(n)
	}
	return e.Rand.Intn(n)
}
