package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sim keeps the last frame in memory, useful for headless runs and tests.
type Sim struct {
	mu     sync.Mutex
	count  int
	frames int
	last   []byte
}

func NewSim(count int) *Sim {
	return &Sim{count: count, last: make([]byte, count*3)}
}

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rgb) != s.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	copy(s.last, rgb)
	s.frames++
	if s.count > 0 {
		var r, g, b int
		for i := 0; i < s.count; i++ {
			r += int(rgb[i*3])
			g += int(rgb[i*3+1])
			b += int(rgb[i*3+2])
		}
		log.Debug().
			Int("frame", s.frames).
			Ints("avg", []int{r / s.count, g / s.count, b / s.count}).
			Bytes("first", rgb[:3]).
			Msg("sim frame")
	}
	return nil
}

func (s *Sim) Close() error { return nil }

// Frames is the number of frames written.
func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Last returns a copy of the last frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.last))
	copy(out, s.last)
	return out
}
