package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	n    atomic.Int32
	fail bool
	stop func()
}

func (c *counter) Step() error {
	if c.n.Add(1) >= 3 && c.stop != nil {
		c.stop()
	}
	if c.fail {
		return errors.New("boom")
	}
	return nil
}

func TestStopEndsRun(t *testing.T) {
	c := &counter{}
	l := New(c, time.Millisecond, false)
	c.stop = l.Stop

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
	}
	assert.GreaterOrEqual(t, l.Steps(), 2)
	l.Stop()
}

func TestCancelEndsRun(t *testing.T) {
	c := &counter{fail: true}
	l := New(c, time.Millisecond, false)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	l.Run(ctx)
	assert.Equal(t, 0, l.Steps())
	assert.Greater(t, c.n.Load(), int32(0))
}

func TestDefaultPeriod(t *testing.T) {
	l := New(&counter{}, 0, false)
	assert.Equal(t, DefaultPeriod, l.period)
}
