package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultPeriod = 20 * time.Millisecond

// Stepper is driven once per tick.
type Stepper interface {
	Step() error
}

// Looper ticks a Stepper until stopped, cancelled or signalled.
type Looper struct {
	period  time.Duration
	stepper Stepper
	signals bool

	quit   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	c      chan os.Signal

	steps  int
	errors int
}

// New ticks s every period. handleSignals stops the loop on SIGINT/SIGTERM.
func New(s Stepper, period time.Duration, handleSignals bool) *Looper {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Looper{period: period, stepper: s, signals: handleSignals, quit: make(chan struct{})}
}

func (l *Looper) refresh(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := l.stepper.Step(); err != nil {
				l.errors++
				log.Warn().Err(err).Int("errors", l.errors).Msg("step failed")
				continue
			}
			l.steps++

		case <-l.quit:
			return

		case sig := <-l.c:
			log.Info().Str("signal", sig.String()).Msg("aborting")
			return

		case <-ctx.Done():
			return
		}
	}
}

// Run blocks until the loop ends.
func (l *Looper) Run(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	defer l.cancel()

	if l.signals {
		l.c = make(chan os.Signal, 1)
		signal.Notify(l.c, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(l.c)
	}

	l.wg.Add(1)
	go l.refresh(ctx)
	l.wg.Wait()
	log.Debug().Int("steps", l.steps).Int("errors", l.errors).Msg("loop ended")
}

// Stop ends a running loop. It is safe to call more than once.
func (l *Looper) Stop() {
	l.once.Do(func() { close(l.quit) })
}

// Steps is the number of successful steps so far. Call it after Run returns.
func (l *Looper) Steps() int { return l.steps }
