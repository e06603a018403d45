package executor

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/stripscript/internal/config"
	"github.com/coreman2200/stripscript/internal/led"
	"github.com/coreman2200/stripscript/internal/script"
)

type harness struct {
	now  int64
	exec *Executor
	sims []*led.Sim
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{now: 1}
	env := &script.Env{
		Now:  func() int64 { return h.now },
		Rand: rand.New(rand.NewSource(1)),
		Log:  zerolog.Nop(),
	}
	h.exec = New(WithEnv(env), WithOpener(func(o led.Opts) (led.Driver, error) {
		sim := led.NewSim(o.Count)
		h.sims = append(h.sims, sim)
		return sim, nil
	}))
	require.NoError(t, h.exec.ConfigChange(cfg))
	return h
}

func simConfig(counts ...int) *config.Config {
	cfg := &config.Config{Brightness: 100}
	for i, n := range counts {
		cfg.Pins = append(cfg.Pins, config.Pin{Number: i, LEDCount: n, Driver: "sim"})
	}
	return cfg
}

func sum(frame []byte) int {
	n := 0
	for _, b := range frame {
		n += int(b)
	}
	return n
}

func TestConfigChangeJoinsPins(t *testing.T) {
	h := newHarness(t, simConfig(4, 6))
	require.Len(t, h.sims, 2)
	assert.Equal(t, 10, h.exec.Status().LEDs)
	assert.Len(t, h.exec.Env().Pins, 2)

	require.NoError(t, h.exec.White(100))
	for _, sim := range h.sims {
		for _, b := range sim.Last() {
			assert.Equal(t, byte(255), b)
		}
	}
}

func TestConfigChangeReportsDriverErrors(t *testing.T) {
	e := New(WithOpener(func(led.Opts) (led.Driver, error) {
		return nil, errors.New("no such port")
	}))
	err := e.ConfigChange(simConfig(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such port")
	assert.Equal(t, 0, e.Status().LEDs)
}

func TestReversedPin(t *testing.T) {
	cfg := simConfig(5)
	cfg.Pins[0].Reverse = true
	h := newHarness(t, cfg)
	s, err := script.Parse(map[string]any{
		"elements": []any{map[string]any{
			"type":   "hsl",
			"hue":    0.0,
			"length": "1px",
		}},
	}, h.exec.Env())
	require.NoError(t, err)
	h.exec.SetScript(s, nil)
	require.NoError(t, h.exec.Step())

	frame := h.sims[0].Last()
	assert.Equal(t, 0, sum(frame[:12]))
	assert.NotZero(t, sum(frame[12:]))
}

func TestSolidDefaultsAndParams(t *testing.T) {
	h := newHarness(t, simConfig(3))
	require.NoError(t, h.exec.Solid(map[string]any{"hue": 0.0}))
	frame := h.sims[0].Last()
	assert.Greater(t, frame[0], frame[1])
	assert.Equal(t, byte(0), frame[2])

	require.NoError(t, h.exec.Solid(map[string]any{"hue": 0.0, "lightness": "var(dim)|0"}))
	assert.Equal(t, 0, sum(h.sims[0].Last()))

	require.NoError(t, h.exec.Solid(nil))
	assert.NotZero(t, sum(h.sims[0].Last()))
}

func TestTurnOffEndsScript(t *testing.T) {
	h := newHarness(t, simConfig(4))
	s, err := script.ParseJSON([]byte(`{"name":"glow","elements":[{"hue":90}]}`), h.exec.Env())
	require.NoError(t, err)
	h.exec.SetScript(s, nil)
	require.NoError(t, h.exec.Step())
	assert.Equal(t, "glow", h.exec.Status().Script)
	assert.NotZero(t, sum(h.sims[0].Last()))

	require.NoError(t, h.exec.TurnOff())
	assert.Empty(t, h.exec.Status().Script)
	assert.Equal(t, 0, sum(h.sims[0].Last()))

	frames := h.sims[0].Frames()
	require.NoError(t, h.exec.Step())
	assert.Equal(t, frames, h.sims[0].Frames())
}

func TestStepCountsFrames(t *testing.T) {
	h := newHarness(t, simConfig(4))
	s, err := script.ParseJSON([]byte(`{"frequency":10,"elements":[{"hue":90}]}`), h.exec.Env())
	require.NoError(t, err)
	h.exec.SetScript(s, nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, h.exec.Step())
		h.now += 20
	}
	assert.Equal(t, 3, h.exec.Status().Steps)
	assert.Equal(t, 3, h.sims[0].Frames())
}

func TestPowerLimitDimsFrame(t *testing.T) {
	full := newHarness(t, simConfig(10))
	require.NoError(t, full.exec.White(100))

	cfg := simConfig(10)
	cfg.Power.LimitAmps = 0.05
	limited := newHarness(t, cfg)
	require.NoError(t, limited.exec.White(100))

	assert.Less(t, sum(limited.sims[0].Last()), sum(full.sims[0].Last()))
}

func TestCloseReleasesStrips(t *testing.T) {
	h := newHarness(t, simConfig(2))
	require.NoError(t, h.exec.White(50))
	require.NoError(t, h.exec.Close())
	assert.Equal(t, 0, sum(h.sims[0].Last()))
	assert.Equal(t, 0, h.exec.Status().LEDs)
	assert.NoError(t, h.exec.White(50))
}

type brokenDriver struct{}

func (brokenDriver) Write([]byte) error { return errors.New("bus fault") }
func (brokenDriver) Close() error       { return errors.New("close fault") }

func TestDriverFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	e := New(WithOpener(func(led.Opts) (led.Driver, error) { return brokenDriver{}, nil }))
	require.NoError(t, e.ConfigChange(simConfig(2)))
	assert.Error(t, e.White(10))

	require.NoError(t, e.ConfigChange(simConfig(2)))
	assert.Contains(t, buf.String(), "bus fault")
	assert.Contains(t, buf.String(), "close fault")

	buf.Reset()
	assert.Error(t, e.Close())
	assert.Contains(t, buf.String(), "turn off")
}
