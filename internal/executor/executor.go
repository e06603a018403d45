package executor

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/stripscript/internal/color"
	"github.com/coreman2200/stripscript/internal/config"
	"github.com/coreman2200/stripscript/internal/led"
	"github.com/coreman2200/stripscript/internal/script"
	"github.com/coreman2200/stripscript/internal/strip"
)

// Opener creates the driver for one pin.
type Opener func(o led.Opts) (led.Driver, error)

// Executor owns the physical strip chain and the running script.
type Executor struct {
	mu sync.Mutex

	env    *script.Env
	open   Opener
	chain  *strip.Compound
	hsl    *strip.HSLStrip
	script *script.Script
	params map[string]any
	steps  int

	log  zerolog.Logger
	idle zerolog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithOpener replaces led.Open, e.g. to route "preview" pins to a hub.
func WithOpener(open Opener) Option {
	return func(e *Executor) { e.open = open }
}

// WithEnv sets the script environment.
func WithEnv(env *script.Env) Option {
	return func(e *Executor) { e.env = env }
}

func New(opts ...Option) *Executor {
	e := &Executor{open: led.Open}
	for _, o := range opts {
		o(e)
	}
	if e.env == nil {
		e.env = script.NewEnv(nil)
	}
	e.log = log.With().Str("component", "executor").Logger()
	e.idle = e.log.Sample(&zerolog.BurstSampler{Burst: 1, Period: 5 * time.Second})
	return e
}

// Env is the environment scripts are parsed against.
func (e *Executor) Env() *script.Env { return e.env }

// ConfigChange turns the strip off and rebuilds the chain from cfg.
func (e *Executor) ConfigChange(cfg *config.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hsl != nil {
		if err := e.turnOff(); err != nil {
			e.log.Warn().Err(err).Msg("turn off")
		}
	}
	if e.chain != nil {
		if err := e.chain.Close(); err != nil {
			e.log.Warn().Err(err).Msg("close strips")
		}
		e.chain, e.hsl = nil, nil
	}

	chain := strip.NewCompound(0)
	for _, p := range cfg.Pins {
		drv, err := e.open(led.Opts{
			Pin:        p.Number,
			Driver:     p.Driver,
			Dev:        p.Dev,
			Count:      p.LEDCount,
			ColorOrder: p.ColorOrder,
			FreqKHz:    p.FreqKHz,
		})
		if drv == nil {
			if cerr := chain.Close(); cerr != nil {
				e.log.Warn().Err(cerr).Msg("close strips")
			}
			return fmt.Errorf("pin %d: %w", p.Number, err)
		}
		if err != nil {
			e.log.Warn().Err(err).Int("pin", p.Number).Msg("driver fell back")
		}
		var s strip.LEDStrip = strip.NewPin(drv, p.LEDCount, p.PixelsPerMeter, p.MaxBrightness)
		if p.Reverse {
			s = strip.Reverse{LEDStrip: s}
		}
		chain.Add(s)
	}

	var base strip.LEDStrip = chain
	if cfg.Power.LimitAmps > 0 || cfg.Power.WhiteCap > 0 {
		base = strip.NewLimited(chain, strip.Limiter{
			WhiteCap: cfg.Power.WhiteCap,
			BudgetMA: cfg.Power.LimitAmps * 1000,
		})
	}
	e.chain = chain
	e.hsl = strip.NewHSLStrip(base)
	e.hsl.SetBrightness(cfg.Brightness)
	e.env.Pins = append([]config.Pin(nil), cfg.Pins...)
	e.log.Info().Int("pins", len(cfg.Pins)).Int("leds", e.hsl.Count()).Msg("strips configured")
	return nil
}

// SetScript ends the running script and begins s with params.
func (e *Executor) SetScript(s *script.Script, params map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endScript()
	if e.hsl == nil {
		e.log.Warn().Str("script", s.Name()).Msg("no strips configured")
		return
	}
	s.Begin(e.hsl, params)
	e.script = s
	e.params = params
	e.steps = 0
	e.log.Info().Str("script", s.Name()).Int("brightness", s.Brightness()).Msg("script started")
}

// EndScript drops the running script.
func (e *Executor) EndScript() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endScript()
}

func (e *Executor) endScript() {
	if e.script != nil {
		e.log.Info().Str("script", e.script.Name()).Int("steps", e.steps).Msg("script ended")
	}
	e.script = nil
	e.params = nil
}

// Step runs one step of the script.
func (e *Executor) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.script == nil {
		e.idle.Info().Msg("nothing to run")
		return nil
	}
	if err := e.script.Step(); err != nil {
		return fmt.Errorf("step %s: %w", e.script.Name(), err)
	}
	e.steps++
	return nil
}

// TurnOff ends the script and blanks the strip.
func (e *Executor) TurnOff() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turnOff()
}

func (e *Executor) turnOff() error {
	e.endScript()
	return e.fill(0, 0, 0)
}

// White ends the script and shows white at a lightness level.
func (e *Executor) White(level int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endScript()
	return e.fill(0, 0, level)
}

// Solid ends the script and shows the colour given by the hue, saturation and
// lightness params.
func (e *Executor) Solid(params map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endScript()
	ctx := script.NewRootContext(e.env)
	param := func(name string, def int) int {
		v, ok := params[name]
		if !ok {
			return def
		}
		return script.ParseValue(v).Int(ctx, def)
	}
	return e.fill(param("hue", 150), param("saturation", 100), param("lightness", 50))
}

func (e *Executor) fill(hue, saturation, lightness int) error {
	if e.hsl == nil {
		return nil
	}
	e.hsl.Clear()
	for i := 0; i < e.hsl.Count(); i++ {
		e.hsl.SetHue(i, hue, color.Replace)
		e.hsl.SetSaturation(i, saturation, color.Replace)
		e.hsl.SetLightness(i, lightness, color.Replace)
	}
	return e.hsl.Show()
}

// Status is a snapshot for health reporting.
type Status struct {
	Script string `json:"script,omitempty"`
	Steps  int    `json:"steps"`
	LEDs   int    `json:"leds"`
}

func (e *Executor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{Steps: e.steps}
	if e.script != nil {
		st.Script = e.script.Name()
	}
	if e.hsl != nil {
		st.LEDs = e.hsl.Count()
	}
	return st
}

// Close turns the strip off and releases the drivers.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.chain == nil {
		return nil
	}
	if err := e.turnOff(); err != nil {
		e.log.Warn().Err(err).Msg("turn off")
	}
	err := e.chain.Close()
	e.chain, e.hsl = nil, nil
	return err
}
