package strip

import (
	"errors"
	"fmt"

	"github.com/coreman2200/stripscript/internal/color"
	"github.com/coreman2200/stripscript/internal/led"
)

// DefaultPixelsPerMeter is used when a pin does not say.
const DefaultPixelsPerMeter = 30

// LEDStrip is a physical RGB strip.
type LEDStrip interface {
	SetColor(index int, c color.RGB)
	// SetBrightness takes a percentage 0-100.
	SetBrightness(level int)
	Show() error
	Count() int
	Clear()
	PixelsPerMeter() int
}

// Pin is one strip of LEDs behind a driver.
type Pin struct {
	drv        led.Driver
	buf        []color.RGB
	raw        []byte
	ppm        int
	brightness int
	max        int
}

// NewPin wraps drv with count LEDs. maxBrightness caps every SetBrightness;
// zero means no cap.
func NewPin(drv led.Driver, count, pixelsPerMeter, maxBrightness int) *Pin {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = DefaultPixelsPerMeter
	}
	return &Pin{
		drv:        drv,
		buf:        make([]color.RGB, count),
		raw:        make([]byte, count*3),
		ppm:        pixelsPerMeter,
		brightness: 40,
		max:        maxBrightness,
	}
}

func (p *Pin) SetColor(index int, c color.RGB) {
	if index < 0 || index >= len(p.buf) {
		return
	}
	p.buf[index] = c
}

func (p *Pin) SetBrightness(level int) {
	if p.max > 0 && level > p.max {
		level = p.max
	}
	p.brightness = level
}

// Brightness is the effective level after the cap.
func (p *Pin) Brightness() int { return p.brightness }

func (p *Pin) Show() error {
	for i, c := range p.buf {
		s := c.Scale(p.brightness, 0)
		p.raw[i*3], p.raw[i*3+1], p.raw[i*3+2] = s.R, s.G, s.B
	}
	return p.drv.Write(p.raw)
}

func (p *Pin) Count() int { return len(p.buf) }

func (p *Pin) Clear() {
	for i := range p.buf {
		p.buf[i] = color.RGB{}
	}
}

func (p *Pin) PixelsPerMeter() int { return p.ppm }

// Close releases the driver.
func (p *Pin) Close() error { return p.drv.Close() }

// Compound joins strips end to end.
type Compound struct {
	strips []LEDStrip
	ppm    int
}

// NewCompound reports pixelsPerMeter for the whole chain.
func NewCompound(pixelsPerMeter int, strips ...LEDStrip) *Compound {
	return &Compound{strips: strips, ppm: pixelsPerMeter}
}

// Add appends a strip.
func (c *Compound) Add(s LEDStrip) { c.strips = append(c.strips, s) }

// Strips returns the joined strips in order.
func (c *Compound) Strips() []LEDStrip { return c.strips }

// PixelsPerMeter is that of the first strip. Chains mixing densities get the
// first one's.
func (c *Compound) PixelsPerMeter() int {
	if len(c.strips) == 0 {
		return 0
	}
	return c.strips[0].PixelsPerMeter()
}

func (c *Compound) SetColor(index int, col color.RGB) {
	if index < 0 {
		return
	}
	for _, s := range c.strips {
		if index < s.Count() {
			s.SetColor(index, col)
			return
		}
		index -= s.Count()
	}
}

func (c *Compound) SetBrightness(level int) {
	for _, s := range c.strips {
		s.SetBrightness(level)
	}
}

func (c *Compound) Show() error {
	var errs []error
	for i, s := range c.strips {
		if err := s.Show(); err != nil {
			errs = append(errs, fmt.Errorf("strip %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Compound) Count() int {
	n := 0
	for _, s := range c.strips {
		n += s.Count()
	}
	return n
}

func (c *Compound) Clear() {
	for _, s := range c.strips {
		s.Clear()
	}
}

// Close closes every strip that can be closed.
func (c *Compound) Close() error {
	var errs []error
	for _, s := range c.strips {
		if cl, ok := s.(interface{ Close() error }); ok {
			errs = append(errs, cl.Close())
		}
	}
	return errors.Join(errs...)
}

// Reverse flips the index order of a strip.
type Reverse struct {
	LEDStrip
}

func (r Reverse) SetColor(index int, c color.RGB) {
	r.LEDStrip.SetColor(r.Count()-index-1, c)
}

// Close closes the wrapped strip when it can be closed.
func (r Reverse) Close() error {
	if cl, ok := r.LEDStrip.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}
