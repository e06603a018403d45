package strip

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/stripscript/internal/color"
	"github.com/coreman2200/stripscript/internal/led"
)

func newPin(t *testing.T, n, max int) (*Pin, *led.Sim) {
	t.Helper()
	sim := led.NewSim(n)
	return NewPin(sim, n, 60, max), sim
}

func TestPinBrightnessCap(t *testing.T) {
	p, sim := newPin(t, 2, 50)
	p.SetBrightness(80)
	assert.Equal(t, 50, p.Brightness())
	p.SetColor(0, color.RGB{R: 200, G: 100, B: 50})
	p.SetColor(5, color.RGB{R: 1})
	require.NoError(t, p.Show())
	assert.Equal(t, []byte{100, 50, 25, 0, 0, 0}, sim.Last())
}

func TestCompoundRoutesByCount(t *testing.T) {
	a, simA := newPin(t, 2, 0)
	b, simB := newPin(t, 3, 0)
	c := NewCompound(a.PixelsPerMeter(), a, Reverse{b})
	c.SetBrightness(100)
	assert.Equal(t, 5, c.Count())
	assert.Equal(t, 60, c.PixelsPerMeter())

	c.SetColor(1, color.RGB{R: 9})
	c.SetColor(2, color.RGB{G: 9})
	c.SetColor(7, color.RGB{B: 9})
	require.NoError(t, c.Show())
	assert.Equal(t, []byte{0, 0, 0, 9, 0, 0}, simA.Last())
	// reversed: compound index 2 is the last LED of b
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 9, 0}, simB.Last())
}

var TestHSLOpsAreExpected = []struct {
	Name   string
	Writes func(s *HSLStrip)
	Expect color.HSL
}{
	{"unset is dark", func(s *HSLStrip) {}, color.HSL{H: 0, S: 100, L: 0}},
	{"hue defaults", func(s *HSLStrip) { s.SetHue(0, 120, color.Replace) }, color.HSL{H: 120, S: 100, L: 50}},
	{"hue wraps", func(s *HSLStrip) {
		s.SetHue(0, 300, color.Replace)
		s.SetHue(0, 90, color.Add)
	}, color.HSL{H: 30, S: 100, L: 50}},
	{"negative hue wraps", func(s *HSLStrip) {
		s.SetHue(0, 10, color.Replace)
		s.SetHue(0, 40, color.Subtract)
	}, color.HSL{H: 330, S: 100, L: 50}},
	{"subtract from default lightness", func(s *HSLStrip) {
		s.SetHue(0, 10, color.Replace)
		s.SetLightness(0, 20, color.Subtract)
	}, color.HSL{H: 10, S: 100, L: 30}},
	{"out of range ignored", func(s *HSLStrip) {
		s.SetHue(0, 10, color.Replace)
		s.SetSaturation(0, 150, color.Replace)
		s.SetLightness(0, -1, color.Replace)
	}, color.HSL{H: 10, S: 100, L: 50}},
	{"clamped", func(s *HSLStrip) {
		s.SetHue(0, 10, color.Replace)
		s.SetLightness(0, 80, color.Replace)
		s.SetLightness(0, 80, color.Add)
	}, color.HSL{H: 10, S: 100, L: 100}},
	{"average", func(s *HSLStrip) {
		s.SetHue(0, 100, color.Replace)
		s.SetHue(0, 200, color.Average)
	}, color.HSL{H: 150, S: 100, L: 50}},
}

func TestHSLStripOps(t *testing.T) {
	for k, v := range TestHSLOpsAreExpected {
		t.Run(strconv.Itoa(k)+" "+v.Name, func(t *testing.T) {
			p, _ := newPin(t, 2, 0)
			s := NewHSLStrip(p)
			v.Writes(s)
			assert.Equal(t, v.Expect, s.HSL(0))
		})
	}
}

func TestHSLStripShow(t *testing.T) {
	p, sim := newPin(t, 2, 0)
	p.SetBrightness(100)
	s := NewHSLStrip(p)
	s.SetRGB(1, color.RGB{R: 255}, color.Replace)
	require.NoError(t, s.Show())
	assert.Equal(t, []byte{0, 0, 0, 255, 0, 0}, sim.Last())

	s.Clear()
	assert.Equal(t, color.HSL{H: 0, S: 100, L: 0}, s.HSL(1))
}

func TestLimiterBudgetClamp(t *testing.T) {
	buf := make([]color.RGB, 10)
	for i := range buf {
		buf[i] = color.RGB{R: 255, G: 255, B: 255}
	}
	lim := Limiter{ChanMA: 20, BudgetMA: 300, Knee: 0.9}
	// pre-limit current would be 10 * 60 = 600 mA
	lim.Apply(buf, 100)
	if cur := lim.Current(buf, 100); cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
}

func TestWhiteCap(t *testing.T) {
	buf := []color.RGB{{R: 255, G: 255, B: 255}}
	Limiter{WhiteCap: 1.5}.Apply(buf, 100)
	sum := (float64(buf[0].R) + float64(buf[0].G) + float64(buf[0].B)) / 255
	if sum > 1.5001 {
		t.Fatalf("expected sum <= 1.5, got %f", sum)
	}
}

func TestLimitedStrip(t *testing.T) {
	p, sim := newPin(t, 1, 0)
	l := NewLimited(p, Limiter{WhiteCap: 1.5})
	l.SetBrightness(100)
	l.SetColor(0, color.RGB{R: 255, G: 255, B: 255})
	require.NoError(t, l.Show())
	assert.Equal(t, []byte{127, 127, 127}, sim.Last())
}
