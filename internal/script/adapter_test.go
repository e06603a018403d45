package script

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/stripscript/internal/color"
	"github.com/coreman2200/stripscript/internal/led"
	"github.com/coreman2200/stripscript/internal/strip"
)

func newHSL(n int) (*strip.HSLStrip, *led.Sim) {
	sim := led.NewSim(n)
	return strip.NewHSLStrip(strip.NewPin(sim, n, 30, 0)), sim
}

var TestUnitsArePixels = []struct {
	Name   string
	Value  UnitValue
	Expect int
}{
	{"percent", UnitValue{25, UnitPercent}, 50},
	{"inherited percent", UnitValue{25, UnitInherit}, 50},
	{"pixels", UnitValue{10, UnitPixel}, 10},
	{"meter", UnitValue{1, UnitMeter}, strip.DefaultPixelsPerMeter},
}

func TestUnitToPixel(t *testing.T) {
	a := newAdapter(plainAdapter)
	a.parentLength = 200
	a.unit = UnitPercent
	for _, tc := range TestUnitsArePixels {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expect, a.UnitToPixel(tc.Value, -1))
		})
	}
}

func TestIdentityTranslate(t *testing.T) {
	a := newAdapter(plainAdapter)
	a.length = 10
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, a.translate(i))
	}
}

func TestReverseTranslate(t *testing.T) {
	a := newAdapter(plainAdapter)
	a.length = 10
	a.reverse = true
	a.relOffset = 5
	assert.Equal(t, 14, a.translate(0))
	assert.Equal(t, 5, a.translate(9))
}

func TestClipDropsOutOfRange(t *testing.T) {
	now := int64(1)
	hsl, _ := newHSL(10)
	root := NewRootAdapter(hsl, testEnv(&now))
	a := newAdapter(plainAdapter)
	a.SetParent(root)
	a.length = 5

	a.SetHue(120, 7, color.Replace)
	a.SetHue(120, -1, color.Replace)
	a.SetHue(120, 2, color.Replace)

	for i := 0; i < 10; i++ {
		if i == 2 {
			assert.Equal(t, color.HSL{H: 120, S: 100, L: 50}, hsl.HSL(i))
			continue
		}
		assert.Equal(t, 0, hsl.HSL(i).L, "led %d", i)
	}
}

func TestRootWraps(t *testing.T) {
	now := int64(1)
	hsl, _ := newHSL(10)
	root := NewRootAdapter(hsl, testEnv(&now))
	root.SetHue(60, 12, color.Replace)
	root.SetHue(30, -1, color.Replace)
	assert.Equal(t, 60, hsl.HSL(2).H)
	assert.Equal(t, 30, hsl.HSL(9).H)
}

func TestUnresolvedOpAtRoot(t *testing.T) {
	now := int64(1)
	hsl, _ := newHSL(1)
	root := NewRootAdapter(hsl, testEnv(&now))
	root.SetHue(10, 0, color.Inherit)
	root.SetHue(20, 0, color.Inherit)
	assert.Equal(t, 30, hsl.HSL(0).H)

	root.updateRoot(newRootPosition())
	root.SetHue(50, 0, color.Inherit)
	assert.Equal(t, 50, hsl.HSL(0).H)
}
