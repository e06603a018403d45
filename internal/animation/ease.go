package animation

import (
	"math"
	"strings"

	"github.com/tanema/gween/ease"
)

// Ease reshapes progress in [0,1].
type Ease interface {
	Calc(p float64) float64
}

// Linear leaves progress unchanged.
type Linear struct{}

func (Linear) Calc(p float64) float64 { return p }

// Cubic is a cubic bezier from 0 to 1 with control points set by In and Out.
type Cubic struct {
	In, Out float64
}

// DefaultCubic is the curve used when no in/out is given.
var DefaultCubic = Cubic{In: 1, Out: 0}

func (c Cubic) Calc(p float64) float64 {
	in := 1 - c.In
	return 3*math.Pow(1-p, 2)*p*in + 3*(1-p)*math.Pow(p, 2)*c.Out + math.Pow(p, 3)
}

// tween adapts a gween curve over unit time and distance.
type tween struct {
	name string
	fn   ease.TweenFunc
}

func (t tween) Calc(p float64) float64 {
	return float64(t.fn(float32(clamp01(p)), 0, 1, 1))
}

func (t tween) String() string { return t.name }

var named = map[string]ease.TweenFunc{
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
}

// Named looks up a curve by name. "linear" is always known.
func Named(name string) (Ease, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "linear" {
		return Linear{}, true
	}
	fn, ok := named[name]
	if !ok {
		return nil, false
	}
	return tween{name: name, fn: fn}, true
}
