package color

import (
	imgcolor "image/color"
	"math"
	"strings"
)

// Hues of the named system colours.
const (
	Red     = 0
	Orange  = 30
	Yellow  = 60
	Green   = 90
	Cyan    = 180
	Blue    = 200
	Magenta = 285
	Purple  = 315
)

// Named is a hue with its system name.
type Named struct {
	Name string
	Hue  int
}

// SystemColors lists the hues exposed to scripts as sys(<name>).
var SystemColors = []Named{
	{"red", Red},
	{"orange", Orange},
	{"yellow", Yellow},
	{"green", Green},
	{"cyan", Cyan},
	{"blue", Blue},
	{"magenta", Magenta},
	{"purple", Purple},
}

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// NRGBA converts to an opaque image colour.
func (c RGB) NRGBA() imgcolor.NRGBA {
	return imgcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Scale dims the colour by a brightness percentage capped at max.
func (c RGB) Scale(brightness, max int) RGB {
	if max > 0 && brightness > max {
		brightness = max
	}
	if brightness >= 100 {
		return c
	}
	if brightness <= 0 {
		return RGB{}
	}
	f := float64(brightness) / 100.0
	return RGB{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// HSL holds hue 0-360, saturation 0-100 and lightness 0-100.
type HSL struct {
	H, S, L int
}

// NewHSL clamps each component into range.
func NewHSL(h, s, l int) HSL {
	return HSL{H: Clamp(0, 360, h), S: Clamp(0, 100, s), L: Clamp(0, 100, l)}
}

// Clamp limits val to [min, max].
func Clamp(min, max, val int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func hueToRGB(v1, v2, vh float64) float64 {
	if vh < 0 {
		vh += 1
	}
	if vh > 1 {
		vh -= 1
	}
	if 6*vh < 1 {
		return v1 + (v2-v1)*6*vh
	}
	if 2*vh < 1 {
		return v2
	}
	if 3*vh < 2 {
		return v1 + (v2-v1)*((2.0/3)-vh)*6
	}
	return v1
}

// RGB converts to 8-bit RGB.
func (c HSL) RGB() RGB {
	h := float64(c.H) / 360.0
	s := float64(c.S) / 100.0
	l := float64(c.L) / 100.0
	if s == 0 {
		v := uint8(l * 255)
		return RGB{v, v, v}
	}
	var v2 float64
	if l < 0.5 {
		v2 = l * (1 + s)
	} else {
		v2 = (l + s) - (l * s)
	}
	v1 := 2*l - v2
	return RGB{
		R: uint8(255 * hueToRGB(v1, v2, h+1.0/3)),
		G: uint8(255 * hueToRGB(v1, v2, h)),
		B: uint8(255 * hueToRGB(v1, v2, h-1.0/3)),
	}
}

// FromRGB converts 8-bit RGB to HSL.
func FromRGB(c RGB) HSL {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2
	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}
	return NewHSL(int(math.Round(h*360)), int(math.Round(s*100)), int(math.Round(l*100)))
}

// Op combines a newly written component with the value already in place.
type Op int

const (
	Replace Op = iota
	Add
	Subtract
	Average
	Min
	Max

	Inherit Op = 998
	Unset   Op = 999
)

var opNames = []string{"replace", "add", "subtract", "average", "min", "max"}

// ParseOp maps op text to an Op. Unknown text is Inherit.
func ParseOp(text string) Op {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "replace":
		return Replace
	case "add":
		return Add
	case "subtract", "sub":
		return Subtract
	case "average", "avg":
		return Average
	case "min":
		return Min
	case "max":
		return Max
	}
	return Inherit
}

func (o Op) String() string {
	if o >= Replace && o <= Max {
		return opNames[o]
	}
	if o == Unset {
		return "unset"
	}
	return "inherit"
}

// Resolved reports whether the op is a concrete operation.
func (o Op) Resolved() bool { return o >= Replace && o <= Max }

// Apply combines current and operand.
func (o Op) Apply(current, operand int) int {
	switch o {
	case Replace:
		return operand
	case Add:
		return current + operand
	case Subtract:
		return current - operand
	case Average:
		return (current + operand) / 2
	case Min:
		if current < operand {
			return current
		}
		return operand
	case Max:
		if current > operand {
			return current
		}
		return operand
	}
	return operand
}
