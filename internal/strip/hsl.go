package strip

import "github.com/coreman2200/stripscript/internal/color"

// HueUnset marks an LED no element wrote a hue to. It is shown dark.
const HueUnset = 9999

const unset = -1

// HSLStrip buffers hue, saturation and lightness per LED and combines writes
// with an Op. Show converts the buffer to RGB on the base strip.
type HSLStrip struct {
	base       LEDStrip
	hue        []int
	saturation []int
	lightness  []int
}

func NewHSLStrip(base LEDStrip) *HSLStrip {
	s := &HSLStrip{base: base}
	s.Clear()
	return s
}

// Base is the wrapped strip.
func (s *HSLStrip) Base() LEDStrip { return s.base }

func (s *HSLStrip) Count() int { return len(s.hue) }

func (s *HSLStrip) PixelsPerMeter() int { return s.base.PixelsPerMeter() }

func (s *HSLStrip) SetBrightness(level int) { s.base.SetBrightness(level) }

// Clear marks every LED unset, resizing to the base strip.
func (s *HSLStrip) Clear() {
	n := s.base.Count()
	if len(s.hue) != n {
		s.hue = make([]int, n)
		s.saturation = make([]int, n)
		s.lightness = make([]int, n)
	}
	for i := 0; i < n; i++ {
		s.hue[i] = HueUnset
		s.saturation[i] = unset
		s.lightness[i] = unset
	}
}

func (s *HSLStrip) valid(index int) bool {
	return index >= 0 && index < len(s.hue)
}

// apply treats an unset current value as absent: the operand replaces it,
// except subtract which gives 0.
func apply(op color.Op, current, operand int) int {
	if current < 0 {
		if op == color.Subtract {
			return 0
		}
		return operand
	}
	return op.Apply(current, operand)
}

// SetHue combines hue into the LED and wraps the result into 0-359.
func (s *HSLStrip) SetHue(index, hue int, op color.Op) {
	if !s.valid(index) {
		return
	}
	cur := s.hue[index]
	if cur == HueUnset {
		cur = unset
	}
	h := apply(op, cur, hue)
	if h < 0 {
		h = 360 - (-h % 360)
	}
	s.hue[index] = h % 360
}

// SetSaturation ignores values outside 0-100.
func (s *HSLStrip) SetSaturation(index, saturation int, op color.Op) {
	if !s.valid(index) || saturation < 0 || saturation > 100 {
		return
	}
	if s.saturation[index] == unset {
		s.saturation[index] = 100
	}
	s.saturation[index] = color.Clamp(0, 100, apply(op, s.saturation[index], saturation))
}

// SetLightness ignores values outside 0-100.
func (s *HSLStrip) SetLightness(index, lightness int, op color.Op) {
	if !s.valid(index) || lightness < 0 || lightness > 100 {
		return
	}
	if s.lightness[index] == unset {
		s.lightness[index] = 50
	}
	s.lightness[index] = color.Clamp(0, 100, apply(op, s.lightness[index], lightness))
}

// SetRGB writes all three components of the colour.
func (s *HSLStrip) SetRGB(index int, c color.RGB, op color.Op) {
	hsl := color.FromRGB(c)
	s.SetHue(index, hsl.H, op)
	s.SetSaturation(index, hsl.S, op)
	s.SetLightness(index, hsl.L, op)
}

// HSL reports the buffered values of one LED, with defaults filled in the way
// Show renders them.
func (s *HSLStrip) HSL(index int) color.HSL {
	if !s.valid(index) {
		return color.HSL{}
	}
	h, sat, l := s.hue[index], s.saturation[index], s.lightness[index]
	if h == HueUnset {
		h, l = 0, 0
	}
	return color.NewHSL(h, orDefault(sat, 100), orDefault(l, 50))
}

func orDefault(v, def int) int {
	if v < 0 || v > 100 {
		return def
	}
	return v
}

func (s *HSLStrip) Show() error {
	for i := range s.hue {
		s.base.SetColor(i, s.HSL(i).RGB())
	}
	return s.base.Show()
}
