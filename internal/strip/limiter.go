package strip

import "github.com/coreman2200/stripscript/internal/color"

// Limiter keeps a frame within power limits in two stages:
//  1. per LED white cap: scales R,G,B so their sum (as fractions of full
//     scale) stays <= WhiteCap (3 means no cap)
//  2. global current budget: estimates the frame current and scales the
//     whole frame down, softly from Knee*Budget and fully above Budget.
type Limiter struct {
	WhiteCap float64 // default 3
	ChanMA   float64 // mA per channel at full scale, default 20
	BudgetMA float64 // 0 disables the budget stage
	Knee     float64 // default 0.9
}

func (l Limiter) params() (whiteCap, chanMA, knee float64) {
	whiteCap, chanMA, knee = 3, 20, 0.9
	if l.WhiteCap > 0 {
		whiteCap = l.WhiteCap
	}
	if l.ChanMA > 0 {
		chanMA = l.ChanMA
	}
	if l.Knee > 0 && l.Knee < 1 {
		knee = l.Knee
	}
	return
}

// Current estimates the frame draw in mA at a brightness percentage.
func (l Limiter) Current(buf []color.RGB, brightness int) float64 {
	_, chanMA, _ := l.params()
	total := 0.0
	for _, c := range buf {
		total += (float64(c.R) + float64(c.G) + float64(c.B)) / 255 * chanMA
	}
	return total * float64(color.Clamp(0, 100, brightness)) / 100
}

// Apply limits buf in place for the given brightness percentage.
func (l Limiter) Apply(buf []color.RGB, brightness int) {
	whiteCap, _, knee := l.params()

	for i, c := range buf {
		s := (float64(c.R) + float64(c.G) + float64(c.B)) / 255
		if s > whiteCap && s > 0 {
			buf[i] = scale(c, whiteCap/s)
		}
	}

	if l.BudgetMA <= 0 {
		return
	}
	total := l.Current(buf, brightness)
	if total <= 0 {
		return
	}
	ratio := total / l.BudgetMA
	if ratio <= knee {
		return
	}
	minS := l.BudgetMA / total
	s := minS
	if ratio <= 1 {
		// map ratio in [knee,1] to scale in [1, budget/total]
		t := (ratio - knee) / (1 - knee)
		s = 1 - t*(1-minS)
	}
	if s >= 1 {
		return
	}
	for i := range buf {
		buf[i] = scale(buf[i], s)
	}
}

func scale(c color.RGB, s float64) color.RGB {
	return color.RGB{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
	}
}

// Limited buffers a frame and runs it through a Limiter before handing it to
// the base strip.
type Limited struct {
	LEDStrip
	lim        Limiter
	buf        []color.RGB
	brightness int
}

func NewLimited(base LEDStrip, lim Limiter) *Limited {
	return &Limited{LEDStrip: base, lim: lim, buf: make([]color.RGB, base.Count()), brightness: 100}
}

func (l *Limited) SetColor(index int, c color.RGB) {
	if index < 0 || index >= len(l.buf) {
		return
	}
	l.buf[index] = c
}

func (l *Limited) SetBrightness(level int) {
	l.brightness = level
	l.LEDStrip.SetBrightness(level)
}

func (l *Limited) Clear() {
	for i := range l.buf {
		l.buf[i] = color.RGB{}
	}
	l.LEDStrip.Clear()
}

func (l *Limited) Show() error {
	l.lim.Apply(l.buf, l.brightness)
	for i, c := range l.buf {
		l.LEDStrip.SetColor(i, c)
	}
	return l.LEDStrip.Show()
}

// Close closes the wrapped strip when it can be closed.
func (l *Limited) Close() error {
	if cl, ok := l.LEDStrip.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}
