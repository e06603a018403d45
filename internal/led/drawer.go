package led

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/devices/v3/screen1d"
	"periph.io/x/host/v3"
)

// DefaultFreq suits WS2812 strips driven over SPI.
const DefaultFreq = 2500 * physic.KiloHertz

// Drawer pushes frames to a periph display as a one row image.
type Drawer struct {
	mu    sync.Mutex
	d     display.Drawer
	count int
	order [3]int
	img   *image.NRGBA
}

// NewDrawer wraps d. order maps each image channel to an input channel.
func NewDrawer(d display.Drawer, count int, order [3]int) *Drawer {
	return &Drawer{
		d:     d,
		count: count,
		order: order,
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

func (r *Drawer) String() string {
	return fmt.Sprintf("drawer{%s}", r.d)
}

func (r *Drawer) Write(rgb []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.d == nil {
		return fmt.Errorf("drawer closed")
	}
	if len(rgb) != r.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), r.count)
	}
	for i := 0; i < r.count; i++ {
		px := rgb[i*3 : i*3+3]
		r.img.SetNRGBA(i, 0, color.NRGBA{
			R: px[r.order[0]],
			G: px[r.order[1]],
			B: px[r.order[2]],
			A: 255,
		})
	}
	if err := r.d.Draw(r.d.Bounds(), r.img, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

func (r *Drawer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.d == nil {
		return nil
	}
	err := r.d.Halt()
	r.d = nil
	return err
}

// WireOrder returns the channel permutation that makes nrzled emit colours in
// the given wire order. nrzled itself sends the first two channels swapped
// (GRB), so "GRB" is the identity.
func WireOrder(order string) [3]int {
	order = strings.ToUpper(order)
	if len(order) != 3 {
		return [3]int{0, 1, 2}
	}
	wire := [3]int{}
	for i := 0; i < 3; i++ {
		switch order[i] {
		case 'R':
			wire[i] = 0
		case 'G':
			wire[i] = 1
		case 'B':
			wire[i] = 2
		default:
			return [3]int{0, 1, 2}
		}
	}
	return [3]int{wire[1], wire[0], wire[2]}
}

// NewSPI drives count LEDs over an already opened SPI port.
func NewSPI(p spi.Port, count int, colorOrder string, freq physic.Frequency) (*Drawer, error) {
	if freq <= 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return NewDrawer(d, count, WireOrder(colorOrder)), nil
}

// OpenSPI initialises the host and opens the named SPI port ("" for the
// first available).
func OpenSPI(dev string, count int, colorOrder string, freqKHz int) (*Drawer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi: %w", err)
	}
	return NewSPI(p, count, colorOrder, physic.Frequency(freqKHz)*physic.KiloHertz)
}

// Console prints frames as coloured blocks on the terminal.
func Console(count int) *Drawer {
	return NewDrawer(screen1d.New(&screen1d.Opts{X: count}), count, [3]int{0, 1, 2})
}
