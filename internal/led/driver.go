package led

import (
	"fmt"
	"strings"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Opts selects and configures a driver for one pin.
type Opts struct {
	Pin        int
	Driver     string // "spi" | "console" | "sim"; "preview" is opened by the caller
	Dev        string // SPI port name, empty for the first one
	Count      int
	ColorOrder string // wire order, e.g. "GRB"
	FreqKHz    int
}

// Open creates the driver named in o. An "spi" driver falls back to the
// console when no SPI port is available.
func Open(o Opts) (Driver, error) {
	if o.Count < 0 {
		return nil, fmt.Errorf("invalid LED count: %d", o.Count)
	}
	switch strings.ToLower(o.Driver) {
	case "spi", "":
		d, err := OpenSPI(o.Dev, o.Count, o.ColorOrder, o.FreqKHz)
		if err != nil {
			return Console(o.Count), fmt.Errorf("spi %q: %w", o.Dev, err)
		}
		return d, nil
	case "console":
		return Console(o.Count), nil
	case "sim":
		return NewSim(o.Count), nil
	}
	return nil, fmt.Errorf("unknown driver %q", o.Driver)
}
