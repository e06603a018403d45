package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type PowerCfg struct {
	LimitAmps float64 `yaml:"limit_amps"`
	WhiteCap  float64 `yaml:"white_cap"`
}

// Pin describes one physical LED strip.
type Pin struct {
	Number         int    `yaml:"number"`
	LEDCount       int    `yaml:"led_count"`
	Reverse        bool   `yaml:"reverse,omitempty"`
	PixelsPerMeter int    `yaml:"pixels_per_meter,omitempty"` // default 30
	MaxBrightness  int    `yaml:"max_brightness,omitempty"`   // percent, default 50
	Driver         string `yaml:"driver"`                     // "spi" | "console" | "sim" | "preview"
	Dev            string `yaml:"dev,omitempty"`              // e.g. SPI0.0
	ColorOrder     string `yaml:"color_order,omitempty"`      // e.g. GRB
	FreqKHz        int    `yaml:"freq_khz,omitempty"`
}

type Config struct {
	Brightness    int    `yaml:"brightness"`     // percent
	MaxBrightness int    `yaml:"max_brightness"` // percent
	LogLevel      string `yaml:"log_level"`
	Addr          string `yaml:"addr"`
	ScriptDir     string `yaml:"script_dir"`
	Script        string `yaml:"script,omitempty"` // started on boot
	FrequencyMS   int    `yaml:"frequency_ms"`

	Pins  []Pin    `yaml:"pins"`
	Power PowerCfg `yaml:"power"`
}

// Default is a single 60 LED simulated strip.
func Default() *Config {
	c := &Config{
		Brightness:    40,
		MaxBrightness: 100,
		LogLevel:      "info",
		Addr:          ":8080",
		ScriptDir:     "data",
		FrequencyMS:   20,
		Pins:          []Pin{{Number: 0, LEDCount: 60, Driver: "sim"}},
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	for i := range c.Pins {
		p := &c.Pins[i]
		if p.PixelsPerMeter <= 0 {
			p.PixelsPerMeter = 30
		}
		if p.MaxBrightness <= 0 {
			p.MaxBrightness = 50
		}
		if p.ColorOrder == "" {
			p.ColorOrder = "GRB"
		}
	}
	if c.MaxBrightness <= 0 {
		c.MaxBrightness = 100
	}
}

// Pin returns the pin at position i in the chain.
func (c *Config) Pin(i int) (Pin, bool) {
	if i < 0 || i >= len(c.Pins) {
		return Pin{}, false
	}
	return c.Pins[i], true
}

// LEDCount is the total over every pin.
func (c *Config) LEDCount() int {
	n := 0
	for _, p := range c.Pins {
		n += p.LEDCount
	}
	return n
}

func (c *Config) validate() error {
	seen := map[int]bool{}
	for _, p := range c.Pins {
		if seen[p.Number] {
			return fmt.Errorf("pin number %d added more than once", p.Number)
		}
		seen[p.Number] = true
		if p.LEDCount < 0 {
			return fmt.Errorf("pin %d: invalid led_count %d", p.Number, p.LEDCount)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
