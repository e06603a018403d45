package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/stripscript/internal/config"
	"github.com/coreman2200/stripscript/internal/executor"
	"github.com/coreman2200/stripscript/internal/led"
	"github.com/coreman2200/stripscript/internal/script"
	"github.com/coreman2200/stripscript/internal/store"
)

func main() {
	var (
		scriptPath string
		count      int
		steps      int
		stepMS     int
		seed       int64
		every      int
	)
	flag.StringVar(&scriptPath, "script", "", "path to a script document (JSON or YAML)")
	flag.IntVar(&count, "leds", 60, "simulated LED count")
	flag.IntVar(&steps, "steps", 100, "steps to run")
	flag.IntVar(&stepMS, "step-ms", 20, "simulated msecs between steps")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.IntVar(&every, "every", 10, "print every n-th frame")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if scriptPath == "" {
		log.Fatal().Msg("provide -script path to a script document")
	}
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		log.Fatal().Err(err).Msg("read script")
	}
	doc, err := store.Decode(data)
	if err != nil {
		log.Fatal().Err(err).Msg("decode script")
	}

	now := int64(1)
	env := &script.Env{
		Now:  func() int64 { return now },
		Rand: rand.New(rand.NewSource(seed)),
		Log:  log.With().Str("component", "script").Logger(),
	}
	s, err := script.Parse(doc, env)
	if err != nil {
		log.Fatal().Err(err).Msg("parse script")
	}

	sim := led.NewSim(count)
	exec := executor.New(executor.WithEnv(env), executor.WithOpener(func(led.Opts) (led.Driver, error) {
		return sim, nil
	}))
	cfg := &config.Config{Brightness: 100, Pins: []config.Pin{{LEDCount: count, Driver: "sim"}}}
	if err := exec.ConfigChange(cfg); err != nil {
		log.Fatal().Err(err).Msg("configure strip")
	}
	exec.SetScript(s, nil)

	shown := 0
	for i := 0; i < steps; i++ {
		if err := exec.Step(); err != nil {
			log.Fatal().Err(err).Int("step", i).Msg("step failed")
		}
		if f := sim.Frames(); f != shown {
			shown = f
			if every <= 1 || f%every == 1 {
				fmt.Printf("t=%6dms frame=%4d %s\n", now, f, summary(sim.Last()))
			}
		}
		if s.Complete() {
			fmt.Printf("Done at t=%dms\n", now)
			break
		}
		now += int64(stepMS)
	}
}

// summary counts lit LEDs and reports the mean colour and the first lit index.
func summary(rgb []byte) string {
	lit, first := 0, -1
	var r, g, b int
	for i := 0; i+2 < len(rgb); i += 3 {
		if rgb[i]|rgb[i+1]|rgb[i+2] == 0 {
			continue
		}
		if first < 0 {
			first = i / 3
		}
		lit++
		r += int(rgb[i])
		g += int(rgb[i+1])
		b += int(rgb[i+2])
	}
	if lit == 0 {
		return "dark"
	}
	return fmt.Sprintf("lit=%d first=%d mean=(%d,%d,%d)", lit, first, r/lit, g/lit, b/lit)
}
