package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/stripscript/internal/config"
	"github.com/coreman2200/stripscript/internal/executor"
	"github.com/coreman2200/stripscript/internal/led"
	"github.com/coreman2200/stripscript/internal/preview"
	"github.com/coreman2200/stripscript/internal/runner"
	"github.com/coreman2200/stripscript/internal/script"
	"github.com/coreman2200/stripscript/internal/store"
)

// control runs /control commands against the executor and the script store.
type control struct {
	*executor.Executor
	store *store.Store
	hub   *preview.Hub
}

func (c *control) Start(name string, params map[string]any) error {
	s, err := c.store.Load(name, c.Env())
	if err != nil {
		return err
	}
	c.SetScript(s, params)
	c.hub.Push(preview.Diagnostic{Severity: preview.Info, Code: preview.CodeScriptStarted, Summary: "Script started", Script: s.Name()})
	return nil
}

func main() {
	// ---- Flags (config.yaml overrides them where set) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		scriptDir  = flag.String("script-dir", "data", "directory holding script/<name>.json")
		start      = flag.String("script", "", "script to start on boot")
		brightness = flag.Int("brightness", 40, "strip brightness percent")
		frequency  = flag.Int("frequency-ms", 20, "step loop period in msecs")
		logLevel   = flag.String("log-level", "info", "log level")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg := config.Default()
	cfg.Addr, cfg.ScriptDir, cfg.Script = *addr, *scriptDir, *start
	cfg.Brightness, cfg.FrequencyMS, cfg.LogLevel = *brightness, *frequency, *logLevel
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		merge(cfg, c)
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if *simOnly {
		for i := range cfg.Pins {
			cfg.Pins[i].Driver = "sim"
		}
	}

	// ---- Executor ----
	hub := preview.NewHub()
	exec := executor.New(
		executor.WithEnv(script.NewEnv(nil)),
		executor.WithOpener(func(o led.Opts) (led.Driver, error) {
			if strings.EqualFold(o.Driver, "preview") {
				return hub.Driver(o.Pin, o.Count), nil
			}
			return led.Open(o)
		}),
	)
	if err := exec.ConfigChange(cfg); err != nil {
		log.Fatal().Err(err).Msg("configure strips")
	}
	hub.SetStatus(func() any { return exec.Status() })

	ctrl := &control{Executor: exec, store: store.New(cfg.ScriptDir), hub: hub}
	if cfg.Script != "" {
		if err := ctrl.Start(cfg.Script, nil); err != nil {
			log.Warn().Err(err).Str("script", cfg.Script).Msg("boot script not started")
		}
	}

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	hub.Register(mux, ctrl)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("leds", cfg.LEDCount()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Run loop until SIGINT/SIGTERM ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runner.New(exec, time.Duration(cfg.FrequencyMS)*time.Millisecond, false).Run(ctx)
	log.Info().Msg("shutting down")

	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdown)
	if err := exec.Close(); err != nil {
		log.Warn().Err(err).Msg("close strips")
	}
}

// merge copies the fields set in c over cfg.
func merge(cfg, c *config.Config) {
	if c.Brightness > 0 {
		cfg.Brightness = c.Brightness
	}
	if c.MaxBrightness > 0 {
		cfg.MaxBrightness = c.MaxBrightness
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.ScriptDir != "" {
		cfg.ScriptDir = c.ScriptDir
	}
	if c.Script != "" {
		cfg.Script = c.Script
	}
	if c.FrequencyMS > 0 {
		cfg.FrequencyMS = c.FrequencyMS
	}
	if len(c.Pins) > 0 {
		cfg.Pins = c.Pins
	}
	cfg.Power = c.Power
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
