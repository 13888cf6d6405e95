package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/arcaluminis-marquee/internal/clock"
	"github.com/coreman2200/arcaluminis-marquee/internal/config"
	diag "github.com/coreman2200/arcaluminis-marquee/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-marquee/internal/led"
	"github.com/coreman2200/arcaluminis-marquee/internal/present"
	"github.com/coreman2200/arcaluminis-marquee/internal/worker"
	"github.com/coreman2200/arcaluminis-marquee/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides where set) ----
	def := config.Default()
	var (
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		addr        = flag.String("addr", def.Addr, "HTTP listen address")
		hz          = flag.Int("hz", def.RefreshHz, "display refresh rate")
		text        = flag.String("text", def.Text, "text to bounce")
		font        = flag.String("font", "", "TTF/OTF font file (default Go Regular)")
		fontSize    = flag.Float64("font-size", def.FontSize, "font size in pixels")
		color       = flag.String("color", def.Color, "solid text color until a frame arrives")
		frameSource = flag.String("frame-source", def.FrameSource, "frame source announced to the host")
		driver      = flag.String("driver", def.Driver, "LED output: none | sim | spi | console")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective config ----
	cfg := def
	cfg.Addr, cfg.RefreshHz = *addr, *hz
	cfg.Text, cfg.FontPath, cfg.FontSize = *text, *font, *fontSize
	cfg.Color, cfg.FrameSource, cfg.Driver = *color, *frameSource, *driver
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = config.Merge(cfg, c)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Transport, presenter, session ----
	inbox := make(chan worker.Message, 16)
	host := ws.NewHost(ctx, inbox, cfg.Viewers.MaxFPS, ws.Limits{
		MaxSide:         cfg.Limits.MaxSide,
		MaxMessageBytes: cfg.Limits.MaxMessageBytes,
	})

	consumers := []present.Consumer{host}
	matrix := openMatrix(cfg, host.Report)
	if matrix != nil {
		consumers = append(consumers, matrix)
	}
	mbox := present.NewMailbox(log.Logger, consumers...)

	session, err := worker.NewSession(worker.Options{
		Text:        cfg.Text,
		FontPath:    cfg.FontPath,
		FontSize:    cfg.FontSize,
		Baseline:    cfg.Baseline,
		Color:       cfg.Color,
		FrameSource: cfg.FrameSource,
	}, host, mbox, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("session init failed")
	}
	session.SetReporter(host.Report)
	host.SetHealth(func() any {
		return map[string]any{
			"status":  session.Status(),
			"present": mbox.Stats(),
			"driver":  cfg.Driver,
		}
	})

	display := clock.NewDisplay(cfg.RefreshHz)
	defer display.Stop()

	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		if err := session.Run(ctx, inbox, display.C()); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("session ended")
		}
	}()
	presentDone := make(chan struct{})
	go func() {
		defer close(presentDone)
		_ = mbox.Run(ctx)
	}()

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/control", host.HandleControlWS)
	mux.HandleFunc("/frames", host.HandleFramesWS)
	mux.HandleFunc("/diag", host.HandleDiagWS)
	mux.HandleFunc("/health", host.HandleHealth)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Int("hz", cfg.RefreshHz).Str("driver", cfg.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	_ = srv.Close()
	<-sessionDone
	<-presentDone
	if err := session.Close(); err != nil {
		log.Warn().Err(err).Msg("session close")
	}
	if matrix != nil {
		_ = matrix.Close()
	}
}

// openMatrix builds the LED consumer for cfg.Driver, or nil for "none".
// Hardware that fails to open falls back to the simulator.
func openMatrix(cfg *config.Config, report diag.Reporter) *led.Matrix {
	l := led.Layout{Width: cfg.Matrix.Width, Height: cfg.Matrix.Height, Serpentine: cfg.Matrix.Serpentine}
	if cfg.Driver == "" || cfg.Driver == "none" || l.Count() <= 0 {
		return nil
	}
	power := led.Power{
		Brightness: cfg.Power.Brightness,
		WhiteCap:   cfg.Power.WhiteCap,
		ChanMA:     cfg.Power.ChanMA,
		BudgetMA:   cfg.Power.BudgetMA,
	}

	var drv led.Driver
	switch cfg.Driver {
	case "sim":
		drv = &led.Sim{}
	case "console":
		drv = led.NewConsole(l.Count())
	case "spi":
		freq := physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		s, err := led.OpenSPI(cfg.SPI.Dev, l.Count(), freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			report(diag.New(diag.Warn, diag.DriverFallback, "SPI init failed; using simulator").
				With("error", err.Error()))
			drv = &led.Sim{}
		} else {
			drv = s
		}
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		drv = &led.Sim{}
	}
	return led.NewMatrix(l, drv, power)
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
