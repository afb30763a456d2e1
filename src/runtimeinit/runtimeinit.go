package runtimeinit

import (
	"fmt"
	"log"

	"golang.org/x/image/draw"

	"screen-zoom/src/config"
	"screen-zoom/src/output"
	"screen-zoom/src/overlay"
	"screen-zoom/src/screenshot"
	"screen-zoom/src/session"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
}

// Runtime is everything a session needs, built from configuration.
type Runtime struct {
	Config  *config.Config
	Session session.Options
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	rt := &Runtime{Config: cfg}
	switch cfg.Backend {
	case config.BackendX11:
		rt.Session.Lister = output.NewX11()
		rt.Session.Capturer = screenshot.NewX11()
	default:
		rt.Session.Lister = output.NewSway(cfg.SwaymsgPath)
		rt.Session.Capturer = screenshot.NewGrim(cfg.GrimPath)
	}
	rt.Session.Host = overlay.New(overlay.Options{
		Scaler:  Scaler(cfg.Scaler),
		Workers: cfg.RenderWorkers,
	})

	log.Printf("Runtime: backend=%s scaler=%s workers=%d", cfg.Backend, cfg.Scaler, cfg.RenderWorkers)
	return rt, nil
}

// Scaler maps a configured scaler name to its x/image/draw implementation.
// Unknown names fall back to nearest-neighbor.
func Scaler(name string) draw.Scaler {
	switch name {
	case config.ScalerBilinear:
		return draw.ApproxBiLinear
	case config.ScalerCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}
