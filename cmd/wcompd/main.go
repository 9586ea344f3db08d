// Command wcompd is the compositor core's process entrypoint: it
// wires the Geometry Manager, the Pipeline and a platform backend
// together and runs until SIGINT. Grounded on ctxmenu.go's own
// top-level wiring (build config, connect a backend, run an event
// loop) and original_source/src/main.rs's role as a thin bootstrap
// over wcomp.rs's WComp::run.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wcomp/wcomp/internal/config"
	"github.com/wcomp/wcomp/internal/geometry"
	"github.com/wcomp/wcomp/internal/pipeline"
	"github.com/wcomp/wcomp/internal/platform/sdlbackend"
	"github.com/wcomp/wcomp/internal/wlog"
)

func main() {
	log := wlog.New("wcompd")

	cmd := config.NewRootCommand(func(cfg config.Config) error {
		return run(cfg, log)
	})

	if err := cmd.Execute(); err != nil {
		log.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *wlog.Logger) error {
	if cfg.WaylandDisplay != "" {
		os.Setenv("WAYLAND_DISPLAY", cfg.WaylandDisplay)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geo := geometry.New()
	geo.Surfaces.SetBorderGrace(cfg.BorderGrace)

	p := pipeline.New(geo, nil, nil, nil, cfg.FrameRate)
	backend := sdlbackend.New()

	log.Info("starting", "frame-rate", cfg.FrameRate, "border-grace", cfg.BorderGrace)
	// No protocol implementation is wired in yet (spec.md §1 names the
	// Wayland protocol serializer as an external collaborator); Run
	// simply never selects on that source with a nil protowire.ProtocolSource.
	err := p.Run(ctx, backend, nil)
	if err != nil && err != context.Canceled {
		return err
	}
	log.Info("stopped")
	return nil
}
