package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"asciicube/internal/app"
	"asciicube/internal/ascii"
	"asciicube/internal/config"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/logging"

	"github.com/xlab/closer"
)

// GLFW and the GL context must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

const fallbackMessage = `asciicube: the ASCII renderer is not available on this system.
Try -backend terminal, or -backend snapshot -out frame.png.`

func main() {
	defer closer.Close()

	s, err := parseFlags(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "asciicube:", err)
		}
		closer.Exit(2)
		return
	}

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(s.GetLogLevel()),
	})))

	quit := app.NewQuit()
	closer.Bind(func() {
		quit.RequestAndWait(2 * time.Second)
	})

	if err := run(s, quit); err != nil {
		switch {
		case errors.Is(err, renderer.ErrBackendUnavailable), errors.Is(err, ascii.ErrAtlas):
			logging.Logger().Error("startup failed", "backend", s.GetBackend(), "err", err)
			fmt.Fprintln(os.Stderr, fallbackMessage)
		default:
			fmt.Fprintln(os.Stderr, "asciicube:", err)
		}
		closer.Exit(1)
	}
}

func run(s *config.Settings, quit *app.Quit) error {
	p, err := app.Prepare(s, 1)
	if err != nil {
		quit.Done()
		return err
	}
	logging.Logger().Info("starting", "backend", s.GetBackend(), "shape", s.GetShape().String(),
		"mode", s.GetMode().String(), "cell", s.GetCellSize(), "glyphs", p.Ramp.Len())

	switch s.GetBackend() {
	case config.BackendEbiten:
		return app.RunEbiten(p, quit)
	case config.BackendTerminal:
		return app.RunTerminal(p, quit)
	case config.BackendSnapshot:
		return app.Snapshot(p, quit)
	default:
		return app.RunGL(p, quit)
	}
}
