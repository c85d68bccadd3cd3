package app

import (
	"bufio"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"asciicube/internal/ascii"
	"asciicube/internal/backend/soft"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/logging"
)

// snapshotDT is the simulated frame time of headless rendering.
const snapshotDT = 1.0 / 60

// Snapshot renders the configured number of frames headless and writes
// the last one to the configured path: a PNG of the composite, or a
// plain-text glyph grid when the path ends in .txt.
func Snapshot(p *Pipeline, quit *Quit) error {
	defer quit.Done()

	out := p.Settings.GetOutPath()
	asText := strings.EqualFold(filepath.Ext(out), ".txt")
	width, height := p.Settings.GetWindowSize()

	params := p.Params
	opts := renderer.Options{Profiler: p.Profiler}
	if asText {
		// text cells are twice as tall as they are wide
		cols := max(1, width/int(params.CellSize))
		rows := max(1, height/int(2*params.CellSize))
		params.CellSize = terminalCellPixels
		width, height = cols*terminalCellPixels, rows*terminalCellPixels
		opts.PixelAspect = terminalPixelAspect
	}

	backend := soft.New(soft.Options{SceneOnly: asText})
	coord, err := renderer.NewCoordinator(backend, p.Resources, params, width, height, opts)
	if err != nil {
		return err
	}
	defer coord.Dispose()

	frames := p.Settings.GetFrames()
	for i := 0; i < frames && !quit.Requested(); i++ {
		if err := coord.Frame(snapshotDT); err != nil {
			return err
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if asText {
		lines := ascii.TextGrid(ascii.NRGBASampler{Image: backend.Scene()}, coord.Params(), p.Ramp)
		for _, l := range lines {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
		}
	} else if err := png.Encode(w, backend.Output()); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	logging.Logger().Info("snapshot written", "path", out, "frames", frames, "width", width, "height", height)
	return nil
}
