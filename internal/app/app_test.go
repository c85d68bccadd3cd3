package app

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"asciicube/internal/ascii"
	"asciicube/internal/backend/soft"
	"asciicube/internal/config"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/input"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func testPipeline(t *testing.T, mutate func(s *config.Settings)) *Pipeline {
	t.Helper()
	s := config.Default()
	s.SetCellSize(8)
	if mutate != nil {
		mutate(s)
	}
	p, err := Prepare(s, 1)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return p
}

func TestPrepareRejectsBadRamp(t *testing.T) {
	s := config.Default()
	s.SetRamp("#")
	if _, err := Prepare(s, 1); !errors.Is(err, ascii.ErrRamp) {
		t.Fatalf("err = %v, want ErrRamp", err)
	}
}

func TestPrepareScalesAtlasCell(t *testing.T) {
	p := testPipeline(t, nil)
	if p.Resources.Atlas.Cell != 8 {
		t.Errorf("atlas cell = %d, want 8", p.Resources.Atlas.Cell)
	}
	s := config.Default()
	s.SetCellSize(8)
	hi, err := Prepare(s, 2)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if hi.Resources.Atlas.Cell != 16 {
		t.Errorf("atlas cell at dpr 2 = %d, want 16", hi.Resources.Atlas.Cell)
	}
	if hi.Params.CellSize != 8 {
		t.Errorf("params cell = %v, want logical 8", hi.Params.CellSize)
	}
}

func TestSnapshotPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	p := testPipeline(t, func(s *config.Settings) {
		s.SetOutPath(out)
		s.SetWindowSize(96, 64)
		s.SetFrames(3)
	})
	quit := NewQuit()
	if err := Snapshot(p, quit); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 64 {
		t.Fatalf("snapshot size = %v, want 96x64", b.Size())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want transparent", a)
	}

	select {
	case <-quit.done:
	default:
		t.Errorf("Snapshot did not mark quit as done")
	}
}

func TestSnapshotText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.txt")
	p := testPipeline(t, func(s *config.Settings) {
		s.SetOutPath(out)
		s.SetWindowSize(320, 320)
		s.SetFrames(1)
	})
	if err := Snapshot(p, NewQuit()); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 20 {
		t.Fatalf("lines = %d, want 20", n)
	}
	lines := strings.Split(string(data), "\n")
	if !strings.ContainsAny(string(data), ascii.DefaultRamp) {
		t.Errorf("text snapshot has no glyphs:\n%s", data)
	}
	for i, l := range lines {
		if len([]rune(l)) > 40 {
			t.Errorf("line %d has %d columns, want <= 40", i, len([]rune(l)))
		}
	}
}

func newSimViewer(t *testing.T, cols, rows int) (*TerminalViewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	v, err := NewTerminalViewer(screen, testPipeline(t, nil))
	if err != nil {
		t.Fatalf("NewTerminalViewer: %v", err)
	}
	t.Cleanup(v.Close)
	return v, screen
}

func TestTerminalViewerDraws(t *testing.T) {
	v, screen := newSimViewer(t, 40, 20)
	if err := v.Frame(0.016); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	if r, _, _, _ := screen.GetContent(0, 0); r != ' ' {
		t.Errorf("corner cell = %q, want space", r)
	}
	r, _, _, _ := screen.GetContent(20, 10)
	if !strings.ContainsRune(ascii.DefaultRamp, r) {
		t.Errorf("center cell = %q, want a ramp glyph", r)
	}
}

func TestTerminalViewerEvents(t *testing.T) {
	v, screen := newSimViewer(t, 40, 20)

	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)) {
		t.Fatalf("m reported as quit")
	}
	if v.coord.Params().Mode != ascii.ModeSolidTinted {
		t.Errorf("m did not toggle the output mode")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Errorf("q did not quit")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Errorf("Esc did not quit")
	}

	screen.SetSize(30, 10)
	v.HandleEvent(tcell.NewEventResize(30, 10))
	if err := v.Frame(0.016); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if w, h := v.coord.Size(); w != 30*terminalCellPixels || h != 10*terminalCellPixels {
		t.Errorf("scene size = %dx%d, want %dx%d", w, h, 30*terminalCellPixels, 10*terminalCellPixels)
	}
}

func TestPumpEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event) // never read
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		pumpEvents(screen, events, done)
		close(finished)
	}()

	if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("event pump still blocked after done was closed")
	}
}

func TestApplyActions(t *testing.T) {
	p := testPipeline(t, nil)
	c, err := renderer.NewCoordinator(soft.New(soft.Options{SceneOnly: true}), p.Resources, p.Params, 32, 32, renderer.Options{})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	defer c.Dispose()

	im := input.NewInputManager()
	im.HandleKeyEvent(glfw.KeyM, glfw.Press)
	if applyActions(c, im, 0.016) {
		t.Fatalf("M reported as quit")
	}
	if c.Params().Mode != ascii.ModeSolidTinted {
		t.Errorf("M did not toggle mode")
	}
	im.PostUpdate()

	im.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	if !applyActions(c, im, 0.016) {
		t.Errorf("Esc did not quit")
	}
}

func TestQuitRequestAndWait(t *testing.T) {
	q := NewQuit()
	go func() {
		for !q.Requested() {
			time.Sleep(time.Millisecond)
		}
		q.Done()
	}()
	q.RequestAndWait(time.Second)
	q.Done()
}

func TestFPSLimiterInterval(t *testing.T) {
	if got := NewFPSLimiter(0).Interval(); got != 0 {
		t.Errorf("uncapped interval = %v", got)
	}
	if got := NewFPSLimiter(50).Interval(); got != 20*time.Millisecond {
		t.Errorf("interval = %v, want 20ms", got)
	}
}
