package app

import (
	"time"

	"asciicube/internal/ascii"
	"asciicube/internal/backend/soft"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/logging"
	"asciicube/internal/scene"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Terminal cells are sampled from a cellPixels×cellPixels block of the
// scene target. One terminal cell is one ASCII cell, so the value only
// sets the supersampling of the scene, not the grid.
const (
	terminalCellPixels  = 4
	terminalPixelAspect = 0.5
	terminalDragScale   = 8 // scene pixels per terminal column of drag
)

// TerminalViewer renders the CPU backend into a tcell screen.
type TerminalViewer struct {
	screen  tcell.Screen
	coord   *renderer.Coordinator
	backend *soft.Backend
	ramp    ascii.Ramp

	bg   tcell.Style
	text mgl32.Vec3

	dragging       bool
	mouseX, mouseY int
}

// NewTerminalViewer prepares a viewer on an initialized screen.
func NewTerminalViewer(screen tcell.Screen, p *Pipeline) (*TerminalViewer, error) {
	params := p.Params
	params.CellSize = terminalCellPixels

	cols, rows := screen.Size()
	backend := soft.New(soft.Options{SceneOnly: true})
	coord, err := renderer.NewCoordinator(backend, p.Resources, params,
		cols*terminalCellPixels, rows*terminalCellPixels,
		renderer.Options{PixelAspect: terminalPixelAspect, Profiler: p.Profiler})
	if err != nil {
		return nil, err
	}

	bg := params.BackgroundColor
	return &TerminalViewer{
		screen:  screen,
		coord:   coord,
		backend: backend,
		ramp:    p.Ramp,
		bg:      tcell.StyleDefault.Background(rgb(bg)).Foreground(rgb(bg)),
		text:    params.TextColor,
	}, nil
}

// RunTerminal shows the object in the controlling terminal until the user
// quits or quit is requested.
func RunTerminal(p *Pipeline, quit *Quit) error {
	defer quit.Done()

	screen, err := tcell.NewScreen()
	if err != nil {
		return unavailable("terminal", err)
	}
	if err := screen.Init(); err != nil {
		return unavailable("terminal", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	v, err := NewTerminalViewer(screen, p)
	if err != nil {
		return err
	}
	defer v.Close()

	interval := NewFPSLimiter(p.Settings.GetFPSLimit()).Interval()
	if interval == 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(screen, events, done)

	last := time.Now()
	for !quit.Requested() {
		select {
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := v.Frame(dt); err != nil {
				return err
			}
		}
	}
	return nil
}

// pumpEvents forwards screen events until the screen is finalized or done
// is closed.
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *TerminalViewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		v.coord.RequestResize(cols*terminalCellPixels, rows*terminalCellPixels)
		v.screen.Sync()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.nudge(0, -scene.NudgeStep)
		case tcell.KeyRight:
			v.nudge(0, scene.NudgeStep)
		case tcell.KeyUp:
			v.nudge(-scene.NudgeStep, 0)
		case tcell.KeyDown:
			v.nudge(scene.NudgeStep, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'm', 'M':
				m := v.coord.ToggleMode()
				logging.Logger().Info("output mode", "mode", m.String())
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		pressed := ev.Buttons()&tcell.Button1 != 0
		v.coord.UpdateRotation(func(r *scene.Rotation) {
			switch {
			case pressed && !v.dragging:
				r.BeginDrag()
			case pressed:
				r.Drag(float32((x-v.mouseX)*terminalDragScale), float32((y-v.mouseY)*terminalDragScale))
			case v.dragging:
				r.EndDrag()
			}
		})
		v.dragging = pressed
		v.mouseX, v.mouseY = x, y
	}
	return true
}

func (v *TerminalViewer) nudge(dPitch, dYaw float32) {
	v.coord.UpdateRotation(func(r *scene.Rotation) { r.Nudge(dPitch, dYaw) })
}

// Frame renders one frame and draws it to the screen.
func (v *TerminalViewer) Frame(dt float64) error {
	if err := v.coord.Frame(dt); err != nil {
		return err
	}
	v.draw()
	return nil
}

// draw maps each terminal cell to a glyph. A cell takes the color of the
// scene in scene mode, the text color in solid mode, and shows the
// background where the object does not cover it.
func (v *TerminalViewer) draw() {
	params := v.coord.Params()
	sampler := ascii.NRGBASampler{Image: v.backend.Scene()}
	cols, rows := v.screen.Size()
	grid := params.GridDims()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if float32(col) >= grid[0] || float32(row) >= grid[1] {
				v.screen.SetContent(col, row, ' ', nil, v.bg)
				continue
			}
			cs := ascii.SampleCell(sampler, params, col, row)
			if cs.Color[3] == 0 {
				v.screen.SetContent(col, row, ' ', nil, v.bg)
				continue
			}
			fg := v.text
			if params.Mode == ascii.ModeSceneTinted {
				fg = cs.Color.Vec3()
			}
			v.screen.SetContent(col, row, v.ramp.Glyph(cs.Index), nil, v.bg.Foreground(rgb(fg)))
		}
	}
	v.screen.Show()
}

// Close releases the backend.
func (v *TerminalViewer) Close() {
	v.coord.Dispose()
}

func rgb(c mgl32.Vec3) tcell.Color {
	return tcell.NewRGBColor(int32(ascii.Unit8(c[0])), int32(ascii.Unit8(c[1])), int32(ascii.Unit8(c[2])))
}
