package app

import (
	"math"
	"time"

	"asciicube/internal/backend/ebitenbackend"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/input"

	"github.com/hajimehoshi/ebiten/v2"
)

var ebitenKeys = map[ebiten.Key]input.Action{
	ebiten.KeyArrowLeft:  input.ActionRotateLeft,
	ebiten.KeyArrowRight: input.ActionRotateRight,
	ebiten.KeyArrowUp:    input.ActionRotateUp,
	ebiten.KeyArrowDown:  input.ActionRotateDown,
	ebiten.KeyA:          input.ActionRotateLeft,
	ebiten.KeyD:          input.ActionRotateRight,
	ebiten.KeyW:          input.ActionRotateUp,
	ebiten.KeyS:          input.ActionRotateDown,
	ebiten.KeyM:          input.ActionToggleMode,
	ebiten.KeyEscape:     input.ActionQuit,
	ebiten.KeyQ:          input.ActionQuit,
}

type ebitenGame struct {
	coord   *renderer.Coordinator
	backend *ebitenbackend.Backend
	im      *input.InputManager
	quit    *Quit
	last    time.Time
	err     error

	lastUpdate time.Time
}

// RunEbiten runs the Ebitengine backend until the window closes.
func RunEbiten(p *Pipeline, quit *Quit) error {
	defer quit.Done()

	width, height := p.Settings.GetWindowSize()
	scale := float32(ebiten.Monitor().DeviceScaleFactor())
	if scale != 1 {
		var err error
		if p, err = Prepare(p.Settings, scale); err != nil {
			return err
		}
	}

	backend := ebitenbackend.New()
	coord, err := renderer.NewCoordinator(backend, p.Resources, p.Params, width, height, renderer.Options{
		DevicePixelRatio: scale,
		Profiler:         p.Profiler,
	})
	if err != nil {
		return err
	}
	defer coord.Dispose()

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if fps := p.Settings.GetFPSLimit(); fps > 0 {
		ebiten.SetTPS(fps)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	g := &ebitenGame{
		coord:   coord,
		backend: backend,
		im:      input.NewInputManager(),
		quit:    quit,
		last:    time.Now(),

		lastUpdate: time.Now(),
	}
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func (g *ebitenGame) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.quit.Requested() {
		return ebiten.Termination
	}

	var held [input.ActionCount]bool
	for key, act := range ebitenKeys {
		if ebiten.IsKeyPressed(key) {
			held[act] = true
		}
	}
	for act := input.Action(0); act < input.ActionCount; act++ {
		if act != input.ActionDrag {
			g.im.SetActionState(act, held[act])
		}
	}
	g.im.SetActionState(input.ActionDrag, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	x, y := ebiten.CursorPosition()
	g.im.HandleCursorPos(float64(x), float64(y))

	now := time.Now()
	dt := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now

	quit := applyActions(g.coord, g.im, dt)
	g.im.PostUpdate()
	if quit {
		return ebiten.Termination
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	now := time.Now()
	dt := now.Sub(g.last).Seconds()
	g.last = now

	g.backend.SetSurface(screen)
	if err := g.coord.Frame(dt); err != nil && g.err == nil {
		g.err = err
	}
	g.backend.SetSurface(nil)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// LayoutF reports a screen in physical pixels so the composite grid is
// never resampled.
func (g *ebitenGame) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	g.coord.SetDevicePixelRatio(float32(scale))
	g.coord.RequestResize(int(outsideWidth), int(outsideHeight))
	return math.Max(1, math.Round(outsideWidth*scale)), math.Max(1, math.Round(outsideHeight*scale))
}
