// Package app wires the pipeline to a presenter: a GLFW window, an
// Ebitengine window, a terminal, or a headless snapshot.
package app

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"asciicube/internal/ascii"
	"asciicube/internal/config"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/input"
	"asciicube/internal/logging"
	"asciicube/internal/profiling"
	"asciicube/internal/scene"
)

// KeyRotateSpeed is the rotation rate, radians per second, while an arrow
// key is held.
const KeyRotateSpeed = 1.8

// Pipeline holds everything built before a backend starts.
type Pipeline struct {
	Settings  *config.Settings
	Ramp      ascii.Ramp
	Resources renderer.Resources
	Params    ascii.Parameters // CellSize in logical pixels
	Profiler  *profiling.Recorder
}

// Prepare validates the ramp and builds the atlas at the physical cell
// size implied by dpr.
func Prepare(s *config.Settings, dpr float32) (*Pipeline, error) {
	if dpr <= 0 {
		dpr = 1
	}
	ramp, err := ascii.NewRamp(s.GetRamp())
	if err != nil {
		return nil, err
	}

	cell := s.GetCellSize()
	atlasCell := int(math.Round(float64(float32(cell) * dpr)))
	atlas, err := ascii.BuildAtlas(ramp, atlasCell, ascii.AtlasOptions{FontPath: s.GetFontPath()})
	if err != nil {
		return nil, err
	}

	budget := time.Duration(0)
	if fps := s.GetFPSLimit(); fps > 0 {
		budget = time.Second / time.Duration(fps)
	}

	return &Pipeline{
		Settings: s,
		Ramp:     ramp,
		Resources: renderer.Resources{
			Atlas:       atlas,
			Mesh:        s.GetShape().Mesh(),
			Light:       scene.DefaultLight(),
			ObjectColor: s.GetObjectColor(),
		},
		Params: ascii.Parameters{
			CharacterCount:  float32(ramp.Len()),
			CellSize:        float32(cell),
			TextColor:       s.GetTextColor(),
			BackgroundColor: s.GetBackground(),
			Mode:            s.GetMode(),
		},
		Profiler: profiling.NewRecorder(budget),
	}, nil
}

// Quit coordinates shutdown between a signal handler and the render loop.
type Quit struct {
	requested atomic.Bool
	done      chan struct{}
	once      sync.Once
}

// NewQuit returns an unrequested Quit.
func NewQuit() *Quit {
	return &Quit{done: make(chan struct{})}
}

// Request asks the render loop to stop.
func (q *Quit) Request() { q.requested.Store(true) }

// Requested reports whether a stop was asked for.
func (q *Quit) Requested() bool { return q.requested.Load() }

// Done marks the render loop as finished and its resources released.
func (q *Quit) Done() { q.once.Do(func() { close(q.done) }) }

// RequestAndWait asks for a stop and waits up to timeout for Done.
func (q *Quit) RequestAndWait(timeout time.Duration) {
	q.Request()
	select {
	case <-q.done:
	case <-time.After(timeout):
		logging.Logger().Warn("render loop did not stop in time", "timeout", timeout)
	}
}

// applyActions turns this frame's input into coordinator updates. It
// reports whether the user asked to quit.
func applyActions(c *renderer.Coordinator, im *input.InputManager, dt float64) bool {
	if im.JustPressed(input.ActionQuit) {
		return true
	}
	if im.JustPressed(input.ActionToggleMode) {
		m := c.ToggleMode()
		logging.Logger().Info("output mode", "mode", m.String())
	}

	step := float32(KeyRotateSpeed * dt)
	var dPitch, dYaw float32
	if im.IsActive(input.ActionRotateLeft) {
		dYaw -= step
	}
	if im.IsActive(input.ActionRotateRight) {
		dYaw += step
	}
	if im.IsActive(input.ActionRotateUp) {
		dPitch -= step
	}
	if im.IsActive(input.ActionRotateDown) {
		dPitch += step
	}
	dx, dy := im.CursorDelta()

	c.UpdateRotation(func(r *scene.Rotation) {
		if im.JustPressed(input.ActionDrag) {
			r.BeginDrag()
		}
		if im.IsActive(input.ActionDrag) {
			r.Drag(float32(dx), float32(dy))
		}
		if im.JustReleased(input.ActionDrag) {
			r.EndDrag()
		}
		if dPitch != 0 || dYaw != 0 {
			r.Nudge(dPitch, dYaw)
		}
	})
	return false
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", renderer.ErrBackendUnavailable, what, err)
}
