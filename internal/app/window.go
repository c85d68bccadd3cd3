package app

import (
	"time"

	"asciicube/internal/backend/glbackend"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/input"
	"asciicube/internal/logging"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const windowTitle = "asciicube"

// SetupWindow opens a GL 4.1 core window of the given logical size and
// makes its context current.
func SetupWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	window, err := glfw.CreateWindow(width, height, windowTitle, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	// Disable V-Sync; we'll use our own FPS limiter
	glfw.SwapInterval(0)

	return window, nil
}

// RunGL runs the GL backend in a GLFW window until the window closes, the
// user quits, or quit is requested. It must run on the main OS thread.
func RunGL(p *Pipeline, quit *Quit) error {
	defer quit.Done()

	if err := glfw.Init(); err != nil {
		return unavailable("glfw", err)
	}
	defer glfw.Terminate()

	width, height := p.Settings.GetWindowSize()
	window, err := SetupWindow(width, height)
	if err != nil {
		return unavailable("window", err)
	}
	defer window.Destroy()

	// Screen coordinates are pixels on Windows and X11 but points on macOS,
	// so the size always comes from the framebuffer.
	fbW, fbH := window.GetFramebufferSize()
	scale, _ := window.GetContentScale()
	if scale != 1 {
		// rebake the atlas at the physical cell size
		if p, err = Prepare(p.Settings, scale); err != nil {
			return err
		}
	}

	coord, err := renderer.NewCoordinator(glbackend.New(), p.Resources, p.Params, fbW, fbH, renderer.Options{
		DevicePixelRatio: scale,
		Profiler:         p.Profiler,
		FramebufferSized: true,
	})
	if err != nil {
		return err
	}
	defer coord.Dispose()

	im := input.NewInputManager()
	im.SetCallbacks(window)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		coord.RequestFramebufferResize(width, height)
	})
	window.SetContentScaleCallback(func(w *glfw.Window, x, y float32) {
		coord.SetDevicePixelRatio(x)
	})

	limiter := NewFPSLimiter(p.Settings.GetFPSLimit())
	last := time.Now()
	for !window.ShouldClose() && !quit.Requested() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		glfw.PollEvents()
		if applyActions(coord, im, dt) {
			window.SetShouldClose(true)
		}

		if err := coord.Frame(dt); err != nil {
			return err
		}
		window.SwapBuffers()

		im.PostUpdate() // Clear "JustPressed" flags
		limiter.Wait()
	}

	logging.Logger().Info("window closed")
	return nil
}
