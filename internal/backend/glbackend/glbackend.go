// Package glbackend runs both passes on OpenGL 4.1 core. The caller owns
// the window and must make its context current and call gl.Init first.
package glbackend

import (
	_ "embed"
	"fmt"

	"asciicube/internal/ascii"
	"asciicube/internal/graphics"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/logging"
	"asciicube/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	//go:embed shaders/scene.vert
	sceneVertexShader string
	//go:embed shaders/scene.frag
	sceneFragmentShader string
)

// Backend draws the scene into an offscreen target, then composites it
// onto the default framebuffer.
type Backend struct {
	res renderer.Resources

	sceneShader     *graphics.Shader
	compositeShader *graphics.Shader

	meshVAO     uint32
	meshVBO     uint32
	vertexCount int32
	emptyVAO    uint32

	atlasTexture uint32
	target       *graphics.RenderTarget
	width        int
	height       int
}

// New returns an uninitialized GL backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "gl" }

func (b *Backend) Init(res renderer.Resources, width, height int) error {
	b.res = res
	logging.Logger().Info("OpenGL context",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	var err error
	b.sceneShader, err = graphics.NewShader(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return fmt.Errorf("scene shader: %w", err)
	}

	compositeSource, err := ascii.CompositeShader(ascii.GLSL410)
	if err != nil {
		return err
	}
	b.compositeShader, err = graphics.NewShader(ascii.CompositeVertexGLSL, compositeSource)
	if err != nil {
		return fmt.Errorf("composite shader: %w", err)
	}

	b.atlasTexture, err = graphics.UploadAtlas(res.Atlas)
	if err != nil {
		return err
	}

	b.setupMesh(res.Mesh)
	gl.GenVertexArrays(1, &b.emptyVAO)

	b.target, err = graphics.NewRenderTarget(width, height)
	if err != nil {
		return fmt.Errorf("scene target: %w", err)
	}
	b.width, b.height = width, height
	return nil
}

func (b *Backend) setupMesh(m *scene.Mesh) {
	data := m.Interleaved()
	b.vertexCount = int32(len(m.Vertices))

	gl.GenVertexArrays(1, &b.meshVAO)
	gl.GenBuffers(1, &b.meshVBO)

	gl.BindVertexArray(b.meshVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(scene.FloatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *Backend) Resize(width, height int) error {
	if b.target != nil {
		b.target.Delete()
		b.target = nil
	}
	target, err := graphics.NewRenderTarget(width, height)
	if err != nil {
		return fmt.Errorf("%w: %v", renderer.ErrDeviceLost, err)
	}
	b.target = target
	b.width, b.height = width, height
	return nil
}

func (b *Backend) RenderFrame(ctx renderer.FrameContext) error {
	stop := ctx.Track("scene")
	b.scenePass(ctx)
	stop()

	stop = ctx.Track("composite")
	b.compositePass(ctx)
	stop()

	return checkError()
}

func (b *Backend) scenePass(ctx renderer.FrameContext) {
	b.target.Bind()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	b.sceneShader.Use()
	b.sceneShader.SetMatrix4("uModel", ctx.Model)
	b.sceneShader.SetMatrix4("uView", ctx.View)
	b.sceneShader.SetMatrix4("uProj", ctx.Proj)
	b.sceneShader.SetVector3("uObjectColor", b.res.ObjectColor)
	b.sceneShader.SetVector3("uLightDir", b.res.Light.Direction)
	b.sceneShader.SetFloat("uAmbient", b.res.Light.Ambient)

	gl.BindVertexArray(b.meshVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, b.vertexCount)
	gl.BindVertexArray(0)

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
}

func (b *Backend) compositePass(ctx renderer.FrameContext) {
	p := ctx.Params
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(b.width), int32(b.height))
	bg := p.BackgroundColor
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	s := b.compositeShader
	s.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.target.Color)
	s.SetInt("uScene", 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, b.atlasTexture)
	s.SetInt("uFont", 1)

	s.SetVector2(ascii.UniformName(ascii.GLSL410, "resolution"), p.Resolution)
	s.SetFloat(ascii.UniformName(ascii.GLSL410, "cellSize"), p.CellSize)
	s.SetFloat(ascii.UniformName(ascii.GLSL410, "charCount"), p.CharacterCount)
	s.SetVector3(ascii.UniformName(ascii.GLSL410, "textColor"), p.TextColor)
	s.SetFloat(ascii.UniformName(ascii.GLSL410, "mode"), p.ModeValue())

	gl.BindVertexArray(b.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
}

// checkError maps the GL error flag to a frame error. Out of memory is
// treated as losing the device.
func checkError() error {
	switch code := gl.GetError(); code {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("%w: GL_OUT_OF_MEMORY", renderer.ErrDeviceLost)
	default:
		return fmt.Errorf("%w: GL error 0x%x", renderer.ErrDeviceLost, code)
	}
}

// Dispose releases GL objects in reverse order of creation.
func (b *Backend) Dispose() {
	if b.target != nil {
		b.target.Delete()
		b.target = nil
	}
	if b.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &b.emptyVAO)
		b.emptyVAO = 0
	}
	if b.meshVBO != 0 {
		gl.DeleteBuffers(1, &b.meshVBO)
		b.meshVBO = 0
	}
	if b.meshVAO != 0 {
		gl.DeleteVertexArrays(1, &b.meshVAO)
		b.meshVAO = 0
	}
	if b.atlasTexture != 0 {
		gl.DeleteTextures(1, &b.atlasTexture)
		b.atlasTexture = 0
	}
	if b.compositeShader != nil {
		b.compositeShader.Delete()
		b.compositeShader = nil
	}
	if b.sceneShader != nil {
		b.sceneShader.Delete()
		b.sceneShader = nil
	}
}
