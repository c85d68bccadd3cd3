package ascii

import (
	"fmt"
	"strings"
)

// Dialect is a shading language the composite pass can be emitted in.
type Dialect int

const (
	// GLSL410 targets OpenGL 4.1 core. uv origin is bottom-left.
	GLSL410 Dialect = iota
	// Kage targets Ebitengine. uv origin is top-left, output premultiplied.
	// Image 1 must be the atlas stretched to the size of image 0.
	Kage
)

func (d Dialect) String() string {
	switch d {
	case GLSL410:
		return "glsl410"
	case Kage:
		return "kage"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Uniform names per dialect. Kage requires exported identifiers.
var uniformNames = map[Dialect]map[string]string{
	GLSL410: {
		"$resolution": "uResolution",
		"$cellSize":   "uCellSize",
		"$charCount":  "uCharCount",
		"$textColor":  "uTextColor",
		"$mode":       "uMode",
		"$uv":         "vUv",
		"$premul":     "",
	},
	Kage: {
		"$resolution": "Resolution",
		"$cellSize":   "CellSize",
		"$charCount":  "CharCount",
		"$textColor":  "TextColor",
		"$mode":       "Mode",
		"$uv":         "uv",
		"$premul":     " * sceneColor.a",
	},
}

// UniformName maps a logical parameter ("resolution", "cellSize",
// "charCount", "textColor", "mode") to its identifier in d.
func UniformName(d Dialect, logical string) string {
	return uniformNames[d]["$"+logical]
}

// statement is one line of the composite algorithm. expr may reference
// $placeholders and the @scene(..)/@font(..) samplers.
type statement struct {
	typ, name, expr string
}

// compositeProgram is the whole algorithm, shared by every dialect.
var compositeProgram = []statement{
	{"vec2", "gridDims", "$resolution / $cellSize"},
	{"vec2", "cellUv", "floor($uv * gridDims) / gridDims"},
	{"vec4", "sceneColor", "@scene(cellUv)"},
	{"float", "luminance", "1.0 - (0.299*sceneColor.r + 0.587*sceneColor.g + 0.114*sceneColor.b)"},
	{"float", "charIndex", "floor(luminance * ($charCount - 1.0))"},
	{"vec2", "uvInCell", "fract($uv * gridDims)"},
	{"vec2", "fontUv", "vec2((charIndex + uvInCell.x) / $charCount, uvInCell.y)"},
	{"vec4", "fontSample", "@font(fontUv)"},
	{"float", "ink", "fontSample.r"},
	{"vec4", "tinted", "vec4(sceneColor.rgb * ink, sceneColor.a * ink)"},
	{"vec4", "solid", "vec4($textColor * ink$premul, ink * sceneColor.a)"},
}

const glslHeader = `#version 410 core
in vec2 vUv;
out vec4 FragColor;

uniform sampler2D uScene;
uniform sampler2D uFont;
uniform vec2 uResolution;
uniform float uCellSize;
uniform float uCharCount;
uniform vec3 uTextColor;
uniform float uMode;

void main() {
`

const glslFooter = `	FragColor = mix(tinted, solid, uMode);
}
`

const kageHeader = `//kage:unit pixels

package main

var Resolution vec2
var CellSize float
var CharCount float
var TextColor vec3
var Mode float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := (srcPos - imageSrc0Origin()) / imageSrc0Size()
`

const kageFooter = `	return mix(tinted, solid, Mode)
}
`

// CompositeVertexGLSL draws a full-screen triangle without vertex buffers.
const CompositeVertexGLSL = `#version 410 core
out vec2 vUv;

void main() {
	vec2 pos = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2));
	vUv = pos;
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

// CompositeShader returns the composite fragment program in dialect d.
func CompositeShader(d Dialect) (string, error) {
	names, ok := uniformNames[d]
	if !ok {
		return "", fmt.Errorf("unsupported shader dialect %v", d)
	}
	pairs := make([]string, 0, len(names)*2)
	for k, v := range names {
		pairs = append(pairs, k, v)
	}
	r := strings.NewReplacer(pairs...)

	var sb strings.Builder
	switch d {
	case GLSL410:
		sb.WriteString(glslHeader)
	case Kage:
		sb.WriteString(kageHeader)
	}
	for _, st := range compositeProgram {
		expr := expandSamplers(d, r.Replace(st.expr))
		sb.WriteByte('\t')
		if d == Kage {
			fmt.Fprintf(&sb, "%s := %s\n", st.name, expr)
		} else {
			fmt.Fprintf(&sb, "%s %s = %s;\n", st.typ, st.name, expr)
		}
	}
	switch d {
	case GLSL410:
		sb.WriteString(glslFooter)
	case Kage:
		sb.WriteString(kageFooter)
	}
	return sb.String(), nil
}

func expandSamplers(d Dialect, expr string) string {
	for _, s := range []struct{ tag, glsl, kage string }{
		{"@scene(", "texture(uScene, ", "imageSrc0At(imageSrc0Origin() + imageSrc0Size() * "},
		{"@font(", "texture(uFont, ", "imageSrc1At(imageSrc0Origin() + imageSrc0Size() * "},
	} {
		repl := s.glsl
		if d == Kage {
			repl = s.kage
		}
		expr = strings.ReplaceAll(expr, s.tag, repl)
	}
	return expr
}
