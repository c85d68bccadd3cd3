package ascii

import (
	"strings"
	"testing"
)

func TestCompositeShaderContainsEveryStep(t *testing.T) {
	steps := []string{
		"gridDims", "cellUv", "floor(", "sceneColor",
		"0.299*sceneColor.r + 0.587*sceneColor.g + 0.114*sceneColor.b",
		"charIndex", "fract(", "fontUv", "ink", "tinted", "solid", "mix(tinted, solid",
	}
	for _, d := range []Dialect{GLSL410, Kage} {
		t.Run(d.String(), func(t *testing.T) {
			src, err := CompositeShader(d)
			if err != nil {
				t.Fatalf("CompositeShader: %v", err)
			}
			for _, s := range steps {
				if !strings.Contains(src, s) {
					t.Errorf("source missing %q", s)
				}
			}
			if strings.ContainsAny(src, "$@") {
				t.Errorf("unexpanded placeholder in source:\n%s", src)
			}
			for _, logical := range []string{"resolution", "cellSize", "charCount", "textColor", "mode"} {
				if name := UniformName(d, logical); name == "" || !strings.Contains(src, name) {
					t.Errorf("uniform %q (%q) not declared", logical, name)
				}
			}
		})
	}
}

func TestCompositeShaderDialectDetails(t *testing.T) {
	glsl, _ := CompositeShader(GLSL410)
	if !strings.HasPrefix(glsl, "#version 410 core") {
		t.Errorf("GLSL source does not start with version directive")
	}
	if !strings.Contains(glsl, "texture(uFont, fontUv)") {
		t.Errorf("GLSL source does not sample the atlas at fontUv")
	}

	kage, _ := CompositeShader(Kage)
	if !strings.HasPrefix(kage, "//kage:unit pixels") {
		t.Errorf("Kage source lacks unit directive")
	}
	if !strings.Contains(kage, "TextColor * ink * sceneColor.a") {
		t.Errorf("Kage solid mode is not premultiplied")
	}

	if _, err := CompositeShader(Dialect(42)); err == nil {
		t.Errorf("unknown dialect accepted")
	}
}
