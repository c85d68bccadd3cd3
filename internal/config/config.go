package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"asciicube/internal/ascii"
	"asciicube/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Limits applied by the setters.
const (
	MinCellSize = 2
	MaxCellSize = 128
	MaxFPSLimit = 1000
	MinWindow   = 1
	MaxWindow   = 16384
)

// Backend names a renderer implementation.
type Backend string

const (
	BackendGL       Backend = "gl"
	BackendEbiten   Backend = "ebiten"
	BackendTerminal Backend = "terminal"
	BackendSnapshot Backend = "snapshot"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(s)); b {
	case BackendGL, BackendEbiten, BackendTerminal, BackendSnapshot:
		return b, nil
	}
	return "", fmt.Errorf("unknown backend %q (use gl, ebiten, terminal or snapshot)", s)
}

// Settings holds startup configuration
type Settings struct {
	mu sync.RWMutex

	ramp        string
	cellSize    int // logical pixels
	textColor   mgl32.Vec3
	background  mgl32.Vec3
	objectColor mgl32.Vec3
	mode        ascii.OutputMode
	shape       scene.Shape
	backend     Backend
	width       int
	height      int
	fpsLimit    int // 0 = uncapped
	fontPath    string
	outPath     string
	frames      int
	logLevel    string
}

// Default returns the stock configuration.
func Default() *Settings {
	return &Settings{
		ramp:        ascii.DefaultRamp,
		cellSize:    10,
		textColor:   mustHex("#4dff80"),
		background:  mustHex("#0d0d12"),
		objectColor: mustHex("#e6f2ff"),
		mode:        ascii.ModeSceneTinted,
		shape:       scene.ShapeDodecahedron,
		backend:     BackendGL,
		width:       900,
		height:      600,
		fpsLimit:    60,
		outPath:     "asciicube.png",
		frames:      30,
		logLevel:    "warn",
	}
}

// Validate checks the fields that setters cannot clamp.
func (s *Settings) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	if _, err := ascii.NewRamp(s.ramp); err != nil {
		errs = append(errs, err)
	}
	if s.backend == BackendSnapshot {
		if !strings.HasSuffix(s.outPath, ".png") && !strings.HasSuffix(s.outPath, ".txt") {
			errs = append(errs, fmt.Errorf("snapshot output %q must end in .png or .txt", s.outPath))
		}
	}
	return errors.Join(errs...)
}

// GetRamp returns the character ramp text
func (s *Settings) GetRamp() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ramp
}

// SetRamp sets the character ramp text. Validate reports a bad ramp.
func (s *Settings) SetRamp(r string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ramp = r
}

// GetCellSize returns the logical cell size in pixels
func (s *Settings) GetCellSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cellSize
}

// SetCellSize sets the logical cell size
func (s *Settings) SetCellSize(px int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clamp to reasonable values
	if px < MinCellSize {
		px = MinCellSize
	}
	if px > MaxCellSize {
		px = MaxCellSize
	}

	s.cellSize = px
}

func (s *Settings) GetTextColor() mgl32.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textColor
}

func (s *Settings) SetTextColor(c mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textColor = clampColor(c)
}

func (s *Settings) GetBackground() mgl32.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *Settings) SetBackground(c mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = clampColor(c)
}

func (s *Settings) GetObjectColor() mgl32.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objectColor
}

func (s *Settings) SetObjectColor(c mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectColor = clampColor(c)
}

func (s *Settings) GetMode() ascii.OutputMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Settings) SetMode(m ascii.OutputMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Settings) GetShape() scene.Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shape
}

func (s *Settings) SetShape(sh scene.Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shape = sh
}

func (s *Settings) GetBackend() Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

func (s *Settings) SetBackend(b Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = b
}

// GetWindowSize returns the initial logical window size
func (s *Settings) GetWindowSize() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// SetWindowSize sets the initial logical window size
func (s *Settings) SetWindowSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = clampInt(w, MinWindow, MaxWindow)
	s.height = clampInt(h, MinWindow, MaxWindow)
}

// GetFPSLimit returns the frame cap, 0 when uncapped
func (s *Settings) GetFPSLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fpsLimit
}

// SetFPSLimit sets the frame cap. Values <= 0 mean uncapped.
func (s *Settings) SetFPSLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	if limit > MaxFPSLimit {
		limit = MaxFPSLimit
	}
	s.fpsLimit = limit
}

func (s *Settings) GetFontPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontPath
}

func (s *Settings) SetFontPath(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontPath = p
}

func (s *Settings) GetOutPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outPath
}

func (s *Settings) SetOutPath(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outPath = p
}

// GetFrames returns the snapshot warm-up frame count
func (s *Settings) GetFrames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

func (s *Settings) SetFrames(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.frames = n
}

func (s *Settings) GetLogLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logLevel
}

func (s *Settings) SetLogLevel(l string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logLevel = l
}

// ParseColor accepts "#rrggbb" or "#rgb".
func ParseColor(hex string) (mgl32.Vec3, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// FormatColor renders c as "#rrggbb", the inverse of ParseColor.
func FormatColor(c mgl32.Vec3) string {
	c = clampColor(c)
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Hex()
}

// ParseSize accepts "WIDTHxHEIGHT".
func ParseSize(v string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(v), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WIDTHxHEIGHT", v)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", v, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", v, err)
	}
	return w, h, nil
}

func mustHex(hex string) mgl32.Vec3 {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func clampColor(c mgl32.Vec3) mgl32.Vec3 {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
