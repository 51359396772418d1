// Package viewer implements the interactive OBJ viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scop/internal/config"
	"github.com/Faultbox/scop/internal/engine/camera"
	"github.com/Faultbox/scop/internal/engine/debug"
	"github.com/Faultbox/scop/internal/engine/input"
	"github.com/Faultbox/scop/internal/engine/mesh"
	"github.com/Faultbox/scop/internal/engine/renderer"
	"github.com/Faultbox/scop/internal/engine/scene"
	"github.com/Faultbox/scop/internal/engine/shader"
	"github.com/Faultbox/scop/internal/engine/texture"
	"github.com/Faultbox/scop/internal/engine/window"
	"github.com/Faultbox/scop/internal/logger"
	"github.com/Faultbox/scop/pkg/formats"
	"github.com/Faultbox/scop/pkg/math"
)

// Shaders holds the GLSL sources of the model program.
type Shaders struct {
	Vertex   string
	Fragment string
}

// ScreenshotDir is where F12 captures are written.
const ScreenshotDir = "screenshots"

var bboxColor = math.Vec3[float32]{X: 1, Y: 1, Z: 0}

// Viewer is the interactive viewer instance.
type Viewer struct {
	cfg     config.ViewerConfig
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	program  *shader.Program
	model    *mesh.Mesh
	bbox     *mesh.Mesh
	textures [2]*renderer.Texture

	camera     *camera.FreeCamera
	state      *scene.State
	projection math.Mat4[float32]
	screenshot *debug.ScreenshotCapture
}

// New opens the window, compiles shaders and uploads the model and textures.
func New(cfg *config.Config, title string, model *formats.Model, src Shaders) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg.Viewer,
		log: logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.String("title", title),
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer AFTER window, since the GL context must exist
	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		ClearColor: [3]float32{0.2, 0.3, 0.3},
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.program, err = shader.New(src.Vertex, src.Fragment)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to build model shader: %w", err)
	}

	v.model = mesh.Upload(model)
	v.bbox = mesh.UploadLines(debug.ModelBBoxWireframe(model, bboxColor))
	v.loadTextures(cfg.Viewer.Textures)

	v.input = input.New()
	v.camera = camera.New(math.Vec3[float32]{Z: 3}, cfg.Viewer.MoveSpeed)
	v.state = scene.NewState(model)
	v.screenshot = debug.NewScreenshotCapture(ScreenshotDir, "scop", cfg.Render.Format)
	if err := v.resize(w, h); err != nil {
		v.Close()
		return nil, err
	}

	v.log.Info("viewer initialized",
		zap.Int("vertices", len(model.Vertices)),
		zap.Int("triangles", model.TriangleCount()),
	)
	return v, nil
}

func (v *Viewer) loadTextures(paths []string) {
	for i := range v.textures {
		path := ""
		if i < len(paths) {
			path = paths[i]
		}
		img, err := texture.LoadOrFallback(path)
		if err != nil {
			v.log.Warn("texture unavailable, using checkerboard",
				zap.Int("unit", i),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		v.textures[i] = renderer.UploadTexture(img)
	}
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		if err := v.handleEvents(); err != nil {
			return err
		}

		v.update(dt)
		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() error {
	for _, ev := range v.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			// Event sizes are in window points; HiDPI framebuffers are larger.
			w, h := v.window.DrawableSize()
			if err := v.resize(w, h); err != nil {
				return err
			}
		case input.EventMouseMove:
			if ev.Button&1 != 0 { // left button held
				v.camera.Turn(float32(ev.DeltaX), float32(ev.DeltaY))
			}
		case input.EventKeyDown:
			if ev.Repeat {
				continue
			}
			v.handleKey(ev.Key)
		}
	}
	return nil
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_T:
		v.state.ToggleTexture()
	case sdl.SCANCODE_B:
		v.state.ShowBBox = !v.state.ShowBBox
	case sdl.SCANCODE_P:
		v.state.Paused = !v.state.Paused
	case sdl.SCANCODE_L:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_R:
		v.state.Reset()
		v.camera.Reset()
	case sdl.SCANCODE_F12:
		v.takeScreenshot()
	}
}

// resize recomputes the viewport and projection. A zero-area framebuffer
// (minimized window) keeps the previous projection.
func (v *Viewer) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	proj, err := scene.Projection(v.cfg, width, height)
	if err != nil {
		return fmt.Errorf("projection for %dx%d: %w", width, height, err)
	}
	v.renderer.Resize(width, height)
	v.projection = proj
	return nil
}

func (v *Viewer) update(dt float32) {
	v.camera.Move(
		v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		v.input.Axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_LSHIFT),
		dt,
	)
	zoom := v.input.Axis(sdl.SCANCODE_KP_PLUS, sdl.SCANCODE_KP_MINUS) +
		v.input.Axis(sdl.SCANCODE_EQUALS, sdl.SCANCODE_MINUS)
	v.state.Zoom(zoom, dt)
	v.state.Update(dt, v.cfg.RotationSpeed)
}

func (v *Viewer) render() {
	v.renderer.Begin()

	v.program.Use()
	v.program.SetMat4("view", v.camera.ViewMatrix())
	v.program.SetMat4("projection", v.projection)
	v.program.SetMat4("model", v.state.ModelMatrix())
	v.program.SetFloat("textureMix", v.state.TextureMix)
	for i, tex := range v.textures {
		tex.Bind(uint32(i))
		v.program.SetInt(fmt.Sprintf("texture%d", i+1), int32(i))
	}
	v.model.Draw()

	if v.state.ShowBBox {
		v.program.SetFloat("textureMix", 0)
		v.bbox.Draw()
	}
}

func (v *Viewer) takeScreenshot() {
	w, h := v.renderer.Size()
	path, err := v.screenshot.CaptureFromPixels(v.renderer.ReadPixels(), w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	for _, tex := range v.textures {
		if tex != nil {
			tex.Delete()
		}
	}
	if v.bbox != nil {
		v.bbox.Delete()
	}
	if v.model != nil {
		v.model.Delete()
	}
	if v.program != nil {
		v.program.Delete()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
