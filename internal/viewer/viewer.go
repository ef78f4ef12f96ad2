// Package viewer implements the interactive surface viewer loop.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/surfview/internal/config"
	"github.com/Faultbox/surfview/internal/engine/input"
	"github.com/Faultbox/surfview/internal/engine/renderer"
	"github.com/Faultbox/surfview/internal/engine/texture"
	"github.com/Faultbox/surfview/internal/engine/trackball"
	"github.com/Faultbox/surfview/internal/engine/window"
	"github.com/Faultbox/surfview/internal/frame"
	"github.com/Faultbox/surfview/internal/logger"
	"github.com/Faultbox/surfview/pkg/surface"
)

// Messages shown when the viewer cannot start.
const (
	msgNoContext = "could not get an OpenGL graphics context"
	msgInitFmt   = "could not initialize the graphics context: %v"
)

// initMessage is the message box text for a failure after the window exists.
func initMessage(err error) string {
	return fmt.Sprintf(msgInitFmt, err)
}

// idleWait bounds how long the loop sleeps in SDL while nothing animates,
// so background mesh and texture results are still picked up.
const idleWait = 50 // ms

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool

	window    *window.Window
	renderer  *renderer.Renderer
	input     *input.Input
	trackball *trackball.Trackball

	session *Session
	look    frame.Lighting

	mesher   *mesher
	textures <-chan texture.Result
}

// New creates the window, GL backend and the first mesh. Initialization
// failures are also reported to the user in a message box.
func New(cfg *config.Config) (*App, error) {
	params, err := cfg.SurfaceParams()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		input:   input.New(),
		session: NewSession(params),
		look:    cfg.Lighting(),
		mesher:  newMesher(),
	}

	a.window, err = window.New(window.Config{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Fullscreen:  cfg.Window.Fullscreen,
		VSync:       cfg.Window.VSync,
		Multisample: cfg.Window.Multisample,
	})
	if err != nil {
		window.ShowError(nil, cfg.Window.Title, msgNoContext)
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbWidth, fbHeight := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: fbWidth, Height: fbHeight})
	if err != nil {
		window.ShowError(a.window, cfg.Window.Title, initMessage(err))
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	winWidth, winHeight := a.window.Size()
	a.trackball = trackball.New(winWidth, winHeight, cfg.Trackball())

	start := time.Now()
	mesh, err := surface.Generate(params)
	if err == nil {
		err = a.renderer.Upload(mesh)
	}
	if err != nil {
		window.ShowError(a.window, cfg.Window.Title, initMessage(err))
		a.Close()
		return nil, fmt.Errorf("initial mesh: %w", err)
	}
	logger.Info("mesh generated",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Float64("step", params.Step),
		zap.Stringer("derivative", params.Derivative),
		zap.Duration("elapsed", time.Since(start)),
	)

	if cfg.Texture.Path != "" {
		a.textures = texture.LoadAsync(cfg.Texture.Path, cfg.Texture.MaxSize)
	}

	logger.Info("viewer initialized")
	return a, nil
}

// Run processes events and draws until the window is closed.
func (a *App) Run() error {
	a.running = true
	logger.Info("starting viewer loop")

	animating := false
	for a.running {
		var quit bool
		if animating || a.trackball.Dragging() {
			quit = a.input.Poll()
		} else {
			quit = a.input.Wait(idleWait)
		}
		if quit {
			break
		}

		for _, ev := range a.input.Events() {
			a.handle(ev)
		}

		animating = a.trackball.Update()
		if animating {
			a.session.Invalidate()
		}
		a.collect()

		if a.session.TakeDirty() {
			a.render()
		}
	}
	return nil
}

func (a *App) handle(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		w, h := a.window.DrawableSize()
		a.renderer.Resize(w, h)
		a.trackball.Resize(ev.Width, ev.Height)
		a.session.Invalidate()

	case input.EventExpose:
		a.session.Invalidate()

	case input.EventFocusLost:
		a.session.ReleaseKeys()
		a.trackball.End()

	case input.EventKeyDown:
		if ev.Key == KeyResetView {
			a.trackball.Reset()
			a.session.Invalidate()
			return
		}
		quit, regen := a.session.KeyDown(ev.Key)
		if quit {
			a.running = false
			return
		}
		if regen {
			a.regenerate()
		}

	case input.EventKeyUp:
		a.session.KeyUp(ev.Key)

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			a.trackball.Begin(ev.MouseX, ev.MouseY)
		}

	case input.EventMouseMove:
		if a.trackball.Drag(ev.MouseX, ev.MouseY) {
			a.session.Invalidate()
		}

	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			a.trackball.End()
		}
	}
}

// regenerate samples the mesh for the current step on a worker goroutine.
// Results arrive in collect; only the newest generation is uploaded.
func (a *App) regenerate() {
	params := a.session.Params()
	gen := a.mesher.Request(params)
	logger.Debug("regenerating mesh", zap.Float64("step", params.Step), zap.Int("generation", gen))
}

// collect picks up finished mesh and texture work without blocking.
func (a *App) collect() {
	if res, ok := a.mesher.Poll(); ok {
		a.upload(res)
	}

	if a.textures == nil {
		return
	}
	select {
	case res := <-a.textures:
		a.textures = nil
		if res.Err != nil {
			logger.Warn("texture not loaded, keeping placeholder",
				zap.String("path", res.Path),
				zap.Error(res.Err),
			)
			return
		}
		a.renderer.SetTexture(res.Image)
		logger.Info("texture loaded", zap.String("path", res.Path))
		a.session.Invalidate()
	default:
	}
}

func (a *App) upload(res meshResult) {
	if res.err != nil {
		logger.Error("mesh generation failed", zap.Error(res.err))
		return
	}
	if err := a.renderer.Upload(res.mesh); err != nil {
		logger.Error("mesh upload failed", zap.Error(err))
		return
	}
	logger.Info("mesh regenerated",
		zap.Int("vertices", res.mesh.VertexCount()),
		zap.Float64("step", res.mesh.Params.Step),
		zap.Duration("elapsed", res.elapsed),
	)
	a.session.Invalidate()
}

func (a *App) render() {
	f := frame.Compose(a.session.State(), a.trackball.ViewMatrix(), a.look)

	a.renderer.Begin()
	frame.Draw(a.renderer, f, a.renderer.VertexCount())
	a.renderer.End()

	a.window.SwapBuffers()
	a.window.SetTitle(a.session.Title())
}

// Close releases GL and window resources.
func (a *App) Close() {
	logger.Info("closing viewer")
	a.mesher.Stop()

	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}

// IsContextError reports whether err came from acquiring the GL context.
func IsContextError(err error) bool {
	return errors.Is(err, window.ErrNoContext)
}
