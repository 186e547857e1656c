package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/config"
	"github.com/Faultbox/globalpulse/internal/engine/debug"
	"github.com/Faultbox/globalpulse/internal/engine/input"
	"github.com/Faultbox/globalpulse/internal/engine/renderer"
	"github.com/Faultbox/globalpulse/internal/engine/ui2d"
	"github.com/Faultbox/globalpulse/internal/engine/window"
	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/internal/ui"
)

// Title is the window title.
const Title = "GlobalPulse"

// App is the windowed application.
type App struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window     *window.Window
	renderer   *renderer.Renderer
	overlay    *ui2d.Renderer
	ui         *ui2d.Context
	input      *input.Input
	screenshot *debug.ScreenshotCapture
	session    *Session

	width, height int  // window coordinates, as mouse events report them
	globePress    bool // the current left press started on the globe
	captureNext   bool
	fps           float64
}

// New creates the window, GL resources and news session.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:        cfg,
		log:        logger.Named("app"),
		input:      input.New(),
		screenshot: debug.NewScreenshotCapture("screenshots", "globalpulse"),
		width:      cfg.Graphics.Width,
		height:     cfg.Graphics.Height,
	}

	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("offline", cfg.News.Offline),
	)

	src, err := news.NewSource(context.Background(), cfg.News)
	noKey := IsNoAPIKey(err)
	if err != nil && !noKey {
		return nil, fmt.Errorf("failed to create news source: %w", err)
	}
	if noKey {
		a.log.Warn("no API key configured, showing sample events")
	}

	// Window first: the renderer needs its GL context.
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.width, a.height = a.window.GetSize()
	fbW, fbH := a.window.DrawableSize()

	a.renderer, err = renderer.New(renderer.Config{
		Width:        fbW,
		Height:       fbH,
		Stars:        cfg.Graphics.Stars,
		Seed:         cfg.Globe.Seed,
		EarthTexture: cfg.Globe.Texture,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.overlay, err = ui2d.New(a.width, a.height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create overlay: %w", err)
	}
	a.ui = ui2d.NewContext(a.overlay)

	a.session, err = NewSession(cfg, src, noKey)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	a.log.Info("initialized")
	return a, nil
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true
	a.session.Start(a.cfg.News.RefreshInterval)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	var frameBudget time.Duration
	if !a.cfg.Graphics.VSync && a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		a.session.Poll()
		a.session.Update(dt)
		a.render(float32(dt))

		if a.captureNext {
			a.captureNext = false
			a.capture()
		}
		a.window.SwapBuffers()

		frameCount++
		if since := time.Since(fpsTimer); since >= time.Second {
			a.fps = float64(frameCount) / since.Seconds()
			a.log.Debug("fps", zap.Float64("fps", a.fps))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (a *App) handleEvents() {
	composer := a.session.Composer()
	in := a.ui.Input()

	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			a.width, a.height = a.window.GetSize()
			fbW, fbH := a.window.DrawableSize()
			a.renderer.Resize(fbW, fbH)
			a.overlay.Resize(a.width, a.height)

		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				if a.session.Escape() {
					a.running = false
				}
			case sdl.SCANCODE_R:
				a.session.Refresh()
			case sdl.SCANCODE_F12:
				a.captureNext = true
			}

		case input.EventMouseMove:
			x, y := float32(e.MouseX), float32(e.MouseY)
			in.MouseX, in.MouseY = x, y
			if a.globePress || !a.ui.WantsMouse(x, y) {
				composer.PointerMove(x, y)
			} else {
				composer.PointerLeave()
			}

		case input.EventMouseDown:
			if e.Button != input.ButtonLeft {
				continue
			}
			x, y := float32(e.MouseX), float32(e.MouseY)
			in.MouseX, in.MouseY = x, y
			in.MouseLeftDown = true
			in.MouseLeftClicked = true
			if !a.ui.WantsMouse(x, y) {
				a.globePress = true
				composer.PointerDown(x, y)
			}

		case input.EventMouseUp:
			if e.Button != input.ButtonLeft {
				continue
			}
			in.MouseLeftDown = false
			if a.globePress {
				a.globePress = false
				composer.PointerUp(float32(e.MouseX), float32(e.MouseY))
			}

		case input.EventMouseWheel:
			if !a.ui.WantsMouse(in.MouseX, in.MouseY) {
				composer.Zoom(e.Wheel)
			}

		case input.EventMouseLeave:
			composer.PointerLeave()
		}
	}
}

func (a *App) render(dt float32) {
	frame := a.session.Composer().Frame(a.width, a.height)

	a.renderer.Begin(dt)
	a.renderer.Draw(frame)

	a.overlay.Begin()
	a.ui.Begin()
	ui.Cards{}.Draw(a.overlay, frame)

	state := a.session.OverlayState(float32(a.width), float32(a.height))
	if a.cfg.Graphics.ShowFPS {
		state.FPS = a.fps
	}
	actions := ui.Overlay{}.Draw(a.ui, state)

	a.ui.End()
	a.overlay.End()

	a.session.Handle(actions)
}

func (a *App) capture() {
	w, h := a.window.DrawableSize()
	path, err := a.screenshot.Capture(w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases all resources.
func (a *App) Close() {
	a.log.Info("closing")

	if a.session != nil {
		a.session.Close()
	}
	if a.overlay != nil {
		a.overlay.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
