package app

import (
	"context"
	"sync/atomic"

	"github.com/rook-computer/crosshair/internal/input"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/system"
	"github.com/rook-computer/crosshair/internal/web"
)

type App struct {
	Store  *state.Store
	Render render.Renderer
	Web    web.Server
	Input  input.Source
	Logger Logger

	// Console switches the VT to graphics mode while running. Device only.
	Console bool

	fullscreen atomic.Bool
	viewCh     chan struct{}

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, renderer render.Renderer, webServer web.Server, source input.Source) *App {
	return &App{
		Store:  store,
		Render: renderer,
		Web:    webServer,
		Input:  source,
		Logger: NoopLogger{},
		viewCh: make(chan struct{}, 1),
		exitCh: make(chan error, 1),
	}
}

// Exit requests the app to stop running. Only the first call counts.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

func (app *App) Fullscreen() bool { return app.fullscreen.Load() }

// SetFullscreen switches between the preview and the fullscreen surface.
func (app *App) SetFullscreen(enabled bool) {
	if app.fullscreen.Swap(enabled) == enabled {
		return
	}
	app.Logger.Infof("app", "fullscreen %v", enabled)
	app.viewChanged()
}

func (app *App) ToggleFullscreen() {
	for {
		cur := app.fullscreen.Load()
		if app.fullscreen.CompareAndSwap(cur, !cur) {
			app.Logger.Infof("app", "fullscreen %v", !cur)
			app.viewChanged()
			return
		}
	}
}

// HandleFullscreen is the web API hook for POST /api/v1/fullscreen.
func (app *App) HandleFullscreen(ctx context.Context, enabled bool) error {
	app.SetFullscreen(enabled)
	return nil
}

func (app *App) viewChanged() {
	if app.viewCh == nil {
		return
	}
	select {
	case app.viewCh <- struct{}{}:
	default:
	}
}

// Start runs the app until ctx is done or Exit is called. The renderer,
// input source and web server are started here and stopped before Start
// returns. It is the only goroutine that draws.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.viewCh == nil {
		app.viewCh = make(chan struct{}, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.exitOnce.Store(false)

	if app.Render == nil {
		app.Render = &render.NoopRenderer{}
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer func() {
		if err := app.Render.Stop(); err != nil {
			app.Logger.Errorf("app", "renderer stop error: %v", err)
		}
	}()

	var events <-chan input.Event
	if app.Input != nil {
		if err := app.Input.Start(ctx); err != nil {
			app.Logger.Errorf("app", "input start error: %v", err)
		} else {
			events = app.Input.Events()
			defer app.Input.Stop()
		}
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("app", "web start error: %v", err)
			return err
		}
		defer app.Web.Stop()
	}

	if app.Console {
		restore := system.EnterGraphicsConsole(app.Logger)
		defer restore()
	}

	updates, unsubscribe := app.Store.Subscribe()
	defer unsubscribe()

	app.redraw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case _, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			app.redraw()
		case <-app.viewCh:
			app.redraw()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			app.handleInput(ev)
		}
	}
}

// redraw always reads the latest configuration, so a burst of snapshots
// collapses into one frame.
func (app *App) redraw() {
	app.Render.Redraw(render.View{Config: app.Store.Config(), Fullscreen: app.Fullscreen()})
}

func (app *App) handleInput(ev input.Event) {
	switch ev {
	case input.ToggleFullscreen:
		app.ToggleFullscreen()
	case input.ExitFullscreen:
		if app.Fullscreen() {
			app.SetFullscreen(false)
		}
	default:
		app.Logger.Errorf("app", "unknown input event %q", ev)
	}
}
