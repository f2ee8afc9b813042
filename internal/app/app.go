// Package app wires the window, input, viewer core, and service client into
// the interactive application loop.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/meshforge/meshview/internal/api"
	"github.com/meshforge/meshview/internal/config"
	"github.com/meshforge/meshview/internal/engine/input"
	"github.com/meshforge/meshview/internal/engine/window"
	"github.com/meshforge/meshview/internal/logger"
	"github.com/meshforge/meshview/internal/viewer"
)

// Manual orientation step per key press, radians.
const orbitStep = 0.1

// App is the running viewer application.
type App struct {
	cfg     *config.Config
	running bool

	window *window.Window
	input  *input.Input
	client *api.Client

	session  *viewer.Session
	controls *viewer.Controls
	viewer   *viewer.Viewer
}

// New creates the window, render session, and service client.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Meshview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The GL backend needs the context the window just created.
	a.controls = viewer.NewControls(cfg.Viewer.AutoRotate)
	a.session = viewer.NewSession(viewer.NewGLBackend(), a.controls)
	if err := a.session.Start(a.window.GetSize()); err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	a.client = api.New(cfg.Service.BaseURL, cfg.Service.RequestTimeout)
	a.viewer = viewer.New(a.session, a.client)
	a.input = input.New()

	logger.Info("application initialized",
		zap.String("service", cfg.Service.BaseURL),
	)
	return a, nil
}

// ShowAsset starts loading the referenced model.
func (a *App) ShowAsset(url string) {
	a.viewer.SetAsset(viewer.NewAssetRef(url))
}

// Client returns the generation service client.
func (a *App) Client() *api.Client {
	return a.client
}

// Run drives the main loop until quit.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}

		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		// Apply any finished load, then draw.
		a.viewer.Update()
		a.session.Frame()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.session.Resize(event.Width, event.Height)

	case input.EventMouseWheel:
		a.controls.ZoomWheel(float32(event.WheelY))

	case input.EventKeyDown:
		a.handleKey(event.Key)
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	view := a.controls.View()

	switch key {
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		a.running = false
	case sdl.SCANCODE_SPACE:
		on := a.controls.ToggleAutoRotate()
		logger.Debug("auto-rotate toggled", zap.Bool("on", on))
	case sdl.SCANCODE_R:
		a.controls.Reset()
	case sdl.SCANCODE_LEFT:
		a.controls.SetYaw(view.Yaw - orbitStep)
	case sdl.SCANCODE_RIGHT:
		a.controls.SetYaw(view.Yaw + orbitStep)
	case sdl.SCANCODE_UP:
		a.controls.SetPitch(view.Pitch - orbitStep)
	case sdl.SCANCODE_DOWN:
		a.controls.SetPitch(view.Pitch + orbitStep)
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		a.controls.ZoomIn()
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		a.controls.ZoomOut()
	}
}

// Close disposes the viewer session and window. Safe to call after a failed
// or finished Run.
func (a *App) Close() {
	logger.Info("closing application")

	if a.viewer != nil {
		a.viewer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
