package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/scenetick/internal/ctxlog"
	"github.com/vk/scenetick/internal/scene"
)

// SceneLoader abstracts the scene file format away from the app lifecycle.
type SceneLoader interface {
	Load(ctx context.Context, paths ...string) (*scene.Scene, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	scene  *scene.Scene
	config *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a loaded scene.
func NewApp(outW io.Writer, appConfig *Config, loader SceneLoader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	s, err := loader.Load(ctx, appConfig.ScenePath)
	if err != nil {
		// A failure to load the scene is a fatal startup error.
		panic(fmt.Errorf("failed to load scene: %w", err))
	}
	logger.Debug("Scene loaded.", "entities", s.Len(), "time", s.Time())

	return &App{
		outW:   outW,
		logger: logger,
		scene:  s,
		config: appConfig,
	}
}

// Scene returns the application's scene. This is primarily for testing.
func (a *App) Scene() *scene.Scene {
	return a.scene
}
