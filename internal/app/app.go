package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/handlers"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	console  *diag.Console
	config   *Config
	collab   collab.Set
	handlers *handlers.Handlers
	logFile  *os.File
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and stage registry.
// Nil collaborators are replaced by the defaults; with no modules given the
// core model stages are registered.
func NewApp(outW io.Writer, appConfig *Config, set collab.Set, modules ...handlers.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	set = set.WithDefaults()
	h := handlers.New()
	if len(modules) == 0 {
		modules = coreModules(set.Models)
	}
	for _, mod := range modules {
		mod.Register(h)
	}
	logger.Debug("All stage modules registered.", "count", h.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		console:  diag.NewConsole(outW),
		config:   appConfig,
		collab:   set,
		handlers: h,
	}
}

// Handlers returns the application's stage registry. This is primarily for testing.
func (a *App) Handlers() *handlers.Handlers {
	return a.handlers
}

// Config returns the configuration the app was built with.
func (a *App) Config() *Config {
	return a.config
}

// Close releases the session log file.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
