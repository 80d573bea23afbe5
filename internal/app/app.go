package app

import (
	"fmt"
	"os"

	"github.com/wavescope/wavescope/internal/config"
	"github.com/wavescope/wavescope/internal/event"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty disables
	// file configuration and live reload.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Files are waveform files to open at startup.
	Files []string
}

// Application owns the top-level wiring: configuration, logger, event bus
// and the session manager.
type Application struct {
	opts    Options
	cfg     config.Config
	logger  *Logger
	bus     *event.Bus
	session *SessionManager

	cfgWatcher *config.Watcher
	logFile    *os.File
}

// New creates the application from options.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	app := &Application{
		opts: opts,
		cfg:  cfg,
		bus:  event.NewBus(),
	}

	if err := app.setupLogger(); err != nil {
		return nil, err
	}
	app.session = NewSessionManager(app.bus)

	if opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath, app.onConfigReload, func(err error) {
			app.logger.WithComponent("config").Error("watch error: %v", err)
		})
		if err != nil {
			app.logger.WithComponent("config").Warn("live reload disabled: %v", err)
		} else {
			app.cfgWatcher = w
		}
	}

	for _, path := range opts.Files {
		if _, err := app.session.Open(path); err != nil {
			app.logger.Error("opening %s: %v", path, err)
		}
	}

	return app, nil
}

func (app *Application) setupLogger() error {
	level := app.cfg.Log.Level
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(level)

	if app.cfg.Log.File != "" {
		f, err := os.OpenFile(app.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		app.logFile = f
		logCfg.Output = f
	}

	app.logger = NewLogger(logCfg)
	return nil
}

// onConfigReload applies a freshly loaded configuration.
func (app *Application) onConfigReload(cfg config.Config) {
	app.cfg = cfg
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	app.logger.WithComponent("config").Info("configuration reloaded")
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Sessions returns the session manager.
func (app *Application) Sessions() *SessionManager {
	return app.session
}

// Config returns the current configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Shutdown releases application resources. Safe to call once.
func (app *Application) Shutdown() {
	if app.cfgWatcher != nil {
		_ = app.cfgWatcher.Close()
		app.cfgWatcher = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}
