package app

import (
	"context"
	"fmt"
	"os"

	"github.com/mapforge/mapforge/internal/objtypes"
	"github.com/mapforge/mapforge/internal/plugin"
	"github.com/mapforge/mapforge/internal/prefs"
	"github.com/mapforge/mapforge/internal/prefs/notify"
)

// App wires the settings system, session, object types, and plugins
// together for one application run.
type App struct {
	log         *Logger
	prefs       *prefs.Prefs
	objectTypes *objtypes.Store
	plugins     *plugin.Manager
	watchers    bool

	subscriptions []*notify.Subscription
}

// Config configures the application.
type Config struct {
	// UserDir overrides the user settings directory.
	UserDir string
	// ProjectDir points at an open project, empty for none.
	ProjectDir string
	// DataDir overrides the application data directory.
	DataDir string
	// Logger overrides the default logger.
	Logger *Logger
	// DisableWatchers turns off all file watching. Used by tests and
	// one-shot command invocations.
	DisableWatchers bool
}

// New creates the application. Call Start to load state.
func New(cfg Config) *App {
	log := cfg.Logger
	if log == nil {
		log = NewLogger(DefaultLoggerConfig())
	}

	opts := []prefs.Option{
		prefs.WithWatcher(!cfg.DisableWatchers),
	}
	if cfg.UserDir != "" {
		opts = append(opts, prefs.WithUserDir(cfg.UserDir))
	}
	if cfg.ProjectDir != "" {
		opts = append(opts, prefs.WithProjectDir(cfg.ProjectDir))
	}
	if cfg.DataDir != "" {
		opts = append(opts, prefs.WithDataDir(cfg.DataDir))
	}

	return &App{
		log:      log,
		prefs:    prefs.New(opts...),
		watchers: !cfg.DisableWatchers,
	}
}

// Prefs returns the settings system.
func (a *App) Prefs() *prefs.Prefs { return a.prefs }

// ObjectTypes returns the object types store.
func (a *App) ObjectTypes() *objtypes.Store { return a.objectTypes }

// Plugins returns the plugin manager.
func (a *App) Plugins() *plugin.Manager { return a.plugins }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.log }

// Start loads settings, the session, object types, and plugins.
func (a *App) Start(ctx context.Context) error {
	if err := a.prefs.Load(ctx); err != nil {
		return fmt.Errorf("app: load settings: %w", err)
	}

	a.configureLogger()

	if err := a.loadObjectTypes(); err != nil {
		a.log.Warn("object types unavailable: %v", err)
	}

	a.plugins = plugin.NewManager(plugin.ManagerConfig{
		PluginPaths: plugin.DefaultPluginPaths(a.prefs.DataDir()),
		Store:       a.prefs,
	})
	if err := a.plugins.Discover(); err != nil {
		a.log.Warn("plugin discovery failed: %v", err)
	}

	if err := a.plugins.RunEnabled(ctx); err != nil {
		a.log.Warn("plugin startup failed: %v", err)
	}

	// Follow live changes to the logging and object types settings.
	a.subscriptions = append(a.subscriptions,
		a.prefs.SubscribePath("logging", func(notify.Change) {
			a.configureLogger()
		}),
		a.prefs.SubscribePath("storage.objectTypesFile", func(notify.Change) {
			if a.objectTypes == nil {
				return
			}
			if err := a.objectTypes.SetPath(a.prefs.ObjectTypesFilePath()); err != nil {
				a.log.Warn("switch object types file: %v", err)
			}
		}),
	)

	a.log.Info("started, run %d", a.prefs.RunCount())
	return nil
}

// Close flushes pending state and releases all resources.
func (a *App) Close() error {
	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	a.subscriptions = nil

	if a.plugins != nil {
		a.plugins.Close()
	}
	if a.objectTypes != nil {
		a.objectTypes.Close()
	}

	err := a.prefs.SaveSessionNow()
	a.prefs.Close()
	return err
}

// configureLogger applies the logging settings.
func (a *App) configureLogger() {
	level, err := a.prefs.GetString("logging.level")
	if err == nil {
		a.log.SetLevel(ParseLogLevel(level))
	}
}

// loadObjectTypes reads the object types file. When the file cannot be
// read, type definitions left in the settings store by older releases
// are used instead; once the file is readable those legacy keys are
// removed for good.
func (a *App) loadObjectTypes() error {
	store := objtypes.NewStore(a.prefs.ObjectTypesFilePath())
	a.objectTypes = store

	store.OnReload(func(types objtypes.Types) {
		a.log.Info("object types reloaded, %d types", len(types))
	})

	fileReadable := true
	if _, err := os.Stat(store.Path()); err != nil {
		fileReadable = false
	}
	if err := store.Load(); err != nil {
		fileReadable = false
	}

	if !fileReadable {
		names, namesErr := a.prefs.GetStringSlice("objectTypes.names")
		colors, colorsErr := a.prefs.GetStringSlice("objectTypes.colors")
		if namesErr == nil && colorsErr == nil && len(names) > 0 {
			if err := store.SetTypes(objtypes.FromLegacyLists(names, colors)); err != nil {
				return err
			}
		}
	} else {
		_ = a.prefs.Remove("objectTypes")
	}

	if !a.watchers {
		return nil
	}
	return store.Watch()
}
