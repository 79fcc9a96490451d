package prefs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mapforge/mapforge/internal/prefs/layer"
	"github.com/mapforge/mapforge/internal/prefs/loader"
	"github.com/mapforge/mapforge/internal/prefs/notify"
	"github.com/mapforge/mapforge/internal/prefs/registry"
	"github.com/mapforge/mapforge/internal/prefs/watcher"
	"github.com/mapforge/mapforge/internal/session"
)

// Prefs provides unified access to the mapforge settings system.
// It manages the persistent settings store, typed access with defaults,
// the current session, legacy-key migration, and change notification.
type Prefs struct {
	mu sync.RWMutex

	// Layer manager for the merged settings store
	layers *layer.Manager

	// Known-settings table
	reg *registry.Registry

	// File watcher for live reload of settings files
	watcher *watcher.Watcher

	// Change notifier
	notifier *notify.Notifier

	// Current session and its debounced writer
	session *session.Session
	saver   *session.Saver

	// Directories
	userDir    string
	projectDir string
	dataDir    string

	// Options
	enableWatcher bool
	now           func() time.Time

	// configErrors stores errors encountered during settings access.
	// This allows detection of type mismatches without breaking callers.
	configErrors map[string]error
}

// Option configures a Prefs instance.
type Option func(*Prefs)

// WithUserDir sets the user settings directory.
func WithUserDir(dir string) Option {
	return func(p *Prefs) {
		p.userDir = dir
	}
}

// WithProjectDir sets the project settings directory.
func WithProjectDir(dir string) Option {
	return func(p *Prefs) {
		p.projectDir = dir
	}
}

// WithDataDir sets the application data directory (sessions, object types).
func WithDataDir(dir string) Option {
	return func(p *Prefs) {
		p.dataDir = dir
	}
}

// WithWatcher enables or disables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(p *Prefs) {
		p.enableWatcher = enable
	}
}

// WithClock overrides the time source. Used by tests that exercise
// install bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(p *Prefs) {
		p.now = now
	}
}

// New creates a new Prefs instance with the given options.
func New(opts ...Option) *Prefs {
	p := &Prefs{
		layers:        layer.NewManager(),
		reg:           registry.NewWithDefaults(),
		notifier:      notify.New(),
		enableWatcher: true,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.userDir == "" {
		p.userDir = defaultUserDir()
	}
	if p.dataDir == "" {
		p.dataDir = defaultDataDir()
	}

	if p.enableWatcher {
		p.watcher = watcher.New()
		p.watcher.OnChange(p.handleFileChange)
	}

	return p
}

// Load loads settings from all sources, restores the session, performs
// legacy-key migration, and records the application run.
func (p *Prefs) Load(_ context.Context) error {
	p.mu.Lock()

	// Make sure the data directory exists; sessions and the default
	// object types file live there.
	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		p.mu.Unlock()
		return err
	}

	p.loadDefaults()

	if err := p.loadUserSettings(); err != nil && !os.IsNotExist(err) {
		p.mu.Unlock()
		return err
	}

	if p.projectDir != "" {
		if err := p.loadProjectSettings(); err != nil && !os.IsNotExist(err) {
			p.mu.Unlock()
			return err
		}
	}

	if err := p.loadEnvironment(); err != nil {
		p.mu.Unlock()
		return err
	}

	w := p.watcher
	p.mu.Unlock()

	// Restore the previous session, or start from the default one.
	sessionFile := session.DefaultFileName(p.dataDir)
	if p.RestoreSessionOnStartup() {
		if last := p.LastSession(); last != "" {
			sessionFile = last
		}
	}

	sess, err := session.Load(sessionFile)
	if err != nil {
		// A broken session file degrades to a fresh session.
		sess = session.New(sessionFile)
	}

	p.mu.Lock()
	p.session = sess
	p.saver = session.NewSaver(sess, session.SaveDelay)
	p.mu.Unlock()

	// One-time migration of legacy settings keys into the session.
	p.migrateToSession()

	// Usage bookkeeping: first run date, donation reminder, run count.
	p.trackRun()

	// Start the settings file watcher outside the lock; its callbacks
	// acquire the same lock.
	if w != nil {
		w.Start()
	}

	return nil
}

// Close shuts down the preferences system, flushing any pending
// session write.
func (p *Prefs) Close() {
	if p.watcher != nil {
		p.watcher.Stop()
	}
	p.mu.RLock()
	saver := p.saver
	p.mu.RUnlock()
	if saver != nil {
		saver.Flush()
	}
	if p.notifier != nil {
		p.notifier.Close()
	}
}

// UserDir returns the user settings directory.
func (p *Prefs) UserDir() string { return p.userDir }

// DataDir returns the application data directory.
func (p *Prefs) DataDir() string { return p.dataDir }

// Registry returns the known-settings table.
func (p *Prefs) Registry() *registry.Registry { return p.reg }

// Get returns the effective value at the given path.
func (p *Prefs) Get(path string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	merged := p.layers.Merge()
	return layer.GetByPath(merged, path)
}

// Contains reports whether any layer holds a value at the given path.
func (p *Prefs) Contains(path string) bool {
	_, _, found := p.layers.Get(path)
	return found
}

// GetString returns a string value at the given path.
func (p *Prefs) GetString(path string) (string, error) {
	v, ok := p.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (p *Prefs) GetInt(path string) (int, error) {
	v, ok := p.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (p *Prefs) GetBool(path string) (bool, error) {
	v, ok := p.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a float64 value at the given path.
func (p *Prefs) GetFloat(path string) (float64, error) {
	v, ok := p.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path.
func (p *Prefs) GetStringSlice(path string) ([]string, error) {
	v, ok := p.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set sets a value at the given path in the user settings layer,
// persists the layer, and notifies observers with the effective old and
// new values.
func (p *Prefs) Set(path string, value any) error {
	if path == "" {
		return ErrInvalidPath
	}

	if err := p.reg.Validate(path, value); err != nil {
		return &ValidationError{Path: path, Message: err.Error(), Value: value}
	}

	p.mu.Lock()

	userLayer := p.ensureUserLayer()

	oldMerged := p.layers.Merge()
	oldValue, _ := layer.GetByPath(oldMerged, path)

	layer.SetByPath(userLayer.Data, path, value)
	p.layers.Invalidate()

	newMerged := p.layers.Merge()
	newValue, _ := layer.GetByPath(newMerged, path)

	err := p.persistUserLocked()
	p.mu.Unlock()

	p.notifier.NotifySet(path, oldValue, newValue, "user")

	return err
}

// Remove deletes a value from the user settings layer, persists the
// layer, and notifies observers.
func (p *Prefs) Remove(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	p.mu.Lock()

	userLayer := p.layers.GetLayer("user")
	if userLayer == nil {
		p.mu.Unlock()
		return nil
	}

	oldMerged := p.layers.Merge()
	oldValue, existed := layer.GetByPath(oldMerged, path)

	if !layer.DeleteByPath(userLayer.Data, path) {
		p.mu.Unlock()
		return nil
	}
	p.layers.Invalidate()

	err := p.persistUserLocked()
	p.mu.Unlock()

	if existed {
		p.notifier.NotifyDelete(path, oldValue, "user")
	}

	return err
}

// Subscribe registers an observer for all settings changes.
func (p *Prefs) Subscribe(observer notify.Observer) *notify.Subscription {
	return p.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes to a specific path.
func (p *Prefs) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return p.notifier.SubscribePath(path, observer)
}

// Merged returns the fully merged settings map.
func (p *Prefs) Merged() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.layers.Merge()
}

// ensureUserLayer returns the user layer, creating it when the user
// settings file did not exist at load time. Callers must hold the lock.
func (p *Prefs) ensureUserLayer() *layer.Layer {
	userLayer := p.layers.GetLayer("user")
	if userLayer == nil {
		userLayer = layer.New("user", layer.SourceUser, layer.PriorityUser)
		userLayer.Path = p.userSettingsPath()
		p.layers.AddLayer(userLayer)
	}
	if userLayer.Data == nil {
		userLayer.Data = make(map[string]any)
	}
	return userLayer
}

// persistUserLocked writes the user layer to disk. Callers must hold
// the lock.
func (p *Prefs) persistUserLocked() error {
	userLayer := p.layers.GetLayer("user")
	if userLayer == nil {
		return nil
	}
	return loader.SaveTOML(p.userSettingsPath(), userLayer.Data)
}

func (p *Prefs) userSettingsPath() string {
	return filepath.Join(p.userDir, "settings.toml")
}

func (p *Prefs) projectSettingsPath() string {
	return filepath.Join(p.projectDir, "config.toml")
}

// loadDefaults installs the builtin defaults layer from the registry.
func (p *Prefs) loadDefaults() {
	defaults := p.reg.Defaults()
	l := layer.NewWithData("defaults", layer.SourceBuiltin, layer.PriorityBuiltin, defaults)
	l.ReadOnly = true
	p.layers.AddLayer(l)
}

// loadUserSettings loads the user settings file.
func (p *Prefs) loadUserSettings() error {
	settingsPath := p.userSettingsPath()

	tomlLoader := loader.NewTOMLLoader(settingsPath)
	data, err := tomlLoader.Load()
	if err != nil {
		return err
	}
	if data == nil {
		data = make(map[string]any)
	}

	l := layer.NewWithData("user", layer.SourceUser, layer.PriorityUser, data)
	l.Path = settingsPath
	p.layers.AddLayer(l)

	if p.watcher != nil {
		_ = p.watcher.Watch(settingsPath)
	}

	return nil
}

// loadProjectSettings loads per-project settings.
func (p *Prefs) loadProjectSettings() error {
	settingsPath := p.projectSettingsPath()

	tomlLoader := loader.NewTOMLLoader(settingsPath)
	data, err := tomlLoader.Load()
	if err != nil {
		return err
	}
	if data == nil {
		return os.ErrNotExist
	}

	l := layer.NewWithData("project", layer.SourceProject, layer.PriorityProject, data)
	l.Path = settingsPath
	l.ReadOnly = true
	p.layers.AddLayer(l)

	if p.watcher != nil {
		_ = p.watcher.Watch(settingsPath)
	}

	return nil
}

// loadEnvironment loads settings overrides from environment variables.
func (p *Prefs) loadEnvironment() error {
	envLoader := loader.NewEnvLoader("MAPFORGE")
	data, err := envLoader.Load()
	if err != nil {
		return err
	}

	if len(data) > 0 {
		l := layer.NewWithData("environment", layer.SourceEnv, layer.PriorityEnv, data)
		l.ReadOnly = true
		p.layers.AddLayer(l)
	}

	return nil
}

// handleFileChange handles settings file change events from the watcher.
func (p *Prefs) handleFileChange(event watcher.Event) {
	p.mu.Lock()

	var layerName string
	var source layer.Source
	var priority int

	switch filepath.Clean(event.Path) {
	case filepath.Clean(p.userSettingsPath()):
		layerName = "user"
		source = layer.SourceUser
		priority = layer.PriorityUser
	case filepath.Clean(p.projectSettingsPath()):
		layerName = "project"
		source = layer.SourceProject
		priority = layer.PriorityProject
	default:
		p.mu.Unlock()
		return
	}

	if event.Op == watcher.OpRemove {
		p.layers.RemoveLayer(layerName)
		p.mu.Unlock()
		p.notifier.NotifyReload(event.Path)
		return
	}

	tomlLoader := loader.NewTOMLLoader(event.Path)
	data, err := tomlLoader.Load()
	if err != nil || data == nil {
		p.mu.Unlock()
		return
	}

	p.layers.RemoveLayer(layerName)
	l := layer.NewWithData(layerName, source, priority, data)
	l.Path = event.Path
	if layerName == "project" {
		l.ReadOnly = true
	}
	p.layers.AddLayer(l)
	p.mu.Unlock()

	p.notifier.NotifyReload(event.Path)
}

// recordConfigError stores settings errors for later retrieval.
// Only the first error for each path is recorded.
func (p *Prefs) recordConfigError(path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.configErrors == nil {
		p.configErrors = make(map[string]error)
	}
	if _, exists := p.configErrors[path]; !exists {
		p.configErrors[path] = err
	}
}

// ConfigErrors returns any settings errors encountered during access.
func (p *Prefs) ConfigErrors() map[string]error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(p.configErrors))
	for k, v := range p.configErrors {
		result[k] = v
	}
	return result
}

// DefaultObjectTypesFile returns the default object types file path
// inside the given data directory.
func DefaultObjectTypesFile(dataDir string) string {
	return filepath.Join(dataDir, "objecttypes.xml")
}

// defaultUserDir returns the default user settings directory.
func defaultUserDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mapforge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mapforge")
}

// defaultDataDir returns the default application data directory.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mapforge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mapforge")
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
