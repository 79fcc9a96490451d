package prefs

import (
	"github.com/mapforge/mapforge/internal/prefs/layer"
	"github.com/mapforge/mapforge/internal/session"
)

// sessionMigration maps a settings key from older releases to its
// session option. These values used to live in the settings store but
// are per-session state.
type sessionMigration struct {
	settingsKey string
	sessionKey  string
}

var sessionMigrations = []sessionMigration{
	{"automapping.whileDrawing", "automapping.whileDrawing"},

	{"loadedWorlds", "loadedWorlds"},
	{"storage.stampsDirectory", "stampsFolder"},

	{"map.orientation", "map.orientation"},
	{"storage.layerDataFormat", "map.layerDataFormat"},
	{"storage.mapRenderOrder", "map.renderOrder"},
	{"map.fixedSize", "map.fixedSize"},
	{"map.width", "map.width"},
	{"map.height", "map.height"},
	{"map.tileWidth", "map.tileWidth"},
	{"map.tileHeight", "map.tileHeight"},

	{"tileset.type", "tileset.type"},
	{"tileset.embedInMap", "tileset.embedInMap"},
	{"tileset.useTransparentColor", "tileset.useTransparentColor"},
	{"tileset.transparentColor", "tileset.transparentColor"},
	{"tileset.tileSize", "tileset.tileSize"},
	{"tileset.spacing", "tileset.spacing"},
	{"tileset.margin", "tileset.margin"},

	{"addPropertyDialog.propertyType", "property.type"},

	{"console.history", "console.history"},

	{"saveAsImage.visibleLayersOnly", "exportAsImage.visibleLayersOnly"},
	{"saveAsImage.currentScale", "exportAsImage.useCurrentScale"},
	{"saveAsImage.drawGrid", "exportAsImage.drawTileGrid"},
	{"saveAsImage.includeBackgroundColor", "exportAsImage.includeBackgroundColor"},

	{"resizeMap.removeObjects", "resizeMap.removeObjects"},

	{"animation.frameDuration", "frame.defaultDuration"},

	{"lastUsedExportFilter", "map.lastUsedExportFilter"},
	{"lastUsedMapFormat", "map.lastUsedFormat"},
	{"lastUsedOpenFilter", "file.lastUsedOpenFilter"},
	{"lastUsedTilesetExportFilter", "tileset.lastUsedExportFilter"},
	{"lastUsedTilesetFilter", "tileset.lastUsedFilter"},
	{"lastUsedTilesetFormat", "tileset.lastUsedFormat"},
}

// migrateToSession moves settings from older releases into the session.
// Keys are only consulted in the user settings file, never in defaults
// or project overrides, and are removed once migrated. The manually
// handled keys are removed only after the session was written, so a
// failed write retries the migration on the next run.
func (p *Prefs) migrateToSession() {
	p.mu.Lock()
	userLayer := p.layers.GetLayer("user")
	sess := p.session
	p.mu.Unlock()

	if userLayer == nil || sess == nil {
		return
	}

	migrated := false

	for _, m := range sessionMigrations {
		p.mu.Lock()
		value, found := layer.GetByPath(userLayer.Data, m.settingsKey)
		p.mu.Unlock()
		if !found {
			continue
		}

		if !sess.HasOption(m.sessionKey) {
			if err := sess.SetOption(m.sessionKey, value); err != nil {
				continue
			}
		}

		p.mu.Lock()
		layer.DeleteByPath(userLayer.Data, m.settingsKey)
		p.layers.Invalidate()
		p.mu.Unlock()
		migrated = true
	}

	// Recent files and per-file view state moved wholesale into the
	// session format. Only the default session inherits them; a named
	// session belongs to a project and starts clean.
	if sess.FileName() == session.DefaultFileName(p.dataDir) {
		manual := false

		p.mu.Lock()
		if _, found := layer.GetByPath(userLayer.Data, "recentFiles"); found {
			if names, ok := stringListAt(userLayer.Data, "recentFiles.fileNames"); ok {
				sess.SetRecentFiles(names)
			}
			if open, ok := stringListAt(userLayer.Data, "recentFiles.lastOpenFiles"); ok {
				sess.SetOpenFiles(open)
			}
			if active, found := layer.GetByPath(userLayer.Data, "recentFiles.lastActive"); found {
				if s, ok := active.(string); ok {
					sess.SetActiveFile(s)
				}
			}
			manual = true
		}

		if states, found := layer.GetByPath(userLayer.Data, "mapEditor.mapStates"); found {
			if stateMap, ok := states.(map[string]any); ok {
				for fileName, raw := range stateMap {
					state, ok := raw.(map[string]any)
					if !ok {
						continue
					}
					normalizeViewCenter(state)
					sess.SetFileState(fileName, state)
				}
			}
			manual = true
		}
		p.mu.Unlock()

		if manual {
			if err := sess.Save(); err == nil {
				p.mu.Lock()
				layer.DeleteByPath(userLayer.Data, "recentFiles")
				layer.DeleteByPath(userLayer.Data, "mapEditor.mapStates")
				p.layers.Invalidate()
				p.mu.Unlock()
				migrated = true
			}
		}
	}

	if migrated {
		p.mu.Lock()
		_ = p.persistUserLocked()
		p.mu.Unlock()
		p.SaveSession()
	}
}

// normalizeViewCenter rewrites a two-element viewCenter array into the
// {x, y} object form used by the session format.
func normalizeViewCenter(state map[string]any) {
	raw, ok := state["viewCenter"]
	if !ok {
		return
	}
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return
	}
	state["viewCenter"] = map[string]any{"x": pair[0], "y": pair[1]}
}

// stringListAt reads a string list from nested settings data.
func stringListAt(data map[string]any, path string) ([]string, bool) {
	raw, found := layer.GetByPath(data, path)
	if !found {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, s)
		}
		return result, true
	default:
		return nil, false
	}
}
