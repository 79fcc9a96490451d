package registry

// RegisterDefaults installs the built-in settings table.
// Every key exposed by the preferences façade is declared here with its
// type and default. Free-form keys (lastPaths.*, legacy object type
// lists) are intentionally absent; they bypass validation.
func (r *Registry) RegisterDefaults() {
	// Interface appearance and snapping
	r.MustRegister(Setting{Path: "interface.showGrid", Type: TypeBool, Default: true,
		Description: "Draw the tile grid in map views."})
	r.MustRegister(Setting{Path: "interface.showTileObjectOutlines", Type: TypeBool, Default: false,
		Description: "Outline tile objects."})
	r.MustRegister(Setting{Path: "interface.showTileAnimations", Type: TypeBool, Default: true,
		Description: "Play tile animations."})
	r.MustRegister(Setting{Path: "interface.showTileCollisionShapes", Type: TypeBool, Default: false,
		Description: "Show tile collision shapes on the map."})
	r.MustRegister(Setting{Path: "interface.showObjectReferences", Type: TypeBool, Default: true,
		Description: "Draw arrows for object references."})
	r.MustRegister(Setting{Path: "interface.snapToGrid", Type: TypeBool, Default: false,
		Description: "Snap objects to the tile grid."})
	r.MustRegister(Setting{Path: "interface.snapToFineGrid", Type: TypeBool, Default: false,
		Description: "Snap objects to the fine grid."})
	r.MustRegister(Setting{Path: "interface.snapToPixels", Type: TypeBool, Default: false,
		Description: "Snap objects to whole pixels."})
	r.MustRegister(Setting{Path: "interface.gridColor", Type: TypeColor, Default: "#000000",
		Description: "Color of the tile grid."})
	r.MustRegister(Setting{Path: "interface.gridFine", Type: TypeInt, Default: 4,
		Minimum: MinValue(1), Maximum: MaxValue(64),
		Description: "Number of fine grid divisions per tile."})
	r.MustRegister(Setting{Path: "interface.objectLineWidth", Type: TypeFloat, Default: 2.0,
		Minimum: MinValue(0), Maximum: MaxValue(20),
		Description: "Line width used when drawing shape objects."})
	r.MustRegister(Setting{Path: "interface.highlightCurrentLayer", Type: TypeBool, Default: false,
		Description: "Dim all layers except the current one."})
	r.MustRegister(Setting{Path: "interface.highlightHoveredObject", Type: TypeBool, Default: true,
		Description: "Highlight the object under the mouse."})
	r.MustRegister(Setting{Path: "interface.showTilesetGrid", Type: TypeBool, Default: true,
		Description: "Draw the grid in tileset views."})
	r.MustRegister(Setting{Path: "interface.objectLabelVisibility", Type: TypeInt,
		Default: 2, Enum: []any{0, 1, 2},
		Description: "Which object name labels to show: none, selected, or all."})
	r.MustRegister(Setting{Path: "interface.labelForHoveredObject", Type: TypeBool, Default: false,
		Description: "Show a name label for the hovered object."})
	r.MustRegister(Setting{Path: "interface.applicationStyle", Type: TypeInt,
		Default: 2, Enum: []any{0, 1, 2},
		Description: "Application widget style: system, fusion (legacy), or mapforge."})
	r.MustRegister(Setting{Path: "interface.baseColor", Type: TypeColor, Default: "#d3d3d3",
		Description: "Base color of the custom application style."})
	r.MustRegister(Setting{Path: "interface.selectionColor", Type: TypeColor, Default: "#308cc6",
		Description: "Selection color of the custom application style."})
	r.MustRegister(Setting{Path: "interface.language", Type: TypeString, Default: "",
		Description: "Interface language (empty for system language)."})
	r.MustRegister(Setting{Path: "interface.useOpenGL", Type: TypeBool, Default: false,
		Description: "Use hardware-accelerated map rendering."})
	r.MustRegister(Setting{Path: "interface.wheelZoomsByDefault", Type: TypeBool, Default: false,
		Description: "Mouse wheel zooms instead of scrolling."})

	// Storage behavior
	r.MustRegister(Setting{Path: "storage.layerDataFormat", Type: TypeInt,
		Default: 4, Enum: []any{0, 1, 2, 3, 4},
		Description: "Tile layer data format for newly saved maps."})
	r.MustRegister(Setting{Path: "storage.mapRenderOrder", Type: TypeInt,
		Default: 0, Enum: []any{0, 1, 2, 3},
		Description: "Tile render order for newly created maps."})
	r.MustRegister(Setting{Path: "storage.safeSaving", Type: TypeBool, Default: true,
		Description: "Write files through a temporary file and rename."})
	r.MustRegister(Setting{Path: "storage.exportOnSave", Type: TypeBool, Default: false,
		Description: "Repeat the last export whenever a map is saved."})
	r.MustRegister(Setting{Path: "storage.reloadTilesets", Type: TypeBool, Default: true,
		Description: "Reload tileset images when they change on disk."})
	r.MustRegister(Setting{Path: "storage.objectTypesFile", Type: TypeString, Default: "",
		Description: "Path of the object types file (empty for the default location)."})

	// Export flags
	r.MustRegister(Setting{Path: "export.embedTilesets", Type: TypeBool, Default: false,
		Description: "Embed tilesets when exporting."})
	r.MustRegister(Setting{Path: "export.detachTemplateInstances", Type: TypeBool, Default: false,
		Description: "Detach template instances when exporting."})
	r.MustRegister(Setting{Path: "export.resolveObjectTypesAndProperties", Type: TypeBool, Default: false,
		Description: "Resolve object types and properties when exporting."})
	r.MustRegister(Setting{Path: "export.minimized", Type: TypeBool, Default: false,
		Description: "Minimize whitespace in exported files."})

	// Startup
	r.MustRegister(Setting{Path: "startup.restorePreviousSession", Type: TypeBool, Default: true,
		Description: "Restore the previous session at startup."})

	// Project bookkeeping
	r.MustRegister(Setting{Path: "project.recentProjects", Type: TypeStringList, Default: []any{},
		Description: "Recently opened project files."})
	r.MustRegister(Setting{Path: "project.lastSession", Type: TypeString, Default: "",
		Description: "Session file restored at startup."})

	// Plugin state lists
	r.MustRegister(Setting{Path: "plugins.enabled", Type: TypeStringList, Default: []any{},
		Description: "Plugins explicitly enabled by the user."})
	r.MustRegister(Setting{Path: "plugins.disabled", Type: TypeStringList, Default: []any{},
		Description: "Plugins explicitly disabled by the user."})

	// Install bookkeeping
	r.MustRegister(Setting{Path: "install.firstRun", Type: TypeDate, Default: "",
		Description: "Date of the first application start."})
	r.MustRegister(Setting{Path: "install.runCount", Type: TypeInt, Default: 0,
		Minimum:     MinValue(0),
		Description: "Number of application starts."})
	r.MustRegister(Setting{Path: "install.isSupporter", Type: TypeBool, Default: false,
		Description: "The user supports mapforge development."})
	r.MustRegister(Setting{Path: "install.donationDialogTime", Type: TypeDate, Default: "",
		Description: "Earliest date the donation reminder may appear."})
	r.MustRegister(Setting{Path: "install.checkForUpdates", Type: TypeBool, Default: true,
		Description: "Check for new versions at startup."})
	r.MustRegister(Setting{Path: "install.displayNews", Type: TypeBool, Default: true,
		Description: "Show project news in the status bar."})

	// Logging
	r.MustRegister(Setting{Path: "logging.level", Type: TypeString, Default: "info",
		Enum:        []any{"debug", "info", "warn", "error"},
		Description: "Log verbosity."})
	r.MustRegister(Setting{Path: "logging.format", Type: TypeString, Default: "text",
		Enum:        []any{"text", "json"},
		Description: "Log output format."})
}
