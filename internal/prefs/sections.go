package prefs

import (
	"errors"
	"fmt"
)

// LayerDataFormat selects how tile layer data is encoded on save.
type LayerDataFormat int

const (
	LayerDataXML LayerDataFormat = iota
	LayerDataBase64
	LayerDataBase64Gzip
	LayerDataBase64Zlib
	LayerDataCSV
)

// RenderOrder selects the order in which map tiles are rendered.
type RenderOrder int

const (
	RenderRightDown RenderOrder = iota
	RenderRightUp
	RenderLeftDown
	RenderLeftUp
)

// ObjectLabelVisibility selects which object name labels are shown.
type ObjectLabelVisibility int

const (
	NoObjectLabels ObjectLabelVisibility = iota
	SelectedObjectLabels
	AllObjectLabels
)

// ApplicationStyle selects the interface style.
type ApplicationStyle int

const (
	SystemDefaultStyle ApplicationStyle = iota
	systemStyleRetired // retained slot for a removed style option
	MapforgeStyle
)

// ExportOption is a bitmask of map export behaviors.
type ExportOption int

const (
	EmbedTilesets ExportOption = 1 << iota
	DetachTemplateInstances
	ResolveObjectTypesAndProperties
	ExportMinimized
)

// InterfaceSettings is a snapshot of the interface settings section.
type InterfaceSettings struct {
	ShowGrid                 bool
	ShowTileObjectOutlines   bool
	ShowTileAnimations       bool
	ShowTileCollisionShapes  bool
	ShowObjectReferences     bool
	SnapToGrid               bool
	SnapToFineGrid           bool
	SnapToPixels             bool
	GridColor                string
	GridFine                 int
	ObjectLineWidth          float64
	HighlightCurrentLayer    bool
	HighlightHoveredObject   bool
	ShowTilesetGrid          bool
	ObjectLabelVisibility    ObjectLabelVisibility
	LabelForHoveredObject    bool
	ApplicationStyle         ApplicationStyle
	BaseColor                string
	SelectionColor           string
	Language                 string
	UseOpenGL                bool
	WheelZoomsByDefault      bool
}

// StorageSettings is a snapshot of the storage settings section.
type StorageSettings struct {
	LayerDataFormat LayerDataFormat
	MapRenderOrder  RenderOrder
	SafeSaving      bool
	ExportOnSave    bool
	ReloadTilesets  bool
	ObjectTypesFile string
}

// getStringOr returns the string at path, falling back to def and
// recording the error on a type mismatch.
func (p *Prefs) getStringOr(path, def string) string {
	v, err := p.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			p.recordConfigError(path, err)
		}
		return def
	}
	return v
}

func (p *Prefs) getIntOr(path string, def int) int {
	v, err := p.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			p.recordConfigError(path, err)
		}
		return def
	}
	return v
}

func (p *Prefs) getBoolOr(path string, def bool) bool {
	v, err := p.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			p.recordConfigError(path, err)
		}
		return def
	}
	return v
}

func (p *Prefs) getFloatOr(path string, def float64) float64 {
	v, err := p.GetFloat(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			p.recordConfigError(path, err)
		}
		return def
	}
	return v
}

func (p *Prefs) getStringSliceOr(path string, def []string) []string {
	v, err := p.GetStringSlice(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			p.recordConfigError(path, err)
		}
		return def
	}
	return v
}

// Interface returns a snapshot of the interface settings.
func (p *Prefs) Interface() InterfaceSettings {
	return InterfaceSettings{
		ShowGrid:                p.getBoolOr("interface.showGrid", true),
		ShowTileObjectOutlines:  p.getBoolOr("interface.showTileObjectOutlines", false),
		ShowTileAnimations:      p.getBoolOr("interface.showTileAnimations", true),
		ShowTileCollisionShapes: p.getBoolOr("interface.showTileCollisionShapes", false),
		ShowObjectReferences:    p.getBoolOr("interface.showObjectReferences", true),
		SnapToGrid:              p.getBoolOr("interface.snapToGrid", false),
		SnapToFineGrid:          p.getBoolOr("interface.snapToFineGrid", false),
		SnapToPixels:            p.getBoolOr("interface.snapToPixels", false),
		GridColor:               p.getStringOr("interface.gridColor", "#000000"),
		GridFine:                p.getIntOr("interface.gridFine", 4),
		ObjectLineWidth:         p.getFloatOr("interface.objectLineWidth", 2),
		HighlightCurrentLayer:   p.getBoolOr("interface.highlightCurrentLayer", false),
		HighlightHoveredObject:  p.getBoolOr("interface.highlightHoveredObject", true),
		ShowTilesetGrid:         p.getBoolOr("interface.showTilesetGrid", true),
		ObjectLabelVisibility:   ObjectLabelVisibility(p.getIntOr("interface.objectLabelVisibility", int(AllObjectLabels))),
		LabelForHoveredObject:   p.getBoolOr("interface.labelForHoveredObject", false),
		ApplicationStyle:        p.applicationStyle(),
		BaseColor:               p.getStringOr("interface.baseColor", "#d3d3d3"),
		SelectionColor:          p.getStringOr("interface.selectionColor", "#308cc6"),
		Language:                p.getStringOr("interface.language", ""),
		UseOpenGL:               p.getBoolOr("interface.useOpenGL", false),
		WheelZoomsByDefault:     p.getBoolOr("interface.wheelZoomsByDefault", false),
	}
}

// Storage returns a snapshot of the storage settings.
func (p *Prefs) Storage() StorageSettings {
	return StorageSettings{
		LayerDataFormat: LayerDataFormat(p.getIntOr("storage.layerDataFormat", int(LayerDataCSV))),
		MapRenderOrder:  RenderOrder(p.getIntOr("storage.mapRenderOrder", int(RenderRightDown))),
		SafeSaving:      p.getBoolOr("storage.safeSaving", true),
		ExportOnSave:    p.getBoolOr("storage.exportOnSave", false),
		ReloadTilesets:  p.getBoolOr("storage.reloadTilesets", true),
		ObjectTypesFile: p.objectTypesFilePath(),
	}
}

// applicationStyle maps the retired style slot to the current default.
func (p *Prefs) applicationStyle() ApplicationStyle {
	style := ApplicationStyle(p.getIntOr("interface.applicationStyle", int(MapforgeStyle)))
	if style == systemStyleRetired {
		return MapforgeStyle
	}
	return style
}

// ShowGrid reports whether the tile grid is drawn.
func (p *Prefs) ShowGrid() bool { return p.getBoolOr("interface.showGrid", true) }

// SetShowGrid sets whether the tile grid is drawn.
func (p *Prefs) SetShowGrid(v bool) error { return p.Set("interface.showGrid", v) }

// ShowTileObjectOutlines reports whether tile object outlines are drawn.
func (p *Prefs) ShowTileObjectOutlines() bool {
	return p.getBoolOr("interface.showTileObjectOutlines", false)
}

// SetShowTileObjectOutlines sets whether tile object outlines are drawn.
func (p *Prefs) SetShowTileObjectOutlines(v bool) error {
	return p.Set("interface.showTileObjectOutlines", v)
}

// ShowTileAnimations reports whether tile animations play.
func (p *Prefs) ShowTileAnimations() bool {
	return p.getBoolOr("interface.showTileAnimations", true)
}

// SetShowTileAnimations sets whether tile animations play.
func (p *Prefs) SetShowTileAnimations(v bool) error {
	return p.Set("interface.showTileAnimations", v)
}

// ShowTileCollisionShapes reports whether tile collision shapes are drawn.
func (p *Prefs) ShowTileCollisionShapes() bool {
	return p.getBoolOr("interface.showTileCollisionShapes", false)
}

// SetShowTileCollisionShapes sets whether tile collision shapes are drawn.
func (p *Prefs) SetShowTileCollisionShapes(v bool) error {
	return p.Set("interface.showTileCollisionShapes", v)
}

// ShowObjectReferences reports whether object reference arrows are drawn.
func (p *Prefs) ShowObjectReferences() bool {
	return p.getBoolOr("interface.showObjectReferences", true)
}

// SetShowObjectReferences sets whether object reference arrows are drawn.
func (p *Prefs) SetShowObjectReferences(v bool) error {
	return p.Set("interface.showObjectReferences", v)
}

// SnapToGrid reports whether editing snaps to the tile grid.
func (p *Prefs) SnapToGrid() bool { return p.getBoolOr("interface.snapToGrid", false) }

// SetSnapToGrid sets whether editing snaps to the tile grid.
func (p *Prefs) SetSnapToGrid(v bool) error { return p.Set("interface.snapToGrid", v) }

// SnapToFineGrid reports whether editing snaps to the fine grid.
func (p *Prefs) SnapToFineGrid() bool { return p.getBoolOr("interface.snapToFineGrid", false) }

// SetSnapToFineGrid sets whether editing snaps to the fine grid.
func (p *Prefs) SetSnapToFineGrid(v bool) error { return p.Set("interface.snapToFineGrid", v) }

// SnapToPixels reports whether editing snaps to pixels.
func (p *Prefs) SnapToPixels() bool { return p.getBoolOr("interface.snapToPixels", false) }

// SetSnapToPixels sets whether editing snaps to pixels.
func (p *Prefs) SetSnapToPixels(v bool) error { return p.Set("interface.snapToPixels", v) }

// GridColor returns the grid color in hex notation.
func (p *Prefs) GridColor() string { return p.getStringOr("interface.gridColor", "#000000") }

// SetGridColor sets the grid color in hex notation.
func (p *Prefs) SetGridColor(hex string) error { return p.Set("interface.gridColor", hex) }

// GridFine returns the fine grid subdivision count.
func (p *Prefs) GridFine() int { return p.getIntOr("interface.gridFine", 4) }

// SetGridFine sets the fine grid subdivision count.
func (p *Prefs) SetGridFine(v int) error { return p.Set("interface.gridFine", v) }

// ObjectLineWidth returns the line width used to draw shape objects.
func (p *Prefs) ObjectLineWidth() float64 { return p.getFloatOr("interface.objectLineWidth", 2) }

// SetObjectLineWidth sets the line width used to draw shape objects.
func (p *Prefs) SetObjectLineWidth(v float64) error {
	return p.Set("interface.objectLineWidth", v)
}

// HighlightCurrentLayer reports whether the current layer is highlighted.
func (p *Prefs) HighlightCurrentLayer() bool {
	return p.getBoolOr("interface.highlightCurrentLayer", false)
}

// SetHighlightCurrentLayer sets whether the current layer is highlighted.
func (p *Prefs) SetHighlightCurrentLayer(v bool) error {
	return p.Set("interface.highlightCurrentLayer", v)
}

// HighlightHoveredObject reports whether the hovered object is highlighted.
func (p *Prefs) HighlightHoveredObject() bool {
	return p.getBoolOr("interface.highlightHoveredObject", true)
}

// SetHighlightHoveredObject sets whether the hovered object is highlighted.
func (p *Prefs) SetHighlightHoveredObject(v bool) error {
	return p.Set("interface.highlightHoveredObject", v)
}

// ShowTilesetGrid reports whether the tileset view draws a grid.
func (p *Prefs) ShowTilesetGrid() bool { return p.getBoolOr("interface.showTilesetGrid", true) }

// SetShowTilesetGrid sets whether the tileset view draws a grid.
func (p *Prefs) SetShowTilesetGrid(v bool) error { return p.Set("interface.showTilesetGrid", v) }

// ObjectLabelVisibility returns which object labels are shown.
func (p *Prefs) ObjectLabelVisibility() ObjectLabelVisibility {
	return ObjectLabelVisibility(p.getIntOr("interface.objectLabelVisibility", int(AllObjectLabels)))
}

// SetObjectLabelVisibility sets which object labels are shown.
func (p *Prefs) SetObjectLabelVisibility(v ObjectLabelVisibility) error {
	return p.Set("interface.objectLabelVisibility", int(v))
}

// LabelForHoveredObject reports whether the hovered object gets a label.
func (p *Prefs) LabelForHoveredObject() bool {
	return p.getBoolOr("interface.labelForHoveredObject", false)
}

// SetLabelForHoveredObject sets whether the hovered object gets a label.
func (p *Prefs) SetLabelForHoveredObject(v bool) error {
	return p.Set("interface.labelForHoveredObject", v)
}

// ApplicationStyle returns the interface style.
func (p *Prefs) ApplicationStyle() ApplicationStyle { return p.applicationStyle() }

// SetApplicationStyle sets the interface style.
func (p *Prefs) SetApplicationStyle(v ApplicationStyle) error {
	return p.Set("interface.applicationStyle", int(v))
}

// BaseColor returns the base interface color in hex notation.
func (p *Prefs) BaseColor() string { return p.getStringOr("interface.baseColor", "#d3d3d3") }

// SetBaseColor sets the base interface color.
func (p *Prefs) SetBaseColor(hex string) error { return p.Set("interface.baseColor", hex) }

// SelectionColor returns the selection color in hex notation.
func (p *Prefs) SelectionColor() string {
	return p.getStringOr("interface.selectionColor", "#308cc6")
}

// SetSelectionColor sets the selection color.
func (p *Prefs) SetSelectionColor(hex string) error {
	return p.Set("interface.selectionColor", hex)
}

// Language returns the interface language override, empty for system.
func (p *Prefs) Language() string { return p.getStringOr("interface.language", "") }

// SetLanguage sets the interface language override.
func (p *Prefs) SetLanguage(lang string) error { return p.Set("interface.language", lang) }

// UseOpenGL reports whether hardware accelerated drawing is enabled.
func (p *Prefs) UseOpenGL() bool { return p.getBoolOr("interface.useOpenGL", false) }

// SetUseOpenGL sets whether hardware accelerated drawing is enabled.
func (p *Prefs) SetUseOpenGL(v bool) error { return p.Set("interface.useOpenGL", v) }

// WheelZoomsByDefault reports whether the mouse wheel zooms without a modifier.
func (p *Prefs) WheelZoomsByDefault() bool {
	return p.getBoolOr("interface.wheelZoomsByDefault", false)
}

// SetWheelZoomsByDefault sets whether the mouse wheel zooms without a modifier.
func (p *Prefs) SetWheelZoomsByDefault(v bool) error {
	return p.Set("interface.wheelZoomsByDefault", v)
}

// LayerDataFormat returns the preferred tile layer data encoding.
func (p *Prefs) LayerDataFormat() LayerDataFormat {
	return LayerDataFormat(p.getIntOr("storage.layerDataFormat", int(LayerDataCSV)))
}

// SetLayerDataFormat sets the preferred tile layer data encoding.
func (p *Prefs) SetLayerDataFormat(v LayerDataFormat) error {
	return p.Set("storage.layerDataFormat", int(v))
}

// MapRenderOrder returns the preferred map render order.
func (p *Prefs) MapRenderOrder() RenderOrder {
	return RenderOrder(p.getIntOr("storage.mapRenderOrder", int(RenderRightDown)))
}

// SetMapRenderOrder sets the preferred map render order.
func (p *Prefs) SetMapRenderOrder(v RenderOrder) error {
	return p.Set("storage.mapRenderOrder", int(v))
}

// SafeSaving reports whether files are written through a temporary file.
func (p *Prefs) SafeSaving() bool { return p.getBoolOr("storage.safeSaving", true) }

// SetSafeSaving sets whether files are written through a temporary file.
func (p *Prefs) SetSafeSaving(v bool) error { return p.Set("storage.safeSaving", v) }

// ExportOnSave reports whether the last export repeats on every save.
func (p *Prefs) ExportOnSave() bool { return p.getBoolOr("storage.exportOnSave", false) }

// SetExportOnSave sets whether the last export repeats on every save.
func (p *Prefs) SetExportOnSave(v bool) error { return p.Set("storage.exportOnSave", v) }

// ReloadTilesets reports whether tileset images reload on external change.
func (p *Prefs) ReloadTilesets() bool { return p.getBoolOr("storage.reloadTilesets", true) }

// SetReloadTilesets sets whether tileset images reload on external change.
func (p *Prefs) SetReloadTilesets(v bool) error { return p.Set("storage.reloadTilesets", v) }

// ExportOptions returns the active export option bitmask.
func (p *Prefs) ExportOptions() ExportOption {
	var opts ExportOption
	if p.getBoolOr("export.embedTilesets", false) {
		opts |= EmbedTilesets
	}
	if p.getBoolOr("export.detachTemplateInstances", false) {
		opts |= DetachTemplateInstances
	}
	if p.getBoolOr("export.resolveObjectTypesAndProperties", false) {
		opts |= ResolveObjectTypesAndProperties
	}
	if p.getBoolOr("export.minimized", false) {
		opts |= ExportMinimized
	}
	return opts
}

// SetExportOption sets or clears a single export option.
func (p *Prefs) SetExportOption(opt ExportOption, value bool) error {
	path, ok := exportOptionPath(opt)
	if !ok {
		return fmt.Errorf("unknown export option %d", opt)
	}
	return p.Set(path, value)
}

// ExportOptionEnabled reports whether a single export option is set.
func (p *Prefs) ExportOptionEnabled(opt ExportOption) bool {
	path, ok := exportOptionPath(opt)
	if !ok {
		return false
	}
	return p.getBoolOr(path, false)
}

func exportOptionPath(opt ExportOption) (string, bool) {
	switch opt {
	case EmbedTilesets:
		return "export.embedTilesets", true
	case DetachTemplateInstances:
		return "export.detachTemplateInstances", true
	case ResolveObjectTypesAndProperties:
		return "export.resolveObjectTypesAndProperties", true
	case ExportMinimized:
		return "export.minimized", true
	default:
		return "", false
	}
}

// RestoreSessionOnStartup reports whether the previous session reopens
// at startup.
func (p *Prefs) RestoreSessionOnStartup() bool {
	return p.getBoolOr("startup.restorePreviousSession", true)
}

// SetRestoreSessionOnStartup sets whether the previous session reopens
// at startup.
func (p *Prefs) SetRestoreSessionOnStartup(v bool) error {
	return p.Set("startup.restorePreviousSession", v)
}

// ObjectTypesFilePath returns the configured object types file, falling
// back to the default location in the data directory.
func (p *Prefs) ObjectTypesFilePath() string { return p.objectTypesFilePath() }

func (p *Prefs) objectTypesFilePath() string {
	if path := p.getStringOr("storage.objectTypesFile", ""); path != "" {
		return path
	}
	return DefaultObjectTypesFile(p.dataDir)
}

// SetObjectTypesFilePath sets the object types file location.
func (p *Prefs) SetObjectTypesFilePath(path string) error {
	return p.Set("storage.objectTypesFile", path)
}
