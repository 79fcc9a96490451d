package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ManifestFileName is the file each plugin directory must contain.
const ManifestFileName = "plugin.json"

// Manifest describes a plugin's metadata.
type Manifest struct {
	// Identity
	Name        string `json:"name"`        // Unique identifier (e.g., "json-map-format")
	Version     string `json:"version"`     // Semver (e.g., "1.2.0")
	DisplayName string `json:"displayName"` // Human-readable name
	Description string `json:"description"` // Short description
	Author      string `json:"author"`      // Author name or org
	License     string `json:"license"`     // SPDX license identifier
	Homepage    string `json:"homepage"`    // URL to plugin homepage

	// Entry point
	Main string `json:"main"` // Relative path to main Lua file (default: "init.lua")

	// EnabledByDefault controls whether the plugin runs without an
	// explicit user choice.
	EnabledByDefault bool `json:"enabledByDefault"`

	// Formats the plugin contributes (map or tileset formats by name).
	Formats []FormatContribution `json:"formats"`

	// Internal: path to the plugin directory
	path string
}

// FormatContribution declares a file format the plugin provides.
type FormatContribution struct {
	ID         string   `json:"id"`         // Format ID (e.g., "json")
	Name       string   `json:"name"`       // Display name
	Extensions []string `json:"extensions"` // File extensions without dot
	CanRead    bool     `json:"canRead"`
	CanWrite   bool     `json:"canWrite"`
}

// Validation errors.
var (
	ErrMissingName    = errors.New("manifest: name is required")
	ErrInvalidName    = errors.New("manifest: name must be alphanumeric with hyphens")
	ErrMissingVersion = errors.New("manifest: version is required")
	ErrInvalidVersion = errors.New("manifest: version must be valid semver")
	ErrInvalidMain    = errors.New("manifest: main must be a .lua file")
	ErrMissingFormat  = errors.New("manifest: format id is required")
)

// namePattern validates plugin names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest loads and validates a plugin manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m.path = filepath.Dir(path)

	if m.Main == "" {
		m.Main = "init.lua"
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks the manifest for correctness.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, m.Name)
	}
	if m.Version == "" {
		return ErrMissingVersion
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, m.Version)
	}
	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: %q", ErrInvalidMain, m.Main)
	}
	for _, f := range m.Formats {
		if f.ID == "" {
			return ErrMissingFormat
		}
	}
	return nil
}

// Path returns the plugin directory.
func (m *Manifest) Path() string { return m.path }

// MainPath returns the absolute path to the plugin's entry script.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}
