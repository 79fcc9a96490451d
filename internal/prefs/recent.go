package prefs

import (
	"os"
	"path/filepath"
)

// MaxRecentFiles caps the recent file and recent project lists.
const MaxRecentFiles = 8

// FileType identifies a category of file for last-path bookkeeping.
type FileType int

const (
	ObjectTypesFile FileType = iota
	ObjectTemplateFile
	ExternalTileset
	ExportedFile
	ImageFile
	ProjectFile
	WorldFile
)

// lastPathKey returns the settings path storing the last used directory
// for a file type.
func lastPathKey(fileType FileType) string {
	switch fileType {
	case ObjectTypesFile:
		return "lastPaths.objectTypesFile"
	case ObjectTemplateFile:
		return "lastPaths.objectTemplateFile"
	case ExternalTileset:
		return "lastPaths.externalTileset"
	case ExportedFile:
		return "lastPaths.exportedFile"
	case ImageFile:
		return "lastPaths.imageFile"
	case ProjectFile:
		return "lastPaths.projectFile"
	case WorldFile:
		return "lastPaths.worldFile"
	default:
		return ""
	}
}

// RecentProjects returns the recent project list, most recent first.
func (p *Prefs) RecentProjects() []string {
	return p.getStringSliceOr("project.recentProjects", nil)
}

// AddRecentProject moves the given project to the front of the recent
// project list.
func (p *Prefs) AddRecentProject(fileName string) error {
	list := addToRecentList(p.RecentProjects(), fileName)
	return p.Set("project.recentProjects", list)
}

// ClearRecentProjects empties the recent project list.
func (p *Prefs) ClearRecentProjects() error {
	return p.Set("project.recentProjects", []string{})
}

// LastSession returns the session file used in the previous run.
func (p *Prefs) LastSession() string {
	return p.getStringOr("project.lastSession", "")
}

// SetLastSession records the session file for the next run.
func (p *Prefs) SetLastSession(fileName string) error {
	return p.Set("project.lastSession", fileName)
}

// LastPath returns the directory to start a file dialog in for the
// given file type. It falls back to the directory of the session's
// active file, then the user's home directory.
func (p *Prefs) LastPath(fileType FileType) string {
	if key := lastPathKey(fileType); key != "" {
		if path := p.getStringOr(key, ""); path != "" {
			return path
		}
	}

	if s := p.Session(); s != nil {
		if active := s.ActiveFile(); active != "" {
			return filepath.Dir(active)
		}
	}

	home, _ := os.UserHomeDir()
	return home
}

// SetLastPath records the directory last used for the given file type.
// Passing a file path records its directory.
func (p *Prefs) SetLastPath(fileType FileType, path string) error {
	key := lastPathKey(fileType)
	if key == "" || path == "" {
		return nil
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		path = filepath.Dir(path)
	}
	return p.Set(key, path)
}

// RecentFiles returns the session's recent file list, most recent first.
func (p *Prefs) RecentFiles() []string {
	if s := p.Session(); s != nil {
		return s.RecentFiles()
	}
	return nil
}

// AddRecentFile moves the given file to the front of the session's
// recent file list and schedules a session save.
func (p *Prefs) AddRecentFile(fileName string) {
	s := p.Session()
	if s == nil {
		return
	}
	s.AddRecentFile(fileName)
	p.SaveSession()
	p.notifier.NotifySet("session.recentFiles", nil, s.RecentFiles(), "session")
}

// ClearRecentFiles empties the session's recent file list and schedules
// a session save.
func (p *Prefs) ClearRecentFiles() {
	s := p.Session()
	if s == nil {
		return
	}
	s.ClearRecentFiles()
	p.SaveSession()
	p.notifier.NotifySet("session.recentFiles", nil, []string{}, "session")
}

// FileDialogStartLocation returns a sensible directory for opening a
// file dialog: the active file's directory, then the most recent
// file's, then home.
func (p *Prefs) FileDialogStartLocation() string {
	if s := p.Session(); s != nil {
		if active := s.ActiveFile(); active != "" {
			return filepath.Dir(active)
		}
	}
	if recent := p.RecentFiles(); len(recent) > 0 {
		return filepath.Dir(recent[0])
	}
	home, _ := os.UserHomeDir()
	return home
}

// addToRecentList prepends fileName to a most-recent-first list,
// removing duplicates and capping the result. Paths are cleaned and
// made absolute so duplicate spellings collapse.
func addToRecentList(list []string, fileName string) []string {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		abs = filepath.Clean(fileName)
	}

	result := make([]string, 0, MaxRecentFiles)
	result = append(result, abs)
	for _, entry := range list {
		if entry == abs {
			continue
		}
		result = append(result, entry)
		if len(result) == MaxRecentFiles {
			break
		}
	}
	return result
}
