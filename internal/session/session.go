// Package session holds per-session editor state: recent files, open
// files, per-file view state, and free-form session options. Sessions
// persist as JSON documents; unknown keys written by other versions are
// preserved across a load/save round trip.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SaveDelay is how long session writes are debounced.
const SaveDelay = time.Second

// FileExtension is the session file extension.
const FileExtension = ".mapforge-session"

// maxRecentFiles caps the recent file list.
const maxRecentFiles = 8

// DefaultFileName returns the default session file inside the given
// data directory.
func DefaultFileName(dataDir string) string {
	return filepath.Join(dataDir, "default"+FileExtension)
}

// Session is a JSON-backed session document. All access goes through
// path-based getters and setters so keys this version does not know
// about survive untouched.
type Session struct {
	mu   sync.Mutex
	path string
	raw  []byte
}

// New returns an empty session that will be saved to the given path.
func New(path string) *Session {
	return &Session{path: path, raw: []byte("{}")}
}

// Load reads a session from the given path. A missing file yields an
// empty session; a malformed file is an error.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(path), nil
		}
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path}
	}
	return &Session{path: path, raw: data}, nil
}

// ParseError reports a malformed session file.
type ParseError struct {
	Path string
}

func (e *ParseError) Error() string {
	return "session: invalid session file " + e.Path
}

// FileName returns the path this session is saved to.
func (s *Session) FileName() string { return s.path }

// Save writes the session to disk. The write goes through a temporary
// file in the same directory and a rename, so a crash never leaves a
// truncated session behind.
func (s *Session) Save() error {
	s.mu.Lock()
	data := make([]byte, len(s.raw))
	copy(data, s.raw)
	path := s.path
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// RecentFiles returns the recent file list, most recent first.
func (s *Session) RecentFiles() []string {
	return s.stringList("recentFiles")
}

// SetRecentFiles replaces the recent file list.
func (s *Session) SetRecentFiles(files []string) {
	s.setValue("recentFiles", files)
}

// AddRecentFile moves a file to the front of the recent file list,
// dropping duplicates and trimming the list to its maximum length.
func (s *Session) AddRecentFile(fileName string) {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		abs = filepath.Clean(fileName)
	}

	recent := s.RecentFiles()
	result := make([]string, 0, maxRecentFiles)
	result = append(result, abs)
	for _, entry := range recent {
		if entry == abs {
			continue
		}
		result = append(result, entry)
		if len(result) == maxRecentFiles {
			break
		}
	}
	s.SetRecentFiles(result)
}

// ClearRecentFiles empties the recent file list.
func (s *Session) ClearRecentFiles() {
	s.SetRecentFiles([]string{})
}

// OpenFiles returns the files that were open when the session was saved.
func (s *Session) OpenFiles() []string {
	return s.stringList("openFiles")
}

// SetOpenFiles replaces the open file list.
func (s *Session) SetOpenFiles(files []string) {
	s.setValue("openFiles", files)
}

// ActiveFile returns the file that was focused when the session was saved.
func (s *Session) ActiveFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gjson.GetBytes(s.raw, "activeFile").String()
}

// SetActiveFile records the focused file.
func (s *Session) SetActiveFile(fileName string) {
	s.setValue("activeFile", fileName)
}

// FileState returns the saved view state for a file, or nil.
func (s *Session) FileState(fileName string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := gjson.GetBytes(s.raw, "fileStates."+escapeKey(fileName))
	if !result.Exists() || !result.IsObject() {
		return nil
	}
	state, _ := result.Value().(map[string]any)
	return state
}

// SetFileState stores the view state for a file.
func (s *Session) SetFileState(fileName string, state map[string]any) {
	s.setValue("fileStates."+escapeKey(fileName), state)
}

// ClearFileState removes the view state for a file.
func (s *Session) ClearFileState(fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := sjson.DeleteBytes(s.raw, "fileStates."+escapeKey(fileName))
	if err == nil {
		s.raw = raw
	}
}

// HasOption reports whether the session holds a value at the given
// dot-separated option path.
func (s *Session) HasOption(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gjson.GetBytes(s.raw, path).Exists()
}

// Option returns the raw value at the given option path, or nil.
func (s *Session) Option(path string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := gjson.GetBytes(s.raw, path)
	if !result.Exists() {
		return nil
	}
	return result.Value()
}

// StringOption returns a string option, or the fallback.
func (s *Session) StringOption(path, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := gjson.GetBytes(s.raw, path)
	if result.Type != gjson.String {
		return fallback
	}
	return result.String()
}

// BoolOption returns a boolean option, or the fallback.
func (s *Session) BoolOption(path string, fallback bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := gjson.GetBytes(s.raw, path)
	if !result.IsBool() {
		return fallback
	}
	return result.Bool()
}

// IntOption returns an integer option, or the fallback.
func (s *Session) IntOption(path string, fallback int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := gjson.GetBytes(s.raw, path)
	if result.Type != gjson.Number {
		return fallback
	}
	return int(result.Int())
}

// SetOption stores a value at the given option path.
func (s *Session) SetOption(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := sjson.SetBytes(s.raw, path, value)
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// DeleteOption removes a value at the given option path.
func (s *Session) DeleteOption(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := sjson.DeleteBytes(s.raw, path)
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// JSON returns the session document.
func (s *Session) JSON() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]byte, len(s.raw))
	copy(data, s.raw)
	return data
}

func (s *Session) stringList(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := gjson.GetBytes(s.raw, path)
	if !result.IsArray() {
		return nil
	}

	items := result.Array()
	list := make([]string, 0, len(items))
	for _, item := range items {
		list = append(list, item.String())
	}
	return list
}

func (s *Session) setValue(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := sjson.SetBytes(s.raw, path, value)
	if err == nil {
		s.raw = raw
	}
}

// escapeKey escapes a map key for use in a gjson/sjson path. File
// names contain dots, which would otherwise be read as path separators.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
