package synclog

import (
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
)

// LogExt sits between the profile name and the format extension, so a
// profile "foo" logs to "foo.log.xml".
const LogExt = ".log"

// Store reads and writes per-profile sync logs as XML files inside one
// directory. A log file exists only once at least one result has been
// recorded.
type Store struct {
	dir string
	log logr.Logger
}

// NewStore creates a log store rooted at dir.
func NewStore(dir string, log logr.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// FilePath returns the log file path for the given profile.
func (s *Store) FilePath(profileName string) string {
	return filepath.Join(s.dir, profileName+LogExt+".xml")
}

// Load reads the log for the given profile. Returns nil without error when
// no log has been recorded yet.
func (s *Store) Load(profileName string) (*SyncLog, error) {
	path := s.FilePath(profileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.V(1).Info("no sync log found for profile", "profile", profileName)
			return nil, nil
		}
		return nil, err
	}
	log, err := Unmarshal(data)
	if err != nil {
		s.log.Info("failed to parse sync log file", "path", path, "error", err)
		return nil, err
	}
	return log, nil
}

// Save truncate-writes the log, creating the store directory when needed.
func (s *Store) Save(l *SyncLog) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(s.FilePath(l.ProfileName()), data, 0o644)
}

// AppendResults loads or creates the log for the given profile, appends the
// results and writes the log back.
func (s *Store) AppendResults(profileName string, results SyncResults) error {
	log, err := s.Load(profileName)
	if err != nil {
		return err
	}
	if log == nil {
		log = NewSyncLog(profileName)
	}
	log.AddResults(results)
	return s.Save(log)
}

// Remove deletes the log file for the given profile. Missing files are not
// an error.
func (s *Store) Remove(profileName string) error {
	err := os.Remove(s.FilePath(profileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Rename moves the log file from one profile name to another. A missing
// source log means there is nothing to move.
func (s *Store) Rename(oldName, newName string) error {
	src := s.FilePath(oldName)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return os.Rename(src, s.FilePath(newName))
}
