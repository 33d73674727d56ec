package profile

import (
	"io"
	"os"
)

// BackupExt marks the pre-write snapshot sibling of a profile file. A
// surviving backup means the last write did not complete.
const BackupExt = ".bak"

// load reads the profile for (name, type) through the backup protocol.
// Returns nil when the profile cannot be read; anomalies are logged.
func (m *Manager) load(name, typ string) *Profile {
	path := m.res.resolve(name, typ)
	backupPath := path + BackupExt

	m.restoreBackupIfFound(path, backupPath)

	doc, err := readProfileDocument(path)
	if err != nil {
		if IsNotFound(err) {
			m.log.V(1).Info("profile file not found", "name", name, "type", typ)
		} else {
			m.log.Info("failed to load profile", "name", name, "type", typ, "error", err)
		}
		m.metrics.observeLoad(typ, resultError)
		return nil
	}

	if fileExists(backupPath) {
		if err := os.Remove(backupPath); err != nil {
			m.log.Info("failed to remove profile backup", "path", backupPath, "error", err)
		}
	}

	m.metrics.observeLoad(typ, resultOK)
	return fromDocument(doc)
}

// restoreBackupIfFound treats an existing backup as the last known good
// content: when it parses, it replaces the profile file; when it does not,
// it is garbage from an interrupted backup copy and is deleted.
func (m *Manager) restoreBackupIfFound(path, backupPath string) {
	if !fileExists(backupPath) {
		return
	}
	m.log.Info("profile backup file found, the profile file may be corrupted", "path", path)

	if _, err := readProfileDocument(backupPath); err != nil {
		m.log.Info("failed to parse backup file, removing it", "path", backupPath, "error", err)
		if err := os.Remove(backupPath); err != nil {
			m.log.Info("failed to remove backup file", "path", backupPath, "error", err)
		}
		return
	}

	m.log.V(1).Info("restoring profile from backup", "path", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.log.Info("failed to remove profile file before restore", "path", path, "error", err)
	}
	if err := copyFile(backupPath, path); err != nil {
		m.log.Info("failed to restore profile from backup", "path", path, "error", err)
	}
}

// Save persists the profile tree as it is held in memory (keys, fields and
// sub-profiles with the data they carry) under the primary root, creating
// the type directory when needed. Own data and data merged in by Expand are
// not told apart: an expanded profile is written with the merged sub-profile
// content inline. An existing file is first copied to a backup
// that survives an interrupted write; the backup is removed once the new
// content is fully on disk.
func (m *Manager) Save(p *Profile) bool {
	if p == nil || p.Name() == "" || p.Type() == "" {
		m.log.Info("no profile data to write")
		return false
	}

	if err := os.MkdirAll(m.res.primaryTypeDir(p.Type()), 0o755); err != nil {
		m.log.Info("failed to create profile directory", "type", p.Type(), "error", err)
		m.metrics.observeSave(p.Type(), resultError)
		return false
	}

	target := m.res.primaryPath(p.Name(), p.Type())
	backupPath := target + BackupExt

	oldPath := m.res.resolve(p.Name(), p.Type())
	if fileExists(oldPath) {
		if err := copyFile(oldPath, backupPath); err != nil {
			m.log.Info("failed to create profile backup", "path", backupPath,
				"error", NewBackupFailureError(oldPath, err))
		}
	}

	if err := writeXMLFile(target, toDocument(p)); err != nil {
		// The backup stays; the next load restores from it.
		m.log.Info("failed to save profile", "name", p.Name(), "error", err)
		m.metrics.observeSave(p.Type(), resultError)
		return false
	}

	if err := os.Remove(backupPath); err != nil && !os.IsNotExist(err) {
		m.log.Info("failed to remove profile backup", "path", backupPath, "error", err)
	}
	m.metrics.observeSave(p.Type(), resultOK)
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
