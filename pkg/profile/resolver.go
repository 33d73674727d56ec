package profile

import (
	"os"
	"path/filepath"
	"strings"
)

// Default store roots. The primary root is a user-writable overlay over the
// read-only system defaults in the secondary root.
const (
	DefaultSecondaryPath = "/etc/sync/profiles"
	defaultPrimaryRel    = ".sync/profiles"
)

// LogDirectory is the sub-directory of the sync type directory holding
// per-profile logs.
const LogDirectory = "logs"

// DefaultPrimaryPath returns the per-user primary root,
// $HOME/.sync/profiles.
func DefaultPrimaryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, defaultPrimaryRel)
}

// resolver maps (name, type) pairs to concrete file paths under the two
// store roots.
type resolver struct {
	primary   string
	secondary string
}

func newResolver(primary, secondary string) resolver {
	return resolver{
		primary:   strings.TrimRight(primary, string(os.PathSeparator)),
		secondary: strings.TrimRight(secondary, string(os.PathSeparator)),
	}
}

func (r resolver) primaryPath(name, typ string) string {
	return filepath.Join(r.primary, typ, name+FormatExt)
}

func (r resolver) secondaryPath(name, typ string) string {
	return filepath.Join(r.secondary, typ, name+FormatExt)
}

// resolve returns the primary path when a file exists there, else the
// secondary path when a file exists there, else the primary path again so
// callers always get a well-formed, writable location for creation.
func (r resolver) resolve(name, typ string) string {
	primary := r.primaryPath(name, typ)
	if fileExists(primary) {
		return primary
	}
	if secondary := r.secondaryPath(name, typ); fileExists(secondary) {
		return secondary
	}
	return primary
}

func (r resolver) primaryTypeDir(typ string) string {
	return filepath.Join(r.primary, typ)
}

func (r resolver) secondaryTypeDir(typ string) string {
	return filepath.Join(r.secondary, typ)
}

func (r resolver) logDir() string {
	return filepath.Join(r.primary, TypeSync, LogDirectory)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
