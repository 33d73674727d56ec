package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/philippedeswert/syncfw/pkg/synclog"
)

// BtProfileTemplate is the sync profile cloned for newly discovered
// Bluetooth devices.
const BtProfileTemplate = "bt_template"

// defaultDeviceDisplayName is shown when a discovered device reports no
// name.
const defaultDeviceDisplayName = "qtn_sync_dest_name_device_default"

// Manager is the facade over the profile store: layered lookup over the two
// roots, sub-profile expansion, search, crash-safe persistence and the
// per-profile sync logs.
//
// The manager is designed for a single owning process; operations are
// synchronous and hold no state across calls. Returned profiles are owned
// by the caller.
type Manager struct {
	res     resolver
	devices DeviceInfoProvider
	log     logr.Logger
	metrics *storeMetrics
}

// NewManager creates a manager over the given roots. Empty paths fall back
// to the defaults ($HOME/.sync/profiles and /etc/sync/profiles).
func NewManager(primaryPath, secondaryPath string) *Manager {
	if primaryPath == "" {
		primaryPath = DefaultPrimaryPath()
	}
	if secondaryPath == "" {
		secondaryPath = DefaultSecondaryPath
	}
	m := &Manager{
		res: newResolver(primaryPath, secondaryPath),
		log: logr.Discard(),
	}
	m.log.V(1).Info("profile store roots", "primary", primaryPath, "secondary", secondaryPath)
	return m
}

// SetLogger installs the logging collaborator. The default discards.
func (m *Manager) SetLogger(log logr.Logger) {
	m.log = log
}

// SetDeviceInfoProvider installs the device property oracle used when
// templating profiles for discovered devices.
func (m *Manager) SetDeviceInfoProvider(p DeviceInfoProvider) {
	m.devices = p
}

// EnableMetrics registers the store's metric collectors with reg and starts
// recording operation counts.
func (m *Manager) EnableMetrics(reg prometheus.Registerer) {
	m.metrics = newStoreMetrics(reg)
}

// PrimaryPath returns the user-writable overlay root.
func (m *Manager) PrimaryPath() string {
	return m.res.primary
}

// SecondaryPath returns the system defaults root.
func (m *Manager) SecondaryPath() string {
	return m.res.secondary
}

func (m *Manager) logStore() *synclog.Store {
	return synclog.NewStore(m.res.logDir(), m.log)
}

func (m *Manager) logStoreFor(typ string) *synclog.Store {
	return synclog.NewStore(filepath.Join(m.res.primary, typ, LogDirectory), m.log)
}

// Profile loads the profile with the given name and type without expanding
// sub-profiles. Returns nil when the profile cannot be read.
func (m *Manager) Profile(name, typ string) *Profile {
	return m.load(name, typ)
}

// SyncProfile loads the sync profile with the given name, expands its
// sub-profiles and attaches its log. A missing log yields a fresh empty
// log; the log file appears only once results are saved. Returns nil when
// the profile cannot be read or declares a different type.
func (m *Manager) SyncProfile(name string) *SyncProfile {
	p := m.load(name, TypeSync)
	if p == nil {
		return nil
	}
	if p.Type() != TypeSync {
		m.log.Info("profile type mismatch", "name", name,
			"error", NewTypeMismatchError(name, TypeSync, p.Type()))
		return nil
	}

	sp := AsSyncProfile(p)
	m.Expand(sp.Profile)

	if sp.Log() == nil {
		log, err := m.logStore().Load(name)
		if err != nil || log == nil {
			log = synclog.NewSyncLog(name)
		}
		sp.SetLog(log)
	}
	return sp
}

// ProfileNames lists the names of all profiles of the given type, primary
// root first. The secondary root contributes only names the primary does
// not shadow.
func (m *Manager) ProfileNames(typ string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, dir := range []string{m.res.primaryTypeDir(typ), m.res.secondaryTypeDir(typ)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), FormatExt) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), FormatExt)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// AllSyncProfiles loads every sync profile from both roots, expanded and
// with logs attached. Unreadable profiles are skipped.
func (m *Manager) AllSyncProfiles() []*SyncProfile {
	var profiles []*SyncProfile
	for _, name := range m.ProfileNames(TypeSync) {
		if p := m.SyncProfile(name); p != nil {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

// AllVisibleSyncProfiles is AllSyncProfiles without the hidden profiles.
func (m *Manager) AllVisibleSyncProfiles() []*SyncProfile {
	var visible []*SyncProfile
	for _, p := range m.AllSyncProfiles() {
		if !p.IsHidden() {
			visible = append(visible, p)
		}
	}
	return visible
}

// SyncProfilesByData returns the sync profiles satisfying every criterion.
func (m *Manager) SyncProfilesByData(criteria []SearchCriteria) []*SyncProfile {
	var matching []*SyncProfile
	for _, p := range m.AllSyncProfiles() {
		if Matches(p.Profile, criteria) {
			matching = append(matching, p)
		}
	}
	return matching
}

// SyncProfilesByKeyValue is the single-predicate query form. When
// subProfileName is set, the key test runs against that sub-profile; when
// only subProfileType is set, against the first sub-profile of that type.
// Profiles whose sub-profile lookup fails are discarded. A non-empty key
// must exist, and must equal value when value is non-empty.
func (m *Manager) SyncProfilesByKeyValue(subProfileName, subProfileType, key, value string) []*SyncProfile {
	var matching []*SyncProfile
	for _, p := range m.AllSyncProfiles() {
		test := p.Profile
		if subProfileName != "" {
			test = p.SubProfile(subProfileName, subProfileType)
		} else if subProfileType != "" {
			names := p.SubProfileNames(subProfileType)
			if len(names) == 0 {
				test = nil
			} else {
				test = p.SubProfile(names[0], subProfileType)
			}
		}
		if test == nil {
			continue
		}

		if key != "" {
			v, ok := test.Key(key)
			if !ok || (value != "" && v != value) {
				continue
			}
		}
		matching = append(matching, p)
	}
	return matching
}

// SyncProfilesByStorage returns the enabled, visible sync profiles with an
// online service that reference the given storage, optionally requiring the
// storage to be enabled.
func (m *Manager) SyncProfilesByStorage(storageName string, storageMustBeEnabled bool) []*SyncProfile {
	return m.SyncProfilesByData(storageCriteria(storageName, storageMustBeEnabled))
}

// Remove deletes the profile from the primary root. Protected profiles and
// profiles without a readable file are refused. The profile's log file, if
// any, is removed too; success reflects the profile file removal only.
// Secondary defaults are never deleted.
func (m *Manager) Remove(name, typ string) bool {
	// Load without expanding; the profile data tells whether removal is
	// allowed.
	p := m.load(name, typ)
	if p == nil {
		m.log.V(1).Info("profile not found, cannot remove", "name", name, "type", typ)
		return false
	}
	if p.IsProtected() {
		m.log.V(1).Info("cannot remove protected profile", "name", name,
			"error", NewProtectedError(name))
		m.metrics.observeRemove(typ, resultError)
		return false
	}

	path := m.res.primaryPath(name, typ)
	if err := os.Remove(path); err != nil {
		m.log.Info("failed to remove profile file", "path", path, "error", err)
		m.metrics.observeRemove(typ, resultError)
		return false
	}

	if err := m.logStoreFor(typ).Remove(name); err != nil {
		m.log.Info("failed to remove sync log", "name", name, "error", err)
	}
	m.metrics.observeRemove(typ, resultOK)
	return true
}

// Rename moves a sync profile file and its log to a new name. A failed log
// rename rolls the profile rename back. A profile without a log renames
// cleanly; there is nothing to move.
func (m *Manager) Rename(name, newName string) bool {
	source := m.res.primaryPath(name, TypeSync)
	destination := m.res.primaryPath(newName, TypeSync)

	if err := os.Rename(source, destination); err != nil {
		m.log.Info("failed to rename profile", "name", name,
			"error", NewRenameFailureError(name, err))
		return false
	}

	if err := m.logStore().Rename(name, newName); err != nil {
		if rollbackErr := os.Rename(destination, source); rollbackErr != nil {
			m.log.Info("failed to roll back profile rename", "name", name, "error", rollbackErr)
		}
		m.log.Info("failed to rename sync log", "name", name,
			"error", NewRenameFailureError(name, err))
		return false
	}
	return true
}

// AddProfile parses a profile document supplied as a string and saves it.
// Returns the profile's name, or the empty string when the document does
// not parse.
func (m *Manager) AddProfile(profileXML string) string {
	if profileXML == "" {
		return ""
	}
	p, err := ParseProfile([]byte(profileXML))
	if err != nil {
		m.log.Info("failed to parse profile document", "error", err)
		return ""
	}
	m.Save(p)
	return p.Name()
}

// SetSyncSchedule switches the profile to scheduled syncing with the
// schedule parsed from the given XML fragment.
func (m *Manager) SetSyncSchedule(profileID, scheduleXML string) bool {
	sp := m.SyncProfile(profileID)
	if sp == nil {
		m.log.Info("cannot set schedule, profile not found", "name", profileID)
		return false
	}

	schedule, err := ParseSchedule([]byte(scheduleXML))
	if err != nil {
		m.log.Info("failed to parse schedule", "name", profileID, "error", err)
		return false
	}
	sp.SetSyncType(SyncTypeScheduled)
	sp.SetSchedule(schedule)
	return m.Save(sp.Profile)
}

// SaveRemoteTargetID records the remote target id on the profile and
// persists it.
func (m *Manager) SaveRemoteTargetID(p *Profile, targetID string) {
	m.log.V(1).Info("saving remote target id", "name", p.Name(), "targetId", targetID)
	p.SetKey(KeyRemoteID, targetID)
	m.Save(p)
}

// EnableStorages flips the enabled flag of the named storage sub-profiles.
// Storages the profile does not reference are logged and skipped.
func (m *Manager) EnableStorages(p *Profile, storages map[string]bool) {
	for name, enabled := range storages {
		storage := p.SubProfile(name, TypeStorage)
		if storage == nil {
			m.log.Info("no storage sub-profile to enable", "profile", p.Name(), "storage", name)
			continue
		}
		storage.SetEnabled(enabled)
	}
}

// SaveSyncResults appends one sync run outcome to the profile's log,
// creating the log when needed.
func (m *Manager) SaveSyncResults(profileName string, results synclog.SyncResults) bool {
	if err := m.logStore().AppendResults(profileName, results); err != nil {
		m.log.Info("failed to save sync results", "profile", profileName, "error", err)
		return false
	}
	return true
}

// SaveLog writes the given sync log.
func (m *Manager) SaveLog(l *synclog.SyncLog) bool {
	if err := m.logStore().Save(l); err != nil {
		m.log.Info("failed to save sync log", "profile", l.ProfileName(), "error", err)
		return false
	}
	return true
}

// LoadLog reads the sync log for the given profile, nil when none exists.
func (m *Manager) LoadLog(profileName string) *synclog.SyncLog {
	log, err := m.logStore().Load(profileName)
	if err != nil {
		return nil
	}
	return log
}

// CreateTempSyncProfile builds a transient sync profile for a discovered
// device. USB destinations and computer-class Bluetooth devices get a
// minimal profile that should not be persisted. Other devices get a clone
// of the Bluetooth template, renamed for the device and marked visible and
// enabled; the second result tells the caller to persist it. A template
// without a service sub-profile is returned unchanged, still with true.
func (m *Manager) CreateTempSyncProfile(destAddress string) (*SyncProfile, bool) {
	if strings.Contains(destAddress, "USB") {
		m.log.Info("USB destination, transient profile only", "address", destAddress)
		return NewSyncProfile(destAddress), false
	}

	var props DeviceProperties
	if m.devices != nil {
		var err error
		props, err = m.devices.DeviceProperties(destAddress)
		if err != nil {
			m.log.Info("failed to query device properties", "address", destAddress, "error", err)
		}
	}
	if props.Class&classComputer != 0 {
		m.log.Info("device major class is computer, transient profile only", "address", destAddress)
		return NewSyncProfile(destAddress), false
	}

	displayName := props.Name
	if displayName == "" {
		displayName = defaultDeviceDisplayName
	}

	template := m.SyncProfile(BtProfileTemplate)
	if template == nil {
		m.log.Info("bluetooth template profile missing", "template", BtProfileTemplate)
		return NewSyncProfile(destAddress), false
	}

	service := template.ServiceProfile()
	if service != nil {
		template.SetKey(KeyDisplayName, displayName)
		template.SetNames([]string{destAddress, service.Name()})
		template.SetEnabled(true)
		template.SetBoolKey(KeyHidden, false)
		service.SetKey(KeyBtAddress, destAddress)
		service.SetKey(KeyBtName, displayName)
	} else {
		m.log.Info("no service sub-profile, unable to update device properties",
			"template", BtProfileTemplate)
	}
	return template, true
}
