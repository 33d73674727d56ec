package profile

import (
	"github.com/philippedeswert/syncfw/pkg/synclog"
)

// SyncType tells whether a sync profile runs manually or on a schedule.
type SyncType string

const (
	SyncTypeManual    SyncType = "manual"
	SyncTypeScheduled SyncType = "scheduled"
)

// SyncProfile is a profile of type "sync" with its runtime-attached sync log
// and schedule accessors. The log is never serialized into the profile file;
// it lives in the log store.
type SyncProfile struct {
	*Profile
	log *synclog.SyncLog
}

// NewSyncProfile creates an empty sync profile with the given name.
func NewSyncProfile(name string) *SyncProfile {
	return &SyncProfile{Profile: New(name, TypeSync)}
}

// AsSyncProfile wraps a profile of type "sync". Returns nil when the
// profile's declared type differs.
func AsSyncProfile(p *Profile) *SyncProfile {
	if p == nil || p.Type() != TypeSync {
		return nil
	}
	return &SyncProfile{Profile: p}
}

// Log returns the attached sync log, nil when none has been attached.
func (s *SyncProfile) Log() *synclog.SyncLog {
	return s.log
}

// SetLog attaches a sync log.
func (s *SyncProfile) SetLog(log *synclog.SyncLog) {
	s.log = log
}

// SyncType reports whether the profile is scheduled or manual. A profile
// with a schedule is scheduled.
func (s *SyncProfile) SyncType() SyncType {
	if s.schedule != nil {
		return SyncTypeScheduled
	}
	return SyncTypeManual
}

// SetSyncType switches between manual and scheduled operation. Switching to
// manual drops the schedule; switching to scheduled installs an empty
// schedule when none is set yet.
func (s *SyncProfile) SetSyncType(t SyncType) {
	switch t {
	case SyncTypeManual:
		s.schedule = nil
	case SyncTypeScheduled:
		if s.schedule == nil {
			s.schedule = &SyncSchedule{}
		}
	}
}

// Schedule returns the sync schedule, nil for manual profiles.
func (s *SyncProfile) Schedule() *SyncSchedule {
	return s.schedule
}

// SetSchedule replaces the sync schedule.
func (s *SyncProfile) SetSchedule(schedule *SyncSchedule) {
	s.schedule = schedule
}

// ServiceProfile returns the first service-typed sub-profile, nil when the
// profile has none.
func (s *SyncProfile) ServiceProfile() *Profile {
	names := s.SubProfileNames(TypeService)
	if len(names) == 0 {
		return nil
	}
	return s.SubProfile(names[0], TypeService)
}
