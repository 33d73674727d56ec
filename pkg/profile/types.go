package profile

import (
	"strings"
)

// Well-known profile types. The type set is open; these are the values the
// framework itself creates and queries.
const (
	TypeSync    = "sync"
	TypeService = "service"
	TypeStorage = "storage"
	TypeClient  = "client"
	TypeServer  = "server"
)

// Reserved key names with framework-level meaning.
const (
	KeyEnabled         = "enabled"
	KeyHidden          = "hidden"
	KeyProtected       = "protected"
	KeyDisplayName     = "displayName"
	KeyRemoteID        = "remoteId"
	KeyDestinationType = "destinationType"
	KeyBtAddress       = "btAddress"
	KeyBtName          = "btName"
)

// Boolean key values are stored as literal strings.
const (
	BooleanTrue  = "true"
	BooleanFalse = "false"
)

// ValueOnline marks a service sub-profile that targets an online destination.
const ValueOnline = "online"

// NameSeparator joins the segments of a compound profile name.
const NameSeparator = "|"

// Field is a profile-declared setting: a named value with type information,
// a default and an optional set of allowed values.
type Field struct {
	Name    string
	Type    string
	Default string
	Options []string
}

// Profile is a named configuration tree for one side of a sync relationship.
// It carries free-form string keys, declared fields and references to
// sub-profiles. Sub-profile references are resolved and merged in by the
// expander; until then they carry only the data present in the parent file.
type Profile struct {
	name     string
	typ      string
	keys     map[string]string
	fields   map[string]Field
	subs     []*Profile
	loaded   bool
	schedule *SyncSchedule
}

// New creates an empty profile with the given name and type.
func New(name, typ string) *Profile {
	return &Profile{
		name:   name,
		typ:    typ,
		keys:   make(map[string]string),
		fields: make(map[string]Field),
	}
}

// Name returns the profile name.
func (p *Profile) Name() string {
	return p.name
}

// SetName sets the profile name.
func (p *Profile) SetName(name string) {
	p.name = name
}

// SetNames sets a compound name from the given segments.
func (p *Profile) SetNames(segments []string) {
	p.name = strings.Join(segments, NameSeparator)
}

// NameSegments splits a compound name into its segments. A plain name
// yields a single segment.
func (p *Profile) NameSegments() []string {
	return strings.Split(p.name, NameSeparator)
}

// Type returns the profile type.
func (p *Profile) Type() string {
	return p.typ
}

// Key returns the value of the named key. The second result reports whether
// the key is present; a present key with an empty value is distinct from an
// absent key.
func (p *Profile) Key(name string) (string, bool) {
	v, ok := p.keys[name]
	return v, ok
}

// SetKey sets the named key to the given value.
func (p *Profile) SetKey(name, value string) {
	if p.keys == nil {
		p.keys = make(map[string]string)
	}
	p.keys[name] = value
}

// RemoveKey deletes the named key.
func (p *Profile) RemoveKey(name string) {
	delete(p.keys, name)
}

// Keys returns a copy of the key map.
func (p *Profile) Keys() map[string]string {
	out := make(map[string]string, len(p.keys))
	for k, v := range p.keys {
		out[k] = v
	}
	return out
}

// BoolKey interprets the named key as a boolean, returning def when the key
// is absent. Any value other than the literal "true" reads as false.
func (p *Profile) BoolKey(name string, def bool) bool {
	v, ok := p.keys[name]
	if !ok {
		return def
	}
	return v == BooleanTrue
}

// SetBoolKey sets the named key to the literal "true" or "false".
func (p *Profile) SetBoolKey(name string, value bool) {
	if value {
		p.SetKey(name, BooleanTrue)
	} else {
		p.SetKey(name, BooleanFalse)
	}
}

// IsEnabled reports whether the profile is enabled. Profiles are enabled by
// default; the key may be missing.
func (p *Profile) IsEnabled() bool {
	return p.BoolKey(KeyEnabled, true)
}

// SetEnabled sets the enabled flag.
func (p *Profile) SetEnabled(enabled bool) {
	p.SetBoolKey(KeyEnabled, enabled)
}

// IsHidden reports whether the profile is hidden from profile listings.
func (p *Profile) IsHidden() bool {
	return p.BoolKey(KeyHidden, false)
}

// SetHidden sets the hidden flag.
func (p *Profile) SetHidden(hidden bool) {
	p.SetBoolKey(KeyHidden, hidden)
}

// IsProtected reports whether the profile is protected from removal.
func (p *Profile) IsProtected() bool {
	return p.BoolKey(KeyProtected, false)
}

// Field returns the named field declaration.
func (p *Profile) Field(name string) (Field, bool) {
	f, ok := p.fields[name]
	return f, ok
}

// SetField adds or replaces a field declaration.
func (p *Profile) SetField(f Field) {
	if p.fields == nil {
		p.fields = make(map[string]Field)
	}
	p.fields[f.Name] = f
}

// Fields returns a copy of the field map.
func (p *Profile) Fields() map[string]Field {
	out := make(map[string]Field, len(p.fields))
	for k, v := range p.fields {
		out[k] = v
	}
	return out
}

// IsLoaded reports whether the expander has merged the external definitions
// of all referenced sub-profiles.
func (p *Profile) IsLoaded() bool {
	return p.loaded
}

// SetLoaded marks the profile as expanded.
func (p *Profile) SetLoaded(loaded bool) {
	p.loaded = loaded
}

// AddSubProfile appends a sub-profile reference.
func (p *Profile) AddSubProfile(sub *Profile) {
	p.subs = append(p.subs, sub)
}

// SubProfile returns the direct or nested sub-profile with the given name.
// An empty type matches any type. Returns nil when no such sub-profile
// exists.
func (p *Profile) SubProfile(name, typ string) *Profile {
	for _, sub := range p.subs {
		if sub.name == name && (typ == "" || sub.typ == typ) {
			return sub
		}
	}
	for _, sub := range p.subs {
		if found := sub.SubProfile(name, typ); found != nil {
			return found
		}
	}
	return nil
}

// SubProfileNames returns the names of all direct and nested sub-profiles of
// the given type. An empty type matches any type.
func (p *Profile) SubProfileNames(typ string) []string {
	var names []string
	for _, sub := range p.AllSubProfiles() {
		if typ == "" || sub.typ == typ {
			names = append(names, sub.name)
		}
	}
	return names
}

// SubProfiles returns the direct children in order.
func (p *Profile) SubProfiles() []*Profile {
	return p.subs
}

// AllSubProfiles returns every sub-profile in the tree, depth-first, the
// profile itself excluded.
func (p *Profile) AllSubProfiles() []*Profile {
	var all []*Profile
	for _, sub := range p.subs {
		all = append(all, sub)
		all = append(all, sub.AllSubProfiles()...)
	}
	return all
}

// findNode locates the node with the given name and type in the tree rooted
// at p, including p itself.
func (p *Profile) findNode(name, typ string) *Profile {
	if p.name == name && p.typ == typ {
		return p
	}
	return p.SubProfile(name, typ)
}

// Merge overlays the externally loaded definition of a sub-profile onto the
// node inside this tree with a matching name and type. Keys and fields from
// the external profile replace existing values; sub-profiles referenced by
// the external profile but not yet present are appended, unexpanded. Merge
// is idempotent.
func (p *Profile) Merge(external *Profile) {
	target := p.findNode(external.name, external.typ)
	if target == nil {
		return
	}
	target.overlay(external)
}

func (p *Profile) overlay(src *Profile) {
	for k, v := range src.keys {
		p.SetKey(k, v)
	}
	for _, f := range src.fields {
		p.SetField(f)
	}
	if src.schedule != nil {
		p.schedule = src.schedule
	}
	for _, sub := range src.subs {
		existing := p.directSubProfile(sub.name, sub.typ)
		if existing != nil {
			existing.overlay(sub)
		} else {
			p.subs = append(p.subs, sub)
		}
	}
}

func (p *Profile) directSubProfile(name, typ string) *Profile {
	for _, sub := range p.subs {
		if sub.name == name && sub.typ == typ {
			return sub
		}
	}
	return nil
}
