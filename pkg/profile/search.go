package profile

// MatchType selects how a search criterion compares a key against a value.
type MatchType int

const (
	MatchEqual MatchType = iota
	MatchNotEqual
	MatchExists
	MatchNotExists
)

// SearchCriteria is one predicate over a profile's structure. Criteria in a
// list are combined with logical AND.
//
// With SubProfileName set, the key test runs against the sub-profile with
// that name and SubProfileType. With only SubProfileType set, the key test
// runs against every sub-profile of that type and any match suffices. With
// neither, the key test runs against the profile itself.
type SearchCriteria struct {
	Type           MatchType
	SubProfileName string
	SubProfileType string
	Key            string
	Value          string
}

// Matches reports whether the profile satisfies every criterion.
func Matches(p *Profile, criteria []SearchCriteria) bool {
	for _, c := range criteria {
		if !matchProfile(p, c) {
			return false
		}
	}
	return true
}

func matchProfile(p *Profile, c SearchCriteria) bool {
	switch {
	case c.SubProfileName != "":
		sub := p.SubProfile(c.SubProfileName, c.SubProfileType)
		if sub == nil {
			return c.Type == MatchNotExists
		}
		return matchKey(sub, c)

	case c.SubProfileType != "":
		names := p.SubProfileNames(c.SubProfileType)
		if len(names) == 0 {
			return c.Type == MatchNotExists
		}
		for _, name := range names {
			sub := p.SubProfile(name, c.SubProfileType)
			if sub != nil && matchKey(sub, c) {
				return true
			}
		}
		return false

	default:
		return matchKey(p, c)
	}
}

func matchKey(p *Profile, c SearchCriteria) bool {
	if c.Key == "" {
		// No key to test; the node's existence already decided the match.
		return c.Type != MatchNotExists
	}

	value, ok := p.Key(c.Key)
	if !ok {
		return c.Type == MatchNotExists || c.Type == MatchNotEqual
	}

	switch c.Type {
	case MatchExists:
		return true
	case MatchNotExists:
		return false
	case MatchEqual:
		return value == c.Value
	case MatchNotEqual:
		return value != c.Value
	default:
		return false
	}
}

// storageCriteria builds the stacked criteria used to find profiles that can
// sync the given storage: the profile must not be disabled or hidden, must
// have an online service sub-profile, and must reference the storage,
// enabled when required.
func storageCriteria(storageName string, storageMustBeEnabled bool) []SearchCriteria {
	criteria := []SearchCriteria{
		// Enabled is the default; the key may be missing entirely, so
		// compare against the negative value.
		{Type: MatchNotEqual, Key: KeyEnabled, Value: BooleanFalse},
		{Type: MatchNotEqual, Key: KeyHidden, Value: BooleanTrue},
		{
			Type:           MatchEqual,
			SubProfileType: TypeService,
			Key:            KeyDestinationType,
			Value:          ValueOnline,
		},
	}

	storage := SearchCriteria{
		SubProfileName: storageName,
		SubProfileType: TypeStorage,
	}
	if storageMustBeEnabled {
		// Storages are disabled by default, so equality works here.
		storage.Type = MatchEqual
		storage.Key = KeyEnabled
		storage.Value = BooleanTrue
	} else {
		storage.Type = MatchExists
	}
	return append(criteria, storage)
}
