package profile

import (
	"testing"
)

func TestProfile_KeyPresenceVsEmptyValue(t *testing.T) {
	p := New("p", TypeSync)

	if _, ok := p.Key("missing"); ok {
		t.Error("absent key should not be present")
	}

	p.SetKey("empty", "")
	v, ok := p.Key("empty")
	if !ok {
		t.Error("key with empty value should be present")
	}
	if v != "" {
		t.Errorf("expected empty value, got %q", v)
	}
}

func TestProfile_BooleanFlags(t *testing.T) {
	p := New("p", TypeSync)

	// Defaults: enabled, not hidden, not protected.
	if !p.IsEnabled() {
		t.Error("profile should be enabled by default")
	}
	if p.IsHidden() {
		t.Error("profile should not be hidden by default")
	}
	if p.IsProtected() {
		t.Error("profile should not be protected by default")
	}

	p.SetEnabled(false)
	if p.IsEnabled() {
		t.Error("profile should be disabled after SetEnabled(false)")
	}
	if v, _ := p.Key(KeyEnabled); v != BooleanFalse {
		t.Errorf("expected literal %q, got %q", BooleanFalse, v)
	}

	p.SetKey(KeyProtected, "yes")
	if p.IsProtected() {
		t.Error("only the literal \"true\" should read as true")
	}
}

func TestProfile_CompoundNames(t *testing.T) {
	p := New("p", TypeSync)
	p.SetNames([]string{"00:11:22:33", "syncml"})

	if p.Name() != "00:11:22:33|syncml" {
		t.Errorf("unexpected compound name %q", p.Name())
	}
	segments := p.NameSegments()
	if len(segments) != 2 || segments[0] != "00:11:22:33" || segments[1] != "syncml" {
		t.Errorf("unexpected segments %v", segments)
	}
}

func TestProfile_SubProfileLookup(t *testing.T) {
	root := New("root", TypeSync)
	svc := New("svc", TypeService)
	st := New("st", TypeStorage)
	svc.AddSubProfile(st)
	root.AddSubProfile(svc)

	if root.SubProfile("svc", TypeService) != svc {
		t.Error("direct sub-profile lookup failed")
	}
	if root.SubProfile("st", TypeStorage) != st {
		t.Error("nested sub-profile lookup failed")
	}
	if root.SubProfile("st", "") != st {
		t.Error("empty type should match any type")
	}
	if root.SubProfile("st", TypeService) != nil {
		t.Error("type-mismatched lookup should fail")
	}

	all := root.AllSubProfiles()
	if len(all) != 2 {
		t.Fatalf("expected 2 sub-profiles, got %d", len(all))
	}
	if all[0] != svc || all[1] != st {
		t.Error("AllSubProfiles should walk depth-first")
	}

	names := root.SubProfileNames(TypeStorage)
	if len(names) != 1 || names[0] != "st" {
		t.Errorf("unexpected storage names %v", names)
	}
}

func TestProfile_MergeOverlaysAndAppends(t *testing.T) {
	root := New("root", TypeSync)
	svc := New("svc", TypeService)
	svc.SetKey("endpoint", "old")
	root.AddSubProfile(svc)

	external := New("svc", TypeService)
	external.SetKey("endpoint", "http://h")
	external.SetKey("extra", "1")
	external.SetField(Field{Name: "mode", Type: "string", Default: "fast"})
	external.AddSubProfile(New("st", TypeStorage))

	root.Merge(external)

	if v, _ := svc.Key("endpoint"); v != "http://h" {
		t.Errorf("external value should replace existing, got %q", v)
	}
	if v, _ := svc.Key("extra"); v != "1" {
		t.Errorf("external-only key should be added, got %q", v)
	}
	if _, ok := svc.Field("mode"); !ok {
		t.Error("external field should be merged")
	}
	if svc.SubProfile("st", TypeStorage) == nil {
		t.Error("new sub-profile reference should be appended")
	}

	// Idempotence: a second merge changes nothing.
	before := len(root.AllSubProfiles())
	root.Merge(external)
	if len(root.AllSubProfiles()) != before {
		t.Error("repeated merge should not duplicate sub-profiles")
	}
}

func TestProfile_MergeWithoutMatchingNodeIsNoOp(t *testing.T) {
	root := New("root", TypeSync)
	root.Merge(New("stranger", TypeService))
	if len(root.AllSubProfiles()) != 0 {
		t.Error("merge of an unreferenced profile should change nothing")
	}
}
