package profile

import (
	"strings"
	"testing"
)

const sampleProfileXML = `<?xml version="1.0" encoding="UTF-8"?>
<profile name="calendar" type="sync">
    <key name="enabled" value="true"/>
    <key name="displayName" value="Calendar"/>
    <field name="direction" type="string" default="two-way">
        <option>two-way</option>
        <option>from-remote</option>
    </field>
    <schedule days="1,2,3,4,5" time="08:00" endtime="18:00" interval="30" enabled="true"/>
    <profile name="syncml" type="service">
        <key name="destinationType" value="online"/>
    </profile>
</profile>
`

func TestParseProfile_PopulatesTree(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfileXML))
	if err != nil {
		t.Fatalf("failed to parse profile: %v", err)
	}

	if p.Name() != "calendar" || p.Type() != TypeSync {
		t.Errorf("unexpected identity %s/%s", p.Type(), p.Name())
	}
	if v, _ := p.Key(KeyDisplayName); v != "Calendar" {
		t.Errorf("unexpected display name %q", v)
	}

	f, ok := p.Field("direction")
	if !ok {
		t.Fatal("field direction missing")
	}
	if f.Default != "two-way" || len(f.Options) != 2 {
		t.Errorf("unexpected field %+v", f)
	}

	sp := AsSyncProfile(p)
	if sp == nil {
		t.Fatal("sync-typed profile should wrap as SyncProfile")
	}
	if sp.SyncType() != SyncTypeScheduled {
		t.Error("profile with schedule should be scheduled")
	}
	sched := sp.Schedule()
	if sched == nil || sched.Interval != 30 || len(sched.Days) != 5 || !sched.Enabled {
		t.Errorf("unexpected schedule %+v", sched)
	}

	svc := p.SubProfile("syncml", TypeService)
	if svc == nil {
		t.Fatal("service sub-profile missing")
	}
	if svc.IsLoaded() {
		t.Error("sub-profile references must start unexpanded")
	}
	if v, _ := svc.Key(KeyDestinationType); v != ValueOnline {
		t.Errorf("unexpected destination type %q", v)
	}
}

func TestMarshalProfile_PrologAndIndent(t *testing.T) {
	p := New("foo", TypeSync)
	p.SetKey("k", "v")
	p.AddSubProfile(New("svc", TypeService))

	data, err := MarshalProfile(p)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n") {
		t.Errorf("missing UTF-8 prolog:\n%s", out)
	}
	if !strings.Contains(out, "\n    <key name=\"k\" value=\"v\">") &&
		!strings.Contains(out, "\n    <key name=\"k\" value=\"v\"/>") {
		t.Errorf("children should be indented by %d spaces:\n%s", ProfileIndent, out)
	}
}

func TestProfile_DocumentRoundTrip(t *testing.T) {
	original, err := ParseProfile([]byte(sampleProfileXML))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	data, err := MarshalProfile(original)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	reread, err := ParseProfile(data)
	if err != nil {
		t.Fatalf("failed to reparse: %v", err)
	}

	if reread.Name() != original.Name() || reread.Type() != original.Type() {
		t.Error("identity lost in round trip")
	}
	if len(reread.Keys()) != len(original.Keys()) {
		t.Errorf("key count changed: %d != %d", len(reread.Keys()), len(original.Keys()))
	}
	for k, v := range original.Keys() {
		if rv, ok := reread.Key(k); !ok || rv != v {
			t.Errorf("key %q lost or changed", k)
		}
	}
	if len(reread.AllSubProfiles()) != len(original.AllSubProfiles()) {
		t.Error("sub-profile references changed in round trip")
	}
}

func TestParseProfile_Malformed(t *testing.T) {
	_, err := ParseProfile([]byte("<profile name=\"x\""))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !IsMalformedXML(err) {
		t.Errorf("expected MalformedXml kind, got %v", err)
	}
}
