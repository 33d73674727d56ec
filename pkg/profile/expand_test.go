package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_FixpointOverTransitiveReferences(t *testing.T) {
	manager, primary, _ := newTestManager(t)

	writeProfileFile(t, primary, TypeSync, "parent",
		`<profile name="parent" type="sync"><profile name="svc" type="service"/></profile>`)
	writeProfileFile(t, primary, TypeService, "svc",
		`<profile name="svc" type="service"><profile name="st" type="storage"/><key name="endpoint" value="http://h"/></profile>`)
	writeProfileFile(t, primary, TypeStorage, "st",
		`<profile name="st" type="storage"><key name="path" value="/data"/></profile>`)

	root := manager.Profile("parent", TypeSync)
	require.NotNil(t, root)
	manager.Expand(root)

	svc := root.SubProfile("svc", TypeService)
	require.NotNil(t, svc)
	endpoint, ok := svc.Key("endpoint")
	assert.True(t, ok)
	assert.Equal(t, "http://h", endpoint)

	// The storage reference only appears through svc's external file, so
	// reaching it proves a second fixpoint iteration ran.
	st := svc.SubProfile("st", TypeStorage)
	require.NotNil(t, st)
	path, ok := st.Key("path")
	assert.True(t, ok)
	assert.Equal(t, "/data", path)

	assert.True(t, root.IsLoaded())
	for _, sub := range root.AllSubProfiles() {
		assert.True(t, sub.IsLoaded(), "sub-profile %s", sub.Name())
	}
}

func TestExpand_Idempotent(t *testing.T) {
	manager, primary, _ := newTestManager(t)

	writeProfileFile(t, primary, TypeSync, "parent",
		`<profile name="parent" type="sync"><profile name="svc" type="service"/></profile>`)
	writeProfileFile(t, primary, TypeService, "svc",
		`<profile name="svc" type="service"><key name="endpoint" value="http://h"/></profile>`)

	root := manager.Profile("parent", TypeSync)
	require.NotNil(t, root)

	manager.Expand(root)
	countAfterFirst := len(root.AllSubProfiles())
	keysAfterFirst := root.SubProfile("svc", TypeService).Keys()

	manager.Expand(root)
	assert.Equal(t, countAfterFirst, len(root.AllSubProfiles()))
	assert.Equal(t, keysAfterFirst, root.SubProfile("svc", TypeService).Keys())
}

func TestExpand_ToleratesCycles(t *testing.T) {
	manager, primary, _ := newTestManager(t)

	// a references b, b references a.
	writeProfileFile(t, primary, TypeSync, "a",
		`<profile name="a" type="sync"><profile name="b" type="service"/></profile>`)
	writeProfileFile(t, primary, TypeService, "b",
		`<profile name="b" type="service"><profile name="a" type="sync"/></profile>`)

	root := manager.Profile("a", TypeSync)
	require.NotNil(t, root)

	// Must terminate; the loaded flag breaks the cycle.
	manager.Expand(root)
	assert.True(t, root.IsLoaded())
}

func TestExpand_MissingSubProfileFileIsTolerated(t *testing.T) {
	manager, primary, _ := newTestManager(t)

	writeProfileFile(t, primary, TypeSync, "parent",
		`<profile name="parent" type="sync"><profile name="inline" type="storage"><key name="k" value="v"/></profile></profile>`)

	root := manager.Profile("parent", TypeSync)
	require.NotNil(t, root)
	manager.Expand(root)

	// The reference keeps the data it carried in the parent file.
	inline := root.SubProfile("inline", TypeStorage)
	require.NotNil(t, inline)
	v, ok := inline.Key("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.True(t, inline.IsLoaded())
}
