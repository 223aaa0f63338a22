package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSpecAcceptsValue(t *testing.T) {
	spec := &TagSpec{Values: []string{"Beast", "Fairest"}}

	tests := map[string]bool{
		"Beast":   true,
		"beast":   true,
		"FAIREST": true,
		"Ogre":    false,
		"":        false,
	}
	for value, want := range tests {
		t.Run(value, func(t *testing.T) {
			assert.Equal(t, want, spec.AcceptsValue(value))
		})
	}
}

func TestEqualFoldASCII(t *testing.T) {
	assert.True(t, EqualFoldASCII("Alpha", "aLPHA"))
	assert.False(t, EqualFoldASCII("Straße", "STRASSE"))
	assert.False(t, EqualFoldASCII("é", "É"), "only ASCII letters fold")
}

func TestSubTagSpecInContext(t *testing.T) {
	rank := &TagSpec{Name: "rank"}
	st := &SubTagSpec{Name: "rank", Contexts: map[string]*TagSpec{"group": rank}}

	assert.Same(t, rank, st.InContext("group"))
	assert.False(t, st.InContext("court").Defined())
	assert.Equal(t, []string{"group"}, st.Parents())
}

func TestMetatagSpec(t *testing.T) {
	m := &MetatagSpec{
		Static:    []StaticTag{{Name: "type", Value: "Changeling"}},
		Match:     []string{"seeming", "kith"},
		Separator: ", ",
	}

	v, ok := m.StaticValue("type")
	assert.True(t, ok)
	assert.Equal(t, "Changeling", v)
	assert.True(t, m.Emits("kith"))
	assert.False(t, m.Emits("court"))
	assert.Equal(t, "Beast, Hunterheart", m.Collapse([]string{"Beast", "Hunterheart"}))
}

func TestOverlayTags(t *testing.T) {
	base := map[string]interface{}{
		"group": map[string]interface{}{"desc": "old", "subtags": map[string]interface{}{"rank": map[string]interface{}{}}},
		"dead":  map[string]interface{}{"locked": true},
	}
	overlay := map[string]interface{}{
		"group": map[string]interface{}{"desc": "new"},
		"dead":  map[string]interface{}{"max": 3},
		"mask":  nil,
	}

	out, problems := OverlayTags(base, overlay, "campaign")

	assert.Len(t, problems, 1)
	group := out["group"].(map[string]interface{})
	assert.Equal(t, "new", group["desc"])
	assert.Contains(t, group, "subtags")
	assert.NotContains(t, out["dead"], "max")
	assert.Contains(t, out, "mask")
	assert.Equal(t, "old", base["group"].(map[string]interface{})["desc"], "base is not mutated")
}

func TestNormalizeTags(t *testing.T) {
	legacy := []interface{}{
		map[string]interface{}{"name": "dead", "max": 1},
	}
	assert.Equal(t, map[string]interface{}{"dead": map[string]interface{}{"max": 1}}, NormalizeTags(legacy))
	assert.Empty(t, NormalizeTags("junk"))
	assert.Empty(t, NormalizeTags(nil))
}
