package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition() Definition {
	return Definition{
		Tags: map[string]interface{}{
			"type": map[string]interface{}{"required": true},
			"name": map[string]interface{}{"required": true},
			"group": map[string]interface{}{
				"desc": "An organization",
				"subtags": map[string]interface{}{
					"rank": map[string]interface{}{"desc": "Position within the group"},
				},
			},
			"dead":    map[string]interface{}{"max": 1, "allow_empty": true},
			"foreign": nil,
			"title":   map[string]interface{}{"min": 3, "max": 1},
		},
		DeprecatedTags: map[string]interface{}{
			"location": map[string]interface{}{"replaced_by": "foreign"},
		},
		Metatags: map[string]interface{}{
			"changeling": map[string]interface{}{
				"static": map[string]interface{}{"type": "Changeling"},
				"match":  []interface{}{"seeming", "kith"},
			},
		},
		Types: map[string]interface{}{
			"person": map[string]interface{}{"subpath": "Persons", "sheet_path": "person.npc"},
			"changeling": map[string]interface{}{
				"name": "Changeling",
				"tags": map[string]interface{}{
					"seeming": map[string]interface{}{"required": true},
					"kith":    map[string]interface{}{},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	s, problems := Build(testDefinition())
	require.Empty(t, problems)

	t.Run("tag lookup", func(t *testing.T) {
		spec := s.Tag("type")
		assert.True(t, spec.Defined())
		assert.True(t, spec.Required)
		assert.Equal(t, 1, spec.Min)
		assert.Equal(t, Unlimited, spec.Max)
	})

	t.Run("bare spec decodes", func(t *testing.T) {
		assert.True(t, s.Tag("foreign").Defined())
	})

	t.Run("min greater than max is swapped", func(t *testing.T) {
		spec := s.Tag("title")
		assert.Equal(t, 1, spec.Min)
		assert.Equal(t, 3, spec.Max)
	})

	t.Run("undefined tag", func(t *testing.T) {
		spec := s.Tag("nope")
		assert.False(t, spec.Defined())
		assert.Equal(t, 0, spec.Min)
		assert.Equal(t, Unlimited, spec.Max)
		assert.True(t, spec.AcceptsValue("anything"))
	})

	t.Run("subtag in context", func(t *testing.T) {
		require.True(t, s.IsSubtag("rank"))
		spec := s.Subtag("rank", "group")
		assert.True(t, spec.Defined())
		assert.Equal(t, "Position within the group", spec.Desc)

		assert.False(t, s.Subtag("rank", "dead").Defined())
		assert.False(t, s.Tag("rank").Defined(), "subtags have no top-level spec")
	})

	t.Run("non-subtag ignores parent", func(t *testing.T) {
		assert.Same(t, s.Tag("dead"), s.Subtag("dead", "group"))
	})

	t.Run("metatag", func(t *testing.T) {
		m := s.Metatag("changeling")
		require.NotNil(t, m)
		assert.Equal(t, []StaticTag{{Name: "type", Value: "Changeling"}}, m.Static)
		assert.Equal(t, []string{"seeming", "kith"}, m.Match)
		assert.Equal(t, " ", m.Sep())
		assert.Nil(t, s.Metatag("group"))
	})

	t.Run("deprecated", func(t *testing.T) {
		d := s.Deprecated("location")
		require.NotNil(t, d)
		assert.Equal(t, "foreign", d.ReplacedBy)
		assert.Contains(t, d.Message(), "@foreign")
		assert.Nil(t, s.Deprecated("group"))
	})

	t.Run("types", func(t *testing.T) {
		assert.Equal(t, []string{"changeling", "person"}, s.TypeKeys())
		person := s.Type("person")
		require.NotNil(t, person)
		assert.Equal(t, "Persons", person.DirName())
		assert.Equal(t, ".npc", person.SheetSuffix())
		assert.Equal(t, "changeling", s.Type("changeling").DirName())
	})
}

func TestBuildRepairsInvalidSpecs(t *testing.T) {
	s, problems := Build(Definition{
		Tags: map[string]interface{}{
			"neg":  map[string]interface{}{"min": -2},
			"both": map[string]interface{}{"values": []interface{}{"a"}, "no_value": true},
			"bad":  "not a mapping",
		},
	})

	assert.Len(t, problems, 3)
	assert.Equal(t, 0, s.Tag("neg").Min)
	assert.False(t, s.Tag("both").NoValue)
	assert.Equal(t, []string{"a"}, s.Tag("both").Values)
	assert.False(t, s.Tag("bad").Defined())
}

func TestBuildLegacyListShape(t *testing.T) {
	s, problems := Build(Definition{
		Tags: map[string]interface{}{},
		Metatags: map[string]interface{}{
			"werewolf": map[string]interface{}{
				"static": []interface{}{
					map[string]interface{}{"type": "Werewolf"},
					map[string]interface{}{"auspice": "Rahu"},
				},
				"match": []interface{}{"tribe"},
			},
		},
	})
	require.Empty(t, problems)

	m := s.Metatag("werewolf")
	require.NotNil(t, m)
	assert.Equal(t, []StaticTag{{Name: "type", Value: "Werewolf"}, {Name: "auspice", Value: "Rahu"}}, m.Static)
}

func TestTypeSchema(t *testing.T) {
	s, _ := Build(testDefinition())

	ts := s.TypeSchema("changeling")
	assert.Equal(t, "changeling", ts.TypeKey())
	assert.True(t, ts.Tag("seeming").Required)
	assert.True(t, ts.Tag("group").PermitsSubtag("rank"))
	assert.False(t, s.Tag("seeming").Defined(), "base schema is unchanged")

	assert.Same(t, ts, s.TypeSchema("changeling"), "type schemas are memoised")
	assert.Same(t, s, s.TypeSchema("person"), "types without overlays share the base")
	assert.Same(t, s, s.TypeSchema("unknown"))
}

func TestTypeSchemaHonorsLocks(t *testing.T) {
	def := testDefinition()
	def.Tags["dead"] = map[string]interface{}{"max": 1, "locked": true}
	def.Types["changeling"].(map[string]interface{})["tags"] = map[string]interface{}{
		"dead": map[string]interface{}{"max": 5},
	}
	s, _ := Build(def)

	ts := s.TypeSchema("changeling")
	assert.Equal(t, 1, ts.Tag("dead").Max)
	require.Len(t, ts.Problems, 1)
	var locked *LockedTagError
	assert.ErrorAs(t, ts.Problems[0], &locked)
	assert.Equal(t, "dead", locked.Tag)
}
