package testutil

import (
	"testing"

	"github.com/aurule/npc/internal/schema"
)

// Definition returns a small tag schema shaped like the shipped defaults:
// a person and a changeling type, group/rank subtags, a deprecated
// @location and a @changeling metatag.
func Definition() schema.Definition {
	return schema.Definition{
		Tags: map[string]interface{}{
			"type":       map[string]interface{}{"desc": "Character type", "required": true, "max": 1},
			"name":       map[string]interface{}{"desc": "Character name", "required": true},
			"title":      map[string]interface{}{"desc": "Honorific or job title"},
			"foreign":    map[string]interface{}{"desc": "Not from around here", "allow_empty": true},
			"wanderer":   map[string]interface{}{"desc": "Has no fixed home", "no_value": true},
			"location":   map[string]interface{}{"desc": "Where to find them", "allow_empty": true},
			"dead":       map[string]interface{}{"desc": "No longer living", "allow_empty": true, "max": 1},
			"appearance": map[string]interface{}{"desc": "Looks"},
			"mask":       map[string]interface{}{"desc": "Apparent self"},
			"mien":       map[string]interface{}{"desc": "True self"},
			"skip":       map[string]interface{}{"desc": "Ignore this file", "no_value": true},
			"hide":       map[string]interface{}{"desc": "Hide a tag in reports"},
			"group": map[string]interface{}{
				"desc": "A group the character belongs to",
				"subtags": map[string]interface{}{
					"rank": map[string]interface{}{"desc": "Position within the group"},
				},
			},
		},
		DeprecatedTags: map[string]interface{}{
			"locale": map[string]interface{}{"replaced_by": "location"},
		},
		Metatags: map[string]interface{}{
			"changeling": map[string]interface{}{
				"desc":   "Shorthand for a changeling's type, seeming and kith",
				"static": map[string]interface{}{"type": "Changeling"},
				"match":  []interface{}{"seeming", "kith"},
				"greedy": true,
			},
		},
		Types: map[string]interface{}{
			"person": map[string]interface{}{
				"name":    "Person",
				"subpath": "Persons",
			},
			"changeling": map[string]interface{}{
				"name":    "Changeling",
				"subpath": "Changelings",
				"tags": map[string]interface{}{
					"seeming": map[string]interface{}{
						"required": true,
						"max":      1,
						"values":   []interface{}{"Beast", "Darkling", "Elemental", "Fairest", "Ogre", "Wizened"},
					},
					"kith": map[string]interface{}{
						"values": []interface{}{"Hunterheart", "Broadback", "Gristlegrinder", "Bright One", "Bright One Tender"},
					},
					"court": map[string]interface{}{"max": 1},
				},
				"placeholders": map[string]interface{}{"court": "Courtless"},
			},
		},
	}
}

// Schema builds Definition and fails the test on any schema problem.
func Schema(t testing.TB) *schema.Schema {
	t.Helper()
	s, problems := schema.Build(Definition())
	for _, p := range problems {
		t.Fatalf("building test schema: %v", p)
	}
	return s
}
