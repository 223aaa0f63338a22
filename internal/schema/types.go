// Package schema models the tags, subtags, metatags and character types that
// settings declare, and answers lookups against them.
package schema

import (
	"path"
	"sort"
)

// DefaultSheetSuffix is used when a type has no sheet template.
const DefaultSheetSuffix = ".npc"

// TypeSpec describes one kind of character.
type TypeSpec struct {
	Key  string
	Name string
	Desc string

	// SheetPath is the template file whose body seeds new characters.
	SheetPath string
	// Sheet is the loaded body of SheetPath.
	Sheet string

	// Subpath is the directory name the {type} path component inserts.
	Subpath string

	// Placeholders supply directory names for path components whose tag
	// is missing from a character.
	Placeholders map[string]string

	// tags is the raw tag overlay applied on top of the system tags.
	tags map[string]interface{}
}

// DirName is the directory the {type} path component names.
func (t *TypeSpec) DirName() string {
	if t.Subpath != "" {
		return t.Subpath
	}
	return t.Key
}

// SheetSuffix is the file suffix for characters of this type, taken from
// the sheet template.
func (t *TypeSpec) SheetSuffix() string {
	if t != nil {
		if ext := path.Ext(t.SheetPath); ext != "" {
			return ext
		}
	}
	return DefaultSheetSuffix
}

// Placeholder returns the placeholder directory name for tag.
func (t *TypeSpec) Placeholder(tag string) string {
	if t == nil {
		return ""
	}
	return t.Placeholders[tag]
}

// HasTagOverlay reports whether the type changes the system tags.
func (t *TypeSpec) HasTagOverlay() bool {
	return len(t.tags) > 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
