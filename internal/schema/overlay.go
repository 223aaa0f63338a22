package schema

import (
	"fmt"

	"github.com/aurule/npc/internal/deepmerge"
)

// LockedTagError reports an attempt to redefine a locked tag.
type LockedTagError struct {
	Tag   string
	Layer string
}

func (e *LockedTagError) Error() string {
	return fmt.Sprintf("tag %q is locked; redefinition in %s was discarded", e.Tag, e.Layer)
}

// NormalizeTags converts a raw tag collection into the mapping shape. Legacy
// lists of {name: ...} entries become a mapping keyed by name. Anything else
// yields an empty mapping.
func NormalizeTags(raw interface{}) map[string]interface{} {
	switch t := raw.(type) {
	case map[string]interface{}:
		return deepmerge.CloneMap(t)
	case []interface{}:
		if deepmerge.IsNamedList(t) {
			return deepmerge.NamedListToMap(t)
		}
	}
	return map[string]interface{}{}
}

// OverlayTags deep-merges overlay onto base and returns a new mapping.
// Overlay entries for tags that base marks locked are dropped, each one
// reported as a LockedTagError naming layer.
func OverlayTags(base, overlay map[string]interface{}, layer string) (map[string]interface{}, []error) {
	out := deepmerge.CloneMap(base)
	if out == nil {
		out = map[string]interface{}{}
	}
	var problems []error

	for _, name := range sortedKeys(overlay) {
		if IsLocked(out[name]) {
			problems = append(problems, &LockedTagError{Tag: name, Layer: layer})
			continue
		}
		_ = deepmerge.Merge(map[string]interface{}{name: normalizeSpecValue(overlay[name])}, out)
	}
	return out, problems
}

// IsLocked reports whether a raw tag spec sets locked: true.
func IsLocked(raw interface{}) bool {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return false
	}
	locked, _ := m["locked"].(bool)
	return locked
}

// normalizeSpecValue turns a bare `dead:` entry into an empty mapping so it
// merges like any other spec.
func normalizeSpecValue(v interface{}) interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v
}
