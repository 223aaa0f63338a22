// Package deepmerge merges nested settings trees.
//
// Mappings merge key by key, recursively. Scalars and lists from the newer
// tree replace the older value, except for legacy tag-definition lists: lists
// whose every entry is a mapping with a string "name" key. Those merge by
// name, where a newer entry overwrites the older entry of the same name and
// unmatched entries are appended.
package deepmerge

// Merge merges src into dest, mutating dest. Values copied out of src are
// cloned so later changes to src never leak into dest.
//
// The signature matches koanf.WithMergeFunc.
func Merge(src, dest map[string]interface{}) error {
	for key, srcVal := range src {
		destVal, exists := dest[key]
		if !exists {
			dest[key] = Clone(srcVal)
			continue
		}
		dest[key] = mergeValue(destVal, srcVal)
	}
	return nil
}

// Merged returns a fresh tree holding base merged with each overlay in turn.
// None of the inputs are modified.
func Merged(base map[string]interface{}, overlays ...map[string]interface{}) map[string]interface{} {
	out := CloneMap(base)
	if out == nil {
		out = make(map[string]interface{})
	}
	for _, overlay := range overlays {
		_ = Merge(overlay, out)
	}
	return out
}

func mergeValue(destVal, srcVal interface{}) interface{} {
	switch s := srcVal.(type) {
	case map[string]interface{}:
		if d, ok := destVal.(map[string]interface{}); ok {
			_ = Merge(s, d)
			return d
		}
	case []interface{}:
		if d, ok := destVal.([]interface{}); ok && IsNamedList(d) && IsNamedList(s) {
			return mergeNamedLists(d, s)
		}
	}
	return Clone(srcVal)
}

func mergeNamedLists(dest, src []interface{}) []interface{} {
	out := make([]interface{}, len(dest), len(dest)+len(src))
	index := make(map[string]int, len(dest))
	for i, entry := range dest {
		out[i] = entry
		index[entryName(entry)] = i
	}
	for _, entry := range src {
		name := entryName(entry)
		if i, ok := index[name]; ok {
			out[i] = Clone(entry)
			continue
		}
		index[name] = len(out)
		out = append(out, Clone(entry))
	}
	return out
}

// IsNamedList reports whether list is a legacy tag-definition list. An empty
// list is not.
func IsNamedList(list []interface{}) bool {
	if len(list) == 0 {
		return false
	}
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return false
		}
		if _, ok := m["name"].(string); !ok {
			return false
		}
	}
	return true
}

// NamedListToMap converts a legacy tag-definition list into the mapping shape
// keyed by name. The "name" key is dropped from each entry. Later duplicates
// win, matching the merge rule.
func NamedListToMap(list []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(list))
	for _, entry := range list {
		m := CloneMap(entry.(map[string]interface{}))
		name := m["name"].(string)
		delete(m, "name")
		out[name] = m
	}
	return out
}

func entryName(entry interface{}) string {
	return entry.(map[string]interface{})["name"].(string)
}

// Clone deep-copies maps and lists. Other values are returned as-is.
func Clone(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// CloneMap deep-copies a mapping. A nil map stays nil.
func CloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}
