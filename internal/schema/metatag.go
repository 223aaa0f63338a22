package schema

import "strings"

// StaticTag is a tag a metatag always emits.
type StaticTag struct {
	Name  string
	Value string
}

// MetatagSpec is an input shorthand that expands into several tags.
//
//	@changeling Beast Hunterheart
//
// expands to @type Changeling, @seeming Beast, @kith Hunterheart.
type MetatagSpec struct {
	Name string
	Desc string
	Doc  string

	Static    []StaticTag
	Match     []string
	Separator string
	Greedy    bool
}

// Sep returns the separator, defaulting to a single space.
func (m *MetatagSpec) Sep() string {
	if m.Separator == "" {
		return " "
	}
	return m.Separator
}

// StaticValue returns the value the metatag emits for name, if any.
func (m *MetatagSpec) StaticValue(name string) (string, bool) {
	for _, st := range m.Static {
		if st.Name == name {
			return st.Value, true
		}
	}
	return "", false
}

// Emits reports whether the metatag produces tags named name.
func (m *MetatagSpec) Emits(name string) bool {
	if _, ok := m.StaticValue(name); ok {
		return true
	}
	for _, match := range m.Match {
		if match == name {
			return true
		}
	}
	return false
}

// Collapse joins matched values into a metatag value.
func (m *MetatagSpec) Collapse(values []string) string {
	return strings.Join(values, m.Sep())
}
