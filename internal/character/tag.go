package character

// Tag is one tag instance. Subtags attach to the tag they follow.
type Tag struct {
	Name    string
	Value   string
	Subtags []*Tag
}

// AddSubtag appends a subtag and returns it.
func (t *Tag) AddSubtag(name, value string) *Tag {
	child := &Tag{Name: name, Value: value}
	t.Subtags = append(t.Subtags, child)
	return child
}

// Attach appends an existing tag as a subtag.
func (t *Tag) Attach(child *Tag) {
	t.Subtags = append(t.Subtags, child)
}

// Sub returns every subtag named name, in order.
func (t *Tag) Sub(name string) []*Tag {
	var out []*Tag
	for _, s := range t.Subtags {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// SubValues returns the values of every subtag named name.
func (t *Tag) SubValues(name string) []string {
	var out []string
	for _, s := range t.Subtags {
		if s.Name == name {
			out = append(out, s.Value)
		}
	}
	return out
}

// SubNames returns the distinct subtag names in order of first use.
func (t *Tag) SubNames() []string {
	return distinctNames(t.Subtags)
}

// Empty reports whether the tag carries no value.
func (t *Tag) Empty() bool {
	return t.Value == ""
}
