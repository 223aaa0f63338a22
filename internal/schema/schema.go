package schema

// Schema is the effective set of specs for one system, optionally with one
// character type's overlay applied. It is read-only once built.
type Schema struct {
	tags       map[string]*TagSpec
	subtags    map[string]*SubTagSpec
	deprecated map[string]*DeprecatedTagSpec
	metatags   map[string]*MetatagSpec
	types      map[string]*TypeSpec

	// typeKey is the type whose overlay produced this schema, if any.
	typeKey string
	def     Definition
	byType  map[string]*Schema

	// Problems lists spec errors found while building. Offending specs are
	// repaired or skipped, so a schema with problems is still usable.
	Problems []error
}

// Empty returns a schema with no declarations.
func Empty() *Schema {
	s, _ := Build(Definition{})
	return s
}

// Tag returns the spec for a top-level tag, or the undefined spec.
func (s *Schema) Tag(name string) *TagSpec {
	if spec, ok := s.tags[name]; ok {
		return spec
	}
	return UndefinedTagSpec(name)
}

// Subtag returns the spec for name while attached under parent. Names that
// are also top-level tags resolve to their top-level spec and ignore parent.
func (s *Schema) Subtag(name, parent string) *TagSpec {
	if st, ok := s.subtags[name]; ok {
		return st.InContext(parent)
	}
	return s.Tag(name)
}

// SubTag returns the subtag-only spec for name, or nil.
func (s *Schema) SubTag(name string) *SubTagSpec {
	return s.subtags[name]
}

// IsSubtag reports whether name only has meaning under a parent tag.
func (s *Schema) IsSubtag(name string) bool {
	_, ok := s.subtags[name]
	return ok
}

// Metatag returns the metatag named name, or nil.
func (s *Schema) Metatag(name string) *MetatagSpec {
	return s.metatags[name]
}

// Deprecated returns the deprecation spec for name, or nil.
func (s *Schema) Deprecated(name string) *DeprecatedTagSpec {
	return s.deprecated[name]
}

// Type returns the type spec for key, or nil.
func (s *Schema) Type(key string) *TypeSpec {
	return s.types[key]
}

// TypeKey names the type overlay applied to this schema.
func (s *Schema) TypeKey() string {
	return s.typeKey
}

// TagNames returns the declared top-level tag names, sorted.
func (s *Schema) TagNames() []string {
	return sortedKeys(s.tags)
}

// TypeKeys returns the declared type keys, sorted.
func (s *Schema) TypeKeys() []string {
	return sortedKeys(s.types)
}

// MetatagNames returns the declared metatag names, sorted.
func (s *Schema) MetatagNames() []string {
	return sortedKeys(s.metatags)
}

// DeprecatedNames returns the deprecated tag names, sorted.
func (s *Schema) DeprecatedNames() []string {
	return sortedKeys(s.deprecated)
}

// TypeSchema returns the schema with the tag overlay of typeKey applied.
// Unknown types and types without an overlay share this schema. Results are
// memoised so each type is assembled once.
func (s *Schema) TypeSchema(typeKey string) *Schema {
	t := s.types[typeKey]
	if t == nil || !t.HasTagOverlay() || s.typeKey != "" {
		return s
	}
	if cached, ok := s.byType[typeKey]; ok {
		return cached
	}

	def := s.def
	merged, problems := OverlayTags(def.Tags, t.tags, "type "+typeKey)
	def.Tags = merged
	ts, buildProblems := Build(def)
	ts.typeKey = typeKey
	ts.Problems = append(problems, buildProblems...)

	s.byType[typeKey] = ts
	return ts
}
