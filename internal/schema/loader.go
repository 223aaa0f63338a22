package schema

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Definition is the raw, merged settings data a schema is built from.
type Definition struct {
	Tags           map[string]interface{}
	DeprecatedTags map[string]interface{}
	Metatags       map[string]interface{}
	Types          map[string]interface{}
}

type rawTag struct {
	Desc       string      `mapstructure:"desc"`
	Doc        string      `mapstructure:"doc"`
	Required   bool        `mapstructure:"required"`
	Min        *int        `mapstructure:"min" validate:"omitempty,gte=0"`
	Max        *int        `mapstructure:"max" validate:"omitempty,gte=0"`
	Values     []string    `mapstructure:"values" validate:"excluded_with=NoValue"`
	NoValue    bool        `mapstructure:"no_value"`
	AllowEmpty bool        `mapstructure:"allow_empty"`
	ReplacedBy string      `mapstructure:"replaced_by"`
	Locked     bool        `mapstructure:"locked"`
	Subtags    interface{} `mapstructure:"subtags"`
}

type rawDeprecated struct {
	Desc       string `mapstructure:"desc"`
	Doc        string `mapstructure:"doc"`
	ReplacedBy string `mapstructure:"replaced_by"`
}

type rawMetatag struct {
	Desc      string      `mapstructure:"desc"`
	Doc       string      `mapstructure:"doc"`
	Static    interface{} `mapstructure:"static"`
	Match     []string    `mapstructure:"match"`
	Separator string      `mapstructure:"separator"`
	Greedy    bool        `mapstructure:"greedy"`
}

type rawType struct {
	Name         string            `mapstructure:"name"`
	Desc         string            `mapstructure:"desc"`
	SheetPath    string            `mapstructure:"sheet_path"`
	Sheet        string            `mapstructure:"sheet"`
	Subpath      string            `mapstructure:"subpath"`
	Placeholders map[string]string `mapstructure:"placeholders"`
	Tags         interface{}       `mapstructure:"tags"`
}

// Build assembles a schema from raw settings data. It never fails: specs
// that cannot be decoded are skipped and invalid ones are repaired, each
// recorded in the returned problems (also kept on Schema.Problems).
func Build(def Definition) (*Schema, []error) {
	b := &builder{}
	s := &Schema{
		tags:       make(map[string]*TagSpec),
		subtags:    make(map[string]*SubTagSpec),
		deprecated: make(map[string]*DeprecatedTagSpec),
		metatags:   make(map[string]*MetatagSpec),
		types:      make(map[string]*TypeSpec),
		byType:     make(map[string]*Schema),
		def:        def,
	}

	tags := NormalizeTags(def.Tags)
	for _, name := range sortedKeys(tags) {
		if spec := b.tag(name, tags[name], name); spec != nil {
			s.tags[name] = spec
		}
	}
	for _, name := range sortedKeys(s.tags) {
		b.registerSubtags(s, s.tags[name])
	}

	deprecated := NormalizeTags(def.DeprecatedTags)
	for _, name := range sortedKeys(deprecated) {
		var raw rawDeprecated
		if err := decode(deprecated[name], &raw); err != nil {
			b.errorf("deprecated tag %q: %v", name, err)
			continue
		}
		s.deprecated[name] = &DeprecatedTagSpec{Name: name, Desc: raw.Desc, Doc: raw.Doc, ReplacedBy: raw.ReplacedBy}
	}

	metatags := NormalizeTags(def.Metatags)
	for _, name := range sortedKeys(metatags) {
		if spec := b.metatag(name, metatags[name]); spec != nil {
			s.metatags[name] = spec
		}
	}

	for _, key := range sortedKeys(def.Types) {
		var raw rawType
		if err := decode(def.Types[key], &raw); err != nil {
			b.errorf("type %q: %v", key, err)
			continue
		}
		name := raw.Name
		if name == "" {
			name = key
		}
		s.types[key] = &TypeSpec{
			Key:          key,
			Name:         name,
			Desc:         raw.Desc,
			SheetPath:    raw.SheetPath,
			Sheet:        raw.Sheet,
			Subpath:      raw.Subpath,
			Placeholders: raw.Placeholders,
			tags:         NormalizeTags(raw.Tags),
		}
	}

	s.Problems = b.problems
	return s, b.problems
}

type builder struct {
	problems []error
}

func (b *builder) errorf(format string, args ...interface{}) {
	b.problems = append(b.problems, fmt.Errorf(format, args...))
}

// tag decodes one raw spec. path names the spec in messages, e.g.
// "group.rank" for a subtag.
func (b *builder) tag(name string, raw interface{}, path string) *TagSpec {
	var r rawTag
	if err := decode(raw, &r); err != nil {
		b.errorf("tag %q: %v", path, err)
		return nil
	}
	for _, err := range validateRawTag(path, &r) {
		b.problems = append(b.problems, err)
	}

	spec := &TagSpec{
		Name:       name,
		Desc:       r.Desc,
		Doc:        r.Doc,
		Required:   r.Required,
		Max:        Unlimited,
		Values:     r.Values,
		NoValue:    r.NoValue,
		AllowEmpty: r.AllowEmpty,
		ReplacedBy: r.ReplacedBy,
		Locked:     r.Locked,
	}
	if r.Min != nil && *r.Min > 0 {
		spec.Min = *r.Min
	}
	if r.Max != nil && *r.Max >= 0 {
		spec.Max = *r.Max
	}
	if len(spec.Values) > 0 && spec.NoValue {
		spec.NoValue = false
	}
	if spec.Required && spec.Min < 1 {
		spec.Min = 1
	}
	if spec.Min > spec.Max {
		spec.Min, spec.Max = spec.Max, spec.Min
	}

	children := NormalizeTags(r.Subtags)
	if len(children) > 0 {
		spec.Subtags = make(map[string]*TagSpec, len(children))
		for _, child := range sortedKeys(children) {
			if cs := b.tag(child, children[child], path+"."+child); cs != nil {
				spec.Subtags[child] = cs
			}
		}
	}
	return spec
}

// registerSubtags records every subtag of parent that is not itself a
// top-level tag as a SubTagSpec context, recursively.
func (b *builder) registerSubtags(s *Schema, parent *TagSpec) {
	for _, name := range parent.SubtagNames() {
		child := parent.Subtags[name]
		if _, topLevel := s.tags[name]; !topLevel {
			st, ok := s.subtags[name]
			if !ok {
				st = &SubTagSpec{Name: name, Contexts: make(map[string]*TagSpec)}
				s.subtags[name] = st
			}
			st.Contexts[parent.Name] = child
		}
		b.registerSubtags(s, child)
	}
}

func (b *builder) metatag(name string, raw interface{}) *MetatagSpec {
	var r rawMetatag
	if err := decode(raw, &r); err != nil {
		b.errorf("metatag %q: %v", name, err)
		return nil
	}
	static, err := decodeStatic(r.Static)
	if err != nil {
		b.errorf("metatag %q: %v", name, err)
		return nil
	}
	if len(static) == 0 && len(r.Match) == 0 {
		b.errorf("metatag %q: needs static tags or match tags", name)
		return nil
	}
	return &MetatagSpec{
		Name:      name,
		Desc:      r.Desc,
		Doc:       r.Doc,
		Static:    static,
		Match:     r.Match,
		Separator: r.Separator,
		Greedy:    r.Greedy,
	}
}

// decodeStatic accepts either a mapping (emitted in name order) or a list of
// single-entry mappings (emitted in list order).
func decodeStatic(raw interface{}) ([]StaticTag, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]StaticTag, 0, len(names))
		for _, name := range names {
			out = append(out, StaticTag{Name: name, Value: scalarString(t[name])})
		}
		return out, nil
	case []interface{}:
		out := make([]StaticTag, 0, len(t))
		for _, entry := range t {
			m, ok := entry.(map[string]interface{})
			if !ok || len(m) != 1 {
				return nil, fmt.Errorf("static list entries must be single-key mappings")
			}
			for name, value := range m {
				out = append(out, StaticTag{Name: name, Value: scalarString(value)})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("static must be a mapping or a list")
	}
}

func scalarString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func decode(raw interface{}, out interface{}) error {
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
