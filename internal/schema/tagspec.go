package schema

import (
	"fmt"
	"math"
	"sort"
)

// Unlimited is the Max of a tag with no upper bound.
const Unlimited = math.MaxInt

// TagSpec describes one tag name.
type TagSpec struct {
	Name string
	Desc string
	Doc  string

	Required bool
	Min      int
	Max      int

	// Values is the closed set of accepted values. Empty means any value.
	Values     []string
	NoValue    bool
	AllowEmpty bool

	// ReplacedBy names the tag that supersedes this one. Any use of a
	// replaced tag is an error and suppresses every other check.
	ReplacedBy string

	// Locked specs cannot be redefined by later settings layers.
	Locked bool

	// Subtags maps child tag names to the spec that applies while the
	// child is attached to this tag.
	Subtags map[string]*TagSpec

	undefined bool
}

// UndefinedTagSpec returns the null spec used for names the schema does not
// declare. It never produces an error on its own.
func UndefinedTagSpec(name string) *TagSpec {
	return &TagSpec{
		Name:       name,
		Max:        Unlimited,
		AllowEmpty: true,
		undefined:  true,
	}
}

// Defined reports whether the spec came from settings.
func (t *TagSpec) Defined() bool {
	return t != nil && !t.undefined
}

// HasSubtags reports whether any subtag may attach to this tag.
func (t *TagSpec) HasSubtags() bool {
	return t != nil && len(t.Subtags) > 0
}

// PermitsSubtag reports whether name may attach as a subtag of this tag.
func (t *TagSpec) PermitsSubtag(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Subtags[name]
	return ok
}

// SubtagNames returns the names of the permitted subtags, sorted.
func (t *TagSpec) SubtagNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Subtags))
	for name := range t.Subtags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AcceptsValue reports whether value is in the spec's value domain. The
// comparison ignores ASCII case. A spec without Values accepts anything.
func (t *TagSpec) AcceptsValue(value string) bool {
	if t == nil || len(t.Values) == 0 {
		return true
	}
	for _, allowed := range t.Values {
		if EqualFoldASCII(allowed, value) {
			return true
		}
	}
	return false
}

// MaxString renders Max for messages.
func (t *TagSpec) MaxString() string {
	if t.Max == Unlimited {
		return "unlimited"
	}
	return fmt.Sprint(t.Max)
}

// SubTagSpec is a tag name with no standalone meaning. Each context maps a
// parent tag name to the independent spec used under that parent.
type SubTagSpec struct {
	Name     string
	Contexts map[string]*TagSpec
}

// InContext returns the spec for this subtag under parent, or the undefined
// spec when parent does not declare it.
func (s *SubTagSpec) InContext(parent string) *TagSpec {
	if s != nil {
		if spec, ok := s.Contexts[parent]; ok {
			return spec
		}
	}
	name := ""
	if s != nil {
		name = s.Name
	}
	return UndefinedTagSpec(name)
}

// Parents returns the parent tag names this subtag can attach to, sorted.
func (s *SubTagSpec) Parents() []string {
	names := make([]string, 0, len(s.Contexts))
	for name := range s.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeprecatedTagSpec marks a tag that should no longer be used.
type DeprecatedTagSpec struct {
	Name       string
	Desc       string
	Doc        string
	ReplacedBy string
}

// Message describes the deprecation for lint output.
func (d *DeprecatedTagSpec) Message() string {
	if d.ReplacedBy != "" {
		return fmt.Sprintf("@%s is deprecated, use @%s instead", d.Name, d.ReplacedBy)
	}
	return fmt.Sprintf("@%s is deprecated", d.Name)
}

// EqualFoldASCII compares two strings ignoring ASCII letter case only.
func EqualFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
