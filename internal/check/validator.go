// Package check validates character records against a tag schema.
package check

import (
	"fmt"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/schema"
)

// Validator checks characters against one system schema. Each character is
// checked against the schema of its own type.
type Validator struct {
	schema *schema.Schema
	strict bool
}

// NewValidator creates a validator. Strict mode also reports unknown tags
// and requires exactly one @type naming a defined type.
func NewValidator(s *schema.Schema, strict bool) *Validator {
	if s == nil {
		s = schema.Empty()
	}
	return &Validator{schema: s, strict: strict}
}

// Lint validates c and replaces its recorded problems.
func (v *Validator) Lint(c *character.Character) []character.Problem {
	problems := v.Validate(c)
	c.Problems = problems
	return problems
}

// Validate returns the problems of c without recording them. It never
// fails: every schema violation becomes a Problem.
func (v *Validator) Validate(c *character.Character) []character.Problem {
	s := v.schema.TypeSchema(c.TypeKey)

	problems := make([]character.Problem, 0)
	problems = append(problems, v.checkDescription(c)...)
	problems = append(problems, v.checkType(c)...)
	problems = append(problems, v.checkName(c)...)

	seen := make(map[string]struct{})
	for _, name := range c.Names() {
		seen[name] = struct{}{}
		if name == "type" || name == "name" {
			continue
		}
		if d := s.Deprecated(name); d != nil {
			problems = append(problems, character.Problem{
				Kind:    character.KindDeprecated,
				Message: d.Message(),
				TagName: name,
			})
			continue
		}

		spec := s.Tag(name)
		if !spec.Defined() {
			if s.IsSubtag(name) {
				problems = append(problems, orphan(s, name))
				continue
			}
			if v.strict {
				problems = append(problems, character.Problem{
					Kind:    character.KindUnknownTag,
					Message: fmt.Sprintf("Unrecognized tag @%s", name),
					TagName: name,
				})
			}
			continue
		}
		problems = append(problems, checkTag(name, spec, c.All(name), "")...)
	}

	for _, name := range s.TagNames() {
		if _, ok := seen[name]; ok || name == "type" || name == "name" {
			continue
		}
		problems = append(problems, checkTag(name, s.Tag(name), nil, "")...)
	}

	return problems
}

func (v *Validator) checkDescription(c *character.Character) []character.Problem {
	if c.HasDescription() {
		return nil
	}
	return []character.Problem{{
		Kind:    character.KindMissingDescription,
		Message: "Missing description",
	}}
}

func (v *Validator) checkType(c *character.Character) []character.Problem {
	types := c.All("type")
	badType := func(msg, value string) []character.Problem {
		return []character.Problem{{
			Kind:    character.KindBadType,
			Message: msg,
			TagName: "type",
			Value:   value,
		}}
	}

	switch {
	case len(types) == 0:
		return badType("Missing @type", "")
	case types[0].Empty():
		return badType("Empty @type", "")
	case !v.strict:
		return nil
	case len(types) > 1:
		return badType(fmt.Sprintf("Too many @type tags (%d, expected 1)", len(types)), "")
	case v.schema.Type(c.TypeKey) == nil:
		return badType(fmt.Sprintf("Unknown type %q", types[0].Value), types[0].Value)
	}
	return nil
}

func (v *Validator) checkName(c *character.Character) []character.Problem {
	names := c.All("name")
	if len(names) == 0 {
		return []character.Problem{{
			Kind:    character.KindMissing,
			Message: "Missing @name",
			TagName: "name",
		}}
	}
	if names[0].Empty() {
		return []character.Problem{{
			Kind:    character.KindEmpty,
			Message: "Empty @name",
			TagName: "name",
		}}
	}
	return nil
}

// checkTag runs the per-tag checks for every instance of one tag name.
// The first failing check ends the checks for that tag. where names the
// parent of a subtag and is empty at the top level.
func checkTag(name string, spec *schema.TagSpec, tags []*character.Tag, where string) []character.Problem {
	problem := func(kind character.Kind, value, format string, args ...interface{}) character.Problem {
		return character.Problem{
			Kind:    kind,
			Message: fmt.Sprintf(format, args...) + where,
			TagName: name,
			Value:   value,
		}
	}

	count := len(tags)
	if count == 0 {
		if spec.Required {
			return []character.Problem{problem(character.KindMissing, "", "@%s is required, but not present", name)}
		}
		return nil
	}
	if spec.ReplacedBy != "" {
		return []character.Problem{problem(character.KindReplaced, "", "@%s has been replaced by @%s", name, spec.ReplacedBy)}
	}
	if count < spec.Min {
		return []character.Problem{problem(character.KindTooFew, "", "Too few @%s tags (%d, expected at least %d)", name, count, spec.Min)}
	}
	if count > spec.Max {
		return []character.Problem{problem(character.KindTooMany, "", "Too many @%s tags (%d, expected at most %d)", name, count, spec.Max)}
	}

	var problems []character.Problem
	for _, tag := range tags {
		switch {
		case spec.NoValue && !tag.Empty():
			problems = append(problems, problem(character.KindForbiddenValue, tag.Value, "@%s takes no value, got %q", name, tag.Value))
			continue
		case tag.Empty():
			if !spec.NoValue && !spec.AllowEmpty {
				problems = append(problems, problem(character.KindEmpty, "", "@%s is missing a value", name))
			}
		case !spec.AcceptsValue(tag.Value):
			problems = append(problems, problem(character.KindForbiddenValue, tag.Value, "Unrecognized value %q for @%s", tag.Value, name))
		}
		problems = append(problems, checkSubtags(tag, spec)...)
	}
	return problems
}

// checkSubtags applies the per-tag checks to the subtags of one parent,
// counting only the subtags attached to that parent.
func checkSubtags(parent *character.Tag, spec *schema.TagSpec) []character.Problem {
	if !spec.HasSubtags() {
		return nil
	}
	where := fmt.Sprintf(" under @%s", parent.Name)
	if !parent.Empty() {
		where = fmt.Sprintf(" under @%s %s", parent.Name, parent.Value)
	}

	names := parent.SubNames()
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	for _, n := range spec.SubtagNames() {
		if _, ok := present[n]; !ok {
			names = append(names, n)
		}
	}

	var problems []character.Problem
	for _, name := range names {
		sub := spec.Subtags[name]
		if sub == nil {
			sub = schema.UndefinedTagSpec(name)
		}
		problems = append(problems, checkTag(name, sub, parent.Sub(name), where)...)
	}
	return problems
}

func orphan(s *schema.Schema, name string) character.Problem {
	parents := s.SubTag(name).Parents()
	msg := fmt.Sprintf("@%s is a subtag without context", name)
	if len(parents) > 0 {
		msg = fmt.Sprintf("@%s must follow @%s", name, parents[0])
		for _, p := range parents[1:] {
			msg += " or @" + p
		}
	}
	return character.Problem{
		Kind:    character.KindSubtagOrphan,
		Message: msg,
		TagName: name,
	}
}
