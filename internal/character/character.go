// Package character holds the in-memory record of one character file.
package character

import "strings"

// UnknownType is the type key of a character without a @type tag.
const UnknownType = "unknown"

// Character is the structured record parsed from one character file.
type Character struct {
	// Path is the source file. Empty for records built in memory.
	Path string

	// Description is the free-form text before the tag header.
	Description string

	// TypeKey is the lowercased value of the first @type tag.
	TypeKey string

	// Tags holds top-level tags in parse order.
	Tags []*Tag

	// Stray holds non-blank lines inside the tag header that are not tag
	// lines. Rewriting the file would lose them.
	Stray []string

	// Problems is replaced on every validation run.
	Problems []Problem
}

// New returns an empty, unvalidated character.
func New() *Character {
	return &Character{
		TypeKey:  UnknownType,
		Problems: []Problem{NotValidated},
	}
}

// Add appends a top-level tag and returns it.
func (c *Character) Add(name, value string) *Tag {
	t := &Tag{Name: name, Value: value}
	c.Tags = append(c.Tags, t)
	return t
}

// All returns every top-level tag named name, in order.
func (c *Character) All(name string) []*Tag {
	var out []*Tag
	for _, t := range c.Tags {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// First returns the first top-level tag named name, or nil.
func (c *Character) First(name string) *Tag {
	for _, t := range c.Tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// FirstValue returns the value of the first tag named name.
func (c *Character) FirstValue(name string) string {
	if t := c.First(name); t != nil {
		return t.Value
	}
	return ""
}

// Values returns the values of every top-level tag named name.
func (c *Character) Values(name string) []string {
	var out []string
	for _, t := range c.Tags {
		if t.Name == name {
			out = append(out, t.Value)
		}
	}
	return out
}

// Has reports whether any top-level tag is named name.
func (c *Character) Has(name string) bool {
	return c.First(name) != nil
}

// Count returns the number of top-level tags named name.
func (c *Character) Count(name string) int {
	n := 0
	for _, t := range c.Tags {
		if t.Name == name {
			n++
		}
	}
	return n
}

// Names returns the distinct top-level tag names in order of first use.
func (c *Character) Names() []string {
	return distinctNames(c.Tags)
}

// Name is the character's primary name.
func (c *Character) Name() string {
	return c.FirstValue("name")
}

// HasDescription reports whether the description holds non-whitespace text.
func (c *Character) HasDescription() bool {
	return strings.TrimSpace(c.Description) != ""
}

// Valid reports whether the last validation found no problems.
func (c *Character) Valid() bool {
	return len(c.Problems) == 0
}

// Validated reports whether validation has run.
func (c *Character) Validated() bool {
	return len(c.Problems) != 1 || c.Problems[0].Kind != KindNotValidated
}

func distinctNames(tags []*Tag) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t.Name)
	}
	return out
}
