// Package pages writes character files: canonical headers for existing
// characters and fresh files for new ones.
package pages

import (
	"strings"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/schema"
)

// canonicalOrder lists the tags written in a fixed position after the type
// header. Everything else follows in parse order.
var canonicalOrder = []string{
	"title", "foreign", "location", "wanderer", "group",
	"dead", "appearance", "mask", "mien",
	"hide", "hidegroup", "hideranks",
}

// buffered tags get a blank line before their block.
var buffered = map[string]bool{
	"dead":       true,
	"appearance": true,
	"mask":       true,
	"mien":       true,
}

// Format renders c as file contents. stem is the name the file's own name
// supplies; when the primary name differs, a @realname line records it.
func Format(c *character.Character, s *schema.Schema, stem string) string {
	if s == nil {
		s = schema.Empty()
	}
	s = s.TypeSchema(c.TypeKey)

	h := &header{written: make(map[*character.Tag]bool)}

	for _, t := range c.All("skip") {
		h.tag(t)
	}

	names := c.All("name")
	if len(names) > 0 {
		if names[0].Value != stem {
			h.line("realname", names[0].Value)
		}
		h.written[names[0]] = true
		for _, n := range names[1:] {
			h.tag(n)
		}
	}

	// Subtags stranded at the top level go where no open tag can claim them.
	for _, t := range c.Tags {
		if s.IsSubtag(t.Name) && !s.Tag(t.Name).Defined() {
			h.tag(t)
		}
	}

	h.typeHeader(c, s)

	for _, name := range canonicalOrder {
		tags := h.pending(c.All(name))
		if len(tags) == 0 {
			continue
		}
		if buffered[name] {
			h.blank()
		}
		for i, t := range tags {
			if name == "group" && i > 0 {
				h.blank()
			}
			h.tag(t)
		}
	}

	for _, t := range h.pending(c.Tags) {
		h.tag(t)
	}

	var b strings.Builder
	b.WriteString(c.Description)
	if len(h.lines) > 0 {
		if c.Description != "" {
			if !strings.HasSuffix(c.Description, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(h.lines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

type header struct {
	lines   []string
	written map[*character.Tag]bool
}

func (h *header) line(name, value string) {
	if value == "" {
		h.lines = append(h.lines, "@"+name)
		return
	}
	h.lines = append(h.lines, "@"+name+" "+value)
}

// blank adds a separating blank line, never leading or doubled.
func (h *header) blank() {
	if n := len(h.lines); n > 0 && h.lines[n-1] != "" {
		h.lines = append(h.lines, "")
	}
}

// tag writes t followed by its subtags.
func (h *header) tag(t *character.Tag) {
	if h.written[t] {
		return
	}
	h.written[t] = true
	h.line(t.Name, t.Value)
	for _, sub := range t.Subtags {
		h.tag(sub)
	}
}

func (h *header) pending(tags []*character.Tag) []*character.Tag {
	var out []*character.Tag
	for _, t := range tags {
		if !h.written[t] {
			out = append(out, t)
		}
	}
	return out
}

// typeHeader writes the character's type, using a metatag shorthand when
// one reproduces the same tags on reparse.
func (h *header) typeHeader(c *character.Character, s *schema.Schema) {
	for _, name := range s.MetatagNames() {
		if h.collapse(c, s, s.Metatag(name)) {
			return
		}
	}
	for _, t := range c.All("type") {
		h.tag(t)
	}
}

func (h *header) collapse(c *character.Character, s *schema.Schema, m *schema.MetatagSpec) bool {
	if _, ok := m.StaticValue("type"); !ok {
		return false
	}

	var used []*character.Tag
	single := func(name string) *character.Tag {
		tags := h.pending(c.All(name))
		if len(tags) != 1 || len(tags[0].Subtags) > 0 {
			return nil
		}
		return tags[0]
	}

	for _, st := range m.Static {
		t := single(st.Name)
		if t == nil || t.Value != st.Value {
			return false
		}
		used = append(used, t)
	}

	var values []string
	missing := false
	for _, name := range m.Match {
		if len(h.pending(c.All(name))) == 0 {
			missing = true
			continue
		}
		t := single(name)
		if missing || t == nil || t.Value == "" {
			return false
		}
		used = append(used, t)
		values = append(values, t.Value)
	}

	value := m.Collapse(values)
	reparsed := parser.MatchValues(m, value, func(name string) []string {
		return s.Tag(name).Values
	})
	if len(reparsed) != len(values) {
		return false
	}
	for i := range values {
		if reparsed[i] != values[i] {
			return false
		}
	}

	for _, t := range used {
		h.written[t] = true
	}
	h.line(m.Name, value)
	return true
}
