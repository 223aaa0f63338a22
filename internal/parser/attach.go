package parser

import (
	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/schema"
)

// frame is one level of the subtag stack.
type frame struct {
	tag  *character.Tag
	spec *schema.TagSpec
}

// attach places the token stream onto c. A tag becomes a subtag of the
// nearest open tag that permits it; tags that no open tag permits close the
// stack and land at the top level. A subtag takes its spec from the spec of
// the tag it attached to, so nested specs follow the parent's context.
func attach(c *character.Character, s *schema.Schema, stream []token) {
	var stack []frame
	for _, tok := range stream {
		if tok.name == "realname" {
			setRealName(c, tok.value)
			continue
		}
		if tok.name == "name" && hasValue(c, "name", tok.value) {
			continue
		}

		tag := &character.Tag{Name: tok.name, Value: tok.value}
		for len(stack) > 0 && !stack[len(stack)-1].spec.PermitsSubtag(tok.name) {
			stack = stack[:len(stack)-1]
		}

		var spec *schema.TagSpec
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.tag.Attach(tag)
			spec = parent.spec.Subtags[tok.name]
		} else {
			c.Tags = append(c.Tags, tag)
			spec = s.Tag(tok.name)
		}
		if spec.HasSubtags() {
			stack = append(stack, frame{tag: tag, spec: spec})
		}
	}
}

// setRealName replaces the filename-derived name.
func setRealName(c *character.Character, value string) {
	if first := c.First("name"); first != nil {
		first.Value = value
		return
	}
	c.Tags = append([]*character.Tag{{Name: "name", Value: value}}, c.Tags...)
}

func hasValue(c *character.Character, name, value string) bool {
	for _, v := range c.Values(name) {
		if v == value {
			return true
		}
	}
	return false
}
