package resolver

import (
	"fmt"
	"strings"
)

// ComponentKind says how a template component is resolved.
type ComponentKind int

const (
	// Literal components name a directory verbatim.
	Literal ComponentKind = iota
	// Substitution components insert directories derived from a tag.
	Substitution
	// Conditional components insert a literal when a tag is present.
	Conditional
)

// Component is one "/"-separated piece of a path template.
type Component struct {
	Kind ComponentKind
	// Tag is the tag name for substitutions and conditionals.
	Tag string
	// Text is the directory name for literals and conditionals.
	Text string
}

func (c Component) String() string {
	switch c.Kind {
	case Substitution:
		return "{" + c.Tag + "}"
	case Conditional:
		return "{" + c.Tag + "?" + c.Text + "}"
	default:
		return c.Text
	}
}

// Template is a parsed path template such as
// "{type}/{foreign?Foreign}/{groups+ranks}".
type Template struct {
	Source     string
	Components []Component
}

// TemplateError reports a malformed path template component.
type TemplateError struct {
	Template  string
	Component string
	Reason    string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid path template %q: component %q %s", e.Template, e.Component, e.Reason)
}

// ParseTemplate parses a path template. Empty components are ignored.
func ParseTemplate(src string) (*Template, error) {
	t := &Template{Source: src}
	for _, part := range strings.Split(src, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		comp, err := parseComponent(part)
		if err != nil {
			return nil, &TemplateError{Template: src, Component: part, Reason: err.Error()}
		}
		t.Components = append(t.Components, comp)
	}
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(src string) *Template {
	t, err := ParseTemplate(src)
	if err != nil {
		panic(err)
	}
	return t
}

func parseComponent(part string) (Component, error) {
	if !strings.ContainsAny(part, "{}") {
		return Component{Kind: Literal, Text: part}, nil
	}
	if !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") {
		return Component{}, fmt.Errorf("must be wholly enclosed in braces")
	}
	inner := part[1 : len(part)-1]
	if strings.ContainsAny(inner, "{}") {
		return Component{}, fmt.Errorf("has nested braces")
	}

	tag, text, conditional := strings.Cut(inner, "?")
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Component{}, fmt.Errorf("names no tag")
	}
	if !conditional {
		return Component{Kind: Substitution, Tag: tag}, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Component{}, fmt.Errorf("has an empty conditional directory")
	}
	return Component{Kind: Conditional, Tag: tag, Text: text}, nil
}
