// Package resolver places characters in the campaign directory tree.
//
// A path template lists the directories a character could live in. The
// resolver only descends into directories that already exist, so the tree
// the user has built decides how deep each character goes.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/schema"
)

// Resolver computes the directory a character belongs in. It never creates
// directories.
type Resolver struct {
	schema *schema.Schema
}

// New creates a resolver. s supplies type subpaths and placeholders.
func New(s *schema.Schema) *Resolver {
	if s == nil {
		s = schema.Empty()
	}
	return &Resolver{schema: s}
}

// Resolve parses template and resolves c under base.
func (r *Resolver) Resolve(c *character.Character, base, template string) (string, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return "", err
	}
	return r.ResolveTemplate(c, base, t), nil
}

// ResolveTemplate returns the deepest existing directory under base that
// the template admits for c. Components whose directory does not exist are
// skipped and resolution continues from the last accepted directory.
func (r *Resolver) ResolveTemplate(c *character.Character, base string, t *Template) string {
	w := &walker{dir: base}
	for _, comp := range t.Components {
		switch comp.Kind {
		case Literal:
			w.enter(comp.Text)
		case Conditional:
			if r.present(c, comp.Tag) {
				w.enter(comp.Text)
			}
		case Substitution:
			r.substitute(w, c, comp.Tag)
		}
	}
	return w.dir
}

func (r *Resolver) present(c *character.Character, tag string) bool {
	if tag == "foreign" {
		return c.Has("foreign") || c.Has("wanderer")
	}
	return c.Has(tag)
}

func (r *Resolver) substitute(w *walker, c *character.Character, tag string) {
	switch tag {
	case "type":
		if ts := r.schema.Type(c.TypeKey); ts != nil {
			w.enter(ts.DirName())
		} else if c.TypeKey != character.UnknownType {
			w.enter(c.TypeKey)
		}
	case "group":
		w.enter(c.FirstValue("group"))
	case "groups":
		for _, g := range c.Values("group") {
			if !w.enter(g) {
				break
			}
		}
	case "rank", "ranks":
		if g := c.First("group"); g != nil {
			w.enterEach(g.SubValues("rank"))
		}
	case "group+ranks":
		if g := c.First("group"); g != nil && w.enter(g.Value) {
			w.enterEach(g.SubValues("rank"))
		}
	case "groups+ranks":
		for _, g := range c.All("group") {
			if w.enter(g.Value) {
				w.enterEach(g.SubValues("rank"))
			}
		}
	case "locations":
		w.enter(c.FirstValue("location"))
		w.enter(c.FirstValue("foreign"))
	default:
		value := c.FirstValue(tag)
		if value == "" {
			if ts := r.schema.Type(c.TypeKey); ts != nil {
				value = ts.Placeholder(tag)
			}
		}
		w.enter(value)
	}
}

// walker tracks the deepest accepted directory.
type walker struct {
	dir string
}

// enter descends into name when that directory exists.
func (w *walker) enter(name string) bool {
	if !safeName(name) {
		return false
	}
	candidate := filepath.Join(w.dir, name)
	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return false
	}
	w.dir = candidate
	return true
}

// enterEach descends through names until one is missing.
func (w *walker) enterEach(names []string) {
	for _, name := range names {
		if !w.enter(name) {
			return
		}
	}
}

// safeName rejects values that would escape a single directory level.
func safeName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
