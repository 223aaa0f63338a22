package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurule/npc/internal/atomicfile"
	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/resolver"
	"github.com/aurule/npc/internal/schema"
	"github.com/aurule/npc/internal/template"
)

// ErrExists is returned when the new character's file is already present.
var ErrExists = errors.New("character file already exists")

// ErrTagInDescription is returned when a description line starts with @.
// On the next read that line would begin the tag header.
var ErrTagInDescription = errors.New("description lines cannot start with @")

// Group is a group membership for a new character.
type Group struct {
	Name  string
	Ranks []string
}

// TagValue is an extra tag for a new character.
type TagValue struct {
	Name  string
	Value string
}

// CreateOptions configures character creation.
type CreateOptions struct {
	// Root is the characters directory the path template starts from.
	Root string

	// PathTemplate places the new file, e.g. "{type}/{groups+ranks}".
	PathTemplate string

	// Schema is the system schema. It supplies the type's sheet template,
	// subpath, placeholders and metatags.
	Schema *schema.Schema

	// TypeKey is the character type.
	TypeKey string

	// Name is the character's name and the file's base name.
	Name string

	Groups []Group
	Tags   []TagValue

	// Description replaces the sheet's description when set.
	Description string

	// DryRun computes the result without writing anything.
	DryRun bool
}

// CreateResult contains information about the created character.
type CreateResult struct {
	// FilePath is the absolute path of the character file.
	FilePath string

	// RelativePath is FilePath relative to Root.
	RelativePath string

	Character *character.Character
	Content   string
}

// Create builds a new character from its type's sheet template, places it
// with the path template and writes it. Existing files are never replaced.
func Create(opts CreateOptions) (*CreateResult, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("characters directory is required")
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, fmt.Errorf("character name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("character name cannot contain path separators: %q", name)
	}
	if err := checkDescription(opts.Description); err != nil {
		return nil, err
	}
	if info, err := os.Stat(opts.Root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("characters directory does not exist: %s", opts.Root)
	}

	s := opts.Schema
	if s == nil {
		s = schema.Empty()
	}
	typeKey := parser.TypeKey(opts.TypeKey)
	ts := s.Type(typeKey)
	if ts == nil {
		return nil, fmt.Errorf("unknown character type %q", opts.TypeKey)
	}

	c := build(opts, s, ts, name, typeKey)

	dir, err := resolver.New(s).Resolve(c, opts.Root, opts.PathTemplate)
	if err != nil {
		return nil, err
	}

	filePath := filepath.Join(dir, name+ts.SheetSuffix())
	relPath, err := filepath.Rel(opts.Root, filePath)
	if err != nil {
		relPath = filePath
	}
	c.Path = filePath

	result := &CreateResult{
		FilePath:     filePath,
		RelativePath: relPath,
		Character:    c,
		Content:      Format(c, s, name),
	}
	if opts.DryRun {
		if _, err := os.Stat(filePath); err == nil {
			return result, fmt.Errorf("%w: %s", ErrExists, relPath)
		}
		return result, nil
	}

	if err := atomicfile.Create(filePath, []byte(result.Content), 0o644); err != nil {
		if errors.Is(err, atomicfile.ErrExists) {
			return nil, fmt.Errorf("%w: %s", ErrExists, relPath)
		}
		return nil, fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return result, nil
}

// build assembles the record: the sheet's description and tags, then the
// name, type, groups and extra tags from opts.
func build(opts CreateOptions, s *schema.Schema, ts *schema.TypeSpec, name, typeKey string) *character.Character {
	fields := make(map[string]string)
	for _, t := range opts.Tags {
		if _, ok := fields[t.Name]; !ok {
			fields[t.Name] = clean(t.Value)
		}
	}
	if len(opts.Groups) > 0 {
		fields["group"] = clean(opts.Groups[0].Name)
	}

	sheet := template.Apply(ts.Sheet, template.NewVariables(name, typeKey, fields))
	c := parser.New(s).ParseString(sheet, "")

	tags := make([]*character.Tag, 0, len(c.Tags)+2)
	tags = append(tags, &character.Tag{Name: "name", Value: name})
	if !c.Has("type") {
		tags = append(tags, &character.Tag{Name: "type", Value: typeKey})
	}
	for _, t := range c.Tags {
		if t.Name != "name" {
			tags = append(tags, t)
		}
	}
	c.Tags = tags
	if c.TypeKey == character.UnknownType {
		c.TypeKey = typeKey
	}

	if opts.Description != "" {
		c.Description = strings.TrimRight(opts.Description, "\n") + "\n"
	}

	for _, g := range opts.Groups {
		group := c.Add("group", clean(g.Name))
		for _, rank := range g.Ranks {
			if rank = clean(rank); rank != "" {
				group.AddSubtag("rank", rank)
			}
		}
	}
	for _, t := range opts.Tags {
		c.Add(t.Name, clean(t.Value))
	}
	return c
}

func checkDescription(desc string) error {
	for i, line := range strings.Split(desc, "\n") {
		if strings.HasPrefix(line, "@") {
			return fmt.Errorf("%w: line %d: %q", ErrTagInDescription, i+1, line)
		}
	}
	return nil
}

// clean keeps a value on one header line.
func clean(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}
