// Package parser reads character files into character records.
//
// A character file is free-form description text followed by a tag header:
//
//	A simple test character.
//
//	@type person
//	@group Wolves
//	@rank Alpha
//
// Parsing never fails for schema reasons. Unknown tags become top-level tags
// and validation is left to the check package.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/schema"
)

// ParseError reports a character file that could not be read.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser turns character files into records using one system schema.
type Parser struct {
	schema *schema.Schema
}

// New returns a parser for s. A nil schema parses with no metatags and no
// subtags.
func New(s *schema.Schema) *Parser {
	if s == nil {
		s = schema.Empty()
	}
	return &Parser{schema: s}
}

// ParseFile reads and parses the character file at path.
func (p *Parser) ParseFile(path string) (*character.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.Parse(bytes.NewReader(data), path)
}

// Parse reads a character from r. path supplies the provisional name and
// may be empty.
func (p *Parser) Parse(r io.Reader, path string) (*character.Character, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.parseLines(lines, path), nil
}

// ParseString parses contents held in memory. It cannot fail: lines of any
// length are accepted.
func (p *Parser) ParseString(contents, path string) *character.Character {
	return p.parseLines(splitLines(contents), path)
}

func (p *Parser) parseLines(lines []string, path string) *character.Character {
	c := character.New()
	c.Path = path
	if path != "" {
		if name := NameFromFilename(path); name != "" {
			c.Add("name", name)
		}
	}

	var description []string
	var stream []token
	inHeader := false
	for i, line := range lines {
		if !inHeader {
			if !strings.HasPrefix(line, "@") {
				description = append(description, line)
				continue
			}
			inHeader = true
		}
		tok, ok := tokenize(line, i+1)
		if !ok {
			if strings.TrimSpace(line) != "" {
				c.Stray = append(c.Stray, line)
			}
			continue
		}
		stream = append(stream, p.expand(tok)...)
	}
	c.Description = joinDescription(description)

	c.TypeKey = resolveType(stream)
	attach(c, p.schema.TypeSchema(c.TypeKey), stream)
	return c
}

// resolveType returns the folded value of the first @type tag.
func resolveType(stream []token) string {
	for _, tok := range stream {
		if tok.name == "type" {
			if key := TypeKey(tok.value); key != "" {
				return key
			}
			return character.UnknownType
		}
	}
	return character.UnknownType
}

var typeFolder = cases.Lower(language.Und)

// TypeKey folds a @type value into a type key.
func TypeKey(value string) string {
	return typeFolder.String(strings.TrimSpace(value))
}

func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

// splitLines splits contents into lines of any length. A final newline
// does not start another line, and a trailing carriage return is dropped
// from each line.
func splitLines(contents string) []string {
	if contents == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(contents, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// joinDescription joins description lines, dropping trailing blank lines.
// A non-empty description always ends in exactly one newline.
func joinDescription(lines []string) string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if end == 0 {
		return ""
	}
	return strings.Join(lines[:end], "\n") + "\n"
}
