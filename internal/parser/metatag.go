package parser

import (
	"strings"

	"github.com/aurule/npc/internal/schema"
)

// expand replaces a metatag with the tags it stands for. Other tags pass
// through unchanged.
func (p *Parser) expand(tok token) []token {
	meta := p.schema.Metatag(tok.name)
	if meta == nil {
		return []token{tok}
	}

	out := make([]token, 0, len(meta.Static)+len(meta.Match))
	for _, st := range meta.Static {
		out = append(out, token{name: st.Name, value: st.Value, line: tok.line})
	}

	// Match tags may only be declared by the type the metatag selects.
	lookup := p.schema
	if typeValue, ok := meta.StaticValue("type"); ok {
		lookup = p.schema.TypeSchema(TypeKey(typeValue))
	}

	values := MatchValues(meta, tok.value, func(name string) []string {
		return lookup.Tag(name).Values
	})
	for i, value := range values {
		out = append(out, token{name: meta.Match[i], value: value, line: tok.line})
	}
	return out
}

// MatchValues splits a metatag value among its match tags. Each match tag
// takes one word, except that a greedy metatag lets a tag with declared
// values take as many words as its longest matching value. The last match
// tag takes whatever remains. Tags past the end of the words get nothing.
func MatchValues(meta *schema.MetatagSpec, value string, valuesOf func(name string) []string) []string {
	sep := meta.Sep()
	words := splitWords(value, sep)

	var out []string
	for i, name := range meta.Match {
		if len(words) == 0 {
			break
		}
		if i == len(meta.Match)-1 {
			out = append(out, strings.Join(words, sep))
			break
		}
		n := 1
		if meta.Greedy && valuesOf != nil {
			if k := longestValueMatch(words, sep, valuesOf(name)); k > 0 {
				n = k
			}
		}
		out = append(out, strings.Join(words[:n], sep))
		words = words[n:]
	}
	return out
}

// longestValueMatch returns how many leading words form one of values.
// The longest match wins and ties go to the earliest declared value.
func longestValueMatch(words []string, sep string, values []string) int {
	best := 0
	for _, v := range values {
		vw := splitWords(v, sep)
		k := len(vw)
		if k == 0 || k > len(words) || k <= best {
			continue
		}
		if schema.EqualFoldASCII(strings.Join(words[:k], sep), strings.Join(vw, sep)) {
			best = k
		}
	}
	return best
}

func splitWords(value, sep string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if strings.TrimSpace(sep) == "" {
		return strings.Fields(value)
	}
	parts := strings.Split(value, sep)
	words := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			words = append(words, part)
		}
	}
	return words
}
