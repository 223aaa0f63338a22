package parser

import (
	"path/filepath"
	"strings"
)

// token is one tag emitted by the header scanner, before attachment.
type token struct {
	name  string
	value string
	line  int
}

func isNameStart(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || ('0' <= b && b <= '9') || b == '_' || b == '-'
}

// tokenize splits "@name value" into its parts. Lines that are not tag
// lines, including blank lines, report false.
func tokenize(line string, lineNo int) (token, bool) {
	if len(line) < 2 || line[0] != '@' || !isNameStart(line[1]) {
		return token{}, false
	}
	end := 2
	for end < len(line) && isNameChar(line[end]) {
		end++
	}
	return token{
		name:  line[1:end],
		value: strings.TrimSpace(line[end:]),
		line:  lineNo,
	}, true
}

// NameFromFilename derives the provisional character name from a file
// path: the suffix and any " - descriptor" tail are dropped.
//
//	"Test Mann - tester.npc" -> "Test Mann"
func NameFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if idx := strings.LastIndex(base, " - "); idx >= 0 {
		base = base[:idx]
	}
	return strings.TrimSpace(base)
}
