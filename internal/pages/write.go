package pages

import (
	"errors"
	"fmt"

	"github.com/aurule/npc/internal/atomicfile"
	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/schema"
)

// ErrStrayLines is returned when a rewrite would drop non-tag lines from a
// character's header.
var ErrStrayLines = errors.New("header has lines that are not tags")

// WriteFile rewrites the character file at path in canonical form,
// keeping the file's mode. Records with stray header lines are refused.
func WriteFile(path string, c *character.Character, s *schema.Schema) error {
	if len(c.Stray) > 0 {
		return fmt.Errorf("%w: %s: %q", ErrStrayLines, path, c.Stray[0])
	}
	content := Format(c, s, parser.NameFromFilename(path))
	return atomicfile.WriteFile(path, []byte(content), 0)
}
