package campaign

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/parser"
)

// SkipTag marks a character file that commands should pass over.
const SkipTag = "skip"

// LoadOptions control LoadCharacters.
type LoadOptions struct {
	// KeepSkipped keeps characters tagged @skip.
	KeepSkipped bool

	Logger *log.Logger
}

// Loaded is the outcome of reading a set of character files.
type Loaded struct {
	// Characters are in the order their paths were given.
	Characters []*character.Character

	// Skipped lists files tagged @skip.
	Skipped []string

	// Failed holds one error per unreadable file.
	Failed []error
}

// LoadCharacters parses each path. A file that cannot be read is logged,
// recorded in Failed and left out, and loading continues with the next one.
func LoadCharacters(paths []string, p *parser.Parser, opts LoadOptions) *Loaded {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	res := &Loaded{}
	for _, path := range paths {
		c, err := p.ParseFile(path)
		if err != nil {
			logger.Warn("skipping unreadable character", "path", path, "err", err)
			res.Failed = append(res.Failed, err)
			continue
		}
		if !opts.KeepSkipped && c.Has(SkipTag) {
			logger.Debug("skipping character", "path", path)
			res.Skipped = append(res.Skipped, path)
			continue
		}
		res.Characters = append(res.Characters, c)
	}
	return res
}
