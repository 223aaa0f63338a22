package cli

import (
	"path/filepath"
	"strings"

	"github.com/aurule/npc/internal/campaign"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/schema"
	"github.com/aurule/npc/internal/settings"
)

// loadCast discovers and parses the characters under args, or under the
// campaign's characters directory when args is empty. Files tagged @skip
// are left out.
func (a *app) loadCast(st *settings.Settings, sch *schema.Schema, args []string) (*campaign.Loaded, error) {
	paths := []string{st.CharactersDir()}
	if len(args) > 0 {
		var err error
		if paths, err = absPaths(args); err != nil {
			return nil, inputError(err)
		}
	}

	c := st.Campaign()
	files, err := campaign.DiscoverAll(paths, campaign.DiscoverOptions{
		Suffixes: c.Characters.Suffixes,
		Ignore:   c.Characters.Ignore,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUnreadable, Err: err, ErrCode: ErrFileReadError}
	}
	a.logger.Debug("discovered characters", "count", len(files))

	return campaign.LoadCharacters(files, parser.New(sch), campaign.LoadOptions{Logger: a.logger}), nil
}

// rel shortens path for display, relative to the campaign root when it is
// inside it.
func (a *app) rel(path string) string {
	if a.root == "" {
		return path
	}
	r, err := filepath.Rel(a.root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return path
	}
	return r
}
