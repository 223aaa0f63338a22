// Package campaign finds a campaign on disk and works with the files in it:
// character discovery and loading, numbered session and plot files, and tag
// reports.
package campaign

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aurule/npc/internal/settings"
)

// ErrNoCampaign is returned when no campaign root encloses a directory.
var ErrNoCampaign = errors.New("not inside a campaign")

// FindRoot walks upward from start to the first directory holding a .npc
// directory.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("finding campaign root: %w", err)
	}

	for {
		info, err := os.Stat(filepath.Join(dir, settings.CampaignDirName))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNoCampaign, start)
		}
		dir = parent
	}
}
