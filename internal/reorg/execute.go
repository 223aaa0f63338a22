package reorg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Options control plan execution.
type Options struct {
	// DryRun reports the moves without touching the filesystem.
	DryRun bool

	// Purge removes source directories left empty by the moves. Directories
	// are removed upward until Root or the first non-empty one.
	Purge bool
	Root  string

	Logger *log.Logger
}

// Result records what an execution did.
type Result struct {
	Moved   []Move
	Removed []string
}

// Execute applies a conflict-free plan. Moves run in plan order and the
// first failure halts execution with the rest of the plan untouched.
func Execute(plan *Plan, opts Options) (*Result, error) {
	if err := plan.Err(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	res := &Result{}
	for _, m := range plan.Moves {
		if opts.DryRun {
			res.Moved = append(res.Moved, m)
			continue
		}
		if exists(m.Destination) {
			return res, &ConflictError{Destination: m.Destination, Sources: []string{m.Source}}
		}
		if err := os.Rename(m.Source, m.Destination); err != nil {
			return res, fmt.Errorf("moving %s: %w", m.Source, err)
		}
		logger.Debug("moved character", "from", m.Source, "to", m.Destination)
		if m.Character != nil {
			m.Character.Path = m.Destination
		}
		res.Moved = append(res.Moved, m)
	}

	if opts.Purge && !opts.DryRun {
		res.Removed = purge(res.Moved, opts.Root, logger)
	}
	return res, nil
}

// purge removes emptied source directories, deepest first.
func purge(moves []Move, root string, logger *log.Logger) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, m := range moves {
		dir := filepath.Dir(m.Source)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	root = filepath.Clean(root)
	var removed []string
	for _, dir := range dirs {
		for within(root, dir) {
			entries, err := os.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				break
			}
			if err := os.Remove(dir); err != nil {
				logger.Warn("could not remove empty directory", "dir", dir, "err", err)
				break
			}
			logger.Debug("removed empty directory", "dir", dir)
			removed = append(removed, dir)
			dir = filepath.Dir(dir)
		}
	}
	return removed
}

// within reports whether dir is strictly inside root.
func within(root, dir string) bool {
	if root == "" || root == "." {
		return false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
