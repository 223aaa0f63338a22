package campaign

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverOptions select which files count as characters.
type DiscoverOptions struct {
	// Suffixes are the accepted file extensions, including the dot.
	Suffixes []string

	// Ignore holds doublestar globs matched against slash-separated paths
	// relative to the characters directory.
	Ignore []string
}

// Discover lists character files under dir in lexical order. Hidden
// directories are not entered. A dir that is itself a file is returned
// as-is when its suffix matches.
func Discover(dir string, opts DiscoverOptions) ([]string, error) {
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel != "." && ignored(rel, opts.Ignore) {
				return filepath.SkipDir
			}
			return nil
		}

		if !hasSuffix(d.Name(), opts.Suffixes) {
			return nil
		}
		if rel != "." && ignored(rel, opts.Ignore) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering characters: %w", err)
	}
	return found, nil
}

func ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func hasSuffix(name string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, suffix := range suffixes {
		if strings.EqualFold(ext, suffix) {
			return true
		}
	}
	return false
}

// DiscoverAll runs Discover on each path and concatenates the results,
// dropping repeats.
func DiscoverAll(paths []string, opts DiscoverOptions) ([]string, error) {
	seen := make(map[string]bool)
	var all []string
	for _, p := range paths {
		found, err := Discover(p, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				all = append(all, f)
			}
		}
	}
	return all, nil
}
