package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/pflag"

	"github.com/aurule/npc/internal/pages"
)

var tagNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// addGroupFlag registers the repeatable --group flag.
func addGroupFlag(fs *pflag.FlagSet) {
	fs.StringArrayP("group", "g", nil, "Group membership as NAME or NAME:rank,rank (repeatable)")
}

// addTagFlag registers the repeatable --tag flag.
func addTagFlag(fs *pflag.FlagSet) {
	fs.StringArrayP("tag", "t", nil, "Extra tag as name=value, or name for a tag without a value (repeatable)")
}

// groupsFromFlags reads --group values.
func groupsFromFlags(fs *pflag.FlagSet) ([]pages.Group, error) {
	raw, err := fs.GetStringArray("group")
	if err != nil {
		return nil, err
	}
	groups := make([]pages.Group, 0, len(raw))
	for _, r := range raw {
		g, err := parseGroup(r)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// tagsFromFlags reads --tag values.
func tagsFromFlags(fs *pflag.FlagSet) ([]pages.TagValue, error) {
	raw, err := fs.GetStringArray("tag")
	if err != nil {
		return nil, err
	}
	tags := make([]pages.TagValue, 0, len(raw))
	for _, r := range raw {
		t, err := parseTag(r)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// parseGroup splits "Wolves:Alpha,Scout" into a group and its ranks.
func parseGroup(s string) (pages.Group, error) {
	name, ranks, _ := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return pages.Group{}, fmt.Errorf("invalid --group %q: expected NAME or NAME:rank,rank", s)
	}
	g := pages.Group{Name: name}
	for _, rank := range strings.Split(ranks, ",") {
		if rank = strings.TrimSpace(rank); rank != "" {
			g.Ranks = append(g.Ranks, rank)
		}
	}
	return g, nil
}

// parseTag splits "title=Duke" into a tag name and value. A leading @ on
// the name is accepted.
func parseTag(s string) (pages.TagValue, error) {
	name, value, _ := strings.Cut(s, "=")
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if !tagNamePattern.MatchString(name) {
		return pages.TagValue{}, fmt.Errorf("invalid --tag %q: expected name=value", s)
	}
	return pages.TagValue{Name: name, Value: strings.TrimSpace(value)}, nil
}

// absPaths makes command-line paths absolute.
func absPaths(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		p, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
