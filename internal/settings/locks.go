package settings

import (
	"sort"
	"strings"

	"github.com/aurule/npc/internal/schema"
)

// tagCollections returns the paths of every tag collection in a tier tree.
// locks reports whether the collection holds lockable tag specs.
func tagCollections(raw map[string]interface{}) (paths [][]string, locks []bool) {
	add := func(lockable bool, p ...string) {
		paths = append(paths, p)
		locks = append(locks, lockable)
	}

	add(true, "tags")
	add(false, "deprecated_tags")
	add(false, "metatags")
	add(true, "campaign", "tags")

	systems := asMap(raw["systems"])
	for _, key := range sortedKeys(systems) {
		add(true, "systems", key, "tags")
		add(false, "systems", key, "deprecated_tags")
		add(false, "systems", key, "metatags")
		types := asMap(asMap(systems[key])["types"])
		for _, t := range sortedKeys(types) {
			add(true, "systems", key, "types", t, "tags")
		}
	}
	return paths, locks
}

// enforceLocks normalises every tag collection of an incoming tier to the
// mapping shape and removes redefinitions of tags an earlier tier locked.
func (s *Settings) enforceLocks(raw map[string]interface{}, tier Tier) {
	paths, lockable := tagCollections(raw)
	for i, p := range paths {
		incoming, ok := lookup(raw, p)
		if !ok || incoming == nil {
			continue
		}
		tags := schema.NormalizeTags(incoming)
		if lockable[i] {
			existing := schema.NormalizeTags(s.k.Get(strings.Join(p, ".")))
			for _, name := range sortedKeys(tags) {
				if schema.IsLocked(existing[name]) {
					delete(tags, name)
					s.problem(&ConfigError{
						Tier: tier.Name,
						Path: tier.Dir,
						Err:  &schema.LockedTagError{Tag: name, Layer: tier.Name + " " + strings.Join(p, ".")},
					})
				}
			}
		}
		assign(raw, p, tags)
	}
}

func lookup(m map[string]interface{}, p []string) (interface{}, bool) {
	var cur interface{} = m
	for _, part := range p {
		cm, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// assign sets p in m. Every parent along p must already be a mapping.
func assign(m map[string]interface{}, p []string, v interface{}) {
	cur := m
	for _, part := range p[:len(p)-1] {
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			return
		}
		cur = next
	}
	cur[p[len(p)-1]] = v
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
