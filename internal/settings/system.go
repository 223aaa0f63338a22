package settings

import (
	"fmt"
	"strings"

	"github.com/aurule/npc/internal/deepmerge"
	"github.com/aurule/npc/internal/schema"
)

// System is a named body of schema with its inheritance already applied.
type System struct {
	Key     string
	Name    string
	Desc    string
	Extends string

	// Chain lists the system and its ancestors, nearest first.
	Chain []string

	// Definition holds the effective tags, deprecated tags, metatags and
	// types: the shared top-level declarations, then each ancestor from
	// the most distant, then the system itself.
	Definition schema.Definition
}

// System returns the composed system key. Cycles in extends are broken at
// the repeated system and recorded as a problem.
func (s *Settings) System(key string) (*System, error) {
	s.mu.Lock()
	if sys, ok := s.systems[key]; ok {
		s.mu.Unlock()
		return sys, nil
	}
	s.mu.Unlock()

	tree := s.Tree("")
	systems := asMap(tree["systems"])
	if _, ok := systems[key]; !ok {
		return nil, fmt.Errorf("unknown system %q", key)
	}

	chain := s.chain(key, systems)

	def := schema.Definition{
		Tags:           schema.NormalizeTags(tree["tags"]),
		DeprecatedTags: schema.NormalizeTags(tree["deprecated_tags"]),
		Metatags:       schema.NormalizeTags(tree["metatags"]),
		Types:          map[string]interface{}{},
	}
	for i := len(chain) - 1; i >= 0; i-- {
		raw := asMap(systems[chain[i]])
		var problems []error
		def.Tags, problems = schema.OverlayTags(def.Tags, schema.NormalizeTags(raw["tags"]), "system "+chain[i])
		for _, p := range problems {
			s.problem(&ConfigError{Err: p})
		}
		def.DeprecatedTags = deepmerge.Merged(def.DeprecatedTags, schema.NormalizeTags(raw["deprecated_tags"]))
		def.Metatags = deepmerge.Merged(def.Metatags, schema.NormalizeTags(raw["metatags"]))
		def.Types = deepmerge.Merged(def.Types, asMap(raw["types"]))
	}

	raw := asMap(systems[key])
	sys := &System{
		Key:        key,
		Name:       stringValue(raw["name"], key),
		Desc:       stringValue(raw["desc"], ""),
		Extends:    stringValue(raw["extends"], ""),
		Chain:      chain,
		Definition: def,
	}

	s.mu.Lock()
	s.systems[key] = sys
	s.mu.Unlock()
	return sys, nil
}

// chain follows extends from key. It stops at unknown parents and at the
// first system seen twice.
func (s *Settings) chain(key string, systems map[string]interface{}) []string {
	chain := []string{key}
	seen := map[string]bool{key: true}
	for cur := key; ; {
		parent := stringValue(asMap(systems[cur])["extends"], "")
		if parent == "" {
			return chain
		}
		if _, ok := systems[parent]; !ok {
			s.problem(&ConfigError{Err: fmt.Errorf("system %q extends unknown system %q", cur, parent)})
			return chain
		}
		if seen[parent] {
			s.problem(&ConfigError{Err: fmt.Errorf("system %q: %w: %s -> %s", key, ErrExtendsCycle, strings.Join(chain, " -> "), parent)})
			return chain
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur = parent
	}
}

// CampaignSchema builds the tag schema characters are parsed and checked
// against. The named systems are layered in order, each overriding the
// last, and the campaign's own tags go on top. With no keys the campaign's
// configured systems are used.
func (s *Settings) CampaignSchema(keys ...string) (*schema.Schema, error) {
	if len(keys) == 0 {
		keys = s.campaign.Systems
	}
	if len(keys) == 0 {
		keys = []string{s.campaign.DefaultSystem()}
	}

	var def schema.Definition
	for i, key := range keys {
		sys, err := s.System(key)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			def = sys.Definition
			continue
		}
		var problems []error
		def.Tags, problems = schema.OverlayTags(def.Tags, sys.Definition.Tags, "system "+key)
		for _, p := range problems {
			s.problem(&ConfigError{Err: p})
		}
		def.DeprecatedTags = deepmerge.Merged(def.DeprecatedTags, sys.Definition.DeprecatedTags)
		def.Metatags = deepmerge.Merged(def.Metatags, sys.Definition.Metatags)
		def.Types = deepmerge.Merged(def.Types, sys.Definition.Types)
	}

	campaignTags := schema.NormalizeTags(asMap(s.Tree("")["campaign"])["tags"])
	merged, problems := schema.OverlayTags(def.Tags, campaignTags, "campaign tags")
	for _, p := range problems {
		s.problem(&ConfigError{Tier: TierCampaign, Err: p})
	}
	def.Tags = merged

	sch, buildProblems := schema.Build(def)
	for _, p := range buildProblems {
		s.problem(&ConfigError{Err: p})
	}
	return sch, nil
}

func stringValue(v interface{}, def string) string {
	if str, ok := v.(string); ok && str != "" {
		return str
	}
	return def
}
