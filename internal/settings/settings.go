// Package settings composes npc's layered configuration.
//
// Three tiers are read in order: the packaged defaults, the user's settings
// directory, and the campaign's .npc directory. Each tier may hold a
// settings.yaml (or legacy settings.json), systems/<key>.yaml files and
// types/<system>/<type>.yaml files. Later tiers deep-merge over earlier
// ones, except that tags marked locked keep their first definition.
package settings

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/v2"
)

// Settings is the composed, read-only configuration of one invocation.
type Settings struct {
	k        *koanf.Koanf
	root     string
	campaign Campaign
	versions map[string]string
	log      *log.Logger

	mu       sync.Mutex
	systems  map[string]*System
	problems []error
}

// Get returns the value at a dotted key such as
// "campaign.characters.path", or def when the key is absent.
func (s *Settings) Get(key string, def interface{}) interface{} {
	if !s.k.Exists(key) {
		return def
	}
	return s.k.Get(key)
}

// String returns the string at key, or def.
func (s *Settings) String(key, def string) string {
	if !s.k.Exists(key) {
		return def
	}
	return s.k.String(key)
}

// Tree returns a copy of the subtree at key, or of everything when key is
// empty.
func (s *Settings) Tree(key string) map[string]interface{} {
	if key == "" {
		return s.k.Raw()
	}
	return s.k.Cut(key).Raw()
}

// Versions maps each loaded tier to the npc.version it declared.
func (s *Settings) Versions() map[string]string {
	out := make(map[string]string, len(s.versions))
	for k, v := range s.versions {
		out[k] = v
	}
	return out
}

// Problems returns the non-fatal configuration errors found so far.
func (s *Settings) Problems() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.problems...)
}

func (s *Settings) problem(err error) {
	s.mu.Lock()
	s.problems = append(s.problems, err)
	s.mu.Unlock()
	s.log.Warn("settings problem", "err", err)
}

// Campaign returns the typed campaign section.
func (s *Settings) Campaign() Campaign {
	return s.campaign
}

// Root is the campaign root directory, or empty outside a campaign.
func (s *Settings) Root() string {
	return s.root
}

// CharactersDir is the absolute characters directory of the campaign.
func (s *Settings) CharactersDir() string {
	return s.CampaignPath(s.campaign.Characters.Path)
}

// CampaignPath resolves rel against the campaign root. Absolute paths and
// paths outside a campaign are returned unchanged.
func (s *Settings) CampaignPath(rel string) string {
	if filepath.IsAbs(rel) || s.root == "" {
		return rel
	}
	return filepath.Join(s.root, rel)
}

// SystemKeys returns every declared system key, sorted.
func (s *Settings) SystemKeys() []string {
	systems, _ := s.Tree("")["systems"].(map[string]interface{})
	keys := make([]string, 0, len(systems))
	for k := range systems {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
