package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/aurule/npc/internal/deepmerge"
)

// settingsFiles are read from each tier root, in this order.
var settingsFiles = []string{"settings.yaml", "settings.yml", "settings.json", "settings.toml"}

// Options configures Load.
type Options struct {
	// Tiers in increasing precedence.
	Tiers []Tier
	// CampaignRoot is the directory holding the campaign's .npc folder.
	CampaignRoot string
	Logger       *log.Logger
}

// Load composes the settings tiers. Files that cannot be read or parsed
// abort loading with a *ConfigError. Locked tag redefinitions are dropped
// and recorded in Problems.
func Load(opts Options) (*Settings, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Settings{
		k:        koanf.New("."),
		root:     opts.CampaignRoot,
		versions: make(map[string]string),
		systems:  make(map[string]*System),
		log:      logger,
	}

	for _, tier := range opts.Tiers {
		if tier.FS == nil {
			logger.Debug("settings tier not present", "tier", tier.Name, "dir", tier.Dir)
			continue
		}
		tk, err := s.loadTier(tier)
		if err != nil {
			return nil, err
		}
		if v := tk.String("npc.version"); v != "" {
			s.versions[tier.Name] = v
		}

		raw := tk.Raw()
		s.enforceLocks(raw, tier)
		if err := s.k.Load(confmap.Provider(raw, ""), nil, koanf.WithMergeFunc(deepmerge.Merge)); err != nil {
			return nil, &ConfigError{Tier: tier.Name, Path: tier.Dir, Err: err}
		}
		logger.Debug("loaded settings tier", "tier", tier.Name, "dir", tier.Dir)
	}

	if err := s.decodeCampaign(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadTier reads one tier into its own tree so a later failure cannot
// leave a half-merged tier behind.
func (s *Settings) loadTier(tier Tier) (*koanf.Koanf, error) {
	tk := koanf.New(".")
	merge := koanf.WithMergeFunc(deepmerge.Merge)

	for _, name := range settingsFiles {
		data, err := fs.ReadFile(tier.FS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &ConfigError{Tier: tier.Name, Path: tier.path(name), Err: err}
		}
		if err := tk.Load(rawbytes.Provider(data), parserFor(name), merge); err != nil {
			return nil, parseError(tier, name, data, err)
		}
	}

	systemFiles, err := doublestar.Glob(tier.FS, "systems/*.{yaml,yml,json,toml}")
	if err != nil {
		return nil, &ConfigError{Tier: tier.Name, Path: tier.path("systems"), Err: err}
	}
	sort.Strings(systemFiles)
	for _, name := range systemFiles {
		m, err := readMap(tier, name)
		if err != nil {
			return nil, err
		}
		key := stem(name)
		wrapped := map[string]interface{}{"systems": map[string]interface{}{key: m}}
		if err := tk.Load(confmap.Provider(wrapped, ""), nil, merge); err != nil {
			return nil, &ConfigError{Tier: tier.Name, Path: tier.path(name), Err: err}
		}
	}

	typeFiles, err := doublestar.Glob(tier.FS, "types/*/*.{yaml,yml,json,toml}")
	if err != nil {
		return nil, &ConfigError{Tier: tier.Name, Path: tier.path("types"), Err: err}
	}
	sort.Strings(typeFiles)
	for _, name := range typeFiles {
		m, err := readMap(tier, name)
		if err != nil {
			return nil, err
		}
		s.attachSheet(tier, path.Dir(name), m)
		system := path.Base(path.Dir(name))
		wrapped := map[string]interface{}{
			"systems": map[string]interface{}{
				system: map[string]interface{}{
					"types": map[string]interface{}{stem(name): m},
				},
			},
		}
		if err := tk.Load(confmap.Provider(wrapped, ""), nil, merge); err != nil {
			return nil, &ConfigError{Tier: tier.Name, Path: tier.path(name), Err: err}
		}
	}

	// Types declared inline in settings files name sheets relative to the
	// tier root.
	raw := tk.Raw()
	if systems, ok := raw["systems"].(map[string]interface{}); ok {
		for _, sys := range systems {
			types, _ := asMap(sys)["types"].(map[string]interface{})
			for _, t := range types {
				if tm := asMap(t); tm != nil {
					s.attachSheet(tier, ".", tm)
				}
			}
		}
		tk = koanf.New(".")
		if err := tk.Load(confmap.Provider(raw, ""), nil); err != nil {
			return nil, &ConfigError{Tier: tier.Name, Path: tier.Dir, Err: err}
		}
	}

	return tk, nil
}

// attachSheet loads the sheet template a type names, relative to dir.
func (s *Settings) attachSheet(tier Tier, dir string, typeDef map[string]interface{}) {
	if _, ok := typeDef["sheet"]; ok {
		return
	}
	sheetPath, _ := typeDef["sheet_path"].(string)
	if sheetPath == "" {
		return
	}
	name := path.Clean(path.Join(dir, sheetPath))
	data, err := fs.ReadFile(tier.FS, name)
	if err != nil {
		s.problem(&ConfigError{Tier: tier.Name, Path: tier.path(name), Err: fmt.Errorf("cannot read sheet template: %w", err)})
		typeDef["sheet"] = ""
		return
	}
	typeDef["sheet"] = string(data)
}

func readMap(tier Tier, name string) (map[string]interface{}, error) {
	data, err := fs.ReadFile(tier.FS, name)
	if err != nil {
		return nil, &ConfigError{Tier: tier.Name, Path: tier.path(name), Err: err}
	}
	m, err := parserFor(name).Unmarshal(data)
	if err != nil {
		return nil, parseError(tier, name, data, err)
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

func parserFor(name string) koanf.Parser {
	switch path.Ext(name) {
	case ".json":
		return json.Parser()
	case ".toml":
		return tomlParser{}
	}
	return yaml.Parser()
}

func stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}
