package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurule/npc/defaults"
	"github.com/aurule/npc/internal/schema"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func load(t *testing.T, tiers ...Tier) *Settings {
	t.Helper()
	s, err := Load(Options{Tiers: tiers})
	require.NoError(t, err)
	return s
}

func defaultsTier() Tier {
	return Tier{Name: TierDefaults, FS: defaults.FS}
}

func TestLoadDefaults(t *testing.T) {
	s := load(t, defaultsTier())

	assert.Empty(t, s.Problems())
	assert.Equal(t, map[string]string{TierDefaults: "2.0"}, s.Versions())

	c := s.Campaign()
	assert.Equal(t, "Characters", c.Characters.Path)
	assert.Equal(t, "{type}/{foreign?Foreign}/{groups+ranks}", c.Characters.PathTemplate)
	assert.Equal(t, []string{".npc", ".md"}, c.Characters.Suffixes)
	assert.Equal(t, "Session ((NN)).md", c.Sessions.FileName)
	assert.Equal(t, "generic", c.DefaultSystem())
	assert.Equal(t, []string{"generic", "nwod"}, s.SystemKeys())

	sch, err := s.CampaignSchema()
	require.NoError(t, err)
	person := sch.Type("person")
	require.NotNil(t, person)
	assert.Equal(t, "Persons", person.DirName())
	assert.Equal(t, ".npc", person.SheetSuffix())
	assert.Contains(t, person.Sheet, "@type person")
	assert.Nil(t, sch.Type("changeling"), "nwod types need the nwod system")
	assert.True(t, sch.Tag("group").PermitsSubtag("rank"))
	assert.NotNil(t, sch.Deprecated("race"))
}

func TestSystemInheritance(t *testing.T) {
	s := load(t, defaultsTier())

	sys, err := s.System("nwod")
	require.NoError(t, err)
	assert.Equal(t, []string{"nwod", "generic"}, sys.Chain)
	assert.Equal(t, "New World of Darkness", sys.Name)

	sch, err := s.CampaignSchema("nwod")
	require.NoError(t, err)
	assert.NotNil(t, sch.Type("person"), "types are inherited")
	changeling := sch.Type("changeling")
	require.NotNil(t, changeling)
	assert.Equal(t, ".nwod", changeling.SheetSuffix())
	assert.Equal(t, "Courtless", changeling.Placeholder("court"))
	assert.True(t, sch.Tag("mask").Defined())
	assert.NotNil(t, sch.Metatag("changeling"))
	assert.True(t, sch.TypeSchema("changeling").Tag("seeming").Required)

	_, err = s.System("nope")
	assert.Error(t, err)
}

func TestTierPrecedence(t *testing.T) {
	user := Tier{Name: TierUser, FS: fstest.MapFS{
		"settings.yaml": file("campaign:\n  name: User\n  sessions:\n    path: Notes\n"),
	}}
	campaign := Tier{Name: TierCampaign, FS: fstest.MapFS{
		"settings.yaml": file("npc:\n  version: \"2.1\"\ncampaign:\n  name: Campaign\n"),
	}}

	t.Run("three tiers", func(t *testing.T) {
		s := load(t, defaultsTier(), user, campaign)
		assert.Equal(t, "Campaign", s.Campaign().Name)
		assert.Equal(t, "Notes", s.Campaign().Sessions.Path)
		assert.Equal(t, "Session ((NN)).md", s.Campaign().Sessions.FileName, "mappings merge key by key")
		assert.Equal(t, map[string]string{TierDefaults: "2.0", TierCampaign: "2.1"}, s.Versions())
	})

	t.Run("two tiers", func(t *testing.T) {
		s := load(t, defaultsTier(), user)
		assert.Equal(t, "User", s.Campaign().Name)
	})

	t.Run("absent tiers are skipped", func(t *testing.T) {
		s := load(t, defaultsTier(), Tier{Name: TierUser}, campaign)
		assert.Equal(t, "Campaign", s.Campaign().Name)
	})

	t.Run("get", func(t *testing.T) {
		s := load(t, defaultsTier(), campaign)
		assert.Equal(t, "Campaign", s.Get("campaign.name", "x"))
		assert.Equal(t, "fallback", s.Get("campaign.nothing", "fallback"))
		assert.Equal(t, "Characters", s.String("campaign.characters.path", ""))
		assert.Contains(t, s.Tree("campaign"), "characters")
	})
}

func TestLockedTags(t *testing.T) {
	campaign := Tier{Name: TierCampaign, FS: fstest.MapFS{
		"settings.yaml": file("tags:\n  type:\n    required: false\n  dead:\n    max: 3\ncampaign:\n  tags:\n    name:\n      required: false\n"),
	}}
	s := load(t, defaultsTier(), campaign)

	problems := s.Problems()
	require.Len(t, problems, 1)
	var locked *schema.LockedTagError
	require.ErrorAs(t, problems[0], &locked)
	assert.Equal(t, "type", locked.Tag)

	sch, err := s.CampaignSchema()
	require.NoError(t, err)
	assert.True(t, sch.Tag("type").Required, "locked tag keeps its first definition")
	assert.Equal(t, 3, sch.Tag("dead").Max, "unlocked tags are overridden")
	assert.True(t, sch.Tag("name").Required, "campaign tags cannot unlock names")
	assert.Len(t, s.Problems(), 2)
}

func TestLegacyTagList(t *testing.T) {
	user := Tier{Name: TierUser, FS: fstest.MapFS{
		"settings.json": file(`{"tags": [{"name": "flavor", "desc": "How they taste"}, {"name": "dead", "max": 2}]}`),
	}}
	s := load(t, defaultsTier(), user)

	sch, err := s.CampaignSchema()
	require.NoError(t, err)
	assert.Equal(t, "How they taste", sch.Tag("flavor").Desc)
	assert.Equal(t, 2, sch.Tag("dead").Max)
	assert.True(t, sch.Tag("dead").AllowEmpty, "fields merge into the earlier definition")
}

func TestExtendsCycle(t *testing.T) {
	campaign := Tier{Name: TierCampaign, FS: fstest.MapFS{
		"systems/a.yaml": file("extends: b\ntags:\n  alpha: {}\n"),
		"systems/b.yaml": file("extends: a\ntags:\n  beta: {}\n"),
	}}
	s := load(t, defaultsTier(), campaign)

	sys, err := s.System("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sys.Chain)
	assert.Contains(t, sys.Definition.Tags, "alpha")
	assert.Contains(t, sys.Definition.Tags, "beta")

	problems := s.Problems()
	require.Len(t, problems, 1)
	assert.True(t, errors.Is(problems[0], ErrExtendsCycle))
}

func TestTypeFiles(t *testing.T) {
	campaign := Tier{Name: TierCampaign, FS: fstest.MapFS{
		"types/generic/person.yaml":      file("subpath: People\nsheet_path: sheets/person.md\n"),
		"types/generic/sheets/person.md": file("Custom {{name}}.\n"),
		"types/generic/ghost.yaml":       file("name: Ghost\nsheet_path: missing.npc\n"),
	}}
	s := load(t, defaultsTier(), campaign)

	sch, err := s.CampaignSchema()
	require.NoError(t, err)
	person := sch.Type("person")
	require.NotNil(t, person)
	assert.Equal(t, "People", person.DirName())
	assert.Equal(t, "Custom {{name}}.\n", person.Sheet)
	assert.Equal(t, ".md", person.SheetSuffix())

	require.NotNil(t, sch.Type("ghost"))
	require.Len(t, s.Problems(), 1, "a missing sheet is reported")
}

func TestTOMLSettings(t *testing.T) {
	user := Tier{Name: TierUser, FS: fstest.MapFS{
		"settings.toml": file("[campaign.characters]\npath = \"NPCs\"\n"),
		"systems/gumshoe.toml": file("name = \"Gumshoe\"\nextends = \"generic\"\n\n[tags.drive]\ndesc = \"Why they investigate\"\nmax = 1\n"),
	}}
	s := load(t, defaultsTier(), user)

	assert.Equal(t, "NPCs", s.Campaign().Characters.Path)
	assert.Contains(t, s.SystemKeys(), "gumshoe")
	sch, err := s.CampaignSchema("gumshoe")
	require.NoError(t, err)
	require.NotNil(t, sch.Tag("drive"))
	require.NotNil(t, sch.Type("person"))
}

func TestLoadErrors(t *testing.T) {
	t.Run("yaml syntax", func(t *testing.T) {
		bad := Tier{Name: TierCampaign, Dir: "/c/.npc", FS: fstest.MapFS{
			"settings.yaml": file("campaign:\n  name: [oops\n"),
		}}
		_, err := Load(Options{Tiers: []Tier{defaultsTier(), bad}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, TierCampaign, ce.Tier)
		assert.Equal(t, filepath.Join("/c/.npc", "settings.yaml"), ce.Path)
		assert.Greater(t, ce.Line, 0)
		assert.False(t, ce.Unreadable())
	})

	t.Run("json syntax", func(t *testing.T) {
		bad := Tier{Name: TierUser, FS: fstest.MapFS{
			"settings.json": file("{\"campaign\": }"),
		}}
		_, err := Load(Options{Tiers: []Tier{defaultsTier(), bad}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 1, ce.Line)
		assert.Greater(t, ce.Column, 1)
		assert.Contains(t, ce.Error(), "settings.json:1:")
	})

	t.Run("toml syntax", func(t *testing.T) {
		bad := Tier{Name: TierUser, FS: fstest.MapFS{
			"settings.toml": file("[campaign]\nname = \n"),
		}}
		_, err := Load(Options{Tiers: []Tier{defaultsTier(), bad}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, TierUser, ce.Tier)
		assert.Greater(t, ce.Line, 0)
	})

	t.Run("invalid campaign section", func(t *testing.T) {
		bad := Tier{Name: TierCampaign, FS: fstest.MapFS{
			"settings.yaml": file("campaign:\n  sessions:\n    file_name: Session.md\n"),
		}}
		_, err := Load(Options{Tiers: []Tier{defaultsTier(), bad}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Contains(t, ce.Error(), "campaign.sessions.file_name must contain ((NN))")
	})
}

func TestStandardTiers(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, CampaignDirName), 0o755))

	tiers := StandardTiers(defaults.FS, filepath.Join(root, "no-user-dir"), root)
	require.Len(t, tiers, 3)
	assert.NotNil(t, tiers[0].FS)
	assert.Nil(t, tiers[1].FS)
	assert.NotNil(t, tiers[2].FS)
	assert.Equal(t, filepath.Join(root, CampaignDirName), tiers[2].Dir)
}
