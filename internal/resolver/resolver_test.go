package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurule/npc/internal/character"
	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/testutil"
)

func mkdirs(t *testing.T, base string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(d)), 0o755))
	}
}

func TestResolve(t *testing.T) {
	s := testutil.Schema(t)
	p := parser.New(s)
	r := New(s)

	parse := func(contents string) *character.Character {
		return p.ParseString(contents, "Ana.npc")
	}

	t.Run("partial hierarchy", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Persons")
		c := parse("@type person\n@group Wolves\n@rank Alpha\n")

		got, err := r.Resolve(c, base, "{type}/{group}/{rank}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Persons"), got)
	})

	t.Run("full hierarchy", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Persons/Wolves/Alpha")
		c := parse("@type person\n@group Wolves\n@rank Alpha\n")

		got, err := r.Resolve(c, base, "{type}/{group}/{rank}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Persons", "Wolves", "Alpha"), got)
	})

	t.Run("skipped component resumes from parent", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Persons/Wolves")
		c := parse("@type person\n@foreign Mars\n@group Wolves\n")

		got, err := r.Resolve(c, base, "{type}/{foreign?Foreign}/{group}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Persons", "Wolves"), got)
	})

	t.Run("wanderer counts as foreign", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Persons/Foreign")
		c := parse("@type person\n@wanderer\n")

		got, err := r.Resolve(c, base, "{type}/{foreign?Foreign}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Persons", "Foreign"), got)
	})

	t.Run("groups stop on first miss", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "A/C")
		c := parse("@type person\n@group A\n@group B\n@group C\n")

		got, err := r.Resolve(c, base, "{groups}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "A"), got)
	})

	t.Run("groups plus ranks", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "A/Boss/C/Scout")
		c := parse("@type person\n@group A\n@rank Boss\n@group B\n@group C\n@rank Scout\n")

		got, err := r.Resolve(c, base, "{groups+ranks}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "A", "Boss", "C", "Scout"), got)
	})

	t.Run("group plus ranks uses the first group", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "A/Boss/Elder", "B")
		c := parse("@type person\n@group A\n@rank Boss\n@rank Elder\n@group B\n")

		got, err := r.Resolve(c, base, "{group+ranks}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "A", "Boss", "Elder"), got)
	})

	t.Run("locations", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Town/Mars")
		c := parse("@type person\n@location Town\n@foreign Mars\n")

		got, err := r.Resolve(c, base, "{locations}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Town", "Mars"), got)
	})

	t.Run("placeholder for absent tag", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Changelings/Courtless")
		c := parse("@changeling Beast Hunterheart\n")

		got, err := r.Resolve(c, base, "{type}/{court}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Changelings", "Courtless"), got)
	})

	t.Run("literal components", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "NPCs")
		c := parse("@type person\n")

		got, err := r.Resolve(c, base, "NPCs/Missing/{type}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "NPCs"), got)
	})

	t.Run("values cannot escape the tree", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Persons", "Other")
		c := parse("@type person\n@group ../Other\n@title ..\n")

		got, err := r.Resolve(c, base, "{type}/{group}/{title}")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "Persons"), got)
	})

	t.Run("resolution is repeatable and creates nothing", func(t *testing.T) {
		base := t.TempDir()
		mkdirs(t, base, "Persons")
		c := parse("@type person\n@group Wolves\n")

		first, err := r.Resolve(c, base, "{type}/{group}")
		require.NoError(t, err)
		second, err := r.Resolve(c, base, "{type}/{group}")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.NoDirExists(t, filepath.Join(base, "Persons", "Wolves"))
	})

	t.Run("bad template", func(t *testing.T) {
		_, err := r.Resolve(parse("@type person\n"), t.TempDir(), "{type/x")
		var terr *TemplateError
		assert.ErrorAs(t, err, &terr)
	})
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("{type}//NPCs/{foreign?Foreign}/{groups+ranks}")
	require.NoError(t, err)
	assert.Equal(t, []Component{
		{Kind: Substitution, Tag: "type"},
		{Kind: Literal, Text: "NPCs"},
		{Kind: Conditional, Tag: "foreign", Text: "Foreign"},
		{Kind: Substitution, Tag: "groups+ranks"},
	}, tmpl.Components)

	for _, bad := range []string{"x{type}", "{}", "{?Foreign}", "{foreign?}", "{{type}}"} {
		_, err := ParseTemplate(bad)
		assert.Error(t, err, bad)
	}
}
