package pages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurule/npc/internal/parser"
	"github.com/aurule/npc/internal/schema"
	"github.com/aurule/npc/internal/testutil"
)

func sheetSchema(t *testing.T) *schema.Schema {
	t.Helper()
	def := testutil.Definition()
	person := def.Types["person"].(map[string]interface{})
	person["sheet"] = "Describe {{name}} here.\n\n@type person\n@name placeholder\n"
	person["sheet_path"] = "person.npc"
	s, problems := schema.Build(def)
	require.Empty(t, problems)
	return s
}

func TestCreate(t *testing.T) {
	s := sheetSchema(t)

	newRoot := func(t *testing.T) string {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Persons", "Wolves"), 0o755))
		return root
	}
	opts := func(root string) CreateOptions {
		return CreateOptions{
			Root:         root,
			PathTemplate: "{type}/{groups+ranks}",
			Schema:       s,
			TypeKey:      "Person",
			Name:         "Test Mann",
			Groups:       []Group{{Name: "Wolves", Ranks: []string{"Alpha"}}},
			Tags:         []TagValue{{Name: "title", Value: "Boss\n"}},
		}
	}

	t.Run("creates the file in the deepest existing directory", func(t *testing.T) {
		root := newRoot(t)
		result, err := Create(opts(root))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("Persons", "Wolves", "Test Mann.npc"), result.RelativePath)
		data, err := os.ReadFile(result.FilePath)
		require.NoError(t, err)
		assert.Equal(t, "Describe Test Mann here.\n\n@type person\n@title Boss\n@group Wolves\n@rank Alpha\n", string(data))
		assert.Equal(t, []string{"Test Mann"}, result.Character.Values("name"))
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		root := newRoot(t)
		_, err := Create(opts(root))
		require.NoError(t, err)

		_, err = Create(opts(root))
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		root := newRoot(t)
		o := opts(root)
		o.DryRun = true
		result, err := Create(o)
		require.NoError(t, err)
		assert.NoFileExists(t, result.FilePath)
		assert.Contains(t, result.Content, "@group Wolves")
	})

	t.Run("description override", func(t *testing.T) {
		root := newRoot(t)
		o := opts(root)
		o.Description = "A custom description."
		result, err := Create(o)
		require.NoError(t, err)
		assert.Equal(t, "A custom description.\n", result.Character.Description)
	})

	t.Run("description line that looks like a tag", func(t *testing.T) {
		root := newRoot(t)
		o := opts(root)
		o.Description = "Leads the pack.\n@dead of course"
		_, err := Create(o)
		assert.ErrorIs(t, err, ErrTagInDescription)
		assert.ErrorContains(t, err, "line 2")
		assert.NoFileExists(t, filepath.Join(root, "Persons", "Wolves", "Test Mann.npc"))
	})

	t.Run("indented at sign in the description", func(t *testing.T) {
		root := newRoot(t)
		o := opts(root)
		o.Description = "Leads the pack.\n  @dead of course"
		result, err := Create(o)
		require.NoError(t, err)
		assert.Equal(t, "Leads the pack.\n  @dead of course\n", result.Character.Description)

		reread, err := parser.New(s).ParseFile(result.FilePath)
		require.NoError(t, err)
		assert.False(t, reread.Has("dead"))
		assert.Equal(t, "Leads the pack.\n  @dead of course\n", reread.Description)
	})

	t.Run("unknown type", func(t *testing.T) {
		o := opts(newRoot(t))
		o.TypeKey = "goblin"
		_, err := Create(o)
		assert.ErrorContains(t, err, "unknown character type")
	})

	t.Run("bad names", func(t *testing.T) {
		for _, name := range []string{"", "a/b", ".."} {
			o := opts(newRoot(t))
			o.Name = name
			_, err := Create(o)
			assert.Error(t, err, name)
		}
	})

	t.Run("type without sheet uses the default suffix", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Changelings"), 0o755))
		result, err := Create(CreateOptions{
			Root:         root,
			PathTemplate: "{type}",
			Schema:       s,
			TypeKey:      "changeling",
			Name:         "Ana",
			Tags:         []TagValue{{Name: "seeming", Value: "Beast"}, {Name: "kith", Value: "Hunterheart"}},
		})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("Changelings", "Ana.npc"), result.RelativePath)
		assert.Equal(t, "@type changeling\n@seeming Beast\n@kith Hunterheart\n", result.Content)
	})
}
