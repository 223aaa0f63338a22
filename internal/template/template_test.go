package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	vars := &Variables{
		Name:    "Test Mann",
		Type:    "person",
		Number:  "12",
		Date:    "2026-01-05",
		Year:    "2026",
		Month:   "01",
		Day:     "05",
		Weekday: "Monday",
		Fields:  map[string]string{"group": "Wolves"},
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"name substitution", "@name {{name}}", "@name Test Mann"},
		{"type substitution", "@type {{type}}", "@type person"},
		{"number substitution", "# Session {{number}}", "# Session 12"},
		{"date variables", "{{date}} ({{year}}/{{month}}/{{day}}, {{weekday}})", "2026-01-05 (2026/01/05, Monday)"},
		{"tag variables", "@group {{tag.group}}", "@group Wolves"},
		{"unknown variables are kept", "{{nope}} {{tag.nope}}", "{{nope}} {{tag.nope}}"},
		{"escaped variables", `\{{name\}} is {{name}}`, "{{name}} is Test Mann"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Apply(tt.template, vars))
		})
	}

	t.Run("nil vars", func(t *testing.T) {
		assert.Equal(t, "{{name}}", Apply("{{name}}", nil))
	})
}

func TestNewSessionVariables(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	vars := NewSessionVariables(7, date)

	assert.Equal(t, "7", vars.Number)
	assert.Equal(t, "2026-03-14", vars.Date)
	assert.Equal(t, "Saturday", vars.Weekday)
	assert.NotNil(t, vars.Fields)
}

func TestNewVariables(t *testing.T) {
	vars := NewVariables("Ana", "person", nil)
	assert.Equal(t, "Ana", vars.Name)
	assert.Equal(t, "person", vars.Type)
	assert.Equal(t, time.Now().Format(DateLayout), vars.Date)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates", "session.md"), []byte("# Session {{number}}\n"), 0o644))

	t.Run("relative file", func(t *testing.T) {
		content, err := Load(root, "templates/session.md")
		require.NoError(t, err)
		assert.Equal(t, "# Session {{number}}\n", content)
	})

	t.Run("empty spec", func(t *testing.T) {
		content, err := Load(root, "")
		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(root, "templates/nope.md")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("escaping the campaign", func(t *testing.T) {
		_, err := Load(root, "../outside.md")
		assert.ErrorContains(t, err, "cannot escape")
	})

	t.Run("inline content", func(t *testing.T) {
		_, err := Load(root, "line one\nline two")
		assert.Error(t, err)
	})
}
