package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	out, err := RenderMarkdown("# Heading", 80)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	out, err := RenderMarkdown("hello", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestRenderMarkdownTable(t *testing.T) {
	out, err := RenderMarkdown("| value | count |\n|---|---|\n| Wolves | 2 |\n", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Wolves")
}

func TestMarkdownStyleUsesAccent(t *testing.T) {
	style := markdownStyle()
	require.NotNil(t, style.Heading.Color)
	color, _ := AccentColor()
	assert.Equal(t, color, *style.Heading.Color)
}
