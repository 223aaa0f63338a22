package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurule/npc/internal/pages"
)

func TestParseGroup(t *testing.T) {
	tests := []struct {
		in   string
		want pages.Group
	}{
		{"Wolves", pages.Group{Name: "Wolves"}},
		{"Wolves:Alpha", pages.Group{Name: "Wolves", Ranks: []string{"Alpha"}}},
		{" Wolves : Alpha, Scout ,", pages.Group{Name: "Wolves", Ranks: []string{"Alpha", "Scout"}}},
		{"Night Watch:", pages.Group{Name: "Night Watch"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseGroup(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseGroup(":Alpha")
	assert.Error(t, err)
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want pages.TagValue
	}{
		{"title=Duke", pages.TagValue{Name: "title", Value: "Duke"}},
		{"@title=Duke of Hollows", pages.TagValue{Name: "title", Value: "Duke of Hollows"}},
		{"wanderer", pages.TagValue{Name: "wanderer"}},
		{"note=a=b", pages.TagValue{Name: "note", Value: "a=b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTag(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "=x", "1st=x", "two words=x"} {
		_, err := parseTag(bad)
		assert.Error(t, err, bad)
	}
}
