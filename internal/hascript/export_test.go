package hascript

import (
	"strings"
	"testing"

	"github.com/jmales/channelvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(v string) *string { return &v }

func ip(v int) *int { return &v }

func TestGenerateEmpty(t *testing.T) {
	res := Generate(nil)
	assert.Equal(t, Placeholder, res.YAML)
	assert.Zero(t, res.Count)
	assert.Empty(t, res.Skipped)
	// The skipped list marshals as [], not null.
	assert.NotNil(t, res.Skipped)
}

func TestGenerateFullChannel(t *testing.T) {
	res := Generate([]models.ScriptExportRow{{
		ScriptAlias: sp("cnn"),
		Name:        sp("CNN International"),
		TvgName:     "CNN",
		ContentID:   ip(41),
		TvgLogo:     sp("http://logo/cnn.png"),
	}})

	assert.Equal(t, 1, res.Count)
	assert.Empty(t, res.Skipped)

	want := strings.Join([]string{
		"script:",
		"  cnn:",
		`    alias: "CNN International"`,
		"    icon: mdi:view-stream",
		"    sequence:",
		"      - service: script.play_channel",
		"        data:",
		"          content_id: 41",
		`          channel_title: "CNN"`,
		`          channel_thumbnail: "http://logo/cnn.png"`,
	}, "\n")
	assert.Equal(t, want, res.YAML)
}

func TestGenerateTitleAlwaysTvgName(t *testing.T) {
	res := Generate([]models.ScriptExportRow{{
		ScriptAlias: sp("bbc"),
		Name:        sp("BBC One HD"),
		TvgName:     "BBC One",
		ContentID:   ip(12),
	}})

	// The label uses the override, the play action keeps the raw name.
	assert.Contains(t, res.YAML, `alias: "BBC One HD"`)
	assert.Contains(t, res.YAML, `channel_title: "BBC One"`)
	assert.Contains(t, res.YAML, `channel_thumbnail: ""`)
}

func TestGenerateSkipsMissingScriptAlias(t *testing.T) {
	res := Generate([]models.ScriptExportRow{
		{TvgName: "CNN", ContentID: ip(41)},
		{ScriptAlias: sp(""), Name: sp("BBC"), TvgName: "BBC One", ContentID: ip(12)},
	})

	assert.Zero(t, res.Count)
	assert.Equal(t, Placeholder, res.YAML)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, Skipped{Reason: "missing scriptAlias", Channel: "CNN"}, res.Skipped[0])
	assert.Equal(t, Skipped{Reason: "missing scriptAlias", Channel: "BBC"}, res.Skipped[1])
}

func TestGenerateSkipsMissingContentID(t *testing.T) {
	res := Generate([]models.ScriptExportRow{
		{ScriptAlias: sp("cnn"), TvgName: "CNN"},
		{ScriptAlias: sp("bbc"), TvgName: "BBC One", ContentID: ip(0)},
	})

	assert.Zero(t, res.Count)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "missing contentId", res.Skipped[0].Reason)
	// Zero counts as unassigned, same as null.
	assert.Equal(t, "missing contentId", res.Skipped[1].Reason)
}

func TestGenerateCountExcludesSkipped(t *testing.T) {
	res := Generate([]models.ScriptExportRow{
		{ScriptAlias: sp("cnn"), TvgName: "CNN", ContentID: ip(41)},
		{TvgName: "No Alias", ContentID: ip(7)},
		{ScriptAlias: sp("sky"), TvgName: "Sky Sports", ContentID: ip(9)},
	})

	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Skipped, 1)
	assert.True(t, strings.HasPrefix(res.YAML, "script:\n"))
}
