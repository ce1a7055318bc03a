package playlist

import (
	"testing"

	"github.com/jmales/channelvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(v string) *string { return &v }

func TestGenerateM3UEmpty(t *testing.T) {
	assert.Equal(t, "#EXTM3U\n", GenerateM3U(nil))
}

func TestGenerateM3UFullRow(t *testing.T) {
	rows := []models.M3UExportRow{{
		TvgID:      sp("cnn.us"),
		TvgName:    "CNN",
		TvgLogo:    sp("http://logo/cnn.png"),
		GroupTitle: sp("US| NEWS"),
		StreamURL:  sp("http://example.com/live/cnn"),
	}}

	want := "#EXTM3U\n" +
		`#EXTINF:-1 tvg-id="cnn.us" tvg-name="CNN" tvg-logo="http://logo/cnn.png" group-title="US| NEWS",CNN` + "\n" +
		"http://example.com/live/cnn\n"
	assert.Equal(t, want, GenerateM3U(rows))
}

func TestGenerateM3UOmitsAbsentAttributes(t *testing.T) {
	rows := []models.M3UExportRow{{
		TvgName:   "BBC One",
		StreamURL: sp("http://example.com/live/bbcone"),
	}}

	out := GenerateM3U(rows)
	assert.Contains(t, out, `#EXTINF:-1 tvg-name="BBC One",BBC One`)
	assert.NotContains(t, out, "tvg-id=")
	assert.NotContains(t, out, "tvg-logo=")
	assert.NotContains(t, out, "group-title=")
}

func TestGenerateM3UDropsRowsWithoutStreamURL(t *testing.T) {
	rows := []models.M3UExportRow{
		{TvgName: "No URL"},
		{TvgName: "Empty URL", StreamURL: sp("")},
		{TvgName: "Kept", StreamURL: sp("http://example.com/live/kept")},
	}

	out := GenerateM3U(rows)
	assert.NotContains(t, out, "No URL")
	assert.NotContains(t, out, "Empty URL")
	assert.Contains(t, out, "Kept")
}

func TestGenerateM3UUsesGroupDisplayVerbatim(t *testing.T) {
	// Aliased group titles arrive pre-resolved; quotes and commas in the
	// name pass through unescaped.
	rows := []models.M3UExportRow{{
		TvgName:    `Name "with" quotes, and commas`,
		GroupTitle: sp("News"),
		StreamURL:  sp("http://example.com/live/x"),
	}}

	out := GenerateM3U(rows)
	assert.Contains(t, out, `tvg-name="Name "with" quotes, and commas"`)
	assert.Contains(t, out, `,Name "with" quotes, and commas`+"\n")
}

func TestGenerateM3URoundTripsThroughParse(t *testing.T) {
	rows := []models.M3UExportRow{
		{TvgID: sp("cnn.us"), TvgName: "CNN", TvgLogo: sp("http://logo/cnn.png"),
			GroupTitle: sp("US| NEWS"), StreamURL: sp("http://example.com/live/cnn")},
		{TvgName: "BBC One", StreamURL: sp("http://example.com/live/bbcone")},
	}

	res := Parse(GenerateM3U(rows), ModeChannels)
	require.Len(t, res.Channels, 2)
	assert.Zero(t, res.Skipped)

	assert.Equal(t, "CNN", res.Channels[0].TvgName)
	require.NotNil(t, res.Channels[0].TvgID)
	assert.Equal(t, "cnn.us", *res.Channels[0].TvgID)
	require.NotNil(t, res.Channels[0].GroupTitle)
	assert.Equal(t, "US| NEWS", *res.Channels[0].GroupTitle)
	assert.Equal(t, "http://example.com/live/cnn", res.Channels[0].StreamURL)

	assert.Equal(t, "BBC One", res.Channels[1].TvgName)
	assert.Nil(t, res.Channels[1].GroupTitle)
}
