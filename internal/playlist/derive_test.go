package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMediaURL(t *testing.T) {
	assert.True(t, IsMediaURL("http://example.com/movie/1.mkv"))
	assert.True(t, IsMediaURL("http://example.com/movie/1.MP4"))
	assert.False(t, IsMediaURL("http://example.com/live/cnn"))
	assert.False(t, IsMediaURL("http://example.com/movie/1.avi"))
	assert.False(t, IsMediaURL("http://example.com/1.mkv/playlist"))
}

func TestMediaTypeFromURL(t *testing.T) {
	mt := MediaTypeFromURL("http://example.com/movie/1.mkv")
	require.NotNil(t, mt)
	assert.Equal(t, TypeMovie, *mt)

	mt = MediaTypeFromURL("http://example.com/series/1.mp4")
	require.NotNil(t, mt)
	assert.Equal(t, TypeSeries, *mt)

	assert.Nil(t, MediaTypeFromURL("http://example.com/vod/1.mkv"))
}

func TestParseYear(t *testing.T) {
	y := ParseYear("The Shawshank Redemption (1994)")
	require.NotNil(t, y)
	assert.Equal(t, 1994, *y)

	// First match wins.
	y = ParseYear("Movie (2020) - Remastered (2023)")
	require.NotNil(t, y)
	assert.Equal(t, 2020, *y)

	assert.Nil(t, ParseYear("No Year Here"))
	assert.Nil(t, ParseYear("Short (94)"))
}

func TestParseSeasonEpisode(t *testing.T) {
	cases := []struct {
		title   string
		season  int
		episode int
	}{
		{"Show S02E11", 2, 11},
		{"Show s01e05", 1, 5},
		{"Show S02 E11", 2, 11},
		{"Show s2024e6942", 2024, 6942},
	}
	for _, tc := range cases {
		s, e := ParseSeasonEpisode(tc.title)
		require.NotNil(t, s, tc.title)
		require.NotNil(t, e, tc.title)
		assert.Equal(t, tc.season, *s, tc.title)
		assert.Equal(t, tc.episode, *e, tc.title)
	}

	s, e := ParseSeasonEpisode("Just a Movie (2020)")
	assert.Nil(t, s)
	assert.Nil(t, e)
}

func TestSeriesBaseName(t *testing.T) {
	assert.Equal(t, "DE - Senran Kagura (2013)", SeriesBaseName("DE - Senran Kagura (2013) S02 E11"))
	assert.Equal(t, "Show", SeriesBaseName("Show S02E11"))
	// Suffix only strips at the end of the title.
	assert.Equal(t, "S01 E01 Retrospective", SeriesBaseName("S01 E01 Retrospective"))
}
