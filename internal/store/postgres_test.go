package store

import (
	"testing"

	"github.com/jmales/channelvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWhereEmptyFilter(t *testing.T) {
	where, args := streamWhere(models.KindChannels, StreamFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestStreamWhereNumbersPlaceholders(t *testing.T) {
	active := true
	fav := false
	gid := int64(7)
	where, args := streamWhere(models.KindChannels, StreamFilter{
		Active:       &active,
		Favourite:    &fav,
		GroupTitleID: &gid,
		Countries:    []string{"US", "DE"},
	})

	assert.Equal(t,
		" WHERE t.active = $1 AND t.favourite = $2 AND t.group_title_id = $3 AND t.country_code = ANY($4)",
		where)
	require.Len(t, args, 4)
	assert.Equal(t, []string{"US", "DE"}, args[3])
}

func TestStreamWhereCountriesOnlyForChannels(t *testing.T) {
	where, _ := streamWhere(models.KindSeries, StreamFilter{Countries: []string{"US"}})
	assert.NotContains(t, where, "country_code")
}

func TestStreamWhereMoviesExcludeEpisodes(t *testing.T) {
	where, args := streamWhere(models.KindMedia, StreamFilter{})
	assert.Equal(t, " WHERE t.series_id IS NULL", where)
	assert.Empty(t, args)

	active := true
	where, _ = streamWhere(models.KindMedia, StreamFilter{Active: &active})
	assert.Equal(t, " WHERE t.active = $1 AND t.series_id IS NULL", where)
}

func TestStreamOrder(t *testing.T) {
	assert.Equal(t, " ORDER BY COALESCE(t.name, t.tvg_name) ASC, t.id ASC", streamOrder(StreamFilter{}))
	assert.Equal(t, " ORDER BY t.created_at DESC, t.id ASC",
		streamOrder(StreamFilter{SortBy: "createdAt", SortDir: "desc"}))
}

func TestPageLimitDefault(t *testing.T) {
	assert.Equal(t, 100, pageLimit(StreamFilter{}))
	assert.Equal(t, 100, pageLimit(StreamFilter{Limit: -5}))
	assert.Equal(t, 25, pageLimit(StreamFilter{Limit: 25}))
}
