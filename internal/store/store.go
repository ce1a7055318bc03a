package store

import (
	"context"
	"errors"

	"github.com/jmales/channelvault/internal/models"
)

// ErrNotFound is returned when no row matched the given id. Callers treat
// it as a normal outcome, distinct from transport failures.
var ErrNotFound = errors.New("not found")

// Store defines persistence for group titles, channels, media, and series.
type Store interface {
	// InsertGroupTitle inserts a lookup row for name unless one already
	// exists. inserted is false when the unique constraint ignored the
	// insert; the caller then re-reads by name.
	InsertGroupTitle(ctx context.Context, name string) (id int64, inserted bool, err error)
	// GetGroupTitleByName returns the lookup row for name (ErrNotFound when absent).
	GetGroupTitleByName(ctx context.Context, name string) (*models.GroupTitle, error)
	// GetGroupTitleByID returns one lookup row by id.
	GetGroupTitleByID(ctx context.Context, id int64) (*models.GroupTitle, error)
	// SetGroupTitleAlias overwrites the alias; nil clears it.
	SetGroupTitleAlias(ctx context.Context, id int64, alias *string) error
	// ListGroupTitles returns the distinct group titles referenced by kind.
	ListGroupTitles(ctx context.Context, kind models.StreamKind) ([]models.GroupTitle, error)

	// ToggleStreamActive flips the active flag on one row of kind.
	ToggleStreamActive(ctx context.Context, kind models.StreamKind, id string, active bool) error

	// ListChannels returns channels matching the filter and the total
	// count before limit/offset.
	ListChannels(ctx context.Context, f StreamFilter) ([]models.Channel, int, error)
	// ListMovies returns media rows with no parent series.
	ListMovies(ctx context.Context, f StreamFilter) ([]models.Media, int, error)
	// ListSeries returns series matching the filter.
	ListSeries(ctx context.Context, f StreamFilter) ([]models.Series, int, error)

	GetChannel(ctx context.Context, id string) (*models.Channel, error)
	CreateChannel(ctx context.Context, ch *models.Channel) error
	UpdateChannel(ctx context.Context, id string, u ChannelUpdate) (*models.Channel, error)
	// ListCountryCodes returns the distinct country codes in use.
	ListCountryCodes(ctx context.Context) ([]string, error)

	GetMedia(ctx context.Context, id string) (*models.Media, error)
	CreateMedia(ctx context.Context, m *models.Media) error
	UpdateMedia(ctx context.Context, id string, u MediaUpdate) (*models.Media, error)

	GetSeries(ctx context.Context, id string) (*models.Series, error)
	CreateSeries(ctx context.Context, s *models.Series) error
	UpdateSeries(ctx context.Context, id string, u SeriesUpdate) (*models.Series, error)
	// SetSeriesActive updates the series flag and cascades it to every
	// episode in one transaction.
	SetSeriesActive(ctx context.Context, id string, active bool) error
	// ListEpisodes returns the episodes of a series ordered by season, episode.
	ListEpisodes(ctx context.Context, seriesID string) ([]models.Media, error)
	// ListEpisodeIDs returns the ids of all episodes of a series.
	ListEpisodeIDs(ctx context.Context, seriesID string) ([]string, error)
	// ReplaceEpisodes applies an episode-set replacement in one
	// transaction: deletes, then updates, then inserts, then recomputes
	// and persists the series' episode count, which it returns.
	ReplaceEpisodes(ctx context.Context, seriesID string, deletes []string, updates []EpisodePatch, inserts []models.Media) (int, error)

	// ListM3UExport returns the active rows of kind as M3U projections,
	// group title resolved to its effective display value.
	ListM3UExport(ctx context.Context, kind models.StreamKind) ([]models.M3UExportRow, error)
	// ListScriptExport returns active channels as script-config projections.
	ListScriptExport(ctx context.Context) ([]models.ScriptExportRow, error)

	// ListChannelSyncInfo returns every channel's sync projection.
	ListChannelSyncInfo(ctx context.Context) ([]models.ChannelSync, error)
	// SetChannelContentID stores the Kodi channel id on one channel.
	SetChannelContentID(ctx context.Context, id string, contentID int) error

	// TruncateChannels wipes the channels table before a re-seed.
	TruncateChannels(ctx context.Context) error
	// BulkInsertChannels inserts a seed batch of channels.
	BulkInsertChannels(ctx context.Context, chs []models.Channel) error
	// BulkInsertMedia inserts a seed batch of media rows.
	BulkInsertMedia(ctx context.Context, ms []models.Media) error
}

// StreamFilter holds the shared list filters for all three stream kinds.
type StreamFilter struct {
	GroupTitleID *int64
	Active       *bool
	Favourite    *bool
	Countries    []string // channels only
	SortBy       string   // "name" (default) or "createdAt"
	SortDir      string   // "asc" (default) or "desc"
	Limit        int      // default 100
	Offset       int
}

// ChannelUpdate mirrors the channel edit form: every scalar column is
// written. GroupTitleID is applied only when SetGroupTitle is true;
// otherwise the stored reference is left untouched.
type ChannelUpdate struct {
	TvgID        *string
	TvgName      string
	TvgLogo      *string
	StreamURL    *string
	ContentID    *int
	Name         *string
	CountryCode  *string
	Favourite    bool
	Active       bool
	ScriptAlias  *string
	GroupTitleID *int64
	SetGroupTitle bool
}

// MediaUpdate mirrors the movie/media edit form.
type MediaUpdate struct {
	TvgID        *string
	TvgName      string
	TvgLogo      *string
	StreamURL    *string
	MediaType    *string
	Year         *int
	Season       *int
	Episode      *int
	Name         *string
	Favourite    bool
	Active       bool
	GroupTitleID *int64
	SetGroupTitle bool
}

// SeriesUpdate mirrors the series edit form (episodes are replaced
// separately via ReplaceEpisodes).
type SeriesUpdate struct {
	TvgID        *string
	TvgName      string
	TvgLogo      *string
	Name         *string
	Favourite    bool
	Active       bool
	GroupTitleID *int64
	SetGroupTitle bool
}

// EpisodePatch updates one existing episode during episode replacement.
type EpisodePatch struct {
	ID        string
	Season    *int
	Episode   *int
	Year      *int
	StreamURL *string
	Name      *string
}
