package models

// StreamKind selects one of the three stream tables. The set is closed:
// operations shared by all kinds (toggle active, listing, group-title
// lookups) dispatch on it instead of a dynamic table name.
type StreamKind string

const (
	KindChannels StreamKind = "channels"
	KindMedia    StreamKind = "media"
	KindSeries   StreamKind = "series"
)

// Valid reports whether k names one of the three stream tables.
func (k StreamKind) Valid() bool {
	switch k {
	case KindChannels, KindMedia, KindSeries:
		return true
	}
	return false
}

// M3UExportRow is the projection serialized into an M3U playlist.
// GroupTitle carries the effective display value (alias-or-name).
type M3UExportRow struct {
	TvgID      *string
	TvgName    string
	TvgLogo    *string
	GroupTitle *string
	StreamURL  *string
	Name       *string
}

// ScriptExportRow is the projection serialized into the Home Assistant
// script configuration.
type ScriptExportRow struct {
	ScriptAlias *string
	Name        *string
	TvgName     string
	ContentID   *int
	TvgLogo     *string
}
