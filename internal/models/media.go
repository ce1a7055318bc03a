package models

import "time"

// Media type values derived from the stream URL path.
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
)

// Media is a movie or a single series episode. SeriesID is the
// discriminant: null for movies, set for episodes.
type Media struct {
	ID string `json:"id,omitempty"`

	TvgID        *string `json:"tvgId,omitempty"`
	TvgName      string  `json:"tvgName"`
	TvgLogo      *string `json:"tvgLogo,omitempty"`
	GroupTitleID *int64  `json:"groupTitleId,omitempty"`
	StreamURL    *string `json:"streamUrl,omitempty"`

	SeriesID *string `json:"seriesId,omitempty"`

	// Derived from the playlist title/URL, or user-set.
	MediaType *string `json:"mediaType,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Season    *int    `json:"season,omitempty"`
	Episode   *int    `json:"episode,omitempty"`

	Name      *string `json:"name,omitempty"`
	Favourite bool    `json:"favourite"`
	Active    bool    `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GroupTitle      *string `json:"groupTitle,omitempty"`
	GroupTitleAlias *string `json:"groupTitleAlias,omitempty"`
}
