package models

import "time"

// Series groups episodes under one umbrella. TvgName is the base show name
// with the SXX EXX suffix stripped.
type Series struct {
	ID string `json:"id,omitempty"`

	TvgID        *string `json:"tvgId,omitempty"`
	TvgName      string  `json:"tvgName"`
	TvgLogo      *string `json:"tvgLogo,omitempty"`
	GroupTitleID *int64  `json:"groupTitleId,omitempty"`

	// Denormalized cache of the number of media rows referencing this
	// series; recomputed after every episode mutation.
	EpisodeCount int `json:"episodeCount"`

	Name      *string `json:"name,omitempty"`
	Favourite bool    `json:"favourite"`
	Active    bool    `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GroupTitle      *string `json:"groupTitle,omitempty"`
	GroupTitleAlias *string `json:"groupTitleAlias,omitempty"`
}
