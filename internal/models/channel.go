package models

import "time"

// Channel is a live broadcast stream: M3U-origin fields plus the Kodi
// content-id linkage and the CMS overlay (name override, country, flags).
type Channel struct {
	ID string `json:"id,omitempty"`

	// From the M3U playlist.
	TvgID        *string `json:"tvgId,omitempty"`
	TvgName      string  `json:"tvgName"`
	TvgLogo      *string `json:"tvgLogo,omitempty"`
	GroupTitleID *int64  `json:"groupTitleId,omitempty"`
	StreamURL    *string `json:"streamUrl,omitempty"`

	// Kodi channel id used for playback (null = not assigned).
	ContentID *int `json:"contentId,omitempty"`

	// CMS overlay.
	Name        *string `json:"name,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	Favourite   bool    `json:"favourite"`
	Active      bool    `json:"active"`
	ScriptAlias *string `json:"scriptAlias,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Resolved from group_titles by read queries; never written directly.
	GroupTitle      *string `json:"groupTitle,omitempty"`
	GroupTitleAlias *string `json:"groupTitleAlias,omitempty"`
}

// ChannelSync is the narrow projection used by the Kodi content-id
// reconciliation.
type ChannelSync struct {
	ID        string
	TvgName   string
	ContentID *int
}
