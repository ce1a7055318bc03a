package models

// GroupTitle is the lookup row deduplicating the free-text group-title
// category shared by channels, media, and series. Name keeps the original
// M3U value (e.g. "US| ENTERTAINMENT"); Alias is an optional user-friendly
// override.
type GroupTitle struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Alias *string `json:"alias,omitempty"`
}

// Display returns the effective group title: the alias when set and
// non-empty, else the canonical name.
func (g GroupTitle) Display() string {
	if g.Alias != nil && *g.Alias != "" {
		return *g.Alias
	}
	return g.Name
}
