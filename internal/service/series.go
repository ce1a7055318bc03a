package service

import (
	"context"
	"fmt"

	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/store"
)

// SetSeriesActive flips the series flag and cascades it to every episode.
func (s *Service) SetSeriesActive(ctx context.Context, id string, active bool) error {
	return s.store.SetSeriesActive(ctx, id, active)
}

// ListEpisodes returns the episodes of a series ordered by season, episode.
func (s *Service) ListEpisodes(ctx context.Context, seriesID string) ([]models.Media, error) {
	return s.store.ListEpisodes(ctx, seriesID)
}

// EpisodeInput is one row of the episode replacement form. A nil ID means
// a new episode; an ID must belong to the series being edited.
type EpisodeInput struct {
	ID        *string `json:"id"`
	Season    *int    `json:"season"`
	Episode   *int    `json:"episode"`
	Year      *int    `json:"year"`
	StreamURL *string `json:"streamUrl"`
	Name      *string `json:"name"`
}

// ReplaceEpisodes makes the stored episode set match eps exactly:
// existing episodes absent from eps are deleted, rows carrying an id are
// updated, and rows without one are inserted inheriting the parent's
// logo, category, and active flag. New episodes get a display name
// synthesized from the series name and zero-padded season/episode
// numbers. Returns the series' episode count after the replacement.
func (s *Service) ReplaceEpisodes(ctx context.Context, seriesID string, eps []EpisodeInput) (int, error) {
	parent, err := s.store.GetSeries(ctx, seriesID)
	if err != nil {
		return 0, err
	}
	existing, err := s.store.ListEpisodeIDs(ctx, seriesID)
	if err != nil {
		return 0, fmt.Errorf("replace episodes %s: %w", seriesID, err)
	}

	keep := make(map[string]bool, len(eps))
	var updates []store.EpisodePatch
	var inserts []models.Media

	for _, e := range eps {
		if e.ID != nil && *e.ID != "" {
			keep[*e.ID] = true
			updates = append(updates, store.EpisodePatch{
				ID:        *e.ID,
				Season:    e.Season,
				Episode:   e.Episode,
				Year:      e.Year,
				StreamURL: normalizeURL(e.StreamURL),
				Name:      e.Name,
			})
			continue
		}
		mt := models.MediaTypeSeries
		sid := seriesID
		inserts = append(inserts, models.Media{
			TvgName:      episodeName(parent.TvgName, e.Season, e.Episode),
			TvgLogo:      parent.TvgLogo,
			GroupTitleID: parent.GroupTitleID,
			StreamURL:    normalizeURL(e.StreamURL),
			SeriesID:     &sid,
			MediaType:    &mt,
			Year:         e.Year,
			Season:       e.Season,
			Episode:      e.Episode,
			Name:         e.Name,
			Active:       parent.Active,
		})
	}

	var deletes []string
	for _, id := range existing {
		if !keep[id] {
			deletes = append(deletes, id)
		}
	}

	return s.store.ReplaceEpisodes(ctx, seriesID, deletes, updates, inserts)
}

// episodeName synthesizes an episode title from the parent series name,
// e.g. "Senran Kagura S02 E11". Without both numbers it falls back to the
// bare series name.
func episodeName(seriesName string, season, episode *int) string {
	if season != nil && episode != nil {
		return fmt.Sprintf("%s S%02d E%02d", seriesName, *season, *episode)
	}
	return seriesName
}
