package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/playlist"
)

// SeedResult summarizes one playlist import.
type SeedResult struct {
	Channels      int `json:"channels"`
	Movies        int `json:"movies"`
	Series        int `json:"series"`
	Episodes      int `json:"episodes"`
	Skipped       int `json:"skipped"`
	StoppedAtLine int `json:"stoppedAtLine,omitempty"`
}

// groupResolver caches group-title resolution for one seed run so a
// playlist with thousands of entries in a few dozen groups does not hit
// the lookup table per entry.
type groupResolver struct {
	svc   *Service
	cache map[string]int64
}

func (s *Service) newGroupResolver() *groupResolver {
	return &groupResolver{svc: s, cache: make(map[string]int64)}
}

func (g *groupResolver) resolve(ctx context.Context, title *string) (*int64, error) {
	if title == nil || *title == "" {
		return nil, nil
	}
	if id, ok := g.cache[*title]; ok {
		return &id, nil
	}
	id, err := g.svc.ResolveGroupTitle(ctx, *title)
	if err != nil {
		return nil, err
	}
	g.cache[*title] = id
	return &id, nil
}

// SeedChannels replaces the channels table with the live channels parsed
// from raw M3U content. contentIDs maps tvg-name to a known Kodi channel
// id and may be nil.
func (s *Service) SeedChannels(ctx context.Context, content string, contentIDs map[string]int) (*SeedResult, error) {
	res := playlist.Parse(content, playlist.ModeChannels)

	if err := s.store.TruncateChannels(ctx); err != nil {
		return nil, err
	}

	groups := s.newGroupResolver()
	chs := make([]models.Channel, 0, len(res.Channels))
	for _, c := range res.Channels {
		gtID, err := groups.resolve(ctx, c.GroupTitle)
		if err != nil {
			return nil, err
		}
		ch := models.Channel{
			TvgID:        c.TvgID,
			TvgName:      c.TvgName,
			TvgLogo:      c.TvgLogo,
			GroupTitleID: gtID,
			StreamURL:    &c.StreamURL,
			Active:       true,
		}
		if id, ok := contentIDs[c.TvgName]; ok {
			ch.ContentID = &id
		}
		chs = append(chs, ch)
	}

	if err := s.store.BulkInsertChannels(ctx, chs); err != nil {
		return nil, err
	}

	log.Printf("seed: inserted %d channels (%d skipped, stopped at line %d)",
		len(chs), res.Skipped, res.StoppedAtLine)
	return &SeedResult{
		Channels:      len(chs),
		Skipped:       res.Skipped,
		StoppedAtLine: res.StoppedAtLine,
	}, nil
}

// seriesKey identifies one show within a seed run: base name plus
// category, so a show syndicated under two groups stays two series.
type seriesKey struct {
	name  string
	group string
}

// SeedMedia imports the on-demand entries of raw M3U content: movies as
// standalone media rows, series entries grouped by their base name into a
// series row plus one media row per episode.
func (s *Service) SeedMedia(ctx context.Context, content string) (*SeedResult, error) {
	res := playlist.Parse(content, playlist.ModeMedia)

	groups := s.newGroupResolver()
	out := &SeedResult{Skipped: res.Skipped}

	var movies []models.Media
	episodes := make(map[seriesKey][]playlist.Media)
	var order []seriesKey

	for _, m := range res.Media {
		if m.SeriesBaseName != nil {
			k := seriesKey{name: *m.SeriesBaseName}
			if m.GroupTitle != nil {
				k.group = *m.GroupTitle
			}
			if _, ok := episodes[k]; !ok {
				order = append(order, k)
			}
			episodes[k] = append(episodes[k], m)
			continue
		}
		gtID, err := groups.resolve(ctx, m.GroupTitle)
		if err != nil {
			return nil, err
		}
		url := m.StreamURL
		movies = append(movies, models.Media{
			TvgID:        m.TvgID,
			TvgName:      m.TvgName,
			TvgLogo:      m.TvgLogo,
			GroupTitleID: gtID,
			StreamURL:    &url,
			MediaType:    m.MediaType,
			Year:         m.Year,
			Season:       m.Season,
			Episode:      m.Episode,
			Active:       true,
		})
	}

	if len(movies) > 0 {
		if err := s.store.BulkInsertMedia(ctx, movies); err != nil {
			return nil, err
		}
	}
	out.Movies = len(movies)

	for _, k := range order {
		eps := episodes[k]
		gtID, err := groups.resolve(ctx, eps[0].GroupTitle)
		if err != nil {
			return nil, err
		}
		sr := &models.Series{
			TvgName:      k.name,
			TvgLogo:      eps[0].TvgLogo,
			GroupTitleID: gtID,
			EpisodeCount: len(eps),
			Active:       true,
		}
		if err := s.store.CreateSeries(ctx, sr); err != nil {
			return nil, fmt.Errorf("seed series %q: %w", k.name, err)
		}

		rows := make([]models.Media, 0, len(eps))
		for _, e := range eps {
			url := e.StreamURL
			sid := sr.ID
			rows = append(rows, models.Media{
				TvgID:        e.TvgID,
				TvgName:      e.TvgName,
				TvgLogo:      e.TvgLogo,
				GroupTitleID: gtID,
				StreamURL:    &url,
				SeriesID:     &sid,
				MediaType:    e.MediaType,
				Year:         e.Year,
				Season:       e.Season,
				Episode:      e.Episode,
				Active:       true,
			})
		}
		if err := s.store.BulkInsertMedia(ctx, rows); err != nil {
			return nil, fmt.Errorf("seed episodes of %q: %w", k.name, err)
		}
		out.Series++
		out.Episodes += len(rows)
	}

	log.Printf("seed: inserted %d movies, %d series with %d episodes (%d skipped)",
		out.Movies, out.Series, out.Episodes, out.Skipped)
	return out, nil
}
