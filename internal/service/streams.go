package service

import (
	"context"
	"fmt"

	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/store"
)

// ChannelInput is the channel create/edit form. GroupTitle, GroupTitleID
// and GroupTitleAlias follow the shared category contract: an explicit id
// wins over text, empty text clears the reference, and the alias only
// applies when the same request carried a category.
type ChannelInput struct {
	TvgID       *string `json:"tvgId"`
	TvgName     string  `json:"tvgName"`
	TvgLogo     *string `json:"tvgLogo"`
	StreamURL   *string `json:"streamUrl"`
	ContentID   *int    `json:"contentId"`
	Name        *string `json:"name"`
	CountryCode *string `json:"countryCode"`
	Favourite   bool    `json:"favourite"`
	Active      bool    `json:"active"`
	ScriptAlias *string `json:"scriptAlias"`

	GroupTitle      *string `json:"groupTitle"`
	GroupTitleID    *int64  `json:"groupTitleId"`
	GroupTitleAlias *string `json:"groupTitleAlias"`
}

// MediaInput is the movie/episode create/edit form.
type MediaInput struct {
	TvgID     *string `json:"tvgId"`
	TvgName   string  `json:"tvgName"`
	TvgLogo   *string `json:"tvgLogo"`
	StreamURL *string `json:"streamUrl"`
	MediaType *string `json:"mediaType"`
	Year      *int    `json:"year"`
	Season    *int    `json:"season"`
	Episode   *int    `json:"episode"`
	Name      *string `json:"name"`
	Favourite bool    `json:"favourite"`
	Active    bool    `json:"active"`

	GroupTitle      *string `json:"groupTitle"`
	GroupTitleID    *int64  `json:"groupTitleId"`
	GroupTitleAlias *string `json:"groupTitleAlias"`
}

// SeriesInput is the series create/edit form. Episodes travel separately
// (see ReplaceEpisodes).
type SeriesInput struct {
	TvgID     *string `json:"tvgId"`
	TvgName   string  `json:"tvgName"`
	TvgLogo   *string `json:"tvgLogo"`
	Name      *string `json:"name"`
	Favourite bool    `json:"favourite"`
	Active    bool    `json:"active"`

	GroupTitle      *string `json:"groupTitle"`
	GroupTitleID    *int64  `json:"groupTitleId"`
	GroupTitleAlias *string `json:"groupTitleAlias"`
}

// UpdateChannel applies the edit form to one channel and returns it with
// the derived group fields attached. store.ErrNotFound passes through
// when id matches no row.
func (s *Service) UpdateChannel(ctx context.Context, id string, in ChannelInput) (*models.Channel, error) {
	gtID, setGT, err := s.resolveGroupRef(ctx, in.GroupTitleID, in.GroupTitle)
	if err != nil {
		return nil, err
	}
	if err := s.applyGroupAlias(ctx, gtID, in.GroupTitleAlias); err != nil {
		return nil, fmt.Errorf("update channel %s: %w", id, err)
	}

	ch, err := s.store.UpdateChannel(ctx, id, store.ChannelUpdate{
		TvgID:         in.TvgID,
		TvgName:       in.TvgName,
		TvgLogo:       normalizeURL(in.TvgLogo),
		StreamURL:     normalizeURL(in.StreamURL),
		ContentID:     in.ContentID,
		Name:          in.Name,
		CountryCode:   in.CountryCode,
		Favourite:     in.Favourite,
		Active:        in.Active,
		ScriptAlias:   in.ScriptAlias,
		GroupTitleID:  gtID,
		SetGroupTitle: setGT,
	})
	if err != nil {
		return nil, err
	}
	s.attachGroup(ctx, ch.GroupTitleID, &ch.GroupTitle, &ch.GroupTitleAlias)
	return ch, nil
}

// CreateChannel inserts a channel from the edit form. The "leave
// untouched" branch of the category contract collapses to null here.
func (s *Service) CreateChannel(ctx context.Context, in ChannelInput) (*models.Channel, error) {
	gtID, _, err := s.resolveGroupRef(ctx, in.GroupTitleID, in.GroupTitle)
	if err != nil {
		return nil, err
	}
	if err := s.applyGroupAlias(ctx, gtID, in.GroupTitleAlias); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	ch := &models.Channel{
		TvgID:        in.TvgID,
		TvgName:      in.TvgName,
		TvgLogo:      normalizeURL(in.TvgLogo),
		StreamURL:    normalizeURL(in.StreamURL),
		ContentID:    in.ContentID,
		Name:         in.Name,
		CountryCode:  in.CountryCode,
		Favourite:    in.Favourite,
		Active:       in.Active,
		ScriptAlias:  in.ScriptAlias,
		GroupTitleID: gtID,
	}
	if err := s.store.CreateChannel(ctx, ch); err != nil {
		return nil, err
	}
	s.attachGroup(ctx, ch.GroupTitleID, &ch.GroupTitle, &ch.GroupTitleAlias)
	return ch, nil
}

// UpdateMedia applies the edit form to one movie or episode.
func (s *Service) UpdateMedia(ctx context.Context, id string, in MediaInput) (*models.Media, error) {
	gtID, setGT, err := s.resolveGroupRef(ctx, in.GroupTitleID, in.GroupTitle)
	if err != nil {
		return nil, err
	}
	if err := s.applyGroupAlias(ctx, gtID, in.GroupTitleAlias); err != nil {
		return nil, fmt.Errorf("update media %s: %w", id, err)
	}

	m, err := s.store.UpdateMedia(ctx, id, store.MediaUpdate{
		TvgID:         in.TvgID,
		TvgName:       in.TvgName,
		TvgLogo:       normalizeURL(in.TvgLogo),
		StreamURL:     normalizeURL(in.StreamURL),
		MediaType:     in.MediaType,
		Year:          in.Year,
		Season:        in.Season,
		Episode:       in.Episode,
		Name:          in.Name,
		Favourite:     in.Favourite,
		Active:        in.Active,
		GroupTitleID:  gtID,
		SetGroupTitle: setGT,
	})
	if err != nil {
		return nil, err
	}
	s.attachGroup(ctx, m.GroupTitleID, &m.GroupTitle, &m.GroupTitleAlias)
	return m, nil
}

// CreateMovie inserts a standalone movie: media type is forced to "movie"
// and no parent series is set. Episodes are only created through series
// editing.
func (s *Service) CreateMovie(ctx context.Context, in MediaInput) (*models.Media, error) {
	gtID, _, err := s.resolveGroupRef(ctx, in.GroupTitleID, in.GroupTitle)
	if err != nil {
		return nil, err
	}
	if err := s.applyGroupAlias(ctx, gtID, in.GroupTitleAlias); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	mt := models.MediaTypeMovie
	m := &models.Media{
		TvgID:        in.TvgID,
		TvgName:      in.TvgName,
		TvgLogo:      normalizeURL(in.TvgLogo),
		StreamURL:    normalizeURL(in.StreamURL),
		MediaType:    &mt,
		Year:         in.Year,
		Season:       in.Season,
		Episode:      in.Episode,
		Name:         in.Name,
		Favourite:    in.Favourite,
		Active:       in.Active,
		GroupTitleID: gtID,
	}
	if err := s.store.CreateMedia(ctx, m); err != nil {
		return nil, err
	}
	s.attachGroup(ctx, m.GroupTitleID, &m.GroupTitle, &m.GroupTitleAlias)
	return m, nil
}

// UpdateSeries applies the edit form to one series row. The active flag
// here touches the series only; use SetSeriesActive for the cascade.
func (s *Service) UpdateSeries(ctx context.Context, id string, in SeriesInput) (*models.Series, error) {
	gtID, setGT, err := s.resolveGroupRef(ctx, in.GroupTitleID, in.GroupTitle)
	if err != nil {
		return nil, err
	}
	if err := s.applyGroupAlias(ctx, gtID, in.GroupTitleAlias); err != nil {
		return nil, fmt.Errorf("update series %s: %w", id, err)
	}

	sr, err := s.store.UpdateSeries(ctx, id, store.SeriesUpdate{
		TvgID:         in.TvgID,
		TvgName:       in.TvgName,
		TvgLogo:       normalizeURL(in.TvgLogo),
		Name:          in.Name,
		Favourite:     in.Favourite,
		Active:        in.Active,
		GroupTitleID:  gtID,
		SetGroupTitle: setGT,
	})
	if err != nil {
		return nil, err
	}
	s.attachGroup(ctx, sr.GroupTitleID, &sr.GroupTitle, &sr.GroupTitleAlias)
	return sr, nil
}

// CreateSeries inserts a series row with no episodes yet.
func (s *Service) CreateSeries(ctx context.Context, in SeriesInput) (*models.Series, error) {
	gtID, _, err := s.resolveGroupRef(ctx, in.GroupTitleID, in.GroupTitle)
	if err != nil {
		return nil, err
	}
	if err := s.applyGroupAlias(ctx, gtID, in.GroupTitleAlias); err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}

	sr := &models.Series{
		TvgID:        in.TvgID,
		TvgName:      in.TvgName,
		TvgLogo:      normalizeURL(in.TvgLogo),
		Name:         in.Name,
		Favourite:    in.Favourite,
		Active:       in.Active,
		GroupTitleID: gtID,
	}
	if err := s.store.CreateSeries(ctx, sr); err != nil {
		return nil, err
	}
	s.attachGroup(ctx, sr.GroupTitleID, &sr.GroupTitle, &sr.GroupTitleAlias)
	return sr, nil
}
