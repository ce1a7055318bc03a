package service

import (
	"context"

	"github.com/jmales/channelvault/internal/hascript"
	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/playlist"
)

// M3UExport is a rendered playlist plus the number of entries it carries.
type M3UExport struct {
	M3U   string `json:"m3u"`
	Count int    `json:"count"`
}

// ExportM3U renders the active rows of kind as an M3U playlist. Rows
// without a stream URL are dropped by the serializer and excluded from
// the count.
func (s *Service) ExportM3U(ctx context.Context, kind models.StreamKind) (*M3UExport, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	rows, err := s.store.ListM3UExport(ctx, kind)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, r := range rows {
		if r.StreamURL != nil && *r.StreamURL != "" {
			count++
		}
	}
	return &M3UExport{M3U: playlist.GenerateM3U(rows), Count: count}, nil
}

// ExportScript renders the active channels as a Home Assistant script
// configuration.
func (s *Service) ExportScript(ctx context.Context) (*hascript.Result, error) {
	rows, err := s.store.ListScriptExport(ctx)
	if err != nil {
		return nil, err
	}
	res := hascript.Generate(rows)
	return &res, nil
}
