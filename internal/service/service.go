// Package service implements the application operations on top of the
// store: group-title resolution, channel/media/series editing, series
// cascades, exports, Kodi sync, and playlist seeding.
package service

import (
	"context"

	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/store"
)

// Service coordinates store access for all write-side operations.
type Service struct {
	store store.Store
}

// New creates a Service backed by st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// normalizeURL maps an empty URL-shaped value to nil so the column is
// stored as null, never as an empty string.
func normalizeURL(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

// attachGroup hydrates the read-only groupTitle/groupTitleAlias fields
// from the referenced lookup row. A dangling or absent reference leaves
// both nil.
func (s *Service) attachGroup(ctx context.Context, id *int64, name, alias **string) {
	*name, *alias = nil, nil
	if id == nil {
		return
	}
	gt, err := s.store.GetGroupTitleByID(ctx, *id)
	if err != nil {
		return
	}
	*name = &gt.Name
	*alias = gt.Alias
}

// ToggleActive flips the active flag on one row of kind.
func (s *Service) ToggleActive(ctx context.Context, kind models.StreamKind, id string, active bool) error {
	return s.store.ToggleStreamActive(ctx, kind, id, active)
}
