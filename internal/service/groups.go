package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmales/channelvault/internal/models"
)

// ErrInvalidKind rejects a stream kind outside the closed set.
var ErrInvalidKind = errors.New("invalid stream kind")

// ResolveGroupTitle maps a free-text category string to its lookup-row
// id, inserting the row when the name is new. Concurrent resolvers of the
// same name converge on one row: the insert is conflict-tolerant, and a
// loser of the race re-reads the winner's row.
func (s *Service) ResolveGroupTitle(ctx context.Context, name string) (int64, error) {
	id, inserted, err := s.store.InsertGroupTitle(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve group title %q: %w", name, err)
	}
	if inserted {
		return id, nil
	}
	gt, err := s.store.GetGroupTitleByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve group title %q: %w", name, err)
	}
	return gt.ID, nil
}

// resolveGroupRef applies the category part of an edit: an explicit id
// wins, non-empty text resolves through the lookup table, empty text
// clears the reference, and an absent value leaves it untouched
// (set=false).
func (s *Service) resolveGroupRef(ctx context.Context, explicitID *int64, title *string) (id *int64, set bool, err error) {
	if explicitID != nil {
		return explicitID, true, nil
	}
	if title == nil {
		return nil, false, nil
	}
	if *title == "" {
		return nil, true, nil
	}
	resolved, err := s.ResolveGroupTitle(ctx, *title)
	if err != nil {
		return nil, false, err
	}
	return &resolved, true, nil
}

// applyGroupAlias stores an alias on the lookup row resolved by the same
// edit. Without a resolved id there is nothing to attach the alias to and
// the value is silently dropped. An empty alias clears the stored one.
func (s *Service) applyGroupAlias(ctx context.Context, id *int64, alias *string) error {
	if alias == nil || id == nil {
		return nil
	}
	v := alias
	if *alias == "" {
		v = nil
	}
	return s.store.SetGroupTitleAlias(ctx, *id, v)
}

// ListGroupTitles returns the distinct group titles referenced by kind.
func (s *Service) ListGroupTitles(ctx context.Context, kind models.StreamKind) ([]models.GroupTitle, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	return s.store.ListGroupTitles(ctx, kind)
}

// ListCountryCodes returns the distinct country codes assigned to channels.
func (s *Service) ListCountryCodes(ctx context.Context) ([]string, error) {
	return s.store.ListCountryCodes(ctx)
}
