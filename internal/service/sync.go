package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmales/channelvault/internal/kodi"
)

// KodiClient is the slice of the Kodi JSON-RPC client the sync needs.
type KodiClient interface {
	GetChannels(ctx context.Context) ([]kodi.Channel, error)
}

// SyncResult summarizes one content-id reconciliation run.
type SyncResult struct {
	Total        int `json:"total"`
	KodiChannels int `json:"kodiChannels"`
	Matched      int `json:"matched"`
	Updated      int `json:"updated"`
	Skipped      int `json:"skipped"`
}

// SyncKodiChannelIDs reconciles stored content ids against the live Kodi
// PVR channel list, matching on name case-insensitively. Channels without
// a Kodi counterpart keep their stored id and count as skipped. A failed
// channel fetch aborts the run without touching any row.
func (s *Service) SyncKodiChannelIDs(ctx context.Context, client KodiClient) (*SyncResult, error) {
	kodiChs, err := client.GetChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch kodi channels: %w", err)
	}

	// Duplicate labels collapse to the last one seen.
	byLabel := make(map[string]int, len(kodiChs))
	for _, kc := range kodiChs {
		byLabel[strings.ToLower(kc.Label)] = kc.ChannelID
	}

	rows, err := s.store.ListChannelSyncInfo(ctx)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{Total: len(rows), KodiChannels: len(kodiChs)}
	for _, ch := range rows {
		contentID, ok := byLabel[strings.ToLower(ch.TvgName)]
		if !ok {
			res.Skipped++
			continue
		}
		res.Matched++
		if ch.ContentID != nil && *ch.ContentID == contentID {
			continue
		}
		if err := s.store.SetChannelContentID(ctx, ch.ID, contentID); err != nil {
			return nil, fmt.Errorf("set content id for %s: %w", ch.ID, err)
		}
		res.Updated++
	}

	log.Printf("kodi sync: %d/%d matched, %d updated, %d skipped",
		res.Matched, res.Total, res.Updated, res.Skipped)
	return res, nil
}
