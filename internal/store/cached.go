package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/jmales/channelvault/internal/cache"
	"github.com/jmales/channelvault/internal/models"
)

// Cache TTLs for different entity types.
const (
	ttlList         = 1 * time.Minute
	ttlItem         = 5 * time.Minute
	ttlGroupTitles  = 5 * time.Minute
	ttlCountryCodes = 10 * time.Minute
	ttlEpisodes     = 1 * time.Minute
)

// CachedStore wraps a Store with a Redis caching layer. Read-heavy
// operations are served from cache when possible; write operations
// invalidate the relevant keys. Export queries are never cached so the
// generated artifacts always reflect the current rows.
type CachedStore struct {
	inner Store
	cache *cache.Redis
}

// NewCachedStore creates a CachedStore that wraps inner with Redis caching.
func NewCachedStore(inner Store, c *cache.Redis) *CachedStore {
	return &CachedStore{inner: inner, cache: c}
}

// filterHash derives a stable cache key fragment from a list filter.
func filterHash(f StreamFilter) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%+v", f)))
	return hex.EncodeToString(sum[:8])
}

// listResult caches the (rows, total) tuple of a list call.
type listResult[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

// --- cached reads ---

func (c *CachedStore) ListChannels(ctx context.Context, f StreamFilter) ([]models.Channel, int, error) {
	key := "channels:list:" + filterHash(f)
	if v, err := cache.Get[listResult[models.Channel]](ctx, c.cache, key); err == nil {
		return v.Rows, v.Total, nil
	}
	rows, total, err := c.inner.ListChannels(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, listResult[models.Channel]{Rows: rows, Total: total}, ttlList)
	return rows, total, nil
}

func (c *CachedStore) ListMovies(ctx context.Context, f StreamFilter) ([]models.Media, int, error) {
	key := "media:list:" + filterHash(f)
	if v, err := cache.Get[listResult[models.Media]](ctx, c.cache, key); err == nil {
		return v.Rows, v.Total, nil
	}
	rows, total, err := c.inner.ListMovies(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, listResult[models.Media]{Rows: rows, Total: total}, ttlList)
	return rows, total, nil
}

func (c *CachedStore) ListSeries(ctx context.Context, f StreamFilter) ([]models.Series, int, error) {
	key := "series:list:" + filterHash(f)
	if v, err := cache.Get[listResult[models.Series]](ctx, c.cache, key); err == nil {
		return v.Rows, v.Total, nil
	}
	rows, total, err := c.inner.ListSeries(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, listResult[models.Series]{Rows: rows, Total: total}, ttlList)
	return rows, total, nil
}

func (c *CachedStore) GetChannel(ctx context.Context, id string) (*models.Channel, error) {
	key := "channel:" + id
	if v, err := cache.Get[models.Channel](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	ch, err := c.inner.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, ch, ttlItem)
	return ch, nil
}

func (c *CachedStore) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	key := "medium:" + id
	if v, err := cache.Get[models.Media](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	m, err := c.inner.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, m, ttlItem)
	return m, nil
}

func (c *CachedStore) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	key := "serie:" + id
	if v, err := cache.Get[models.Series](ctx, c.cache, key); err == nil {
		return &v, nil
	}
	s, err := c.inner.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, s, ttlItem)
	return s, nil
}

func (c *CachedStore) ListEpisodes(ctx context.Context, seriesID string) ([]models.Media, error) {
	key := "episodes:" + seriesID
	if v, err := cache.Get[[]models.Media](ctx, c.cache, key); err == nil {
		return v, nil
	}
	eps, err := c.inner.ListEpisodes(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, eps, ttlEpisodes)
	return eps, nil
}

func (c *CachedStore) ListGroupTitles(ctx context.Context, kind models.StreamKind) ([]models.GroupTitle, error) {
	key := "grouptitles:" + string(kind)
	if v, err := cache.Get[[]models.GroupTitle](ctx, c.cache, key); err == nil {
		return v, nil
	}
	gts, err := c.inner.ListGroupTitles(ctx, kind)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, gts, ttlGroupTitles)
	return gts, nil
}

func (c *CachedStore) ListCountryCodes(ctx context.Context) ([]string, error) {
	const key = "countrycodes"
	if v, err := cache.Get[[]string](ctx, c.cache, key); err == nil {
		return v, nil
	}
	codes, err := c.inner.ListCountryCodes(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, codes, ttlCountryCodes)
	return codes, nil
}

// --- writes with invalidation ---

func (c *CachedStore) SetGroupTitleAlias(ctx context.Context, id int64, alias *string) error {
	if err := c.inner.SetGroupTitleAlias(ctx, id, alias); err != nil {
		return err
	}
	// The alias feeds the effective display value joined into every list.
	c.invalidatePattern(ctx, "grouptitles:*", "channels:list:*", "media:list:*", "series:list:*",
		"channel:*", "medium:*", "serie:*")
	return nil
}

func (c *CachedStore) ToggleStreamActive(ctx context.Context, kind models.StreamKind, id string, active bool) error {
	if err := c.inner.ToggleStreamActive(ctx, kind, id, active); err != nil {
		return err
	}
	switch kind {
	case models.KindChannels:
		c.invalidate(ctx, "channel:"+id)
		c.invalidatePattern(ctx, "channels:list:*")
	case models.KindMedia:
		c.invalidate(ctx, "medium:"+id)
		c.invalidatePattern(ctx, "media:list:*")
	case models.KindSeries:
		c.invalidate(ctx, "serie:"+id)
		c.invalidatePattern(ctx, "series:list:*")
	}
	return nil
}

func (c *CachedStore) CreateChannel(ctx context.Context, ch *models.Channel) error {
	if err := c.inner.CreateChannel(ctx, ch); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "channels:list:*", "grouptitles:*", "countrycodes")
	return nil
}

func (c *CachedStore) UpdateChannel(ctx context.Context, id string, u ChannelUpdate) (*models.Channel, error) {
	ch, err := c.inner.UpdateChannel(ctx, id, u)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "channel:"+id)
	c.invalidatePattern(ctx, "channels:list:*", "grouptitles:*", "countrycodes")
	return ch, nil
}

func (c *CachedStore) CreateMedia(ctx context.Context, m *models.Media) error {
	if err := c.inner.CreateMedia(ctx, m); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "media:list:*", "grouptitles:*")
	return nil
}

func (c *CachedStore) UpdateMedia(ctx context.Context, id string, u MediaUpdate) (*models.Media, error) {
	m, err := c.inner.UpdateMedia(ctx, id, u)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "medium:"+id)
	c.invalidatePattern(ctx, "media:list:*", "grouptitles:*")
	if m.SeriesID != nil {
		c.invalidate(ctx, "episodes:"+*m.SeriesID)
	}
	return m, nil
}

func (c *CachedStore) CreateSeries(ctx context.Context, s *models.Series) error {
	if err := c.inner.CreateSeries(ctx, s); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "series:list:*", "grouptitles:*")
	return nil
}

func (c *CachedStore) UpdateSeries(ctx context.Context, id string, u SeriesUpdate) (*models.Series, error) {
	s, err := c.inner.UpdateSeries(ctx, id, u)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "serie:"+id)
	c.invalidatePattern(ctx, "series:list:*", "grouptitles:*")
	return s, nil
}

func (c *CachedStore) SetSeriesActive(ctx context.Context, id string, active bool) error {
	if err := c.inner.SetSeriesActive(ctx, id, active); err != nil {
		return err
	}
	c.invalidate(ctx, "serie:"+id, "episodes:"+id)
	c.invalidatePattern(ctx, "series:list:*", "media:list:*", "medium:*")
	return nil
}

func (c *CachedStore) ReplaceEpisodes(ctx context.Context, seriesID string, deletes []string, updates []EpisodePatch, inserts []models.Media) (int, error) {
	n, err := c.inner.ReplaceEpisodes(ctx, seriesID, deletes, updates, inserts)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, "serie:"+seriesID, "episodes:"+seriesID)
	c.invalidatePattern(ctx, "series:list:*", "media:list:*", "medium:*")
	return n, nil
}

func (c *CachedStore) SetChannelContentID(ctx context.Context, id string, contentID int) error {
	if err := c.inner.SetChannelContentID(ctx, id, contentID); err != nil {
		return err
	}
	c.invalidate(ctx, "channel:"+id)
	c.invalidatePattern(ctx, "channels:list:*")
	return nil
}

func (c *CachedStore) TruncateChannels(ctx context.Context) error {
	if err := c.inner.TruncateChannels(ctx); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "channel:*", "channels:list:*", "grouptitles:*", "countrycodes")
	return nil
}

func (c *CachedStore) BulkInsertChannels(ctx context.Context, chs []models.Channel) error {
	if err := c.inner.BulkInsertChannels(ctx, chs); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "channels:list:*", "grouptitles:*", "countrycodes")
	return nil
}

func (c *CachedStore) BulkInsertMedia(ctx context.Context, ms []models.Media) error {
	if err := c.inner.BulkInsertMedia(ctx, ms); err != nil {
		return err
	}
	c.invalidatePattern(ctx, "media:list:*", "episodes:*", "grouptitles:*")
	return nil
}

// --- passthrough (no caching) ---

func (c *CachedStore) InsertGroupTitle(ctx context.Context, name string) (int64, bool, error) {
	return c.inner.InsertGroupTitle(ctx, name)
}

func (c *CachedStore) GetGroupTitleByName(ctx context.Context, name string) (*models.GroupTitle, error) {
	return c.inner.GetGroupTitleByName(ctx, name)
}

func (c *CachedStore) GetGroupTitleByID(ctx context.Context, id int64) (*models.GroupTitle, error) {
	return c.inner.GetGroupTitleByID(ctx, id)
}

func (c *CachedStore) ListEpisodeIDs(ctx context.Context, seriesID string) ([]string, error) {
	return c.inner.ListEpisodeIDs(ctx, seriesID)
}

func (c *CachedStore) ListM3UExport(ctx context.Context, kind models.StreamKind) ([]models.M3UExportRow, error) {
	return c.inner.ListM3UExport(ctx, kind)
}

func (c *CachedStore) ListScriptExport(ctx context.Context) ([]models.ScriptExportRow, error) {
	return c.inner.ListScriptExport(ctx)
}

func (c *CachedStore) ListChannelSyncInfo(ctx context.Context) ([]models.ChannelSync, error) {
	return c.inner.ListChannelSyncInfo(ctx)
}

// --- helpers ---

func (c *CachedStore) set(ctx context.Context, key string, v any, ttl time.Duration) {
	if err := cache.Set(ctx, c.cache, key, v, ttl); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

// invalidate deletes exact cache keys, logging any errors.
func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := cache.Del(ctx, c.cache, keys...); err != nil {
		log.Printf("cache: del %v: %v", keys, err)
	}
}

// invalidatePattern deletes all keys matching the given glob patterns.
func (c *CachedStore) invalidatePattern(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		if err := cache.DelPattern(ctx, c.cache, p); err != nil {
			log.Printf("cache: del pattern %s: %v", p, err)
		}
	}
}
