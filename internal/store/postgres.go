package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmales/channelvault/internal/models"
)

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// --- group titles ---

// InsertGroupTitle inserts a lookup row unless name already exists.
// ON CONFLICT DO NOTHING returns no row on conflict, so inserted is false
// and the caller falls back to GetGroupTitleByName. Under concurrent
// resolution of the same new name, the unique index guarantees at most one
// row ever exists.
func (p *Postgres) InsertGroupTitle(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO group_titles (name) VALUES ($1)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id`,
		name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("InsertGroupTitle: %w", err)
	}
	return id, true, nil
}

func (p *Postgres) GetGroupTitleByName(ctx context.Context, name string) (*models.GroupTitle, error) {
	var g models.GroupTitle
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, alias FROM group_titles WHERE name = $1`,
		name,
	).Scan(&g.ID, &g.Name, &g.Alias)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetGroupTitleByName: %w", err)
	}
	return &g, nil
}

func (p *Postgres) GetGroupTitleByID(ctx context.Context, id int64) (*models.GroupTitle, error) {
	var g models.GroupTitle
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, alias FROM group_titles WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Name, &g.Alias)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetGroupTitleByID: %w", err)
	}
	return &g, nil
}

func (p *Postgres) SetGroupTitleAlias(ctx context.Context, id int64, alias *string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE group_titles SET alias = $1 WHERE id = $2`,
		alias, id,
	)
	if err != nil {
		return fmt.Errorf("SetGroupTitleAlias: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListGroupTitles(ctx context.Context, kind models.StreamKind) ([]models.GroupTitle, error) {
	t, ok := streamTables[kind]
	if !ok {
		return nil, fmt.Errorf("ListGroupTitles: unknown stream kind %q", kind)
	}
	rows, err := p.pool.Query(ctx, fmt.Sprintf(
		`SELECT DISTINCT g.id, g.name, g.alias
		 FROM group_titles g
		 JOIN %s t ON t.group_title_id = g.id
		 ORDER BY g.name ASC`, t.name))
	if err != nil {
		return nil, fmt.Errorf("ListGroupTitles: %w", err)
	}
	defer rows.Close()

	var out []models.GroupTitle
	for rows.Next() {
		var g models.GroupTitle
		if err := rows.Scan(&g.ID, &g.Name, &g.Alias); err != nil {
			return nil, fmt.Errorf("ListGroupTitles scan: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// --- generic stream operations ---

// streamTable is the per-kind adapter for operations shared by all three
// stream tables. The set is closed; no dynamic table access.
type streamTable struct {
	name       string
	moviesOnly bool // listing excludes series episodes
}

var streamTables = map[models.StreamKind]streamTable{
	models.KindChannels: {name: "channels"},
	models.KindMedia:    {name: "media", moviesOnly: true},
	models.KindSeries:   {name: "series"},
}

func (p *Postgres) ToggleStreamActive(ctx context.Context, kind models.StreamKind, id string, active bool) error {
	t, ok := streamTables[kind]
	if !ok {
		return fmt.Errorf("ToggleStreamActive: unknown stream kind %q", kind)
	}
	tag, err := p.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET active = $1, updated_at = NOW() WHERE id = $2`, t.name),
		active, id,
	)
	if err != nil {
		return fmt.Errorf("ToggleStreamActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// streamWhere builds the shared filter clause. Placeholders are numbered
// from 1; callers append LIMIT/OFFSET after these args.
func streamWhere(kind models.StreamKind, f StreamFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if f.Active != nil {
		add("t.active = $%d", *f.Active)
	}
	if f.Favourite != nil {
		add("t.favourite = $%d", *f.Favourite)
	}
	if f.GroupTitleID != nil {
		add("t.group_title_id = $%d", *f.GroupTitleID)
	}
	if kind == models.KindChannels && len(f.Countries) > 0 {
		add("t.country_code = ANY($%d)", f.Countries)
	}
	if streamTables[kind].moviesOnly {
		conds = append(conds, "t.series_id IS NULL")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func streamOrder(f StreamFilter) string {
	// The name override is optional; fall back to the playlist name so
	// rows without one don't sort as nulls.
	col := "COALESCE(t.name, t.tvg_name)"
	if f.SortBy == "createdAt" {
		col = "t.created_at"
	}
	dir := "ASC"
	if f.SortDir == "desc" {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, t.id ASC", col, dir)
}

func pageLimit(f StreamFilter) int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

func (p *Postgres) ListChannels(ctx context.Context, f StreamFilter) ([]models.Channel, int, error) {
	where, args := streamWhere(models.KindChannels, f)

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM channels t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListChannels count: %w", err)
	}

	query := `SELECT t.id, t.tvg_id, t.tvg_name, t.tvg_logo, t.group_title_id, t.stream_url,
	                 t.content_id, t.name, t.country_code, t.favourite, t.active, t.script_alias,
	                 t.created_at, t.updated_at, COALESCE(g.alias, g.name)
	          FROM channels t
	          LEFT JOIN group_titles g ON g.id = t.group_title_id` +
		where + streamOrder(f) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := p.pool.Query(ctx, query, append(args, pageLimit(f), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListChannels: %w", err)
	}
	defer rows.Close()

	var out []models.Channel
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(&ch.ID, &ch.TvgID, &ch.TvgName, &ch.TvgLogo, &ch.GroupTitleID, &ch.StreamURL,
			&ch.ContentID, &ch.Name, &ch.CountryCode, &ch.Favourite, &ch.Active, &ch.ScriptAlias,
			&ch.CreatedAt, &ch.UpdatedAt, &ch.GroupTitle); err != nil {
			return nil, 0, fmt.Errorf("ListChannels scan: %w", err)
		}
		out = append(out, ch)
	}
	return out, total, rows.Err()
}

func (p *Postgres) ListMovies(ctx context.Context, f StreamFilter) ([]models.Media, int, error) {
	where, args := streamWhere(models.KindMedia, f)

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListMovies count: %w", err)
	}

	query := mediaSelect + ` , COALESCE(g.alias, g.name)
	          FROM media t
	          LEFT JOIN group_titles g ON g.id = t.group_title_id` +
		where + streamOrder(f) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := p.pool.Query(ctx, query, append(args, pageLimit(f), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListMovies: %w", err)
	}
	defer rows.Close()

	var out []models.Media
	for rows.Next() {
		var m models.Media
		if err := scanMedia(rows, &m, &m.GroupTitle); err != nil {
			return nil, 0, fmt.Errorf("ListMovies scan: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (p *Postgres) ListSeries(ctx context.Context, f StreamFilter) ([]models.Series, int, error) {
	where, args := streamWhere(models.KindSeries, f)

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM series t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListSeries count: %w", err)
	}

	query := `SELECT t.id, t.tvg_id, t.tvg_name, t.tvg_logo, t.group_title_id, t.episode_count,
	                 t.name, t.favourite, t.active, t.created_at, t.updated_at, COALESCE(g.alias, g.name)
	          FROM series t
	          LEFT JOIN group_titles g ON g.id = t.group_title_id` +
		where + streamOrder(f) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := p.pool.Query(ctx, query, append(args, pageLimit(f), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListSeries: %w", err)
	}
	defer rows.Close()

	var out []models.Series
	for rows.Next() {
		var s models.Series
		if err := rows.Scan(&s.ID, &s.TvgID, &s.TvgName, &s.TvgLogo, &s.GroupTitleID, &s.EpisodeCount,
			&s.Name, &s.Favourite, &s.Active, &s.CreatedAt, &s.UpdatedAt, &s.GroupTitle); err != nil {
			return nil, 0, fmt.Errorf("ListSeries scan: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// --- channels ---

func (p *Postgres) GetChannel(ctx context.Context, id string) (*models.Channel, error) {
	var ch models.Channel
	err := p.pool.QueryRow(ctx,
		`SELECT t.id, t.tvg_id, t.tvg_name, t.tvg_logo, t.group_title_id, t.stream_url,
		        t.content_id, t.name, t.country_code, t.favourite, t.active, t.script_alias,
		        t.created_at, t.updated_at, g.name, g.alias
		 FROM channels t
		 LEFT JOIN group_titles g ON g.id = t.group_title_id
		 WHERE t.id = $1`,
		id,
	).Scan(&ch.ID, &ch.TvgID, &ch.TvgName, &ch.TvgLogo, &ch.GroupTitleID, &ch.StreamURL,
		&ch.ContentID, &ch.Name, &ch.CountryCode, &ch.Favourite, &ch.Active, &ch.ScriptAlias,
		&ch.CreatedAt, &ch.UpdatedAt, &ch.GroupTitle, &ch.GroupTitleAlias)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetChannel: %w", err)
	}
	return &ch, nil
}

func (p *Postgres) CreateChannel(ctx context.Context, ch *models.Channel) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO channels (tvg_id, tvg_name, tvg_logo, group_title_id, stream_url,
		                       content_id, name, country_code, favourite, active, script_alias)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		ch.TvgID, ch.TvgName, ch.TvgLogo, ch.GroupTitleID, ch.StreamURL,
		ch.ContentID, ch.Name, ch.CountryCode, ch.Favourite, ch.Active, ch.ScriptAlias,
	).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateChannel: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateChannel(ctx context.Context, id string, u ChannelUpdate) (*models.Channel, error) {
	var ch models.Channel
	err := p.pool.QueryRow(ctx,
		`UPDATE channels SET
		   tvg_id = $1, tvg_name = $2, tvg_logo = $3, stream_url = $4,
		   content_id = $5, name = $6, country_code = $7, favourite = $8,
		   active = $9, script_alias = $10,
		   group_title_id = CASE WHEN $11::boolean THEN $12 ELSE group_title_id END,
		   updated_at = NOW()
		 WHERE id = $13
		 RETURNING id, tvg_id, tvg_name, tvg_logo, group_title_id, stream_url,
		           content_id, name, country_code, favourite, active, script_alias,
		           created_at, updated_at`,
		u.TvgID, u.TvgName, u.TvgLogo, u.StreamURL,
		u.ContentID, u.Name, u.CountryCode, u.Favourite,
		u.Active, u.ScriptAlias,
		u.SetGroupTitle, u.GroupTitleID, id,
	).Scan(&ch.ID, &ch.TvgID, &ch.TvgName, &ch.TvgLogo, &ch.GroupTitleID, &ch.StreamURL,
		&ch.ContentID, &ch.Name, &ch.CountryCode, &ch.Favourite, &ch.Active, &ch.ScriptAlias,
		&ch.CreatedAt, &ch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateChannel: %w", err)
	}
	return &ch, nil
}

func (p *Postgres) ListCountryCodes(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT DISTINCT country_code FROM channels
		 WHERE country_code IS NOT NULL
		 ORDER BY country_code ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListCountryCodes: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("ListCountryCodes scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- media ---

const mediaSelect = `SELECT t.id, t.tvg_id, t.tvg_name, t.tvg_logo, t.group_title_id, t.stream_url,
	                 t.series_id, t.media_type, t.year, t.season, t.episode,
	                 t.name, t.favourite, t.active, t.created_at, t.updated_at`

// scanMedia scans the mediaSelect columns plus any extra destinations.
func scanMedia(rows pgx.Rows, m *models.Media, extra ...any) error {
	dest := []any{&m.ID, &m.TvgID, &m.TvgName, &m.TvgLogo, &m.GroupTitleID, &m.StreamURL,
		&m.SeriesID, &m.MediaType, &m.Year, &m.Season, &m.Episode,
		&m.Name, &m.Favourite, &m.Active, &m.CreatedAt, &m.UpdatedAt}
	return rows.Scan(append(dest, extra...)...)
}

func (p *Postgres) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	err := p.pool.QueryRow(ctx,
		mediaSelect+`, g.name, g.alias
		 FROM media t
		 LEFT JOIN group_titles g ON g.id = t.group_title_id
		 WHERE t.id = $1`,
		id,
	).Scan(&m.ID, &m.TvgID, &m.TvgName, &m.TvgLogo, &m.GroupTitleID, &m.StreamURL,
		&m.SeriesID, &m.MediaType, &m.Year, &m.Season, &m.Episode,
		&m.Name, &m.Favourite, &m.Active, &m.CreatedAt, &m.UpdatedAt,
		&m.GroupTitle, &m.GroupTitleAlias)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetMedia: %w", err)
	}
	return &m, nil
}

func (p *Postgres) CreateMedia(ctx context.Context, m *models.Media) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO media (tvg_id, tvg_name, tvg_logo, group_title_id, stream_url,
		                    series_id, media_type, year, season, episode,
		                    name, favourite, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		m.TvgID, m.TvgName, m.TvgLogo, m.GroupTitleID, m.StreamURL,
		m.SeriesID, m.MediaType, m.Year, m.Season, m.Episode,
		m.Name, m.Favourite, m.Active,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateMedia: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateMedia(ctx context.Context, id string, u MediaUpdate) (*models.Media, error) {
	var m models.Media
	err := p.pool.QueryRow(ctx,
		`UPDATE media SET
		   tvg_id = $1, tvg_name = $2, tvg_logo = $3, stream_url = $4,
		   media_type = $5, year = $6, season = $7, episode = $8,
		   name = $9, favourite = $10, active = $11,
		   group_title_id = CASE WHEN $12::boolean THEN $13 ELSE group_title_id END,
		   updated_at = NOW()
		 WHERE id = $14
		 RETURNING id, tvg_id, tvg_name, tvg_logo, group_title_id, stream_url,
		           series_id, media_type, year, season, episode,
		           name, favourite, active, created_at, updated_at`,
		u.TvgID, u.TvgName, u.TvgLogo, u.StreamURL,
		u.MediaType, u.Year, u.Season, u.Episode,
		u.Name, u.Favourite, u.Active,
		u.SetGroupTitle, u.GroupTitleID, id,
	).Scan(&m.ID, &m.TvgID, &m.TvgName, &m.TvgLogo, &m.GroupTitleID, &m.StreamURL,
		&m.SeriesID, &m.MediaType, &m.Year, &m.Season, &m.Episode,
		&m.Name, &m.Favourite, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateMedia: %w", err)
	}
	return &m, nil
}

// --- series ---

func (p *Postgres) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	var s models.Series
	err := p.pool.QueryRow(ctx,
		`SELECT t.id, t.tvg_id, t.tvg_name, t.tvg_logo, t.group_title_id, t.episode_count,
		        t.name, t.favourite, t.active, t.created_at, t.updated_at, g.name, g.alias
		 FROM series t
		 LEFT JOIN group_titles g ON g.id = t.group_title_id
		 WHERE t.id = $1`,
		id,
	).Scan(&s.ID, &s.TvgID, &s.TvgName, &s.TvgLogo, &s.GroupTitleID, &s.EpisodeCount,
		&s.Name, &s.Favourite, &s.Active, &s.CreatedAt, &s.UpdatedAt,
		&s.GroupTitle, &s.GroupTitleAlias)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetSeries: %w", err)
	}
	return &s, nil
}

func (p *Postgres) CreateSeries(ctx context.Context, s *models.Series) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO series (tvg_id, tvg_name, tvg_logo, group_title_id, episode_count,
		                     name, favourite, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		s.TvgID, s.TvgName, s.TvgLogo, s.GroupTitleID, s.EpisodeCount,
		s.Name, s.Favourite, s.Active,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateSeries: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateSeries(ctx context.Context, id string, u SeriesUpdate) (*models.Series, error) {
	var s models.Series
	err := p.pool.QueryRow(ctx,
		`UPDATE series SET
		   tvg_id = $1, tvg_name = $2, tvg_logo = $3,
		   name = $4, favourite = $5, active = $6,
		   group_title_id = CASE WHEN $7::boolean THEN $8 ELSE group_title_id END,
		   updated_at = NOW()
		 WHERE id = $9
		 RETURNING id, tvg_id, tvg_name, tvg_logo, group_title_id, episode_count,
		           name, favourite, active, created_at, updated_at`,
		u.TvgID, u.TvgName, u.TvgLogo,
		u.Name, u.Favourite, u.Active,
		u.SetGroupTitle, u.GroupTitleID, id,
	).Scan(&s.ID, &s.TvgID, &s.TvgName, &s.TvgLogo, &s.GroupTitleID, &s.EpisodeCount,
		&s.Name, &s.Favourite, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateSeries: %w", err)
	}
	return &s, nil
}

// SetSeriesActive flips the series flag and cascades it to every episode.
// Both writes happen in one transaction so readers never observe an active
// series with stale-inactive episodes.
func (p *Postgres) SetSeriesActive(ctx context.Context, id string, active bool) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("SetSeriesActive begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE series SET active = $1, updated_at = NOW() WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("SetSeriesActive series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE media SET active = $1, updated_at = NOW() WHERE series_id = $2`,
		active, id,
	); err != nil {
		return fmt.Errorf("SetSeriesActive episodes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("SetSeriesActive commit: %w", err)
	}
	return nil
}

func (p *Postgres) ListEpisodes(ctx context.Context, seriesID string) ([]models.Media, error) {
	rows, err := p.pool.Query(ctx,
		mediaSelect+`
		 FROM media t
		 WHERE t.series_id = $1
		 ORDER BY t.season ASC, t.episode ASC`,
		seriesID)
	if err != nil {
		return nil, fmt.Errorf("ListEpisodes: %w", err)
	}
	defer rows.Close()

	var out []models.Media
	for rows.Next() {
		var m models.Media
		if err := scanMedia(rows, &m); err != nil {
			return nil, fmt.Errorf("ListEpisodes scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *Postgres) ListEpisodeIDs(ctx context.Context, seriesID string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id FROM media WHERE series_id = $1`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("ListEpisodeIDs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ListEpisodeIDs scan: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ReplaceEpisodes applies a full episode-set replacement in one
// transaction. Deletes and inserts are both visible before the final
// count is taken and written back to series.episode_count.
func (p *Postgres) ReplaceEpisodes(ctx context.Context, seriesID string, deletes []string, updates []EpisodePatch, inserts []models.Media) (int, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ReplaceEpisodes begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(deletes) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM media WHERE series_id = $1 AND id = ANY($2)`,
			seriesID, deletes,
		); err != nil {
			return 0, fmt.Errorf("ReplaceEpisodes delete: %w", err)
		}
	}

	for _, u := range updates {
		if _, err := tx.Exec(ctx,
			`UPDATE media SET season = $1, episode = $2, year = $3,
			        stream_url = $4, name = $5, updated_at = NOW()
			 WHERE id = $6 AND series_id = $7`,
			u.Season, u.Episode, u.Year, u.StreamURL, u.Name, u.ID, seriesID,
		); err != nil {
			return 0, fmt.Errorf("ReplaceEpisodes update %s: %w", u.ID, err)
		}
	}

	for i := range inserts {
		m := &inserts[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO media (tvg_id, tvg_name, tvg_logo, group_title_id, stream_url,
			                    series_id, media_type, year, season, episode,
			                    name, favourite, active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.TvgID, m.TvgName, m.TvgLogo, m.GroupTitleID, m.StreamURL,
			m.SeriesID, m.MediaType, m.Year, m.Season, m.Episode,
			m.Name, m.Favourite, m.Active,
		); err != nil {
			return 0, fmt.Errorf("ReplaceEpisodes insert: %w", err)
		}
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM media WHERE series_id = $1`, seriesID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("ReplaceEpisodes count: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE series SET episode_count = $1, updated_at = NOW() WHERE id = $2`,
		count, seriesID,
	); err != nil {
		return 0, fmt.Errorf("ReplaceEpisodes episode_count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ReplaceEpisodes commit: %w", err)
	}
	return count, nil
}

// --- exports ---

func (p *Postgres) ListM3UExport(ctx context.Context, kind models.StreamKind) ([]models.M3UExportRow, error) {
	var query string
	switch kind {
	case models.KindChannels:
		query = `SELECT t.tvg_id, t.tvg_name, t.tvg_logo, COALESCE(g.alias, g.name), t.stream_url, t.name
		         FROM channels t
		         LEFT JOIN group_titles g ON g.id = t.group_title_id
		         WHERE t.active = true
		         ORDER BY t.name ASC`
	case models.KindMedia:
		query = `SELECT t.tvg_id, t.tvg_name, t.tvg_logo, COALESCE(g.alias, g.name), t.stream_url, t.name
		         FROM media t
		         LEFT JOIN group_titles g ON g.id = t.group_title_id
		         WHERE t.active = true AND t.series_id IS NULL
		         ORDER BY t.name ASC`
	case models.KindSeries:
		// Every episode of an active series, grouped by show.
		query = `SELECT t.tvg_id, t.tvg_name, t.tvg_logo, COALESCE(g.alias, g.name), t.stream_url, t.name
		         FROM media t
		         JOIN series s ON s.id = t.series_id
		         LEFT JOIN group_titles g ON g.id = s.group_title_id
		         WHERE s.active = true
		         ORDER BY COALESCE(s.name, s.tvg_name) ASC, t.season ASC, t.episode ASC`
	default:
		return nil, fmt.Errorf("ListM3UExport: unknown stream kind %q", kind)
	}

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListM3UExport: %w", err)
	}
	defer rows.Close()

	var out []models.M3UExportRow
	for rows.Next() {
		var r models.M3UExportRow
		if err := rows.Scan(&r.TvgID, &r.TvgName, &r.TvgLogo, &r.GroupTitle, &r.StreamURL, &r.Name); err != nil {
			return nil, fmt.Errorf("ListM3UExport scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) ListScriptExport(ctx context.Context) ([]models.ScriptExportRow, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT script_alias, name, tvg_name, content_id, tvg_logo
		 FROM channels
		 WHERE active = true
		 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListScriptExport: %w", err)
	}
	defer rows.Close()

	var out []models.ScriptExportRow
	for rows.Next() {
		var r models.ScriptExportRow
		if err := rows.Scan(&r.ScriptAlias, &r.Name, &r.TvgName, &r.ContentID, &r.TvgLogo); err != nil {
			return nil, fmt.Errorf("ListScriptExport scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Kodi sync ---

func (p *Postgres) ListChannelSyncInfo(ctx context.Context) ([]models.ChannelSync, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, tvg_name, content_id FROM channels`)
	if err != nil {
		return nil, fmt.Errorf("ListChannelSyncInfo: %w", err)
	}
	defer rows.Close()

	var out []models.ChannelSync
	for rows.Next() {
		var c models.ChannelSync
		if err := rows.Scan(&c.ID, &c.TvgName, &c.ContentID); err != nil {
			return nil, fmt.Errorf("ListChannelSyncInfo scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) SetChannelContentID(ctx context.Context, id string, contentID int) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE channels SET content_id = $1, updated_at = NOW() WHERE id = $2`,
		contentID, id,
	)
	if err != nil {
		return fmt.Errorf("SetChannelContentID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- seeding ---

func (p *Postgres) TruncateChannels(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `TRUNCATE TABLE channels`); err != nil {
		return fmt.Errorf("TruncateChannels: %w", err)
	}
	return nil
}

func (p *Postgres) BulkInsertChannels(ctx context.Context, chs []models.Channel) error {
	_, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{"channels"},
		[]string{"tvg_id", "tvg_name", "tvg_logo", "group_title_id", "stream_url",
			"content_id", "name", "country_code", "favourite", "active", "script_alias"},
		pgx.CopyFromSlice(len(chs), func(i int) ([]any, error) {
			ch := chs[i]
			return []any{ch.TvgID, ch.TvgName, ch.TvgLogo, ch.GroupTitleID, ch.StreamURL,
				ch.ContentID, ch.Name, ch.CountryCode, ch.Favourite, ch.Active, ch.ScriptAlias}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("BulkInsertChannels: %w", err)
	}
	return nil
}

func (p *Postgres) BulkInsertMedia(ctx context.Context, ms []models.Media) error {
	_, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{"media"},
		[]string{"tvg_id", "tvg_name", "tvg_logo", "group_title_id", "stream_url",
			"series_id", "media_type", "year", "season", "episode",
			"name", "favourite", "active"},
		pgx.CopyFromSlice(len(ms), func(i int) ([]any, error) {
			m := ms[i]
			return []any{m.TvgID, m.TvgName, m.TvgLogo, m.GroupTitleID, m.StreamURL,
				m.SeriesID, m.MediaType, m.Year, m.Season, m.Episode,
				m.Name, m.Favourite, m.Active}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("BulkInsertMedia: %w", err)
	}
	return nil
}
