// Package playlistsql adapts core.PlaylistService onto SQL-backed storage.
// The schema and query shapes are carried over from the playlist-service's
// own migrate.go/handlers, narrowed to the columns the core domain needs.
package playlistsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcflow/core/internal/core"
)

// Postgres is a core.PlaylistService backed by a pgxpool connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an already-connected pool. Callers own pool's lifecycle.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// AutoMigrate creates the playlists/videos tables if they do not already
// exist, following the teacher's CREATE TABLE IF NOT EXISTS convention.
func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS playlists (
			id          uuid PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public   BOOLEAN NOT NULL DEFAULT TRUE,
			edit_mode   TEXT NOT NULL DEFAULT 'everyone',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("migrate playlists: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS videos (
			id             uuid PRIMARY KEY,
			playlist_id    uuid NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			youtube_id     TEXT NOT NULL,
			title          TEXT NOT NULL,
			thumbnail_url  TEXT NOT NULL DEFAULT '',
			duration_ms    BIGINT NOT NULL DEFAULT 0,
			vote_count     INT NOT NULL DEFAULT 0,
			position       INT NOT NULL,
			added_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("migrate videos: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_videos_playlist_position
		ON videos(playlist_id, position)
	`); err != nil {
		return fmt.Errorf("migrate videos index: %w", err)
	}

	return nil
}

func (p *Postgres) GetAll(ctx context.Context) ([]core.Playlist, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, description, is_public, edit_mode, created_at, updated_at
		FROM playlists
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []core.Playlist
	for rows.Next() {
		pl, err := scanPlaylistRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	for i := range playlists {
		videos, err := p.videosForPlaylist(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Videos = videos
	}
	return playlists, nil
}

func (p *Postgres) GetByID(ctx context.Context, id core.PlaylistID) (*core.Playlist, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, description, is_public, edit_mode, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`, string(id))

	pl, err := scanPlaylistRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("playlist %s: not found", id)
		}
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	videos, err := p.videosForPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	pl.Videos = videos
	return &pl, nil
}

func (p *Postgres) videosForPlaylist(ctx context.Context, id core.PlaylistID) ([]core.VideoItem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, playlist_id, youtube_id, title, thumbnail_url, duration_ms, vote_count, position, added_at
		FROM videos
		WHERE playlist_id = $1
		ORDER BY position ASC
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []core.VideoItem
	for rows.Next() {
		v, err := scanVideoRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (p *Postgres) Create(ctx context.Context, pl core.Playlist) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO playlists (id, name, description, is_public, edit_mode, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, string(pl.ID), pl.Name, pl.Description, pl.IsPublic, editModeOrDefault(pl.EditMode), pl.CreatedAt, pl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, pl core.Playlist) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE playlists SET name=$2, description=$3, is_public=$4, edit_mode=$5, updated_at=$6
		WHERE id=$1
	`, string(pl.ID), pl.Name, pl.Description, pl.IsPublic, editModeOrDefault(pl.EditMode), pl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("playlist %s: not found", pl.ID)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id core.PlaylistID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM playlists WHERE id=$1`, string(id))
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("playlist %s: not found", id)
	}
	return nil
}

func (p *Postgres) AddVideoToPlaylist(ctx context.Context, playlistID core.PlaylistID, v core.VideoItem) error {
	var nextPosition int
	if err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(position)+1, 0) FROM videos WHERE playlist_id=$1
	`, string(playlistID)).Scan(&nextPosition); err != nil {
		return fmt.Errorf("compute next position: %w", err)
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO videos (id, playlist_id, youtube_id, title, thumbnail_url, duration_ms, vote_count, position, added_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, string(v.ID), string(playlistID), v.YoutubeID, v.Title, v.ThumbnailURL, v.Duration.Milliseconds(), v.VoteCount, nextPosition, v.AddedAt)
	if err != nil {
		return fmt.Errorf("add video: %w", err)
	}
	return nil
}

func (p *Postgres) RemoveVideoFromPlaylist(ctx context.Context, playlistID core.PlaylistID, videoID core.VideoID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM videos WHERE id=$1 AND playlist_id=$2`, string(videoID), string(playlistID))
	if err != nil {
		return fmt.Errorf("remove video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("video %s: not found in playlist %s", videoID, playlistID)
	}
	return renumberPositions(ctx, p.pool, playlistID)
}

func renumberPositions(ctx context.Context, pool *pgxpool.Pool, playlistID core.PlaylistID) error {
	rows, err := pool.Query(ctx, `SELECT id FROM videos WHERE playlist_id=$1 ORDER BY position ASC`, string(playlistID))
	if err != nil {
		return fmt.Errorf("renumber: list videos: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("renumber: scan: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := pool.Exec(ctx, `UPDATE videos SET position=$2 WHERE id=$1`, id, i); err != nil {
			return fmt.Errorf("renumber: update %s: %w", id, err)
		}
	}
	return nil
}

func (p *Postgres) UpdateVideoPositions(ctx context.Context, playlistID core.PlaylistID, videos []core.VideoItem) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, v := range videos {
		if _, err := tx.Exec(ctx, `
			UPDATE videos SET position=$3 WHERE id=$1 AND playlist_id=$2
		`, string(v.ID), string(playlistID), v.Position); err != nil {
			return fmt.Errorf("update position for %s: %w", v.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (p *Postgres) ReplaceAllPlaylists(ctx context.Context, playlists []core.Playlist) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM videos`); err != nil {
		return fmt.Errorf("clear videos: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM playlists`); err != nil {
		return fmt.Errorf("clear playlists: %w", err)
	}

	now := time.Now().UTC()
	for _, pl := range playlists {
		created, updated := pl.CreatedAt, pl.UpdatedAt
		if created.IsZero() {
			created = now
		}
		if updated.IsZero() {
			updated = now
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO playlists (id, name, description, is_public, edit_mode, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, string(pl.ID), pl.Name, pl.Description, pl.IsPublic, editModeOrDefault(pl.EditMode), created, updated); err != nil {
			return fmt.Errorf("insert playlist %s: %w", pl.ID, err)
		}
		for _, v := range pl.Videos {
			addedAt := v.AddedAt
			if addedAt.IsZero() {
				addedAt = now
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO videos (id, playlist_id, youtube_id, title, thumbnail_url, duration_ms, vote_count, position, added_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			`, string(v.ID), string(pl.ID), v.YoutubeID, v.Title, v.ThumbnailURL, v.Duration.Milliseconds(), v.VoteCount, v.Position, addedAt); err != nil {
				return fmt.Errorf("insert video %s: %w", v.ID, err)
			}
		}
	}

	return tx.Commit(ctx)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPlaylistRow(row scannable) (core.Playlist, error) {
	var pl core.Playlist
	var id, editMode string
	if err := row.Scan(&id, &pl.Name, &pl.Description, &pl.IsPublic, &editMode, &pl.CreatedAt, &pl.UpdatedAt); err != nil {
		return core.Playlist{}, err
	}
	pl.ID = core.PlaylistID(id)
	pl.EditMode = editMode
	return pl, nil
}

func scanVideoRow(row scannable) (core.VideoItem, error) {
	var v core.VideoItem
	var id, playlistID string
	var durationMs int64
	if err := row.Scan(&id, &playlistID, &v.YoutubeID, &v.Title, &v.ThumbnailURL, &durationMs, &v.VoteCount, &v.Position, &v.AddedAt); err != nil {
		return core.VideoItem{}, err
	}
	v.ID = core.VideoID(id)
	v.PlaylistID = core.PlaylistID(playlistID)
	v.Duration = time.Duration(durationMs) * time.Millisecond
	return v, nil
}

func editModeOrDefault(mode string) string {
	if mode == "" {
		return "everyone"
	}
	return mode
}
