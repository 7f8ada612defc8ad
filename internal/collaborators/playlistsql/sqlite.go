package playlistsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arcflow/core/internal/core"
)

// SQLite is a core.PlaylistService backed by modernc.org/sqlite, used by
// arcflowctl when storage.driver is "sqlite", for single-binary setups
// where running Postgres is impractical.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) a SQLite database at path and
// migrates its schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS playlists (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public   INTEGER NOT NULL DEFAULT 1,
			edit_mode   TEXT NOT NULL DEFAULT 'everyone',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("migrate playlists: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS videos (
			id            TEXT PRIMARY KEY,
			playlist_id   TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			youtube_id    TEXT NOT NULL,
			title         TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			duration_ms   INTEGER NOT NULL DEFAULT 0,
			vote_count    INTEGER NOT NULL DEFAULT 0,
			position      INTEGER NOT NULL,
			added_at      TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("migrate videos: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_videos_playlist_position ON videos(playlist_id, position)
	`); err != nil {
		return fmt.Errorf("migrate videos index: %w", err)
	}
	return nil
}

func (s *SQLite) GetAll(ctx context.Context) ([]core.Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, is_public, edit_mode, created_at, updated_at
		FROM playlists ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []core.Playlist
	for rows.Next() {
		pl, err := scanSQLitePlaylistRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range playlists {
		videos, err := s.videosForPlaylist(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Videos = videos
	}
	return playlists, nil
}

func (s *SQLite) GetByID(ctx context.Context, id core.PlaylistID) (*core.Playlist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, is_public, edit_mode, created_at, updated_at
		FROM playlists WHERE id = ?
	`, string(id))

	pl, err := scanSQLitePlaylistRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("playlist %s: not found", id)
		}
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	videos, err := s.videosForPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	pl.Videos = videos
	return &pl, nil
}

func (s *SQLite) videosForPlaylist(ctx context.Context, id core.PlaylistID) ([]core.VideoItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, playlist_id, youtube_id, title, thumbnail_url, duration_ms, vote_count, position, added_at
		FROM videos WHERE playlist_id = ? ORDER BY position ASC
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []core.VideoItem
	for rows.Next() {
		v, err := scanSQLiteVideoRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *SQLite) Create(ctx context.Context, pl core.Playlist) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playlists (id, name, description, is_public, edit_mode, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)
	`, string(pl.ID), pl.Name, pl.Description, boolToInt(pl.IsPublic), editModeOrDefault(pl.EditMode),
		formatTime(pl.CreatedAt), formatTime(pl.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	return nil
}

func (s *SQLite) Update(ctx context.Context, pl core.Playlist) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE playlists SET name=?, description=?, is_public=?, edit_mode=?, updated_at=? WHERE id=?
	`, pl.Name, pl.Description, boolToInt(pl.IsPublic), editModeOrDefault(pl.EditMode), formatTime(pl.UpdatedAt), string(pl.ID))
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	return requireRowsAffected(res, "playlist", string(pl.ID))
}

func (s *SQLite) Delete(ctx context.Context, id core.PlaylistID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id=?`, string(id))
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return requireRowsAffected(res, "playlist", string(id))
}

func (s *SQLite) AddVideoToPlaylist(ctx context.Context, playlistID core.PlaylistID, v core.VideoItem) error {
	var nextPosition int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position)+1, 0) FROM videos WHERE playlist_id=?
	`, string(playlistID)).Scan(&nextPosition); err != nil {
		return fmt.Errorf("compute next position: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (id, playlist_id, youtube_id, title, thumbnail_url, duration_ms, vote_count, position, added_at)
		VALUES (?,?,?,?,?,?,?,?,?)
	`, string(v.ID), string(playlistID), v.YoutubeID, v.Title, v.ThumbnailURL, v.Duration.Milliseconds(), v.VoteCount, nextPosition, formatTime(v.AddedAt))
	if err != nil {
		return fmt.Errorf("add video: %w", err)
	}
	return nil
}

func (s *SQLite) RemoveVideoFromPlaylist(ctx context.Context, playlistID core.PlaylistID, videoID core.VideoID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id=? AND playlist_id=?`, string(videoID), string(playlistID))
	if err != nil {
		return fmt.Errorf("remove video: %w", err)
	}
	if err := requireRowsAffected(res, "video", string(videoID)); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM videos WHERE playlist_id=? ORDER BY position ASC`, string(playlistID))
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
		if _, err := s.db.ExecContext(ctx, `UPDATE videos SET position=? WHERE id=?`, i, id); err != nil {
			return fmt.Errorf("renumber %s: %w", id, err)
		}
	}
	return nil
}

func (s *SQLite) UpdateVideoPositions(ctx context.Context, playlistID core.PlaylistID, videos []core.VideoItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, v := range videos {
		if _, err := tx.ExecContext(ctx, `
			UPDATE videos SET position=? WHERE id=? AND playlist_id=?
		`, v.Position, string(v.ID), string(playlistID)); err != nil {
			return fmt.Errorf("update position for %s: %w", v.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) ReplaceAllPlaylists(ctx context.Context, playlists []core.Playlist) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM videos`); err != nil {
		return fmt.Errorf("clear videos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlists`); err != nil {
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
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlists (id, name, description, is_public, edit_mode, created_at, updated_at)
			VALUES (?,?,?,?,?,?,?)
		`, string(pl.ID), pl.Name, pl.Description, boolToInt(pl.IsPublic), editModeOrDefault(pl.EditMode),
			formatTime(created), formatTime(updated)); err != nil {
			return fmt.Errorf("insert playlist %s: %w", pl.ID, err)
		}
		for _, v := range pl.Videos {
			addedAt := v.AddedAt
			if addedAt.IsZero() {
				addedAt = now
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO videos (id, playlist_id, youtube_id, title, thumbnail_url, duration_ms, vote_count, position, added_at)
				VALUES (?,?,?,?,?,?,?,?,?)
			`, string(v.ID), string(pl.ID), v.YoutubeID, v.Title, v.ThumbnailURL, v.Duration.Milliseconds(), v.VoteCount, v.Position, formatTime(addedAt)); err != nil {
				return fmt.Errorf("insert video %s: %w", v.ID, err)
			}
		}
	}

	return tx.Commit()
}

type sqlScannable interface {
	Scan(dest ...any) error
}

func scanSQLitePlaylistRow(row sqlScannable) (core.Playlist, error) {
	var pl core.Playlist
	var id, editMode, createdAt, updatedAt string
	var isPublic int
	if err := row.Scan(&id, &pl.Name, &pl.Description, &isPublic, &editMode, &createdAt, &updatedAt); err != nil {
		return core.Playlist{}, err
	}
	pl.ID = core.PlaylistID(id)
	pl.IsPublic = isPublic != 0
	pl.EditMode = editMode
	pl.CreatedAt = parseTime(createdAt)
	pl.UpdatedAt = parseTime(updatedAt)
	return pl, nil
}

func scanSQLiteVideoRow(row sqlScannable) (core.VideoItem, error) {
	var v core.VideoItem
	var id, playlistID, addedAt string
	var durationMs int64
	if err := row.Scan(&id, &playlistID, &v.YoutubeID, &v.Title, &v.ThumbnailURL, &durationMs, &v.VoteCount, &v.Position, &addedAt); err != nil {
		return core.VideoItem{}, err
	}
	v.ID = core.VideoID(id)
	v.PlaylistID = core.PlaylistID(playlistID)
	v.Duration = time.Duration(durationMs) * time.Millisecond
	v.AddedAt = parseTime(addedAt)
	return v, nil
}

func requireRowsAffected(res sql.Result, noun, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: not found", noun, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
