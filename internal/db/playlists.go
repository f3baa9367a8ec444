package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

const playlistSelect = `
	SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at,
		u.id, u.username, u.full_name, u.avatar
	FROM playlists p
	JOIN users u ON u.id = p.owner_id`

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CreatedBy.ID,
		&p.CreatedBy.Username,
		&p.CreatedBy.FullName,
		&p.CreatedBy.Avatar,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("playlist not found")
		}
		return nil, dbErr(err)
	}
	p.Videos = []model.Video{}
	return &p, nil
}

func (db *Postgres) CreatePlaylist(ctx context.Context, ownerID int64, name, description string) (*model.Playlist, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO playlists (owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`, ownerID, name, description).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("playlist with this name already exists")
		}
		return nil, dbErr(err)
	}
	return scanPlaylist(db.Pool.QueryRow(ctx, playlistSelect+` WHERE p.id = $1`, id))
}

// GetPlaylist loads the playlist with its videos, most recently added first.
func (db *Postgres) GetPlaylist(ctx context.Context, playlistID int64) (*model.Playlist, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	playlist, err := scanPlaylist(db.Pool.QueryRow(ctx, playlistSelect+` WHERE p.id = $1`, playlistID))
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, videoSelect+`
		JOIN playlist_videos pv ON pv.video_id = v.id
		WHERE pv.playlist_id = $1
		ORDER BY pv.added_at DESC, v.id ASC
	`, playlistID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		playlist.Videos = append(playlist.Videos, *v)
	}
	return playlist, dbErr(rows.Err())
}

func (db *Postgres) ListUserPlaylists(ctx context.Context, ownerID int64, page model.Page) ([]model.Playlist, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, playlistSelect+`
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $2 OFFSET $3
	`, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	playlists := make([]model.Playlist, 0)
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}
	return playlists, dbErr(rows.Err())
}

func (db *Postgres) UpdatePlaylist(ctx context.Context, playlistID int64, req model.UpdatePlaylistRequest) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE playlists
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = NOW()
		WHERE id = $1
	`, playlistID, req.Name, req.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("playlist with this name already exists")
		}
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("playlist not found")
	}
	return nil
}

func (db *Postgres) DeletePlaylist(ctx context.Context, playlistID int64) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, playlistID)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("playlist not found")
	}
	return nil
}

// AddPlaylistVideo is idempotent: adding a video already in the playlist is a no-op.
func (db *Postgres) AddPlaylistVideo(ctx context.Context, playlistID, videoID int64) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO playlist_videos (playlist_id, video_id, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`, playlistID, videoID)
	return dbErr(err)
}

func (db *Postgres) RemovePlaylistVideo(ctx context.Context, playlistID, videoID int64) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2
	`, playlistID, videoID)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("video is not in the playlist")
	}
	return nil
}
