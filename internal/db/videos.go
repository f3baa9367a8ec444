package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

const videoSelect = `
	SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
		v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		u.id, u.username, u.full_name, u.avatar
	FROM videos v
	JOIN users u ON u.id = v.owner_id`

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoFile,
		&v.Thumbnail,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.Owner.ID,
		&v.Owner.Username,
		&v.Owner.FullName,
		&v.Owner.Avatar,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("video not found")
		}
		return nil, dbErr(err)
	}
	return &v, nil
}

func (db *Postgres) CreateVideo(ctx context.Context, ownerID int64, req model.CreateVideoRequest) (*model.Video, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO videos (owner_id, title, description, video_file, thumbnail, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`, ownerID, req.Title, req.Description, req.VideoFile, req.Thumbnail, req.Duration).Scan(&id)
	if err != nil {
		return nil, dbErr(err)
	}
	return scanVideo(db.Pool.QueryRow(ctx, videoSelect+` WHERE v.id = $1`, id))
}

func (db *Postgres) GetVideo(ctx context.Context, videoID int64) (*model.Video, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return scanVideo(db.Pool.QueryRow(ctx, videoSelect+` WHERE v.id = $1`, videoID))
}

func (db *Postgres) IncrementVideoViews(ctx context.Context, videoID int64) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("video not found")
	}
	return nil
}

// ListVideos returns published videos, optionally restricted to one owner.
// Unpublished videos are included only when the viewer is that owner.
func (db *Postgres) ListVideos(ctx context.Context, ownerID, viewerID int64, page model.Page) ([]model.Video, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, videoSelect+`
		WHERE ($1::BIGINT = 0 OR v.owner_id = $1)
			AND (v.is_published OR v.owner_id = $2)
		ORDER BY v.created_at DESC, v.id ASC
		LIMIT $3 OFFSET $4
	`, ownerID, viewerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	videos := make([]model.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, dbErr(rows.Err())
}

func (db *Postgres) UpdateVideo(ctx context.Context, videoID int64, req model.UpdateVideoRequest) (*model.Video, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE videos
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			thumbnail = COALESCE($4, thumbnail),
			updated_at = NOW()
		WHERE id = $1
	`, videoID, req.Title, req.Description, req.Thumbnail)
	if err != nil {
		return nil, dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("video not found")
	}
	return scanVideo(db.Pool.QueryRow(ctx, videoSelect+` WHERE v.id = $1`, videoID))
}

// DeleteVideo removes the video and every like that targeted it.
func (db *Postgres) DeleteVideo(ctx context.Context, videoID int64) error {
	return db.deleteWithLikes(ctx, `DELETE FROM videos WHERE id = $1`, model.KindVideoLike, videoID, "video not found")
}

func (db *Postgres) SetVideoPublished(ctx context.Context, videoID int64, published bool) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE videos SET is_published = $2, updated_at = NOW() WHERE id = $1
	`, videoID, published)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("video not found")
	}
	return nil
}
