package db

import (
	"context"

	"github.com/vidtube/backend/internal/model"
)

// RecordWatch stores that userID watched videoID now. A repeat view only
// refreshes watched_at.
func (db *Postgres) RecordWatch(ctx context.Context, userID, videoID int64) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
	`, userID, videoID)
	return dbErr(err)
}

// ListWatchHistory returns the videos userID watched, most recent first.
// Videos unpublished since are skipped unless userID owns them.
func (db *Postgres) ListWatchHistory(ctx context.Context, userID int64, page model.Page) ([]model.WatchedVideo, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT v.id, v.title, v.video_file, v.thumbnail, v.duration, v.views,
			u.id, u.username, u.full_name, u.avatar, h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = $1 AND (v.is_published OR v.owner_id = $1)
		ORDER BY h.watched_at DESC, h.video_id ASC
		LIMIT $2 OFFSET $3
	`, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	history := make([]model.WatchedVideo, 0)
	for rows.Next() {
		var w model.WatchedVideo
		if err := rows.Scan(
			&w.Video.ID,
			&w.Video.Title,
			&w.Video.VideoFile,
			&w.Video.Thumbnail,
			&w.Video.Duration,
			&w.Video.Views,
			&w.Video.Owner.ID,
			&w.Video.Owner.Username,
			&w.Video.Owner.FullName,
			&w.Video.Owner.Avatar,
			&w.WatchedAt,
		); err != nil {
			return nil, dbErr(err)
		}
		history = append(history, w)
	}
	return history, dbErr(rows.Err())
}
