package db

import (
	"context"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

// Read views over associations. Every list is ordered by association time,
// newest first, with the related id as a stable tie-breaker.

// ListLikedVideos lists the videos subjectID likes. Videos unpublished after
// the like stay hidden unless subjectID owns them.
func (db *Postgres) ListLikedVideos(ctx context.Context, subjectID int64, page model.Page) ([]model.LikedVideo, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT v.id, v.title, v.video_file, v.thumbnail, v.duration, v.views,
			u.id, u.username, u.full_name, u.avatar, a.created_at
		FROM associations a
		JOIN videos v ON v.id = a.object_id
		JOIN users u ON u.id = v.owner_id
		WHERE a.subject_id = $1 AND a.kind = $2
			AND (v.is_published OR v.owner_id = $1)
		ORDER BY a.created_at DESC, a.object_id ASC
		LIMIT $3 OFFSET $4
	`, subjectID, string(model.KindVideoLike), page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	videos := make([]model.LikedVideo, 0)
	for rows.Next() {
		var lv model.LikedVideo
		if err := rows.Scan(
			&lv.Video.ID,
			&lv.Video.Title,
			&lv.Video.VideoFile,
			&lv.Video.Thumbnail,
			&lv.Video.Duration,
			&lv.Video.Views,
			&lv.Video.Owner.ID,
			&lv.Video.Owner.Username,
			&lv.Video.Owner.FullName,
			&lv.Video.Owner.Avatar,
			&lv.LikedAt,
		); err != nil {
			return nil, dbErr(err)
		}
		videos = append(videos, lv)
	}
	return videos, dbErr(rows.Err())
}

func (db *Postgres) ListSubscribedChannels(ctx context.Context, subscriberID int64, page model.Page) ([]model.ChannelSubscription, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.username, u.full_name, u.avatar, a.created_at
		FROM associations a
		JOIN users u ON u.id = a.object_id
		WHERE a.subject_id = $1 AND a.kind = $2
		ORDER BY a.created_at DESC, a.object_id ASC
		LIMIT $3 OFFSET $4
	`, subscriberID, string(model.KindSubscription), page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	channels := make([]model.ChannelSubscription, 0)
	for rows.Next() {
		var cs model.ChannelSubscription
		if err := rows.Scan(
			&cs.Channel.ID,
			&cs.Channel.Username,
			&cs.Channel.FullName,
			&cs.Channel.Avatar,
			&cs.SubscribedAt,
		); err != nil {
			return nil, dbErr(err)
		}
		channels = append(channels, cs)
	}
	return channels, dbErr(rows.Err())
}

func (db *Postgres) ListSubscribers(ctx context.Context, channelID int64, page model.Page) ([]model.Subscriber, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.username, u.full_name, u.avatar, a.created_at
		FROM associations a
		JOIN users u ON u.id = a.subject_id
		WHERE a.object_id = $1 AND a.kind = $2
		ORDER BY a.created_at DESC, a.subject_id ASC
		LIMIT $3 OFFSET $4
	`, channelID, string(model.KindSubscription), page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	subscribers := make([]model.Subscriber, 0)
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(
			&s.Subscriber.ID,
			&s.Subscriber.Username,
			&s.Subscriber.FullName,
			&s.Subscriber.Avatar,
			&s.SubscribedAt,
		); err != nil {
			return nil, dbErr(err)
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, dbErr(rows.Err())
}

func (db *Postgres) GetChannelProfile(ctx context.Context, username string, viewerID int64) (*model.ChannelProfile, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var p model.ChannelProfile
	err := db.Pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.full_name, u.email, u.avatar, u.cover_image,
			(SELECT COUNT(*) FROM associations s WHERE s.kind = $3 AND s.object_id = u.id),
			(SELECT COUNT(*) FROM associations s WHERE s.kind = $3 AND s.subject_id = u.id),
			EXISTS (SELECT 1 FROM associations s WHERE s.kind = $3 AND s.object_id = u.id AND s.subject_id = $2)
		FROM users u
		WHERE u.username = $1
	`, username, viewerID, string(model.KindSubscription)).Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.Email,
		&p.Avatar,
		&p.CoverImage,
		&p.SubscribersCount,
		&p.ChannelsSubscribedToCount,
		&p.IsSubscribed,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("channel does not exist")
		}
		return nil, dbErr(err)
	}
	return &p, nil
}

// ChannelVideoTotals returns the number of videos and the sum of their views.
func (db *Postgres) ChannelVideoTotals(ctx context.Context, ownerID int64) (int64, int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var videos, views int64
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(views), 0)::BIGINT FROM videos WHERE owner_id = $1
	`, ownerID).Scan(&videos, &views)
	return videos, views, dbErr(err)
}

// CountLikesOnChannel counts video likes across every video of the owner.
func (db *Postgres) CountLikesOnChannel(ctx context.Context, ownerID int64) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var count int64
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM associations a
		JOIN videos v ON v.id = a.object_id
		WHERE a.kind = $1 AND v.owner_id = $2
	`, string(model.KindVideoLike), ownerID).Scan(&count)
	return count, dbErr(err)
}
