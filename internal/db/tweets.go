package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

const tweetSelect = `
	SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
		u.id, u.username, u.full_name, u.avatar
	FROM tweets t
	JOIN users u ON u.id = t.owner_id`

func scanTweet(row pgx.Row) (*model.Tweet, error) {
	var tweet model.Tweet
	err := row.Scan(
		&tweet.ID,
		&tweet.OwnerID,
		&tweet.Content,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
		&tweet.Owner.ID,
		&tweet.Owner.Username,
		&tweet.Owner.FullName,
		&tweet.Owner.Avatar,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("tweet not found")
		}
		return nil, dbErr(err)
	}
	return &tweet, nil
}

func (db *Postgres) CreateTweet(ctx context.Context, ownerID int64, content string) (*model.Tweet, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO tweets (owner_id, content, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`, ownerID, content).Scan(&id)
	if err != nil {
		return nil, dbErr(err)
	}
	return scanTweet(db.Pool.QueryRow(ctx, tweetSelect+` WHERE t.id = $1`, id))
}

func (db *Postgres) GetTweet(ctx context.Context, tweetID int64) (*model.Tweet, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return scanTweet(db.Pool.QueryRow(ctx, tweetSelect+` WHERE t.id = $1`, tweetID))
}

func (db *Postgres) ListUserTweets(ctx context.Context, ownerID int64, page model.Page) ([]model.Tweet, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, tweetSelect+`
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC, t.id ASC
		LIMIT $2 OFFSET $3
	`, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	tweets := make([]model.Tweet, 0)
	for rows.Next() {
		tweet, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, *tweet)
	}
	return tweets, dbErr(rows.Err())
}

func (db *Postgres) UpdateTweet(ctx context.Context, tweetID int64, content string) (*model.Tweet, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE tweets SET content = $2, updated_at = NOW() WHERE id = $1
	`, tweetID, content)
	if err != nil {
		return nil, dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("tweet not found")
	}
	return scanTweet(db.Pool.QueryRow(ctx, tweetSelect+` WHERE t.id = $1`, tweetID))
}

func (db *Postgres) DeleteTweet(ctx context.Context, tweetID int64) error {
	return db.deleteWithLikes(ctx, `DELETE FROM tweets WHERE id = $1`, model.KindTweetLike, tweetID, "tweet not found")
}
