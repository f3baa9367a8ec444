package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

const commentSelect = `
	SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
		u.id, u.username, u.full_name, u.avatar
	FROM comments c
	JOIN users u ON u.id = c.owner_id`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	err := row.Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.CreatedBy.ID,
		&comment.CreatedBy.Username,
		&comment.CreatedBy.FullName,
		&comment.CreatedBy.Avatar,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, dbErr(err)
	}
	return &comment, nil
}

func (db *Postgres) CreateComment(ctx context.Context, videoID, ownerID int64, content string) (*model.Comment, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO comments (video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`, videoID, ownerID, content).Scan(&id)
	if err != nil {
		return nil, dbErr(err)
	}
	return scanComment(db.Pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

func (db *Postgres) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return scanComment(db.Pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, commentID))
}

func (db *Postgres) ListComments(ctx context.Context, videoID int64, page model.Page) ([]model.Comment, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.Pool.Query(ctx, commentSelect+`
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC, c.id ASC
		LIMIT $2 OFFSET $3
	`, videoID, page.Limit(), page.Offset())
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, dbErr(rows.Err())
}

func (db *Postgres) UpdateComment(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1
	`, commentID, content)
	if err != nil {
		return nil, dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("comment not found")
	}
	return scanComment(db.Pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, commentID))
}

// DeleteComment removes the comment and its likes in one transaction.
func (db *Postgres) DeleteComment(ctx context.Context, commentID int64) error {
	return db.deleteWithLikes(ctx, `DELETE FROM comments WHERE id = $1`, model.KindCommentLike, commentID, "comment not found")
}

func (db *Postgres) deleteWithLikes(ctx context.Context, query string, kind model.AssociationKind, id int64, missing string) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return dbErr(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(missing)
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM associations WHERE kind = $1 AND object_id = $2
	`, string(kind), id); err != nil {
		return dbErr(err)
	}
	return dbErr(tx.Commit(ctx))
}
