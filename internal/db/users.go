package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

const userColumns = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_secret, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.PasswordHash,
		&user.RefreshSecret,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, dbErr(err)
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (username, email, full_name, avatar, cover_image, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + userColumns
	created, err := scanUser(db.Pool.QueryRow(ctx, query,
		user.Username, user.Email, user.FullName, user.Avatar, user.CoverImage, user.PasswordHash,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("user with email or username already exists")
		}
		return nil, err
	}
	return created, nil
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, userID))
}

func (db *Postgres) GetUserByLogin(ctx context.Context, username, email string) (*model.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		ORDER BY id
		LIMIT 1
	`
	return scanUser(db.Pool.QueryRow(ctx, query, username, email))
}

func (db *Postgres) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return db.execUserUpdate(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, hash)
}

func (db *Postgres) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE users
		SET full_name = COALESCE(NULLIF($2, ''), full_name),
			email = COALESCE(NULLIF($3, ''), email),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(db.Pool.QueryRow(ctx, query, userID, fullName, email))
	if err != nil && isUniqueViolation(err) {
		return nil, apperr.Conflict("email already in use")
	}
	return user, err
}

// UpdateImage sets the avatar or cover image URL. column is chosen by the
// caller from a fixed set, never from request input.
func (db *Postgres) UpdateImage(ctx context.Context, userID int64, column, url string) (*model.User, error) {
	if column != "avatar" && column != "cover_image" {
		return nil, fmt.Errorf("invalid image column: %s", column)
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET ` + column + ` = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, url))
}

// SetRotationSecret overwrites the stored rotation secret in a single
// statement, invalidating every earlier rotation credential of the user.
func (db *Postgres) SetRotationSecret(ctx context.Context, userID int64, secretHash string) error {
	return db.execUserUpdate(ctx, `UPDATE users SET refresh_secret = $2 WHERE id = $1`, userID, secretHash)
}

// SwapRotationSecret replaces the stored secret only when it still equals
// expected. false means the presented credential was stale, reused, or the
// user no longer exists.
func (db *Postgres) SwapRotationSecret(ctx context.Context, userID int64, expected, next string) (bool, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET refresh_secret = $3
		WHERE id = $1 AND refresh_secret = $2
	`, userID, expected, next)
	if err != nil {
		return false, dbErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (db *Postgres) ClearRotationSecret(ctx context.Context, userID int64) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err := db.Pool.Exec(ctx, `UPDATE users SET refresh_secret = NULL WHERE id = $1`, userID)
	return dbErr(err)
}

func (db *Postgres) execUserUpdate(ctx context.Context, query string, userID int64, value string) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, query, userID, value)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
