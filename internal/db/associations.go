package db

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

// objectTables maps each association kind to the table that owns its object.
var objectTables = map[model.AssociationKind]string{
	model.KindVideoLike:    "videos",
	model.KindCommentLike:  "comments",
	model.KindTweetLike:    "tweets",
	model.KindSubscription: "users",
}

func normalizeKind(kind model.AssociationKind) (model.AssociationKind, error) {
	if !kind.Valid() {
		return "", apperr.InvalidInput(fmt.Sprintf("invalid association kind: %s", kind))
	}
	return kind, nil
}

// InsertAssociation is insert-if-absent. A duplicate (subject, kind, object)
// is rejected by the unique constraint and reported as apperr.ErrConflict.
func (db *Postgres) InsertAssociation(ctx context.Context, a model.Association) error {
	kind, err := normalizeKind(a.Kind)
	if err != nil {
		return err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO associations (subject_id, kind, object_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (subject_id, kind, object_id) DO NOTHING
	`, a.SubjectID, string(kind), a.ObjectID)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("association already exists")
	}
	return nil
}

// DeleteAssociation is delete-if-present and reports whether a row was removed.
func (db *Postgres) DeleteAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (bool, error) {
	kind, err := normalizeKind(kind)
	if err != nil {
		return false, err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM associations
		WHERE subject_id = $1 AND kind = $2 AND object_id = $3
	`, subjectID, string(kind), objectID)
	if err != nil {
		return false, dbErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *Postgres) FindAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (*model.Association, error) {
	kind, err := normalizeKind(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var a model.Association
	var rawKind string
	err = db.Pool.QueryRow(ctx, `
		SELECT subject_id, kind, object_id, created_at
		FROM associations
		WHERE subject_id = $1 AND kind = $2 AND object_id = $3
	`, subjectID, string(kind), objectID).Scan(&a.SubjectID, &rawKind, &a.ObjectID, &a.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("association not found")
		}
		return nil, dbErr(err)
	}
	a.Kind = model.AssociationKind(rawKind)
	return &a, nil
}

// CountAssociations counts every subject holding kind on objectID.
func (db *Postgres) CountAssociations(ctx context.Context, kind model.AssociationKind, objectID int64) (int64, error) {
	kind, err := normalizeKind(kind)
	if err != nil {
		return 0, err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var count int64
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM associations WHERE kind = $1 AND object_id = $2
	`, string(kind), objectID).Scan(&count)
	return count, dbErr(err)
}

// CountSubjectAssociations counts the objects a subject holds kind on.
func (db *Postgres) CountSubjectAssociations(ctx context.Context, subjectID int64, kind model.AssociationKind) (int64, error) {
	kind, err := normalizeKind(kind)
	if err != nil {
		return 0, err
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var count int64
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM associations WHERE subject_id = $1 AND kind = $2
	`, subjectID, string(kind)).Scan(&count)
	return count, dbErr(err)
}

// ObjectExists reports whether the target of kind exists. Videos count only
// when published or owned by viewerID.
func (db *Postgres) ObjectExists(ctx context.Context, kind model.AssociationKind, objectID, viewerID int64) (bool, error) {
	table, ok := objectTables[kind]
	if !ok {
		return false, apperr.InvalidInput(fmt.Sprintf("invalid association kind: %s", kind))
	}
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var exists bool
	var err error
	if kind == model.KindVideoLike {
		err = db.Pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1 AND (is_published OR owner_id = $2))
		`, objectID, viewerID).Scan(&exists)
	} else {
		err = db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, objectID).Scan(&exists)
	}
	return exists, dbErr(err)
}
