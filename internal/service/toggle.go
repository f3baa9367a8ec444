package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

// AssociationStore persists (subject, kind, object) rows. FindAssociation
// reports apperr.ErrNotFound when the row is absent.
type AssociationStore interface {
	FindAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (*model.Association, error)
	InsertAssociation(ctx context.Context, a model.Association) error
	DeleteAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (bool, error)
	CountAssociations(ctx context.Context, kind model.AssociationKind, objectID int64) (int64, error)
}

// ObjectChecker reports whether the target of an association exists and is
// visible to viewerID. Unpublished videos are visible only to their owner.
type ObjectChecker interface {
	ObjectExists(ctx context.Context, kind model.AssociationKind, objectID, viewerID int64) (bool, error)
}

// ToggleService flips likes and subscriptions. Each flip reads the current
// row, then runs one conditional statement: delete-if-present when the row
// was found, insert-if-absent when it was not. The outcome reported is the
// state the caller asked for, so callers that observed the same state agree
// and the unique index on (subject, kind, object) leaves exactly one net flip.
// Nothing is retried: a retried toggle would flip twice.
type ToggleService struct {
	store   AssociationStore
	objects ObjectChecker
}

// NewToggleService returns a ToggleService over store, checking targets with objects.
func NewToggleService(store AssociationStore, objects ObjectChecker) *ToggleService {
	return &ToggleService{store: store, objects: objects}
}

// Toggle flips the association between subjectID and objectID. It fails with
// ErrUnauthenticated for a missing subject, ErrInvalidInput for a bad kind, id
// or self-subscription, and ErrNotFound when the target is absent or hidden.
func (s *ToggleService) Toggle(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (model.ToggleResult, error) {
	if subjectID <= 0 {
		return model.ToggleResult{}, apperr.Unauthenticated("no resolved subject")
	}
	if !kind.Valid() {
		return model.ToggleResult{}, apperr.InvalidInput(fmt.Sprintf("invalid association kind: %s", kind))
	}
	if objectID <= 0 {
		return model.ToggleResult{}, apperr.InvalidInput("invalid object id")
	}
	if kind == model.KindSubscription && subjectID == objectID {
		return model.ToggleResult{}, apperr.InvalidInput("cannot subscribe to your own channel")
	}

	exists, err := s.objects.ObjectExists(ctx, kind, objectID, subjectID)
	if err != nil {
		return model.ToggleResult{}, apperr.WrapInternal(err, "check object")
	}
	if !exists {
		return model.ToggleResult{}, apperr.NotFound(fmt.Sprintf("%s target %d does not exist", kind, objectID))
	}

	active, err := s.flip(ctx, subjectID, kind, objectID)
	if err != nil {
		return model.ToggleResult{}, err
	}

	total, err := s.store.CountAssociations(ctx, kind, objectID)
	if err != nil {
		return model.ToggleResult{}, apperr.WrapInternal(err, "count associations")
	}
	return model.ToggleResult{Active: active, TotalCount: total}, nil
}

// flip returns the state after the toggle. A delete that removed nothing or
// an insert that hit the unique index means a concurrent caller already
// applied the same flip.
func (s *ToggleService) flip(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (bool, error) {
	_, err := s.store.FindAssociation(ctx, subjectID, kind, objectID)
	switch {
	case err == nil:
		if _, err := s.store.DeleteAssociation(ctx, subjectID, kind, objectID); err != nil {
			return false, apperr.WrapInternal(err, "delete association")
		}
		return false, nil
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return false, apperr.WrapInternal(err, "find association")
	}

	err = s.store.InsertAssociation(ctx, model.Association{
		SubjectID: subjectID,
		Kind:      kind,
		ObjectID:  objectID,
	})
	if err != nil && !errors.Is(err, apperr.ErrConflict) {
		return false, apperr.WrapInternal(err, "insert association")
	}
	return true, nil
}

func (s *ToggleService) ToggleVideoLike(ctx context.Context, userID, videoID int64) (model.VideoLikeResponse, error) {
	res, err := s.Toggle(ctx, userID, model.KindVideoLike, videoID)
	if err != nil {
		return model.VideoLikeResponse{}, err
	}
	return model.VideoLikeResponse{VideoID: videoID, Liked: res.Active, TotalLikes: res.TotalCount}, nil
}

func (s *ToggleService) ToggleCommentLike(ctx context.Context, userID, commentID int64) (model.CommentLikeResponse, error) {
	res, err := s.Toggle(ctx, userID, model.KindCommentLike, commentID)
	if err != nil {
		return model.CommentLikeResponse{}, err
	}
	return model.CommentLikeResponse{CommentID: commentID, Liked: res.Active, TotalLikes: res.TotalCount}, nil
}

func (s *ToggleService) ToggleTweetLike(ctx context.Context, userID, tweetID int64) (model.TweetLikeResponse, error) {
	res, err := s.Toggle(ctx, userID, model.KindTweetLike, tweetID)
	if err != nil {
		return model.TweetLikeResponse{}, err
	}
	return model.TweetLikeResponse{TweetID: tweetID, Liked: res.Active, TotalLikes: res.TotalCount}, nil
}

func (s *ToggleService) ToggleSubscription(ctx context.Context, userID, channelID int64) (model.SubscriptionResponse, error) {
	res, err := s.Toggle(ctx, userID, model.KindSubscription, channelID)
	if err != nil {
		return model.SubscriptionResponse{}, err
	}
	return model.SubscriptionResponse{ChannelID: channelID, Subscribed: res.Active, SubscribersCount: res.TotalCount}, nil
}
