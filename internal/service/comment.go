package service

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

type CommentStore interface {
	CreateComment(ctx context.Context, videoID, ownerID int64, content string) (*model.Comment, error)
	GetComment(ctx context.Context, commentID int64) (*model.Comment, error)
	ListComments(ctx context.Context, videoID int64, page model.Page) ([]model.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

type CommentService struct {
	store   CommentStore
	objects ObjectChecker
}

func NewCommentService(store CommentStore, objects ObjectChecker) *CommentService {
	return &CommentService{store: store, objects: objects}
}

func (s *CommentService) Add(ctx context.Context, videoID, userID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidInput("content is required")
	}
	if err := s.requireVideo(ctx, videoID, userID); err != nil {
		return nil, err
	}
	comment, err := s.store.CreateComment(ctx, videoID, userID, content)
	if err != nil {
		return nil, apperr.WrapInternal(err, "create comment")
	}
	return comment, nil
}

// List returns comments on videoID. Comments on an unpublished video are
// visible only to its owner.
func (s *CommentService) List(ctx context.Context, videoID, viewerID int64, page model.Page) ([]model.Comment, error) {
	if err := s.requireVideo(ctx, videoID, viewerID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, videoID, page)
	if err != nil {
		return nil, apperr.WrapInternal(err, "list comments")
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidInput("content is required")
	}
	if err := s.owned(ctx, commentID, userID); err != nil {
		return nil, err
	}
	comment, err := s.store.UpdateComment(ctx, commentID, content)
	if err != nil {
		return nil, apperr.WrapInternal(err, "update comment")
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	if err := s.owned(ctx, commentID, userID); err != nil {
		return err
	}
	return apperr.WrapInternal(s.store.DeleteComment(ctx, commentID), "delete comment")
}

func (s *CommentService) owned(ctx context.Context, commentID, userID int64) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return apperr.WrapInternal(err, "load comment")
	}
	if comment.OwnerID != userID {
		return apperr.Unauthorized("only the author can modify this comment")
	}
	return nil
}

func (s *CommentService) requireVideo(ctx context.Context, videoID, viewerID int64) error {
	exists, err := s.objects.ObjectExists(ctx, model.KindVideoLike, videoID, viewerID)
	if err != nil {
		return apperr.WrapInternal(err, "check video")
	}
	if !exists {
		return apperr.NotFound("video not found")
	}
	return nil
}
