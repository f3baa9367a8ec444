package service

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

type VideoStore interface {
	CreateVideo(ctx context.Context, ownerID int64, req model.CreateVideoRequest) (*model.Video, error)
	GetVideo(ctx context.Context, videoID int64) (*model.Video, error)
	IncrementVideoViews(ctx context.Context, videoID int64) error
	ListVideos(ctx context.Context, ownerID, viewerID int64, page model.Page) ([]model.Video, error)
	UpdateVideo(ctx context.Context, videoID int64, req model.UpdateVideoRequest) (*model.Video, error)
	DeleteVideo(ctx context.Context, videoID int64) error
	SetVideoPublished(ctx context.Context, videoID int64, published bool) error
	RecordWatch(ctx context.Context, userID, videoID int64) error
	ListWatchHistory(ctx context.Context, userID int64, page model.Page) ([]model.WatchedVideo, error)
}

// VideoService owns video CRUD, view counting and watch history.
type VideoService struct {
	store VideoStore
}

func NewVideoService(store VideoStore) *VideoService {
	return &VideoService{store: store}
}

func (s *VideoService) Publish(ctx context.Context, ownerID int64, req model.CreateVideoRequest) (*model.Video, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.VideoFile = strings.TrimSpace(req.VideoFile)
	req.Thumbnail = strings.TrimSpace(req.Thumbnail)
	if req.Title == "" || req.Description == "" {
		return nil, apperr.InvalidInput("title and description are required")
	}
	if req.VideoFile == "" || req.Thumbnail == "" {
		return nil, apperr.InvalidInput("videoFile and thumbnail are required")
	}
	if req.Duration < 0 {
		return nil, apperr.InvalidInput("duration must not be negative")
	}

	video, err := s.store.CreateVideo(ctx, ownerID, req)
	if err != nil {
		return nil, apperr.WrapInternal(err, "create video")
	}
	return video, nil
}

// Get returns the video, counts the view and records it in the viewer's
// watch history. Unpublished videos exist only for their owner.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID int64) (*model.Video, error) {
	video, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, apperr.WrapInternal(err, "load video")
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("video not found")
	}
	if err := s.store.IncrementVideoViews(ctx, videoID); err != nil {
		return nil, apperr.WrapInternal(err, "count view")
	}
	video.Views++
	if viewerID > 0 {
		if err := s.store.RecordWatch(ctx, viewerID, videoID); err != nil {
			return nil, apperr.WrapInternal(err, "record watch")
		}
	}
	return video, nil
}

// WatchHistory lists the videos userID watched, most recent first.
func (s *VideoService) WatchHistory(ctx context.Context, userID int64, page model.Page) ([]model.WatchedVideo, error) {
	if userID <= 0 {
		return nil, apperr.Unauthenticated("no resolved user")
	}
	history, err := s.store.ListWatchHistory(ctx, userID, page)
	if err != nil {
		return nil, apperr.WrapInternal(err, "list watch history")
	}
	return history, nil
}

func (s *VideoService) List(ctx context.Context, ownerID, viewerID int64, page model.Page) ([]model.Video, error) {
	videos, err := s.store.ListVideos(ctx, ownerID, viewerID, page)
	if err != nil {
		return nil, apperr.WrapInternal(err, "list videos")
	}
	return videos, nil
}

func (s *VideoService) Update(ctx context.Context, videoID, userID int64, req model.UpdateVideoRequest) (*model.Video, error) {
	if req.Title == nil && req.Description == nil && req.Thumbnail == nil {
		return nil, apperr.InvalidInput("nothing to update")
	}
	for _, field := range []*string{req.Title, req.Description, req.Thumbnail} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return nil, apperr.InvalidInput("fields must not be empty")
		}
	}
	if _, err := s.owned(ctx, videoID, userID); err != nil {
		return nil, err
	}

	video, err := s.store.UpdateVideo(ctx, videoID, req)
	if err != nil {
		return nil, apperr.WrapInternal(err, "update video")
	}
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, videoID, userID int64) error {
	if _, err := s.owned(ctx, videoID, userID); err != nil {
		return err
	}
	return apperr.WrapInternal(s.store.DeleteVideo(ctx, videoID), "delete video")
}

// TogglePublish flips the publish flag and returns the new value.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, userID int64) (bool, error) {
	video, err := s.owned(ctx, videoID, userID)
	if err != nil {
		return false, err
	}
	published := !video.IsPublished
	if err := s.store.SetVideoPublished(ctx, videoID, published); err != nil {
		return false, apperr.WrapInternal(err, "toggle publish")
	}
	return published, nil
}

func (s *VideoService) owned(ctx context.Context, videoID, userID int64) (*model.Video, error) {
	video, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, apperr.WrapInternal(err, "load video")
	}
	if video.OwnerID != userID {
		return nil, apperr.Unauthorized("only the owner can modify this video")
	}
	return video, nil
}
