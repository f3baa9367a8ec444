package service

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, ownerID int64, name, description string) (*model.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID int64) (*model.Playlist, error)
	ListUserPlaylists(ctx context.Context, ownerID int64, page model.Page) ([]model.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlistID int64, req model.UpdatePlaylistRequest) error
	DeletePlaylist(ctx context.Context, playlistID int64) error
	AddPlaylistVideo(ctx context.Context, playlistID, videoID int64) error
	RemovePlaylistVideo(ctx context.Context, playlistID, videoID int64) error
}

type PlaylistService struct {
	store   PlaylistStore
	objects ObjectChecker
}

func NewPlaylistService(store PlaylistStore, objects ObjectChecker) *PlaylistService {
	return &PlaylistService{store: store, objects: objects}
}

func (s *PlaylistService) Create(ctx context.Context, userID int64, req model.PlaylistRequest) (*model.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, apperr.InvalidInput("name and description are required")
	}
	playlist, err := s.store.CreatePlaylist(ctx, userID, name, description)
	if err != nil {
		return nil, apperr.WrapInternal(err, "create playlist")
	}
	return playlist, nil
}

func (s *PlaylistService) Get(ctx context.Context, playlistID int64) (*model.Playlist, error) {
	playlist, err := s.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, apperr.WrapInternal(err, "load playlist")
	}
	return playlist, nil
}

func (s *PlaylistService) ListByUser(ctx context.Context, ownerID int64, page model.Page) ([]model.Playlist, error) {
	playlists, err := s.store.ListUserPlaylists(ctx, ownerID, page)
	if err != nil {
		return nil, apperr.WrapInternal(err, "list playlists")
	}
	return playlists, nil
}

func (s *PlaylistService) Update(ctx context.Context, playlistID, userID int64, req model.UpdatePlaylistRequest) (*model.Playlist, error) {
	if req.Name == nil && req.Description == nil {
		return nil, apperr.InvalidInput("nothing to update")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.InvalidInput("name must not be empty")
	}
	if err := s.owned(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	if err := s.store.UpdatePlaylist(ctx, playlistID, req); err != nil {
		return nil, apperr.WrapInternal(err, "update playlist")
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, userID int64) error {
	if err := s.owned(ctx, playlistID, userID); err != nil {
		return err
	}
	return apperr.WrapInternal(s.store.DeletePlaylist(ctx, playlistID), "delete playlist")
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID int64) (*model.Playlist, error) {
	if err := s.owned(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	exists, err := s.objects.ObjectExists(ctx, model.KindVideoLike, videoID, userID)
	if err != nil {
		return nil, apperr.WrapInternal(err, "check video")
	}
	if !exists {
		return nil, apperr.NotFound("video not found")
	}
	if err := s.store.AddPlaylistVideo(ctx, playlistID, videoID); err != nil {
		return nil, apperr.WrapInternal(err, "add video to playlist")
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID int64) (*model.Playlist, error) {
	if err := s.owned(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	if err := s.store.RemovePlaylistVideo(ctx, playlistID, videoID); err != nil {
		return nil, apperr.WrapInternal(err, "remove video from playlist")
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) owned(ctx context.Context, playlistID, userID int64) error {
	playlist, err := s.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return apperr.WrapInternal(err, "load playlist")
	}
	if playlist.OwnerID != userID {
		return apperr.Unauthorized("only the owner can modify this playlist")
	}
	return nil
}
