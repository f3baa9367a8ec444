package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type PlaylistHandler struct {
	svc   *service.PlaylistService
	pages Pagination
}

func NewPlaylistHandler(svc *service.PlaylistService, pages Pagination) *PlaylistHandler {
	return &PlaylistHandler{svc: svc, pages: pages}
}

// CreatePlaylist godoc
// @Summary Create a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PlaylistRequest true "Name and description"
// @Success 201 {object} model.APIResponse{data=model.Playlist}
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/playlists [post]
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req model.PlaylistRequest
	if !bindJSON(c, &req) {
		return
	}
	playlist, err := h.svc.Create(c.Request.Context(), GetAuthUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "Playlist created successfully")
}

// GetPlaylist godoc
// @Summary Get a playlist with its videos
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param playlistId path int true "Playlist ID"
// @Success 200 {object} model.APIResponse{data=model.Playlist}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/playlists/{playlistId} [get]
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		writeError(c, err)
		return
	}
	playlist, err := h.svc.Get(c.Request.Context(), playlistID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist fetched successfully")
}

// UserPlaylists godoc
// @Summary Playlists of a user
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.Playlist}
// @Router /api/v1/playlists/user/{userId} [get]
func (h *PlaylistHandler) UserPlaylists(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		writeError(c, err)
		return
	}
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	playlists, err := h.svc.ListByUser(c.Request.Context(), userID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "Playlists fetched successfully")
}

// UpdatePlaylist godoc
// @Summary Rename or describe a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlistId path int true "Playlist ID"
// @Param request body model.UpdatePlaylistRequest true "Fields to change"
// @Success 200 {object} model.APIResponse{data=model.Playlist}
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/playlists/{playlistId} [patch]
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req model.UpdatePlaylistRequest
	if !bindJSON(c, &req) {
		return
	}
	playlist, err := h.svc.Update(c.Request.Context(), playlistID, GetAuthUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "Playlist updated successfully")
}

// DeletePlaylist godoc
// @Summary Delete a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param playlistId path int true "Playlist ID"
// @Success 200 {object} model.APIResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/playlists/{playlistId} [delete]
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), playlistID, GetAuthUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Playlist deleted successfully")
}

// AddVideo godoc
// @Summary Add a video to a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Param playlistId path int true "Playlist ID"
// @Success 200 {object} model.APIResponse{data=model.Playlist}
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/playlists/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	h.changeVideos(c, h.svc.AddVideo, "Video added to playlist")
}

// RemoveVideo godoc
// @Summary Remove a video from a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Param playlistId path int true "Playlist ID"
// @Success 200 {object} model.APIResponse{data=model.Playlist}
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/playlists/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	h.changeVideos(c, h.svc.RemoveVideo, "Video removed from playlist")
}

type playlistVideoOp func(ctx context.Context, playlistID, videoID, userID int64) (*model.Playlist, error)

func (h *PlaylistHandler) changeVideos(c *gin.Context, op playlistVideoOp, message string) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		writeError(c, err)
		return
	}
	playlist, err := op(c.Request.Context(), playlistID, videoID, GetAuthUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, message)
}
