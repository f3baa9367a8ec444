package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type VideoHandler struct {
	svc   *service.VideoService
	pages Pagination
}

func NewVideoHandler(svc *service.VideoService, pages Pagination) *VideoHandler {
	return &VideoHandler{svc: svc, pages: pages}
}

// ListVideos godoc
// @Summary List videos
// @Description Newest first. Unpublished videos appear only to their owner.
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Only videos of this owner"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.Video}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	var ownerID int64
	if raw := c.Query("userId"); raw != "" {
		ownerID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			writeError(c, apperr.InvalidInput("invalid userId"))
			return
		}
	}
	videos, err := h.svc.List(c.Request.Context(), ownerID, GetAuthUserID(c), page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "Videos fetched successfully")
}

// PublishVideo godoc
// @Summary Publish a video
// @Description Stores metadata only; the media URLs come from an external upload.
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateVideoRequest true "Video metadata"
// @Success 201 {object} model.APIResponse{data=model.Video}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/videos [post]
func (h *VideoHandler) PublishVideo(c *gin.Context) {
	var req model.CreateVideoRequest
	if !bindJSON(c, &req) {
		return
	}
	video, err := h.svc.Publish(c.Request.Context(), GetAuthUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "Video published successfully")
}

// GetVideo godoc
// @Summary Get a video
// @Description Counts a view.
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Success 200 {object} model.APIResponse{data=model.Video}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/videos/{videoId} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	video, err := h.svc.Get(c.Request.Context(), videoID, GetAuthUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video fetched successfully")
}

// UpdateVideo godoc
// @Summary Update a video
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Param request body model.UpdateVideoRequest true "Fields to change"
// @Success 200 {object} model.APIResponse{data=model.Video}
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/videos/{videoId} [patch]
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req model.UpdateVideoRequest
	if !bindJSON(c, &req) {
		return
	}
	video, err := h.svc.Update(c.Request.Context(), videoID, GetAuthUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video updated successfully")
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Success 200 {object} model.APIResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/videos/{videoId} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), videoID, GetAuthUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Video deleted successfully")
}

// TogglePublish godoc
// @Summary Toggle the publish flag
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Success 200 {object} model.APIResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	published, err := h.svc.TogglePublish(c.Request.Context(), videoID, GetAuthUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"videoId": videoID, "isPublished": published}, "Publish status toggled successfully")
}

// WatchHistory godoc
// @Summary Watch history of the current user
// @Description Most recently watched first. Each video appears once.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.WatchedVideo}
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/history [get]
func (h *VideoHandler) WatchHistory(c *gin.Context) {
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	history, err := h.svc.WatchHistory(c.Request.Context(), GetAuthUserID(c), page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, history, "Watch history fetched successfully")
}
