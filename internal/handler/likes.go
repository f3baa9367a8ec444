package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/service"
)

type LikeHandler struct {
	toggles *service.ToggleService
	reader  *service.AggregationService
	pages   Pagination
}

func NewLikeHandler(toggles *service.ToggleService, reader *service.AggregationService, pages Pagination) *LikeHandler {
	return &LikeHandler{toggles: toggles, reader: reader, pages: pages}
}

// ToggleVideoLike godoc
// @Summary Toggle a like on a video
// @Description Idempotent flip. Repeating the call undoes it.
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Success 200 {object} model.APIResponse{data=model.VideoLikeResponse}
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.toggles.ToggleVideoLike(c.Request.Context(), GetAuthUserID(c), videoID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, res, likeMessage(res.Liked))
}

// ToggleCommentLike godoc
// @Summary Toggle a like on a comment
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} model.APIResponse{data=model.CommentLikeResponse}
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.toggles.ToggleCommentLike(c.Request.Context(), GetAuthUserID(c), commentID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, res, likeMessage(res.Liked))
}

// ToggleTweetLike godoc
// @Summary Toggle a like on a tweet
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param tweetId path int true "Tweet ID"
// @Success 200 {object} model.APIResponse{data=model.TweetLikeResponse}
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	tweetID, err := pathID(c, "tweetId")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.toggles.ToggleTweetLike(c.Request.Context(), GetAuthUserID(c), tweetID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, res, likeMessage(res.Liked))
}

// LikedVideos godoc
// @Summary Videos liked by the caller
// @Description Newest like first.
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.LikedVideo}
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/likes/videos [get]
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	videos, err := h.reader.LikedVideos(c.Request.Context(), GetAuthUserID(c), page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "Liked videos fetched successfully")
}

func likeMessage(liked bool) string {
	if liked {
		return "Liked successfully"
	}
	return "Unliked successfully"
}
