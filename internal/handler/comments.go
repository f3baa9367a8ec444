package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type CommentHandler struct {
	svc   *service.CommentService
	pages Pagination
}

func NewCommentHandler(svc *service.CommentService, pages Pagination) *CommentHandler {
	return &CommentHandler{svc: svc, pages: pages}
}

// ListComments godoc
// @Summary Comments on a video
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.Comment}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/comments/{videoId} [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	comments, err := h.svc.List(c.Request.Context(), videoID, GetAuthUserID(c), page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, comments, "Comments fetched successfully")
}

// AddComment godoc
// @Summary Comment on a video
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "Video ID"
// @Param request body model.ContentRequest true "Comment text"
// @Success 201 {object} model.APIResponse{data=model.Comment}
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/comments/{videoId} [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	videoID, err := pathID(c, "videoId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req model.ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.svc.Add(c.Request.Context(), videoID, GetAuthUserID(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, comment, "Comment added successfully")
}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param request body model.ContentRequest true "Comment text"
// @Success 200 {object} model.APIResponse{data=model.Comment}
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/comments/c/{commentId} [patch]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req model.ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.svc.Update(c.Request.Context(), commentID, GetAuthUserID(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} model.APIResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/comments/c/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), commentID, GetAuthUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Comment deleted successfully")
}
