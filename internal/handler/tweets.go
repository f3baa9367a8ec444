package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type TweetHandler struct {
	svc   *service.TweetService
	pages Pagination
}

func NewTweetHandler(svc *service.TweetService, pages Pagination) *TweetHandler {
	return &TweetHandler{svc: svc, pages: pages}
}

// CreateTweet godoc
// @Summary Post a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ContentRequest true "Tweet text"
// @Success 201 {object} model.APIResponse{data=model.Tweet}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/tweets [post]
func (h *TweetHandler) CreateTweet(c *gin.Context) {
	var req model.ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	tweet, err := h.svc.Create(c.Request.Context(), GetAuthUserID(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "Tweet created successfully")
}

// UserTweets godoc
// @Summary Tweets of a user
// @Tags tweets
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.Tweet}
// @Router /api/v1/tweets/user/{userId} [get]
func (h *TweetHandler) UserTweets(c *gin.Context) {
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
	tweets, err := h.svc.ListByUser(c.Request.Context(), userID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

// UpdateTweet godoc
// @Summary Edit a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tweetId path int true "Tweet ID"
// @Param request body model.ContentRequest true "Tweet text"
// @Success 200 {object} model.APIResponse{data=model.Tweet}
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/tweets/{tweetId} [patch]
func (h *TweetHandler) UpdateTweet(c *gin.Context) {
	tweetID, err := pathID(c, "tweetId")
	if err != nil {
		writeError(c, err)
		return
	}
	var req model.ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	tweet, err := h.svc.Update(c.Request.Context(), tweetID, GetAuthUserID(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet godoc
// @Summary Delete a tweet
// @Tags tweets
// @Produce json
// @Security BearerAuth
// @Param tweetId path int true "Tweet ID"
// @Success 200 {object} model.APIResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/tweets/{tweetId} [delete]
func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	tweetID, err := pathID(c, "tweetId")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), tweetID, GetAuthUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}
