package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/service"
)

type SubscriptionHandler struct {
	toggles *service.ToggleService
	reader  *service.AggregationService
	pages   Pagination
}

func NewSubscriptionHandler(toggles *service.ToggleService, reader *service.AggregationService, pages Pagination) *SubscriptionHandler {
	return &SubscriptionHandler{toggles: toggles, reader: reader, pages: pages}
}

// ToggleSubscription godoc
// @Summary Subscribe to or unsubscribe from a channel
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param channelId path int true "Channel (user) ID"
// @Success 200 {object} model.APIResponse{data=model.SubscriptionResponse}
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) ToggleSubscription(c *gin.Context) {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.toggles.ToggleSubscription(c.Request.Context(), GetAuthUserID(c), channelID)
	if err != nil {
		writeError(c, err)
		return
	}
	message := "Unsubscribed successfully"
	if res.Subscribed {
		message = "Subscribed successfully"
	}
	respond(c, http.StatusOK, res, message)
}

// ChannelSubscribers godoc
// @Summary Subscribers of a channel
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param channelId path int true "Channel (user) ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=model.SubscribersResponse}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) ChannelSubscribers(c *gin.Context) {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		writeError(c, err)
		return
	}
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := h.reader.Subscribers(c.Request.Context(), channelID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp, "Subscribers fetched successfully")
}

// SubscribedChannels godoc
// @Summary Channels a user subscribes to
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param subscriberId path int true "Subscriber (user) ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=model.SubscribedChannelsResponse}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	subscriberID, err := pathID(c, "subscriberId")
	if err != nil {
		writeError(c, err)
		return
	}
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := h.reader.SubscribedChannels(c.Request.Context(), subscriberID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp, "Subscribed channels fetched successfully")
}
