package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/service"
)

type DashboardHandler struct {
	reader *service.AggregationService
	videos *service.VideoService
	pages  Pagination
}

func NewDashboardHandler(reader *service.AggregationService, videos *service.VideoService, pages Pagination) *DashboardHandler {
	return &DashboardHandler{reader: reader, videos: videos, pages: pages}
}

// Stats godoc
// @Summary Channel statistics of the caller
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse{data=model.ChannelStats}
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.reader.ChannelStats(c.Request.Context(), GetAuthUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

// Videos godoc
// @Summary Every video of the caller, published or not
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} model.APIResponse{data=[]model.Video}
// @Router /api/v1/dashboard/videos [get]
func (h *DashboardHandler) Videos(c *gin.Context) {
	page, err := queryPage(c, h.pages)
	if err != nil {
		writeError(c, err)
		return
	}
	userID := GetAuthUserID(c)
	videos, err := h.videos.List(c.Request.Context(), userID, userID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, videos, "Channel videos fetched successfully")
}
