package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
)

// Pinger is satisfied by every storage backend the process depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Root reports that the API process is up.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "vidtube API server is running",
	})
}

type HealthHandler struct {
	storage []Pinger
}

func NewHealthHandler(storage ...Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Healthz godoc
// @Summary Readiness probe
// @Description Pings the document store and the credential store.
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Failure 503 {object} model.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c *gin.Context) {
	for _, p := range h.storage {
		if err := p.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, model.HealthResponse{Status: "degraded", Storage: "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok", Storage: "ok"})
}
