package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, model.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// writeError is the single place where the error taxonomy becomes a status
// code. Unclassified failures are recorded on the context for RequestLogger
// and reported to the client without detail.
func writeError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, model.ErrorResponse{
		StatusCode: status,
		Data:       nil,
		Message:    apperr.PublicMessage(err),
		Success:    false,
	})
}
