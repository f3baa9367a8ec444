package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

// Pagination holds the page size used when a request gives none and the
// ceiling applied to every request.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("invalid " + name)
	}
	return id, nil
}

func queryPage(c *gin.Context, p Pagination) (model.Page, error) {
	number, err := queryInt(c, "page", 1)
	if err != nil {
		return model.Page{}, err
	}
	size, err := queryInt(c, "limit", p.DefaultSize)
	if err != nil {
		return model.Page{}, err
	}
	return model.NewPage(number, size, p.MaxSize), nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidInput("invalid " + name)
	}
	return value, nil
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, apperr.InvalidInput("invalid request body"))
		return false
	}
	return true
}
