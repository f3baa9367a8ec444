package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/model"
)

func TestQueryPage(t *testing.T) {
	pages := Pagination{DefaultSize: 10, MaxSize: 50}
	cases := []struct {
		query  string
		status int
		want   model.Page
	}{
		{"", http.StatusOK, model.Page{Number: 1, Size: 10}},
		{"?page=3&limit=5", http.StatusOK, model.Page{Number: 3, Size: 5}},
		{"?page=0&limit=-4", http.StatusOK, model.Page{Number: 1, Size: 1}},
		{"?limit=500", http.StatusOK, model.Page{Number: 1, Size: 50}},
		{"?page=two", http.StatusBadRequest, model.Page{}},
		{"?limit=1.5", http.StatusBadRequest, model.Page{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			r := newTestEngine()
			var got model.Page
			r.GET("/items", func(c *gin.Context) {
				page, err := queryPage(c, pages)
				if err != nil {
					writeError(c, err)
					return
				}
				got = page
				c.Status(http.StatusOK)
			})

			w, _ := perform(t, r, http.MethodGet, "/items"+tc.query, "")
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPathID(t *testing.T) {
	r := newTestEngine()
	r.GET("/videos/:videoId", func(c *gin.Context) {
		id, err := pathID(c, "videoId")
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, id, "ok")
	})

	for path, status := range map[string]int{
		"/videos/42":  http.StatusOK,
		"/videos/0":   http.StatusBadRequest,
		"/videos/-1":  http.StatusBadRequest,
		"/videos/abc": http.StatusBadRequest,
	} {
		w, _ := perform(t, r, http.MethodGet, path, "")
		require.Equal(t, status, w.Code, path)
	}
}

func TestBindJSON_RejectsMalformedBody(t *testing.T) {
	r := newTestEngine()
	r.POST("/tweets", func(c *gin.Context) {
		var req model.ContentRequest
		if !bindJSON(c, &req) {
			return
		}
		respond(c, http.StatusCreated, req, "ok")
	})

	w, env := perform(t, r, http.MethodPost, "/tweets", `{"content":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid input: invalid request body", env.Message)

	w, _ = perform(t, r, http.MethodPost, "/tweets", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/tweets", `{"content":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)
}
