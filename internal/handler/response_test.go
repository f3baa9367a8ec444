package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/apperr"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.InvalidInput("bad title"), http.StatusBadRequest, "invalid input: bad title"},
		{apperr.Unauthenticated("expired"), http.StatusUnauthorized, "unauthenticated: expired"},
		{apperr.Unauthorized("not the owner"), http.StatusForbidden, "unauthorized: not the owner"},
		{apperr.NotFound("video not found"), http.StatusNotFound, "not found: video not found"},
		{apperr.Conflict("username taken"), http.StatusConflict, "conflict: username taken"},
		{apperr.WrapInternal(context.DeadlineExceeded, "count"), http.StatusGatewayTimeout, "storage timeout"},
		{errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			r := newTestEngine()
			var recorded int
			r.GET("/x", func(c *gin.Context) {
				writeError(c, tc.err)
				recorded = len(c.Errors)
			})

			w, env := perform(t, r, http.MethodGet, "/x", "")
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.status, env.StatusCode)
			require.Equal(t, tc.message, env.Message)
			require.False(t, env.Success)
			require.JSONEq(t, "null", string(env.Data))
			if tc.status >= http.StatusInternalServerError {
				require.Equal(t, 1, recorded)
			} else {
				require.Zero(t, recorded)
			}
		})
	}
}

func TestRespond_Envelope(t *testing.T) {
	r := newTestEngine()
	r.GET("/x", func(c *gin.Context) {
		respond(c, http.StatusCreated, map[string]int{"id": 1}, "created")
	})

	w, env := perform(t, r, http.MethodGet, "/x", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "created", env.Message)
	require.JSONEq(t, `{"id":1}`, string(env.Data))
}
