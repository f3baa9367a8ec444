package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
)

type AuthHandler struct {
	svc      *service.AuthService
	channels *service.AggregationService
}

func NewAuthHandler(svc *service.AuthService, channels *service.AggregationService) *AuthHandler {
	return &AuthHandler{svc: svc, channels: channels}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account. Does not log in.
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "New account"
// @Success 201 {object} model.APIResponse{data=model.User}
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login godoc
// @Summary Login
// @Description Username or email plus password. Sets accessToken and refreshToken cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.APIResponse{data=model.AuthResponse}
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, h.authResponse(user, pair), "User logged in successfully")
}

// Refresh godoc
// @Summary Rotate the session
// @Description Reads the rotation credential from the refreshToken cookie or the request body. Each credential works once.
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest false "Rotation credential when not sent as a cookie"
// @Success 200 {object} model.APIResponse{data=model.AuthResponse}
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users/refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(service.RefreshCookieName)
	if token == "" {
		var req model.RefreshRequest
		// an empty body is allowed when the cookie is absent; the service rejects the blank token
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	pair, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearSessionCookies(c)
		writeError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, h.authResponse(nil, pair), "Access token refreshed")
}

// Logout godoc
// @Summary Logout
// @Description Revokes every rotation credential of the caller and clears the cookies.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), GetAuthUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	h.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

// CurrentUser godoc
// @Summary Get current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse{data=model.User}
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/current-user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), GetAuthUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// ChangePassword godoc
// @Summary Change password
// @Description Also revokes the current session family.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} model.APIResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), GetAuthUserID(c), req); err != nil {
		writeError(c, err)
		return
	}
	h.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

// UpdateAccount godoc
// @Summary Update account details
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateAccountRequest true "Full name and/or email"
// @Success 200 {object} model.APIResponse{data=model.User}
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/users/update-account [patch]
func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	var req model.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.UpdateAccount(c.Request.Context(), GetAuthUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar godoc
// @Summary Update avatar URL
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateImageRequest true "Image URL"
// @Success 200 {object} model.APIResponse{data=model.User}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/users/avatar [patch]
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	var req model.UpdateImageRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.UpdateAvatar(c.Request.Context(), GetAuthUserID(c), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Avatar updated successfully")
}

// UpdateCoverImage godoc
// @Summary Update cover image URL
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateImageRequest true "Image URL"
// @Success 200 {object} model.APIResponse{data=model.User}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/users/cover-image [patch]
func (h *AuthHandler) UpdateCoverImage(c *gin.Context) {
	var req model.UpdateImageRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.UpdateCoverImage(c.Request.Context(), GetAuthUserID(c), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Cover image updated successfully")
}

// ChannelProfile godoc
// @Summary Get a channel profile
// @Description Includes subscriber counts and whether the caller is subscribed.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Channel username"
// @Success 200 {object} model.APIResponse{data=model.ChannelProfile}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/c/{username} [get]
func (h *AuthHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.channels.ChannelProfile(c.Request.Context(), c.Param("username"), GetAuthUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *AuthHandler) authResponse(user *model.User, pair model.TokenPair) model.AuthResponse {
	return model.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.svc.AccessCookie().MaxAge),
	}
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, pair model.TokenPair) {
	for _, cookie := range []struct {
		cfg   service.CookieConfig
		value string
	}{
		{h.svc.AccessCookie(), pair.AccessToken},
		{h.svc.RefreshCookie(), pair.RefreshToken},
	} {
		c.SetSameSite(cookie.cfg.SameSite)
		c.SetCookie(cookie.cfg.Name, cookie.value, cookie.cfg.MaxAge, cookie.cfg.Path, cookie.cfg.Domain, cookie.cfg.Secure, true)
	}
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	for _, cfg := range []service.CookieConfig{h.svc.AccessCookie(), h.svc.RefreshCookie()} {
		c.SetSameSite(cfg.SameSite)
		c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	}
}
