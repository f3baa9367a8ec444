package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 8
	maxPasswordLength = 72
)

type UserRepository interface {
	UserLookup
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUserByLogin(ctx context.Context, username, email string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
	UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error)
	UpdateImage(ctx context.Context, userID int64, column, url string) (*model.User, error)
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

type AuthService struct {
	repo        UserRepository
	sessions    *SessionManager
	allowSignup bool
	accessCfg   CookieConfig
	refreshCfg  CookieConfig
}

// SessionConfigFromEnv parses the string-typed auth settings into a SessionConfig.
func SessionConfigFromEnv(cfg config.AuthConfig) (SessionConfig, error) {
	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("%w: invalid ACCESS_TOKEN_TTL", ErrMisconfigured)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("%w: invalid REFRESH_TOKEN_TTL", ErrMisconfigured)
	}
	return SessionConfig{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        cfg.Issuer,
	}, nil
}

func NewAuthService(repo UserRepository, sessions *SessionManager, cfg config.AuthConfig) (*AuthService, error) {
	allowSignup, err := parseBool(cfg.AllowSignup, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ALLOW_SIGNUP", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	base := CookieConfig{
		Path:     cookiePath,
		Domain:   cfg.CookieDomain,
		Secure:   cookieSecure,
		SameSite: cookieSameSite,
	}
	accessCfg, refreshCfg := base, base
	accessCfg.Name = AccessCookieName
	accessCfg.MaxAge = int(sessions.AccessTTL().Seconds())
	refreshCfg.Name = RefreshCookieName
	refreshCfg.MaxAge = int(sessions.RefreshTTL().Seconds())

	return &AuthService{
		repo:        repo,
		sessions:    sessions,
		allowSignup: allowSignup,
		accessCfg:   accessCfg,
		refreshCfg:  refreshCfg,
	}, nil
}

func (s *AuthService) AccessCookie() CookieConfig {
	return s.accessCfg
}

func (s *AuthService) RefreshCookie() CookieConfig {
	return s.refreshCfg
}

// Register creates the account without opening a session.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if !s.allowSignup {
		return nil, apperr.Unauthorized("signup is disabled")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperr.InvalidInput("fullName is required")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.WrapInternal(err, "hash password")
	}

	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       strings.TrimSpace(req.Avatar),
		CoverImage:   strings.TrimSpace(req.CoverImage),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, apperr.WrapInternal(err, "create user")
	}
	return user, nil
}

// Login verifies the password and opens a new session, superseding any
// rotation credential from an earlier login.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, model.TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, model.TokenPair{}, apperr.InvalidInput("username or email is required")
	}
	if req.Password == "" {
		return nil, model.TokenPair{}, apperr.InvalidInput("password is required")
	}

	user, err := s.repo.GetUserByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, model.TokenPair{}, apperr.Unauthenticated("invalid user credentials")
		}
		return nil, model.TokenPair{}, apperr.WrapInternal(err, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.TokenPair{}, apperr.Unauthenticated("invalid user credentials")
	}

	pair, err := s.sessions.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, model.TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return model.TokenPair{}, apperr.Unauthenticated("refresh token is required")
	}
	return s.sessions.Rotate(ctx, refreshToken)
}

func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.sessions.Revoke(ctx, userID)
}

// ChangePassword replaces the password hash and revokes the current session
// family so other devices must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req model.ChangePasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return apperr.WrapInternal(err, "load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.InvalidInput("invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.WrapInternal(err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return apperr.WrapInternal(err, "update password")
	}
	return s.sessions.Revoke(ctx, userID)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.WrapInternal(err, "load user")
	}
	return user, nil
}

func (s *AuthService) UpdateAccount(ctx context.Context, userID int64, req model.UpdateAccountRequest) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" && email == "" {
		return nil, apperr.InvalidInput("fullName or email is required")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		return nil, apperr.WrapInternal(err, "update account")
	}
	return user, nil
}

func (s *AuthService) UpdateAvatar(ctx context.Context, userID int64, url string) (*model.User, error) {
	return s.updateImage(ctx, userID, "avatar", url)
}

func (s *AuthService) UpdateCoverImage(ctx context.Context, userID int64, url string) (*model.User, error) {
	return s.updateImage(ctx, userID, "cover_image", url)
}

func (s *AuthService) updateImage(ctx context.Context, userID int64, column, url string) (*model.User, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperr.InvalidInput("image url is required")
	}
	user, err := s.repo.UpdateImage(ctx, userID, column, url)
	if err != nil {
		return nil, apperr.WrapInternal(err, "update "+column)
	}
	return user, nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return apperr.InvalidInput(fmt.Sprintf("username must be %d-%d characters", minUsernameLength, maxUsernameLength))
	}
	if strings.ContainsAny(username, " \t\n@/") {
		return apperr.InvalidInput("username contains invalid characters")
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return apperr.InvalidInput("invalid email")
	}
	return nil
}

// bcrypt ignores input past 72 bytes.
func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return apperr.InvalidInput(fmt.Sprintf("password must be %d-%d characters", minPasswordLength, maxPasswordLength))
	}
	return nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown SameSite mode: %s", value)
	}
}
