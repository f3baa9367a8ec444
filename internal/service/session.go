package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrMisconfigured is returned at startup when secrets or TTLs are unusable.
var ErrMisconfigured = errors.New("auth config invalid")

// CredentialStore holds the hash of the single active rotation secret per user.
// Every write is one atomic statement; SwapRotationSecret is a compare-and-set.
type CredentialStore interface {
	SetRotationSecret(ctx context.Context, userID int64, secretHash string) error
	SwapRotationSecret(ctx context.Context, userID int64, expected, next string) (bool, error)
	ClearRotationSecret(ctx context.Context, userID int64) error
}

// UserLookup confirms the subject of a rotation credential still exists.
type UserLookup interface {
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
}

// SessionConfig holds the signing secrets and lifetimes of both credentials.
// AccessTTL must be shorter than RefreshTTL.
type SessionConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// SessionManager issues, verifies, rotates and revokes session credentials.
type SessionManager struct {
	store CredentialStore
	users UserLookup
	cfg   SessionConfig
	now   func() time.Time
}

type sessionClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// NewSessionManager validates cfg and fails with ErrMisconfigured when a secret
// is empty or the TTLs are not positive and ordered.
func NewSessionManager(store CredentialStore, users UserLookup, cfg SessionConfig) (*SessionManager, error) {
	if strings.TrimSpace(cfg.AccessSecret) == "" {
		return nil, fmt.Errorf("%w: ACCESS_TOKEN_SECRET is required", ErrMisconfigured)
	}
	if strings.TrimSpace(cfg.RefreshSecret) == "" {
		return nil, fmt.Errorf("%w: REFRESH_TOKEN_SECRET is required", ErrMisconfigured)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token TTLs must be positive", ErrMisconfigured)
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, fmt.Errorf("%w: ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL", ErrMisconfigured)
	}

	return &SessionManager{
		store: store,
		users: users,
		cfg:   cfg,
		now:   time.Now,
	}, nil
}

// AccessTTL is the lifetime of every issued access credential.
func (s *SessionManager) AccessTTL() time.Duration {
	return s.cfg.AccessTTL
}

// RefreshTTL is the lifetime of every issued rotation credential.
func (s *SessionManager) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

// IssueSession mints a fresh pair and overwrites the stored rotation secret,
// which invalidates every rotation credential issued earlier for the user.
func (s *SessionManager) IssueSession(ctx context.Context, userID int64) (model.TokenPair, error) {
	pair, secret, err := s.mint(userID)
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := s.store.SetRotationSecret(ctx, userID, hashRotationSecret(secret)); err != nil {
		return model.TokenPair{}, credentialErr(err, "persist rotation secret")
	}
	return pair, nil
}

// VerifyAccess checks signature, issuer and expiry only. It never touches the
// credential store.
func (s *SessionManager) VerifyAccess(token string) (int64, error) {
	claims, err := s.parse(token, s.cfg.AccessSecret, tokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return subjectID(claims)
}

// Rotate exchanges a rotation credential for a new pair. The stored secret is
// replaced only if it still matches the presented one, so a credential can be
// used at most once.
func (s *SessionManager) Rotate(ctx context.Context, token string) (model.TokenPair, error) {
	claims, err := s.parse(token, s.cfg.RefreshSecret, tokenTypeRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}
	userID, err := subjectID(claims)
	if err != nil {
		return model.TokenPair{}, err
	}
	if claims.ID == "" {
		return model.TokenPair{}, apperr.Unauthenticated("rotation credential has no secret")
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return model.TokenPair{}, apperr.Unauthenticated("user no longer exists")
		}
		return model.TokenPair{}, apperr.WrapInternal(err, "load user")
	}

	pair, secret, err := s.mint(userID)
	if err != nil {
		return model.TokenPair{}, err
	}
	swapped, err := s.store.SwapRotationSecret(ctx, userID, hashRotationSecret(claims.ID), hashRotationSecret(secret))
	if err != nil {
		return model.TokenPair{}, credentialErr(err, "swap rotation secret")
	}
	if !swapped {
		return model.TokenPair{}, apperr.Unauthenticated("rotation credential is stale or already used")
	}
	return pair, nil
}

// Revoke clears the stored secret. Access credentials already issued stay
// valid until they expire.
func (s *SessionManager) Revoke(ctx context.Context, userID int64) error {
	if err := s.store.ClearRotationSecret(ctx, userID); err != nil {
		return credentialErr(err, "clear rotation secret")
	}
	return nil
}

// credentialErr reports a credential store failure as ErrTimeout or
// ErrInternal. A missing user row there is a server fault, never a 404.
func credentialErr(err error, op string) error {
	if errors.Is(err, apperr.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", apperr.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", apperr.ErrInternal, op, err)
}

func (s *SessionManager) mint(userID int64) (model.TokenPair, string, error) {
	now := s.now()
	accessExp := now.Add(s.cfg.AccessTTL)
	refreshExp := now.Add(s.cfg.RefreshTTL)
	secret := uuid.NewString()

	access, err := s.sign(s.cfg.AccessSecret, sessionClaims{
		Type:             tokenTypeAccess,
		RegisteredClaims: s.registered(userID, now, accessExp, ""),
	})
	if err != nil {
		return model.TokenPair{}, "", err
	}
	refresh, err := s.sign(s.cfg.RefreshSecret, sessionClaims{
		Type:             tokenTypeRefresh,
		RegisteredClaims: s.registered(userID, now, refreshExp, secret),
	})
	if err != nil {
		return model.TokenPair{}, "", err
	}

	return model.TokenPair{
		UserID:           userID,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, secret, nil
}

func (s *SessionManager) registered(userID int64, now, exp time.Time, id string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        id,
	}
}

func (s *SessionManager) sign(secret string, claims sessionClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", apperr.WrapInternal(err, "sign credential")
	}
	return signed, nil
}

func (s *SessionManager) parse(token, secret, wantType string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.Unauthenticated("missing credential")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("credential expired")
		}
		return nil, apperr.Unauthenticated("invalid credential")
	}
	if claims.Type != wantType {
		return nil, apperr.Unauthenticated("wrong credential type")
	}
	return claims, nil
}

func subjectID(claims *sessionClaims) (int64, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, apperr.Unauthenticated("invalid credential subject")
	}
	return userID, nil
}

func hashRotationSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
