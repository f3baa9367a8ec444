package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

var testEpoch = time.Unix(1_700_000_000, 0)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestSessions(t *testing.T, users ...*model.User) (*SessionManager, *fakeCredentialStore, *fakeUserRepo, *testClock) {
	t.Helper()
	if len(users) == 0 {
		users = []*model.User{{ID: 1, Username: "alice", Email: "alice@example.com"}}
	}
	store := newFakeCredentialStore()
	repo := newFakeUserRepo(users...)
	sessions, err := NewSessionManager(store, repo, SessionConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidtube-test",
	})
	require.NoError(t, err)
	clock := &testClock{now: testEpoch}
	sessions.now = clock.Now
	return sessions, store, repo, clock
}

func TestNewSessionManager_RejectsBadConfig(t *testing.T) {
	cases := map[string]SessionConfig{
		"missing access secret":  {RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"missing refresh secret": {AccessSecret: "a", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"zero ttl":               {AccessSecret: "a", RefreshSecret: "r", RefreshTTL: time.Hour},
		"access outlives":        {AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Hour, RefreshTTL: time.Minute},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSessionManager(newFakeCredentialStore(), newFakeUserRepo(), cfg)
			require.ErrorIs(t, err, ErrMisconfigured)
		})
	}
}

func TestIssueSession_VerifyAccess(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)

	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), pair.UserID)
	require.Equal(t, testEpoch.Add(15*time.Minute), pair.AccessExpiresAt)
	require.Equal(t, testEpoch.Add(24*time.Hour), pair.RefreshExpiresAt)
	require.Contains(t, store.secrets, int64(1))

	userID, err := sessions.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestIssueSession_PersistenceFailureIsInternal(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)
	store.err = errors.New("connection reset")

	_, err := sessions.IssueSession(context.Background(), 1)
	require.ErrorIs(t, err, apperr.ErrInternal)
}

func TestIssueSession_StoreDeadlineIsTimeout(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)
	store.err = context.DeadlineExceeded

	_, err := sessions.IssueSession(context.Background(), 1)
	require.ErrorIs(t, err, apperr.ErrTimeout)
}

func TestIssueSession_MissingUserRowIsInternal(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)
	store.err = apperr.NotFound("user not found")

	_, err := sessions.IssueSession(context.Background(), 1)
	require.ErrorIs(t, err, apperr.ErrInternal)
	require.NotErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
}

func TestVerifyAccess_NeverTouchesStore(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	store.err = errors.New("store down")
	userID, err := sessions.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestVerifyAccess_Rejects(t *testing.T) {
	sessions, _, _, _ := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "vidtube-test",
			ExpiresAt: jwt.NewNumericDate(testEpoch.Add(time.Hour)),
		},
	}).SignedString([]byte("someone-else"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "vidtube-test",
			ExpiresAt: jwt.NewNumericDate(testEpoch.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":              "",
		"malformed":          "not-a-jwt",
		"wrong secret":       foreign,
		"alg none":           unsigned,
		"rotation as access": pair.RefreshToken,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := sessions.VerifyAccess(token)
			require.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestExpiredAccess_RotationStillSucceeds(t *testing.T) {
	sessions, _, _, clock := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	clock.now = pair.AccessExpiresAt.Add(time.Second)

	_, err = sessions.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	rotated, err := sessions.Rotate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	userID, err := sessions.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestRotate_NoReplay(t *testing.T) {
	sessions, _, _, _ := newTestSessions(t)
	ctx := context.Background()
	pair, err := sessions.IssueSession(ctx, 1)
	require.NoError(t, err)

	rotated, err := sessions.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = sessions.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	// the replacement is still good exactly once
	_, err = sessions.Rotate(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestIssueSession_InvalidatesPriorRotation(t *testing.T) {
	sessions, _, _, _ := newTestSessions(t)
	ctx := context.Background()

	first, err := sessions.IssueSession(ctx, 1)
	require.NoError(t, err)
	second, err := sessions.IssueSession(ctx, 1)
	require.NoError(t, err)

	_, err = sessions.Rotate(ctx, first.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = sessions.Rotate(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRotate_ExpiredRotationCredential(t *testing.T) {
	sessions, _, _, clock := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	clock.now = pair.RefreshExpiresAt.Add(time.Second)
	_, err = sessions.Rotate(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRotate_MissingUserIsUnauthenticated(t *testing.T) {
	sessions, _, repo, _ := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	delete(repo.users, 1)

	_, err = sessions.Rotate(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRotate_RejectsAccessCredential(t *testing.T) {
	sessions, _, _, _ := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	_, err = sessions.Rotate(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestRevoke_InvalidatesRotationButNotAccess(t *testing.T) {
	sessions, _, _, _ := newTestSessions(t)
	ctx := context.Background()
	pair, err := sessions.IssueSession(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, sessions.Revoke(ctx, 1))

	_, err = sessions.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	userID, err := sessions.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestRotate_StoreFailureIsInternal(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	store.err = errors.New("write failed")
	_, err = sessions.Rotate(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, apperr.ErrInternal)
}

func TestRotate_OnlyHashIsStored(t *testing.T) {
	sessions, store, _, _ := newTestSessions(t)
	pair, err := sessions.IssueSession(context.Background(), 1)
	require.NoError(t, err)

	claims := &sessionClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(pair.RefreshToken, claims)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, hashRotationSecret(claims.ID), store.secrets[1])
	require.NotEqual(t, claims.ID, store.secrets[1])
}
