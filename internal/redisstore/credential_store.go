// Package redisstore keeps rotation secret hashes in Redis as an alternative
// to the users.refresh_secret column.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vidtube/backend/internal/apperr"
)

const keyPrefix = "rotation:"

// swapScript replaces the value only while it still equals ARGV[1]. The TTL is
// reset on every successful swap.
var swapScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

type CredentialStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCredentialStore stores each secret with the given ttl, normally the
// rotation credential lifetime, so abandoned sessions expire on their own.
func NewCredentialStore(client *redis.Client, ttl time.Duration) *CredentialStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CredentialStore{client: client, ttl: ttl}
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

func (s *CredentialStore) SetRotationSecret(ctx context.Context, userID int64, secretHash string) error {
	return redisErr(s.client.Set(ctx, key(userID), secretHash, s.ttl).Err())
}

func (s *CredentialStore) SwapRotationSecret(ctx context.Context, userID int64, expected, next string) (bool, error) {
	res, err := swapScript.Run(ctx, s.client, []string{key(userID)}, expected, next, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, redisErr(err)
	}
	return res == 1, nil
}

func (s *CredentialStore) ClearRotationSecret(ctx context.Context, userID int64) error {
	return redisErr(s.client.Del(ctx, key(userID)).Err())
}

// Ping reports whether the server is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return redisErr(s.client.Ping(ctx).Err())
}

func redisErr(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperr.ErrTimeout, err)
	}
	return err
}
