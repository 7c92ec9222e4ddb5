package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymapp-session||"
	sessionsSetKey   = "gymapp-sessions"
)

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// LoginChecker accepts a token only while its signature and expiry hold and
// its session is still registered in redis, so signing out revokes the
// token before it expires.
type LoginChecker struct {
	tokens      *tokens
	redisClient *redis.Client
}

func NewLoginChecker(secret string, ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		tokens: &tokens{
			secret: []byte(secret),
			ttl:    ttl,
			now:    time.Now,
		},
		redisClient: redisClient,
	}
}

func (lc *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	claims, err := lc.tokens.parse(token)
	if err != nil {
		return "", err
	}

	userID, err := lc.redisClient.Get(ctx, sessionKey(claims.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: session %s ended", ErrNotLoggedIn, claims.ID)
	}
	if err != nil {
		return "", err
	}
	if userID != claims.Subject {
		return "", fmt.Errorf("%w: session owner mismatch", ErrNotLoggedIn)
	}

	return userID, nil
}
