package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/mcutler508/GymApp/internal/telemetry/metrics"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"
	"github.com/mcutler508/GymApp/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id string) (*User, error)
}

type Service struct {
	users          usersRepo
	redisClient    *redis.Client
	checker        *LoginChecker
	ttl            time.Duration
	bcryptCost     int
	metricsManager *metrics.Manager
	// ability to inject random string generator func for session ids (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

type ServiceParams struct {
	Users          usersRepo
	RedisClient    *redis.Client
	Secret         string
	TTL            time.Duration
	BcryptCost     int
	MetricsManager *metrics.Manager
}

func NewService(params ServiceParams) *Service {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cost := params.BcryptCost
	if cost == 0 {
		cost = pkg.DefaultPasswordHashCost
	}

	return &Service{
		users:          params.Users,
		redisClient:    params.RedisClient,
		checker:        NewLoginChecker(params.Secret, ttl, params.RedisClient),
		ttl:            ttl,
		bcryptCost:     cost,
		metricsManager: params.MetricsManager,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Checker returns the token checker sharing this service's secret and session registry.
func (s *Service) Checker() *LoginChecker {
	return s.checker
}

func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.signUp")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := pkg.HashPasswordWithCost(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Add(ctx, User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    s.checker.tokens.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	log.Debugf("auth service: new user %s", user.ID)

	return user, nil
}

// SignIn checks the credentials and opens a new session, returning its bearer token.
func (s *Service) SignIn(ctx context.Context, email, password string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.signIn")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	outcome := "failed"
	defer func() {
		s.metricsManager.CounterSignIns.WithLabelValues(outcome).Inc()
	}()

	email, err = normalizeEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		outcome = "error"
		return "", err
	}
	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	sessionID, err := s.RandStringFunc(24)
	if err != nil {
		outcome = "error"
		return "", fmt.Errorf("generate session id: %w", err)
	}

	token, err := s.checker.tokens.issue(user.ID, sessionID)
	if err != nil {
		outcome = "error"
		return "", err
	}

	if err := s.redisClient.Set(ctx, sessionKey(sessionID), user.ID, s.ttl).Err(); err != nil {
		outcome = "error"
		return "", fmt.Errorf("store session: %w", err)
	}
	// add session to the set of sessions
	if err := s.redisClient.SAdd(ctx, sessionsSetKey, sessionID).Err(); err != nil {
		outcome = "error"
		return "", fmt.Errorf("register session: %w", err)
	}

	outcome = "ok"
	span.SetAttributes(attribute.String("user.id", user.ID))

	return token, nil
}

// SignOut ends the session behind token. It reports whether a live session was removed.
func (s *Service) SignOut(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.signOut")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	claims, err := s.checker.tokens.parse(token)
	if err != nil {
		return false, err
	}

	deleted, err := s.redisClient.Del(ctx, sessionKey(claims.ID)).Result()
	if err != nil {
		return false, err
	}

	// remove session from the set of sessions
	if err := s.redisClient.SRem(ctx, sessionsSetKey, claims.ID).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// Session returns the user signed in with token.
func (s *Service) Session(ctx context.Context, token string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, err := s.checker.UserID(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user %s gone", ErrNotLoggedIn, userID)
	}
	return user, err
}

// ScanAndClean drops expired sessions from the set of sessions. Session keys
// themselves expire in redis.
func (s *Service) ScanAndClean(ctx context.Context) {
	sessionIDs, err := s.redisClient.SMembers(ctx, sessionsSetKey).Result()
	if err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionIDs) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionIDs))
	var toRemove []any
	for _, sessionID := range sessionIDs {
		exists, err := s.redisClient.Exists(ctx, sessionKey(sessionID)).Result()
		if err != nil {
			log.Errorf("=> auth service, scan and clean session %s: %s", sessionID, err)
			continue
		}
		if exists == 0 {
			toRemove = append(toRemove, sessionID)
		}
	}

	if len(toRemove) == 0 {
		return
	}
	if err := s.redisClient.SRem(ctx, sessionsSetKey, toRemove...).Err(); err != nil {
		log.Errorf("=> auth service, clean %d sessions: %s", len(toRemove), err)
		return
	}
	log.Infof("=> auth service, cleaned %d expired sessions", len(toRemove))
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
