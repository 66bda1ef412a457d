package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
	"github.com/nikolaslacerda/book-store-manager/internal/users"
)

// ErrBadCredentials hides whether a login failed on the username or the
// password; the two cases are only distinguishable in the logs.
var ErrBadCredentials = fmt.Errorf("%w: incorrect username or password", httpx.ErrBadCredentials)

// UserStore resolves usernames to stored accounts.
type UserStore interface {
	VerifyAndGet(ctx context.Context, username string) (*users.User, error)
}

// Service orchestrates credential lookup, password verification and token
// issuance. Each call is stateless given the store's current contents.
type Service struct {
	logger   *slog.Logger
	store    UserStore
	tokens   *TokenManager
	throttle *LoginThrottle
}

// NewService constructs a Service. throttle may be nil when no redis is
// available; authentication then runs unthrottled.
func NewService(logger *slog.Logger, store UserStore, tokens *TokenManager, throttle *LoginThrottle) *Service {
	return &Service{logger: logger, store: store, tokens: tokens, throttle: throttle}
}

// Authenticate verifies the credential pair and issues a bearer token.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if s.throttle != nil && s.throttle.Blocked(ctx, username) {
		s.logger.Warn("login throttled", slog.String("username", username))
		return "", ErrBadCredentials
	}

	user, err := s.store.VerifyAndGet(ctx, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			s.logger.Info("login failed: unknown username", slog.String("username", username))
			s.recordFailure(ctx, username)
			return "", ErrBadCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login failed: password mismatch", slog.String("username", username))
		s.recordFailure(ctx, username)
		return "", ErrBadCredentials
	}

	if s.throttle != nil {
		s.throttle.Reset(ctx, username)
	}
	return s.tokens.Issue(NewPrincipal(user))
}

// ResolvePrincipal builds the request identity for a stored username. The
// caller decides how an absent user surfaces; a valid token whose subject
// vanished mid-session is fatal for that request.
func (s *Service) ResolvePrincipal(ctx context.Context, username string) (*Principal, error) {
	user, err := s.store.VerifyAndGet(ctx, username)
	if err != nil {
		return nil, err
	}
	return NewPrincipal(user), nil
}

func (s *Service) recordFailure(ctx context.Context, username string) {
	if s.throttle != nil {
		s.throttle.RecordFailure(ctx, username)
	}
}
