package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
)

var (
	ErrUserNotFound      = fmt.Errorf("user %w", httpx.ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user %w", httpx.ErrDuplicate)
)

// Repository defines persistence operations for users.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
	Create(ctx context.Context, user User) (int64, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id int64) error
}

// Service handles user account business rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// Create registers a new account. The supplied password is hashed before
// persistence and never stored or logged in plaintext.
func (s *Service) Create(ctx context.Context, req UserRequest) (*MessageResponse, error) {
	user, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := verifyNotRegistered(ctx, repo, req.Email, req.Username, 0); err != nil {
			return err
		}
		var err error
		id, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", slog.Int64("id", id), slog.String("username", user.Username))
	return creationMessage(user.Username, id), nil
}

// Update replaces the account identified by id. The creation timestamp is
// preserved and the incoming password is re-hashed.
func (s *Service) Update(ctx context.Context, id int64, req UserRequest) (*MessageResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	user.ID = existing.ID
	user.CreatedAt = existing.CreatedAt

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := verifyNotRegistered(ctx, repo, req.Email, req.Username, id); err != nil {
			return err
		}
		return repo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return updateMessage(user.Username, user.ID), nil
}

// Delete removes the account identified by id, verifying existence first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return fmt.Errorf("get user: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// VerifyAndGet resolves a username to its stored account, failing with
// ErrUserNotFound when absent. Used by the auth and book services.
func (s *Service) VerifyAndGet(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: username %s", ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (s *Service) fromRequest(req UserRequest) (User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return User{
		Name:      req.Name,
		Age:       req.Age,
		Gender:    Gender(req.Gender),
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hashed),
		BirthDate: req.BirthDate.Time,
		Role:      Role(req.Role),
	}, nil
}

// verifyNotRegistered is the fast-path duplicate check. selfID filters out
// the record being updated; the unique constraints on email and username
// stay the backstop against concurrent creations.
func verifyNotRegistered(ctx context.Context, repo Repository, email, username string, selfID int64) error {
	found, err := repo.FindByEmailOrUsername(ctx, email, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check existing user: %w", err)
	}
	if found.ID != selfID {
		return fmt.Errorf("%w: email %s or username %s", ErrUserAlreadyExists, email, username)
	}
	return nil
}

func creationMessage(username string, id int64) *MessageResponse {
	return message(username, id, "created")
}

func updateMessage(username string, id int64) *MessageResponse {
	return message(username, id, "updated")
}

func message(username string, id int64, action string) *MessageResponse {
	return &MessageResponse{
		Message: fmt.Sprintf("User %s with id %d successfully %s", username, id, action),
	}
}
