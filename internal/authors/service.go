package authors

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
)

var (
	ErrAuthorNotFound      = fmt.Errorf("author %w", httpx.ErrNotFound)
	ErrAuthorAlreadyExists = fmt.Errorf("author %w", httpx.ErrDuplicate)
)

// Repository defines persistence operations for authors.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Author, error)
	FindByName(ctx context.Context, name string) (*Author, error)
	FindAll(ctx context.Context) ([]Author, error)
	Create(ctx context.Context, author Author) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles author business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers an author after the fast-path name uniqueness check.
func (s *Service) Create(ctx context.Context, req AuthorRequest) (*Author, error) {
	if err := s.verifyNotRegistered(ctx, req.Name); err != nil {
		return nil, err
	}

	author := Author{Name: req.Name, Age: req.Age}
	id, err := s.repo.Create(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	author.ID = id
	return &author, nil
}

// FindByID returns the author identified by id.
func (s *Service) FindByID(ctx context.Context, id int64) (*Author, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrAuthorNotFound, id)
		}
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

// FindAll returns every registered author.
func (s *Service) FindAll(ctx context.Context) ([]Author, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes an author, verifying existence first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrAuthorNotFound, id)
		}
		return fmt.Errorf("get author: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) verifyNotRegistered(ctx context.Context, name string) error {
	_, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check existing author: %w", err)
	}
	return fmt.Errorf("%w: name %s", ErrAuthorAlreadyExists, name)
}
