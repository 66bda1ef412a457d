package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
)

var (
	ErrPublisherNotFound      = fmt.Errorf("publisher %w", httpx.ErrNotFound)
	ErrPublisherAlreadyExists = fmt.Errorf("publisher %w", httpx.ErrDuplicate)
)

// Repository defines persistence operations for publishers.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Publisher, error)
	FindByNameOrCode(ctx context.Context, name, code string) (*Publisher, error)
	FindAll(ctx context.Context) ([]Publisher, error)
	Create(ctx context.Context, publisher Publisher) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles publisher business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a publisher after checking neither name nor code is
// already taken.
func (s *Service) Create(ctx context.Context, req PublisherRequest) (*Publisher, error) {
	if err := s.verifyNotRegistered(ctx, req.Name, req.Code); err != nil {
		return nil, err
	}

	publisher := Publisher{
		Name:           req.Name,
		Code:           req.Code,
		FoundationDate: req.FoundationDate,
	}
	id, err := s.repo.Create(ctx, publisher)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	publisher.ID = id
	return &publisher, nil
}

// FindByID returns the publisher identified by id.
func (s *Service) FindByID(ctx context.Context, id int64) (*Publisher, error) {
	publisher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrPublisherNotFound, id)
		}
		return nil, fmt.Errorf("get publisher: %w", err)
	}
	return publisher, nil
}

// FindAll returns every registered publisher.
func (s *Service) FindAll(ctx context.Context) ([]Publisher, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes a publisher, verifying existence first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrPublisherNotFound, id)
		}
		return fmt.Errorf("get publisher: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) verifyNotRegistered(ctx context.Context, name, code string) error {
	_, err := s.repo.FindByNameOrCode(ctx, name, code)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check existing publisher: %w", err)
	}
	return fmt.Errorf("%w: name %s or code %s", ErrPublisherAlreadyExists, name, code)
}
