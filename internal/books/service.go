package books

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolaslacerda/book-store-manager/internal/auth"
	"github.com/nikolaslacerda/book-store-manager/internal/authors"
	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
	"github.com/nikolaslacerda/book-store-manager/internal/publishers"
	"github.com/nikolaslacerda/book-store-manager/internal/users"
)

var (
	ErrBookNotFound      = fmt.Errorf("book %w", httpx.ErrNotFound)
	ErrBookAlreadyExists = fmt.Errorf("book %w", httpx.ErrDuplicate)
)

// UserStore resolves the caller's account from the principal's username.
type UserStore interface {
	VerifyAndGet(ctx context.Context, username string) (*users.User, error)
}

// AuthorStore resolves author references on book writes.
type AuthorStore interface {
	FindByID(ctx context.Context, id int64) (*authors.Author, error)
}

// PublisherStore resolves publisher references on book writes.
type PublisherStore interface {
	FindByID(ctx context.Context, id int64) (*publishers.Publisher, error)
}

// Repository defines the owner-filtered persistence operations for books.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	FindByIDAndUser(ctx context.Context, id, userID int64) (*Book, error)
	FindByNameAndISBNAndUser(ctx context.Context, name, isbn string, userID int64) (*Book, error)
	FindAllByUser(ctx context.Context, userID int64) ([]Book, error)
	Create(ctx context.Context, book Book) (int64, error)
	Update(ctx context.Context, book Book) error
	Delete(ctx context.Context, id, userID int64) error
}

// Service applies the ownership-scoping contract: resolve the caller's
// identity once, then filter every query by it, reporting non-owned books
// identically to absent ones.
type Service struct {
	logger     *slog.Logger
	repo       Repository
	users      UserStore
	authors    AuthorStore
	publishers PublisherStore
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, users UserStore, authors AuthorStore, publishers PublisherStore) *Service {
	return &Service{
		logger:     logger,
		repo:       repo,
		users:      users,
		authors:    authors,
		publishers: publishers,
	}
}

// Create registers a book owned by the principal's user. The (name, isbn)
// pair must be unused within that user's books only.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, req BookRequest) (*BookResponse, error) {
	owner, err := s.users.VerifyAndGet(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	var (
		author    *authors.Author
		publisher *publishers.Publisher
		book      Book
	)
	// The duplicate check runs before the reference lookups: a request that
	// is both a duplicate and carries an unknown author fails as a duplicate.
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := verifyNotRegistered(ctx, repo, req.Name, req.ISBN, owner); err != nil {
			return err
		}
		var err error
		author, err = s.authors.FindByID(ctx, req.AuthorID)
		if err != nil {
			return fmt.Errorf("resolve author: %w", err)
		}
		publisher, err = s.publishers.FindByID(ctx, req.PublisherID)
		if err != nil {
			return fmt.Errorf("resolve publisher: %w", err)
		}

		book = Book{
			Name:        req.Name,
			ISBN:        req.ISBN,
			Pages:       req.Pages,
			Chapters:    req.Chapters,
			UserID:      owner.ID,
			AuthorID:    author.ID,
			PublisherID: publisher.ID,
		}
		book.ID, err = repo.Create(ctx, book)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book created",
		slog.Int64("id", book.ID),
		slog.String("isbn", book.ISBN),
		slog.String("owner", owner.Username))
	return toResponse(book, author, publisher), nil
}

// FindByID returns a book only when it belongs to the principal's user;
// any other id fails with ErrBookNotFound.
func (s *Service) FindByID(ctx context.Context, principal *auth.Principal, bookID int64) (*BookResponse, error) {
	owner, err := s.users.VerifyAndGet(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	book, err := s.repo.FindByIDAndUser(ctx, bookID, owner.ID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return s.resolve(ctx, *book)
}

// FindAll returns every book owned by the principal's user; an empty
// collection is a valid result, never an error.
func (s *Service) FindAll(ctx context.Context, principal *auth.Principal) ([]BookResponse, error) {
	owner, err := s.users.VerifyAndGet(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.FindAllByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	responses := []BookResponse{}
	for _, book := range found {
		resp, err := s.resolve(ctx, book)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// Update rewrites a book that already exists under the principal's user,
// re-resolving the author and publisher references and preserving
// ownership and the creation timestamp.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, bookID int64, req BookRequest) (*BookResponse, error) {
	owner, err := s.users.VerifyAndGet(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByIDAndUser(ctx, bookID, owner.ID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	author, err := s.authors.FindByID(ctx, req.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	publisher, err := s.publishers.FindByID(ctx, req.PublisherID)
	if err != nil {
		return nil, fmt.Errorf("resolve publisher: %w", err)
	}

	book := Book{
		ID:          existing.ID,
		Name:        req.Name,
		ISBN:        req.ISBN,
		Pages:       req.Pages,
		Chapters:    req.Chapters,
		UserID:      existing.UserID,
		AuthorID:    author.ID,
		PublisherID: publisher.ID,
		CreatedAt:   existing.CreatedAt,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, book)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(book, author, publisher), nil
}

// Delete removes a book after verifying it exists under the principal's
// user; the precondition failing deletes nothing.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, bookID int64) error {
	owner, err := s.users.VerifyAndGet(ctx, principal.Username)
	if err != nil {
		return err
	}

	if _, err := s.repo.FindByIDAndUser(ctx, bookID, owner.ID); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrBookNotFound, bookID)
		}
		return fmt.Errorf("get book: %w", err)
	}
	return s.repo.Delete(ctx, bookID, owner.ID)
}

func (s *Service) resolve(ctx context.Context, book Book) (*BookResponse, error) {
	author, err := s.authors.FindByID(ctx, book.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author %d: %w", book.AuthorID, err)
	}
	publisher, err := s.publishers.FindByID(ctx, book.PublisherID)
	if err != nil {
		return nil, fmt.Errorf("resolve publisher %d: %w", book.PublisherID, err)
	}
	return toResponse(book, author, publisher), nil
}

func verifyNotRegistered(ctx context.Context, repo Repository, name, isbn string, owner *users.User) error {
	_, err := repo.FindByNameAndISBNAndUser(ctx, name, isbn, owner.ID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check existing book: %w", err)
	}
	return fmt.Errorf("%w: %s (%s) for user %s", ErrBookAlreadyExists, name, isbn, owner.Username)
}

func toResponse(book Book, author *authors.Author, publisher *publishers.Publisher) *BookResponse {
	return &BookResponse{
		ID:        book.ID,
		Name:      book.Name,
		ISBN:      book.ISBN,
		Pages:     book.Pages,
		Chapters:  book.Chapters,
		Author:    *author,
		Publisher: *publisher,
	}
}
