package books_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolaslacerda/book-store-manager/internal/auth"
	"github.com/nikolaslacerda/book-store-manager/internal/authors"
	"github.com/nikolaslacerda/book-store-manager/internal/books"
	"github.com/nikolaslacerda/book-store-manager/internal/publishers"
	"github.com/nikolaslacerda/book-store-manager/internal/users"
)

type stubUsers struct {
	byUsername map[string]*users.User
}

func (s *stubUsers) VerifyAndGet(ctx context.Context, username string) (*users.User, error) {
	user, ok := s.byUsername[username]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return user, nil
}

type stubAuthors struct {
	byID map[int64]*authors.Author
}

func (s *stubAuthors) FindByID(ctx context.Context, id int64) (*authors.Author, error) {
	author, ok := s.byID[id]
	if !ok {
		return nil, authors.ErrAuthorNotFound
	}
	return author, nil
}

type stubPublishers struct {
	byID map[int64]*publishers.Publisher
}

func (s *stubPublishers) FindByID(ctx context.Context, id int64) (*publishers.Publisher, error) {
	publisher, ok := s.byID[id]
	if !ok {
		return nil, publishers.ErrPublisherNotFound
	}
	return publisher, nil
}

type memBooks struct {
	records map[int64]*books.Book
	nextID  int64
}

func newMemBooks() *memBooks {
	return &memBooks{records: make(map[int64]*books.Book), nextID: 1}
}

func (m *memBooks) WithTx(ctx context.Context, fn func(context.Context, books.Repository) error) error {
	return fn(ctx, m)
}

func (m *memBooks) FindByIDAndUser(ctx context.Context, id, userID int64) (*books.Book, error) {
	book, ok := m.records[id]
	if !ok || book.UserID != userID {
		return nil, books.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func (m *memBooks) FindByNameAndISBNAndUser(ctx context.Context, name, isbn string, userID int64) (*books.Book, error) {
	for _, book := range m.records {
		if book.Name == name && book.ISBN == isbn && book.UserID == userID {
			copied := *book
			return &copied, nil
		}
	}
	return nil, books.ErrBookNotFound
}

func (m *memBooks) FindAllByUser(ctx context.Context, userID int64) ([]books.Book, error) {
	owned := []books.Book{}
	for _, book := range m.records {
		if book.UserID == userID {
			owned = append(owned, *book)
		}
	}
	return owned, nil
}

func (m *memBooks) Create(ctx context.Context, book books.Book) (int64, error) {
	book.ID = m.nextID
	m.records[book.ID] = &book
	m.nextID++
	return book.ID, nil
}

func (m *memBooks) Update(ctx context.Context, book books.Book) error {
	existing, ok := m.records[book.ID]
	if !ok || existing.UserID != book.UserID {
		return books.ErrBookNotFound
	}
	m.records[book.ID] = &book
	return nil
}

func (m *memBooks) Delete(ctx context.Context, id, userID int64) error {
	existing, ok := m.records[id]
	if !ok || existing.UserID != userID {
		return books.ErrBookNotFound
	}
	delete(m.records, id)
	return nil
}

type fixture struct {
	service *books.Service
	repo    *memBooks
	users   *stubUsers
}

func principal(username string) *auth.Principal {
	return &auth.Principal{Username: username, Authorities: []string{"ROLE_User"}}
}

func newFixture() fixture {
	repo := newMemBooks()
	userStore := &stubUsers{byUsername: map[string]*users.User{
		"nikolas": {ID: 1, Username: "nikolas", Role: users.RoleUser},
		"amanda":  {ID: 2, Username: "amanda", Role: users.RoleUser},
	}}
	service := books.NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		repo,
		userStore,
		&stubAuthors{byID: map[int64]*authors.Author{
			10: {ID: 10, Name: "Machado de Assis", Age: 58},
		}},
		&stubPublishers{byID: map[int64]*publishers.Publisher{
			20: {ID: 20, Name: "Companhia das Letras", Code: "CDL1986"},
		}},
	)
	return fixture{service: service, repo: repo, users: userStore}
}

func validRequest() books.BookRequest {
	return books.BookRequest{
		Name:        "Dom Casmurro",
		ISBN:        "978-3-16-148410-0",
		Pages:       256,
		Chapters:    48,
		AuthorID:    10,
		PublisherID: 20,
	}
}

func TestCreateBook_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	found, err := f.service.FindByID(ctx, principal("nikolas"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dom Casmurro", found.Name)
	assert.Equal(t, "978-3-16-148410-0", found.ISBN)
	assert.Equal(t, "Machado de Assis", found.Author.Name)
	assert.Equal(t, "CDL1986", found.Publisher.Code)
}

func TestCreateBook_DuplicatePerOwnerOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	_, err = f.service.Create(ctx, principal("nikolas"), validRequest())
	require.ErrorIs(t, err, books.ErrBookAlreadyExists)

	// A different user may register the same (name, isbn) pair.
	_, err = f.service.Create(ctx, principal("amanda"), validRequest())
	require.NoError(t, err)
}

func TestCreateBook_UnknownReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validRequest()
	req.AuthorID = 99
	_, err := f.service.Create(ctx, principal("nikolas"), req)
	require.ErrorIs(t, err, authors.ErrAuthorNotFound)

	req = validRequest()
	req.PublisherID = 99
	_, err = f.service.Create(ctx, principal("nikolas"), req)
	require.ErrorIs(t, err, publishers.ErrPublisherNotFound)

	assert.Empty(t, f.repo.records)
}

func TestCreateBook_PrincipalWithoutBackingUser(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), principal("ghost"), validRequest())
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestFindBook_OtherOwnerLooksAbsent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	_, err = f.service.FindByID(ctx, principal("amanda"), created.ID)
	require.ErrorIs(t, err, books.ErrBookNotFound)

	_, err = f.service.FindByID(ctx, principal("amanda"), 9999)
	require.ErrorIs(t, err, books.ErrBookNotFound)
}

func TestFindAllBooks_ScopedToOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	mine, err := f.service.FindAll(ctx, principal("nikolas"))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.service.FindAll(ctx, principal("amanda"))
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestUpdateBook_OtherOwnerLooksAbsent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Dom Casmurro (2nd ed)"
	_, err = f.service.Update(ctx, principal("amanda"), created.ID, req)
	require.ErrorIs(t, err, books.ErrBookNotFound)

	updated, err := f.service.Update(ctx, principal("nikolas"), created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Dom Casmurro (2nd ed)", updated.Name)

	// Ownership is preserved across updates.
	stored := f.repo.records[created.ID]
	assert.Equal(t, int64(1), stored.UserID)
}

func TestDeleteBook_SecondDeleteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, principal("nikolas"), created.ID))
	require.ErrorIs(t, f.service.Delete(ctx, principal("nikolas"), created.ID), books.ErrBookNotFound)
}

func TestDeleteBook_OtherOwnerDeletesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	require.ErrorIs(t, f.service.Delete(ctx, principal("amanda"), created.ID), books.ErrBookNotFound)
	assert.Len(t, f.repo.records, 1)
}

// failingBooks simulates the store being unreachable.
type failingBooks struct {
	books.Repository
	err error
}

func (f *failingBooks) FindByIDAndUser(ctx context.Context, id, userID int64) (*books.Book, error) {
	return nil, f.err
}

func TestFindBook_StoreFailureIsNotReportedAsNotFound(t *testing.T) {
	outage := errors.New("connection refused")
	service := books.NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		&failingBooks{err: outage},
		&stubUsers{byUsername: map[string]*users.User{
			"nikolas": {ID: 1, Username: "nikolas", Role: users.RoleUser},
		}},
		&stubAuthors{},
		&stubPublishers{},
	)

	_, err := service.FindByID(context.Background(), principal("nikolas"), 1)
	require.ErrorIs(t, err, outage)
	assert.False(t, errors.Is(err, books.ErrBookNotFound))
}

func TestCreateBook_DuplicateReportedBeforeUnknownReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Create(ctx, principal("nikolas"), validRequest())
	require.NoError(t, err)

	// A duplicate that also carries an unknown author fails as a duplicate.
	req := validRequest()
	req.AuthorID = 99
	_, err = f.service.Create(ctx, principal("nikolas"), req)
	require.ErrorIs(t, err, books.ErrBookAlreadyExists)
}
