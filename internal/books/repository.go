package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/db"
)

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PGRepository implements Repository using PostgreSQL. Every query filters
// by user_id so a row owned by someone else scans as no row at all.
type PGRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool, pool: pool}
}

// WithTx runs fn against a transactional copy of the repository.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &PGRepository{db: tx, pool: r.pool})
	})
}

const bookColumns = "id, name, isbn, pages, chapters, user_id, author_id, publisher_id, created_at, updated_at"

// FindByIDAndUser fetches a book by id scoped to its owner.
func (r *PGRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*Book, error) {
	row := r.db.QueryRow(ctx, "SELECT "+bookColumns+" FROM books WHERE id = $1 AND user_id = $2", id, userID)
	return scanBook(row)
}

// FindByNameAndISBNAndUser fetches the owner's book carrying the pair.
func (r *PGRepository) FindByNameAndISBNAndUser(ctx context.Context, name, isbn string, userID int64) (*Book, error) {
	row := r.db.QueryRow(ctx, "SELECT "+bookColumns+" FROM books WHERE name = $1 AND isbn = $2 AND user_id = $3", name, isbn, userID)
	return scanBook(row)
}

// FindAllByUser returns every book owned by userID.
func (r *PGRepository) FindAllByUser(ctx context.Context, userID int64) ([]Book, error) {
	rows, err := r.db.Query(ctx, "SELECT "+bookColumns+" FROM books WHERE user_id = $1 ORDER BY name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Name, &b.ISBN, &b.Pages, &b.Chapters, &b.UserID, &b.AuthorID, &b.PublisherID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Create inserts a book and returns the assigned id.
func (r *PGRepository) Create(ctx context.Context, book Book) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO books (name, isbn, pages, chapters, user_id, author_id, publisher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`,
		book.Name, book.ISBN, book.Pages, book.Chapters, book.UserID, book.AuthorID, book.PublisherID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s (%s)", ErrBookAlreadyExists, book.Name, book.ISBN)
		}
		return 0, err
	}
	return id, nil
}

// Update rewrites the book row, keeping the owner filter in the predicate.
func (r *PGRepository) Update(ctx context.Context, book Book) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET name = $1, isbn = $2, pages = $3, chapters = $4, author_id = $5, publisher_id = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8`,
		book.Name, book.ISBN, book.Pages, book.Chapters, book.AuthorID, book.PublisherID, book.ID, book.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s (%s)", ErrBookAlreadyExists, book.Name, book.ISBN)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrBookNotFound, book.ID)
	}
	return nil
}

// Delete removes a book row scoped to its owner.
func (r *PGRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM books WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrBookNotFound, id)
	}
	return nil
}

func scanBook(row pgx.Row) (*Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Name, &b.ISBN, &b.Pages, &b.Chapters, &b.UserID, &b.AuthorID, &b.PublisherID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
