package authors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const authorColumns = "id, name, age, created_at, updated_at"

// FindByID fetches an author by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Author, error) {
	row := r.db.QueryRow(ctx, "SELECT "+authorColumns+" FROM authors WHERE id = $1", id)
	return scanAuthor(row)
}

// FindByName fetches an author by its unique name.
func (r *PGRepository) FindByName(ctx context.Context, name string) (*Author, error) {
	row := r.db.QueryRow(ctx, "SELECT "+authorColumns+" FROM authors WHERE name = $1", name)
	return scanAuthor(row)
}

// FindAll returns every author ordered by name.
func (r *PGRepository) FindAll(ctx context.Context) ([]Author, error) {
	rows, err := r.db.Query(ctx, "SELECT "+authorColumns+" FROM authors ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Age, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// Create inserts an author and returns the assigned id.
func (r *PGRepository) Create(ctx context.Context, author Author) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO authors (name, age, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id`,
		author.Name, author.Age,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: name %s", ErrAuthorAlreadyExists, author.Name)
		}
		return 0, err
	}
	return id, nil
}

// Delete removes an author row by id.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM authors WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrAuthorNotFound, id)
	}
	return nil
}

func scanAuthor(row pgx.Row) (*Author, error) {
	var a Author
	err := row.Scan(&a.ID, &a.Name, &a.Age, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
