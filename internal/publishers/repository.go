package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikolaslacerda/book-store-manager/internal/shared"
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

const publisherColumns = "id, name, code, foundation_date, created_at, updated_at"

// FindByID fetches a publisher by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Publisher, error) {
	row := r.db.QueryRow(ctx, "SELECT "+publisherColumns+" FROM publishers WHERE id = $1", id)
	return scanPublisher(row)
}

// FindByNameOrCode fetches any publisher holding either unique field.
func (r *PGRepository) FindByNameOrCode(ctx context.Context, name, code string) (*Publisher, error) {
	row := r.db.QueryRow(ctx, "SELECT "+publisherColumns+" FROM publishers WHERE name = $1 OR code = $2", name, code)
	return scanPublisher(row)
}

// FindAll returns every publisher ordered by name.
func (r *PGRepository) FindAll(ctx context.Context) ([]Publisher, error) {
	rows, err := r.db.Query(ctx, "SELECT "+publisherColumns+" FROM publishers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	publishers := []Publisher{}
	for rows.Next() {
		p, err := scanPublisherRow(rows)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, *p)
	}
	return publishers, rows.Err()
}

// Create inserts a publisher and returns the assigned id.
func (r *PGRepository) Create(ctx context.Context, publisher Publisher) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO publishers (name, code, foundation_date, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id`,
		publisher.Name, publisher.Code, publisher.FoundationDate.Time,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: name %s or code %s", ErrPublisherAlreadyExists, publisher.Name, publisher.Code)
		}
		return 0, err
	}
	return id, nil
}

// Delete removes a publisher row by id.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM publishers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrPublisherNotFound, id)
	}
	return nil
}

func scanPublisher(row pgx.Row) (*Publisher, error) {
	p, err := scanPublisherRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPublisherNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPublisherRow(row pgx.Row) (*Publisher, error) {
	var p Publisher
	var foundation time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Code, &foundation, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.FoundationDate = shared.Date{Time: foundation}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
