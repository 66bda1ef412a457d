package users

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

// PGRepository implements Repository using PostgreSQL.
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

const userColumns = "id, name, age, gender, email, username, password, birth_date, role, created_at, updated_at"

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// FindByUsername fetches a user by its unique username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return scanUser(row)
}

// FindByEmailOrUsername fetches any user holding either unique field.
func (r *PGRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1 OR username = $2", email, username)
	return scanUser(row)
}

// Create inserts a user and returns the assigned id.
func (r *PGRepository) Create(ctx context.Context, user User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, age, gender, email, username, password, birth_date, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`,
		user.Name, user.Age, user.Gender, user.Email, user.Username, user.Password, user.BirthDate, user.Role,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: email %s or username %s", ErrUserAlreadyExists, user.Email, user.Username)
		}
		return 0, err
	}
	return id, nil
}

// Update replaces every mutable column of the user row.
func (r *PGRepository) Update(ctx context.Context, user User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, age = $2, gender = $3, email = $4, username = $5,
		    password = $6, birth_date = $7, role = $8, updated_at = NOW()
		WHERE id = $9`,
		user.Name, user.Age, user.Gender, user.Email, user.Username, user.Password, user.BirthDate, user.Role, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s or username %s", ErrUserAlreadyExists, user.Email, user.Username)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, user.ID)
	}
	return nil
}

// Delete removes a user row by id.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Gender, &u.Email, &u.Username, &u.Password, &u.BirthDate, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint
// failure (code 23505), the storage-layer backstop for the fast-path
// duplicate checks.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
