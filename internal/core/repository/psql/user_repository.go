package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tdnguyen/profile-service/internal/core/domain"
)

const uniqueViolation = "23505"

const userColumns = `id, email, full_name, phone_number, password_hash, is_verified, is_active`

// UserRepository implements domain.UserRepository using PostgreSQL.
// The pool is injected rather than read from a package global so tests and
// alternate wiring can supply their own.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.IsVerified,
		&u.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account. The unique index on lower(email)
// enforces email uniqueness; violations map to domain.ErrEmailTaken.
func (r *UserRepository) CreateUser(ctx context.Context, email, fullName, passwordHash string) (*domain.User, error) {
	query := `INSERT INTO users (email, full_name, password_hash, is_verified, is_active)
	          VALUES (lower($1), $2, $3, false, true)
	          RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, email, fullName, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves an account by ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves an account by email, case-insensitively.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update in a single statement. COALESCE
// keeps the stored value where the caller passed nil, so concurrent updates
// never observe a half-applied row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, email, phoneNumber *string) (*domain.User, error) {
	query := `UPDATE users
	          SET email = COALESCE(lower($1), email),
	              phone_number = COALESCE($2, phone_number)
	          WHERE id = $3
	          RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, email, phoneNumber, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account row.
func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Compile-time interface check
var _ domain.UserRepository = (*UserRepository)(nil)
