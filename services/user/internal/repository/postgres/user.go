package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/database"
	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

const (
	userColumns = `id, email, password_hash, first_name, last_name, phone, is_active, created_at, updated_at`

	insertUserSQL = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	selectUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	ctx, end := database.TraceQuery(ctx, "user.Create", insertUserSQL)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, insertUserSQL,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (u *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, "user.GetByID", selectUserByIDSQL)
	defer func() { end(err) }()

	u, err = scanUser(r.db.QueryRow(ctx, selectUserByIDSQL, id))
	if isInvalidID(err) {
		return nil, apperrors.ErrNotFound
	}
	return u, err
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (u *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, "user.GetByEmail", selectUserByEmailSQL)
	defer func() { end(err) }()

	return scanUser(r.db.QueryRow(ctx, selectUserByEmailSQL, email))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
