package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// AdminUserRepository handles admin_users database operations
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// Create inserts an admin user
func (r *AdminUserRepository) Create(user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, name, password_hash, roles, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowx(query, user.Email, user.Name, user.PasswordHash, user.Roles, user.Active).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("admin user %s already exists: %w", user.Email, err)
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// GetByEmail returns an active admin user by email, or models.ErrNotFound
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, name, password_hash, roles, active, created_at, updated_at
		FROM admin_users
		WHERE LOWER(email) = LOWER($1) AND active = true
	`

	var user models.AdminUser
	err := r.db.Get(&user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return &user, nil
}

// GetByID returns an admin user by id, or models.ErrNotFound
func (r *AdminUserRepository) GetByID(id string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, name, password_hash, roles, active, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`

	var user models.AdminUser
	err := r.db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return &user, nil
}
