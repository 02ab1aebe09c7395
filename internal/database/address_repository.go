package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// AddressRepository handles addresses database operations
type AddressRepository struct {
	db *sqlx.DB
}

// NewAddressRepository creates a new AddressRepository
func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

const addressColumns = `id, street, number, neighborhood, city, state, postal_code, created_at, updated_at`

// Create inserts a new address
func (r *AddressRepository) Create(addr *models.Address) error {
	return r.create(r.db, addr)
}

// CreateTx inserts a new address inside an existing transaction
func (r *AddressRepository) CreateTx(tx *sqlx.Tx, addr *models.Address) error {
	return r.create(tx, addr)
}

func (r *AddressRepository) create(q sqlx.Queryer, addr *models.Address) error {
	query := `
		INSERT INTO addresses (street, number, neighborhood, city, state, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowx(query,
		addr.Street, addr.Number, addr.Neighborhood, addr.City, addr.State, addr.PostalCode,
	).Scan(&addr.ID, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

// GetByID returns an address by id, or models.ErrNotFound
func (r *AddressRepository) GetByID(id string) (*models.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1`, addressColumns)

	var addr models.Address
	err := r.db.Get(&addr, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return &addr, nil
}

// GetAll returns all addresses ordered by city, street
func (r *AddressRepository) GetAll() ([]models.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses ORDER BY city, street`, addressColumns)

	var addrs []models.Address
	if err := r.db.Select(&addrs, query); err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	return addrs, nil
}

// Update updates an address row
func (r *AddressRepository) Update(addr *models.Address) error {
	query := `
		UPDATE addresses
		SET street = $2, number = $3, neighborhood = $4, city = $5, state = $6,
			postal_code = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowx(query,
		addr.ID, addr.Street, addr.Number, addr.Neighborhood, addr.City, addr.State, addr.PostalCode,
	).Scan(&addr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update address: %w", err)
	}

	return nil
}

// Delete removes an address. Returns models.ErrNotFound when the id is unknown.
func (r *AddressRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ExistsTx reports whether an address id resolves, inside a transaction
func (r *AddressRepository) ExistsTx(tx *sqlx.Tx, id string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS (SELECT 1 FROM addresses WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check address: %w", err)
	}
	return exists, nil
}
