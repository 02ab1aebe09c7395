package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rotaserra/tour-backend/internal/models"
)

// BusRepository handles buses database operations
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create inserts a new bus. The layout must already be validated against the
// declared capacity.
func (r *BusRepository) Create(bus *models.Bus) error {
	query := `
		INSERT INTO buses (model, plate, capacity, layout)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowx(query, bus.Model, bus.Plate, bus.Capacity, bus.Layout).
		Scan(&bus.ID, &bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bus with plate %s already exists: %w", bus.Plate, err)
		}
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID returns a bus by id, or models.ErrNotFound
func (r *BusRepository) GetByID(id string) (*models.Bus, error) {
	query := `
		SELECT id, model, plate, capacity, layout, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	var bus models.Bus
	err := r.db.Get(&bus, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	return &bus, nil
}

// GetAll returns all buses ordered by plate
func (r *BusRepository) GetAll() ([]models.Bus, error) {
	query := `
		SELECT id, model, plate, capacity, layout, created_at, updated_at
		FROM buses
		ORDER BY plate
	`

	var buses []models.Bus
	if err := r.db.Select(&buses, query); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	return buses, nil
}

// GetByIDs returns the buses matching the given ids
func (r *BusRepository) GetByIDs(ids []string) ([]models.Bus, error) {
	if len(ids) == 0 {
		return []models.Bus{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, model, plate, capacity, layout, created_at, updated_at
		FROM buses
		WHERE id IN (?)
		ORDER BY plate
	`, ids)
	if err != nil {
		return nil, err
	}

	query = r.db.Rebind(query)

	var buses []models.Bus
	if err := r.db.Select(&buses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get buses: %w", err)
	}

	return buses, nil
}

// Update updates a bus row
func (r *BusRepository) Update(bus *models.Bus) error {
	query := `
		UPDATE buses
		SET model = $2, plate = $3, capacity = $4, layout = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowx(query, bus.ID, bus.Model, bus.Plate, bus.Capacity, bus.Layout).
		Scan(&bus.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update bus: %w", err)
	}

	return nil
}

// Delete removes a bus. Returns models.ErrNotFound when the id is unknown.
func (r *BusRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
