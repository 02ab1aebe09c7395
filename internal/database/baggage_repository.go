package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// BaggageRepository handles baggage database operations
type BaggageRepository struct {
	db *sqlx.DB
}

// NewBaggageRepository creates a new BaggageRepository
func NewBaggageRepository(db *sqlx.DB) *BaggageRepository {
	return &BaggageRepository{db: db}
}

const baggageColumns = `id, description, weight_kg, passenger_entry_id, responsible_person_id, created_at, updated_at`

// Create inserts a baggage record
func (r *BaggageRepository) Create(bag *models.Baggage) error {
	query := `
		INSERT INTO baggage (description, weight_kg, passenger_entry_id, responsible_person_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowx(query,
		bag.Description, bag.WeightKg, bag.PassengerEntryID, bag.ResponsiblePersonID,
	).Scan(&bag.ID, &bag.CreatedAt, &bag.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create baggage: %w", err)
	}

	return nil
}

// GetByID returns a baggage record, or models.ErrNotFound
func (r *BaggageRepository) GetByID(id string) (*models.Baggage, error) {
	query := fmt.Sprintf(`SELECT %s FROM baggage WHERE id = $1`, baggageColumns)

	var bag models.Baggage
	err := r.db.Get(&bag, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get baggage: %w", err)
	}

	return &bag, nil
}

// ListByPassengerEntry returns baggage attached to a passenger entry
func (r *BaggageRepository) ListByPassengerEntry(entryID string) ([]models.Baggage, error) {
	query := fmt.Sprintf(`SELECT %s FROM baggage WHERE passenger_entry_id = $1 ORDER BY created_at`, baggageColumns)

	var bags []models.Baggage
	if err := r.db.Select(&bags, query, entryID); err != nil {
		return nil, fmt.Errorf("failed to list baggage: %w", err)
	}

	return bags, nil
}

// Update updates a baggage record
func (r *BaggageRepository) Update(bag *models.Baggage) error {
	query := `
		UPDATE baggage
		SET description = $2, weight_kg = $3, passenger_entry_id = $4,
			responsible_person_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowx(query,
		bag.ID, bag.Description, bag.WeightKg, bag.PassengerEntryID, bag.ResponsiblePersonID,
	).Scan(&bag.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update baggage: %w", err)
	}

	return nil
}

// Delete removes a baggage record
func (r *BaggageRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM baggage WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete baggage: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}
