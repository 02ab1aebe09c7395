package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// CargoEntryRepository handles cargo_entries database operations
type CargoEntryRepository struct {
	db *sqlx.DB
}

// NewCargoEntryRepository creates a new CargoEntryRepository
func NewCargoEntryRepository(db *sqlx.DB) *CargoEntryRepository {
	return &CargoEntryRepository{db: db}
}

const cargoEntryColumns = `id, trip_id, description, weight_kg, sender_person_id, recipient_person_id,
	pickup_address_id, delivery_address_id, responsible_person_id,
	pickup_driver_id, delivery_driver_id, referral_agent_id,
	price, payment_method, paid, created_at, updated_at`

// CreateTx inserts a cargo entry inside a transaction
func (r *CargoEntryRepository) CreateTx(tx *sqlx.Tx, entry *models.CargoEntry) error {
	query := `
		INSERT INTO cargo_entries (
			trip_id, description, weight_kg, sender_person_id, recipient_person_id,
			pickup_address_id, delivery_address_id, responsible_person_id,
			pickup_driver_id, delivery_driver_id, referral_agent_id,
			price, payment_method, paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowx(query,
		entry.TripID, entry.Description, entry.WeightKg, entry.SenderPersonID, entry.RecipientPersonID,
		entry.PickupAddressID, entry.DeliveryAddressID, entry.ResponsiblePersonID,
		entry.PickupDriverID, entry.DeliveryDriverID, entry.ReferralAgentID,
		entry.Price, entry.PaymentMethod, entry.Paid,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cargo entry: %w", err)
	}

	return nil
}

// UpdateTx updates a cargo entry inside a transaction
func (r *CargoEntryRepository) UpdateTx(tx *sqlx.Tx, entry *models.CargoEntry) error {
	query := `
		UPDATE cargo_entries
		SET trip_id = $2, description = $3, weight_kg = $4, sender_person_id = $5,
			recipient_person_id = $6, pickup_address_id = $7, delivery_address_id = $8,
			responsible_person_id = $9, pickup_driver_id = $10, delivery_driver_id = $11,
			referral_agent_id = $12, price = $13, payment_method = $14, paid = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRowx(query,
		entry.ID, entry.TripID, entry.Description, entry.WeightKg, entry.SenderPersonID,
		entry.RecipientPersonID, entry.PickupAddressID, entry.DeliveryAddressID,
		entry.ResponsiblePersonID, entry.PickupDriverID, entry.DeliveryDriverID,
		entry.ReferralAgentID, entry.Price, entry.PaymentMethod, entry.Paid,
	).Scan(&entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update cargo entry: %w", err)
	}

	return nil
}

// GetByID returns a cargo entry, or models.ErrNotFound
func (r *CargoEntryRepository) GetByID(id string) (*models.CargoEntry, error) {
	return r.getByID(r.db, id)
}

// GetByIDTx returns a cargo entry inside a transaction
func (r *CargoEntryRepository) GetByIDTx(tx *sqlx.Tx, id string) (*models.CargoEntry, error) {
	return r.getByID(tx, id)
}

func (r *CargoEntryRepository) getByID(q sqlx.Queryer, id string) (*models.CargoEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM cargo_entries WHERE id = $1`, cargoEntryColumns)

	var entry models.CargoEntry
	err := sqlx.Get(q, &entry, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cargo entry: %w", err)
	}

	return &entry, nil
}

// ListByTrip returns the cargo manifest for a trip with sender/recipient names
func (r *CargoEntryRepository) ListByTrip(tripID string) ([]models.CargoEntryDetail, error) {
	query := `
		SELECT ce.id, ce.trip_id, ce.description, ce.weight_kg, ce.sender_person_id,
			   ce.recipient_person_id, ce.pickup_address_id, ce.delivery_address_id,
			   ce.responsible_person_id, ce.pickup_driver_id, ce.delivery_driver_id,
			   ce.referral_agent_id, ce.price, ce.payment_method, ce.paid,
			   ce.created_at, ce.updated_at,
			   sp.name AS sender_name, rp.name AS recipient_name
		FROM cargo_entries ce
		JOIN people sp ON sp.id = ce.sender_person_id
		JOIN people rp ON rp.id = ce.recipient_person_id
		WHERE ce.trip_id = $1
		ORDER BY ce.created_at
	`

	var entries []models.CargoEntryDetail
	if err := r.db.Select(&entries, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list cargo entries: %w", err)
	}

	return entries, nil
}

// DeleteTx removes a cargo entry
func (r *CargoEntryRepository) DeleteTx(tx *sqlx.Tx, id string) error {
	result, err := tx.Exec(`DELETE FROM cargo_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cargo entry: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// MarkPaid flips the paid flag to true. Idempotent; repeated calls succeed.
func (r *CargoEntryRepository) MarkPaid(id string) error {
	result, err := r.db.Exec(
		`UPDATE cargo_entries SET paid = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark cargo entry paid: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ExistingIDsTx returns which of the given ids resolve to cargo entries
func (r *CargoEntryRepository) ExistingIDsTx(tx *sqlx.Tx, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM cargo_entries WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	query = tx.Rebind(query)

	var existing []string
	if err := tx.Select(&existing, query, args...); err != nil {
		return nil, fmt.Errorf("failed to check cargo entries: %w", err)
	}

	return existing, nil
}

// BulkAssignDriverTx sets one leg's driver on many cargo entries at once
func (r *CargoEntryRepository) BulkAssignDriverTx(tx *sqlx.Tx, ids []string, driverID string, leg models.DriverLeg) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	column := "pickup_driver_id"
	if leg == models.DriverLegDelivery {
		column = "delivery_driver_id"
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`UPDATE cargo_entries SET %s = ?, updated_at = NOW() WHERE id IN (?)`, column),
		driverID, ids)
	if err != nil {
		return 0, err
	}

	query = tx.Rebind(query)
	result, err := tx.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk assign driver: %w", err)
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}
