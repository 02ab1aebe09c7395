package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// PassengerEntryRepository handles passenger_entries database operations
type PassengerEntryRepository struct {
	db *sqlx.DB
}

// NewPassengerEntryRepository creates a new PassengerEntryRepository
func NewPassengerEntryRepository(db *sqlx.DB) *PassengerEntryRepository {
	return &PassengerEntryRepository{db: db}
}

const passengerEntryColumns = `id, trip_id, person_id, pickup_address_id, delivery_address_id,
	pickup_driver_id, delivery_driver_id, referral_agent_id, price, payment_method, paid,
	seat_id, sort_order, color_tag, group_id, created_at, updated_at`

// CreateTx inserts a passenger entry inside a transaction
func (r *PassengerEntryRepository) CreateTx(tx *sqlx.Tx, entry *models.PassengerEntry) error {
	query := `
		INSERT INTO passenger_entries (
			trip_id, person_id, pickup_address_id, delivery_address_id,
			pickup_driver_id, delivery_driver_id, referral_agent_id,
			price, payment_method, paid, sort_order, color_tag, group_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowx(query,
		entry.TripID, entry.PersonID, entry.PickupAddressID, entry.DeliveryAddressID,
		entry.PickupDriverID, entry.DeliveryDriverID, entry.ReferralAgentID,
		entry.Price, entry.PaymentMethod, entry.Paid, entry.SortOrder, entry.ColorTag, entry.GroupID,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create passenger entry: %w", err)
	}

	return nil
}

// UpdateTx updates a passenger entry inside a transaction. The seat binding
// is managed separately through SetSeatTx and the seat ledger.
func (r *PassengerEntryRepository) UpdateTx(tx *sqlx.Tx, entry *models.PassengerEntry) error {
	query := `
		UPDATE passenger_entries
		SET trip_id = $2, person_id = $3, pickup_address_id = $4, delivery_address_id = $5,
			pickup_driver_id = $6, delivery_driver_id = $7, referral_agent_id = $8,
			price = $9, payment_method = $10, paid = $11, sort_order = $12,
			color_tag = $13, group_id = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRowx(query,
		entry.ID, entry.TripID, entry.PersonID, entry.PickupAddressID, entry.DeliveryAddressID,
		entry.PickupDriverID, entry.DeliveryDriverID, entry.ReferralAgentID,
		entry.Price, entry.PaymentMethod, entry.Paid, entry.SortOrder,
		entry.ColorTag, entry.GroupID,
	).Scan(&entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update passenger entry: %w", err)
	}

	return nil
}

// SetSeatTx stores the entry side of a seat binding; nil clears it
func (r *PassengerEntryRepository) SetSeatTx(tx *sqlx.Tx, entryID string, seatID *string) error {
	result, err := tx.Exec(
		`UPDATE passenger_entries SET seat_id = $2, updated_at = NOW() WHERE id = $1`,
		entryID, seatID)
	if err != nil {
		return fmt.Errorf("failed to set entry seat: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetByID returns a passenger entry, or models.ErrNotFound
func (r *PassengerEntryRepository) GetByID(id string) (*models.PassengerEntry, error) {
	return r.getByID(r.db, id)
}

// GetByIDTx returns a passenger entry inside a transaction
func (r *PassengerEntryRepository) GetByIDTx(tx *sqlx.Tx, id string) (*models.PassengerEntry, error) {
	return r.getByID(tx, id)
}

func (r *PassengerEntryRepository) getByID(q sqlx.Queryer, id string) (*models.PassengerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM passenger_entries WHERE id = $1`, passengerEntryColumns)

	var entry models.PassengerEntry
	err := sqlx.Get(q, &entry, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get passenger entry: %w", err)
	}

	return &entry, nil
}

// ListByTrip returns the roster for a trip, ordered for manual re-ordering
func (r *PassengerEntryRepository) ListByTrip(tripID string) ([]models.PassengerEntryDetail, error) {
	query := `
		SELECT pe.id, pe.trip_id, pe.person_id, pe.pickup_address_id, pe.delivery_address_id,
			   pe.pickup_driver_id, pe.delivery_driver_id, pe.referral_agent_id,
			   pe.price, pe.payment_method, pe.paid, pe.seat_id, pe.sort_order,
			   pe.color_tag, pe.group_id, pe.created_at, pe.updated_at,
			   p.name AS person_name, p.national_id AS person_national_id,
			   s.seat_number, s.bus_id AS seat_bus_id
		FROM passenger_entries pe
		JOIN people p ON p.id = pe.person_id
		LEFT JOIN seats s ON s.id = pe.seat_id
		WHERE pe.trip_id = $1
		ORDER BY pe.sort_order, pe.created_at
	`

	var entries []models.PassengerEntryDetail
	if err := r.db.Select(&entries, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list passenger entries: %w", err)
	}

	return entries, nil
}

// DeleteTx removes a passenger entry. The caller must release its seat in the
// same transaction first.
func (r *PassengerEntryRepository) DeleteTx(tx *sqlx.Tx, id string) error {
	result, err := tx.Exec(`DELETE FROM passenger_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete passenger entry: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// MarkPaid flips the paid flag to true. Idempotent; repeated calls succeed.
func (r *PassengerEntryRepository) MarkPaid(id string) error {
	result, err := r.db.Exec(
		`UPDATE passenger_entries SET paid = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark passenger entry paid: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// NextSortOrderTx returns the next free roster position for a trip
func (r *PassengerEntryRepository) NextSortOrderTx(tx *sqlx.Tx, tripID string) (int, error) {
	var next int
	err := tx.Get(&next,
		`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM passenger_entries WHERE trip_id = $1`,
		tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute sort order: %w", err)
	}
	return next, nil
}

// UpdateSortOrdersTx persists a new manual ordering for a trip's roster. Ids
// not belonging to the trip update nothing and surface as a count mismatch.
func (r *PassengerEntryRepository) UpdateSortOrdersTx(tx *sqlx.Tx, tripID string, orderedIDs []string) error {
	for position, id := range orderedIDs {
		result, err := tx.Exec(
			`UPDATE passenger_entries SET sort_order = $3, updated_at = NOW()
			 WHERE id = $1 AND trip_id = $2`,
			id, tripID, position+1)
		if err != nil {
			return fmt.Errorf("failed to reorder entry %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return models.NewReferenceNotFound("passenger entry", id)
		}
	}
	return nil
}

// ExistingIDsTx returns which of the given ids resolve to entries
func (r *PassengerEntryRepository) ExistingIDsTx(tx *sqlx.Tx, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM passenger_entries WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	query = tx.Rebind(query)

	var existing []string
	if err := tx.Select(&existing, query, args...); err != nil {
		return nil, fmt.Errorf("failed to check passenger entries: %w", err)
	}

	return existing, nil
}

// BulkAssignDriverTx sets one leg's driver on many entries at once
func (r *PassengerEntryRepository) BulkAssignDriverTx(tx *sqlx.Tx, ids []string, driverID string, leg models.DriverLeg) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	column := "pickup_driver_id"
	if leg == models.DriverLegDelivery {
		column = "delivery_driver_id"
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`UPDATE passenger_entries SET %s = ?, updated_at = NOW() WHERE id IN (?)`, column),
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

// ListByGroupTx returns the entries sharing a group id, in roster order
func (r *PassengerEntryRepository) ListByGroupTx(tx *sqlx.Tx, groupID string) ([]models.PassengerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM passenger_entries WHERE group_id = $1 ORDER BY sort_order`, passengerEntryColumns)

	var entries []models.PassengerEntry
	if err := tx.Select(&entries, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list group entries: %w", err)
	}

	return entries, nil
}
