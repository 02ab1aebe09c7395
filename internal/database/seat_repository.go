package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// SeatRepository handles seats database operations. Seats are materialized
// per (trip, bus) from the bus layout and are never user-created directly.
//
// Occupancy correctness relies on two constraints in the schema:
//   - UNIQUE (trip_id, bus_id, seat_number)
//   - UNIQUE (passenger_entry_id) WHERE passenger_entry_id IS NOT NULL
//
// plus the conditional "occupied = false" update below, so two racing binds
// on the same seat resolve to one winner under read committed.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

const seatColumns = `id, trip_id, bus_id, seat_number, kind, occupied, passenger_entry_id, created_at, updated_at`

// GenerateForBusTx creates one unoccupied seat row per seat cell of the bus
// layout, scoped to (tripID, bus.ID). Returns the number of rows created.
func (r *SeatRepository) GenerateForBusTx(tx *sqlx.Tx, tripID string, bus *models.Bus) (int, error) {
	cells := bus.Layout.SeatCells()
	if len(cells) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO seats (trip_id, bus_id, seat_number, kind, occupied)
		VALUES ($1, $2, $3, $4, false)
	`

	count := 0
	for _, cell := range cells {
		if _, err := tx.Exec(query, tripID, bus.ID, cell.SeatNumber, cell.Kind); err != nil {
			return count, fmt.Errorf("failed to insert seat %s: %w", cell.SeatNumber, err)
		}
		count++
	}

	return count, nil
}

// DeleteForBusTx removes the seats of one bus on a trip. Fails if any seat is
// still occupied so a bus cannot be detached under seated passengers.
func (r *SeatRepository) DeleteForBusTx(tx *sqlx.Tx, tripID, busID string) error {
	var occupied int
	err := tx.Get(&occupied,
		`SELECT COUNT(*) FROM seats WHERE trip_id = $1 AND bus_id = $2 AND occupied = true`,
		tripID, busID)
	if err != nil {
		return fmt.Errorf("failed to count occupied seats: %w", err)
	}
	if occupied > 0 {
		return fmt.Errorf("%d seats still occupied on bus %s: %w", occupied, busID, models.ErrSeatConflict)
	}

	if _, err := tx.Exec(`DELETE FROM seats WHERE trip_id = $1 AND bus_id = $2`, tripID, busID); err != nil {
		return fmt.Errorf("failed to delete seats: %w", err)
	}

	return nil
}

// BindTx atomically claims an unoccupied seat for a passenger entry. The
// conditional update is the race arbiter: of two concurrent binds exactly one
// sees occupied = false. Returns models.ErrSeatConflict when the seat is
// taken and models.ErrSeatNotFound when the tuple is unknown.
func (r *SeatRepository) BindTx(tx *sqlx.Tx, tripID, busID, seatNumber, entryID string) (*models.Seat, error) {
	query := fmt.Sprintf(`
		UPDATE seats
		SET occupied = true, passenger_entry_id = $4, updated_at = NOW()
		WHERE trip_id = $1 AND bus_id = $2 AND seat_number = $3 AND occupied = false
		RETURNING %s
	`, seatColumns)

	var seat models.Seat
	err := tx.Get(&seat, query, tripID, busID, seatNumber, entryID)
	if err == nil {
		return &seat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if isUniqueViolation(err) {
			// entry already holds another seat
			return nil, models.ErrSeatConflict
		}
		return nil, fmt.Errorf("failed to bind seat: %w", err)
	}

	// No row updated: distinguish an unknown seat from an occupied one.
	var exists bool
	err = tx.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM seats WHERE trip_id = $1 AND bus_id = $2 AND seat_number = $3)`,
		tripID, busID, seatNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check seat: %w", err)
	}
	if !exists {
		return nil, models.ErrSeatNotFound
	}

	return nil, models.ErrSeatConflict
}

// ReleaseByEntryTx clears the occupancy of whatever seat the entry holds.
// Idempotent: releasing an entry with no seat is a no-op.
func (r *SeatRepository) ReleaseByEntryTx(tx *sqlx.Tx, entryID string) error {
	query := `
		UPDATE seats
		SET occupied = false, passenger_entry_id = NULL, updated_at = NOW()
		WHERE passenger_entry_id = $1
	`

	if _, err := tx.Exec(query, entryID); err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}

	return nil
}

// ListMapByTrip returns the seat-map read model for a trip: all seats ordered
// by bus and seat number, annotated with the occupying passenger's identity.
func (r *SeatRepository) ListMapByTrip(tripID string) ([]models.SeatMapEntry, error) {
	query := `
		SELECT s.id, s.trip_id, s.bus_id, s.seat_number, s.kind, s.occupied,
			   s.passenger_entry_id, s.created_at, s.updated_at,
			   p.name AS passenger_name, p.national_id AS passenger_national_id
		FROM seats s
		LEFT JOIN passenger_entries pe ON pe.id = s.passenger_entry_id
		LEFT JOIN people p ON p.id = pe.person_id
		WHERE s.trip_id = $1
		ORDER BY s.bus_id, s.seat_number
	`

	var entries []models.SeatMapEntry
	if err := r.db.Select(&entries, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list seat map: %w", err)
	}

	return entries, nil
}

// CountByTrip returns the number of generated seats for a trip
func (r *SeatRepository) CountByTrip(tripID string) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM seats WHERE trip_id = $1`, tripID); err != nil {
		return 0, fmt.Errorf("failed to count seats: %w", err)
	}
	return count, nil
}
