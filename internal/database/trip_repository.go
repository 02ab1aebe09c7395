package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// TripRepository handles trips and trip_buses database operations
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Passenger and cargo totals are always counted live from the booking entry
// tables, never stored, so they cannot drift.
const tripSelect = `
	SELECT t.id, t.departure_at, t.arrival_at, t.created_at, t.updated_at,
		   (SELECT COUNT(*) FROM passenger_entries pe WHERE pe.trip_id = t.id) AS passenger_count,
		   (SELECT COUNT(*) FROM cargo_entries ce WHERE ce.trip_id = t.id) AS cargo_count
	FROM trips t
`

// CreateTx inserts a trip and its bus associations inside a transaction
func (r *TripRepository) CreateTx(tx *sqlx.Tx, trip *models.Trip, busIDs []string) error {
	query := `
		INSERT INTO trips (departure_at, arrival_at)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowx(query, trip.DepartureAt, trip.ArrivalAt).
		Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	for _, busID := range busIDs {
		if err := r.AddBusTx(tx, trip.ID, busID); err != nil {
			return err
		}
	}

	return nil
}

// AddBusTx attaches a bus to a trip
func (r *TripRepository) AddBusTx(tx *sqlx.Tx, tripID, busID string) error {
	_, err := tx.Exec(`INSERT INTO trip_buses (trip_id, bus_id) VALUES ($1, $2)`, tripID, busID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bus %s already attached to trip %s: %w", busID, tripID, err)
		}
		return fmt.Errorf("failed to attach bus: %w", err)
	}
	return nil
}

// RemoveBusTx detaches a bus from a trip
func (r *TripRepository) RemoveBusTx(tx *sqlx.Tx, tripID, busID string) error {
	_, err := tx.Exec(`DELETE FROM trip_buses WHERE trip_id = $1 AND bus_id = $2`, tripID, busID)
	if err != nil {
		return fmt.Errorf("failed to detach bus: %w", err)
	}
	return nil
}

// GetByID returns a trip with derived counters, or models.ErrNotFound
func (r *TripRepository) GetByID(id string) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.Get(&trip, tripSelect+` WHERE t.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

// GetBusIDs returns the ids of the buses attached to a trip
func (r *TripRepository) GetBusIDs(tripID string) ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `SELECT bus_id FROM trip_buses WHERE trip_id = $1 ORDER BY bus_id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip buses: %w", err)
	}
	return ids, nil
}

// Exists reports whether a trip id resolves
func (r *TripRepository) Exists(id string) (bool, error) {
	var exists bool
	if err := r.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("failed to check trip: %w", err)
	}
	return exists, nil
}

// ExistsTx reports whether a trip id resolves, inside a transaction
func (r *TripRepository) ExistsTx(tx *sqlx.Tx, id string) (bool, error) {
	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("failed to check trip: %w", err)
	}
	return exists, nil
}

// UpdateWindowTx updates the departure/arrival window of a trip
func (r *TripRepository) UpdateWindowTx(tx *sqlx.Tx, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET departure_at = $2, arrival_at = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRowx(query, trip.ID, trip.DepartureAt, trip.ArrivalAt).Scan(&trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update trip: %w", err)
	}

	return nil
}

// DeleteTx removes a trip, its bus associations and generated seats. Booking
// entries block deletion through their foreign keys.
func (r *TripRepository) DeleteTx(tx *sqlx.Tx, id string) error {
	if _, err := tx.Exec(`DELETE FROM seats WHERE trip_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete trip seats: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM trip_buses WHERE trip_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete trip buses: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Find composes the optional trip filters into one paginated query. Filters
// are conjunctive; the free-text search matches plate or model of any
// attached bus through an EXISTS subquery, which keeps the result free of
// join duplicates. Order is departure_at with id as tiebreak so repeated
// calls page identically.
func (r *TripRepository) Find(filter models.TripFilter) ([]models.Trip, int, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM t.departure_at) = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM t.departure_at) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM trip_buses tb
			JOIN buses b ON b.id = tb.bus_id
			WHERE tb.trip_id = t.id
			  AND (b.plate ILIKE '%%' || $%d || '%%' OR b.model ILIKE '%%' || $%d || '%%')
		)`, argIdx, argIdx))
		args = append(args, escapeLike(strings.TrimSpace(*filter.Search)))
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM trips t` + whereClause
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	query := tripSelect + whereClause +
		fmt.Sprintf(" ORDER BY t.departure_at, t.id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Size, filter.Page*filter.Size)

	var trips []models.Trip
	if err := r.db.Select(&trips, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, total, nil
}

// escapeLike escapes the ILIKE wildcards so user input matches literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// GetBusesForTrips loads the buses of a set of trips in one query, keyed by
// trip id. Used to hydrate a listing page without N+1 lookups.
func (r *TripRepository) GetBusesForTrips(tripIDs []string) (map[string][]models.Bus, error) {
	result := make(map[string][]models.Bus)
	if len(tripIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT tb.trip_id, b.id, b.model, b.plate, b.capacity, b.layout, b.created_at, b.updated_at
		FROM trip_buses tb
		JOIN buses b ON b.id = tb.bus_id
		WHERE tb.trip_id IN (?)
		ORDER BY tb.trip_id, b.plate
	`, tripIDs)
	if err != nil {
		return nil, err
	}

	query = r.db.Rebind(query)

	rows, err := r.db.Queryx(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip buses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			TripID string `db:"trip_id"`
			models.Bus
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan trip bus: %w", err)
		}
		result[row.TripID] = append(result[row.TripID], row.Bus)
	}

	return result, rows.Err()
}
