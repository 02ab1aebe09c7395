package services

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// SeatLedgerService materializes and tracks per-trip seat occupancy derived
// from bus layouts. It is the only writer of the seats table.
type SeatLedgerService struct {
	db        *sqlx.DB
	seatRepo  *database.SeatRepository
	busRepo   *database.BusRepository
	tripRepo  *database.TripRepository
	entryRepo *database.PassengerEntryRepository
	logger    *logrus.Logger
}

// NewSeatLedgerService creates a new SeatLedgerService
func NewSeatLedgerService(
	db *sqlx.DB,
	seatRepo *database.SeatRepository,
	busRepo *database.BusRepository,
	tripRepo *database.TripRepository,
	entryRepo *database.PassengerEntryRepository,
	logger *logrus.Logger,
) *SeatLedgerService {
	return &SeatLedgerService{
		db:        db,
		seatRepo:  seatRepo,
		busRepo:   busRepo,
		tripRepo:  tripRepo,
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// GenerateSeatsTx creates one unoccupied seat per layout seat cell of the bus,
// scoped to the trip, inside the caller's transaction. The layout is
// re-validated against the declared capacity before any row is written.
func (s *SeatLedgerService) GenerateSeatsTx(tx *sqlx.Tx, tripID string, bus *models.Bus) (int, error) {
	if bus.Layout == nil {
		return 0, nil
	}
	if err := bus.Layout.Validate(bus.Capacity); err != nil {
		return 0, err
	}

	count, err := s.seatRepo.GenerateForBusTx(tx, tripID, bus)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"bus_id":  bus.ID,
		"seats":   count,
	}).Info("Seats generated for trip bus")

	return count, nil
}

// RemoveSeatsTx drops a bus's seats from a trip, used when the bus is
// detached. Fails while any of the seats is occupied.
func (s *SeatLedgerService) RemoveSeatsTx(tx *sqlx.Tx, tripID, busID string) error {
	return s.seatRepo.DeleteForBusTx(tx, tripID, busID)
}

// BindSeat atomically claims a seat for a passenger entry. If the entry
// already holds a different seat on the trip, the old seat is released in the
// same transaction; a conflict on the new seat rolls everything back, so the
// old binding survives a failed move.
func (s *SeatLedgerService) BindSeat(tripID, busID, seatNumber, entryID string) (*models.Seat, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seat, err := s.bindSeatTx(tx, tripID, busID, seatNumber, entryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seat binding: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":     tripID,
		"bus_id":      busID,
		"seat_number": seatNumber,
		"entry_id":    entryID,
	}).Info("Seat bound")

	return seat, nil
}

// BindSeatTx is the transactional form of BindSeat for callers composing
// larger units of work (booking updates, family groups).
func (s *SeatLedgerService) BindSeatTx(tx *sqlx.Tx, tripID, busID, seatNumber, entryID string) (*models.Seat, error) {
	return s.bindSeatTx(tx, tripID, busID, seatNumber, entryID)
}

func (s *SeatLedgerService) bindSeatTx(tx *sqlx.Tx, tripID, busID, seatNumber, entryID string) (*models.Seat, error) {
	entry, err := s.entryRepo.GetByIDTx(tx, entryID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewReferenceNotFound("passenger entry", entryID)
		}
		return nil, err
	}
	if entry.TripID != tripID {
		return nil, fmt.Errorf("entry %s belongs to another trip: %w", entryID, models.ErrSeatNotFound)
	}

	// Moving seats: free the old one first. A conflict on the new seat rolls
	// the release back with the rest of the transaction.
	if entry.SeatID != nil {
		if err := s.seatRepo.ReleaseByEntryTx(tx, entryID); err != nil {
			return nil, err
		}
	}

	seat, err := s.seatRepo.BindTx(tx, tripID, busID, seatNumber, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SetSeatTx(tx, entryID, &seat.ID); err != nil {
		return nil, err
	}

	return seat, nil
}

// ReleaseSeat clears whatever seat the entry holds. Idempotent: releasing an
// entry without a seat is a no-op, not an error.
func (s *SeatLedgerService) ReleaseSeat(entryID string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ReleaseSeatTx(tx, entryID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seat release: %w", err)
	}

	return nil
}

// ReleaseSeatTx is the transactional form of ReleaseSeat
func (s *SeatLedgerService) ReleaseSeatTx(tx *sqlx.Tx, entryID string) error {
	if err := s.seatRepo.ReleaseByEntryTx(tx, entryID); err != nil {
		return err
	}
	return s.entryRepo.SetSeatTx(tx, entryID, nil)
}

// CountSeats returns the number of generated seats on a trip
func (s *SeatLedgerService) CountSeats(tripID string) (int, error) {
	return s.seatRepo.CountByTrip(tripID)
}

// SeatMap returns the per-trip seat map ordered by bus and seat number, each
// seat annotated with the occupying passenger's identity if any.
func (s *SeatLedgerService) SeatMap(tripID string) ([]models.SeatMapEntry, error) {
	exists, err := s.tripRepo.Exists(tripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewReferenceNotFound("trip", tripID)
	}

	return s.seatRepo.ListMapByTrip(tripID)
}
