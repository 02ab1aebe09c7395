package services

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// TripService manages trip scheduling and the trip listing. Creating a trip or
// attaching a bus also materializes that bus's seats for the trip through the
// seat ledger, so the two stay consistent under one transaction.
type TripService struct {
	db         *sqlx.DB
	tripRepo   *database.TripRepository
	busRepo    *database.BusRepository
	seatLedger *SeatLedgerService
	logger     *logrus.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	db *sqlx.DB,
	tripRepo *database.TripRepository,
	busRepo *database.BusRepository,
	seatLedger *SeatLedgerService,
	logger *logrus.Logger,
) *TripService {
	return &TripService{
		db:         db,
		tripRepo:   tripRepo,
		busRepo:    busRepo,
		seatLedger: seatLedger,
		logger:     logger,
	}
}

// CreateTrip schedules a trip and generates seats for every attached bus
func (s *TripService) CreateTrip(req *models.CreateTripRequest) (*models.TripWithBuses, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	buses, err := s.resolveBuses(req.BusIDs)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip := &models.Trip{
		DepartureAt: req.DepartureAt,
		ArrivalAt:   req.ArrivalAt,
	}
	if err := s.tripRepo.CreateTx(tx, trip, req.BusIDs); err != nil {
		return nil, err
	}

	seatCount := 0
	for i := range buses {
		n, err := s.seatLedger.GenerateSeatsTx(tx, trip.ID, &buses[i])
		if err != nil {
			return nil, err
		}
		seatCount += n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":      trip.ID,
		"departure_at": trip.DepartureAt,
		"buses":        len(buses),
		"seats":        seatCount,
	}).Info("Trip created")

	return &models.TripWithBuses{Trip: *trip, Buses: buses, SeatCount: seatCount}, nil
}

// UpdateTrip adjusts a trip's window and/or its bus set. Detaching a bus
// fails while any of its seats on the trip is occupied; attaching a bus
// generates its seats.
func (s *TripService) UpdateTrip(id string, req *models.UpdateTripRequest) (*models.TripWithBuses, error) {
	trip, err := s.tripRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewReferenceNotFound("trip", id)
		}
		return nil, err
	}

	if req.DepartureAt != nil {
		trip.DepartureAt = *req.DepartureAt
	}
	if req.ArrivalAt != nil {
		trip.ArrivalAt = *req.ArrivalAt
	}
	if trip.ArrivalAt.Before(trip.DepartureAt) {
		return nil, errors.New("arrival_at must not be before departure_at")
	}

	currentBusIDs, err := s.tripRepo.GetBusIDs(id)
	if err != nil {
		return nil, err
	}

	var toAdd, toRemove []string
	if req.BusIDs != nil {
		toAdd, toRemove = diffBusSets(currentBusIDs, req.BusIDs)
	}

	var addedBuses []models.Bus
	if len(toAdd) > 0 {
		addedBuses, err = s.resolveBuses(toAdd)
		if err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tripRepo.UpdateWindowTx(tx, trip); err != nil {
		return nil, err
	}

	for _, busID := range toRemove {
		if err := s.seatLedger.RemoveSeatsTx(tx, id, busID); err != nil {
			return nil, err
		}
		if err := s.tripRepo.RemoveBusTx(tx, id, busID); err != nil {
			return nil, err
		}
	}
	for i := range addedBuses {
		if err := s.tripRepo.AddBusTx(tx, id, addedBuses[i].ID); err != nil {
			return nil, err
		}
		if _, err := s.seatLedger.GenerateSeatsTx(tx, id, &addedBuses[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip update: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":       id,
		"buses_added":   len(toAdd),
		"buses_removed": len(toRemove),
	}).Info("Trip updated")

	return s.GetTrip(id)
}

// DeleteTrip removes a trip, its bus links and generated seats. Trips with
// booking entries are protected by foreign keys and fail the delete.
func (s *TripService) DeleteTrip(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tripRepo.DeleteTx(tx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewReferenceNotFound("trip", id)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip deletion: %w", err)
	}

	s.logger.WithField("trip_id", id).Info("Trip deleted")

	return nil
}

// GetTrip returns a trip with its buses, derived counters and seat total
func (s *TripService) GetTrip(id string) (*models.TripWithBuses, error) {
	trip, err := s.tripRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewReferenceNotFound("trip", id)
		}
		return nil, err
	}

	busesByTrip, err := s.tripRepo.GetBusesForTrips([]string{id})
	if err != nil {
		return nil, err
	}

	seatCount, err := s.seatLedger.CountSeats(id)
	if err != nil {
		return nil, err
	}

	return &models.TripWithBuses{Trip: *trip, Buses: busesByTrip[id], SeatCount: seatCount}, nil
}

// FindTrips returns one page of the filtered trip listing with each trip's
// buses hydrated in a single extra query.
func (s *TripService) FindTrips(filter models.TripFilter) (*models.TripPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	trips, total, err := s.tripRepo.Find(filter)
	if err != nil {
		return nil, err
	}

	tripIDs := make([]string, len(trips))
	for i, t := range trips {
		tripIDs[i] = t.ID
	}

	busesByTrip, err := s.tripRepo.GetBusesForTrips(tripIDs)
	if err != nil {
		return nil, err
	}

	page := &models.TripPage{
		Trips:      make([]models.TripWithBuses, len(trips)),
		Page:       filter.Page,
		Size:       filter.Size,
		TotalCount: total,
	}
	for i, t := range trips {
		page.Trips[i] = models.TripWithBuses{Trip: t, Buses: busesByTrip[t.ID]}
	}

	return page, nil
}

// resolveBuses loads the named buses and reports the first missing one
func (s *TripService) resolveBuses(ids []string) ([]models.Bus, error) {
	buses, err := s.busRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(buses) != len(ids) {
		found := make(map[string]bool, len(buses))
		for _, b := range buses {
			found[b.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, models.NewReferenceNotFound("bus", id)
			}
		}
	}
	return buses, nil
}

func diffBusSets(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[string]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	for _, id := range desired {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
