package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// BookingService validates and persists passenger and cargo booking entries,
// resolving every referenced entity before commit. Seat changes ride in the
// same transaction as the entry write.
type BookingService struct {
	db            *sqlx.DB
	entryRepo     *database.PassengerEntryRepository
	cargoRepo     *database.CargoEntryRepository
	tripRepo      *database.TripRepository
	personRepo    *database.PersonRepository
	addressRepo   *database.AddressRepository
	affiliateRepo *database.AffiliateRepository
	seatLedger    *SeatLedgerService
	logger        *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	db *sqlx.DB,
	entryRepo *database.PassengerEntryRepository,
	cargoRepo *database.CargoEntryRepository,
	tripRepo *database.TripRepository,
	personRepo *database.PersonRepository,
	addressRepo *database.AddressRepository,
	affiliateRepo *database.AffiliateRepository,
	seatLedger *SeatLedgerService,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		db:            db,
		entryRepo:     entryRepo,
		cargoRepo:     cargoRepo,
		tripRepo:      tripRepo,
		personRepo:    personRepo,
		addressRepo:   addressRepo,
		affiliateRepo: affiliateRepo,
		seatLedger:    seatLedger,
		logger:        logger,
	}
}

// SavePassenger creates (id == nil) or updates a passenger entry. All
// mandatory references must resolve; optional references are cleared when the
// request carries a nil id. Seat selection and clearing happen in the same
// transaction as the entry write.
func (s *BookingService) SavePassenger(id *string, req *models.SavePassengerEntryRequest) (*models.PassengerEntry, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.resolvePassengerRefs(tx, req); err != nil {
		return nil, err
	}

	var entry *models.PassengerEntry
	if id == nil {
		entry = &models.PassengerEntry{}
		s.applyPassengerRequest(entry, req)
		if req.SortOrder != nil {
			entry.SortOrder = *req.SortOrder
		} else {
			next, err := s.entryRepo.NextSortOrderTx(tx, req.TripID)
			if err != nil {
				return nil, err
			}
			entry.SortOrder = next
		}
		if err := s.entryRepo.CreateTx(tx, entry); err != nil {
			return nil, err
		}
	} else {
		entry, err = s.entryRepo.GetByIDTx(tx, *id)
		if err != nil {
			return nil, err
		}
		if entry.TripID != req.TripID {
			// Moving an entry between trips drops any seat it held.
			if err := s.seatLedger.ReleaseSeatTx(tx, entry.ID); err != nil {
				return nil, err
			}
			entry.SeatID = nil
		}
		s.applyPassengerRequest(entry, req)
		if req.SortOrder != nil {
			entry.SortOrder = *req.SortOrder
		}
		if err := s.entryRepo.UpdateTx(tx, entry); err != nil {
			return nil, err
		}
	}

	if req.ClearSeat && req.Seat == nil {
		if err := s.seatLedger.ReleaseSeatTx(tx, entry.ID); err != nil {
			return nil, err
		}
		entry.SeatID = nil
	}
	if req.Seat != nil {
		seat, err := s.seatLedger.BindSeatTx(tx, entry.TripID, req.Seat.BusID, req.Seat.SeatNumber, entry.ID)
		if err != nil {
			return nil, err
		}
		entry.SeatID = &seat.ID
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit passenger entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"entry_id": entry.ID,
		"trip_id":  entry.TripID,
	}).Info("Passenger entry saved")

	return entry, nil
}

func (s *BookingService) applyPassengerRequest(entry *models.PassengerEntry, req *models.SavePassengerEntryRequest) {
	entry.TripID = req.TripID
	entry.PersonID = req.PersonID
	entry.PickupAddressID = req.PickupAddressID
	entry.DeliveryAddressID = req.DeliveryAddressID
	entry.PickupDriverID = req.PickupDriverID
	entry.DeliveryDriverID = req.DeliveryDriverID
	entry.ReferralAgentID = req.ReferralAgentID
	entry.Price = req.Price
	entry.PaymentMethod = req.PaymentMethod
	if req.Paid != nil {
		entry.Paid = *req.Paid
	}
	entry.ColorTag = req.ColorTag
}

func (s *BookingService) resolvePassengerRefs(tx *sqlx.Tx, req *models.SavePassengerEntryRequest) error {
	if ok, err := s.tripRepo.ExistsTx(tx, req.TripID); err != nil {
		return err
	} else if !ok {
		return models.NewReferenceNotFound("trip", req.TripID)
	}
	if ok, err := s.personRepo.ExistsTx(tx, req.PersonID); err != nil {
		return err
	} else if !ok {
		return models.NewReferenceNotFound("person", req.PersonID)
	}
	for _, addrID := range []string{req.PickupAddressID, req.DeliveryAddressID} {
		if ok, err := s.addressRepo.ExistsTx(tx, addrID); err != nil {
			return err
		} else if !ok {
			return models.NewReferenceNotFound("address", addrID)
		}
	}
	return s.resolveAffiliates(tx, req.PickupDriverID, req.DeliveryDriverID, req.ReferralAgentID)
}

func (s *BookingService) resolveAffiliates(tx *sqlx.Tx, pickupDriverID, deliveryDriverID, agentID *string) error {
	for _, driverID := range []*string{pickupDriverID, deliveryDriverID} {
		if driverID == nil {
			continue
		}
		if ok, err := s.affiliateRepo.DriverExistsTx(tx, *driverID); err != nil {
			return err
		} else if !ok {
			return models.NewReferenceNotFound("driver", *driverID)
		}
	}
	if agentID != nil {
		if ok, err := s.affiliateRepo.ReferralAgentExistsTx(tx, *agentID); err != nil {
			return err
		} else if !ok {
			return models.NewReferenceNotFound("referral agent", *agentID)
		}
	}
	return nil
}

// DeletePassenger removes a passenger entry, releasing its seat in the same
// transaction. Returns models.ErrNotFound for unknown ids; absence is an
// expected outcome, not a fault.
func (s *BookingService) DeletePassenger(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.entryRepo.GetByIDTx(tx, id); err != nil {
		return err
	}
	if err := s.seatLedger.ReleaseSeatTx(tx, id); err != nil {
		return err
	}
	if err := s.entryRepo.DeleteTx(tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit passenger deletion: %w", err)
	}

	s.logger.WithField("entry_id", id).Info("Passenger entry deleted")
	return nil
}

// MarkPassengerPaid flips the paid flag. Idempotent.
func (s *BookingService) MarkPassengerPaid(id string) error {
	return s.entryRepo.MarkPaid(id)
}

// ListRoster returns the ordered passenger roster for a trip
func (s *BookingService) ListRoster(tripID string) ([]models.PassengerEntryDetail, error) {
	exists, err := s.tripRepo.Exists(tripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewReferenceNotFound("trip", tripID)
	}
	return s.entryRepo.ListByTrip(tripID)
}

// ReorderRoster persists a new manual ordering for a trip's roster
func (s *BookingService) ReorderRoster(tripID string, entryIDs []string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if ok, err := s.tripRepo.ExistsTx(tx, tripID); err != nil {
		return err
	} else if !ok {
		return models.NewReferenceNotFound("trip", tripID)
	}
	if err := s.entryRepo.UpdateSortOrdersTx(tx, tripID, entryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit roster reorder: %w", err)
	}

	return nil
}

// SaveCargo creates (id == nil) or updates a cargo entry with the same
// reference-resolution rules as passenger entries.
func (s *BookingService) SaveCargo(id *string, req *models.SaveCargoEntryRequest) (*models.CargoEntry, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.resolveCargoRefs(tx, req); err != nil {
		return nil, err
	}

	var entry *models.CargoEntry
	if id == nil {
		entry = &models.CargoEntry{}
		s.applyCargoRequest(entry, req)
		if err := s.cargoRepo.CreateTx(tx, entry); err != nil {
			return nil, err
		}
	} else {
		entry, err = s.cargoRepo.GetByIDTx(tx, *id)
		if err != nil {
			return nil, err
		}
		s.applyCargoRequest(entry, req)
		if err := s.cargoRepo.UpdateTx(tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cargo entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"cargo_id": entry.ID,
		"trip_id":  entry.TripID,
	}).Info("Cargo entry saved")

	return entry, nil
}

func (s *BookingService) applyCargoRequest(entry *models.CargoEntry, req *models.SaveCargoEntryRequest) {
	entry.TripID = req.TripID
	entry.Description = req.Description
	entry.WeightKg = req.WeightKg
	entry.SenderPersonID = req.SenderPersonID
	entry.RecipientPersonID = req.RecipientPersonID
	entry.PickupAddressID = req.PickupAddressID
	entry.DeliveryAddressID = req.DeliveryAddressID
	entry.ResponsiblePersonID = req.ResponsiblePersonID
	entry.PickupDriverID = req.PickupDriverID
	entry.DeliveryDriverID = req.DeliveryDriverID
	entry.ReferralAgentID = req.ReferralAgentID
	entry.Price = req.Price
	entry.PaymentMethod = req.PaymentMethod
	if req.Paid != nil {
		entry.Paid = *req.Paid
	}
}

func (s *BookingService) resolveCargoRefs(tx *sqlx.Tx, req *models.SaveCargoEntryRequest) error {
	if ok, err := s.tripRepo.ExistsTx(tx, req.TripID); err != nil {
		return err
	} else if !ok {
		return models.NewReferenceNotFound("trip", req.TripID)
	}
	people := []string{req.SenderPersonID, req.RecipientPersonID}
	if req.ResponsiblePersonID != nil {
		people = append(people, *req.ResponsiblePersonID)
	}
	for _, personID := range people {
		if ok, err := s.personRepo.ExistsTx(tx, personID); err != nil {
			return err
		} else if !ok {
			return models.NewReferenceNotFound("person", personID)
		}
	}
	for _, addrID := range []string{req.PickupAddressID, req.DeliveryAddressID} {
		if ok, err := s.addressRepo.ExistsTx(tx, addrID); err != nil {
			return err
		} else if !ok {
			return models.NewReferenceNotFound("address", addrID)
		}
	}
	return s.resolveAffiliates(tx, req.PickupDriverID, req.DeliveryDriverID, req.ReferralAgentID)
}

// DeleteCargo removes a cargo entry. Returns models.ErrNotFound for unknown ids.
func (s *BookingService) DeleteCargo(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.cargoRepo.DeleteTx(tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cargo deletion: %w", err)
	}

	s.logger.WithField("cargo_id", id).Info("Cargo entry deleted")
	return nil
}

// MarkCargoPaid flips the paid flag. Idempotent.
func (s *BookingService) MarkCargoPaid(id string) error {
	return s.cargoRepo.MarkPaid(id)
}

// ListCargo returns the cargo manifest for a trip
func (s *BookingService) ListCargo(tripID string) ([]models.CargoEntryDetail, error) {
	exists, err := s.tripRepo.Exists(tripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewReferenceNotFound("trip", tripID)
	}
	return s.cargoRepo.ListByTrip(tripID)
}

// GetPassenger returns one passenger entry, or models.ErrNotFound
func (s *BookingService) GetPassenger(id string) (*models.PassengerEntry, error) {
	return s.entryRepo.GetByID(id)
}

// GetCargo returns one cargo entry, or models.ErrNotFound
func (s *BookingService) GetCargo(id string) (*models.CargoEntry, error) {
	return s.cargoRepo.GetByID(id)
}
