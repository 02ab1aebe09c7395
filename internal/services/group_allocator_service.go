package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// GroupAllocatorService performs multi-row booking operations as single
// atomic units: creating a family of passengers in one call, and assigning a
// driver to a batch of bookings. Partial application never occurs; any
// resolution failure rolls back the whole operation.
type GroupAllocatorService struct {
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

// NewGroupAllocatorService creates a new GroupAllocatorService
func NewGroupAllocatorService(
	db *sqlx.DB,
	entryRepo *database.PassengerEntryRepository,
	cargoRepo *database.CargoEntryRepository,
	tripRepo *database.TripRepository,
	personRepo *database.PersonRepository,
	addressRepo *database.AddressRepository,
	affiliateRepo *database.AffiliateRepository,
	seatLedger *SeatLedgerService,
	logger *logrus.Logger,
) *GroupAllocatorService {
	return &GroupAllocatorService{
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

// CreateFamilyGroup creates or updates one passenger entry per member inside
// a single transaction. Shared addresses and people are reused when they
// resolve and created otherwise; shared fields apply as defaults where a
// member does not override them; every member receives the same fresh group
// id and color tag. Members are processed in request order, so a seat bound
// by an earlier member conflicts for a later one and aborts the whole group.
func (s *GroupAllocatorService) CreateFamilyGroup(req *models.CreateFamilyGroupRequest) (*models.FamilyGroupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pickupAddressID, deliveryAddressID, err := s.resolveSharedRefs(tx, req)
	if err != nil {
		return nil, err
	}

	groupID := uuid.New().String()
	result := &models.FamilyGroupResult{GroupID: groupID}

	nextSort, err := s.entryRepo.NextSortOrderTx(tx, req.TripID)
	if err != nil {
		return nil, err
	}

	for i := range req.Members {
		member := &req.Members[i]

		person, err := s.resolveOrCreatePerson(tx, member)
		if err != nil {
			return nil, err
		}

		entry, err := s.upsertMemberEntry(tx, req, member, person.ID, groupID, pickupAddressID, deliveryAddressID, &nextSort)
		if err != nil {
			return nil, err
		}

		if member.Seat != nil {
			if _, err := s.seatLedger.BindSeatTx(tx, req.TripID, member.Seat.BusID, member.Seat.SeatNumber, entry.ID); err != nil {
				return nil, err
			}
		}
	}

	// Re-read the group so the result carries persisted seat bindings and
	// roster positions for every member.
	entries, err := s.entryRepo.ListByGroupTx(tx, groupID)
	if err != nil {
		return nil, err
	}
	result.Entries = entries

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit family group: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"group_id": groupID,
		"trip_id":  req.TripID,
		"members":  len(result.Entries),
	}).Info("Family group created")

	return result, nil
}

// resolveSharedRefs checks every shared reference and returns the resolved
// pickup and delivery address ids, creating inline addresses on the way.
func (s *GroupAllocatorService) resolveSharedRefs(tx *sqlx.Tx, req *models.CreateFamilyGroupRequest) (string, string, error) {
	if ok, err := s.tripRepo.ExistsTx(tx, req.TripID); err != nil {
		return "", "", err
	} else if !ok {
		return "", "", models.NewReferenceNotFound("trip", req.TripID)
	}
	pickupAddressID, err := s.resolveOrCreateAddress(tx, req.PickupAddressID, req.PickupAddress)
	if err != nil {
		return "", "", err
	}
	deliveryAddressID, err := s.resolveOrCreateAddress(tx, req.DeliveryAddressID, req.DeliveryAddress)
	if err != nil {
		return "", "", err
	}
	for _, driverID := range []*string{req.PickupDriverID, req.DeliveryDriverID} {
		if driverID == nil {
			continue
		}
		if ok, err := s.affiliateRepo.DriverExistsTx(tx, *driverID); err != nil {
			return "", "", err
		} else if !ok {
			return "", "", models.NewReferenceNotFound("driver", *driverID)
		}
	}
	if req.ReferralAgentID != nil {
		if ok, err := s.affiliateRepo.ReferralAgentExistsTx(tx, *req.ReferralAgentID); err != nil {
			return "", "", err
		} else if !ok {
			return "", "", models.NewReferenceNotFound("referral agent", *req.ReferralAgentID)
		}
	}
	return pickupAddressID, deliveryAddressID, nil
}

// resolveOrCreateAddress resolves an address by id or creates the inline
// payload inside the transaction, so a created address rolls back with the
// rest of the group on any later failure.
func (s *GroupAllocatorService) resolveOrCreateAddress(tx *sqlx.Tx, id *string, payload *models.CreateAddressRequest) (string, error) {
	if id != nil {
		if ok, err := s.addressRepo.ExistsTx(tx, *id); err != nil {
			return "", err
		} else if !ok {
			return "", models.NewReferenceNotFound("address", *id)
		}
		return *id, nil
	}

	addr := &models.Address{
		Street:       payload.Street,
		Number:       payload.Number,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
		PostalCode:   payload.PostalCode,
	}
	if err := s.addressRepo.CreateTx(tx, addr); err != nil {
		return "", err
	}

	return addr.ID, nil
}

// resolveOrCreatePerson finds the member's person by id, then by national id,
// and creates a new one only when neither resolves.
func (s *GroupAllocatorService) resolveOrCreatePerson(tx *sqlx.Tx, member *models.FamilyMember) (*models.Person, error) {
	if member.PersonID != nil {
		person, err := s.personRepo.GetByIDTx(tx, *member.PersonID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewReferenceNotFound("person", *member.PersonID)
			}
			return nil, err
		}
		return person, nil
	}

	if member.NationalID != nil && *member.NationalID != "" {
		person, err := s.personRepo.GetByNationalIDTx(tx, *member.NationalID)
		if err == nil {
			return person, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	person := &models.Person{
		Name:   member.Name,
		Age:    member.Age,
		Phones: models.PhoneList(member.Phones),
	}
	if member.NationalID != nil {
		person.NationalID = *member.NationalID
	}
	if err := s.personRepo.CreateTx(tx, person); err != nil {
		return nil, err
	}

	return person, nil
}

func (s *GroupAllocatorService) upsertMemberEntry(
	tx *sqlx.Tx,
	req *models.CreateFamilyGroupRequest,
	member *models.FamilyMember,
	personID, groupID string,
	pickupAddressID, deliveryAddressID string,
	nextSort *int,
) (*models.PassengerEntry, error) {
	var entry *models.PassengerEntry

	if member.EntryID != nil {
		existing, err := s.entryRepo.GetByIDTx(tx, *member.EntryID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewReferenceNotFound("passenger entry", *member.EntryID)
			}
			return nil, err
		}
		entry = existing
	} else {
		entry = &models.PassengerEntry{SortOrder: *nextSort}
		*nextSort++
	}

	entry.TripID = req.TripID
	entry.PersonID = personID
	entry.PickupAddressID = valueOr(member.PickupAddressID, pickupAddressID)
	entry.DeliveryAddressID = valueOr(member.DeliveryAddressID, deliveryAddressID)
	entry.PickupDriverID = ptrOr(member.PickupDriverID, req.PickupDriverID)
	entry.DeliveryDriverID = ptrOr(member.DeliveryDriverID, req.DeliveryDriverID)
	entry.ReferralAgentID = ptrOr(member.ReferralAgentID, req.ReferralAgentID)
	entry.PaymentMethod = ptrOr(member.PaymentMethod, req.PaymentMethod)
	entry.ColorTag = req.ColorTag
	entry.GroupID = &groupID
	if member.Price != nil {
		entry.Price = *member.Price
	} else {
		entry.Price = req.SuggestedPrice
	}

	// Member-level address overrides must still resolve.
	if member.PickupAddressID != nil || member.DeliveryAddressID != nil {
		for _, addrID := range []string{entry.PickupAddressID, entry.DeliveryAddressID} {
			if ok, err := s.addressRepo.ExistsTx(tx, addrID); err != nil {
				return nil, err
			} else if !ok {
				return nil, models.NewReferenceNotFound("address", addrID)
			}
		}
	}
	for _, driverID := range []*string{member.PickupDriverID, member.DeliveryDriverID} {
		if driverID == nil {
			continue
		}
		if ok, err := s.affiliateRepo.DriverExistsTx(tx, *driverID); err != nil {
			return nil, err
		} else if !ok {
			return nil, models.NewReferenceNotFound("driver", *driverID)
		}
	}
	if member.ReferralAgentID != nil {
		if ok, err := s.affiliateRepo.ReferralAgentExistsTx(tx, *member.ReferralAgentID); err != nil {
			return nil, err
		} else if !ok {
			return nil, models.NewReferenceNotFound("referral agent", *member.ReferralAgentID)
		}
	}

	if member.EntryID != nil {
		if err := s.entryRepo.UpdateTx(tx, entry); err != nil {
			return nil, err
		}
	} else {
		if err := s.entryRepo.CreateTx(tx, entry); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// BulkAssign sets one leg's driver on many passenger and cargo entries in a
// single transaction. Any invalid id rejects the whole batch so callers never
// see a partially assigned set.
func (s *GroupAllocatorService) BulkAssign(req *models.BulkAssignRequest) (*models.BulkAssignResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if ok, err := s.affiliateRepo.DriverExistsTx(tx, req.DriverID); err != nil {
		return nil, err
	} else if !ok {
		return nil, models.NewReferenceNotFound("driver", req.DriverID)
	}

	if missing, err := s.firstMissing(tx, s.entryRepo.ExistingIDsTx, req.EntryIDs); err != nil {
		return nil, err
	} else if missing != "" {
		return nil, models.NewReferenceNotFound("passenger entry", missing)
	}
	if missing, err := s.firstMissing(tx, s.cargoRepo.ExistingIDsTx, req.CargoIDs); err != nil {
		return nil, err
	} else if missing != "" {
		return nil, models.NewReferenceNotFound("cargo entry", missing)
	}

	entriesUpdated, err := s.entryRepo.BulkAssignDriverTx(tx, req.EntryIDs, req.DriverID, req.Leg)
	if err != nil {
		return nil, err
	}
	cargoUpdated, err := s.cargoRepo.BulkAssignDriverTx(tx, req.CargoIDs, req.DriverID, req.Leg)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bulk assignment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"driver_id": req.DriverID,
		"leg":       req.Leg,
		"entries":   entriesUpdated,
		"cargo":     cargoUpdated,
	}).Info("Bulk driver assignment applied")

	return &models.BulkAssignResult{EntriesUpdated: entriesUpdated, CargoUpdated: cargoUpdated}, nil
}

func (s *GroupAllocatorService) firstMissing(
	tx *sqlx.Tx,
	lookup func(*sqlx.Tx, []string) ([]string, error),
	ids []string,
) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}

	existing, err := lookup(tx, ids)
	if err != nil {
		return "", err
	}

	found := make(map[string]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return id, nil
		}
	}

	return "", nil
}

func valueOr(override *string, shared string) string {
	if override != nil {
		return *override
	}
	return shared
}

func ptrOr(override, shared *string) *string {
	if override != nil {
		return override
	}
	return shared
}
