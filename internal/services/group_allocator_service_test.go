package services

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAllocator(db *sqlx.DB) *GroupAllocatorService {
	entryRepo := database.NewPassengerEntryRepository(db)
	cargoRepo := database.NewCargoEntryRepository(db)
	tripRepo := database.NewTripRepository(db)
	personRepo := database.NewPersonRepository(db)
	addressRepo := database.NewAddressRepository(db)
	affiliateRepo := database.NewAffiliateRepository(db)

	return NewGroupAllocatorService(db, entryRepo, cargoRepo, tripRepo, personRepo, addressRepo, affiliateRepo, newSeatLedger(db), quietLogger())
}

func TestBulkAssign(t *testing.T) {
	t.Run("Unknown driver rejects the whole batch", func(t *testing.T) {
		db, mock := newTestDB(t)
		svc := newAllocator(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM drivers`).
			WithArgs("ghost-driver").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		result, err := svc.BulkAssign(&models.BulkAssignRequest{
			EntryIDs: []string{"e1", "e2"},
			DriverID: "ghost-driver",
			Leg:      models.DriverLegPickup,
		})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, models.IsReferenceNotFound(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("One unknown entry rejects the whole batch and names it", func(t *testing.T) {
		db, mock := newTestDB(t)
		svc := newAllocator(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM drivers`).
			WithArgs("driver-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT id FROM passenger_entries WHERE id IN`).
			WithArgs("e1", "e2").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1"))
		mock.ExpectRollback()

		result, err := svc.BulkAssign(&models.BulkAssignRequest{
			EntryIDs: []string{"e1", "e2"},
			DriverID: "driver-1",
			Leg:      models.DriverLegDelivery,
		})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, models.IsReferenceNotFound(err))
		assert.Contains(t, err.Error(), "e2")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Valid batch updates both sides and commits", func(t *testing.T) {
		db, mock := newTestDB(t)
		svc := newAllocator(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM drivers`).
			WithArgs("driver-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT id FROM passenger_entries WHERE id IN`).
			WithArgs("e1", "e2").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1").AddRow("e2"))
		mock.ExpectQuery(`SELECT id FROM cargo_entries WHERE id IN`).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
		mock.ExpectExec(`UPDATE passenger_entries SET pickup_driver_id`).
			WithArgs("driver-1", "e1", "e2").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE cargo_entries SET pickup_driver_id`).
			WithArgs("driver-1", "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := svc.BulkAssign(&models.BulkAssignRequest{
			EntryIDs: []string{"e1", "e2"},
			CargoIDs: []string{"c1"},
			DriverID: "driver-1",
			Leg:      models.DriverLegPickup,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.EntriesUpdated)
		assert.Equal(t, 1, result.CargoUpdated)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid leg fails before touching the database", func(t *testing.T) {
		db, _ := newTestDB(t)
		svc := newAllocator(db)

		result, err := svc.BulkAssign(&models.BulkAssignRequest{
			EntryIDs: []string{"e1"},
			DriverID: "driver-1",
			Leg:      "SIDEWAYS",
		})
		assert.Nil(t, result)
		assert.Error(t, err)
	})
}

func TestCreateFamilyGroup(t *testing.T) {
	addressPayload := func(street string) *models.CreateAddressRequest {
		return &models.CreateAddressRequest{Street: street, City: "Serra Alta", State: "SP"}
	}

	addressRows := func(id string) *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now)
	}

	t.Run("Unknown trip rolls back before any member is touched", func(t *testing.T) {
		db, mock := newTestDB(t)
		svc := newAllocator(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM trips`).
			WithArgs("ghost-trip").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		result, err := svc.CreateFamilyGroup(&models.CreateFamilyGroupRequest{
			TripID:            "ghost-trip",
			PickupAddressID:   strPtr("addr-1"),
			DeliveryAddressID: strPtr("addr-2"),
			Members:           []models.FamilyMember{{Name: "Ana"}},
		})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, models.IsReferenceNotFound(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Inline addresses are created and the group is hydrated", func(t *testing.T) {
		db, mock := newTestDB(t)
		svc := newAllocator(db)

		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM trips`).
			WithArgs("trip-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`INSERT INTO addresses`).
			WillReturnRows(addressRows("addr-p"))
		mock.ExpectQuery(`INSERT INTO addresses`).
			WillReturnRows(addressRows("addr-d"))
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\)`).
			WithArgs("trip-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
		mock.ExpectQuery(`FROM people WHERE id`).
			WithArgs("person-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "national_id", "age", "phones", "created_at", "updated_at",
			}).AddRow("person-1", "Ana", "12345678900", nil, "{}", now, now))
		mock.ExpectQuery(`INSERT INTO passenger_entries`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("entry-1", now, now))
		mock.ExpectQuery(`FROM passenger_entries WHERE group_id`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(passengerEntryRow("entry-1", nil))
		mock.ExpectCommit()

		result, err := svc.CreateFamilyGroup(&models.CreateFamilyGroupRequest{
			TripID:          "trip-1",
			PickupAddress:   addressPayload("Rua A"),
			DeliveryAddress: addressPayload("Rua B"),
			SuggestedPrice:  150,
			Members:         []models.FamilyMember{{PersonID: strPtr("person-1")}},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.GroupID)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "entry-1", result.Entries[0].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Created addresses roll back when a member fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		svc := newAllocator(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM trips`).
			WithArgs("trip-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`INSERT INTO addresses`).
			WillReturnRows(addressRows("addr-p"))
		mock.ExpectQuery(`INSERT INTO addresses`).
			WillReturnRows(addressRows("addr-d"))
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\)`).
			WithArgs("trip-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
		mock.ExpectQuery(`FROM people WHERE id`).
			WithArgs("ghost-person").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		result, err := svc.CreateFamilyGroup(&models.CreateFamilyGroupRequest{
			TripID:          "trip-1",
			PickupAddress:   addressPayload("Rua A"),
			DeliveryAddress: addressPayload("Rua B"),
			Members:         []models.FamilyMember{{PersonID: strPtr("ghost-person")}},
		})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, models.IsReferenceNotFound(err))
		assert.Contains(t, err.Error(), "ghost-person")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Address id and inline payload are mutually exclusive", func(t *testing.T) {
		db, _ := newTestDB(t)
		svc := newAllocator(db)

		result, err := svc.CreateFamilyGroup(&models.CreateFamilyGroupRequest{
			TripID:            "trip-1",
			PickupAddressID:   strPtr("addr-1"),
			PickupAddress:     addressPayload("Rua A"),
			DeliveryAddressID: strPtr("addr-2"),
			Members:           []models.FamilyMember{{Name: "Ana"}},
		})
		assert.Nil(t, result)
		assert.Error(t, err)
	})

	t.Run("Member without identity fails validation", func(t *testing.T) {
		db, _ := newTestDB(t)
		svc := newAllocator(db)

		result, err := svc.CreateFamilyGroup(&models.CreateFamilyGroupRequest{
			TripID:            "trip-1",
			PickupAddressID:   strPtr("addr-1"),
			DeliveryAddressID: strPtr("addr-2"),
			Members:           []models.FamilyMember{{}},
		})
		assert.Nil(t, result)
		assert.Error(t, err)
	})
}
