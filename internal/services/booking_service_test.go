package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaserra/tour-backend/internal/database"
)

func newSeatLedger(db *sqlx.DB) *SeatLedgerService {
	return NewSeatLedgerService(
		db,
		database.NewSeatRepository(db),
		database.NewBusRepository(db),
		database.NewTripRepository(db),
		database.NewPassengerEntryRepository(db),
		quietLogger(),
	)
}

func newBookingService(db *sqlx.DB) *BookingService {
	return NewBookingService(
		db,
		database.NewPassengerEntryRepository(db),
		database.NewCargoEntryRepository(db),
		database.NewTripRepository(db),
		database.NewPersonRepository(db),
		database.NewAddressRepository(db),
		database.NewAffiliateRepository(db),
		newSeatLedger(db),
		quietLogger(),
	)
}

func passengerEntryRow(id string, seatID *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "trip_id", "person_id", "pickup_address_id", "delivery_address_id",
		"pickup_driver_id", "delivery_driver_id", "referral_agent_id",
		"price", "payment_method", "paid", "seat_id", "sort_order",
		"color_tag", "group_id", "created_at", "updated_at",
	}).AddRow(id, "trip-1", "person-1", "addr-1", "addr-2",
		nil, nil, nil, 150.0, nil, false, seatID, 1, nil, nil, now, now)
}

func TestDeletePassengerReleasesSeat(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newBookingService(db)

	seatID := "seat-1"

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM passenger_entries WHERE id`).
		WithArgs("entry-1").
		WillReturnRows(passengerEntryRow("entry-1", &seatID))
	// The seat must be freed before the entry row goes away.
	mock.ExpectExec(`UPDATE seats`).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE passenger_entries SET seat_id`).
		WithArgs("entry-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM passenger_entries`).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.DeletePassenger("entry-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseSeatIdempotent(t *testing.T) {
	db, mock := newTestDB(t)
	ledger := newSeatLedger(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats`).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE passenger_entries SET seat_id`).
		WithArgs("entry-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, ledger.ReleaseSeat("entry-1"))

	// Second release finds no occupied seat and still succeeds.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats`).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE passenger_entries SET seat_id`).
		WithArgs("entry-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, ledger.ReleaseSeat("entry-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
