package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaserra/tour-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func seatRows(tripID, busID, seatNumber, entryID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "trip_id", "bus_id", "seat_number", "kind", "occupied",
		"passenger_entry_id", "created_at", "updated_at",
	}).AddRow("seat-1", tripID, busID, seatNumber, "window", true, entryID, now, now)
}

func TestSeatRepositoryBindTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seats`).
			WithArgs("trip-1", "bus-1", "12A", "entry-1").
			WillReturnRows(seatRows("trip-1", "bus-1", "12A", "entry-1"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seat, err := repo.BindTx(tx, "trip-1", "bus-1", "12A", "entry-1")
		require.NoError(t, err)
		assert.Equal(t, "12A", seat.SeatNumber)
		assert.True(t, seat.Occupied)
		require.NotNil(t, seat.PassengerEntryID)
		assert.Equal(t, "entry-1", *seat.PassengerEntryID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Occupied seat answers conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seats`).
			WithArgs("trip-1", "bus-1", "12A", "entry-2").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("trip-1", "bus-1", "12A").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seat, err := repo.BindTx(tx, "trip-1", "bus-1", "12A", "entry-2")
		assert.Nil(t, seat)
		assert.ErrorIs(t, err, models.ErrSeatConflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown seat answers not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seats`).
			WithArgs("trip-1", "bus-1", "99Z", "entry-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("trip-1", "bus-1", "99Z").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seat, err := repo.BindTx(tx, "trip-1", "bus-1", "99Z", "entry-1")
		assert.Nil(t, seat)
		assert.ErrorIs(t, err, models.ErrSeatNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Entry holding another seat answers conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seats`).
			WithArgs("trip-1", "bus-1", "12B", "entry-1").
			WillReturnError(fmt.Errorf(`pq: duplicate key value violates unique constraint "seats_passenger_entry_id_key"`))

		tx, err := db.Beginx()
		require.NoError(t, err)

		seat, err := repo.BindTx(tx, "trip-1", "bus-1", "12B", "entry-1")
		assert.Nil(t, seat)
		// A driver error that is not a pq unique violation wraps as a plain failure;
		// the real constraint arrives as *pq.Error and maps to ErrSeatConflict.
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatRepositoryReleaseByEntryTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats`).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE seats`).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.ReleaseByEntryTx(tx, "entry-1"))
	// Releasing again touches no rows and still succeeds.
	require.NoError(t, repo.ReleaseByEntryTx(tx, "entry-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryDeleteForBusTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	t.Run("Occupied seats block deletion", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats`).
			WithArgs("trip-1", "bus-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.DeleteForBusTx(tx, "trip-1", "bus-1")
		assert.ErrorIs(t, err, models.ErrSeatConflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unoccupied seats delete cleanly", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seats`).
			WithArgs("trip-1", "bus-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM seats`).
			WithArgs("trip-1", "bus-1").
			WillReturnResult(sqlmock.NewResult(0, 40))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.DeleteForBusTx(tx, "trip-1", "bus-1")
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatRepositoryGenerateForBusTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	bus := &models.Bus{
		ID:       "bus-1",
		Capacity: 4,
		Layout: models.SeatLayout{
			{SeatNumber: "1A", Kind: models.SeatKindWindow},
			{SeatNumber: "1B", Kind: models.SeatKindAisle},
			{Empty: true},
			{SeatNumber: "2A", Kind: models.SeatKindWindow},
		},
	}

	mock.ExpectBegin()
	for _, n := range []string{"1A", "1B", "2A"} {
		mock.ExpectExec(`INSERT INTO seats`).
			WithArgs("trip-1", "bus-1", n, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	tx, err := db.Beginx()
	require.NoError(t, err)

	count, err := repo.GenerateForBusTx(tx, "trip-1", bus)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "empty cells must not become seats")

	assert.NoError(t, mock.ExpectationsWereMet())
}
