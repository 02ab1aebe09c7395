package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaserra/tour-backend/internal/models"
)

func tripRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "departure_at", "arrival_at", "created_at", "updated_at",
		"passenger_count", "cargo_count",
	})
	for _, id := range ids {
		rows.AddRow(id, now, now.Add(8*time.Hour), now, now, 12, 3)
	}
	return rows
}

func TestTripRepositoryFind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("No filters pages everything", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trips t`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT t\.id, t\.departure_at`).
			WithArgs(20, 0).
			WillReturnRows(tripRows("trip-1", "trip-2"))

		trips, total, err := repo.Find(models.TripFilter{Page: 0, Size: 20})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, trips, 2)
		assert.Equal(t, 12, trips[0].PassengerCount)
		assert.Equal(t, 3, trips[0].CargoCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Month and year filter departures", func(t *testing.T) {
		month, year := 7, 2026

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trips t WHERE EXTRACT\(MONTH`).
			WithArgs(month, year).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`EXTRACT\(MONTH FROM t\.departure_at\)`).
			WithArgs(month, year, 20, 0).
			WillReturnRows(tripRows("trip-1"))

		trips, total, err := repo.Find(models.TripFilter{Month: &month, Year: &year, Page: 0, Size: 20})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, trips, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Search matches attached bus plate or model", func(t *testing.T) {
		search := "volvo"

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trips t WHERE EXISTS`).
			WithArgs(search).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`EXISTS \(`).
			WithArgs(search, 20, 0).
			WillReturnRows(tripRows("trip-1"))

		trips, total, err := repo.Find(models.TripFilter{Search: &search, Page: 0, Size: 20})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		// One row per trip even when several buses match the search.
		assert.Len(t, trips, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wildcard characters in search match literally", func(t *testing.T) {
		search := "100%_plate"

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trips t WHERE EXISTS`).
			WithArgs(`100\%\_plate`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`EXISTS \(`).
			WithArgs(`100\%\_plate`, 20, 0).
			WillReturnRows(tripRows())

		_, total, err := repo.Find(models.TripFilter{Search: &search, Page: 0, Size: 20})
		require.NoError(t, err)
		assert.Equal(t, 0, total)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blank search is ignored", func(t *testing.T) {
		search := "   "

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trips t`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT t\.id, t\.departure_at`).
			WithArgs(20, 0).
			WillReturnRows(tripRows())

		_, total, err := repo.Find(models.TripFilter{Search: &search, Page: 0, Size: 20})
		require.NoError(t, err)
		assert.Equal(t, 0, total)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripRepositoryDeleteTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Removes seats and bus links first", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seats WHERE trip_id`).
			WithArgs("trip-1").
			WillReturnResult(sqlmock.NewResult(0, 40))
		mock.ExpectExec(`DELETE FROM trip_buses WHERE trip_id`).
			WithArgs("trip-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM trips WHERE id`).
			WithArgs("trip-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Beginx()
		require.NoError(t, err)

		assert.NoError(t, repo.DeleteTx(tx, "trip-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown trip answers not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seats WHERE trip_id`).
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM trip_buses WHERE trip_id`).
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM trips WHERE id`).
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Beginx()
		require.NoError(t, err)

		assert.ErrorIs(t, repo.DeleteTx(tx, "ghost"), models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
