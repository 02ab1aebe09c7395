package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatLayoutValidate(t *testing.T) {
	t.Run("Valid layout with empty cells", func(t *testing.T) {
		layout := SeatLayout{
			{SeatNumber: "1A", Kind: SeatKindWindow},
			{SeatNumber: "1B", Kind: SeatKindAisle},
			{Empty: true},
			{SeatNumber: "1C", Kind: SeatKindAisle},
			{SeatNumber: "1D", Kind: SeatKindWindow},
		}
		assert.NoError(t, layout.Validate(4))
	})

	t.Run("Duplicate seat number", func(t *testing.T) {
		layout := SeatLayout{
			{SeatNumber: "1A", Kind: SeatKindWindow},
			{SeatNumber: "1A", Kind: SeatKindAisle},
		}
		err := layout.Validate(10)
		require.Error(t, err)
		assert.True(t, IsLayoutError(err))
		assert.Contains(t, err.Error(), "duplicate seat number")
	})

	t.Run("More seats than capacity", func(t *testing.T) {
		layout := SeatLayout{
			{SeatNumber: "1A", Kind: SeatKindWindow},
			{SeatNumber: "1B", Kind: SeatKindAisle},
			{SeatNumber: "1C", Kind: SeatKindWindow},
		}
		err := layout.Validate(2)
		require.Error(t, err)
		assert.True(t, IsLayoutError(err))
	})

	t.Run("Seat without number", func(t *testing.T) {
		layout := SeatLayout{{Kind: SeatKindWindow}}
		err := layout.Validate(10)
		require.Error(t, err)
		assert.True(t, IsLayoutError(err))
	})

	t.Run("Empty cell carrying a seat number", func(t *testing.T) {
		layout := SeatLayout{{SeatNumber: "1A", Empty: true}}
		err := layout.Validate(10)
		require.Error(t, err)
		assert.True(t, IsLayoutError(err))
	})

	t.Run("Invalid kind", func(t *testing.T) {
		layout := SeatLayout{{SeatNumber: "1A", Kind: "middle"}}
		err := layout.Validate(10)
		require.Error(t, err)
		assert.True(t, IsLayoutError(err))
	})

	t.Run("Empty cells do not count against capacity", func(t *testing.T) {
		layout := SeatLayout{
			{SeatNumber: "1A", Kind: SeatKindWindow},
			{Empty: true},
			{Empty: true},
			{SeatNumber: "1B", Kind: SeatKindAisle},
		}
		assert.NoError(t, layout.Validate(2))
	})
}

func TestSeatLayoutSeatCells(t *testing.T) {
	layout := SeatLayout{
		{SeatNumber: "1A", Kind: SeatKindWindow},
		{Empty: true},
		{SeatNumber: "1B", Kind: SeatKindAisle},
	}

	cells := layout.SeatCells()
	require.Len(t, cells, 2)
	assert.Equal(t, "1A", cells[0].SeatNumber)
	assert.Equal(t, "1B", cells[1].SeatNumber)
}

func TestTripFilterValidate(t *testing.T) {
	valid := func() TripFilter { return TripFilter{Page: 0, Size: 20} }

	t.Run("Defaults pass", func(t *testing.T) {
		f := valid()
		assert.NoError(t, f.Validate())
	})

	t.Run("Month out of range", func(t *testing.T) {
		f := valid()
		month := 13
		f.Month = &month
		assert.Error(t, f.Validate())
	})

	t.Run("Negative page", func(t *testing.T) {
		f := valid()
		f.Page = -1
		assert.Error(t, f.Validate())
	})

	t.Run("Zero size", func(t *testing.T) {
		f := valid()
		f.Size = 0
		assert.Error(t, f.Validate())
	})
}

func TestBulkAssignRequestValidate(t *testing.T) {
	t.Run("Valid pickup batch", func(t *testing.T) {
		req := BulkAssignRequest{EntryIDs: []string{"e1"}, DriverID: "d1", Leg: DriverLegPickup}
		assert.NoError(t, req.Validate())
	})

	t.Run("Unknown leg", func(t *testing.T) {
		req := BulkAssignRequest{EntryIDs: []string{"e1"}, DriverID: "d1", Leg: "SIDEWAYS"}
		assert.Error(t, req.Validate())
	})

	t.Run("Empty batch", func(t *testing.T) {
		req := BulkAssignRequest{DriverID: "d1", Leg: DriverLegDelivery}
		assert.Error(t, req.Validate())
	})
}
