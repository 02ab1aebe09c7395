package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/models"
	"github.com/rotaserra/tour-backend/internal/services"
)

// SeatHandler exposes the per-trip seat map and seat binding operations
type SeatHandler struct {
	seatLedger *services.SeatLedgerService
}

// NewSeatHandler creates a new SeatHandler
func NewSeatHandler(seatLedger *services.SeatLedgerService) *SeatHandler {
	return &SeatHandler{seatLedger: seatLedger}
}

// SeatMap returns every seat of a trip with occupancy and passenger identity
// GET /api/v1/trips/:id/seats
func (h *SeatHandler) SeatMap(c *gin.Context) {
	seats, err := h.seatLedger.SeatMap(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seats)
}

// BindSeat claims a seat for a passenger entry. Binding an occupied seat
// answers 409; the loser of a concurrent claim gets the same answer.
// POST /api/v1/trips/:id/seats/bind
func (h *SeatHandler) BindSeat(c *gin.Context) {
	var req models.BindSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	seat, err := h.seatLedger.BindSeat(c.Param("id"), req.BusID, req.SeatNumber, req.EntryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seat)
}

// ReleaseSeat frees whatever seat the entry holds. Idempotent.
// POST /api/v1/entries/:id/release-seat
func (h *SeatHandler) ReleaseSeat(c *gin.Context) {
	if err := h.seatLedger.ReleaseSeat(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Seat released"})
}
