package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/models"
	"github.com/rotaserra/tour-backend/internal/services"
)

// PassengerEntryHandler exposes passenger booking management and the trip roster
type PassengerEntryHandler struct {
	bookingService *services.BookingService
}

// NewPassengerEntryHandler creates a new PassengerEntryHandler
func NewPassengerEntryHandler(bookingService *services.BookingService) *PassengerEntryHandler {
	return &PassengerEntryHandler{bookingService: bookingService}
}

// CreateEntry books a passenger on a trip, optionally binding a seat
// POST /api/v1/passenger-entries
func (h *PassengerEntryHandler) CreateEntry(c *gin.Context) {
	var req models.SavePassengerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.bookingService.SavePassenger(nil, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry updates a passenger booking, moving or clearing its seat as
// requested
// PUT /api/v1/passenger-entries/:id
func (h *PassengerEntryHandler) UpdateEntry(c *gin.Context) {
	var req models.SavePassengerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	entry, err := h.bookingService.SavePassenger(&id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetEntry returns one passenger booking
// GET /api/v1/passenger-entries/:id
func (h *PassengerEntryHandler) GetEntry(c *gin.Context) {
	entry, err := h.bookingService.GetPassenger(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry removes a passenger booking and frees its seat
// DELETE /api/v1/passenger-entries/:id
func (h *PassengerEntryHandler) DeleteEntry(c *gin.Context) {
	if err := h.bookingService.DeletePassenger(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passenger entry deleted"})
}

// MarkPaid flips the entry to paid. Idempotent.
// POST /api/v1/passenger-entries/:id/mark-paid
func (h *PassengerEntryHandler) MarkPaid(c *gin.Context) {
	if err := h.bookingService.MarkPassengerPaid(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked paid"})
}

// ListRoster returns the trip roster in manual sort order
// GET /api/v1/trips/:id/roster
func (h *PassengerEntryHandler) ListRoster(c *gin.Context) {
	entries, err := h.bookingService.ListRoster(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ReorderRoster persists a new manual ordering of the trip roster
// PUT /api/v1/trips/:id/roster/order
func (h *PassengerEntryHandler) ReorderRoster(c *gin.Context) {
	var req models.ReorderRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.bookingService.ReorderRoster(c.Param("id"), req.EntryIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Roster reordered"})
}
