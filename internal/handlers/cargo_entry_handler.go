package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/models"
	"github.com/rotaserra/tour-backend/internal/services"
)

// CargoEntryHandler exposes cargo booking management
type CargoEntryHandler struct {
	bookingService *services.BookingService
}

// NewCargoEntryHandler creates a new CargoEntryHandler
func NewCargoEntryHandler(bookingService *services.BookingService) *CargoEntryHandler {
	return &CargoEntryHandler{bookingService: bookingService}
}

// CreateEntry books a parcel on a trip
// POST /api/v1/cargo-entries
func (h *CargoEntryHandler) CreateEntry(c *gin.Context) {
	var req models.SaveCargoEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.bookingService.SaveCargo(nil, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry updates a cargo booking
// PUT /api/v1/cargo-entries/:id
func (h *CargoEntryHandler) UpdateEntry(c *gin.Context) {
	var req models.SaveCargoEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	entry, err := h.bookingService.SaveCargo(&id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetEntry returns one cargo booking
// GET /api/v1/cargo-entries/:id
func (h *CargoEntryHandler) GetEntry(c *gin.Context) {
	entry, err := h.bookingService.GetCargo(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry removes a cargo booking
// DELETE /api/v1/cargo-entries/:id
func (h *CargoEntryHandler) DeleteEntry(c *gin.Context) {
	if err := h.bookingService.DeleteCargo(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cargo entry deleted"})
}

// MarkPaid flips the entry to paid. Idempotent.
// POST /api/v1/cargo-entries/:id/mark-paid
func (h *CargoEntryHandler) MarkPaid(c *gin.Context) {
	if err := h.bookingService.MarkCargoPaid(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked paid"})
}

// ListByTrip returns the cargo list of a trip
// GET /api/v1/trips/:id/cargo
func (h *CargoEntryHandler) ListByTrip(c *gin.Context) {
	entries, err := h.bookingService.ListCargo(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
