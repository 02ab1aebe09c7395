package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// BusHandler exposes fleet management endpoints
type BusHandler struct {
	busRepo *database.BusRepository
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(busRepo *database.BusRepository) *BusHandler {
	return &BusHandler{busRepo: busRepo}
}

// ListBuses returns the whole fleet
// GET /api/v1/buses
func (h *BusHandler) ListBuses(c *gin.Context) {
	buses, err := h.busRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, buses)
}

// GetBus returns one bus with its seat layout
// GET /api/v1/buses/:id
func (h *BusHandler) GetBus(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// CreateBus registers a bus. The layout, when given, is validated against the
// declared capacity before anything is stored.
// POST /api/v1/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	bus := &models.Bus{
		Model:    req.Model,
		Plate:    req.Plate,
		Capacity: req.Capacity,
		Layout:   req.Layout,
	}
	if err := h.busRepo.Create(bus); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// UpdateBus changes bus attributes or its layout template. Already generated
// trip seats are unaffected; only future trips see the new layout.
// PUT /api/v1/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Model != nil {
		bus.Model = *req.Model
	}
	if req.Plate != nil {
		bus.Plate = *req.Plate
	}
	if req.Capacity != nil {
		bus.Capacity = *req.Capacity
	}
	if req.Layout != nil {
		bus.Layout = req.Layout
	}
	if bus.Layout != nil {
		if err := bus.Layout.Validate(bus.Capacity); err != nil {
			respondError(c, err)
			return
		}
	}

	if err := h.busRepo.Update(bus); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// DeleteBus removes a bus from the fleet. Buses attached to trips are
// protected by foreign keys.
// DELETE /api/v1/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	if err := h.busRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}
