package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// BaggageHandler exposes baggage registration for passenger entries
type BaggageHandler struct {
	baggageRepo *database.BaggageRepository
}

// NewBaggageHandler creates a new BaggageHandler
func NewBaggageHandler(baggageRepo *database.BaggageRepository) *BaggageHandler {
	return &BaggageHandler{baggageRepo: baggageRepo}
}

// CreateBaggage registers a weighed item, optionally tied to a passenger entry
// POST /api/v1/baggage
func (h *BaggageHandler) CreateBaggage(c *gin.Context) {
	var req models.SaveBaggageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bag := &models.Baggage{
		Description:         req.Description,
		WeightKg:            req.WeightKg,
		PassengerEntryID:    req.PassengerEntryID,
		ResponsiblePersonID: req.ResponsiblePersonID,
	}
	if err := h.baggageRepo.Create(bag); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bag)
}

// GetBaggage returns one baggage record
// GET /api/v1/baggage/:id
func (h *BaggageHandler) GetBaggage(c *gin.Context) {
	bag, err := h.baggageRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bag)
}

// ListByEntry returns the baggage of one passenger entry
// GET /api/v1/passenger-entries/:id/baggage
func (h *BaggageHandler) ListByEntry(c *gin.Context) {
	bags, err := h.baggageRepo.ListByPassengerEntry(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bags)
}

// UpdateBaggage updates a baggage record
// PUT /api/v1/baggage/:id
func (h *BaggageHandler) UpdateBaggage(c *gin.Context) {
	var req models.SaveBaggageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bag, err := h.baggageRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	bag.Description = req.Description
	bag.WeightKg = req.WeightKg
	bag.PassengerEntryID = req.PassengerEntryID
	bag.ResponsiblePersonID = req.ResponsiblePersonID

	if err := h.baggageRepo.Update(bag); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bag)
}

// DeleteBaggage removes a baggage record
// DELETE /api/v1/baggage/:id
func (h *BaggageHandler) DeleteBaggage(c *gin.Context) {
	if err := h.baggageRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Baggage deleted"})
}
