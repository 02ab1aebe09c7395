package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// AddressHandler exposes the shared address registry
type AddressHandler struct {
	addressRepo *database.AddressRepository
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressRepo *database.AddressRepository) *AddressHandler {
	return &AddressHandler{addressRepo: addressRepo}
}

// ListAddresses returns all registered addresses
// GET /api/v1/addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.addressRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// GetAddress returns one address by id
// GET /api/v1/addresses/:id
func (h *AddressHandler) GetAddress(c *gin.Context) {
	addr, err := h.addressRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// CreateAddress registers an address
// POST /api/v1/addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req models.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	addr := &models.Address{
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
	}
	if err := h.addressRepo.Create(addr); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addr)
}

// UpdateAddress updates an address. The change is visible to every booking
// that references it.
// PUT /api/v1/addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var req models.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	addr, err := h.addressRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Street != nil {
		addr.Street = *req.Street
	}
	if req.Number != nil {
		addr.Number = *req.Number
	}
	if req.Neighborhood != nil {
		addr.Neighborhood = *req.Neighborhood
	}
	if req.City != nil {
		addr.City = *req.City
	}
	if req.State != nil {
		addr.State = *req.State
	}
	if req.PostalCode != nil {
		addr.PostalCode = *req.PostalCode
	}

	if err := h.addressRepo.Update(addr); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// DeleteAddress removes an address that no booking references
// DELETE /api/v1/addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	if err := h.addressRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
