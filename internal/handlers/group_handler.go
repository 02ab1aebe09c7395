package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/models"
	"github.com/rotaserra/tour-backend/internal/services"
)

// GroupHandler exposes the atomic multi-row booking operations
type GroupHandler struct {
	allocator *services.GroupAllocatorService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(allocator *services.GroupAllocatorService) *GroupHandler {
	return &GroupHandler{allocator: allocator}
}

// CreateFamilyGroup creates or updates a set of passenger entries sharing
// addresses, drivers, price and a fresh group id, all-or-nothing
// POST /api/v1/groups/family
func (h *GroupHandler) CreateFamilyGroup(c *gin.Context) {
	var req models.CreateFamilyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.allocator.CreateFamilyGroup(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// BulkAssign sets one leg's driver on a batch of passenger and cargo
// bookings, all-or-nothing
// POST /api/v1/groups/bulk-assign
func (h *GroupHandler) BulkAssign(c *gin.Context) {
	var req models.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.allocator.BulkAssign(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
