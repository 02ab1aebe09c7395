package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/models"
	"github.com/rotaserra/tour-backend/internal/services"
)

// TripHandler exposes trip scheduling, the filtered listing, and manifests
type TripHandler struct {
	tripService     *services.TripService
	manifestService *services.ManifestService
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService *services.TripService, manifestService *services.ManifestService) *TripHandler {
	return &TripHandler{tripService: tripService, manifestService: manifestService}
}

// CreateTrip schedules a trip and generates seats for its buses
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	trip, err := h.tripService.CreateTrip(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// GetTrip returns a trip with buses and derived passenger/cargo counts
// GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ListTrips returns a filtered, paginated trip listing. Query parameters:
// month (1-12), year, search (bus plate or model, case-insensitive),
// page (0-based), size.
// GET /api/v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := models.TripFilter{
		Page: 0,
		Size: 20,
	}

	if v := c.Query("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Month = &month
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Year = &year
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		filter.Search = &v
	}
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Page = page
	}
	if v := c.Query("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Size = size
	}

	page, err := h.tripService.FindTrips(filter)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// UpdateTrip changes the trip window and/or its bus set
// PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip with its seats and bus links
// DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.tripService.DeleteTrip(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// RosterManifest streams the passenger roster PDF
// GET /api/v1/trips/:id/manifest/roster
func (h *TripHandler) RosterManifest(c *gin.Context) {
	pdf, filename, err := h.manifestService.RosterManifest(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CargoManifest streams the cargo manifest PDF
// GET /api/v1/trips/:id/manifest/cargo
func (h *TripHandler) CargoManifest(c *gin.Context) {
	pdf, filename, err := h.manifestService.CargoManifest(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
