package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// AffiliateHandler exposes driver and referral agent management
type AffiliateHandler struct {
	affiliateRepo *database.AffiliateRepository
	personRepo    *database.PersonRepository
}

// NewAffiliateHandler creates a new AffiliateHandler
func NewAffiliateHandler(affiliateRepo *database.AffiliateRepository, personRepo *database.PersonRepository) *AffiliateHandler {
	return &AffiliateHandler{affiliateRepo: affiliateRepo, personRepo: personRepo}
}

// ListDrivers returns all drivers with their person names
// GET /api/v1/drivers
func (h *AffiliateHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.affiliateRepo.GetAllDrivers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, drivers)
}

// GetDriver returns one driver by id
// GET /api/v1/drivers/:id
func (h *AffiliateHandler) GetDriver(c *gin.Context) {
	driver, err := h.affiliateRepo.GetDriverByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, driver)
}

// CreateDriver registers a driver wrapping an existing person
// POST /api/v1/drivers
func (h *AffiliateHandler) CreateDriver(c *gin.Context) {
	var req models.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := h.personRepo.GetByID(req.PersonID); err != nil {
		respondError(c, models.NewReferenceNotFound("person", req.PersonID))
		return
	}

	driver := &models.Driver{
		PersonID:      req.PersonID,
		LicenseNumber: req.LicenseNumber,
		VehiclePlate:  req.VehiclePlate,
	}
	if err := h.affiliateRepo.CreateDriver(driver); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, driver)
}

// DeleteDriver removes a driver that no booking references
// DELETE /api/v1/drivers/:id
func (h *AffiliateHandler) DeleteDriver(c *gin.Context) {
	if err := h.affiliateRepo.DeleteDriver(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted"})
}

// ListReferralAgents returns all referral agents with their person names
// GET /api/v1/referral-agents
func (h *AffiliateHandler) ListReferralAgents(c *gin.Context) {
	agents, err := h.affiliateRepo.GetAllReferralAgents()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agents)
}

// GetReferralAgent returns one referral agent by id
// GET /api/v1/referral-agents/:id
func (h *AffiliateHandler) GetReferralAgent(c *gin.Context) {
	agent, err := h.affiliateRepo.GetReferralAgentByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent)
}

// CreateReferralAgent registers a referral agent wrapping an existing person
// POST /api/v1/referral-agents
func (h *AffiliateHandler) CreateReferralAgent(c *gin.Context) {
	var req models.CreateReferralAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := h.personRepo.GetByID(req.PersonID); err != nil {
		respondError(c, models.NewReferenceNotFound("person", req.PersonID))
		return
	}

	agent := &models.ReferralAgent{
		PersonID:     req.PersonID,
		AgentCode:    req.AgentCode,
		CommissionPc: req.CommissionPc,
	}
	if err := h.affiliateRepo.CreateReferralAgent(agent); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, agent)
}

// DeleteReferralAgent removes a referral agent that no booking references
// DELETE /api/v1/referral-agents/:id
func (h *AffiliateHandler) DeleteReferralAgent(c *gin.Context) {
	if err := h.affiliateRepo.DeleteReferralAgent(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Referral agent deleted"})
}
