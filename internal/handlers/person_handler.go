package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// PersonHandler exposes the person registry
type PersonHandler struct {
	personRepo *database.PersonRepository
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(personRepo *database.PersonRepository) *PersonHandler {
	return &PersonHandler{personRepo: personRepo}
}

// ListPeople returns all registered people
// GET /api/v1/people
func (h *PersonHandler) ListPeople(c *gin.Context) {
	people, err := h.personRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, people)
}

// GetPerson returns one person by id
// GET /api/v1/people/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	person, err := h.personRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// CreatePerson registers a person. National id is unique; a duplicate fails.
// POST /api/v1/people
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req models.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	person := &models.Person{
		Name:       req.Name,
		NationalID: req.NationalID,
		Age:        req.Age,
		Phones:     models.PhoneList(req.Phones),
	}
	if err := h.personRepo.Create(person); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, person)
}

// UpdatePerson updates a person's mutable fields
// PUT /api/v1/people/:id
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	var req models.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	person, err := h.personRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.Age != nil {
		person.Age = req.Age
	}
	if req.Phones != nil {
		person.Phones = models.PhoneList(req.Phones)
	}

	if err := h.personRepo.Update(person); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// DeletePerson removes a person that no booking references
// DELETE /api/v1/people/:id
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	if err := h.personRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Person deleted"})
}
