package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaserra/tour-backend/internal/models"
)

// respondError translates the service error taxonomy into HTTP status codes:
// missing records map to 404, an occupied seat to 409, unresolvable references
// and invalid layouts to 422, anything unclassified to 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSeatConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "seat_conflict", "message": err.Error()})
	case errors.Is(err, models.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "seat_not_found", "message": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case models.IsReferenceNotFound(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "reference_not_found", "message": err.Error()})
	case models.IsLayoutError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_layout", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
	}
}

// badRequest reports a malformed or invalid request body
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
}
