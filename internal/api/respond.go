package api

import (
	"errors"   // errors.As for the taxonomy
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"cash_management/internal/ledger" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// currentUserID extracts the authenticated user's ID placed in the context
// by the JWT middleware. Handlers never read ambient session state beyond
// this single explicit value.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID") // Set by JWTAuthMiddleware
	if !exists {
		// If not, return unauthorized
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID.(uint), true
}

// recordIDParam parses the :id path parameter into a record ID
func recordIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32) // Parse the path parameter
	if err != nil {
		// If invalid, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps the error taxonomy onto HTTP statuses. Nothing in this
// system is fatal to the process: validation failures re-surface to the
// user, not-found never leaks other users' data, and everything else is a
// logged 500.
func respondError(c *gin.Context, err error) {
	var validationErr *ledger.ValidationError
	var notFoundErr *ledger.NotFoundError
	var conflictErr *ledger.ConflictError
	switch {
	case errors.As(err, &validationErr):
		// User-correctable input problem
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		// Absent or other-owned record
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		// Uniqueness collision
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	default:
		// Unexpected failure: log it, tell the user nothing specific
		logrus.WithField("error", err.Error()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
