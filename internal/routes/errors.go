package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/gasoradar/gasoradar-api/internal"
)

// respondError maps the service error taxonomy onto HTTP statuses. Expected
// outcomes carry their message through; internal failures are logged and
// kept generic.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, internal.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, internal.ErrValidationRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %+v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
	}
}

func floatQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, internal.InvalidRequestf("invalid %s parameter %q", name, raw)
	}
	return &value, nil
}

func intQuery(c *gin.Context, name string, fallback, min, max int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.InvalidRequestf("invalid %s parameter %q", name, raw)
	}
	if value < min {
		value = min
	}
	if max > 0 && value > max {
		value = max
	}
	return value, nil
}
