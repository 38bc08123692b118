package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gasoradar/gasoradar-api/internal"
	"github.com/gasoradar/gasoradar-api/internal/models"
)

func CreateReview(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReviewRequest
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, internal.InvalidRequestf("invalid review payload: %v", err))
			return
		}

		review, err := svc.CreateReview(c.Request.Context(), req, c.ClientIP())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "review submitted successfully",
			"review_id": review.Id,
		})
	}
}

func ListReviews(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := intQuery(c, "limit", 20, 1, 100)
		if err != nil {
			respondError(c, err)
			return
		}
		offset, err := intQuery(c, "offset", 0, 0, 0)
		if err != nil {
			respondError(c, err)
			return
		}

		reviews, err := svc.ListReviews(c.Request.Context(), c.Query("gas_station_id"), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews": reviews,
			"total":   len(reviews),
			"limit":   limit,
			"offset":  offset,
		})
	}
}
