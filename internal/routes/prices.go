package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gasoradar/gasoradar-api/internal"
	"github.com/gasoradar/gasoradar-api/internal/models"
)

var priceReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gasoradar_price_reports_total",
	Help: "Price report submissions by outcome.",
}, []string{"outcome"})

func CurrentPrices(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err := floatQuery(c, "latitude")
		if err != nil {
			respondError(c, err)
			return
		}
		lng, err := floatQuery(c, "longitude")
		if err != nil {
			respondError(c, err)
			return
		}
		radius, err := intQuery(c, "radius_km", 25, 1, 100)
		if err != nil {
			respondError(c, err)
			return
		}
		limit, err := intQuery(c, "limit", 50, 1, 200)
		if err != nil {
			respondError(c, err)
			return
		}

		filters := internal.CurrentPriceFilters{
			FuelType: c.Query("fuel_type"),
			City:     c.Query("city"),
			State:    c.Query("state"),
			Limit:    limit,
		}

		prices, err := svc.CurrentPrices(c.Request.Context(), filters, lat, lng, float64(radius), c.DefaultQuery("sort_by", "price"))
		if err != nil {
			respondError(c, err)
			return
		}

		responseFilters := map[string]any{
			"fuel_type": filters.FuelType,
			"city":      filters.City,
			"state":     filters.State,
		}
		if lat != nil && lng != nil {
			responseFilters["radius_km"] = radius
		}

		c.JSON(http.StatusOK, models.CurrentPricesResponse{
			Prices:  prices,
			Total:   len(prices),
			Filters: responseFilters,
		})
	}
}

func ReportPrice(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PriceReportRequest
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, internal.InvalidRequestf("invalid report payload: %v", err))
			return
		}

		response, err := svc.ReportPrice(c.Request.Context(), req, c.ClientIP())
		if err != nil {
			priceReportsTotal.WithLabelValues("rejected").Inc()
			respondError(c, err)
			return
		}
		priceReportsTotal.WithLabelValues("accepted").Inc()

		c.JSON(http.StatusOK, response)
	}
}

func PriceStatistics(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuelType := c.Query("fuel_type")
		if fuelType == "" {
			respondError(c, internal.InvalidRequestf("fuel_type parameter is required"))
			return
		}

		statistics, err := svc.PriceStatistics(c.Request.Context(), fuelType, c.Query("region"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, statistics)
	}
}

func CheapestPrices(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuelType := c.Query("fuel_type")
		if fuelType == "" {
			respondError(c, internal.InvalidRequestf("fuel_type parameter is required"))
			return
		}

		city := c.Query("city")
		state := c.Query("state")
		if city == "" && state == "" {
			respondError(c, internal.InvalidRequestf("either city or state must be specified"))
			return
		}
		region := city
		if region == "" {
			region = state
		}

		limit, err := intQuery(c, "limit", 10, 1, 50)
		if err != nil {
			respondError(c, err)
			return
		}

		stations, err := svc.CheapestByRegion(c.Request.Context(), region, fuelType, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"search_type":          "region",
			"region":               region,
			"fuel_type":            fuelType,
			"total_stations_found": len(stations),
			"stations":             stations,
		})
	}
}

func PriceValidationInfo(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuelType := c.Query("fuel_type")
		if fuelType == "" {
			respondError(c, internal.InvalidRequestf("fuel_type parameter is required"))
			return
		}

		info, err := svc.ValidationInfo(c.Request.Context(), fuelType, c.Query("region"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, info)
	}
}
