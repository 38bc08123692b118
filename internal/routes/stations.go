package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gasoradar/gasoradar-api/internal"
	"github.com/gasoradar/gasoradar-api/internal/models"
)

func ListStations(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := parseStationFilters(c)
		if err != nil {
			respondError(c, err)
			return
		}

		response, err := svc.SearchStations(c.Request.Context(), filters)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

func GetStation(svc *internal.GasStationsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.GetStationDetail(c.Request.Context(), c.Param("station_id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}

func parseStationFilters(c *gin.Context) (models.StationFilters, error) {
	var filters models.StationFilters

	lat, err := floatQuery(c, "latitude")
	if err != nil {
		return filters, err
	}
	lng, err := floatQuery(c, "longitude")
	if err != nil {
		return filters, err
	}
	radius, err := intQuery(c, "radius_km", 25, 1, 100)
	if err != nil {
		return filters, err
	}
	limit, err := intQuery(c, "limit", 50, 1, 200)
	if err != nil {
		return filters, err
	}
	offset, err := intQuery(c, "offset", 0, 0, 0)
	if err != nil {
		return filters, err
	}

	filters.Latitude = lat
	filters.Longitude = lng
	filters.RadiusKm = float64(radius)
	filters.City = c.Query("city")
	filters.State = c.Query("state")
	filters.Brand = c.Query("brand")
	filters.FuelType = c.Query("fuel_type")
	filters.Limit = limit
	filters.Offset = offset

	return filters, nil
}
