package models

import "time"

type FuelServices struct {
	Magna   bool `json:"magna"`
	Premium bool `json:"premium"`
	Diesel  bool `json:"diesel"`
}

type GasStation struct {
	Id              string       `json:"id"`
	Name            string       `json:"name"`
	Brand           string       `json:"brand"`
	Address         string       `json:"address"`
	City            string       `json:"city"`
	State           string       `json:"state"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	Services        FuelServices `json:"services"`
	AverageRating   float64      `json:"average_rating"`
	TotalReviews    int          `json:"total_reviews"`
	TotalReports    int          `json:"total_reports"`
	LastPriceUpdate *time.Time   `json:"last_price_update,omitempty"`
	IsActive        bool         `json:"is_active"`
}

// HasFuelType reports whether the station sells the given (already
// normalized) fuel type.
func (gs *GasStation) HasFuelType(fuelType FuelType) bool {
	switch fuelType {
	case FuelTypeMagna:
		return gs.Services.Magna
	case FuelTypePremium:
		return gs.Services.Premium
	case FuelTypeDiesel:
		return gs.Services.Diesel
	}
	return false
}

func (gs *GasStation) ToTuple() []any {
	return []any{
		gs.Id,
		gs.Name,
		gs.Brand,
		gs.Address,
		gs.City,
		gs.State,
		gs.Latitude,
		gs.Longitude,
		gs.Services.Magna,
		gs.Services.Premium,
		gs.Services.Diesel,
		gs.IsActive,
	}
}
