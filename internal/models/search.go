package models

import "time"

// StationFilters are the search parameters accepted by the station listing
// endpoint. Zero values mean "not filtered".
type StationFilters struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	RadiusKm  float64  `json:"radius_km,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	FuelType  string   `json:"fuel_type,omitempty"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

// HasCoordinates reports whether geographic filtering applies.
func (f *StationFilters) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil && f.RadiusKm > 0
}

// StationView is one station in a search response, with its current
// validated price per fuel type.
type StationView struct {
	Id            string               `json:"id"`
	Name          string               `json:"name"`
	Brand         string               `json:"brand"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	State         string               `json:"state"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	Services      FuelServices         `json:"services"`
	CurrentPrices map[string]PriceInfo `json:"current_prices"`
	DistanceKm    *float64             `json:"distance_km,omitempty"`
}

type StationSearchResponse struct {
	Stations []StationView  `json:"stations"`
	Total    int            `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Filters  StationFilters `json:"filters"`
}

// StationDetail is the single-station view: the station row plus current
// prices and a handful of recent approved reviews.
type StationDetail struct {
	GasStation
	CurrentPrices map[string]PriceInfo `json:"current_prices"`
	RecentReviews []Review             `json:"recent_reviews"`
}

// CurrentPriceRow is one flat price+station row in the current-prices
// listing and the cheapest-by-region search.
type CurrentPriceRow struct {
	GasStationId      string      `json:"gas_station_id"`
	GasStationName    string      `json:"gas_station_name"`
	GasStationAddress string      `json:"gas_station_address"`
	GasStationBrand   string      `json:"gas_station_brand"`
	City              string      `json:"city"`
	State             string      `json:"state"`
	Latitude          float64     `json:"latitude"`
	Longitude         float64     `json:"longitude"`
	FuelType          FuelType    `json:"fuel_type"`
	Price             float64     `json:"price"`
	Source            PriceSource `json:"source"`
	Confidence        float64     `json:"confidence"`
	UpdatedAt         time.Time   `json:"updated_at"`
	AgeHours          float64     `json:"age_hours"`
	DistanceKm        *float64    `json:"distance_km,omitempty"`
}

type CurrentPricesResponse struct {
	Prices  []CurrentPriceRow `json:"prices"`
	Total   int               `json:"total"`
	Filters map[string]any    `json:"filters"`
}

// PriceStatistics is the aggregate over the trailing window of validated
// current prices for one fuel type.
type PriceStatistics struct {
	FuelType   string  `json:"fuel_type"`
	Region     string  `json:"region"`
	SampleSize int     `json:"sample_size"`
	Average    float64 `json:"average"`
	Minimum    float64 `json:"minimum"`
	Maximum    float64 `json:"maximum"`
	Range      float64 `json:"range"`
}
