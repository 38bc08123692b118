package internal

import (
	"os"
	"strconv"
	"time"

	"github.com/gasoradar/gasoradar-api/internal/models"
)

// FuelPriceRange is the static fallback plausibility range used when there
// is not enough recent data to derive a dynamic one.
type FuelPriceRange struct {
	Min float64
	Max float64
}

type Config struct {
	// Anti-abuse limits, enforced by the protection layer.
	PriceReportsPerHour int
	ReviewsPerDay       int

	// Dynamic price validation.
	PriceTolerancePercent   float64
	MinSamplesForValidation int
	PriceDataFreshness      time.Duration
	FallbackPriceRanges     map[models.FuelType]FuelPriceRange
}

// LoadConfig builds the runtime configuration from environment variables,
// with the defaults the service was tuned with.
func LoadConfig() Config {
	return Config{
		PriceReportsPerHour:     envInt("PRICE_REPORTS_PER_HOUR", 3),
		ReviewsPerDay:           envInt("REVIEWS_PER_DAY", 2),
		PriceTolerancePercent:   envFloat("PRICE_TOLERANCE_PERCENT", 15.0),
		MinSamplesForValidation: envInt("MIN_SAMPLES_FOR_VALIDATION", 5),
		PriceDataFreshness:      time.Duration(envInt("PRICE_DATA_FRESHNESS_DAYS", 30)) * 24 * time.Hour,
		FallbackPriceRanges: map[models.FuelType]FuelPriceRange{
			models.FuelTypeMagna:   {Min: 15.0, Max: 35.0},
			models.FuelTypePremium: {Min: 18.0, Max: 40.0},
			models.FuelTypeDiesel:  {Min: 16.0, Max: 38.0},
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
