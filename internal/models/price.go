package models

import (
	"strings"
	"time"
)

type FuelType string

const (
	FuelTypeMagna   FuelType = "magna"
	FuelTypePremium FuelType = "premium"
	FuelTypeDiesel  FuelType = "diesel"
)

// ParseFuelType normalizes a user-supplied fuel type. The boolean is false
// for anything outside the known enum; callers treat that as "matches
// nothing" rather than an error.
func ParseFuelType(s string) (FuelType, bool) {
	switch FuelType(strings.ToLower(strings.TrimSpace(s))) {
	case FuelTypeMagna:
		return FuelTypeMagna, true
	case FuelTypePremium:
		return FuelTypePremium, true
	case FuelTypeDiesel:
		return FuelTypeDiesel, true
	}
	return "", false
}

type PriceSource string

const (
	SourceUserReport PriceSource = "user_report"
	SourceScraper    PriceSource = "scraper"
	SourceOfficial   PriceSource = "official"
)

type ValidationStatus string

const (
	ValidationPending   ValidationStatus = "pending"
	ValidationValidated ValidationStatus = "validated"
	ValidationRejected  ValidationStatus = "rejected"
)

// FreshnessThreshold is the age beyond which a current price is no longer
// considered fresh.
const FreshnessThreshold = 24 * time.Hour

type GasPrice struct {
	Id               string           `json:"id"`
	GasStationId     string           `json:"gas_station_id"`
	FuelType         FuelType         `json:"fuel_type"`
	Price            float64          `json:"price"`
	Source           PriceSource      `json:"source"`
	ConfidenceScore  float64          `json:"confidence_score"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	IsCurrent        bool             `json:"is_current"`
	CreatedAt        time.Time        `json:"created_at"`
}

// AgeHours returns the age of the price record at the given instant, in
// fractional hours.
func (gp *GasPrice) AgeHours(now time.Time) float64 {
	return now.Sub(gp.CreatedAt).Hours()
}

func (gp *GasPrice) IsFresh(now time.Time) bool {
	return now.Sub(gp.CreatedAt) <= FreshnessThreshold
}

// PriceInfo is the per-fuel-type view surfaced in station search results and
// station detail responses.
type PriceInfo struct {
	Price      float64     `json:"price"`
	Source     PriceSource `json:"source"`
	Confidence float64     `json:"confidence"`
	UpdatedAt  time.Time   `json:"updated_at"`
	AgeHours   float64     `json:"age_hours"`
	IsFresh    bool        `json:"is_fresh"`
}

func (gp *GasPrice) ToPriceInfo(now time.Time) PriceInfo {
	return PriceInfo{
		Price:      gp.Price,
		Source:     gp.Source,
		Confidence: gp.ConfidenceScore,
		UpdatedAt:  gp.CreatedAt,
		AgeHours:   gp.AgeHours(now),
		IsFresh:    gp.IsFresh(now),
	}
}
