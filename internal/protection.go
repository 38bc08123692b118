package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/gasoradar/gasoradar-api/internal/models"
	"github.com/gasoradar/gasoradar-api/internal/stats"
)

// ValidationInfo describes the plausibility range a report would currently
// be checked against for a fuel type and region.
type ValidationInfo struct {
	FuelType         string  `json:"fuel_type"`
	Region           string  `json:"region"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	SampleSize       int     `json:"sample_size"`
	Dynamic          bool    `json:"dynamic"`
	TolerancePercent float64 `json:"tolerance_percent"`
}

// Validator is the anti-abuse collaborator consulted before any write is
// persisted.
type Validator interface {
	ValidatePriceReport(ctx context.Context, fuelType models.FuelType, price float64, region string, clientIp string) (bool, string, error)
	ValidateReview(ctx context.Context, clientIp string) (bool, string, error)
	PriceRange(ctx context.Context, fuelType models.FuelType, region string) (ValidationInfo, error)
}

type protectionService struct {
	repo GasStationsRepository
	cfg  Config
}

func NewProtectionService(repo GasStationsRepository, cfg Config) Validator {
	return &protectionService{
		repo: repo,
		cfg:  cfg,
	}
}

// ValidatePriceReport enforces the per-IP submission limit and checks the
// reported price against the current plausibility range. The returned
// message is suitable for showing to the submitter verbatim.
func (ps *protectionService) ValidatePriceReport(ctx context.Context, fuelType models.FuelType, price float64, region string, clientIp string) (bool, string, error) {
	since := time.Now().UTC().Add(-time.Hour)
	count, err := ps.repo.CountReportsByIp(ctx, clientIp, since)
	if err != nil {
		return false, "", err
	}
	if count >= ps.cfg.PriceReportsPerHour {
		return false, fmt.Sprintf("report limit reached (%d per hour), try again later", ps.cfg.PriceReportsPerHour), nil
	}

	info, err := ps.PriceRange(ctx, fuelType, region)
	if err != nil {
		return false, "", err
	}
	if price < info.MinPrice || price > info.MaxPrice {
		return false, fmt.Sprintf("price %.2f is outside the plausible range for %s (%.2f - %.2f)",
			price, fuelType, info.MinPrice, info.MaxPrice), nil
	}

	return true, "", nil
}

func (ps *protectionService) ValidateReview(ctx context.Context, clientIp string) (bool, string, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	count, err := ps.repo.CountReviewsByIp(ctx, clientIp, since)
	if err != nil {
		return false, "", err
	}
	if count >= ps.cfg.ReviewsPerDay {
		return false, fmt.Sprintf("review limit reached (%d per day), try again later", ps.cfg.ReviewsPerDay), nil
	}
	return true, "", nil
}

// PriceRange derives the plausibility range dynamically (recent regional
// average ± tolerance) when enough samples exist, falling back to the static
// per-fuel ranges otherwise.
func (ps *protectionService) PriceRange(ctx context.Context, fuelType models.FuelType, region string) (ValidationInfo, error) {
	info := ValidationInfo{
		FuelType:         string(fuelType),
		Region:           region,
		TolerancePercent: ps.cfg.PriceTolerancePercent,
	}

	cutoff := time.Now().UTC().Add(-ps.cfg.PriceDataFreshness)
	sample, err := ps.repo.PriceSample(ctx, fuelType, region, cutoff)
	if err != nil {
		return info, err
	}
	info.SampleSize = len(sample)

	if summary := stats.Derive(sample); summary != nil && summary.SampleSize >= ps.cfg.MinSamplesForValidation {
		tolerance := summary.Average * ps.cfg.PriceTolerancePercent / 100.0
		info.MinPrice = stats.Round2(summary.Average - tolerance)
		info.MaxPrice = stats.Round2(summary.Average + tolerance)
		info.Dynamic = true
		return info, nil
	}

	fallback, ok := ps.cfg.FallbackPriceRanges[fuelType]
	if !ok {
		return info, InvalidRequestf("unknown fuel type %q", fuelType)
	}
	info.MinPrice = fallback.Min
	info.MaxPrice = fallback.Max
	return info, nil
}
