package internal

import (
	"context"
	"sort"
	"time"

	"github.com/gasoradar/gasoradar-api/internal/geo"
	"github.com/gasoradar/gasoradar-api/internal/models"
	"github.com/gasoradar/gasoradar-api/internal/stats"
)

// statisticsWindow is the trailing window price statistics are computed
// over.
const statisticsWindow = 7 * 24 * time.Hour

// recentReviewsShown caps the reviews embedded in a station detail
// response.
const recentReviewsShown = 5

// GasStationsService composes the repository's bounded queries with the
// in-memory filtering that cannot be pushed into SQL: the exact radius cut,
// distance sorting and pagination. It is stateless between requests.
type GasStationsService struct {
	repo       GasStationsRepository
	protection Validator
}

func NewGasStationsService(repo GasStationsRepository, protection Validator) *GasStationsService {
	return &GasStationsService{
		repo:       repo,
		protection: protection,
	}
}

// SearchStations runs the full read pipeline: one bounded candidate fetch,
// exact haversine refinement of the bounding-box prefilter, distance sort
// and offset/limit pagination. Empty results are a valid response, never an
// error.
func (s *GasStationsService) SearchStations(ctx context.Context, filters models.StationFilters) (*models.StationSearchResponse, error) {
	stations, err := s.repo.SearchStations(ctx, filters)
	if err != nil {
		return nil, err
	}

	if filters.HasCoordinates() {
		refined := stations[:0]
		for _, station := range stations {
			distance := geo.Distance(*filters.Latitude, *filters.Longitude, station.Latitude, station.Longitude)
			if distance > filters.RadiusKm {
				continue
			}
			d := stats.Round2(distance)
			station.DistanceKm = &d
			refined = append(refined, station)
		}
		stations = refined

		sort.SliceStable(stations, func(i, j int) bool {
			return distanceOrLast(stations[i]) < distanceOrLast(stations[j])
		})
	}

	page := paginate(stations, filters.Offset, filters.Limit)

	return &models.StationSearchResponse{
		Stations: page,
		Total:    len(page),
		Limit:    filters.Limit,
		Offset:   filters.Offset,
		Filters:  filters,
	}, nil
}

// GetStationDetail returns one active station with its current validated
// prices and the most recent approved reviews.
func (s *GasStationsService) GetStationDetail(ctx context.Context, stationId string) (*models.StationDetail, error) {
	station, err := s.repo.GetStation(ctx, stationId)
	if err != nil {
		return nil, err
	}

	prices, err := s.repo.CurrentPrices(ctx, []string{stationId})
	if err != nil {
		return nil, err
	}
	currentPrices := prices[stationId]
	if currentPrices == nil {
		currentPrices = map[string]models.PriceInfo{}
	}

	reviews, err := s.repo.RecentReviews(ctx, stationId, recentReviewsShown)
	if err != nil {
		return nil, err
	}

	return &models.StationDetail{
		GasStation:    *station,
		CurrentPrices: currentPrices,
		RecentReviews: reviews,
	}, nil
}

// ReportPrice validates and persists a crowd-sourced price observation.
// Every precondition is hard: the station must exist and be active, sell
// the declared fuel, and the protection layer must accept the submission.
// On success the derived price is immediately the station's current one.
func (s *GasStationsService) ReportPrice(ctx context.Context, req models.PriceReportRequest, clientIp string) (*models.PriceReportResponse, error) {
	fuelType, ok := models.ParseFuelType(req.FuelType)
	if !ok {
		return nil, InvalidRequestf("unknown fuel type %q", req.FuelType)
	}
	if req.ReportedPrice < 0 {
		return nil, InvalidRequestf("reported price must not be negative")
	}

	station, err := s.repo.GetStation(ctx, req.GasStationId)
	if err != nil {
		return nil, err
	}
	if !station.HasFuelType(fuelType) {
		return nil, InvalidRequestf("station %q does not sell %s", station.Name, fuelType)
	}

	accepted, message, err := s.protection.ValidatePriceReport(ctx, fuelType, req.ReportedPrice, station.State, clientIp)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ValidationRejectedf("%s", message)
	}

	report := &models.PriceReport{
		GasStationId:  req.GasStationId,
		FuelType:      fuelType,
		ReportedPrice: req.ReportedPrice,
		Comments:      req.Comments,
		PumpNumber:    req.PumpNumber,
		ReporterName:  req.ReporterName,
		ReporterIp:    clientIp,
	}

	priceId, err := s.repo.CreatePriceReport(ctx, report)
	if err != nil {
		return nil, err
	}

	return &models.PriceReportResponse{
		Success:        true,
		Message:        "price reported successfully",
		ReportId:       report.Id,
		PriceId:        priceId,
		GasStationName: station.Name,
		FuelType:       string(fuelType),
		ReportedPrice:  req.ReportedPrice,
		Status:         string(report.Status),
	}, nil
}

// CurrentPrices lists flat current-price rows with optional geographic
// refinement and re-sorting.
func (s *GasStationsService) CurrentPrices(ctx context.Context, filters CurrentPriceFilters, lat, lng *float64, radiusKm float64, sortBy string) ([]models.CurrentPriceRow, error) {
	prices, err := s.repo.ListCurrentPrices(ctx, filters)
	if err != nil {
		return nil, err
	}

	if lat != nil && lng != nil && radiusKm > 0 {
		refined := prices[:0]
		for _, row := range prices {
			distance := geo.Distance(*lat, *lng, row.Latitude, row.Longitude)
			if distance > radiusKm {
				continue
			}
			d := stats.Round2(distance)
			row.DistanceKm = &d
			refined = append(refined, row)
		}
		prices = refined
	}

	switch sortBy {
	case "updated":
		sort.SliceStable(prices, func(i, j int) bool {
			return prices[i].UpdatedAt.After(prices[j].UpdatedAt)
		})
	case "distance":
		if lat != nil && lng != nil {
			sort.SliceStable(prices, func(i, j int) bool {
				return priceDistanceOrLast(prices[i]) < priceDistanceOrLast(prices[j])
			})
		}
	default:
		// Repository order is already price ascending.
	}

	return prices, nil
}

// CheapestByRegion finds the lowest current prices for a fuel type in a
// city or state.
func (s *GasStationsService) CheapestByRegion(ctx context.Context, region, fuelType string, limit int) ([]models.CurrentPriceRow, error) {
	ft, ok := models.ParseFuelType(fuelType)
	if !ok {
		return nil, InvalidRequestf("unknown fuel type %q", fuelType)
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.repo.CheapestByRegion(ctx, region, ft, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFoundf("no stations found in %q", region)
	}
	return rows, nil
}

// PriceStatistics aggregates validated current prices for a fuel type over
// the trailing week, optionally scoped to a region.
func (s *GasStationsService) PriceStatistics(ctx context.Context, fuelType, region string) (*models.PriceStatistics, error) {
	ft, ok := models.ParseFuelType(fuelType)
	if !ok {
		return nil, InvalidRequestf("unknown fuel type %q", fuelType)
	}

	cutoff := time.Now().UTC().Add(-statisticsWindow)
	sample, err := s.repo.PriceSample(ctx, ft, region, cutoff)
	if err != nil {
		return nil, err
	}

	summary := stats.Derive(sample)
	if summary == nil {
		return nil, NotFoundf("no price data available for %s", ft)
	}

	regionLabel := region
	if regionLabel == "" {
		regionLabel = "nacional"
	}

	return &models.PriceStatistics{
		FuelType:   string(ft),
		Region:     regionLabel,
		SampleSize: summary.SampleSize,
		Average:    summary.Average,
		Minimum:    summary.Minimum,
		Maximum:    summary.Maximum,
		Range:      summary.Range,
	}, nil
}

// CreateReview validates and persists a station review, updating the
// station's aggregate rating atomically.
func (s *GasStationsService) CreateReview(ctx context.Context, req models.ReviewRequest, clientIp string) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, InvalidRequestf("rating must be between 1 and 5")
	}

	accepted, message, err := s.protection.ValidateReview(ctx, clientIp)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ValidationRejectedf("%s", message)
	}

	review := &models.Review{
		GasStationId: req.GasStationId,
		Rating:       req.Rating,
		Comment:      req.Comment,
		ReviewerName: req.ReviewerName,
		ReviewerIp:   clientIp,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *GasStationsService) ListReviews(ctx context.Context, stationId string, limit, offset int) ([]models.Review, error) {
	return s.repo.ListReviews(ctx, stationId, limit, offset)
}

// ValidationInfo exposes the plausibility range the protection layer would
// apply right now.
func (s *GasStationsService) ValidationInfo(ctx context.Context, fuelType, region string) (*ValidationInfo, error) {
	ft, ok := models.ParseFuelType(fuelType)
	if !ok {
		return nil, InvalidRequestf("unknown fuel type %q", fuelType)
	}
	info, err := s.protection.PriceRange(ctx, ft, region)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func paginate(stations []models.StationView, offset, limit int) []models.StationView {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(stations) {
		return []models.StationView{}
	}
	end := len(stations)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return stations[offset:end]
}

func distanceOrLast(station models.StationView) float64 {
	if station.DistanceKm == nil {
		return 1e9
	}
	return *station.DistanceKm
}

func priceDistanceOrLast(row models.CurrentPriceRow) float64 {
	if row.DistanceKm == nil {
		return 1e9
	}
	return *row.DistanceKm
}
