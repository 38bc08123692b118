package internal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/gasoradar/gasoradar-api/internal/geo"
	"github.com/gasoradar/gasoradar-api/internal/models"
)

// fakeRepo is an in-memory stand-in for the SQLite repository, with call
// counters so tests can assert how often the service goes back to storage.
type fakeRepo struct {
	stations []models.StationView
	station  *models.GasStation
	prices   map[string]map[string]models.PriceInfo
	reviews  []models.Review
	rows     []models.CurrentPriceRow
	sample   []float64

	reportsByIp int
	reviewsByIp int

	searchCalls       int
	currentPriceCalls int
	sampleCalls       int

	createdReport *models.PriceReport
	createdReview *models.Review
}

func (f *fakeRepo) SearchStations(ctx context.Context, filters models.StationFilters) ([]models.StationView, error) {
	f.searchCalls++
	out := make([]models.StationView, len(f.stations))
	copy(out, f.stations)
	return out, nil
}

func (f *fakeRepo) GetStation(ctx context.Context, stationId string) (*models.GasStation, error) {
	if f.station == nil || f.station.Id != stationId {
		return nil, NotFoundf("gas station %q not found", stationId)
	}
	return f.station, nil
}

func (f *fakeRepo) RecentReviews(ctx context.Context, stationId string, limit int) ([]models.Review, error) {
	if limit < len(f.reviews) {
		return f.reviews[:limit], nil
	}
	return f.reviews, nil
}

func (f *fakeRepo) CurrentPrices(ctx context.Context, stationIds []string) (map[string]map[string]models.PriceInfo, error) {
	f.currentPriceCalls++
	result := map[string]map[string]models.PriceInfo{}
	for _, id := range stationIds {
		if p, ok := f.prices[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (f *fakeRepo) InsertStations(ctx context.Context, batch []models.GasStation) (int, error) {
	return len(batch), nil
}

func (f *fakeRepo) InsertScrapedPrices(ctx context.Context, batch []models.GasPrice) (int, error) {
	return len(batch), nil
}

func (f *fakeRepo) CreatePriceReport(ctx context.Context, report *models.PriceReport) (string, error) {
	report.Id = "report-1"
	report.Status = models.ReportProcessed
	f.createdReport = report
	return "price-1", nil
}

func (f *fakeRepo) CreateReview(ctx context.Context, review *models.Review) error {
	review.Id = "review-1"
	review.Status = models.ReviewApproved
	f.createdReview = review
	return nil
}

func (f *fakeRepo) ListCurrentPrices(ctx context.Context, filters CurrentPriceFilters) ([]models.CurrentPriceRow, error) {
	out := make([]models.CurrentPriceRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRepo) CheapestByRegion(ctx context.Context, region string, fuelType models.FuelType, limit int) ([]models.CurrentPriceRow, error) {
	return f.rows, nil
}

func (f *fakeRepo) PriceSample(ctx context.Context, fuelType models.FuelType, region string, since time.Time) ([]float64, error) {
	f.sampleCalls++
	return f.sample, nil
}

func (f *fakeRepo) ListReviews(ctx context.Context, stationId string, limit, offset int) ([]models.Review, error) {
	return f.reviews, nil
}

func (f *fakeRepo) CountReportsByIp(ctx context.Context, ip string, since time.Time) (int, error) {
	return f.reportsByIp, nil
}

func (f *fakeRepo) CountReviewsByIp(ctx context.Context, ip string, since time.Time) (int, error) {
	return f.reviewsByIp, nil
}

func (f *fakeRepo) Check() checks.Check { return nil }
func (f *fakeRepo) Close() error        { return nil }

func testConfig() Config {
	return Config{
		PriceReportsPerHour:     3,
		ReviewsPerDay:           2,
		PriceTolerancePercent:   15.0,
		MinSamplesForValidation: 5,
		PriceDataFreshness:      30 * 24 * time.Hour,
		FallbackPriceRanges: map[models.FuelType]FuelPriceRange{
			models.FuelTypeMagna:   {Min: 15.0, Max: 35.0},
			models.FuelTypePremium: {Min: 18.0, Max: 40.0},
			models.FuelTypeDiesel:  {Min: 16.0, Max: 38.0},
		},
	}
}

func newTestService(repo *fakeRepo) *GasStationsService {
	return NewGasStationsService(repo, NewProtectionService(repo, testConfig()))
}

func stationAt(id string, lat, lng float64) models.StationView {
	return models.StationView{
		Id:            id,
		Name:          "Station " + id,
		Latitude:      lat,
		Longitude:     lng,
		CurrentPrices: map[string]models.PriceInfo{},
	}
}

func TestSearchStationsService(t *testing.T) {
	ctx := context.Background()
	centerLat, centerLng := 20.6767, -103.3475

	t.Run("One repository fetch regardless of result size", func(t *testing.T) {
		for _, n := range []int{0, 3, 200} {
			repo := &fakeRepo{}
			for i := 0; i < n; i++ {
				repo.stations = append(repo.stations, stationAt(fmt.Sprintf("st-%03d", i), centerLat, centerLng))
			}
			svc := newTestService(repo)

			_, err := svc.SearchStations(ctx, models.StationFilters{Limit: 50})
			assert.NoError(t, err)
			assert.Equal(t, 1, repo.searchCalls)
			assert.Equal(t, 0, repo.currentPriceCalls)
		}
	})

	t.Run("Station exactly at the radius is included", func(t *testing.T) {
		edgeLat := centerLat + 0.09
		edge := geo.Distance(centerLat, centerLng, edgeLat, centerLng)

		repo := &fakeRepo{stations: []models.StationView{stationAt("edge", edgeLat, centerLng)}}
		svc := newTestService(repo)

		resp, err := svc.SearchStations(ctx, models.StationFilters{
			Latitude:  &centerLat,
			Longitude: &centerLng,
			RadiusKm:  edge,
			Limit:     10,
		})
		assert.NoError(t, err)
		assert.Len(t, resp.Stations, 1)
		assert.NotNil(t, resp.Stations[0].DistanceKm)
	})

	t.Run("Beyond the radius is excluded", func(t *testing.T) {
		repo := &fakeRepo{stations: []models.StationView{stationAt("far", centerLat+1.0, centerLng)}}
		svc := newTestService(repo)

		resp, err := svc.SearchStations(ctx, models.StationFilters{
			Latitude:  &centerLat,
			Longitude: &centerLng,
			RadiusKm:  25,
			Limit:     10,
		})
		assert.NoError(t, err)
		assert.Empty(t, resp.Stations)
		assert.Equal(t, 0, resp.Total)
	})

	t.Run("Sorted by distance, paginated", func(t *testing.T) {
		// Seeded out of order; offsets deliberately non-monotonic.
		repo := &fakeRepo{stations: []models.StationView{
			stationAt("d", centerLat+0.12, centerLng),
			stationAt("a", centerLat, centerLng),
			stationAt("e", centerLat+0.16, centerLng),
			stationAt("b", centerLat+0.04, centerLng),
			stationAt("c", centerLat+0.08, centerLng),
		}}
		svc := newTestService(repo)

		resp, err := svc.SearchStations(ctx, models.StationFilters{
			Latitude:  &centerLat,
			Longitude: &centerLng,
			RadiusKm:  100,
			Limit:     2,
			Offset:    1,
		})
		assert.NoError(t, err)
		assert.Len(t, resp.Stations, 2)
		assert.Equal(t, "b", resp.Stations[0].Id)
		assert.Equal(t, "c", resp.Stations[1].Id)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("Offset past the end yields an empty page", func(t *testing.T) {
		repo := &fakeRepo{stations: []models.StationView{stationAt("only", centerLat, centerLng)}}
		svc := newTestService(repo)

		resp, err := svc.SearchStations(ctx, models.StationFilters{Limit: 10, Offset: 5})
		assert.NoError(t, err)
		assert.Empty(t, resp.Stations)
	})
}

func TestReportPriceService(t *testing.T) {
	ctx := context.Background()

	activeStation := func() *models.GasStation {
		return &models.GasStation{
			Id:       "st-1",
			Name:     "Pemex Centro",
			State:    "jalisco",
			Services: models.FuelServices{Magna: true, Diesel: true},
			IsActive: true,
		}
	}

	t.Run("Unknown fuel type rejected", func(t *testing.T) {
		svc := newTestService(&fakeRepo{station: activeStation()})
		_, err := svc.ReportPrice(ctx, models.PriceReportRequest{
			GasStationId: "st-1", FuelType: "kerosene", ReportedPrice: 22.5,
		}, "10.0.0.1")
		assert.True(t, errors.Is(err, ErrInvalidRequest))
	})

	t.Run("Unknown station rejected", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		_, err := svc.ReportPrice(ctx, models.PriceReportRequest{
			GasStationId: "missing", FuelType: "magna", ReportedPrice: 22.5,
		}, "10.0.0.1")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Fuel not sold at the station rejected", func(t *testing.T) {
		svc := newTestService(&fakeRepo{station: activeStation()})
		_, err := svc.ReportPrice(ctx, models.PriceReportRequest{
			GasStationId: "st-1", FuelType: "premium", ReportedPrice: 25.0,
		}, "10.0.0.1")
		assert.True(t, errors.Is(err, ErrInvalidRequest))
	})

	t.Run("Rate limited submitter rejected", func(t *testing.T) {
		repo := &fakeRepo{station: activeStation(), reportsByIp: 3}
		svc := newTestService(repo)
		_, err := svc.ReportPrice(ctx, models.PriceReportRequest{
			GasStationId: "st-1", FuelType: "magna", ReportedPrice: 22.5,
		}, "10.0.0.1")
		assert.True(t, errors.Is(err, ErrValidationRejected))
		assert.Nil(t, repo.createdReport)
	})

	t.Run("Implausible price rejected", func(t *testing.T) {
		repo := &fakeRepo{station: activeStation()}
		svc := newTestService(repo)
		_, err := svc.ReportPrice(ctx, models.PriceReportRequest{
			GasStationId: "st-1", FuelType: "magna", ReportedPrice: 99.0,
		}, "10.0.0.1")
		assert.True(t, errors.Is(err, ErrValidationRejected))
		assert.Nil(t, repo.createdReport)
	})

	t.Run("Accepted report persisted with submitter ip", func(t *testing.T) {
		repo := &fakeRepo{station: activeStation()}
		svc := newTestService(repo)
		resp, err := svc.ReportPrice(ctx, models.PriceReportRequest{
			GasStationId: "st-1", FuelType: "MAGNA", ReportedPrice: 22.49,
		}, "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "price-1", resp.PriceId)
		assert.Equal(t, "report-1", resp.ReportId)
		assert.Equal(t, "magna", resp.FuelType)
		assert.Equal(t, string(models.ReportProcessed), resp.Status)

		assert.NotNil(t, repo.createdReport)
		assert.Equal(t, "10.0.0.1", repo.createdReport.ReporterIp)
		assert.Equal(t, 22.49, repo.createdReport.ReportedPrice)
	})
}

func TestPriceStatisticsService(t *testing.T) {
	ctx := context.Background()

	t.Run("Aggregates the sample", func(t *testing.T) {
		svc := newTestService(&fakeRepo{sample: []float64{20, 22, 24}})
		result, err := svc.PriceStatistics(ctx, "magna", "jalisco")
		assert.NoError(t, err)
		assert.Equal(t, "jalisco", result.Region)
		assert.Equal(t, 3, result.SampleSize)
		assert.Equal(t, 22.0, result.Average)
		assert.Equal(t, 4.0, result.Range)
	})

	t.Run("Empty region label defaults to nacional", func(t *testing.T) {
		svc := newTestService(&fakeRepo{sample: []float64{21.5}})
		result, err := svc.PriceStatistics(ctx, "diesel", "")
		assert.NoError(t, err)
		assert.Equal(t, "nacional", result.Region)
	})

	t.Run("No data is not found", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		_, err := svc.PriceStatistics(ctx, "premium", "")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Unknown fuel type rejected", func(t *testing.T) {
		svc := newTestService(&fakeRepo{sample: []float64{20}})
		_, err := svc.PriceStatistics(ctx, "avgas", "")
		assert.True(t, errors.Is(err, ErrInvalidRequest))
	})
}

func TestCheapestByRegionService(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown region is not found", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		_, err := svc.CheapestByRegion(ctx, "atlantis", "magna", 10)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Rows pass through", func(t *testing.T) {
		rows := []models.CurrentPriceRow{{GasStationId: "st-1", Price: 21.99}}
		svc := newTestService(&fakeRepo{rows: rows})
		result, err := svc.CheapestByRegion(ctx, "jalisco", "magna", 10)
		assert.NoError(t, err)
		assert.Equal(t, rows, result)
	})
}

func TestCreateReviewService(t *testing.T) {
	ctx := context.Background()

	t.Run("Rating out of range rejected", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.CreateReview(ctx, models.ReviewRequest{GasStationId: "st-1", Rating: rating}, "10.0.0.1")
			assert.True(t, errors.Is(err, ErrInvalidRequest))
		}
	})

	t.Run("Daily limit enforced", func(t *testing.T) {
		repo := &fakeRepo{reviewsByIp: 2}
		svc := newTestService(repo)
		_, err := svc.CreateReview(ctx, models.ReviewRequest{GasStationId: "st-1", Rating: 4}, "10.0.0.1")
		assert.True(t, errors.Is(err, ErrValidationRejected))
		assert.Nil(t, repo.createdReview)
	})

	t.Run("Accepted review persisted", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(repo)
		review, err := svc.CreateReview(ctx, models.ReviewRequest{
			GasStationId: "st-1", Rating: 5, Comment: "buen servicio",
		}, "10.0.0.1")
		assert.NoError(t, err)
		assert.Equal(t, models.ReviewApproved, review.Status)
		assert.Equal(t, "10.0.0.1", repo.createdReview.ReviewerIp)
	})
}
