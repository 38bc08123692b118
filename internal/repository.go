package internal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/gasoradar/gasoradar-api/internal/geo"
	"github.com/gasoradar/gasoradar-api/internal/models"
)

//go:embed sql/search_stations.sql
var searchStationsSQL string

//go:embed sql/current_prices_for_stations.sql
var currentPricesForStationsSQL string

//go:embed sql/get_station.sql
var getStationSQL string

//go:embed sql/insert_station.sql
var insertStationSQL string

//go:embed sql/insert_price.sql
var insertPriceSQL string

//go:embed sql/supersede_price.sql
var supersedePriceSQL string

//go:embed sql/insert_report.sql
var insertReportSQL string

//go:embed sql/mark_report_processed.sql
var markReportProcessedSQL string

//go:embed sql/bump_station_reports.sql
var bumpStationReportsSQL string

//go:embed sql/insert_review.sql
var insertReviewSQL string

//go:embed sql/update_station_rating.sql
var updateStationRatingSQL string

//go:embed sql/list_reviews.sql
var listReviewsSQL string

//go:embed sql/recent_reviews.sql
var recentReviewsSQL string

//go:embed sql/price_sample.sql
var priceSampleSQL string

//go:embed sql/current_prices_all.sql
var currentPricesAllSQL string

//go:embed sql/cheapest_by_region.sql
var cheapestByRegionSQL string

//go:embed sql/count_reports_by_ip.sql
var countReportsByIpSQL string

//go:embed sql/count_reviews_by_ip.sql
var countReviewsByIpSQL string

// candidateMultiplier oversizes the candidate station query so that the
// in-memory radius cut still has enough rows left to fill a page.
const candidateMultiplier = 4

// UserReportConfidence is the confidence score assigned to prices derived
// from crowd reports.
const UserReportConfidence = 0.7

// CurrentPriceFilters narrow the flat current-prices listing.
type CurrentPriceFilters struct {
	FuelType string
	City     string
	State    string
	Limit    int
}

type GasStationsRepository interface {
	// SearchStations returns candidate stations matching the pushed-down
	// filters, each with its current validated prices. It issues exactly
	// two queries regardless of how many stations match.
	SearchStations(ctx context.Context, filters models.StationFilters) ([]models.StationView, error)
	GetStation(ctx context.Context, stationId string) (*models.GasStation, error)
	RecentReviews(ctx context.Context, stationId string, limit int) ([]models.Review, error)
	CurrentPrices(ctx context.Context, stationIds []string) (map[string]map[string]models.PriceInfo, error)

	InsertStations(ctx context.Context, batch []models.GasStation) (int, error)
	InsertScrapedPrices(ctx context.Context, batch []models.GasPrice) (int, error)

	CreatePriceReport(ctx context.Context, report *models.PriceReport) (priceId string, err error)
	CreateReview(ctx context.Context, review *models.Review) error

	ListCurrentPrices(ctx context.Context, filters CurrentPriceFilters) ([]models.CurrentPriceRow, error)
	CheapestByRegion(ctx context.Context, region string, fuelType models.FuelType, limit int) ([]models.CurrentPriceRow, error)
	PriceSample(ctx context.Context, fuelType models.FuelType, region string, since time.Time) ([]float64, error)
	ListReviews(ctx context.Context, stationId string, limit, offset int) ([]models.Review, error)

	CountReportsByIp(ctx context.Context, ip string, since time.Time) (int, error)
	CountReviewsByIp(ctx context.Context, ip string, since time.Time) (int, error)

	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewGasStationsRepository(db *sql.DB) GasStationsRepository {
	return &sqliteRepository{
		db: db,
	}
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

func (repo *sqliteRepository) SearchStations(ctx context.Context, filters models.StationFilters) ([]models.StationView, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	var minLat, maxLat, minLng, maxLng any
	if filters.HasCoordinates() {
		a, b, c, d := geo.BoundingBox(*filters.Latitude, *filters.Longitude, filters.RadiusKm)
		minLat, maxLat, minLng, maxLng = a, b, c, d
	}

	// An unknown fuel type deliberately matches nothing rather than
	// erroring.
	fuelType := ""
	if filters.FuelType != "" {
		ft, ok := models.ParseFuelType(filters.FuelType)
		if !ok {
			return []models.StationView{}, nil
		}
		fuelType = string(ft)
	}

	rows, err := repo.db.QueryContext(ctx, searchStationsSQL,
		sql.Named("min_lat", minLat),
		sql.Named("max_lat", maxLat),
		sql.Named("min_lng", minLng),
		sql.Named("max_lng", maxLng),
		sql.Named("city", filters.City),
		sql.Named("state", filters.State),
		sql.Named("brand", filters.Brand),
		sql.Named("fuel_type", fuelType),
		sql.Named("limit", limit*candidateMultiplier),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute station search query: %w", err)
	}
	defer closeRows(rows)

	stations := make([]models.StationView, 0, limit)
	stationIds := make([]string, 0, limit)
	for rows.Next() {
		var view models.StationView
		if err := rows.Scan(
			&view.Id, &view.Name, &view.Brand, &view.Address, &view.City,
			&view.State, &view.Latitude, &view.Longitude,
			&view.Services.Magna, &view.Services.Premium, &view.Services.Diesel,
		); err != nil {
			return nil, fmt.Errorf("failed to scan station row: %w", err)
		}
		view.CurrentPrices = map[string]models.PriceInfo{}
		stations = append(stations, view)
		stationIds = append(stationIds, view.Id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over station rows: %w", err)
	}

	prices, err := repo.CurrentPrices(ctx, stationIds)
	if err != nil {
		return nil, err
	}
	for i := range stations {
		if p, ok := prices[stations[i].Id]; ok {
			stations[i].CurrentPrices = p
		}
	}

	// A fuel type filter means callers want stations they can actually
	// refuel at today; an availability flag alone is not enough.
	if fuelType != "" {
		filtered := stations[:0]
		for _, s := range stations {
			if _, ok := s.CurrentPrices[fuelType]; ok {
				filtered = append(filtered, s)
			}
		}
		stations = filtered
	}

	return stations, nil
}

// CurrentPrices fetches all current validated prices for the given station
// ids in a single batch query, keyed by station id then fuel type.
func (repo *sqliteRepository) CurrentPrices(ctx context.Context, stationIds []string) (map[string]map[string]models.PriceInfo, error) {
	result := make(map[string]map[string]models.PriceInfo, len(stationIds))
	if len(stationIds) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(stationIds)), ",")
	query := fmt.Sprintf(currentPricesForStationsSQL, placeholders)
	args := make([]any, len(stationIds))
	for i, id := range stationIds {
		args[i] = id
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute batch price query: %w", err)
	}
	defer closeRows(rows)

	now := time.Now().UTC()
	for rows.Next() {
		var price models.GasPrice
		if err := rows.Scan(
			&price.GasStationId, &price.FuelType, &price.Price,
			&price.Source, &price.ConfidenceScore, &price.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		if result[price.GasStationId] == nil {
			result[price.GasStationId] = make(map[string]models.PriceInfo, 3)
		}
		result[price.GasStationId][string(price.FuelType)] = price.ToPriceInfo(now)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over price rows: %w", err)
	}

	return result, nil
}

func (repo *sqliteRepository) GetStation(ctx context.Context, stationId string) (*models.GasStation, error) {
	var gs models.GasStation
	err := repo.db.QueryRowContext(ctx, getStationSQL, stationId).Scan(
		&gs.Id, &gs.Name, &gs.Brand, &gs.Address, &gs.City, &gs.State,
		&gs.Latitude, &gs.Longitude,
		&gs.Services.Magna, &gs.Services.Premium, &gs.Services.Diesel,
		&gs.AverageRating, &gs.TotalReviews, &gs.TotalReports,
		&gs.LastPriceUpdate, &gs.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, NotFoundf("gas station %q not found", stationId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas station: %w", err)
	}
	return &gs, nil
}

func (repo *sqliteRepository) RecentReviews(ctx context.Context, stationId string, limit int) ([]models.Review, error) {
	rows, err := repo.db.QueryContext(ctx, recentReviewsSQL, stationId, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent reviews: %w", err)
	}
	defer closeRows(rows)
	return scanReviews(rows)
}

func (repo *sqliteRepository) InsertStations(ctx context.Context, batch []models.GasStation) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertStationSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, gs := range batch {
		if _, err = stmt.ExecContext(ctx, gs.ToTuple()...); err != nil {
			return 0, fmt.Errorf("failed to execute individual insert: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(batch), nil
}

// InsertScrapedPrices ingests prices sourced from the official data scraper,
// applying the same supersession contract as user reports: at most one
// current validated record per (station, fuel type).
func (repo *sqliteRepository) InsertScrapedPrices(ctx context.Context, batch []models.GasPrice) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	for _, price := range batch {
		if _, err = tx.ExecContext(ctx, supersedePriceSQL, price.GasStationId, price.FuelType); err != nil {
			return 0, fmt.Errorf("failed to supersede prior price: %w", err)
		}
		if price.Id == "" {
			price.Id = uuid.NewString()
		}
		if price.CreatedAt.IsZero() {
			price.CreatedAt = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx, insertPriceSQL,
			price.Id, price.GasStationId, price.FuelType, price.Price,
			price.Source, price.ConfidenceScore, models.ValidationValidated,
			true, price.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to insert scraped price: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(batch), nil
}

// CreatePriceReport persists the raw report, derives the new current
// validated price from it, and updates the station's counters, all in one
// transaction. Callers have already verified the station and consulted the
// protection layer.
func (repo *sqliteRepository) CreatePriceReport(ctx context.Context, report *models.PriceReport) (string, error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	now := time.Now().UTC()
	report.Id = uuid.NewString()
	report.Status = models.ReportPending
	report.CreatedAt = now

	_, err = tx.ExecContext(ctx, insertReportSQL,
		report.Id, report.GasStationId, report.FuelType, report.ReportedPrice,
		report.Comments, report.PumpNumber, report.ReporterName,
		report.ReporterIp, report.Status, report.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert price report: %w", err)
	}

	if _, err = tx.ExecContext(ctx, supersedePriceSQL, report.GasStationId, report.FuelType); err != nil {
		return "", fmt.Errorf("failed to supersede prior price: %w", err)
	}

	priceId := uuid.NewString()
	_, err = tx.ExecContext(ctx, insertPriceSQL,
		priceId, report.GasStationId, report.FuelType, report.ReportedPrice,
		models.SourceUserReport, UserReportConfidence,
		models.ValidationValidated, true, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert derived price: %w", err)
	}

	if _, err = tx.ExecContext(ctx, bumpStationReportsSQL, now, report.GasStationId); err != nil {
		return "", fmt.Errorf("failed to update station counters: %w", err)
	}

	if _, err = tx.ExecContext(ctx, markReportProcessedSQL, report.Id); err != nil {
		return "", fmt.Errorf("failed to mark report processed: %w", err)
	}
	report.Status = models.ReportProcessed

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return priceId, nil
}

// CreateReview persists an approved review and folds its rating into the
// station's running average in the same transaction.
func (repo *sqliteRepository) CreateReview(ctx context.Context, review *models.Review) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	var avgRating float64
	var totalReviews int
	err = tx.QueryRowContext(ctx,
		"SELECT average_rating, total_reviews FROM gas_stations WHERE id = ? AND is_active = 1",
		review.GasStationId).Scan(&avgRating, &totalReviews)
	if err == sql.ErrNoRows {
		err = NotFoundf("gas station %q not found", review.GasStationId)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to fetch station rating: %w", err)
	}

	review.Id = uuid.NewString()
	review.Status = models.ReviewApproved
	review.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, insertReviewSQL,
		review.Id, review.GasStationId, review.Rating, review.Comment,
		review.ReviewerName, review.ReviewerIp, review.Status, review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	newAvg := float64(review.Rating)
	if totalReviews > 0 {
		newAvg = (avgRating*float64(totalReviews) + float64(review.Rating)) / float64(totalReviews+1)
	}
	if _, err = tx.ExecContext(ctx, updateStationRatingSQL, newAvg, review.GasStationId); err != nil {
		return fmt.Errorf("failed to update station rating: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (repo *sqliteRepository) ListCurrentPrices(ctx context.Context, filters CurrentPriceFilters) ([]models.CurrentPriceRow, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	fuelType := ""
	if filters.FuelType != "" {
		ft, ok := models.ParseFuelType(filters.FuelType)
		if !ok {
			return []models.CurrentPriceRow{}, nil
		}
		fuelType = string(ft)
	}

	rows, err := repo.db.QueryContext(ctx, currentPricesAllSQL,
		sql.Named("fuel_type", fuelType),
		sql.Named("city", filters.City),
		sql.Named("state", filters.State),
		sql.Named("limit", limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute current prices query: %w", err)
	}
	defer closeRows(rows)
	return scanPriceRows(rows)
}

func (repo *sqliteRepository) CheapestByRegion(ctx context.Context, region string, fuelType models.FuelType, limit int) ([]models.CurrentPriceRow, error) {
	rows, err := repo.db.QueryContext(ctx, cheapestByRegionSQL,
		sql.Named("region", region),
		sql.Named("fuel_type", string(fuelType)),
		sql.Named("limit", limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute cheapest-by-region query: %w", err)
	}
	defer closeRows(rows)
	return scanPriceRows(rows)
}

func (repo *sqliteRepository) PriceSample(ctx context.Context, fuelType models.FuelType, region string, since time.Time) ([]float64, error) {
	rows, err := repo.db.QueryContext(ctx, priceSampleSQL,
		sql.Named("fuel_type", string(fuelType)),
		sql.Named("cutoff", since),
		sql.Named("region", region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute price sample query: %w", err)
	}
	defer closeRows(rows)

	var sample []float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		sample = append(sample, price)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sample rows: %w", err)
	}
	return sample, nil
}

func (repo *sqliteRepository) ListReviews(ctx context.Context, stationId string, limit, offset int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := repo.db.QueryContext(ctx, listReviewsSQL,
		sql.Named("station_id", stationId),
		sql.Named("limit", limit),
		sql.Named("offset", offset),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute review listing query: %w", err)
	}
	defer closeRows(rows)
	return scanReviews(rows)
}

func (repo *sqliteRepository) CountReportsByIp(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, countReportsByIpSQL, ip, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports by ip: %w", err)
	}
	return count, nil
}

func (repo *sqliteRepository) CountReviewsByIp(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, countReviewsByIpSQL, ip, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reviews by ip: %w", err)
	}
	return count, nil
}

func scanPriceRows(rows *sql.Rows) ([]models.CurrentPriceRow, error) {
	now := time.Now().UTC()
	results := make([]models.CurrentPriceRow, 0, 50)
	for rows.Next() {
		var row models.CurrentPriceRow
		var createdAt time.Time
		if err := rows.Scan(
			&row.Price, &row.FuelType, &row.Source, &row.Confidence, &createdAt,
			&row.GasStationId, &row.GasStationName, &row.GasStationAddress,
			&row.GasStationBrand, &row.Latitude, &row.Longitude,
			&row.City, &row.State,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		row.UpdatedAt = createdAt
		row.AgeHours = now.Sub(createdAt).Hours()
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over price rows: %w", err)
	}
	return results, nil
}

func scanReviews(rows *sql.Rows) ([]models.Review, error) {
	reviews := make([]models.Review, 0, 20)
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.Id, &review.GasStationId, &review.Rating, &review.Comment,
			&review.ReviewerName, &review.Status, &review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over review rows: %w", err)
	}
	return reviews, nil
}

func rollbackOnError(tx *sql.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Printf("error rolling back transaction: %v", rbErr)
		}
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Printf("failed to close statement: %v", err)
	}
}
