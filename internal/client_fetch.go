package internal

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"

	"github.com/gasoradar/gasoradar-api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ScraperConfidence is the confidence score assigned to prices lifted from
// the official publication.
const ScraperConfidence = 0.9

// HTTPStatusError is returned when the remote server responds with a
// non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type BatchCallback[T any] func(context.Context, []T) (int, error)

// OfficialDataClient pulls station and price data from the public fuel
// price publication: stations from the paginated JSON endpoint, prices from
// the published HTML table.
type OfficialDataClient interface {
	GetStations(ctx context.Context, callback BatchCallback[models.GasStation]) (int, error)
	GetOfficialPrices(ctx context.Context, callback BatchCallback[models.GasPrice]) (int, error)
}

type officialDataManager struct {
	baseUrl        string
	normalizeBrand func(string) string
	client         *http.Client
}

func NewOfficialDataClient(baseUrl string, normalizeBrand func(string) string) OfficialDataClient {
	return &officialDataManager{
		baseUrl:        baseUrl,
		normalizeBrand: normalizeBrand,
		client:         &http.Client{Timeout: 60 * time.Second},
	}
}

// GetStations walks the paginated stations endpoint, converting each page
// into GasStation rows and handing them to the callback.
func (mgr *officialDataManager) GetStations(ctx context.Context, callback BatchCallback[models.GasStation]) (int, error) {
	page := 1
	count := 0

	for {
		url := fmt.Sprintf("%s/stations?page=%d", mgr.baseUrl, page)
		body, err := mgr.get(ctx, url)
		if err != nil {
			return 0, err
		}

		var resp models.OfficialStationsResponse
		decoder := json.NewDecoder(body)
		err = decoder.Decode(&resp)
		closeBody(body)
		if err != nil {
			return 0, fmt.Errorf("failed to unmarshal stations response: %w", err)
		}
		if !resp.Success {
			return 0, fmt.Errorf("stations API error: %s", resp.Message)
		}

		batch := make([]models.GasStation, 0, len(resp.Data))
		for _, record := range resp.Data {
			batch = append(batch, record.ToGasStation(mgr.normalizeBrand(record.Brand)))
		}

		numRecords, err := callback(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("callback error: %w", err)
		}
		count += numRecords
		page++

		if numRecords == 0 || (resp.Pages > 0 && page > resp.Pages) {
			break
		}
	}

	return count, nil
}

// GetOfficialPrices scrapes the published price table. Expected layout: one
// row per (station, product) with permit id, product name and price cells.
func (mgr *officialDataManager) GetOfficialPrices(ctx context.Context, callback BatchCallback[models.GasPrice]) (int, error) {
	url := fmt.Sprintf("%s/prices", mgr.baseUrl)
	body, err := mgr.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer closeBody(body)

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price table: %w", err)
	}

	batch := parsePriceTable(doc)

	count, err := callback(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("callback error: %w", err)
	}

	return count, nil
}

func parsePriceTable(doc *goquery.Document) []models.GasPrice {
	now := time.Now().UTC()
	var batch []models.GasPrice

	doc.Find("table#precios tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		permitId := strings.TrimSpace(cells.Eq(0).Text())
		fuelType, ok := models.ParseFuelType(cells.Eq(1).Text())
		if permitId == "" || !ok {
			return
		}

		rawPrice := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cells.Eq(2).Text()), "$"))
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil || price <= 0 {
			log.Printf("skipping unparseable price %q for %s/%s", rawPrice, permitId, fuelType)
			return
		}

		batch = append(batch, models.GasPrice{
			GasStationId:    permitId,
			FuelType:        fuelType,
			Price:           price,
			Source:          models.SourceScraper,
			ConfidenceScore: ScraperConfidence,
			CreatedAt:       now,
		})
	})

	return batch
}

func (mgr *officialDataManager) get(ctx context.Context, url string) (io.ReadCloser, error) {
	log.Printf("GET %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/html")

	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{URL: url, Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		log.Printf("failed to close body: %v", err)
	}
}
