package brands

import (
	_ "embed"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kofalt/go-memoize"

	"github.com/gasoradar/gasoradar-api/internal"
	"github.com/gasoradar/gasoradar-api/internal/models"
)

//go:embed brands.csv
var brandsCSV string

// The embedded directory never changes at runtime; the memoizer just avoids
// re-parsing the CSV on every import batch.
var cache = memoize.NewMemoizer(90*time.Second, 10*time.Minute)

func GetBrandsList() ([]*models.Brand, error) {
	arr := make([]*models.Brand, 0, 32)
	reader := strings.NewReader(brandsCSV)

	for record := range internal.ParseCSV(reader, false, models.BrandFromCSV) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load brand directory")
		}
		arr = append(arr, record.Value)
	}

	return arr, nil
}

func GetBrandsMap() (Brands, error) {
	result, err, _ := cache.Memoize("brands-map", func() (any, error) {
		brands, err := GetBrandsList()
		if err != nil {
			return nil, err
		}

		m := make(map[string]*models.Brand, len(brands))
		for _, record := range brands {
			key := strings.ToLower(record.Name)
			if _, ok := m[key]; ok {
				return nil, errors.Newf("duplicate brand detected: %s", record.Name)
			}
			m[key] = record
		}
		return Brands(m), nil
	})
	if err != nil {
		return nil, err
	}

	return result.(Brands), nil
}

// Normalize maps a free-text brand string from scraped data onto the
// canonical brand name, falling back to the trimmed input when unknown.
func Normalize(raw string) string {
	m, err := GetBrandsMap()
	if err != nil {
		return strings.TrimSpace(raw)
	}

	needle := strings.ToLower(strings.TrimSpace(raw))
	if brand, ok := m[needle]; ok {
		return brand.Name
	}

	// Substring fallback over sorted keys, so a string mentioning two
	// brands always resolves the same way.
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(needle, key) {
			return m[key].Name
		}
	}
	return strings.TrimSpace(raw)
}

type Brands map[string]*models.Brand
