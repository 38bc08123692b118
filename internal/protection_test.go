package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gasoradar/gasoradar-api/internal/models"
)

func TestPriceRange(t *testing.T) {
	ctx := context.Background()

	t.Run("Dynamic range from a sufficient sample", func(t *testing.T) {
		repo := &fakeRepo{sample: []float64{21, 21.5, 22, 22.5, 23}}
		ps := NewProtectionService(repo, testConfig())

		info, err := ps.PriceRange(ctx, models.FuelTypeMagna, "jalisco")
		assert.NoError(t, err)
		assert.True(t, info.Dynamic)
		assert.Equal(t, 5, info.SampleSize)
		// avg 22.0 +/- 15%
		assert.Equal(t, 18.7, info.MinPrice)
		assert.Equal(t, 25.3, info.MaxPrice)
		assert.Equal(t, "jalisco", info.Region)
	})

	t.Run("Fallback range when the sample is too small", func(t *testing.T) {
		repo := &fakeRepo{sample: []float64{22, 23}}
		ps := NewProtectionService(repo, testConfig())

		info, err := ps.PriceRange(ctx, models.FuelTypePremium, "")
		assert.NoError(t, err)
		assert.False(t, info.Dynamic)
		assert.Equal(t, 2, info.SampleSize)
		assert.Equal(t, 18.0, info.MinPrice)
		assert.Equal(t, 40.0, info.MaxPrice)
	})

	t.Run("Fallback range with no data at all", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{}, testConfig())

		info, err := ps.PriceRange(ctx, models.FuelTypeDiesel, "")
		assert.NoError(t, err)
		assert.False(t, info.Dynamic)
		assert.Equal(t, 16.0, info.MinPrice)
		assert.Equal(t, 38.0, info.MaxPrice)
	})
}

func TestValidatePriceReport(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepts a plausible price", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{}, testConfig())
		ok, message, err := ps.ValidatePriceReport(ctx, models.FuelTypeMagna, 22.5, "jalisco", "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, message)
	})

	t.Run("Boundary prices of the fallback range accepted", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{}, testConfig())
		for _, price := range []float64{15.0, 35.0} {
			ok, _, err := ps.ValidatePriceReport(ctx, models.FuelTypeMagna, price, "", "10.0.0.1")
			assert.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("Rejects a price outside the range", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{}, testConfig())
		ok, message, err := ps.ValidatePriceReport(ctx, models.FuelTypeMagna, 14.99, "", "10.0.0.1")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, message, "outside the plausible range")
	})

	t.Run("Rejects once the hourly limit is hit", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{reportsByIp: 3}, testConfig())
		ok, message, err := ps.ValidatePriceReport(ctx, models.FuelTypeMagna, 22.5, "", "10.0.0.1")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, message, "limit reached")
	})

	t.Run("Dynamic range tightens validation", func(t *testing.T) {
		// 25.0 sits inside the fallback range but outside avg 22 +/- 15%.
		repo := &fakeRepo{sample: []float64{21, 21.5, 22, 22.5, 23}}
		ps := NewProtectionService(repo, testConfig())
		ok, _, err := ps.ValidatePriceReport(ctx, models.FuelTypeMagna, 26.0, "jalisco", "10.0.0.1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestValidateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("Under the daily limit", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{reviewsByIp: 1}, testConfig())
		ok, _, err := ps.ValidateReview(ctx, "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("At the daily limit", func(t *testing.T) {
		ps := NewProtectionService(&fakeRepo{reviewsByIp: 2}, testConfig())
		ok, message, err := ps.ValidateReview(ctx, "10.0.0.1")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, message, "limit reached")
	})
}
