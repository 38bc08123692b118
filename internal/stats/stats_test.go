package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	t.Run("Basic summary", func(t *testing.T) {
		summary := Derive([]float64{20, 22, 24})
		assert.NotNil(t, summary)
		assert.Equal(t, 3, summary.SampleSize)
		assert.Equal(t, 22.0, summary.Average)
		assert.Equal(t, 20.0, summary.Minimum)
		assert.Equal(t, 24.0, summary.Maximum)
		assert.Equal(t, 4.0, summary.Range)
	})

	t.Run("Single sample", func(t *testing.T) {
		summary := Derive([]float64{23.49})
		assert.Equal(t, 1, summary.SampleSize)
		assert.Equal(t, 23.49, summary.Average)
		assert.Equal(t, 0.0, summary.Range)
	})

	t.Run("Average rounded to two decimals", func(t *testing.T) {
		summary := Derive([]float64{20.01, 20.02, 20.02})
		assert.Equal(t, 20.02, summary.Average)
	})

	t.Run("Empty sample yields nil", func(t *testing.T) {
		assert.Nil(t, Derive(nil))
		assert.Nil(t, Derive([]float64{}))
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 22.46, Round2(22.4567))
	assert.Equal(t, -1.23, Round2(-1.234))
	assert.Equal(t, 0.0, Round2(0))
}
