package brands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBrandsList(t *testing.T) {
	brands, err := GetBrandsList()
	assert.NoError(t, err)
	assert.NotEmpty(t, brands)

	for _, brand := range brands {
		assert.NotEmpty(t, brand.Name)
		assert.True(t, strings.HasPrefix(brand.Url, "http"), "brand %s has no url", brand.Name)
	}
}

func TestGetBrandsMap(t *testing.T) {
	m, err := GetBrandsMap()
	assert.NoError(t, err)

	pemex, ok := m["pemex"]
	assert.True(t, ok)
	assert.Equal(t, "Pemex", pemex.Name)

	_, ok = m["Pemex"]
	assert.False(t, ok, "map keys are lowercased")
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"pemex":                     "Pemex",
		"PEMEX":                     "Pemex",
		"  Shell  ":                 "Shell",
		"estacion pemex refined":    "Pemex",
		"gasolinera sin franquicia": "gasolinera sin franquicia",
		"":                          "",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, Normalize(input), "input %q", input)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	// Mentions two brands; the alphabetically first key must win every
	// time, not whichever the map happens to yield.
	for i := 0; i < 50; i++ {
		assert.Equal(t, "Pemex", Normalize("antes shell ahora pemex"))
	}
}
