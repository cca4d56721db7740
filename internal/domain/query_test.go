package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueries_FullAddressOrdering(t *testing.T) {
	addr := CanonicalAddress{
		Address:    "10 Rue de Rivoli",
		City:       "Paris",
		PostalCode: "75001",
		Country:    "France",
	}

	queries := BuildQueries(addr)

	require.NotEmpty(t, queries)
	assert.Equal(t, "10 Rue de Rivoli, Paris, 75001, France", queries[0])
	assert.Equal(t, []string{
		"10 Rue de Rivoli, Paris, 75001, France",
		"10 Rue de Rivoli, Paris, France",
		"Paris, 75001, France",
		"10 Rue de Rivoli, France",
		"Paris, France",
		"75001, France",
	}, queries)
}

func TestBuildQueries_AllTenVariants(t *testing.T) {
	addr := CanonicalAddress{
		Address:    "Mairie",
		City:       "Brest",
		Region:     "Bretagne",
		Department: "Finistère",
		PostalCode: "29200",
		Country:    "France",
	}

	assert.Equal(t, []string{
		"Mairie, Brest, 29200, France",
		"Mairie, Brest, France",
		"Brest, 29200, France",
		"Mairie, Finistère, France",
		"Brest, Bretagne, France",
		"Mairie, France",
		"Brest, France",
		"Finistère, France",
		"Bretagne, France",
		"29200, France",
	}, BuildQueries(addr))
}

func TestBuildQueries_EmptyAddress(t *testing.T) {
	assert.Empty(t, BuildQueries(CanonicalAddress{}))
}

func TestBuildQueries_CountryOnlyIsUngeocodable(t *testing.T) {
	// No variant pairs the country with itself, so a row carrying only a
	// country yields nothing rather than a country-centroid lookup.
	assert.Empty(t, BuildQueries(CanonicalAddress{Country: "France"}))
}

func TestBuildQueries_DegenerateFranceFranceFiltered(t *testing.T) {
	// The default-country artifact: city field holding the country name.
	addr := CanonicalAddress{City: "France", Country: "France"}
	assert.Empty(t, BuildQueries(addr))

	// Mixed case is filtered too.
	addr = CanonicalAddress{City: "FRANCE", Country: "france"}
	assert.Empty(t, BuildQueries(addr))
}

func TestBuildQueries_MissingCountryStillAppended(t *testing.T) {
	// The trailing separator is deliberate: cache keys written by earlier
	// imports include it, and changing the format would orphan them.
	addr := CanonicalAddress{City: "Paris"}
	assert.Equal(t, []string{"Paris, "}, BuildQueries(addr))
}

func TestBuildQueries_NeverEmptyOrWhitespaceCandidates(t *testing.T) {
	addr := CanonicalAddress{City: "  ", Country: " "}
	for _, q := range BuildQueries(addr) {
		assert.NotEqual(t, "", q)
	}
	assert.Empty(t, BuildQueries(CanonicalAddress{Country: "   "}))
}
