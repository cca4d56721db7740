package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_FrenchColumns(t *testing.T) {
	row := ContactRow{
		{Name: "Adresse", Value: "10 Rue de Rivoli"},
		{Name: "Ville", Value: "Paris"},
		{Name: "Code Postal", Value: "75001"},
		{Name: "Pays", Value: "France"},
	}

	addr := Detect(row)

	assert.Equal(t, "10 Rue de Rivoli", addr.Address)
	assert.Equal(t, "Paris", addr.City)
	assert.Equal(t, "75001", addr.PostalCode)
	assert.Equal(t, "France", addr.Country)
	assert.Empty(t, addr.Name)
	assert.Empty(t, addr.Region)
	assert.Empty(t, addr.Department)
}

func TestDetect_AliasVariants(t *testing.T) {
	tests := []struct {
		name   string
		row    ContactRow
		expect CanonicalAddress
	}{
		{
			name: "english headers",
			row: ContactRow{
				{Name: "Address", Value: "221B Baker Street"},
				{Name: "Town", Value: "London"},
				{Name: "Country", Value: "UK"},
			},
			expect: CanonicalAddress{Address: "221B Baker Street", City: "London", Country: "UK"},
		},
		{
			name: "misspelled address column",
			row: ContactRow{
				{Name: "Addresse", Value: "3 Place Bellecour"},
				{Name: "Commune", Value: "Lyon"},
			},
			expect: CanonicalAddress{Address: "3 Place Bellecour", City: "Lyon"},
		},
		{
			name: "substring match on decorated header",
			row: ContactRow{
				{Name: "Adresse du lieu", Value: "Le Zénith"},
				{Name: "CP", Value: "42000"},
			},
			// "Adresse du lieu" carries both an address alias and the
			// "lieu" alias, so it lands on address; "lieu" is itself an
			// address alias, not a separate field.
			expect: CanonicalAddress{Address: "Le Zénith", PostalCode: "42000"},
		},
		{
			name: "contact column feeds name",
			row: ContactRow{
				{Name: "Contact", Value: "Salle des fêtes"},
				{Name: "Ville", Value: "Nantes"},
			},
			expect: CanonicalAddress{Name: "Salle des fêtes", City: "Nantes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Detect(tt.row))
		})
	}
}

func TestDetect_LastMatchWins(t *testing.T) {
	// Two columns match the city field; the later one in row order is kept.
	// This mirrors the import behavior existing spreadsheets depend on, even
	// when the later column is the broader match.
	row := ContactRow{
		{Name: "Ville", Value: "Marseille"},
		{Name: "City", Value: "Aix-en-Provence"},
	}

	addr := Detect(row)
	assert.Equal(t, "Aix-en-Provence", addr.City)
}

func TestDetect_OneColumnCanFeedSeveralFields(t *testing.T) {
	// "Location state" contains both an address alias ("location") and a
	// region alias ("state").
	row := ContactRow{{Name: "Location state", Value: "Bretagne"}}

	addr := Detect(row)
	assert.Equal(t, "Bretagne", addr.Address)
	assert.Equal(t, "Bretagne", addr.Region)
}

func TestDetect_NoMatches(t *testing.T) {
	row := ContactRow{
		{Name: "Prix", Value: "1200"},
		{Name: "Date", Value: "2026-07-14"},
	}

	assert.Equal(t, CanonicalAddress{}, Detect(row))
}

func TestDetect_VerbatimValuesIncludingEmpty(t *testing.T) {
	// Detection copies values verbatim, even empty ones; it never infers.
	row := ContactRow{
		{Name: "Ville", Value: ""},
		{Name: "Pays", Value: "  France  "},
	}

	addr := Detect(row)
	assert.Equal(t, "", addr.City)
	assert.Equal(t, "  France  ", addr.Country)
}
