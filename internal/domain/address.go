package domain

import "strings"

// CanonicalAddress is the normalized location schema derived from a row.
// Every field holds the verbatim value of some source column, or "" when no
// column matched.
type CanonicalAddress struct {
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	Department string `json:"department,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// aliasTable maps canonical fields to the column-name aliases seen in real
// booking spreadsheets. Matching is case-insensitive, by equality or
// substring containment.
var aliasTable = []struct {
	assign  func(*CanonicalAddress, string)
	aliases []string
}{
	{func(a *CanonicalAddress, v string) { a.Name = v },
		[]string{"nom", "contact", "établissement", "organisation", "enseigne"}},
	{func(a *CanonicalAddress, v string) { a.Address = v },
		[]string{"adresse", "lieu", "localisation", "rue", "addresse", "address", "location"}},
	{func(a *CanonicalAddress, v string) { a.City = v },
		[]string{"ville", "commune", "municipalité", "city", "town"}},
	{func(a *CanonicalAddress, v string) { a.Region = v },
		[]string{"région", "province", "state", "county"}},
	{func(a *CanonicalAddress, v string) { a.Department = v },
		[]string{"département", "canton", "district"}},
	{func(a *CanonicalAddress, v string) { a.PostalCode = v },
		[]string{"code postal", "cp", "postal code", "zip"}},
	{func(a *CanonicalAddress, v string) { a.Country = v },
		[]string{"pays", "country", "nation"}},
}

// Detect maps a free-form row onto the canonical address schema using the
// alias table. Columns are scanned in row order and the last match for a
// field wins; a single column may populate more than one field when its name
// carries several aliases. Detect never fails; unmatched fields stay empty.
func Detect(row ContactRow) CanonicalAddress {
	var addr CanonicalAddress
	for _, col := range row {
		lower := strings.ToLower(col.Name)
		for _, entry := range aliasTable {
			if matchesAlias(lower, entry.aliases) {
				entry.assign(&addr, col.Value)
			}
		}
	}
	return addr
}

func matchesAlias(lowerName string, aliases []string) bool {
	for _, alias := range aliases {
		if lowerName == alias || strings.Contains(lowerName, alias) {
			return true
		}
	}
	return false
}
