package domain

import "strings"

// degenerateQuery is the search string produced when the configured default
// country leaks into the city field; geocoding it returns the country
// centroid, which is worse than no result.
const degenerateQuery = "france, france"

// BuildQueries expands a canonical address into an ordered list of geocoding
// candidates, most specific first. The country is appended to every variant
// even when empty. An empty return value means the row is ungeocodable and
// callers must report "not found" rather than invent a fallback query.
func BuildQueries(addr CanonicalAddress) []string {
	country := addr.Country

	var queries []string
	add := func(parts ...string) {
		queries = append(queries, strings.Join(append(parts, country), ", "))
	}

	if addr.Address != "" && addr.City != "" && addr.PostalCode != "" {
		add(addr.Address, addr.City, addr.PostalCode)
	}
	if addr.Address != "" && addr.City != "" {
		add(addr.Address, addr.City)
	}
	if addr.City != "" && addr.PostalCode != "" {
		add(addr.City, addr.PostalCode)
	}
	if addr.Address != "" && addr.Department != "" {
		add(addr.Address, addr.Department)
	}
	if addr.City != "" && addr.Region != "" {
		add(addr.City, addr.Region)
	}
	if addr.Address != "" {
		add(addr.Address)
	}
	if addr.City != "" {
		add(addr.City)
	}
	if addr.Department != "" {
		add(addr.Department)
	}
	if addr.Region != "" {
		add(addr.Region)
	}
	if addr.PostalCode != "" {
		add(addr.PostalCode)
	}

	kept := queries[:0]
	for _, q := range queries {
		if strings.TrimSpace(q) == "" || strings.ToLower(q) == degenerateQuery {
			continue
		}
		kept = append(kept, q)
	}
	return kept
}
