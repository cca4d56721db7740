package domain

// GeocodeResult is one row's outcome in a geocoding batch. Results keep the
// input order of their rows; downstream tables and maps correlate them
// positionally.
type GeocodeResult struct {
	DisplayName string `json:"display_name"`
	// Query is the first candidate tried, empty when the row produced none.
	Query       string `json:"query"`
	Coordinates Geo    `json:"coordinates"`
	// NotFound marks rows whose candidates were all exhausted without a
	// match. Coordinates is meaningless when set.
	NotFound bool `json:"not_found"`
}

// PlaceholderResult is the single synthetic entry emitted for an empty
// batch, so renderers never have to special-case an empty result list.
func PlaceholderResult() GeocodeResult {
	return GeocodeResult{DisplayName: "none", NotFound: true}
}
