// Package domain models contact rows imported from booking spreadsheets and
// the geocoding/routing values derived from them.
//
// # Row conventions
//
// Rows come from user-authored Excel/CSV exports with no fixed schema. Column
// names are free text and usually French ("Adresse", "Ville", "Code Postal"),
// sometimes English, sometimes misspelled ("Addresse"). Detection therefore
// works from an alias table rather than positions: a column feeds a canonical
// field when its lowercased name equals a known alias or contains one as a
// substring. When several columns match the same field, the last one in row
// order wins, the behavior the desktop app's imports rely on. It is pinned
// by tests rather than "fixed".
//
// # Query candidates
//
// A canonical address expands into up to ten comma-joined search strings,
// most specific first, so the first cache hit or successful lookup is the
// most precise available:
//
//	address, city, postal_code, country
//	address, city, country
//	city, postal_code, country
//	address, department, country
//	city, region, country
//	address, country
//	city, country
//	department, country
//	region, country
//	postal_code, country
//
// The country is always appended, even when empty, so candidate strings stay
// byte-identical to the ones already present in existing geocode cache
// files. Whitespace-only candidates and the literal "france, france" (an
// artifact of the app's default-country setting) are filtered out. An empty
// candidate list means the row is ungeocodable; nothing fabricates a
// fallback location.
//
// # Coordinates
//
// All coordinates are WGS-84 (lat, lon) degrees. External services that
// speak (lon, lat) are converted at the adapter edge only.
package domain
