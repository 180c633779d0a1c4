package domain

import (
	"bytes"
	"math"
	"strconv"
)

// SearchResult is a parsed flight-search response for one route.
// A nil *SearchResult means the query produced no data.
type SearchResult struct {
	// Currency is the currency prices are quoted in
	Currency string

	// Itineraries are the results in the order the API returned them (cheapest first)
	Itineraries []RawItinerary
}

// IsEmpty reports whether the result carries no itineraries.
func (r *SearchResult) IsEmpty() bool {
	return r == nil || len(r.Itineraries) == 0
}

// RawItinerary is one priced round-trip option as returned by the flight-search API.
type RawItinerary struct {
	Price    FlexFloat `json:"price"`
	CityFrom string    `json:"cityFrom"`
	CityTo   string    `json:"cityTo"`
	Route    []RawLeg  `json:"route"`
	DeepLink string    `json:"deep_link"`
}

// RawLeg is a single flown segment of an itinerary.
type RawLeg struct {
	FlyFrom        string   `json:"flyFrom"`
	FlyTo          string   `json:"flyTo"`
	Airline        string   `json:"airline"`
	LocalDeparture string   `json:"local_departure"`
	LocalArrival   string   `json:"local_arrival"`
	Return         FlexBool `json:"return"`
}

// FlexFloat decodes a JSON number, a numeric string or null.
// Anything else, including NaN and infinities, decodes to 0.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, ok := parseFinite(data)
	if !ok {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// FlexBool decodes true/false, a number or numeric string (non-zero is true) or null.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	if string(unquote(data)) == "true" {
		*b = true
		return nil
	}
	v, ok := parseFinite(data)
	*b = FlexBool(ok && v != 0)
	return nil
}

func unquote(data []byte) []byte {
	return bytes.Trim(bytes.TrimSpace(data), `"`)
}

// parseFinite parses a JSON number or numeric string, rejecting NaN and infinities.
func parseFinite(data []byte) (float64, bool) {
	v, err := strconv.ParseFloat(string(unquote(data)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
