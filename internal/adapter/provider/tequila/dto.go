package tequila

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// searchResponse is the top-level body of GET /search.
// Items are kept raw so a single malformed itinerary cannot fail the whole route.
type searchResponse struct {
	Currency string                `json:"currency"`
	Data     []jsoniter.RawMessage `json:"data"`
}
