package domain

import (
	"fmt"
	"time"
)

// DateLayout is the day/month/year layout the flight-search API expects.
const DateLayout = "02/01/2006"

// Search defaults.
const (
	DefaultNightsFrom   = 2
	DefaultNightsTo     = 14
	DefaultResultLimit  = 10
	DefaultCurrency     = "USD"
	DefaultSearchWindow = 60 * 24 * time.Hour
)

// SearchQuery defines the parameters of one round-trip search.
type SearchQuery struct {
	// Origin is the IATA code to fly from
	Origin string `validate:"required"`

	// Destination is the IATA code to fly to
	Destination string `validate:"required"`

	// DateFrom is the earliest outbound date in dd/mm/yyyy (default: today)
	DateFrom string `validate:"omitempty,datetime=02/01/2006"`

	// DateTo is the latest outbound date in dd/mm/yyyy (default: today + 60 days)
	DateTo string `validate:"omitempty,datetime=02/01/2006"`

	// NightsFrom is the minimum number of nights at the destination
	NightsFrom int `validate:"gte=0"`

	// NightsTo is the maximum number of nights at the destination
	NightsTo int `validate:"gtefield=NightsFrom"`

	// Limit caps the number of itineraries returned
	Limit int `validate:"gte=1"`

	// MaxPrice filters out itineraries above this price; 0 means no filter
	MaxPrice int `validate:"gte=0"`

	// Currency is the ISO 4217 code prices are returned in
	Currency string `validate:"required,len=3"`
}

// NewSearchQuery returns a query for the route with default search parameters.
func NewSearchQuery(route RouteSpec) SearchQuery {
	return SearchQuery{
		Origin:      route.Origin,
		Destination: route.Destination,
		NightsFrom:  DefaultNightsFrom,
		NightsTo:    DefaultNightsTo,
		Limit:       DefaultResultLimit,
		Currency:    DefaultCurrency,
	}
}

// SetDefaults fills empty optional fields. Empty dates are resolved against now.
func (q *SearchQuery) SetDefaults(now time.Time) {
	if q.DateFrom == "" {
		q.DateFrom = now.Format(DateLayout)
	}
	if q.DateTo == "" {
		q.DateTo = now.Add(DefaultSearchWindow).Format(DateLayout)
	}
	if q.NightsFrom == 0 && q.NightsTo == 0 {
		q.NightsFrom = DefaultNightsFrom
		q.NightsTo = DefaultNightsTo
	}
	if q.Limit == 0 {
		q.Limit = DefaultResultLimit
	}
	if q.Currency == "" {
		q.Currency = DefaultCurrency
	}
}

// Validate checks the query after defaults have been applied.
func (q *SearchQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// Route returns the "ORIGIN-DESTINATION" pair of the query.
func (q *SearchQuery) Route() string {
	return q.Origin + "-" + q.Destination
}
