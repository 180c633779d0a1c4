package domain

// FormattedDeal is the flattened, display and storage ready form of an itinerary.
// JSON field names are part of the snapshot file format.
type FormattedDeal struct {
	// Price is the display price (e.g., "$120.5")
	Price string `json:"price"`

	// PriceRaw is the numeric price used for sorting
	PriceRaw float64 `json:"price_raw"`

	// From is the origin city name
	From string `json:"from"`

	// To is the destination city name
	To string `json:"to"`

	// OutboundDate is the first outbound departure, minute precision ("2006-01-02T15:04")
	OutboundDate string `json:"outbound_date"`

	// ReturnDate is the first return departure, or "" if the itinerary has no return legs
	ReturnDate string `json:"return_date"`

	// OutboundStops is the outbound leg count minus one (-1 when there are no outbound legs)
	OutboundStops int `json:"outbound_stops"`

	// InboundStops is the return leg count minus one (-1 when there are no return legs)
	InboundStops int `json:"inbound_stops"`

	// Airlines holds the distinct carrier codes over all legs, sorted
	Airlines []string `json:"airlines"`

	// BookingLink is the deep link to book the itinerary
	BookingLink string `json:"booking_link"`

	// Route is the label of the route the deal was found on; set by the aggregator
	Route string `json:"route"`
}

// FlightLeg is a formatted segment, with timestamps truncated to minute precision.
type FlightLeg struct {
	From      string
	To        string
	Airline   string
	Departure string
	Arrival   string
	Return    bool
}

// WithRoute returns a copy of the deal annotated with the route label.
func (d FormattedDeal) WithRoute(label string) FormattedDeal {
	d.Route = label
	return d
}
