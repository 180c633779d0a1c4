// Package usecase contains the deal scanning logic: formatting raw itineraries,
// reporting per-route results and aggregating the cheapest deals across routes.
package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

// timestampLen keeps "2006-01-02T15:04" from an API timestamp.
const timestampLen = 16

// FormatItinerary flattens a raw itinerary into a deal.
// It never fails: absent fields fall back to "" or 0.
//
// Stop counts are leg counts minus one per direction, so a direction without legs
// reports -1. Carriers are de-duplicated over all legs and sorted.
func FormatItinerary(it domain.RawItinerary, currency string) domain.FormattedDeal {
	legs := lo.Map(it.Route, func(r domain.RawLeg, _ int) domain.FlightLeg {
		return formatLeg(r)
	})
	inbound, outbound := lo.FilterReject(legs, func(l domain.FlightLeg, _ int) bool {
		return l.Return
	})

	airlines := lo.Uniq(lo.Map(legs, func(l domain.FlightLeg, _ int) string {
		return l.Airline
	}))
	sort.Strings(airlines)

	price := float64(it.Price)

	return domain.FormattedDeal{
		Price:         FormatPrice(price, currency),
		PriceRaw:      price,
		From:          it.CityFrom,
		To:            it.CityTo,
		OutboundDate:  firstDeparture(outbound),
		ReturnDate:    firstDeparture(inbound),
		OutboundStops: len(outbound) - 1,
		InboundStops:  len(inbound) - 1,
		Airlines:      airlines,
		BookingLink:   it.DeepLink,
	}
}

// FormatItineraries formats every itinerary of a result in order.
func FormatItineraries(result *domain.SearchResult) []domain.FormattedDeal {
	if result.IsEmpty() {
		return []domain.FormattedDeal{}
	}
	return lo.Map(result.Itineraries, func(it domain.RawItinerary, _ int) domain.FormattedDeal {
		return FormatItinerary(it, result.Currency)
	})
}

// FormatPrice renders a price with the shortest exact decimal form: "$99", "$120.5".
// Currencies other than USD are prefixed with their code.
func FormatPrice(amount float64, currency string) string {
	value := strconv.FormatFloat(amount, 'f', -1, 64)
	if currency == "" || strings.EqualFold(currency, domain.DefaultCurrency) {
		return "$" + value
	}
	return strings.ToUpper(currency) + " " + value
}

func formatLeg(r domain.RawLeg) domain.FlightLeg {
	return domain.FlightLeg{
		From:      r.FlyFrom,
		To:        r.FlyTo,
		Airline:   r.Airline,
		Departure: truncateTimestamp(r.LocalDeparture),
		Arrival:   truncateTimestamp(r.LocalArrival),
		Return:    bool(r.Return),
	}
}

func firstDeparture(legs []domain.FlightLeg) string {
	if len(legs) == 0 {
		return ""
	}
	return legs[0].Departure
}

func truncateTimestamp(ts string) string {
	return domain.Truncate(ts, timestampLen)
}
