package usecase

import (
	"fmt"
	"io"
	"strings"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

// Report layout.
const (
	// ReportLimit is how many deals are printed per route
	ReportLimit = 10

	bookingLinkLen = 100
	ruleWidth      = 60
)

var rule = strings.Repeat("=", ruleWidth)

// RouteReporter renders per-route results as fixed-width text.
type RouteReporter struct {
	out io.Writer
}

// NewRouteReporter creates a reporter writing to out.
func NewRouteReporter(out io.Writer) *RouteReporter {
	return &RouteReporter{out: out}
}

// Report prints up to ReportLimit deals for a route and returns every formatted deal.
// A nil or empty result prints a single "No flights found" line and returns an empty slice.
func (r *RouteReporter) Report(result *domain.SearchResult, label string) []domain.FormattedDeal {
	if result.IsEmpty() {
		fmt.Fprintf(r.out, "  No flights found for %s\n", label)
		return []domain.FormattedDeal{}
	}

	deals := FormatItineraries(result)

	fmt.Fprintf(r.out, "\n%s\n", rule)
	fmt.Fprintf(r.out, "  %s - %d deals\n", label, len(deals))
	fmt.Fprintf(r.out, "%s\n", rule)

	for i, d := range deals {
		if i == ReportLimit {
			break
		}
		fmt.Fprintf(r.out, "\n  #%d  %s\n", i+1, d.Price)
		fmt.Fprintf(r.out, "  OUT: %s  (%s)\n", d.OutboundDate, StopsLabel(d.OutboundStops))
		fmt.Fprintf(r.out, "  RET: %s  (%s)\n", d.ReturnDate, StopsLabel(d.InboundStops))
		fmt.Fprintf(r.out, "  Airlines: %s\n", strings.Join(d.Airlines, ", "))
		fmt.Fprintf(r.out, "  Book: %s...\n", domain.Truncate(d.BookingLink, bookingLinkLen))
	}

	return deals
}

// StopsLabel renders a stop count: "direct", "N stop", or "no flights" when the direction is empty.
func StopsLabel(stops int) string {
	switch {
	case stops == 0:
		return "direct"
	case stops < 0:
		return "no flights"
	default:
		return fmt.Sprintf("%d stop", stops)
	}
}
