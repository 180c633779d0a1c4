package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
	"github.com/flight-search/flight-deal-scanner/internal/infrastructure/logger"
)

// Default aggregation limits.
const (
	DefaultPerRouteLimit = 5
	DefaultSummaryLimit  = 10
	DefaultSnapshotLimit = 20
)

// KeyPortalURL is where users obtain a Tequila API key.
const KeyPortalURL = "https://tequila.kiwi.com/portal/login"

// DealScanner runs a search across routes and keeps the cheapest deals.
type DealScanner interface {
	// Scan queries every route in order, prints per-route reports and a global summary,
	// persists the cheapest deals and returns all collected deals sorted by price.
	// Only a persistence failure is returned as an error.
	Scan(ctx context.Context, routes []domain.RouteSpec, opts ScanOptions) ([]domain.FormattedDeal, error)
}

// ScanOptions holds the global filters and limits of one scan.
type ScanOptions struct {
	// DateFrom and DateTo bound outbound dates (dd/mm/yyyy); empty means today to +60 days
	DateFrom string
	DateTo   string

	// MaxPrice filters out itineraries above this price; 0 means no filter
	MaxPrice int

	// Currency, nights range and result limit are passed through to every query
	Currency    string
	NightsFrom  int
	NightsTo    int
	ResultLimit int

	// PerRouteLimit is how many deals each route contributes (default 5)
	PerRouteLimit int

	// SummaryLimit is how many deals the global summary prints (default 10)
	SummaryLimit int

	// SnapshotLimit is how many deals are persisted (default 20)
	SnapshotLimit int
}

// DefaultScanOptions returns ScanOptions with the default limits.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		PerRouteLimit: DefaultPerRouteLimit,
		SummaryLimit:  DefaultSummaryLimit,
		SnapshotLimit: DefaultSnapshotLimit,
	}
}

func (o *ScanOptions) setDefaults() {
	if o.PerRouteLimit <= 0 {
		o.PerRouteLimit = DefaultPerRouteLimit
	}
	if o.SummaryLimit <= 0 {
		o.SummaryLimit = DefaultSummaryLimit
	}
	if o.SnapshotLimit <= 0 {
		o.SnapshotLimit = DefaultSnapshotLimit
	}
}

// query builds the search query for a route.
func (o ScanOptions) query(route domain.RouteSpec) domain.SearchQuery {
	q := domain.NewSearchQuery(route)
	q.DateFrom = o.DateFrom
	q.DateTo = o.DateTo
	q.MaxPrice = o.MaxPrice
	if o.Currency != "" {
		q.Currency = o.Currency
	}
	if o.NightsFrom > 0 || o.NightsTo > 0 {
		q.NightsFrom = o.NightsFrom
		q.NightsTo = o.NightsTo
	}
	if o.ResultLimit > 0 {
		q.Limit = o.ResultLimit
	}
	return q
}

// Config contains configuration options for the scanner.
type Config struct {
	// Concurrency is how many routes are queried at once; 1 (default) is fully sequential
	Concurrency int

	// Out receives the human-readable report (default os.Stdout)
	Out io.Writer

	// Logger receives per-route failures (default: no-op)
	Logger *logger.Logger
}

// dealScanner implements DealScanner.
type dealScanner struct {
	searcher    domain.FlightSearcher
	store       domain.SnapshotStore
	out         io.Writer
	log         *logger.Logger
	concurrency int
}

// NewDealScanner creates a DealScanner. If config is nil, a sequential scanner writing to stdout is created.
func NewDealScanner(searcher domain.FlightSearcher, store domain.SnapshotStore, config *Config) DealScanner {
	s := &dealScanner{
		searcher:    searcher,
		store:       store,
		out:         os.Stdout,
		log:         logger.Nop(),
		concurrency: 1,
	}
	if config != nil {
		if config.Out != nil {
			s.out = config.Out
		}
		if config.Logger != nil {
			s.log = config.Logger
		}
		if config.Concurrency > 1 {
			s.concurrency = config.Concurrency
		}
	}
	return s
}

// Scan implements DealScanner.Scan.
func (s *dealScanner) Scan(ctx context.Context, routes []domain.RouteSpec, opts ScanOptions) ([]domain.FormattedDeal, error) {
	opts.setDefaults()
	log := s.log.WithScanID(uuid.NewString())

	s.printBanner(len(routes), opts)
	log.Info().Int("routes", len(routes)).Int("concurrency", s.concurrency).Msg("Scan started")

	perRoute := s.collect(ctx, log, routes, opts)
	deals := SortDeals(lo.Flatten(perRoute))

	s.printSummary(TopDeals(deals, opts.SummaryLimit), opts.SummaryLimit)

	snapshot := TopDeals(deals, opts.SnapshotLimit)
	if err := s.store.Save(ctx, snapshot); err != nil {
		return deals, fmt.Errorf("save snapshot: %w", err)
	}
	fmt.Fprintf(s.out, "\n  Saved top %d deals to %s\n", len(snapshot), s.store.Location())

	log.Info().
		Int("deals", len(deals)).
		Int("saved", len(snapshot)).
		Str("snapshot", s.store.Location()).
		Msg("Scan finished")

	return deals, nil
}

// collect runs every route and returns each route's capped deals at the route's index.
// Routes run one at a time unless concurrency > 1; reports are always written in route order.
func (s *dealScanner) collect(ctx context.Context, log *logger.Logger, routes []domain.RouteSpec, opts ScanOptions) [][]domain.FormattedDeal {
	perRoute := make([][]domain.FormattedDeal, len(routes))

	if s.concurrency <= 1 {
		for i, route := range routes {
			perRoute[i] = s.scanRoute(ctx, log, route, opts, s.out)
		}
		return perRoute
	}

	reports := make([]bytes.Buffer, len(routes))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, route := range routes {
		g.Go(func() error {
			perRoute[i] = s.scanRoute(ctx, log, route, opts, &reports[i])
			return nil
		})
	}
	_ = g.Wait()

	for i := range reports {
		_, _ = reports[i].WriteTo(s.out)
	}
	return perRoute
}

// scanRoute queries, reports and caps a single route. Failures yield no deals.
func (s *dealScanner) scanRoute(ctx context.Context, log *logger.Logger, route domain.RouteSpec, opts ScanOptions, out io.Writer) []domain.FormattedDeal {
	routeLog := log.WithRoute(route.Origin, route.Destination, route.Label)

	result, err := s.searcher.Search(ctx, opts.query(route))
	if err != nil {
		logFailure(routeLog, err)
		result = nil
	}

	deals := NewRouteReporter(out).Report(result, route.Label)
	kept := lo.Map(TopDeals(deals, opts.PerRouteLimit), func(d domain.FormattedDeal, _ int) domain.FormattedDeal {
		return d.WithRoute(route.Label)
	})

	routeLog.Debug().Int("found", len(deals)).Int("kept", len(kept)).Msg("Route scanned")
	return kept
}

// logFailure reports a failed route query by kind.
func logFailure(log *logger.Logger, err error) {
	switch domain.ClassifyFailure(err) {
	case domain.FailureUnauthorized:
		log.Error().
			Str("hint", "get a free key at "+KeyPortalURL).
			Msg("API key not set or invalid")
	case domain.FailureHTTPStatus:
		var statusErr *domain.HTTPStatusError
		errors.As(err, &statusErr)
		log.Warn().
			Int("status", statusErr.StatusCode).
			Str("body", statusErr.Body).
			Msg("Flight search returned an HTTP error")
	default:
		log.Warn().Err(err).Msg("Flight search failed")
	}
}

func (s *dealScanner) printBanner(routeCount int, opts ScanOptions) {
	dates := "next 60 days"
	if opts.DateFrom != "" {
		dates = opts.DateFrom
		if opts.DateTo != "" {
			dates += " - " + opts.DateTo
		}
	}

	fmt.Fprintf(s.out, "\n  FLIGHT DEAL SCANNER\n")
	fmt.Fprintf(s.out, "  Scanning %d routes | Dates: %s\n", routeCount, dates)
	if opts.MaxPrice > 0 {
		fmt.Fprintf(s.out, "  Max price: %s\n", FormatPrice(float64(opts.MaxPrice), opts.Currency))
	}
}

func (s *dealScanner) printSummary(top []domain.FormattedDeal, limit int) {
	fmt.Fprintf(s.out, "\n%s\n", rule)
	fmt.Fprintf(s.out, "  TOP %d CHEAPEST ACROSS ALL ROUTES\n", limit)
	fmt.Fprintf(s.out, "%s\n", rule)

	for i, d := range top {
		fmt.Fprintf(s.out, "  #%d  %8s  %s\n", i+1, d.Price, d.Route)
		fmt.Fprintf(s.out, "         %s - %s\n", d.OutboundDate, d.ReturnDate)
	}
}

// Ensure dealScanner implements DealScanner at compile time.
var _ DealScanner = (*dealScanner)(nil)
