package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

var (
	routeA = domain.NewRouteSpec("MIA", "BCN", "Miami → Barcelona")
	routeB = domain.NewRouteSpec("MIA", "CDG", "Miami → Paris")
	routeC = domain.NewRouteSpec("MIA", "LHR", "Miami → London")
)

// matchRoute matches a SearchQuery by origin and destination.
func matchRoute(route domain.RouteSpec) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		q, ok := x.(domain.SearchQuery)
		return ok && q.Origin == route.Origin && q.Destination == route.Destination
	})
}

// setupSearcher expects one search per route with the given outcome.
func setupSearcher(ctrl *gomock.Controller, outcomes map[domain.RouteSpec]searchOutcome) *domain.MockFlightSearcher {
	mock := domain.NewMockFlightSearcher(ctrl)
	for route, o := range outcomes {
		mock.EXPECT().Search(gomock.Any(), matchRoute(route)).Return(o.result, o.err).Times(1)
	}
	return mock
}

type searchOutcome struct {
	result *domain.SearchResult
	err    error
}

// setupStore records the saved snapshot.
func setupStore(ctrl *gomock.Controller, saved *[]domain.FormattedDeal) *domain.MockSnapshotStore {
	store := domain.NewMockSnapshotStore(ctrl)
	store.EXPECT().Location().Return("deals.json").AnyTimes()
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, deals []domain.FormattedDeal) error {
			*saved = deals
			return nil
		},
	).Times(1)
	return store
}

func prices(deals []domain.FormattedDeal) []float64 {
	out := make([]float64, len(deals))
	for i, d := range deals {
		out[i] = d.PriceRaw
	}
	return out
}

func TestNewDealScanner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name   string
		config *Config
	}{
		{"with default config", nil},
		{"with custom config", &Config{Concurrency: 4, Out: &bytes.Buffer{}}},
		{"with zero concurrency", &Config{Concurrency: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDealScanner(domain.NewMockFlightSearcher(ctrl), domain.NewMockSnapshotStore(ctrl), tt.config)
			require.NotNil(t, s)
		})
	}
}

// TestScan_MergesAndSortsAcrossRoutes covers the two-route scenario.
func TestScan_MergesAndSortsAcrossRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := setupSearcher(ctrl, map[domain.RouteSpec]searchOutcome{
		routeA: {result: createTestResult(120.5)},
		routeB: {result: createTestResult(99.0, 150.0)},
	})
	var saved []domain.FormattedDeal
	var out bytes.Buffer

	s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &out})
	deals, err := s.Scan(context.Background(), []domain.RouteSpec{routeA, routeB}, DefaultScanOptions())

	require.NoError(t, err)
	assert.Equal(t, []float64{99.0, 120.5, 150.0}, prices(deals))
	assert.Equal(t, routeB.Label, deals[0].Route)
	assert.Equal(t, routeA.Label, deals[1].Route)
	assert.Equal(t, routeB.Label, deals[2].Route)
	assert.Equal(t, deals, saved)

	report := out.String()
	assert.Contains(t, report, "FLIGHT DEAL SCANNER")
	assert.Contains(t, report, "Scanning 2 routes | Dates: next 60 days")
	assert.Contains(t, report, "TOP 10 CHEAPEST ACROSS ALL ROUTES")
	assert.Contains(t, report, "  #1       $99  Miami → Paris\n")
	assert.Contains(t, report, "         2026-11-02T18:30 - 2026-11-09T11:05\n")
	assert.Contains(t, report, "Saved top 3 deals to deals.json")
	assert.Less(t, strings.Index(report, routeA.Label+" - 1 deals"), strings.Index(report, routeB.Label+" - 2 deals"),
		"routes are reported in configured order")
}

// TestScan_CapsDealsPerRoute tests that each route contributes at most five deals.
func TestScan_CapsDealsPerRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := setupSearcher(ctrl, map[domain.RouteSpec]searchOutcome{
		routeA: {result: createTestResult(1, 2, 3, 4, 5, 6, 7, 8)},
		routeB: {result: createTestResult(10, 20)},
	})
	var saved []domain.FormattedDeal

	s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &bytes.Buffer{}})
	deals, err := s.Scan(context.Background(), []domain.RouteSpec{routeA, routeB}, DefaultScanOptions())

	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 10, 20}, prices(deals))
}

// TestScan_SnapshotCappedAtTwenty tests that at most 20 deals are persisted.
func TestScan_SnapshotCappedAtTwenty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outcomes := map[domain.RouteSpec]searchOutcome{}
	var routes []domain.RouteSpec
	for i := 0; i < 6; i++ {
		r := domain.NewRouteSpec("MIA", fmt.Sprintf("X%cX", 'A'+i), fmt.Sprintf("route %d", i))
		routes = append(routes, r)
		outcomes[r] = searchOutcome{result: createTestResult(float64(600-i*10), float64(500-i), 400, 300, 200)}
	}
	searcher := setupSearcher(ctrl, outcomes)
	var saved []domain.FormattedDeal
	var out bytes.Buffer

	s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &out})
	deals, err := s.Scan(context.Background(), routes, DefaultScanOptions())

	require.NoError(t, err)
	assert.Len(t, deals, 30)
	assert.Len(t, saved, 20)
	assert.Equal(t, deals[:20], saved)
	assert.Contains(t, out.String(), "  #10  ")
	assert.NotContains(t, out.String(), "  #11  ")
}

// TestScan_RouteFailuresAreIsolated tests that failing routes contribute nothing.
func TestScan_RouteFailuresAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := setupSearcher(ctrl, map[domain.RouteSpec]searchOutcome{
		routeA: {err: domain.NewProviderError(routeA.String(), domain.ErrUnauthorized)},
		routeB: {err: domain.NewProviderError(routeB.String(), domain.NewHTTPStatusError(500, "boom"))},
		routeC: {result: createTestResult(250)},
	})
	var saved []domain.FormattedDeal
	var out bytes.Buffer

	s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &out})
	deals, err := s.Scan(context.Background(), []domain.RouteSpec{routeA, routeB, routeC}, DefaultScanOptions())

	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, routeC.Label, deals[0].Route)
	assert.Contains(t, out.String(), "  No flights found for Miami → Barcelona\n")
	assert.Contains(t, out.String(), "  No flights found for Miami → Paris\n")
}

// TestScan_AllRoutesFailPersistsEmptySnapshot tests that an empty array is still saved.
func TestScan_AllRoutesFailPersistsEmptySnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := setupSearcher(ctrl, map[domain.RouteSpec]searchOutcome{
		routeA: {err: errors.New("dial tcp: connection refused")},
		routeB: {result: nil},
	})
	saved := []domain.FormattedDeal{createRankingTestDeal("stale", 1)}

	s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &bytes.Buffer{}})
	deals, err := s.Scan(context.Background(), []domain.RouteSpec{routeA, routeB}, DefaultScanOptions())

	require.NoError(t, err)
	assert.Empty(t, deals)
	assert.NotNil(t, saved)
	assert.Empty(t, saved)
}

// TestScan_SaveFailureIsReturned tests that persistence errors propagate.
func TestScan_SaveFailureIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := setupSearcher(ctrl, map[domain.RouteSpec]searchOutcome{
		routeA: {result: createTestResult(100)},
	})
	saveErr := errors.New("permission denied")
	store := domain.NewMockSnapshotStore(ctrl)
	store.EXPECT().Location().Return("/readonly/deals.json").AnyTimes()
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)

	s := NewDealScanner(searcher, store, &Config{Out: &bytes.Buffer{}})
	deals, err := s.Scan(context.Background(), []domain.RouteSpec{routeA}, DefaultScanOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, saveErr)
	assert.Len(t, deals, 1)
}

// TestScan_PassesGlobalFilters tests that options reach every query.
func TestScan_PassesGlobalFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	searcher := domain.NewMockFlightSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
			assert.Equal(t, "01/12/2026", q.DateFrom)
			assert.Equal(t, "15/12/2026", q.DateTo)
			assert.Equal(t, 400, q.MaxPrice)
			assert.Equal(t, "EUR", q.Currency)
			assert.Equal(t, 3, q.NightsFrom)
			assert.Equal(t, 7, q.NightsTo)
			assert.Equal(t, 25, q.Limit)
			return nil, nil
		},
	).Times(2)
	var saved []domain.FormattedDeal
	var out bytes.Buffer

	opts := DefaultScanOptions()
	opts.DateFrom = "01/12/2026"
	opts.DateTo = "15/12/2026"
	opts.MaxPrice = 400
	opts.Currency = "EUR"
	opts.NightsFrom = 3
	opts.NightsTo = 7
	opts.ResultLimit = 25

	s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &out})
	_, err := s.Scan(context.Background(), []domain.RouteSpec{routeA, routeB}, opts)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Dates: 01/12/2026 - 15/12/2026")
	assert.Contains(t, out.String(), "Max price: EUR 400")
}

// TestScan_ConcurrentMatchesSequential tests that concurrent scans keep route order.
func TestScan_ConcurrentMatchesSequential(t *testing.T) {
	routes := []domain.RouteSpec{routeA, routeB, routeC}
	results := map[domain.RouteSpec]*domain.SearchResult{
		routeA: createTestResult(200, 100),
		routeB: createTestResult(100, 300),
		routeC: createTestResult(100),
	}
	delays := map[domain.RouteSpec]time.Duration{
		routeA: 30 * time.Millisecond,
		routeB: 10 * time.Millisecond,
		routeC: 0,
	}

	run := func(t *testing.T, concurrency int) ([]domain.FormattedDeal, string) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var mu sync.Mutex
		inFlight, maxInFlight := 0, 0
		searcher := domain.NewMockFlightSearcher(ctrl)
		searcher.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
				route := lookupRoute(routes, q)
				mu.Lock()
				inFlight++
				maxInFlight = max(maxInFlight, inFlight)
				mu.Unlock()

				time.Sleep(delays[route])

				mu.Lock()
				inFlight--
				mu.Unlock()
				return results[route], nil
			},
		).Times(len(routes))

		var saved []domain.FormattedDeal
		var out bytes.Buffer
		s := NewDealScanner(searcher, setupStore(ctrl, &saved), &Config{Out: &out, Concurrency: concurrency})
		deals, err := s.Scan(context.Background(), routes, DefaultScanOptions())
		require.NoError(t, err)
		assert.LessOrEqual(t, maxInFlight, concurrency)
		return deals, out.String()
	}

	seqDeals, seqOut := run(t, 1)
	concDeals, concOut := run(t, 3)

	assert.Equal(t, seqDeals, concDeals)
	assert.Equal(t, seqOut, concOut)
	assert.Equal(t, []string{routeA.Label, routeB.Label, routeC.Label, routeA.Label, routeB.Label},
		[]string{seqDeals[0].Route, seqDeals[1].Route, seqDeals[2].Route, seqDeals[3].Route, seqDeals[4].Route})
}

func lookupRoute(routes []domain.RouteSpec, q domain.SearchQuery) domain.RouteSpec {
	for _, r := range routes {
		if r.Origin == q.Origin && r.Destination == q.Destination {
			return r
		}
	}
	return domain.RouteSpec{}
}

func TestScanOptions_Query(t *testing.T) {
	t.Run("defaults are kept when options are empty", func(t *testing.T) {
		q := ScanOptions{}.query(routeA)

		assert.Equal(t, "MIA", q.Origin)
		assert.Equal(t, "BCN", q.Destination)
		assert.Equal(t, domain.DefaultNightsFrom, q.NightsFrom)
		assert.Equal(t, domain.DefaultNightsTo, q.NightsTo)
		assert.Equal(t, domain.DefaultResultLimit, q.Limit)
		assert.Equal(t, domain.DefaultCurrency, q.Currency)
		assert.Zero(t, q.MaxPrice)
		assert.Empty(t, q.DateFrom)
	})
}
