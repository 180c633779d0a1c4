// Package mock provides test doubles for the flight deal scanner.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific responses).
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

// Searcher is a configurable mock implementation of domain.FlightSearcher.
// Replies are configured per destination; unknown destinations return an empty result.
type Searcher struct {
	mu        sync.Mutex
	results   map[string]*domain.SearchResult
	errs      map[string]error
	delay     time.Duration
	queries   []domain.SearchQuery
	inFlight  int
	maxFlight int
}

// NewSearcher creates a new mock searcher.
// The searcher is configured using the builder pattern methods.
func NewSearcher() *Searcher {
	return &Searcher{
		results: make(map[string]*domain.SearchResult),
		errs:    make(map[string]error),
	}
}

// WithResult configures the searcher to return result for destination.
func (s *Searcher) WithResult(destination string, result *domain.SearchResult) *Searcher {
	s.results[destination] = result
	return s
}

// WithError configures the searcher to fail searches to destination.
func (s *Searcher) WithError(destination string, err error) *Searcher {
	s.errs[destination] = err
	return s
}

// WithDelay configures the searcher to wait the given duration before responding.
func (s *Searcher) WithDelay(d time.Duration) *Searcher {
	s.delay = d
	return s
}

// Search implements domain.FlightSearcher.Search.
// It respects context cancellation and records every query it receives.
func (s *Searcher) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.inFlight++
	if s.inFlight > s.maxFlight {
		s.maxFlight = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, domain.NewProviderError(query.Route(), ctx.Err())
		case <-time.After(s.delay):
		}
	}

	if err, ok := s.errs[query.Destination]; ok {
		return nil, domain.NewProviderError(query.Route(), err)
	}
	if result, ok := s.results[query.Destination]; ok {
		return result, nil
	}
	return &domain.SearchResult{Currency: query.Currency, Itineraries: []domain.RawItinerary{}}, nil
}

// Queries returns the queries received so far, in arrival order.
func (s *Searcher) Queries() []domain.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SearchQuery(nil), s.queries...)
}

// CallCount returns the number of times Search was called.
func (s *Searcher) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// MaxConcurrent returns the highest number of searches observed in flight at once.
func (s *Searcher) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxFlight
}

// Ensure Searcher implements domain.FlightSearcher at compile time.
var _ domain.FlightSearcher = (*Searcher)(nil)

// SampleResult returns a result with one itinerary per price.
// Every itinerary is a direct round trip from origin to destination.
func SampleResult(origin, destination string, prices ...float64) *domain.SearchResult {
	base := time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC)
	result := &domain.SearchResult{Currency: "USD", Itineraries: make([]domain.RawItinerary, 0, len(prices))}

	for i, price := range prices {
		out := base.AddDate(0, 0, i)
		ret := out.AddDate(0, 0, 7)
		result.Itineraries = append(result.Itineraries, domain.RawItinerary{
			Price:    domain.FlexFloat(price),
			CityFrom: origin,
			CityTo:   destination,
			DeepLink: fmt.Sprintf("https://www.kiwi.com/deep?from=%s&to=%s&token=%d", origin, destination, i),
			Route: []domain.RawLeg{
				{
					FlyFrom:        origin,
					FlyTo:          destination,
					Airline:        "AA",
					LocalDeparture: out.Format("2006-01-02T15:04:05.000Z"),
					LocalArrival:   out.Add(9 * time.Hour).Format("2006-01-02T15:04:05.000Z"),
				},
				{
					FlyFrom:        destination,
					FlyTo:          origin,
					Airline:        "AA",
					LocalDeparture: ret.Format("2006-01-02T15:04:05.000Z"),
					LocalArrival:   ret.Add(10 * time.Hour).Format("2006-01-02T15:04:05.000Z"),
					Return:         true,
				},
			},
		})
	}
	return result
}
