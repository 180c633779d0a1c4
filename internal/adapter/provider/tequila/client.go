// Package tequila implements domain.FlightSearcher against the Kiwi Tequila search API.
package tequila

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
	"github.com/flight-search/flight-deal-scanner/internal/infrastructure/logger"
	"github.com/flight-search/flight-deal-scanner/internal/infrastructure/timeutil"
)

// Defaults for the Tequila API.
const (
	DefaultBaseURL = "https://api.tequila.kiwi.com/v2"
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "apikey"
	searchPath   = "/search"
)

// Fixed request shape: round trip, one adult, cheapest first, at most one stopover,
// every itinerary returned rather than one per destination city.
const (
	flightType   = "round"
	adults       = 1
	sortBy       = "price"
	maxStopovers = 1
	oneForCity   = 0
)

// Client queries the Tequila search endpoint.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	clock      timeutil.Clock
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock sets the clock used to resolve default date windows.
func WithClock(clock timeutil.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a Client that authenticates with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		clock:      timeutil.NewRealClock(),
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search implements domain.FlightSearcher.
// Every error is a *domain.ProviderError; callers classify it with domain.ClassifyFailure.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	query.SetDefaults(c.clock.Now())
	if err := query.Validate(); err != nil {
		return nil, domain.NewProviderError(query.Route(), err)
	}

	req, err := c.newRequest(ctx, query)
	if err != nil {
		return nil, domain.NewProviderError(query.Route(), err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewProviderError(query.Route(), fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("route", query.Route()).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Tequila search completed")

	if err := checkStatus(resp); err != nil {
		return nil, domain.NewProviderError(query.Route(), err)
	}

	result, err := c.decode(resp.Body, query)
	if err != nil {
		return nil, domain.NewProviderError(query.Route(), err)
	}
	return result, nil
}

// newRequest builds the GET /search request for query.
func (c *Client) newRequest(ctx context.Context, query domain.SearchQuery) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.URL.RawQuery = buildParams(query).Encode()
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// buildParams maps a query to Tequila query parameters.
func buildParams(query domain.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("fly_from", query.Origin)
	params.Set("fly_to", query.Destination)
	params.Set("date_from", query.DateFrom)
	params.Set("date_to", query.DateTo)
	params.Set("nights_in_dst_from", strconv.Itoa(query.NightsFrom))
	params.Set("nights_in_dst_to", strconv.Itoa(query.NightsTo))
	params.Set("flight_type", flightType)
	params.Set("one_for_city", strconv.Itoa(oneForCity))
	params.Set("adults", strconv.Itoa(adults))
	params.Set("curr", query.Currency)
	params.Set("sort", sortBy)
	params.Set("limit", strconv.Itoa(query.Limit))
	params.Set("max_stopovers", strconv.Itoa(maxStopovers))
	if query.MaxPrice > 0 {
		params.Set("price_to", strconv.Itoa(query.MaxPrice))
	}
	return params
}

// checkStatus turns a non-2xx response into a typed error.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ErrUnauthorized
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return domain.NewHTTPStatusError(resp.StatusCode, strings.TrimSpace(string(body)))
}

// decode parses the response body. Items that fail a full decode are salvaged field by field
// so the formatter can still produce a deal for them.
func (c *Client) decode(body io.Reader, query domain.SearchQuery) (*domain.SearchResult, error) {
	var payload searchResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result := &domain.SearchResult{
		Currency:    payload.Currency,
		Itineraries: make([]domain.RawItinerary, 0, len(payload.Data)),
	}
	if result.Currency == "" {
		result.Currency = query.Currency
	}

	for i, raw := range payload.Data {
		var it domain.RawItinerary
		if err := json.Unmarshal(raw, &it); err != nil {
			c.log.Warn().
				Err(err).
				Str("route", query.Route()).
				Int("index", i).
				Msg("Malformed itinerary, using defaults")
			it = partialItinerary(raw)
		}
		result.Itineraries = append(result.Itineraries, it)
	}

	return result, nil
}

// partialItinerary salvages what it can from an item whose full decode failed,
// one field at a time.
func partialItinerary(raw []byte) domain.RawItinerary {
	var fields map[string]jsoniter.RawMessage
	var it domain.RawItinerary
	if err := json.Unmarshal(raw, &fields); err != nil {
		return it
	}

	decodeField(fields, "price", &it.Price)
	decodeField(fields, "cityFrom", &it.CityFrom)
	decodeField(fields, "cityTo", &it.CityTo)
	decodeField(fields, "deep_link", &it.DeepLink)

	var legs []jsoniter.RawMessage
	decodeField(fields, "route", &legs)
	for _, rawLeg := range legs {
		var leg domain.RawLeg
		if err := json.Unmarshal(rawLeg, &leg); err != nil {
			leg = partialLeg(rawLeg)
		}
		it.Route = append(it.Route, leg)
	}
	return it
}

func partialLeg(raw []byte) domain.RawLeg {
	var fields map[string]jsoniter.RawMessage
	var leg domain.RawLeg
	if err := json.Unmarshal(raw, &fields); err != nil {
		return leg
	}
	decodeField(fields, "flyFrom", &leg.FlyFrom)
	decodeField(fields, "flyTo", &leg.FlyTo)
	decodeField(fields, "airline", &leg.Airline)
	decodeField(fields, "local_departure", &leg.LocalDeparture)
	decodeField(fields, "local_arrival", &leg.LocalArrival)
	decodeField(fields, "return", &leg.Return)
	return leg
}

// decodeField decodes fields[key] into dest, leaving dest untouched on any error.
func decodeField(fields map[string]jsoniter.RawMessage, key string, dest any) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, dest)
}

// Ensure Client implements domain.FlightSearcher at compile time.
var _ domain.FlightSearcher = (*Client)(nil)
