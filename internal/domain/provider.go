package domain

import "context"

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=domain

// FlightSearcher queries the flight-search API for a single route.
type FlightSearcher interface {
	// Search runs one round-trip search. A non-nil error means the route produced no data.
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

// SnapshotStore persists the cheapest deals of a scan.
type SnapshotStore interface {
	// Save replaces the stored snapshot with deals.
	Save(ctx context.Context, deals []FormattedDeal) error

	// Location describes where the snapshot is stored (e.g., a file path).
	Location() string
}
