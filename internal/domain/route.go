// Package domain contains the core entities of the flight deal scanner.
// These types are independent of the flight-search API and of the storage format used for snapshots.
package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all domain validation; validator caches struct metadata internally.
var validate = validator.New(validator.WithRequiredStructEnabled())

// RouteSpec is a configured origin/destination pair with a human-readable label.
// It is the unit of independent querying.
type RouteSpec struct {
	// Origin is the IATA code of the departure airport or city (e.g., "MIA")
	Origin string `json:"origin" yaml:"origin" validate:"required,len=3,uppercase,alpha"`

	// Destination is the IATA code of the arrival airport or city (e.g., "BCN")
	Destination string `json:"destination" yaml:"destination" validate:"required,len=3,uppercase,alpha,nefield=Origin"`

	// Label is shown in reports and stored on every deal found for this route
	Label string `json:"label" yaml:"label" validate:"required"`
}

// NewRouteSpec creates a RouteSpec.
func NewRouteSpec(origin, destination, label string) RouteSpec {
	return RouteSpec{Origin: origin, Destination: destination, Label: label}
}

// Validate checks the route codes and label.
// Returns a wrapped ErrInvalidRoute error if validation fails.
func (r RouteSpec) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s -> %s (%q): %v", ErrInvalidRoute, r.Origin, r.Destination, r.Label, err)
	}
	return nil
}

// String returns "ORIGIN-DESTINATION".
func (r RouteSpec) String() string {
	return r.Origin + "-" + r.Destination
}

// ValidateRoutes validates every route and rejects an empty list.
func ValidateRoutes(routes []RouteSpec) error {
	if len(routes) == 0 {
		return fmt.Errorf("%w: at least one route is required", ErrInvalidRoute)
	}
	for i, r := range routes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
	}
	return nil
}
