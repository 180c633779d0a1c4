package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

// DefaultRoutes returns the built-in routes scanned when no routes file is configured.
func DefaultRoutes() []domain.RouteSpec {
	return []domain.RouteSpec{
		domain.NewRouteSpec("MIA", "TLV", "Miami → Tel Aviv"),
		domain.NewRouteSpec("MIA", "BCN", "Miami → Barcelona"),
		domain.NewRouteSpec("MIA", "CDG", "Miami → Paris"),
		domain.NewRouteSpec("MIA", "LHR", "Miami → London"),
		domain.NewRouteSpec("MIA", "FCO", "Miami → Rome"),
		domain.NewRouteSpec("MIA", "CUN", "Miami → Cancun"),
		domain.NewRouteSpec("MIA", "SJO", "Miami → Costa Rica"),
		domain.NewRouteSpec("MIA", "BOG", "Miami → Bogota"),
		domain.NewRouteSpec("MIA", "LIS", "Miami → Lisbon"),
		domain.NewRouteSpec("MIA", "ATH", "Miami → Athens"),
	}
}

// routesFile is the YAML layout of a routes file:
//
//	routes:
//	  - origin: MIA
//	    destination: BCN
//	    label: Miami → Barcelona
type routesFile struct {
	Routes []domain.RouteSpec `yaml:"routes"`
}

// LoadRoutes returns the routes from path, or DefaultRoutes when path is empty.
// Every route is validated; order is preserved.
func LoadRoutes(path string) ([]domain.RouteSpec, error) {
	if path == "" {
		return DefaultRoutes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	return ParseRoutes(data)
}

// ParseRoutes decodes and validates a YAML routes document.
func ParseRoutes(data []byte) ([]domain.RouteSpec, error) {
	var file routesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse routes file: %w", err)
	}

	if err := domain.ValidateRoutes(file.Routes); err != nil {
		return nil, err
	}
	return file.Routes, nil
}

// Routes loads the routes configured by SCAN_ROUTES_FILE.
func (c *Config) Routes() ([]domain.RouteSpec, error) {
	return LoadRoutes(c.Scan.RoutesFile)
}
