// Package integration provides helpers and integration tests for the flight deal scanner.
// Integration tests run the real client, scanner and snapshot store together
// against a fake flight-search API.
package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-deal-scanner/internal/adapter/provider/tequila"
	"github.com/flight-search/flight-deal-scanner/internal/adapter/storage/jsonfile"
	"github.com/flight-search/flight-deal-scanner/internal/domain"
	"github.com/flight-search/flight-deal-scanner/internal/infrastructure/timeutil"
	"github.com/flight-search/flight-deal-scanner/internal/usecase"
)

// Harness wires a scanner to a searcher and a snapshot file in a temp dir.
type Harness struct {
	Scanner usecase.DealScanner
	Store   *jsonfile.Store
	Out     *bytes.Buffer
}

// NewHarness creates a scanner over searcher with the given concurrency.
func NewHarness(t *testing.T, searcher domain.FlightSearcher, concurrency int) *Harness {
	t.Helper()

	out := &bytes.Buffer{}
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "latest-flight-deals.json"))
	scanner := usecase.NewDealScanner(searcher, store, &usecase.Config{
		Concurrency: concurrency,
		Out:         out,
	})

	return &Harness{Scanner: scanner, Store: store, Out: out}
}

// NewTequilaClient creates a client for a fake API with a clock frozen on 2026-10-19.
func NewTequilaClient(baseURL string) *tequila.Client {
	return tequila.NewClient("test-key",
		tequila.WithBaseURL(baseURL),
		tequila.WithTimeout(2*time.Second),
		tequila.WithClock(timeutil.NewFixedClockFromDate("2026-10-19")),
	)
}

// Snapshot loads the deals persisted by the last scan.
func (h *Harness) Snapshot(t *testing.T) []domain.FormattedDeal {
	t.Helper()

	deals, err := h.Store.Load()
	require.NoError(t, err)
	return deals
}

// SnapshotFields decodes the snapshot file into generic objects to check the on-disk field names.
func (h *Harness) SnapshotFields(t *testing.T) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(h.Store.Location())
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, jsoniter.Unmarshal(data, &entries))
	return entries
}
