// Package jsonfile persists deal snapshots as indented JSON files.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPath is the snapshot location used when none is configured.
const DefaultPath = "latest-flight-deals.json"

const indent = "  "

// Store writes the snapshot to a single file, replacing it on every save.
type Store struct {
	path string
}

// NewStore creates a Store for path. An empty path uses DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Location returns the snapshot file path.
func (s *Store) Location() string {
	return s.path
}

// Save writes deals as a JSON array. The file is replaced atomically: a temporary file in the
// same directory is written, synced and renamed over the target, so readers never see a partial snapshot.
func (s *Store) Save(ctx context.Context, deals []domain.FormattedDeal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deals == nil {
		deals = []domain.FormattedDeal{}
	}

	data, err := json.MarshalIndent(deals, "", indent)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	committed = true

	return nil
}

// Load reads a snapshot written by Save.
func (s *Store) Load() ([]domain.FormattedDeal, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var deals []domain.FormattedDeal
	if err := json.Unmarshal(data, &deals); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return deals, nil
}

// Ensure Store implements domain.SnapshotStore at compile time.
var _ domain.SnapshotStore = (*Store)(nil)
