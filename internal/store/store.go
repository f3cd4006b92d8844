// Package store persists run snapshots: one run record plus the derived
// master table of that run.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Supported drivers.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSQLitePath is used when the sqlite driver has no database URL.
const DefaultSQLitePath = "influencer-kpi.db"

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines the snapshot persistence interface.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, run model.Run) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Master snapshots
	SaveMaster(ctx context.Context, runID string, rows []model.MasterRow) (int64, error)
	GetMaster(ctx context.Context, runID string) ([]model.MasterRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the store selected by driver. The returned store is not
// migrated.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite:
		if databaseURL == "" {
			databaseURL = DefaultSQLitePath
		}
		return NewSQLite(databaseURL)
	case DriverPostgres:
		return NewPostgres(ctx, databaseURL, nil)
	case "", DriverNone:
		return nil, eris.New("store: no driver configured")
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// Digest returns a stable content hash of a master table.
func Digest(rows []model.MasterRow) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return "", eris.Wrap(err, "store: digest master")
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// masterRecord is the persisted shape of one master row.
type masterRecord struct {
	position     int
	influencerID string
	platform     string
	roas         float64
	data         []byte
}

func toRecords(rows []model.MasterRow) ([]masterRecord, error) {
	out := make([]masterRecord, len(rows))
	for i, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, eris.Wrapf(err, "store: marshal master row %s", r.ID)
		}
		out[i] = masterRecord{position: i, influencerID: r.ID, platform: r.Platform, roas: r.ROAS, data: data}
	}
	return out, nil
}

func listLimit(f RunFilter) int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}
