package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at    DATETIME NOT NULL,
	influencers   INTEGER NOT NULL DEFAULT 0,
	total_revenue REAL NOT NULL DEFAULT 0,
	overall_roas  REAL NOT NULL DEFAULT 0,
	input_digest  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS master_rows (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	influencer_id TEXT NOT NULL,
	position      INTEGER NOT NULL,
	platform      TEXT NOT NULL DEFAULT '',
	roas          REAL NOT NULL DEFAULT 0,
	data          TEXT NOT NULL,
	PRIMARY KEY (run_id, influencer_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_master_rows_platform ON master_rows(run_id, platform);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run model.Run) (*model.Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, influencers, total_revenue, overall_roas, input_digest) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.Influencers, run.TotalRevenue, run.OverallROAS, run.InputDigest,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, influencers, total_revenue, overall_roas, input_digest
		 FROM runs ORDER BY started_at DESC LIMIT ? OFFSET ?`,
		listLimit(filter), filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) SaveMaster(ctx context.Context, runID string, rows []model.MasterRow) (int64, error) {
	records, err := toRecords(rows)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin save master")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO master_rows (run_id, influencer_id, position, platform, roas, data)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, influencer_id) DO UPDATE SET
		   position = excluded.position, platform = excluded.platform,
		   roas = excluded.roas, data = excluded.data`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare save master")
	}
	defer stmt.Close() //nolint:errcheck

	var n int64
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, runID, rec.influencerID, rec.position, rec.platform, rec.roas, string(rec.data)); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert master row %s", rec.influencerID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit save master")
	}
	return n, nil
}

func (s *SQLiteStore) GetMaster(ctx context.Context, runID string) ([]model.MasterRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM master_rows WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get master %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.MasterRow
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan master row")
		}
		var r model.MasterRow
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal master row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate master rows")
	}
	if len(out) == 0 {
		return nil, eris.Errorf("master snapshot not found: %s", runID)
	}
	return out, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	err := row.Scan(&r.ID, &r.StartedAt, &r.Influencers, &r.TotalRevenue, &r.OverallROAS, &r.InputDigest)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	return &r, nil
}
