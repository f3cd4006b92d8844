package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/influencer-kpi/internal/db"
	"github.com/sells-group/influencer-kpi/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	started_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	influencers   INTEGER NOT NULL DEFAULT 0,
	total_revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
	overall_roas  DOUBLE PRECISION NOT NULL DEFAULT 0,
	input_digest  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS master_rows (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	influencer_id TEXT NOT NULL,
	position      INTEGER NOT NULL,
	platform      TEXT NOT NULL DEFAULT '',
	roas          DOUBLE PRECISION NOT NULL DEFAULT 0,
	data          JSONB NOT NULL,
	PRIMARY KEY (run_id, influencer_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_master_rows_platform ON master_rows(run_id, platform);
`

// masterColumns is the column order used when staging master rows.
var masterColumns = []string{"run_id", "influencer_id", "position", "platform", "roas", "data"}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, run model.Run) (*model.Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, started_at, influencers, total_revenue, overall_roas, input_digest) VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.StartedAt, run.Influencers, run.TotalRevenue, run.OverallROAS, run.InputDigest,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return &run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, started_at, influencers, total_revenue, overall_roas, input_digest
		 FROM runs ORDER BY started_at DESC LIMIT $1 OFFSET $2`,
		listLimit(filter), filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Influencers, &r.TotalRevenue, &r.OverallROAS, &r.InputDigest); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

// SaveMaster stages the rows with COPY and merges them on
// (run_id, influencer_id), so saving the same run twice replaces its rows.
func (s *PostgresStore) SaveMaster(ctx context.Context, runID string, rows []model.MasterRow) (int64, error) {
	records, err := toRecords(rows)
	if err != nil {
		return 0, err
	}

	values := make([][]any, len(records))
	for i, rec := range records {
		values[i] = []any{runID, rec.influencerID, rec.position, rec.platform, rec.roas, rec.data}
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "master_rows",
		Columns:      masterColumns,
		ConflictKeys: []string{"run_id", "influencer_id"},
	}, values)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: save master %s", runID)
	}
	return n, nil
}

func (s *PostgresStore) GetMaster(ctx context.Context, runID string) ([]model.MasterRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM master_rows WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get master %s", runID)
	}
	defer rows.Close()

	var out []model.MasterRow
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan master row")
		}
		var r model.MasterRow
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal master row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate master rows")
	}
	if len(out) == 0 {
		return nil, eris.Errorf("master snapshot not found: %s", runID)
	}
	return out, nil
}
