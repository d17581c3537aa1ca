// Package results keeps a SQLite history of workload runs.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/calvinalkan/probekit/internal/workload"
)

const schemaVersion = 1

var (
	// ErrRunNotFound reports an unknown run ID or prefix.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRun reports a prefix matching more than one run.
	ErrAmbiguousRun = errors.New("ambiguous run prefix")

	// ErrSchemaVersion reports a database written by a newer schema.
	ErrSchemaVersion = errors.New("unsupported schema version")
)

// Run is one saved invocation of a workload matrix.
type Run struct {
	ID        string
	ShortID   string
	Workload  string
	CreatedAt time.Time
	Combos    int
}

// Row is one saved combo result.
type Row struct {
	RunID      string
	Combo      string
	Probe      string
	Primary    string
	Secondary  string
	Capacity   int
	Requested  int
	Inserted   int
	Exhausted  int
	Full       int
	LoadFactor float64
	InsertCost int
	SearchCost int
	DeleteCost int
	Wall       time.Duration
	CPU        time.Duration
}

// Store is an open history database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	err = migrate(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int

	err := row.Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	version, err := userVersion(ctx, db)
	if err != nil {
		return err
	}

	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("%w: %d (max %d)", ErrSchemaVersion, version, schemaVersion)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			short_id TEXT NOT NULL,
			workload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			combo TEXT NOT NULL,
			probe TEXT NOT NULL,
			primary_hash TEXT NOT NULL,
			secondary_hash TEXT NOT NULL,
			capacity INTEGER NOT NULL,
			requested INTEGER NOT NULL,
			inserted INTEGER NOT NULL,
			exhausted INTEGER NOT NULL,
			full_count INTEGER NOT NULL,
			load_factor REAL NOT NULL,
			insert_cost INTEGER NOT NULL,
			search_cost INTEGER NOT NULL,
			delete_cost INTEGER NOT NULL,
			wall_ns INTEGER NOT NULL,
			cpu_ns INTEGER NOT NULL,
			PRIMARY KEY (run_id, combo)
		) WITHOUT ROWID`,
		"CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_runs_short ON runs(short_id)",
	}

	for _, stmt := range statements {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	if err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit schema txn: %w", err)
	}

	committed = true

	return nil
}

// Save records results as a new run and returns it.
func (s *Store) Save(ctx context.Context, workloadName string, res []workload.Result) (Run, error) {
	id, short, err := newRunID()
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:        id.String(),
		ShortID:   short,
		Workload:  workloadName,
		CreatedAt: runTime(id),
		Combos:    len(res),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin save txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, short_id, workload, created_at) VALUES (?, ?, ?, ?)",
		run.ID, run.ShortID, run.Workload, run.CreatedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	insertResult, err := tx.PrepareContext(ctx, `
		INSERT INTO results (
			run_id,
			combo,
			probe,
			primary_hash,
			secondary_hash,
			capacity,
			requested,
			inserted,
			exhausted,
			full_count,
			load_factor,
			insert_cost,
			search_cost,
			delete_cost,
			wall_ns,
			cpu_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare insert: %w", err)
	}

	defer func() { _ = insertResult.Close() }()

	for i := range res {
		r := &res[i]

		_, err = insertResult.ExecContext(
			ctx,
			run.ID,
			r.Combo.String(),
			r.Stats.Probe,
			r.Stats.Primary,
			r.Stats.Secondary,
			r.Stats.Capacity,
			r.Requested,
			r.Inserted,
			r.Exhausted,
			r.Full,
			r.LoadFactor,
			r.Stats.InsertCost,
			r.Stats.SearchCost,
			r.Stats.DeleteCost,
			r.Wall.Nanoseconds(),
			r.CPU.Nanoseconds(),
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert result %s: %w", r.Combo, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return Run{}, fmt.Errorf("commit save txn: %w", err)
	}

	committed = true

	return run, nil
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT r.id, r.short_id, r.workload, r.created_at, COUNT(x.combo)
		FROM runs r
		LEFT JOIN results x ON x.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.id DESC`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"

		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var runs []Run

	for rows.Next() {
		var (
			run       Run
			createdNS int64
		)

		err = rows.Scan(&run.ID, &run.ShortID, &run.Workload, &createdNS, &run.Combos)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.CreatedAt = time.Unix(0, createdNS).UTC()
		runs = append(runs, run)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// Resolve finds the run whose full ID or short ID starts with prefix.
func (s *Store) Resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM runs WHERE id LIKE ? || '%' OR short_id LIKE ? || '%' LIMIT 2",
		prefix, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve run: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var ids []string

	for rows.Next() {
		var id string

		err = rows.Scan(&id)
		if err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}

		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return "", fmt.Errorf("resolve run: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
	}
}

// Results returns the rows saved for runID (full ID or unique prefix),
// ordered by combo.
func (s *Store) Results(ctx context.Context, runID string) ([]Row, error) {
	id, err := s.Resolve(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, combo, probe, primary_hash, secondary_hash, capacity,
			requested, inserted, exhausted, full_count, load_factor,
			insert_cost, search_cost, delete_cost, wall_ns, cpu_ns
		FROM results
		WHERE run_id = ?
		ORDER BY combo`, id)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var out []Row

	for rows.Next() {
		var (
			row           Row
			wallNS, cpuNS int64
		)

		err = rows.Scan(
			&row.RunID, &row.Combo, &row.Probe, &row.Primary, &row.Secondary, &row.Capacity,
			&row.Requested, &row.Inserted, &row.Exhausted, &row.Full, &row.LoadFactor,
			&row.InsertCost, &row.SearchCost, &row.DeleteCost, &wallNS, &cpuNS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		row.Wall = time.Duration(wallNS)
		row.CPU = time.Duration(cpuNS)
		out = append(out, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	return out, nil
}
