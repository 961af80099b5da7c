package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/swarmstat/internal/experiment"
	"github.com/san-kum/swarmstat/internal/sim"
	"github.com/san-kum/swarmstat/internal/swarm"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	batch_id      TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	population    INTEGER NOT NULL,
	threshold     REAL NOT NULL,
	stride        INTEGER NOT NULL,
	count         INTEGER NOT NULL,
	policy        TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id      TEXT NOT NULL,
	position      INTEGER NOT NULL,
	config        TEXT NOT NULL,
	seed          INTEGER NOT NULL,
	path          TEXT NOT NULL,
	values_json   TEXT NOT NULL,
	rows_json     TEXT NOT NULL,
	nonsingleton_json TEXT NOT NULL,
	final         REAL,
	FOREIGN KEY (batch_id) REFERENCES batches(batch_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS failures (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id      TEXT NOT NULL,
	config        TEXT NOT NULL,
	seed          INTEGER NOT NULL,
	path          TEXT NOT NULL,
	error         TEXT NOT NULL,
	FOREIGN KEY (batch_id) REFERENCES batches(batch_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS runs_batch ON runs(batch_id, position);
`

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var ErrNotFound = errors.New("storage: batch not found")

// Store persists batch results in SQLite.
type Store struct {
	db *sql.DB
}

// Batch is the metadata of one stored batch.
type Batch struct {
	ID         string
	Name       string
	Population int
	Threshold  float64
	Sampling   swarm.Sampling
	Policy     experiment.Policy
	CreatedAt  time.Time
	Runs       int
	Failures   int
}

// FailureRecord is a run that was excluded from a stored batch.
type FailureRecord struct {
	ID    swarm.RunID
	Path  string
	Error string
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch stores every outcome and failure of coll under a new batch id.
func (s *Store) SaveBatch(name string, cfg experiment.Config, coll *experiment.RunCollection) (Batch, error) {
	b := Batch{
		ID:         uuid.New().String(),
		Name:       name,
		Population: cfg.Population,
		Threshold:  cfg.Threshold,
		Sampling:   cfg.Sampling,
		Policy:     cfg.Policy,
		CreatedAt:  time.Now().UTC(),
		Runs:       len(coll.Outcomes),
		Failures:   len(coll.Failures),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Batch{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO batches (batch_id, name, population, threshold, stride, count, policy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Population, b.Threshold, b.Sampling.Stride, b.Sampling.Count,
		string(b.Policy), b.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Batch{}, fmt.Errorf("insert batch: %w", err)
	}

	for i, o := range coll.Outcomes {
		values, err := json.Marshal(o.Result.Series.Values)
		if err != nil {
			return Batch{}, fmt.Errorf("marshal series %s: %w", o.Run.ID, err)
		}
		rows, err := json.Marshal(o.Result.Rows)
		if err != nil {
			return Batch{}, fmt.Errorf("marshal rows %s: %w", o.Run.ID, err)
		}
		nonSingleton, err := json.Marshal(o.Result.NonSingleton)
		if err != nil {
			return Batch{}, fmt.Errorf("marshal diagnostics %s: %w", o.Run.ID, err)
		}

		var final sql.NullFloat64
		if v, ok := o.Result.Series.Final(); ok {
			final = sql.NullFloat64{Float64: v, Valid: true}
		}

		_, err = tx.Exec(
			`INSERT INTO runs (batch_id, position, config, seed, path, values_json, rows_json, nonsingleton_json, final)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, i, o.Run.ID.Config, o.Run.ID.Seed, o.Run.Path,
			string(values), string(rows), string(nonSingleton), final,
		)
		if err != nil {
			return Batch{}, fmt.Errorf("insert run %s: %w", o.Run.ID, err)
		}
	}

	for _, f := range coll.Failures {
		_, err = tx.Exec(
			`INSERT INTO failures (batch_id, config, seed, path, error) VALUES (?, ?, ?, ?, ?)`,
			b.ID, f.Run.ID.Config, f.Run.ID.Seed, f.Run.Path, f.Err.Error(),
		)
		if err != nil {
			return Batch{}, fmt.Errorf("insert failure %s: %w", f.Run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

const batchColumns = `b.batch_id, b.name, b.population, b.threshold, b.stride, b.count, b.policy, b.created_at,
	(SELECT COUNT(*) FROM runs r WHERE r.batch_id = b.batch_id),
	(SELECT COUNT(*) FROM failures f WHERE f.batch_id = b.batch_id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(row scanner) (Batch, error) {
	var b Batch
	var policy, created string
	err := row.Scan(&b.ID, &b.Name, &b.Population, &b.Threshold,
		&b.Sampling.Stride, &b.Sampling.Count, &policy, &created, &b.Runs, &b.Failures)
	if err != nil {
		return Batch{}, err
	}
	b.Policy = experiment.Policy(policy)
	b.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Batch{}, fmt.Errorf("batch %s created_at: %w", b.ID, err)
	}
	return b, nil
}

// ListBatches returns every stored batch, newest first.
func (s *Store) ListBatches() ([]Batch, error) {
	rows, err := s.db.Query(`SELECT ` + batchColumns + ` FROM batches b ORDER BY b.created_at DESC, b.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	out := make([]Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBatch looks a batch up by id or by a unique id prefix. The prefix is
// compared literally.
func (s *Store) GetBatch(id string) (Batch, error) {
	if id == "" {
		return Batch{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.Query(`SELECT `+batchColumns+` FROM batches b WHERE substr(b.batch_id, 1, length(?1)) = ?1 LIMIT 2`, id)
	if err != nil {
		return Batch{}, fmt.Errorf("get batch %s: %w", id, err)
	}
	defer rows.Close()

	var found []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return Batch{}, fmt.Errorf("scan batch: %w", err)
		}
		found = append(found, b)
	}
	if err := rows.Err(); err != nil {
		return Batch{}, err
	}

	switch len(found) {
	case 0:
		return Batch{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	}
	return Batch{}, fmt.Errorf("batch id prefix %q is ambiguous", id)
}

// LoadCollection rebuilds the run collection of a stored batch.
func (s *Store) LoadCollection(id string) (Batch, *experiment.RunCollection, error) {
	b, err := s.GetBatch(id)
	if err != nil {
		return Batch{}, nil, err
	}

	rows, err := s.db.Query(
		`SELECT config, seed, path, values_json, rows_json, nonsingleton_json
		 FROM runs WHERE batch_id = ? ORDER BY position`, b.ID,
	)
	if err != nil {
		return Batch{}, nil, fmt.Errorf("load runs %s: %w", b.ID, err)
	}
	defer rows.Close()

	coll := &experiment.RunCollection{}
	for rows.Next() {
		var run experiment.Run
		var valuesJSON, rowsJSON, nsJSON string
		if err := rows.Scan(&run.ID.Config, &run.ID.Seed, &run.Path, &valuesJSON, &rowsJSON, &nsJSON); err != nil {
			return Batch{}, nil, fmt.Errorf("scan run: %w", err)
		}

		res := &sim.Result{Series: swarm.Series{Sampling: b.Sampling}}
		if err := json.Unmarshal([]byte(valuesJSON), &res.Series.Values); err != nil {
			return Batch{}, nil, fmt.Errorf("unmarshal series %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(rowsJSON), &res.Rows); err != nil {
			return Batch{}, nil, fmt.Errorf("unmarshal rows %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(nsJSON), &res.NonSingleton); err != nil {
			return Batch{}, nil, fmt.Errorf("unmarshal diagnostics %s: %w", run.ID, err)
		}
		coll.Outcomes = append(coll.Outcomes, experiment.Outcome{Run: run, Result: res})
	}
	if err := rows.Err(); err != nil {
		return Batch{}, nil, err
	}

	failures, err := s.Failures(b.ID)
	if err != nil {
		return Batch{}, nil, err
	}
	for _, f := range failures {
		coll.Failures = append(coll.Failures, experiment.Failure{
			Run: experiment.Run{ID: f.ID, Path: f.Path},
			Err: errors.New(f.Error),
		})
	}
	return b, coll, nil
}

// Failures lists the excluded runs of a batch.
func (s *Store) Failures(batchID string) ([]FailureRecord, error) {
	rows, err := s.db.Query(
		`SELECT config, seed, path, error FROM failures WHERE batch_id = ? ORDER BY id`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("load failures %s: %w", batchID, err)
	}
	defer rows.Close()

	out := make([]FailureRecord, 0)
	for rows.Next() {
		var f FailureRecord
		if err := rows.Scan(&f.ID.Config, &f.ID.Seed, &f.Path, &f.Error); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteBatch removes a batch with its runs and failures.
func (s *Store) DeleteBatch(id string) error {
	b, err := s.GetBatch(id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"runs", "failures", "batches"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE batch_id = ?`, b.ID); err != nil {
			return fmt.Errorf("delete %s of %s: %w", table, b.ID, err)
		}
	}
	return tx.Commit()
}
