// # internal/history/store.go
//
// Evaluation history persisted in sqlite so successive runs over the
// same project can be compared.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Snapshot is one evaluation result row.
type Snapshot struct {
	ProjectKey       string
	RunID            string
	Timestamp        time.Time
	NodeCount        int
	EdgeCount        int
	EncodedBytes     int64
	TotalSourceBytes int64
	CompressionRatio float64
	RatioDefined     bool
	Density          float64
	ComponentCount   int
	CommunityCount   int
	Modularity       float64
	AvgFanIn         float64
	AvgFanOut        float64
	AvgInstability   float64
	AggregateEntropy float64
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) SaveSnapshot(projectKey string, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}

	ratioDefined := 0
	if snapshot.RatioDefined {
		ratioDefined = 1
	}
	ratio := snapshot.CompressionRatio
	if !snapshot.RatioDefined {
		ratio = 0
	}

	query := `
INSERT INTO evaluations (
  project_key, run_id, ts_utc, node_count, edge_count, encoded_bytes, total_source_bytes,
  compression_ratio, ratio_defined, density, component_count, community_count, modularity,
  avg_fan_in, avg_fan_out, avg_instability, aggregate_entropy
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_key, run_id) DO UPDATE SET
  ts_utc=excluded.ts_utc,
  node_count=excluded.node_count,
  edge_count=excluded.edge_count,
  encoded_bytes=excluded.encoded_bytes,
  total_source_bytes=excluded.total_source_bytes,
  compression_ratio=excluded.compression_ratio,
  ratio_defined=excluded.ratio_defined,
  density=excluded.density,
  component_count=excluded.component_count,
  community_count=excluded.community_count,
  modularity=excluded.modularity,
  avg_fan_in=excluded.avg_fan_in,
  avg_fan_out=excluded.avg_fan_out,
  avg_instability=excluded.avg_instability,
  aggregate_entropy=excluded.aggregate_entropy
`
	return s.withRetry("save evaluation", func() error {
		_, err := s.db.Exec(
			query,
			projectKey,
			snapshot.RunID,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.NodeCount,
			snapshot.EdgeCount,
			snapshot.EncodedBytes,
			snapshot.TotalSourceBytes,
			ratio,
			ratioDefined,
			snapshot.Density,
			snapshot.ComponentCount,
			snapshot.CommunityCount,
			snapshot.Modularity,
			snapshot.AvgFanIn,
			snapshot.AvgFanOut,
			snapshot.AvgInstability,
			snapshot.AggregateEntropy,
		)
		return err
	})
}

// LoadSnapshots returns evaluations for a project ordered by timestamp,
// optionally restricted to rows at or after since.
func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT
  project_key, run_id, ts_utc, node_count, edge_count, encoded_bytes, total_source_bytes,
  compression_ratio, ratio_defined, density, component_count, community_count, modularity,
  avg_fan_in, avg_fan_out, avg_instability, aggregate_entropy
FROM evaluations
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load evaluations", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw        string
			ratioDefined int
			snapshot     Snapshot
		)
		if err := rows.Scan(
			&snapshot.ProjectKey,
			&snapshot.RunID,
			&tsRaw,
			&snapshot.NodeCount,
			&snapshot.EdgeCount,
			&snapshot.EncodedBytes,
			&snapshot.TotalSourceBytes,
			&snapshot.CompressionRatio,
			&ratioDefined,
			&snapshot.Density,
			&snapshot.ComponentCount,
			&snapshot.CommunityCount,
			&snapshot.Modularity,
			&snapshot.AvgFanIn,
			&snapshot.AvgFanOut,
			&snapshot.AvgInstability,
			&snapshot.AggregateEntropy,
		); err != nil {
			return nil, fmt.Errorf("scan evaluation row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse evaluation timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshot.RatioDefined = ratioDefined != 0

		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
