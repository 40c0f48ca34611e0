// Package store keeps a history of assessments in SQLite so a vendor's
// lock-in score can be tracked across contract revisions.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/lockscore/internal/model"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when no assessment has the requested id
var ErrNotFound = errors.New("assessment not found")

// DBName is the database file created inside the data directory
const DBName = "lockscore.db"

// timeLayout sorts lexically in chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Record is the summary row of a stored assessment
type Record struct {
	ID           string       `json:"assessment_id"`
	Vendor       string       `json:"vendor_name"`
	ContractFile string       `json:"contract_file,omitempty"`
	Method       model.Method `json:"method"`
	TotalScore   float64      `json:"total_score"`
	RiskLevel    model.Tier   `json:"risk_level"`
	TotalClauses int          `json:"total_clauses"`
	AssessedAt   time.Time    `json:"assessed_at"`
}

// TrendPoint is one assessment of a vendor in chronological order
type TrendPoint struct {
	Record
	CategoryScores map[model.Category]float64 `json:"category_scores"`
}

// Store is the SQLite-backed assessment history
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the history database in dataDir
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, DBName))
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS assessments (
			id            TEXT PRIMARY KEY,
			vendor        TEXT NOT NULL COLLATE NOCASE,
			contract_file TEXT NOT NULL DEFAULT '',
			method        TEXT NOT NULL,
			total_score   REAL NOT NULL,
			risk_level    TEXT NOT NULL,
			total_clauses INTEGER NOT NULL DEFAULT 0,
			assessed_at   TEXT NOT NULL,
			payload       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_assessments_vendor ON assessments(vendor, assessed_at);

		CREATE TABLE IF NOT EXISTS category_scores (
			assessment_id    TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
			category         TEXT NOT NULL,
			score            REAL NOT NULL,
			max_points       REAL NOT NULL,
			clause_count     INTEGER NOT NULL,
			high_risk_count  INTEGER NOT NULL,
			missing_coverage INTEGER NOT NULL,
			PRIMARY KEY (assessment_id, category)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores an assessment. Saving the same id again replaces the
// earlier row and moves it to the current time.
func (s *Store) Save(ctx context.Context, a *model.Assessment) (*Record, error) {
	if a == nil || a.ID == "" {
		return nil, errors.New("store: assessment has no id")
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("store: encode assessment: %w", err)
	}

	rec := recordOf(a, s.now().UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assessments (id, vendor, contract_file, method, total_score, risk_level, total_clauses, assessed_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			vendor = excluded.vendor,
			contract_file = excluded.contract_file,
			method = excluded.method,
			total_score = excluded.total_score,
			risk_level = excluded.risk_level,
			total_clauses = excluded.total_clauses,
			assessed_at = excluded.assessed_at,
			payload = excluded.payload`,
		rec.ID, rec.Vendor, rec.ContractFile, string(rec.Method), rec.TotalScore,
		string(rec.RiskLevel), rec.TotalClauses, rec.AssessedAt.Format(timeLayout), string(payload))
	if err != nil {
		return nil, fmt.Errorf("store: save assessment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_scores WHERE assessment_id = ?`, rec.ID); err != nil {
		return nil, fmt.Errorf("store: clear category scores: %w", err)
	}
	for _, c := range model.Categories() {
		d, ok := a.CategoryDetails[c]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO category_scores (assessment_id, category, score, max_points, clause_count, high_risk_count, missing_coverage)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, string(c), d.Score, d.MaxPoints, d.ClauseCount, d.HighRiskCount, boolInt(d.MissingCoverage))
		if err != nil {
			return nil, fmt.Errorf("store: save category %s: %w", c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &rec, nil
}

// Get returns the full stored assessment
func (s *Store) Get(ctx context.Context, id string) (*model.Assessment, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM assessments WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get: %w", err)
	}

	var a model.Assessment
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("store: decode assessment %s: %w", id, err)
	}
	return &a, nil
}

// List returns stored assessments newest first. An empty vendor lists
// every vendor; vendor matching ignores case. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, vendor string, limit int) ([]Record, error) {
	query := `SELECT id, vendor, contract_file, method, total_score, risk_level, total_clauses, assessed_at
		FROM assessments`
	var args []any
	if vendor != "" {
		query += ` WHERE vendor = ?`
		args = append(args, vendor)
	}
	query += ` ORDER BY assessed_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return records, nil
}

// Trend returns every assessment of a vendor oldest first, with its
// per-category scores
func (s *Store) Trend(ctx context.Context, vendor string) ([]TrendPoint, error) {
	records, err := s.List(ctx, vendor, 0)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, len(records))
	index := make(map[string]int, len(records))
	for i := range records {
		j := len(records) - 1 - i
		points[j] = TrendPoint{Record: records[i], CategoryScores: map[model.Category]float64{}}
		index[records[i].ID] = j
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cs.assessment_id, cs.category, cs.score
		FROM category_scores cs
		JOIN assessments a ON a.id = cs.assessment_id
		WHERE a.vendor = ?`, vendor)
	if err != nil {
		return nil, fmt.Errorf("store: trend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, category string
		var score float64
		if err := rows.Scan(&id, &category, &score); err != nil {
			return nil, fmt.Errorf("store: trend: %w", err)
		}
		if j, ok := index[id]; ok {
			points[j].CategoryScores[model.Category(category)] = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: trend: %w", err)
	}
	return points, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var method, tier, at string
	if err := row.Scan(&rec.ID, &rec.Vendor, &rec.ContractFile, &method, &rec.TotalScore, &tier, &rec.TotalClauses, &at); err != nil {
		return Record{}, fmt.Errorf("store: scan: %w", err)
	}
	rec.Method = model.Method(method)
	rec.RiskLevel = model.Tier(tier)

	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return Record{}, fmt.Errorf("store: parse assessed_at %q: %w", at, err)
	}
	rec.AssessedAt = t
	return rec, nil
}

func recordOf(a *model.Assessment, at time.Time) Record {
	return Record{
		ID:           a.ID,
		Vendor:       a.Vendor,
		ContractFile: a.ContractFile,
		Method:       a.Method,
		TotalScore:   a.TotalScore,
		RiskLevel:    a.RiskLevel,
		TotalClauses: a.TotalClauses,
		AssessedAt:   at,
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
