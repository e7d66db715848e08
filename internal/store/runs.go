package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// CreateRun inserts r and returns its ID. A zero StartedAt is set to now.
func (db *DB) CreateRun(r *Run) (int64, error) {
	return createRun(db.conn, r)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func createRun(x execer, r *Run) (int64, error) {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	result, err := x.Exec(
		`INSERT INTO runs
		(started_at, target, output, version, discovered_files, staged_files,
		 analyzed_files, avg_maintainability, avg_complexity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339), r.Target, r.Output, r.Version,
		r.DiscoveredFiles, r.StagedFiles, r.AnalyzedFiles,
		r.AverageMaintainability, r.AverageComplexity,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// InsertFileResult inserts a per-file result for a run.
func (db *DB) InsertFileResult(fr *FileResult) error {
	return insertFileResult(db.conn, fr)
}

func insertFileResult(x execer, fr *FileResult) error {
	_, err := x.Exec(
		`INSERT INTO file_results
		(run_id, file, category, maintainability, complexity, sloc, tier)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fr.RunID, fr.File, fr.Category, fr.Maintainability, fr.Complexity, fr.SLOC, fr.Tier,
	)
	return err
}

// RecordRun stores a run and its file results in one transaction.
func (db *DB) RecordRun(r *Run, results []FileResult) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := createRun(tx, r)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	for i := range results {
		results[i].RunID = id
		if err := insertFileResult(tx, &results[i]); err != nil {
			return 0, fmt.Errorf("inserting result for %s: %w", results[i].File, err)
		}
	}
	return id, tx.Commit()
}

const runColumns = `id, started_at, target, output, version, discovered_files,
	staged_files, analyzed_files, avg_maintainability, avg_complexity`

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(id int64) (*Run, error) {
	row := db.conn.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// RecentRuns returns up to limit runs, newest first. An empty target
// matches every target.
func (db *DB) RecentRuns(target string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	query := "SELECT " + runColumns + " FROM runs"
	args := []any{}
	if target != "" {
		query += " WHERE target = ?"
		args = append(args, target)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// FileResults returns the stored results of a run ordered by file name.
func (db *DB) FileResults(runID int64) ([]FileResult, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, file, category, maintainability, complexity, sloc, tier
		FROM file_results WHERE run_id = ? ORDER BY file`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileResult
	for rows.Next() {
		var fr FileResult
		if err := rows.Scan(&fr.ID, &fr.RunID, &fr.File, &fr.Category,
			&fr.Maintainability, &fr.Complexity, &fr.SLOC, &fr.Tier); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// CompareRuns returns maintainability deltas for files present in both
// runs, largest regression first.
func (db *DB) CompareRuns(previousID, currentID int64) ([]FileDelta, error) {
	prev, err := db.FileResults(previousID)
	if err != nil {
		return nil, err
	}
	cur, err := db.FileResults(currentID)
	if err != nil {
		return nil, err
	}

	before := make(map[string]float64, len(prev))
	for _, fr := range prev {
		before[fr.File] = fr.Maintainability
	}

	var deltas []FileDelta
	for _, fr := range cur {
		p, ok := before[fr.File]
		if !ok {
			continue
		}
		deltas = append(deltas, FileDelta{
			File:     fr.File,
			Previous: p,
			Current:  fr.Maintainability,
			Delta:    fr.Maintainability - p,
		})
	}
	sort.SliceStable(deltas, func(i, j int) bool {
		return deltas[i].Delta < deltas[j].Delta
	})
	return deltas, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	var r Run
	var startedAt string
	if err := s.Scan(&r.ID, &startedAt, &r.Target, &r.Output, &r.Version,
		&r.DiscoveredFiles, &r.StagedFiles, &r.AnalyzedFiles,
		&r.AverageMaintainability, &r.AverageComplexity); err != nil {
		return nil, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	return &r, nil
}
