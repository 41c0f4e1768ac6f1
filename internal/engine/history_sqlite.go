package engine

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"advisim/internal/logging"
	"advisim/internal/types"

	_ "modernc.org/sqlite"
)

// SQLiteHistory persists simulation results with a retention policy.
// Results older than the retention window are pruned on every append, so
// the table stays bounded without a separate maintenance job.
type SQLiteHistory struct {
	db            *sql.DB
	mu            sync.Mutex
	retentionDays int
}

// NewSQLiteHistory opens (or creates) the history database at path.
// retentionDays <= 0 disables pruning.
func NewSQLiteHistory(path string, retentionDays int) (*SQLiteHistory, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS simulation_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id TEXT NOT NULL,
		classification TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON simulation_history(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logging.Store("simulation history opened at %s (retention %d days)", path, retentionDays)
	return &SQLiteHistory{db: db, retentionDays: retentionDays}, nil
}

// Append implements History.
func (h *SQLiteHistory) Append(result *types.SimulationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.db.Exec(
		"INSERT INTO simulation_history (case_id, classification, result_json) VALUES (?, ?, ?)",
		result.CaseID, string(result.Classification), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	if h.retentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -h.retentionDays).UTC().Format("2006-01-02 15:04:05")
		if _, err := h.db.Exec("DELETE FROM simulation_history WHERE created_at < ?", cutoff); err != nil {
			logging.StoreError("retention prune failed: %v", err)
		}
	}
	return nil
}

// Recent implements History.
func (h *SQLiteHistory) Recent(n int) ([]*types.SimulationResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.Query(
		"SELECT result_json FROM simulation_history ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []*types.SimulationResult
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var r types.SimulationResult
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to decode stored result: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Len implements History.
func (h *SQLiteHistory) Len() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM simulation_history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
