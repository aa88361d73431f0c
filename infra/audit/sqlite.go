// Package audit provides LogStore backends and the bus consumer that fills
// them.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	coreaudit "github.com/kilianp07/skyops/core/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts INTEGER NOT NULL,
    kind TEXT NOT NULL,
    mission_id TEXT NOT NULL DEFAULT '',
    pilot_id TEXT NOT NULL DEFAULT '',
    drone_id TEXT NOT NULL DEFAULT '',
    record TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_log_ts ON audit_log(ts);
`

// SQLiteStore keeps audit records in a SQLite table. The full record is
// stored as JSON next to the indexed columns.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the audit database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts rec.
func (s *SQLiteStore) Append(ctx context.Context, rec coreaudit.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_log (ts, kind, mission_id, pilot_id, drone_id, record) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Time.UnixNano(), string(rec.Kind),
		strings.ToLower(rec.MissionID), strings.ToLower(rec.PilotID), strings.ToLower(rec.DroneID), string(b))
	return err
}

// Query returns the records matching q ordered by time then insertion.
func (s *SQLiteStore) Query(ctx context.Context, q coreaudit.Query) ([]coreaudit.Record, error) {
	var args []any
	query := `SELECT record FROM audit_log WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(q.Kind))
	}
	if q.MissionID != "" {
		query += ` AND mission_id = ?`
		args = append(args, strings.ToLower(q.MissionID))
	}
	if q.EntityID != "" {
		id := strings.ToLower(q.EntityID)
		query += ` AND (pilot_id = ? OR drone_id = ?)`
		args = append(args, id, id)
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []coreaudit.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r coreaudit.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal audit record: %w", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ coreaudit.LogStore = (*SQLiteStore)(nil)
