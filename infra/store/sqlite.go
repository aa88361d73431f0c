package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/skyops/core/model"
	corestore "github.com/kilianp07/skyops/core/store"
)

// Rows are kept as raw text and coerced on read. Identifiers are not
// unique so duplicated rows survive, as they would in a spreadsheet.
const schema = `
CREATE TABLE IF NOT EXISTS pilots (
    pilot_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    skills TEXT NOT NULL DEFAULT '',
    certifications TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    current_assignment TEXT NOT NULL DEFAULT '',
    available_from TEXT NOT NULL DEFAULT '',
    daily_rate_inr TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS drones (
    drone_id TEXT NOT NULL,
    model TEXT NOT NULL DEFAULT '',
    capabilities TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    current_assignment TEXT NOT NULL DEFAULT '',
    maintenance_due TEXT NOT NULL DEFAULT '',
    weather_resistance TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS missions (
    project_id TEXT NOT NULL,
    client TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    required_skills TEXT NOT NULL DEFAULT '',
    required_certs TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL DEFAULT '',
    end_date TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT '',
    mission_budget_inr TEXT NOT NULL DEFAULT '',
    weather_forecast TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS pilots_id ON pilots(pilot_id);
CREATE INDEX IF NOT EXISTS drones_id ON drones(drone_id);
`

// SQLiteStore implements core/store.Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writes and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Empty reports whether the store holds no rows at all.
func (s *SQLiteStore) Empty(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM pilots) + (SELECT COUNT(*) FROM drones) + (SELECT COUNT(*) FROM missions)`).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Import appends every seed row in one transaction.
func (s *SQLiteStore) Import(ctx context.Context, seed Seed) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, p := range seed.Pilots {
		if _, err = tx.ExecContext(ctx, `INSERT INTO pilots (pilot_id, name, skills, certifications, location, status, current_assignment, available_from, daily_rate_inr)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Skills, p.Certifications, p.Location, p.Status, p.CurrentAssignment, p.AvailableFrom, p.DailyRate.String()); err != nil {
			return fmt.Errorf("insert pilot %s: %w", p.ID, err)
		}
	}
	for _, d := range seed.Drones {
		if _, err = tx.ExecContext(ctx, `INSERT INTO drones (drone_id, model, capabilities, status, location, current_assignment, maintenance_due, weather_resistance)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.Model, d.Capabilities, d.Status, d.Location, d.CurrentAssignment, d.MaintenanceDue, d.WeatherResistance); err != nil {
			return fmt.Errorf("insert drone %s: %w", d.ID, err)
		}
	}
	for _, m := range seed.Missions {
		if _, err = tx.ExecContext(ctx, `INSERT INTO missions (project_id, client, location, required_skills, required_certs, start_date, end_date, priority, mission_budget_inr, weather_forecast)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Client, m.Location, m.RequiredSkills, m.RequiredCerts, m.StartDate, m.EndDate, m.Priority, m.Budget.String(), m.Forecast); err != nil {
			return fmt.Errorf("insert mission %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Pilots(ctx context.Context) ([]model.Pilot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pilot_id, name, skills, certifications, location, status, current_assignment, available_from, daily_rate_inr
        FROM pilots ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]model.Pilot, 0)
	for rows.Next() {
		var r PilotRecord
		var rate string
		if err := rows.Scan(&r.ID, &r.Name, &r.Skills, &r.Certifications, &r.Location, &r.Status, &r.CurrentAssignment, &r.AvailableFrom, &rate); err != nil {
			return nil, err
		}
		r.DailyRate = ParseNumber(rate)
		res = append(res, r.Pilot())
	}
	return res, rows.Err()
}

func (s *SQLiteStore) Drones(ctx context.Context) ([]model.Drone, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT drone_id, model, capabilities, status, location, current_assignment, maintenance_due, weather_resistance
        FROM drones ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]model.Drone, 0)
	for rows.Next() {
		var r DroneRecord
		if err := rows.Scan(&r.ID, &r.Model, &r.Capabilities, &r.Status, &r.Location, &r.CurrentAssignment, &r.MaintenanceDue, &r.WeatherResistance); err != nil {
			return nil, err
		}
		res = append(res, r.Drone())
	}
	return res, rows.Err()
}

func (s *SQLiteStore) Missions(ctx context.Context) ([]model.Mission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, client, location, required_skills, required_certs, start_date, end_date, priority, mission_budget_inr, weather_forecast
        FROM missions ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := make([]model.Mission, 0)
	for rows.Next() {
		var r MissionRecord
		var budget string
		if err := rows.Scan(&r.ID, &r.Client, &r.Location, &r.RequiredSkills, &r.RequiredCerts, &r.StartDate, &r.EndDate, &r.Priority, &budget, &r.Forecast); err != nil {
			return nil, err
		}
		r.Budget = ParseNumber(budget)
		res = append(res, r.Mission())
	}
	return res, rows.Err()
}

// WriteField updates every row carrying id. An active assignment also
// flips pilots to Assigned and drones to Deployed.
func (s *SQLiteStore) WriteField(ctx context.Context, kind corestore.Kind, id string, field corestore.Field, value string) error {
	var table, idCol, busy string
	switch kind {
	case corestore.KindPilot:
		table, idCol, busy = "pilots", "pilot_id", string(model.PilotAssigned)
	case corestore.KindDrone:
		table, idCol, busy = "drones", "drone_id", string(model.DroneDeployed)
	default:
		return fmt.Errorf("%s %s: %w", kind, field, corestore.ErrUnsupportedField)
	}

	var (
		res sql.Result
		err error
	)
	switch field {
	case corestore.FieldStatus:
		res, err = s.db.ExecContext(ctx, `UPDATE `+table+` SET status = ? WHERE `+idCol+` = ?`, value, id)
	case corestore.FieldAssignment:
		res, err = s.db.ExecContext(ctx, `UPDATE `+table+` SET current_assignment = ?,
            status = CASE WHEN ? THEN ? ELSE status END WHERE `+idCol+` = ?`,
			value, model.IsActiveAssignment(value), busy, id)
	default:
		return fmt.Errorf("%s %s: %w", kind, field, corestore.ErrUnsupportedField)
	}
	if err != nil {
		return fmt.Errorf("update %s %s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, corestore.ErrNotFound)
	}
	return nil
}
