package database

import (
	"database/sql"
	"time"
)

const eventColumns = `id, timestamp, kind, path, field_name, validated, outcome, message, created_at`

// GetRecentEvents returns the N most recent events
func (d *HistoryDB) GetRecentEvents(limit int) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
	FROM events
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	return d.queryEvents(query, limit)
}

// GetEventsByKind returns events of one kind, newest first
func (d *HistoryDB) GetEventsByKind(kind string) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
	FROM events
	WHERE kind = ?
	ORDER BY timestamp DESC, id DESC
	`

	return d.queryEvents(query, kind)
}

// GetFailedValidations returns the N most recent validations that failed
func (d *HistoryDB) GetFailedValidations(limit int) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
	FROM events
	WHERE kind = ? AND validated = 0
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	return d.queryEvents(query, KindValidation, limit)
}

// GetEventCountByKind returns count of events grouped by kind since a point in time
func (d *HistoryDB) GetEventCountByKind(since time.Time) (map[string]int, error) {
	rows, err := d.db.Query(`
	SELECT kind, COUNT(*)
	FROM events
	WHERE timestamp >= ?
	GROUP BY kind
	`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}

	return counts, rows.Err()
}

// EventStats holds aggregated statistics
type EventStats struct {
	TotalEvents       int
	FailedValidations int
	Reverts           int
	ByKind            map[string]int
	ByOutcome         map[string]int
	StartDate         time.Time
	EndDate           time.Time
}

// GetEventStats returns statistics for the last days
func (d *HistoryDB) GetEventStats(days int) (*EventStats, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -days)

	stats := &EventStats{
		StartDate: since,
		EndDate:   now,
		ByOutcome: make(map[string]int),
	}

	err := d.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN kind = ? AND validated = 0 THEN 1 END),
			COUNT(CASE WHEN kind = ? THEN 1 END)
		FROM events
		WHERE timestamp >= ?
	`, KindValidation, KindBaseDirReverted, since.UTC()).Scan(&stats.TotalEvents, &stats.FailedValidations, &stats.Reverts)
	if err != nil {
		return nil, err
	}

	stats.ByKind, err = d.GetEventCountByKind(since)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
		SELECT outcome, COUNT(*)
		FROM events
		WHERE kind = ? AND timestamp >= ?
		GROUP BY outcome
	`, KindConfirmation, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome sql.NullString
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats.ByOutcome[outcome.String] += count
	}

	return stats, rows.Err()
}

func (d *HistoryDB) queryEvents(query string, args ...interface{}) ([]Event, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var path, field, outcome, message sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Kind, &path, &field, &e.Validated, &outcome, &message, &createdAt); err != nil {
			return nil, err
		}

		e.Path = path.String
		e.FieldName = field.String
		e.Outcome = outcome.String
		e.Message = message.String
		e.CreatedAt = createdAt.Time

		events = append(events, e)
	}

	return events, rows.Err()
}
