package store

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordActivation inserts an activation event. OccurredAt defaults to now.
func (s *Store) RecordActivation(a *Activation) error {
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now()
	}

	query := `
		INSERT INTO activations (run_id, action, cursor, exe_path, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		a.RunID,
		a.Action,
		a.Cursor,
		a.ExePath,
		a.OccurredAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return wrapQueryErr(fmt.Sprintf("failed to record %s activation", a.Action), err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		a.ID = id
	}
	return nil
}

// RecentActivations returns up to limit events, newest first.
func (s *Store) RecentActivations(limit int) ([]*Activation, error) {
	query := `
		SELECT id, run_id, action, cursor, exe_path, occurred_at
		FROM activations
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, wrapQueryErr("failed to list activations", err)
	}
	defer rows.Close()

	var out []*Activation
	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activations: %w", err)
	}
	return out, nil
}

// LastActivation returns the most recent event, or nil when there is none.
func (s *Store) LastActivation() (*Activation, error) {
	acts, err := s.RecentActivations(1)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, nil
	}
	return acts[0], nil
}

// CursorUsageSince counts activations per cursor since the given time,
// most used first.
func (s *Store) CursorUsageSince(since time.Time) ([]*CursorUsage, error) {
	query := `
		SELECT cursor, COUNT(*), MAX(occurred_at)
		FROM activations
		WHERE action = 'activate' AND occurred_at >= ?
		GROUP BY cursor
		ORDER BY COUNT(*) DESC, cursor
	`

	rows, err := s.db.Query(query, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, wrapQueryErr("failed to summarise cursor usage", err)
	}
	defer rows.Close()

	var out []*CursorUsage
	for rows.Next() {
		var u CursorUsage
		var last string
		if err := rows.Scan(&u.Cursor, &u.Activations, &last); err != nil {
			return nil, fmt.Errorf("failed to scan cursor usage: %w", err)
		}
		if u.LastUsed, err = time.Parse(time.RFC3339Nano, last); err != nil {
			return nil, fmt.Errorf("failed to parse occurred_at for %s: %w", u.Cursor, err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// PruneBefore deletes events older than cutoff and returns how many were
// removed.
func (s *Store) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM activations WHERE occurred_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, wrapQueryErr("failed to prune activations", err)
	}
	return res.RowsAffected()
}

func scanActivation(rows *sql.Rows) (*Activation, error) {
	var a Activation
	var occurredAt string
	if err := rows.Scan(&a.ID, &a.RunID, &a.Action, &a.Cursor, &a.ExePath, &occurredAt); err != nil {
		return nil, fmt.Errorf("failed to scan activation: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, occurredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse occurred_at for activation %d: %w", a.ID, err)
	}
	a.OccurredAt = t
	return &a, nil
}
