package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/unitracker/internal/calendar"
	"github.com/pavelanni/unitracker/internal/model"
)

const sessionColumns = `id, name, start_date, end_date, description, color, created_at, updated_at`

func scanSession(r rowScanner) (model.AcademicSession, error) {
	var as model.AcademicSession
	var start, end string
	if err := r.Scan(&as.ID, &as.Name, &start, &end, &as.Description, &as.Color, &as.CreatedAt, &as.UpdatedAt); err != nil {
		return as, err
	}
	var err error
	if as.Start, err = time.Parse(model.DateLayout, start); err != nil {
		return as, fmt.Errorf("session %d start: %w", as.ID, err)
	}
	if as.End, err = time.Parse(model.DateLayout, end); err != nil {
		return as, fmt.Errorf("session %d end: %w", as.ID, err)
	}
	return as, nil
}

// AddSession stores an academic session and returns its ID.
func (s *Store) AddSession(as model.AcademicSession) (int64, error) {
	return s.insertSession(s.db, as, time.Now())
}

func (s *Store) insertSession(x execer, as model.AcademicSession, now time.Time) (int64, error) {
	created, updated := as.CreatedAt, as.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	cols := `name, start_date, end_date, description, color, created_at, updated_at`
	placeholders := `?, ?, ?, ?, ?, ?, ?`
	args := []any{as.Name, as.Start.Format(model.DateLayout), as.End.Format(model.DateLayout),
		as.Description, as.Color, created, updated}
	if as.ID != 0 {
		cols = "id, " + cols
		placeholders = "?, " + placeholders
		args = append([]any{as.ID}, args...)
	}
	res, err := x.Exec(`INSERT INTO academic_sessions (`+cols+`) VALUES (`+placeholders+`)`, args...)
	if err != nil {
		slog.Error("failed to add session", "name", as.Name, "error", err)
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("added session", "id", id, "name", as.Name)
	return id, nil
}

// UpdateSession overwrites every editable field of as.ID.
func (s *Store) UpdateSession(as model.AcademicSession) error {
	res, err := s.db.Exec(
		`UPDATE academic_sessions SET name = ?, start_date = ?, end_date = ?, description = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		as.Name, as.Start.Format(model.DateLayout), as.End.Format(model.DateLayout), as.Description, as.Color, time.Now(), as.ID,
	)
	if err != nil {
		return fmt.Errorf("update session %d: %w", as.ID, err)
	}
	return affected(res, "session", as.ID)
}

// DeleteSession removes an academic session.
func (s *Store) DeleteSession(id int64) error {
	res, err := s.db.Exec(`DELETE FROM academic_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	if err := affected(res, "session", id); err != nil {
		return err
	}
	slog.Info("deleted session", "id", id)
	return nil
}

// ListSessions returns every academic session ordered by start date.
func (s *Store) ListSessions() ([]model.AcademicSession, error) {
	return s.querySessions(`SELECT ` + sessionColumns + ` FROM academic_sessions ORDER BY start_date, id`)
}

// SessionsForMonth returns the sessions that overlap year/month.
func (s *Store) SessionsForMonth(year int, month time.Month) ([]model.AcademicSession, error) {
	from, to := calendar.Bounds(year, month)
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM academic_sessions WHERE end_date >= ? AND start_date < ? ORDER BY start_date, id`,
		from.Format(model.DateLayout), to.Format(model.DateLayout),
	)
}

func (s *Store) querySessions(query string, args ...any) ([]model.AcademicSession, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var sessions []model.AcademicSession
	for rows.Next() {
		as, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, as)
	}
	return sessions, rows.Err()
}
