package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/unitracker/internal/calendar"
	"github.com/pavelanni/unitracker/internal/model"
)

// ErrAlreadyScheduled is returned by ScheduleExam when the exam already has
// a calendar event.
var ErrAlreadyScheduled = errors.New("exam already scheduled")

const eventColumns = `id, uid, exam_id, title, type, start_at, end_at, all_day, location, description, color, created_at, updated_at`

func scanEvent(r rowScanner) (model.CalendarEvent, error) {
	var ev model.CalendarEvent
	var examID sql.NullInt64
	var start, end string
	if err := r.Scan(&ev.ID, &ev.UID, &examID, &ev.Title, &ev.Type, &start, &end, &ev.AllDay,
		&ev.Location, &ev.Description, &ev.Color, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return ev, err
	}
	if examID.Valid {
		id := examID.Int64
		ev.ExamID = &id
	}
	var err error
	if ev.Start, err = time.Parse(model.DateTimeLayout, start); err != nil {
		return ev, fmt.Errorf("event %d start: %w", ev.ID, err)
	}
	if ev.End, err = time.Parse(model.DateTimeLayout, end); err != nil {
		return ev, fmt.Errorf("event %d end: %w", ev.ID, err)
	}
	return ev, nil
}

func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// AddEvent stores a calendar event and returns its ID. A missing UID is
// generated.
func (s *Store) AddEvent(ev model.CalendarEvent) (int64, error) {
	return s.insertEvent(s.db, ev, time.Now())
}

func (s *Store) insertEvent(x execer, ev model.CalendarEvent, now time.Time) (int64, error) {
	if ev.UID == "" {
		ev.UID = uuid.NewString()
	}
	if ev.Type == "" {
		ev.Type = model.EventOther
	}
	created, updated := ev.CreatedAt, ev.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	cols := `uid, exam_id, title, type, start_at, end_at, all_day, location, description, color, created_at, updated_at`
	args := []any{ev.UID, nullID(ev.ExamID), ev.Title, ev.Type,
		ev.Start.Format(model.DateTimeLayout), ev.End.Format(model.DateTimeLayout), ev.AllDay,
		ev.Location, ev.Description, ev.Color, created, updated}
	placeholders := `?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?`
	if ev.ID != 0 {
		cols = "id, " + cols
		placeholders = "?, " + placeholders
		args = append([]any{ev.ID}, args...)
	}
	res, err := x.Exec(`INSERT INTO calendar_events (`+cols+`) VALUES (`+placeholders+`)`, args...)
	if err != nil {
		slog.Error("failed to add event", "title", ev.Title, "error", err)
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("added event", "id", id, "title", ev.Title, "type", ev.Type)
	return id, nil
}

// GetEvent returns an event by ID, or nil if it does not exist.
func (s *Store) GetEvent(id int64) (*model.CalendarEvent, error) {
	ev, err := scanEvent(s.db.QueryRow(`SELECT `+eventColumns+` FROM calendar_events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return &ev, nil
}

// UpdateEvent overwrites every editable field of ev.ID.
func (s *Store) UpdateEvent(ev model.CalendarEvent) error {
	res, err := s.db.Exec(
		`UPDATE calendar_events SET exam_id = ?, title = ?, type = ?, start_at = ?, end_at = ?, all_day = ?,
		 location = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`,
		nullID(ev.ExamID), ev.Title, ev.Type, ev.Start.Format(model.DateTimeLayout), ev.End.Format(model.DateTimeLayout),
		ev.AllDay, ev.Location, ev.Description, ev.Color, time.Now(), ev.ID,
	)
	if err != nil {
		return fmt.Errorf("update event %d: %w", ev.ID, err)
	}
	return affected(res, "event", ev.ID)
}

// DeleteEvent removes an event.
func (s *Store) DeleteEvent(id int64) error {
	res, err := s.db.Exec(`DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	if err := affected(res, "event", id); err != nil {
		return err
	}
	slog.Info("deleted event", "id", id)
	return nil
}

// ListEvents returns events matching f ordered by start time.
func (s *Store) ListEvents(f model.EventFilter) ([]model.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE 1=1`
	var args []any
	if !f.From.IsZero() {
		query += ` AND end_at >= ?`
		args = append(args, f.From.Format(model.DateTimeLayout))
	}
	if !f.To.IsZero() {
		query += ` AND start_at < ?`
		args = append(args, f.To.Format(model.DateTimeLayout))
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	if f.ExamID != 0 {
		query += ` AND exam_id = ?`
		args = append(args, f.ExamID)
	}
	query += ` ORDER BY start_at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	var events []model.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EventsForMonth returns the events that overlap year/month.
func (s *Store) EventsForMonth(year int, month time.Month) ([]model.CalendarEvent, error) {
	from, to := calendar.Bounds(year, month)
	return s.ListEvents(model.EventFilter{From: from, To: to})
}

// ScheduleExam puts an exam on the calendar and records the chosen date on
// the exam. An exam can only be scheduled once.
func (s *Store) ScheduleExam(examID int64, now time.Time) (*model.CalendarEvent, error) {
	e, err := s.GetExam(examID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("exam %d: %w", examID, ErrNotFound)
	}
	existing, err := s.ListEvents(model.EventFilter{ExamID: examID})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("exam %d has event %d: %w", examID, existing[0].ID, ErrAlreadyScheduled)
	}

	ev := calendar.ExamEvent(*e, now)
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	if ev.ID, err = s.insertEvent(tx, ev, now); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`UPDATE exams SET date = ?, updated_at = ? WHERE id = ?`,
		ev.Start.Format(model.DateLayout), now, examID); err != nil {
		return nil, fmt.Errorf("set exam %d date: %w", examID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	ev.CreatedAt, ev.UpdatedAt = now, now
	slog.Info("scheduled exam", "exam_id", examID, "event_id", ev.ID, "date", ev.Start.Format(model.DateLayout))
	return &ev, nil
}
