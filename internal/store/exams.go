package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/unitracker/internal/model"
)

const examColumns = `id, name, credits, grade, status, date, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(r rowScanner) (model.Exam, error) {
	var e model.Exam
	var grade sql.NullFloat64
	var date sql.NullString
	if err := r.Scan(&e.ID, &e.Name, &e.Credits, &grade, &e.Status, &date, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return e, err
	}
	if grade.Valid {
		g := grade.Float64
		e.Grade = &g
	}
	if date.Valid && date.String != "" {
		d, err := time.Parse(model.DateLayout, date.String)
		if err != nil {
			return e, fmt.Errorf("exam %d date %q: %w", e.ID, date.String, err)
		}
		e.Date = &d
	}
	return e, nil
}

func nullGrade(g *float64) any {
	if g == nil {
		return nil
	}
	return *g
}

func nullDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(model.DateLayout)
}

// AddExam stores an exam and returns its ID.
func (s *Store) AddExam(e model.Exam) (int64, error) {
	return s.insertExam(s.db, e, time.Now())
}

func (s *Store) insertExam(x execer, e model.Exam, now time.Time) (int64, error) {
	created, updated := e.CreatedAt, e.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	query := `INSERT INTO exams (name, credits, grade, status, date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{e.Name, e.Credits, nullGrade(e.Grade), e.Status, nullDate(e.Date), e.Notes, created, updated}
	if e.ID != 0 {
		query = `INSERT INTO exams (id, name, credits, grade, status, date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		args = append([]any{e.ID}, args...)
	}
	res, err := x.Exec(query, args...)
	if err != nil {
		slog.Error("failed to add exam", "name", e.Name, "error", err)
		return 0, fmt.Errorf("insert exam: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("added exam", "id", id, "name", e.Name, "status", e.Status)
	return id, nil
}

// GetExam returns an exam by ID, or nil if it does not exist.
func (s *Store) GetExam(id int64) (*model.Exam, error) {
	e, err := scanExam(s.db.QueryRow(`SELECT `+examColumns+` FROM exams WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exam %d: %w", id, err)
	}
	return &e, nil
}

// UpdateExam applies a partial update to an exam.
func (s *Store) UpdateExam(id int64, u model.ExamUpdate) error {
	e, err := s.GetExam(id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("exam %d: %w", id, ErrNotFound)
	}
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Credits != nil {
		e.Credits = *u.Credits
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.Grade != nil {
		g := *u.Grade
		e.Grade = &g
	}
	if u.ClearGrade {
		e.Grade = nil
	}
	if u.Date != nil {
		d := *u.Date
		e.Date = &d
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}

	res, err := s.db.Exec(
		`UPDATE exams SET name = ?, credits = ?, grade = ?, status = ?, date = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		e.Name, e.Credits, nullGrade(e.Grade), e.Status, nullDate(e.Date), e.Notes, time.Now(), id,
	)
	if err != nil {
		slog.Error("failed to update exam", "id", id, "error", err)
		return fmt.Errorf("update exam %d: %w", id, err)
	}
	return affected(res, "exam", id)
}

// DeleteExam removes an exam together with its pin and calendar events.
func (s *Store) DeleteExam(id int64) error {
	res, err := s.db.Exec(`DELETE FROM exams WHERE id = ?`, id)
	if err != nil {
		slog.Error("failed to delete exam", "id", id, "error", err)
		return fmt.Errorf("delete exam %d: %w", id, err)
	}
	if err := affected(res, "exam", id); err != nil {
		return err
	}
	slog.Info("deleted exam", "id", id)
	return nil
}

// ListExams returns exams with the given status, newest first. Undated exams
// come last. An empty status lists every exam.
func (s *Store) ListExams(status model.ExamStatus) ([]model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY date IS NULL, date DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()
	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (s *Store) PassedExams() ([]model.Exam, error)  { return s.ListExams(model.StatusPassed) }
func (s *Store) FailedExams() ([]model.Exam, error)  { return s.ListExams(model.StatusFailed) }
func (s *Store) PlannedExams() ([]model.Exam, error) { return s.ListExams(model.StatusPlanned) }

// ExamCount returns the number of exams with the given status, or all exams
// when status is empty.
func (s *Store) ExamCount(status model.ExamStatus) (int, error) {
	query := `SELECT COUNT(*) FROM exams`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var count int
	err := s.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// EarnedCredits sums credits over passed exams.
func (s *Store) EarnedCredits() (int, error) {
	var total int
	err := s.db.QueryRow(`SELECT COALESCE(SUM(credits), 0) FROM exams WHERE status = 'passed'`).Scan(&total)
	return total, err
}
