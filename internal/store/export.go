package store

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pavelanni/unitracker/internal/model"
)

// Snapshot collects the whole career into a portable export.
func (s *Store) Snapshot() (model.CareerExport, error) {
	out := model.CareerExport{Version: model.ExportVersion, ExportedAt: time.Now().UTC()}
	var err error

	if out.Settings, err = s.LoadSettings(); err != nil {
		return out, fmt.Errorf("load settings: %w", err)
	}
	if out.Exams, err = s.ListExams(""); err != nil {
		return out, err
	}
	if out.Events, err = s.ListEvents(model.EventFilter{}); err != nil {
		return out, err
	}
	if out.Sessions, err = s.ListSessions(); err != nil {
		return out, err
	}
	pins, err := s.ListPins()
	if err != nil {
		return out, err
	}
	for id, g := range pins {
		out.Pins = append(out.Pins, model.TargetPin{ExamID: id, Grade: g})
	}
	sort.Slice(out.Pins, func(i, j int) bool { return out.Pins[i].ExamID < out.Pins[j].ExamID })
	return out, nil
}

// Restore replaces every stored record with the contents of data in a single
// transaction. IDs are preserved so pins and event links stay valid.
func (s *Store) Restore(data model.CareerExport) error {
	if data.Version > model.ExportVersion {
		return fmt.Errorf("export version %d is newer than supported version %d", data.Version, model.ExportVersion)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearAll(tx); err != nil {
		return err
	}
	if err := saveSettings(tx, data.Settings); err != nil {
		return err
	}
	now := time.Now()
	for _, e := range data.Exams {
		if _, err := s.insertExam(tx, e, now); err != nil {
			return err
		}
	}
	for _, ev := range data.Events {
		if _, err := s.insertEvent(tx, ev, now); err != nil {
			return err
		}
	}
	for _, as := range data.Sessions {
		if _, err := s.insertSession(tx, as, now); err != nil {
			return err
		}
	}
	for _, p := range data.Pins {
		if err := insertPin(tx, p); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("restored career",
		"exams", len(data.Exams), "events", len(data.Events), "sessions", len(data.Sessions), "pins", len(data.Pins))
	return nil
}

// Reset deletes every record and restores the default settings.
func (s *Store) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := clearAll(tx); err != nil {
		return err
	}
	if err := saveSettings(tx, model.DefaultSettings()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("reset database")
	return nil
}

func clearAll(x execer) error {
	for _, table := range []string{"target_pins", "calendar_events", "academic_sessions", "exams", "settings"} {
		if _, err := x.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Backup writes a consistent copy of the database to path, which must not
// exist yet.
func (s *Store) Backup(path string) error {
	if _, err := s.db.Exec(`VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("backup to %s: %w", path, err)
	}
	slog.Info("backed up database", "path", path)
	return nil
}
