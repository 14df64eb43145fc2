package store

import (
	"fmt"

	"github.com/pavelanni/unitracker/internal/model"
)

// ListPins returns the pinned target grades keyed by exam ID.
func (s *Store) ListPins() (map[int64]float64, error) {
	rows, err := s.db.Query(`SELECT exam_id, grade FROM target_pins ORDER BY exam_id`)
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	defer rows.Close()
	pins := make(map[int64]float64)
	for rows.Next() {
		var id int64
		var g float64
		if err := rows.Scan(&id, &g); err != nil {
			return nil, err
		}
		pins[id] = g
	}
	return pins, rows.Err()
}

// ReplacePins swaps the stored pins for pins.
func (s *Store) ReplacePins(pins map[int64]float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM target_pins`); err != nil {
		return fmt.Errorf("clear pins: %w", err)
	}
	for id, g := range pins {
		if err := insertPin(tx, model.TargetPin{ExamID: id, Grade: g}); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertPin(x execer, p model.TargetPin) error {
	if _, err := x.Exec(`INSERT INTO target_pins (exam_id, grade) VALUES (?, ?)`, p.ExamID, p.Grade); err != nil {
		return fmt.Errorf("insert pin for exam %d: %w", p.ExamID, err)
	}
	return nil
}

// ClearPins removes every pin.
func (s *Store) ClearPins() error {
	if _, err := s.db.Exec(`DELETE FROM target_pins`); err != nil {
		return fmt.Errorf("clear pins: %w", err)
	}
	return nil
}
