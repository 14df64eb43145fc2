package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pavelanni/unitracker/internal/model"
)

// SetSetting upserts a key-value pair in the settings table.
func (s *Store) SetSetting(key, value string) error {
	return setSetting(s.db, key, value)
}

func setSetting(x execer, key, value string) error {
	_, err := x.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns the value for key, or def if the key is missing.
func (s *Store) GetSetting(key, def string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// LoadSettings reads the degree settings. Missing keys keep their defaults.
func (s *Store) LoadSettings() (model.Settings, error) {
	st := model.DefaultSettings()
	var err error

	if st.DegreeName, err = s.GetSetting(model.SettingDegreeName, st.DegreeName); err != nil {
		return st, err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{model.SettingTotalCredits, &st.TotalCredits},
		{model.SettingMaxGrade, &st.MaxGrade},
		{model.SettingPassThreshold, &st.PassThreshold},
	}
	for _, f := range ints {
		v, err := s.GetSetting(f.key, strconv.Itoa(*f.dst))
		if err != nil {
			return st, err
		}
		if *f.dst, err = strconv.Atoi(v); err != nil {
			return st, fmt.Errorf("setting %s: %w", f.key, err)
		}
	}
	v, err := s.GetSetting(model.SettingTargetAverage, strconv.FormatFloat(st.TargetAverage, 'f', -1, 64))
	if err != nil {
		return st, err
	}
	if st.TargetAverage, err = strconv.ParseFloat(v, 64); err != nil {
		return st, fmt.Errorf("setting %s: %w", model.SettingTargetAverage, err)
	}
	return st, nil
}

// SaveSettings stores every field of st.
func (s *Store) SaveSettings(st model.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := saveSettings(tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

type settingPair struct{ key, value string }

func settingPairs(st model.Settings) []settingPair {
	return []settingPair{
		{model.SettingDegreeName, st.DegreeName},
		{model.SettingTotalCredits, strconv.Itoa(st.TotalCredits)},
		{model.SettingMaxGrade, strconv.Itoa(st.MaxGrade)},
		{model.SettingPassThreshold, strconv.Itoa(st.PassThreshold)},
		{model.SettingTargetAverage, strconv.FormatFloat(st.TargetAverage, 'f', -1, 64)},
	}
}

func saveSettings(x execer, st model.Settings) error {
	for _, p := range settingPairs(st) {
		if err := setSetting(x, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}
