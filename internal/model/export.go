package model

import "time"

// ExportVersion is bumped whenever CareerExport changes incompatibly.
const ExportVersion = 1

// CareerExport is the top-level structure for JSON and YAML export/import.
type CareerExport struct {
	Version    int               `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Settings   Settings          `json:"settings" yaml:"settings"`
	Exams      []Exam            `json:"exams" yaml:"exams"`
	Events     []CalendarEvent   `json:"events" yaml:"events"`
	Sessions   []AcademicSession `json:"sessions" yaml:"sessions"`
	Pins       []TargetPin       `json:"pins,omitempty" yaml:"pins,omitempty"`
}

// TargetPin is a grade the student pinned for a planned exam on the targets
// view. Pins are kept between runs so that re-solving honours them.
type TargetPin struct {
	ExamID int64   `json:"exam_id" yaml:"exam_id"`
	Grade  float64 `json:"grade" yaml:"grade"`
}
