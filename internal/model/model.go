package model

import "time"

// DateLayout is the storage and display layout for calendar dates.
const DateLayout = "2006-01-02"

// DateTimeLayout is the storage layout for event start and end times.
const DateTimeLayout = "2006-01-02T15:04:05"

// ExamStatus represents where an exam is in a student's career.
type ExamStatus string

const (
	StatusPassed  ExamStatus = "passed"
	StatusFailed  ExamStatus = "failed"
	StatusPlanned ExamStatus = "planned"
)

// Valid reports whether s is one of the known statuses.
func (s ExamStatus) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusPlanned:
		return true
	}
	return false
}

// Exam is a single course exam record.
type Exam struct {
	ID        int64      `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name" validate:"notblank,max=200"`
	Credits   int        `json:"credits" yaml:"credits" validate:"gt=0,lte=60"`
	Grade     *float64   `json:"grade,omitempty" yaml:"grade,omitempty"`
	Status    ExamStatus `json:"status" yaml:"status" validate:"required,oneof=passed failed planned"`
	Date      *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty" validate:"max=2000"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
}

// HasGrade reports whether the exam carries a usable grade.
func (e Exam) HasGrade() bool {
	return e.Status == StatusPassed && e.Grade != nil
}

// GradeValue returns the grade, or 0 when absent.
func (e Exam) GradeValue() float64 {
	if e.Grade == nil {
		return 0
	}
	return *e.Grade
}

// DateString formats the exam date, or returns "" when unset.
func (e Exam) DateString() string {
	if e.Date == nil {
		return ""
	}
	return e.Date.Format(DateLayout)
}

// ExamUpdate carries a partial update. Nil fields keep their current value.
type ExamUpdate struct {
	Name    *string
	Credits *int
	Grade   *float64
	Status  *ExamStatus
	Date    *time.Time
	Notes   *string

	// ClearGrade drops the stored grade, e.g. when an exam goes back to planned.
	ClearGrade bool
}

// EventType categorizes calendar events.
type EventType string

const (
	EventExam     EventType = "exam"
	EventStudy    EventType = "study"
	EventDeadline EventType = "deadline"
	EventMeeting  EventType = "meeting"
	EventSession  EventType = "session"
	EventHoliday  EventType = "holiday"
	EventOther    EventType = "other"
)

// EventTypes lists every event type in display order.
var EventTypes = []EventType{EventExam, EventStudy, EventDeadline, EventMeeting, EventSession, EventHoliday, EventOther}

var eventColors = map[EventType]string{
	EventExam:     "#f5222d",
	EventStudy:    "#1890ff",
	EventDeadline: "#fa8c16",
	EventMeeting:  "#722ed1",
	EventSession:  "#52c41a",
	EventHoliday:  "#eb2f96",
	EventOther:    "#595959",
}

// DefaultColor returns the display colour for an event type.
func (t EventType) DefaultColor() string {
	if c, ok := eventColors[t]; ok {
		return c
	}
	return eventColors[EventOther]
}

// CalendarEvent is an entry on the study calendar, optionally tied to an exam.
type CalendarEvent struct {
	ID          int64     `json:"id" yaml:"id"`
	UID         string    `json:"uid" yaml:"uid"`
	ExamID      *int64    `json:"exam_id,omitempty" yaml:"exam_id,omitempty"`
	Title       string    `json:"title" yaml:"title" validate:"notblank,max=200"`
	Type        EventType `json:"type" yaml:"type" validate:"required,oneof=exam study deadline meeting session holiday other"`
	Start       time.Time `json:"start" yaml:"start" validate:"required"`
	End         time.Time `json:"end" yaml:"end" validate:"required,gtefield=Start"`
	AllDay      bool      `json:"all_day" yaml:"all_day"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty" validate:"max=200"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" validate:"max=2000"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// DisplayColor returns the event colour, falling back to the type default.
func (e CalendarEvent) DisplayColor() string {
	if e.Color != "" {
		return e.Color
	}
	return e.Type.DefaultColor()
}

// EventFilter narrows ListEvents. Zero values mean no filtering on that field.
type EventFilter struct {
	From   time.Time // events ending at or after From
	To     time.Time // events starting before To
	Type   EventType
	ExamID int64
}

// AcademicSession is an exam period, e.g. "Sessione invernale 2025".
type AcademicSession struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name" validate:"notblank,max=200"`
	Start       time.Time `json:"start" yaml:"start" validate:"required"`
	End         time.Time `json:"end" yaml:"end" validate:"required,gtefield=Start"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" validate:"max=2000"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Contains reports whether day falls inside the session, inclusive.
func (s AcademicSession) Contains(day time.Time) bool {
	d := day.Format(DateLayout)
	return d >= s.Start.Format(DateLayout) && d <= s.End.Format(DateLayout)
}

// Setting keys stored in the settings table.
const (
	SettingDegreeName    = "degree_name"
	SettingTotalCredits  = "total_credits"
	SettingMaxGrade      = "max_grade"
	SettingPassThreshold = "pass_threshold"
	SettingTargetAverage = "target_average"
)

// Settings holds the degree configuration. TargetAverage is on the 110 scale.
type Settings struct {
	DegreeName    string  `json:"degree_name" yaml:"degree_name" validate:"notblank"`
	TotalCredits  int     `json:"total_credits" yaml:"total_credits" validate:"gt=0"`
	MaxGrade      int     `json:"max_grade" yaml:"max_grade" validate:"gt=0"`
	PassThreshold int     `json:"pass_threshold" yaml:"pass_threshold" validate:"gt=0,ltfield=MaxGrade"`
	TargetAverage float64 `json:"target_average" yaml:"target_average" validate:"gt=0,lte=110"`
}

// DefaultSettings returns the values seeded into a new database.
func DefaultSettings() Settings {
	return Settings{
		DegreeName:    "Computer Science",
		TotalCredits:  180,
		MaxGrade:      30,
		PassThreshold: 18,
		TargetAverage: 100,
	}
}
