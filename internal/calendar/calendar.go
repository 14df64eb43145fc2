// Package calendar lays out the study calendar: month grids, exam events
// and iCalendar export.
package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/unitracker/internal/model"
)

// Day is one cell of a month grid.
type Day struct {
	Date     time.Time
	InMonth  bool
	Today    bool
	Events   []model.CalendarEvent
	Sessions []model.AcademicSession
}

// InSession reports whether the day falls inside any academic session.
func (d Day) InSession() bool {
	return len(d.Sessions) > 0
}

// Grid is a month laid out in Monday-first weeks. Leading and trailing days
// from the neighbouring months fill the first and last week.
type Grid struct {
	Year  int
	Month time.Month
	Weeks [][7]Day
}

// Month builds the grid for year/month, placing every event on each day it
// spans and marking session membership.
func Month(year int, month time.Month, events []model.CalendarEvent, sessions []model.AcademicSession, today time.Time) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	daysInMonth := first.AddDate(0, 1, -1).Day()
	weeks := (offset + daysInMonth + 6) / 7

	todayKey := today.Format(model.DateLayout)
	g := Grid{Year: year, Month: month, Weeks: make([][7]Day, weeks)}
	cursor := first.AddDate(0, 0, -offset)
	for w := range g.Weeks {
		for d := 0; d < 7; d++ {
			key := cursor.Format(model.DateLayout)
			day := Day{
				Date:    cursor,
				InMonth: cursor.Month() == month,
				Today:   key == todayKey,
			}
			for _, ev := range events {
				if ev.Start.Format(model.DateLayout) <= key && key <= ev.End.Format(model.DateLayout) {
					day.Events = append(day.Events, ev)
				}
			}
			for _, s := range sessions {
				if s.Contains(cursor) {
					day.Sessions = append(day.Sessions, s)
				}
			}
			g.Weeks[w][d] = day
			cursor = cursor.AddDate(0, 0, 1)
		}
	}
	return g
}

// Bounds returns the first day of year/month and the first day of the next
// month.
func Bounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

const (
	examStartHour = 9
	examEndHour   = 11
	// defaultLeadDays places an undated exam this far in the future.
	defaultLeadDays = 30
)

// ExamEvent builds the calendar entry for sitting an exam: 09:00 to 11:00 on
// the exam date, or defaultLeadDays after now when the exam has no date.
func ExamEvent(e model.Exam, now time.Time) model.CalendarEvent {
	day := now.AddDate(0, 0, defaultLeadDays)
	if e.Date != nil {
		day = *e.Date
	}
	y, m, d := day.Date()
	id := e.ID
	return model.CalendarEvent{
		UID:         uuid.NewString(),
		ExamID:      &id,
		Title:       "Esame: " + e.Name,
		Type:        model.EventExam,
		Start:       time.Date(y, m, d, examStartHour, 0, 0, 0, time.UTC),
		End:         time.Date(y, m, d, examEndHour, 0, 0, 0, time.UTC),
		Description: fmt.Sprintf("Esame di %s - %d CFU", e.Name, e.Credits),
	}
}
