package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pavelanni/unitracker/internal/model"
)

const (
	icsDate     = "20060102"
	icsDateTime = "20060102T150405"
	icsStamp    = "20060102T150405Z"
	// Content lines longer than this many octets are folded.
	icsLineLimit = 75
)

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// icsText escapes a TEXT value. Invalid UTF-8 becomes U+FFFD.
func icsText(s string) string {
	return icsEscaper.Replace(strings.ToValidUTF8(s, "\uFFFD"))
}

type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(name, value string) {
	if iw.err != nil {
		return
	}
	l := name + ":" + value
	var b strings.Builder
	limit := icsLineLimit
	for len(l) > limit {
		cut := limit
		// Never split a UTF-8 sequence.
		for cut > 0 && l[cut]&0xC0 == 0x80 {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		b.WriteString(l[:cut])
		b.WriteString("\r\n ")
		l = l[cut:]
		// Continuation lines start with a space.
		limit = icsLineLimit - 1
	}
	b.WriteString(l)
	b.WriteString("\r\n")
	_, iw.err = io.WriteString(iw.w, b.String())
}

// WriteICS writes events as an iCalendar (RFC 5545) VCALENDAR. Event times
// are written as floating local times; all-day events use DATE values with
// an exclusive end.
func WriteICS(w io.Writer, events []model.CalendarEvent) error {
	iw := &icsWriter{w: w}
	iw.line("BEGIN", "VCALENDAR")
	iw.line("VERSION", "2.0")
	iw.line("PRODID", "-//unitracker//study calendar//EN")
	iw.line("CALSCALE", "GREGORIAN")
	for _, ev := range events {
		writeEvent(iw, ev)
	}
	iw.line("END", "VCALENDAR")
	if iw.err != nil {
		return fmt.Errorf("write ics: %w", iw.err)
	}
	return nil
}

func writeEvent(iw *icsWriter, ev model.CalendarEvent) {
	stamp := ev.UpdatedAt
	if stamp.IsZero() {
		stamp = ev.Start
	}
	uid := ev.UID
	if uid == "" {
		uid = fmt.Sprintf("event-%d", ev.ID)
	}

	iw.line("BEGIN", "VEVENT")
	iw.line("UID", uid+"@unitracker")
	iw.line("DTSTAMP", stamp.UTC().Format(icsStamp))
	if ev.AllDay {
		iw.line("DTSTART;VALUE=DATE", ev.Start.Format(icsDate))
		iw.line("DTEND;VALUE=DATE", allDayEnd(ev).Format(icsDate))
	} else {
		iw.line("DTSTART", ev.Start.Format(icsDateTime))
		iw.line("DTEND", ev.End.Format(icsDateTime))
	}
	iw.line("SUMMARY", icsText(ev.Title))
	if ev.Location != "" {
		iw.line("LOCATION", icsText(ev.Location))
	}
	if ev.Description != "" {
		iw.line("DESCRIPTION", icsText(ev.Description))
	}
	iw.line("CATEGORIES", strings.ToUpper(string(ev.Type)))
	iw.line("END", "VEVENT")
}

func allDayEnd(ev model.CalendarEvent) time.Time {
	y, m, d := ev.End.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
