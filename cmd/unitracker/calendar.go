package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/unitracker/internal/calendar"
	appI18n "github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
	"github.com/pavelanni/unitracker/internal/store"
)

var whenLayouts = []string{model.DateTimeLayout, "2006-01-02T15:04", "2006-01-02 15:04", model.DateLayout}

// parseWhen accepts a date or a date with a wall-clock time. Times carry no
// zone and are kept as UTC.
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q (want YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
}

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Study calendar: events, exam dates and sessions",
	}
	cmd.AddCommand(calendarMonthCmd(), calendarListCmd(), calendarAddCmd(), calendarDeleteCmd(), calendarICSCmd())
	return cmd
}

func calendarMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			now := time.Now()
			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("invalid month %q (want YYYY-MM)", args[0])
				}
				year, month = t.Year(), t.Month()
			}
			events, err := a.db.EventsForMonth(year, month)
			if err != nil {
				return err
			}
			sessions, err := a.db.SessionsForMonth(year, month)
			if err != nil {
				return err
			}
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			g := calendar.Month(year, month, events, sessions, today)
			return a.printGrid(g, events)
		}),
	}
}

func (a *app) printGrid(g calendar.Grid, events []model.CalendarEvent) error {
	fmt.Fprintf(a.out, "%s %d\n", appI18n.T(a.ctx, fmt.Sprintf("Month_%d", int(g.Month))), g.Year)
	tw := a.table()
	fmt.Fprintln(tw, appI18n.T(a.ctx, "Weekdays"))
	for _, week := range g.Weeks {
		cells := make([]string, 0, 7)
		for _, d := range week {
			if !d.InMonth {
				cells = append(cells, "")
				continue
			}
			cell := fmt.Sprintf("%2d", d.Date.Day())
			if d.Today {
				cell = "[" + cell + "]"
			}
			if len(d.Events) > 0 {
				cell += "*"
			}
			if d.InSession() {
				cell += "s"
			}
			cells = append(cells, cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	fmt.Fprintln(a.out)
	return a.printEvents(events)
}

func (a *app) printEvents(events []model.CalendarEvent) error {
	tw := a.table()
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		appI18n.T(a.ctx, "ColID"), appI18n.T(a.ctx, "ColWhen"), appI18n.T(a.ctx, "ColType"),
		appI18n.T(a.ctx, "ColTitle"), appI18n.T(a.ctx, "ColLocation"))
	for _, ev := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			ev.ID, whenString(ev), appI18n.T(a.ctx, "EventType_"+string(ev.Type)), ev.Title, ev.Location)
	}
	return tw.Flush()
}

func whenString(ev model.CalendarEvent) string {
	if ev.AllDay {
		if ev.End.Format(model.DateLayout) == ev.Start.Format(model.DateLayout) {
			return ev.Start.Format("02/01/2006")
		}
		return ev.Start.Format("02/01/2006") + " - " + ev.End.Format("02/01/2006")
	}
	return ev.Start.Format("02/01/2006 15:04") + " - " + ev.End.Format("15:04")
}

func calendarListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			var f model.EventFilter
			if s := a.v.GetString("from"); s != "" {
				t, err := parseWhen(s)
				if err != nil {
					return err
				}
				f.From = t
			}
			if s := a.v.GetString("to"); s != "" {
				t, err := parseWhen(s)
				if err != nil {
					return err
				}
				f.To = t
			}
			f.Type = model.EventType(a.v.GetString("type"))
			f.ExamID = a.v.GetInt64("exam")
			events, err := a.db.ListEvents(f)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				a.say("NoEvents", nil)
				return nil
			}
			return a.printEvents(events)
		}),
	}
	f := cmd.Flags()
	f.String("from", "", "Only events ending on or after this date")
	f.String("to", "", "Only events starting before this date")
	f.String("type", "", "Only events of this type")
	f.Int64("exam", 0, "Only events linked to this exam ID")
	return cmd
}

func calendarAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a calendar event",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, _ []string) error {
			start, err := parseWhen(a.v.GetString("start"))
			if err != nil {
				return err
			}
			end := start
			if s := a.v.GetString("end"); s != "" {
				if end, err = parseWhen(s); err != nil {
					return err
				}
			} else if !a.v.GetBool("all-day") {
				end = start.Add(time.Hour)
			}
			ev := model.CalendarEvent{
				Title:       strings.TrimSpace(a.v.GetString("title")),
				Type:        model.EventType(a.v.GetString("type")),
				Start:       start,
				End:         end,
				AllDay:      a.v.GetBool("all-day"),
				Location:    a.v.GetString("location"),
				Description: a.v.GetString("description"),
				Color:       a.v.GetString("color"),
			}
			if cmd.Flags().Changed("exam") {
				e, err := a.mustExam(a.v.GetString("exam"))
				if err != nil {
					return err
				}
				ev.ExamID = &e.ID
			}
			if err := a.check.Struct(a.ctx, ev); err != nil {
				return err
			}
			id, err := a.db.AddEvent(ev)
			if err != nil {
				return err
			}
			a.say("EventAdded", map[string]any{"ID": id, "Title": ev.Title})
			return nil
		}),
	}
	f := cmd.Flags()
	f.String("title", "", "Event title")
	f.String("type", string(model.EventStudy), "Event type (exam, study, deadline, meeting, session, holiday, other)")
	f.String("start", "", "Start, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	f.String("end", "", "End, defaults to one hour after start")
	f.Bool("all-day", false, "All-day event")
	f.String("location", "", "Location")
	f.String("description", "", "Description")
	f.String("color", "", "Display colour (#rrggbb)")
	f.String("exam", "", "Link the event to this exam ID")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func calendarDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteEvent(id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return errors.New(appI18n.Td(a.ctx, "EventNotFound", map[string]any{"ID": id}))
				}
				return err
			}
			a.say("EventDeleted", map[string]any{"ID": id})
			return nil
		}),
	}
}

func calendarICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export events as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			events, err := a.db.ListEvents(model.EventFilter{})
			if err != nil {
				return err
			}
			return a.writeOutput(a.v.GetString("output"), func(w io.Writer) error {
				return calendar.WriteICS(w, events)
			})
		}),
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	return cmd
}

// writeOutput writes to path, or to the command output when path is empty.
func (a *app) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(a.out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.say("Written", map[string]any{"Path": path})
	return nil
}
