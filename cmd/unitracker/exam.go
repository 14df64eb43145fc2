package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appI18n "github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
	"github.com/pavelanni/unitracker/internal/store"
)

func examCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Manage exam records",
	}
	cmd.AddCommand(examAddCmd(), examListCmd(), examShowCmd(), examUpdateCmd(), examDeleteCmd(), examScheduleCmd())
	return cmd
}

func examFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("name", "n", "", "Exam name")
	f.IntP("credits", "c", 6, "Credits (CFU)")
	f.StringP("status", "s", string(model.StatusPlanned), "Status (passed, failed, planned)")
	f.Float64P("grade", "g", 0, "Grade, required for passed exams")
	f.StringP("date", "d", "", "Exam date (YYYY-MM-DD)")
	f.String("notes", "", "Free-form notes")
}

func examAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exam",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			e := model.Exam{
				Name:    strings.TrimSpace(a.v.GetString("name")),
				Credits: a.v.GetInt("credits"),
				Status:  model.ExamStatus(a.v.GetString("status")),
				Notes:   a.v.GetString("notes"),
			}
			if f.Changed("grade") {
				g := a.v.GetFloat64("grade")
				e.Grade = &g
			}
			if d := a.v.GetString("date"); d != "" {
				t, err := time.Parse(model.DateLayout, d)
				if err != nil {
					return fmt.Errorf("parse date: %w", err)
				}
				e.Date = &t
			}
			if err := a.check.Exam(a.ctx, e, a.settings); err != nil {
				return err
			}
			id, err := a.db.AddExam(e)
			if err != nil {
				return err
			}
			a.say("ExamAdded", map[string]any{"ID": id, "Name": e.Name})
			return nil
		}),
	}
	examFlags(cmd)
	return cmd
}

func examListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exams, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			status := model.ExamStatus(a.v.GetString("status"))
			if status != "" && !status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			exams, err := a.db.ListExams(status)
			if err != nil {
				return err
			}
			if len(exams) == 0 {
				a.say("NoExams", nil)
				return nil
			}
			tw := a.table()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				appI18n.T(a.ctx, "ColID"), appI18n.T(a.ctx, "ColName"), appI18n.T(a.ctx, "ColCredits"),
				appI18n.T(a.ctx, "ColGrade"), appI18n.T(a.ctx, "ColStatus"), appI18n.T(a.ctx, "ColDate"))
			for _, e := range exams {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
					e.ID, e.Name, e.Credits, a.gradeString(e), a.statusString(e.Status), e.DateString())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, appI18n.Tp(a.ctx, "ExamCount", len(exams)))
			return nil
		}),
	}
	cmd.Flags().StringP("status", "s", "", "Only list exams with this status")
	return cmd
}

func (a *app) gradeString(e model.Exam) string {
	if e.Grade == nil {
		return "-"
	}
	return strconv.FormatFloat(*e.Grade, 'f', -1, 64)
}

func (a *app) statusString(s model.ExamStatus) string {
	switch s {
	case model.StatusPassed:
		return appI18n.T(a.ctx, "StatusPassed")
	case model.StatusFailed:
		return appI18n.T(a.ctx, "StatusFailed")
	case model.StatusPlanned:
		return appI18n.T(a.ctx, "StatusPlanned")
	}
	return string(s)
}

// mustExam loads an exam or reports it missing.
func (a *app) mustExam(arg string) (*model.Exam, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	e, err := a.db.GetExam(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errors.New(appI18n.Td(a.ctx, "ExamNotFound", map[string]any{"ID": id}))
	}
	return e, nil
}

func examShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one exam",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			e, err := a.mustExam(args[0])
			if err != nil {
				return err
			}
			tw := a.table()
			rows := []struct{ k, v string }{
				{"ColID", strconv.FormatInt(e.ID, 10)},
				{"ColName", e.Name},
				{"ColCredits", strconv.Itoa(e.Credits)},
				{"ColGrade", a.gradeString(*e)},
				{"ColStatus", a.statusString(e.Status)},
				{"ColDate", e.DateString()},
				{"ColNotes", e.Notes},
			}
			for _, r := range rows {
				fmt.Fprintf(tw, "%s:\t%s\n", appI18n.T(a.ctx, r.k), r.v)
			}
			return tw.Flush()
		}),
	}
}

func examUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an exam",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			e, err := a.mustExam(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var u model.ExamUpdate
			if f.Changed("name") {
				name := strings.TrimSpace(a.v.GetString("name"))
				u.Name, e.Name = &name, name
			}
			if f.Changed("credits") {
				c := a.v.GetInt("credits")
				u.Credits, e.Credits = &c, c
			}
			if f.Changed("status") {
				s := model.ExamStatus(a.v.GetString("status"))
				u.Status, e.Status = &s, s
			}
			if f.Changed("grade") {
				g := a.v.GetFloat64("grade")
				u.Grade, e.Grade = &g, &g
			}
			if a.v.GetBool("clear-grade") || (u.Status != nil && *u.Status != model.StatusPassed && u.Grade == nil) {
				u.ClearGrade, e.Grade = true, nil
			}
			if f.Changed("date") {
				d, err := time.Parse(model.DateLayout, a.v.GetString("date"))
				if err != nil {
					return fmt.Errorf("parse date: %w", err)
				}
				u.Date, e.Date = &d, &d
			}
			if f.Changed("notes") {
				n := a.v.GetString("notes")
				u.Notes, e.Notes = &n, n
			}
			if err := a.check.Exam(a.ctx, *e, a.settings); err != nil {
				return err
			}
			if err := a.db.UpdateExam(e.ID, u); err != nil {
				return err
			}
			a.say("ExamUpdated", map[string]any{"ID": e.ID})
			return nil
		}),
	}
	examFlags(cmd)
	cmd.Flags().Bool("clear-grade", false, "Remove the stored grade")
	return cmd
}

func examDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an exam with its pins and calendar events",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteExam(id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return errors.New(appI18n.Td(a.ctx, "ExamNotFound", map[string]any{"ID": id}))
				}
				return err
			}
			a.say("ExamDeleted", map[string]any{"ID": id})
			return nil
		}),
	}
}

func examScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule ID",
		Short: "Put an exam on the calendar",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			e, err := a.mustExam(args[0])
			if err != nil {
				return err
			}
			ev, err := a.db.ScheduleExam(e.ID, time.Now())
			if errors.Is(err, store.ErrAlreadyScheduled) {
				return errors.New(appI18n.Td(a.ctx, "ExamAlreadyScheduled", map[string]any{"Name": e.Name}))
			}
			if err != nil {
				return err
			}
			a.say("ExamScheduled", map[string]any{"Name": e.Name, "Date": ev.Start.Format("02/01/2006")})
			return nil
		}),
	}
}
