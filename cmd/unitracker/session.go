package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appI18n "github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
	"github.com/pavelanni/unitracker/internal/store"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage academic exam sessions",
	}
	cmd.AddCommand(sessionAddCmd(), sessionListCmd(), sessionDeleteCmd())
	return cmd
}

func sessionAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exam session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			start, err := time.Parse(model.DateLayout, a.v.GetString("start"))
			if err != nil {
				return fmt.Errorf("parse start: %w", err)
			}
			end, err := time.Parse(model.DateLayout, a.v.GetString("end"))
			if err != nil {
				return fmt.Errorf("parse end: %w", err)
			}
			as := model.AcademicSession{
				Name:        strings.TrimSpace(a.v.GetString("name")),
				Start:       start,
				End:         end,
				Description: a.v.GetString("description"),
				Color:       a.v.GetString("color"),
			}
			if err := a.check.Struct(a.ctx, as); err != nil {
				return err
			}
			id, err := a.db.AddSession(as)
			if err != nil {
				return err
			}
			a.say("SessionAdded", map[string]any{"ID": id, "Name": as.Name})
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringP("name", "n", "", "Session name")
	f.String("start", "", "First day (YYYY-MM-DD)")
	f.String("end", "", "Last day (YYYY-MM-DD)")
	f.String("description", "", "Description")
	f.String("color", "", "Display colour (#rrggbb)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List exam sessions",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			sessions, err := a.db.ListSessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				a.say("NoSessions", nil)
				return nil
			}
			tw := a.table()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				appI18n.T(a.ctx, "ColID"), appI18n.T(a.ctx, "ColName"),
				appI18n.T(a.ctx, "ColFrom"), appI18n.T(a.ctx, "ColTo"))
			for _, s := range sessions {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					s.ID, s.Name, s.Start.Format("02/01/2006"), s.End.Format("02/01/2006"))
			}
			return tw.Flush()
		}),
	}
}

func sessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an exam session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteSession(id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return errors.New(appI18n.Td(a.ctx, "SessionNotFound", map[string]any{"ID": id}))
				}
				return err
			}
			a.say("SessionDeleted", map[string]any{"ID": id})
			return nil
		}),
	}
}
