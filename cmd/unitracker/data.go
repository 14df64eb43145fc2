package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pavelanni/unitracker/internal/model"
)

// dataFormat picks json or yaml from the flag, then from the file extension.
func dataFormat(flag, path string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			f = "yaml"
		default:
			f = "json"
		}
	}
	if f != "json" && f != "yaml" {
		return "", fmt.Errorf("unknown format %q (want json or yaml)", flag)
	}
	return f, nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole career as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			path := a.v.GetString("output")
			format, err := dataFormat(a.v.GetString("format"), path)
			if err != nil {
				return err
			}
			data, err := a.db.Snapshot()
			if err != nil {
				return err
			}
			return a.writeOutput(path, func(w io.Writer) error {
				if format == "yaml" {
					enc := yaml.NewEncoder(w)
					enc.SetIndent(2)
					if err := enc.Encode(data); err != nil {
						return fmt.Errorf("encode yaml: %w", err)
					}
					return enc.Close()
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			})
		}),
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "Output file (default stdout)")
	f.StringP("format", "f", "", "json or yaml (default from the file extension, else json)")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all data with an export file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			format, err := dataFormat(a.v.GetString("format"), args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var data model.CareerExport
			if format == "yaml" {
				err = yaml.Unmarshal(raw, &data)
			} else {
				err = json.Unmarshal(raw, &data)
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if err := a.checkImport(data); err != nil {
				return err
			}
			if err := a.db.Restore(data); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			a.say("Imported", map[string]any{
				"Exams":    len(data.Exams),
				"Events":   len(data.Events),
				"Sessions": len(data.Sessions),
			})
			return nil
		}),
	}
	cmd.Flags().StringP("format", "f", "", "json or yaml (default from the file extension)")
	return cmd
}

// checkImport validates every record before anything is replaced.
func (a *app) checkImport(data model.CareerExport) error {
	if err := a.check.Struct(a.ctx, data.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	for _, e := range data.Exams {
		if err := a.check.Exam(a.ctx, e, data.Settings); err != nil {
			return fmt.Errorf("exam %d (%s): %w", e.ID, e.Name, err)
		}
	}
	for _, ev := range data.Events {
		if err := a.check.Struct(a.ctx, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", ev.ID, ev.Title, err)
		}
	}
	for _, s := range data.Sessions {
		if err := a.check.Struct(a.ctx, s); err != nil {
			return fmt.Errorf("session %d (%s): %w", s.ID, s.Name, err)
		}
	}
	return nil
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup PATH",
		Short: "Write a consistent copy of the database",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, _ *cobra.Command, args []string) error {
			if err := a.db.Backup(args[0]); err != nil {
				return err
			}
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			a.say("BackupWritten", map[string]any{"Path": args[0], "Size": humanize.Bytes(uint64(info.Size()))})
			return nil
		}),
	}
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record and restore default settings",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			if !a.v.GetBool("yes") {
				a.say("ResetConfirm", nil)
				return nil
			}
			if err := a.db.Reset(); err != nil {
				return err
			}
			a.say("ResetDone", nil)
			return nil
		}),
	}
	cmd.Flags().Bool("yes", false, "Confirm the reset")
	return cmd
}
