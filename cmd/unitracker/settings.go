package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	appI18n "github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the degree settings",
		Args:  cobra.NoArgs,
		RunE:  withApp(runSettingsShow),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the degree settings (default)",
		Args:  cobra.NoArgs,
		RunE:  withApp(runSettingsShow),
	}, &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Long: "Change one setting. Keys: " + strings.Join([]string{
			model.SettingDegreeName, model.SettingTotalCredits, model.SettingMaxGrade,
			model.SettingPassThreshold, model.SettingTargetAverage,
		}, ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: withApp(runSettingsSet),
	})
	return cmd
}

func runSettingsShow(a *app, _ *cobra.Command, _ []string) error {
	st := a.settings
	tw := a.table()
	rows := []struct{ k, v string }{
		{model.SettingDegreeName, st.DegreeName},
		{model.SettingTotalCredits, strconv.Itoa(st.TotalCredits)},
		{model.SettingMaxGrade, strconv.Itoa(st.MaxGrade)},
		{model.SettingPassThreshold, strconv.Itoa(st.PassThreshold)},
		{model.SettingTargetAverage, a.num(st.TargetAverage)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t(%s)\n", appI18n.T(a.ctx, "Setting_"+r.k), r.v, r.k)
	}
	return tw.Flush()
}

func runSettingsSet(a *app, _ *cobra.Command, args []string) error {
	st, err := applySetting(a.settings, args[0], args[1])
	if err != nil {
		return err
	}
	if err := a.check.Struct(a.ctx, st); err != nil {
		return err
	}
	if err := a.db.SaveSettings(st); err != nil {
		return err
	}
	a.settings = st
	a.say("SettingSaved", map[string]any{"Key": args[0], "Value": args[1]})
	return nil
}

// applySetting returns st with key set to the parsed value.
func applySetting(st model.Settings, key, value string) (model.Settings, error) {
	value = strings.TrimSpace(value)
	var err error
	switch key {
	case model.SettingDegreeName:
		st.DegreeName = value
	case model.SettingTotalCredits:
		st.TotalCredits, err = strconv.Atoi(value)
	case model.SettingMaxGrade:
		st.MaxGrade, err = strconv.Atoi(value)
	case model.SettingPassThreshold:
		st.PassThreshold, err = strconv.Atoi(value)
	case model.SettingTargetAverage:
		st.TargetAverage, err = strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	default:
		return st, fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return st, fmt.Errorf("setting %s: invalid value %q", key, value)
	}
	return st, nil
}
