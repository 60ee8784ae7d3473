package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	settingsTimezone      string
	settingsContract      string
	settingsClerkEmail    string
	settingsNotifications string
	settingsReminders     string
	settingsFormat        string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change your account settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your settings",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, tr *tracker.Tracker, _ []string) error {
		st, err := tr.Settings(ctx, cfg.UserID)
		if err != nil {
			return err
		}
		if settingsFormat == "json" {
			return writeJSON(os.Stdout, st)
		}
		return writeYAML(os.Stdout, st)
	}),
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings; only the given flags are updated",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSet,
}

func init() {
	settingsShowCmd.Flags().StringVar(&settingsFormat, "format", "yaml", "Output format: yaml, json")

	f := settingsSetCmd.Flags()
	f.StringVar(&settingsTimezone, "timezone", "", "IANA timezone, e.g. Australia/Sydney (empty for system zone)")
	f.StringVar(&settingsContract, "contract", "", "Weekly contracted hours, e.g. 37h30m")
	f.StringVar(&settingsClerkEmail, "clerk-email", "", "Account e-mail address")
	f.StringVar(&settingsNotifications, "notifications-email", "", "Address for reminders, used when no account address is set")
	f.StringVar(&settingsReminders, "reminders", "", "Weekly reminder e-mails: on or off")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	var in tracker.SettingsInput
	flags := cmd.Flags()
	if flags.Changed("timezone") {
		in.Timezone = &settingsTimezone
	}
	if flags.Changed("contract") {
		h, m, err := timecalc.ParseHoursMinutes(settingsContract)
		if err != nil {
			return fmt.Errorf("%w: --contract: %v", tracker.ErrInvalidInput, err)
		}
		in.Contract = &model.ContractBaseline{WeeklyHours: h, WeeklyMinutes: m}
	}
	if flags.Changed("clerk-email") {
		in.ClerkEmail = &settingsClerkEmail
	}
	if flags.Changed("notifications-email") {
		in.NotificationsEmail = &settingsNotifications
	}
	if flags.Changed("reminders") {
		var on bool
		switch settingsReminders {
		case "on", "true", "yes":
			on = true
		case "off", "false", "no":
		default:
			return fmt.Errorf("%w: --reminders must be on or off", tracker.ErrInvalidInput)
		}
		in.RemindersEnabled = &on
	}

	return withTracker(func(ctx context.Context, tr *tracker.Tracker, _ []string) error {
		st, err := tr.UpdateSettings(ctx, cfg.UserID, in)
		if err != nil {
			return err
		}
		fmt.Println("Settings saved.")
		return writeYAML(os.Stdout, st)
	})(cmd, args)
}
