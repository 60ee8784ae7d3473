package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/msgraph"
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Microsoft 365 integration",
}

var outlookLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Microsoft Graph so reminders can be sent from your mailbox",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := msgraph.NewAuth(cfg.Outlook.TenantID, cfg.Outlook.ClientID, "", logger)
		if err != nil {
			return err
		}
		if err := auth.Login(cmd.Context(), os.Stdout); err != nil {
			return err
		}
		fmt.Println(`Signed in. Set "mail.transport" to "graph" to send reminders through Outlook.`)
		return nil
	},
}

func init() {
	outlookCmd.AddCommand(outlookLoginCmd)
}
