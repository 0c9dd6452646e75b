package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verifies that the configured credentials can authenticate.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx, readConfig())
		defer client.Close(ctx)
		slog.Info("login ok", "baseUrl", client.BaseUrl.String())
	},
}
