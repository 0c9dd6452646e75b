package commands

import (
	"log/slog"
	"os"

	"jamberry-workstation/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	customersVolumes *bool
	customersRaw     *bool
)

func init() {
	customersVolumes = customersCmd.Flags().Bool("volumes", false, "Query the volume API instead of the full export.")
	customersRaw = customersCmd.Flags().Bool("raw", false, "Dump the CSV export to stdout without parsing.")
	rootCmd.AddCommand(customersCmd)
}

var customersCmd = &cobra.Command{
	Use:   "customers [--volumes]",
	Short: "Lists every customer from the client angel export.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx, readConfig())
		defer client.Close(ctx)

		if *customersRaw {
			data, err := client.FetchCustomersCSV(ctx)
			if err != nil {
				serviceutil.Fatal("failed to fetch customer export", err)
			}
			os.Stdout.Write(data)
			return
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(os.Stdout)
		tbl.AppendHeader(table.Row{"Id", "Name", "Email", "Type", "Sponsor RV", "Sponsor QV"})

		if *customersVolumes {
			customers, err := client.CustomerVolumes(ctx)
			if err != nil {
				serviceutil.Fatal("failed to fetch customer volumes", err)
			}
			for _, c := range customers {
				tbl.AppendRow(table.Row{
					c.Id, c.Name, c.Email, c.Type,
					c.SponsorRV.StringFixed(2), c.SponsorQV.StringFixed(2),
				})
			}
			tbl.Render()
			return
		}

		count := 0
		for c, err := range client.Customers(ctx) {
			if err != nil {
				slog.Warn("skipping customer row", "err", err)
				continue
			}
			tbl.AppendRow(table.Row{
				c.Id, c.Name, c.Email, c.Type,
				c.SponsorRV.StringFixed(2), c.SponsorQV.StringFixed(2),
			})
			count++
		}
		tbl.Render()
		slog.Info("customers listed", "count", count)
	},
}
