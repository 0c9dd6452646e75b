package commands

import (
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	ordersArchiveOnly *bool
	ordersDetails     *bool
)

func init() {
	ordersArchiveOnly = ordersCmd.Flags().Bool("archive-only", false, "Skip the live page and read only the archive.")
	ordersDetails = ordersCmd.Flags().Bool("details", false, "Fetch each order's detail page for line items and shipping address.")
	rootCmd.AddCommand(ordersCmd)
}

var ordersCmd = &cobra.Command{
	Use:   "orders [--archive-only] [--details]",
	Short: "Lists every order, newest first, live page then archive.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx, readConfig())
		defer client.Close(ctx)

		seq := client.Orders(ctx)
		if *ordersArchiveOnly {
			seq = client.ArchiveOrders(ctx)
		}
		if *ordersDetails {
			seq = client.OrdersWithDetails(ctx)
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(os.Stdout)
		header := table.Row{"Order", "Date", "Customer", "Status", "Subtotal", "Tax", "Total"}
		if *ordersDetails {
			header = append(header, "Items")
		}
		tbl.AppendHeader(header)

		count := 0
		for order, err := range seq {
			if err != nil {
				slog.Warn("skipping order", "err", err)
				continue
			}
			row := table.Row{
				order.Id,
				order.OrderDate.Format("2006-01-02"),
				order.CustomerName,
				order.Status,
				order.Subtotal.StringFixed(2),
				order.Tax.StringFixed(2),
				order.Total.StringFixed(2),
			}
			if *ordersDetails {
				row = append(row, len(order.LineItems))
			}
			tbl.AppendRow(row)
			count++
		}
		tbl.Render()
		slog.Info("orders listed", "count", count)
	},
}
