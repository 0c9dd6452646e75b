package commands

import (
	"os"

	"jamberry-workstation/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var productKeys *string

func init() {
	productKeys = productsCmd.Flags().String("keys", "", "Search keys to sweep the catalog with, one query per rune.")
	rootCmd.AddCommand(productsCmd)
}

var productsCmd = &cobra.Command{
	Use:   "products [--keys aeiou]",
	Short: "Sweeps the retail catalog search and lists every product found.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx, readConfig())
		defer client.Close(ctx)

		products, err := client.SearchProducts(ctx, *productKeys)
		if err != nil {
			serviceutil.Fatal("failed to search products", err)
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(os.Stdout)
		tbl.AppendHeader(table.Row{"Sku", "Title", "Price", "Retail", "In Stock", "On Sale"})
		for _, p := range products {
			tbl.AppendRow(table.Row{
				p.Sku, p.Title,
				p.Price.StringFixed(2), p.RetailPrice.StringFixed(2),
				p.InStock, p.OnSale,
			})
		}
		tbl.Render()
	},
}
