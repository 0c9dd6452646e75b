package commands

import (
	"log/slog"
	"os"
	"time"

	"jamberry-workstation/lib/activitystore"
	"jamberry-workstation/lib/scrapers/workstation"
	"jamberry-workstation/lib/serviceutil"
	"jamberry-workstation/lib/sqliteutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	activityDb     *string
	activityYear   *int
	activityMonth  *int
	activityLevels *int
	activityLegacy *bool
	activityRaw    *bool
)

func init() {
	activityDb = activityCmd.Flags().String("db", "", "Record snapshots into this sqlite database.")
	activityYear = activityCmd.Flags().Int("year", 0, "Reporting year, defaults to the current one.")
	activityMonth = activityCmd.Flags().Int("month", 0, "Reporting month, defaults to the current one.")
	activityLevels = activityCmd.Flags().Int("levels", 0, "Downline levels to include, 0 means all.")
	activityLegacy = activityCmd.Flags().Bool("legacy", false, "Parse the pre-2017 export column layout.")
	activityRaw = activityCmd.Flags().Bool("raw", false, "Dump the CSV export to stdout without parsing.")
	rootCmd.AddCommand(activityCmd)
}

var activityCmd = &cobra.Command{
	Use:   "activity [--db <path/to/snapshots.db>]",
	Short: "Downloads the team activity report for one reporting period.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx, readConfig())
		defer client.Close(ctx)

		req := workstation.TARRequest{
			Year:   *activityYear,
			Month:  time.Month(*activityMonth),
			Levels: *activityLevels,
		}
		if *activityRaw {
			data, err := client.FetchTAR(ctx, req)
			if err != nil {
				serviceutil.Fatal("failed to fetch team activity report", err)
			}
			os.Stdout.Write(data)
			return
		}

		version := workstation.TARCurrent
		if *activityLegacy {
			version = workstation.TARLegacy
		}
		seq, err := client.TeamActivity(ctx, version, req)
		if err != nil {
			serviceutil.Fatal("failed to fetch team activity report", err)
		}

		var rows []workstation.TeamActivityRow
		for row, err := range seq {
			if err != nil {
				slog.Warn("skipping activity row", "err", err)
				continue
			}
			rows = append(rows, row)
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(os.Stdout)
		tbl.AppendHeader(table.Row{"Id", "Name", "Level", "Title", "Status", "RV", "QV", "Downline"})
		for _, row := range rows {
			tbl.AppendRow(table.Row{
				row.Consultant.Id,
				row.Consultant.FullName(),
				row.Consultant.DownlineLevel,
				row.Activity.CurrentTitle.Name,
				row.Activity.Status,
				row.Activity.RV.StringFixed(2),
				row.Activity.QV.StringFixed(2),
				row.Activity.DownlineCount,
			})
		}
		tbl.Render()

		if *activityDb != "" {
			db, err := sqliteutil.OpenDB(activitystore.Schema, *activityDb)
			if err != nil {
				serviceutil.Fatal("failed to open snapshot db", err)
			}
			defer db.Close()

			store := activitystore.NewStore(db)
			err = store.Push(ctx, activitystore.PushRequest{
				Time: time.Now(),
				Rows: rows,
			})
			if err != nil {
				serviceutil.Fatal("failed to record snapshots", err)
			}
			slog.Info("recorded activity snapshots", "rows", len(rows), "db", *activityDb)
		}
	},
}
