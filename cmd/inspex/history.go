package inspex

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/inspex/inspex/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past exports",
		RunE:  runHistory,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most this many records")
}

func runHistory(*cobra.Command, []string) error {
	hist, err := audit.NewLog()
	if err != nil {
		return err
	}
	records, err := hist.History()
	if err != nil {
		fmt.Fprintln(os.Stdout, "No exports recorded yet.")
		return nil
	}
	if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"When", "Profile", "Region", "Scenario", "Critical", "High", "File"})
	for _, rec := range records {
		row := []string{
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.Profile,
			rec.Region,
			rec.Scenario,
			strconv.Itoa(rec.Critical),
			strconv.Itoa(rec.High),
			rec.OutputFile,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
