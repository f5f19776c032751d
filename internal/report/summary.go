package report

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/inspex/inspex/internal/types"
)

// Summary is the per-severity breakdown printed after an export.
type Summary struct {
	Critical int
	High     int
	Other    int
}

// Summarize counts findings per severity bucket.
func Summarize(findings []types.Finding) Summary {
	var s Summary
	for _, f := range findings {
		switch f.Severity {
		case types.SevCritical:
			s.Critical++
		case types.SevHigh:
			s.High++
		default:
			s.Other++
		}
	}
	return s
}

// Total returns the number of findings behind the summary.
func (s Summary) Total() int {
	return s.Critical + s.High + s.Other
}

// PrintSummary renders the severity breakdown as a bordered table.
func PrintSummary(w io.Writer, s Summary) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{"Severity", "Findings"})
	rows := [][]string{
		{"CRITICAL", strconv.Itoa(s.Critical)},
		{"HIGH", strconv.Itoa(s.High)},
	}
	if s.Other > 0 {
		rows = append(rows, []string{"OTHER", strconv.Itoa(s.Other)})
	}
	rows = append(rows, []string{"TOTAL", strconv.Itoa(s.Total())})
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintList renders a one-column table; used by the profiles and regions
// subcommands.
func PrintList(w io.Writer, title string, items []string) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{title})
	for _, item := range items {
		if err := table.Append([]string{item}); err != nil {
			return err
		}
	}
	return table.Render()
}
