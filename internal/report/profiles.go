package report

import (
	"io"
	"strconv"

	"digihealth/internal/profiling"

	"github.com/olekukonko/tablewriter"
)

// WriteProfiles renders column profiles as a console table.
func WriteProfiles(w io.Writer, profiles []profiling.ColumnProfile) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Count", "Mean", "Std", "Min", "Q25", "Median", "Q75", "Max", "Skew", "Outliers"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)

	for _, p := range profiles {
		table.Append([]string{
			p.Column.String(),
			strconv.Itoa(p.Count),
			FormatValue(p.Mean, 2),
			FormatValue(p.StdDev, 2),
			FormatValue(p.Min, 2),
			FormatValue(p.Q25, 2),
			FormatValue(p.Median, 2),
			FormatValue(p.Q75, 2),
			FormatValue(p.Max, 2),
			FormatValue(p.Skewness, 2),
			strconv.Itoa(p.Outliers),
		})
	}

	table.Render()
}
