package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
)

// grid cell letters
const (
	cellPresent  = "P"
	cellLate     = "L"
	cellAbsent   = "A"
	cellUnmarked = "-"
	cellNoData   = "." // day without any data; distinct from an unmarked day
)

// monthReport prints one row per roster member with a letter per calendar day.
func (cli *commandLine) monthReport(scope string, year int, month time.Month) error {
	grids, err := cli.svc.Month(context.Background(), scope, year, month)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cli.out, "Attendance for scope %s, %s %d (%d people)\n\n", scope, month, year, len(grids))

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "NAME\tROLE\tDAYS 1-%d\tP\tL\tA\n", attendance.DaysInMonth(year, month))
	for _, g := range grids {
		var row strings.Builder
		var present, late, absent int
		for _, cell := range g.Cells {
			switch {
			case cell == nil:
				row.WriteString(cellNoData)
			case cell.Status == attendance.StatusPresent:
				row.WriteString(cellPresent)
				present++
			case cell.Status == attendance.StatusLate:
				row.WriteString(cellLate)
				late++
			case cell.Status == attendance.StatusAbsent:
				row.WriteString(cellAbsent)
				absent++
			default:
				row.WriteString(cellUnmarked)
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", g.Person.Name, g.Person.Role, row.String(), present, late, absent)
	}
	return w.Flush()
}
