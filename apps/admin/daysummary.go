package main

import (
	"context"
	"fmt"
	"time"
)

func (cli *commandLine) daySummary(scope string, date time.Time) error {
	s, err := cli.svc.Summary(context.Background(), scope, date)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cli.out, "Attendance summary for scope %s on %s\n", s.Scope, date.Format("2006-01-02"))
	_, _ = fmt.Fprintf(cli.out, "  People:   %d\n", s.TotalPeople)
	_, _ = fmt.Fprintf(cli.out, "  Present:  %d\n", s.PresentCount)
	_, _ = fmt.Fprintf(cli.out, "  Late:     %d\n", s.LateCount)
	_, _ = fmt.Fprintf(cli.out, "  Absent:   %d\n", s.AbsentCount)
	_, _ = fmt.Fprintf(cli.out, "  Unmarked: %d\n", s.UnmarkedCount)
	_, _ = fmt.Fprintf(cli.out, "  Attendance rate: %d%%\n", s.AttendanceRatePercent)
	if s.TotalHours > 0 {
		_, _ = fmt.Fprintf(cli.out, "  Hours logged:    %.2f\n", s.TotalHours)
	}
	if s.StaffHours > 0 {
		_, _ = fmt.Fprintf(cli.out, "  Staff hours:     %.2f\n", s.StaffHours)
	}
	if s.DataIssues > 0 {
		_, _ = fmt.Fprintf(cli.out, "  Data issues:     %d\n", s.DataIssues)
	}
	return nil
}
