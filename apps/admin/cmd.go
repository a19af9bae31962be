package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
)

var (
	nowFunc = time.Now // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc attendance.ServiceInterface
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  daysummary -scope SCOPE [-date YYYY-MM-DD]    - print the attendance summary for a day")
	fmt.Fprintln(cli.out, "  monthreport -scope SCOPE [-year Y] [-month M] - print the per-person attendance grid for a month")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	now := nowFunc().UTC()

	daySummaryCmd := flag.NewFlagSet("daysummary", flag.ExitOnError)
	daySummaryScope := daySummaryCmd.String("scope", "", "The branch or class scope to summarize.")
	daySummaryDate := daySummaryCmd.String("date", "", "The day to summarize (YYYY-MM-DD). Defaults to today.")

	monthReportCmd := flag.NewFlagSet("monthreport", flag.ExitOnError)
	monthReportScope := monthReportCmd.String("scope", "", "The branch or class scope to report on.")
	monthReportYear := monthReportCmd.Int("year", now.Year(), "The report year. Defaults to the current year.")
	monthReportMonth := monthReportCmd.Int("month", int(now.Month()), "The report month (1-12). Defaults to the current month.")

	switch args[1] {
	case "daysummary":
		if err := daySummaryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *daySummaryScope == "" {
			daySummaryCmd.Usage()
			return errHelp
		}
		date := now
		if *daySummaryDate != "" {
			var err error
			if date, err = time.Parse("2006-01-02", *daySummaryDate); err != nil {
				return fmt.Errorf("invalid date %q; expected YYYY-MM-DD", *daySummaryDate)
			}
		}
		return cli.daySummary(*daySummaryScope, date)
	case "monthreport":
		if err := monthReportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *monthReportScope == "" {
			monthReportCmd.Usage()
			return errHelp
		}
		if *monthReportMonth < 1 || *monthReportMonth > 12 {
			return fmt.Errorf("invalid month %d; expected 1-12", *monthReportMonth)
		}
		return cli.monthReport(*monthReportScope, *monthReportYear, time.Month(*monthReportMonth))
	default:
		cli.printUsage()
		return errHelp
	}
}
