package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

var testDate = time.Date(2021, time.March, 8, 0, 0, 0, 0, time.UTC)

type fakeSchoolAPI struct {
	roster []attendance.Person
	events []attendance.Event
}

func (f *fakeSchoolAPI) FetchRoster(_ context.Context, _ string, _ time.Time) ([]attendance.Person, error) {
	return f.roster, nil
}

func (f *fakeSchoolAPI) FetchDayEvents(_ context.Context, _ string, date time.Time) ([]attendance.Event, error) {
	var evs []attendance.Event
	for _, ev := range f.events {
		if attendance.SameDay(ev.Date, date) {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (f *fakeSchoolAPI) FetchMonthEvents(_ context.Context, _ string, year int, month time.Month) ([]attendance.Event, error) {
	var evs []attendance.Event
	for _, ev := range f.events {
		if ev.Date.Year() == year && ev.Date.Month() == month {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (f *fakeSchoolAPI) RecordMark(_ context.Context, _ attendance.Mark) error { return nil }

func setup(t *testing.T, api *fakeSchoolAPI) (*commandLine, *bytes.Buffer) {
	t.Helper()

	conf := &core.Config{
		Attendance: core.AttendanceConfig{LateThreshold: "09:00"},
	}
	svc, err := attendance.NewService(api, api, api, conf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	out := new(bytes.Buffer)
	return &commandLine{svc: svc, out: out}, out
}

func testEvent(personID string, kind attendance.EventKind, ts time.Time) attendance.Event {
	return attendance.Event{
		PersonID:  personID,
		Date:      attendance.DateOf(ts),
		Kind:      kind,
		Timestamp: ts,
		ActorName: "Ms. Kalala",
		ActorRole: attendance.RoleTeacher,
		Source:    attendance.SourceManual,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string // substrings expected in the output
}

func Test_commandLine_monthReport(t *testing.T) {
	nowFunc = func() time.Time { return testDate }
	t.Cleanup(func() { nowFunc = time.Now })

	api := &fakeSchoolAPI{
		roster: []attendance.Person{
			{ID: "s-1", Name: "Amani", ScopeID: "branch-1", Role: attendance.RoleStudent},
			{ID: "s-2", Name: "Bahati", ScopeID: "branch-1", Role: attendance.RoleStudent},
		},
		events: []attendance.Event{
			testEvent("s-1", attendance.KindEntry, testDate.Add(8*time.Hour)),
			testEvent("s-1", attendance.KindEntry, testDate.AddDate(0, 0, 1).Add(9*time.Hour+30*time.Minute)),
			testEvent("s-2", attendance.KindAbsent, testDate.Add(7*time.Hour)),
		},
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no scope", args: []string{"monthreport"}, wantErr: errHelp},
		{name: "invalid month", args: []string{"monthreport", "-scope", "branch-1", "-month", "13"}, wantErrStr: "invalid month 13; expected 1-12"},
		{
			name:    "report",
			args:    []string{"monthreport", "-scope", "branch-1"},
			wantOut: []string{"Attendance for scope branch-1, March 2021 (2 people)", "DAYS 1-31", "Amani", "Bahati"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t, api)

			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func Test_commandLine_monthReport_cells(t *testing.T) {
	api := &fakeSchoolAPI{
		roster: []attendance.Person{
			{ID: "s-1", Name: "Amani", ScopeID: "branch-1", Role: attendance.RoleStudent},
		},
		events: []attendance.Event{
			// day 8 present, day 9 late, day 10 absent
			testEvent("s-1", attendance.KindEntry, testDate.Add(8*time.Hour)),
			testEvent("s-1", attendance.KindEntry, testDate.AddDate(0, 0, 1).Add(9*time.Hour+30*time.Minute)),
			testEvent("s-1", attendance.KindAbsent, testDate.AddDate(0, 0, 2).Add(7*time.Hour)),
		},
	}
	cli, out := setup(t, api)

	if err := cli.monthReport("branch-1", 2021, time.March); err != nil {
		t.Fatalf("monthReport() failed: %v", err)
	}
	// days 1-7 have no data at all, then present, late, absent
	if want := ".......PLA"; !strings.Contains(out.String(), want) {
		t.Errorf("output missing cell run %q:\n%s", want, out.String())
	}
}

func Test_commandLine_daySummary(t *testing.T) {
	nowFunc = func() time.Time { return testDate }
	t.Cleanup(func() { nowFunc = time.Now })

	api := &fakeSchoolAPI{
		roster: []attendance.Person{
			{ID: "s-1", Name: "Amani", ScopeID: "branch-1", Role: attendance.RoleStudent},
			{ID: "s-2", Name: "Bahati", ScopeID: "branch-1", Role: attendance.RoleStudent},
		},
		events: []attendance.Event{
			testEvent("s-1", attendance.KindEntry, testDate.Add(8*time.Hour)),
		},
	}

	tests := []cliTest{
		{name: "no scope", args: []string{"daysummary"}, wantErr: errHelp},
		{name: "invalid date", args: []string{"daysummary", "-scope", "branch-1", "-date", "lol"}, wantErrStr: `invalid date "lol"; expected YYYY-MM-DD`},
		{
			name:    "summary for today",
			args:    []string{"daysummary", "-scope", "branch-1"},
			wantOut: []string{"Attendance summary for scope branch-1 on 2021-03-08", "People:   2", "Present:  1", "Attendance rate: 50%"},
		},
		{
			name:    "summary for an explicit date",
			args:    []string{"daysummary", "-scope", "branch-1", "-date", "2021-03-09"},
			wantOut: []string{"on 2021-03-09", "Present:  0", "Attendance rate: 0%"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t, api)

			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}
