package attendance

import (
	"fmt"
	"net/mail"
	texttmpl "text/template"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

var summaryReportTmpl = texttmpl.Must(texttmpl.New("summary_report").Parse(`Attendance summary for scope {{.Summary.Scope}} on {{.Date}}:

  People:   {{.Summary.TotalPeople}}
  Present:  {{.Summary.PresentCount}}
  Late:     {{.Summary.LateCount}}
  Absent:   {{.Summary.AbsentCount}}
  Unmarked: {{.Summary.UnmarkedCount}}

  Attendance rate: {{.Summary.AttendanceRatePercent}}%
{{- if gt .Summary.TotalHours 0.0}}
  Hours logged:    {{printf "%.2f" .Summary.TotalHours}}
{{- end}}
{{- if gt .Summary.StaffHours 0.0}}
  Staff hours:     {{printf "%.2f" .Summary.StaffHours}}
{{- end}}
{{- if gt .Summary.DataIssues 0}}

  {{.Summary.DataIssues}} record(s) carried tolerated data-quality issues.
{{- end}}
`))

type summaryReportData struct {
	Summary Summary
	Date    string
}

// SummaryReportEmail builds the daily summary report message for branch admins.
func SummaryReportEmail(s Summary, date time.Time, to []mail.Address) *core.EmailMessage {
	return &core.EmailMessage{
		To:       to,
		Subject:  fmt.Sprintf("Attendance summary: %s (%s)", s.Scope, date.Format("Mon, 02 Jan 2006")),
		Template: summaryReportTmpl,
		TemplateData: summaryReportData{
			Summary: s,
			Date:    date.Format("2006-01-02"),
		},
	}
}
