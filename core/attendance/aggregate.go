package attendance

import "math"

// Summarize reduces a set of reconciled records into counts, an attendance
// rate and total logged hours. Pure and idempotent; an empty input yields a
// zeroed summary, never a division error.
func Summarize(scope string, records []Record) Summary {
	s := Summary{Scope: scope, TotalPeople: len(records)}

	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			s.PresentCount++
		case StatusAbsent:
			s.AbsentCount++
		case StatusLate:
			s.LateCount++
		default:
			s.UnmarkedCount++
		}

		if rec.Quality != "" {
			s.DataIssues++
		}

		// records missing either time contribute no hours
		if rec.EntryTime != nil && rec.ExitTime != nil {
			hours := rec.ExitTime.Sub(*rec.EntryTime).Hours()
			if hours < 0 {
				// exit before entry is a data error; clamp and flag
				hours = 0
				s.DataIssues++
			}
			s.TotalHours += hours
			if rec.Person.IsStaff() {
				s.StaffHours += hours
			}
		}
	}

	if s.TotalPeople > 0 {
		attended := float64(s.PresentCount + s.LateCount)
		s.AttendanceRatePercent = int(math.Round(attended / float64(s.TotalPeople) * 100))
	}
	return s
}
