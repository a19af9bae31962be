package attendance

import "time"

// DaysInMonth returns the number of civil days in (year, month).
// Day 0 of the next month normalizes to the last day of this one, which makes
// leap-year February and the December rollover fall out of the stdlib.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Project expands one person's reconciled records for a month into a
// fixed-width grid with exactly one cell per calendar day. Days with no
// matching record stay nil; nil is "no data", not "absent".
func Project(person Person, year int, month time.Month, records []Record) Grid {
	grid := Grid{
		Person: person,
		Year:   year,
		Month:  month,
		Cells:  make([]*Record, DaysInMonth(year, month)),
	}
	for i := range records {
		rec := records[i]
		if rec.Person.ID != person.ID {
			continue
		}
		y, m, d := rec.Date.Date()
		if y != year || m != month {
			continue
		}
		grid.Cells[d-1] = &rec
	}
	return grid
}
