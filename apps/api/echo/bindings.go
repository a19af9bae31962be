package echoapi

import (
	"strconv"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

const queryDateFormat = "2006-01-02"

var nowFunc = time.Now // mockable

// DayQuery binds the scope + date query pair shared by the daily endpoints.
// An omitted date means today.
type DayQuery struct {
	Scope string `query:"scope"`
	Date  string `query:"date"`
}

func (q *DayQuery) Clean() (string, time.Time, error) {
	scope := core.CleanString(q.Scope)
	if scope == "" {
		return "", time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "scope", Error: "this field is required"})
	}
	if q.Date == "" {
		return scope, nowFunc().UTC(), nil
	}
	date, err := time.Parse(queryDateFormat, q.Date)
	if err != nil {
		return "", time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date; expected YYYY-MM-DD"})
	}
	return scope, date, nil
}

// MonthQuery binds the scope + year + month triple for the monthly grid.
type MonthQuery struct {
	Scope string `query:"scope"`
	Year  string `query:"year"`
	Month string `query:"month"`
}

func (q *MonthQuery) Clean() (string, int, time.Month, error) {
	scope := core.CleanString(q.Scope)
	if scope == "" {
		return "", 0, 0, core.NewValidationError(nil, core.FieldError{Field: "scope", Error: "this field is required"})
	}
	year, err := strconv.Atoi(q.Year)
	if err != nil || year < 1 {
		return "", 0, 0, core.NewValidationError(nil, core.FieldError{Field: "year", Error: "invalid year"})
	}
	month, err := strconv.Atoi(q.Month)
	if err != nil || month < 1 || month > 12 {
		return "", 0, 0, core.NewValidationError(nil, core.FieldError{Field: "month", Error: "invalid month; expected 1-12"})
	}
	return scope, year, time.Month(month), nil
}
