package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleStaff   = "staff"
)

// Status is the reconciled state of a person for a day. It is always computed,
// never taken verbatim from an event.
type Status string

const (
	StatusPresent  Status = "present"
	StatusAbsent   Status = "absent"
	StatusLate     Status = "late"
	StatusUnmarked Status = "unmarked"
)

// EventKind discriminates recorded attendance actions.
type EventKind string

const (
	KindEntry  EventKind = "entry"
	KindExit   EventKind = "exit"
	KindAbsent EventKind = "absent" // explicit same-slot absent override
)

// Event capture sources
const (
	SourceManual   = "manual"
	SourceQR       = "qr"
	SourceGuardian = "guardian"
)

// Data-quality flags; anomalies are tolerated and surfaced, never rejected.
const (
	QualityExitWithoutEntry = "exit-without-entry"
	QualityNegativeDuration = "negative-duration"
)

// Person is a roster member, keyed by ID for merging. The engine never mutates it.
type Person struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ScopeID string `json:"scope_id"` // branch or class
	Role    string `json:"role"`
}

func (p Person) IsStaff() bool {
	return p.Role == RoleTeacher || p.Role == RoleStaff
}

// Event is a single recorded attendance action for a person on a date.
// Zero, one or two (entry + exit) usually exist per person per day;
// duplicates are superseded corrections.
type Event struct {
	ID           string    `json:"id"`
	PersonID     string    `json:"person_id"`
	Date         time.Time `json:"date"` // midnight UTC
	Kind         EventKind `json:"kind"`
	Timestamp    time.Time `json:"timestamp"`
	ActorName    string    `json:"actor_name"`
	ActorRole    string    `json:"actor_role"`
	Relationship string    `json:"relationship,omitempty"` // guardian tag, e.g. "Mother"
	Source       string    `json:"source,omitempty"`
}

// Record is the reconciled daily state of one roster member.
// Exactly one exists per (person, date) pair in any reconciled result set.
type Record struct {
	Person    Person     `json:"person"`
	Date      time.Time  `json:"date"`
	Status    Status     `json:"status"`
	EntryTime *time.Time `json:"entry_time,omitempty"`
	ExitTime  *time.Time `json:"exit_time,omitempty"`
	MarkedBy  string     `json:"marked_by,omitempty"`
	Source    string     `json:"source,omitempty"`
	Quality   string     `json:"quality,omitempty"`
}

// Grid is a fixed-width monthly projection: one cell per calendar day.
// A nil cell means "no data", which is distinct from an explicit absent.
type Grid struct {
	Person Person     `json:"person"`
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Cells  []*Record  `json:"cells"`
}

// Summary aggregates a set of reconciled records. Recomputed on demand, never cached.
type Summary struct {
	Scope                 string  `json:"scope"`
	TotalPeople           int     `json:"total_people"`
	PresentCount          int     `json:"present_count"`
	AbsentCount           int     `json:"absent_count"`
	LateCount             int     `json:"late_count"`
	UnmarkedCount         int     `json:"unmarked_count"`
	AttendanceRatePercent int     `json:"attendance_rate_percent"`
	TotalHours            float64 `json:"total_hours"`
	StaffHours            float64 `json:"staff_hours"`
	DataIssues            int     `json:"data_issues"`
}

// Mark contains information needed to record a new attendance event.
// Actor identity is always supplied explicitly by the caller.
type Mark struct {
	PersonID     string    `json:"person_id" validate:"required"`
	Scope        string    `json:"scope" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	Kind         EventKind `json:"kind" validate:"required,oneof=entry exit absent"`
	ActorName    string    `json:"actor_name" validate:"required"`
	ActorRole    string    `json:"actor_role"`
	Relationship string    `json:"relationship"`
	Source       string    `json:"source" validate:"omitempty,oneof=manual qr guardian"`
}

func (m *Mark) Validate(validate *validator.Validate) error {
	m.PersonID = core.CleanString(m.PersonID)
	m.Scope = core.CleanString(m.Scope)
	m.ActorName = core.CleanString(m.ActorName)
	m.ActorRole = core.CleanString(m.ActorRole)
	m.Relationship = core.CleanString(m.Relationship)
	m.Date = DateOf(m.Date)
	if m.Source == "" {
		m.Source = SourceManual
	}
	return validate.Struct(m)
}

// DateOf truncates `t` to its civil date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same civil date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
