package schoolapi

import (
	"bytes"
	"strconv"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
)

const dateFormat = "2006-01-02"

// envelope is the school service's response wrapper. `data` is kept raw so a
// malformed body degrades to an empty result set instead of a hard failure.
type envelope struct {
	Success bool          `json:"success"`
	Data    jsonRawOrNull `json:"data"`
	Message string        `json:"message"`
}

type jsonRawOrNull []byte

func (r *jsonRawOrNull) UnmarshalJSON(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}

// flexID tolerates identifiers sent as either JSON strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if string(b) == "null" {
		*id = ""
		return nil
	}
	*id = flexID(b)
	return nil
}

// personPayload models a roster entry. Different upstream endpoints key the
// same person under different field names; canonicalID normalizes them before
// anything reaches the reconciliation core.
type personPayload struct {
	ID          flexID `json:"id"`
	StudentID   flexID `json:"student_id"`
	UserID      flexID `json:"user_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	ScopeID     flexID `json:"scope_id"`
	BranchID    flexID `json:"branch_id"`
	Role        string `json:"role"`
}

func (p personPayload) canonicalID() string {
	for _, id := range []flexID{p.ID, p.StudentID, p.UserID} {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

func (p personPayload) toPerson() attendance.Person {
	name := p.Name
	if name == "" {
		name = p.DisplayName
	}
	scope := string(p.ScopeID)
	if scope == "" {
		scope = string(p.BranchID)
	}
	role := p.Role
	if role == "" {
		role = attendance.RoleStudent
	}
	return attendance.Person{
		ID:      p.canonicalID(),
		Name:    name,
		ScopeID: scope,
		Role:    role,
	}
}

// eventPayload models a recorded attendance event. The guardian relationship
// tag appears as either `relationship` or `guardian_type` upstream.
type eventPayload struct {
	ID           flexID `json:"id"`
	PersonID     flexID `json:"person_id"`
	StudentID    flexID `json:"student_id"`
	UserID       flexID `json:"user_id"`
	Date         string `json:"date"`
	Kind         string `json:"kind"`
	Timestamp    string `json:"timestamp"`
	ActorName    string `json:"actor_name"`
	ActorRole    string `json:"actor_role"`
	Relationship string `json:"relationship"`
	GuardianType string `json:"guardian_type"`
	Source       string `json:"source"`
}

func (p eventPayload) canonicalID() string {
	for _, id := range []flexID{p.PersonID, p.StudentID, p.UserID} {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

// toEvent converts the payload to the core's fully-typed representation.
// ok is false when required fields cannot be made sense of.
func (p eventPayload) toEvent() (attendance.Event, bool) {
	personID := p.canonicalID()
	if personID == "" {
		return attendance.Event{}, false
	}

	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		// epoch seconds show up in some legacy payloads
		secs, serr := strconv.ParseInt(p.Timestamp, 10, 64)
		if serr != nil {
			return attendance.Event{}, false
		}
		ts = time.Unix(secs, 0).UTC()
	}

	date := ts
	if p.Date != "" {
		if d, derr := time.Parse(dateFormat, p.Date); derr == nil {
			date = d
		}
	}

	relationship := p.Relationship
	if relationship == "" {
		relationship = p.GuardianType
	}

	return attendance.Event{
		ID:           string(p.ID),
		PersonID:     personID,
		Date:         attendance.DateOf(date),
		Kind:         attendance.EventKind(p.Kind),
		Timestamp:    ts,
		ActorName:    p.ActorName,
		ActorRole:    p.ActorRole,
		Relationship: relationship,
		Source:       p.Source,
	}, true
}

// markPayload is the body posted to the mark endpoint. The idempotency key
// lets the upstream service collapse client retries.
type markPayload struct {
	PersonID       string `json:"person_id"`
	Scope          string `json:"scope"`
	Date           string `json:"date"`
	Kind           string `json:"kind"`
	ActorName      string `json:"actor_name"`
	ActorRole      string `json:"actor_role,omitempty"`
	Relationship   string `json:"relationship,omitempty"`
	Source         string `json:"source,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}
