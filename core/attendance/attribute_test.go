package attendance

import "testing"

func TestAttribute(t *testing.T) {
	tests := []struct {
		name string
		ev   *Event
		want string
	}{
		{name: "no event", ev: nil, want: "N/A"},
		{name: "guardian relationship wins", ev: &Event{ActorName: "Jane", Relationship: "Mother", ActorRole: RoleStaff}, want: "Jane (Mother)"},
		{name: "actor role fallback", ev: &Event{ActorName: "Ms. Kalala", ActorRole: RoleTeacher}, want: "Ms. Kalala (teacher)"},
		{name: "name only", ev: &Event{ActorName: "Staff1"}, want: "Staff1 (N/A role)"},
		{name: "relationship without a name is useless", ev: &Event{Relationship: "Father"}, want: "N/A"},
		{name: "nothing", ev: &Event{}, want: "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Attribute(tt.ev); got != tt.want {
				t.Errorf("Attribute() = %q; want %q", got, tt.want)
			}
		})
	}
}
