package attendance

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: TimeOfDay{9, 0}},
		{in: "23:59", want: TimeOfDay{23, 59}},
		{in: "00:00", want: TimeOfDay{0, 0}},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	cutoff := MustTimeOfDay("09:00")
	onTime := entryEvent("1", at(8, 55))
	late := entryEvent("1", at(9, 15))
	exit := exitEvent("1", at(16, 0))
	absent := absentEvent("1", at(10, 0))

	tests := []struct {
		name   string
		entry  *Event
		exit   *Event
		absent *Event
		want   Status
	}{
		{name: "no events", want: StatusUnmarked},
		{name: "entry before cutoff", entry: &onTime, want: StatusPresent},
		{name: "entry after cutoff", entry: &late, want: StatusLate},
		{name: "entry and exit", entry: &onTime, exit: &exit, want: StatusPresent},
		{name: "exit only still counts as present", exit: &exit, want: StatusPresent},
		{name: "absent override wins over entry", entry: &onTime, absent: &absent, want: StatusAbsent},
		{name: "absent override wins over late", entry: &late, absent: &absent, want: StatusAbsent},
		{name: "absent override wins over exit", exit: &exit, absent: &absent, want: StatusAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.entry, tt.exit, tt.absent, cutoff); got != tt.want {
				t.Errorf("Classify() = %s; want %s", got, tt.want)
			}
		})
	}
}

// the comparison is time-of-day only; the date component must not matter
func TestTimeOfDay_IsAfter_ignoresDate(t *testing.T) {
	cutoff := MustTimeOfDay("09:00")

	yearsApart := []time.Time{
		time.Date(1999, time.December, 31, 9, 15, 0, 0, time.UTC),
		time.Date(2030, time.June, 1, 9, 15, 0, 0, time.UTC),
	}
	for _, ts := range yearsApart {
		if !cutoff.IsAfter(ts) {
			t.Errorf("IsAfter(%v) = false; want true", ts)
		}
	}

	if cutoff.IsAfter(time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)) {
		t.Error("09:00 sharp should not be late")
	}
}
