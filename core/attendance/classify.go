package attendance

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// TimeOfDay is a wall-clock cutoff. Comparisons ignore the date component of
// timestamps so a branch's cutoff survives timezone-date mismatches.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, errors.Wrapf(err, "parsing time of day %q", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustTimeOfDay is ParseTimeOfDay for trusted literals; it panics on bad input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// IsAfter reports whether the wall-clock part of `ts` is strictly past the cutoff.
func (t TimeOfDay) IsAfter(ts time.Time) bool {
	return ts.Hour()*60+ts.Minute() > t.Hour*60+t.Minute
}

// Classify resolves a person's daily status from their (possibly nil) winning
// events. Precedence when signals conflict: absent override > late > present > unmarked.
// An exit with no entry still classifies present; the caller flags it.
func Classify(entry, exit, absent *Event, lateCutoff TimeOfDay) Status {
	if absent != nil {
		return StatusAbsent
	}
	if entry != nil {
		if lateCutoff.IsAfter(entry.Timestamp) {
			return StatusLate
		}
		return StatusPresent
	}
	if exit != nil {
		// historical exit implies an unlogged entry; a data-quality issue, not a failure
		return StatusPresent
	}
	return StatusUnmarked
}
