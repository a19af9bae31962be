package attendance

import "time"

// dayEvents holds the winning event per kind for one person on one date.
type dayEvents struct {
	entry  *Event
	exit   *Event
	absent *Event
}

// keep retains the latest-timestamped event per kind; earlier duplicates are
// superseded corrections and are discarded.
func (de *dayEvents) keep(ev Event) {
	var slot **Event
	switch ev.Kind {
	case KindEntry:
		slot = &de.entry
	case KindExit:
		slot = &de.exit
	case KindAbsent:
		slot = &de.absent
	default:
		return
	}
	if *slot == nil || ev.Timestamp.After((*slot).Timestamp) {
		cp := ev
		*slot = &cp
	}
}

// attribution resolves the event whose actor gets the "marked by" credit:
// the entry tap if one exists, else the absent override, else the exit.
func (de *dayEvents) attribution() *Event {
	if de.entry != nil {
		return de.entry
	}
	if de.absent != nil {
		return de.absent
	}
	return de.exit
}

func (de *dayEvents) source() string {
	if ev := de.attribution(); ev != nil {
		return ev.Source
	}
	return ""
}

// Reconcile merges a roster with sparse events into exactly one Record per
// roster member for the given date, in roster order. Events referencing
// persons absent from the roster are stale or cross-scope and are ignored.
// Missing events are the expected common case, not an error.
func Reconcile(roster []Person, events []Event, date time.Time, lateCutoff TimeOfDay) []Record {
	date = DateOf(date)

	byPerson := make(map[string]*dayEvents, len(roster))
	for _, ev := range events {
		if !DateOf(ev.Date).Equal(date) {
			continue
		}
		de, ok := byPerson[ev.PersonID]
		if !ok {
			de = &dayEvents{}
			byPerson[ev.PersonID] = de
		}
		de.keep(ev)
	}

	records := make([]Record, 0, len(roster))
	for _, person := range roster {
		rec := Record{
			Person: person,
			Date:   date,
			Status: StatusUnmarked,
		}
		if de, ok := byPerson[person.ID]; ok {
			rec.Status = Classify(de.entry, de.exit, de.absent, lateCutoff)
			if de.entry != nil {
				t := de.entry.Timestamp
				rec.EntryTime = &t
			}
			if de.exit != nil {
				t := de.exit.Timestamp
				rec.ExitTime = &t
			}
			if de.entry == nil && de.absent == nil && de.exit != nil {
				rec.Quality = QualityExitWithoutEntry
			}
			rec.MarkedBy = Attribute(de.attribution())
			rec.Source = de.source()
		}
		records = append(records, rec)
	}
	return records
}
