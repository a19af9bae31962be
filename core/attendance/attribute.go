package attendance

import "fmt"

const attributionUnknown = "N/A"

// Attribute resolves a displayable "marked by / picked up by" label from an
// event's actor fields. Fallback order: guardian relationship, then actor
// role, then a fixed sentinel. Never fails.
func Attribute(ev *Event) string {
	if ev == nil {
		return attributionUnknown
	}
	switch {
	case ev.ActorName != "" && ev.Relationship != "":
		return fmt.Sprintf("%s (%s)", ev.ActorName, ev.Relationship)
	case ev.ActorName != "" && ev.ActorRole != "":
		return fmt.Sprintf("%s (%s)", ev.ActorName, ev.ActorRole)
	case ev.ActorName != "":
		return fmt.Sprintf("%s (%s role)", ev.ActorName, attributionUnknown)
	}
	return attributionUnknown
}
