package model

import "time"

// EventType classifies agenda events.
type EventType string

const (
	EventGira        EventType = "Gira"
	EventAtendimento EventType = "Atendimento"
	EventEstudo      EventType = "Estudo"
	EventMutirao     EventType = "Mutirão"
)

// ParseEventType coerces a stored value to a valid EventType, defaulting to EventGira.
func ParseEventType(value string) EventType {
	switch foldEnum(value) {
	case "atendimento":
		return EventAtendimento
	case "estudo":
		return EventEstudo
	case "mutirao":
		return EventMutirao
	default:
		return EventGira
	}
}

// Event is an agenda item members can attend.
type Event struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Type      EventType `json:"type"`
	Date      time.Time `json:"date"`
	Capacity  int       `json:"capacity"`
	Attendees int       `json:"attendees"`
}

// Clone returns a copy of e.
func (e Event) Clone() Event { return e }

// EventPatch carries the fields to change on an event.
type EventPatch struct {
	Title     *string
	Type      *EventType
	Date      *time.Time
	Capacity  *int
	Attendees *int
}

// Apply merges p over e.
func (p EventPatch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Type != nil {
		e.Type = ParseEventType(string(*p.Type))
	}
	if p.Date != nil {
		e.Date = NormalizeTime(p.Date)
	}
	if p.Capacity != nil {
		e.Capacity = nonNegative(*p.Capacity)
	}
	if p.Attendees != nil {
		e.Attendees = nonNegative(*p.Attendees)
	}
	return e
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
