package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventTypeUpcoming = "upcoming"
	EventTypePast     = "past"
	EventTypeToday    = "today"
)

// StatusHappeningToday is how EventTypeToday is surfaced to clients.
const StatusHappeningToday = "happening today"

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Date        time.Time          `bson:"date" json:"date"`
	Time        string             `bson:"time" json:"time"`
	Venue       string             `bson:"venue" json:"venue"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	TicketLink  string             `bson:"ticketLink" json:"ticketLink"`
	YouTubeLink string             `bson:"youtubeLink" json:"youtubeLink"`
	EventType   string             `bson:"eventType" json:"eventType"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Classify assigns an event date one of the three event types relative
// to now. Calendar days are compared with the time of day stripped, so
// an event at 09:00 still counts as "today" at 23:00. An event earlier
// today is "today", not "past".
func Classify(date, now time.Time) string {
	if sameDay(date, now) {
		return EventTypeToday
	}
	if date.Before(now) {
		return EventTypePast
	}
	return EventTypeUpcoming
}

// DisplayStatus is the read-time status attached to API responses. The
// stored EventType is only a cached hint stamped at write time and
// refreshed by the bulk sweep; responses always recompute.
func (e *Event) DisplayStatus(now time.Time) string {
	switch Classify(e.Date, now) {
	case EventTypeToday:
		return StatusHappeningToday
	case EventTypePast:
		return EventTypePast
	default:
		return EventTypeUpcoming
	}
}

// Stamp recomputes the stored EventType, as done before every persisted
// write.
func (e *Event) Stamp(now time.Time) {
	e.EventType = Classify(e.Date, now)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
