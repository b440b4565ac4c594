package model

import (
	"github.com/uptrace/bun"
)

// One value of a repeatable (or extension) property. Rows with a blank
// EventID belong to the calendar itself.
type Property struct {
	bun.BaseModel `bun:"table:properties"`

	ID         int64  `bun:"id,pk,autoincrement"`
	CalendarID string `bun:"calendar_id,notnull"` // required
	EventID    string `bun:"event_id,notnull"`
	Name       string `bun:"name,notnull"` // required
	Value      string `bun:"value,notnull"`
	Position   int    `bun:"position,notnull"`
}

// Property names used for repeatable VEVENT properties.
const (
	PropRRule      = "RRULE"
	PropAttach     = "ATTACH"
	PropAttendee   = "ATTENDEE"
	PropCategories = "CATEGORIES"
	PropComment    = "COMMENT"
	PropContact    = "CONTACT"
	PropExDate     = "EXDATE"
	PropRStatus    = "REQUEST-STATUS"
	PropRelatedTo  = "RELATED-TO"
	PropResources  = "RESOURCES"
	PropRDate      = "RDATE"
)
