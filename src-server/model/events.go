package model

import (
	"fmt"
	"time"
	"vcal/src-server/ical"
	"vcal/src-server/ical/utils"

	"github.com/uptrace/bun"
)

// A stored VEVENT. Repeatable properties live in the properties table.
// Alarms aren't persisted.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	CalendarID string `bun:"calendar_id,pk"` // required
	ID         string `bun:"id,pk"`          // required, the UID
	Position   int    `bun:"position,notnull"`

	DTStampUnixUTC      int64  `bun:"dtstamp,notnull"` // required
	DTStartUnixUTC      *int64 `bun:"dtstart"`
	DTEndUnixUTC        *int64 `bun:"dtend"`
	CreatedUnixUTC      *int64 `bun:"created"`
	LastModifiedUnixUTC *int64 `bun:"last_modified"`
	RecurrenceIDUnixUTC *int64 `bun:"recurrence_id"`

	Duration    string   `bun:"duration"`
	Class       string   `bun:"class"`
	Summary     string   `bun:"summary"`
	Description string   `bun:"description"`
	Location    string   `bun:"location"`
	Organizer   string   `bun:"organizer"`
	URL         string   `bun:"url"`
	Status      string   `bun:"status"`
	Transp      string   `bun:"transp"`
	GeoLat      *float64 `bun:"geo_lat"`
	GeoLon      *float64 `bun:"geo_lon"`
	Priority    *int     `bun:"priority"`
	Sequence    *int     `bun:"sequence"`
}

// nil stands for an unset time, so the epoch itself survives a round trip.
func toUnix(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	unix := t.UTC().Unix()
	return &unix
}

func fromUnix(unix *int64) time.Time {
	if unix == nil {
		return time.Time{}
	}
	return time.Unix(*unix, 0).UTC()
}

// Flatten an ical.Event into its row plus one Property row per repeatable
// value.
func EventFromIcal(calendarID string, position int, e ical.Event) (*Event, []Property) {
	eventModel := &Event{
		CalendarID:          calendarID,
		ID:                  e.GetUID(),
		Position:            position,
		DTStampUnixUTC:      e.GetDTStamp().UTC().Unix(),
		DTStartUnixUTC:      toUnix(e.GetDTStart()),
		CreatedUnixUTC:      toUnix(e.GetCreated()),
		LastModifiedUnixUTC: toUnix(e.GetLastModified()),
		RecurrenceIDUnixUTC: toUnix(e.GetRecurrenceID()),
		Summary:             e.GetSummary(),
		Description:         e.GetDescription(),
		Location:            e.GetLocation(),
		Organizer:           e.GetOrganizer(),
		URL:                 e.GetURL(),
		Status:              string(e.GetStatus()),
		Transp:              string(e.GetTransp()),
	}
	if class := e.GetClass(); class.IsSet() {
		eventModel.Class = class.String()
	}
	if dtend, ok := e.GetEnd().DTEnd(); ok {
		eventModel.DTEndUnixUTC = toUnix(dtend)
	}
	if duration, ok := e.GetEnd().Duration(); ok {
		eventModel.Duration = duration
	}
	if geo, ok := e.GetGeo(); ok {
		eventModel.GeoLat = &geo.Lat
		eventModel.GeoLon = &geo.Lon
	}
	if priority, ok := e.GetPriority(); ok {
		eventModel.Priority = &priority
	}
	if sequence, ok := e.GetSequence(); ok {
		eventModel.Sequence = &sequence
	}

	properties := make([]Property, 0)
	add := func(name string, values []string) {
		for _, value := range values {
			properties = append(properties, Property{
				CalendarID: calendarID,
				EventID:    e.GetUID(),
				Name:       name,
				Value:      value,
				Position:   len(properties),
			})
		}
	}
	times := func(values []time.Time) []string {
		result := make([]string, len(values))
		for i, value := range values {
			result[i] = utils.TimeToIcalDatetime(value)
		}
		return result
	}
	add(PropRRule, e.GetRRule())
	add(PropAttach, e.GetAttach())
	add(PropAttendee, e.GetAttendee())
	add(PropCategories, e.GetCategories())
	add(PropComment, e.GetComment())
	add(PropContact, e.GetContact())
	add(PropExDate, times(e.GetExDate()))
	add(PropRStatus, e.GetRStatus())
	add(PropRelatedTo, e.GetRelatedTo())
	add(PropResources, e.GetResources())
	add(PropRDate, times(e.GetRDate()))
	for _, prop := range e.GetXProps() {
		add(prop.Name, []string{prop.Value})
	}

	return eventModel, properties
}

// Rebuild the ical.Event through the same setters a caller would use, so
// stored values go through the usual checks. properties must be in position
// order.
func (m *Event) ToIcal(cal *ical.Calendar, properties []Property) (ical.Event, error) {
	var err error
	e := cal.NewEvent(time.Unix(m.DTStampUnixUTC, 0).UTC(), m.ID).
		SetDTStart(fromUnix(m.DTStartUnixUTC)).
		SetCreated(fromUnix(m.CreatedUnixUTC)).
		SetLastModified(fromUnix(m.LastModifiedUnixUTC)).
		SetRecurrenceID(fromUnix(m.RecurrenceIDUnixUTC)).
		SetSummary(m.Summary).
		SetDescription(m.Description).
		SetLocation(m.Location).
		SetOrganizer(m.Organizer).
		SetURL(m.URL)

	switch {
	case m.DTEndUnixUTC != nil:
		e = e.SetDTEnd(fromUnix(m.DTEndUnixUTC))
	case m.Duration != "":
		e = e.SetDuration(m.Duration)
	}
	if m.Class != "" {
		e = e.SetClass(m.Class)
	}
	if m.Status != "" {
		if e, err = e.SetStatus(ical.Status(m.Status)); err != nil {
			return e, fmt.Errorf("(*Event).ToIcal: %w", err)
		}
	}
	if m.Transp != "" {
		if e, err = e.SetTransp(ical.Transp(m.Transp)); err != nil {
			return e, fmt.Errorf("(*Event).ToIcal: %w", err)
		}
	}
	if m.GeoLat != nil && m.GeoLon != nil {
		if e, err = e.SetGeo(*m.GeoLat, *m.GeoLon); err != nil {
			return e, fmt.Errorf("(*Event).ToIcal: %w", err)
		}
	}
	if m.Priority != nil {
		if e, err = e.SetPriority(*m.Priority); err != nil {
			return e, fmt.Errorf("(*Event).ToIcal: %w", err)
		}
	}
	if m.Sequence != nil {
		if e, err = e.SetSequence(*m.Sequence); err != nil {
			return e, fmt.Errorf("(*Event).ToIcal: %w", err)
		}
	}

	parseTime := func(value string) (time.Time, error) {
		t, err := time.Parse(utils.UTCLayout, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("(*Event).ToIcal: %w", err)
		}
		return t, nil
	}
	for _, prop := range properties {
		switch prop.Name {
		case PropRRule:
			e = e.AddRRule(prop.Value)
		case PropAttach:
			e = e.AddAttach(prop.Value)
		case PropAttendee:
			e = e.AddAttendee(prop.Value)
		case PropCategories:
			e = e.AddCategory(prop.Value)
		case PropComment:
			e = e.AddComment(prop.Value)
		case PropContact:
			e = e.AddContact(prop.Value)
		case PropRStatus:
			e = e.AddRStatus(prop.Value)
		case PropRelatedTo:
			e = e.AddRelatedTo(prop.Value)
		case PropResources:
			e = e.AddResource(prop.Value)
		case PropExDate:
			t, err := parseTime(prop.Value)
			if err != nil {
				return e, err
			}
			e = e.AddExDate(t)
		case PropRDate:
			t, err := parseTime(prop.Value)
			if err != nil {
				return e, err
			}
			e = e.AddRDate(t)
		default:
			if e, err = e.AddXProp(prop.Name, prop.Value); err != nil {
				return e, fmt.Errorf("(*Event).ToIcal: %w", err)
			}
		}
	}
	return e, nil
}
