// The `ical` package builds iCalendar (RFC 5545) objects in memory and
// serializes them.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Only the encoding direction exists; nothing here parses iCalendar text.
// - All DATE-TIME values are written in UTC basic form (20060102T150405Z).
// - Long lines are folded at 75 octets and TEXT values are escaped.
// - Events are values. Setters return an updated copy, fallible setters also
//   return an error and leave the original untouched.
// - Render never fails. Validate is the finalize step that checks the rules
//   spanning the calendar and its events; Marshal runs both.
//
// # Example usage:
//
//	cal := ical.NewCalendar("-//example//EN", "2.0")
//	event := cal.NewEvent(time.Now(), "unique@example.com").
//		SetDTStart(start).
//		SetSummary("Morning coffee").
//		SetDTEnd(end)
//	event, err := event.SetPriority(1)
//	cal.AddEvent(event)
//	output, err := cal.Marshal()
package ical

import (
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/xyedo/rrule"
)

// A VCALENDAR holding an ordered list of events.
type Calendar struct {
	prodID   string // required
	version  string // required
	calScale string
	method   string
	xprops   []Property
	events   []Event
}

// Initialize a new Calendar with its two required properties. Empty values
// are accepted here and reported by Validate.
func NewCalendar(prodID string, version string) *Calendar {
	return &Calendar{
		prodID:  prodID,
		version: version,
	}
}

// Create an event for this calendar. The calendar isn't modified; pass the
// result to AddEvent once it is populated.
func (c *Calendar) NewEvent(dtstamp time.Time, uid string) Event {
	return Event{
		dtstamp:  dtstamp,
		uid:      uid,
		priority: -1,
		sequence: -1,
	}
}

// #region Getters
func (c *Calendar) GetProdID() string {
	return c.prodID
}
func (c *Calendar) GetVersion() string {
	return c.version
}

// Get CALSCALE as set, blank when unset
func (c *Calendar) GetCalScale() string {
	return c.calScale
}

// Get the calendar scale in effect: CALSCALE, or GREGORIAN when unset
func (c *Calendar) EffectiveCalScale() string {
	if c.calScale == "" {
		return "GREGORIAN"
	}
	return c.calScale
}
func (c *Calendar) GetMethod() string {
	return c.method
}
func (c *Calendar) GetXProps() []Property {
	return slices.Clone(c.xprops)
}
func (c *Calendar) GetEvents() []Event {
	return slices.Clone(c.events)
}
func (c *Calendar) Len() int {
	return len(c.events)
}

// #endregion

// #region Setters
func (c *Calendar) SetCalScale(calScale string) {
	c.calScale = toUpper(calScale)
}
func (c *Calendar) SetMethod(method string) {
	c.method = toUpper(method)
}
func (c *Calendar) AddXProp(name, value string) error {
	prop, err := newProperty(name, value)
	if err != nil {
		return err
	}
	c.xprops = append(c.xprops, prop)
	return nil
}

// #endregion

// Append an event, keeping insertion order.
func (c *Calendar) AddEvent(event Event) {
	c.events = append(c.events, event)
}

// Remove and return the last event.
func (c *Calendar) PopEvent() (Event, bool) {
	if len(c.events) == 0 {
		return Event{}, false
	}
	last := c.events[len(c.events)-1]
	c.events = c.events[:len(c.events)-1]
	return last, true
}

// Remove every event with the given UID. Reports whether one was found.
func (c *Calendar) RemoveEvent(uid string) bool {
	before := len(c.events)
	c.events = slices.DeleteFunc(c.events, func(e Event) bool {
		return e.uid == uid
	})
	return len(c.events) != before
}

// Check the rules that span more than one property: required calendar
// properties, DTSTART being required unless METHOD is set, unique UIDs,
// RRULE syntax and alarm contents. All problems are returned joined.
func (c *Calendar) Validate() error {
	var errs []error
	if c.version == "" {
		errs = append(errs, NewCustomError(ErrMissingRequiredProperty, "VCALENDAR VERSION is required", nil))
	}
	if c.prodID == "" {
		errs = append(errs, NewCustomError(ErrMissingRequiredProperty, "VCALENDAR PRODID is required", nil))
	}

	seen := make(map[string]struct{}, len(c.events))
	for i, event := range c.events {
		if event.uid == "" {
			errs = append(errs, NewCustomError(ErrMissingRequiredProperty, "VEVENT UID is required", map[string]any{
				"index": i,
			}))
		} else if _, ok := seen[event.uid]; ok {
			errs = append(errs, NewCustomError(ErrDuplicateUID, "VEVENT UID must be unique", map[string]any{
				"index": i,
				"uid":   event.uid,
			}))
		}
		seen[event.uid] = struct{}{}

		if event.dtstamp.IsZero() {
			errs = append(errs, NewCustomError(ErrMissingRequiredProperty, "VEVENT DTSTAMP is required", map[string]any{
				"uid": event.uid,
			}))
		}
		if c.method == "" && event.dtstart.IsZero() {
			errs = append(errs, NewCustomError(ErrMissingRequiredProperty, "VEVENT DTSTART is required when METHOD is absent", map[string]any{
				"uid": event.uid,
			}))
		}
		for _, rule := range event.rrule {
			if _, err := rrule.StrToRRule(rule); err != nil {
				errs = append(errs, NewCustomError(ErrMalformedInput, "invalid RRULE", map[string]any{
					"uid":   event.uid,
					"value": rule,
					"err":   err,
				}))
			}
		}
		for _, alarm := range event.alarm {
			if err := alarm.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Calendar) render(w *lineWriter) {
	w.raw("BEGIN:VCALENDAR")
	w.property("VERSION", c.version)
	w.text("PRODID", c.prodID)
	if c.calScale != "" {
		w.property("CALSCALE", c.calScale)
	}
	if c.method != "" {
		w.property("METHOD", c.method)
	}
	for _, prop := range c.xprops {
		w.property(prop.Name, prop.Value)
	}
	for _, event := range c.events {
		event.render(w)
	}
	w.raw("END:VCALENDAR")
}

// Serialize the calendar. The output only depends on the calendar's
// contents, so calling it twice yields identical text.
func (c *Calendar) Render() string {
	var sb strings.Builder
	c.render(newLineWriter(sb.WriteString))
	return sb.String()
}

func (c *Calendar) String() string {
	return c.Render()
}

// Validate, then serialize.
func (c *Calendar) Marshal() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c.Render(), nil
}

// Stream the serialized calendar into w without validating it.
func (c *Calendar) WriteTo(w io.Writer) (int64, error) {
	lw := newLineWriter(func(s string) (int, error) {
		return io.WriteString(w, s)
	})
	c.render(lw)
	return lw.n, lw.err
}
