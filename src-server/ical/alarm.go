package ical

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"vcal/src-server/ical/utils"
)

type (
	AlarmAction string
)

const (
	AlarmActionAudio   AlarmAction = "AUDIO"
	AlarmActionDisplay AlarmAction = "DISPLAY"
	AlarmActionEmail   AlarmAction = "EMAIL"
)

var durationPattern = regexp.MustCompile(`^[+-]?P(\d+W|\d+D(T(\d+H)?(\d+M)?(\d+S)?)?|T(\d+H)?(\d+M)?(\d+S)?)$`)

// A VALARM nested inside a VEVENT. Only the properties needed to describe a
// reminder are modeled. Like Event, every setter returns a new value.
type Alarm struct {
	action      AlarmAction
	trigger     string
	duration    string
	repeat      int
	description string
	summary     string
	attendee    []string
}

func NewAlarm(action AlarmAction) Alarm {
	return Alarm{action: action}
}

// #region Getters
func (a Alarm) GetAction() AlarmAction {
	return a.action
}
func (a Alarm) GetTrigger() string {
	return a.trigger
}
func (a Alarm) GetDuration() string {
	return a.duration
}
func (a Alarm) GetRepeat() int {
	return a.repeat
}
func (a Alarm) GetDescription() string {
	return a.description
}
func (a Alarm) GetSummary() string {
	return a.summary
}
func (a Alarm) GetAttendee() []string {
	return slices.Clone(a.attendee)
}

// #endregion

// #region Setters

// Set a relative trigger such as -PT15M.
func (a Alarm) SetTrigger(trigger string) (Alarm, error) {
	if !durationPattern.MatchString(trigger) || strings.HasSuffix(trigger, "T") {
		return a, NewCustomError(ErrMalformedInput, "invalid TRIGGER", map[string]any{
			"value": trigger,
		})
	}
	a.trigger = trigger
	return a, nil
}

// Fire the alarm d before the event starts.
func (a Alarm) SetTriggerBefore(d time.Duration) Alarm {
	a.trigger = utils.DurationToIcal(-d)
	return a
}
func (a Alarm) SetRepeat(repeat int, interval time.Duration) (Alarm, error) {
	if repeat < 0 {
		return a, NewCustomError(ErrOutOfRange, "REPEAT must not be negative", map[string]any{
			"value": repeat,
		})
	}
	if repeat == 0 {
		a.repeat = 0
		a.duration = ""
		return a, nil
	}
	a.repeat = repeat
	a.duration = utils.DurationToIcal(interval)
	return a, nil
}
func (a Alarm) SetDescription(description string) Alarm {
	a.description = description
	return a
}
func (a Alarm) SetSummary(summary string) Alarm {
	a.summary = summary
	return a
}
func (a Alarm) AddAttendee(attendee string) Alarm {
	a.attendee = append(slices.Clip(a.attendee), attendee)
	return a
}

// #endregion

func (a Alarm) Validate() error {
	missing := func(property string) error {
		return NewCustomError(ErrMissingRequiredProperty, "VALARM "+property+" is required", map[string]any{
			"action": a.action,
		})
	}
	switch {
	case a.action == "":
		return missing("ACTION")
	case a.trigger == "":
		return missing("TRIGGER")
	}

	switch a.action {
	case AlarmActionEmail:
		switch {
		case a.description == "":
			return missing("DESCRIPTION")
		case a.summary == "":
			return missing("SUMMARY")
		case len(a.attendee) == 0:
			return missing("ATTENDEE")
		}
	case AlarmActionDisplay:
		if a.description == "" {
			return missing("DESCRIPTION")
		}
	}
	return nil
}

func (a Alarm) render(w *lineWriter) {
	w.raw("BEGIN:VALARM")
	w.property("ACTION", string(a.action))
	w.property("TRIGGER", a.trigger)
	if a.repeat > 0 {
		w.property("DURATION", a.duration)
		w.property("REPEAT", strconv.Itoa(a.repeat))
	}
	if a.description != "" {
		w.text("DESCRIPTION", a.description)
	}
	if a.summary != "" {
		w.text("SUMMARY", a.summary)
	}
	for _, attendee := range a.attendee {
		w.property("ATTENDEE", attendee)
	}
	w.raw("END:VALARM")
}
