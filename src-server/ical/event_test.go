package ical_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"vcal/src-server/ical"
)

// The closed vocabularies are constants and can't be reassigned by importers.
const (
	_ = ical.StatusTentative
	_ = ical.StatusConfirmed
	_ = ical.StatusCancelled
	_ = ical.TranspOpaque
	_ = ical.TranspTransparent
	_ = ical.AlarmActionAudio
	_ = ical.AlarmActionDisplay
	_ = ical.AlarmActionEmail
)

func newEvent() ical.Event {
	return ical.NewCalendar("prodid", "2.0").NewEvent(dtstamp, "uid").SetDTStart(dtstart)
}

func render(event ical.Event) string {
	cal := ical.NewCalendar("prodid", "2.0")
	cal.AddEvent(event)
	return cal.Render()
}

func TestNewEventIsEmpty(t *testing.T) {
	event := ical.NewCalendar("prodid", "2.0").NewEvent(dtstamp, "uid")
	if !event.GetDTStamp().Equal(dtstamp) || event.GetUID() != "uid" {
		t.Error("DTSTAMP and UID must be set by NewEvent")
	}
	if !event.GetDTStart().IsZero() || event.GetEnd().IsSet() || event.GetClass().IsSet() {
		t.Error("optional properties must start unset")
	}
	if _, ok := event.GetPriority(); ok {
		t.Error("PRIORITY must start unset")
	}
	if _, ok := event.GetSequence(); ok {
		t.Error("SEQUENCE must start unset")
	}
	if len(event.GetComment()) != 0 || len(event.GetRRule()) != 0 {
		t.Error("repeatable properties must start empty")
	}
}

func TestEventDTEndDurationExclusive(t *testing.T) {
	dtend := time.Date(2023, 1, 1, 2, 30, 0, 0, time.UTC)

	event := newEvent().SetDTEnd(dtend)
	if got, ok := event.GetEnd().DTEnd(); !ok || !got.Equal(dtend) {
		t.Error("DTEND not stored")
	}
	output := render(event)
	if !strings.Contains(output, "DTEND:20230101T023000Z\r\n") || strings.Contains(output, "DURATION") {
		t.Errorf("expected only DTEND, got %q", output)
	}

	event = event.SetDuration("PT1H")
	if _, ok := event.GetEnd().DTEnd(); ok {
		t.Error("SetDuration must drop DTEND")
	}
	output = render(event)
	if !strings.Contains(output, "DURATION:PT1H\r\n") || strings.Contains(output, "DTEND") {
		t.Errorf("expected only DURATION, got %q", output)
	}

	// the final state only depends on the last setter
	a := render(newEvent().SetDuration("PT2H").SetDTEnd(dtend))
	b := render(newEvent().SetDTEnd(dtend))
	if a != b {
		t.Error("DURATION then DTEND should equal DTEND alone")
	}

	if render(newEvent().SetDurationOf(90*time.Minute).ClearEnd()) != render(newEvent()) {
		t.Error("ClearEnd should return the pair to unset")
	}
	if !strings.Contains(render(newEvent().SetDurationOf(90*time.Minute)), "DURATION:PT1H30M\r\n") {
		t.Error("SetDurationOf should format the duration")
	}
}

func TestEventPriority(t *testing.T) {
	for n := 0; n <= 9; n++ {
		event, err := newEvent().SetPriority(n)
		if err != nil {
			t.Errorf("SetPriority(%d) failed: %v", n, err)
			continue
		}
		if !strings.Contains(render(event), "PRIORITY:"+strconv.Itoa(n)+"\r\n") {
			t.Errorf("PRIORITY:%d not rendered", n)
		}
	}

	original, _ := newEvent().SetPriority(3)
	for _, n := range []int{10, 11, 100, -1} {
		event, err := original.SetPriority(n)
		if !errors.Is(err, ical.ErrOutOfRange) {
			t.Errorf("SetPriority(%d) expected ErrOutOfRange, got %v", n, err)
		}
		if got, _ := event.GetPriority(); got != 3 {
			t.Errorf("failed SetPriority(%d) changed the event to %d", n, got)
		}
		if render(event) != render(original) {
			t.Error("failed SetPriority changed the rendered event")
		}
	}
}

func TestEventClass(t *testing.T) {
	for _, input := range []string{"public", "PUBLIC", "Public"} {
		class := newEvent().SetClass(input).GetClass()
		if class.Kind() != ical.ClassPublic {
			t.Errorf("SetClass(%q) kind = %v", input, class.Kind())
		}
		if _, ok := class.Extension(); ok {
			t.Errorf("SetClass(%q) should not keep an extension token", input)
		}
	}

	event := newEvent().SetClass("vip-only")
	class := event.GetClass()
	if class.Kind() != ical.ClassPrivate {
		t.Errorf("extension class should be PRIVATE, got %v", class.Kind())
	}
	if token, ok := class.Extension(); !ok || token != "VIP-ONLY" {
		t.Errorf("expected extension VIP-ONLY, got %q", token)
	}
	if !strings.Contains(render(event), "\r\nCLASS:VIP-ONLY\r\n") {
		t.Errorf("expected CLASS:VIP-ONLY, got %q", render(event))
	}

	event = event.SetClass("confidential")
	if _, ok := event.GetClass().Extension(); ok {
		t.Error("a known class should clear the extension token")
	}
	if !strings.Contains(render(event), "\r\nCLASS:CONFIDENTIAL\r\n") {
		t.Errorf("expected CLASS:CONFIDENTIAL, got %q", render(event))
	}
	if strings.Contains(render(newEvent()), "CLASS") {
		t.Error("unset CLASS should not be rendered")
	}
}

func TestEventStatusAndTransp(t *testing.T) {
	event, err := newEvent().SetStatus(ical.StatusCancelled)
	if err != nil {
		t.Fatal(err)
	}
	event, err = event.SetTransp(ical.TranspTransparent)
	if err != nil {
		t.Fatal(err)
	}
	output := render(event)
	if !strings.Contains(output, "STATUS:CANCELLED\r\n") || !strings.Contains(output, "TRANSP:TRANSPARENT\r\n") {
		t.Errorf("unexpected output %q", output)
	}

	if _, err := event.SetStatus("NEEDS-ACTION"); !errors.Is(err, ical.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
	if _, err := event.SetTransp("cloudy"); !errors.Is(err, ical.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}

	if status, err := ical.ParseStatus("tentative"); err != nil || status != ical.StatusTentative {
		t.Errorf("ParseStatus = %v, %v", status, err)
	}
	if transp, err := ical.ParseTransp("Opaque"); err != nil || transp != ical.TranspOpaque {
		t.Errorf("ParseTransp = %v, %v", transp, err)
	}
	if _, err := ical.ParseStatus("maybe"); !errors.Is(err, ical.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestEventOptionalProperties(t *testing.T) {
	created := time.Date(2022, 12, 1, 8, 0, 0, 0, time.UTC)
	event := newEvent().
		SetClass("public").
		SetCreated(created).
		SetDescription("This is an example description").
		SetLastModified(created).
		SetLocation("Starbucks").
		SetOrganizer("mailto:someone@example.com").
		SetSummary("Morning coffee").
		SetURL("http://github.com/cyberme0w/rustical").
		SetRecurrenceID(dtstart)
	event, err := event.SetGeo(37.386013, -122.082932)
	if err != nil {
		t.Fatal(err)
	}
	event, err = event.SetSequence(2)
	if err != nil {
		t.Fatal(err)
	}

	expected := "BEGIN:VEVENT\r\n" +
		"DTSTAMP:20221224T235959Z\r\n" +
		"UID:uid\r\n" +
		"DTSTART:20221231T123000Z\r\n" +
		"CLASS:PUBLIC\r\n" +
		"CREATED:20221201T080000Z\r\n" +
		"DESCRIPTION:This is an example description\r\n" +
		"GEO:37.386013;-122.082932\r\n" +
		"LAST-MODIFIED:20221201T080000Z\r\n" +
		"LOCATION:Starbucks\r\n" +
		"ORGANIZER:mailto:someone@example.com\r\n" +
		"SEQUENCE:2\r\n" +
		"SUMMARY:Morning coffee\r\n" +
		"URL:http://github.com/cyberme0w/rustical\r\n" +
		"RECURRENCE-ID:20221231T123000Z\r\n" +
		"END:VEVENT\r\n"
	if output := render(event); !strings.Contains(output, expected) {
		t.Errorf("unexpected output\nwant: %q\ngot:  %q", expected, output)
	}

	if _, err := event.SetGeo(91, 0); !errors.Is(err, ical.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := event.SetGeo(0, -181); !errors.Is(err, ical.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := event.SetSequence(-1); !errors.Is(err, ical.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestEventRepeatableProperties(t *testing.T) {
	event := newEvent().
		AddComment("first").
		AddComment("second").
		AddComment("first").
		AddCategory("work").
		AddAttendee("mailto:a@example.com").
		AddRRule("FREQ=DAILY;COUNT=3").
		AddExDate(dtstart.Add(24 * time.Hour)).
		AddRStatus("2.0;Success")
	event, err := event.AddXProp("X-MICROSOFT-CDO-BUSYSTATUS", "FREE")
	if err != nil {
		t.Fatal(err)
	}

	output := render(event)
	if strings.Count(output, "COMMENT:") != 3 {
		t.Errorf("expected three COMMENT lines, got %q", output)
	}
	if !strings.Contains(output, "COMMENT:first\r\nCOMMENT:second\r\nCOMMENT:first\r\n") {
		t.Error("COMMENT lines out of order")
	}
	for _, line := range []string{
		"RRULE:FREQ=DAILY;COUNT=3\r\n",
		"ATTENDEE:mailto:a@example.com\r\n",
		"CATEGORIES:work\r\n",
		"EXDATE:20230101T123000Z\r\n",
		"REQUEST-STATUS:2.0;Success\r\n",
		"X-MICROSOFT-CDO-BUSYSTATUS:FREE\r\n",
	} {
		if !strings.Contains(output, line) {
			t.Errorf("missing %q in %q", line, output)
		}
	}

	if _, err := event.AddXProp("X:BAD", "value"); !errors.Is(err, ical.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestXPropReservedNames(t *testing.T) {
	reserved := []string{
		// component delimiters
		"BEGIN", "END", "end",
		// calendar properties
		"VERSION", "PRODID", "CALSCALE", "METHOD",
		// single-valued event properties
		"UID", "DTSTAMP", "DTSTART", "DTEND", "DURATION", "Summary",
		// repeatable event properties
		"COMMENT", "RRULE", "EXDATE", "REQUEST-STATUS",
		// alarm properties
		"ACTION", "TRIGGER",
	}

	// case: calendar
	func() {
		cal := ical.NewCalendar("prodid", "2.0")
		for _, name := range reserved {
			if err := cal.AddXProp(name, "VCALENDAR"); !errors.Is(err, ical.ErrMalformedInput) {
				t.Errorf("calendar AddXProp(%q): expected ErrMalformedInput, got %v", name, err)
			}
		}
		if len(cal.GetXProps()) != 0 {
			t.Errorf("rejected names were kept: %v", cal.GetXProps())
		}
	}()

	// case: event
	func() {
		event := newEvent()
		for _, name := range reserved {
			got, err := event.AddXProp(name, "second")
			if !errors.Is(err, ical.ErrMalformedInput) {
				t.Errorf("event AddXProp(%q): expected ErrMalformedInput, got %v", name, err)
			}
			if len(got.GetXProps()) != 0 {
				t.Errorf("event AddXProp(%q) changed the event", name)
			}
		}
	}()

	// case: structure survives
	func() {
		cal := ical.NewCalendar("prodid", "2.0")
		_ = cal.AddXProp("END", "VCALENDAR")
		event := newEvent()
		event, _ = event.AddXProp("BEGIN", "VTODO")
		event, _ = event.AddXProp("UID", "second")
		cal.AddEvent(event)
		output, err := cal.Marshal()
		if err != nil {
			t.Fatal(err)
		}
		if strings.Count(output, "BEGIN:") != 2 || strings.Count(output, "END:") != 2 {
			t.Errorf("unbalanced components in %q", output)
		}
		if strings.Count(output, "UID:") != 1 {
			t.Errorf("expected exactly one UID in %q", output)
		}
	}()

	// case: extension names still allowed
	func() {
		if _, err := newEvent().AddXProp("X-COMMENT", "fine"); err != nil {
			t.Errorf("X-COMMENT should be accepted: %v", err)
		}
		if _, err := newEvent().AddXProp("X-BEGIN", "fine"); err != nil {
			t.Errorf("X-BEGIN should be accepted: %v", err)
		}
	}()
}

func TestEventCopiesDoNotAlias(t *testing.T) {
	base := newEvent().AddComment("shared")
	a := base.AddComment("a")
	b := base.AddComment("b")

	if got := base.GetComment(); len(got) != 1 {
		t.Errorf("base changed: %v", got)
	}
	if got := a.GetComment(); len(got) != 2 || got[1] != "a" {
		t.Errorf("a = %v", got)
	}
	if got := b.GetComment(); len(got) != 2 || got[1] != "b" {
		t.Errorf("b = %v", got)
	}

	comments := a.GetComment()
	comments[0] = "changed"
	if a.GetComment()[0] != "shared" {
		t.Error("getter exposed the internal slice")
	}
}

func TestEventEscapingAndFolding(t *testing.T) {
	event := newEvent().
		SetSummary("Lunch; bring plates, cups\\forks").
		SetDescription("line one\nline two").
		SetLocation(strings.Repeat("ü", 60))
	output := render(event)

	if !strings.Contains(output, "SUMMARY:"+`Lunch\; bring plates\, cups\\forks`+"\r\n") {
		t.Errorf("SUMMARY not escaped: %q", output)
	}
	if !strings.Contains(output, "DESCRIPTION:line one\\nline two\r\n") {
		t.Errorf("DESCRIPTION not escaped: %q", output)
	}
	for _, line := range strings.Split(strings.TrimSuffix(output, "\r\n"), "\r\n") {
		if len(line) > 75 {
			t.Errorf("line longer than 75 octets: %q", line)
		}
	}
	unfolded := strings.ReplaceAll(output, "\r\n ", "")
	if !strings.Contains(unfolded, "LOCATION:"+strings.Repeat("ü", 60)+"\r\n") {
		t.Error("folding corrupted LOCATION")
	}

	// a raw value can't inject a content line
	injected := render(newEvent().SetURL("http://example.com\r\nATTENDEE:mailto:evil@example.com"))
	if strings.Contains(injected, "\r\nATTENDEE:") {
		t.Errorf("line break in URL leaked: %q", injected)
	}
}

func TestEventAlarm(t *testing.T) {
	alarm, err := ical.NewAlarm(ical.AlarmActionDisplay).
		SetDescription("Coffee in 15 minutes").
		SetTrigger("-PT15M")
	if err != nil {
		t.Fatal(err)
	}
	alarm, err = alarm.SetRepeat(2, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	expected := "BEGIN:VALARM\r\n" +
		"ACTION:DISPLAY\r\n" +
		"TRIGGER:-PT15M\r\n" +
		"DURATION:PT5M\r\n" +
		"REPEAT:2\r\n" +
		"DESCRIPTION:Coffee in 15 minutes\r\n" +
		"END:VALARM\r\n" +
		"END:VEVENT\r\n"
	if output := render(newEvent().AddAlarm(alarm)); !strings.Contains(output, expected) {
		t.Errorf("unexpected output\nwant: %q\ngot:  %q", expected, output)
	}

	for _, trigger := range []string{"", "PT", "-PT", "15M", "P1DT", "soon"} {
		if _, err := alarm.SetTrigger(trigger); !errors.Is(err, ical.ErrMalformedInput) {
			t.Errorf("SetTrigger(%q) expected ErrMalformedInput, got %v", trigger, err)
		}
	}
	if _, err := alarm.SetRepeat(-1, time.Minute); !errors.Is(err, ical.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	email := ical.NewAlarm(ical.AlarmActionEmail).SetTriggerBefore(time.Hour).SetDescription("body")
	if err := email.Validate(); !errors.Is(err, ical.ErrMissingRequiredProperty) {
		t.Errorf("expected ErrMissingRequiredProperty, got %v", err)
	}
	email = email.SetSummary("subject").AddAttendee("mailto:a@example.com")
	if err := email.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if email.GetTrigger() != "-PT1H" {
		t.Errorf("SetTriggerBefore = %s", email.GetTrigger())
	}
}
