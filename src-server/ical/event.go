package ical

import (
	"regexp"
	"slices"
	"strconv"
	"time"

	"vcal/src-server/ical/utils"
)

// Property is an extension (X- or IANA) property kept as a raw name/value pair.
type Property struct {
	Name  string
	Value string
}

var propertyNamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Names the encoder writes itself, plus the component delimiters. An
// extension property must not reuse one of them.
var reservedPropertyNames = map[string]struct{}{
	"BEGIN": {}, "END": {},
	// VCALENDAR
	"VERSION": {}, "PRODID": {}, "CALSCALE": {}, "METHOD": {},
	// VEVENT
	"DTSTAMP": {}, "UID": {}, "DTSTART": {}, "CLASS": {}, "CREATED": {},
	"DESCRIPTION": {}, "GEO": {}, "LAST-MODIFIED": {}, "LOCATION": {},
	"ORGANIZER": {}, "PRIORITY": {}, "SEQUENCE": {}, "STATUS": {},
	"SUMMARY": {}, "TRANSP": {}, "URL": {}, "RECURRENCE-ID": {},
	"DTEND": {}, "DURATION": {}, "RRULE": {}, "ATTACH": {}, "ATTENDEE": {},
	"CATEGORIES": {}, "COMMENT": {}, "CONTACT": {}, "EXDATE": {},
	"REQUEST-STATUS": {}, "RELATED-TO": {}, "RESOURCES": {}, "RDATE": {},
	// VALARM
	"ACTION": {}, "TRIGGER": {}, "REPEAT": {},
}

func newProperty(name, value string) (Property, error) {
	if !propertyNamePattern.MatchString(name) {
		return Property{}, NewCustomError(ErrMalformedInput, "invalid property name", map[string]any{
			"name": name,
		})
	}
	upper := toUpper(name)
	if _, ok := reservedPropertyNames[upper]; ok {
		return Property{}, NewCustomError(ErrMalformedInput, "property name is reserved", map[string]any{
			"name": name,
		})
	}
	return Property{Name: upper, Value: value}, nil
}

// A geographic position, rendered as "lat;lon".
type Geo struct {
	Lat float64
	Lon float64
}

func (g Geo) String() string {
	return strconv.FormatFloat(g.Lat, 'f', -1, 64) + ";" + strconv.FormatFloat(g.Lon, 'f', -1, 64)
}

type endKind uint8

const (
	endUnset endKind = iota
	endDTEnd
	endDuration
)

// End holds at most one of DTEND or DURATION.
type End struct {
	kind     endKind
	dtend    time.Time
	duration string
}

func (e End) IsSet() bool {
	return e.kind != endUnset
}

func (e End) DTEnd() (time.Time, bool) {
	return e.dtend, e.kind == endDTEnd
}

func (e End) Duration() (string, bool) {
	return e.duration, e.kind == endDuration
}

// A VEVENT. Events are values: every setter returns an updated copy and
// leaves the receiver untouched, so a copy held elsewhere never observes the
// change. Create one with Calendar.NewEvent.
type Event struct {
	dtstamp time.Time // required
	uid     string    // required

	dtstart      time.Time
	class        Class
	created      time.Time
	description  string
	geo          *Geo
	lastModified time.Time
	location     string
	organizer    string
	priority     int // -1 when unset
	sequence     int // -1 when unset
	status       Status
	summary      string
	transp       Transp
	url          string
	recurrenceID time.Time
	end          End

	rrule      []string
	attach     []string
	attendee   []string
	categories []string
	comment    []string
	contact    []string
	exdate     []time.Time
	rstatus    []string
	related    []string
	resources  []string
	rdate      []time.Time
	xprops     []Property
	alarm      []Alarm
}

// Append without ever writing into a backing array shared with another copy.
func appendClip[T any](s []T, v T) []T {
	return append(slices.Clip(s), v)
}

// #region Getters

func (e Event) GetDTStamp() time.Time {
	return e.dtstamp
}

func (e Event) GetUID() string {
	return e.uid
}

// Zero when unset
func (e Event) GetDTStart() time.Time {
	return e.dtstart
}

func (e Event) GetClass() Class {
	return e.class
}

func (e Event) GetCreated() time.Time {
	return e.created
}

func (e Event) GetDescription() string {
	return e.description
}

func (e Event) GetGeo() (Geo, bool) {
	if e.geo == nil {
		return Geo{}, false
	}
	return *e.geo, true
}

func (e Event) GetLastModified() time.Time {
	return e.lastModified
}

func (e Event) GetLocation() string {
	return e.location
}

func (e Event) GetOrganizer() string {
	return e.organizer
}

func (e Event) GetPriority() (int, bool) {
	return e.priority, e.priority >= 0
}

func (e Event) GetSequence() (int, bool) {
	return e.sequence, e.sequence >= 0
}

func (e Event) GetStatus() Status {
	return e.status
}

func (e Event) GetSummary() string {
	return e.summary
}

func (e Event) GetTransp() Transp {
	return e.transp
}

func (e Event) GetURL() string {
	return e.url
}

func (e Event) GetRecurrenceID() time.Time {
	return e.recurrenceID
}

// Get the DTEND/DURATION pair
func (e Event) GetEnd() End {
	return e.end
}

func (e Event) GetRRule() []string {
	return slices.Clone(e.rrule)
}

func (e Event) GetAttach() []string {
	return slices.Clone(e.attach)
}

func (e Event) GetAttendee() []string {
	return slices.Clone(e.attendee)
}

func (e Event) GetCategories() []string {
	return slices.Clone(e.categories)
}

func (e Event) GetComment() []string {
	return slices.Clone(e.comment)
}

func (e Event) GetContact() []string {
	return slices.Clone(e.contact)
}

func (e Event) GetExDate() []time.Time {
	return slices.Clone(e.exdate)
}

func (e Event) GetRStatus() []string {
	return slices.Clone(e.rstatus)
}

func (e Event) GetRelatedTo() []string {
	return slices.Clone(e.related)
}

func (e Event) GetResources() []string {
	return slices.Clone(e.resources)
}

func (e Event) GetRDate() []time.Time {
	return slices.Clone(e.rdate)
}

func (e Event) GetXProps() []Property {
	return slices.Clone(e.xprops)
}

func (e Event) GetAlarm() []Alarm {
	return slices.Clone(e.alarm)
}

// #endregion

// #region Setters

func (e Event) SetDTStart(dtstart time.Time) Event {
	e.dtstart = dtstart
	return e
}

func (e Event) SetCreated(created time.Time) Event {
	e.created = created
	return e
}

// Set DTEND. Any DURATION is dropped.
func (e Event) SetDTEnd(dtend time.Time) Event {
	e.end = End{kind: endDTEnd, dtend: dtend}
	return e
}

// Set DURATION as raw text, e.g. "PT1H". Any DTEND is dropped.
func (e Event) SetDuration(duration string) Event {
	e.end = End{kind: endDuration, duration: duration}
	return e
}

// Same as SetDuration, formatting d as an iCalendar duration.
func (e Event) SetDurationOf(d time.Duration) Event {
	return e.SetDuration(utils.DurationToIcal(d))
}

// Remove both DTEND and DURATION.
func (e Event) ClearEnd() Event {
	e.end = End{}
	return e
}

// Set CLASS. Matching is case-insensitive; anything other than PUBLIC,
// PRIVATE or CONFIDENTIAL is kept as an upper-cased extension token and
// classified as PRIVATE.
func (e Event) SetClass(class string) Event {
	e.class = ParseClass(class)
	return e
}

// Set PRIORITY, 0 (undefined) to 9 (lowest).
func (e Event) SetPriority(priority int) (Event, error) {
	if priority < 0 || priority > 9 {
		return e, NewCustomError(ErrOutOfRange, "PRIORITY must be between 0 and 9", map[string]any{
			"uid":   e.uid,
			"value": priority,
		})
	}
	e.priority = priority
	return e, nil
}

func (e Event) SetSequence(sequence int) (Event, error) {
	if sequence < 0 {
		return e, NewCustomError(ErrOutOfRange, "SEQUENCE must not be negative", map[string]any{
			"uid":   e.uid,
			"value": sequence,
		})
	}
	e.sequence = sequence
	return e, nil
}

func (e Event) SetStatus(status Status) (Event, error) {
	if !status.valid() {
		return e, NewCustomError(ErrMalformedInput, "invalid STATUS", map[string]any{
			"uid":   e.uid,
			"value": status,
		})
	}
	e.status = status
	return e, nil
}

func (e Event) SetTransp(transp Transp) (Event, error) {
	if !transp.valid() {
		return e, NewCustomError(ErrMalformedInput, "invalid TRANSP", map[string]any{
			"uid":   e.uid,
			"value": transp,
		})
	}
	e.transp = transp
	return e, nil
}

func (e Event) SetDescription(description string) Event {
	e.description = description
	return e
}

// Set GEO. lat must be within [-90, 90] and lon within [-180, 180].
func (e Event) SetGeo(lat, lon float64) (Event, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return e, NewCustomError(ErrOutOfRange, "GEO outside of valid coordinates", map[string]any{
			"uid": e.uid,
			"lat": lat,
			"lon": lon,
		})
	}
	e.geo = &Geo{Lat: lat, Lon: lon}
	return e, nil
}

func (e Event) SetLastModified(lastModified time.Time) Event {
	e.lastModified = lastModified
	return e
}

func (e Event) SetLocation(location string) Event {
	e.location = location
	return e
}

func (e Event) SetOrganizer(organizer string) Event {
	e.organizer = organizer
	return e
}

func (e Event) SetSummary(summary string) Event {
	e.summary = summary
	return e
}

func (e Event) SetURL(url string) Event {
	e.url = url
	return e
}

func (e Event) SetRecurrenceID(recurrenceID time.Time) Event {
	e.recurrenceID = recurrenceID
	return e
}

// #endregion

// #region Repeatable properties

// Add a recurrence rule, e.g. "FREQ=WEEKLY;BYDAY=MO". Syntax is checked by
// Calendar.Validate.
func (e Event) AddRRule(rrule string) Event {
	e.rrule = appendClip(e.rrule, rrule)
	return e
}

func (e Event) AddAttach(uri string) Event {
	e.attach = appendClip(e.attach, uri)
	return e
}

func (e Event) AddAttendee(calAddress string) Event {
	e.attendee = appendClip(e.attendee, calAddress)
	return e
}

func (e Event) AddCategory(category string) Event {
	e.categories = appendClip(e.categories, category)
	return e
}

func (e Event) AddComment(comment string) Event {
	e.comment = appendClip(e.comment, comment)
	return e
}

func (e Event) AddContact(contact string) Event {
	e.contact = appendClip(e.contact, contact)
	return e
}

func (e Event) AddExDate(exdate time.Time) Event {
	e.exdate = appendClip(e.exdate, exdate)
	return e
}

// Add a REQUEST-STATUS value, e.g. "2.0;Success".
func (e Event) AddRStatus(rstatus string) Event {
	e.rstatus = appendClip(e.rstatus, rstatus)
	return e
}

func (e Event) AddRelatedTo(uid string) Event {
	e.related = appendClip(e.related, uid)
	return e
}

func (e Event) AddResource(resource string) Event {
	e.resources = appendClip(e.resources, resource)
	return e
}

func (e Event) AddRDate(rdate time.Time) Event {
	e.rdate = appendClip(e.rdate, rdate)
	return e
}

func (e Event) AddXProp(name, value string) (Event, error) {
	prop, err := newProperty(name, value)
	if err != nil {
		return e, err
	}
	e.xprops = appendClip(e.xprops, prop)
	return e, nil
}

func (e Event) AddAlarm(alarm Alarm) Event {
	e.alarm = appendClip(e.alarm, alarm)
	return e
}

// #endregion

func (e Event) render(w *lineWriter) {
	w.raw("BEGIN:VEVENT")
	w.datetime("DTSTAMP", e.dtstamp)
	w.text("UID", e.uid)
	if !e.dtstart.IsZero() {
		w.datetime("DTSTART", e.dtstart)
	}
	if e.class.IsSet() {
		w.property("CLASS", e.class.String())
	}
	if !e.created.IsZero() {
		w.datetime("CREATED", e.created)
	}
	if e.description != "" {
		w.text("DESCRIPTION", e.description)
	}
	if e.geo != nil {
		w.property("GEO", e.geo.String())
	}
	if !e.lastModified.IsZero() {
		w.datetime("LAST-MODIFIED", e.lastModified)
	}
	if e.location != "" {
		w.text("LOCATION", e.location)
	}
	if e.organizer != "" {
		w.property("ORGANIZER", e.organizer)
	}
	if e.priority >= 0 {
		w.property("PRIORITY", strconv.Itoa(e.priority))
	}
	if e.sequence >= 0 {
		w.property("SEQUENCE", strconv.Itoa(e.sequence))
	}
	if e.status != "" {
		w.property("STATUS", string(e.status))
	}
	if e.summary != "" {
		w.text("SUMMARY", e.summary)
	}
	if e.transp != "" {
		w.property("TRANSP", string(e.transp))
	}
	if e.url != "" {
		w.property("URL", e.url)
	}
	if !e.recurrenceID.IsZero() {
		w.datetime("RECURRENCE-ID", e.recurrenceID)
	}
	switch e.end.kind {
	case endDTEnd:
		w.datetime("DTEND", e.end.dtend)
	case endDuration:
		w.property("DURATION", e.end.duration)
	}

	for _, rrule := range e.rrule {
		w.property("RRULE", rrule)
	}
	for _, attach := range e.attach {
		w.property("ATTACH", attach)
	}
	for _, attendee := range e.attendee {
		w.property("ATTENDEE", attendee)
	}
	for _, category := range e.categories {
		w.text("CATEGORIES", category)
	}
	for _, comment := range e.comment {
		w.text("COMMENT", comment)
	}
	for _, contact := range e.contact {
		w.text("CONTACT", contact)
	}
	for _, exdate := range e.exdate {
		w.datetime("EXDATE", exdate)
	}
	for _, rstatus := range e.rstatus {
		w.property("REQUEST-STATUS", rstatus)
	}
	for _, related := range e.related {
		w.text("RELATED-TO", related)
	}
	for _, resource := range e.resources {
		w.text("RESOURCES", resource)
	}
	for _, rdate := range e.rdate {
		w.datetime("RDATE", rdate)
	}
	for _, prop := range e.xprops {
		w.property(prop.Name, prop.Value)
	}
	for _, alarm := range e.alarm {
		alarm.render(w)
	}
	w.raw("END:VEVENT")
}
