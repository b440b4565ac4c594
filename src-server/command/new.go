package command

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"vcal/src-server/ical"
	"vcal/src-server/model"
	"vcal/src-server/utils"

	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/spf13/cobra"
)

type newOptions struct {
	prodID  string
	version string
	method  string

	uid         string
	summary     string
	description string
	location    string
	organizer   string
	url         string
	start       string
	end         string
	duration    time.Duration
	class       string
	priority    int
	prioritySet bool
	status      string
	transp      string
	comments    []string
	categories  []string
	rrules      []string
	remindAt    time.Duration

	output     string
	save       bool
	calendarID string
}

var newOpts newOptions

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an event and print the calendar holding it",
	Long: `Create one VEVENT from flags. The calendar is printed to stdout, or
written to --output. With --save the event is appended to the stored calendar
--calendar-id (created when missing) and the whole calendar is printed.`,
	Example: `  vcal new --summary "Morning coffee" --start "tomorrow 9am" --duration 30m
  vcal new --summary Standup --start 20230102T090000Z --rrule "FREQ=DAILY;COUNT=5" --save --calendar-id team`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	flags := newCmd.Flags()
	flags.StringVar(&newOpts.prodID, "prodid", "", "PRODID of a new calendar (default from PRODID env)")
	flags.StringVar(&newOpts.version, "version", "", "VERSION of a new calendar (default from ICAL_VERSION env)")
	flags.StringVar(&newOpts.method, "method", "", "METHOD of the calendar, e.g. PUBLISH")
	flags.StringVar(&newOpts.uid, "uid", "", "UID of the event (default a random UUID)")
	flags.StringVarP(&newOpts.summary, "summary", "s", "", "SUMMARY of the event")
	flags.StringVarP(&newOpts.description, "description", "d", "", "DESCRIPTION of the event")
	flags.StringVarP(&newOpts.location, "location", "l", "", "LOCATION of the event")
	flags.StringVar(&newOpts.organizer, "organizer", "", "ORGANIZER of the event, e.g. mailto:boss@example.com")
	flags.StringVar(&newOpts.url, "url", "", "URL of the event")
	flags.StringVar(&newOpts.start, "start", "", `DTSTART, e.g. "tomorrow 10am", "2023-01-02 09:00" or 20230102T090000Z`)
	flags.StringVar(&newOpts.end, "end", "", "DTEND, same forms as --start")
	flags.DurationVar(&newOpts.duration, "duration", 0, "DURATION of the event, e.g. 1h30m (excludes --end)")
	flags.StringVar(&newOpts.class, "class", "", "CLASS: PUBLIC, PRIVATE, CONFIDENTIAL or an extension token")
	flags.IntVar(&newOpts.priority, "priority", 0, "PRIORITY from 0 (undefined) to 9 (lowest), unset when omitted")
	flags.StringVar(&newOpts.status, "status", "", "STATUS: TENTATIVE, CONFIRMED or CANCELLED")
	flags.StringVar(&newOpts.transp, "transp", "", "TRANSP: OPAQUE or TRANSPARENT")
	flags.StringArrayVar(&newOpts.comments, "comment", nil, "COMMENT, repeatable")
	flags.StringArrayVar(&newOpts.categories, "category", nil, "CATEGORIES, repeatable")
	flags.StringArrayVar(&newOpts.rrules, "rrule", nil, "RRULE, repeatable, e.g. FREQ=WEEKLY;COUNT=4")
	flags.DurationVar(&newOpts.remindAt, "remind", 0, "add a DISPLAY alarm this long before the start")
	flags.StringVarP(&newOpts.output, "output", "o", "", "write the calendar to this file instead of stdout")
	flags.BoolVar(&newOpts.save, "save", false, "store the event in the database")
	flags.StringVar(&newOpts.calendarID, "calendar-id", "", "id of the stored calendar (default a random UUID)")
	newCmd.MarkFlagsMutuallyExclusive("end", "duration")
}

func runNew(cmd *cobra.Command, args []string) error {
	now := time.Now()
	ctx := cmd.Context()
	newOpts.prioritySet = cmd.Flags().Changed("priority")

	cal := ical.NewCalendar(
		firstNonEmpty(newOpts.prodID, as.Config.GetProdID()),
		firstNonEmpty(newOpts.version, as.Config.GetIcalVersion()),
	)
	if newOpts.save {
		if err := as.OpenDatabase(ctx); err != nil {
			return err
		}
		defer as.GracefulShutdown()

		if newOpts.calendarID == "" {
			newOpts.calendarID = uuid.NewString()
		}
		stored, err := model.LoadCalendar(ctx, as.BunDB, newOpts.calendarID)
		switch {
		case err == nil:
			cal = stored
		case !errors.Is(err, model.ErrCalendarNotFound):
			return err
		}
	}
	if newOpts.method != "" {
		cal.SetMethod(newOpts.method)
	}

	event, err := buildEvent(cal, &newOpts, as.When, now, as.Config.GetLocation())
	if err != nil {
		return err
	}
	if cal.RemoveEvent(event.GetUID()) {
		slog.Info("replacing event with the same UID", "calendar_id", newOpts.calendarID, "uid", event.GetUID())
	}
	cal.AddEvent(event)

	content, err := cal.Marshal()
	if err != nil {
		return fmt.Errorf("calendar is not valid: %w", err)
	}

	if newOpts.save {
		if err := model.SaveCalendar(ctx, as.BunDB, newOpts.calendarID, cal, now.Unix()); err != nil {
			return err
		}
		slog.Info("calendar saved", "calendar_id", newOpts.calendarID, "events", cal.Len())
	}

	if newOpts.output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(newOpts.output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("can't write %s: %w", newOpts.output, err)
	}
	slog.Info("calendar written", "path", newOpts.output)
	return nil
}

// Turn the flag values into an event of cal. Date-times are resolved
// relative to now in loc.
func buildEvent(cal *ical.Calendar, opts *newOptions, parser *when.Parser, now time.Time, loc *time.Location) (ical.Event, error) {
	uid := opts.uid
	if uid == "" {
		uid = uuid.NewString()
	}
	event := cal.NewEvent(now, uid).
		SetSummary(opts.summary).
		SetDescription(opts.description).
		SetLocation(opts.location).
		SetOrganizer(opts.organizer).
		SetURL(opts.url).
		SetCreated(now)

	var err error
	if opts.start != "" {
		start, err := utils.ParseDatetime(parser, opts.start, now, loc)
		if err != nil {
			return event, fmt.Errorf("--start: %w", err)
		}
		event = event.SetDTStart(start)
	}
	switch {
	case opts.end != "":
		end, err := utils.ParseDatetime(parser, opts.end, now, loc)
		if err != nil {
			return event, fmt.Errorf("--end: %w", err)
		}
		if !event.GetDTStart().IsZero() && end.Before(event.GetDTStart()) {
			return event, fmt.Errorf("--end %s is before --start %s", end, event.GetDTStart())
		}
		event = event.SetDTEnd(end)
	case opts.duration != 0:
		event = event.SetDurationOf(opts.duration)
	}

	if opts.class != "" {
		event = event.SetClass(opts.class)
	}
	if opts.prioritySet {
		if event, err = event.SetPriority(opts.priority); err != nil {
			return event, fmt.Errorf("--priority: %w", err)
		}
	}
	if opts.status != "" {
		status, err := ical.ParseStatus(opts.status)
		if err != nil {
			return event, fmt.Errorf("--status: %w", err)
		}
		if event, err = event.SetStatus(status); err != nil {
			return event, fmt.Errorf("--status: %w", err)
		}
	}
	if opts.transp != "" {
		transp, err := ical.ParseTransp(opts.transp)
		if err != nil {
			return event, fmt.Errorf("--transp: %w", err)
		}
		if event, err = event.SetTransp(transp); err != nil {
			return event, fmt.Errorf("--transp: %w", err)
		}
	}
	for _, comment := range opts.comments {
		event = event.AddComment(comment)
	}
	for _, category := range opts.categories {
		event = event.AddCategory(category)
	}
	for _, rrule := range opts.rrules {
		event = event.AddRRule(strings.TrimPrefix(rrule, "RRULE:"))
	}
	if opts.remindAt > 0 {
		event = event.AddAlarm(ical.NewAlarm(ical.AlarmActionDisplay).
			SetTriggerBefore(opts.remindAt).
			SetDescription(firstNonEmpty(opts.summary, "Reminder")))
	}
	return event, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
