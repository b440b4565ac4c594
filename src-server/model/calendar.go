package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vcal/src-server/ical"

	"github.com/uptrace/bun"
)

type Calendar struct {
	bun.BaseModel `bun:"table:calendars"`

	ID       string `bun:"id,pk"`               // required
	ProdID   string `bun:"prod_id,notnull"`     // required
	Version  string `bun:"version,notnull"`     // required
	CalScale string `bun:"cal_scale"`
	Method   string `bun:"method"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

var ErrCalendarNotFound = errors.New("calendar not found")

// Replace the stored calendar `id` (its events and properties included) with
// the content of cal, in one transaction.
func SaveCalendar(ctx context.Context, db *bun.DB, id string, cal *ical.Calendar, now int64) error {
	if id == "" {
		return fmt.Errorf("SaveCalendar: calendar id is blank")
	}
	// Properties are keyed by (calendar, event UID), a blank event UID
	// meaning the calendar itself.
	seen := make(map[string]struct{}, cal.Len())
	for i, event := range cal.GetEvents() {
		uid := event.GetUID()
		if uid == "" {
			return fmt.Errorf("SaveCalendar: %w", ical.NewCustomError(ical.ErrMissingRequiredProperty, "VEVENT UID is required", map[string]any{
				"index": i,
			}))
		}
		if _, ok := seen[uid]; ok {
			return fmt.Errorf("SaveCalendar: %w", ical.NewCustomError(ical.ErrDuplicateUID, "VEVENT UID must be unique", map[string]any{
				"uid": uid,
			}))
		}
		seen[uid] = struct{}{}
	}

	calendarModel := &Calendar{
		ID:        id,
		ProdID:    cal.GetProdID(),
		Version:   cal.GetVersion(),
		CalScale:  cal.GetCalScale(),
		Method:    cal.GetMethod(),
		CreatedAt: now,
	}

	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Calendar)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if err != nil {
			return err
		}
		switch exists {
		case true:
			calendarModel.UpdatedAt = now
			if _, err := tx.NewUpdate().
				Model(calendarModel).
				ExcludeColumn("created_at").
				WherePK().
				Exec(ctx); err != nil {
				return err
			}
		case false:
			if _, err := tx.NewInsert().
				Model(calendarModel).
				Exec(ctx); err != nil {
				return err
			}
		}

		// wipe old content
		for _, model := range []interface{}{
			(*Event)(nil),
			(*Property)(nil),
		} {
			if _, err := tx.NewDelete().
				Model(model).
				Where("calendar_id = ?", id).
				Exec(ctx); err != nil {
				return err
			}
		}

		properties := make([]Property, 0)
		for i, prop := range cal.GetXProps() {
			properties = append(properties, Property{
				CalendarID: id,
				Name:       prop.Name,
				Value:      prop.Value,
				Position:   i,
			})
		}

		events := make([]Event, 0, cal.Len())
		for i, icalEvent := range cal.GetEvents() {
			eventModel, eventProperties := EventFromIcal(id, i, icalEvent)
			events = append(events, *eventModel)
			properties = append(properties, eventProperties...)
		}
		if len(events) > 0 {
			if _, err := tx.NewInsert().
				Model(&events).
				Exec(ctx); err != nil {
				return err
			}
		}
		if len(properties) > 0 {
			if _, err := tx.NewInsert().
				Model(&properties).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("SaveCalendar: %w", err)
	}
	return nil
}

// Rebuild a stored calendar, events in their original order.
func LoadCalendar(ctx context.Context, db bun.IDB, id string) (*ical.Calendar, error) {
	calendarModel := new(Calendar)
	if err := db.NewSelect().
		Model(calendarModel).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("LoadCalendar: %w: %s", ErrCalendarNotFound, id)
		}
		return nil, fmt.Errorf("LoadCalendar: %w", err)
	}

	eventModels := make([]Event, 0)
	if err := db.NewSelect().
		Model(&eventModels).
		Where("calendar_id = ?", id).
		Order("position ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("LoadCalendar: %w", err)
	}

	propertyModels := make([]Property, 0)
	if err := db.NewSelect().
		Model(&propertyModels).
		Where("calendar_id = ?", id).
		Order("event_id ASC", "position ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("LoadCalendar: %w", err)
	}

	cal := ical.NewCalendar(calendarModel.ProdID, calendarModel.Version)
	if calendarModel.CalScale != "" {
		cal.SetCalScale(calendarModel.CalScale)
	}
	if calendarModel.Method != "" {
		cal.SetMethod(calendarModel.Method)
	}

	eventProperties := make(map[string][]Property)
	for _, prop := range propertyModels {
		if prop.EventID == "" {
			if err := cal.AddXProp(prop.Name, prop.Value); err != nil {
				return nil, fmt.Errorf("LoadCalendar: %w", err)
			}
			continue
		}
		eventProperties[prop.EventID] = append(eventProperties[prop.EventID], prop)
	}

	for _, eventModel := range eventModels {
		icalEvent, err := eventModel.ToIcal(cal, eventProperties[eventModel.ID])
		if err != nil {
			return nil, fmt.Errorf("LoadCalendar: %w", err)
		}
		cal.AddEvent(icalEvent)
	}
	return cal, nil
}
