package route

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
	"vcal/src-server/metric"
	"vcal/src-server/model"
	"vcal/src-server/utils"
)

func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ical/{calendar_id}", LogMiddleware(func(w http.ResponseWriter, r *http.Request) {
		startTimer := time.Now()
		calendarID := r.PathValue("calendar_id")

		icalCalendar, err := model.LoadCalendar(r.Context(), as.BunDB, calendarID)
		switch {
		case errors.Is(err, model.ErrCalendarNotFound):
			metric.ObserveRender(metric.ResultNotFound, time.Since(startTimer), 0)
			http.Error(w, "Calendar not found", http.StatusNotFound)
			return
		case err != nil:
			metric.ObserveRender(metric.ResultError, time.Since(startTimer), 0)
			slog.Error("can't load calendar", "calendar_id", calendarID, "error", err)
			http.Error(w, "Can't load calendar", http.StatusInternalServerError)
			return
		}

		content, err := icalCalendar.Marshal()
		if err != nil {
			metric.ObserveRender(metric.ResultInvalid, time.Since(startTimer), 0)
			slog.Warn("stored calendar is not valid", "calendar_id", calendarID, "error", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		etag := `"` + utils.ContentHash(content) + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			metric.ObserveRender(metric.ResultOK, time.Since(startTimer), 0)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		n, err := io.WriteString(w, content)
		if err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
		}
		metric.ObserveRender(metric.ResultOK, time.Since(startTimer), n)
	}))
}
