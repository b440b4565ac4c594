package metric

import (
	"context"
	"log/slog"
	"time"
	"vcal/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

var (
	calendarRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vcal_calendar_renders_total",
		Help: "Number of calendar render requests, by result",
	}, []string{"result"})
	calendarRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vcal_calendar_render_duration_microsec",
		Help:    "Time spent loading and serializing a calendar in microseconds",
		Buckets: prometheus.ExponentialBuckets(50, 2, 12),
	})
	calendarRenderedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vcal_calendar_rendered_bytes_total",
		Help: "Bytes of iCalendar text served",
	})
)

// Record the outcome of one calendar render.
func ObserveRender(result string, elapsed time.Duration, size int) {
	calendarRenders.WithLabelValues(result).Inc()
	if result != ResultOK {
		return
	}
	calendarRenderDuration.Observe(float64(elapsed.Microseconds()))
	calendarRenderedBytes.Add(float64(size))
}

func databaseEmptyRead(ctx context.Context, as *utils.AppState, tickerInterval time.Duration) {
	databaseEmptyRead := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vcal_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register vcal_database_empty_read_microsec metric", "error", err)
			return
		}
	}
	slog.Debug("vcal_database_empty_read_microsec metric registered")
	databaseEmptyRead.Set(0)

	ticker := time.NewTicker(tickerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			switch prometheus.Unregister(databaseEmptyRead) {
			case true:
				slog.Debug("vcal_database_empty_read_microsec metric unregistered")
			case false:
				slog.Warn("vcal_database_empty_read_microsec metric not registered")
			}
			return
		case <-ticker.C:
			latency, err := database(ctx, as)
			if err != nil {
				slog.Error("can't get database latency", "error", err)
				continue
			}
			databaseEmptyRead.Set(float64(latency.Microseconds()))
		}
	}
}

// Start the background collectors. They stop when ctx is cancelled.
func Init(ctx context.Context, as *utils.AppState) {
	go databaseEmptyRead(ctx, as, as.Config.GetMetricCollectionInterval())
}
