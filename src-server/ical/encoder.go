package ical

import (
	"time"

	"vcal/src-server/ical/utils"
)

// lineWriter emits folded, CRLF-terminated content lines. The first write
// error sticks and turns every later call into a no-op.
type lineWriter struct {
	write func(string) (int, error)
	n     int64
	err   error
}

func newLineWriter(write func(string) (int, error)) *lineWriter {
	return &lineWriter{write: utils.Split75wrapper(write)}
}

// Write an unterminated content line as-is.
func (w *lineWriter) raw(line string) {
	if w.err != nil {
		return
	}
	n, err := w.write(line)
	w.n += int64(n)
	w.err = err
}

// NAME:VALUE where ';' and ',' in VALUE are structural.
func (w *lineWriter) property(name, value string) {
	w.raw(name + ":" + utils.EscapeLineBreaks(value))
}

// NAME:VALUE for a TEXT value.
func (w *lineWriter) text(name, value string) {
	w.raw(name + ":" + utils.EscapeText(value))
}

// NAME:VALUE for a DATE-TIME, always in UTC.
func (w *lineWriter) datetime(name string, value time.Time) {
	w.raw(name + ":" + utils.TimeToIcalDatetime(value))
}
