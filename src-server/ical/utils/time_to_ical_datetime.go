package utils

import (
	"time"
)

// Basic UTC form, e.g. 20221224T235959Z
const UTCLayout = "20060102T150405Z"

// Convert a time to a string in iCalendar UTC form: YYYYMMDDTHHMMSSZ
func TimeToIcalDatetime(time_ time.Time) string {
	return time_.UTC().Format(UTCLayout)
}
