package utils

import (
	"fmt"
	"strings"
	"time"
)

// Format a time.Duration as an iCalendar DURATION value (RFC 5545 3.3.6),
// e.g. PT1H30M, -P1DT2H, P2W, PT0S. Sub-second precision is dropped.
func DurationToIcal(d time.Duration) string {
	var sb strings.Builder
	totalSeconds := int64(d / time.Second)
	if totalSeconds < 0 {
		sb.WriteString("-")
		totalSeconds = -totalSeconds
	}
	sb.WriteString("P")

	if totalSeconds == 0 {
		sb.WriteString("T0S")
		return sb.String()
	}

	const day = 24 * 60 * 60
	if totalSeconds%(7*day) == 0 {
		sb.WriteString(fmt.Sprintf("%dW", totalSeconds/(7*day)))
		return sb.String()
	}

	days := totalSeconds / day
	hours := totalSeconds % day / 3600
	minutes := totalSeconds % 3600 / 60
	seconds := totalSeconds % 60

	if days > 0 {
		sb.WriteString(fmt.Sprintf("%dD", days))
	}
	if hours == 0 && minutes == 0 && seconds == 0 {
		return sb.String()
	}
	// dur-hour = 1*DIGIT "H" [dur-minute], dur-minute = 1*DIGIT "M" [dur-second]
	sb.WriteString("T")
	switch {
	case hours > 0:
		sb.WriteString(fmt.Sprintf("%dH", hours))
		if minutes > 0 || seconds > 0 {
			sb.WriteString(fmt.Sprintf("%dM", minutes))
		}
		if seconds > 0 {
			sb.WriteString(fmt.Sprintf("%dS", seconds))
		}
	case minutes > 0:
		sb.WriteString(fmt.Sprintf("%dM", minutes))
		if seconds > 0 {
			sb.WriteString(fmt.Sprintf("%dS", seconds))
		}
	default:
		sb.WriteString(fmt.Sprintf("%dS", seconds))
	}
	return sb.String()
}
