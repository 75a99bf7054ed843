package importer

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// clockPlaceholder is what fingerprint terminals print for an absent
// punch.
const clockPlaceholder = "--"

func parseDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// parseClock normalizes a time-of-day cell to HH:MM:SS. Placeholders
// and unparsable values become nil, never errors; whether a nil clock
// matters is decided per field by the caller.
func parseClock(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == clockPlaceholder {
		return nil
	}

	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			normalized := parsed.Format("15:04:05")
			return &normalized
		}
	}
	return nil
}

// parseDurationMinutes reads duration cells like "8:30" or "8:30:00"
// into whole minutes. Seconds are dropped. Soft-fails to nil.
func parseDurationMinutes(value string) *int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == clockPlaceholder {
		return nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 {
		return nil
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return nil
	}

	total := hours*60 + minutes
	return &total
}
