package naver

import (
	"strconv"
	"strings"
	"time"
)

// parsePublishDate parses the locale-formatted publish date rendered on
// post pages: "YYYY. M. D. H:MM" (period-separated date, 24-hour time,
// no seconds). Malformed or truncated input yields nil; a bad date is
// never a reason to fail an extraction.
func parsePublishDate(raw string) *time.Time {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) < 4 {
		return nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil
	}

	clock := strings.Split(strings.TrimSpace(parts[3]), ":")
	if len(clock) < 2 {
		return nil
	}
	hour, err := strconv.Atoi(strings.TrimSpace(clock[0]))
	if err != nil {
		return nil
	}
	minute, err := strconv.Atoi(strings.TrimSpace(clock[1]))
	if err != nil {
		return nil
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	return &ts
}
