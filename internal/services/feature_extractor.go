package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// CountHashtags counts non-overlapping `#` + word-character tokens.
func CountHashtags(text string) int {
	if text == "" {
		return 0
	}
	return len(hashtagPattern.FindAllString(text, -1))
}

// CaptionLength is the character (rune) count of the caption; missing text
// counts as zero.
func CaptionLength(text string) int {
	return len([]rune(text))
}

// publishTimeLayouts accepted for scraped timestamps, tried in order. Layouts
// without a zone designator are interpreted as UTC, which is how a
// timezone-naive timestamp is coerced before any subtraction.
var publishTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublishTime parses an ISO 8601 timestamp with or without an offset.
// A timestamp that fails every layout is an error, never a zero default; the
// caller decides whether to drop the row.
func ParsePublishTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty publish timestamp")
	}
	for _, layout := range publishTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable publish timestamp %q", raw)
}

// HoursSincePublish returns the elapsed hours between publish and reference,
// clamped at zero so clock skew and future-dated rows never go negative.
func HoursSincePublish(publish, reference time.Time) float64 {
	hours := reference.Sub(publish).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

type TemporalFeatures struct {
	Hour              int
	Day               string
	Weekend           bool
	HoursSincePublish float64
}

// ExtractTemporal derives hour-of-day, weekday name, weekend flag and elapsed
// hours. Hour and day are taken in UTC so bulk and single paths agree
// regardless of the host timezone.
func ExtractTemporal(publish, reference time.Time) TemporalFeatures {
	utc := publish.UTC()
	weekday := utc.Weekday()
	return TemporalFeatures{
		Hour:              utc.Hour(),
		Day:               weekday.String(),
		Weekend:           weekday == time.Saturday || weekday == time.Sunday,
		HoursSincePublish: HoursSincePublish(publish, reference),
	}
}

// WeekdayIndex maps a weekday name to the Monday-based index the legacy model
// was trained on (0=Monday .. 6=Sunday). The second return reports whether the
// name was recognized.
func WeekdayIndex(day string) (int, bool) {
	switch strings.ToLower(day) {
	case "monday":
		return 0, true
	case "tuesday":
		return 1, true
	case "wednesday":
		return 2, true
	case "thursday":
		return 3, true
	case "friday":
		return 4, true
	case "saturday":
		return 5, true
	case "sunday":
		return 6, true
	}
	return 0, false
}

// WeekdayNames in legacy model order, Monday first.
func WeekdayNames() []string {
	return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
}
