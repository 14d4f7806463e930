package leadcsv

import (
	"regexp"
	"strings"
	"time"
)

// Meta stamps created_time as "2025-08-06 23:56:22(UTC-06:00)".
var metaTimeRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ T](\d{2}:\d{2}:\d{2})\(UTC([+-]\d{2}:\d{2})\)$`)

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCreatedTime parses Meta's created_time format, falling back to common
// date layouts. Returns nil for empty or unparseable input, never an error.
func ParseCreatedTime(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if m := metaTimeRe.FindStringSubmatch(s); m != nil {
		iso := m[1] + "T" + m[2] + m[3]
		if t, err := time.Parse(time.RFC3339, iso); err == nil {
			return &t
		}
		return nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
