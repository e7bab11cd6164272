// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates normalizes the loosely-formatted date strings returned by
// upstream patent services.
// Implements: prd001-retrieval (R4.1-R4.4).
package dates

import (
	"strconv"
	"strings"
	"time"
)

// layouts are tried in order. Upstream mixes all of these across fields and
// records (R4.1).
var layouts = []string{
	"2006-01-02",
	"20060102",
	"2006.01.02",
	"02.01.2006",
	"01/02/2006",
	"2006/01/02",
}

// Parse normalizes a free-form date string into a UTC calendar date. It
// tries the known layouts in order, then a manual split on "." expecting
// exactly three numeric year/month/day parts (upstream sometimes omits zero
// padding, which the fixed layouts reject). A failure is not an error:
// Parse returns a zero time and false, and the caller logs with whatever
// record context it has (R4.2, R4.4).
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return parseDotted(s)
}

// parseDotted handles dotted dates with variable-width components, e.g.
// "2023.6.15". time.Date normalizes out-of-range components instead of
// failing, so the result is compared back against the inputs (R4.3).
func parseDotted(s string) (time.Time, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
