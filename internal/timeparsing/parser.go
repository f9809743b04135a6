// Package timeparsing parses the date expressions wr accepts on flags
// like --start and --target.
//
// Two layers are tried in order:
//  1. Compact relative offset from now (+6h, -1d, +2w)
//  2. Absolute date or timestamp (2026-03-01, RFC 3339)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// compactOffsetRe matches [+-]?(\d+)([hdwmy]): +6h, -1d, +2w, 3m, 1y.
var compactOffsetRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// ParseDate resolves a flag value against now. Relative offsets keep
// now's clock time; absolute dates are midnight in the date's zone.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if IsCompactOffset(s) {
		return ParseCompactOffset(s, now)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or an offset like +2w)", s)
}

// ParseCompactOffset applies a compact offset to now.
//
// Units: h hours, d days, w weeks, m months, y years. No sign means
// forward. Days and larger use calendar arithmetic, so "+1m" on
// January 31 lands on March 3 the way time.AddDate does.
func ParseCompactOffset(s string, now time.Time) (time.Time, error) {
	matches := compactOffsetRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact offset: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid offset amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	switch matches[3] {
	case "h":
		return now.Add(time.Duration(amount) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, amount*7), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	default: // y, the regex admits nothing else
		return now.AddDate(amount, 0, 0), nil
	}
}

// IsCompactOffset reports whether s looks like a compact offset.
func IsCompactOffset(s string) bool {
	return compactOffsetRe.MatchString(s)
}
