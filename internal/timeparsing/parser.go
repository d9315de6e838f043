// Package timeparsing resolves user-supplied date expressions such as the
// --start-date flag.
//
// Layers, tried in order:
//  1. Compact duration (+6h, -1d, +2w)
//  2. Absolute date (2006-01-02) or RFC3339 timestamp
//  3. Natural language (tomorrow, next monday)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([hdwmy])
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

var nlp = newNLPParser()

func newNLPParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseCompactDuration parses compact duration syntax relative to now.
//
// Units: h = hours, d = days, w = weeks, m = months, y = years.
// A missing sign means positive.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	return applyDuration(now, amount, matches[3]), nil
}

func applyDuration(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, amount)
	case "w":
		return base.AddDate(0, 0, amount*7)
	case "m":
		return base.AddDate(0, amount, 0)
	case "y":
		return base.AddDate(amount, 0, 0)
	default:
		return base
	}
}

// IsCompactDuration returns true if the string matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}

// ParseNaturalLanguage resolves English expressions like "tomorrow" or
// "next monday at 9am" relative to now.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	r, err := nlp.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized time expression: %q", s)
	}
	return r.Time, nil
}

// ParseRelativeTime resolves s through the compact, absolute and natural
// language layers, returning the first match.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return ParseNaturalLanguage(s, now)
}

// ParseStartDate resolves a --start-date value to a calendar day (midnight in
// now's location). "tomorrow" is handled without the NLP layer so the common
// case never depends on rule ordering.
func ParseStartDate(s string, now time.Time) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "tomorrow") {
		return Day(now.AddDate(0, 0, 1)), nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
