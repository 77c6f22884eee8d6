// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// naiveLayout matches Python's datetime.isoformat() without an offset.
// The server writes UTC this way.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp parses an ISO-8601 wire timestamp. Offset-less values
// are taken as UTC.
func ParseTimestamp(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(naiveLayout, ts, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05.999999999", ts, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// twelveHourRegions use a 12-hour clock by default.
var twelveHourRegions = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "IN": true,
	"PH": true, "PK": true, "BD": true, "EG": true, "SA": true,
}

// Uses12Hour reports whether the locale's region reads a 12-hour clock.
func Uses12Hour(tag language.Tag) bool {
	region, _ := tag.Region()
	return twelveHourRegions[region.String()]
}

// ClockLayout returns the hour:minute layout for a locale.
func ClockLayout(tag language.Tag) string {
	if Uses12Hour(tag) {
		return "3:04 PM"
	}
	return "15:04"
}

// FormatTime renders a wire timestamp as local hour:minute for the locale.
// Unparseable input silently shows the current time.
func FormatTime(ts string, tag language.Tag) string {
	return formatTimeAt(ts, tag, time.Now)
}

func formatTimeAt(ts string, tag language.Tag, now func() time.Time) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		t = now()
	}
	return t.In(time.Local).Format(ClockLayout(tag))
}

// ResolveLocale picks the display locale: the configured value if it
// parses, then LC_ALL, LC_TIME and LANG, then American English.
func ResolveLocale(configured string) language.Tag {
	candidates := []string{configured, os.Getenv("LC_ALL"), os.Getenv("LC_TIME"), os.Getenv("LANG")}
	for _, c := range candidates {
		if tag, ok := ParseLocale(c); ok {
			return tag
		}
	}
	return language.AmericanEnglish
}

// ParseLocale accepts BCP 47 tags and POSIX names like "en_GB.UTF-8".
// "C" and "POSIX" are rejected so the caller falls through to a default.
func ParseLocale(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
