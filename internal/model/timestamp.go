package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp parses a clock-style timestamp into a time.Duration.
//
// Accepted forms, mirroring the HH/MM/SS inputs of the UI:
//
//	"90"         // plain seconds
//	"01:30"      // MM:SS
//	"1:02:03"    // HH:MM:SS
//	"0:05.250"   // fractional seconds on the last component
//
// Minutes and seconds must be below 60 when a higher component is present.
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q: too many components", s)
	}

	// All components except the last are whole numbers.
	var units []float64
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("invalid timestamp %q: empty component", s)
		}
		if i < len(parts)-1 {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid timestamp %q: bad component %q", s, part)
			}
			units = append(units, float64(n))
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid timestamp %q: bad component %q", s, part)
		}
		units = append(units, f)
	}

	// With multiple components, lower units must stay under 60.
	for i := 1; i < len(units); i++ {
		if units[i] >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q: component %v out of range", s, units[i])
		}
	}

	var seconds float64
	for _, u := range units {
		seconds = seconds*60 + u
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// FormatTimestamp renders a duration in clock notation.
//
// Durations under an hour render as "M:SS", longer ones as "H:MM:SS".
// Sub-second precision is appended as ".mmm" only when present:
//
//	FormatTimestamp(90 * time.Second)  // "1:30"
//	FormatTimestamp(3723 * time.Second) // "1:02:03"
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		return "-" + FormatTimestamp(-d)
	}

	millis := d.Milliseconds()
	secs := millis / 1000
	frac := millis % 1000

	h := secs / 3600
	m := (secs % 3600) / 60
	sec := secs % 60

	var out string
	if h > 0 {
		out = fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	} else {
		out = fmt.Sprintf("%d:%02d", m, sec)
	}
	if frac != 0 {
		out += fmt.Sprintf(".%03d", frac)
	}
	return out
}

// FormatSeconds renders a duration as decimal seconds for FFmpeg arguments.
//
// FFmpeg accepts fractional seconds everywhere a time value appears, which
// avoids clock-notation ambiguity in generated commands.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
