package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Range represents a span of audio as a half-open interval [Start, End).
//
// Ranges are used both as "remove these parts" and "keep these parts"
// selections depending on the operation. A valid range has a non-negative
// Start strictly before End.
//
// Example:
//
//	r := model.Range{Start: 30 * time.Second, End: 105 * time.Second}
//	r.Duration() // 1m15s
type Range struct {
	// Start is the inclusive start offset into the audio.
	Start time.Duration

	// End is the exclusive end offset into the audio.
	End time.Duration
}

// Duration returns the length of the range.
func (r Range) Duration() time.Duration {
	return r.End - r.Start
}

// Validate checks that the range is well-formed.
//
// A range is invalid if Start is negative or End is not after Start.
func (r Range) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("range start %s is negative", FormatTimestamp(r.Start))
	}
	if r.End <= r.Start {
		return fmt.Errorf("range end %s is not after start %s",
			FormatTimestamp(r.End), FormatTimestamp(r.Start))
	}
	return nil
}

// String renders the range as "start-end" using timestamp notation.
func (r Range) String() string {
	return FormatTimestamp(r.Start) + "-" + FormatTimestamp(r.End)
}

// Normalize returns a sorted copy of ranges with overlapping and adjacent
// entries merged.
//
// The input slice is not modified. Zero-duration and inverted ranges are
// dropped.
func Normalize(ranges []Range) []Range {
	var valid []Range
	for _, r := range ranges {
		if r.Validate() == nil {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	merged := []Range{valid[0]}
	for _, r := range valid[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Invert computes the complement of the remove ranges over [0, total).
//
// This is the keep-range computation behind trimming: given the parts the
// user marked for removal, it returns the parts of the audio that survive.
// The input does not need to be sorted or non-overlapping. Ranges extending
// past total simply truncate the tail; a remove set covering everything
// yields an empty result.
//
// Example:
//
//	remove := []Range{{10 * time.Second, 20 * time.Second}}
//	keep := model.Invert(remove, 60*time.Second)
//	// keep = [0s-10s, 20s-60s]
func Invert(remove []Range, total time.Duration) []Range {
	sorted := make([]Range, len(remove))
	copy(sorted, remove)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var keep []Range
	var current time.Duration

	for _, r := range sorted {
		if r.Start > current {
			end := r.Start
			if end > total {
				end = total
			}
			if end > current {
				keep = append(keep, Range{Start: current, End: end})
			}
		}
		if r.End > current {
			current = r.End
		}
	}

	if current < total {
		keep = append(keep, Range{Start: current, End: total})
	}

	return keep
}

// TotalDuration sums the durations of all ranges.
func TotalDuration(ranges []Range) time.Duration {
	var sum time.Duration
	for _, r := range ranges {
		sum += r.Duration()
	}
	return sum
}

// ParseRange parses a "start-end" pair of timestamps into a Range.
//
// Both sides accept the notation understood by ParseTimestamp:
//
//	model.ParseRange("00:30-01:45")
//	model.ParseRange("90-1:45:00")
func ParseRange(s string) (Range, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range %q: expected start-end", s)
	}

	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	end, err := ParseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}

	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	return r, nil
}

// ParseRangeList parses a comma-separated list of ranges.
//
// Empty elements are ignored, so trailing commas are harmless:
//
//	ranges, err := model.ParseRangeList("0:10-0:20,1:30-1:45")
func ParseRangeList(s string) ([]Range, error) {
	var ranges []Range
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}
