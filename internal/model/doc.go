// Package model defines the core data structures used throughout
// the trimtofit application.
//
// # Range
//
// Range represents a span of audio as a half-open interval [Start, End):
//
//	r, err := model.ParseRange("00:30-01:45")
//	fmt.Println(r.Duration()) // 1m15s
//
// # Range computations
//
// The trim operation is expressed as a set of ranges to remove. The
// processor needs the complement, the ranges to keep:
//
//	keep := model.Invert(remove, totalDuration)
//
// Overlapping or unsorted input is handled; Normalize is available when a
// caller wants a canonical sorted, merged list.
//
// # Timestamps
//
// ParseTimestamp and FormatTimestamp convert between time.Duration and the
// "HH:MM:SS" / "MM:SS" notation used on the command line and in the TUI:
//
//	d, _ := model.ParseTimestamp("1:02:03.500")
//	model.FormatTimestamp(d) // "1:02:03.500"
package model
