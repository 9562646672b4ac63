package model

import (
	"testing"
	"time"
)

func sec(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func TestRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		wantErr bool
	}{
		{"valid", Range{sec(1), sec(2)}, false},
		{"zero length", Range{sec(1), sec(1)}, true},
		{"inverted", Range{sec(2), sec(1)}, true},
		{"negative start", Range{sec(-1), sec(1)}, true},
		{"starts at zero", Range{0, sec(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name   string
		remove []Range
		total  time.Duration
		want   []Range
	}{
		{
			name:   "no removals keeps everything",
			remove: nil,
			total:  sec(60),
			want:   []Range{{0, sec(60)}},
		},
		{
			name:   "middle removal splits",
			remove: []Range{{sec(10), sec(20)}},
			total:  sec(60),
			want:   []Range{{0, sec(10)}, {sec(20), sec(60)}},
		},
		{
			name:   "removal from start",
			remove: []Range{{0, sec(10)}},
			total:  sec(60),
			want:   []Range{{sec(10), sec(60)}},
		},
		{
			name:   "removal to end",
			remove: []Range{{sec(50), sec(60)}},
			total:  sec(60),
			want:   []Range{{0, sec(50)}},
		},
		{
			name:   "unsorted input",
			remove: []Range{{sec(40), sec(50)}, {sec(10), sec(20)}},
			total:  sec(60),
			want:   []Range{{0, sec(10)}, {sec(20), sec(40)}, {sec(50), sec(60)}},
		},
		{
			name:   "overlapping removals merge",
			remove: []Range{{sec(10), sec(30)}, {sec(20), sec(40)}},
			total:  sec(60),
			want:   []Range{{0, sec(10)}, {sec(40), sec(60)}},
		},
		{
			name:   "removal past end truncates",
			remove: []Range{{sec(50), sec(90)}},
			total:  sec(60),
			want:   []Range{{0, sec(50)}},
		},
		{
			name:   "everything removed",
			remove: []Range{{0, sec(60)}},
			total:  sec(60),
			want:   nil,
		},
		{
			name:   "contained removal",
			remove: []Range{{sec(10), sec(40)}, {sec(20), sec(30)}},
			total:  sec(60),
			want:   []Range{{0, sec(10)}, {sec(40), sec(60)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Invert(tt.remove, tt.total)
			if len(got) != len(tt.want) {
				t.Fatalf("Invert() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Invert()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInvert_DoesNotModifyInput(t *testing.T) {
	remove := []Range{{sec(40), sec(50)}, {sec(10), sec(20)}}
	Invert(remove, sec(60))

	if remove[0].Start != sec(40) {
		t.Error("Invert should not reorder the caller's slice")
	}
}

func TestNormalize(t *testing.T) {
	ranges := []Range{
		{sec(30), sec(40)},
		{sec(10), sec(20)},
		{sec(15), sec(25)},
		{sec(5), sec(5)}, // invalid, dropped
	}

	got := Normalize(ranges)
	want := []Range{{sec(10), sec(25)}, {sec(30), sec(40)}}

	if len(got) != len(want) {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Normalize()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		want    Range
		wantErr bool
	}{
		{"0:10-0:20", Range{sec(10), sec(20)}, false},
		{"10-20", Range{sec(10), sec(20)}, false},
		{"1:00:00-1:00:30", Range{sec(3600), sec(3630)}, false},
		{" 0:10 - 0:20 ", Range{sec(10), sec(20)}, false},
		{"0:20-0:10", Range{}, true},
		{"0:10", Range{}, true},
		{"abc-def", Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRangeList(t *testing.T) {
	ranges, err := ParseRangeList("0:10-0:20, 1:30-1:45,")
	if err != nil {
		t.Fatalf("ParseRangeList() error = %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("ParseRangeList() returned %d ranges, want 2", len(ranges))
	}
	if ranges[1].Start != sec(90) {
		t.Errorf("second range start = %v, want %v", ranges[1].Start, sec(90))
	}

	if _, err := ParseRangeList("0:10-0:20,bogus"); err == nil {
		t.Error("ParseRangeList should reject malformed elements")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"90", sec(90), false},
		{"1:30", sec(90), false},
		{"01:30", sec(90), false},
		{"1:02:03", sec(3723), false},
		{"0:05.250", 5250 * time.Millisecond, false},
		{"", 0, true},
		{"1:60", 0, true},
		{"1:2:3:4", 0, true},
		{"-5", 0, true},
		{"a:b", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{sec(90), "1:30"},
		{sec(3723), "1:02:03"},
		{5250 * time.Millisecond, "0:05.250"},
		{0, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTimestamp(tt.d); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(90500 * time.Millisecond); got != "90.500" {
		t.Errorf("FormatSeconds() = %q, want %q", got, "90.500")
	}
}
