package audio

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/trimtofit/internal/config"
	"github.com/handiism/trimtofit/internal/model"
)

func sec(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func TestTrimArgs(t *testing.T) {
	keep := []model.Range{
		{Start: 0, End: sec(10)},
		{Start: sec(20), End: sec(30)},
	}

	args := trimArgs("in.mp3", "out.mp3", keep, "256000")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-i in.mp3") {
		t.Errorf("args missing input: %v", args)
	}
	if !strings.HasSuffix(joined, "out.mp3") {
		t.Errorf("args should end with output: %v", args)
	}
	if !strings.Contains(joined, "-b:a 256000") {
		t.Errorf("args missing bitrate: %v", args)
	}

	var filter string
	for i, arg := range args {
		if arg == "-filter_complex" {
			filter = args[i+1]
		}
	}
	if filter == "" {
		t.Fatal("args missing -filter_complex")
	}
	if !strings.Contains(filter, "atrim=start=0.000:end=10.000") {
		t.Errorf("filter missing first segment: %s", filter)
	}
	if !strings.Contains(filter, "atrim=start=20.000:end=30.000") {
		t.Errorf("filter missing second segment: %s", filter)
	}
	if !strings.Contains(filter, "concat=n=2:v=0:a=1[out]") {
		t.Errorf("filter missing concat: %s", filter)
	}
	if !strings.Contains(filter, "asetpts=PTS-STARTPTS") {
		t.Errorf("filter must reset segment timestamps: %s", filter)
	}
}

func TestMergeArgs(t *testing.T) {
	args := mergeArgs([]string{"a.mp3", "b.mp3", "c.mp3"}, "out.mp3", 44100, "192k")
	joined := strings.Join(args, " ")

	for _, in := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		if !strings.Contains(joined, "-i "+in) {
			t.Errorf("args missing input %s: %v", in, args)
		}
	}
	if !strings.Contains(joined, "concat=n=3:v=0:a=1[out]") {
		t.Errorf("args missing concat filter: %v", args)
	}
	if !strings.Contains(joined, "-ar 44100") {
		t.Errorf("args missing sample rate: %v", args)
	}
	if !strings.Contains(joined, "-b:a 192k") {
		t.Errorf("args missing bitrate: %v", args)
	}
}

func TestMergeArgs_UnknownSampleRateOmitsAR(t *testing.T) {
	args := mergeArgs([]string{"a.mp3"}, "out.mp3", 0, "192k")
	if strings.Contains(strings.Join(args, " "), "-ar") {
		t.Errorf("args should not include -ar for unknown rate: %v", args)
	}
}

func TestFormatMapping(t *testing.T) {
	tests := []struct {
		format    string
		wantMuxer string
		wantCodec string
	}{
		{"m4a", "mp4", "aac"},
		{".m4a", "mp4", "aac"},
		{"AAC", "adts", "aac"},
		{"mp3", "", ""},
		{"wav", "", ""},
		{"flac", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			muxer, codec := formatMapping(tt.format)
			if muxer != tt.wantMuxer || codec != tt.wantCodec {
				t.Errorf("formatMapping(%q) = (%q, %q), want (%q, %q)",
					tt.format, muxer, codec, tt.wantMuxer, tt.wantCodec)
			}
		})
	}
}

func TestStage(t *testing.T) {
	var got []float64
	fn := stage(func(f float64) { got = append(got, f) }, 0.3, 0.8)

	fn(0)
	fn(0.5)
	fn(1)

	want := []float64{0.3, 0.55, 0.8}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("stage()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStage_NilProgress(t *testing.T) {
	if stage(nil, 0, 1) != nil {
		t.Error("stage(nil) should stay nil so the runner skips parsing work")
	}
}

func TestChangeSpeed_RejectsFactorOutOfRange(t *testing.T) {
	p := NewProcessor(config.DefaultSettings(), nil)

	for _, factor := range []float64{0.4, 2.1, 0, -1} {
		if _, err := p.ChangeSpeed(context.Background(), "in.mp3", "out.mp3", factor, nil); err == nil {
			t.Errorf("ChangeSpeed(factor=%v) should fail validation", factor)
		}
	}
}

func TestTrim_RequiresRanges(t *testing.T) {
	p := NewProcessor(config.DefaultSettings(), nil)

	if _, err := p.Trim(context.Background(), "in.mp3", "out.mp3", nil, false, nil); err == nil {
		t.Error("Trim with no ranges should fail")
	}
}

func TestTrim_MissingInput(t *testing.T) {
	p := NewProcessor(config.DefaultSettings(), nil)
	missing := filepath.Join(t.TempDir(), "nope.mp3")
	ranges := []model.Range{{Start: 0, End: sec(1)}}

	_, err := p.Trim(context.Background(), missing, "out.mp3", ranges, false, nil)
	if err == nil {
		t.Fatal("Trim on missing input should fail")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should mention the missing file, got %v", err)
	}
}

func TestMerge_RequiresInputs(t *testing.T) {
	p := NewProcessor(config.DefaultSettings(), nil)

	if _, err := p.Merge(context.Background(), nil, "out.mp3", nil); err == nil {
		t.Error("Merge with no inputs should fail")
	}
}

func TestMerge_AllInputsMissing(t *testing.T) {
	var warnings int
	p := NewProcessor(config.DefaultSettings(), func(event ProgressEvent) {
		if event.Level == LevelWarning {
			warnings++
		}
	})

	dir := t.TempDir()
	inputs := []string{filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.mp3")}

	if _, err := p.Merge(context.Background(), inputs, "out.mp3", nil); err == nil {
		t.Fatal("Merge with only missing inputs should fail")
	}
	if warnings != 2 {
		t.Errorf("expected a warning per skipped file, got %d", warnings)
	}
}

func TestPrepareOutput_RequiresPath(t *testing.T) {
	p := NewProcessor(config.DefaultSettings(), nil)
	if _, err := p.prepareOutput("  "); err == nil {
		t.Error("empty output path should fail")
	}
}
