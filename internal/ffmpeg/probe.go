package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Info describes an audio file as reported by ffprobe.
type Info struct {
	// FormatName is the container format, e.g. "mp3" or "mov,mp4,m4a,3gp,3g2,mj2".
	FormatName string

	// Duration is the total play time.
	Duration time.Duration

	// BitRate is the overall bit rate in bits per second, 0 when unknown.
	BitRate int64

	// SampleRate is the sample rate of the first audio stream in Hz,
	// 0 when unknown.
	SampleRate int
}

// BitRateArg returns the bit rate formatted for an ffmpeg -b:a argument,
// or fallback when the probe did not report one.
//
// Preserving the source bit rate keeps trimmed files from bloating (or
// degrading) relative to the original.
func (i Info) BitRateArg(fallback string) string {
	if i.BitRate <= 0 {
		return fallback
	}
	return strconv.FormatInt(i.BitRate, 10)
}

// Probe runs ffprobe against path and decodes the result.
func Probe(ctx context.Context, runner *Runner, ffprobeBinary, path string) (Info, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := runner.Output(ctx, ffprobeBinary, args)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}

	info, err := decodeProbe(out)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return info, nil
}

// decodeProbe parses ffprobe JSON output. ffprobe reports numbers as
// strings, so everything goes through explicit conversion.
func decodeProbe(data []byte) (Info, error) {
	var payload struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
			BitRate    string `json:"bit_rate"`
		} `json:"format"`
		Streams []struct {
			CodecType  string `json:"codec_type"`
			SampleRate string `json:"sample_rate"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return Info{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	info := Info{FormatName: payload.Format.FormatName}

	if payload.Format.Duration != "" {
		secs, err := strconv.ParseFloat(payload.Format.Duration, 64)
		if err != nil {
			return Info{}, fmt.Errorf("invalid duration %q", payload.Format.Duration)
		}
		info.Duration = time.Duration(secs * float64(time.Second))
	}

	if payload.Format.BitRate != "" {
		if rate, err := strconv.ParseInt(payload.Format.BitRate, 10, 64); err == nil {
			info.BitRate = rate
		}
	}

	for _, stream := range payload.Streams {
		if stream.CodecType != "audio" || stream.SampleRate == "" {
			continue
		}
		if rate, err := strconv.Atoi(stream.SampleRate); err == nil {
			info.SampleRate = rate
			break
		}
	}

	return info, nil
}
