package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/trimtofit/internal/config"
	"github.com/handiism/trimtofit/internal/ffmpeg"
	ioutils "github.com/handiism/trimtofit/internal/io"
	"github.com/handiism/trimtofit/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a processing progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ProgressFunc receives completion fractions from 0.0 to 1.0.
type ProgressFunc func(float64)

// Speed factor bounds accepted by a single atempo pass.
const (
	MinSpeedFactor = 0.5
	MaxSpeedFactor = 2.0
)

// Processor performs all audio operations by driving the external FFmpeg
// binaries resolved through the co-location rules of internal/ffmpeg.
type Processor struct {
	settings *config.Settings
	locator  *ffmpeg.Locator
	runner   *ffmpeg.Runner
	tags     *TagCopier

	onEvent func(ProgressEvent)
}

// NewProcessor creates a Processor.
//
// onEvent, when non-nil, receives human-readable progress messages the same
// way operation callbacks receive fractions; both are safe to leave nil.
func NewProcessor(settings *config.Settings, onEvent func(ProgressEvent)) *Processor {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Processor{
		settings: settings,
		locator:  ffmpeg.NewLocator(settings.FFmpegPath, settings.FFprobePath),
		runner:   ffmpeg.NewRunner(settings.HideConsoleWindow),
		tags:     NewTagCopier(settings),
		onEvent:  onEvent,
	}
}

// CheckBinaries verifies that ffmpeg and ffprobe are resolvable. Call this
// at startup so a broken distribution is reported before any file work.
func (p *Processor) CheckBinaries() error {
	return p.locator.Check()
}

// Probe returns ffprobe information for an audio file.
func (p *Processor) Probe(ctx context.Context, input string) (ffmpeg.Info, error) {
	ffprobeBin, err := p.locator.FFprobe()
	if err != nil {
		return ffmpeg.Info{}, err
	}
	return ffmpeg.Probe(ctx, p.runner, ffprobeBin, input)
}

// Trim removes the given ranges from the input audio, or keeps only those
// ranges when keepSelected is true, and writes the result to output.
//
// The source bit rate is preserved when ffprobe reports one, so trimmed
// files neither bloat nor degrade. The path actually written is returned;
// it differs from output when a file already existed there.
func (p *Processor) Trim(ctx context.Context, input, output string, ranges []model.Range, keepSelected bool, progress ProgressFunc) (string, error) {
	if err := checkInput(input); err != nil {
		return "", err
	}
	if len(ranges) == 0 {
		return "", errors.New("no ranges selected")
	}
	report(progress, 0.1)

	info, err := p.Probe(ctx, input)
	if err != nil {
		return "", err
	}
	report(progress, 0.3)

	var keep []model.Range
	if keepSelected {
		keep = model.Normalize(ranges)
	} else {
		keep = model.Invert(ranges, info.Duration)
	}
	if len(keep) == 0 {
		return "", errors.New("nothing left to keep: the selected ranges cover the entire file")
	}

	actual, err := p.prepareOutput(output)
	if err != nil {
		return "", err
	}

	ffmpegBin, err := p.locator.FFmpeg()
	if err != nil {
		return "", err
	}

	p.eventf(LevelVerbose, "Trimming %s: keeping %d range(s), %s total",
		filepath.Base(input), len(keep), model.FormatTimestamp(model.TotalDuration(keep)))

	args := trimArgs(input, actual, keep, info.BitRateArg(p.settings.DefaultBitrate))
	if err := p.runner.RunProgress(ctx, ffmpegBin, args, model.TotalDuration(keep), stage(progress, 0.3, 0.8)); err != nil {
		return "", err
	}
	report(progress, 0.8)

	p.preserveTags(input, actual)
	report(progress, 1.0)
	p.eventf(LevelSuccess, "Saved %s", actual)
	return actual, nil
}

// ChangeSpeed re-times the audio by factor using FFmpeg's atempo filter,
// which preserves pitch. factor must be within [MinSpeedFactor, MaxSpeedFactor].
func (p *Processor) ChangeSpeed(ctx context.Context, input, output string, factor float64, progress ProgressFunc) (string, error) {
	if factor < MinSpeedFactor || factor > MaxSpeedFactor {
		return "", fmt.Errorf("speed factor must be between %.1f and %.1f", MinSpeedFactor, MaxSpeedFactor)
	}
	if err := checkInput(input); err != nil {
		return "", err
	}
	report(progress, 0.1)

	// Probe failure only costs progress granularity, not the operation.
	var expected time.Duration
	if info, err := p.Probe(ctx, input); err == nil {
		expected = time.Duration(float64(info.Duration) / factor)
	} else {
		p.eventf(LevelWarning, "Could not probe %s: %v", filepath.Base(input), err)
	}

	actual, err := p.prepareOutput(output)
	if err != nil {
		return "", err
	}

	ffmpegBin, err := p.locator.FFmpeg()
	if err != nil {
		return "", err
	}
	report(progress, 0.3)

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-filter:a", fmt.Sprintf("atempo=%g", factor),
		"-vn",
		actual,
	}
	if err := p.runner.RunProgress(ctx, ffmpegBin, args, expected, stage(progress, 0.3, 0.9)); err != nil {
		return "", err
	}

	p.preserveTags(input, actual)
	report(progress, 1.0)
	p.eventf(LevelSuccess, "Saved %s", actual)
	return actual, nil
}

// Convert rewrites the input into the target format. format is a bare
// extension such as "wav" or "m4a"; formats whose extension does not match
// their FFmpeg muxer name are mapped explicitly.
func (p *Processor) Convert(ctx context.Context, input, output, format string, progress ProgressFunc) (string, error) {
	if err := checkInput(input); err != nil {
		return "", err
	}
	report(progress, 0.1)

	var total time.Duration
	if info, err := p.Probe(ctx, input); err == nil {
		total = info.Duration
	}

	actual, err := p.prepareOutput(output)
	if err != nil {
		return "", err
	}

	ffmpegBin, err := p.locator.FFmpeg()
	if err != nil {
		return "", err
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-vn",
	}
	muxer, codec := formatMapping(format)
	if muxer != "" {
		args = append(args, "-f", muxer)
	}
	if codec != "" {
		args = append(args, "-c:a", codec)
	}
	args = append(args, actual)

	if err := p.runner.RunProgress(ctx, ffmpegBin, args, total, stage(progress, 0.1, 0.9)); err != nil {
		return "", err
	}

	p.preserveTags(input, actual)
	report(progress, 1.0)
	p.eventf(LevelSuccess, "Saved %s", actual)
	return actual, nil
}

// Merge concatenates multiple audio files into a single MP3, resampling
// every input to the first input's sample rate. Missing inputs are skipped
// with a warning rather than aborting the merge.
func (p *Processor) Merge(ctx context.Context, inputs []string, output string, progress ProgressFunc) (string, error) {
	if len(inputs) == 0 {
		return "", errors.New("no input files provided")
	}

	var existing []string
	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			p.eventf(LevelWarning, "Skipping missing file: %s", in)
			continue
		}
		existing = append(existing, in)
	}
	if len(existing) == 0 {
		return "", errors.New("none of the input files exist")
	}
	report(progress, 0.1)

	infos := make([]ffmpeg.Info, len(existing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.MaxConcurrentOperations)
	for i, in := range existing {
		i, in := i, in // capture
		g.Go(func() error {
			info, err := p.Probe(gctx, in)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	report(progress, 0.3)

	var total time.Duration
	for _, info := range infos {
		total += info.Duration
	}

	actual, err := p.prepareOutput(output)
	if err != nil {
		return "", err
	}

	ffmpegBin, err := p.locator.FFmpeg()
	if err != nil {
		return "", err
	}

	args := mergeArgs(existing, actual, infos[0].SampleRate, p.settings.MergeBitrate)
	p.eventf(LevelVerbose, "Merging %d files, %s total", len(existing), model.FormatTimestamp(total))
	if err := p.runner.RunProgress(ctx, ffmpegBin, args, total, stage(progress, 0.3, 0.95)); err != nil {
		return "", err
	}

	report(progress, 1.0)
	p.eventf(LevelSuccess, "Saved %s", actual)
	return actual, nil
}

// Preview trims to a file in the system temp directory and opens it with
// the platform's default audio player.
func (p *Processor) Preview(ctx context.Context, input string, ranges []model.Range, keepSelected bool, progress ProgressFunc) (string, error) {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".mp3"
	}
	stem := ioutils.SanitizeFileName(strings.TrimSuffix(filepath.Base(input), ext))
	tmp := filepath.Join(os.TempDir(), "trimtofit_preview_"+stem+ext)

	out, err := p.Trim(ctx, input, tmp, ranges, keepSelected, progress)
	if err != nil {
		return "", err
	}
	if err := ioutils.OpenInDefaultApp(out); err != nil {
		return out, fmt.Errorf("preview written but could not be opened: %w", err)
	}
	return out, nil
}

// trimArgs builds the ffmpeg invocation for a keep-range trim: each range
// becomes an atrim segment with reset timestamps, concatenated in order.
func trimArgs(input, output string, keep []model.Range, bitrate string) []string {
	var filter strings.Builder
	for i, r := range keep {
		fmt.Fprintf(&filter, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[s%d];",
			model.FormatSeconds(r.Start), model.FormatSeconds(r.End), i)
	}
	for i := range keep {
		fmt.Fprintf(&filter, "[s%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[out]", len(keep))

	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-vn",
		"-b:a", bitrate,
		output,
	}
}

// mergeArgs builds the ffmpeg invocation concatenating inputs into one
// stream at the given sample rate.
func mergeArgs(inputs []string, output string, sampleRate int, bitrate string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
	}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	var filter strings.Builder
	for i := range inputs {
		fmt.Fprintf(&filter, "[%d:a]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[out]", len(inputs))

	args = append(args, "-filter_complex", filter.String(), "-map", "[out]", "-vn")
	if sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(sampleRate))
	}
	return append(args, "-b:a", bitrate, output)
}

// formatMapping maps a target extension to an explicit FFmpeg muxer and
// codec when the extension alone would pick the wrong one.
func formatMapping(format string) (muxer, codec string) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "m4a":
		return "mp4", "aac"
	case "aac":
		return "adts", "aac"
	default:
		// Extension-driven selection is correct for mp3, wav, flac, ogg.
		return "", ""
	}
}

// prepareOutput ensures the output directory exists and returns a path
// that will not overwrite an existing file.
func (p *Processor) prepareOutput(output string) (string, error) {
	if strings.TrimSpace(output) == "" {
		return "", errors.New("output path required")
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := ioutils.EnsureDir(dir); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	return ioutils.UniquePath(output), nil
}

// preserveTags copies ID3 tags onto the result when configured and both
// sides are MP3. Failures degrade to a warning; the processed audio is
// already on disk.
func (p *Processor) preserveTags(input, output string) {
	if !p.settings.PreserveTags {
		return
	}
	if !isMP3(input) || !isMP3(output) {
		return
	}
	if err := p.tags.Copy(input, output); err != nil {
		p.eventf(LevelWarning, "Could not preserve tags: %v", err)
	}
}

func isMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

func checkInput(input string) error {
	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", input)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", input)
	}
	return nil
}

func report(progress ProgressFunc, fraction float64) {
	if progress != nil {
		progress(fraction)
	}
}

// stage rescales a 0..1 progress stream into the [lo, hi] slice of the
// overall operation.
func stage(progress ProgressFunc, lo, hi float64) ProgressFunc {
	if progress == nil {
		return nil
	}
	return func(f float64) {
		progress(lo + f*(hi-lo))
	}
}

func (p *Processor) eventf(level ProgressLevel, format string, args ...any) {
	if p.onEvent != nil {
		p.onEvent(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
