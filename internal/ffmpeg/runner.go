package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Test seam, mirrors exec.CommandContext.
var commandContext = exec.CommandContext

// Runner executes FFmpeg commands.
type Runner struct {
	hideWindow bool
}

// NewRunner creates a Runner. When hideWindow is true, child processes on
// Windows are started without a console window.
func NewRunner(hideWindow bool) *Runner {
	return &Runner{hideWindow: hideWindow}
}

// Run executes a binary and waits for completion, returning an error that
// includes the captured output on failure.
func (r *Runner) Run(ctx context.Context, binary string, args []string) error {
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	configureSysProcAttr(cmd, r.hideWindow)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", commandName(binary), err, excerpt(output))
	}
	return nil
}

// Output executes a binary and returns its stdout. Stderr is folded into
// the error on failure.
func (r *Runner) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	configureSysProcAttr(cmd, r.hideWindow)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", commandName(binary), err, excerpt(stderr.Bytes()))
	}
	return out, nil
}

// RunProgress executes an ffmpeg command while streaming its progress.
//
// The command is prefixed with "-progress pipe:1 -nostats" so ffmpeg emits
// key=value progress records on stdout; the flags are global options and
// must come before the output file or ffmpeg discards them as trailing.
// Each record's out_time is divided by total to produce a completion
// fraction in [0,1] passed to progress. When total is zero or progress is
// nil the command still runs, just silently.
func (r *Runner) RunProgress(ctx context.Context, binary string, args []string, total time.Duration, progress func(float64)) error {
	full := append([]string{"-progress", "pipe:1", "-nostats"}, args...)

	cmd := commandContext(ctx, binary, full...) //nolint:gosec
	configureSysProcAttr(cmd, r.hideWindow)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", commandName(binary), err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if progress == nil || total <= 0 {
			continue
		}
		if elapsed, ok := parseProgressLine(scanner.Text()); ok {
			fraction := float64(elapsed) / float64(total)
			if fraction > 1 {
				fraction = 1
			}
			progress(fraction)
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w: %s", commandName(binary), err, excerpt(stderr.Bytes()))
	}
	return nil
}

// parseProgressLine extracts the elapsed output time from one line of
// ffmpeg -progress output. Returns false for lines that carry no time.
func parseProgressLine(line string) (time.Duration, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}

	switch key {
	case "out_time_us":
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		return time.Duration(us) * time.Microsecond, true
	case "out_time_ms":
		// Despite the name, ffmpeg reports microseconds here.
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		return time.Duration(us) * time.Microsecond, true
	case "out_time":
		// HH:MM:SS.ffffff
		d, err := parseClock(value)
		if err != nil {
			return 0, false
		}
		return d, true
	}
	return 0, false
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return time.Duration((float64(h)*3600 + float64(m)*60 + sec) * float64(time.Second)), nil
}

func commandName(binary string) string {
	if i := strings.LastIndexAny(binary, `/\`); i >= 0 {
		binary = binary[i+1:]
	}
	return strings.TrimSuffix(binary, ".exe")
}

// excerpt trims command output for inclusion in error messages.
func excerpt(output []byte) string {
	s := strings.TrimSpace(string(output))
	const max = 500
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
