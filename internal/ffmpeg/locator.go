package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Test seams.
var (
	executablePath = os.Executable
	lookPath       = exec.LookPath
)

// NotFoundError is returned when a required external binary cannot be
// resolved either next to the executable or on PATH.
type NotFoundError struct {
	// Name is the bare binary name, e.g. "ffmpeg".
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: place %s in the same folder as this program or install it on your PATH",
		e.Name, binaryFileName(e.Name))
}

// Locator resolves the ffmpeg and ffprobe binary paths.
//
// Explicit paths take precedence; otherwise the directory containing the
// running executable is searched before PATH, so a distribution folder that
// ships the binaries alongside the launcher always wins over a system
// install.
type Locator struct {
	// FFmpegOverride, when non-empty, is used as the ffmpeg path verbatim.
	FFmpegOverride string

	// FFprobeOverride, when non-empty, is used as the ffprobe path verbatim.
	FFprobeOverride string
}

// NewLocator creates a Locator with optional explicit binary paths.
func NewLocator(ffmpegPath, ffprobePath string) *Locator {
	return &Locator{
		FFmpegOverride:  ffmpegPath,
		FFprobeOverride: ffprobePath,
	}
}

// FFmpeg returns the resolved path to the ffmpeg binary.
func (l *Locator) FFmpeg() (string, error) {
	return l.resolve("ffmpeg", l.FFmpegOverride)
}

// FFprobe returns the resolved path to the ffprobe binary.
func (l *Locator) FFprobe() (string, error) {
	return l.resolve("ffprobe", l.FFprobeOverride)
}

// Check verifies that both binaries are resolvable. It is intended as a
// startup check so the user learns about a broken distribution before
// selecting any files.
func (l *Locator) Check() error {
	if _, err := l.FFmpeg(); err != nil {
		return err
	}
	if _, err := l.FFprobe(); err != nil {
		return err
	}
	return nil
}

func (l *Locator) resolve(name, override string) (string, error) {
	if override != "" {
		if info, err := os.Stat(override); err == nil && !info.IsDir() {
			return override, nil
		}
		return "", fmt.Errorf("configured %s path %q does not exist", name, override)
	}

	// Same-directory lookup first: a bundled distribution must shadow any
	// system-wide install.
	if exe, err := executablePath(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), binaryFileName(name))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	if path, err := lookPath(name); err == nil {
		return path, nil
	}

	return "", &NotFoundError{Name: name}
}

// binaryFileName returns the platform file name for a bare binary name.
func binaryFileName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
