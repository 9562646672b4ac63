package dist

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ioutils "github.com/handiism/trimtofit/internal/io"
)

// ExtractionNote is embedded as the zip archive comment. The co-location
// lookup only works once all three files sit in a real directory together.
const ExtractionNote = "Extract this archive completely before running: " +
	"trimtofit finds ffmpeg and ffprobe in its own folder."

// externalBinaries are the bare names of the binaries that must accompany
// the launcher. Either the bare name or the .exe form satisfies Verify.
var externalBinaries = []string{"ffmpeg", "ffprobe"}

// Bundle names the source files of a distribution.
type Bundle struct {
	// Launcher is the built trimtofit executable.
	Launcher string

	// FFmpeg is the ffmpeg binary to ship alongside the launcher.
	FFmpeg string

	// FFprobe is the ffprobe binary to ship alongside the launcher.
	FFprobe string
}

// Validate checks that every source file exists and is a regular file.
func (b Bundle) Validate() error {
	for _, entry := range []struct{ label, path string }{
		{"launcher", b.Launcher},
		{"ffmpeg", b.FFmpeg},
		{"ffprobe", b.FFprobe},
	} {
		if strings.TrimSpace(entry.path) == "" {
			return fmt.Errorf("%s path required", entry.label)
		}
		info, err := os.Stat(entry.path)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.label, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s %s is a directory", entry.label, entry.path)
		}
		if info.Size() == 0 {
			return fmt.Errorf("%s %s is empty", entry.label, entry.path)
		}
	}
	return nil
}

// Stage copies the bundle into dir as a flat three-file layout, preserving
// executable permission bits. dir is created if needed; existing files with
// the same names are overwritten so re-staging is idempotent.
func Stage(ctx context.Context, b Bundle, dir string) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := ioutils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	for _, src := range []string{b.Launcher, b.FFmpeg, b.FFprobe} {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := ioutils.CopyFilePreserveMode(ctx, src, dst); err != nil {
			return fmt.Errorf("stage %s: %w", filepath.Base(src), err)
		}
	}
	return nil
}

// Report is the outcome of verifying a distribution directory.
type Report struct {
	// LauncherPresent indicates the named launcher file was found.
	LauncherPresent bool

	// MissingBinaries lists required external binaries that were absent.
	MissingBinaries []string

	// EmptyFiles lists files present but zero bytes long.
	EmptyFiles []string

	// Extras lists unexpected entries, including any subdirectories.
	Extras []string
}

// OK reports whether the distribution satisfies the layout contract.
func (r Report) OK() bool {
	return r.LauncherPresent && len(r.MissingBinaries) == 0 &&
		len(r.EmptyFiles) == 0 && len(r.Extras) == 0
}

// Err converts a failed report into a single descriptive error, nil when
// the report is clean.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	var problems []string
	if !r.LauncherPresent {
		problems = append(problems, "launcher missing")
	}
	if len(r.MissingBinaries) > 0 {
		problems = append(problems, "missing binaries: "+strings.Join(r.MissingBinaries, ", "))
	}
	if len(r.EmptyFiles) > 0 {
		problems = append(problems, "empty files: "+strings.Join(r.EmptyFiles, ", "))
	}
	if len(r.Extras) > 0 {
		problems = append(problems, "unexpected entries: "+strings.Join(r.Extras, ", "))
	}
	return fmt.Errorf("invalid distribution layout: %s", strings.Join(problems, "; "))
}

// Verify checks that dir holds exactly the launcher plus ffmpeg and
// ffprobe, flat and non-empty. launcherName is the expected launcher file
// name, e.g. "trimtofit.exe".
func Verify(dir, launcherName string) (Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, fmt.Errorf("read distribution directory: %w", err)
	}

	report := Report{}
	found := make(map[string]bool)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			report.Extras = append(report.Extras, name+string(os.PathSeparator))
			continue
		}

		switch {
		case name == launcherName:
			report.LauncherPresent = true
		case isExternalBinary(name):
			found[bareName(name)] = true
		default:
			report.Extras = append(report.Extras, name)
		}

		info, err := entry.Info()
		if err != nil {
			return Report{}, err
		}
		if info.Size() == 0 {
			report.EmptyFiles = append(report.EmptyFiles, name)
		}
	}

	for _, binary := range externalBinaries {
		if !found[binary] {
			report.MissingBinaries = append(report.MissingBinaries, binary)
		}
	}

	sort.Strings(report.Extras)
	return report, nil
}

// Archive verifies the distribution in dir and zips it to zipPath with flat
// entries. A verification failure aborts before anything is written.
func Archive(dir, launcherName, zipPath string) error {
	report, err := Verify(dir, launcherName)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return err
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if err := zw.SetComment(ExtractionNote); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := addArchiveEntry(zw, dir, entry.Name()); err != nil {
			return fmt.Errorf("archive %s: %w", entry.Name(), err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func addArchiveEntry(zw *zip.Writer, dir, name string) error {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	// Flat entry name: extraction must reproduce the layout verbatim.
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func isExternalBinary(name string) bool {
	bare := bareName(name)
	for _, binary := range externalBinaries {
		if bare == binary {
			return true
		}
	}
	return false
}

func bareName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
