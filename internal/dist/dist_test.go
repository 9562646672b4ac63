package dist

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name+" bytes"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func makeBundle(t *testing.T) Bundle {
	t.Helper()
	dir := t.TempDir()
	return Bundle{
		Launcher: writeBinary(t, dir, "trimtofit.exe"),
		FFmpeg:   writeBinary(t, dir, "ffmpeg.exe"),
		FFprobe:  writeBinary(t, dir, "ffprobe.exe"),
	}
}

func TestStage_ProducesFlatLayout(t *testing.T) {
	bundle := makeBundle(t)
	staged := filepath.Join(t.TempDir(), "release")

	if err := Stage(context.Background(), bundle, staged); err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	entries, err := os.ReadDir(staged)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("staged %d entries, want 3", len(entries))
	}

	report, err := Verify(staged, "trimtofit.exe")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !report.OK() {
		t.Errorf("staged layout should verify, got %v", report.Err())
	}
}

func TestStage_IsIdempotent(t *testing.T) {
	bundle := makeBundle(t)
	staged := filepath.Join(t.TempDir(), "release")

	if err := Stage(context.Background(), bundle, staged); err != nil {
		t.Fatal(err)
	}
	if err := Stage(context.Background(), bundle, staged); err != nil {
		t.Fatalf("second Stage() error = %v", err)
	}
}

func TestStage_MissingSourceFails(t *testing.T) {
	bundle := makeBundle(t)
	bundle.FFprobe = filepath.Join(t.TempDir(), "nope.exe")

	if err := Stage(context.Background(), bundle, t.TempDir()); err == nil {
		t.Error("Stage with missing ffprobe should fail")
	}
}

func TestBundle_ValidateRejectsEmptyFile(t *testing.T) {
	bundle := makeBundle(t)
	empty := filepath.Join(t.TempDir(), "ffmpeg.exe")
	if err := os.WriteFile(empty, nil, 0755); err != nil {
		t.Fatal(err)
	}
	bundle.FFmpeg = empty

	if err := bundle.Validate(); err == nil {
		t.Error("Validate should reject a zero-byte binary")
	}
}

func TestVerify_MissingBinaries(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "trimtofit.exe")
	// No ffmpeg, no ffprobe: the runtime lookup would fail the same way.

	report, err := Verify(dir, "trimtofit.exe")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.OK() {
		t.Fatal("directory without externals must not verify")
	}
	if len(report.MissingBinaries) != 2 {
		t.Errorf("MissingBinaries = %v, want both externals", report.MissingBinaries)
	}
	if !report.LauncherPresent {
		t.Error("launcher should be detected")
	}
}

func TestVerify_MissingLauncher(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "ffmpeg.exe")
	writeBinary(t, dir, "ffprobe.exe")

	report, err := Verify(dir, "trimtofit.exe")
	if err != nil {
		t.Fatal(err)
	}
	if report.LauncherPresent {
		t.Error("launcher should be reported missing")
	}
	if report.Err() == nil {
		t.Error("report should convert to an error")
	}
}

func TestVerify_RejectsExtras(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "trimtofit.exe")
	writeBinary(t, dir, "ffmpeg.exe")
	writeBinary(t, dir, "ffprobe.exe")
	writeBinary(t, dir, "leftover.txt")
	if err := os.Mkdir(filepath.Join(dir, "docs"), 0755); err != nil {
		t.Fatal(err)
	}

	report, err := Verify(dir, "trimtofit.exe")
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("extras must fail verification")
	}
	if len(report.Extras) != 2 {
		t.Errorf("Extras = %v, want the stray file and the subdirectory", report.Extras)
	}
}

func TestVerify_AcceptsBareBinaryNames(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "trimtofit")
	writeBinary(t, dir, "ffmpeg")
	writeBinary(t, dir, "ffprobe")

	report, err := Verify(dir, "trimtofit")
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() {
		t.Errorf("unsuffixed layout should verify, got %v", report.Err())
	}
}

func TestVerify_FlagsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "trimtofit.exe")
	writeBinary(t, dir, "ffprobe.exe")
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg.exe"), nil, 0755); err != nil {
		t.Fatal(err)
	}

	report, err := Verify(dir, "trimtofit.exe")
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("zero-byte binary must fail verification")
	}
	if len(report.EmptyFiles) != 1 || report.EmptyFiles[0] != "ffmpeg.exe" {
		t.Errorf("EmptyFiles = %v, want [ffmpeg.exe]", report.EmptyFiles)
	}
}

func TestArchive_RoundTrip(t *testing.T) {
	bundle := makeBundle(t)
	staged := filepath.Join(t.TempDir(), "release")
	if err := Stage(context.Background(), bundle, staged); err != nil {
		t.Fatal(err)
	}

	zipPath := filepath.Join(t.TempDir(), "trimtofit.zip")
	if err := Archive(staged, "trimtofit.exe", zipPath); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	if zr.Comment != ExtractionNote {
		t.Errorf("archive comment = %q, want extraction note", zr.Comment)
	}
	if len(zr.File) != 3 {
		t.Fatalf("archive holds %d entries, want 3", len(zr.File))
	}
	for _, f := range zr.File {
		if filepath.Dir(f.Name) != "." {
			t.Errorf("entry %q is not flat", f.Name)
		}
	}
}

func TestArchive_RefusesUnverifiedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "trimtofit.exe") // externals missing

	zipPath := filepath.Join(t.TempDir(), "trimtofit.zip")
	if err := Archive(dir, "trimtofit.exe", zipPath); err == nil {
		t.Fatal("Archive must refuse an incomplete distribution")
	}
	if _, err := os.Stat(zipPath); !os.IsNotExist(err) {
		t.Error("no archive should be written for an invalid layout")
	}
}
