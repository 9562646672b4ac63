package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/handiism/trimtofit/internal/dist"
	"github.com/handiism/trimtofit/internal/ffmpeg"
)

func runDist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dist", flag.ExitOnError)
	var (
		nameFlag      = fs.String("name", "trimtofit", "Distribution name, used for the folder and archive")
		launcherFlag  = fs.String("launcher", "", "Built launcher executable (default: this executable)")
		ffmpegDirFlag = fs.String("ffmpeg-dir", "", "Directory holding ffmpeg and ffprobe (default: resolve like the app does)")
		outFlag       = fs.String("out", "", "Staging directory (default: dist/<name>)")
		zipFlag       = fs.String("zip", "", "Archive path (default: <staging>.zip)")
		noZipFlag     = fs.Bool("no-zip", false, "Stage and verify only, skip the archive")
		checkFlag     = fs.String("check", "", "Verify an existing distribution directory and exit")
	)
	fs.Usage = func() {
		fmt.Println("Stage a distribution folder holding the launcher plus ffmpeg and ffprobe,")
		fmt.Println("verify the layout, and zip it for transfer.")
		fmt.Println()
		fmt.Println("The three files must stay in one flat directory: the launcher looks for")
		fmt.Println("the FFmpeg binaries next to itself at runtime. Recipients must extract")
		fmt.Println("the archive completely before running.")
		fmt.Println()
		fmt.Println("Build the launcher for Windows without a console window first:")
		fmt.Println(`  GOOS=windows go build -ldflags -H=windowsgui -o build/trimtofit.exe ./cmd/trimtofit-tui`)
		fmt.Println()
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *checkFlag != "" {
		return checkDistribution(*checkFlag, *nameFlag)
	}

	launcher := *launcherFlag
	if launcher == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("cannot determine launcher: %w (use -launcher)", err)
		}
		launcher = exe
	}

	ffmpegPath, ffprobePath, err := resolveExternals(*ffmpegDirFlag)
	if err != nil {
		return err
	}

	staging := *outFlag
	if staging == "" {
		staging = filepath.Join("dist", *nameFlag)
	}

	bundle := dist.Bundle{Launcher: launcher, FFmpeg: ffmpegPath, FFprobe: ffprobePath}
	if err := dist.Stage(ctx, bundle, staging); err != nil {
		return err
	}
	fmt.Printf("Staged %s\n", staging)

	launcherName := filepath.Base(launcher)
	report, err := dist.Verify(staging, launcherName)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return err
	}
	fmt.Println("Layout verified: launcher + ffmpeg + ffprobe, flat")

	if *noZipFlag {
		return nil
	}

	zipPath := *zipFlag
	if zipPath == "" {
		zipPath = staging + ".zip"
	}
	if err := dist.Archive(staging, launcherName, zipPath); err != nil {
		return err
	}
	fmt.Printf("Archive written: %s\n", zipPath)
	fmt.Println("Remind recipients to extract the whole archive before running.")
	return nil
}

func checkDistribution(dir, name string) error {
	report, err := dist.Verify(dir, detectLauncherName(dir, name))
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return err
	}
	fmt.Printf("OK: %s is a valid distribution\n", dir)
	return nil
}

// detectLauncherName accepts either the suffixed or bare launcher name so
// a Windows layout can be checked from any platform.
func detectLauncherName(dir, name string) string {
	if _, err := os.Stat(filepath.Join(dir, name+".exe")); err == nil {
		return name + ".exe"
	}
	return name
}

// resolveExternals finds the ffmpeg and ffprobe binaries to bundle, either
// in an explicit directory or wherever the application itself would find
// them.
func resolveExternals(dir string) (ffmpegPath, ffprobePath string, err error) {
	if dir != "" {
		ffmpegPath, err = findInDir(dir, "ffmpeg")
		if err != nil {
			return "", "", err
		}
		ffprobePath, err = findInDir(dir, "ffprobe")
		if err != nil {
			return "", "", err
		}
		return ffmpegPath, ffprobePath, nil
	}

	locator := ffmpeg.NewLocator("", "")
	ffmpegPath, err = locator.FFmpeg()
	if err != nil {
		return "", "", err
	}
	ffprobePath, err = locator.FFprobe()
	if err != nil {
		return "", "", err
	}
	return ffmpegPath, ffprobePath, nil
}

func findInDir(dir, name string) (string, error) {
	candidates := []string{name + ".exe", name}
	if runtime.GOOS != "windows" {
		candidates = []string{name, name + ".exe"}
	}
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s not found in %s", name, dir)
}
