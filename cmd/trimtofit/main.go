package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/trimtofit/internal/audio"
	"github.com/handiism/trimtofit/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "trim":
		err = runTrim(ctx, args)
	case "speed":
		err = runSpeed(ctx, args)
	case "convert":
		err = runConvert(ctx, args)
	case "merge":
		err = runMerge(ctx, args)
	case "probe":
		err = runProbe(ctx, args)
	case "dist":
		err = runDist(ctx, args)
	case "config":
		err = runConfig(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nOperation cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("TrimToFit - Trim, retime, convert and merge audio with FFmpeg")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  trimtofit trim -remove 0:30-1:00,2:10-2:45 song.mp3")
	fmt.Println("  trimtofit trim -keep 0:00-1:30 song.mp3")
	fmt.Println("  trimtofit speed -factor 1.5 podcast.mp3")
	fmt.Println("  trimtofit convert -format wav song.mp3")
	fmt.Println("  trimtofit merge -o mixtape.mp3 a.mp3 b.mp3 c.mp3")
	fmt.Println("  trimtofit probe song.mp3")
	fmt.Println("  trimtofit dist -launcher build/trimtofit.exe -ffmpeg-dir third_party")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  trim      Remove (or keep only) time ranges from an audio file")
	fmt.Println("  speed     Change playback speed, preserving pitch (0.5x-2.0x)")
	fmt.Println("  convert   Convert to another audio format")
	fmt.Println("  merge     Concatenate several files into one MP3")
	fmt.Println("  probe     Show duration, bit rate and format of a file")
	fmt.Println("  dist      Stage and zip a distribution folder (launcher + ffmpeg + ffprobe)")
	fmt.Println("  config    Show the active settings, or write a settings file with -init")
	fmt.Println()
	fmt.Println("FFmpeg and ffprobe are looked up next to this executable first, then on PATH.")
	fmt.Println("For interactive mode, use: trimtofit-tui")
}

// newProcessor loads settings and wires a processor whose events are
// printed in CLI style. Verbose events are suppressed unless requested.
func newProcessor(configPath string, verbose bool) (*audio.Processor, *config.Settings, error) {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	processor := audio.NewProcessor(settings, func(event audio.ProgressEvent) {
		if event.Level == audio.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case audio.LevelError:
			prefix = "❌ "
		case audio.LevelWarning:
			prefix = "⚠️  "
		case audio.LevelSuccess:
			prefix = "✅ "
		case audio.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	return processor, settings, nil
}

// printProgress renders an in-place percentage line.
func printProgress(fraction float64) {
	fmt.Printf("\rProcessing... %3.0f%%", fraction*100)
	if fraction >= 1 {
		fmt.Println()
	}
}
