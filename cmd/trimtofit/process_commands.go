package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/trimtofit/internal/config"
	"github.com/handiism/trimtofit/internal/model"
)

func runTrim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trim", flag.ExitOnError)
	var (
		removeFlag  = fs.String("remove", "", "Comma-separated ranges to remove, e.g. 0:30-1:00,2:10-2:45")
		keepFlag    = fs.String("keep", "", "Comma-separated ranges to keep (everything else is removed)")
		outputFlag  = fs.String("o", "", "Output file (default: input name with suffix)")
		previewFlag = fs.Bool("preview", false, "Write to a temp file and open it in the default player")
		configFlag  = fs.String("config", "", "Path to config file")
		verboseFlag = fs.Bool("verbose", false, "Show verbose output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("trim expects exactly one input file")
	}
	input := fs.Arg(0)

	if (*removeFlag == "") == (*keepFlag == "") {
		return fmt.Errorf("specify exactly one of -remove or -keep")
	}

	spec := *removeFlag
	keepSelected := false
	if *keepFlag != "" {
		spec = *keepFlag
		keepSelected = true
	}

	ranges, err := model.ParseRangeList(spec)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("no ranges given")
	}

	processor, settings, err := newProcessor(*configFlag, *verboseFlag)
	if err != nil {
		return err
	}
	if err := processor.CheckBinaries(); err != nil {
		return err
	}

	if *previewFlag {
		out, err := processor.Preview(ctx, input, ranges, keepSelected, printProgress)
		if err != nil {
			return err
		}
		fmt.Printf("Preview opened: %s\n", out)
		return nil
	}

	output := *outputFlag
	if output == "" {
		output = derivedOutput(input, settings.OutputSuffix, "")
	}

	out, err := processor.Trim(ctx, input, output, ranges, keepSelected, printProgress)
	if err != nil {
		return err
	}
	fmt.Printf("Saved: %s\n", out)
	return nil
}

func runSpeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("speed", flag.ExitOnError)
	var (
		factorFlag  = fs.Float64("factor", 1.0, "Speed factor between 0.5 and 2.0")
		outputFlag  = fs.String("o", "", "Output file (default: input name with suffix)")
		configFlag  = fs.String("config", "", "Path to config file")
		verboseFlag = fs.Bool("verbose", false, "Show verbose output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("speed expects exactly one input file")
	}
	input := fs.Arg(0)

	processor, _, err := newProcessor(*configFlag, *verboseFlag)
	if err != nil {
		return err
	}
	if err := processor.CheckBinaries(); err != nil {
		return err
	}

	output := *outputFlag
	if output == "" {
		output = derivedOutput(input, fmt.Sprintf("_x%g", *factorFlag), "")
	}

	out, err := processor.ChangeSpeed(ctx, input, output, *factorFlag, printProgress)
	if err != nil {
		return err
	}
	fmt.Printf("Saved: %s\n", out)
	return nil
}

func runConvert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var (
		formatFlag  = fs.String("format", "", "Target format, e.g. mp3, wav, flac, m4a, aac, ogg")
		outputFlag  = fs.String("o", "", "Output file (default: input name with new extension)")
		configFlag  = fs.String("config", "", "Path to config file")
		verboseFlag = fs.Bool("verbose", false, "Show verbose output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("convert expects exactly one input file")
	}
	input := fs.Arg(0)

	format := strings.TrimPrefix(strings.ToLower(*formatFlag), ".")
	if format == "" && *outputFlag != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(*outputFlag)), ".")
	}
	if format == "" {
		return fmt.Errorf("specify a target format with -format or an -o path with an extension")
	}

	processor, _, err := newProcessor(*configFlag, *verboseFlag)
	if err != nil {
		return err
	}
	if err := processor.CheckBinaries(); err != nil {
		return err
	}

	output := *outputFlag
	if output == "" {
		output = derivedOutput(input, "", "."+format)
	}

	out, err := processor.Convert(ctx, input, output, format, printProgress)
	if err != nil {
		return err
	}
	fmt.Printf("Saved: %s\n", out)
	return nil
}

func runMerge(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	var (
		outputFlag  = fs.String("o", "merged.mp3", "Output MP3 file")
		configFlag  = fs.String("config", "", "Path to config file")
		verboseFlag = fs.Bool("verbose", false, "Show verbose output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 2 {
		return fmt.Errorf("merge expects at least two input files")
	}

	processor, _, err := newProcessor(*configFlag, *verboseFlag)
	if err != nil {
		return err
	}
	if err := processor.CheckBinaries(); err != nil {
		return err
	}

	out, err := processor.Merge(ctx, fs.Args(), *outputFlag, printProgress)
	if err != nil {
		return err
	}
	fmt.Printf("Saved: %s\n", out)
	return nil
}

func runProbe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("probe expects exactly one input file")
	}
	input := fs.Arg(0)

	processor, _, err := newProcessor(*configFlag, false)
	if err != nil {
		return err
	}

	info, err := processor.Probe(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("File:        %s\n", input)
	fmt.Printf("Format:      %s\n", info.FormatName)
	fmt.Printf("Duration:    %s\n", model.FormatTimestamp(info.Duration))
	if info.BitRate > 0 {
		fmt.Printf("Bit rate:    %d bit/s\n", info.BitRate)
	} else {
		fmt.Printf("Bit rate:    unknown\n")
	}
	if info.SampleRate > 0 {
		fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	}
	return nil
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var (
		configFlag = fs.String("config", "", "Path to config file (default: the user config directory)")
		initFlag   = fs.Bool("init", false, "Write the current settings to the config file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if *initFlag {
		if err := settings.Save(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("Settings written to %s\n", path)
		return nil
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Settings file: %s\n\n%s\n", path, data)
	return nil
}

// derivedOutput builds an output path next to the input: stem + suffix +
// extension. newExt overrides the input extension when non-empty.
func derivedOutput(input, suffix, newExt string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	if newExt != "" {
		ext = newExt
	}
	return filepath.Join(filepath.Dir(input), stem+suffix+ext)
}
