// Package ffmpeg locates and runs the external FFmpeg binaries that
// trimtofit depends on for all audio work.
//
// # Binary resolution
//
// FFmpeg and ffprobe are resolved in a fixed order:
//
//  1. An explicit path from configuration, if set
//  2. The directory containing the running executable
//  3. The system PATH
//
// Step 2 is what makes a packaged distribution work: the launcher is shipped
// in a flat directory together with ffmpeg and ffprobe, and the application
// finds them without any installation or environment setup. When neither
// location yields a binary, the returned *NotFoundError tells the user to
// place the binaries next to the executable.
//
// # Running commands
//
//	loc := ffmpeg.NewLocator(settings.FFmpegPath, settings.FFprobePath)
//	bin, err := loc.FFmpeg()
//	runner := ffmpeg.NewRunner(settings.HideConsoleWindow)
//	err = runner.Run(ctx, bin, args)
//
// On Windows the runner spawns children without a console window, so a GUI
// launcher never flashes a black cmd box while processing.
//
// # Probing
//
// Probe shells out to ffprobe and decodes its JSON output into an Info with
// duration, bit rate, sample rate and container format.
package ffmpeg
