// Package audio provides the audio processing operations of trimtofit,
// implemented by driving the external FFmpeg binaries.
//
// # Processor
//
// The Processor is the entry point for every operation:
//
//	processor := audio.NewProcessor(settings, func(event audio.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	out, err := processor.Trim(ctx, "in.mp3", "out.mp3", removeRanges, false, progress)
//
// Operations:
//   - Trim: remove (or keep only) a set of time ranges
//   - ChangeSpeed: pitch-preserving tempo change (atempo, 0.5x-2.0x)
//   - Convert: container/codec conversion by target extension
//   - Merge: concatenate several files into one MP3
//   - Preview: trim to a temp file and open it in the default player
//
// # Output paths
//
// Operations never overwrite: the requested output path is adjusted with a
// numeric suffix when a file already exists, and the path actually used is
// returned.
//
// # Progress
//
// Each operation accepts an optional func(float64) receiving values from
// 0.0 to 1.0. Coarse stage values bracket the work; while FFmpeg runs, its
// own progress stream refines the middle of the range.
//
// # Tag preservation
//
// When both input and output are MP3 files and preservation is enabled,
// ID3v2 frames are copied from the source onto the result, with embedded
// cover art optionally downscaled.
package audio
