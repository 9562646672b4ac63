// Package dist assembles and checks trimtofit distribution folders.
//
// A distribution is a flat directory holding exactly three files: the
// trimtofit launcher and the two external binaries it invokes at runtime,
// ffmpeg and ffprobe. The application resolves those binaries by looking in
// its own directory first, so shipping them side by side is what makes a
// packaged copy work on a machine with nothing installed.
//
// # Staging
//
//	bundle := dist.Bundle{
//	    Launcher: "build/trimtofit.exe",
//	    FFmpeg:   "third_party/ffmpeg.exe",
//	    FFprobe:  "third_party/ffprobe.exe",
//	}
//	err := dist.Stage(ctx, bundle, "release/trimtofit")
//
// # Verification
//
// Verify checks the co-location invariant: the launcher and both externals
// present, no stray files, nothing empty, nothing nested:
//
//	report, err := dist.Verify("release/trimtofit", "trimtofit.exe")
//	if err := report.Err(); err != nil { ... }
//
// # Archiving
//
// Archive zips a verified distribution with flat entries, so extracting the
// archive anywhere reproduces the exact layout. The archive carries a
// comment reminding users to extract fully before running: launching from
// inside a zip browser separates the launcher from its binaries and breaks
// the runtime lookup.
package dist
