// Package config provides configuration management for trimtofit.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Output goes to ~/Music/TrimToFit
//	// 192k bitrate fallback
//	// ID3 tag preservation enabled
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.OutputDirectory = "/custom/path"
//	err := settings.Save(config.DefaultPath())
//
// # Configuration Options
//
// Settings includes options for:
//   - Output directory and naming
//   - Bitrate fallbacks for encoding and merging
//   - ID3 tag and cover art handling
//   - Explicit ffmpeg/ffprobe binary locations
//   - Console window suppression on Windows
package config
