package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDirectory string `json:"output_directory"`
	DefaultBitrate  string `json:"default_bitrate"`
	OutputSuffix    string `json:"output_suffix"`

	// Tag settings
	PreserveTags       bool `json:"preserve_tags"`
	CoverArtResize     bool `json:"cover_art_resize"`
	CoverArtMaxSize    int  `json:"cover_art_max_size"`
	ConvertCoverArtJPG bool `json:"convert_cover_art_to_jpg"`

	// FFmpeg settings
	FFmpegPath        string `json:"ffmpeg_path"`
	FFprobePath       string `json:"ffprobe_path"`
	HideConsoleWindow bool   `json:"hide_console_window"`

	// Merge settings
	MergeBitrate            string `json:"merge_bitrate"`
	MaxConcurrentOperations int    `json:"max_concurrent_operations"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDirectory: filepath.Join(homeDir, "Music", "TrimToFit"),
		DefaultBitrate:  "192k",
		OutputSuffix:    "_trimmed",

		PreserveTags:       true,
		CoverArtResize:     true,
		CoverArtMaxSize:    1000,
		ConvertCoverArtJPG: true,

		HideConsoleWindow: true,

		MergeBitrate:            "192k",
		MaxConcurrentOperations: 4,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "trimtofit.json"
	}
	return filepath.Join(configDir, "trimtofit", "settings.json")
}
