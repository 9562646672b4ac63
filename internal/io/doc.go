// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File copying (with and without permission preservation)
//   - Unique output path generation
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Opening files with the platform's default application
//   - Cover art resizing and JPEG conversion
//
// # File Operations
//
//	// Copy a file
//	err := ioutils.CopyFile(ctx, "/src/file.mp3", "/dst/file.mp3")
//
//	// Find a path that does not collide with an existing file
//	path := ioutils.UniquePath("/out/song.mp3") // "/out/song_1.mp3" if taken
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService handles embedded cover art manipulation:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, artwork, 1000, 1000)
//	jpg, _ := svc.ConvertToJPEG(ctx, artwork)
package ioutils
