package ioutils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenInDefaultApp opens a file with the platform's default application.
//
// Used by the preview flow: a trimmed file is written to a temporary
// location and handed to whatever audio player the OS associates with it.
func OpenInDefaultApp(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	// Detach: the player outlives us and we never wait on it.
	go func() { _ = cmd.Wait() }()
	return nil
}
