//go:build !windows

package ffmpeg

import "os/exec"

// configureSysProcAttr is a no-op outside Windows; there is no console
// window to suppress.
func configureSysProcAttr(cmd *exec.Cmd, hideWindow bool) {}
