package platform

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// startProcess launches path with the arguments in cmd and returns its pid.
// cmd is split with shell quoting rules; nothing is expanded. The child is
// reaped in the background.
func startProcess(path, cmd string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("empty executable path")
	}
	args, err := shlex.Split(cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to parse arguments %q: %w", cmd, err)
	}
	c := exec.Command(path, args...)
	if err := c.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", path, err)
	}
	pid := c.Process.Pid
	go func() {
		_ = c.Wait()
	}()
	return pid, nil
}
