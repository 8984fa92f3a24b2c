// Package executor launches external commands on behalf of modes and
// manages the single-instance pid file, grounded on rofi's original
// helper.c execute_generator and create_pid_file.
package executor

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// Executor runs shell commands on the user's behalf, detached from rofi's
// own process group so the launched program survives rofi exiting.
type Executor struct {
	// Shell is the command used to interpret launched strings, mirroring
	// config.run_command ("{cmd}" substitution) in the original.
	Shell []string
}

// New returns an Executor that runs commands via "sh -c".
func New() *Executor {
	return &Executor{Shell: []string{"/bin/sh", "-c"}}
}

// Launch starts cmdline as a detached child process.
func (e *Executor) Launch(cmdline string) error {
	if strings.TrimSpace(cmdline) == "" {
		return errors.New("empty command")
	}
	args := append(append([]string{}, e.Shell[1:]...), cmdline)
	c := exec.Command(e.Shell[0], args...)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Stdin = nil
	c.Stdout = nil
	c.Stderr = os.Stderr
	if err := c.Start(); err != nil {
		return errors.Wrapf(err, "failed to launch %q", cmdline)
	}
	go c.Wait() // reap without blocking the caller
	return nil
}

// Generate runs cmdline and returns its stdout split into lines with
// trailing newlines stripped, matching execute_generator/get_script_output
// in the original script-mode implementation.
func Generate(ctx context.Context, cmdline string) ([]string, error) {
	c := exec.CommandContext(ctx, "/bin/sh", "-c", cmdline)
	out, err := c.Output()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute %q", cmdline)
	}
	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
