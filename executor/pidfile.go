package executor

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// PIDFile is an advisory single-instance lock, grounded on helper.c's
// create_pid_file/remove_pid_file: open-or-create, then flock(LOCK_EX |
// LOCK_NB) so a second rofi invocation fails fast instead of racing the
// first over the same display surface.
type PIDFile struct {
	file *os.File
}

// Acquire creates (or opens) path and takes an exclusive, non-blocking
// flock on it. A non-nil error means another instance already holds the
// lock (or the file could not be created).
func Acquire(path string) (*PIDFile, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create pid file %q", path)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "rofi already running (locking %q)", path)
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to truncate pid file")
	}
	if _, err := f.WriteString(fmt.Sprintf("%d", os.Getpid())); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to write pid file")
	}
	return &PIDFile{file: f}, nil
}

// Release closes the pid file, dropping the flock.
func (p *PIDFile) Release() error {
	if p == nil || p.file == nil {
		return nil
	}
	return p.file.Close()
}
