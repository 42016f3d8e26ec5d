package probe

import (
	"io"
	"os/exec"
	"time"
)

// DefaultCommand is the measurement command run when none is configured.
// The --simple flag keeps the output to three parseable lines.
var DefaultCommand = []string{"speedtest-cli", "--simple"}

// ExecLauncher runs the speed-test executable as a subprocess.
type ExecLauncher struct {
	// Argv is the command and its arguments; empty means DefaultCommand.
	Argv []string
}

// Launch starts the subprocess and returns its stdout stream plus a bounded
// wait for its exit. A missing executable surfaces as exec.ErrNotFound from
// Start, which the probe maps to its not-found error text.
func (l *ExecLauncher) Launch() (io.Reader, WaitFunc, error) {
	argv := l.Argv
	if len(argv) == 0 {
		argv = DefaultCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	wait := func(timeout time.Duration) error {
		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()
		select {
		case err := <-done:
			return err
		case <-time.After(timeout):
			return nil
		}
	}
	return stdout, wait, nil
}
