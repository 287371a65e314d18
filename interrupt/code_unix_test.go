//go:build unix

package interrupt

import (
	"os"
	"syscall"
	"testing"
)

func TestForcedExitCodeUnix(t *testing.T) {
	if c := ForcedExitCode(os.Interrupt); c != 130 {
		t.Errorf("SIGINT exit code %d, expected 130", c)
	}
	if c := ForcedExitCode(syscall.SIGTERM); c != 143 {
		t.Errorf("SIGTERM exit code %d, expected 143", c)
	}
}
