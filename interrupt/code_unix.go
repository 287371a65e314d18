//go:build unix

package interrupt

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// ForcedExitCode follows the shell convention of 128 plus the signal number.
func ForcedExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 128 + int(unix.SIGINT)
}
