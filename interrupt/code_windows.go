//go:build windows

package interrupt

import (
	"os"

	"golang.org/x/sys/windows"
)

// ForcedExitCode is the status a console process gets when killed by Ctrl-C.
func ForcedExitCode(os.Signal) int {
	st := windows.STATUS_CONTROL_C_EXIT
	return int(int32(st))
}
