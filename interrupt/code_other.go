//go:build !unix && !windows

package interrupt

import "os"

func ForcedExitCode(os.Signal) int { return 1 }
