// Package interrupt carries a shutdown request from signal handlers to a
// polling loop.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/golang/glog"
)

// Flag is a set-once latch. Copies share the same state.
type Flag struct{ set *atomic.Bool }

func New() Flag { return Flag{set: new(atomic.Bool)} }

// Set requests shutdown. It is safe to call from any goroutine, any number of times.
func (f Flag) Set() { f.set.Store(true) }

func (f Flag) IsSet() bool { return f.set.Load() }

var exit = func(code int) {
	glog.Flush()
	os.Exit(code)
}

// Notify sets f on the first SIGINT or SIGTERM. A signal received after f is
// set exits the process immediately with ForcedExitCode.
func Notify(f Flag) (stop func()) {
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	donec := make(chan struct{})
	go handle(f, sigc, donec, exit)
	return func() {
		signal.Stop(sigc)
		close(donec)
	}
}

func handle(f Flag, sigc <-chan os.Signal, donec <-chan struct{}, exit func(int)) {
	for {
		select {
		case sig := <-sigc:
			if f.IsSet() {
				glog.Warningf("got %v while shutting down, forcing exit", sig)
				exit(ForcedExitCode(sig))
				return
			}
			glog.Infof("got %v, requesting shutdown", sig)
			f.Set()
		case <-donec:
			return
		}
	}
}
