//go:build !windows

package radio

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"

	"github.com/golang/glog"
	"github.com/kr/pty"
)

// rtlServer is a local rtl_tcp child process. It runs on a pty so its
// output is line buffered into the log.
type rtlServer struct {
	cmd  *exec.Cmd
	fpty *os.File
	done chan struct{}
}

func startRTLServer(addr, device string) (*rtlServer, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command("rtl_tcp", "-a", host, "-p", port, "-d", device)
	fpty, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start rtl_tcp: %w", err)
	}
	s := &rtlServer{cmd: cmd, fpty: fpty, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		sc := bufio.NewScanner(fpty)
		for sc.Scan() {
			glog.V(1).Infof("rtl_tcp: %s", sc.Text())
		}
	}()
	return s, nil
}

func (s *rtlServer) stop() error {
	s.cmd.Process.Signal(os.Interrupt)
	s.fpty.Close()
	<-s.done
	var ee *exec.ExitError
	if err := s.cmd.Wait(); err != nil && !errors.As(err, &ee) {
		return err
	}
	return nil
}
