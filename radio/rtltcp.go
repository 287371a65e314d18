package radio

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bemasher/rtltcp"
)

// rtlConn is an rtl_tcp client connection with bounded reads.
type rtlConn struct {
	*rtltcp.SDR
}

// dialRTL connects to addr and validates the server's dongle header.
func dialRTL(addr string) (*rtlConn, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	sdr := &rtltcp.SDR{}
	if err := sdr.Connect(tcpAddr); err != nil {
		return nil, fmt.Errorf("rtl_tcp %s: %w", addr, err)
	}
	return &rtlConn{SDR: sdr}, nil
}

func (c *rtlConn) tuner() string { return c.Info.Tuner.String() }

// setManualGain switches between the tuner's automatic gain and the fixed
// gain given to SetGain. rtltcp's SetGainMode takes true for automatic.
func (c *rtlConn) setManualGain(manual bool) error { return c.SetGainMode(!manual) }

func (c *rtlConn) setPPM(ppm int32) error { return c.SetFreqCorrection(uint32(ppm)) }

// read fills raw with u8 IQ bytes until it is full or timeout passes. Running
// out of time with nothing read is ErrTimeout; a partial read is not an error.
func (c *rtlConn) read(raw []byte, timeout time.Duration) (int, error) {
	if err := c.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(c.TCPConn, raw)
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		if n == 0 {
			return 0, ErrTimeout
		}
		return n, nil
	}
	return n, err
}
