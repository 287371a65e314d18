package radio

import (
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
)

func init() { Register("rtltcp", "rtlsdr", func(id string) (Device, error) { return OpenRTLTCP(id) }) }

const defaultRTLTCPAddr = "127.0.0.1:1234"

// rtlDevice adapts an rtl_tcp stream to the synchronous receive interface. The
// 8-bit samples are widened to Q11.
type rtlDevice struct {
	conn   *rtlConn
	tuner  string
	addr   string
	server *rtlServer
	gain   uint32
	ppm    int32
	agc    bool

	rate    SampleRate
	enabled bool
	raw     []byte
	carry   int
	ts      uint64

	closeOnce sync.Once
	closeErr  error
}

// OpenRTLTCP accepts "[host:port] [device=<index|serial>] [gain=<tenths dB>] [ppm=<n>] [agc=<bool>]".
// With device set, a local rtl_tcp is started for that dongle on the given port.
// Gain 0 leaves the tuner on automatic gain.
func OpenRTLTCP(id string) (Device, error) {
	addr, opts, err := parseOptions(id)
	if err != nil {
		return nil, err
	}
	if addr == "" {
		addr = defaultRTLTCPAddr
	}
	d := &rtlDevice{addr: addr}
	if v, ok := opts["gain"]; ok {
		g, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("gain option: %w", err)
		}
		d.gain = uint32(g)
	}
	if v, ok := opts["ppm"]; ok {
		ppm, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("ppm option: %w", err)
		}
		d.ppm = int32(ppm)
	}
	if v, ok := opts["agc"]; ok {
		if d.agc, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("agc option: %w", err)
		}
	}
	if ser, ok := opts["device"]; ok {
		if d.server, err = startRTLServer(addr, ser); err != nil {
			return nil, err
		}
	}
	if err := d.connect(); err != nil {
		d.Close()
		return nil, err
	}
	d.tuner = d.conn.tuner()
	glog.V(1).Infof("connected to rtl_tcp at %s, tuner %s with %d gains", addr, d.tuner, d.conn.Info.GainCount)
	return d, nil
}

func (d *rtlDevice) connect() (err error) {
	tries := 1
	if d.server != nil {
		// Give a freshly started server time to open the dongle.
		tries = 30
	}
	for i := 0; i < tries; i++ {
		if d.conn, err = dialRTL(d.addr); err == nil {
			return nil
		}
		glog.V(1).Info(err)
		time.Sleep(100 * time.Millisecond)
	}
	return err
}

func (d *rtlDevice) Info() DeviceInfo {
	return DeviceInfo{
		Driver:   "rtltcp",
		Serial:   d.addr,
		Product:  "rtl-sdr " + d.tuner,
		Speed:    "tcp",
		Hardware: "rtlsdr",
	}
}

// EnableModule gates delivery. rtl_tcp streams from connect until close.
func (d *rtlDevice) EnableModule(ch Channel, enable bool) error {
	if d.conn == nil {
		return net.ErrClosed
	}
	d.enabled = enable
	return nil
}

func (d *rtlDevice) SetFrequency(ch Channel, f Hertz) error {
	if !hardwareLimits["rtlsdr"].Frequency.Contains(float64(f)) {
		return fmt.Errorf("%v: %w", f, ErrFrequencyOutOfRange)
	}
	if err := d.conn.SetCenterFreq(uint32(math.Round(float64(f)))); err != nil {
		return fmt.Errorf("rtl_tcp set frequency: %w", err)
	}
	return nil
}

func isValidRate(rate uint32) bool {
	return !((rate <= 225000) || (rate > 3200000) ||
		((rate > 300000) && (rate <= 900000)))
}

func (d *rtlDevice) SetSampleRate(ch Channel, sr SampleRate) (SampleRate, error) {
	rate := uint32(math.Round(float64(sr)))
	if !isValidRate(rate) {
		return 0, fmt.Errorf("%v: %w", sr, ErrRateOutOfRange)
	}
	if err := d.conn.SetSampleRate(rate); err != nil {
		return 0, fmt.Errorf("rtl_tcp set sample rate: %w", err)
	}
	d.rate = SampleRate(rate)
	return d.rate, nil
}

// SetBandwidth reports the sample rate; the tuner filter follows it.
func (d *rtlDevice) SetBandwidth(ch Channel, bw Hertz) (Hertz, error) {
	return Hertz(d.rate), nil
}

func (d *rtlDevice) SyncConfig(cfg SyncConfig) error {
	if cfg.Format != FormatSC16Q11Meta {
		return fmt.Errorf("unsupported format %v", cfg.Format)
	}
	if err := d.conn.setManualGain(d.gain != 0); err != nil {
		return fmt.Errorf("rtl_tcp set gain mode: %w", err)
	}
	if d.gain != 0 {
		if err := d.conn.SetGain(d.gain); err != nil {
			return fmt.Errorf("rtl_tcp set gain: %w", err)
		}
	}
	if d.ppm != 0 {
		if err := d.conn.setPPM(d.ppm); err != nil {
			return fmt.Errorf("rtl_tcp set frequency correction: %w", err)
		}
	}
	if err := d.conn.SetAGCMode(d.agc); err != nil {
		return fmt.Errorf("rtl_tcp set agc mode: %w", err)
	}
	return nil
}

func (d *rtlDevice) SyncRX(buf []int16, md *Metadata, timeout time.Duration) error {
	if d.conn == nil {
		return net.ErrClosed
	}
	if !d.enabled {
		return errors.New("rx module not enabled")
	}
	if cap(d.raw) < len(buf) {
		d.raw = make([]byte, len(buf))
	}
	raw := d.raw[:len(buf)]
	n, err := d.conn.read(raw[d.carry:], timeout)
	if err != nil {
		return err
	}
	n += d.carry
	pairs := n / 2
	U8ToSC16Q11(buf[:2*pairs], raw[:2*pairs])
	// Keep an odd trailing byte so I and Q stay aligned on the next read.
	if d.carry = n % 2; d.carry == 1 {
		raw[0] = raw[n-1]
	}
	md.Timestamp, md.Status, md.ActualCount = d.ts, 0, pairs
	d.ts += uint64(pairs)
	return nil
}

func (d *rtlDevice) Close() error {
	d.closeOnce.Do(func() {
		if d.conn != nil {
			d.closeErr = d.conn.Close()
			d.conn = nil
		}
		if d.server != nil {
			if err := d.server.stop(); d.closeErr == nil {
				d.closeErr = err
			}
		}
	})
	return d.closeErr
}
