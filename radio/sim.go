package radio

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"
)

func init() { Register("sim", "bladerf1", func(id string) (Device, error) { return NewSimDevice(id) }) }

// lms6002dBandwidths are the discrete filter settings of the bladeRF1 RX path.
var lms6002dBandwidths = []float64{
	1.5e6, 1.75e6, 2.5e6, 2.75e6, 3e6, 3.84e6, 5e6, 5.5e6,
	6e6, 7e6, 8.75e6, 10e6, 12e6, 14e6, 20e6, 28e6,
}

// SimOptions shape the synthetic signal and the anomalies injected into it.
// An EveryX option of n fires on every nth receive; zero disables it.
type SimOptions struct {
	Tone      Hertz
	Amplitude float64
	Realtime  bool

	TimeoutEvery  int
	EmptyEvery    int
	UnderrunEvery int
	ShortEvery    int
	FailAfter     int
}

// simDevice generates a dithered complex tone in SC16 Q11.
type simDevice struct {
	opts SimOptions

	freq    Hertz
	rate    SampleRate
	bw      Hertz
	enabled bool
	synced  bool
	closed  bool
	rxs     int
	phase   float64
	ts      uint64
	pacer   pacer
	rng     *rand.Rand
}

// NewSimDevice parses options of the form "tone=100k amplitude=1500 underrun-every=10".
func NewSimDevice(id string) (Device, error) {
	_, kv, err := parseOptions(id)
	if err != nil {
		return nil, err
	}
	opts := SimOptions{Tone: 100e3, Amplitude: 2040, Realtime: true}
	for k, v := range kv {
		if err := opts.set(k, v); err != nil {
			return nil, fmt.Errorf("sim option %s: %w", k, err)
		}
	}
	return newSimDevice(opts), nil
}

func newSimDevice(opts SimOptions) *simDevice {
	return &simDevice{opts: opts, rng: rand.New(rand.NewSource(1))}
}

func (o *SimOptions) set(k, v string) (err error) {
	atoi := func(p *int) error {
		*p, err = strconv.Atoi(v)
		return err
	}
	switch k {
	case "tone":
		return o.Tone.Set(v)
	case "amplitude":
		o.Amplitude, err = strconv.ParseFloat(v, 64)
		return err
	case "realtime":
		o.Realtime, err = strconv.ParseBool(v)
		return err
	case "timeout-every":
		return atoi(&o.TimeoutEvery)
	case "empty-every":
		return atoi(&o.EmptyEvery)
	case "underrun-every":
		return atoi(&o.UnderrunEvery)
	case "short-every":
		return atoi(&o.ShortEvery)
	case "fail-after":
		return atoi(&o.FailAfter)
	}
	return errors.New("unknown option")
}

func (s *simDevice) Info() DeviceInfo {
	return DeviceInfo{Driver: "sim", Serial: "0", Product: "simulated bladeRF", Speed: "none", Hardware: "bladerf1"}
}

func (s *simDevice) EnableModule(ch Channel, enable bool) error {
	if s.closed {
		return errors.New("device closed")
	}
	s.enabled = enable
	return nil
}

func (s *simDevice) SetFrequency(ch Channel, f Hertz) error {
	s.freq = f
	return nil
}

func (s *simDevice) SetSampleRate(ch Channel, sr SampleRate) (SampleRate, error) {
	s.rate = SampleRate(math.Round(float64(sr)))
	return s.rate, nil
}

func (s *simDevice) SetBandwidth(ch Channel, bw Hertz) (Hertz, error) {
	s.bw = Hertz(lms6002dBandwidths[len(lms6002dBandwidths)-1])
	for _, v := range lms6002dBandwidths {
		if v >= float64(bw) {
			s.bw = Hertz(v)
			break
		}
	}
	return s.bw, nil
}

func (s *simDevice) SyncConfig(cfg SyncConfig) error {
	if cfg.Format != FormatSC16Q11Meta {
		return fmt.Errorf("unsupported format %v", cfg.Format)
	}
	s.synced = true
	return nil
}

func every(n, i int) bool { return n > 0 && i%n == 0 }

func (s *simDevice) SyncRX(buf []int16, md *Metadata, timeout time.Duration) error {
	switch {
	case s.closed:
		return errors.New("device closed")
	case !s.synced || !s.enabled:
		return errors.New("rx module not enabled")
	case s.rate <= 0:
		return errors.New("sample rate not set")
	}
	s.rxs++
	md.Status, md.ActualCount = 0, 0
	if s.opts.FailAfter > 0 && s.rxs > s.opts.FailAfter {
		return errors.New("simulated transfer failure")
	}
	if every(s.opts.TimeoutEvery, s.rxs) {
		if s.opts.Realtime {
			time.Sleep(timeout)
		}
		return ErrTimeout
	}
	md.Timestamp = s.ts
	if every(s.opts.EmptyEvery, s.rxs) {
		return nil
	}
	n := len(buf) / 2
	if every(s.opts.ShortEvery, s.rxs) {
		n /= 2
	}
	s.tone(buf[:2*n])
	if every(s.opts.UnderrunEvery, s.rxs) {
		md.Status |= MetaStatusUnderrun
	}
	md.ActualCount = n
	s.ts += uint64(n)
	if s.opts.Realtime {
		s.pacer.wait(n, s.rate)
	}
	return nil
}

func (s *simDevice) tone(buf []int16) {
	step := 2 * math.Pi * float64(s.opts.Tone) / float64(s.rate)
	for i := 0; i < len(buf); i += 2 {
		buf[i] = clampQ11(s.opts.Amplitude*math.Cos(s.phase) + s.rng.Float64() - 0.5)
		buf[i+1] = clampQ11(s.opts.Amplitude*math.Sin(s.phase) + s.rng.Float64() - 0.5)
		if s.phase += step; s.phase > 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
}

func (s *simDevice) Close() error {
	s.closed, s.enabled = true, false
	return nil
}

func clampQ11(v float64) int16 {
	switch {
	case v > 2047:
		return 2047
	case v < -2048:
		return -2048
	}
	return int16(v)
}
