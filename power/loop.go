package power

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/chzchzchz/bladerf-power/dsp"
	"github.com/chzchzchz/bladerf-power/interrupt"
	"github.com/chzchzchz/bladerf-power/radio"
	"github.com/chzchzchz/bladerf-power/spectrum"
)

// OutcomeKind classifies one pass of the loop.
type OutcomeKind int

const (
	// Delivered blocks were transformed.
	Delivered OutcomeKind = iota
	TimedOut
	Empty
	Underrun
	// Short blocks held fewer samples than the fft length and were dropped.
	Short
	Failed
)

var outcomeNames = [...]string{"delivered", "timeout", "empty", "underrun", "short", "failed"}

func (k OutcomeKind) String() string {
	if int(k) < len(outcomeNames) {
		return outcomeNames[k]
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

type Outcome struct {
	Kind OutcomeKind
	// Count is the number of IQ pairs delivered.
	Count int
	Err   error
}

// FrameSink receives each transformed frame. The frame is only valid during the call.
type FrameSink interface {
	Frame(frame []complex128)
}

// Loop owns the receive buffers and fft plan for one channel. Buffers are
// sized once so a pass never allocates.
type Loop struct {
	dev     radio.Device
	ch      radio.Channel
	plan    spectrum.Plan
	bins    int
	timeout time.Duration

	raw     []int16
	samples []complex128
	md      radio.Metadata

	Sink    FrameSink
	Metrics *Metrics

	shutdownOnce sync.Once
}

// NewLoop takes ownership of dev; it is disabled and closed when the loop ends.
func NewLoop(dev radio.Device, plan spectrum.Plan, cfg Config) (*Loop, error) {
	if plan.Len() != cfg.Bins {
		return nil, fmt.Errorf("fft plan has %d bins, configured for %d", plan.Len(), cfg.Bins)
	}
	return &Loop{
		dev:     dev,
		ch:      cfg.Channel,
		plan:    plan,
		bins:    cfg.Bins,
		timeout: cfg.RXTimeout,
		// One receive asks for exactly one fft worth of IQ pairs.
		raw:     make([]int16, 2*cfg.Bins),
		samples: make([]complex128, 0, cfg.Bins),
	}, nil
}

func (l *Loop) receive() Outcome {
	l.md = radio.NewRXNowMetadata()
	err := l.dev.SyncRX(l.raw, &l.md, l.timeout)
	switch {
	case errors.Is(err, radio.ErrTimeout):
		return Outcome{Kind: TimedOut}
	case err != nil:
		return Outcome{Kind: Failed, Err: err}
	}
	if glog.V(2) {
		glog.Infof("sync rx %v", l.md)
	}
	o := Outcome{Kind: Delivered, Count: l.md.ActualCount}
	switch {
	case l.md.ActualCount == 0:
		o.Kind = Empty
	case l.md.Status.Underrun():
		o.Kind = Underrun
	}
	return o
}

// Step runs one pass: receive a block, then normalize and transform it if it
// is usable. Only a Failed outcome carries an error.
func (l *Loop) Step() Outcome {
	o := l.receive()
	defer func() { l.Metrics.observe(o) }()
	switch o.Kind {
	case TimedOut, Failed:
		return o
	case Empty:
		glog.Warning("sync rx empty packet")
		return o
	case Underrun:
		glog.Warning("sync rx underrun")
		return o
	}

	l.samples = dsp.AppendSC16Q11(l.samples[:0], l.raw[:2*o.Count])
	if len(l.samples) < l.bins {
		glog.Warningf("not enough samples to process: have %d, need %d", len(l.samples), l.bins)
		o.Kind = Short
		return o
	}
	if len(l.samples) != l.bins {
		panic(fmt.Sprintf("got %d samples for a %d bin fft", len(l.samples), l.bins))
	}
	l.plan.Execute(l.samples)
	if l.Sink != nil {
		l.Sink.Frame(l.samples)
	}
	return o
}

// Run steps until intr is set or the device fails, then shuts the device down.
func (l *Loop) Run(intr interrupt.Flag) error {
	defer l.Shutdown()
	for !intr.IsSet() {
		if o := l.Step(); o.Kind == Failed {
			return fmt.Errorf("sync rx: %w", o.Err)
		}
	}
	glog.Info("shutting down")
	return nil
}

// Shutdown disables the channel, ignoring failure, then closes the device.
// Only the first call has any effect.
func (l *Loop) Shutdown() {
	l.shutdownOnce.Do(func() {
		if err := l.dev.EnableModule(l.ch, false); err != nil {
			glog.V(1).Infof("disable %v: %v", l.ch, err)
		}
		if err := l.dev.Close(); err != nil {
			glog.Warningf("close: %v", err)
		}
	})
}
