// Package power runs the receive, normalize and transform loop against a radio.Device.
package power

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/chzchzchz/bladerf-power/radio"
)

const (
	DefaultBins      = 8192
	DefaultRXTimeout = 50 * time.Millisecond
)

// Config is everything needed to open, tune and stream from one receive channel.
type Config struct {
	Driver   string
	DeviceID string
	// Hardware selects the limits used by Validate.
	Hardware string

	Frequency  radio.Hertz
	SampleRate radio.SampleRate
	Bandwidth  radio.Hertz
	Bins       int

	Channel   radio.Channel
	Sync      radio.SyncConfig
	RXTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Driver:    "bladerf",
		Bins:      DefaultBins,
		Channel:   radio.RX0,
		Sync:      radio.DefaultSyncConfig(),
		RXTimeout: DefaultRXTimeout,
	}
}

// Validate checks the configuration against the limits of its hardware class.
func (c Config) Validate() error {
	if c.Bins <= 0 {
		return fmt.Errorf("fft bins must be positive, got %d", c.Bins)
	}
	if c.RXTimeout <= 0 {
		return errors.New("rx timeout must be positive")
	}
	l, err := radio.LimitsFor(c.Hardware)
	if err != nil {
		return err
	}
	return radio.CheckLimits(l, c.Frequency, c.Bandwidth, c.SampleRate)
}

// Band is the spectrum covered by one frame.
func (c Config) Band() radio.HzBand {
	return radio.HzBand{Center: c.Frequency, Width: radio.Hertz(c.SampleRate)}
}

func (c Config) Log() {
	glog.Infof("channel: %v", c.Channel)
	glog.Infof("frequency: %v", c.Frequency)
	glog.Infof("sample rate: %v", c.SampleRate)
	glog.Infof("bandwidth: %v", c.Bandwidth)
	glog.Infof("layout: %v", c.Sync.Layout)
	glog.Infof("format: %v", c.Sync.Format)
	glog.Infof("fft bins: %d", c.Bins)

	glog.V(1).Infof("driver: %s, hardware: %s", c.Driver, c.Hardware)
	glog.V(1).Infof("num buffers: %d", c.Sync.NumBuffers)
	glog.V(1).Infof("samples per buffer: %d", c.Sync.BufferSize)
	glog.V(1).Infof("num transfers: %d", c.Sync.NumTransfers)
	glog.V(1).Infof("config timeout: %v", c.Sync.Timeout)
	glog.V(1).Infof("rx timeout: %v", c.RXTimeout)
}
