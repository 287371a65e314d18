package power

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/chzchzchz/bladerf-power/radio"
)

// Configure tunes dev and starts streaming on the configured channel. The
// channel is disabled while it is retuned.
func Configure(dev radio.Device, cfg Config) error {
	ch := cfg.Channel
	if err := dev.EnableModule(ch, false); err != nil {
		return fmt.Errorf("disable %v: %w", ch, err)
	}
	if err := dev.SetFrequency(ch, cfg.Frequency); err != nil {
		return fmt.Errorf("set frequency %v: %w", cfg.Frequency, err)
	}
	sr, err := dev.SetSampleRate(ch, cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("set sample rate %v: %w", cfg.SampleRate, err)
	}
	if sr != cfg.SampleRate {
		glog.Warningf("actual sample rate %v differs from requested %v", sr, cfg.SampleRate)
	}
	bw, err := dev.SetBandwidth(ch, cfg.Bandwidth)
	if err != nil {
		return fmt.Errorf("set bandwidth %v: %w", cfg.Bandwidth, err)
	}
	if bw != cfg.Bandwidth {
		glog.Warningf("actual bandwidth %v differs from requested %v", bw, cfg.Bandwidth)
	}

	glog.Info("enabling sync rx config")
	if err := dev.SyncConfig(cfg.Sync); err != nil {
		return fmt.Errorf("sync config: %w", err)
	}
	if err := dev.EnableModule(ch, true); err != nil {
		return fmt.Errorf("enable %v: %w", ch, err)
	}
	glog.Infof("channel %v active", ch)
	return nil
}

// Open opens the configured device, logs what was found, and configures it.
// The device is closed if configuration fails.
func Open(cfg Config) (radio.Device, error) {
	glog.Infof("opening %s device %q", cfg.Driver, cfg.DeviceID)
	dev, err := radio.Open(cfg.Driver, cfg.DeviceID)
	if err != nil {
		return nil, err
	}
	info := dev.Info()
	glog.Infof("device info: %v", info)
	glog.Infof("speed: %s", info.Speed)
	if info.Hardware != "" && info.Hardware != cfg.Hardware {
		glog.Warningf("device reports %s hardware, configured for %s", info.Hardware, cfg.Hardware)
		actual := cfg
		actual.Hardware = info.Hardware
		if err := actual.Validate(); err != nil {
			dev.Close()
			return nil, err
		}
	}
	if err := Configure(dev, cfg); err != nil {
		dev.Close()
		return nil, err
	}
	return dev, nil
}
