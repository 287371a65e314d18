// Package bladerf drives a Nuand bladeRF through libbladeRF's synchronous interface.
package bladerf

/*
#cgo LDFLAGS: -lbladeRF
#include <stdlib.h>
#include <libbladeRF.h>

static bladerf_channel rx_channel(int ch) { return BLADERF_CHANNEL_RX(ch); }
*/
import "C"

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/chzchzchz/bladerf-power/radio"
)

func init() {
	radio.Register("bladerf", "bladerf1", func(id string) (radio.Device, error) { return Open(id) })
}

// Error is a libbladeRF status code.
type Error int

func (e Error) Error() string { return C.GoString(C.bladerf_strerror(C.int(e))) }

func check(op string, rc C.int) error {
	switch {
	case rc == 0:
		return nil
	case rc == C.BLADERF_ERR_TIMEOUT:
		return fmt.Errorf("%s: %w", op, radio.ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, Error(rc))
}

type Device struct {
	dev  *C.struct_bladerf
	info radio.DeviceInfo
}

// Open opens the device matching id, in libbladeRF's "<backend>:[device=<bus>:<addr>] [instance=<n>] [serial=<serial>]"
// form. An empty id opens the first device found.
func Open(id string) (*Device, error) {
	var cid *C.char
	if id != "" {
		cid = C.CString(id)
		defer C.free(unsafe.Pointer(cid))
	}
	d := &Device{}
	if err := check("bladerf_open", C.bladerf_open(&d.dev, cid)); err != nil {
		return nil, err
	}
	var di C.struct_bladerf_devinfo
	if err := check("bladerf_get_devinfo", C.bladerf_get_devinfo(d.dev, &di)); err != nil {
		d.Close()
		return nil, err
	}
	d.info = radio.DeviceInfo{
		Driver:   "bladerf",
		Serial:   C.GoString(&di.serial[0]),
		Product:  C.GoString(&di.product[0]),
		Speed:    speedName(C.bladerf_device_speed(d.dev)),
		Hardware: C.GoString(C.bladerf_get_board_name(d.dev)),
	}
	return d, nil
}

func speedName(s C.bladerf_dev_speed) string {
	switch s {
	case C.BLADERF_DEVICE_SPEED_HIGH:
		return "USB 2.0 high speed"
	case C.BLADERF_DEVICE_SPEED_SUPER:
		return "USB 3.0 super speed"
	}
	return "unknown"
}

func (d *Device) Info() radio.DeviceInfo { return d.info }

func rx(ch radio.Channel) C.bladerf_channel { return C.rx_channel(C.int(ch)) }

func (d *Device) EnableModule(ch radio.Channel, enable bool) error {
	if d.dev == nil {
		return errors.New("device closed")
	}
	return check("bladerf_enable_module", C.bladerf_enable_module(d.dev, rx(ch), C.bool(enable)))
}

func (d *Device) SetFrequency(ch radio.Channel, f radio.Hertz) error {
	hz := C.bladerf_frequency(math.Round(float64(f)))
	return check("bladerf_set_frequency", C.bladerf_set_frequency(d.dev, rx(ch), hz))
}

func (d *Device) SetSampleRate(ch radio.Channel, sr radio.SampleRate) (radio.SampleRate, error) {
	var actual C.bladerf_sample_rate
	rc := C.bladerf_set_sample_rate(d.dev, rx(ch), C.bladerf_sample_rate(math.Round(float64(sr))), &actual)
	if err := check("bladerf_set_sample_rate", rc); err != nil {
		return 0, err
	}
	return radio.SampleRate(actual), nil
}

func (d *Device) SetBandwidth(ch radio.Channel, bw radio.Hertz) (radio.Hertz, error) {
	var actual C.bladerf_bandwidth
	rc := C.bladerf_set_bandwidth(d.dev, rx(ch), C.bladerf_bandwidth(math.Round(float64(bw))), &actual)
	if err := check("bladerf_set_bandwidth", rc); err != nil {
		return 0, err
	}
	return radio.Hertz(actual), nil
}

func layout(l radio.Layout) (C.bladerf_channel_layout, error) {
	switch l {
	case radio.LayoutRXX1:
		return C.BLADERF_RX_X1, nil
	}
	return 0, fmt.Errorf("unsupported layout %v", l)
}

func format(f radio.Format) (C.bladerf_format, error) {
	switch f {
	case radio.FormatSC16Q11Meta:
		return C.BLADERF_FORMAT_SC16_Q11_META, nil
	}
	return 0, fmt.Errorf("unsupported format %v", f)
}

func (d *Device) SyncConfig(cfg radio.SyncConfig) error {
	l, err := layout(cfg.Layout)
	if err != nil {
		return err
	}
	f, err := format(cfg.Format)
	if err != nil {
		return err
	}
	rc := C.bladerf_sync_config(d.dev, l, f,
		C.uint(cfg.NumBuffers),
		C.uint(cfg.BufferSize),
		C.uint(cfg.NumTransfers),
		C.uint(cfg.Timeout/time.Millisecond))
	return check("bladerf_sync_config", rc)
}

func (d *Device) SyncRX(buf []int16, md *radio.Metadata, timeout time.Duration) error {
	if d.dev == nil {
		return errors.New("device closed")
	}
	if len(buf) < 2 {
		return errors.New("receive buffer too small")
	}
	var cmd C.struct_bladerf_metadata
	var pmd *C.struct_bladerf_metadata
	if md != nil {
		cmd.flags = C.uint32_t(md.Flags)
		pmd = &cmd
	}
	rc := C.bladerf_sync_rx(d.dev, unsafe.Pointer(&buf[0]), C.uint(len(buf)/2), pmd, C.uint(timeout/time.Millisecond))
	if md != nil {
		md.Timestamp = uint64(cmd.timestamp)
		md.Status = radio.MetaStatus(cmd.status)
		md.ActualCount = int(cmd.actual_count)
	}
	return check("bladerf_sync_rx", rc)
}

// Close releases the device. Further calls are no-ops.
func (d *Device) Close() error {
	if d.dev != nil {
		C.bladerf_close(d.dev)
		d.dev = nil
	}
	return nil
}
