package radio

import (
	"errors"
	"fmt"
	"time"
)

var ErrRateOutOfRange = errors.New("sample rate out of range")
var ErrFrequencyOutOfRange = errors.New("frequency out of range")
var ErrBandwidthOutOfRange = errors.New("bandwidth out of range")

// ErrTimeout is returned by SyncRX when no samples arrived before the deadline.
var ErrTimeout = errors.New("receive timed out")

// Device is a receiver that delivers SC16 Q11 samples through a synchronous interface.
type Device interface {
	Info() DeviceInfo
	EnableModule(ch Channel, enable bool) error
	SetFrequency(ch Channel, f Hertz) error
	// SetSampleRate returns the rate the hardware actually settled on.
	SetSampleRate(ch Channel, sr SampleRate) (SampleRate, error)
	// SetBandwidth returns the filter bandwidth the hardware actually settled on.
	SetBandwidth(ch Channel, bw Hertz) (Hertz, error)
	SyncConfig(cfg SyncConfig) error
	// SyncRX fills buf with up to len(buf)/2 interleaved IQ pairs. The number of
	// pairs delivered is reported in md.ActualCount.
	SyncRX(buf []int16, md *Metadata, timeout time.Duration) error
	// Close releases the device. Closing twice is not an error.
	Close() error
}

type DeviceInfo struct {
	Driver   string `json:"driver"`
	Serial   string `json:"serial"`
	Product  string `json:"product"`
	Speed    string `json:"speed"`
	Hardware string `json:"hardware"`
}

func (di DeviceInfo) String() string {
	return fmt.Sprintf("%s %s serial=%s speed=%s", di.Driver, di.Product, di.Serial, di.Speed)
}

type Channel int

const RX0 Channel = 0

func (ch Channel) String() string { return fmt.Sprintf("RX%d", int(ch)) }

type Layout int

const LayoutRXX1 Layout = 0

func (l Layout) String() string {
	switch l {
	case LayoutRXX1:
		return "RX_X1"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

type Format int

const FormatSC16Q11Meta Format = 0

func (f Format) String() string {
	switch f {
	case FormatSC16Q11Meta:
		return "SC16_Q11_META"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// SyncConfig sizes the driver's internal stream of transfer buffers.
type SyncConfig struct {
	Layout       Layout
	Format       Format
	NumBuffers   int
	BufferSize   int // samples per buffer
	NumTransfers int
	Timeout      time.Duration
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Layout:       LayoutRXX1,
		Format:       FormatSC16Q11Meta,
		NumBuffers:   32,
		BufferSize:   32 * 1024,
		NumTransfers: 16,
		Timeout:      time.Second,
	}
}

type MetaFlags uint32

// MetaFlagRXNow asks for samples starting at the next available timestamp.
const MetaFlagRXNow MetaFlags = 1 << 31

type MetaStatus uint32

const (
	MetaStatusOverrun  MetaStatus = 1 << 0
	MetaStatusUnderrun MetaStatus = 1 << 1
)

func (s MetaStatus) Underrun() bool { return s&MetaStatusUnderrun != 0 }

type Metadata struct {
	Timestamp uint64
	Flags     MetaFlags
	Status    MetaStatus
	// ActualCount is the number of IQ pairs written to the receive buffer.
	ActualCount int
}

func NewRXNowMetadata() Metadata { return Metadata{Flags: MetaFlagRXNow} }

func (md Metadata) String() string {
	return fmt.Sprintf("ts=%d flags=%#x status=%#x count=%d", md.Timestamp, uint32(md.Flags), uint32(md.Status), md.ActualCount)
}
