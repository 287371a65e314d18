package radio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzchzchz/bladerf-power/radio/wav"
)

func init() { Register("file", "bladerf1", func(id string) (Device, error) { return OpenFile(id) }) }

// fileDevice replays a capture as if it were arriving from hardware. Raw
// captures are little endian SC16 Q11 pairs as written by bladeRF-cli; wav
// captures are 16-bit stereo and get scaled to 12 bits. Playback loops at EOF.
type fileDevice struct {
	f        *os.File
	path     string
	wav      bool
	dataOff  int64
	dataEnd  int64
	pos      int64
	realtime bool

	rate    SampleRate
	enabled bool
	raw     []byte
	ts      uint64
	pacer   pacer
}

// OpenFile opens "path [realtime=false]".
func OpenFile(id string) (Device, error) {
	path, opts, err := parseOptions(id)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = opts["path"]
	}
	if path == "" {
		return nil, errors.New("no capture path given")
	}
	fd := &fileDevice{path: path, realtime: true}
	if v, ok := opts["realtime"]; ok {
		if fd.realtime, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("realtime option: %w", err)
		}
	}
	if fd.f, err = os.Open(path); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		err = fd.openWav()
	}
	if err == nil {
		err = fd.checkNotEmpty()
	}
	if err != nil {
		fd.f.Close()
		return nil, err
	}
	return fd, nil
}

func (fd *fileDevice) openWav() error {
	wr, err := wav.NewReader(fd.f)
	if err != nil {
		return fmt.Errorf("%s: %w", fd.path, err)
	}
	if wr.Channels() != 2 || wr.BitDepth() != 16 {
		return fmt.Errorf("%s: need 16-bit stereo IQ, got %d channels of %d bits", fd.path, wr.Channels(), wr.BitDepth())
	}
	fd.wav, fd.rate = true, SampleRate(wr.SampleRate())
	if fd.dataOff, err = fd.f.Seek(0, io.SeekCurrent); err != nil {
		return err
	}
	fd.pos = fd.dataOff
	if st, err := fd.f.Stat(); err == nil {
		fd.dataEnd = min(fd.dataOff+wr.DataLen(), st.Size())
	}
	return nil
}

// sc16PairLen is the byte size of one little endian IQ pair.
const sc16PairLen = 4

var errEmptyCapture = errors.New("capture holds no IQ samples")

func (fd *fileDevice) checkNotEmpty() error {
	end := fd.dataEnd
	if end == 0 {
		st, err := fd.f.Stat()
		if err != nil {
			return err
		}
		end = st.Size()
	}
	if end-fd.dataOff < sc16PairLen {
		return fmt.Errorf("%s: %w", fd.path, errEmptyCapture)
	}
	return nil
}

func (fd *fileDevice) Info() DeviceInfo {
	return DeviceInfo{Driver: "file", Serial: filepath.Base(fd.path), Product: "capture replay", Speed: "none", Hardware: "bladerf1"}
}

func (fd *fileDevice) EnableModule(ch Channel, enable bool) error {
	fd.enabled = enable
	return nil
}

func (fd *fileDevice) SetFrequency(ch Channel, f Hertz) error { return nil }

// SetSampleRate paces playback. A wav capture keeps its recorded rate.
func (fd *fileDevice) SetSampleRate(ch Channel, sr SampleRate) (SampleRate, error) {
	if !fd.wav {
		fd.rate = sr
	}
	return fd.rate, nil
}

func (fd *fileDevice) SetBandwidth(ch Channel, bw Hertz) (Hertz, error) { return bw, nil }

func (fd *fileDevice) SyncConfig(cfg SyncConfig) error {
	if cfg.Format != FormatSC16Q11Meta {
		return fmt.Errorf("unsupported format %v", cfg.Format)
	}
	return nil
}

func (fd *fileDevice) SyncRX(buf []int16, md *Metadata, timeout time.Duration) error {
	if fd.f == nil {
		return os.ErrClosed
	}
	if !fd.enabled {
		return errors.New("rx module not enabled")
	}
	if cap(fd.raw) < 2*len(buf) {
		fd.raw = make([]byte, 2*len(buf))
	}
	raw := fd.raw[:2*len(buf)]
	n, err := fd.read(raw)
	if err == nil && n < sc16PairLen {
		// Capture ended on a block boundary; start over.
		if n, err = fd.read(raw); err == nil && n < sc16PairLen {
			err = fmt.Errorf("%s: %w", fd.path, errEmptyCapture)
		}
	}
	if err != nil {
		return err
	}
	pairs := n / sc16PairLen
	for i := 0; i < 2*pairs; i++ {
		buf[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	if fd.wav {
		S16ToSC16Q11(buf[:2*pairs])
	}
	md.Timestamp, md.Status, md.ActualCount = fd.ts, 0, pairs
	fd.ts += uint64(pairs)
	if fd.realtime {
		fd.pacer.wait(pairs, fd.rate)
	}
	return nil
}

// read fills raw from the data section and rewinds once it is exhausted.
func (fd *fileDevice) read(raw []byte) (int, error) {
	if fd.dataEnd > 0 && int64(len(raw)) > fd.dataEnd-fd.pos {
		raw = raw[:fd.dataEnd-fd.pos]
	}
	n, err := io.ReadFull(fd.f, raw)
	fd.pos += int64(n)
	eof := err == io.EOF || err == io.ErrUnexpectedEOF || (fd.dataEnd > 0 && fd.pos >= fd.dataEnd)
	if err != nil && !eof {
		return n, err
	}
	if eof {
		if fd.pos, err = fd.f.Seek(fd.dataOff, io.SeekStart); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (fd *fileDevice) Close() error {
	if fd.f == nil {
		return nil
	}
	err := fd.f.Close()
	fd.f = nil
	return err
}
