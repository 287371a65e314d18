// Package wav reads and writes PCM captures such as SDR# and gqrx IQ recordings.
package wav

import (
	"encoding/binary"
	"errors"
	"io"
)

var ErrBadFormat = errors.New("bad format")

type chunkHeader struct {
	ID   [4]byte
	Size uint32
}

// fmtBody is the PCM format chunk without its chunk header.
type fmtBody struct {
	AudioFormat   uint16 /* 1 */
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

const fmtBodySize = 16

// Reader is positioned at the first sample of the data chunk.
type Reader struct {
	io.Reader
	fh      fmtBody
	dataLen uint32
}

func NewReader(r io.Reader) (*Reader, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, err
	}
	if string(riff[:4]) != "RIFF" || string(riff[8:]) != "WAVE" {
		return nil, ErrBadFormat
	}
	rr := &Reader{}
	sawFmt := false
	for {
		var ch chunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			return nil, err
		}
		switch string(ch.ID[:]) {
		case "fmt ":
			if ch.Size < fmtBodySize {
				return nil, ErrBadFormat
			}
			if err := binary.Read(r, binary.LittleEndian, &rr.fh); err != nil {
				return nil, err
			}
			if rr.fh.AudioFormat != 1 || rr.fh.NumChannels == 0 {
				return nil, ErrBadFormat
			}
			if err := skip(r, int64(ch.Size-fmtBodySize)); err != nil {
				return nil, err
			}
			sawFmt = true
		case "data":
			if !sawFmt {
				return nil, ErrBadFormat
			}
			rr.Reader, rr.dataLen = r, ch.Size
			return rr, nil
		default:
			// Chunks are padded to even sizes.
			if err := skip(r, int64(ch.Size+ch.Size%2)); err != nil {
				return nil, err
			}
		}
	}
}

func skip(r io.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

func (r *Reader) Channels() int { return int(r.fh.NumChannels) }

func (r *Reader) SampleRate() int { return int(r.fh.SampleRate) }

// BitDepth is the size of one channel's sample.
func (r *Reader) BitDepth() int { return int(r.fh.BitsPerSample) }

// DataLen is the byte length of the data chunk as recorded in the header.
func (r *Reader) DataLen() int64 { return int64(r.dataLen) }

// Writer writes a PCM stream. The data length in the header is patched on
// Close when the destination can seek; otherwise it stays at the streaming
// placeholder.
type Writer struct {
	w       io.Writer
	fh      fmtBody
	dataLen uint32
}

const headerLen = 44

func NewWriter(w io.Writer, rate, depth, channels int) (*Writer, error) {
	if rate <= 0 || depth <= 0 || depth%8 != 0 || channels <= 0 {
		return nil, ErrBadFormat
	}
	block := channels * depth / 8
	ww := &Writer{w: w, fh: fmtBody{
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(rate),
		ByteRate:      uint32(rate * block),
		BlockAlign:    uint16(block),
		BitsPerSample: uint16(depth),
	}}
	if _, err := w.Write(ww.header(1 << 31)); err != nil {
		return nil, err
	}
	return ww, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.dataLen += uint32(n)
	return n, err
}

func (w *Writer) Close() error {
	ws, ok := w.w.(io.WriteSeeker)
	if !ok {
		return nil
	}
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := ws.Write(w.header(w.dataLen)); err != nil {
		return err
	}
	_, err := ws.Seek(0, io.SeekEnd)
	return err
}

func (w *Writer) header(dataLen uint32) []byte {
	le := binary.LittleEndian
	b := make([]byte, headerLen)
	copy(b[0:], "RIFF")
	le.PutUint32(b[4:], headerLen-8+dataLen)
	copy(b[8:], "WAVEfmt ")
	le.PutUint32(b[16:], fmtBodySize)
	le.PutUint16(b[20:], w.fh.AudioFormat)
	le.PutUint16(b[22:], w.fh.NumChannels)
	le.PutUint32(b[24:], w.fh.SampleRate)
	le.PutUint32(b[28:], w.fh.ByteRate)
	le.PutUint16(b[32:], w.fh.BlockAlign)
	le.PutUint16(b[34:], w.fh.BitsPerSample)
	copy(b[36:], "data")
	le.PutUint32(b[40:], dataLen)
	return b
}
