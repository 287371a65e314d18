package radio

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chzchzchz/bladerf-power/radio/wav"
)

func writeSC16(t *testing.T, path string, vals []int16) {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func enable(t *testing.T, dev Device) {
	if err := dev.SyncConfig(DefaultSyncConfig()); err != nil {
		t.Fatal(err)
	}
	if err := dev.EnableModule(RX0, true); err != nil {
		t.Fatal(err)
	}
}

func TestFileReplayLoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin")
	vals := []int16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, -2048, 2047}
	writeSC16(t, path, vals)

	dev, err := Open("file", path+" realtime=false")
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()
	enable(t, dev)

	buf := make([]int16, 8)
	expected := []struct {
		count int
		first int16
	}{{4, 0}, {2, 8}, {4, 0}}
	for i, e := range expected {
		md := NewRXNowMetadata()
		if err := dev.SyncRX(buf, &md, time.Millisecond); err != nil {
			t.Fatal(err)
		}
		if md.ActualCount != e.count || buf[0] != e.first {
			t.Fatalf("%d: got count %d first %d, expected %d and %d", i, md.ActualCount, buf[0], e.count, e.first)
		}
	}
}

func TestFileReplayWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wav.NewWriter(f, 48000, 16, 2)
	if err != nil {
		t.Fatal(err)
	}
	vals := []int16{16, -32768, 32767, -16}
	if err := binary.Write(w, binary.LittleEndian, vals); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dev, err := Open("file", path+",realtime=false")
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()
	if sr, _ := dev.SetSampleRate(RX0, 1e6); sr != 48000 {
		t.Fatalf("wav sample rate %v, expected 48000", sr)
	}
	enable(t, dev)

	buf := make([]int16, 4)
	md := NewRXNowMetadata()
	if err := dev.SyncRX(buf, &md, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if md.ActualCount != 2 {
		t.Fatalf("got %d pairs", md.ActualCount)
	}
	for i, v := range []int16{1, -2048, 2047, -1} {
		if buf[i] != v {
			t.Errorf("sample %d = %d, expected %d", i, buf[i], v)
		}
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := Open("file", filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Fatal("expected error opening missing capture")
	}
	if _, err := Open("file", ""); err == nil {
		t.Fatal("expected error without path")
	}
}

func TestFileEmptyCapture(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.bin")
	if err := os.WriteFile(short, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.bin")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, "empty.wav"))
	if err != nil {
		t.Fatal(err)
	}
	w, err := wav.NewWriter(f, 48000, 16, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	for _, path := range []string{empty, short, f.Name()} {
		dev, err := Open("file", path+" realtime=false")
		if !errors.Is(err, errEmptyCapture) {
			t.Errorf("%s: expected empty capture error, got %v", filepath.Base(path), err)
		}
		if dev != nil {
			dev.Close()
		}
	}
}

// A capture truncated after open must fail the receive instead of
// delivering empty blocks without waiting.
func TestFileTruncatedCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin")
	writeSC16(t, path, []int16{1, 2, 3, 4})
	dev, err := Open("file", path+" realtime=false")
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()
	enable(t, dev)
	if err := os.Truncate(path, 0); err != nil {
		t.Fatal(err)
	}
	md := NewRXNowMetadata()
	if err := dev.SyncRX(make([]int16, 8), &md, time.Millisecond); !errors.Is(err, errEmptyCapture) {
		t.Fatalf("expected empty capture error, got %v (count %d)", err, md.ActualCount)
	}
}
