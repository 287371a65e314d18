package radio

import (
	"errors"
	"testing"
	"time"
)

func openSim(t *testing.T, id string) Device {
	dev, err := Open("sim", id)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.SetSampleRate(RX0, 2e6); err != nil {
		t.Fatal(err)
	}
	if err := dev.SyncConfig(DefaultSyncConfig()); err != nil {
		t.Fatal(err)
	}
	if err := dev.EnableModule(RX0, true); err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestSampleRate(t *testing.T) {
	testRate := 2e6
	testSeconds := time.Second
	dev := openSim(t, "")
	defer dev.Close()

	buf := make([]int16, 2*8192)
	md := NewRXNowMetadata()
	// Drop first block to measure closer to device-rate.
	if err := dev.SyncRX(buf, &md, 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	start, samples := time.Now(), 0
	for time.Since(start) < testSeconds {
		if err := dev.SyncRX(buf, &md, 50*time.Millisecond); err != nil {
			t.Fatal(err)
		}
		samples += md.ActualCount
	}
	seconds := time.Since(start).Seconds()

	sps := float64(samples) / seconds
	if sps < 0.95*testRate || sps > 1.05*testRate {
		t.Fatalf("expected 5%% from rate %v, got %v", testRate, sps)
	}
	t.Logf("time: %.2g, got %.4gMSPS\n", seconds, sps/1e6)
}

func TestSimAnomalies(t *testing.T) {
	dev := openSim(t, "realtime=false timeout-every=2 empty-every=3 underrun-every=5 short-every=7 fail-after=10")
	defer dev.Close()

	buf := make([]int16, 2*1024)
	for i := 1; i <= 11; i++ {
		md := NewRXNowMetadata()
		err := dev.SyncRX(buf, &md, time.Millisecond)
		switch {
		case i > 10:
			if err == nil || errors.Is(err, ErrTimeout) {
				t.Fatalf("%d: expected failure, got %v", i, err)
			}
		case i%2 == 0:
			if !errors.Is(err, ErrTimeout) {
				t.Fatalf("%d: expected timeout, got %v", i, err)
			}
		case i%3 == 0:
			if err != nil || md.ActualCount != 0 {
				t.Fatalf("%d: expected empty delivery, got %d, %v", i, md.ActualCount, err)
			}
		case i%5 == 0:
			if err != nil || !md.Status.Underrun() {
				t.Fatalf("%d: expected underrun, got %v, %v", i, md, err)
			}
		case i%7 == 0:
			if err != nil || md.ActualCount != 512 {
				t.Fatalf("%d: expected short delivery, got %d, %v", i, md.ActualCount, err)
			}
		default:
			if err != nil || md.ActualCount != 1024 || md.Status.Underrun() {
				t.Fatalf("%d: expected full delivery, got %v, %v", i, md, err)
			}
		}
	}
}

func TestSimToneInRange(t *testing.T) {
	dev := openSim(t, "realtime=false amplitude=4000")
	defer dev.Close()
	buf := make([]int16, 2*4096)
	md := NewRXNowMetadata()
	if err := dev.SyncRX(buf, &md, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	sawMax := false
	for _, v := range buf {
		if v < -2048 || v > 2047 {
			t.Fatalf("sample %d outside 12 bits", v)
		}
		sawMax = sawMax || v == 2047
	}
	if !sawMax {
		t.Fatal("overdriven tone was not clipped")
	}
}

func TestSimBandwidthSnaps(t *testing.T) {
	dev := openSim(t, "realtime=false")
	defer dev.Close()
	tts := []struct{ in, out Hertz }{{1e6, 1.5e6}, {3e6, 3e6}, {4e6, 5e6}, {30e6, 28e6}}
	for _, tt := range tts {
		bw, err := dev.SetBandwidth(RX0, tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if bw != tt.out {
			t.Errorf("bandwidth %v: got %v, expected %v", tt.in, bw, tt.out)
		}
	}
}

func TestSimNotEnabled(t *testing.T) {
	dev, err := Open("sim", "")
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()
	md := NewRXNowMetadata()
	if err := dev.SyncRX(make([]int16, 8), &md, time.Millisecond); err == nil {
		t.Fatal("expected error receiving before enable")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("hackrf", ""); err == nil {
		t.Fatal("expected error")
	}
	if _, err := DefaultHardware("hackrf"); err == nil {
		t.Fatal("expected error")
	}
	if hw, err := DefaultHardware("rtltcp"); err != nil || hw != "rtlsdr" {
		t.Fatalf("got %q, %v", hw, err)
	}
}

func TestParseOptions(t *testing.T) {
	bare, opts, err := parseOptions("/tmp/x.bin,realtime=false tone=1k")
	if err != nil {
		t.Fatal(err)
	}
	if bare != "/tmp/x.bin" || opts["realtime"] != "false" || opts["tone"] != "1k" {
		t.Fatalf("got %q %v", bare, opts)
	}
	if _, _, err := parseOptions("a b"); err == nil {
		t.Fatal("expected error on two bare words")
	}
}
