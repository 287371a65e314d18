package radio

import (
	"testing"
)

func TestHertzSet(t *testing.T) {
	tts := []struct {
		in  string
		out Hertz
	}{
		{"100", 100},
		{"100h", 100},
		{"100H", 100},
		{"433.92M", 433.92e6},
		{"2.4m", 2.4e6},
		{"1500k", 1.5e6},
		{"28K", 28e3},
		{"1.2G", 1.2e9},
		{"915MHz", 915e6},
		{" 50hz ", 50},
	}
	for _, tt := range tts {
		var h Hertz
		if err := h.Set(tt.in); err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if h != tt.out {
			t.Errorf("%q: got %v, expected %v", tt.in, float64(h), float64(tt.out))
		}
	}
}

func TestHertzSetBad(t *testing.T) {
	for _, in := range []string{"", "M", "abc", "-5M", "1.2X", "NaN", "1e3k", "+M"} {
		var h Hertz
		if err := h.Set(in); err == nil {
			t.Errorf("%q: expected error, got %v", in, h)
		}
	}
}

func TestSampleRateSet(t *testing.T) {
	var sr SampleRate
	if err := sr.Set("10M"); err != nil {
		t.Fatal(err)
	}
	if sr != 10e6 {
		t.Fatalf("got %v", float64(sr))
	}
	if err := sr.Set("2.5Msps"); err != nil || sr != 2.5e6 {
		t.Fatalf("got %v, %v", float64(sr), err)
	}
}

func TestUnitsString(t *testing.T) {
	tts := []struct {
		in  Hertz
		out string
	}{
		{0, "0Hz"},
		{999, "999Hz"},
		{28e3, "28kHz"},
		{433.92e6, "433.92MHz"},
		{2.4e9, "2.4GHz"},
	}
	for _, tt := range tts {
		if s := tt.in.String(); s != tt.out {
			t.Errorf("got %q, expected %q", s, tt.out)
		}
	}
	if s := SampleRate(10e6).String(); s != "10Msps" {
		t.Errorf("got %q", s)
	}
}

// Every hardware bound written with a unit suffix must land inside its own
// inclusive range.
func TestSuffixedBoundsWithinLimits(t *testing.T) {
	tts := []struct {
		hw             string
		freq, bw, rate [2]string
	}{
		{"bladerf1", [2]string{"237.5M", "3.8G"}, [2]string{"1.5M", "28M"}, [2]string{"80k", "40M"}},
		{"bladerf2", [2]string{"70M", "6G"}, [2]string{"200k", "56M"}, [2]string{"520.834k", "61.44M"}},
		{"rtlsdr", [2]string{"24M", "1.766G"}, [2]string{"225.001k", "3.2M"}, [2]string{"225.001k", "3.2M"}},
	}
	for _, tt := range tts {
		l, err := LimitsFor(tt.hw)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			var f, bw Hertz
			var sr SampleRate
			for _, set := range []struct {
				v interface{ Set(string) error }
				s string
			}{{&f, tt.freq[i]}, {&bw, tt.bw[i]}, {&sr, tt.rate[i]}} {
				if err := set.v.Set(set.s); err != nil {
					t.Fatalf("%s %q: %v", tt.hw, set.s, err)
				}
			}
			if err := CheckLimits(l, f, bw, sr); err != nil {
				t.Errorf("%s bound %d: %v", tt.hw, i, err)
			}
		}
	}
}

func TestSampleRateSetExact(t *testing.T) {
	var sr SampleRate
	if err := sr.Set("520.834k"); err != nil {
		t.Fatal(err)
	}
	if sr != 520834 {
		t.Fatalf("got %v, expected exactly 520834", float64(sr))
	}
}
