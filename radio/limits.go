package radio

import (
	"fmt"
	"sort"
)

// Range is a closed interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Limits bounds the tunable parameters of one hardware class.
type Limits struct {
	Frequency  Range
	Bandwidth  Range
	SampleRate Range
}

var hardwareLimits = map[string]Limits{
	"bladerf1": {
		Frequency:  Range{237.5e6, 3.8e9},
		Bandwidth:  Range{1.5e6, 28e6},
		SampleRate: Range{80e3, 40e6},
	},
	"bladerf2": {
		Frequency:  Range{70e6, 6e9},
		Bandwidth:  Range{200e3, 56e6},
		SampleRate: Range{520834, 61.44e6},
	},
	// rtl_tcp has no separate filter; the bandwidth is the sample rate.
	"rtlsdr": {
		Frequency:  Range{24e6, 1.766e9},
		Bandwidth:  Range{225001, 3.2e6},
		SampleRate: Range{225001, 3.2e6},
	},
}

func LimitsFor(hardware string) (Limits, error) {
	l, ok := hardwareLimits[hardware]
	if !ok {
		return Limits{}, fmt.Errorf("unknown hardware %q (have %v)", hardware, Hardware())
	}
	return l, nil
}

// Hardware lists the known hardware classes.
func Hardware() (ret []string) {
	for k := range hardwareLimits {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// CheckLimits reports the first of frequency, bandwidth and sample rate that
// falls outside l.
func CheckLimits(l Limits, f Hertz, bw Hertz, sr SampleRate) error {
	if !l.Frequency.Contains(float64(f)) {
		return fmt.Errorf("frequency %v invalid: %w", f, ErrFrequencyOutOfRange)
	}
	if !l.Bandwidth.Contains(float64(bw)) {
		return fmt.Errorf("bandwidth %v invalid: %w", bw, ErrBandwidthOutOfRange)
	}
	if !l.SampleRate.Contains(float64(sr)) {
		return fmt.Errorf("sample rate %v invalid: %w", sr, ErrRateOutOfRange)
	}
	return nil
}
