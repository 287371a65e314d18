package radio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hertz is a frequency. As a flag it accepts <num>[H|K|M|G], case insensitive.
type Hertz float64

func (h Hertz) String() string { return formatUnits(float64(h), "Hz") }
func (h *Hertz) Type() string  { return "hertz" }
func (h *Hertz) Set(s string) error {
	v, err := parseUnits(s, "hz")
	if err != nil {
		return err
	}
	*h = Hertz(v)
	return nil
}

// SampleRate is in samples per second and parses like Hertz.
type SampleRate float64

func (sr SampleRate) String() string { return formatUnits(float64(sr), "sps") }
func (sr *SampleRate) Type() string  { return "sps" }
func (sr *SampleRate) Set(s string) error {
	v, err := parseUnits(s, "sps")
	if err != nil {
		return err
	}
	*sr = SampleRate(v)
	return nil
}

// unitExponents are appended to the mantissa so "520.834k" parses as the
// decimal 520.834e3 and rounds once.
var unitExponents = map[byte]string{'h': "e0", 'k': "e3", 'm': "e6", 'g': "e9"}

func parseUnits(s, unit string) (float64, error) {
	num := strings.ToLower(strings.TrimSpace(s))
	num = strings.TrimSuffix(num, unit)
	exp := ""
	if n := len(num); n > 0 {
		if e, ok := unitExponents[num[n-1]]; ok {
			exp, num = e, num[:n-1]
		}
	}
	if exp != "" && strings.ContainsAny(num, "ex") {
		return 0, fmt.Errorf("bad quantity %q: exponent with unit suffix", s)
	}
	v, err := strconv.ParseFloat(num+exp, 64)
	if err != nil || num == "" {
		return 0, fmt.Errorf("bad quantity %q", s)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bad quantity %q", s)
	}
	return v, nil
}

func formatUnits(v float64, unit string) string {
	prefix := ""
	switch {
	case v >= 1e9:
		v, prefix = v/1e9, "G"
	case v >= 1e6:
		v, prefix = v/1e6, "M"
	case v >= 1e3:
		v, prefix = v/1e3, "k"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + prefix + unit
}
