package dsp

import (
	"math"
)

// Power is the squared magnitude of an IQ sample.
func Power(c complex128) float64 {
	i, q := real(c), imag(c)
	return i*i + q*q
}

func Amplitude(c complex128) float64 { return math.Sqrt(Power(c)) }

// DB is 10*log10 of the sample power; a zero sample gives -Inf.
func DB(c complex128) float64 { return 10 * math.Log10(Power(c)) }
