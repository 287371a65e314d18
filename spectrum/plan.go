// Package spectrum plans forward FFTs and keeps running statistics over their output.
package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is a forward FFT of fixed length, prepared once and reused for every frame.
type Plan interface {
	Len() int
	// Execute transforms buf in place. len(buf) must equal Len().
	Execute(buf []complex128)
	Destroy()
}

// gonumPlan is a pure Go plan. The coefficients are computed into a scratch
// buffer owned by the plan and copied back.
type gonumPlan struct {
	fft     *fourier.CmplxFFT
	scratch []complex128
}

func NewGonumPlan(bins int) Plan {
	return &gonumPlan{fft: fourier.NewCmplxFFT(bins), scratch: make([]complex128, bins)}
}

func (p *gonumPlan) Len() int { return len(p.scratch) }

func (p *gonumPlan) Execute(buf []complex128) {
	if len(buf) != len(p.scratch) {
		panic(fmt.Sprintf("fft of %d samples on a %d bin plan", len(buf), len(p.scratch)))
	}
	copy(buf, p.fft.Coefficients(p.scratch, buf))
}

func (p *gonumPlan) Destroy() {}
