// Package fftw plans transforms with FFTW3. It links against libfftw3.
package fftw

import (
	"fmt"

	"github.com/runningwild/go-fftw/fftw"
)

// Plan is an in-place FFTW plan over its own array.
type Plan struct {
	arr  *fftw.Array
	plan *fftw.Plan
}

// NewPlan estimates a forward plan rather than measuring one so planning does
// not stall startup.
func NewPlan(bins int) *Plan {
	arr := fftw.NewArray(bins)
	return &Plan{arr: arr, plan: fftw.NewPlan(arr, arr, fftw.Forward, fftw.Estimate)}
}

func (p *Plan) Len() int { return len(p.arr.Elems) }

func (p *Plan) Execute(buf []complex128) {
	if len(buf) != len(p.arr.Elems) {
		panic(fmt.Sprintf("fft of %d samples on a %d bin plan", len(buf), len(p.arr.Elems)))
	}
	copy(p.arr.Elems, buf)
	p.plan.Execute()
	copy(buf, p.arr.Elems)
}

func (p *Plan) Destroy() { p.plan.Destroy() }
