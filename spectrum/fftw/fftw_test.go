package fftw

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/chzchzchz/bladerf-power/spectrum"
)

func TestPlanMatchesGonum(t *testing.T) {
	bins := 1024
	p := NewPlan(bins)
	defer p.Destroy()
	g := spectrum.NewGonumPlan(bins)

	rng := rand.New(rand.NewSource(1))
	a := make([]complex128, bins)
	for i := range a {
		a[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	b := append([]complex128(nil), a...)
	for i := 0; i < 3; i++ {
		p.Execute(a)
		g.Execute(b)
		for j := range a {
			if cmplx.Abs(a[j]-b[j]) > 1e-6*cmplx.Abs(b[j])+1e-9 {
				t.Fatalf("pass %d bin %d: fftw %v, gonum %v", i, j, a[j], b[j])
			}
		}
	}
}

func TestPlanLen(t *testing.T) {
	p := NewPlan(64)
	defer p.Destroy()
	var _ spectrum.Plan = p
	if p.Len() != 64 {
		t.Fatalf("len %d", p.Len())
	}
}
