package spectrum

import (
	"math"
	"sort"

	"github.com/chzchzchz/bladerf-power/dsp"
	"github.com/chzchzchz/bladerf-power/radio"
)

// SpectralPower accumulates per-bin dBFS statistics over a run of frames. Bins
// are stored fft-shifted so index 0 is the lowest frequency.
type SpectralPower struct {
	band   radio.HzBand
	max    []float64
	sum    []float64
	avg    []float64
	sorted []float64
	frames int
}

func NewSpectralPower(band radio.HzBand, bins int) *SpectralPower {
	return &SpectralPower{
		band:   band,
		max:    make([]float64, bins),
		sum:    make([]float64, bins),
		avg:    make([]float64, bins),
		sorted: make([]float64, bins),
	}
}

func (sp *SpectralPower) Bins() int   { return len(sp.sum) }
func (sp *SpectralPower) Frames() int { return sp.frames }

// Add folds one transformed frame into the statistics.
func (sp *SpectralPower) Add(frame []complex128) {
	bins := len(sp.sum)
	scale := 1.0 / float64(bins)
	for i, v := range frame[:bins] {
		idx := i + bins/2
		if i >= bins-bins/2 {
			idx = i - (bins - bins/2)
		}
		db := dsp.DB(v * complex(scale, 0))
		sp.sum[idx] += db
		if sp.frames == 0 || db > sp.max[idx] {
			sp.max[idx] = db
		}
	}
	sp.frames++
}

func (sp *SpectralPower) Reset() {
	sp.frames = 0
	for i := range sp.sum {
		sp.sum[i] = 0
	}
}

// Average is the mean dB per bin. The slice is reused by later calls.
func (sp *SpectralPower) Average() []float64 {
	for i, v := range sp.sum {
		sp.avg[i] = v / float64(max(sp.frames, 1))
	}
	return sp.avg
}

// Max is the max-hold level per bin since the last Reset.
func (sp *SpectralPower) Max() []float64 { return sp.max }

// NoiseFloor is the median of the averaged bins.
func (sp *SpectralPower) NoiseFloor() float64 {
	copy(sp.sorted, sp.Average())
	sort.Float64s(sp.sorted)
	return sp.sorted[len(sp.sorted)/2]
}

// Peak returns the frequency and level of the strongest averaged bin.
func (sp *SpectralPower) Peak() (radio.Hertz, float64) {
	best, db := 0, math.Inf(-1)
	for i, v := range sp.Average() {
		if v > db {
			best, db = i, v
		}
	}
	return sp.band.BinHz(best, len(sp.avg)), db
}

// MaxHold returns the frequency and level of the strongest max-hold bin.
func (sp *SpectralPower) MaxHold() (radio.Hertz, float64) {
	best, db := 0, math.Inf(-1)
	for i, v := range sp.max {
		if v > db {
			best, db = i, v
		}
	}
	return sp.band.BinHz(best, len(sp.max)), db
}
