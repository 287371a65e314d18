package spectrum

import (
	"github.com/golang/glog"

	"github.com/chzchzchz/bladerf-power/radio"
)

// Reporter logs the strongest averaged and max-hold bins and the noise floor
// once per window of frames.
type Reporter struct {
	sp     *SpectralPower
	window int
}

func NewReporter(band radio.HzBand, bins, window int) *Reporter {
	return &Reporter{sp: NewSpectralPower(band, bins), window: window}
}

func (r *Reporter) Frame(frame []complex128) {
	r.sp.Add(frame)
	if r.sp.Frames() < r.window {
		return
	}
	hz, db := r.sp.Peak()
	holdHz, holdDB := r.sp.MaxHold()
	glog.Infof("peak %.1f dBFS at %v, max hold %.1f dBFS at %v, noise floor %.1f dBFS over %d frames",
		db, hz, holdDB, holdHz, r.sp.NoiseFloor(), r.sp.Frames())
	r.sp.Reset()
}
