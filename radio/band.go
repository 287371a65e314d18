package radio

// HzBand is the span of spectrum covered by a tuned receiver.
type HzBand struct {
	Center Hertz `json:"center_hz"`
	Width  Hertz `json:"width_hz"`
}

// BinHz is the frequency of bin i of an fft-shifted spectrum; bin bins/2 is the center.
func (hzb HzBand) BinHz(i, bins int) Hertz {
	return hzb.Center + Hertz(float64(hzb.Width)*float64(i-bins/2)/float64(bins))
}
