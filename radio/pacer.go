package radio

import "time"

// pacer holds back replayed samples so they arrive no faster than the sample rate.
type pacer struct{ deadline time.Time }

func (p *pacer) wait(n int, rate SampleRate) {
	if rate <= 0 {
		return
	}
	now := time.Now()
	if p.deadline.Before(now) {
		p.deadline = now
	}
	p.deadline = p.deadline.Add(time.Duration(float64(n) / float64(rate) * float64(time.Second)))
	time.Sleep(time.Until(p.deadline))
}
