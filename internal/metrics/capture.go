package metrics

import "github.com/san-kum/cisim/internal/sim"

// CaptureRate is the fraction of intervals that contained the true mean.
type CaptureRate struct {
	name     string
	captured int
	samples  int
}

func NewCaptureRate() *CaptureRate {
	return &CaptureRate{name: "capture_rate"}
}

func (c *CaptureRate) Name() string {
	return c.name
}

func (c *CaptureRate) Observe(r sim.IntervalResult) {
	c.samples++
	if r.Captured {
		c.captured++
	}
}

func (c *CaptureRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.captured) / float64(c.samples)
}

func (c *CaptureRate) Reset() {
	c.captured = 0
	c.samples = 0
}
