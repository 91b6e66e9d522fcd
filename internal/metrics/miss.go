package metrics

import "github.com/san-kum/cisim/internal/sim"

// Side selects which kind of miss a Miss metric counts.
type Side int

const (
	// Above counts intervals lying entirely above the true mean.
	Above Side = iota
	// Below counts intervals lying entirely below the true mean.
	Below
)

// Miss counts intervals that missed the true mean on one side.
type Miss struct {
	name   string
	side   Side
	target float64
	count  int
}

func NewMiss(side Side, populationMean float64) *Miss {
	name := "miss_above"
	if side == Below {
		name = "miss_below"
	}
	return &Miss{name: name, side: side, target: populationMean}
}

func (m *Miss) Name() string {
	return m.name
}

func (m *Miss) Observe(r sim.IntervalResult) {
	if r.Captured {
		return
	}
	switch m.side {
	case Above:
		if r.Lower > m.target {
			m.count++
		}
	case Below:
		if r.Upper < m.target {
			m.count++
		}
	}
}

func (m *Miss) Value() float64 {
	return float64(m.count)
}

func (m *Miss) Reset() {
	m.count = 0
}
