package sim

import "sync"

// SamplePool recycles sample buffers of a fixed length.
type SamplePool struct {
	pool sync.Pool
	size int
}

func NewSamplePool(sampleSize int) *SamplePool {
	return &SamplePool{
		size: sampleSize,
		pool: sync.Pool{
			New: func() any {
				return make([]float64, sampleSize)
			},
		},
	}
}

func (p *SamplePool) Size() int { return p.size }

func (p *SamplePool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put zeroes s and returns it to the pool. Buffers of the wrong length are
// dropped.
func (p *SamplePool) Put(s []float64) {
	if len(s) != p.size {
		return
	}
	clear(s)
	p.pool.Put(s)
}
