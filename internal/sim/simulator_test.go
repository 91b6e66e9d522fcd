package sim_test

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cisim/internal/methods"
	"github.com/san-kum/cisim/internal/sim"
)

// spyMethod counts how far a run got before failing.
type spyMethod struct {
	inner     sim.Method
	binds     int
	estimates int
}

func (s *spyMethod) Name() string { return "spy" }

func (s *spyMethod) Bind(p sim.Params) (sim.Estimator, error) {
	s.binds++
	est, err := s.inner.Bind(p)
	if err != nil {
		return nil, err
	}
	return &spyEstimator{parent: s, inner: est}, nil
}

type spyEstimator struct {
	parent *spyMethod
	inner  sim.Estimator
}

func (e *spyEstimator) Estimate(sample []float64) (float64, float64, error) {
	e.parent.estimates++
	return e.inner.Estimate(sample)
}

type failingMethod struct{}

func (failingMethod) Name() string { return "failing" }
func (failingMethod) Bind(sim.Params) (sim.Estimator, error) {
	return failingEstimator{}, nil
}

type failingEstimator struct{}

func (failingEstimator) Estimate([]float64) (float64, float64, error) {
	return 0, 0, errors.New("boom")
}

// overlapMethod records the largest number of estimates in flight at once.
type overlapMethod struct {
	inner    sim.Method
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (o *overlapMethod) Name() string { return "overlap" }

func (o *overlapMethod) Bind(p sim.Params) (sim.Estimator, error) {
	est, err := o.inner.Bind(p)
	if err != nil {
		return nil, err
	}
	return &overlapEstimator{parent: o, inner: est}, nil
}

type overlapEstimator struct {
	parent *overlapMethod
	inner  sim.Estimator
}

func (e *overlapEstimator) Estimate(sample []float64) (float64, float64, error) {
	n := e.parent.inFlight.Add(1)
	defer e.parent.inFlight.Add(-1)
	for {
		peak := e.parent.peak.Load()
		if n <= peak || e.parent.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return e.inner.Estimate(sample)
}

type countingMetric struct {
	seen int
}

func (c *countingMetric) Name() string               { return "seen" }
func (c *countingMetric) Observe(sim.IntervalResult) { c.seen++ }
func (c *countingMetric) Value() float64             { return float64(c.seen) }
func (c *countingMetric) Reset()                     { c.seen = 0 }

func classroom() sim.Params {
	return sim.Params{
		SampleSize:      10,
		PopulationMean:  50,
		PopulationStd:   15,
		NumSimulations:  100,
		ConfidenceLevel: 0.95,
	}
}

func meanWidth(out *sim.Outcome) float64 {
	total := 0.0
	for _, r := range out.Results {
		total += r.Width()
	}
	return total / float64(len(out.Results))
}

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		s   *sim.Simulator
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = sim.New(methods.NewZSigma())
	})

	Describe("Run", func() {
		It("produces one ordered interval per simulation", func() {
			out, err := s.Run(ctx, classroom(), 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results).To(HaveLen(100))
			Expect(out.Method).To(Equal("z-sigma"))
			Expect(out.Seed).To(Equal(int64(42)))

			for _, r := range out.Results {
				Expect(r.Lower).To(BeNumerically("<=", r.Upper))
				Expect(r.SampleMean).To(BeNumerically(">=", r.Lower))
				Expect(r.SampleMean).To(BeNumerically("<=", r.Upper))
			}
		})

		It("keeps capture count and rate consistent with the results", func() {
			out, err := s.Run(ctx, classroom(), 7)
			Expect(err).NotTo(HaveOccurred())

			captured := 0
			for _, r := range out.Results {
				Expect(r.Captured).To(Equal(r.Contains(50)))
				if r.Captured {
					captured++
				}
			}
			Expect(out.CaptureCount).To(Equal(captured))
			Expect(out.CaptureRate).To(Equal(float64(captured) / 100))
			Expect(out.CaptureRate).To(BeNumerically(">=", 0))
			Expect(out.CaptureRate).To(BeNumerically("<=", 1))
		})

		It("matches the classroom scenario", func() {
			out, err := s.Run(ctx, classroom(), 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Critical).To(BeNumerically("~", 1.959964, 1e-6))
			Expect(out.StdErr).To(BeNumerically("~", 4.7434, 1e-4))
			Expect(out.CaptureRate).To(BeNumerically(">=", 0.85))
			Expect(out.CaptureRate).To(BeNumerically("<=", 1.0))

			for _, r := range out.Results {
				Expect(r.Width()).To(BeNumerically("~", 2*out.Critical*out.StdErr, 1e-9))
			}
		})

		It("is bit-identical for the same seed", func() {
			a, err := s.Run(ctx, classroom(), 1234)
			Expect(err).NotTo(HaveOccurred())
			b, err := s.Run(ctx, classroom(), 1234)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Results).To(Equal(a.Results))
			Expect(b.CaptureCount).To(Equal(a.CaptureCount))
		})

		It("differs for different seeds", func() {
			a, err := s.Run(ctx, classroom(), 1)
			Expect(err).NotTo(HaveOccurred())
			b, err := s.Run(ctx, classroom(), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Results).NotTo(Equal(a.Results))
		})

		It("widens intervals as confidence grows", func() {
			low := classroom()
			low.ConfidenceLevel = 0.90
			high := classroom()
			high.ConfidenceLevel = 0.99

			a, err := s.Run(ctx, low, 42)
			Expect(err).NotTo(HaveOccurred())
			b, err := s.Run(ctx, high, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(meanWidth(b)).To(BeNumerically(">", meanWidth(a)))
		})

		It("accepts the minimum sample size", func() {
			p := classroom()
			p.SampleSize = 2
			out, err := s.Run(ctx, p, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsInf(out.StdErr, 0) || math.IsNaN(out.StdErr)).To(BeFalse())
			Expect(out.StdErr).To(BeNumerically("~", 15/math.Sqrt2, 1e-9))
		})

		It("runs a single simulation", func() {
			p := classroom()
			p.NumSimulations = 1
			out, err := s.Run(ctx, p, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results).To(HaveLen(1))
			Expect(out.CaptureRate).To(Or(Equal(0.0), Equal(1.0)))
		})

		It("feeds every result to attached metrics", func() {
			m := &countingMetric{}
			s.AddMetric(m)

			out, err := s.Run(ctx, classroom(), 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Metrics).To(HaveKeyWithValue("seen", 100.0))

			_, err = s.Run(ctx, classroom(), 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.seen).To(Equal(100))
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			out, err := s.Run(cctx, classroom(), 42)
			Expect(err).To(MatchError(context.Canceled))
			Expect(out).To(BeNil())
		})

		It("reports estimator failures with the trial index", func() {
			_, err := sim.New(failingMethod{}).Run(ctx, classroom(), 42)
			var te *sim.TrialError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Trial).To(Equal(0))
		})

		It("refuses to run without a method", func() {
			_, err := sim.New(nil).Run(ctx, classroom(), 42)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("parameter validation", func() {
		DescribeTable("rejects bad input before drawing any sample",
			func(mutate func(*sim.Params), field string) {
				p := classroom()
				mutate(&p)
				spy := &spyMethod{inner: methods.NewZSigma()}

				out, err := sim.New(spy).Run(ctx, p, 42)
				Expect(out).To(BeNil())
				Expect(errors.Is(err, sim.ErrInvalidParameter)).To(BeTrue())

				var pe *sim.ParamError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Field).To(Equal(field))
				Expect(spy.binds).To(Equal(0))
				Expect(spy.estimates).To(Equal(0))
			},
			Entry("zero std", func(p *sim.Params) { p.PopulationStd = 0 }, "population_std"),
			Entry("negative std", func(p *sim.Params) { p.PopulationStd = -1 }, "population_std"),
			Entry("NaN std", func(p *sim.Params) { p.PopulationStd = math.NaN() }, "population_std"),
			Entry("sample size 1", func(p *sim.Params) { p.SampleSize = 1 }, "sample_size"),
			Entry("zero simulations", func(p *sim.Params) { p.NumSimulations = 0 }, "num_simulations"),
			Entry("confidence 0", func(p *sim.Params) { p.ConfidenceLevel = 0 }, "confidence_level"),
			Entry("confidence 1", func(p *sim.Params) { p.ConfidenceLevel = 1 }, "confidence_level"),
			Entry("confidence as percent", func(p *sim.Params) { p.ConfidenceLevel = 95 }, "confidence_level"),
			Entry("infinite mean", func(p *sim.Params) { p.PopulationMean = math.Inf(1) }, "population_mean"),
		)
	})

	Describe("RunParallel", func() {
		It("matches the sequential run for the same seed", func() {
			seq, err := s.Run(ctx, classroom(), 99)
			Expect(err).NotTo(HaveOccurred())

			for _, workers := range []int{0, 1, 3, 16} {
				par, err := sim.New(methods.NewZSigma()).RunParallel(ctx, classroom(), 99, workers)
				Expect(err).NotTo(HaveOccurred())
				Expect(par.Results).To(Equal(seq.Results))
				Expect(par.CaptureCount).To(Equal(seq.CaptureCount))
			}
		})

		It("validates before scheduling work", func() {
			p := classroom()
			p.SampleSize = 0
			_, err := s.RunParallel(ctx, p, 1, 4)
			Expect(errors.Is(err, sim.ErrInvalidParameter)).To(BeTrue())
		})

		It("propagates trial errors", func() {
			_, err := sim.New(failingMethod{}).RunParallel(ctx, classroom(), 1, 4)
			var te *sim.TrialError
			Expect(errors.As(err, &te)).To(BeTrue())
		})
	})

	Describe("RunWorkers", func() {
		It("matches the sequential run for every worker count", func() {
			seq, err := s.Run(ctx, classroom(), 7)
			Expect(err).NotTo(HaveOccurred())

			for _, workers := range []int{-1, 0, 1, 4} {
				out, err := sim.New(methods.NewZSigma()).RunWorkers(ctx, classroom(), 7, workers)
				Expect(err).NotTo(HaveOccurred())
				Expect(out.Results).To(Equal(seq.Results))
			}
		})

		It("runs one trial at a time with a single worker", func() {
			m := &overlapMethod{inner: methods.NewZSigma()}
			p := classroom()
			p.NumSimulations = 20
			_, err := sim.New(m).RunWorkers(ctx, p, 1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.peak.Load()).To(BeEquivalentTo(1))
		})

		It("uses every cpu when workers is zero", func() {
			if runtime.GOMAXPROCS(0) < 2 {
				Skip("needs GOMAXPROCS >= 2")
			}
			m := &overlapMethod{inner: methods.NewZSigma()}
			p := classroom()
			p.NumSimulations = 20
			_, err := sim.New(m).RunWorkers(ctx, p, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.peak.Load()).To(BeNumerically(">", 1))
		})
	})
})
