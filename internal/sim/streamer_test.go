package sim_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

func lorenzStart() dynamo.Batch {
	b, err := dynamo.BatchFrom([][]float64{
		{1, 1, 1},
		{-5, 3, 20},
		{0.1, -0.2, 15},
	})
	Expect(err).NotTo(HaveOccurred())
	return b
}

// concat joins segments along the step axis.
func concat(segs ...dynamo.Segment) dynamo.Segment {
	total := 0
	for _, s := range segs {
		total += s.S
	}
	out := dynamo.NewSegment(segs[0].P, total, segs[0].D)
	offset := 0
	for _, s := range segs {
		for p := 0; p < s.P; p++ {
			copy(out.Trail(p)[offset*s.D:], s.Trail(p))
		}
		offset += s.S
	}
	return out
}

var _ = Describe("Streamer", func() {
	const dt = 0.005

	var (
		integ *integrators.Integrator
		x0    dynamo.Batch
	)

	BeforeEach(func() {
		integ = integrators.New(physics.NewLorenz(), integrators.NewEuler())
		x0 = lorenzStart()
	})

	It("returns k steps strictly after the held state", func() {
		s, err := sim.NewStreamer(integ, x0, dt)
		Expect(err).NotTo(HaveOccurred())

		seg, err := s.Advance(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(seg.S).To(Equal(4))

		ref, err := integrators.New(physics.NewLorenz(), integrators.NewEuler()).Integrate(x0, 5, dt)
		Expect(err).NotTo(HaveOccurred())
		Expect(seg.Data).To(Equal(ref.Slice(1, 5).Data))
		Expect(s.State().Data).To(Equal(ref.Step(4).Data))
	})

	It("allocates nothing beyond the returned segment", func() {
		s, err := sim.NewStreamer(integ, x0, dt)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Advance(16)
		Expect(err).NotTo(HaveOccurred())

		allocs := testing.AllocsPerRun(10, func() {
			_, _ = s.Advance(16)
		})
		Expect(allocs).To(BeNumerically("<=", 1))
	})

	DescribeTable("advancing in pieces equals one integration",
		func(stepper func() integrators.Stepper, widths ...int) {
			s, err := sim.NewStreamer(integrators.New(physics.NewLorenz(), stepper()), x0, dt)
			Expect(err).NotTo(HaveOccurred())

			total := 0
			segs := make([]dynamo.Segment, 0, len(widths))
			for _, k := range widths {
				seg, err := s.Advance(k)
				Expect(err).NotTo(HaveOccurred())
				segs = append(segs, seg)
				total += k
			}

			ref, err := integrators.New(physics.NewLorenz(), stepper()).Integrate(x0, total+1, dt)
			Expect(err).NotTo(HaveOccurred())
			Expect(concat(segs...).Data).To(Equal(ref.Slice(1, total+1).Data))
		},
		Entry("euler 3+5", func() integrators.Stepper { return integrators.NewEuler() }, 3, 5),
		Entry("euler 1+1+1+1", func() integrators.Stepper { return integrators.NewEuler() }, 1, 1, 1, 1),
		Entry("euler 50+7+13", func() integrators.Stepper { return integrators.NewEuler() }, 50, 7, 13),
		Entry("rk4 2+9", func() integrators.Stepper { return integrators.NewRK4() }, 2, 9),
	)

	It("rejects non-positive step counts without moving", func() {
		s, err := sim.NewStreamer(integ, x0, dt)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Advance(0)
		Expect(err).To(MatchError(dynamo.ErrInvalidSteps))
		_, err = s.Advance(-2)
		Expect(err).To(MatchError(dynamo.ErrInvalidSteps))
		Expect(s.State().Data).To(Equal(x0.Data))
	})

	It("does not alias the caller's initial batch", func() {
		s, err := sim.NewStreamer(integ, x0, dt)
		Expect(err).NotTo(HaveOccurred())
		x0.Data[0] = 1e9
		Expect(s.State().At(0, 0)).To(Equal(1.0))
	})

	It("resets to a batch of the same shape only", func() {
		s, err := sim.NewStreamer(integ, x0, dt)
		Expect(err).NotTo(HaveOccurred())

		other := lorenzStart()
		other.Data[0] = 42
		Expect(s.Reset(other)).To(Succeed())
		Expect(s.State().At(0, 0)).To(Equal(42.0))

		Expect(s.Reset(dynamo.NewBatch(1, 3))).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	DescribeTable("rejects invalid construction",
		func(x dynamo.Batch, dt float64, want error) {
			_, err := sim.NewStreamer(integ, x, dt)
			Expect(err).To(MatchError(want))
		},
		Entry("zero dt", dynamo.NewBatch(2, 3), 0.0, dynamo.ErrInvalidTimestep),
		Entry("negative dt", dynamo.NewBatch(2, 3), -1.0, dynamo.ErrInvalidTimestep),
		Entry("wrong dimension", dynamo.NewBatch(2, 2), 0.01, dynamo.ErrDimensionMismatch),
		Entry("no particles", dynamo.NewBatch(0, 3), 0.01, dynamo.ErrInvalidParticles),
	)
})
