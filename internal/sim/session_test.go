package sim_test

import (
	"bytes"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

func newIntegrator() *integrators.Integrator {
	return integrators.New(physics.NewLorenz(), integrators.NewEuler())
}

// countingField wraps a field and records how often it is evaluated.
type countingField struct {
	dynamo.Field
	calls int
}

func (c *countingField) Derive(dst, x dynamo.Batch) {
	c.calls++
	c.Field.Derive(dst, x)
}

var _ = Describe("Session", func() {
	const dt = 0.01

	It("holds steps 2..6 of a 7-step integration after advancing 3 then 3 with W=5", func() {
		x0 := lorenzStart()
		s, err := sim.NewSession(newIntegrator(), x0, sim.Config{Dt: dt, Capacity: 5})
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Advance(3)
		Expect(err).NotTo(HaveOccurred())
		view, err := s.Advance(3)
		Expect(err).NotTo(HaveOccurred())

		ref, err := newIntegrator().Integrate(x0, 7, dt)
		Expect(err).NotTo(HaveOccurred())
		Expect(view.S).To(Equal(5))
		Expect(view.Data).To(Equal(ref.Slice(2, 7).Data))
		Expect(s.Steps()).To(Equal(6))
		Expect(s.Time()).To(BeNumerically("~", 0.06, 1e-12))
	})

	It("leaves unfilled slots at zero before the window is full", func() {
		s, err := sim.NewSession(newIntegrator(), lorenzStart(), sim.Config{Dt: dt, Capacity: 8})
		Expect(err).NotTo(HaveOccurred())

		view, err := s.Advance(3)
		Expect(err).NotTo(HaveOccurred())
		for p := 0; p < view.P; p++ {
			for st := 0; st < 5; st++ {
				Expect(view.Point(p, st)).To(HaveEach(0.0))
			}
		}
		Expect(s.Window().Filled()).To(Equal(3))
	})

	It("warms up through the integrator and pre-fills the window", func() {
		x0 := lorenzStart()
		s, err := sim.NewSession(newIntegrator(), x0, sim.Config{Dt: dt, Capacity: 4, Warmup: 20})
		Expect(err).NotTo(HaveOccurred())

		ref, err := newIntegrator().Integrate(x0, 25, dt)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Window().Get().Data).To(Equal(ref.Slice(21, 25).Data))
		Expect(s.Window().Filled()).To(Equal(4))
		Expect(s.State().Data).To(Equal(ref.Step(24).Data))
		Expect(s.Steps()).To(Equal(4))

		view, err := s.Advance(2)
		Expect(err).NotTo(HaveOccurred())
		ref, err = newIntegrator().Integrate(x0, 27, dt)
		Expect(err).NotTo(HaveOccurred())
		Expect(view.Data).To(Equal(ref.Slice(23, 27).Data))
	})

	It("notifies observers with the new segment and the window", func() {
		var calls int
		var lastK, lastW int
		obs := sim.ObserverFunc(func(s *sim.Session, seg, window dynamo.Segment, elapsed time.Duration) {
			calls++
			lastK, lastW = seg.S, window.S
			Expect(elapsed).To(BeNumerically(">=", 0))
		})

		s, err := sim.NewSession(newIntegrator(), lorenzStart(), sim.Config{Dt: dt, Capacity: 6}, sim.WithObserver(obs))
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Advance(2)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Advance(9)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(2))
		Expect(lastK).To(Equal(9))
		Expect(lastW).To(Equal(6))
	})

	It("rejects advance by zero and keeps the window intact", func() {
		s, err := sim.NewSession(newIntegrator(), lorenzStart(), sim.Config{Dt: dt, Capacity: 3})
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Advance(2)
		Expect(err).NotTo(HaveOccurred())
		before := s.Window().Snapshot()

		_, err = s.Advance(0)
		Expect(err).To(MatchError(dynamo.ErrInvalidSteps))
		Expect(s.Window().Get().Data).To(Equal(before.Data))
		Expect(s.Steps()).To(Equal(2))
	})

	It("lets several sessions share one field", func() {
		field := physics.NewThomas()
		x0 := lorenzStart()
		a, err := sim.NewSession(integrators.New(field, integrators.NewEuler()), x0, sim.Config{Dt: dt, Capacity: 4})
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.NewSession(integrators.New(field, integrators.NewEuler()), x0, sim.Config{Dt: dt, Capacity: 4})
		Expect(err).NotTo(HaveOccurred())

		wa, err := a.Advance(7)
		Expect(err).NotTo(HaveOccurred())
		wb, err := b.Advance(7)
		Expect(err).NotTo(HaveOccurred())
		Expect(wa.Data).To(Equal(wb.Data))
		Expect(a.ID()).NotTo(Equal(b.ID()))
		Expect(a.Name()).To(Equal("thomas"))
	})

	It("logs warm-up at debug level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := sim.NewSession(newIntegrator(), lorenzStart(), sim.Config{Dt: dt, Capacity: 2, Warmup: 5}, sim.WithLogger(logger), sim.WithName("lorenz-test"))
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("warm-up complete"))
		Expect(buf.String()).To(ContainSubstring("field=lorenz-test"))
	})

	DescribeTable("fails fast on invalid configuration",
		func(cfg sim.Config, want error) {
			_, err := sim.NewSession(newIntegrator(), lorenzStart(), cfg)
			Expect(err).To(MatchError(want))
		},
		Entry("zero dt", sim.Config{Dt: 0, Capacity: 5}, dynamo.ErrInvalidTimestep),
		Entry("zero capacity", sim.Config{Dt: dt, Capacity: 0}, dynamo.ErrInvalidCapacity),
		Entry("negative warm-up", sim.Config{Dt: dt, Capacity: 5, Warmup: -1}, dynamo.ErrInvalidSteps),
		Entry("zero dt with warm-up", sim.Config{Dt: 0, Capacity: 5, Warmup: 3}, dynamo.ErrInvalidTimestep),
		Entry("zero capacity with warm-up", sim.Config{Dt: dt, Capacity: 0, Warmup: 1000}, dynamo.ErrInvalidCapacity),
	)

	It("rejects a bad capacity before running the warm-up", func() {
		field := &countingField{Field: physics.NewLorenz()}
		_, err := sim.NewSession(integrators.New(field, integrators.NewEuler()), lorenzStart(), sim.Config{Dt: dt, Capacity: 0, Warmup: 1000})
		Expect(err).To(MatchError(dynamo.ErrInvalidCapacity))
		Expect(field.calls).To(BeZero())
	})
})
