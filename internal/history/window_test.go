package history_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/history"
)

// filled returns a (p, k, d) segment with every value set to v.
func filled(p, k, d int, v float64) dynamo.Segment {
	seg := dynamo.NewSegment(p, k, d)
	for i := range seg.Data {
		seg.Data[i] = v
	}
	return seg
}

// numbered returns a (p, k, d) segment where step s of particle p holds
// start+s in every component, offset by 1000*p.
func numbered(p, k, d, start int) dynamo.Segment {
	seg := dynamo.NewSegment(p, k, d)
	for i := 0; i < p; i++ {
		for s := 0; s < k; s++ {
			for j := range seg.Point(i, s) {
				seg.Point(i, s)[j] = float64(1000*i + start + s)
			}
		}
	}
	return seg
}

var _ = Describe("Window", func() {
	var w *history.Window

	BeforeEach(func() {
		var err error
		w, err = history.New(4, 10, 3)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts zero-filled with the configured shape", func() {
		view := w.Get()
		Expect(view.P).To(Equal(4))
		Expect(view.S).To(Equal(10))
		Expect(view.D).To(Equal(3))
		Expect(view.Data).To(HaveEach(0.0))
		Expect(w.Filled()).To(Equal(0))
	})

	It("keeps a width-1 then width-2 append at the tail", func() {
		Expect(w.Append(filled(4, 1, 3, 1))).To(Succeed())
		Expect(w.Append(filled(4, 2, 3, 2))).To(Succeed())

		view := w.Get()
		for p := 0; p < 4; p++ {
			for s := 0; s < 7; s++ {
				Expect(view.Point(p, s)).To(HaveEach(0.0), "particle %d step %d", p, s)
			}
			Expect(view.Point(p, 7)).To(HaveEach(1.0))
			Expect(view.Point(p, 8)).To(HaveEach(2.0))
			Expect(view.Point(p, 9)).To(HaveEach(2.0))
		}
		Expect(w.Filled()).To(Equal(3))
		Expect(w.Total()).To(Equal(3))
	})

	It("treats an empty segment as a no-op", func() {
		Expect(w.Append(numbered(4, 3, 3, 1))).To(Succeed())
		before := w.Snapshot()

		Expect(w.Append(dynamo.NewSegment(4, 0, 3))).To(Succeed())
		Expect(w.Get().Data).To(Equal(before.Data))
		Expect(w.Total()).To(Equal(3))
	})

	It("keeps only the newest W steps when k equals W", func() {
		Expect(w.Append(numbered(4, 10, 3, 5))).To(Succeed())
		Expect(w.Get().At(0, 0, 0)).To(Equal(5.0))
		Expect(w.Get().At(3, 9, 2)).To(Equal(3014.0))
	})

	It("keeps only the newest W steps when k exceeds W", func() {
		Expect(w.Append(numbered(4, 25, 3, 0))).To(Succeed())

		view := w.Get()
		for p := 0; p < 4; p++ {
			for s := 0; s < 10; s++ {
				Expect(view.At(p, s, 1)).To(Equal(float64(1000*p + 15 + s)))
			}
		}
		Expect(w.Filled()).To(Equal(10))
		Expect(w.Total()).To(Equal(25))
	})

	It("always holds the most recent W steps for mixed append widths", func() {
		widths := []int{1, 3, 10, 2, 17, 9, 1, 1, 4, 11, 6}
		next := 0
		for _, k := range widths {
			Expect(w.Append(numbered(4, k, 3, next))).To(Succeed())
			next += k

			view := w.Get()
			for s := 0; s < 10; s++ {
				want := next - 10 + s
				if want < 0 {
					Expect(view.Point(2, s)).To(HaveEach(0.0))
					continue
				}
				Expect(view.At(2, s, 0)).To(Equal(float64(2000+want)), "after width %d, slot %d", k, s)
			}
		}
	})

	It("rejects segments of another particle count or dimension", func() {
		Expect(w.Append(filled(3, 2, 3, 1))).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(w.Append(filled(4, 2, 2, 1))).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(w.Get().Data).To(HaveEach(0.0))
	})

	It("returns an independent snapshot", func() {
		Expect(w.Append(filled(4, 1, 3, 1))).To(Succeed())
		snap := w.Snapshot()
		Expect(w.Append(filled(4, 1, 3, 2))).To(Succeed())
		Expect(snap.At(0, 9, 0)).To(Equal(1.0))
		Expect(w.Get().At(0, 9, 0)).To(Equal(2.0))
	})

	It("exposes the newest step and resets", func() {
		Expect(w.Append(numbered(4, 2, 3, 7))).To(Succeed())
		latest := w.Latest()
		Expect(latest.Row(1)).To(HaveEach(1008.0))

		w.Reset()
		Expect(w.Get().Data).To(HaveEach(0.0))
		Expect(w.Filled()).To(Equal(0))
	})

	DescribeTable("rejects invalid shapes",
		func(p, capacity, d int, want error) {
			_, err := history.New(p, capacity, d)
			Expect(err).To(MatchError(want))
		},
		Entry("no particles", 0, 10, 3, dynamo.ErrInvalidParticles),
		Entry("zero capacity", 4, 0, 3, dynamo.ErrInvalidCapacity),
		Entry("negative capacity", 4, -2, 3, dynamo.ErrInvalidCapacity),
		Entry("zero dimension", 4, 10, 0, dynamo.ErrDimensionMismatch),
	)
})
