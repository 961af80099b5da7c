package aggregate_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/swarm"
)

var sweep = swarm.Sampling{Stride: 100, Count: 36}

func series(values ...float64) swarm.Series {
	return swarm.Series{Sampling: swarm.Sampling{Stride: 10, Count: len(values)}, Values: values}
}

var _ = Describe("Quantile", func() {
	It("interpolates linearly between closest ranks", func() {
		values := []float64{1, 2, 3, 4}
		Expect(aggregate.Quantile(values, 0.25)).To(BeNumerically("~", 1.75, 1e-12))
		Expect(aggregate.Quantile(values, 0.5)).To(BeNumerically("~", 2.5, 1e-12))
		Expect(aggregate.Quantile(values, 0.75)).To(BeNumerically("~", 3.25, 1e-12))
		Expect(aggregate.Quantile(values, 0)).To(Equal(1.0))
		Expect(aggregate.Quantile(values, 1)).To(Equal(4.0))
	})

	It("takes the middle element of odd-length input", func() {
		Expect(aggregate.Median([]float64{0.6, 0.2, 1.0})).To(Equal(0.6))
	})

	It("does not reorder its input", func() {
		values := []float64{0.9, 0.1, 0.5}
		aggregate.Median(values)
		Expect(values).To(Equal([]float64{0.9, 0.1, 0.5}))
	})

	It("returns NaN for empty input or q outside [0,1]", func() {
		Expect(math.IsNaN(aggregate.Quantile(nil, 0.5))).To(BeTrue())
		Expect(math.IsNaN(aggregate.Quantile([]float64{1}, 1.5))).To(BeTrue())
		Expect(math.IsNaN(aggregate.Quantile([]float64{1}, -0.1))).To(BeTrue())
	})
})

var _ = Describe("EnvelopeOf", func() {
	It("reproduces a series exactly when every run is identical", func() {
		x := []float64{0.04, 0.2, 0.36, 0.52, 1.0}
		runs := []swarm.Series{series(x...), series(x...), series(x...), series(x...)}

		env, err := aggregate.EnvelopeOf(runs)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Median).To(Equal(x))
		Expect(env.Q25).To(Equal(x))
		Expect(env.Q75).To(Equal(x))
		Expect(env.Band()).To(Equal([]float64{0, 0, 0, 0, 0}))
	})

	It("reduces each sample index independently", func() {
		runs := []swarm.Series{
			series(0.1, 1.0),
			series(0.2, 0.8),
			series(0.3, 0.6),
			series(0.4, 0.4),
		}

		env, err := aggregate.EnvelopeOf(runs)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Len()).To(Equal(2))
		Expect(env.Median[0]).To(BeNumerically("~", 0.25, 1e-12))
		Expect(env.Q25[0]).To(BeNumerically("~", 0.175, 1e-12))
		Expect(env.Q75[0]).To(BeNumerically("~", 0.325, 1e-12))
		Expect(env.Median[1]).To(BeNumerically("~", 0.7, 1e-12))
		Expect(env.Sampling).To(Equal(swarm.Sampling{Stride: 10, Count: 2}))
	})

	It("keeps independent copies of the contributing runs", func() {
		runs := []swarm.Series{series(0.5, 0.5), series(0.25, 1)}
		env, err := aggregate.EnvelopeOf(runs)
		Expect(err).NotTo(HaveOccurred())

		env.Runs[0].Values[0] = 99
		Expect(runs[0].Values[0]).To(Equal(0.5))
		Expect(env.Runs).To(HaveLen(2))
	})

	It("rejects series of unequal length", func() {
		_, err := aggregate.EnvelopeOf([]swarm.Series{series(0.1, 0.2), series(0.1)})
		Expect(err).To(MatchError(swarm.ErrShapeMismatch))

		var sm *swarm.ShapeMismatchError
		Expect(err).To(BeAssignableToTypeOf(sm))
	})

	It("rejects series sampled differently", func() {
		a := swarm.Series{Sampling: sweep, Values: make([]float64, 36)}
		b := swarm.Series{Sampling: swarm.Sampling{Stride: 50, Count: 36}, Values: make([]float64, 36)}
		_, err := aggregate.EnvelopeOf([]swarm.Series{a, b})
		Expect(err).To(MatchError(swarm.ErrShapeMismatch))
	})

	It("rejects an empty collection", func() {
		_, err := aggregate.EnvelopeOf(nil)
		Expect(err).To(MatchError(swarm.ErrShapeMismatch))

		_, err = aggregate.EnvelopeOf([]swarm.Series{series()})
		Expect(err).To(MatchError(swarm.ErrShapeMismatch))
	})
})

var _ = Describe("Distribution", func() {
	It("collects final values in seed order", func() {
		table, err := aggregate.Distribution(map[string][]swarm.Series{
			"A": {series(0.04, 0.2), series(0.5, 0.6), series(0.9, 1.0)},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Configs).To(Equal([]string{"A"}))
		Expect(table.Values["A"]).To(Equal([]float64{0.2, 0.6, 1.0}))
	})

	It("orders configurations naturally", func() {
		runs := map[string][]swarm.Series{
			"config_10": {series(1)},
			"config_2":  {series(0.5)},
			"config_1":  {series(0.25)},
		}
		table, err := aggregate.Distribution(runs)
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Configs).To(Equal([]string{"config_1", "config_2", "config_10"}))
	})

	It("pads short columns with NaN when read by row", func() {
		table, err := aggregate.Distribution(map[string][]swarm.Series{
			"a": {series(0.1), series(0.2)},
			"b": {series(0.3)},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Rows()).To(Equal(2))

		row := table.Row(1)
		Expect(row[0]).To(Equal(0.2))
		Expect(math.IsNaN(row[1])).To(BeTrue())
	})

	It("summarizes each configuration", func() {
		table, err := aggregate.Distribution(map[string][]swarm.Series{
			"A": {series(0.2), series(0.6), series(1.0)},
		})
		Expect(err).NotTo(HaveOccurred())

		sum := table.Summaries()
		Expect(sum).To(HaveLen(1))
		Expect(sum[0].N).To(Equal(3))
		Expect(sum[0].Min).To(Equal(0.2))
		Expect(sum[0].Median).To(Equal(0.6))
		Expect(sum[0].Max).To(Equal(1.0))
		Expect(sum[0].Q25).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("fails on an empty series", func() {
		_, err := aggregate.Distribution(map[string][]swarm.Series{"A": {series(0.2), series()}})
		Expect(err).To(MatchError(swarm.ErrShapeMismatch))
	})
})

var _ = Describe("SortConfigs", func() {
	It("compares digit runs numerically", func() {
		names := []string{"b", "config_9", "a10", "a9", "config_10"}
		aggregate.SortConfigs(names)
		Expect(names).To(Equal([]string{"a9", "a10", "b", "config_9", "config_10"}))
	})
})
