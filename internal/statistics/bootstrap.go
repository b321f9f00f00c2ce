// Package statistics provides resampling-based confidence intervals for
// comparing prompt versions over the same samples.
package statistics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// BootstrapCIWithSeed computes a percentile bootstrap confidence interval for
// the mean of scores. confidenceLevel should be in (0, 1), e.g. 0.95.
// A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(scores []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	return resample(scores, confidenceLevel, seed)
}

// PairedDelta bootstraps the mean of b[i]-a[i] over aligned per-sample scores.
// A positive interval means b beats a on these samples.
func PairedDelta(a, b []float64, confidenceLevel float64, seed int64) (ConfidenceInterval, error) {
	if len(a) != len(b) {
		return ConfidenceInterval{}, fmt.Errorf("paired series differ in length: %d vs %d", len(a), len(b))
	}
	deltas := make([]float64, len(a))
	for i := range a {
		deltas[i] = b[i] - a[i]
	}
	return resample(deltas, confidenceLevel, seed), nil
}

// IsSignificant returns true if the confidence interval does not contain zero.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}

// NormalizedGain computes (post - pre) / (1 - pre), the share of the
// remaining headroom a new version recovered.
// Returns 0 if pre >= 1.0 or pre == post, and 1.0 if post >= 1.0.
func NormalizedGain(pre, post float64) float64 {
	if pre >= 1.0 {
		return 0.0
	}
	if post >= 1.0 {
		return 1.0
	}
	if math.Abs(post-pre) < 1e-12 {
		return 0.0
	}
	return (post - pre) / (1.0 - pre)
}

func resample(values []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(values)
	m := mean(values)
	if n < 2 {
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
		}
	}

	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	iters := DefaultBootstrapIterations
	means := make([]float64, iters)
	draw := make([]float64, n)
	for i := range means {
		for j := range draw {
			draw[j] = values[rng.Intn(n)]
		}
		means[i] = mean(draw)
	}
	sort.Float64s(means)

	alpha := 1.0 - confidenceLevel
	lo := int(math.Floor(alpha / 2.0 * float64(iters)))
	hi := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hi >= iters {
		hi = iters - 1
	}

	return ConfidenceInterval{
		Lower:           means[lo],
		Upper:           means[hi],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
