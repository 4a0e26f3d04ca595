// SPDX-License-Identifier: EPL-2.0

package blockfile

import "math"

// Triple is one min/max/RMS entry at a given decimation factor.
type Triple struct {
	Min, Max, RMS float32
}

const (
	// Decimation256 is the fine-grained summary factor.
	Decimation256 = 256
	// Decimation65536 aggregates Decimation256 entries 256 at a time.
	Decimation65536 = 65536
)

// ceilDiv computes ceil(a/b) for positive a, b.
func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// calcSummary computes both decimation levels plus the block-level
// min/max/rms: the 1:256 level buckets
// up to 256 source samples per entry (the last may be short); the 1:65536
// level aggregates 256 consecutive 1:256 entries, padding missing entries
// with {+Inf, -Inf, 0} and correcting the RMS denominator for a short final
// bucket. The block-level min/max are the extrema over the 1:65536 entries;
// rms is computed once against the original samples.
func calcSummary(samples []float32) (level256, level65536 []Triple, blockMin, blockMax, blockRMS float32) {
	n := int64(len(samples))
	if n == 0 {
		return nil, nil, 0, 0, 0
	}

	numBuckets256 := ceilDiv(n, Decimation256)
	level256 = make([]Triple, numBuckets256)
	for i := int64(0); i < numBuckets256; i++ {
		start := i * Decimation256
		end := start + Decimation256
		if end > n {
			end = n
		}
		mn, mx := float32(math.Inf(1)), float32(math.Inf(-1))
		var sumsq float64
		for _, s := range samples[start:end] {
			if s < mn {
				mn = s
			}
			if s > mx {
				mx = s
			}
			sumsq += float64(s) * float64(s)
		}
		cnt := float64(end - start)
		level256[i] = Triple{mn, mx, float32(math.Sqrt(sumsq / cnt))}
	}

	numBuckets65536 := ceilDiv(n, Decimation65536)
	level65536 = make([]Triple, numBuckets65536)
	const subPerGroup = Decimation65536 / Decimation256 // 256
	for j := int64(0); j < numBuckets65536; j++ {
		groupStart := j * subPerGroup
		mn, mx := float32(math.Inf(1)), float32(math.Inf(-1))
		var sumsq float64
		for k := int64(0); k < subPerGroup; k++ {
			idx := groupStart + k
			var t Triple
			if idx < numBuckets256 {
				t = level256[idx]
			} else {
				// Padding entry beyond the real data.
				t = Triple{float32(math.Inf(1)), float32(math.Inf(-1)), 0}
			}
			if t.Min < mn {
				mn = t.Min
			}
			if t.Max > mx {
				mx = t.Max
			}
			sumsq += float64(t.RMS) * float64(t.RMS)
		}

		denom := float64(subPerGroup)
		if j == numBuckets65536-1 {
			// summaries - fraction: real 1:256 entries in this group, minus
			// the shortfall of the final (possibly short) bucket.
			summaries := numBuckets256 - groupStart
			lastCount := n - (numBuckets256-1)*Decimation256
			shortfall := 1.0 - float64(lastCount)/float64(Decimation256)
			denom = float64(summaries) - shortfall
		}
		level65536[j] = Triple{mn, mx, float32(math.Sqrt(sumsq / denom))}
	}

	bmn, bmx := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, t := range level65536 {
		if t.Min < bmn {
			bmn = t.Min
		}
		if t.Max > bmx {
			bmx = t.Max
		}
	}
	var sumsq2 float64
	for _, s := range samples {
		sumsq2 += float64(s) * float64(s)
	}
	brms := float32(math.Sqrt(sumsq2 / float64(n)))

	return level256, level65536, bmn, bmx, brms
}

// TotalSummaryBytes returns the byte size of both summary arrays (1:65536
// then 1:256) for a block of n samples, as written to disk.
func TotalSummaryBytes(n int64) int64 {
	return (ceilDiv(n, Decimation65536) + ceilDiv(n, Decimation256)) * 12
}
