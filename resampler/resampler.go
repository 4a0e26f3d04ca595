// SPDX-License-Identifier: EPL-2.0

// Package resampler is the push-style counterpart of audio.Resampler,
// shaped for the Mixer: process a caller-owned chunk of interleaved
// samples at an arbitrary, possibly time-varying ratio and emit as much
// resampled output as fits, draining the interpolation tail once the
// caller signals end-of-input. Same four-frame-window cubic and one-pole
// filter; restructured from a Source-pulling loop into a
// buffer-in/buffer-out call.
package resampler

import "github.com/ik5/wavecore/utils"

// Quality trades interpolation/anti-alias cost for fidelity.
// Constant-ratio mode honors the caller's choice; variable-ratio mode
// always runs at Best.
type Quality int

const (
	Low Quality = iota
	Medium
	High
	Best
)

// filterAlpha is the one-pole low-pass coefficient per quality tier, applied
// only when downsampling (ratio > 1). Lower alpha means heavier smoothing.
func filterAlpha(q Quality) (alpha float32, enabled bool) {
	switch q {
	case Low:
		return 0, false
	case Medium:
		return 0.7, true
	case High:
		return 0.5, true
	default: // Best
		return 0.35, true
	}
}

// Resampler holds the interpolation state (buffered input frames and
// fractional read position) that must survive across Process calls.
type Resampler struct {
	channels int
	quality  Quality
	variable bool

	pending []float32 // interleaved frames buffered for interpolation context
	pos     float64   // fractional frame index into pending

	filterState []float32
}

// New creates a Resampler for an interleaved stream with the given channel
// count. variable marks a variable-ratio instance, which always runs at
// Best regardless of the quality argument.
func New(channels int, quality Quality, variable bool) *Resampler {
	return &Resampler{
		channels:    channels,
		quality:     quality,
		variable:    variable,
		filterState: make([]float32, channels),
	}
}

func (r *Resampler) effectiveQuality() Quality {
	if r.variable {
		return Best
	}
	return r.quality
}

func (r *Resampler) frameCount() int { return len(r.pending) / r.channels }

// frameAt returns the frame at idx, clamped to [0, avail-1]: edge frames
// are duplicated at stream boundaries.
func (r *Resampler) frameAt(idx, avail int) []float32 {
	if idx < 0 {
		idx = 0
	}
	if idx >= avail {
		idx = avail - 1
	}
	off := idx * r.channels
	return r.pending[off : off+r.channels]
}

// Process resamples at ratio (srcRate/dstRate, may vary call to call for a
// variable-ratio instance), consuming all of in into the internal buffer
// and writing as many interpolated frames as fit in out. last signals
// end-of-input: once set, remaining calls drain the interpolation tail
// (using edge-duplicated frames) until outWritten comes back 0.
func (r *Resampler) Process(ratio float64, in []float32, last bool, out []float32) (inUsed, outWritten int) {
	ch := r.channels
	alpha, useFilter := filterAlpha(r.effectiveQuality())
	useFilter = useFilter && ratio > 1.0

	if len(in) > 0 {
		r.pending = append(r.pending, in...)
		inUsed = len(in)
	}

	avail := r.frameCount()
	outFrames := len(out) / ch
	written := 0

	for written < outFrames {
		lo := int(r.pos)
		if lo >= avail {
			break
		}
		if lo+2 >= avail && !last {
			break
		}

		frac := float32(r.pos - float64(lo))
		y0 := r.frameAt(lo-1, avail)
		y1 := r.frameAt(lo, avail)
		y2 := r.frameAt(lo+1, avail)
		y3 := r.frameAt(lo+2, avail)
		for c := 0; c < ch; c++ {
			v := utils.CubicInterpolate(y0[c], y1[c], y2[c], y3[c], frac)
			if useFilter {
				v = alpha*v + (1-alpha)*r.filterState[c]
				r.filterState[c] = v
			}
			out[written*ch+c] = v
		}
		written++
		r.pos += ratio
	}

	// Drop frames that no longer participate in interpolation (everything
	// before lo-1), keeping the rest as context for the next call.
	consumed := int(r.pos) - 1
	if consumed > 0 {
		if consumed > avail {
			consumed = avail
		}
		r.pending = append([]float32(nil), r.pending[consumed*ch:]...)
		r.pos -= float64(consumed)
	}

	return inUsed, written
}
