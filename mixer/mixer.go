// SPDX-License-Identifier: EPL-2.0

// Package mixer implements Mixer: a pull-based engine that reads from a
// fixed set of read-only WaveTracks through a TrackCache, resamples each to
// a common output rate, applies its envelope as a gain trajectory and its
// gain/pan as a channel-routed multiplier, and sums the result into an
// interleaved or planar output buffer. Pan follows an equal-power law;
// rate conversion runs through the resampler package per track.
package mixer

import (
	"math"

	"github.com/ik5/wavecore/resampler"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/trackcache"
	"github.com/ik5/wavecore/wavetrack"
)

// queueCap bounds how far ahead of the resampler a single process() call
// is allowed to read raw source samples.
const queueCap = 65536

// RoutingMatrix[i][c] reports whether track i contributes to output
// channel c. A nil matrix falls back to each track's Channel designation.
type RoutingMatrix [][]bool

// trackState is the per-input mixing state: a sample queue
// (bounded by queueCap per fetch, since the resampler itself — not this
// package — retains whatever interpolation context survives a call), a
// Resample instance, a min/max ratio pair, a playback position in
// track-absolute samples, and reusable envelope/scratch buffers.
type trackState struct {
	track *wavetrack.Track
	cache *trackcache.Cache

	resample           *resampler.Resampler
	minRatio, maxRatio float64

	pos                 float64
	lowBound, highBound int64
	scratch             []float32
}

func (ts *trackState) remaining(reverse bool) int64 {
	if reverse {
		return int64(math.Round(ts.pos)) - ts.lowBound
	}
	return ts.highBound - int64(math.Round(ts.pos))
}

// Mixer pulls from a fixed set of tracks and sums them into one output.
type Mixer struct {
	states []*trackState

	t0, t1      float64
	reverse     bool
	outChannels int
	interleaved bool
	outRate     float64
	outFormat   sampleformat.Format
	highQuality bool
	matrix      RoutingMatrix

	played int64
}

// New creates a Mixer over tracks, playing [t0, t1) (t0 < t1 always; pass
// reverse=true for backward playback over the same interval) into
// outChannels channels at outRate/outFormat, interleaved or planar per the
// interleaved flag, optionally guided by a routing matrix.
func New(tracks []*wavetrack.Track, t0, t1 float64, reverse bool, outChannels int, interleaved bool, outRate float64, outFormat sampleformat.Format, highQuality bool, matrix RoutingMatrix) *Mixer {
	m := &Mixer{
		t0: t0, t1: t1, reverse: reverse,
		outChannels: outChannels, interleaved: interleaved,
		outRate: outRate, outFormat: outFormat,
		highQuality: highQuality, matrix: matrix,
	}
	quality := resampler.Medium
	if highQuality {
		quality = resampler.Best
	}
	for _, trk := range tracks {
		ratio := trk.Rate() / outRate
		// Backward playback starts at the interval's end and walks down.
		pos := math.Round(t0 * trk.Rate())
		if reverse {
			pos = math.Round(t1 * trk.Rate())
		}
		ts := &trackState{
			track:     trk,
			cache:     trackcache.New(trk, trk.MaxDiskBlockSize()),
			resample:  resampler.New(1, quality, false),
			minRatio:  ratio,
			maxRatio:  ratio,
			pos:       pos,
			lowBound:  int64(math.Round(t0 * trk.Rate())),
			highBound: int64(math.Round(t1 * trk.Rate())),
		}
		m.states = append(m.states, ts)
	}
	return m
}

func reverseFloat32(s []float32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// panGain is the equal-power pan law: at pan=-1 a track contributes only to
// channel 0, at pan=1 only to channel 1 (or, on a mono output, in full
// regardless of pan).
func panGain(pan float64, channel, numChannels int) float32 {
	if numChannels < 2 {
		return 1.0
	}
	angle := (pan + 1) / 2 * (math.Pi / 2)
	switch channel {
	case 0:
		return float32(math.Cos(angle))
	case 1:
		return float32(math.Sin(angle))
	default:
		return 1.0
	}
}

// routingFlags reports, per output channel, whether track i contributes.
// The routing matrix wins when supplied;
// otherwise MonoChannel broadcasts to every output channel, LeftChannel
// routes to channel 0, and RightChannel routes to channel 1 (or channel 0
// if there is only one output channel).
func (m *Mixer) routingFlags(i int) []bool {
	flags := make([]bool, m.outChannels)
	if m.matrix != nil && i < len(m.matrix) {
		row := m.matrix[i]
		for c := 0; c < m.outChannels && c < len(row); c++ {
			flags[c] = row[c]
		}
		return flags
	}
	switch m.states[i].track.Channel() {
	case wavetrack.MonoChannel:
		for c := range flags {
			flags[c] = true
		}
	case wavetrack.LeftChannel:
		flags[0] = true
	case wavetrack.RightChannel:
		if m.outChannels > 1 {
			flags[1] = true
		} else {
			flags[0] = true
		}
	}
	return flags
}

// Process produces up to maxOut output frames (clipped to what remains of
// [t0, t1)), laid out per the interleaved flag, as float32 in [-1, 1]
// (callers needing the requested on-disk format call Encode themselves via
// sampleformat). Returns the frame count actually written; 0 once the
// interval is exhausted.
func (m *Mixer) Process(maxOut int) ([]float32, int) {
	total := int64(math.Round((m.t1 - m.t0) * m.outRate))
	remain := total - m.played
	if remain <= 0 || maxOut <= 0 {
		return nil, 0
	}
	n := int64(maxOut)
	if n > remain {
		n = remain
	}

	accum := make([]float32, int(n)*m.outChannels)

	for i, ts := range m.states {
		flags := m.routingFlags(i)

		var scratch []float32
		var written int
		if ts.minRatio == 1 && !m.highQuality {
			scratch, written = m.mixSameRate(ts, int(n))
		} else {
			scratch, written = m.mixVariableRates(ts, int(n))
		}

		pan := ts.track.Pan()
		gain := ts.track.Gain()
		for c := 0; c < m.outChannels; c++ {
			if !flags[c] {
				continue
			}
			g := float32(gain) * panGain(pan, c, m.outChannels)
			for s := 0; s < written; s++ {
				var idx int
				if m.interleaved {
					idx = s*m.outChannels + c
				} else {
					idx = c*int(n) + s
				}
				accum[idx] += scratch[s] * g
			}
		}
	}

	m.played += n
	return accum, int(n)
}

// ProcessEncoded is Process followed by a format conversion: the
// float accumulators to the requested output sample format. Returns the
// frame count written; dst must hold at least
// maxOut * outChannels * sampleformat.BytesPerSample(outFormat) bytes.
func (m *Mixer) ProcessEncoded(maxOut int, dst []byte) int {
	out, n := m.Process(maxOut)
	if n == 0 {
		return 0
	}
	sampleformat.Encode(dst, out, m.outFormat)
	return n
}

// mixSameRate is the fast path when a track's rate already matches the
// output rate and no high-quality resampling was requested: read straight
// from the cache, apply the envelope, reverse if playing backward.
func (m *Mixer) mixSameRate(ts *trackState, maxOut int) ([]float32, int) {
	n := maxOut
	if r := ts.remaining(m.reverse); int64(n) > r {
		n = int(r)
	}
	if n <= 0 {
		return nil, 0
	}

	startSample := int64(math.Round(ts.pos))
	if m.reverse {
		startSample -= int64(n)
	}

	raw, err := ts.cache.Get(sampleformat.Float32, startSample, int64(n))
	if err != nil {
		return nil, 0
	}
	if cap(ts.scratch) < n {
		ts.scratch = make([]float32, n)
	}
	scratch := ts.scratch[:n]
	copy(scratch, raw)

	rate := ts.track.Rate()
	for i := 0; i < n; i++ {
		tt := float64(startSample+int64(i)) / rate
		scratch[i] *= float32(ts.track.EnvelopeAt(tt))
	}

	if m.reverse {
		reverseFloat32(scratch)
		ts.pos -= float64(n)
	} else {
		ts.pos += float64(n)
	}
	return scratch, n
}

// mixVariableRates is the resampling path: fetch at most
// queueCap raw samples bounded by what remains of the window, apply the
// envelope and reverse if playing backward, then feed the per-track
// resampler. last is set once the fetch exhausts the window, so the
// resampler begins draining its interpolation tail.
func (m *Mixer) mixVariableRates(ts *trackState, maxOut int) ([]float32, int) {
	ratio := ts.track.Rate() / m.outRate

	want := int64(float64(maxOut)*ratio) + 4
	if want > queueCap {
		want = queueCap
	}
	remain := ts.remaining(m.reverse)
	if want > remain {
		want = remain
	}
	last := want >= remain

	var chunk []float32
	if want > 0 {
		startSample := int64(math.Round(ts.pos))
		if m.reverse {
			startSample -= want
		}
		raw, err := ts.cache.Get(sampleformat.Float32, startSample, want)
		if err == nil {
			chunk = append([]float32(nil), raw...)
			rate := ts.track.Rate()
			for i := range chunk {
				tt := float64(startSample+int64(i)) / rate
				chunk[i] *= float32(ts.track.EnvelopeAt(tt))
			}
			if m.reverse {
				reverseFloat32(chunk)
			}
		}
		if m.reverse {
			ts.pos -= float64(want)
		} else {
			ts.pos += float64(want)
		}
	}

	if cap(ts.scratch) < maxOut {
		ts.scratch = make([]float32, maxOut)
	}
	_, written := ts.resample.Process(ratio, chunk, last, ts.scratch[:maxOut])
	return ts.scratch[:written], written
}
