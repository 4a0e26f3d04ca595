// SPDX-License-Identifier: EPL-2.0

package wavetrack

// Get reads length float32 samples starting at the track-absolute sample
// index startSample into dst. Silence in the gaps between
// clips (and past the track's end) reads back as zero, and overlapping
// clip content is read straight from each clip's own Sequence.
func (t *Track) Get(dst []float32, startSample, length int64) error {
	for i := int64(0); i < length; i++ {
		dst[i] = 0
	}
	end := startSample + length

	for _, c := range t.Clips() {
		cs := int64(c.StartTime()*t.rate + 0.5)
		ce := cs + c.NumSamples()

		lo, hi := startSample, end
		if cs > lo {
			lo = cs
		}
		if ce < hi {
			hi = ce
		}
		if lo >= hi {
			continue
		}

		n := hi - lo
		buf := make([]float32, n)
		if err := c.Get(buf, lo-cs, n); err != nil {
			return err
		}
		copy(dst[lo-startSample:], buf)
	}
	return nil
}

// EnvelopeAt returns the gain trajectory value at the track-absolute time
// t: the containing clip's own envelope, queried at its local time. Gaps
// between clips (silence) report 1.0 since the sample value there is
// already zero.
func (t *Track) EnvelopeAt(tt float64) float64 {
	c := t.clipContaining(tt)
	if c == nil {
		return 1.0
	}
	return c.Envelope().At(tt - c.StartTime())
}
