// SPDX-License-Identifier: EPL-2.0

package waveclip

import (
	"github.com/ik5/wavecore/resampler"
)

// pasteChunk is the input block size fed to the resampler during a
// rate/format-converting deep copy.
const pasteChunk = 65536

// needsConversion reports whether other must be deep-copied before pasting
// into c: a rate mismatch (resampling) or a format mismatch.
func (c *Clip) needsConversion(other *Clip) bool {
	return other.rate != c.rate || other.seq.Format() != c.seq.Format()
}

// convertedCopy deep-copies other's audio and envelope into a new Clip at
// c's rate and format, feeding the resampler in pasteChunk-sized blocks and
// draining its interpolation tail after input is exhausted. other's
// cutlines are carried over as unconverted Clone copies.
func (c *Clip) convertedCopy(other *Clip) (*Clip, error) {
	if err := other.Flush(); err != nil {
		return nil, err
	}
	converted := New(c.seq.Manager(), c.seq.Format(), c.seq.MaxDiskBlockSize(), other.offset, c.rate)

	ratio := other.rate / c.rate
	r := resampler.New(1, resampler.Best, false)
	total := other.seq.TotalSamples()

	in := make([]float32, pasteChunk)
	out := make([]float32, pasteChunk)
	var pos int64
	for pos < total {
		n := int64(pasteChunk)
		if pos+n > total {
			n = total - pos
		}
		if err := other.seq.Get(in[:n], pos, n); err != nil {
			return nil, err
		}
		pos += n
		last := pos >= total

		_, written := r.Process(ratio, in[:n], last, out)
		for {
			if written > 0 {
				if err := converted.Append(append([]float32(nil), out[:written]...)); err != nil {
					return nil, err
				}
			}
			if !last || written == 0 {
				break
			}
			_, written = r.Process(ratio, nil, true, out)
		}
	}
	if err := converted.Flush(); err != nil {
		return nil, err
	}

	for i := 0; i < other.env.NumPoints(); i++ {
		p := other.env.PointAt(i)
		converted.env.AppendPoint(p.T, p.V)
	}
	converted.env.SetTrackLen(other.env.TrackLen())

	for _, cl := range other.cutLines {
		clClone, err := cl.Clone()
		if err != nil {
			return nil, err
		}
		converted.cutLines = append(converted.cutLines, clClone)
	}
	return converted, nil
}

// Paste splices other's entire content into c at local time t0, resampling
// or format-converting a deep copy first if required, then propagates
// other's cutlines shifted by t0-other.offset.
func (c *Clip) Paste(t0 float64, other *Clip) error {
	src := other
	if c.needsConversion(other) {
		converted, err := c.convertedCopy(other)
		if err != nil {
			return err
		}
		src = converted
	}
	if err := c.Flush(); err != nil {
		return err
	}
	if err := src.Flush(); err != nil {
		return err
	}

	at := c.timeToSample(t0)
	if err := c.seq.Paste(at, src.seq); err != nil {
		return err
	}
	sampleDur := 1.0 / c.rate
	if err := c.env.Paste(t0, src.env, sampleDur); err != nil {
		return err
	}

	shift := t0 - src.offset
	for _, cl := range src.cutLines {
		cl.SetOffset(cl.offset + shift)
		c.cutLines = append(c.cutLines, cl)
	}
	src.cutLines = nil
	return nil
}
