// SPDX-License-Identifier: EPL-2.0

package waveclip

import "github.com/ik5/wavecore/waveerr"

// cloneRegion builds a standalone Clip holding the [t0, t1) region of c, at
// offset t0 in c's own (local) time axis — the shape ClearAndAddCutLine
// needs before it deletes that region from c itself.
func (c *Clip) cloneRegion(t0, t1 float64) (*Clip, error) {
	if err := c.Flush(); err != nil {
		return nil, err
	}
	s0 := c.timeToSample(t0)
	s1 := c.timeToSample(t1)
	if s0 < 0 || s1 < s0 || s1 > c.seq.TotalSamples() {
		return nil, waveerr.Inconsistency("cloneRegion out of range")
	}
	length := s1 - s0
	data := make([]float32, length)
	if length > 0 {
		if err := c.seq.Get(data, s0, length); err != nil {
			return nil, err
		}
	}

	clone := New(c.seq.Manager(), c.seq.Format(), c.seq.MaxDiskBlockSize(), t0, c.rate)
	if length > 0 {
		if err := clone.Append(data); err != nil {
			return nil, err
		}
		if err := clone.Flush(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < c.env.NumPoints(); i++ {
		p := c.env.PointAt(i)
		if p.T >= t0 && p.T <= t1 {
			clone.env.AppendPoint(p.T-t0, p.V)
		}
	}
	clone.env.SetTrackLen(t1 - t0)
	return clone, nil
}

// ClearAndAddCutLine clones [t0, t1) into a new child Clip stored in
// cutLines at offset t0, then clears the audio and collapses the envelope
// over that region in c itself.
func (c *Clip) ClearAndAddCutLine(t0, t1 float64) error {
	if t1 < t0 {
		return waveerr.Inconsistency("clearAndAddCutLine: t1 precedes t0")
	}
	if t1 == t0 {
		return nil
	}
	clone, err := c.cloneRegion(t0, t1)
	if err != nil {
		return err
	}

	if err := c.Clear(t0, t1); err != nil {
		return err
	}
	c.cutLines = append(c.cutLines, clone)
	return nil
}

// Clear removes the audio in [t0, t1) without preserving it: collapses the
// sequence over that sample range and the envelope over the same time
// range, drops cutlines inside the region and shifts later ones left.
func (c *Clip) Clear(t0, t1 float64) error {
	if t1 < t0 {
		return waveerr.Inconsistency("clear: t1 precedes t0")
	}
	if t1 == t0 {
		return nil
	}
	if err := c.Flush(); err != nil {
		return err
	}
	s0 := c.timeToSample(t0)
	s1 := c.timeToSample(t1)
	if s0 < 0 || s1 < s0 || s1 > c.seq.TotalSamples() {
		return waveerr.Inconsistency("clear out of range")
	}
	if err := c.seq.Delete(s0, s1-s0); err != nil {
		return err
	}
	sampleDur := 1.0 / c.rate
	if err := c.env.CollapseRegion(t0, t1, sampleDur); err != nil {
		return err
	}

	shift := t1 - t0
	kept := c.cutLines[:0]
	for _, cl := range c.cutLines {
		switch {
		case cl.offset >= t0 && cl.offset < t1:
			// Inside the cleared region: dropped.
		case cl.offset >= t1:
			cl.SetOffset(cl.offset - shift)
			kept = append(kept, cl)
		default:
			kept = append(kept, cl)
		}
	}
	c.cutLines = kept
	return nil
}
