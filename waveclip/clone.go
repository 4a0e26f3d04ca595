// SPDX-License-Identifier: EPL-2.0

package waveclip

// Clone deep-copies c: a fresh Sequence holding the same audio (sharing
// block files copy-on-write via Sequence.Paste's end-of-empty-sequence
// case, rather than re-encoding every sample), a copy of the envelope's
// control points, and recursively cloned cutlines. WaveTrack's split/
// partial-clear operations build their replacement clips this way.
func (c *Clip) Clone() (*Clip, error) {
	if err := c.Flush(); err != nil {
		return nil, err
	}
	clone := New(c.seq.Manager(), c.seq.Format(), c.seq.MaxDiskBlockSize(), c.offset, c.rate)
	if c.seq.TotalSamples() > 0 {
		if err := clone.seq.Paste(0, c.seq); err != nil {
			return nil, err
		}
	}
	for i := 0; i < c.env.NumPoints(); i++ {
		p := c.env.PointAt(i)
		clone.env.AppendPoint(p.T, p.V)
	}
	clone.env.SetTrackLen(c.env.TrackLen())
	clone.isPlaceholder = c.isPlaceholder

	for _, cl := range c.cutLines {
		childClone, err := cl.Clone()
		if err != nil {
			return nil, err
		}
		clone.cutLines = append(clone.cutLines, childClone)
	}
	return clone, nil
}
