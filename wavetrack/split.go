// SPDX-License-Identifier: EPL-2.0

package wavetrack

import (
	"math"

	"github.com/ik5/wavecore/waveclip"
)

// leftPart clones c and trims it down to [0, cutAt) in c's own local time.
func leftPart(c *waveclip.Clip, cutAt float64) (*waveclip.Clip, error) {
	left, err := c.Clone()
	if err != nil {
		return nil, err
	}
	if err := left.Clear(cutAt, left.Envelope().TrackLen()); err != nil {
		return nil, err
	}
	return left, nil
}

// rightPart clones c, trims it down to [cutAt, end) in c's own local time,
// and repositions the result to start at target absolute time.
func rightPart(c *waveclip.Clip, cutAt, target float64) (*waveclip.Clip, error) {
	right, err := c.Clone()
	if err != nil {
		return nil, err
	}
	if err := right.Clear(0, cutAt); err != nil {
		return nil, err
	}
	right.SetOffset(target)
	return right, nil
}

// mergeClips appends clip j onto clip i (by sample content, at i's own
// end) and removes j from the track.
func (t *Track) mergeClips(i, j int) error {
	ci, cj := t.clips[i], t.clips[j]
	rel := ci.Envelope().TrackLen()
	if err := ci.Paste(rel, cj); err != nil {
		return err
	}
	t.removeClip(cj)
	return nil
}

// SplitAt snaps tt to the nearest sample and splits the clip that contains
// it into two, the right half repositioned to start exactly at the snapped
// time. A no-op if no clip contains tt.
func (t *Track) SplitAt(tt float64) error {
	snapped := math.Round(tt*t.rate) / t.rate
	c := t.clipContaining(snapped)
	if c == nil {
		return nil
	}
	rel := snapped - c.StartTime()

	left, err := leftPart(c, rel)
	if err != nil {
		return err
	}
	right, err := rightPart(c, rel, snapped)
	if err != nil {
		return err
	}

	t.removeClip(c)
	t.addClip(left)
	t.addClip(right)
	return nil
}
