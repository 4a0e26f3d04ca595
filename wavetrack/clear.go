// SPDX-License-Identifier: EPL-2.0

package wavetrack

import (
	"math"

	"github.com/ik5/wavecore/waveclip"
)

// HandleClear removes [t0, t1) from the track:
//   - a clip wholly inside the range is dropped;
//   - a clip partially overlapping is either cutlined (addCutLines, and the
//     range touches only this clip's interior), split into up to two
//     replacement clips (split), or clipped-and-collapsed in place
//     (neither);
//   - unless split, every later clip ripples left by t1-t0 to close the
//     gap; under split, the gap is left open.
func (t *Track) HandleClear(t0, t1 float64, addCutLines, split bool) error {
	if t1 <= t0 {
		return nil
	}
	overlapping := t.findOverlapping(t0, t1)
	singleInterior := len(overlapping) == 1 &&
		overlapping[0].StartTime() < t0 && overlapping[0].EndTime() > t1

	var toRemove, toAdd []*waveclip.Clip

	for _, c := range overlapping {
		cs, ce := c.StartTime(), c.EndTime()
		switch {
		case cs >= t0 && ce <= t1:
			toRemove = append(toRemove, c)

		case addCutLines && singleInterior:
			if err := c.ClearAndAddCutLine(t0-cs, t1-cs); err != nil {
				return err
			}

		case split:
			if cs < t0 {
				left, err := leftPart(c, t0-cs)
				if err != nil {
					return err
				}
				toAdd = append(toAdd, left)
			}
			if ce > t1 {
				right, err := rightPart(c, t1-cs, t1)
				if err != nil {
					return err
				}
				toAdd = append(toAdd, right)
			}
			toRemove = append(toRemove, c)

		default:
			clone, err := c.Clone()
			if err != nil {
				return err
			}
			rel0 := math.Max(0, t0-cs)
			rel1 := math.Min(clone.Envelope().TrackLen(), t1-cs)
			if err := clone.Clear(rel0, rel1); err != nil {
				return err
			}
			if cs > t0 {
				// The clip's head was cleared away: the surviving tail
				// lands at t0 once the ripple closes the gap.
				clone.SetOffset(t0)
			}
			toAdd = append(toAdd, clone)
			toRemove = append(toRemove, c)
		}
	}

	for _, c := range toRemove {
		t.removeClip(c)
	}
	for _, c := range toAdd {
		t.addClip(c)
	}

	if !split {
		shift := t1 - t0
		for _, c := range t.clips {
			if c.StartTime() >= t1 {
				c.SetOffset(c.Offset() - shift)
			}
		}
	}
	return nil
}
