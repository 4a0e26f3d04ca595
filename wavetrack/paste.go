// SPDX-License-Identifier: EPL-2.0

package wavetrack

import (
	"github.com/ik5/wavecore/waveclip"
)

// Warper remaps a boundary time during ClearAndPaste's preserve step.
// IdentityWarper is the default: boundaries land back where they started.
type Warper func(float64) float64

func IdentityWarper(t float64) float64 { return t }

// Paste inserts src's clips at t0. A single-clip source
// landing inside an existing clip splices into that clip directly; any
// other shape inserts each source clip as a new clip. A splice or insertion
// that would overlap existing territory is a fatal Inconsistency.
func (t *Track) Paste(t0 float64, src *Track) error {
	if len(src.clips) == 1 {
		only := src.clips[0]
		if host := t.clipContaining(t0); host != nil {
			rel := t0 - host.StartTime()
			addedDur := only.EndTime() - only.StartTime()
			newEnd := host.EndTime() + addedDur
			for _, c := range t.clips {
				if c == host {
					continue
				}
				if c.StartTime() < newEnd && c.EndTime() > host.StartTime() {
					return errOverlap("paste: splice would overlap an adjacent clip")
				}
			}
			return host.Paste(rel, only)
		}
	}

	for _, c := range src.clips {
		newOffset := t0 + c.Offset()
		newEnd := newOffset + (c.EndTime() - c.StartTime())
		if t.overlapsAny(newOffset, newEnd) {
			return errOverlap("paste: would overlap existing clip territory")
		}
	}
	for _, c := range src.clips {
		clone, err := c.Clone()
		if err != nil {
			return err
		}
		clone.SetOffset(t0 + c.Offset())
		t.addClip(clone)
	}
	return nil
}

// mergeAdjacency is the "within 2/rate seconds" tolerance for
// ClearAndPaste's merge step.
func (t *Track) mergeAdjacency() float64 { return 2.0 / t.rate }

// ClearAndPaste replaces [t0, t1) with src's content:
// record the boundaries and cutlines the clear would otherwise destroy,
// clear (ripple, no cutlines), paste src at t0, optionally merge newly
// adjacent clips at the splice points, and optionally re-split at the
// recorded boundaries (through warper) to restore them and reinsert the
// saved cutlines.
func (t *Track) ClearAndPaste(t0, t1 float64, src *Track, preserve, merge bool, warper Warper) error {
	if warper == nil {
		warper = IdentityWarper
	}

	var boundaries []float64
	type savedCutline struct {
		cl        *waveclip.Clip
		absOffset float64
	}
	var saved []savedCutline

	for _, c := range t.clips {
		if s := c.StartTime(); s > t0 && s < t1 {
			boundaries = append(boundaries, s)
		}
		if e := c.EndTime(); e > t0 && e < t1 {
			boundaries = append(boundaries, e)
		}
		for i := 0; i < c.NumCutLines(); i++ {
			cl := c.CutLineAt(i)
			abs := c.StartTime() + cl.Offset()
			if abs >= t0 && abs < t1 {
				saved = append(saved, savedCutline{cl: cl, absOffset: abs})
			}
		}
	}
	for _, c := range t.clips {
		for i := c.NumCutLines() - 1; i >= 0; i-- {
			cl := c.CutLineAt(i)
			abs := c.StartTime() + cl.Offset()
			if abs >= t0 && abs < t1 {
				c.RemoveCutLineAt(i)
			}
		}
	}

	if err := t.HandleClear(t0, t1, false, false); err != nil {
		return err
	}
	if err := t.Paste(t0, src); err != nil {
		return err
	}

	endOfSrc := t0
	for _, c := range src.Clips() {
		if e := t0 + (c.EndTime() - c.StartTime()) + c.Offset(); e > endOfSrc {
			endOfSrc = e
		}
	}

	if merge {
		tol := t.mergeAdjacency()
		t.mergeNear(t0, tol)
		t.mergeNear(endOfSrc, tol)
	}

	if preserve {
		for _, b := range boundaries {
			if err := t.SplitAt(warper(b)); err != nil {
				return err
			}
		}
		for _, sc := range saved {
			target := warper(sc.absOffset)
			host := t.clipContaining(target)
			if host == nil {
				continue
			}
			sc.cl.SetOffset(target - host.StartTime())
			host.AddCutLine(sc.cl)
		}
	}
	return nil
}

// mergeNear merges the two clips straddling t, if any, when their gap is
// within tol seconds of zero.
func (t *Track) mergeNear(t0, tol float64) {
	clips := t.Clips()
	for i := 0; i < len(clips)-1; i++ {
		a, b := clips[i], clips[i+1]
		gap := b.StartTime() - a.EndTime()
		if gap < 0 {
			gap = -gap
		}
		if gap > tol {
			continue
		}
		if a.EndTime() < t0-tol || a.EndTime() > t0+tol {
			continue
		}
		ia, ib := t.indexOf(a), t.indexOf(b)
		if ia < 0 || ib < 0 {
			continue
		}
		_ = t.mergeClips(ia, ib)
		return
	}
}

func (t *Track) indexOf(c *waveclip.Clip) int {
	for i, cl := range t.clips {
		if cl == c {
			return i
		}
	}
	return -1
}
