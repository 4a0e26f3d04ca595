// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"math"

	"github.com/ik5/wavecore/waveerr"
)

// removableDiscontinuity is the tolerance under which a collapsed or
// newly-adjacent pair of same-time points is folded into one.
const removableDiscontinuity = 1e-3

// ensurePoint inserts a point at (t, v) unless one already exists within
// tol of t — used by CollapseRegion to pin down a boundary's limit value
// before the interior it depends on is removed.
func (e *Envelope) ensurePoint(t, v, tol float64) {
	for _, p := range e.points {
		if math.Abs(p.T-t) <= tol {
			return
		}
	}
	e.InsertOrReplace(t, v)
}

// removeUnneededPointsNear collapses a discontinuity pair at t into a
// single point when the two values differ by less than
// removableDiscontinuity.
func (e *Envelope) removeUnneededPointsNear(t float64) {
	first := -1
	for i, p := range e.points {
		if p.T != t {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		if math.Abs(e.points[first].V-p.V) < removableDiscontinuity {
			e.points = append(e.points[:i], e.points[i+1:]...)
		}
		return
	}
}

// CollapseRegion removes the region (t0, t1), preserving the left-limit
// value at t0 and the right-limit value at t1 (inserting boundary points
// first if none exist within sampleDur/2), then shifts everything at or
// after t1 left by t1-t0.
func (e *Envelope) CollapseRegion(t0, t1, sampleDur float64) error {
	if t1 < t0 {
		return waveerr.Inconsistency("collapseRegion: t1 precedes t0")
	}
	if t1 == t0 {
		return nil
	}
	tol := sampleDur / 2
	e.ensurePoint(t0, e.LeftLimit(t0), tol)
	e.ensurePoint(t1, e.RightLimit(t1), tol)

	shifted := make([]Point, 0, len(e.points))
	for _, p := range e.points {
		if p.T > t0 && p.T < t1 {
			continue
		}
		shifted = append(shifted, p)
	}
	shift := t1 - t0
	for i := range shifted {
		if shifted[i].T >= t1 {
			shifted[i].T -= shift
		}
	}
	e.points = shifted
	e.trackLen -= shift
	e.guess = 0
	e.removeUnneededPointsNear(t0)
	return nil
}

// ExpandRegion inserts tlen seconds of room at t0, shifting later points
// right and pinning the boundary values — the pre-expansion left-limit and
// right-limit at t0, unless overridden by leftVal/rightVal — so the
// inserted stretch reads as a flat hold until new material (e.g. pasted
// control points) replaces it. Returns the indices of the two boundary
// points it wrote.
func (e *Envelope) ExpandRegion(t0, tlen float64, leftVal, rightVal *float64) (loIdx, hiIdx int) {
	if tlen <= 0 {
		return -1, -1
	}
	left := e.LeftLimit(t0)
	right := e.RightLimit(t0)

	for i := range e.points {
		if e.points[i].T >= t0 {
			e.points[i].T += tlen
		}
	}
	e.trackLen += tlen
	e.guess = 0

	e.InsertOrReplace(t0, left)
	if leftVal != nil && *leftVal != left {
		e.insertSecondAt(t0, *leftVal)
	}
	e.InsertOrReplace(t0+tlen, right)
	if rightVal != nil && *rightVal != right {
		// The explicit value holds inside the region; the pre-expansion
		// right-limit resumes after the boundary.
		e.InsertOrReplace(t0+tlen, *rightVal)
		e.insertSecondAt(t0+tlen, right)
	}

	return e.indexOf(t0), e.indexOf(t0 + tlen)
}

// Paste expands a tlen-second space at at (tlen = other.trackLen) and
// transplants other's control points into it, offset by at. The two
// endpoint points ExpandRegion just wrote already carry the correct
// boundary limits, so points from other landing exactly on the boundary
// (t == 0 or t == tlen relative to its own start) are skipped rather than
// duplicated.
func (e *Envelope) Paste(at float64, other *Envelope, sampleDur float64) error {
	_ = sampleDur
	tlen := other.trackLen
	if tlen <= 0 {
		return nil
	}
	e.ExpandRegion(at, tlen, nil, nil)
	prevT := math.Inf(-1)
	for _, p := range other.points {
		if p.T == 0 || p.T == tlen {
			prevT = p.T
			continue
		}
		if p.T == prevT {
			// Second half of a source discontinuity pair.
			e.insertSecondAt(at+p.T, p.V)
		} else {
			e.InsertOrReplace(at+p.T, p.V)
		}
		prevT = p.T
	}
	e.removeUnneededPointsNear(at)
	e.removeUnneededPointsNear(at + tlen)
	return nil
}
