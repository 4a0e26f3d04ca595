// SPDX-License-Identifier: EPL-2.0

package envelope

import "sort"

// InsertOrReplace sets the value at t, honoring discontinuities: if a point
// already sits at t, the earlier (left-limit) one of a possible pair is
// always the one updated; otherwise a new point is inserted in sorted
// order.
func (e *Envelope) InsertOrReplace(t, v float64) {
	v = e.clampValue(v)
	idx := sort.Search(len(e.points), func(i int) bool { return e.points[i].T >= t })
	if idx < len(e.points) && e.points[idx].T == t {
		e.points[idx].V = v
		return
	}
	e.points = append(e.points, Point{})
	copy(e.points[idx+1:], e.points[idx:])
	e.points[idx] = Point{T: t, V: v}
}

// AppendPoint adds a control point after all existing ones, preserving
// discontinuity pairs: callers rebuilding an envelope from another's points
// in time order use this instead of InsertOrReplace, which would collapse a
// pair onto its left-limit slot. A point earlier than the current last is
// ignored; a third point at one timestamp overwrites the second.
func (e *Envelope) AppendPoint(t, v float64) {
	v = e.clampValue(v)
	n := len(e.points)
	if n > 0 && t < e.points[n-1].T {
		return
	}
	if n >= 2 && e.points[n-1].T == t && e.points[n-2].T == t {
		e.points[n-1].V = v
		return
	}
	e.points = append(e.points, Point{T: t, V: v})
}

// insertSecondAt adds the right-limit half of a discontinuity pair at t:
// placed directly after the existing point at t, or updating the second
// point's value if the pair already exists (a third point at one timestamp
// is never created).
func (e *Envelope) insertSecondAt(t, v float64) {
	v = e.clampValue(v)
	idx := e.indexOf(t)
	if idx < 0 {
		e.InsertOrReplace(t, v)
		return
	}
	if idx+1 < len(e.points) && e.points[idx+1].T == t {
		e.points[idx+1].V = v
		return
	}
	e.points = append(e.points, Point{})
	copy(e.points[idx+2:], e.points[idx+1:])
	e.points[idx+1] = Point{T: t, V: v}
}
