// SPDX-License-Identifier: EPL-2.0

package envelope

import "sort"

// binarySearch brackets t between two control points: (lo, hi) such that
// points[lo].T <= t < points[hi].T for a right-limit query, or
// points[lo].T < t <= points[hi].T for a left-limit query,
// so the two queries disagree only exactly at a discontinuity's shared
// timestamp. lo == -1 means t precedes the first point; hi == len(points)
// means t is at or past the last. A one-bracket cache (guess) services
// repeat queries at the same t cheaply; anything else falls back to a full
// search, which also refreshes the cache.
func (e *Envelope) binarySearch(t float64, leftLimit bool) (lo, hi int) {
	n := len(e.points)
	if n == 0 {
		return -1, -1
	}
	above := func(i int) bool {
		if leftLimit {
			return e.points[i].T >= t
		}
		return e.points[i].T > t
	}
	if g := e.guess; g >= 0 && g <= n {
		lo, hi = g-1, g
		if (hi == n || above(hi)) && (lo < 0 || !above(lo)) {
			return lo, hi
		}
	}
	idx := sort.Search(n, above)
	e.guess = idx
	return idx - 1, idx
}

// Value interpolates the envelope at t, honoring leftLimit at a
// discontinuity. In log mode, interpolation runs in log10 space and the
// result is raised back with 10^x.
func (e *Envelope) Value(t float64, leftLimit bool) float64 {
	n := len(e.points)
	if n == 0 {
		return e.clampValue(e.def)
	}
	lo, hi := e.binarySearch(t, leftLimit)
	if lo < 0 {
		return e.clampValue(e.points[0].V)
	}
	if hi >= n {
		return e.clampValue(e.points[n-1].V)
	}
	p0, p1 := e.points[lo], e.points[hi]
	frac := (t - p0.T) / (p1.T - p0.T)
	v0, v1 := e.toInterp(p0.V), e.toInterp(p1.V)
	return e.clampValue(e.fromInterp(v0 + frac*(v1-v0)))
}

// LeftLimit is Value(t, true): at a discontinuity, the value just before
// the jump.
func (e *Envelope) LeftLimit(t float64) float64 { return e.Value(t, true) }

// RightLimit is Value(t, false): at a discontinuity, the value at and
// after the jump.
func (e *Envelope) RightLimit(t float64) float64 { return e.Value(t, false) }

// At is the plain (non-discontinuity) query: equivalent to RightLimit, and
// to LeftLimit everywhere except exactly at a discontinuity's timestamp.
func (e *Envelope) At(t float64) float64 { return e.RightLimit(t) }

// GetValues fills out with len(out) values starting at t0, stepping by
// step, per the leftLimit rule above.
func (e *Envelope) GetValues(out []float64, t0, step float64, leftLimit bool) {
	t := t0
	for i := range out {
		out[i] = e.Value(t, leftLimit)
		t += step
	}
}

// indexOf returns the index of the first point at exactly t, or -1.
func (e *Envelope) indexOf(t float64) int {
	idx := sort.Search(len(e.points), func(i int) bool { return e.points[i].T >= t })
	if idx < len(e.points) && e.points[idx].T == t {
		return idx
	}
	return -1
}

func (e *Envelope) hasPointAt(t float64) bool { return e.indexOf(t) >= 0 }
