// SPDX-License-Identifier: EPL-2.0

// Package envelope implements the piecewise linear/exponential gain
// automation interpolator: an ordered list of control points with a
// caller-selectable left-or-right limit at discontinuities, collapse/expand
// operations mirroring sequence edits, and a monotone search-guess cache
// for fast sequential access.
package envelope

import "math"

// Point is one control point: a timestamp and the value held there. Up to
// two points may share a timestamp — a discontinuity — representing a
// step; a third at the same timestamp is disallowed by insertOrReplace.
type Point struct {
	T float64
	V float64
}

// Envelope is a sorted-by-T list of Points plus clamping and interpolation
// mode.
type Envelope struct {
	points  []Point
	def     float64
	min     float64
	max     float64
	expMode bool

	offset   float64
	trackLen float64

	// guess caches the last bracket binarySearch returned, exploited by
	// sequential callers (getValues, the mixer's per-block gain fill).
	guess int
}

// New creates an empty Envelope with the given default value and clamp
// range. Pass log=true to interpolate in log10 space (values are then
// always > 0).
func New(def, min, max float64, log bool) *Envelope {
	return &Envelope{def: def, min: min, max: max, expMode: log}
}

func (e *Envelope) Offset() float64       { return e.offset }
func (e *Envelope) SetOffset(t float64)   { e.offset = t }
func (e *Envelope) TrackLen() float64     { return e.trackLen }
func (e *Envelope) SetTrackLen(l float64) { e.trackLen = l }
func (e *Envelope) NumPoints() int        { return len(e.points) }
func (e *Envelope) PointAt(i int) Point   { return e.points[i] }

// clampValue applies the envelope's min/max clamp.
func (e *Envelope) clampValue(v float64) float64 {
	if v < e.min {
		return e.min
	}
	if v > e.max {
		return e.max
	}
	return v
}

func (e *Envelope) toInterp(v float64) float64 {
	if e.expMode {
		return math.Log10(v)
	}
	return v
}

func (e *Envelope) fromInterp(v float64) float64 {
	if e.expMode {
		return math.Pow(10, v)
	}
	return v
}
