// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis into an audio.Source via
// github.com/jfreymuth/oggvorbis, which already produces interleaved
// float32 — the one codec in the layer with no sample conversion step.
package vorbis
