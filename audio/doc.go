// SPDX-License-Identifier: EPL-2.0

// Package audio is the engine's codec boundary: the Source interface
// decoded streams arrive through, a Registry mapping format keys to
// Decoders, and two stream processors — Resampler (cubic-interpolated rate
// conversion) and MonoMixer (channel downmix) — that adapt a decoded
// stream before it lands in a WaveTrack.
//
// Sources chain: a decoder's Source can be wrapped in a Resampler, which
// can be wrapped in a MonoMixer, and the import pipeline reads from the
// outermost wrapper. ResampleToMono16 packages the common
// decode → resample → downmix → int16 chain in one call.
package audio
