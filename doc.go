// SPDX-License-Identifier: EPL-2.0

// Package wavecore is a non-destructive digital audio editing engine: an
// on-disk, content-addressed block store, a gap-buffer-style sample
// sequence built on it, per-clip envelopes and cut-line history, an
// ordered-clip WaveTrack with Clear/Paste/Split/Merge edits, and a
// resampling Mixer that renders a set of tracks down to an interleaved
// output stream.
//
// # Importing and exporting audio
//
// Import decodes a supported format into a fresh mono WaveTrack; Export
// renders a WaveTrack back out through the Mixer:
//
//	trk, err := wavecore.Import(file, "wav")
//	...
//	err = wavecore.Export(out, trk, "wav")
//
// Import supports "wav", "mp3", "ogg", and "aiff" via the decoders in the
// formats subpackages; Export currently emits 16-bit PCM WAV, the one
// format formats/wav can write.
//
// # Editing
//
// Once imported, a track's clips are edited through wavetrack.Track's
// HandleClear, Paste, ClearAndPaste and SplitAt, each translating an
// absolute-time request into per-clip Sequence/Envelope operations.
//
// # Mixing
//
// mixer.New builds a Mixer over a fixed set of tracks; repeated calls to
// Process (or ProcessEncoded, to write directly into an on-disk sample
// format) pull resampled, enveloped, panned output until the requested
// time range is exhausted.
//
// # Lower-level pipeline
//
// For custom processing, the audio subpackage's Source/Decoder/MonoMixer
// types and the resampler package's push-style Resampler are available
// directly, the way Import and the Mixer use them internally.
package wavecore
