// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes canonical 16-bit PCM WAV. Decoder
// produces an audio.Source for the import pipeline; WriteWAV16 is the
// engine's one encode path, used by Export.
//
// Only the canonical layout is handled: RIFF/WAVE signature, a plain
// 16-byte fmt chunk, then the data chunk. Anything else — extensible
// headers, compressed encodings, extra chunks — fails with one of the
// package's sentinel errors rather than being skipped over.
package wav
