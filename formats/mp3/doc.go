// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 into an audio.Source via
// github.com/hajimehoshi/go-mp3. The library always emits two-channel
// 16-bit PCM regardless of the encoded channel count, so sources from this
// package report Channels() == 2 and rely on the pipeline's downmix.
package mp3
