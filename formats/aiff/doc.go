// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF into an audio.Source, adapting
// github.com/go-audio/aiff's int-buffer pull API. Non-seekable input is
// buffered in memory first, since go-audio needs random access to walk the
// chunk tree.
package aiff
