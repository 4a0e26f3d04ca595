// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile marks input without a RIFF/WAVE signature.
	ErrNotWavFile = errors.New("not a WAV file")
	// ErrUnsupportedWavLayout marks a non-canonical chunk layout.
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	// ErrOnlyPCM16bitSupported marks compressed or non-16-bit streams.
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	// ErrUnsupportedWavChunks marks extra chunks before the data chunk.
	ErrUnsupportedWavChunks = errors.New("unsupported WAV chunks")
)
