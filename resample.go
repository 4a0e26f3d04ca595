// SPDX-License-Identifier: EPL-2.0

package wavecore

import (
	"fmt"
	"io"

	"github.com/ik5/wavecore/audio"
	"github.com/ik5/wavecore/wavetrack"
)

// ImportResampled is Import with a rate conversion in front: the decoded
// stream runs through audio.Resampler at targetRate before landing in the
// track, so the result can be pasted into or mixed with targetRate material
// without a per-edit conversion.
func ImportResampled(r io.Reader, format string, targetRate int) (*wavetrack.Track, error) {
	reg := defaultRegistry()
	dec, ok := reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("wavecore: unsupported import format %q", format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("wavecore: decode: %w", err)
	}
	defer src.Close()

	if src.SampleRate() == targetRate {
		return trackFromSource(src)
	}
	return trackFromSource(audio.NewResampler(src, targetRate))
}
