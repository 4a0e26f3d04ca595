// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/wavecore/utils"
)

// ResampleToMono16 runs src through a Resampler at targetRate and a
// MonoMixer, collecting the whole stream as 16-bit PCM. bufferSize sets the
// per-read chunk in samples. The returned rate is always targetRate.
func ResampleToMono16(src Source, targetRate, bufferSize int) ([]int16, int, error) {
	mono := NewMonoMixer(NewResampler(src, targetRate))

	var pcm16 []int16
	buf := make([]float32, bufferSize)
	for {
		n, err := mono.ReadSamples(buf)
		for i := 0; i < n; i++ {
			pcm16 = append(pcm16, utils.Float32ToInt16(buf[i]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}
	return pcm16, targetRate, nil
}
