// SPDX-License-Identifier: EPL-2.0

package sequence

import "github.com/ik5/wavecore/sampleformat"

// ConvertToSampleFormat rewrites every block at a new sample width.
// Each block is read in the shared float32 domain and
// re-blockified against the new format's minSamples/maxSamples, since
// those derive from the byte budget divided by the sample width; the
// block boundaries can shift even though the total sample count cannot.
// Strong safety: the candidate array is built entirely before s is
// mutated, and a no-op conversion (same format) returns immediately
// without touching a single block, so it stays idempotent.
func (s *Sequence) ConvertToSampleFormat(f sampleformat.Format) error {
	if f == s.format {
		return nil
	}

	sampleSize := int64(sampleformat.BytesPerSample(f))
	newMin := s.maxDiskBlockSize / sampleSize / 2
	newMax := 2 * newMin

	var working []Block
	for _, b := range s.blocks {
		data, err := readWhole(b)
		if err != nil {
			return err
		}
		chunks, err := blockifyAt(s.manager, f, newMax, data)
		if err != nil {
			return err
		}
		working = append(working, chunks...)
	}
	working = finalizeStarts(working)

	if err := checkConsistency(working, s.totalSamples, newMax); err != nil {
		return err
	}
	s.format = f
	s.minSamples = newMin
	s.maxSamples = newMax
	s.blocks = working
	return nil
}
