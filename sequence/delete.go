// SPDX-License-Identifier: EPL-2.0

package sequence

import "github.com/ik5/wavecore/waveerr"

// Delete removes length samples starting at start. The
// single-block branch handles a deletion wholly inside one block whose
// residual length stays at or above minSamples; everything else goes
// through the multi-block branch, which synthesizes left/right fringe
// blocks (merging with a neighbor when a fringe alone would be
// sub-minimum) and shifts the tail. Strong safety throughout.
func (s *Sequence) Delete(start, length int64) error {
	if length == 0 {
		return nil
	}
	if start < 0 || length < 0 || start+length > s.totalSamples {
		return waveerr.Inconsistency("Delete out of range")
	}

	b0idx, err := s.findBlock(start)
	if err != nil {
		return err
	}
	lastPos := start + length - 1
	b1idx := b0idx
	if lastPos > start {
		b1idx, err = s.findBlock(lastPos)
		if err != nil {
			return err
		}
	}

	if b0idx == b1idx {
		b := s.blocks[b0idx]
		residual := b.Len() - length
		if residual >= s.minSamples || len(s.blocks) == 1 {
			return s.deleteSingleBlock(b0idx, start, length)
		}
	}

	return s.deleteMultiBlock(b0idx, b1idx, start, length)
}

func (s *Sequence) deleteSingleBlock(idx int, start, length int64) error {
	b := s.blocks[idx]
	whole, err := readWhole(b)
	if err != nil {
		return err
	}
	offset := start - b.Start
	merged := make([]float32, 0, int64(len(whole))-length)
	merged = append(merged, whole[:offset]...)
	merged = append(merged, whole[offset+length:]...)

	newRef, err := s.newBlockOrSilent(merged)
	if err != nil {
		return err
	}

	working := append([]Block(nil), s.blocks...)
	working[idx] = Block{Start: b.Start, Ref: newRef}
	for i := idx + 1; i < len(working); i++ {
		working[i].Start -= length
	}

	newTotal := s.totalSamples - length
	if err := s.consistencyCheck(working, newTotal); err != nil {
		return err
	}
	s.blocks = working
	s.totalSamples = newTotal
	return nil
}

// deleteMultiBlock handles a deletion spanning two or more blocks.
func (s *Sequence) deleteMultiBlock(b0idx, b1idx int, start, length int64) error {
	b0 := s.blocks[b0idx]
	b1 := s.blocks[b1idx]

	leftWhole, err := readWhole(b0)
	if err != nil {
		return err
	}
	leftOffset := start - b0.Start
	leftData := append([]float32(nil), leftWhole[:leftOffset]...)

	rightWhole, err := readWhole(b1)
	if err != nil {
		return err
	}
	rightOffset := (start + length) - b1.Start
	rightData := append([]float32(nil), rightWhole[rightOffset:]...)

	prefixEnd := b0idx
	if int64(len(leftData)) < s.minSamples && b0idx > 0 {
		prevWhole, err := readWhole(s.blocks[b0idx-1])
		if err != nil {
			return err
		}
		merged := append(append([]float32(nil), prevWhole...), leftData...)
		leftData = merged
		prefixEnd = b0idx - 1
	}

	tailStart := b1idx + 1
	if int64(len(rightData)) < s.minSamples && b1idx+1 < len(s.blocks) {
		nextWhole, err := readWhole(s.blocks[b1idx+1])
		if err != nil {
			return err
		}
		rightData = append(rightData, nextWhole...)
		tailStart = b1idx + 2
	}

	var working []Block
	working = append(working, s.blocks[:prefixEnd]...)

	leftBlocks, err := s.blockifyOrSilent(leftData)
	if err != nil {
		return err
	}
	working = append(working, leftBlocks...)

	rightBlocks, err := s.blockifyOrSilent(rightData)
	if err != nil {
		return err
	}
	working = append(working, rightBlocks...)

	working = append(working, s.blocks[tailStart:]...)
	working = finalizeStarts(working)

	newTotal := s.totalSamples - length
	if err := s.consistencyCheck(working, newTotal); err != nil {
		return err
	}
	s.blocks = working
	s.totalSamples = newTotal
	return nil
}

// blockifyOrSilent is blockify, but returns no blocks for an empty buffer
// rather than a single zero-length block.
func (s *Sequence) blockifyOrSilent(buf []float32) ([]Block, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	return s.blockify(buf)
}
