// SPDX-License-Identifier: EPL-2.0

package sequence

import (
	"github.com/ik5/wavecore/blockfile"
	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/waveerr"
)

// copyRef shares a block reference copy-on-write: DirManager-backed refs go
// through Manager.CopyBlock (refcount bump or on-disk copy depending on
// lock state); Silent/ad-hoc refs are simply cloned (no disk footprint).
func (s *Sequence) copyRef(ref blockfile.Ref) (blockfile.Ref, error) {
	if br, ok := ref.(*dirmanager.BlockRef); ok {
		copied, err := s.manager.CopyBlock(br)
		if err != nil {
			return nil, err
		}
		return copied, nil
	}
	return ref.Copy("")
}

// Paste splices other's entire sample content into this sequence at
// position at. Three cases by size: append-at-end by reference, a single
// merged block when the source fits alongside the split block, and the
// general splice.
func (s *Sequence) Paste(at int64, other *Sequence) error {
	if other.totalSamples == 0 {
		return nil
	}
	if at < 0 || at > s.totalSamples {
		return waveerr.Inconsistency("Paste position out of range")
	}

	// Case 1: pasting at the end, onto a full (or absent) last block —
	// just append each source block by reference.
	if at == s.totalSamples {
		n := len(s.blocks)
		if n == 0 || s.blocks[n-1].Len() == s.maxSamples {
			working := append([]Block(nil), s.blocks...)
			for _, ob := range other.blocks {
				newRef, err := s.copyRef(ob.Ref)
				if err != nil {
					return err
				}
				working = append(working, Block{Ref: newRef})
			}
			return s.commitPaste(working, other.totalSamples)
		}
	}

	splitIdx, splitOffset, err := s.splitPoint(at)
	if err != nil {
		return err
	}
	splitBlock := s.blocks[splitIdx]

	// Case 2: the source fits alongside the split block.
	if splitBlock.Len()+other.totalSamples <= s.maxSamples {
		whole, err := readWhole(splitBlock)
		if err != nil {
			return err
		}
		otherAll := make([]float32, other.totalSamples)
		if err := other.Get(otherAll, 0, other.totalSamples); err != nil {
			return err
		}
		merged := make([]float32, 0, int64(len(whole))+other.totalSamples)
		merged = append(merged, whole[:splitOffset]...)
		merged = append(merged, otherAll...)
		merged = append(merged, whole[splitOffset:]...)

		newRef, err := s.manager.NewSimpleBlock(merged, s.format, false)
		if err != nil {
			return err
		}
		working := append([]Block(nil), s.blocks...)
		working[splitIdx] = Block{Ref: newRef}
		return s.commitPaste(working, other.totalSamples)
	}

	// Case 3: general splice.
	whole, err := readWhole(splitBlock)
	if err != nil {
		return err
	}
	prefixPart := whole[:splitOffset]
	suffixPart := whole[splitOffset:]
	prefix := s.blocks[:splitIdx]
	tail := s.blocks[splitIdx+1:]

	var middle []Block
	if len(other.blocks) <= 4 {
		otherAll := make([]float32, other.totalSamples)
		if err := other.Get(otherAll, 0, other.totalSamples); err != nil {
			return err
		}
		buf := make([]float32, 0, int64(len(prefixPart))+other.totalSamples+int64(len(suffixPart)))
		buf = append(buf, prefixPart...)
		buf = append(buf, otherAll...)
		buf = append(buf, suffixPart...)
		middle, err = s.blockify(buf)
		if err != nil {
			return err
		}
	} else {
		firstTwoLen := other.blocks[0].Len() + other.blocks[1].Len()
		firstTwo := make([]float32, firstTwoLen)
		if err := other.Get(firstTwo, 0, firstTwoLen); err != nil {
			return err
		}
		leftBuf := make([]float32, 0, int64(len(prefixPart))+firstTwoLen)
		leftBuf = append(leftBuf, prefixPart...)
		leftBuf = append(leftBuf, firstTwo...)
		leftBlocks, err := s.blockify(leftBuf)
		if err != nil {
			return err
		}

		var middleBlocks []Block
		for _, ob := range other.blocks[2 : len(other.blocks)-2] {
			newRef, err := s.copyRef(ob.Ref)
			if err != nil {
				return err
			}
			middleBlocks = append(middleBlocks, Block{Ref: newRef})
		}

		lastTwoLen := other.blocks[len(other.blocks)-2].Len() + other.blocks[len(other.blocks)-1].Len()
		lastTwoStart := other.totalSamples - lastTwoLen
		lastTwo := make([]float32, lastTwoLen)
		if err := other.Get(lastTwo, lastTwoStart, lastTwoLen); err != nil {
			return err
		}
		rightBuf := make([]float32, 0, lastTwoLen+int64(len(suffixPart)))
		rightBuf = append(rightBuf, lastTwo...)
		rightBuf = append(rightBuf, suffixPart...)
		rightBlocks, err := s.blockify(rightBuf)
		if err != nil {
			return err
		}

		middle = append(middle, leftBlocks...)
		middle = append(middle, middleBlocks...)
		middle = append(middle, rightBlocks...)
	}

	working := make([]Block, 0, len(prefix)+len(middle)+len(tail))
	working = append(working, prefix...)
	working = append(working, middle...)
	working = append(working, tail...)
	return s.commitPaste(working, other.totalSamples)
}

// splitPoint locates the block and in-block offset at logical position at,
// treating at == totalSamples (with a non-full last block) as the end of
// that last block.
func (s *Sequence) splitPoint(at int64) (idx int, offset int64, err error) {
	if len(s.blocks) == 0 {
		return 0, 0, waveerr.Inconsistency("splitPoint on empty sequence")
	}
	if at == s.totalSamples {
		idx = len(s.blocks) - 1
		return idx, s.blocks[idx].Len(), nil
	}
	idx, err = s.findBlock(at)
	if err != nil {
		return 0, 0, err
	}
	return idx, at - s.blocks[idx].Start, nil
}

func (s *Sequence) commitPaste(working []Block, addedSamples int64) error {
	working = finalizeStarts(working)
	newTotal := s.totalSamples + addedSamples
	if err := s.consistencyCheck(working, newTotal); err != nil {
		return err
	}
	s.blocks = working
	s.totalSamples = newTotal
	return nil
}
