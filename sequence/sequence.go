// SPDX-License-Identifier: EPL-2.0

// Package sequence implements the ordered list of block references at the
// core of the editing engine: Get/Append/SetSamples/Delete/Paste over an
// invariant-preserving array of SeqBlocks.
package sequence

import (
	"fmt"
	"math"

	"github.com/ik5/wavecore/blockfile"
	"github.com/ik5/wavecore/dirmanager"
	"github.com/ik5/wavecore/sampleformat"
	"github.com/ik5/wavecore/waveerr"
)

// Block is a SeqBlock: the cumulative sample index of a block's first
// sample, and the block it refers to. The block's length is always
// block.Ref.Len() — a SeqBlock never refers to a sub-range of a BlockFile.
type Block struct {
	Start int64
	Ref   blockfile.Ref
}

func (b Block) Len() int64 { return b.Ref.Len() }

// Sequence is an ordered run of BlockFiles with contiguous sample indices.
type Sequence struct {
	blocks  []Block
	format  sampleformat.Format
	manager *dirmanager.Manager

	maxDiskBlockSize int64
	minSamples       int64
	maxSamples       int64
	totalSamples     int64
}

// New creates an empty Sequence. maxDiskBlockSize is the byte budget a
// single block file may occupy; minSamples is half of it in samples, and
// maxSamples twice minSamples.
func New(manager *dirmanager.Manager, format sampleformat.Format, maxDiskBlockSize int64) *Sequence {
	sampleSize := int64(sampleformat.BytesPerSample(format))
	minSamples := maxDiskBlockSize / sampleSize / 2
	return &Sequence{
		format:           format,
		manager:          manager,
		maxDiskBlockSize: maxDiskBlockSize,
		minSamples:       minSamples,
		maxSamples:       2 * minSamples,
	}
}

func (s *Sequence) Format() sampleformat.Format  { return s.format }
func (s *Sequence) MinSamples() int64            { return s.minSamples }
func (s *Sequence) MaxSamples() int64            { return s.maxSamples }
func (s *Sequence) TotalSamples() int64          { return s.totalSamples }
func (s *Sequence) NumBlocks() int               { return len(s.blocks) }
func (s *Sequence) BlockAt(i int) Block          { return s.blocks[i] }
func (s *Sequence) Manager() *dirmanager.Manager { return s.manager }
func (s *Sequence) MaxDiskBlockSize() int64      { return s.maxDiskBlockSize }

// LastLenSamples returns the length of the final block, or 0 if empty.
func (s *Sequence) LastLenSamples() int64 {
	if len(s.blocks) == 0 {
		return 0
	}
	return s.blocks[len(s.blocks)-1].Len()
}

// consistencyCheck verifies a candidate block array before it is swapped
// in: start[0]==0,
// start[i]==start[i-1]+len[i-1], len[i]<=maxSamples, and the lengths sum to
// total.
func (s *Sequence) consistencyCheck(blocks []Block, total int64) error {
	return checkConsistency(blocks, total, s.maxSamples)
}

// checkConsistency is consistencyCheck's body, parametrized over maxSamples
// so callers that are about to change a Sequence's block sizing (such as
// ConvertToSampleFormat) can validate a candidate array against the new
// limit before committing any field of s.
func checkConsistency(blocks []Block, total, maxSamples int64) error {
	if len(blocks) == 0 {
		if total != 0 {
			return waveerr.Inconsistency("empty block array but nonzero total")
		}
		return nil
	}
	if blocks[0].Start != 0 {
		return waveerr.Inconsistency("first block does not start at 0")
	}
	var sum int64
	for i, b := range blocks {
		if i > 0 {
			want := blocks[i-1].Start + blocks[i-1].Len()
			if b.Start != want {
				return waveerr.Inconsistency(fmt.Sprintf("block %d start %d, want %d", i, b.Start, want))
			}
		}
		if b.Len() > maxSamples {
			return waveerr.Inconsistency(fmt.Sprintf("block %d length %d exceeds maxSamples %d", i, b.Len(), maxSamples))
		}
		sum += b.Len()
	}
	if sum != total {
		return waveerr.Inconsistency("sum of block lengths does not match total")
	}
	return nil
}

// findBlock performs a dictionary search: an
// interpolation guess refined by comparison, falling back to a linear scan
// if the interpolation path does not converge quickly (guards against
// degenerate configurations rather than looping unboundedly).
func (s *Sequence) findBlock(pos int64) (int, error) {
	if len(s.blocks) == 0 || pos < 0 || pos >= s.totalSamples {
		return -1, waveerr.Inconsistency("position out of range")
	}
	lo, hi := 0, len(s.blocks)-1
	for iter := 0; iter < 64; iter++ {
		if lo == hi {
			return lo, nil
		}
		loStart := s.blocks[lo].Start
		hiStart := s.blocks[hi].Start
		guess := lo
		if hiStart > loStart {
			guess = lo + int(float64(pos-loStart)/float64(hiStart-loStart)*float64(hi-lo))
		}
		if guess < lo {
			guess = lo
		}
		if guess > hi {
			guess = hi
		}
		gStart := s.blocks[guess].Start
		gEnd := gStart + s.blocks[guess].Len()
		switch {
		case pos < gStart:
			if guess-1 < lo {
				hi = lo
			} else {
				hi = guess - 1
			}
		case pos >= gEnd:
			if guess+1 > hi {
				lo = hi
			} else {
				lo = guess + 1
			}
		default:
			return guess, nil
		}
	}
	// Fallback linear scan.
	for i, b := range s.blocks {
		if pos >= b.Start && pos < b.Start+b.Len() {
			return i, nil
		}
	}
	return -1, waveerr.Inconsistency("findBlock failed to converge")
}

// Get performs a streaming read across block boundaries with strong
// exception safety: dst is only meaningful on a nil return.
func (s *Sequence) Get(dst []float32, start, length int64) error {
	if length == 0 {
		return nil
	}
	if start < 0 || length < 0 || start+length > s.totalSamples {
		return waveerr.Inconsistency("Get out of range")
	}
	idx, err := s.findBlock(start)
	if err != nil {
		return err
	}
	pos := start
	remaining := length
	outOff := int64(0)
	for remaining > 0 {
		b := s.blocks[idx]
		offsetInBlock := pos - b.Start
		avail := b.Len() - offsetInBlock
		take := remaining
		if take > avail {
			take = avail
		}
		n, err := b.Ref.ReadData(dst[outOff:outOff+take], offsetInBlock, take, false)
		if err != nil {
			return err
		}
		if int64(n) != take {
			return waveerr.Inconsistency("short block read during Get")
		}
		pos += take
		outOff += take
		remaining -= take
		idx++
	}
	return nil
}

// readWhole reads an entire block's samples into a fresh slice.
func readWhole(b Block) ([]float32, error) {
	n := b.Len()
	buf := make([]float32, n)
	if n == 0 {
		return buf, nil
	}
	read, err := b.Ref.ReadData(buf, 0, n, true)
	if err != nil {
		return nil, err
	}
	if int64(read) != n {
		return nil, waveerr.Inconsistency("short read of whole block")
	}
	return buf, nil
}

// blockify slices buf into ceil(len(buf)/maxSamples) near-equal blocks,
// each written through the DirManager.
func (s *Sequence) blockify(buf []float32) ([]Block, error) {
	return blockifyAt(s.manager, s.format, s.maxSamples, buf)
}

// blockifyAt is blockify's body, parametrized over format/maxSamples so
// ConvertToSampleFormat can re-chunk against a new width before committing
// it to a Sequence.
func blockifyAt(manager *dirmanager.Manager, f sampleformat.Format, maxSamples int64, buf []float32) ([]Block, error) {
	n := int64(len(buf))
	if n == 0 {
		return nil, nil
	}
	numBlocks := int64(math.Ceil(float64(n) / float64(maxSamples)))
	if numBlocks < 1 {
		numBlocks = 1
	}
	base := n / numBlocks
	extra := n % numBlocks

	out := make([]Block, 0, numBlocks)
	pos := int64(0)
	for i := int64(0); i < numBlocks; i++ {
		ln := base
		if i < extra {
			ln++
		}
		chunk := buf[pos : pos+ln]
		ref, err := manager.NewSimpleBlock(chunk, f, false)
		if err != nil {
			return nil, err
		}
		out = append(out, Block{Ref: ref})
		pos += ln
	}
	return finalizeStarts(out), nil
}

// newBlockOrSilent writes data as a Simple block, or returns a Silent block
// of the same (zero) length if data is empty.
func (s *Sequence) newBlockOrSilent(data []float32) (blockfile.Ref, error) {
	if len(data) == 0 {
		return blockfile.NewSilent(0, s.format), nil
	}
	return s.manager.NewSimpleBlock(data, s.format, false)
}

// finalizeStarts recomputes Start for each block from cumulative length,
// leaving Ref untouched.
func finalizeStarts(blocks []Block) []Block {
	var pos int64
	for i := range blocks {
		blocks[i].Start = pos
		pos += blocks[i].Len()
	}
	return blocks
}

// Append concatenates length samples from src. If the last block is shorter
// than minSamples, it is merged with up to maxSamples-worth of new samples
// into a replacement block; the remainder is blockified at maxSamples-sized
// chunks. Strong safety: the new block array is built in scratch, checked,
// then swapped in.
func (s *Sequence) Append(src []float32, length int64) error {
	if length == 0 {
		return nil
	}
	if s.totalSamples > math.MaxInt64-length {
		return waveerr.Inconsistency("Append overflows sample count")
	}

	working := append([]Block(nil), s.blocks...)
	srcOff := int64(0)

	if n := len(working); n > 0 {
		last := working[n-1]
		if last.Len() < s.minSamples {
			oldData, err := readWhole(last)
			if err != nil {
				return err
			}
			take := s.maxSamples - last.Len()
			if take > length {
				take = length
			}
			merged := make([]float32, 0, int64(len(oldData))+take)
			merged = append(merged, oldData...)
			merged = append(merged, src[:take]...)
			newRef, err := s.manager.NewSimpleBlock(merged, s.format, false)
			if err != nil {
				return err
			}
			working[n-1] = Block{Start: last.Start, Ref: newRef}
			srcOff = take
		}
	}

	for srcOff < length {
		end := srcOff + s.maxSamples
		if end > length {
			end = length
		}
		chunk := src[srcOff:end]
		ref, err := s.manager.NewSimpleBlock(chunk, s.format, false)
		if err != nil {
			return err
		}
		startPos := int64(0)
		if len(working) > 0 {
			w := working[len(working)-1]
			startPos = w.Start + w.Len()
		}
		working = append(working, Block{Start: startPos, Ref: ref})
		srcOff = end
	}

	newTotal := s.totalSamples + length
	if err := s.consistencyCheck(working, newTotal); err != nil {
		return err
	}
	s.blocks = working
	s.totalSamples = newTotal
	return nil
}

// SetSamples replaces length samples starting at start with src (or, when
// src is nil, silence — using a Silent block when the replaced range
// exactly covers one existing block). Each affected block is rewritten in
// full: strong safety via scratch-array-then-swap.
func (s *Sequence) SetSamples(src []float32, start, length int64) error {
	if length == 0 {
		return nil
	}
	if start < 0 || start+length > s.totalSamples {
		return waveerr.Inconsistency("SetSamples out of range")
	}

	working := append([]Block(nil), s.blocks...)
	idx, err := s.findBlock(start)
	if err != nil {
		return err
	}

	pos := start
	remaining := length
	srcOff := int64(0)
	for remaining > 0 {
		b := working[idx]
		offsetInBlock := pos - b.Start
		avail := b.Len() - offsetInBlock
		take := remaining
		if take > avail {
			take = avail
		}

		whole, err := readWhole(b)
		if err != nil {
			return err
		}

		var newRef blockfile.Ref
		if src == nil && take == b.Len() {
			newRef = blockfile.NewSilent(b.Len(), s.format)
		} else {
			if src == nil {
				for i := offsetInBlock; i < offsetInBlock+take; i++ {
					whole[i] = 0
				}
			} else {
				copy(whole[offsetInBlock:offsetInBlock+take], src[srcOff:srcOff+take])
			}
			newRef, err = s.manager.NewSimpleBlock(whole, s.format, false)
			if err != nil {
				return err
			}
		}
		working[idx] = Block{Start: b.Start, Ref: newRef}

		pos += take
		remaining -= take
		srcOff += take
		idx++
	}

	if err := s.consistencyCheck(working, s.totalSamples); err != nil {
		return err
	}
	s.blocks = working
	return nil
}
