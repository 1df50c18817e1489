package merge

import "github.com/LossyDragon/bspguy/internal/bsp"

// mergeVis decompresses both maps' PVS into one uncompressed
// visL×rowSize matrix, shifts A's and B's columns into their new
// positions, then recompresses row-by-row and rewrites every leaf's
// vis_offset, per spec.md §4.6. Must run after mergeLeaves (for the
// merged leaf array and remap tables) and mergeModels (uninvolved,
// but VIS is last in the fixed pipeline order regardless).
//
// SPEC_FULL.md/§9 Open Question 4 flags the original's ambiguity over
// whether decompression should use the old (per-source) or new
// (merged) row size; this implementation decompresses each source row
// at its OWN original row size (the only choice a round-trip test
// can pass, since a source map's RLE stream is only valid for that
// many bytes) and then places the result into a zeroed, larger
// destination row before shifting.
func mergeVis(ctx *Context, a, b *bsp.Container) error {
	leaves, err := a.ReadLeaves()
	if err != nil {
		return err
	}

	visLA := ctx.ThisLeafCount - 1
	visLB := ctx.OtherLeafCount
	visL := visLA + visLB
	rowSizeA := bsp.RowSize(visLA)
	rowSizeB := bsp.RowSize(visLB)
	rowSizeFinal := bsp.RowSize(visL)

	matrix := make([][]byte, visL)
	overflowRows := 0

	decodeA := func(leaf bsp.Leaf) []byte {
		row := make([]byte, rowSizeFinal)
		if leaf.VisOffset == -1 {
			setOnes(row, visLA)
		} else {
			copy(row, bsp.DecompressRow(a.Visibility(), int(leaf.VisOffset), rowSizeA))
			maskTail(row, visLA)
		}
		return row
	}
	decodeB := func(leaf bsp.Leaf) []byte {
		row := make([]byte, rowSizeFinal)
		if leaf.VisOffset == -1 {
			setOnes(row, visLB)
		} else {
			copy(row, bsp.DecompressRow(b.Visibility(), int(leaf.VisOffset), rowSizeB))
			maskTail(row, visLB)
		}
		return row
	}

	// Stage 1: A's world-leaf rows, shifted to make room for B's
	// leaves spliced in after them.
	worldA := leaves[1 : 1+ctx.ThisWorldLeafCount]
	for i, leaf := range worldA {
		row := decodeA(leaf)
		if shiftVisRow(row, ctx.ThisWorldLeafCount, visLB) {
			overflowRows++
		}
		matrix[i] = row
	}

	// Stage 3: A's submodel-leaf rows, same shift as stage 1, placed
	// after B's spliced-in rows.
	submodelStart := 1 + ctx.ThisWorldLeafCount + visLB
	submodelA := leaves[submodelStart:]
	for i, leaf := range submodelA {
		row := decodeA(leaf)
		if shiftVisRow(row, ctx.ThisWorldLeafCount, visLB) {
			overflowRows++
		}
		matrix[ctx.ThisWorldLeafCount+visLB+i] = row
	}

	// Stage 4: B's rows, shifted right by this_world_leaf_count bit
	// positions (no low-bit range to preserve).
	bLeaves := leaves[1+ctx.ThisWorldLeafCount : submodelStart]
	for i, leaf := range bLeaves {
		row := decodeB(leaf)
		if shiftVisRow(row, 0, ctx.ThisWorldLeafCount) {
			overflowRows++
		}
		matrix[ctx.ThisWorldLeafCount+i] = row
	}

	// Stage 5: recompress and rebuild vis_offset.
	var compressed []byte
	for i := 0; i < visL; i++ {
		var offset int
		compressed, offset = bsp.CompressRow(compressed, matrix[i])
		leaves[1+i].VisOffset = int32(offset)
	}

	a.WriteVisibility(compressed)
	if err := a.WriteLeaves(leaves); err != nil {
		return err
	}
	if overflowRows > 0 {
		ctx.Diagnostics.add(VisOverflowWarning{Leaves: overflowRows})
	}
	return nil
}

func setOnes(row []byte, validBits int) {
	for i := range row {
		row[i] = 0xff
	}
	maskTail(row, validBits)
}

// maskTail clears every bit at index >= validBits, defending against
// stale 1-bits in a row's padding (spec.md §4.6 "Row-tail cleanup").
func maskTail(row []byte, validBits int) {
	byteIdx := validBits / 8
	bitIdx := uint(validBits % 8)
	if byteIdx >= len(row) {
		return
	}
	row[byteIdx] &= (1 << bitIdx) - 1
	for i := byteIdx + 1; i < len(row); i++ {
		row[i] = 0
	}
}

// shiftVisRow slides bits [shiftOffsetBit, end) of row up by shift
// positions, zero-filling [shiftOffsetBit, shiftOffsetBit+shift) and
// preserving bits [0, shiftOffsetBit) verbatim. Implemented as `shift`
// successive single-bit passes over 64-bit little-endian words so
// per-word carry propagation stays trivial, per spec.md §4.6's
// "Shift-vis primitive". Returns true if a set bit overflowed off the
// end of the row (VisOverflow, non-fatal).
func shiftVisRow(row []byte, shiftOffsetBit, shift int) bool {
	words := bytesToWords(row)
	overflowed := false
	for s := 0; s < shift; s++ {
		if shiftWordsOneBit(words, shiftOffsetBit) {
			overflowed = true
		}
	}
	wordsToBytes(words, row)
	return overflowed
}

func shiftWordsOneBit(words []uint64, shiftOffsetBit int) bool {
	w := shiftOffsetBit / 64
	if w >= len(words) {
		return false
	}
	b := uint(shiftOffsetBit % 64)
	var mask uint64
	if b > 0 {
		mask = (uint64(1) << b) - 1
	}

	orig := words[w]
	low := orig & mask
	high := orig &^ mask
	words[w] = low | ((high << 1) &^ mask)
	carry := (orig >> 63) & 1

	for i := w + 1; i < len(words); i++ {
		next := (words[i] >> 63) & 1
		words[i] = (words[i] << 1) | carry
		carry = next
	}
	return carry != 0
}

func bytesToWords(row []byte) []uint64 {
	words := make([]uint64, len(row)/8)
	for i := range words {
		var w uint64
		for k := 0; k < 8; k++ {
			w |= uint64(row[i*8+k]) << (8 * k)
		}
		words[i] = w
	}
	return words
}

func wordsToBytes(words []uint64, row []byte) {
	for i, w := range words {
		for k := 0; k < 8; k++ {
			row[i*8+k] = byte(w >> (8 * k))
		}
	}
}
