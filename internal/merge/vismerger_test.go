package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

func TestShiftVisRowPreservesLowBitsAndMovesHighBits(t *testing.T) {
	row := make([]byte, 16)
	row[0] = 0b00000011 // bits 0,1 set: must stay put (below shiftOffsetBit)
	row[1] = 0b00000001 // bit 8 set: must move to bit 9

	overflow := shiftVisRow(row, 4, 1)
	assert.False(t, overflow)
	assert.Equal(t, byte(0b00000011), row[0]) // bits [0,4) preserved
	assert.Equal(t, byte(0b00000010), row[1]&0b00000011)
	assert.Equal(t, byte(0b00000010), row[1]) // bit 8 moved to bit 9
}

func TestShiftVisRowOverflowWarning(t *testing.T) {
	row := make([]byte, 8)
	row[7] = 0x80 // top bit of the row set

	overflow := shiftVisRow(row, 0, 1)
	assert.True(t, overflow)
	assert.Equal(t, byte(0), row[7]) // shifted off the end, row now all zero
}

func TestShiftVisRowCarriesAcrossWords(t *testing.T) {
	row := make([]byte, 16)
	row[7] = 0x80 // bit 63, the top of word 0

	overflow := shiftVisRow(row, 0, 1)
	assert.False(t, overflow)
	assert.Equal(t, byte(1), row[8]) // carried into bit 64, the low bit of word 1
}

func TestMaskTail(t *testing.T) {
	row := []byte{0xff, 0xff}
	maskTail(row, 10)
	assert.Equal(t, byte(0xff), row[0])
	assert.Equal(t, byte(0b00000011), row[1])
}

// TestMergeVisMasksStalePaddingBits runs a full mergeVis pass where
// both source rows decompress to a real row with a stray 1-bit set
// past their valid leaf range (the padding a well-formed compressor
// never sets, but a stale one might). Without the row-tail mask, that
// stray bit survives the column shift and shows up as false
// over-visibility between unrelated leaves in the merged PVS.
func TestMergeVisMasksStalePaddingBits(t *testing.T) {
	// A: 2 world leaves, no submodels (this_leaf_count = 3: leaf 0 +
	// 2 world leaves), visLA = 2. B: 1 leaf, visLB = 1.
	ctx := &Context{ThisWorldLeafCount: 2, ThisLeafCount: 3, OtherLeafCount: 1}

	// A literal byte 0x24 (bits 2 and 5 set) followed by a 7-byte
	// zero run: decompresses to an 8-byte row whose only set bits
	// (2, 5) lie past visLA=2 and visLB=1 — pure padding.
	strayRow := []byte{0x24, 0x00, 0x07}

	a := &bsp.Container{Name: "a", Version: bsp.BspVersion}
	a.WriteVisibility(strayRow)
	require.NoError(t, a.WriteLeaves([]bsp.Leaf{
		{Contents: bsp.ContentsSolid, VisOffset: -1}, // leaf 0
		{VisOffset: -1},                              // A world leaf 0: fully visible
		{VisOffset: 0},                               // A world leaf 1: the stray-bit row
		{VisOffset: 0},                                // B's spliced-in leaf: the stray-bit row
	}))

	b := &bsp.Container{Name: "b", Version: bsp.BspVersion}
	b.WriteVisibility(strayRow)

	require.NoError(t, mergeVis(ctx, a, b))

	leaves, err := a.ReadLeaves()
	require.NoError(t, err)

	zero := make([]byte, 8)
	rowA := bsp.DecompressRow(a.Visibility(), int(leaves[2].VisOffset), 8)
	assert.Equal(t, zero, rowA, "A's masked row must not leak padding bits after the shift")
	rowB := bsp.DecompressRow(a.Visibility(), int(leaves[3].VisOffset), 8)
	assert.Equal(t, zero, rowB, "B's masked row must not leak padding bits after the shift")
}

func TestSetOnesRespectsValidBits(t *testing.T) {
	row := make([]byte, 8)
	setOnes(row, 10)
	assert.Equal(t, byte(0xff), row[0])
	assert.Equal(t, byte(0b00000011), row[1])
	for i := 2; i < 8; i++ {
		require.Equal(t, byte(0), row[i])
	}
}
