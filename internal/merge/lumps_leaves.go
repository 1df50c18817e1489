package merge

import "github.com/LossyDragon/bspguy/internal/bsp"

// mergeLeaves emits A's world leaves, then all of B's non-solid
// leaves, then A's submodel leaves, publishing ctx.LeavesRemap (for
// B's leaf indices) and ctx.ModelLeafRemap (for A's leaf indices),
// per spec.md §4.5 LEAVES.
func mergeLeaves(ctx *Context, a, b *bsp.Container) error {
	aLeaves, err := a.ReadLeaves()
	if err != nil {
		return err
	}
	bLeaves, err := b.ReadLeaves()
	if err != nil {
		return err
	}
	if len(aLeaves) == 0 || len(bLeaves) == 0 {
		return &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpLeaves), Detail: "map has no leaves"}
	}

	worldEnd := 1 + ctx.ThisWorldLeafCount
	if worldEnd > len(aLeaves) {
		return &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpLeaves), Detail: "world leaf count exceeds leaf lump"}
	}
	worldA := aLeaves[1:worldEnd]
	submodelA := aLeaves[worldEnd:]

	bNonSolid := append([]bsp.Leaf(nil), bLeaves[1:]...)
	for i := range bNonSolid {
		if bNonSolid[i].NumMarkSurfaces > 0 {
			bNonSolid[i].FirstMarkSurface += uint16(ctx.ThisMarksurfCount)
		}
	}

	merged := make([]bsp.Leaf, 0, len(aLeaves)+len(bNonSolid))
	merged = append(merged, aLeaves[0])
	merged = append(merged, worldA...)
	merged = append(merged, bNonSolid...)
	merged = append(merged, submodelA...)

	leavesRemap := make([]int, len(bLeaves))
	for i := range bLeaves {
		if i == 0 {
			leavesRemap[0] = 0
			continue
		}
		leavesRemap[i] = ctx.ThisWorldLeafCount + i
	}

	modelLeafRemap := make([]int, len(aLeaves))
	for i := 0; i <= ctx.ThisWorldLeafCount && i < len(aLeaves); i++ {
		modelLeafRemap[i] = i
	}
	for i := worldEnd; i < len(aLeaves); i++ {
		modelLeafRemap[i] = i + ctx.OtherLeafCount
	}

	if err := checkLimit(bsp.LumpName(bsp.LumpLeaves), len(merged), bsp.MaxMapLeaves); err != nil {
		return err
	}
	ctx.LeavesRemap = leavesRemap
	ctx.ModelLeafRemap = modelLeafRemap
	return a.WriteLeaves(merged)
}
