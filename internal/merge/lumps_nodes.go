package merge

import "github.com/LossyDragon/bspguy/internal/bsp"

func encodeLeafChild(leafIdx int) int16 { return ^int16(leafIdx) }
func decodeLeafChild(child int16) int   { return int(^child) }

// mergeNodes prepends head.Node, rewrites A's former nodes' children
// (node indices shift by 1 to make room; leaf indices remap through
// ctx.ModelLeafRemap), and appends B's nodes rewritten (node indices
// shift by ctx.ThisNodeCount+1; leaf indices remap through
// ctx.LeavesRemap; plane through ctx.PlaneRemap), per spec.md §4.5
// NODES. Must run after BuildHeadNodes.
func mergeNodes(ctx *Context, a, b *bsp.Container, head *HeadNodes) error {
	aNodes, err := a.ReadNodes()
	if err != nil {
		return err
	}
	bNodes, err := b.ReadNodes()
	if err != nil {
		return err
	}

	for i := range aNodes {
		for c := 0; c < 2; c++ {
			child := aNodes[i].Children[c]
			if child >= 0 {
				aNodes[i].Children[c] = child + 1
			} else {
				leaf := decodeLeafChild(child)
				if leaf >= len(ctx.ModelLeafRemap) {
					return &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpNodes), Detail: "leaf child out of range"}
				}
				aNodes[i].Children[c] = encodeLeafChild(ctx.ModelLeafRemap[leaf])
			}
		}
	}

	nodeShift := int16(ctx.ThisNodeCount + 1)
	for i := range bNodes {
		for c := 0; c < 2; c++ {
			child := bNodes[i].Children[c]
			if child >= 0 {
				bNodes[i].Children[c] = child + nodeShift
			} else {
				leaf := decodeLeafChild(child)
				if leaf >= len(ctx.LeavesRemap) {
					return &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpNodes), Detail: "leaf child out of range"}
				}
				bNodes[i].Children[c] = encodeLeafChild(ctx.LeavesRemap[leaf])
			}
		}
		if int(bNodes[i].Plane) < len(ctx.PlaneRemap) {
			bNodes[i].Plane = uint32(ctx.PlaneRemap[bNodes[i].Plane])
		}
		if bNodes[i].NumFaces > 0 {
			bNodes[i].FirstFace += uint16(ctx.ThisFaceCount)
		}
	}

	merged := make([]bsp.Node, 0, 1+len(aNodes)+len(bNodes))
	merged = append(merged, head.Node)
	merged = append(merged, aNodes...)
	merged = append(merged, bNodes...)

	if err := checkLimit(bsp.LumpName(bsp.LumpNodes), len(merged), bsp.MaxMapNodes); err != nil {
		return err
	}
	return a.WriteNodes(merged)
}

// clipNodeShiftB is the rebasing applied to B's clipnode positive
// children, head-clipnode routing (headnode.go), and B's submodel
// head_nodes[1:] (mergeModels): the 3 prepended head clipnodes plus
// A's (rebased) clipnode count. spec.md §4.5 CLIPNODES names only
// "this_clipnode_count" for this shift; DESIGN.md records the
// resolution that the HULL_COUNT-1 head-clipnode offset must also be
// included for routing to stay self-consistent with §4.3's explicit
// head-clipnode child formula.
func clipNodeShiftB(ctx *Context) int {
	return ctx.ThisClipnodeCount + (bsp.HullCount - 1)
}

// mergeClipNodes prepends head.ClipNodes, shifts A's former clipnodes'
// positive children by HULL_COUNT-1, and appends B's clipnodes with
// positive children shifted by clipNodeShiftB and plane remapped
// through ctx.PlaneRemap. CONTENTS_* sentinel (negative) children pass
// through unchanged, per spec.md §4.5 CLIPNODES.
func mergeClipNodes(ctx *Context, a, b *bsp.Container, head *HeadNodes) error {
	aCN, err := a.ReadClipNodes()
	if err != nil {
		return err
	}
	bCN, err := b.ReadClipNodes()
	if err != nil {
		return err
	}

	aShift := int16(bsp.HullCount - 1)
	for i := range aCN {
		for c := 0; c < 2; c++ {
			if aCN[i].Children[c] >= 0 {
				aCN[i].Children[c] += aShift
			}
		}
	}

	bShift := int16(clipNodeShiftB(ctx))
	for i := range bCN {
		for c := 0; c < 2; c++ {
			if bCN[i].Children[c] >= 0 {
				bCN[i].Children[c] += bShift
			}
		}
		if int(bCN[i].Plane) < len(ctx.PlaneRemap) {
			bCN[i].Plane = int32(ctx.PlaneRemap[bCN[i].Plane])
		}
	}

	merged := make([]bsp.ClipNode, 0, len(head.ClipNodes)+len(aCN)+len(bCN))
	merged = append(merged, head.ClipNodes...)
	merged = append(merged, aCN...)
	merged = append(merged, bCN...)

	if err := checkLimit(bsp.LumpName(bsp.LumpClipNodes), len(merged), bsp.MaxMapClipnodes); err != nil {
		return err
	}
	return a.WriteClipNodes(merged)
}
