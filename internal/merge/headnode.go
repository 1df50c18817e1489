package merge

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

// HeadNodes is the prelude HeadNodeBuilder synthesises: one new BSP
// node and HULL_COUNT-1 new clipnodes that route rays/hulls into A's
// and B's former roots via the separating plane (spec.md §4.3).
type HeadNodes struct {
	Node       bsp.Node
	ClipNodes  []bsp.ClipNode
	PlaneIndex int
}

// BuildHeadNodes appends plane to a's (already A∪B-merged) PLANES lump
// and synthesises the new head node and head clipnodes. It must run
// after the PLANES and LEAVES mergers and before the NODES/CLIPNODES
// mergers, which prepend the results returned here.
func BuildHeadNodes(ctx *Context, a, b *bsp.Container, plane bsp.Plane, swap bool) (*HeadNodes, error) {
	planes, err := a.ReadPlanes()
	if err != nil {
		return nil, err
	}
	planeIndex := len(planes)
	planes = append(planes, plane)
	if err := checkLimit(bsp.LumpName(bsp.LumpPlanes), len(planes), bsp.MaxMapPlanes); err != nil {
		return nil, err
	}
	if err := a.WritePlanes(planes); err != nil {
		return nil, err
	}

	aModels, err := a.ReadModels()
	if err != nil {
		return nil, err
	}
	bModels, err := b.ReadModels()
	if err != nil {
		return nil, err
	}
	aWorld, bWorld := aModels[0], bModels[0]

	childB := ctx.ThisNodeCount + 1
	childA := 1
	if swap {
		childB, childA = childA, childB
	}

	mins := componentMinV(aWorld.Mins, bWorld.Mins)
	maxs := componentMax(aWorld.Maxs, bWorld.Maxs)

	node := bsp.Node{
		Plane:    uint32(planeIndex),
		Children: [2]int16{int16(childB), int16(childA)},
		Mins:     toShortBounds(mins),
		Maxs:     toShortBounds(maxs),
		FirstFace: 0,
		NumFaces:  0,
	}

	clipNodes := make([]bsp.ClipNode, bsp.HullCount-1)
	for h := 0; h < bsp.HullCount-1; h++ {
		cB := int(bWorld.HeadNodes[h+1]) + ctx.ThisClipnodeCount + (bsp.HullCount - 1)
		cA := int(aWorld.HeadNodes[h+1]) + (bsp.HullCount - 1)
		if swap {
			cB, cA = cA, cB
		}
		clipNodes[h] = bsp.ClipNode{
			Plane:    int32(planeIndex),
			Children: [2]int16{int16(cB), int16(cA)},
		}
	}

	return &HeadNodes{Node: node, ClipNodes: clipNodes, PlaneIndex: planeIndex}, nil
}

func componentMinV(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{fmin(a.X(), b.X()), fmin(a.Y(), b.Y()), fmin(a.Z(), b.Z())}
}

func fmin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func toShortBounds(v mgl32.Vec3) [3]int16 {
	return [3]int16{clampInt16Local(v.X()), clampInt16Local(v.Y()), clampInt16Local(v.Z())}
}

func clampInt16Local(f float32) int16 {
	if f > 32767 {
		return 32767
	}
	if f < -32768 {
		return -32768
	}
	return int16(f)
}
