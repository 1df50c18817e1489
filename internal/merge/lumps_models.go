package merge

import "github.com/LossyDragon/bspguy/internal/bsp"

// mergeModels keeps A's models[0] as the merged worldspawn model,
// appends B's submodels then A's submodels (each rebased to the new
// node/clipnode/face layout), and finally rewrites models[0] to the
// canonical merged head_nodes/vis-leaf/face-count/bbox, per spec.md
// §4.5 MODELS. Must run after mergeNodes and mergeClipNodes.
func mergeModels(ctx *Context, a, b *bsp.Container) error {
	aModels, err := a.ReadModels()
	if err != nil {
		return err
	}
	bModels, err := b.ReadModels()
	if err != nil {
		return err
	}
	if len(aModels) == 0 || len(bModels) == 0 {
		return &LumpCorruptError{Lump: bsp.LumpName(bsp.LumpModels), Detail: "map has no models"}
	}

	world := aModels[0]

	merged := make([]bsp.Model, 0, len(aModels)+len(bModels)-1)
	merged = append(merged, world) // placeholder, rewritten below

	for _, m := range bModels[1:] {
		m.HeadNodes[0] += int32(ctx.ThisNodeCount + 1)
		for h := 1; h < bsp.HullCount; h++ {
			m.HeadNodes[h] += int32(clipNodeShiftB(ctx))
		}
		m.FirstFace += int32(ctx.ThisFaceCount)
		merged = append(merged, m)
	}
	for _, m := range aModels[1:] {
		m.HeadNodes[0] += 1
		for h := 1; h < bsp.HullCount; h++ {
			m.HeadNodes[h] += int32(bsp.HullCount - 1)
		}
		merged = append(merged, m)
	}

	bWorld := bModels[0]
	merged[0].HeadNodes = [bsp.HullCount]int32{0, 0, 1, 2}
	merged[0].NumVisLeafs = world.NumVisLeafs + bWorld.NumVisLeafs
	merged[0].NumFaces = world.NumFaces + bWorld.NumFaces
	merged[0].Mins = componentMinV(world.Mins, bWorld.Mins)
	merged[0].Maxs = componentMax(world.Maxs, bWorld.Maxs)

	if err := checkLimit(bsp.LumpName(bsp.LumpModels), len(merged), bsp.MaxMapModels); err != nil {
		return err
	}
	return a.WriteModels(merged)
}
