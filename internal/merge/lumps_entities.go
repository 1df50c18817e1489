package merge

import (
	"fmt"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

// mergeEntities concatenates B's entities into A, rewrites A's
// existing "*n" brush-model references to track the models lump, and
// merges B's worldspawn wad list into A's before dropping B's
// worldspawn entirely (spec.md §4.5 ENTITIES).
func mergeEntities(ctx *Context, a, b *bsp.Container) error {
	delta := ctx.OtherModelCount - 1
	for i := range a.Entities {
		model, ok := a.Entities[i].Get("model")
		if !ok {
			continue
		}
		n, ok := bsp.BrushModelIndex(model)
		if !ok {
			continue
		}
		a.Entities[i].Set("model", fmt.Sprintf("*%d", n+delta))
	}

	aWorldIdx := a.Worldspawn()
	bWorldIdx := b.Worldspawn()
	for i, e := range b.Entities {
		if i == bWorldIdx {
			if aWorldIdx >= 0 {
				aWad, _ := a.Entities[aWorldIdx].Get("wad")
				bWad, _ := e.Get("wad")
				if merged := bsp.MergeWadLists(aWad, bWad); merged != "" {
					a.Entities[aWorldIdx].Set("wad", merged)
				}
			}
			continue
		}
		a.Entities = append(a.Entities, e)
	}

	return a.UpdateEntityLump()
}
