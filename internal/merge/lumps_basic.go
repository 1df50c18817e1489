package merge

import (
	"bytes"

	"github.com/LossyDragon/bspguy/internal/bsp"
)

// mergePlanes concatenates A∥B, deduping B's entries by full-struct
// equality, and publishes ctx.PlaneRemap (spec.md §4.5 PLANES).
func mergePlanes(ctx *Context, a, b *bsp.Container) error {
	aPlanes, err := a.ReadPlanes()
	if err != nil {
		return err
	}
	bPlanes, err := b.ReadPlanes()
	if err != nil {
		return err
	}

	merged := append([]bsp.Plane(nil), aPlanes...)
	remap := make([]int, len(bPlanes))
	for i, p := range bPlanes {
		idx := -1
		for j, m := range merged {
			if m == p {
				idx = j
				break
			}
		}
		if idx < 0 {
			merged = append(merged, p)
			idx = len(merged) - 1
		}
		remap[i] = idx
	}

	if err := checkLimit(bsp.LumpName(bsp.LumpPlanes), len(merged), bsp.MaxMapPlanes); err != nil {
		return err
	}
	ctx.PlaneRemap = remap
	return a.WritePlanes(merged)
}

// mergeTextures dedups B's miptex blocks against A's by exact byte
// equality of the whole variable-length block and publishes
// ctx.TexRemap (spec.md §4.5 TEXTURES). SPEC_FULL.md/§9 Open Question
// 2 notes the original disables this dedup; it is kept here since
// TexInfoRemap (mergeTexInfo) cleanly absorbs the resulting index
// rewrite, which the original's author did not consider "ready".
func mergeTextures(ctx *Context, a, b *bsp.Container) error {
	aTex, err := a.ReadTextures()
	if err != nil {
		return err
	}
	bTex, err := b.ReadTextures()
	if err != nil {
		return err
	}

	merged := append([]bsp.MipTex(nil), aTex...)
	remap := make([]int, len(bTex))
	for i, t := range bTex {
		idx := -1
		for j, m := range merged {
			if bytes.Equal(m.Raw, t.Raw) {
				idx = j
				break
			}
		}
		if idx < 0 {
			merged = append(merged, t)
			idx = len(merged) - 1
		}
		remap[i] = idx
	}

	ctx.TexRemap = remap
	return a.WriteTextures(merged)
}

// mergeVertices is a pure concatenation (spec.md §4.5 VERTICES).
func mergeVertices(ctx *Context, a, b *bsp.Container) error {
	aVerts, err := a.ReadVertices()
	if err != nil {
		return err
	}
	bVerts, err := b.ReadVertices()
	if err != nil {
		return err
	}
	merged := append(aVerts, bVerts...)
	if err := checkLimit(bsp.LumpName(bsp.LumpVertices), len(merged), bsp.MaxMapVerts); err != nil {
		return err
	}
	return a.WriteVertices(merged)
}

// mergeEdges concatenates, rebasing B's vertex indices by
// ctx.ThisVertCount (spec.md §4.5 EDGES).
func mergeEdges(ctx *Context, a, b *bsp.Container) error {
	aEdges, err := a.ReadEdges()
	if err != nil {
		return err
	}
	bEdges, err := b.ReadEdges()
	if err != nil {
		return err
	}
	for i := range bEdges {
		bEdges[i].V[0] += uint16(ctx.ThisVertCount)
		bEdges[i].V[1] += uint16(ctx.ThisVertCount)
	}
	merged := append(aEdges, bEdges...)
	if err := checkLimit(bsp.LumpName(bsp.LumpEdges), len(merged), bsp.MaxMapEdges); err != nil {
		return err
	}
	return a.WriteEdges(merged)
}

// mergeSurfEdges concatenates, rebasing each B entry by
// ctx.ThisEdgeCount, preserving sign as the reverse-direction flag
// (spec.md §4.5 SURFEDGES).
func mergeSurfEdges(ctx *Context, a, b *bsp.Container) error {
	aSE, err := a.ReadSurfEdges()
	if err != nil {
		return err
	}
	bSE, err := b.ReadSurfEdges()
	if err != nil {
		return err
	}
	for i, s := range bSE {
		if s < 0 {
			bSE[i] = s - bsp.SurfEdge(ctx.ThisEdgeCount)
		} else {
			bSE[i] = s + bsp.SurfEdge(ctx.ThisEdgeCount)
		}
	}
	merged := append(aSE, bSE...)
	if err := checkLimit(bsp.LumpName(bsp.LumpSurfEdges), len(merged), bsp.MaxMapSurfedges); err != nil {
		return err
	}
	return a.WriteSurfEdges(merged)
}

// mergeTexInfo concatenates, rewriting each B entry's miptex index
// through ctx.TexRemap, then dedups by equality, publishing
// ctx.TexInfoRemap (spec.md §4.5 TEXINFO).
func mergeTexInfo(ctx *Context, a, b *bsp.Container) error {
	aTI, err := a.ReadTexInfo()
	if err != nil {
		return err
	}
	bTI, err := b.ReadTexInfo()
	if err != nil {
		return err
	}

	merged := append([]bsp.TexInfo(nil), aTI...)
	remap := make([]int, len(bTI))
	for i, ti := range bTI {
		if int(ti.MipTex) < len(ctx.TexRemap) {
			ti.MipTex = uint32(ctx.TexRemap[ti.MipTex])
		}
		idx := -1
		for j, m := range merged {
			if m == ti {
				idx = j
				break
			}
		}
		if idx < 0 {
			merged = append(merged, ti)
			idx = len(merged) - 1
		}
		remap[i] = idx
	}

	if err := checkLimit(bsp.LumpName(bsp.LumpTexInfo), len(merged), bsp.MaxMapTexinfo); err != nil {
		return err
	}
	ctx.TexInfoRemap = remap
	return a.WriteTexInfo(merged)
}

// mergeFaces concatenates, remapping plane/texinfo and rebasing
// first_surfedge (spec.md §4.5 FACES).
func mergeFaces(ctx *Context, a, b *bsp.Container) error {
	aFaces, err := a.ReadFaces()
	if err != nil {
		return err
	}
	bFaces, err := b.ReadFaces()
	if err != nil {
		return err
	}
	for i := range bFaces {
		f := &bFaces[i]
		if int(f.Plane) < len(ctx.PlaneRemap) {
			f.Plane = uint16(ctx.PlaneRemap[f.Plane])
		}
		f.FirstSurfEdge += int32(ctx.ThisSurfedgeCount)
		if int(f.TexInfo) < len(ctx.TexInfoRemap) {
			f.TexInfo = int16(ctx.TexInfoRemap[f.TexInfo])
		}
	}
	merged := append(aFaces, bFaces...)
	if err := checkLimit(bsp.LumpName(bsp.LumpFaces), len(merged), bsp.MaxMapFaces); err != nil {
		return err
	}
	return a.WriteFaces(merged)
}

// mergeMarkSurfaces concatenates, rebasing each B entry by
// ctx.ThisFaceCount (spec.md §4.5 MARKSURFACES).
func mergeMarkSurfaces(ctx *Context, a, b *bsp.Container) error {
	aMS, err := a.ReadMarkSurfaces()
	if err != nil {
		return err
	}
	bMS, err := b.ReadMarkSurfaces()
	if err != nil {
		return err
	}
	for i := range bMS {
		bMS[i] += bsp.MarkSurface(ctx.ThisFaceCount)
	}
	merged := append(aMS, bMS...)
	if err := checkLimit(bsp.LumpName(bsp.LumpMarkSurfaces), len(merged), bsp.MaxMapMarksurfaces); err != nil {
		return err
	}
	return a.WriteMarkSurfaces(merged)
}
